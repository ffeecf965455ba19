package model

// Reference dimensions. Display values are immutable reference data:
// seeding writes them once, ingestion only ever creates Organisation rows.

type Grade struct {
	GradeID uint64 `gorm:"column:grade_id;primaryKey;autoIncrement"`
	Value   string `gorm:"column:value;type:text;not null"`
	// Lower rank = more senior.
	Rank int `gorm:"column:rank;not null"`
}

func (Grade) TableName() string {
	return "grades"
}

type Organisation struct {
	OrganisationID       uint64  `gorm:"column:organisation_id;primaryKey;autoIncrement"`
	Name                 string  `gorm:"column:name;type:text;not null;uniqueIndex"`
	ParentOrganisationID *uint64 `gorm:"column:parent_organisation_id"`
	Department           bool    `gorm:"column:department;not null;default:0"`
	ArmsLengthBody       bool    `gorm:"column:arms_length_body;not null;default:0"`
}

func (Organisation) TableName() string {
	return "organisations"
}

type Profession struct {
	ProfessionID uint64 `gorm:"column:profession_id;primaryKey;autoIncrement"`
	Value        string `gorm:"column:value;type:text;not null"`
}

func (Profession) TableName() string {
	return "professions"
}

type Location struct {
	LocationID uint64 `gorm:"column:location_id;primaryKey;autoIncrement"`
	Value      string `gorm:"column:value;type:text;not null"`
	// One of: London, Region, Overseas, Devolved.
	LocationTag string `gorm:"column:location_tag;type:text;index"`
}

func (Location) TableName() string {
	return "locations"
}

type PromotionType struct {
	PromotionTypeID uint64 `gorm:"column:promotion_type_id;primaryKey;autoIncrement"`
	Value           string `gorm:"column:value;type:text;not null;index"`
}

func (PromotionType) TableName() string {
	return "promotion_types"
}

type Scheme struct {
	SchemeID uint64 `gorm:"column:scheme_id;primaryKey;autoIncrement"`
	Name     string `gorm:"column:name;type:text;not null;uniqueIndex"`
}

func (Scheme) TableName() string {
	return "schemes"
}
