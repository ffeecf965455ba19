package model

// Protected-characteristic dimensions. Each table is a flat value set;
// Ethnicity and MainJobType additionally carry a grouping flag used by
// aggregate reporting.

type Ethnicity struct {
	EthnicityID uint64 `gorm:"column:ethnicity_id;primaryKey;autoIncrement"`
	Value       string `gorm:"column:value;type:text;not null"`
	BAME        bool   `gorm:"column:bame;not null;default:0"`
}

func (Ethnicity) TableName() string {
	return "ethnicities"
}

type Gender struct {
	GenderID uint64 `gorm:"column:gender_id;primaryKey;autoIncrement"`
	Value    string `gorm:"column:value;type:text;not null"`
}

func (Gender) TableName() string {
	return "genders"
}

type Sexuality struct {
	SexualityID uint64 `gorm:"column:sexuality_id;primaryKey;autoIncrement"`
	Value       string `gorm:"column:value;type:text;not null"`
}

func (Sexuality) TableName() string {
	return "sexualities"
}

type Belief struct {
	BeliefID uint64 `gorm:"column:belief_id;primaryKey;autoIncrement"`
	Value    string `gorm:"column:value;type:text;not null"`
}

func (Belief) TableName() string {
	return "beliefs"
}

type WorkingPattern struct {
	WorkingPatternID uint64 `gorm:"column:working_pattern_id;primaryKey;autoIncrement"`
	Value            string `gorm:"column:value;type:text;not null"`
}

func (WorkingPattern) TableName() string {
	return "working_patterns"
}

type AgeRange struct {
	AgeRangeID uint64 `gorm:"column:age_range_id;primaryKey;autoIncrement"`
	Value      string `gorm:"column:value;type:text;not null"`
}

func (AgeRange) TableName() string {
	return "age_ranges"
}

type MainJobType struct {
	MainJobTypeID                uint64 `gorm:"column:main_job_type_id;primaryKey;autoIncrement"`
	Value                        string `gorm:"column:value;type:text;not null"`
	LowerSocioEconomicBackground bool   `gorm:"column:lower_socio_economic_background;not null;default:0"`
}

func (MainJobType) TableName() string {
	return "main_job_types"
}
