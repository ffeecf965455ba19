package model

import "time"

// Role is a snapshot of the job a candidate held from DateStarted. Rows are
// never updated, only superseded by a newer role.
type Role struct {
	RoleID      uint64    `gorm:"column:role_id;primaryKey;autoIncrement"`
	CandidateID uint64    `gorm:"column:candidate_id;not null;index"`
	DateStarted time.Time `gorm:"column:date_started;index"`
	Title       string    `gorm:"column:title;type:text"`

	OrganisationID *uint64 `gorm:"column:organisation_id"`
	ProfessionID   *uint64 `gorm:"column:profession_id"`
	LocationID     *uint64 `gorm:"column:location_id"`
	GradeID        *uint64 `gorm:"column:grade_id"`
	ChangeTypeID   uint64  `gorm:"column:change_type_id;not null"`
}

func (Role) TableName() string {
	return "roles"
}
