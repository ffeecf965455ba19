package model

import "time"

type Application struct {
	ApplicationID       uint64    `gorm:"column:application_id;primaryKey;autoIncrement"`
	CandidateID         uint64    `gorm:"column:candidate_id;not null;index"`
	SchemeID            uint64    `gorm:"column:scheme_id;not null"`
	ApplicationDate     time.Time `gorm:"column:application_date"`
	SchemeStartDate     time.Time `gorm:"column:scheme_start_date;index"`
	AspirationalGradeID *uint64   `gorm:"column:aspirational_grade_id"`
	EmployeeNumber      string    `gorm:"column:employee_number;type:text"`
	Successful          bool      `gorm:"column:successful;not null;default:0"`
	Meta                bool      `gorm:"column:meta;not null;default:0"`
	Delta               bool      `gorm:"column:delta;not null;default:0"`
	Cohort              int       `gorm:"column:cohort"`
	Withdrawn           bool      `gorm:"column:withdrawn;not null;default:0"`
}

func (Application) TableName() string {
	return "applications"
}
