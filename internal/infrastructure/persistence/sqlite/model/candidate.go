package model

import "time"

type Candidate struct {
	CandidateID    uint64  `gorm:"column:candidate_id;primaryKey;autoIncrement"`
	FirstName      string  `gorm:"column:first_name;type:text"`
	LastName       string  `gorm:"column:last_name;type:text"`
	PrimaryEmail   string  `gorm:"column:primary_email;type:text;uniqueIndex"`
	SecondaryEmail *string `gorm:"column:secondary_email;type:text;uniqueIndex"`

	JoiningDate         time.Time `gorm:"column:joining_date"`
	CompletedFastStream bool      `gorm:"column:completed_fast_stream;not null;default:0"`

	// Tri-state flags: null means "prefer not to say".
	CaringResponsibility    *bool `gorm:"column:caring_responsibility"`
	LongTermHealthCondition *bool `gorm:"column:long_term_health_condition"`

	JoiningGradeID   *uint64 `gorm:"column:joining_grade_id"`
	AgeRangeID       *uint64 `gorm:"column:age_range_id"`
	WorkingPatternID *uint64 `gorm:"column:working_pattern_id"`
	BeliefID         *uint64 `gorm:"column:belief_id"`
	SexualityID      *uint64 `gorm:"column:sexuality_id"`
	GenderID         *uint64 `gorm:"column:gender_id"`
	EthnicityID      *uint64 `gorm:"column:ethnicity_id"`
	MainJobTypeID    *uint64 `gorm:"column:main_job_type_id"`
}

func (Candidate) TableName() string {
	return "candidates"
}
