package model

// LeadershipSurvey is the base record of the FLS/SLS survey variant pair.
// Kind discriminates which payload table holds the rest of the answers.
type LeadershipSurvey struct {
	LeadershipSurveyID uint64 `gorm:"column:leadership_survey_id;primaryKey;autoIncrement"`
	ApplicationID      uint64 `gorm:"column:application_id;not null;index"`
	Kind               string `gorm:"column:kind;type:text;not null"`
	ConfidentLeader    int    `gorm:"column:confident_leader"`
	InspiringLeader    int    `gorm:"column:inspiring_leader"`
	WhenNewRole        string `gorm:"column:when_new_role;type:text"`
	ConfidenceBuilt    int    `gorm:"column:confidence_built"`
}

func (LeadershipSurvey) TableName() string {
	return "leadership_surveys"
}

type FLSLeadership struct {
	LeadershipSurveyID  uint64 `gorm:"column:leadership_survey_id;primaryKey"`
	IncreasedVisibility int    `gorm:"column:increased_visibility"`
}

func (FLSLeadership) TableName() string {
	return "fls_leaderships"
}

type SLSLeadership struct {
	LeadershipSurveyID uint64 `gorm:"column:leadership_survey_id;primaryKey"`
	WorkDifferently    int    `gorm:"column:work_differently"`
	UsingTools         int    `gorm:"column:using_tools"`
	FeelReady          int    `gorm:"column:feel_ready"`
}

func (SLSLeadership) TableName() string {
	return "sls_leaderships"
}
