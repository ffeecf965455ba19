package ports

import (
	"context"
	"time"
)

type Candidate struct {
	ID                      uint64
	FirstName               string
	LastName                string
	PrimaryEmail            string
	SecondaryEmail          *string
	JoiningDate             time.Time
	CompletedFastStream     bool
	CaringResponsibility    *bool
	LongTermHealthCondition *bool
	JoiningGradeID          *uint64
	AgeRangeID              *uint64
	WorkingPatternID        *uint64
	BeliefID                *uint64
	SexualityID             *uint64
	GenderID                *uint64
	EthnicityID             *uint64
	MainJobTypeID           *uint64
}

// Role is an immutable snapshot of what the candidate's job was from
// DateStarted; it is superseded, never edited.
type Role struct {
	ID             uint64
	CandidateID    uint64
	DateStarted    time.Time
	Title          string
	OrganisationID *uint64
	ProfessionID   *uint64
	LocationID     *uint64
	GradeID        *uint64
	ChangeTypeID   uint64
}

// RoleChangeEvent links a role to its predecessor and records when and why
// the transition happened. The event with the latest change date defines
// the candidate's current role.
type RoleChangeEvent struct {
	ID           uint64
	CandidateID  uint64
	ChangeDate   time.Time
	FormerRoleID *uint64
	NewRoleID    uint64
	ChangeTypeID uint64
}

type Application struct {
	ID                  uint64
	CandidateID         uint64
	SchemeID            uint64
	ApplicationDate     time.Time
	SchemeStartDate     time.Time
	AspirationalGradeID *uint64
	EmployeeNumber      string
	Successful          bool
	Meta                bool
	Delta               bool
	Cohort              int
	Withdrawn           bool
}

type SurveyKind string

const (
	SurveyFLS SurveyKind = "fls"
	SurveySLS SurveyKind = "sls"
)

// LeadershipSurvey is the tagged-variant survey record: common answers on
// the base row, kind-specific answers on exactly one linked payload.
type LeadershipSurvey struct {
	ID              uint64
	ApplicationID   uint64
	Kind            SurveyKind
	ConfidentLeader int
	InspiringLeader int
	WhenNewRole     string
	ConfidenceBuilt int

	FLS *FLSAnswers
	SLS *SLSAnswers
}

type FLSAnswers struct {
	IncreasedVisibility int
}

type SLSAnswers struct {
	WorkDifferently int
	UsingTools      int
	FeelReady       int
}

type CandidateRepository interface {
	CreateCandidate(ctx context.Context, candidate Candidate) (Candidate, error)
	GetCandidate(ctx context.Context, id uint64) (Candidate, error)
	// FindCandidateByEmail matches either the primary or secondary address.
	FindCandidateByEmail(ctx context.Context, email string) (Candidate, error)
	UpdateCandidateEmail(ctx context.Context, id uint64, address string, primary bool) error
	UpdateCandidateName(ctx context.Context, id uint64, firstName string, lastName string) error
	// CandidatesWith is the explicit reverse query for "candidates holding
	// this characteristic value".
	CandidatesWith(ctx context.Context, dim Dimension, valueID uint64) ([]Candidate, error)

	CreateRole(ctx context.Context, role Role) (Role, error)
	GetRole(ctx context.Context, id uint64) (Role, error)
	ListRoles(ctx context.Context, candidateID uint64) ([]Role, error)

	CreateRoleChangeEvent(ctx context.Context, event RoleChangeEvent) (RoleChangeEvent, error)
	// LatestRoleChangeEvent returns the event with the maximum change date,
	// or talent.ErrNoRoleHistory.
	LatestRoleChangeEvent(ctx context.Context, candidateID uint64) (RoleChangeEvent, error)
	ListRoleChangeEvents(ctx context.Context, candidateID uint64) ([]RoleChangeEvent, error)
	// EventForRole returns the event naming the role as its new role.
	EventForRole(ctx context.Context, roleID uint64) (RoleChangeEvent, error)
	// CountEventsOfKind counts events of one change type with change date
	// in [after, before], both inclusive.
	CountEventsOfKind(ctx context.Context, candidateID uint64, changeTypeID uint64, after time.Time, before time.Time) (int64, error)

	CreateApplication(ctx context.Context, application Application) (Application, error)
	// MostRecentApplication orders by application date descending, or
	// talent.ErrNoApplications.
	MostRecentApplication(ctx context.Context, candidateID uint64) (Application, error)
	ListApplications(ctx context.Context, candidateID uint64) ([]Application, error)
	UpdateApplicationSchemeStart(ctx context.Context, applicationID uint64, newStart time.Time) error

	CreateLeadershipSurvey(ctx context.Context, survey LeadershipSurvey) (LeadershipSurvey, error)
	GetLeadershipSurvey(ctx context.Context, id uint64) (LeadershipSurvey, error)
}
