package ports

import (
	"context"

	"talenttrack/internal/domain/talent"
)

// Dimension names a protected-characteristic lookup table that can be
// queried generically: by exact display value, or enumerated in full.
type Dimension string

const (
	DimensionEthnicity      Dimension = "ethnicity"
	DimensionGender         Dimension = "gender"
	DimensionSexuality      Dimension = "sexuality"
	DimensionBelief         Dimension = "belief"
	DimensionWorkingPattern Dimension = "working_pattern"
	DimensionAgeRange       Dimension = "age_range"
	DimensionMainJobType    Dimension = "main_job_type"
)

// Dimensions lists the reportable characteristic dimensions in their
// natural enumeration order.
func Dimensions() []Dimension {
	return []Dimension{
		DimensionEthnicity,
		DimensionGender,
		DimensionSexuality,
		DimensionBelief,
		DimensionWorkingPattern,
		DimensionAgeRange,
		DimensionMainJobType,
	}
}

// LookupValue is one row of a characteristic dimension.
type LookupValue struct {
	ID    uint64
	Value string
}

type Organisation struct {
	ID             uint64
	Name           string
	ParentID       *uint64
	Department     bool
	ArmsLengthBody bool
}

type Location struct {
	ID    uint64
	Value string
	Tag   string
}

type Scheme struct {
	ID   uint64
	Name string
}

type ChangeType struct {
	ID    uint64
	Value string
}

// LookupRepository serves the reference dimensions. Display values are
// immutable once seeded; only Organisation rows may be created on demand.
type LookupRepository interface {
	ListGrades(ctx context.Context) ([]talent.Grade, error)
	FindGradeByValue(ctx context.Context, value string) (talent.Grade, error)
	CreateGrade(ctx context.Context, grade talent.Grade) (talent.Grade, error)

	FindSchemeByName(ctx context.Context, name string) (Scheme, error)
	GetScheme(ctx context.Context, id uint64) (Scheme, error)
	CreateScheme(ctx context.Context, scheme Scheme) (Scheme, error)

	FindChangeTypeByValue(ctx context.Context, value string) (ChangeType, error)
	GetChangeType(ctx context.Context, id uint64) (ChangeType, error)
	ListChangeTypes(ctx context.Context) ([]ChangeType, error)
	CreateChangeType(ctx context.Context, value string) (ChangeType, error)

	FindOrganisationByName(ctx context.Context, name string) (Organisation, error)
	CreateOrganisation(ctx context.Context, org Organisation) (Organisation, error)
	SetOrganisationParent(ctx context.Context, orgID uint64, parentID uint64) error
	ListOrganisations(ctx context.Context) ([]Organisation, error)

	FindLocationByValue(ctx context.Context, value string) (Location, error)
	CreateLocation(ctx context.Context, loc Location) (Location, error)
	ListLocations(ctx context.Context) ([]Location, error)

	FindProfessionByValue(ctx context.Context, value string) (LookupValue, error)
	CreateProfession(ctx context.Context, value string) (LookupValue, error)
	ListProfessions(ctx context.Context) ([]LookupValue, error)

	FindDimensionValue(ctx context.Context, dim Dimension, value string) (LookupValue, error)
	ListDimensionValues(ctx context.Context, dim Dimension) ([]LookupValue, error)
	CreateDimensionValue(ctx context.Context, dim Dimension, row DimensionValueCreate) (LookupValue, error)
}

// DimensionValueCreate seeds one dimension row. The boolean flag feeds the
// dimension-specific column (bame, lower socio-economic background) where
// the dimension has one.
type DimensionValueCreate struct {
	Value string
	Flag  bool
}
