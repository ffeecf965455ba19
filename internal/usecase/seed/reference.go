package seed

import "talenttrack/internal/ports"

// Canonical reference data. Seeding is idempotent: values already present
// are left untouched, so re-running seed against a live database never
// rewrites a dimension.

type gradeSeed struct {
	value string
	rank  int
}

// Lower rank is more senior.
var gradeSeeds = []gradeSeed{
	{"Director General", 1},
	{"Director", 2},
	{"Deputy Director", 3},
	{"Grade 6", 4},
	{"Grade 7", 5},
	{"Faststream", 6},
	{"Other", 7},
}

var schemeSeeds = []string{"FLS", "SLS"}

type locationSeed struct {
	value string
	tag   string
}

var locationSeeds = []locationSeed{
	{"London", "London"},
	{"Leeds", "Region"},
	{"Manchester", "Region"},
	{"Bristol", "Region"},
	{"Newcastle", "Region"},
	{"Birmingham", "Region"},
	{"Cardiff", "Devolved"},
	{"Edinburgh", "Devolved"},
	{"Belfast", "Devolved"},
	{"Overseas", "Overseas"},
}

var professionSeeds = []string{
	"Policy",
	"Operational delivery",
	"Digital, data & technology",
	"Finance",
	"Commercial",
	"Human resources",
	"Legal",
	"Communications",
	"Project delivery",
	"Analysis",
}

var organisationSeeds = []string{
	"Cabinet Office",
	"HM Treasury",
	"Home Office",
	"Ministry of Justice",
	"Department for Education",
	"Department of Health & Social Care",
	"Department for Work & Pensions",
	"Department for Transport",
}

// dimensionSeeds lists each characteristic dimension's values. The flag
// feeds the dimension's extra column where it has one (bame for
// ethnicity, lower socio-economic background for main job type).
var dimensionSeeds = map[ports.Dimension][]ports.DimensionValueCreate{
	ports.DimensionEthnicity: {
		{Value: "White British", Flag: false},
		{Value: "White Irish", Flag: false},
		{Value: "White other", Flag: false},
		{Value: "Indian", Flag: true},
		{Value: "Pakistani", Flag: true},
		{Value: "Bangladeshi", Flag: true},
		{Value: "Chinese", Flag: true},
		{Value: "Black African", Flag: true},
		{Value: "Black Caribbean", Flag: true},
		{Value: "Arab", Flag: true},
		{Value: "Mixed", Flag: true},
		{Value: "Other ethnic background", Flag: true},
		{Value: "Prefer not to say", Flag: false},
	},
	ports.DimensionGender: {
		{Value: "Female"},
		{Value: "Male"},
		{Value: "Non-binary"},
		{Value: "Other"},
		{Value: "Prefer not to say"},
	},
	ports.DimensionSexuality: {
		{Value: "Heterosexual/straight"},
		{Value: "Gay/lesbian"},
		{Value: "Bisexual"},
		{Value: "Other"},
		{Value: "Prefer not to say"},
	},
	ports.DimensionBelief: {
		{Value: "No Religion"},
		{Value: "Christian"},
		{Value: "Buddhist"},
		{Value: "Hindu"},
		{Value: "Jewish"},
		{Value: "Muslim"},
		{Value: "Sikh"},
		{Value: "Any other religion"},
		{Value: "Prefer not to say"},
	},
	ports.DimensionWorkingPattern: {
		{Value: "Full time"},
		{Value: "Part time"},
		{Value: "Job share"},
		{Value: "Prefer not to say"},
	},
	ports.DimensionAgeRange: {
		{Value: "Under 25"},
		{Value: "25-29"},
		{Value: "30-34"},
		{Value: "35-39"},
		{Value: "40-44"},
		{Value: "45-49"},
		{Value: "50-54"},
		{Value: "55 or over"},
		{Value: "Prefer not to say"},
	},
	ports.DimensionMainJobType: {
		{Value: "Modern professional occupations", Flag: false},
		{Value: "Senior managers and administrators", Flag: false},
		{Value: "Traditional professional occupations", Flag: false},
		{Value: "Clerical and intermediate occupations", Flag: false},
		{Value: "Technical and craft occupations", Flag: true},
		{Value: "Routine manual and service occupations", Flag: true},
		{Value: "Semi-routine manual and service occupations", Flag: true},
		{Value: "Long-term unemployed", Flag: true},
		{Value: "Prefer not to say", Flag: false},
	},
}
