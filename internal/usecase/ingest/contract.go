// Package ingest turns the two cohort extracts (an intake roster and an
// application outcomes file) into candidate records, each with an initial
// two-entry role history and a successful application. Which spreadsheet
// columns feed which fields is data-source configuration, kept in a TOML
// contract file rather than in code.
package ingest

import (
	"errors"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Logical column names. The contract maps each one to the header the
// extract actually uses; everything downstream of the join speaks these.
const (
	colPersonID = "person_id"

	colFirstName           = "first_name"
	colLastName            = "last_name"
	colDepartment          = "department"
	colGender              = "gender"
	colDisabled            = "disabled"
	colProfession          = "profession"
	colLocation            = "location"
	colCurrentGrade        = "current_grade"
	colJobTitle            = "job_title"
	colJoiningYear         = "joining_year"
	colJoiningGrade        = "joining_grade"
	colCompletedFastStream = "completed_fast_stream"
	colCaring              = "caring_responsibility"
	colAgeGroup            = "age_group"
	colWorkingPattern      = "working_pattern"
	colBelief              = "belief"
	colMainJobType         = "main_job_type"
	colCohort              = "cohort"
	colMeta                = "meta"
	colDelta               = "delta"

	colEmail          = "email"
	colSexuality      = "sexuality"
	colEthnicity      = "ethnicity"
	colStatus         = "status"
	colArmsLengthBody = "arms_length_body"
)

type joinContract struct {
	IntakeKey      string `toml:"intake_key"`
	ApplicationKey string `toml:"application_key"`
}

type sourceContract struct {
	Columns map[string]string `toml:"columns"`
}

type valueContract struct {
	SuccessfulStatus    string `toml:"successful_status"`
	NotApplicable       string `toml:"not_applicable"`
	MissingTitle        string `toml:"missing_title"`
	FirstRoleTitle      string `toml:"first_role_title"`
	RedactedEmailDomain string `toml:"redacted_email_domain"`
}

type gradeContract struct {
	PrefixLength int `toml:"prefix_length"`
}

// Contract describes the shape of one pair of extracts: join keys, the
// header behind each logical column, the sentinel values, and how much of
// the free-text grade cell is the grade code.
type Contract struct {
	Version     int            `toml:"version"`
	Join        joinContract   `toml:"join"`
	Intake      sourceContract `toml:"intake"`
	Application sourceContract `toml:"application"`
	Values      valueContract  `toml:"values"`
	Grades      gradeContract  `toml:"grades"`
}

func LoadContract(contractFile string) (Contract, error) {
	path := strings.TrimSpace(contractFile)
	if path == "" {
		return Contract{}, errors.New("contract file is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Contract{}, err
	}

	var contract Contract
	if err := toml.Unmarshal(raw, &contract); err != nil {
		return Contract{}, err
	}
	if err := validateContract(contract); err != nil {
		return Contract{}, err
	}
	return applyContractDefaults(contract), nil
}

func validateContract(contract Contract) error {
	if contract.Version != 1 {
		return errors.New("unsupported contract version: expected version = 1")
	}
	if strings.TrimSpace(contract.Join.IntakeKey) == "" {
		return errors.New("join.intake_key is required")
	}
	if strings.TrimSpace(contract.Join.ApplicationKey) == "" {
		return errors.New("join.application_key is required")
	}

	required := []struct {
		source  string
		columns map[string]string
		names   []string
	}{
		{
			source:  "intake",
			columns: contract.Intake.Columns,
			names: []string{
				colFirstName, colLastName, colDepartment, colGender,
				colCurrentGrade, colJoiningYear, colJoiningGrade,
			},
		},
		{
			source:  "application",
			columns: contract.Application.Columns,
			names:   []string{colEmail, colStatus},
		},
	}
	for _, req := range required {
		for _, name := range req.names {
			if strings.TrimSpace(req.columns[name]) == "" {
				return errors.New(req.source + ".columns." + name + " is required")
			}
		}
	}
	return nil
}

func applyContractDefaults(contract Contract) Contract {
	if contract.Values.SuccessfulStatus == "" {
		contract.Values.SuccessfulStatus = "Successful"
	}
	if contract.Values.NotApplicable == "" {
		contract.Values.NotApplicable = "Not Applicable"
	}
	if contract.Values.MissingTitle == "" {
		contract.Values.MissingTitle = "Not provided"
	}
	if contract.Values.FirstRoleTitle == "" {
		contract.Values.FirstRoleTitle = "Not given"
	}
	if contract.Values.RedactedEmailDomain == "" {
		contract.Values.RedactedEmailDomain = "gov.uk"
	}
	if contract.Grades.PrefixLength <= 0 {
		contract.Grades.PrefixLength = 7
	}
	return contract
}

// gradeCode cuts the free-text current-grade cell down to the leading code
// the grade dimension stores ("Grade 7 (and equivalents)" carries more
// text than the lookup value does).
func (c Contract) gradeCode(cell string) string {
	runes := []rune(strings.TrimSpace(cell))
	if len(runes) > c.Grades.PrefixLength {
		runes = runes[:c.Grades.PrefixLength]
	}
	return strings.TrimSpace(string(runes))
}
