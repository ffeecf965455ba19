package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"talenttrack/internal/bootstrap/config"
	"talenttrack/internal/domain/talent"
	"talenttrack/internal/infrastructure/persistence/sqlite/model"
	"talenttrack/internal/infrastructure/persistence/sqlite/repository"
	"talenttrack/internal/infrastructure/persistence/sqlite/uow"
	"talenttrack/internal/ports"
	"talenttrack/internal/usecase/history"
)

const testContract = `
version = 1

[join]
intake_key = "Username"
application_key = "PerID"

[intake.columns]
first_name = "First Name"
last_name = "Last Name"
department = "Department"
gender = "Gender"
current_grade = "Current Grade"
joining_year = "Joining Year"
joining_grade = "Joining Grade"
job_title = "Job Title"
profession = "Profession"
location = "Location"
completed_fast_stream = "Fast Stream"
caring_responsibility = "Caring"
disabled = "Disabled"
cohort = "Cohort"
meta = "Meta"
delta = "Delta"
belief = "Belief"
working_pattern = "Working Pattern"
age_group = "Age Group"
main_job_type = "Main Job Type"

[application.columns]
email = "Email Address"
status = "Status"
sexuality = "Sexuality"
ethnicity = "Ethnicity"
arms_length_body = "ALB"
`

const testIntakeCSV = `Username,First Name,Last Name,Department,Gender,Current Grade,Joining Year,Joining Grade,Job Title,Profession,Location,Fast Stream,Caring,Disabled,Cohort,Meta,Delta,Belief,Working Pattern,Age Group,Main Job Type
p1,Ada,Lovelace,Cabinet Office,Female,Grade 7 (and equivalents),2016,Faststream,Policy Analyst,Policy,London,Yes,No,Yes,2025,meta offer,,No religion,Full time,25-29,Modern professional
p2,Alan,Turing,Home Office,Male,Grade 6,2014,Faststream,,Policy,Manchester,No,Yes,No,2025,,,No religion,Full time,25-29,Modern professional
p3,Grace,Hopper,Home Office,Female,Grade 6,2015,Faststream,Engineer,Policy,London,No,No,No,2025,,,No religion,Full time,25-29,Modern professional
`

const testApplicationCSV = `PerID,Email Address,Status,Sexuality,Ethnicity,ALB
p1,"Ada.Lovelace@gov.uk; ada@example.com",Successful,Heterosexual,White,Not Applicable
p2,alan.turing@gov.uk,Successful,Heterosexual,Unknown Value,Ofsted
`

type ingestFixture struct {
	service    *Service
	candidates ports.CandidateRepository
	lookups    ports.LookupRepository
	audit      ports.AuditRepository
	history    *history.Service

	dir          string
	contractFile string
}

func setupIngestService(t *testing.T) *ingestFixture {
	t.Helper()

	dir := t.TempDir()
	db, err := gorm.Open(gormsqlite.Open(filepath.Join(dir, "ingest.sqlite")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	err = db.AutoMigrate(
		&model.Grade{},
		&model.Organisation{},
		&model.Profession{},
		&model.Location{},
		&model.PromotionType{},
		&model.Scheme{},
		&model.Ethnicity{},
		&model.Gender{},
		&model.Sexuality{},
		&model.Belief{},
		&model.WorkingPattern{},
		&model.AgeRange{},
		&model.MainJobType{},
		&model.Candidate{},
		&model.Role{},
		&model.RoleChangeEvent{},
		&model.Application{},
		&model.User{},
		&model.AuditEvent{},
	)
	if err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	candidates := repository.NewCandidateRepository(db)
	lookups := repository.NewLookupRepository(db)
	audit := repository.NewAuditRepository(db)
	unit := uow.NewUnitOfWork(db)
	hist := history.NewService(candidates, lookups, unit)

	contractFile := writeFixture(t, dir, "contract.toml", testContract)
	cfg := config.Config{Ingest: config.IngestConfig{ContractFile: contractFile}}

	f := &ingestFixture{
		service:      NewService(cfg, candidates, lookups, audit, hist, unit),
		candidates:   candidates,
		lookups:      lookups,
		audit:        audit,
		history:      hist,
		dir:          dir,
		contractFile: contractFile,
	}
	f.seedLookups(t)
	return f
}

func (f *ingestFixture) seedLookups(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	for _, seed := range []talent.Grade{
		{Value: "Grade 6", Rank: 4},
		{Value: "Grade 7", Rank: 5},
		{Value: "Faststream", Rank: 6},
	} {
		if _, err := f.lookups.CreateGrade(ctx, seed); err != nil {
			t.Fatalf("create grade %q: %v", seed.Value, err)
		}
	}
	for _, value := range talent.ChangeTypeValues() {
		if _, err := f.lookups.CreateChangeType(ctx, value); err != nil {
			t.Fatalf("create change type %q: %v", value, err)
		}
	}
	if _, err := f.lookups.CreateScheme(ctx, ports.Scheme{Name: "FLS"}); err != nil {
		t.Fatalf("create scheme: %v", err)
	}
	for _, value := range []string{"London", "Manchester"} {
		if _, err := f.lookups.CreateLocation(ctx, ports.Location{Value: value, Tag: "Region"}); err != nil {
			t.Fatalf("create location %q: %v", value, err)
		}
	}
	if _, err := f.lookups.CreateProfession(ctx, "Policy"); err != nil {
		t.Fatalf("create profession: %v", err)
	}

	dimensionValues := map[ports.Dimension][]string{
		ports.DimensionEthnicity:      {"White"},
		ports.DimensionGender:         {"Female", "Male"},
		ports.DimensionSexuality:      {"Heterosexual"},
		ports.DimensionBelief:         {"No religion"},
		ports.DimensionWorkingPattern: {"Full time"},
		ports.DimensionAgeRange:       {"25-29"},
		ports.DimensionMainJobType:    {"Modern professional"},
	}
	for dim, values := range dimensionValues {
		for _, value := range values {
			if _, err := f.lookups.CreateDimensionValue(ctx, dim, ports.DimensionValueCreate{Value: value}); err != nil {
				t.Fatalf("create %s value %q: %v", dim, value, err)
			}
		}
	}
}

func writeFixture(t *testing.T, dir string, name string, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func (f *ingestFixture) input(t *testing.T, intake string, application string) Input {
	t.Helper()
	return Input{
		IntakePath:      writeFixture(t, f.dir, "intake.csv", intake),
		ApplicationPath: writeFixture(t, f.dir, "application.csv", application),
		SchemeName:      "FLS",
		SchemeStartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRunIngestsSuccessfulRows(t *testing.T) {
	f := setupIngestService(t)
	ctx := context.Background()

	input := f.input(t, testIntakeCSV, testApplicationCSV)
	input.RequestedBy = "ops@gov.uk"

	summary, err := f.service.Run(ctx, input)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.RowsJoined != 3 {
		t.Fatalf("rows joined = %d, want 3", summary.RowsJoined)
	}
	if summary.RowsSuccessful != 2 {
		t.Fatalf("rows successful = %d, want 2", summary.RowsSuccessful)
	}
	if summary.Candidates != 2 {
		t.Fatalf("candidates = %d, want 2", summary.Candidates)
	}

	ada, err := f.candidates.FindCandidateByEmail(ctx, "ada.lovelace@gov.uk")
	if err != nil {
		t.Fatalf("find ada: %v", err)
	}
	if ada.FirstName != "Ada" || ada.LastName != "Lovelace" {
		t.Fatalf("ada name = %q %q", ada.FirstName, ada.LastName)
	}
	if ada.SecondaryEmail == nil || *ada.SecondaryEmail != "ada@example.com" {
		t.Fatalf("ada secondary email = %v, want ada@example.com", ada.SecondaryEmail)
	}
	if want := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC); !ada.JoiningDate.Equal(want) {
		t.Fatalf("ada joining date = %v, want %v", ada.JoiningDate, want)
	}
	if !ada.CompletedFastStream {
		t.Fatal("ada should have completed the fast stream")
	}
	if ada.EthnicityID == nil {
		t.Fatal("ada ethnicity should resolve")
	}

	roles, err := f.candidates.ListRoles(ctx, ada.ID)
	if err != nil {
		t.Fatalf("list ada roles: %v", err)
	}
	if len(roles) != 2 {
		t.Fatalf("ada has %d roles, want 2", len(roles))
	}

	current, err := f.history.CurrentRole(ctx, ada.ID)
	if err != nil {
		t.Fatalf("ada current role: %v", err)
	}
	if current == nil || current.Title != "Policy Analyst" {
		t.Fatalf("ada current role = %+v, want Policy Analyst", current)
	}
	if want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC); !current.DateStarted.Equal(want) {
		t.Fatalf("ada current role start = %v, want %v", current.DateStarted, want)
	}

	grade, err := f.history.CurrentGrade(ctx, ada.ID)
	if err != nil {
		t.Fatalf("ada current grade: %v", err)
	}
	if grade == nil || grade.Value != "Grade 7" {
		t.Fatalf("ada current grade = %+v, want Grade 7 from the truncated cell", grade)
	}

	// ALB of "Not Applicable" keeps the department as the organisation.
	dept, err := f.lookups.FindOrganisationByName(ctx, "Cabinet Office")
	if err != nil {
		t.Fatalf("find cabinet office: %v", err)
	}
	if !dept.Department {
		t.Fatal("Cabinet Office should be created as a department")
	}
	if current.OrganisationID == nil || *current.OrganisationID != dept.ID {
		t.Fatalf("ada organisation = %v, want department %d", current.OrganisationID, dept.ID)
	}

	app, err := f.candidates.MostRecentApplication(ctx, ada.ID)
	if err != nil {
		t.Fatalf("ada application: %v", err)
	}
	if !app.Successful || !app.Meta || app.Delta {
		t.Fatalf("ada application flags = %+v, want successful meta-only", app)
	}
	if app.Cohort != 2025 || app.EmployeeNumber != "p1" {
		t.Fatalf("ada application payload = %+v", app)
	}
	if !app.SchemeStartDate.Equal(input.SchemeStartDate) {
		t.Fatalf("ada scheme start = %v, want %v", app.SchemeStartDate, input.SchemeStartDate)
	}

	events, err := f.audit.ListAuditEvents(ctx, 10)
	if err != nil {
		t.Fatalf("list audit events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d audit events, want 1", len(events))
	}
	if !strings.Contains(events[0].ActionTaken, "FLS") {
		t.Fatalf("audit action = %q, want scheme name in it", events[0].ActionTaken)
	}
}

func TestRunResolvesArmsLengthBody(t *testing.T) {
	f := setupIngestService(t)
	ctx := context.Background()

	if _, err := f.service.Run(ctx, f.input(t, testIntakeCSV, testApplicationCSV)); err != nil {
		t.Fatalf("run: %v", err)
	}

	alan, err := f.candidates.FindCandidateByEmail(ctx, "alan.turing@gov.uk")
	if err != nil {
		t.Fatalf("find alan: %v", err)
	}

	// The ethnicity cell named a value outside the dimension; the reference
	// stays null rather than being substituted.
	if alan.EthnicityID != nil {
		t.Fatalf("alan ethnicity = %v, want nil for an unknown value", alan.EthnicityID)
	}

	current, err := f.history.CurrentRole(ctx, alan.ID)
	if err != nil {
		t.Fatalf("alan current role: %v", err)
	}
	if current == nil {
		t.Fatal("alan has no current role")
	}
	if current.Title != "Not provided" {
		t.Fatalf("alan role title = %q, want the missing-title sentinel", current.Title)
	}

	dept, err := f.lookups.FindOrganisationByName(ctx, "Home Office")
	if err != nil {
		t.Fatalf("find home office: %v", err)
	}
	body, err := f.lookups.FindOrganisationByName(ctx, "Ofsted")
	if err != nil {
		t.Fatalf("find ofsted: %v", err)
	}
	if !body.ArmsLengthBody {
		t.Fatal("Ofsted should be created as an arms-length body")
	}
	if body.ParentID == nil || *body.ParentID != dept.ID {
		t.Fatalf("Ofsted parent = %v, want %d", body.ParentID, dept.ID)
	}
	if current.OrganisationID == nil || *current.OrganisationID != body.ID {
		t.Fatalf("alan organisation = %v, want the arms-length body %d", current.OrganisationID, body.ID)
	}
}

func TestRunRedactsIdentities(t *testing.T) {
	f := setupIngestService(t)
	ctx := context.Background()

	input := f.input(t, testIntakeCSV, testApplicationCSV)
	input.Redact = true

	summary, err := f.service.Run(ctx, input)
	if err != nil {
		t.Fatalf("run redacted: %v", err)
	}
	if summary.Candidates != 2 {
		t.Fatalf("candidates = %d, want 2", summary.Candidates)
	}

	candidate, err := f.candidates.FindCandidateByEmail(ctx, "p1@gov.uk")
	if err != nil {
		t.Fatalf("find redacted candidate: %v", err)
	}
	if candidate.FirstName != "[REDACTED - FIRST NAME]" || candidate.LastName != "[REDACTED - LAST NAME]" {
		t.Fatalf("redacted name = %q %q", candidate.FirstName, candidate.LastName)
	}
	if candidate.SecondaryEmail != nil {
		t.Fatalf("redacted secondary email = %v, want nil", candidate.SecondaryEmail)
	}

	// Every characteristic is an in-set draw, never null and never the
	// free-text cell.
	for name, id := range map[string]*uint64{
		"ethnicity":       candidate.EthnicityID,
		"gender":          candidate.GenderID,
		"sexuality":       candidate.SexualityID,
		"belief":          candidate.BeliefID,
		"working pattern": candidate.WorkingPatternID,
		"age range":       candidate.AgeRangeID,
		"main job type":   candidate.MainJobTypeID,
	} {
		if id == nil {
			t.Fatalf("redacted %s reference is nil, want an in-set draw", name)
		}
	}

	current, err := f.history.CurrentRole(ctx, candidate.ID)
	if err != nil {
		t.Fatalf("redacted current role: %v", err)
	}
	if current == nil || current.Title != "[REDACTED - JOB TITLE]" {
		t.Fatalf("redacted role title = %+v", current)
	}
}

func TestRunRollsBackWholeBatchOnBadRow(t *testing.T) {
	f := setupIngestService(t)
	ctx := context.Background()

	brokenApplication := `PerID,Email Address,Status,Sexuality,Ethnicity,ALB
p1,ada.lovelace@gov.uk,Successful,Heterosexual,White,Not Applicable
p2,,Successful,Heterosexual,White,Not Applicable
`
	summary, err := f.service.Run(ctx, f.input(t, testIntakeCSV, brokenApplication))
	if err == nil {
		t.Fatal("row without an email address should fail the batch")
	}
	if !errors.Is(err, talent.ErrNoEmailAddress) {
		t.Fatalf("got %v, want ErrNoEmailAddress", err)
	}
	if summary.Candidates != 0 {
		t.Fatalf("failed batch reports %d candidates, want 0", summary.Candidates)
	}

	// The good row before the bad one must not survive the rollback.
	if _, err := f.candidates.FindCandidateByEmail(ctx, "ada.lovelace@gov.uk"); !errors.Is(err, talent.ErrCandidateNotFound) {
		t.Fatalf("good row survived rollback: %v", err)
	}
}

func TestRunRejectsUnparsableJoiningYear(t *testing.T) {
	f := setupIngestService(t)
	ctx := context.Background()

	intake := strings.Replace(testIntakeCSV, "2016", "unknown", 1)
	if _, err := f.service.Run(ctx, f.input(t, intake, testApplicationCSV)); err == nil {
		t.Fatal("unparsable joining year should fail the batch")
	}

	if _, err := f.candidates.FindCandidateByEmail(ctx, "alan.turing@gov.uk"); !errors.Is(err, talent.ErrCandidateNotFound) {
		t.Fatalf("sibling row survived rollback: %v", err)
	}
}

func TestLoadContract(t *testing.T) {
	dir := t.TempDir()

	path := writeFixture(t, dir, "contract.toml", testContract)
	contract, err := LoadContract(path)
	if err != nil {
		t.Fatalf("load contract: %v", err)
	}
	if contract.Join.IntakeKey != "Username" || contract.Join.ApplicationKey != "PerID" {
		t.Fatalf("join keys = %+v", contract.Join)
	}
	if contract.Values.SuccessfulStatus != "Successful" {
		t.Fatalf("successful status default = %q", contract.Values.SuccessfulStatus)
	}
	if contract.Grades.PrefixLength != 7 {
		t.Fatalf("grade prefix default = %d", contract.Grades.PrefixLength)
	}
	if got := contract.gradeCode("Grade 7 (and equivalents)"); got != "Grade 7" {
		t.Fatalf("grade code = %q, want Grade 7", got)
	}
	if got := contract.gradeCode("SCS"); got != "SCS" {
		t.Fatalf("short grade code = %q, want SCS", got)
	}

	bad := writeFixture(t, dir, "bad.toml", strings.Replace(testContract, "version = 1", "version = 2", 1))
	if _, err := LoadContract(bad); err == nil {
		t.Fatal("unsupported version should fail")
	}

	missingKey := writeFixture(t, dir, "nokey.toml", strings.Replace(testContract, `application_key = "PerID"`, "", 1))
	if _, err := LoadContract(missingKey); err == nil {
		t.Fatal("missing join key should fail")
	}

	if _, err := LoadContract(""); err == nil {
		t.Fatal("empty path should fail")
	}
}
