package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"talenttrack/internal/bootstrap/config"
	"talenttrack/internal/bootstrap/logging"
	"talenttrack/internal/domain/talent"
	"talenttrack/internal/errs"
	"talenttrack/internal/ports"
	"talenttrack/internal/usecase/history"
)

var (
	errEmptyExtract  = errors.New("extract has no rows")
	errMissingColumn = errors.New("extract is missing a required column")
)

type Service struct {
	cfg        config.IngestConfig
	candidates ports.CandidateRepository
	lookups    ports.LookupRepository
	audit      ports.AuditRepository
	history    *history.Service
	uow        ports.UnitOfWork
}

func NewService(
	cfg config.Config,
	candidates ports.CandidateRepository,
	lookups ports.LookupRepository,
	audit ports.AuditRepository,
	hist *history.Service,
	uow ports.UnitOfWork,
) *Service {
	return &Service{
		cfg:        cfg.Ingest,
		candidates: candidates,
		lookups:    lookups,
		audit:      audit,
		history:    hist,
		uow:        uow,
	}
}

type Input struct {
	IntakePath      string
	ApplicationPath string
	SchemeName      string
	SchemeStartDate time.Time
	Redact          bool

	// ContractFile overrides the configured column contract when set.
	ContractFile string
	// RequestedBy, when set, attributes the batch in the audit trail.
	RequestedBy string
}

type Summary struct {
	BatchID        string
	RowsJoined     int
	RowsSuccessful int
	Candidates     int
}

// Run ingests one cohort: joins the two extracts, keeps the successful
// outcomes, and writes candidate, application and two-entry role history
// rows inside a single transaction. Any row error rolls the whole batch
// back; no partially loaded cohort is ever committed.
func (s *Service) Run(ctx context.Context, input Input) (Summary, error) {
	contractFile := input.ContractFile
	if contractFile == "" {
		contractFile = s.cfg.ContractFile
	}
	contract, err := LoadContract(contractFile)
	if err != nil {
		return Summary{}, errs.Wrap(err, "load column contract")
	}

	batchID := uuid.NewString()
	ctx = logging.WithAttrs(ctx,
		slog.String("component", "usecase.ingest"),
		slog.String("batch_id", batchID),
		slog.String("scheme", input.SchemeName),
	)

	intake, err := loadFrame(input.IntakePath)
	if err != nil {
		return Summary{}, errs.Wrap(err, "read intake extract")
	}
	application, err := loadFrame(input.ApplicationPath)
	if err != nil {
		return Summary{}, errs.Wrap(err, "read application extract")
	}

	intake, err = normalizeFrame(ctx, intake, contract.Join.IntakeKey, contract.Intake.Columns)
	if err != nil {
		return Summary{}, errs.Wrap(err, "normalize intake extract")
	}
	application, err = normalizeFrame(ctx, application, contract.Join.ApplicationKey, contract.Application.Columns)
	if err != nil {
		return Summary{}, errs.Wrap(err, "normalize application extract")
	}

	joined, err := joinExtracts(intake, application, contract.Values.SuccessfulStatus)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		BatchID:        batchID,
		RowsJoined:     intake.Nrow(),
		RowsSuccessful: joined.Nrow(),
	}

	var strategy rowStrategy = standardStrategy{lookups: s.lookups, contract: contract}
	if input.Redact {
		strategy = redactingStrategy{lookups: s.lookups, contract: contract}
	}

	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		scheme, err := s.lookups.FindSchemeByName(txCtx, input.SchemeName)
		if err != nil {
			return errs.Wrap(err, "resolve scheme")
		}
		substantive, err := s.lookups.FindChangeTypeByValue(txCtx, talent.ChangeSubstantive)
		if err != nil {
			return errs.Wrap(err, "resolve substantive change type")
		}

		for _, row := range frameRows(joined) {
			if err := s.ingestRow(txCtx, row, contract, strategy, scheme, input.SchemeStartDate, substantive.ID); err != nil {
				return errs.Wrapf(err, "person %q", row.get(colPersonID))
			}
			summary.Candidates++
		}

		if input.RequestedBy != "" {
			user, err := s.audit.FindOrCreateUser(txCtx, input.RequestedBy)
			if err != nil {
				return errs.Wrap(err, "resolve requesting user")
			}
			action := fmt.Sprintf("ingested %s cohort: batch %s, %d candidates, redacted=%t",
				scheme.Name, batchID, summary.Candidates, input.Redact)
			if err := s.audit.RecordAction(txCtx, user.ID, action); err != nil {
				return errs.Wrap(err, "record ingestion")
			}
		}
		return nil
	})
	if err != nil {
		summary.Candidates = 0
		return summary, err
	}

	logging.Info(ctx, "batch committed",
		slog.Int("rows_joined", summary.RowsJoined),
		slog.Int("rows_successful", summary.RowsSuccessful),
		slog.Int("candidates", summary.Candidates),
	)
	return summary, nil
}

// ingestRow builds one candidate: the shell record, the successful
// application, then the two-role history (first role at the joining date,
// most recent role dated 1 January of the year before the scheme start).
func (s *Service) ingestRow(
	ctx context.Context,
	row rowValues,
	contract Contract,
	strategy rowStrategy,
	scheme ports.Scheme,
	schemeStart time.Time,
	substantiveID uint64,
) error {
	firstName, lastName := strategy.identity(row)

	primary, secondary, err := strategy.emails(row)
	if err != nil {
		return err
	}

	joiningYear, err := strconv.Atoi(row.get(colJoiningYear))
	if err != nil {
		return errs.Wrapf(errMissingColumn, "joining year %q is not a year", row.get(colJoiningYear))
	}
	joiningDate := time.Date(joiningYear, time.January, 1, 0, 0, 0, 0, time.UTC)

	joiningGradeID, err := s.resolveGrade(ctx, row.get(colJoiningGrade))
	if err != nil {
		return err
	}

	candidate := ports.Candidate{
		FirstName:               firstName,
		LastName:                lastName,
		PrimaryEmail:            primary,
		SecondaryEmail:          secondary,
		JoiningDate:             joiningDate,
		CompletedFastStream:     talent.YesIsTrue(row.get(colCompletedFastStream)),
		CaringResponsibility:    talent.TriState(row.get(colCaring)),
		LongTermHealthCondition: talent.TriState(row.get(colDisabled)),
		JoiningGradeID:          joiningGradeID,
	}

	characteristics := []struct {
		dim    ports.Dimension
		column string
		target **uint64
	}{
		{ports.DimensionEthnicity, colEthnicity, &candidate.EthnicityID},
		{ports.DimensionGender, colGender, &candidate.GenderID},
		{ports.DimensionSexuality, colSexuality, &candidate.SexualityID},
		{ports.DimensionBelief, colBelief, &candidate.BeliefID},
		{ports.DimensionWorkingPattern, colWorkingPattern, &candidate.WorkingPatternID},
		{ports.DimensionAgeRange, colAgeGroup, &candidate.AgeRangeID},
		{ports.DimensionMainJobType, colMainJobType, &candidate.MainJobTypeID},
	}
	for _, ch := range characteristics {
		id, err := strategy.characteristic(ctx, ch.dim, row.get(ch.column))
		if err != nil {
			return err
		}
		*ch.target = id
	}

	candidate, err = s.candidates.CreateCandidate(ctx, candidate)
	if err != nil {
		return errs.Wrap(err, "create candidate")
	}

	if _, err := s.candidates.CreateApplication(ctx, ports.Application{
		CandidateID:     candidate.ID,
		SchemeID:        scheme.ID,
		ApplicationDate: time.Now().UTC(),
		SchemeStartDate: schemeStart,
		EmployeeNumber:  row.get(colPersonID),
		Successful:      true,
		Meta:            talent.NonEmpty(row.get(colMeta)),
		Delta:           talent.NonEmpty(row.get(colDelta)),
		Cohort:          atoiOrZero(row.get(colCohort)),
	}); err != nil {
		return errs.Wrap(err, "create application")
	}

	// First role: entry into the service, joining grade, nothing else known.
	if _, err := s.history.NewRole(ctx, history.NewRoleInput{
		CandidateID:  candidate.ID,
		StartDate:    joiningDate,
		Title:        contract.Values.FirstRoleTitle,
		GradeID:      joiningGradeID,
		ChangeTypeID: substantiveID,
	}); err != nil {
		return errs.Wrap(err, "create first role")
	}

	organisationID, err := s.resolveOrganisation(ctx, row.get(colDepartment), row.get(colArmsLengthBody), contract.Values.NotApplicable)
	if err != nil {
		return err
	}
	professionID, err := s.resolveProfession(ctx, row.get(colProfession))
	if err != nil {
		return err
	}
	locationID, err := s.resolveLocation(ctx, row.get(colLocation))
	if err != nil {
		return err
	}
	currentGradeID, err := s.resolveGrade(ctx, contract.gradeCode(row.get(colCurrentGrade)))
	if err != nil {
		return err
	}

	// Most recent role: the job held going into the programme, dated 1
	// January of the year before the scheme starts.
	recentStart := time.Date(schemeStart.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC)
	if _, err := s.history.NewRole(ctx, history.NewRoleInput{
		CandidateID:    candidate.ID,
		StartDate:      recentStart,
		Title:          strategy.roleTitle(row),
		OrganisationID: organisationID,
		ProfessionID:   professionID,
		LocationID:     locationID,
		GradeID:        currentGradeID,
		ChangeTypeID:   substantiveID,
	}); err != nil {
		return errs.Wrap(err, "create most recent role")
	}

	return nil
}

// resolveGrade, resolveProfession and resolveLocation share one policy: an
// empty or unknown value keeps the reference null with a warning, never a
// substituted value. Only Organisation rows are created on demand.

func (s *Service) resolveGrade(ctx context.Context, value string) (*uint64, error) {
	if value == "" {
		return nil, nil
	}
	grade, err := s.lookups.FindGradeByValue(ctx, value)
	if errors.Is(err, talent.ErrUnknownLookupValue) {
		logging.Warn(ctx, "grade value not in dimension", slog.String("value", value))
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(err, "resolve grade")
	}
	return &grade.ID, nil
}

func (s *Service) resolveProfession(ctx context.Context, value string) (*uint64, error) {
	if value == "" {
		return nil, nil
	}
	profession, err := s.lookups.FindProfessionByValue(ctx, value)
	if errors.Is(err, talent.ErrUnknownLookupValue) {
		logging.Warn(ctx, "profession value not in dimension", slog.String("value", value))
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(err, "resolve profession")
	}
	return &profession.ID, nil
}

func (s *Service) resolveLocation(ctx context.Context, value string) (*uint64, error) {
	if value == "" {
		return nil, nil
	}
	location, err := s.lookups.FindLocationByValue(ctx, value)
	if errors.Is(err, talent.ErrUnknownLookupValue) {
		logging.Warn(ctx, "location value not in dimension", slog.String("value", value))
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(err, "resolve location")
	}
	return &location.ID, nil
}

// resolveOrganisation looks up or creates the department, and when the ALB
// cell is a real body (not the not-applicable sentinel) looks it up or
// creates it as an arms-length body parented to the department. The
// candidate's organisation is the ALB when present, else the department.
func (s *Service) resolveOrganisation(ctx context.Context, department string, alb string, notApplicable string) (*uint64, error) {
	if department == "" {
		logging.Warn(ctx, "row has no department")
		return nil, nil
	}

	dept, err := s.findOrCreateOrganisation(ctx, department, ports.Organisation{Name: department, Department: true})
	if err != nil {
		return nil, err
	}

	if alb == "" || alb == notApplicable {
		return &dept.ID, nil
	}

	body, err := s.findOrCreateOrganisation(ctx, alb, ports.Organisation{Name: alb, ArmsLengthBody: true})
	if err != nil {
		return nil, err
	}
	if body.ParentID == nil || *body.ParentID != dept.ID {
		if err := s.lookups.SetOrganisationParent(ctx, body.ID, dept.ID); err != nil {
			return nil, errs.Wrap(err, "link arms-length body to department")
		}
	}
	return &body.ID, nil
}

func (s *Service) findOrCreateOrganisation(ctx context.Context, name string, create ports.Organisation) (ports.Organisation, error) {
	org, err := s.lookups.FindOrganisationByName(ctx, name)
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, talent.ErrUnknownLookupValue) {
		return ports.Organisation{}, errs.Wrap(err, "find organisation")
	}

	org, err = s.lookups.CreateOrganisation(ctx, create)
	if err != nil {
		return ports.Organisation{}, errs.Wrap(err, "create organisation")
	}
	return org, nil
}

func atoiOrZero(cell string) int {
	n, err := strconv.Atoi(cell)
	if err != nil {
		return 0
	}
	return n
}
