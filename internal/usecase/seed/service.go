// Package seed loads the reference dimensions a fresh database needs
// before any candidate row can be written, and can optionally populate a
// demo cohort for staging environments.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Pallinder/go-randomdata"

	"talenttrack/internal/bootstrap/logging"
	"talenttrack/internal/domain/talent"
	"talenttrack/internal/errs"
	"talenttrack/internal/ports"
	"talenttrack/internal/usecase/history"
)

const knownCandidateEmail = "staging.candidate@gov.uk"

type Service struct {
	candidates ports.CandidateRepository
	lookups    ports.LookupRepository
	history    *history.Service
	uow        ports.UnitOfWork
}

func NewService(candidates ports.CandidateRepository, lookups ports.LookupRepository, hist *history.Service, uow ports.UnitOfWork) *Service {
	return &Service{
		candidates: candidates,
		lookups:    lookups,
		history:    hist,
		uow:        uow,
	}
}

type Input struct {
	// Demo adds a generated cohort per scheme on top of the reference data.
	Demo bool
	// CohortSize is the number of demo candidates per scheme.
	CohortSize int
}

type Summary struct {
	Candidates int
}

// Run seeds the reference dimensions, idempotently, and when asked adds a
// demo population: one known candidate with a fixed address plus a random
// cohort per scheme, half of whom get a promotion in the current
// programme year.
func (s *Service) Run(ctx context.Context, input Input) (Summary, error) {
	ctx = logging.WithAttrs(ctx, slog.String("component", "usecase.seed"))

	var summary Summary
	err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.seedReference(txCtx); err != nil {
			return err
		}
		if !input.Demo {
			return nil
		}

		count, err := s.seedDemo(txCtx, input.CohortSize)
		if err != nil {
			return err
		}
		summary.Candidates = count
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	logging.Info(ctx, "seed complete", slog.Int("demo_candidates", summary.Candidates))
	return summary, nil
}

func (s *Service) seedReference(ctx context.Context) error {
	for _, value := range talent.ChangeTypeValues() {
		_, err := s.lookups.FindChangeTypeByValue(ctx, value)
		if errors.Is(err, talent.ErrUnknownLookupValue) {
			_, err = s.lookups.CreateChangeType(ctx, value)
		}
		if err != nil {
			return errs.Wrapf(err, "seed change type %q", value)
		}
	}

	for _, name := range schemeSeeds {
		_, err := s.lookups.FindSchemeByName(ctx, name)
		if errors.Is(err, talent.ErrUnknownLookupValue) {
			_, err = s.lookups.CreateScheme(ctx, ports.Scheme{Name: name})
		}
		if err != nil {
			return errs.Wrapf(err, "seed scheme %q", name)
		}
	}

	for _, g := range gradeSeeds {
		_, err := s.lookups.FindGradeByValue(ctx, g.value)
		if errors.Is(err, talent.ErrUnknownLookupValue) {
			_, err = s.lookups.CreateGrade(ctx, talent.Grade{Value: g.value, Rank: g.rank})
		}
		if err != nil {
			return errs.Wrapf(err, "seed grade %q", g.value)
		}
	}

	for _, loc := range locationSeeds {
		_, err := s.lookups.FindLocationByValue(ctx, loc.value)
		if errors.Is(err, talent.ErrUnknownLookupValue) {
			_, err = s.lookups.CreateLocation(ctx, ports.Location{Value: loc.value, Tag: loc.tag})
		}
		if err != nil {
			return errs.Wrapf(err, "seed location %q", loc.value)
		}
	}

	for _, value := range professionSeeds {
		_, err := s.lookups.FindProfessionByValue(ctx, value)
		if errors.Is(err, talent.ErrUnknownLookupValue) {
			_, err = s.lookups.CreateProfession(ctx, value)
		}
		if err != nil {
			return errs.Wrapf(err, "seed profession %q", value)
		}
	}

	for _, name := range organisationSeeds {
		_, err := s.lookups.FindOrganisationByName(ctx, name)
		if errors.Is(err, talent.ErrUnknownLookupValue) {
			_, err = s.lookups.CreateOrganisation(ctx, ports.Organisation{Name: name, Department: true})
		}
		if err != nil {
			return errs.Wrapf(err, "seed organisation %q", name)
		}
	}

	for _, dim := range ports.Dimensions() {
		for _, row := range dimensionSeeds[dim] {
			_, err := s.lookups.FindDimensionValue(ctx, dim, row.Value)
			if errors.Is(err, talent.ErrUnknownLookupValue) {
				_, err = s.lookups.CreateDimensionValue(ctx, dim, row)
			}
			if err != nil {
				return errs.Wrapf(err, "seed %s %q", dim, row.Value)
			}
		}
	}

	return nil
}

func (s *Service) seedDemo(ctx context.Context, cohortSize int) (int, error) {
	if cohortSize <= 0 {
		cohortSize = 100
	}

	// A re-run would trip the unique email on the known candidate; treat
	// its presence as "demo data already loaded".
	if _, err := s.candidates.FindCandidateByEmail(ctx, knownCandidateEmail); err == nil {
		logging.Warn(ctx, "demo population already present, skipping")
		return 0, nil
	} else if !errors.Is(err, talent.ErrCandidateNotFound) {
		return 0, errs.Wrap(err, "check for demo population")
	}

	programmeYear := time.Now().UTC().Year()
	schemeStart := time.Date(programmeYear, time.March, 1, 0, 0, 0, 0, time.UTC)

	if err := s.seedKnownCandidate(ctx, schemeStart); err != nil {
		return 0, err
	}
	created := 1

	for _, schemeName := range schemeSeeds {
		scheme, err := s.lookups.FindSchemeByName(ctx, schemeName)
		if err != nil {
			return 0, errs.Wrapf(err, "resolve scheme %q", schemeName)
		}
		for i := 0; i < cohortSize; i++ {
			promoted := i%2 == 0
			if err := s.seedRandomCandidate(ctx, scheme, schemeStart, promoted); err != nil {
				return 0, err
			}
			created++
		}
	}
	return created, nil
}

func (s *Service) seedKnownCandidate(ctx context.Context, schemeStart time.Time) error {
	scheme, err := s.lookups.FindSchemeByName(ctx, "FLS")
	if err != nil {
		return errs.Wrap(err, "resolve FLS")
	}
	grade, err := s.lookups.FindGradeByValue(ctx, "Faststream")
	if err != nil {
		return errs.Wrap(err, "resolve faststream grade")
	}
	substantive, err := s.lookups.FindChangeTypeByValue(ctx, talent.ChangeSubstantive)
	if err != nil {
		return errs.Wrap(err, "resolve substantive change type")
	}

	secondary := "staging.secondary@gov.uk"
	candidate, err := s.candidates.CreateCandidate(ctx, ports.Candidate{
		FirstName:           "Test",
		LastName:            "Candidate",
		PrimaryEmail:        knownCandidateEmail,
		SecondaryEmail:      &secondary,
		JoiningDate:         time.Date(2015, time.September, 1, 0, 0, 0, 0, time.UTC),
		CompletedFastStream: true,
		JoiningGradeID:      &grade.ID,
	})
	if err != nil {
		return errs.Wrap(err, "create known candidate")
	}

	if _, err := s.candidates.CreateApplication(ctx, ports.Application{
		CandidateID:     candidate.ID,
		SchemeID:        scheme.ID,
		ApplicationDate: time.Now().UTC(),
		SchemeStartDate: schemeStart,
		Successful:      true,
	}); err != nil {
		return errs.Wrap(err, "create known application")
	}

	if _, err := s.history.NewRole(ctx, history.NewRoleInput{
		CandidateID:  candidate.ID,
		StartDate:    candidate.JoiningDate.AddDate(0, 0, 1),
		Title:        "Known role",
		GradeID:      &grade.ID,
		ChangeTypeID: substantive.ID,
	}); err != nil {
		return errs.Wrap(err, "create known role")
	}
	return nil
}

func (s *Service) seedRandomCandidate(ctx context.Context, scheme ports.Scheme, schemeStart time.Time, promoted bool) error {
	firstName := randomdata.FirstName(randomdata.RandomGender)
	lastName := randomdata.LastName()
	email := fmt.Sprintf("%s.%s.%d@gov.uk",
		strings.ToLower(firstName), strings.ToLower(lastName), randomdata.Number(100000, 999999))

	joiningDate := time.Date(randomdata.Number(1990, 2016), time.Month(rand.IntN(12)+1), rand.IntN(28)+1, 0, 0, 0, 0, time.UTC)

	faststream, err := s.lookups.FindGradeByValue(ctx, "Faststream")
	if err != nil {
		return errs.Wrap(err, "resolve faststream grade")
	}

	candidate := ports.Candidate{
		FirstName:               firstName,
		LastName:                lastName,
		PrimaryEmail:            email,
		JoiningDate:             joiningDate,
		CompletedFastStream:     randomdata.Boolean(),
		CaringResponsibility:    randomTriState(),
		LongTermHealthCondition: randomTriState(),
		JoiningGradeID:          &faststream.ID,
	}

	isBame := false
	hasHealthCondition := candidate.LongTermHealthCondition != nil && *candidate.LongTermHealthCondition
	for _, dim := range ports.Dimensions() {
		values, err := s.lookups.ListDimensionValues(ctx, dim)
		if err != nil {
			return errs.Wrapf(err, "list %s values", dim)
		}
		if len(values) == 0 {
			continue
		}
		pick := values[rand.IntN(len(values))]
		switch dim {
		case ports.DimensionEthnicity:
			candidate.EthnicityID = &pick.ID
			for _, seeded := range dimensionSeeds[dim] {
				if seeded.Value == pick.Value {
					isBame = seeded.Flag
				}
			}
		case ports.DimensionGender:
			candidate.GenderID = &pick.ID
		case ports.DimensionSexuality:
			candidate.SexualityID = &pick.ID
		case ports.DimensionBelief:
			candidate.BeliefID = &pick.ID
		case ports.DimensionWorkingPattern:
			candidate.WorkingPatternID = &pick.ID
		case ports.DimensionAgeRange:
			candidate.AgeRangeID = &pick.ID
		case ports.DimensionMainJobType:
			candidate.MainJobTypeID = &pick.ID
		}
	}

	candidate, err = s.candidates.CreateCandidate(ctx, candidate)
	if err != nil {
		return errs.Wrap(err, "create demo candidate")
	}

	// The meta/delta development offers skew toward the groups they exist
	// to support, with a coin flip inside each group.
	if _, err := s.candidates.CreateApplication(ctx, ports.Application{
		CandidateID:     candidate.ID,
		SchemeID:        scheme.ID,
		ApplicationDate: time.Now().UTC(),
		SchemeStartDate: schemeStart,
		Successful:      true,
		Meta:            isBame && randomdata.Boolean(),
		Delta:           hasHealthCondition && randomdata.Boolean(),
	}); err != nil {
		return errs.Wrap(err, "create demo application")
	}

	substantive, err := s.lookups.FindChangeTypeByValue(ctx, talent.ChangeSubstantive)
	if err != nil {
		return errs.Wrap(err, "resolve substantive change type")
	}
	entryGrade, err := s.lookups.FindGradeByValue(ctx, "Grade 7")
	if err != nil {
		return errs.Wrap(err, "resolve entry grade")
	}

	org, location, profession, err := s.randomRoleRefs(ctx)
	if err != nil {
		return err
	}

	if _, err := s.history.NewRole(ctx, history.NewRoleInput{
		CandidateID:    candidate.ID,
		StartDate:      time.Date(schemeStart.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC),
		Title:          "Demo role",
		OrganisationID: org,
		ProfessionID:   profession,
		LocationID:     location,
		GradeID:        &entryGrade.ID,
		ChangeTypeID:   substantive.ID,
	}); err != nil {
		return errs.Wrap(err, "create demo role")
	}

	if !promoted {
		return nil
	}

	kinds := []string{talent.ChangeSubstantive, talent.ChangeTemporary, talent.ChangeLevelTransfer}
	kind, err := s.lookups.FindChangeTypeByValue(ctx, kinds[rand.IntN(len(kinds))])
	if err != nil {
		return errs.Wrap(err, "resolve promotion change type")
	}
	nextGrade, err := s.lookups.FindGradeByValue(ctx, "Grade 6")
	if err != nil {
		return errs.Wrap(err, "resolve promotion grade")
	}

	if _, err := s.history.NewRole(ctx, history.NewRoleInput{
		CandidateID:    candidate.ID,
		StartDate:      schemeStart.AddDate(0, 3, 0),
		Title:          "Promoted demo role",
		OrganisationID: org,
		ProfessionID:   profession,
		LocationID:     location,
		GradeID:        &nextGrade.ID,
		ChangeTypeID:   kind.ID,
	}); err != nil {
		return errs.Wrap(err, "create promoted demo role")
	}
	return nil
}

func (s *Service) randomRoleRefs(ctx context.Context) (*uint64, *uint64, *uint64, error) {
	orgs, err := s.lookups.ListOrganisations(ctx)
	if err != nil {
		return nil, nil, nil, errs.Wrap(err, "list organisations")
	}
	locations, err := s.lookups.ListLocations(ctx)
	if err != nil {
		return nil, nil, nil, errs.Wrap(err, "list locations")
	}
	professions, err := s.lookups.ListProfessions(ctx)
	if err != nil {
		return nil, nil, nil, errs.Wrap(err, "list professions")
	}

	var org, location, profession *uint64
	if len(orgs) > 0 {
		org = &orgs[rand.IntN(len(orgs))].ID
	}
	if len(locations) > 0 {
		location = &locations[rand.IntN(len(locations))].ID
	}
	if len(professions) > 0 {
		profession = &professions[rand.IntN(len(professions))].ID
	}
	return org, location, profession, nil
}

func randomTriState() *bool {
	switch rand.IntN(3) {
	case 0:
		v := true
		return &v
	case 1:
		v := false
		return &v
	default:
		return nil
	}
}
