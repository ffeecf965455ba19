package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"talenttrack/internal/domain/talent"
	"talenttrack/internal/infrastructure/persistence/sqlite/model"
	"talenttrack/internal/infrastructure/persistence/sqlite/repository"
	"talenttrack/internal/infrastructure/persistence/sqlite/uow"
	"talenttrack/internal/ports"
)

type historyFixture struct {
	service    *Service
	candidates ports.CandidateRepository
	lookups    ports.LookupRepository

	grades      map[string]talent.Grade
	changeTypes map[string]ports.ChangeType
}

func setupHistoryService(t *testing.T) *historyFixture {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "history.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
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
		&model.Candidate{},
		&model.Role{},
		&model.RoleChangeEvent{},
		&model.Application{},
	)
	if err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	candidates := repository.NewCandidateRepository(db)
	lookups := repository.NewLookupRepository(db)

	ctx := context.Background()
	fixture := &historyFixture{
		service:     NewService(candidates, lookups, uow.NewUnitOfWork(db)),
		candidates:  candidates,
		lookups:     lookups,
		grades:      make(map[string]talent.Grade),
		changeTypes: make(map[string]ports.ChangeType),
	}

	for _, seed := range []talent.Grade{
		{Value: "Deputy Director", Rank: 3},
		{Value: "Grade 6", Rank: 4},
		{Value: "Grade 7", Rank: 5},
	} {
		grade, err := lookups.CreateGrade(ctx, seed)
		if err != nil {
			t.Fatalf("create grade %q: %v", seed.Value, err)
		}
		fixture.grades[grade.Value] = grade
	}
	for _, value := range talent.ChangeTypeValues() {
		kind, err := lookups.CreateChangeType(ctx, value)
		if err != nil {
			t.Fatalf("create change type %q: %v", value, err)
		}
		fixture.changeTypes[value] = kind
	}
	return fixture
}

func (f *historyFixture) newCandidate(t *testing.T, email string) ports.Candidate {
	t.Helper()

	candidate, err := f.candidates.CreateCandidate(context.Background(), ports.Candidate{
		FirstName:    "Test",
		LastName:     "Candidate",
		PrimaryEmail: email,
		JoiningDate:  time.Date(2016, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create candidate: %v", err)
	}
	return candidate
}

func (f *historyFixture) newRole(t *testing.T, candidateID uint64, start time.Time, gradeValue string, kind string) ports.Role {
	t.Helper()

	input := NewRoleInput{
		CandidateID:  candidateID,
		StartDate:    start,
		Title:        "Role",
		ChangeTypeID: f.changeTypes[kind].ID,
	}
	if gradeValue != "" {
		id := f.grades[gradeValue].ID
		input.GradeID = &id
	}
	role, err := f.service.NewRole(context.Background(), input)
	if err != nil {
		t.Fatalf("new role: %v", err)
	}
	return role
}

func TestNewRoleChainsFormerRole(t *testing.T) {
	f := setupHistoryService(t)
	ctx := context.Background()
	candidate := f.newCandidate(t, "chain@gov.uk")

	first := f.newRole(t, candidate.ID, time.Date(2016, 9, 1, 0, 0, 0, 0, time.UTC), "Grade 7", talent.ChangeSubstantive)
	second := f.newRole(t, candidate.ID, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), "Grade 6", talent.ChangeSubstantive)

	firstEvent, err := f.candidates.EventForRole(ctx, first.ID)
	if err != nil {
		t.Fatalf("event for first role: %v", err)
	}
	if firstEvent.FormerRoleID != nil {
		t.Fatalf("first role former = %v, want nil", firstEvent.FormerRoleID)
	}

	secondEvent, err := f.candidates.EventForRole(ctx, second.ID)
	if err != nil {
		t.Fatalf("event for second role: %v", err)
	}
	if secondEvent.FormerRoleID == nil || *secondEvent.FormerRoleID != first.ID {
		t.Fatalf("second role former = %v, want %d", secondEvent.FormerRoleID, first.ID)
	}

	current, err := f.service.CurrentRole(ctx, candidate.ID)
	if err != nil {
		t.Fatalf("current role: %v", err)
	}
	if current == nil || current.ID != second.ID {
		t.Fatalf("current role = %v, want %d", current, second.ID)
	}
}

func TestCurrentRoleAndGradeWithoutHistory(t *testing.T) {
	f := setupHistoryService(t)
	ctx := context.Background()
	candidate := f.newCandidate(t, "empty@gov.uk")

	role, err := f.service.CurrentRole(ctx, candidate.ID)
	if err != nil {
		t.Fatalf("current role: %v", err)
	}
	if role != nil {
		t.Fatalf("current role = %+v, want nil", role)
	}

	grade, err := f.service.CurrentGrade(ctx, candidate.ID)
	if err != nil {
		t.Fatalf("current grade: %v", err)
	}
	if grade != nil {
		t.Fatalf("current grade = %+v, want nil", grade)
	}
}

func TestCurrentGradeAndLocation(t *testing.T) {
	f := setupHistoryService(t)
	ctx := context.Background()
	candidate := f.newCandidate(t, "refs@gov.uk")

	location, err := f.lookups.CreateLocation(ctx, ports.Location{Value: "Leeds", Tag: "Region"})
	if err != nil {
		t.Fatalf("create location: %v", err)
	}

	gradeID := f.grades["Grade 6"].ID
	if _, err := f.service.NewRole(ctx, NewRoleInput{
		CandidateID:  candidate.ID,
		StartDate:    time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC),
		Title:        "Delivery Manager",
		GradeID:      &gradeID,
		LocationID:   &location.ID,
		ChangeTypeID: f.changeTypes[talent.ChangeSubstantive].ID,
	}); err != nil {
		t.Fatalf("new role: %v", err)
	}

	grade, err := f.service.CurrentGrade(ctx, candidate.ID)
	if err != nil {
		t.Fatalf("current grade: %v", err)
	}
	if grade == nil || grade.Value != "Grade 6" {
		t.Fatalf("current grade = %+v, want Grade 6", grade)
	}

	got, err := f.service.CurrentLocation(ctx, candidate.ID)
	if err != nil {
		t.Fatalf("current location: %v", err)
	}
	if got == nil || got.Value != "Leeds" {
		t.Fatalf("current location = %+v, want Leeds", got)
	}
}

func TestIsPromotion(t *testing.T) {
	f := setupHistoryService(t)
	ctx := context.Background()

	t.Run("grade gain is a promotion", func(t *testing.T) {
		candidate := f.newCandidate(t, "up@gov.uk")
		f.newRole(t, candidate.ID, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), "Grade 7", talent.ChangeSubstantive)
		promoted := f.newRole(t, candidate.ID, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), "Grade 6", talent.ChangeSubstantive)

		got, err := f.service.IsPromotion(ctx, promoted.ID)
		if err != nil {
			t.Fatalf("is promotion: %v", err)
		}
		if !got {
			t.Fatal("Grade 7 to Grade 6 should be a promotion")
		}
	})

	t.Run("grade loss is not", func(t *testing.T) {
		candidate := f.newCandidate(t, "down@gov.uk")
		f.newRole(t, candidate.ID, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), "Grade 6", talent.ChangeSubstantive)
		demoted := f.newRole(t, candidate.ID, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), "Grade 7", talent.ChangeDemotion)

		got, err := f.service.IsPromotion(ctx, demoted.ID)
		if err != nil {
			t.Fatalf("is promotion: %v", err)
		}
		if got {
			t.Fatal("Grade 6 to Grade 7 should not be a promotion")
		}
	})

	t.Run("first role has no comparison", func(t *testing.T) {
		candidate := f.newCandidate(t, "first@gov.uk")
		only := f.newRole(t, candidate.ID, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), "Grade 7", talent.ChangeSubstantive)

		_, err := f.service.IsPromotion(ctx, only.ID)
		if !errors.Is(err, talent.ErrFirstRole) {
			t.Fatalf("first role: got %v, want ErrFirstRole", err)
		}
	})

	t.Run("missing grade reference is never a promotion", func(t *testing.T) {
		candidate := f.newCandidate(t, "nograde@gov.uk")
		f.newRole(t, candidate.ID, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), "", talent.ChangeSubstantive)
		next := f.newRole(t, candidate.ID, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), "Grade 6", talent.ChangeSubstantive)

		got, err := f.service.IsPromotion(ctx, next.ID)
		if err != nil {
			t.Fatalf("is promotion: %v", err)
		}
		if got {
			t.Fatal("promotion without a former grade should be false")
		}
	})
}

func TestPromotedBetween(t *testing.T) {
	f := setupHistoryService(t)
	ctx := context.Background()

	after := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	candidate := f.newCandidate(t, "between@gov.uk")
	f.newRole(t, candidate.ID, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), "Grade 7", talent.ChangeSubstantive)
	f.newRole(t, candidate.ID, after, "Grade 6", talent.ChangeSubstantive)

	got, err := f.service.PromotedBetween(ctx, candidate.ID, after, before, false)
	if err != nil {
		t.Fatalf("promoted between: %v", err)
	}
	if !got {
		t.Fatal("substantive event on the lower boundary should count")
	}

	// Kind exactness: the substantive event never satisfies a temporary query.
	got, err = f.service.PromotedBetween(ctx, candidate.ID, after, before, true)
	if err != nil {
		t.Fatalf("promoted between temporary: %v", err)
	}
	if got {
		t.Fatal("substantive promotion should not satisfy a temporary query")
	}

	// Level transfers never count as promotions of either kind.
	transfer := f.newCandidate(t, "transfer@gov.uk")
	f.newRole(t, transfer.ID, after.AddDate(0, 1, 0), "Grade 6", talent.ChangeLevelTransfer)
	got, err = f.service.PromotedBetween(ctx, transfer.ID, after, before, false)
	if err != nil {
		t.Fatalf("promoted between transfer: %v", err)
	}
	if got {
		t.Fatal("level transfer should not count as a promotion")
	}

	// The window excludes events dated just outside either boundary.
	outside := f.newCandidate(t, "outside@gov.uk")
	f.newRole(t, outside.ID, after.AddDate(0, 0, -1), "Grade 6", talent.ChangeSubstantive)
	f.newRole(t, outside.ID, before.AddDate(0, 0, 1), "Deputy Director", talent.ChangeSubstantive)
	got, err = f.service.PromotedBetween(ctx, outside.ID, after, before, false)
	if err != nil {
		t.Fatalf("promoted between outside: %v", err)
	}
	if got {
		t.Fatal("events outside the window should not count")
	}

	// A zero before defaults to now, so a recent event matches.
	got, err = f.service.PromotedBetween(ctx, outside.ID, after, time.Time{}, false)
	if err != nil {
		t.Fatalf("promoted between open window: %v", err)
	}
	if !got {
		t.Fatal("open-ended window should include events after the fixed end")
	}

	// An inverted window matches nothing.
	got, err = f.service.PromotedBetween(ctx, candidate.ID, before, after, false)
	if err != nil {
		t.Fatalf("promoted between inverted: %v", err)
	}
	if got {
		t.Fatal("inverted window should match nothing")
	}
}

func TestUpdateEmailNormalisesCase(t *testing.T) {
	f := setupHistoryService(t)
	ctx := context.Background()
	candidate := f.newCandidate(t, "case@gov.uk")

	if err := f.service.UpdateEmail(ctx, candidate.ID, "  New.Address@GOV.UK ", true); err != nil {
		t.Fatalf("update email: %v", err)
	}

	got, err := f.service.FindByEmail(ctx, "NEW.ADDRESS@gov.uk")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if got.ID != candidate.ID {
		t.Fatalf("found candidate %d, want %d", got.ID, candidate.ID)
	}
	if got.PrimaryEmail != "new.address@gov.uk" {
		t.Fatalf("stored email = %q, want lowercased", got.PrimaryEmail)
	}

	if err := f.service.UpdateEmail(ctx, candidate.ID, "   ", true); !errors.Is(err, talent.ErrNoEmailAddress) {
		t.Fatalf("blank address: got %v, want ErrNoEmailAddress", err)
	}
}

func TestDeferIntake(t *testing.T) {
	f := setupHistoryService(t)
	ctx := context.Background()

	scheme, err := f.lookups.CreateScheme(ctx, ports.Scheme{Name: "FLS"})
	if err != nil {
		t.Fatalf("create scheme: %v", err)
	}

	candidate := f.newCandidate(t, "defer@gov.uk")
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if _, err := f.candidates.CreateApplication(ctx, ports.Application{
		CandidateID:     candidate.ID,
		SchemeID:        scheme.ID,
		ApplicationDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		SchemeStartDate: start,
		Successful:      true,
	}); err != nil {
		t.Fatalf("create application: %v", err)
	}

	if err := f.service.DeferIntake(ctx, candidate.ID); err != nil {
		t.Fatalf("defer intake: %v", err)
	}

	app, err := f.service.MostRecentApplication(ctx, candidate.ID)
	if err != nil {
		t.Fatalf("most recent application: %v", err)
	}
	if app == nil {
		t.Fatal("application missing after deferral")
	}
	if want := start.AddDate(1, 0, 0); !app.SchemeStartDate.Equal(want) {
		t.Fatalf("scheme start = %v, want %v", app.SchemeStartDate, want)
	}

	current, err := f.service.CurrentScheme(ctx, candidate.ID)
	if err != nil {
		t.Fatalf("current scheme: %v", err)
	}
	if current == nil || current.Name != "FLS" {
		t.Fatalf("current scheme = %+v, want FLS", current)
	}

	// Deferring someone who never applied is a logged no-op.
	never := f.newCandidate(t, "never@gov.uk")
	if err := f.service.DeferIntake(ctx, never.ID); err != nil {
		t.Fatalf("defer with no applications: %v", err)
	}
}
