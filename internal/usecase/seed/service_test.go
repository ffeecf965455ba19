package seed

import (
	"context"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"talenttrack/internal/infrastructure/persistence/sqlite/model"
	"talenttrack/internal/infrastructure/persistence/sqlite/repository"
	"talenttrack/internal/infrastructure/persistence/sqlite/uow"
	"talenttrack/internal/ports"
	"talenttrack/internal/usecase/history"
)

type seedFixture struct {
	service    *Service
	candidates ports.CandidateRepository
	lookups    ports.LookupRepository
	history    *history.Service
}

func setupSeedService(t *testing.T) *seedFixture {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "seed.sqlite")
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
	)
	if err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	candidates := repository.NewCandidateRepository(db)
	lookups := repository.NewLookupRepository(db)
	unit := uow.NewUnitOfWork(db)
	hist := history.NewService(candidates, lookups, unit)

	return &seedFixture{
		service:    NewService(candidates, lookups, hist, unit),
		candidates: candidates,
		lookups:    lookups,
		history:    hist,
	}
}

func TestRunSeedsReferenceDataIdempotently(t *testing.T) {
	f := setupSeedService(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := f.service.Run(ctx, Input{}); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	kinds, err := f.lookups.ListChangeTypes(ctx)
	if err != nil {
		t.Fatalf("list change types: %v", err)
	}
	if len(kinds) != 4 {
		t.Fatalf("got %d change types after two runs, want 4", len(kinds))
	}

	grades, err := f.lookups.ListGrades(ctx)
	if err != nil {
		t.Fatalf("list grades: %v", err)
	}
	if len(grades) != len(gradeSeeds) {
		t.Fatalf("got %d grades after two runs, want %d", len(grades), len(gradeSeeds))
	}

	for _, name := range schemeSeeds {
		if _, err := f.lookups.FindSchemeByName(ctx, name); err != nil {
			t.Fatalf("scheme %q not seeded: %v", name, err)
		}
	}
	for _, dim := range ports.Dimensions() {
		values, err := f.lookups.ListDimensionValues(ctx, dim)
		if err != nil {
			t.Fatalf("list %s values: %v", dim, err)
		}
		if len(values) != len(dimensionSeeds[dim]) {
			t.Fatalf("got %d %s values after two runs, want %d", len(values), dim, len(dimensionSeeds[dim]))
		}
	}
}

func TestRunDemoPopulation(t *testing.T) {
	f := setupSeedService(t)
	ctx := context.Background()

	summary, err := f.service.Run(ctx, Input{Demo: true, CohortSize: 2})
	if err != nil {
		t.Fatalf("run demo: %v", err)
	}
	// The known candidate plus one cohort per scheme.
	if want := 1 + 2*len(schemeSeeds); summary.Candidates != want {
		t.Fatalf("created %d candidates, want %d", summary.Candidates, want)
	}

	known, err := f.candidates.FindCandidateByEmail(ctx, knownCandidateEmail)
	if err != nil {
		t.Fatalf("find known candidate: %v", err)
	}
	role, err := f.history.CurrentRole(ctx, known.ID)
	if err != nil {
		t.Fatalf("known current role: %v", err)
	}
	if role == nil {
		t.Fatal("known candidate has no role history")
	}
	scheme, err := f.history.CurrentScheme(ctx, known.ID)
	if err != nil {
		t.Fatalf("known current scheme: %v", err)
	}
	if scheme == nil || scheme.Name != "FLS" {
		t.Fatalf("known scheme = %+v, want FLS", scheme)
	}

	// A second demo run detects the known candidate and loads nothing.
	summary, err = f.service.Run(ctx, Input{Demo: true, CohortSize: 2})
	if err != nil {
		t.Fatalf("rerun demo: %v", err)
	}
	if summary.Candidates != 0 {
		t.Fatalf("rerun created %d candidates, want 0", summary.Candidates)
	}
}
