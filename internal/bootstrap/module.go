package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"talenttrack/internal/bootstrap/config"
	"talenttrack/internal/bootstrap/database"
	"talenttrack/internal/bootstrap/logging"
	sqliterepo "talenttrack/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "talenttrack/internal/infrastructure/persistence/sqlite/uow"
	"talenttrack/internal/ports"
	"talenttrack/internal/usecase/history"
	"talenttrack/internal/usecase/ingest"
	"talenttrack/internal/usecase/report"
	"talenttrack/internal/usecase/seed"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewCandidateRepository,
			fx.As(new(ports.CandidateRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewLookupRepository,
			fx.As(new(ports.LookupRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewAuditRepository,
			fx.As(new(ports.AuditRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(history.NewService),
	fx.Provide(ingest.NewService),
	fx.Provide(report.NewService),
	fx.Provide(seed.NewService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}
