package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"talenttrack/internal/bootstrap"
	"talenttrack/internal/bootstrap/logging"
	"talenttrack/internal/errs"
	"talenttrack/internal/ports"
	"talenttrack/internal/usecase/history"
	"talenttrack/internal/usecase/ingest"
	"talenttrack/internal/usecase/report"
	"talenttrack/internal/usecase/seed"
)

// services bundles everything a command body may need from the container.
type services struct {
	History *history.Service
	Ingest  *ingest.Service
	Report  *report.Service
	Seed    *seed.Service
	Lookups ports.LookupRepository
	UoW     ports.UnitOfWork
}

func withApp(run func(cmd *cobra.Command, app *bootstrap.App, svc *services) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithAttrs(
			cmd.Context(),
			slog.String("command", cmd.CommandPath()),
			slog.String("config_file", cfgFile),
		)

		var app *bootstrap.App
		svc := &services{}
		fxApp := fx.New(
			bootstrap.Module,
			fx.Provide(func() context.Context { return ctx }),
			fx.Provide(
				fx.Annotate(
					func() string { return cfgFile },
					fx.ResultTags(`name:"configFile"`),
				),
			),
			fx.Populate(&app, &svc.History, &svc.Ingest, &svc.Report, &svc.Seed, &svc.Lookups, &svc.UoW),
		)

		startCtx, cancelStart := context.WithTimeout(ctx, 10*time.Second)
		defer cancelStart()
		if err := fxApp.Start(startCtx); err != nil {
			logging.Error(ctx, "bootstrap application failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "start fx application")
		}

		defer func() {
			stopCtx, cancelStop := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancelStop()
			if err := fxApp.Stop(stopCtx); err != nil {
				logging.Error(ctx, "fx application stop failed", slog.Any("err", errs.Loggable(err)))
			}
		}()

		if err := run(cmd, app, svc); err != nil {
			return errs.Wrap(err, "run command")
		}
		return nil
	}
}
