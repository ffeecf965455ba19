// Package report aggregates promotion outcomes by protected
// characteristic. Reports are read-only over the role history and stream
// as CSV; each generation leaves one audit event naming who asked for
// what.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"talenttrack/internal/bootstrap/logging"
	"talenttrack/internal/domain/talent"
	"talenttrack/internal/errs"
	"talenttrack/internal/ports"
	"talenttrack/internal/usecase/history"
)

type Service struct {
	candidates ports.CandidateRepository
	lookups    ports.LookupRepository
	audit      ports.AuditRepository
	history    *history.Service
}

func NewService(
	candidates ports.CandidateRepository,
	lookups ports.LookupRepository,
	audit ports.AuditRepository,
	hist *history.Service,
) *Service {
	return &Service{
		candidates: candidates,
		lookups:    lookups,
		audit:      audit,
		history:    hist,
	}
}

type Input struct {
	SchemeName string
	Year       int
	Dimension  ports.Dimension

	// RequestedBy attributes the generation in the audit trail.
	RequestedBy string
}

// Row is one dimension value's aggregate. Rates are fractions of the
// group total, zero when the group is empty.
type Row struct {
	Characteristic  string
	Substantive     int
	SubstantiveRate float64
	Temporary       int
	TemporaryRate   float64
	Total           int
}

// PromotionRates computes one row per value of the requested dimension,
// in the dimension's natural enumeration order. A candidate counts when
// they hold the characteristic value, their most recent application is
// for the requested scheme, and they have a promotion event of the right
// kind inside the programme-year window.
func (s *Service) PromotionRates(ctx context.Context, input Input) ([]Row, error) {
	ctx = logging.WithAttrs(ctx,
		slog.String("component", "usecase.report"),
		slog.String("dimension", string(input.Dimension)),
		slog.String("scheme", input.SchemeName),
		slog.Int("year", input.Year),
	)

	scheme, err := s.lookups.FindSchemeByName(ctx, input.SchemeName)
	if err != nil {
		return nil, errs.Wrap(err, "resolve scheme")
	}

	values, err := s.lookups.ListDimensionValues(ctx, input.Dimension)
	if err != nil {
		return nil, errs.Wrap(err, "list dimension values")
	}

	window := talent.ReportWindow(input.Year)

	rows := make([]Row, 0, len(values))
	for _, value := range values {
		row, err := s.groupRow(ctx, input.Dimension, value, scheme, window)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	if input.RequestedBy != "" {
		user, err := s.audit.FindOrCreateUser(ctx, input.RequestedBy)
		if err != nil {
			return nil, errs.Wrap(err, "resolve requesting user")
		}
		action := fmt.Sprintf("generated promotions-by-%s report for %s %d",
			input.Dimension, scheme.Name, input.Year)
		if err := s.audit.RecordAction(ctx, user.ID, action); err != nil {
			return nil, errs.Wrap(err, "record report generation")
		}
	}

	return rows, nil
}

func (s *Service) groupRow(ctx context.Context, dim ports.Dimension, value ports.LookupValue, scheme ports.Scheme, window talent.Window) (Row, error) {
	candidates, err := s.candidates.CandidatesWith(ctx, dim, value.ID)
	if err != nil {
		return Row{}, errs.Wrapf(err, "candidates with %s %q", dim, value.Value)
	}

	row := Row{
		Characteristic: value.Value,
		Total:          len(candidates),
	}
	for _, candidate := range candidates {
		current, err := s.history.CurrentScheme(ctx, candidate.ID)
		if err != nil {
			return Row{}, err
		}
		if current == nil || current.ID != scheme.ID {
			continue
		}

		substantive, err := s.history.PromotedBetween(ctx, candidate.ID, window.After, window.Before, false)
		if err != nil {
			return Row{}, err
		}
		if substantive {
			row.Substantive++
		}

		temporary, err := s.history.PromotedBetween(ctx, candidate.ID, window.After, window.Before, true)
		if err != nil {
			return Row{}, err
		}
		if temporary {
			row.Temporary++
		}
	}

	row.SubstantiveRate = rateOrZero(row.Substantive, row.Total)
	row.TemporaryRate = rateOrZero(row.Temporary, row.Total)
	return row, nil
}

func rateOrZero(count int, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}

// Filename names the downloadable artifact after its parameters and the
// generation date.
func Filename(dim ports.Dimension, schemeName string, year int) string {
	return fmt.Sprintf("promotions-by-%s-%s-%d-generated-%s",
		dim, schemeName, year, time.Now().Format("02-01-2006"))
}
