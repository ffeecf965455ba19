package history

import (
	"context"
	"errors"
	"strings"

	"talenttrack/internal/bootstrap/logging"
	"talenttrack/internal/domain/talent"
	"talenttrack/internal/errs"
	"talenttrack/internal/ports"
)

// FindByEmail locates a candidate by either of their addresses,
// case-insensitively.
func (s *Service) FindByEmail(ctx context.Context, email string) (ports.Candidate, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ports.Candidate{}, talent.ErrNoEmailAddress
	}
	candidate, err := s.candidates.FindCandidateByEmail(ctx, email)
	if err != nil {
		return ports.Candidate{}, errs.Wrap(err, "find candidate by email")
	}
	return candidate, nil
}

// UpdateEmail replaces one of the candidate's email addresses. Addresses
// are stored lowercased so lookups stay case-insensitive.
func (s *Service) UpdateEmail(ctx context.Context, candidateID uint64, address string, primary bool) error {
	address = strings.ToLower(strings.TrimSpace(address))
	if address == "" {
		return talent.ErrNoEmailAddress
	}
	return s.inTx(ctx, func(ctx context.Context) error {
		if err := s.candidates.UpdateCandidateEmail(ctx, candidateID, address, primary); err != nil {
			return errs.Wrap(err, "update candidate email")
		}
		return nil
	})
}

func (s *Service) UpdateName(ctx context.Context, candidateID uint64, firstName string, lastName string) error {
	return s.inTx(ctx, func(ctx context.Context) error {
		if err := s.candidates.UpdateCandidateName(ctx, candidateID, firstName, lastName); err != nil {
			return errs.Wrap(err, "update candidate name")
		}
		return nil
	})
}

// MostRecentApplication returns the candidate's latest application by
// application date, or nil when they have never applied.
func (s *Service) MostRecentApplication(ctx context.Context, candidateID uint64) (*ports.Application, error) {
	app, err := s.candidates.MostRecentApplication(ctx, candidateID)
	if errors.Is(err, talent.ErrNoApplications) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(err, "load most recent application")
	}
	return &app, nil
}

// CurrentScheme is the scheme attached to the candidate's most recent
// application, or nil for a candidate with no applications.
func (s *Service) CurrentScheme(ctx context.Context, candidateID uint64) (*ports.Scheme, error) {
	app, err := s.MostRecentApplication(ctx, candidateID)
	if err != nil || app == nil {
		return nil, err
	}
	scheme, err := s.lookups.GetScheme(ctx, app.SchemeID)
	if err != nil {
		return nil, errs.Wrap(err, "load scheme")
	}
	return &scheme, nil
}

// DeferIntake pushes the scheme start date of the candidate's most recent
// application back by one year. Deferring a candidate who has never
// applied is a no-op.
func (s *Service) DeferIntake(ctx context.Context, candidateID uint64) error {
	return s.inTx(ctx, func(ctx context.Context) error {
		app, err := s.MostRecentApplication(ctx, candidateID)
		if err != nil {
			return err
		}
		if app == nil {
			logging.Warn(ctx, "defer requested for candidate with no applications")
			return nil
		}
		newStart := app.SchemeStartDate.AddDate(1, 0, 0)
		if err := s.candidates.UpdateApplicationSchemeStart(ctx, app.ID, newStart); err != nil {
			return errs.Wrap(err, "defer scheme start")
		}
		return nil
	})
}
