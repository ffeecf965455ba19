package history

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"talenttrack/internal/bootstrap/logging"
	"talenttrack/internal/domain/talent"
	"talenttrack/internal/errs"
	"talenttrack/internal/ports"
)

type NewRoleInput struct {
	CandidateID    uint64
	StartDate      time.Time
	Title          string
	OrganisationID *uint64
	ProfessionID   *uint64
	LocationID     *uint64
	GradeID        *uint64
	ChangeTypeID   uint64
}

// NewRole appends a role snapshot and its linking change event to the
// candidate's timeline. The event's former role is whatever was current
// before this call (null for a first role), and the new role becomes
// current. Role and event are committed together or not at all.
func (s *Service) NewRole(ctx context.Context, input NewRoleInput) (ports.Role, error) {
	var created ports.Role

	err := s.inTx(ctx, func(txCtx context.Context) error {
		var formerRoleID *uint64

		latest, err := s.candidates.LatestRoleChangeEvent(txCtx, input.CandidateID)
		switch {
		case err == nil:
			id := latest.NewRoleID
			formerRoleID = &id
			if input.StartDate.Before(latest.ChangeDate) {
				// Out-of-order inserts are accepted (both ingestion and the
				// update console can backfill), but they shift "current role"
				// semantics, so leave a trace.
				logging.Warn(txCtx, "new role predates current role",
					slog.Uint64("candidate_id", input.CandidateID),
					slog.Time("start_date", input.StartDate),
					slog.Time("current_change_date", latest.ChangeDate),
				)
			}
		case errors.Is(err, talent.ErrNoRoleHistory):
			// First role: no originating former role.
		default:
			return errs.Wrap(err, "load current role")
		}

		role, err := s.candidates.CreateRole(txCtx, ports.Role{
			CandidateID:    input.CandidateID,
			DateStarted:    input.StartDate,
			Title:          input.Title,
			OrganisationID: input.OrganisationID,
			ProfessionID:   input.ProfessionID,
			LocationID:     input.LocationID,
			GradeID:        input.GradeID,
			ChangeTypeID:   input.ChangeTypeID,
		})
		if err != nil {
			return errs.Wrap(err, "create role")
		}

		if _, err := s.candidates.CreateRoleChangeEvent(txCtx, ports.RoleChangeEvent{
			CandidateID:  input.CandidateID,
			ChangeDate:   input.StartDate,
			FormerRoleID: formerRoleID,
			NewRoleID:    role.ID,
			ChangeTypeID: input.ChangeTypeID,
		}); err != nil {
			return errs.Wrap(err, "create role change event")
		}

		created = role
		return nil
	})
	if err != nil {
		return ports.Role{}, err
	}
	return created, nil
}
