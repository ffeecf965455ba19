package history

import (
	"context"
	"errors"
	"time"

	"talenttrack/internal/domain/talent"
	"talenttrack/internal/errs"
	"talenttrack/internal/ports"
)

// CurrentRole returns the new role of the candidate's latest change event,
// or nil for a candidate with no role history.
func (s *Service) CurrentRole(ctx context.Context, candidateID uint64) (*ports.Role, error) {
	latest, err := s.candidates.LatestRoleChangeEvent(ctx, candidateID)
	if errors.Is(err, talent.ErrNoRoleHistory) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(err, "load latest role change event")
	}

	role, err := s.candidates.GetRole(ctx, latest.NewRoleID)
	if err != nil {
		return nil, errs.Wrap(err, "load current role")
	}
	return &role, nil
}

// CurrentGrade is the grade of the current role; nil when the candidate
// has no history or the current role carries no grade reference.
func (s *Service) CurrentGrade(ctx context.Context, candidateID uint64) (*talent.Grade, error) {
	role, err := s.CurrentRole(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if role == nil || role.GradeID == nil {
		return nil, nil
	}

	grades, err := s.lookups.ListGrades(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "list grades")
	}
	for _, grade := range grades {
		if grade.ID == *role.GradeID {
			g := grade
			return &g, nil
		}
	}
	return nil, errs.Wrapf(talent.ErrUnknownLookupValue, "grade id %d", *role.GradeID)
}

// CurrentLocation is the location of the current role, or nil.
func (s *Service) CurrentLocation(ctx context.Context, candidateID uint64) (*ports.Location, error) {
	role, err := s.CurrentRole(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if role == nil || role.LocationID == nil {
		return nil, nil
	}

	locations, err := s.lookups.ListLocations(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "list locations")
	}
	for _, loc := range locations {
		if loc.ID == *role.LocationID {
			l := loc
			return &l, nil
		}
	}
	return nil, errs.Wrapf(talent.ErrUnknownLookupValue, "location id %d", *role.LocationID)
}

// IsPromotion reports whether the role's grade outranks the grade of the
// role it superseded. A candidate's first role has nothing to compare
// against and returns talent.ErrFirstRole.
func (s *Service) IsPromotion(ctx context.Context, roleID uint64) (bool, error) {
	role, err := s.candidates.GetRole(ctx, roleID)
	if err != nil {
		return false, errs.Wrap(err, "load role")
	}

	event, err := s.candidates.EventForRole(ctx, roleID)
	if err != nil {
		return false, errs.Wrap(err, "load originating event")
	}
	if event.FormerRoleID == nil {
		return false, talent.ErrFirstRole
	}

	former, err := s.candidates.GetRole(ctx, *event.FormerRoleID)
	if err != nil {
		return false, errs.Wrap(err, "load former role")
	}

	if role.GradeID == nil || former.GradeID == nil {
		return false, nil
	}

	newGrade, formerGrade, err := s.gradePair(ctx, *role.GradeID, *former.GradeID)
	if err != nil {
		return false, err
	}
	return newGrade.MoreSeniorThan(formerGrade), nil
}

// PromotedBetween reports whether the candidate has a change event of
// exactly the requested kind (substantive unless temporary is set) dated
// inside [after, before], boundaries inclusive. A zero before means today;
// a window with after later than before matches nothing. Level transfers
// and demotions never count, and the two promotion kinds never satisfy
// each other.
func (s *Service) PromotedBetween(ctx context.Context, candidateID uint64, after time.Time, before time.Time, temporary bool) (bool, error) {
	if before.IsZero() {
		before = time.Now().UTC()
	}
	if after.After(before) {
		return false, nil
	}

	kind, err := s.lookups.FindChangeTypeByValue(ctx, talent.PromotionKind(temporary))
	if err != nil {
		return false, errs.Wrap(err, "resolve promotion kind")
	}

	count, err := s.candidates.CountEventsOfKind(ctx, candidateID, kind.ID, after, before)
	if err != nil {
		return false, errs.Wrap(err, "count promotion events")
	}
	return count > 0, nil
}

func (s *Service) gradePair(ctx context.Context, aID uint64, bID uint64) (talent.Grade, talent.Grade, error) {
	grades, err := s.lookups.ListGrades(ctx)
	if err != nil {
		return talent.Grade{}, talent.Grade{}, errs.Wrap(err, "list grades")
	}

	var a, b talent.Grade
	var foundA, foundB bool
	for _, grade := range grades {
		if grade.ID == aID {
			a, foundA = grade, true
		}
		if grade.ID == bID {
			b, foundB = grade, true
		}
	}
	if !foundA {
		return talent.Grade{}, talent.Grade{}, errs.Wrapf(talent.ErrUnknownLookupValue, "grade id %d", aID)
	}
	if !foundB {
		return talent.Grade{}, talent.Grade{}, errs.Wrapf(talent.ErrUnknownLookupValue, "grade id %d", bID)
	}
	return a, b, nil
}
