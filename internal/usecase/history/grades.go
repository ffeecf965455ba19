package history

import (
	"context"

	"talenttrack/internal/domain/talent"
	"talenttrack/internal/errs"
)

// EligibleGrades lists the grades a scheme recruits from, ordered by the
// lookup repository's natural listing order.
func (s *Service) EligibleGrades(ctx context.Context, schemeName string) ([]talent.Grade, error) {
	grades, err := s.lookups.ListGrades(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "list grades")
	}
	return talent.EligibleGrades(schemeName, grades), nil
}

// ReachableFrom lists the grades a next role could carry from the given
// grade: anything at most one rank below, most senior first.
func (s *Service) ReachableFrom(ctx context.Context, gradeID uint64) ([]talent.Grade, error) {
	grades, err := s.lookups.ListGrades(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "list grades")
	}
	for _, grade := range grades {
		if grade.ID == gradeID {
			return talent.ReachableGrades(grade, grades), nil
		}
	}
	return nil, errs.Wrapf(talent.ErrUnknownLookupValue, "grade id %d", gradeID)
}

// ReachableForCandidate lists the grades the candidate's next role could
// carry given their current grade. A candidate with no role history, or
// whose current role has no grade, can reach any grade.
func (s *Service) ReachableForCandidate(ctx context.Context, candidateID uint64) ([]talent.Grade, error) {
	current, err := s.CurrentGrade(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		grades, err := s.lookups.ListGrades(ctx)
		if err != nil {
			return nil, errs.Wrap(err, "list grades")
		}
		return grades, nil
	}
	return s.ReachableFrom(ctx, current.ID)
}
