// Package history maintains per-candidate role timelines and answers the
// temporal queries built on them. A candidate's history is an append-only
// chain of Role/RoleChangeEvent pairs; "current role" is always derived
// from the latest change date, never stored.
package history

import (
	"context"

	"talenttrack/internal/ports"
)

type Service struct {
	candidates ports.CandidateRepository
	lookups    ports.LookupRepository
	uow        ports.UnitOfWork
}

func NewService(candidates ports.CandidateRepository, lookups ports.LookupRepository, uow ports.UnitOfWork) *Service {
	return &Service{
		candidates: candidates,
		lookups:    lookups,
		uow:        uow,
	}
}

// inTx runs fn inside the caller's transaction when one is already in the
// context (ingestion wraps a whole batch), otherwise opens its own.
func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ports.TxFromContext(ctx) != nil {
		return fn(ctx)
	}
	return s.uow.WithTx(ctx, fn)
}
