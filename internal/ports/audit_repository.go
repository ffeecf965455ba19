package ports

import (
	"context"
	"time"
)

type User struct {
	ID    uint64
	Email string
}

// AuditEvent is append-only: the core writes it and never reads it back
// outside of administrative listings.
type AuditEvent struct {
	ID          uint64
	UserID      uint64
	ActionTaken string
	Timestamp   time.Time
}

type AuditRepository interface {
	FindOrCreateUser(ctx context.Context, email string) (User, error)
	RecordAction(ctx context.Context, userID uint64, action string) error
	ListAuditEvents(ctx context.Context, limit int) ([]AuditEvent, error)
}
