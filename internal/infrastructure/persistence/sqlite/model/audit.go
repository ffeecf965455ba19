package model

import "time"

type User struct {
	UserID uint64 `gorm:"column:user_id;primaryKey;autoIncrement"`
	Email  string `gorm:"column:email;type:text;not null;uniqueIndex"`
}

func (User) TableName() string {
	return "users"
}

// AuditEvent is an append-only log row; nothing in the core updates or
// deletes it.
type AuditEvent struct {
	AuditEventID uint64    `gorm:"column:audit_event_id;primaryKey;autoIncrement"`
	UserID       uint64    `gorm:"column:user_id;not null;index"`
	ActionTaken  string    `gorm:"column:action_taken;type:text;not null"`
	Timestamp    time.Time `gorm:"column:timestamp;autoCreateTime"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
