package model

import "time"

// RoleChangeEvent records one transition in a candidate's role timeline.
// Events are totally ordered by change date per candidate; the latest
// event's new role is the current role. The very first role has an event
// with a null former role.
type RoleChangeEvent struct {
	RoleChangeEventID uint64    `gorm:"column:role_change_event_id;primaryKey;autoIncrement"`
	CandidateID       uint64    `gorm:"column:candidate_id;not null;index"`
	ChangeDate        time.Time `gorm:"column:change_date;not null;index"`
	FormerRoleID      *uint64   `gorm:"column:former_role_id"`
	NewRoleID         uint64    `gorm:"column:new_role_id;not null;uniqueIndex"`
	ChangeTypeID      uint64    `gorm:"column:change_type_id;not null"`
}

func (RoleChangeEvent) TableName() string {
	return "role_change_events"
}
