package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"talenttrack/internal/errs"
	"talenttrack/internal/infrastructure/persistence/sqlite/model"
	"talenttrack/internal/ports"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *AuditRepository) FindOrCreateUser(ctx context.Context, email string) (ports.User, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.User{}, err
	}

	var row model.User
	err = db.Where("email = ?", email).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = model.User{Email: email}
		if err := db.Create(&row).Error; err != nil {
			return ports.User{}, errs.Wrap(err, "insert user")
		}
	} else if err != nil {
		return ports.User{}, errs.Wrap(err, "query user")
	}

	return ports.User{ID: row.UserID, Email: row.Email}, nil
}

func (r *AuditRepository) RecordAction(ctx context.Context, userID uint64, action string) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row := model.AuditEvent{UserID: userID, ActionTaken: action}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert audit event")
	}
	return nil
}

func (r *AuditRepository) ListAuditEvents(ctx context.Context, limit int) ([]ports.AuditEvent, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.AuditEvent{}).Order("audit_event_id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []model.AuditEvent
	if err := query.Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query audit events")
	}

	items := make([]ports.AuditEvent, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.AuditEvent{
			ID:          row.AuditEventID,
			UserID:      row.UserID,
			ActionTaken: row.ActionTaken,
			Timestamp:   row.Timestamp,
		})
	}
	return items, nil
}
