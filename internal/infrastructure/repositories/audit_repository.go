package repositories

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/you/eventauth/domain"
)

// AuditRepositoryImpl implements domain.AuditRepository using GORM.
// The table is append-only: the public contract exposes no update, and
// the only delete is the retention sweep.
type AuditRepositoryImpl struct {
	db *gorm.DB
}

// DBAuditEvent represents the database model for AuditEvent
type DBAuditEvent struct {
	ID           uint      `gorm:"primaryKey"`
	AccountID    *uint     `gorm:"index:idx_audit_account_created,priority:1"`
	Action       string    `gorm:"index;size:64"`
	ResourceType string    `gorm:"size:64"`
	ResourceID   string    `gorm:"size:64"`
	IP           string    `gorm:"index;size:64"`
	UserAgent    string    `gorm:"size:512"`
	Success      bool      `gorm:"index"`
	Reason       string    `gorm:"size:255"`
	Metadata     string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"index:idx_audit_account_created,priority:2;index:,sort:desc"`
}

// TableName returns the table name for GORM
func (DBAuditEvent) TableName() string {
	return "audit_logs"
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) domain.AuditRepository {
	return &AuditRepositoryImpl{db: db}
}

// Insert implements domain.AuditRepository
func (r *AuditRepositoryImpl) Insert(ctx context.Context, event *domain.AuditEvent) error {
	dbEvent := &DBAuditEvent{
		AccountID:    event.AccountID,
		Action:       event.Action,
		ResourceType: event.ResourceType,
		ResourceID:   event.ResourceID,
		IP:           event.IP,
		UserAgent:    event.UserAgent,
		Success:      event.Success,
		Reason:       event.Reason,
		CreatedAt:    event.CreatedAt,
	}
	if len(event.Metadata) > 0 {
		data, err := json.Marshal(event.Metadata)
		if err == nil {
			dbEvent.Metadata = string(data)
		}
	}
	if dbEvent.CreatedAt.IsZero() {
		dbEvent.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(dbEvent).Error; err != nil {
		return mapStoreError(err)
	}
	event.ID = dbEvent.ID
	return nil
}

// CountRecentFailures implements domain.AuditRepository
func (r *AuditRepositoryImpl) CountRecentFailures(ctx context.Context, ip string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBAuditEvent{}).
		Where("ip = ? AND success = ? AND created_at > ?", ip, false, since).
		Count(&count).Error
	if err != nil {
		return 0, mapStoreError(err)
	}
	return count, nil
}

// QueryByAccount implements domain.AuditRepository
func (r *AuditRepositoryImpl) QueryByAccount(ctx context.Context, accountID uint, limit int) ([]*domain.AuditEvent, error) {
	var dbEvents []DBAuditEvent
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&dbEvents).Error
	if err != nil {
		return nil, mapStoreError(err)
	}

	events := make([]*domain.AuditEvent, 0, len(dbEvents))
	for i := range dbEvents {
		events = append(events, r.dbToDomain(&dbEvents[i]))
	}
	return events, nil
}

// DeleteOlderThan implements domain.AuditRepository
func (r *AuditRepositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&DBAuditEvent{})
	return res.RowsAffected, mapStoreError(res.Error)
}

func (r *AuditRepositoryImpl) dbToDomain(dbEvent *DBAuditEvent) *domain.AuditEvent {
	event := &domain.AuditEvent{
		ID:           dbEvent.ID,
		AccountID:    dbEvent.AccountID,
		Action:       dbEvent.Action,
		ResourceType: dbEvent.ResourceType,
		ResourceID:   dbEvent.ResourceID,
		IP:           dbEvent.IP,
		UserAgent:    dbEvent.UserAgent,
		Success:      dbEvent.Success,
		Reason:       dbEvent.Reason,
		CreatedAt:    dbEvent.CreatedAt,
	}
	if dbEvent.Metadata != "" {
		var metadata map[string]any
		if err := json.Unmarshal([]byte(dbEvent.Metadata), &metadata); err == nil {
			event.Metadata = metadata
		}
	}
	return event
}
