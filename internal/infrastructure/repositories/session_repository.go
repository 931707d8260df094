package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/you/eventauth/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using GORM
type SessionRepositoryImpl struct {
	db *gorm.DB
}

// DBSession represents the database model for Session (with GORM tags)
type DBSession struct {
	ID          uint       `gorm:"primaryKey"`
	AccountID   uint       `gorm:"index"`
	TokenHash   string     `gorm:"size:128"`
	IP          string     `gorm:"size:64"`
	UserAgent   string     `gorm:"size:512"`
	DeviceLabel string     `gorm:"size:64"`
	ExpiresAt   time.Time  `gorm:"index"`
	LastUsedAt  time.Time  `gorm:"index"`
	RevokedAt   *time.Time `gorm:"index"`
	CreatedAt   time.Time
}

// TableName returns the table name for GORM
func (DBSession) TableName() string {
	return "sessions"
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) domain.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	dbSession := r.domainToDB(session)
	if err := r.db.WithContext(ctx).Create(dbSession).Error; err != nil {
		return mapStoreError(err)
	}
	session.ID = dbSession.ID
	session.CreatedAt = dbSession.CreatedAt
	return nil
}

// FindCandidates implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindCandidates(ctx context.Context) ([]*domain.Session, error) {
	var dbSessions []DBSession
	err := r.db.WithContext(ctx).
		Where("revoked_at IS NULL AND expires_at > ?", time.Now()).
		Order("last_used_at DESC").
		Find(&dbSessions).Error
	if err != nil {
		return nil, mapStoreError(err)
	}
	return r.dbToDomainSlice(dbSessions), nil
}

// FindByAccount implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindByAccount(ctx context.Context, accountID uint) ([]*domain.Session, error) {
	var dbSessions []DBSession
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND revoked_at IS NULL", accountID).
		Order("last_used_at DESC").
		Find(&dbSessions).Error
	if err != nil {
		return nil, mapStoreError(err)
	}
	return r.dbToDomainSlice(dbSessions), nil
}

// Touch implements domain.SessionRepository
func (r *SessionRepositoryImpl) Touch(ctx context.Context, sessionID uint, usedAt time.Time) error {
	err := r.db.WithContext(ctx).Model(&DBSession{}).
		Where("id = ?", sessionID).
		Update("last_used_at", usedAt).Error
	return mapStoreError(err)
}

// Revoke implements domain.SessionRepository. A session that does not
// exist or belongs to another account is a silent no-op so callers
// cannot probe for session existence.
func (r *SessionRepositoryImpl) Revoke(ctx context.Context, sessionID, accountID uint, revokedAt time.Time) error {
	err := r.db.WithContext(ctx).Model(&DBSession{}).
		Where("id = ? AND account_id = ? AND revoked_at IS NULL", sessionID, accountID).
		Update("revoked_at", revokedAt).Error
	return mapStoreError(err)
}

// RevokeAll implements domain.SessionRepository
func (r *SessionRepositoryImpl) RevokeAll(ctx context.Context, accountID uint, revokedAt time.Time) error {
	err := r.db.WithContext(ctx).Model(&DBSession{}).
		Where("account_id = ? AND revoked_at IS NULL", accountID).
		Update("revoked_at", revokedAt).Error
	return mapStoreError(err)
}

// DeleteExpired implements domain.SessionRepository
func (r *SessionRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&DBSession{})
	return res.RowsAffected, mapStoreError(res.Error)
}

// DeleteIdle implements domain.SessionRepository
func (r *SessionRepositoryImpl) DeleteIdle(ctx context.Context, idleBefore time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("last_used_at < ?", idleBefore).Delete(&DBSession{})
	return res.RowsAffected, mapStoreError(res.Error)
}

func (r *SessionRepositoryImpl) domainToDB(session *domain.Session) *DBSession {
	return &DBSession{
		ID:          session.ID,
		AccountID:   session.AccountID,
		TokenHash:   session.TokenHash,
		IP:          session.IP,
		UserAgent:   session.UserAgent,
		DeviceLabel: session.DeviceLabel,
		ExpiresAt:   session.ExpiresAt,
		LastUsedAt:  session.LastUsedAt,
		RevokedAt:   session.RevokedAt,
	}
}

func (r *SessionRepositoryImpl) dbToDomainSlice(dbSessions []DBSession) []*domain.Session {
	sessions := make([]*domain.Session, 0, len(dbSessions))
	for i := range dbSessions {
		s := dbSessions[i]
		sessions = append(sessions, &domain.Session{
			ID:          s.ID,
			AccountID:   s.AccountID,
			TokenHash:   s.TokenHash,
			IP:          s.IP,
			UserAgent:   s.UserAgent,
			DeviceLabel: s.DeviceLabel,
			ExpiresAt:   s.ExpiresAt,
			LastUsedAt:  s.LastUsedAt,
			RevokedAt:   s.RevokedAt,
			CreatedAt:   s.CreatedAt,
		})
	}
	return sessions
}
