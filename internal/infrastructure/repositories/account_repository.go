package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/eventauth/domain"
)

// AccountRepositoryImpl implements domain.AccountRepository using GORM
type AccountRepositoryImpl struct {
	db *gorm.DB
}

// DBAccount represents the database model for Account (with GORM tags)
type DBAccount struct {
	ID                  uint       `gorm:"primaryKey"`
	Name                string     `gorm:"size:255"`
	Email               *string    `gorm:"uniqueIndex;size:255"`
	Phone               *string    `gorm:"uniqueIndex;size:32"`
	PasswordHash        string     `gorm:"column:password"`
	Role                string     `gorm:"index;size:32"`
	EmailVerified       bool       `gorm:""`
	FailedLoginAttempts int        `gorm:""`
	LockedUntil         *time.Time `gorm:""`
	MFASecret           string     `gorm:"size:64"`
	LastLoginAt         *time.Time `gorm:""`
	IsActive            bool       `gorm:"index"`
	CreatedAt           time.Time  `gorm:"index"`
	UpdatedAt           time.Time
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBAccount) TableName() string {
	return "accounts"
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) domain.AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

// Create implements domain.AccountRepository
func (r *AccountRepositoryImpl) Create(ctx context.Context, account *domain.Account) error {
	dbAccount := r.domainToDB(account)
	if err := r.db.WithContext(ctx).Create(dbAccount).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAccountExists
		}
		return mapStoreError(err)
	}
	account.ID = dbAccount.ID
	account.CreatedAt = dbAccount.CreatedAt
	account.UpdatedAt = dbAccount.UpdatedAt
	return nil
}

// FindByEmail implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByPhone implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	return r.findOne(ctx, "phone = ?", phone)
}

// FindByIdentifier implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByIdentifier(ctx context.Context, id domain.Identifier) (*domain.Account, error) {
	if id.IsPhone() {
		return r.FindByPhone(ctx, id.Value)
	}
	return r.FindByEmail(ctx, id.Value)
}

// FindByID implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Account, error) {
	return r.findOne(ctx, "id = ?", id)
}

// Update implements domain.AccountRepository
func (r *AccountRepositoryImpl) Update(ctx context.Context, account *domain.Account) error {
	dbAccount := r.domainToDB(account)
	if err := r.db.WithContext(ctx).Save(dbAccount).Error; err != nil {
		return mapStoreError(err)
	}
	return nil
}

func (r *AccountRepositoryImpl) findOne(ctx context.Context, query string, args ...any) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where(query, args...).First(&dbAccount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, mapStoreError(err)
	}
	return r.dbToDomain(&dbAccount), nil
}

// domainToDB converts a domain account to its database model. Empty
// email/phone map to NULL so the partial unique indexes hold while
// accounts with only one identifier remain valid. CreatedAt must round
// trip here: Save writes every column, and a zero value would wipe the
// stored timestamp on update.
func (r *AccountRepositoryImpl) domainToDB(account *domain.Account) *DBAccount {
	dbAccount := &DBAccount{
		ID:                  account.ID,
		Name:                account.Name,
		PasswordHash:        account.PasswordHash,
		Role:                account.Role,
		EmailVerified:       account.EmailVerified,
		FailedLoginAttempts: account.FailedLoginAttempts,
		LockedUntil:         account.LockedUntil,
		MFASecret:           account.MFASecret,
		LastLoginAt:         account.LastLoginAt,
		IsActive:            account.IsActive,
		CreatedAt:           account.CreatedAt,
	}
	if account.Email != "" {
		dbAccount.Email = &account.Email
	}
	if account.Phone != "" {
		dbAccount.Phone = &account.Phone
	}
	return dbAccount
}

func (r *AccountRepositoryImpl) dbToDomain(dbAccount *DBAccount) *domain.Account {
	account := &domain.Account{
		ID:                  dbAccount.ID,
		Name:                dbAccount.Name,
		PasswordHash:        dbAccount.PasswordHash,
		Role:                dbAccount.Role,
		EmailVerified:       dbAccount.EmailVerified,
		FailedLoginAttempts: dbAccount.FailedLoginAttempts,
		LockedUntil:         dbAccount.LockedUntil,
		MFASecret:           dbAccount.MFASecret,
		LastLoginAt:         dbAccount.LastLoginAt,
		IsActive:            dbAccount.IsActive,
		CreatedAt:           dbAccount.CreatedAt,
		UpdatedAt:           dbAccount.UpdatedAt,
	}
	if dbAccount.Email != nil {
		account.Email = *dbAccount.Email
	}
	if dbAccount.Phone != nil {
		account.Phone = *dbAccount.Phone
	}
	return account
}
