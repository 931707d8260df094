package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/eventauth/domain"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(&DBAccount{}, &DBSession{}, &DBAuditEvent{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func TestAccountRepositoryImpl_Create(t *testing.T) {
	tests := []struct {
		name          string
		setupData     func(db *gorm.DB, repo domain.AccountRepository)
		account       *domain.Account
		expectedError error
	}{
		{
			name:      "successful create",
			setupData: func(db *gorm.DB, repo domain.AccountRepository) {},
			account: &domain.Account{
				Name:         "Test Account",
				Email:        "test@example.com",
				Phone:        "+1234567890",
				PasswordHash: "hashed_password",
				Role:         domain.RoleUser,
				IsActive:     true,
			},
			expectedError: nil,
		},
		{
			name: "duplicate email",
			setupData: func(db *gorm.DB, repo domain.AccountRepository) {
				repo.Create(context.Background(), &domain.Account{
					Email: "taken@example.com",
					Role:  domain.RoleUser,
				})
			},
			account: &domain.Account{
				Email: "taken@example.com",
				Role:  domain.RoleUser,
			},
			expectedError: domain.ErrAccountExists,
		},
		{
			name: "duplicate phone",
			setupData: func(db *gorm.DB, repo domain.AccountRepository) {
				repo.Create(context.Background(), &domain.Account{
					Phone: "+1234567890",
					Role:  domain.RoleUser,
				})
			},
			account: &domain.Account{
				Phone: "+1234567890",
				Role:  domain.RoleUser,
			},
			expectedError: domain.ErrAccountExists,
		},
		{
			name: "two phone-only accounts with no email",
			setupData: func(db *gorm.DB, repo domain.AccountRepository) {
				repo.Create(context.Background(), &domain.Account{
					Phone: "+1111111111",
					Role:  domain.RoleUser,
				})
			},
			account: &domain.Account{
				Phone: "+2222222222",
				Role:  domain.RoleUser,
			},
			expectedError: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			repo := NewAccountRepository(db)
			tt.setupData(db, repo)

			err := repo.Create(context.Background(), tt.account)

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Fatalf("expected error %v, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tt.account.ID == 0 {
				t.Error("expected database-assigned ID")
			}
		})
	}
}

func TestAccountRepositoryImpl_Find(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	account := &domain.Account{
		Name:          "Test Account",
		Email:         "test@example.com",
		Phone:         "+1234567890",
		PasswordHash:  "hashed_password",
		Role:          domain.RoleVendor,
		EmailVerified: true,
		IsActive:      true,
	}
	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	t.Run("by email", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "test@example.com")
		if err != nil {
			t.Fatalf("find failed: %v", err)
		}
		if found.ID != account.ID || found.Email != account.Email || found.Role != domain.RoleVendor {
			t.Errorf("unexpected account: %+v", found)
		}
		if !found.EmailVerified {
			t.Error("expected EmailVerified to round-trip")
		}
	})

	t.Run("by phone", func(t *testing.T) {
		found, err := repo.FindByPhone(ctx, "+1234567890")
		if err != nil {
			t.Fatalf("find failed: %v", err)
		}
		if found.ID != account.ID {
			t.Errorf("expected account %d, got %d", account.ID, found.ID)
		}
	})

	t.Run("by identifier", func(t *testing.T) {
		id, err := domain.ParseIdentifier("+1234567890", "")
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		found, err := repo.FindByIdentifier(ctx, id)
		if err != nil {
			t.Fatalf("find failed: %v", err)
		}
		if found.ID != account.ID {
			t.Errorf("expected account %d, got %d", account.ID, found.ID)
		}
	})

	t.Run("by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, account.ID)
		if err != nil {
			t.Fatalf("find failed: %v", err)
		}
		if found.Email != account.Email {
			t.Errorf("unexpected account: %+v", found)
		}
	})

	t.Run("not found", func(t *testing.T) {
		if _, err := repo.FindByEmail(ctx, "missing@example.com"); !errors.Is(err, domain.ErrAccountNotFound) {
			t.Errorf("expected ErrAccountNotFound, got %v", err)
		}
		if _, err := repo.FindByPhone(ctx, "+9999999999"); !errors.Is(err, domain.ErrAccountNotFound) {
			t.Errorf("expected ErrAccountNotFound, got %v", err)
		}
		if _, err := repo.FindByID(ctx, 9999); !errors.Is(err, domain.ErrAccountNotFound) {
			t.Errorf("expected ErrAccountNotFound, got %v", err)
		}
	})
}

func TestAccountRepositoryImpl_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	account := &domain.Account{
		Email:    "test@example.com",
		Role:     domain.RoleUser,
		IsActive: true,
	}
	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	lockedUntil := time.Now().Add(15 * time.Minute).UTC().Truncate(time.Second)
	account.FailedLoginAttempts = 5
	account.LockedUntil = &lockedUntil
	account.PasswordHash = "new_hash"
	if err := repo.Update(ctx, account); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	found, err := repo.FindByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.FailedLoginAttempts != 5 {
		t.Errorf("expected 5 failed attempts, got %d", found.FailedLoginAttempts)
	}
	if found.LockedUntil == nil || !found.LockedUntil.Equal(lockedUntil) {
		t.Errorf("expected locked until %v, got %v", lockedUntil, found.LockedUntil)
	}
	if found.PasswordHash != "new_hash" {
		t.Errorf("expected updated hash, got %q", found.PasswordHash)
	}
}

func TestAccountRepositoryImpl_UpdatePreservesCreatedAt(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	account := &domain.Account{
		Email:    "test@example.com",
		Role:     domain.RoleUser,
		IsActive: true,
	}
	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if account.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt populated on create")
	}
	created := account.CreatedAt

	// Updates happen on every login (last-login stamp, lockout
	// counters), so the creation timestamp must survive them.
	now := time.Now()
	account.LastLoginAt = &now
	account.FailedLoginAttempts = 2
	if err := repo.Update(ctx, account); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	found, err := repo.FindByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.CreatedAt.IsZero() {
		t.Fatal("CreatedAt zeroed by update")
	}
	if !found.CreatedAt.UTC().Truncate(time.Second).Equal(created.UTC().Truncate(time.Second)) {
		t.Errorf("expected CreatedAt %v to survive update, got %v", created, found.CreatedAt)
	}
}
