package mocks

import (
	"context"

	"github.com/you/eventauth/domain"
)

// MockAccountRepository implements domain.AccountRepository for testing
type MockAccountRepository struct {
	CreateFunc           func(ctx context.Context, account *domain.Account) error
	FindByEmailFunc      func(ctx context.Context, email string) (*domain.Account, error)
	FindByPhoneFunc      func(ctx context.Context, phone string) (*domain.Account, error)
	FindByIdentifierFunc func(ctx context.Context, id domain.Identifier) (*domain.Account, error)
	FindByIDFunc         func(ctx context.Context, id uint) (*domain.Account, error)
	UpdateFunc           func(ctx context.Context, account *domain.Account) error
}

// NewMockAccountRepository creates a new MockAccountRepository with default behaviors
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	account.ID = 1
	return nil
}

func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) FindByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	if m.FindByPhoneFunc != nil {
		return m.FindByPhoneFunc(ctx, phone)
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) FindByIdentifier(ctx context.Context, id domain.Identifier) (*domain.Account, error) {
	if m.FindByIdentifierFunc != nil {
		return m.FindByIdentifierFunc(ctx, id)
	}
	if id.IsPhone() {
		return m.FindByPhone(ctx, id.Value)
	}
	return m.FindByEmail(ctx, id.Value)
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uint) (*domain.Account, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, account)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.AccountRepository = (*MockAccountRepository)(nil)
