package mocks

import (
	"sync"

	"github.com/you/eventauth/domain"
)

// MockPolicyService implements domain.PolicyService for testing.
// Without overrides it keeps policies in memory.
type MockPolicyService struct {
	mu       sync.Mutex
	Policies [][]string

	AddPolicyFunc       func(role, resource, action string) error
	RemovePolicyFunc    func(role, resource, action string) error
	CheckPermissionFunc func(role, resource, action string) (bool, error)
	GetPoliciesFunc     func() [][]string
}

// NewMockPolicyService creates a new MockPolicyService with default behaviors
func NewMockPolicyService() *MockPolicyService {
	return &MockPolicyService{}
}

func (m *MockPolicyService) AddPolicy(role, resource, action string) error {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(role, resource, action)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Policies = append(m.Policies, []string{role, resource, action})
	return nil
}

func (m *MockPolicyService) RemovePolicy(role, resource, action string) error {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(role, resource, action)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.Policies {
		if len(p) == 3 && p[0] == role && p[1] == resource && p[2] == action {
			m.Policies = append(m.Policies[:i], m.Policies[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockPolicyService) CheckPermission(role, resource, action string) (bool, error) {
	if m.CheckPermissionFunc != nil {
		return m.CheckPermissionFunc(role, resource, action)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Policies {
		if len(p) == 3 && p[0] == role && p[1] == resource && p[2] == action {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockPolicyService) GetPolicies() [][]string {
	if m.GetPoliciesFunc != nil {
		return m.GetPoliciesFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.Policies))
	copy(out, m.Policies)
	return out
}

// Compile-time interface compliance verification
var _ domain.PolicyService = (*MockPolicyService)(nil)
