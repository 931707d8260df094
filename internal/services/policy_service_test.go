package services

import (
	"errors"
	"testing"

	"github.com/you/eventauth/domain"
)

// recordingEnforcer keeps policies in a slice and counts SavePolicy
// calls so tests can assert persistence happens after every mutation.
type recordingEnforcer struct {
	policies   [][]string
	saves      int
	enforceErr error
}

func (e *recordingEnforcer) AddPolicy(params ...interface{}) (bool, error) {
	rule := make([]string, len(params))
	for i, p := range params {
		rule[i] = p.(string)
	}
	e.policies = append(e.policies, rule)
	return true, nil
}

func (e *recordingEnforcer) RemovePolicy(params ...interface{}) (bool, error) {
	for i, rule := range e.policies {
		if len(rule) == len(params) {
			match := true
			for j, p := range params {
				if rule[j] != p.(string) {
					match = false
					break
				}
			}
			if match {
				e.policies = append(e.policies[:i], e.policies[i+1:]...)
				return true, nil
			}
		}
	}
	return false, nil
}

func (e *recordingEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	if e.enforceErr != nil {
		return false, e.enforceErr
	}
	for _, rule := range e.policies {
		if len(rule) == len(rvals) {
			match := true
			for i, v := range rvals {
				if rule[i] != v.(string) {
					match = false
					break
				}
			}
			if match {
				return true, nil
			}
		}
	}
	return false, nil
}

func (e *recordingEnforcer) GetPolicy() ([][]string, error) { return e.policies, nil }
func (e *recordingEnforcer) SavePolicy() error              { e.saves++; return nil }

var _ domain.CasbinEnforcer = (*recordingEnforcer)(nil)

func TestPolicyService_AddPolicy(t *testing.T) {
	enforcer := &recordingEnforcer{}
	svc := NewPolicyServiceWithEnforcer(enforcer)

	if err := svc.AddPolicy("role_admin", "/admin/*", "GET"); err != nil {
		t.Fatalf("AddPolicy failed: %v", err)
	}

	if len(enforcer.policies) != 1 {
		t.Fatalf("expected 1 policy, got %d", len(enforcer.policies))
	}
	if enforcer.saves != 1 {
		t.Errorf("expected the policy to be persisted, saves=%d", enforcer.saves)
	}
}

func TestPolicyService_RemovePolicy(t *testing.T) {
	enforcer := &recordingEnforcer{}
	svc := NewPolicyServiceWithEnforcer(enforcer)

	if err := svc.AddPolicy("role_admin", "/admin/*", "GET"); err != nil {
		t.Fatalf("AddPolicy failed: %v", err)
	}
	if err := svc.RemovePolicy("role_admin", "/admin/*", "GET"); err != nil {
		t.Fatalf("RemovePolicy failed: %v", err)
	}

	if len(enforcer.policies) != 0 {
		t.Errorf("expected no policies left, got %v", enforcer.policies)
	}
	if enforcer.saves != 2 {
		t.Errorf("expected a save per mutation, saves=%d", enforcer.saves)
	}
}

func TestPolicyService_CheckPermission(t *testing.T) {
	enforcer := &recordingEnforcer{}
	svc := NewPolicyServiceWithEnforcer(enforcer)

	if err := svc.AddPolicy("role_vendor", "/sessions", "GET"); err != nil {
		t.Fatalf("AddPolicy failed: %v", err)
	}

	allowed, err := svc.CheckPermission("role_vendor", "/sessions", "GET")
	if err != nil {
		t.Fatalf("CheckPermission failed: %v", err)
	}
	if !allowed {
		t.Error("expected permission to be granted")
	}

	allowed, err = svc.CheckPermission("role_user", "/sessions", "GET")
	if err != nil {
		t.Fatalf("CheckPermission failed: %v", err)
	}
	if allowed {
		t.Error("expected permission to be denied for an unknown role")
	}
}

func TestPolicyService_CheckPermissionError(t *testing.T) {
	enforcer := &recordingEnforcer{enforceErr: errors.New("adapter down")}
	svc := NewPolicyServiceWithEnforcer(enforcer)

	if _, err := svc.CheckPermission("role_user", "/sessions", "GET"); err == nil {
		t.Error("expected the enforcer error to surface")
	}
}

func TestPolicyService_GetPolicies(t *testing.T) {
	enforcer := &recordingEnforcer{}
	svc := NewPolicyServiceWithEnforcer(enforcer)

	rules := [][]string{
		{"role_admin", "/admin/*", "GET"},
		{"role_admin", "/admin/*", "POST"},
		{"role_user", "/sessions", "GET"},
	}
	for _, r := range rules {
		if err := svc.AddPolicy(r[0], r[1], r[2]); err != nil {
			t.Fatalf("AddPolicy(%v) failed: %v", r, err)
		}
	}

	got := svc.GetPolicies()
	if len(got) != len(rules) {
		t.Fatalf("expected %d policies, got %d", len(rules), len(got))
	}
	for i, r := range rules {
		for j := range r {
			if got[i][j] != r[j] {
				t.Errorf("policy %d: expected %v, got %v", i, r, got[i])
			}
		}
	}
}
