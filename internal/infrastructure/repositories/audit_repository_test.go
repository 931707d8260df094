package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/you/eventauth/domain"
)

func TestAuditRepositoryImpl_Insert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	accountID := uint(1)
	event := domain.NewAuditEvent(domain.AuditLoginFailure, &accountID).
		WithFailure("password mismatch").
		WithClient(domain.ClientContext{IP: "203.0.113.7", UserAgent: "curl/8.4.0"}).
		WithMetadata("method", "password")

	if err := repo.Insert(ctx, event); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if event.ID == 0 {
		t.Error("expected database-assigned ID")
	}

	events, err := repo.QueryByAccount(ctx, 1, 10)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	got := events[0]
	if got.Action != domain.AuditLoginFailure {
		t.Errorf("expected action %q, got %q", domain.AuditLoginFailure, got.Action)
	}
	if got.Success {
		t.Error("expected failure flag preserved")
	}
	if got.Reason != "password mismatch" {
		t.Errorf("expected reason preserved, got %q", got.Reason)
	}
	if got.Metadata["method"] != "password" {
		t.Errorf("expected metadata round-trip, got %v", got.Metadata)
	}
}

func TestAuditRepositoryImpl_InsertWithoutAccount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	event := domain.NewAuditEvent(domain.AuditLoginFailure, nil).WithFailure("unknown identifier")
	if err := repo.Insert(ctx, event); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if event.ID == 0 {
		t.Error("expected database-assigned ID")
	}
}

func TestAuditRepositoryImpl_CountRecentFailures(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	accountID := uint(1)
	insert := func(ip string, success bool, age time.Duration) {
		event := domain.NewAuditEvent(domain.AuditLoginFailure, &accountID)
		if !success {
			event.WithFailure("password mismatch")
		} else {
			event.Action = domain.AuditLoginSuccess
		}
		event.IP = ip
		event.CreatedAt = time.Now().Add(-age)
		if err := repo.Insert(ctx, event); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	insert("203.0.113.7", false, time.Minute)
	insert("203.0.113.7", false, 2*time.Minute)
	insert("203.0.113.7", false, 2*time.Hour)
	insert("203.0.113.7", true, time.Minute)
	insert("198.51.100.9", false, time.Minute)

	count, err := repo.CountRecentFailures(ctx, "203.0.113.7", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 recent failures, got %d", count)
	}
}

func TestAuditRepositoryImpl_QueryByAccount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	accountID := uint(1)
	otherID := uint(2)
	for i := 0; i < 5; i++ {
		event := domain.NewAuditEvent(domain.AuditLoginSuccess, &accountID)
		event.CreatedAt = time.Now().Add(-time.Duration(i) * time.Minute)
		if err := repo.Insert(ctx, event); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}
	if err := repo.Insert(ctx, domain.NewAuditEvent(domain.AuditLoginSuccess, &otherID)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	events, err := repo.QueryByAccount(ctx, 1, 3)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected limit of 3 events, got %d", len(events))
	}
	// Newest first.
	for i := 1; i < len(events); i++ {
		if events[i].CreatedAt.After(events[i-1].CreatedAt) {
			t.Error("expected events ordered newest first")
		}
	}
	for _, e := range events {
		if e.AccountID == nil || *e.AccountID != 1 {
			t.Error("expected only account 1 events")
		}
	}
}

func TestAuditRepositoryImpl_DeleteOlderThan(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	accountID := uint(1)
	old := domain.NewAuditEvent(domain.AuditLoginSuccess, &accountID)
	old.CreatedAt = time.Now().Add(-100 * 24 * time.Hour)
	if err := repo.Insert(ctx, old); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	recent := domain.NewAuditEvent(domain.AuditLoginSuccess, &accountID)
	if err := repo.Insert(ctx, recent); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	deleted, err := repo.DeleteOlderThan(ctx, time.Now().Add(-90*24*time.Hour))
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted, got %d", deleted)
	}

	events, err := repo.QueryByAccount(ctx, 1, 10)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(events) != 1 || events[0].ID != recent.ID {
		t.Error("expected only the recent event to survive")
	}
}
