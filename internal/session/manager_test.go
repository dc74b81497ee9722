package session

import (
	"testing"
	"time"

	"github.com/chart-builder/backend/internal/models"
)

func TestSessionManager(t *testing.T) {
	m := NewManager(testDefaults, 0)

	s := m.Create()
	if s.ID() == "" {
		t.Fatal("expected session ID")
	}

	got, ok := m.Get(s.ID())
	if !ok || got != s {
		t.Fatalf("session not found")
	}

	if err := s.SetTrendNames(models.GroupAnalog, "AI_1"); err != nil {
		t.Fatal(err)
	}

	other := m.Create()
	if err := other.SetTrendNames(models.GroupAnalog, "X\nY"); err != nil {
		t.Fatal(err)
	}
	if n := len(s.Snapshot().Analog); n != 1 {
		t.Errorf("sessions must not share state, got %d analog entries", n)
	}

	if len(m.List()) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(m.List()))
	}

	if !m.Delete(s.ID()) {
		t.Error("expected delete to succeed")
	}
	if m.Delete(s.ID()) {
		t.Error("expected second delete to fail")
	}
	if _, ok := m.Get(s.ID()); ok {
		t.Error("expected session to be gone")
	}
}

func TestSessionManager_EvictsLeastRecentlyUsed(t *testing.T) {
	m := NewManager(testDefaults, 2)

	first := m.Create()
	time.Sleep(5 * time.Millisecond)
	second := m.Create()
	time.Sleep(5 * time.Millisecond)
	// Using the first session makes the second the eviction candidate.
	first.UpdateFields(FieldsUpdate{})
	time.Sleep(5 * time.Millisecond)

	m.Create()

	if m.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", m.Len())
	}
	if _, ok := m.Get(second.ID()); ok {
		t.Error("expected least recently used session to be evicted")
	}
	if _, ok := m.Get(first.ID()); !ok {
		t.Error("expected recently used session to survive")
	}
}

func TestSessionManager_CleanupOldSessions(t *testing.T) {
	m := NewManager(testDefaults, 10)
	old := m.Create()
	old.mu.Lock()
	old.lastAccessed = time.Now().Add(-2 * time.Hour)
	old.mu.Unlock()
	fresh := m.Create()

	if n := m.CleanupOldSessions(time.Hour); n != 1 {
		t.Errorf("expected 1 removed session, got %d", n)
	}
	if _, ok := m.Get(old.ID()); ok {
		t.Error("expected idle session to be removed")
	}
	if _, ok := m.Get(fresh.ID()); !ok {
		t.Error("expected fresh session to be kept")
	}
}
