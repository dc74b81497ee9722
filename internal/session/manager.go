// Package session owns the editing sessions of the chart builder. Each
// session holds the state of one source document so several documents can
// be edited side by side without sharing state.
package session

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chart-builder/backend/internal/models"
	"github.com/google/uuid"
)

// DefaultMaxSessions limits concurrent sessions when none is configured.
const DefaultMaxSessions = 20

// Manager handles the active editing sessions.
type Manager struct {
	sessions    map[string]*EditSession
	mu          sync.RWMutex
	defaults    Defaults
	maxSessions int
}

// NewManager creates a session manager. New sessions start from defaults.
func NewManager(defaults Defaults, maxSessions int) *Manager {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &Manager{
		sessions:    make(map[string]*EditSession),
		defaults:    defaults,
		maxSessions: maxSessions,
	}
}

// Create starts a new session, evicting the least recently used one when
// the manager is full.
func (m *Manager) Create() *EditSession {
	s := NewEditSession(uuid.New().String(), m.defaults, time.Now())

	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictIfFullLocked()
	m.sessions[s.id] = s
	fmt.Printf("[Session %s] Created\n", shortID(s.id))
	return s
}

// evictIfFullLocked removes least recently used sessions until there is
// room for one more.
func (m *Manager) evictIfFullLocked() {
	if len(m.sessions) < m.maxSessions {
		return
	}

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return m.sessions[ids[i]].lastUsed().Before(m.sessions[ids[j]].lastUsed())
	})

	toFree := len(m.sessions) - m.maxSessions + 1
	for _, id := range ids[:toFree] {
		delete(m.sessions, id)
		fmt.Printf("[Manager] Evicted session %s to stay under %d sessions\n", shortID(id), m.maxSessions)
	}
}

// Get returns a session by ID.
func (m *Manager) Get(id string) (*EditSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	return s, ok
}

// Delete removes a session.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	fmt.Printf("[Session %s] Deleted\n", shortID(id))
	return true
}

// List returns snapshots of all sessions, most recently used first.
func (m *Manager) List() []models.SessionSnapshot {
	m.mu.RLock()
	list := make([]models.SessionSnapshot, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, s.Snapshot())
	}
	m.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].LastAccessed.After(list[j].LastAccessed)
	})
	return list
}

// Len returns the number of sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupOldSessions removes sessions not used within maxAge and returns
// how many were removed.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, s := range m.sessions {
		last := s.lastUsed()
		if last.Before(cutoff) {
			delete(m.sessions, id)
			removed++
			fmt.Printf("[Manager] Cleaned up idle session %s (last accessed: %s ago)\n",
				shortID(id), time.Since(last).Round(time.Second))
		}
	}
	return removed
}
