// Package session is the client's single mutation surface for persisted
// auth state. Every write goes through the Manager, which persists the whole
// record atomically and notifies subscribers, so observers never see a
// partially-updated session.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rashid4567/recruitiq/internal/common"
	"github.com/rashid4567/recruitiq/internal/filex"
)

// Session is the persisted client auth state. Zero value means logged out.
type Session struct {
	AccessToken      string      `json:"accessToken,omitempty"`
	Role             common.Role `json:"role,omitempty"`
	UserID           string      `json:"userId,omitempty"`
	ProfileCompleted bool        `json:"profileCompleted,omitempty"`

	// Pending registration countdown state, kept so a restarted client can
	// resume the timer for the same email.
	OtpEmail     string    `json:"otpEmail,omitempty"`
	OtpExpiresAt time.Time `json:"otpExpiresAt,omitempty"`
}

// LoggedIn reports whether the session carries an access token.
func (s Session) LoggedIn() bool {
	return s.AccessToken != ""
}

// Manager owns the session record. Safe for concurrent use.
type Manager struct {
	mu          sync.RWMutex
	current     Session
	path        string
	subscribers []func(Session)
}

// NewManager loads any persisted session from dir and returns a manager
// over it. A missing or corrupt file starts logged out.
func NewManager(dir string) (*Manager, error) {
	stateDir, err := filex.EnsureSubDir(dir)
	if err != nil {
		return nil, fmt.Errorf("session dir: %w", err)
	}

	m := &Manager{path: filepath.Join(stateDir, "session.json")}
	if data, err := os.ReadFile(m.path); err == nil {
		var s Session
		if json.Unmarshal(data, &s) == nil {
			m.current = s
		}
	}
	return m, nil
}

// Get returns a copy of the current session.
func (m *Manager) Get() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Set replaces the session record, persists it, and notifies subscribers.
func (m *Manager) Set(s Session) error {
	m.mu.Lock()
	m.current = s
	subs := make([]func(Session), len(m.subscribers))
	copy(subs, m.subscribers)
	err := m.persist(s)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
	return err
}

// Update applies fn to a copy of the current session and stores the result.
// The read-modify-write is atomic with respect to other Updates.
func (m *Manager) Update(fn func(*Session)) error {
	m.mu.Lock()
	s := m.current
	fn(&s)
	m.current = s
	subs := make([]func(Session), len(m.subscribers))
	copy(subs, m.subscribers)
	err := m.persist(s)
	m.mu.Unlock()

	for _, sub := range subs {
		sub(s)
	}
	return err
}

// Clear drops every persisted key at once. Never partial: the zero record
// replaces the file in a single atomic write.
func (m *Manager) Clear() error {
	return m.Set(Session{})
}

// Subscribe registers fn to run after every session change. Not removable;
// subscribers live as long as the manager.
func (m *Manager) Subscribe(fn func(Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

func (m *Manager) persist(s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return filex.WriteFileAtomic(m.path, data, 0o600)
}
