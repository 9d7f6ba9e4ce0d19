package app

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const sessionKey = "session_id"

// SessionManager owns the per-install conversation identity. The id is
// generated once, persisted, and stays stable across restarts until Rotate.
type SessionManager struct {
	kv     KVStore
	logger *Logger

	now  func() time.Time
	rand func(n int) int
}

func NewSessionManager(kv KVStore, logger *Logger) *SessionManager {
	return &SessionManager{
		kv:     kv,
		logger: logger,
		now:    time.Now,
		rand:   rand.Intn,
	}
}

// GetOrCreate returns the stored session id, synthesizing and persisting a
// fresh one when the store has none.
func (m *SessionManager) GetOrCreate() string {
	if m.kv != nil {
		if id, ok := m.kv.Get(sessionKey); ok && strings.TrimSpace(id) != "" {
			return id
		}
	}
	return m.persistNew()
}

// Rotate unconditionally replaces the session id. Callers pair this with
// clearing transient chat state; the learning history is left alone.
func (m *SessionManager) Rotate() string {
	return m.persistNew()
}

func (m *SessionManager) persistNew() string {
	id := fmt.Sprintf("%d-%06d", m.now().UnixMilli(), m.rand(1000000))
	if m.kv != nil {
		if err := m.kv.Set(sessionKey, id); err != nil {
			m.logger.Warn("session store write failed", map[string]interface{}{
				"error": fmt.Sprintf("%v", err),
			})
		}
	}
	return id
}

// ShortForm compacts an id for display: the token between the first and
// second hyphen when present, otherwise the last 6 characters.
func ShortForm(id string) string {
	parts := strings.Split(id, "-")
	if len(parts) >= 2 && parts[1] != "" {
		return parts[1]
	}
	if len(id) > 6 {
		return id[len(id)-6:]
	}
	return id
}
