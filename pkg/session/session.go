package session

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// UserKey is the data key whose presence marks a session as authenticated.
const UserKey = "user"

// Session represents a browser session with associated data
type Session struct {
	ID             uuid.UUID         `json:"id"`
	Token          string            `json:"token"`
	Data           map[string]string `json:"data,omitempty"`
	ExpiresAt      time.Time         `json:"expires_at"`
	LastActivityAt time.Time         `json:"last_activity_at"`
	CreatedAt      time.Time         `json:"created_at"`
}

// NewSession creates a new anonymous session
func NewSession(token string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:             uuid.New(),
		Token:          token,
		Data:           make(map[string]string),
		ExpiresAt:      now.Add(ttl),
		LastActivityAt: now,
		CreatedAt:      now,
	}
}

// IsAuthenticated reports whether a user is recorded in the session
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Data[UserKey] != ""
}

// IsExpired returns true if the session has expired
func (s *Session) IsExpired() bool {
	return s != nil && time.Now().After(s.ExpiresAt)
}

func (s *Session) Get(key string) (string, bool) {
	if s == nil || s.Data == nil {
		return "", false
	}
	val, ok := s.Data[key]
	return val, ok
}

func (s *Session) Set(key, value string) {
	if s == nil {
		return
	}
	if s.Data == nil {
		s.Data = make(map[string]string)
	}
	s.Data[key] = value
}

func (s *Session) Delete(key string) {
	if s == nil || s.Data == nil {
		return
	}
	delete(s.Data, key)
}

// Clear removes all data from the session
func (s *Session) Clear() {
	if s == nil {
		return
	}
	s.Data = make(map[string]string)
}

// Touch updates the last activity time
func (s *Session) Touch() {
	if s == nil {
		return
	}
	s.LastActivityAt = time.Now()
}

// clone returns a deep copy so stores never share Data with callers.
func (s *Session) clone() *Session {
	c := *s
	if s.Data != nil {
		c.Data = maps.Clone(s.Data)
	}
	return &c
}
