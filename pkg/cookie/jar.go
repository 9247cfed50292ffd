package cookie

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/kushi-labs/kushi/pkg/kv"
)

// DefaultJarMaxAge keeps jar values for a year.
const DefaultJarMaxAge = 365 * 24 * 60 * 60

// Jar exposes one client's signed, long-lived cookies as a kv.Store.
// Writes are sent on the response and are visible to later reads through
// the same Jar, so a handler can write and re-read within one request.
// Values whose signature does not verify read as absent.
type Jar struct {
	m      *Manager
	w      http.ResponseWriter
	r      *http.Request
	maxAge int

	mu      sync.Mutex
	pending map[string]*string // nil value marks a deletion
}

var _ kv.Store = (*Jar)(nil)

// Jar binds the manager to one request/response pair. maxAge <= 0 selects
// DefaultJarMaxAge.
func (m *Manager) Jar(w http.ResponseWriter, r *http.Request, maxAge int) *Jar {
	if maxAge <= 0 {
		maxAge = DefaultJarMaxAge
	}
	return &Jar{m: m, w: w, r: r, maxAge: maxAge, pending: make(map[string]*string)}
}

func (j *Jar) Get(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", kv.ErrEmptyKey
	}

	j.mu.Lock()
	v, written := j.pending[key]
	j.mu.Unlock()
	if written {
		if v == nil {
			return "", kv.ErrNotFound
		}
		return *v, nil
	}

	value, err := j.m.GetSigned(j.r, key)
	switch {
	case err == nil:
		return value, nil
	case errors.Is(err, ErrCookieNotFound),
		errors.Is(err, ErrInvalidSignature),
		errors.Is(err, ErrInvalidFormat):
		return "", kv.ErrNotFound
	default:
		return "", err
	}
}

func (j *Jar) Set(_ context.Context, key, value string) error {
	if key == "" {
		return kv.ErrEmptyKey
	}
	if err := j.m.SetSigned(j.w, key, value, WithMaxAge(j.maxAge)); err != nil {
		return err
	}
	j.mu.Lock()
	j.pending[key] = &value
	j.mu.Unlock()
	return nil
}

func (j *Jar) Delete(_ context.Context, key string) error {
	if key == "" {
		return kv.ErrEmptyKey
	}
	j.m.Delete(j.w, key)
	j.mu.Lock()
	j.pending[key] = nil
	j.mu.Unlock()
	return nil
}
