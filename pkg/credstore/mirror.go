package credstore

import (
	"net/http"
	"sync"
)

// DefaultCookieName is the cookie key the route guard reads. It matches the
// persisted storage key for the access token so both views name the same
// logical value.
const DefaultCookieName = "access_token"

// Mirror is the secondary view of the credential. The sqlite and memory
// stores call Set/Clear inside their own Save/Clear so the two views cannot
// drift apart.
type Mirror interface {
	Set(accessToken string)
	Clear()
}

// CookieMirror mirrors the access token into an HTTP cookie for the route
// guard, which runs before any page logic and has no access to the persisted
// store. It only ever carries the access token — the refresh token never
// leaves the primary store.
type CookieMirror struct {
	mu     sync.RWMutex
	name   string
	value  string
	dirty  bool // a Set/Clear happened since the last Apply observed it
	secure bool
}

// NewCookieMirror returns a mirror writing cookies under name (empty means
// DefaultCookieName). Set secure for HTTPS-only deployments.
func NewCookieMirror(name string, secure bool) *CookieMirror {
	if name == "" {
		name = DefaultCookieName
	}
	return &CookieMirror{name: name, secure: secure}
}

// Set records the access token as the current cookie value.
func (m *CookieMirror) Set(accessToken string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = accessToken
	m.dirty = true
}

// Clear marks the cookie for deletion.
func (m *CookieMirror) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = ""
	m.dirty = true
}

// Value returns the mirrored access token, empty when cleared.
func (m *CookieMirror) Value() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.value
}

// Name returns the cookie name the mirror writes under.
func (m *CookieMirror) Name() string { return m.name }

// Apply writes the current cookie state to the response if it changed since
// the last Apply. A cleared mirror emits a deletion cookie (MaxAge -1).
func (m *CookieMirror) Apply(w http.ResponseWriter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dirty {
		return
	}
	m.dirty = false

	cookie := &http.Cookie{
		Name:     m.name,
		Value:    m.value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if m.value == "" {
		cookie.MaxAge = -1
	}
	http.SetCookie(w, cookie)
}
