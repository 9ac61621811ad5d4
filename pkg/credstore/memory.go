package credstore

import (
	"context"
	"sync"
)

// Memory is an in-process Store for tests and ephemeral deployments where
// the credential should not survive a restart.
type Memory struct {
	mu     sync.RWMutex
	cred   Credential
	valid  bool
	mirror Mirror
}

// NewMemory returns an empty in-memory store. mirror may be nil.
func NewMemory(mirror Mirror) *Memory {
	return &Memory{mirror: mirror}
}

func (m *Memory) Load(ctx context.Context) (Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.valid {
		return Credential{}, ErrNoCredential
	}
	return m.cred, nil
}

func (m *Memory) Save(ctx context.Context, cred Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = cred
	m.valid = true
	if m.mirror != nil {
		m.mirror.Set(cred.AccessToken)
	}
	return nil
}

func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = Credential{}
	m.valid = false
	if m.mirror != nil {
		m.mirror.Clear()
	}
	return nil
}
