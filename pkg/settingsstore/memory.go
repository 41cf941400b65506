package settingsstore

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/range/pkg/rangeverify"
)

type Memory struct {
	mu       sync.RWMutex
	settings *rangeverify.Settings
}

func NewMemory() *Memory {
	return &Memory{}
}

// Initialize creates the record. It fails with ErrAlreadyInitialized if one exists.
func (m *Memory) Initialize(windowSize uint64, authority solana.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings != nil {
		return ErrAlreadyInitialized
	}
	s := rangeverify.InitializeSettings(windowSize, authority)
	m.settings = &s
	return nil
}

// Reinitialize replaces the record wholesale.
func (m *Memory) Reinitialize(windowSize uint64, authority solana.PublicKey) {
	s := rangeverify.InitializeSettings(windowSize, authority)
	m.mu.Lock()
	m.settings = &s
	m.mu.Unlock()
}

func (m *Memory) Get(_ context.Context) (*rangeverify.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.settings == nil {
		return nil, ErrNotInitialized
	}
	s := *m.settings
	return &s, nil
}
