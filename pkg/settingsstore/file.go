package settingsstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/range/pkg/rangeverify"
	"github.com/malbeclabs/range/smartcontract/sdk/go/rangeprogram"
)

// File persists the record in the same byte layout as the program's Settings account.
type File struct {
	path      string
	programID solana.PublicKey

	mu sync.RWMutex
}

// NewFile returns a store backed by path. The bump written to the file is the Settings PDA bump
// under programID.
func NewFile(path string, programID solana.PublicKey) *File {
	return &File{path: path, programID: programID}
}

func (f *File) Path() string {
	return f.path
}

// Initialize creates the file. It fails with ErrAlreadyInitialized if the file exists.
func (f *File) Initialize(windowSize uint64, authority solana.PublicKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, err := os.Stat(f.path)
	if err == nil {
		return ErrAlreadyInitialized
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat settings file: %w", err)
	}
	return f.write(rangeverify.InitializeSettings(windowSize, authority))
}

// Reinitialize overwrites the file wholesale.
func (f *File) Reinitialize(windowSize uint64, authority solana.PublicKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(rangeverify.InitializeSettings(windowSize, authority))
}

func (f *File) Get(_ context.Context) (*rangeverify.Settings, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	account, err := rangeprogram.DeserializeSettings(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode settings file %s: %w", f.path, err)
	}
	s := account.Settings()
	return &s, nil
}

func (f *File) write(settings rangeverify.Settings) error {
	_, bump, err := rangeprogram.DeriveSettingsPDA(f.programID)
	if err != nil {
		return fmt.Errorf("failed to derive PDA: %w", err)
	}
	data, err := rangeprogram.NewSettingsAccount(bump, settings).Bytes()
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close settings: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}
