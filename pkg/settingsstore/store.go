// Package settingsstore holds the range verification settings record.
//
// Each store keeps a single record that is created once and then only read. Get returns a copy so
// callers can verify against a stable snapshot while the store is reinitialized.
package settingsstore

import (
	"context"
	"errors"

	"github.com/malbeclabs/range/pkg/rangeverify"
)

var (
	ErrNotInitialized     = rangeverify.ErrSettingsNotInitialized
	ErrAlreadyInitialized = errors.New("settings already initialized")
)

type Store interface {
	Get(ctx context.Context) (*rangeverify.Settings, error)
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*File)(nil)
	_ Store = (*Ledger)(nil)
)
