package cli

import (
	"context"
	"log/slog"

	"github.com/malbeclabs/range/config"
	"github.com/malbeclabs/range/pkg/rangeverify"
	"github.com/malbeclabs/range/pkg/settingsstore"
)

// settingsStore returns the file store when path is set and the ledger store otherwise.
func settingsStore(log *slog.Logger, net *config.NetworkConfig, path string) (settingsstore.Store, error) {
	if path != "" {
		return settingsstore.NewFile(path, net.RangeProgramID), nil
	}
	return settingsstore.NewLedger(settingsstore.LedgerConfig{
		Logger: log,
		Client: newRangeClient(log, net, nil),
	})
}

func loadSettings(ctx context.Context, log *slog.Logger, net *config.NetworkConfig, path string) (*rangeverify.Settings, error) {
	store, err := settingsStore(log, net, path)
	if err != nil {
		return nil, err
	}
	return store.Get(ctx)
}
