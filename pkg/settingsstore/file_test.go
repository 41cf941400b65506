package settingsstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/range/pkg/rangeverify"
	"github.com/malbeclabs/range/pkg/settingsstore"
	"github.com/malbeclabs/range/smartcontract/sdk/go/rangeprogram"
	"github.com/stretchr/testify/require"
)

func TestSettingsStore_File(t *testing.T) {
	t.Parallel()

	programID := solana.NewWallet().PublicKey()
	a := solana.NewWallet().PublicKey()
	b := solana.NewWallet().PublicKey()

	t.Run("missing file is not initialized", func(t *testing.T) {
		t.Parallel()
		f := settingsstore.NewFile(filepath.Join(t.TempDir(), "settings.bin"), programID)
		_, err := f.Get(t.Context())
		require.ErrorIs(t, err, settingsstore.ErrNotInitialized)
	})

	t.Run("initialize writes the account layout", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "settings.bin")
		f := settingsstore.NewFile(path, programID)
		require.Equal(t, path, f.Path())
		require.NoError(t, f.Initialize(30, a))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Len(t, data, rangeprogram.SettingsAccountSize)

		account, err := rangeprogram.DeserializeSettings(data)
		require.NoError(t, err)
		_, bump, err := rangeprogram.DeriveSettingsPDA(programID)
		require.NoError(t, err)
		require.Equal(t, bump, account.Bump)
		require.Equal(t, a, account.RangeSigner)
		require.Equal(t, uint64(30), account.WindowSize)

		got, err := f.Get(t.Context())
		require.NoError(t, err)
		require.Equal(t, rangeverify.InitializeSettings(30, a), *got)
	})

	t.Run("initialize refuses existing file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "settings.bin")
		f := settingsstore.NewFile(path, programID)
		require.NoError(t, f.Initialize(30, a))
		require.ErrorIs(t, f.Initialize(60, b), settingsstore.ErrAlreadyInitialized)

		// A second store on the same path sees the persisted record.
		got, err := settingsstore.NewFile(path, programID).Get(t.Context())
		require.NoError(t, err)
		require.Equal(t, a, got.Authority)
	})

	t.Run("reinitialize overwrites", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		f := settingsstore.NewFile(filepath.Join(dir, "settings.bin"), programID)
		require.NoError(t, f.Initialize(30, a))
		require.NoError(t, f.Reinitialize(5, b))

		got, err := f.Get(t.Context())
		require.NoError(t, err)
		require.Equal(t, rangeverify.InitializeSettings(5, b), *got)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1, "temp files must not be left behind")
	})

	t.Run("corrupt file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "settings.bin")
		require.NoError(t, os.WriteFile(path, []byte("not a settings account"), 0o600))
		_, err := settingsstore.NewFile(path, programID).Get(t.Context())
		require.ErrorIs(t, err, rangeprogram.ErrInvalidDiscriminator)
	})
}
