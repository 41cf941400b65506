package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/range/config"
	"github.com/malbeclabs/range/pkg/rangeverify"
	"github.com/malbeclabs/range/smartcontract/sdk/go/rangeprogram"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func keygen(t *testing.T, dir, name string) (string, solana.PrivateKey) {
	t.Helper()
	path := filepath.Join(dir, name)
	out, err := execute(t, "", "keygen", "--outfile", path)
	require.NoError(t, err)
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	require.NoError(t, err)
	require.Equal(t, key.PublicKey().String(), strings.TrimSpace(out))
	return path, key
}

func sign(t *testing.T, keypair string, timestamp string) (signature, message string) {
	t.Helper()
	out, err := execute(t, "", "sign", "--keypair", keypair, "--timestamp", timestamp)
	require.NoError(t, err)
	fields := strings.Fields(out)
	require.Len(t, fields, 2)
	return fields[0], fields[1]
}

func TestRangeCLI_Keygen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, _ := keygen(t, dir, "id.json")

	_, err := execute(t, "", "keygen", "--outfile", path)
	require.ErrorContains(t, err, "already exists")

	_, err = execute(t, "", "keygen", "--outfile", path, "--force")
	require.NoError(t, err)
}

func TestRangeCLI_Sign(t *testing.T) {
	t.Parallel()

	path, key := keygen(t, t.TempDir(), "id.json")
	signature, message := sign(t, path, "995")
	require.Equal(t, "995_"+key.PublicKey().String(), message)

	sig, err := base58.Decode(signature)
	require.NoError(t, err)
	require.True(t, rangeverify.Ed25519Verifier{}.Verify(key.PublicKey(), sig, []byte(message)))
}

func TestRangeCLI_SettingsFile_InitAndGet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	keypair, key := keygen(t, dir, "id.json")
	settingsFile := filepath.Join(dir, "settings.bin")

	out, err := execute(t, "", "settings", "init", "--window-size", "30", "--keypair", keypair, "--settings-file", settingsFile)
	require.NoError(t, err)
	require.Contains(t, out, key.PublicKey().String())

	_, err = execute(t, "", "settings", "init", "--window-size", "60", "--keypair", keypair, "--settings-file", settingsFile)
	require.ErrorContains(t, err, "--force")

	other := solana.NewWallet().PublicKey()
	_, err = execute(t, "", "settings", "init", "--window-size", "60", "--authority", other.String(), "--settings-file", settingsFile, "--force")
	require.NoError(t, err)

	out, err = execute(t, "", "settings", "get", "--settings-file", settingsFile)
	require.NoError(t, err)
	require.Contains(t, out, other.String())
	require.Contains(t, out, "1m0s")

	_, err = execute(t, "", "settings", "init", "--window-size", "30", "--settings-file", settingsFile)
	require.ErrorContains(t, err, "--authority or --keypair")
}

func TestRangeCLI_SettingsPDA(t *testing.T) {
	t.Parallel()

	programID := solana.NewWallet().PublicKey()
	pda, bump, err := rangeprogram.DeriveSettingsPDA(programID)
	require.NoError(t, err)

	out, err := execute(t, "", "settings", "pda", "--program-id", programID.String())
	require.NoError(t, err)
	require.Contains(t, out, "PDA: "+pda.String())
	require.Contains(t, out, "Bump: "+strconv.Itoa(int(bump)))

	defaultPDA, _, err := rangeprogram.DeriveSettingsPDA(solana.MustPublicKeyFromBase58(config.RangeProgramID))
	require.NoError(t, err)
	out, err = execute(t, "", "settings", "pda", "--env", config.EnvLocalnet)
	require.NoError(t, err)
	require.Contains(t, out, defaultPDA.String())

	_, err = execute(t, "", "settings", "pda", "--env", "nope")
	require.ErrorIs(t, err, config.ErrInvalidEnvironment)
}

func TestRangeCLI_Verify(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	authority, _ := keygen(t, dir, "authority.json")
	other, _ := keygen(t, dir, "other.json")
	settingsFile := filepath.Join(dir, "settings.bin")
	_, err := execute(t, "", "settings", "init", "--window-size", "30", "--keypair", authority, "--settings-file", settingsFile)
	require.NoError(t, err)

	t.Run("accepted", func(t *testing.T) {
		t.Parallel()
		signature, message := sign(t, authority, "995")
		out, err := execute(t, "", "verify", "--settings-file", settingsFile, "--now", "1000", "--message", message, "--signature", signature)
		require.NoError(t, err)
		require.Equal(t, "ACCEPTED\n", out)
	})

	t.Run("too far in the past", func(t *testing.T) {
		t.Parallel()
		signature, message := sign(t, authority, "969")
		out, err := execute(t, "", "verify", "--settings-file", settingsFile, "--now", "1000", "--message", message, "--signature", signature)
		require.ErrorIs(t, err, errRejected)
		require.Contains(t, out, "TimestampOutOfWindow_past")
	})

	t.Run("wrong signer", func(t *testing.T) {
		t.Parallel()
		signature, message := sign(t, other, "995")
		out, err := execute(t, "", "verify", "--settings-file", settingsFile, "--now", "1000", "--message", message, "--signature", signature)
		require.ErrorIs(t, err, errRejected)
		require.Contains(t, out, "WrongSigner")
	})

	t.Run("requires message and signature", func(t *testing.T) {
		t.Parallel()
		_, err := execute(t, "", "verify", "--settings-file", settingsFile)
		require.ErrorContains(t, err, "--batch")
	})

	t.Run("missing settings file", func(t *testing.T) {
		t.Parallel()
		signature, message := sign(t, authority, "995")
		_, err := execute(t, "", "verify", "--settings-file", filepath.Join(t.TempDir(), "missing.bin"), "--now", "1000", "--message", message, "--signature", signature)
		require.ErrorIs(t, err, rangeverify.ErrSettingsNotInitialized)
	})
}

func TestRangeCLI_VerifyBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	authority, _ := keygen(t, dir, "authority.json")
	settingsFile := filepath.Join(dir, "settings.bin")
	_, err := execute(t, "", "settings", "init", "--window-size", "30", "--keypair", authority, "--settings-file", settingsFile)
	require.NoError(t, err)

	okSig, okMsg := sign(t, authority, "1000")
	oldSig, oldMsg := sign(t, authority, "900")

	t.Run("all accepted from stdin", func(t *testing.T) {
		t.Parallel()
		in := "# header\n" + okSig + " " + okMsg + "\n\n" + okSig + " " + okMsg + "\n"
		out, err := execute(t, in, "verify", "--settings-file", settingsFile, "--now", "1000", "--batch", "-")
		require.NoError(t, err)
		require.Contains(t, out, "Accepted: 2/2")
	})

	t.Run("mixed results from file with metrics", func(t *testing.T) {
		t.Parallel()
		batch := filepath.Join(t.TempDir(), "batch.txt")
		lines := strings.Join([]string{
			okSig + " " + okMsg,
			oldSig + " " + oldMsg,
			"garbage",
			"0OIl " + okMsg,
		}, "\n")
		require.NoError(t, os.WriteFile(batch, []byte(lines), 0o600))
		metrics := filepath.Join(t.TempDir(), "range.prom")

		out, err := execute(t, "", "verify", "--settings-file", settingsFile, "--now", "1000", "--batch", batch, "--metrics-textfile", metrics)
		require.ErrorIs(t, err, errRejected)
		require.Contains(t, out, "Accepted: 1/4")
		require.Contains(t, out, "TimestampOutOfWindow_past")
		require.Contains(t, out, "MalformedLine")
		require.Contains(t, out, "InvalidSignatureEncoding")

		data, err := os.ReadFile(metrics)
		require.NoError(t, err)
		require.Contains(t, string(data), "range_verify_requests_total")
		require.Contains(t, string(data), "range_verify_rejections_total")
	})
}

func TestRangeCLI_GlobalFlags_NetworkConfig(t *testing.T) {
	t.Parallel()

	g := &globalFlags{env: config.EnvTestnet, rpcURL: "http://127.0.0.1:1234"}
	net, err := g.networkConfig()
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:1234", net.RPCURL)
	require.Equal(t, config.EnvTestnet, net.Moniker)

	g.programID = "bad"
	_, err = g.networkConfig()
	require.ErrorContains(t, err, "invalid program ID")
}
