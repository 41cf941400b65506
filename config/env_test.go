package config_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/range/config"
	"github.com/stretchr/testify/require"
)

func TestConfig_NetworkConfigForEnv(t *testing.T) {
	programID := solana.MustPublicKeyFromBase58(config.RangeProgramID)

	tests := []struct {
		env     string
		want    *config.NetworkConfig
		wantErr error
	}{
		{
			env:  config.EnvMainnet,
			want: &config.NetworkConfig{Moniker: config.EnvMainnetBeta, RPCURL: config.MainnetSolanaRPC, RangeProgramID: programID},
		},
		{
			env:  config.EnvMainnetBeta,
			want: &config.NetworkConfig{Moniker: config.EnvMainnetBeta, RPCURL: config.MainnetSolanaRPC, RangeProgramID: programID},
		},
		{
			env:  config.EnvTestnet,
			want: &config.NetworkConfig{Moniker: config.EnvTestnet, RPCURL: config.TestnetSolanaRPC, RangeProgramID: programID},
		},
		{
			env:  config.EnvDevnet,
			want: &config.NetworkConfig{Moniker: config.EnvDevnet, RPCURL: config.DevnetSolanaRPC, RangeProgramID: programID},
		},
		{
			env:  config.EnvLocalnet,
			want: &config.NetworkConfig{Moniker: config.EnvLocalnet, RPCURL: config.LocalnetSolanaRPC, RangeProgramID: programID},
		},
		{
			env:     "invalid",
			wantErr: config.ErrInvalidEnvironment,
		},
	}

	for _, test := range tests {
		t.Run(test.env, func(t *testing.T) {
			got, err := config.NetworkConfigForEnv(test.env)
			if test.wantErr != nil {
				require.ErrorIs(t, err, test.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}
}

func TestConfig_NetworkConfigForEnv_Overrides(t *testing.T) {
	override := solana.NewWallet().PublicKey()
	t.Setenv(config.EnvVarRPCURL, "http://rpc.example:8899")
	t.Setenv(config.EnvVarProgramID, override.String())

	got, err := config.NetworkConfigForEnv(config.EnvDevnet)
	require.NoError(t, err)
	require.Equal(t, "http://rpc.example:8899", got.RPCURL)
	require.Equal(t, override, got.RangeProgramID)
}

func TestConfig_NetworkConfigForEnv_InvalidProgramIDOverride(t *testing.T) {
	t.Setenv(config.EnvVarProgramID, "not-a-key")

	_, err := config.NetworkConfigForEnv(config.EnvDevnet)
	require.ErrorContains(t, err, config.EnvVarProgramID)
}
