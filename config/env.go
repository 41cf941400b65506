package config

import (
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
)

const (
	EnvMainnetBeta = "mainnet-beta"
	EnvMainnet     = "mainnet"
	EnvTestnet     = "testnet"
	EnvDevnet      = "devnet"
	EnvLocalnet    = "localnet"
)

var (
	ErrInvalidEnvironment = fmt.Errorf("invalid environment")
)

type NetworkConfig struct {
	Moniker        string
	RPCURL         string
	RangeProgramID solana.PublicKey
}

func NetworkConfigForEnv(env string) (*NetworkConfig, error) {
	programID, err := solana.PublicKeyFromBase58(RangeProgramID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse range program ID: %w", err)
	}

	var config *NetworkConfig
	switch env {
	case EnvMainnetBeta, EnvMainnet:
		config = &NetworkConfig{
			Moniker: EnvMainnetBeta,
			RPCURL:  MainnetSolanaRPC,
		}
	case EnvTestnet:
		config = &NetworkConfig{
			Moniker: EnvTestnet,
			RPCURL:  TestnetSolanaRPC,
		}
	case EnvDevnet:
		config = &NetworkConfig{
			Moniker: EnvDevnet,
			RPCURL:  DevnetSolanaRPC,
		}
	case EnvLocalnet:
		config = &NetworkConfig{
			Moniker: EnvLocalnet,
			RPCURL:  LocalnetSolanaRPC,
		}
	default:
		return nil, fmt.Errorf("%w %q, must be one of: %s, %s, %s, %s", ErrInvalidEnvironment, env, EnvMainnetBeta, EnvTestnet, EnvDevnet, EnvLocalnet)
	}
	config.RangeProgramID = programID

	if rpcURL := os.Getenv(EnvVarRPCURL); rpcURL != "" {
		config.RPCURL = rpcURL
	}
	if override := os.Getenv(EnvVarProgramID); override != "" {
		programID, err := solana.PublicKeyFromBase58(override)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", EnvVarProgramID, err)
		}
		config.RangeProgramID = programID
	}

	return config, nil
}
