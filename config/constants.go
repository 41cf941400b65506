package config

const (
	// RangeProgramID is the range program ID (same across all environments).
	RangeProgramID = "qU4JaorHz5P8XkB256mKastX4eS3dAkiYVwEo9P1cJ7"

	// Solana RPC URLs.
	MainnetSolanaRPC  = "https://api.mainnet-beta.solana.com"
	TestnetSolanaRPC  = "https://api.testnet.solana.com"
	DevnetSolanaRPC   = "https://api.devnet.solana.com"
	LocalnetSolanaRPC = "http://localhost:8899"

	// Environment variable overrides.
	EnvVarRPCURL    = "RANGE_RPC_URL"
	EnvVarProgramID = "RANGE_PROGRAM_ID"
)
