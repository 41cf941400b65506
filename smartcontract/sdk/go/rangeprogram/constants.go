package rangeprogram

import "github.com/gagliardetto/solana-go"

// ProgramID is the range program ID (same across all environments).
var ProgramID = solana.MustPublicKeyFromBase58("qU4JaorHz5P8XkB256mKastX4eS3dAkiYVwEo9P1cJ7")

// PDA seeds for the range program.
const (
	SettingsSeed = "Settings"
)

// Account layout sizes.
const (
	SettingsAccountSize = discriminatorSize + 1 + 8 + solana.PublicKeyLength
)
