package rangeprogram

import (
	"github.com/gagliardetto/solana-go"
)

// DeriveSettingsPDA derives the PDA for the singleton Settings account.
// Seeds: ["Settings"]
func DeriveSettingsPDA(programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(SettingsSeed)}, programID)
}
