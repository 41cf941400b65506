package rangeprogram

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
)

type InitializeSettingsInstructionConfig struct {
	Payer       solana.PublicKey
	RangeSigner solana.PublicKey
	WindowSize  uint64
}

func (c *InitializeSettingsInstructionConfig) Validate() error {
	if c.Payer.IsZero() {
		return fmt.Errorf("payer public key is required")
	}
	if c.RangeSigner.IsZero() {
		return fmt.Errorf("range signer public key is required")
	}
	return nil
}

func BuildInitializeSettingsInstruction(
	programID solana.PublicKey,
	config InitializeSettingsInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	data, err := borsh.Serialize(struct {
		Discriminator [8]byte
		WindowSize    uint64
	}{
		Discriminator: DiscriminatorInitializeSettings,
		WindowSize:    config.WindowSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize args: %w", err)
	}

	settingsPDA, _, err := DeriveSettingsPDA(programID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive settings PDA: %w", err)
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: config.Payer, IsSigner: true, IsWritable: true},
		{PublicKey: settingsPDA, IsSigner: false, IsWritable: true},
		{PublicKey: config.RangeSigner, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SysVarRentPubkey, IsSigner: false, IsWritable: false},
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     data,
	}, nil
}
