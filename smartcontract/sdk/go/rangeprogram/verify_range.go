package rangeprogram

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
)

type VerifyRangeInstructionConfig struct {
	Signer    solana.PublicKey
	Signature []byte
	Message   []byte
}

func (c *VerifyRangeInstructionConfig) Validate() error {
	if c.Signer.IsZero() {
		return fmt.Errorf("signer public key is required")
	}
	if len(c.Message) == 0 {
		return fmt.Errorf("message is required")
	}
	return nil
}

func BuildVerifyRangeInstruction(
	programID solana.PublicKey,
	config VerifyRangeInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	data, err := borsh.Serialize(struct {
		Discriminator [8]byte
		Signature     []byte
		Message       []byte
	}{
		Discriminator: DiscriminatorVerifyRange,
		Signature:     config.Signature,
		Message:       config.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize args: %w", err)
	}

	settingsPDA, _, err := DeriveSettingsPDA(programID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive settings PDA: %w", err)
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: config.Signer, IsSigner: true, IsWritable: true},
		{PublicKey: settingsPDA, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SysVarRentPubkey, IsSigner: false, IsWritable: false},
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     data,
	}, nil
}
