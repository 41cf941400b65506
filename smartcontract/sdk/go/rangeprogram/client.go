package rangeprogram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
)

var (
	ErrAccountNotFound = errors.New("account not found")
)

type Client struct {
	log       *slog.Logger
	rpc       RPCClient
	programID solana.PublicKey
	executor  *executor
}

func New(log *slog.Logger, rpc RPCClient, signer *solana.PrivateKey, programID solana.PublicKey, opts ...ExecutorOption) *Client {
	return &Client{
		log:       log,
		rpc:       rpc,
		programID: programID,
		executor:  NewExecutor(log, rpc, signer, programID, opts...),
	}
}

func (c *Client) ProgramID() solana.PublicKey {
	return c.programID
}

func (c *Client) Signer() *solana.PrivateKey {
	if c.executor == nil {
		return nil
	}
	return c.executor.signer
}

// SettingsPDA returns the address of the Settings account.
func (c *Client) SettingsPDA() (solana.PublicKey, uint8, error) {
	return DeriveSettingsPDA(c.programID)
}

// GetSettings fetches the Settings account.
func (c *Client) GetSettings(ctx context.Context) (*SettingsAccount, error) {
	pda, _, err := DeriveSettingsPDA(c.programID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive PDA: %w", err)
	}

	account, err := c.rpc.GetAccountInfo(ctx, pda)
	if err != nil {
		if errors.Is(err, solanarpc.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account data: %w", err)
	}
	if account == nil || account.Value == nil {
		return nil, ErrAccountNotFound
	}
	if !account.Value.Owner.Equals(c.programID) {
		return nil, fmt.Errorf("settings account %s is owned by %s, want %s", pda, account.Value.Owner, c.programID)
	}

	settings, err := DeserializeSettings(account.Value.Data.GetBinary())
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize settings: %w", err)
	}
	return settings, nil
}

// InitializeSettings creates the Settings account with rangeSigner as the authority.
func (c *Client) InitializeSettings(
	ctx context.Context,
	config InitializeSettingsInstructionConfig,
) (solana.Signature, *solanarpc.GetTransactionResult, error) {
	instruction, err := BuildInitializeSettingsInstruction(c.programID, config)
	if err != nil {
		return solana.Signature{}, nil, fmt.Errorf("failed to build instruction: %w", err)
	}

	sig, res, err := c.executor.ExecuteTransaction(ctx, instruction, nil)
	if err != nil {
		return solana.Signature{}, nil, fmt.Errorf("failed to execute instruction: %w", err)
	}
	c.log.Info("Initialized range settings", "sig", sig, "rangeSigner", config.RangeSigner, "windowSize", config.WindowSize)
	return sig, res, nil
}

// VerifyRange submits a verify_range instruction. Rejections by the program are returned as a
// *TransactionError that matches the rangeverify sentinel errors.
func (c *Client) VerifyRange(
	ctx context.Context,
	config VerifyRangeInstructionConfig,
) (solana.Signature, *solanarpc.GetTransactionResult, error) {
	instruction, err := BuildVerifyRangeInstruction(c.programID, config)
	if err != nil {
		return solana.Signature{}, nil, fmt.Errorf("failed to build instruction: %w", err)
	}

	sig, res, err := c.executor.ExecuteTransaction(ctx, instruction, nil)
	if err != nil {
		return sig, res, fmt.Errorf("failed to execute instruction: %w", err)
	}
	return sig, res, nil
}
