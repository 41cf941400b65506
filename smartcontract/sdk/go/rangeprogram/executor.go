package rangeprogram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/jonboulle/clockwork"
)

var (
	// ErrNoPrivateKey is returned when a transaction signing operation is attempted without a configured private key.
	ErrNoPrivateKey = errors.New("no private key configured")

	// ErrNoProgramID is returned when a transaction signing operation is attempted without a configured program ID.
	ErrNoProgramID = errors.New("no program ID configured")

	// ErrSignatureNotVisible is returned when a sent transaction never shows up in signature statuses.
	ErrSignatureNotVisible = errors.New("signature not found after wait")
)

const (
	defaultWaitForVisibleTimeout = 3 * time.Second
	defaultVisiblePollInterval   = 250 * time.Millisecond
	defaultFinalizePollInterval  = 1 * time.Second
)

type executor struct {
	log                   *slog.Logger
	rpc                   RPCClient
	signer                *solana.PrivateKey
	programID             solana.PublicKey
	clock                 clockwork.Clock
	waitForVisibleTimeout time.Duration
	commitment            solanarpc.CommitmentType
}

type ExecutorOption func(*executor)

func WithWaitForVisibleTimeout(timeout time.Duration) ExecutorOption {
	return func(e *executor) {
		e.waitForVisibleTimeout = timeout
	}
}

func WithClock(clock clockwork.Clock) ExecutorOption {
	return func(e *executor) {
		e.clock = clock
	}
}

// WithCommitment sets the commitment level the executor waits for. Defaults to finalized.
func WithCommitment(commitment solanarpc.CommitmentType) ExecutorOption {
	return func(e *executor) {
		e.commitment = commitment
	}
}

func NewExecutor(log *slog.Logger, rpc RPCClient, signer *solana.PrivateKey, programID solana.PublicKey, opts ...ExecutorOption) *executor {
	e := &executor{
		log:                   log,
		rpc:                   rpc,
		signer:                signer,
		programID:             programID,
		clock:                 clockwork.NewRealClock(),
		waitForVisibleTimeout: defaultWaitForVisibleTimeout,
		commitment:            solanarpc.CommitmentFinalized,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type ExecuteTransactionOptions struct {
	SkipPreflight bool
}

func (e *executor) ExecuteTransaction(ctx context.Context, instruction solana.Instruction, opts *ExecuteTransactionOptions) (solana.Signature, *solanarpc.GetTransactionResult, error) {
	if opts == nil {
		opts = &ExecuteTransactionOptions{}
	}
	if e.signer == nil {
		return solana.Signature{}, nil, ErrNoPrivateKey
	}
	if e.programID.IsZero() {
		return solana.Signature{}, nil, ErrNoProgramID
	}

	tx, err := e.buildSignedTransaction(ctx, instruction)
	if err != nil {
		return solana.Signature{}, nil, err
	}

	sig, err := e.rpc.SendTransactionWithOpts(ctx, tx, solanarpc.TransactionOpts{
		SkipPreflight:       opts.SkipPreflight,
		PreflightCommitment: e.commitment,
	})
	if err != nil {
		// Preflight simulation failures carry the program's custom error code in the message.
		return solana.Signature{}, nil, fmt.Errorf("failed to send transaction: %w", newTransactionError(err, err))
	}
	e.log.Debug("Sent range program transaction", "sig", sig, "skipPreflight", opts.SkipPreflight)

	if err := e.waitForSignatureVisible(ctx, sig); err != nil {
		if opts.SkipPreflight {
			return solana.Signature{}, nil, fmt.Errorf("transaction dropped or rejected before cluster saw it. make sure you have sufficient funds for the transaction: %w", err)
		}
		return solana.Signature{}, nil, fmt.Errorf("transaction dropped or rejected before cluster saw it: %w", err)
	}

	res, err := e.waitForTransaction(ctx, sig)
	if err != nil {
		return sig, nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if res.Meta.Err != nil {
		return sig, res, newTransactionError(res.Meta.Err, fmt.Errorf("%v", res.Meta.Err))
	}

	return sig, res, nil
}

func (e *executor) buildSignedTransaction(ctx context.Context, instruction solana.Instruction) (*solana.Transaction, error) {
	blockhashResult, err := e.rpc.GetLatestBlockhash(ctx, e.commitment)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest blockhash: %w", err)
	}
	if blockhashResult == nil || blockhashResult.Value == nil {
		return nil, errors.New("latest blockhash response is empty")
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{instruction},
		blockhashResult.Value.Blockhash,
		solana.TransactionPayer(e.signer.PublicKey()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(e.signer.PublicKey()) {
			return e.signer
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction (likely missing signer): %w", err)
	}
	if len(tx.Signatures) == 0 {
		return nil, errors.New("signed transaction appears malformed")
	}
	return tx, nil
}

func (e *executor) waitForSignatureVisible(ctx context.Context, sig solana.Signature) error {
	deadline := e.clock.Now().Add(e.waitForVisibleTimeout)
	for e.clock.Now().Before(deadline) {
		resp, err := e.rpc.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			return err
		}
		if len(resp.Value) > 0 && resp.Value[0] != nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.clock.After(defaultVisiblePollInterval):
		}
	}
	return ErrSignatureNotVisible
}

func (e *executor) waitForTransaction(ctx context.Context, sig solana.Signature) (*solanarpc.GetTransactionResult, error) {
	e.log.Debug("--> Waiting for transaction to reach commitment", "sig", sig, "commitment", e.commitment)
	start := e.clock.Now()
	for {
		statusResp, err := e.rpc.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			return nil, err
		}
		if len(statusResp.Value) == 0 {
			return nil, errors.New("transaction not found")
		}
		if status := statusResp.Value[0]; status != nil && reachedCommitment(status.ConfirmationStatus, e.commitment) {
			e.log.Debug("--> Transaction reached commitment", "sig", sig, "duration", e.clock.Since(start))
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-e.clock.After(defaultFinalizePollInterval):
		}
	}

	tx, err := e.rpc.GetTransaction(ctx, sig, &solanarpc.GetTransactionOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: e.commitment,
	})
	if err != nil {
		return nil, err
	}
	if tx == nil || tx.Meta == nil {
		return nil, errors.New("transaction not found or missing metadata")
	}
	return tx, nil
}

func reachedCommitment(status solanarpc.ConfirmationStatusType, want solanarpc.CommitmentType) bool {
	switch want {
	case solanarpc.CommitmentProcessed:
		return status != ""
	case solanarpc.CommitmentConfirmed:
		return status == solanarpc.ConfirmationStatusConfirmed || status == solanarpc.ConfirmationStatusFinalized
	default:
		return status == solanarpc.ConfirmationStatusFinalized
	}
}
