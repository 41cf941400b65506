package settingsstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/jellydator/ttlcache/v3"
	"github.com/malbeclabs/range/pkg/rangeverify"
	"github.com/malbeclabs/range/smartcontract/sdk/go/rangeprogram"
)

const (
	defaultCacheTTL    = 30 * time.Second
	defaultMaxAttempts = 5

	settingsCacheKey = "settings"
)

var (
	ErrLoggerRequired = errors.New("logger is required")
	ErrClientRequired = errors.New("client is required")
	ErrNoSigner       = errors.New("client has no signer")
)

type LedgerClient interface {
	GetSettings(ctx context.Context) (*rangeprogram.SettingsAccount, error)
	InitializeSettings(ctx context.Context, config rangeprogram.InitializeSettingsInstructionConfig) (solana.Signature, *solanarpc.GetTransactionResult, error)
	Signer() *solana.PrivateKey
}

type LedgerConfig struct {
	Logger *slog.Logger
	Client LedgerClient

	// Optional configuration.
	CacheTTL    time.Duration
	MaxAttempts uint
	NewBackOff  func() backoff.BackOff
}

func (c *LedgerConfig) Validate() error {
	if c.Logger == nil {
		return ErrLoggerRequired
	}
	if c.Client == nil {
		return ErrClientRequired
	}

	// Optional configuration.
	if c.CacheTTL == 0 {
		c.CacheTTL = defaultCacheTTL
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.NewBackOff == nil {
		c.NewBackOff = func() backoff.BackOff { return backoff.NewExponentialBackOff() }
	}
	return nil
}

// Ledger reads the record from the program's Settings account. Reads are cached for CacheTTL.
type Ledger struct {
	log   *slog.Logger
	cfg   LedgerConfig
	cache *ttlcache.Cache[string, rangeverify.Settings]
}

func NewLedger(cfg LedgerConfig) (*Ledger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Ledger{
		log: cfg.Logger,
		cfg: cfg,
		cache: ttlcache.New(
			ttlcache.WithTTL[string, rangeverify.Settings](cfg.CacheTTL),
			ttlcache.WithDisableTouchOnHit[string, rangeverify.Settings](),
		),
	}, nil
}

func (l *Ledger) Get(ctx context.Context) (*rangeverify.Settings, error) {
	if item := l.cache.Get(settingsCacheKey); item != nil {
		s := item.Value()
		return &s, nil
	}

	s, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}
	l.cache.Set(settingsCacheKey, s, ttlcache.DefaultTTL)
	return &s, nil
}

// Invalidate drops the cached record so the next Get reads the ledger.
func (l *Ledger) Invalidate() {
	l.cache.Delete(settingsCacheKey)
}

// Initialize submits initialize_settings paid for by the client's signer.
func (l *Ledger) Initialize(ctx context.Context, windowSize uint64, authority solana.PublicKey) (solana.Signature, error) {
	signer := l.cfg.Client.Signer()
	if signer == nil {
		return solana.Signature{}, ErrNoSigner
	}

	if _, err := l.fetch(ctx); err == nil {
		return solana.Signature{}, ErrAlreadyInitialized
	} else if !errors.Is(err, ErrNotInitialized) {
		return solana.Signature{}, err
	}

	sig, _, err := l.cfg.Client.InitializeSettings(ctx, rangeprogram.InitializeSettingsInstructionConfig{
		Payer:       signer.PublicKey(),
		RangeSigner: authority,
		WindowSize:  windowSize,
	})
	if err != nil {
		return sig, fmt.Errorf("failed to initialize settings: %w", err)
	}
	l.Invalidate()
	return sig, nil
}

func (l *Ledger) fetch(ctx context.Context) (rangeverify.Settings, error) {
	attempt := 0
	account, err := backoff.Retry(ctx, func() (*rangeprogram.SettingsAccount, error) {
		if attempt > 0 {
			l.log.Warn("Failed to get settings account, retrying", "attempt", attempt)
		}
		attempt++
		account, err := l.cfg.Client.GetSettings(ctx)
		if errors.Is(err, rangeprogram.ErrAccountNotFound) {
			return nil, backoff.Permanent(ErrNotInitialized)
		}
		return account, err
	}, backoff.WithBackOff(l.cfg.NewBackOff()), backoff.WithMaxTries(l.cfg.MaxAttempts))
	if err != nil {
		if errors.Is(err, ErrNotInitialized) {
			return rangeverify.Settings{}, ErrNotInitialized
		}
		return rangeverify.Settings{}, fmt.Errorf("failed to get settings account: %w", err)
	}
	return account.Settings(), nil
}
