package rangeverify

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
)

var (
	ErrLoggerRequired = errors.New("logger is required")
)

type Config struct {
	Logger *slog.Logger

	// Optional configuration.
	Clock             clockwork.Clock
	SignatureVerifier SignatureVerifier
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return ErrLoggerRequired
	}

	// Optional configuration.
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.SignatureVerifier == nil {
		c.SignatureVerifier = Ed25519Verifier{}
	}
	return nil
}

// Verifier admits range messages signed by the configured authority within the time window.
// It holds no mutable state and is safe for concurrent use.
type Verifier struct {
	log *slog.Logger
	cfg Config
}

func NewVerifier(cfg Config) (*Verifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Verifier{
		log: cfg.Logger,
		cfg: cfg,
	}, nil
}

// Now returns the current unix time in seconds. Times before the epoch read as zero.
func (v *Verifier) Now() uint64 {
	unix := v.cfg.Clock.Now().Unix()
	if unix < 0 {
		return 0
	}
	return uint64(unix)
}

// Verify checks signature and message against settings at the current time.
func (v *Verifier) Verify(settings *Settings, signature, message []byte) error {
	return v.VerifyAt(v.Now(), settings, signature, message)
}

// VerifyAt checks signature and message against settings at the given unix time. Any failing step
// aborts the request.
func (v *Verifier) VerifyAt(now uint64, settings *Settings, signature, message []byte) error {
	err := v.verify(now, settings, signature, message)
	v.observe(now, err)
	return err
}

func (v *Verifier) verify(now uint64, settings *Settings, signature, message []byte) error {
	if settings == nil {
		return ErrSettingsNotInitialized
	}

	extracted, err := DecodeMessage(message)
	if err != nil {
		return err
	}

	if err := CheckWindow(now, settings.WindowSize, extracted.Timestamp); err != nil {
		return err
	}

	return CheckSignature(v.cfg.SignatureVerifier, extracted.Signer, settings.Authority, signature, message)
}

func (v *Verifier) observe(now uint64, err error) {
	if err == nil {
		VerifyRequests.WithLabelValues(ResultAccepted).Inc()
		v.log.Debug("range message accepted", "now", now)
		return
	}

	var rejection *Error
	if errors.As(err, &rejection) {
		VerifyRequests.WithLabelValues(ResultRejected).Inc()
		VerifyRejections.WithLabelValues(rejection.Reason()).Inc()
		v.log.Debug("range message rejected", "now", now, "reason", rejection.Reason(), "error", err)
		return
	}

	VerifyRequests.WithLabelValues(ResultError).Inc()
	if errors.Is(err, ErrSettingsNotInitialized) {
		VerifyRejections.WithLabelValues(ReasonSettingsNotInitialized).Inc()
	}
	v.log.Error("range verification failed", "now", now, "error", err)
}
