package rangeprogram

import (
	"bytes"
	"io"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/range/pkg/rangeverify"
)

// SettingsAccount is the on-chain layout of the Settings PDA.
type SettingsAccount struct {
	Discriminator [8]byte          // 8 bytes
	Bump          uint8            // 1 byte
	WindowSize    uint64           // 8 bytes LE
	RangeSigner   solana.PublicKey // 32 bytes
}

// NewSettingsAccount wraps settings in the account layout.
func NewSettingsAccount(bump uint8, settings rangeverify.Settings) *SettingsAccount {
	return &SettingsAccount{
		Discriminator: DiscriminatorSettings,
		Bump:          bump,
		WindowSize:    settings.WindowSize,
		RangeSigner:   settings.Authority,
	}
}

// Settings returns the verification settings held by the account.
func (s *SettingsAccount) Settings() rangeverify.Settings {
	return rangeverify.InitializeSettings(s.WindowSize, s.RangeSigner)
}

func (s *SettingsAccount) Serialize(w io.Writer) error {
	enc := bin.NewBorshEncoder(w)
	if err := enc.Encode(s.Discriminator); err != nil {
		return err
	}
	if err := enc.Encode(s.Bump); err != nil {
		return err
	}
	if err := enc.Encode(s.WindowSize); err != nil {
		return err
	}
	if err := enc.Encode(s.RangeSigner); err != nil {
		return err
	}
	return nil
}

func (s *SettingsAccount) Deserialize(data []byte) error {
	dec := bin.NewBorshDecoder(data)
	if err := dec.Decode(&s.Discriminator); err != nil {
		return err
	}
	if err := dec.Decode(&s.Bump); err != nil {
		return err
	}
	if err := dec.Decode(&s.WindowSize); err != nil {
		return err
	}
	if err := dec.Decode(&s.RangeSigner); err != nil {
		return err
	}
	return nil
}

// Bytes returns the serialized account.
func (s *SettingsAccount) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
