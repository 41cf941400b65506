package rangeverify

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// Settings is the range verification configuration: the only key allowed to sign range messages
// and the symmetric tolerance around the current time, in seconds.
type Settings struct {
	Authority  solana.PublicKey
	WindowSize uint64
}

// InitializeSettings builds the settings record. A zero window is legal and rejects every message.
func InitializeSettings(windowSize uint64, authority solana.PublicKey) Settings {
	return Settings{
		Authority:  authority,
		WindowSize: windowSize,
	}
}

// Window returns the window size as a duration, saturating at the largest representable duration.
func (s Settings) Window() time.Duration {
	const maxSeconds = uint64(1<<63-1) / uint64(time.Second)
	if s.WindowSize > maxSeconds {
		return time.Duration(1<<63 - 1)
	}
	return time.Duration(s.WindowSize) * time.Second
}
