package rangeverify

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"
)

// MessageDelimiter separates the timestamp from the signer key in a range message.
const MessageDelimiter = "_"

// ExtractedMessage is the content claimed by a range message.
type ExtractedMessage struct {
	Timestamp uint64
	Signer    solana.PublicKey
}

// FormatMessage renders the canonical "<timestamp>_<base58 pubkey>" message.
func FormatMessage(timestamp uint64, signer solana.PublicKey) []byte {
	return []byte(strconv.FormatUint(timestamp, 10) + MessageDelimiter + signer.String())
}

// DecodeMessage parses a range message. Invalid UTF-8 is replaced rather than rejected; the
// replacement can never produce a delimiter so it only ever surfaces as a parse failure of the part
// it landed in.
func DecodeMessage(b []byte) (ExtractedMessage, error) {
	text := string(b)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
	}

	parts := strings.Split(text, MessageDelimiter)
	if len(parts) != 2 {
		return ExtractedMessage{}, newError(ErrorCodeWrongMessageSplitLength, "got %d parts, want 2", len(parts))
	}

	ts, err := parseTimestamp(parts[0])
	if err != nil {
		return ExtractedMessage{}, err
	}
	signer, err := solana.PublicKeyFromBase58(parts[1])
	if err != nil {
		return ExtractedMessage{}, newError(ErrorCodePubkeyParsingFailed, "%q: %v", parts[1], err)
	}

	return ExtractedMessage{Timestamp: ts, Signer: signer}, nil
}

// parseTimestamp accepts a single leading '+' like the program's integer parser does.
func parseTimestamp(s string) (uint64, error) {
	ts, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, 64)
	if err != nil {
		return 0, newError(ErrorCodeTimestampParsingFailed, "%q: %v", s, err)
	}
	return ts, nil
}
