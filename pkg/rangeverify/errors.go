package rangeverify

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a verification rejection. Values match the custom error codes emitted by the
// on-chain range program (anchor offsets them from 6000).
type ErrorCode uint32

const (
	ErrorCodeCustomError             ErrorCode = 6000
	ErrorCodeTimestampParsingFailed  ErrorCode = 6001
	ErrorCodePubkeyParsingFailed     ErrorCode = 6002
	ErrorCodeWrongMessageSplitLength ErrorCode = 6003
	ErrorCodeWrongSigner             ErrorCode = 6004
	ErrorCodeCouldntVerifySignature  ErrorCode = 6005
	ErrorCodeTimestampOutOfWindow    ErrorCode = 6006
)

func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeCustomError:
		return "CustomError"
	case ErrorCodeTimestampParsingFailed:
		return "TimestampParsingFailed"
	case ErrorCodePubkeyParsingFailed:
		return "PubkeyParsingFailed"
	case ErrorCodeWrongMessageSplitLength:
		return "WrongMessageSplitLength"
	case ErrorCodeWrongSigner:
		return "WrongSigner"
	case ErrorCodeCouldntVerifySignature:
		return "CouldntVerifySignature"
	case ErrorCodeTimestampOutOfWindow:
		return "TimestampOutOfWindow"
	default:
		return fmt.Sprintf("ErrorCode(%d)", uint32(c))
	}
}

// Message is the human readable description reported by the program for the code.
func (c ErrorCode) Message() string {
	switch c {
	case ErrorCodeCustomError:
		return "Custom error message"
	case ErrorCodeTimestampParsingFailed:
		return "Timestamp Parsing Failed"
	case ErrorCodePubkeyParsingFailed:
		return "Pubkey Parsing Failed"
	case ErrorCodeWrongMessageSplitLength:
		return "Wrong Message Split Length"
	case ErrorCodeWrongSigner:
		return "Wrong Signer"
	case ErrorCodeCouldntVerifySignature:
		return "Couldnt Verify Signature"
	case ErrorCodeTimestampOutOfWindow:
		return "Timestamp Out Of Window"
	default:
		return "Unknown error"
	}
}

// Valid reports whether c is one of the known codes.
func (c ErrorCode) Valid() bool {
	return c >= ErrorCodeCustomError && c <= ErrorCodeTimestampOutOfWindow
}

// WindowBound tells which side of the tolerance window a timestamp violated.
type WindowBound uint8

const (
	WindowBoundNone WindowBound = iota
	WindowBoundFuture
	WindowBoundPast
)

func (b WindowBound) String() string {
	switch b {
	case WindowBoundFuture:
		return "future"
	case WindowBoundPast:
		return "past"
	default:
		return "none"
	}
}

// Error is a terminal verification rejection.
type Error struct {
	Code   ErrorCode
	Bound  WindowBound
	Detail string
}

func (e *Error) Error() string {
	msg := e.Code.Message()
	if e.Bound != WindowBoundNone {
		msg = fmt.Sprintf("%s (too far in the %s)", msg, e.Bound)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return msg
}

// Is matches on code, and on bound when the target carries one, so ErrTimestampOutOfWindow matches
// both directions while ErrTimestampTooFarInPast matches only the lower bound.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != e.Code {
		return false
	}
	return t.Bound == WindowBoundNone || t.Bound == e.Bound
}

// Reason is the metric/log label for the rejection.
func (e *Error) Reason() string {
	if e.Bound != WindowBoundNone {
		return e.Code.String() + "_" + e.Bound.String()
	}
	return e.Code.String()
}

var (
	ErrCustom                  = &Error{Code: ErrorCodeCustomError}
	ErrTimestampParsingFailed  = &Error{Code: ErrorCodeTimestampParsingFailed}
	ErrPubkeyParsingFailed     = &Error{Code: ErrorCodePubkeyParsingFailed}
	ErrWrongMessageSplitLength = &Error{Code: ErrorCodeWrongMessageSplitLength}
	ErrWrongSigner             = &Error{Code: ErrorCodeWrongSigner}
	ErrCouldntVerifySignature  = &Error{Code: ErrorCodeCouldntVerifySignature}
	ErrTimestampOutOfWindow    = &Error{Code: ErrorCodeTimestampOutOfWindow}
	ErrTimestampTooFarInFuture = &Error{Code: ErrorCodeTimestampOutOfWindow, Bound: WindowBoundFuture}
	ErrTimestampTooFarInPast   = &Error{Code: ErrorCodeTimestampOutOfWindow, Bound: WindowBoundPast}

	// ErrSettingsNotInitialized is an operational precondition failure, not a rejection code.
	ErrSettingsNotInitialized = errors.New("settings not initialized")
)

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Detail: fmt.Sprintf(format, args...)}
}

// CodeOf returns the rejection code carried by err, if any.
func CodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}

// ErrorFromCode returns the sentinel for a program error code, or nil if the code is unknown.
func ErrorFromCode(code uint32) *Error {
	c := ErrorCode(code)
	if !c.Valid() {
		return nil
	}
	return &Error{Code: c}
}
