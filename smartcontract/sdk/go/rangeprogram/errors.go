package rangeprogram

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/malbeclabs/range/pkg/rangeverify"
)

var customProgramErrorRe = regexp.MustCompile(`custom program error: 0x([0-9a-fA-F]+)`)

// TransactionError is returned when the cluster rejects a range program transaction.
type TransactionError struct {
	// Code is the range program error code, when the failure carried one.
	Code *rangeverify.Error
	Err  error
}

func (e *TransactionError) Error() string {
	if e.Code != nil {
		return fmt.Sprintf("range program error %d (%s): %v", uint32(e.Code.Code), e.Code.Code, e.Err)
	}
	return fmt.Sprintf("transaction failed: %v", e.Err)
}

func (e *TransactionError) Unwrap() []error {
	if e.Code != nil {
		return []error{e.Code, e.Err}
	}
	return []error{e.Err}
}

// ProgramErrorCode extracts the custom program error code from a preflight/send error message or
// a transaction meta error value such as {"InstructionError":[0,{"Custom":6004}]}.
func ProgramErrorCode(v any) (uint32, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case error:
		if code, ok := codeFromString(val.Error()); ok {
			return code, true
		}
		var tErr *TransactionError
		if errors.As(val, &tErr) && tErr.Code != nil {
			return uint32(tErr.Code.Code), true
		}
		return 0, false
	case string:
		return codeFromString(val)
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return 0, false
		}
		return codeFromMetaErr(raw)
	}
}

func codeFromString(s string) (uint32, bool) {
	m := customProgramErrorRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	code, err := strconv.ParseUint(m[1], 16, 32)
	if err != nil {
		return 0, false
	}
	return uint32(code), true
}

func codeFromMetaErr(raw []byte) (uint32, bool) {
	var meta struct {
		InstructionError []json.RawMessage `json:"InstructionError"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil || len(meta.InstructionError) != 2 {
		return 0, false
	}
	var custom struct {
		Custom *uint32 `json:"Custom"`
	}
	if err := json.Unmarshal(meta.InstructionError[1], &custom); err != nil || custom.Custom == nil {
		return 0, false
	}
	return *custom.Custom, true
}

func newTransactionError(v any, err error) *TransactionError {
	tErr := &TransactionError{Err: err}
	if code, ok := ProgramErrorCode(v); ok {
		tErr.Code = rangeverify.ErrorFromCode(code)
	}
	return tErr
}
