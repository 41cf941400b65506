package rangeprogram_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/malbeclabs/range/pkg/rangeverify"
	"github.com/malbeclabs/range/smartcontract/sdk/go/rangeprogram"
	"github.com/stretchr/testify/require"
)

func TestSDK_Range_ProgramErrorCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       any
		wantCode uint32
		wantOK   bool
	}{
		{name: "nil", in: nil},
		{name: "preflight error", in: errors.New("Transaction simulation failed: Error processing Instruction 0: custom program error: 0x1774"), wantCode: 6004, wantOK: true},
		{name: "log string", in: "Program failed: custom program error: 0x1776", wantCode: 6006, wantOK: true},
		{name: "meta error", in: map[string]any{"InstructionError": []any{0, map[string]any{"Custom": 6005}}}, wantCode: 6005, wantOK: true},
		{name: "meta error without custom", in: map[string]any{"InstructionError": []any{0, "InvalidAccountData"}}},
		{name: "unrelated error", in: errors.New("connection refused")},
		{name: "unrelated meta", in: "AccountNotFound"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			code, ok := rangeprogram.ProgramErrorCode(tt.in)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.wantCode, code)
		})
	}
}

func TestSDK_Range_TransactionError_MatchesRangeErrors(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("failed to execute instruction: %w", &rangeprogram.TransactionError{
		Code: rangeverify.ErrorFromCode(6004),
		Err:  errors.New("custom program error: 0x1774"),
	})
	require.ErrorIs(t, err, rangeverify.ErrWrongSigner)
	require.NotErrorIs(t, err, rangeverify.ErrCouldntVerifySignature)
	require.Contains(t, err.Error(), "WrongSigner")

	code, ok := rangeverify.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, rangeverify.ErrorCodeWrongSigner, code)
}
