package rangeverify

import (
	"fmt"
	"math/bits"
)

// InWindow reports whether timestamp lies strictly inside (now-windowSize, now+windowSize).
func InWindow(now, windowSize, timestamp uint64) bool {
	return CheckWindow(now, windowSize, timestamp) == nil
}

// CheckWindow evaluates both bounds without wrapping. A lower bound below zero admits every
// timestamp, as does an upper bound above the u64 range. The upper bound is checked first.
func CheckWindow(now, windowSize, timestamp uint64) error {
	upper, carry := bits.Add64(now, windowSize, 0)
	if carry == 0 && timestamp >= upper {
		return &Error{
			Code:   ErrorCodeTimestampOutOfWindow,
			Bound:  WindowBoundFuture,
			Detail: windowDetail(now, windowSize, timestamp),
		}
	}

	lower, borrow := bits.Sub64(now, windowSize, 0)
	if borrow == 0 && timestamp <= lower {
		return &Error{
			Code:   ErrorCodeTimestampOutOfWindow,
			Bound:  WindowBoundPast,
			Detail: windowDetail(now, windowSize, timestamp),
		}
	}

	return nil
}

func windowDetail(now, windowSize, timestamp uint64) string {
	return fmt.Sprintf("timestamp=%d now=%d window=%d", timestamp, now, windowSize)
}
