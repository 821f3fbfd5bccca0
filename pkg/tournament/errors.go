package tournament

import (
	"errors"
	"fmt"
)

var ErrNondeterministic = errors.New("finishing orders differ within a round")

// InvariantViolation flags a round whose rotations did not all finish in the same seat order.
// It is never fatal, the round is reported for manual review.
type InvariantViolation struct {
	First  int
	Last   int
	Orders [][]int
}

func (v *InvariantViolation) Error() string {
	return fmt.Sprintf("matches %d-%d: %v", v.First, v.Last, ErrNondeterministic)
}

func (v *InvariantViolation) Unwrap() error { return ErrNondeterministic }
