package contract

import (
	"fmt"
)

const assertMsg = "An assertion has failed"

// Assert checks a condition that must hold given the code's own invariants, and fails if it does not.
func Assert(cond bool) {
	if !cond {
		failfast(assertMsg)
	}
}

// Assertf checks a condition that must hold, and fails with the formatted message if it does not.
func Assertf(cond bool, msg string, args ...interface{}) {
	if !cond {
		failfast(fmt.Sprintf("%v: %v", assertMsg, fmt.Sprintf(msg, args...)))
	}
}
