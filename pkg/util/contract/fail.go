package contract

import (
	"fmt"
)

const failMsg = "A failure has occurred"

// Failf unconditionally abandons the current operation, formatting and logging the given message.
func Failf(msg string, args ...interface{}) {
	failfast(fmt.Sprintf("%v: %v", failMsg, fmt.Sprintf(msg, args...)))
}
