package contract

import (
	"github.com/golang/glog"
)

// failfast logs the message and panics. It does not exit the process, so
// callers embedding the compiler may recover.
func failfast(msg string) {
	glog.Errorf("fatal: %v", msg)
	glog.Flush()
	panic(msg)
}
