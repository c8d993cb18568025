package cmdutil

import (
	"flag"
	"strconv"
)

// InitLogging ensures the glog library has been initialized with the given
// settings. glog reads its configuration from the standard flag set, so the
// settings are forwarded there.
func InitLogging(logToStderr bool, verbose int) {
	if !flag.Parsed() {
		_ = flag.CommandLine.Parse(nil)
	}
	if logToStderr {
		_ = flag.Lookup("logtostderr").Value.Set("true")
	}
	if verbose > 0 {
		_ = flag.Lookup("v").Value.Set(strconv.Itoa(verbose))
	}
}
