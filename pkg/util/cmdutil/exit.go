package cmdutil

import (
	"fmt"
	"io"
	"strings"

	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"
)

// ErrorMessage flattens err for display. Aggregated errors are listed one
// per line.
func ErrorMessage(err error) string {
	if merr, ok := err.(*multierror.Error); ok {
		if len(merr.Errors) == 1 {
			return merr.Errors[0].Error()
		}
		lines := make([]string, 0, len(merr.Errors)+1)
		lines = append(lines, fmt.Sprintf("%d errors occurred:", len(merr.Errors)))
		for _, e := range merr.Errors {
			lines = append(lines, "    * "+e.Error())
		}
		return strings.Join(lines, "\n")
	}
	return err.Error()
}

// Report writes err to w, with the %+v stack trace going to the glog
// verbose log.
func Report(w io.Writer, err error) {
	glog.V(3).Infof("%+v", err)
	fmt.Fprintf(w, "error: %s\n", ErrorMessage(err))
}
