package pnm

import (
	"sync/atomic"

	"github.com/hashicorp/go-hclog"
)

var loggerPtr atomic.Pointer[hclog.Logger]

func init() {
	SetLogger(nil)
}

// SetLogger installs the logger that receives the package diagnostics: every
// returned *Error is also logged at error level with its kind and operation,
// short payloads are logged at warn, and codec progress at debug/trace.
//
// By default nothing is logged. Passing nil restores the silent default.
// SetLogger is safe for concurrent use.
func SetLogger(l hclog.Logger) {
	if l == nil {
		l = hclog.NewNullLogger()
	}
	loggerPtr.Store(&l)
}

// Logger returns the logger installed with SetLogger.
func Logger() hclog.Logger {
	return *loggerPtr.Load()
}
