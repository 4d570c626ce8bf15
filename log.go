package pyrt

import "github.com/pyrt-dev/pyrt/internal/logging"

// defaultLogger returns the process-wide logger used by object model code
// for diagnostic-only paths (double-decref) that must
// never fail the caller. Components that own a Runtime should prefer the
// logger threaded through their constructor over this package-level
// fallback.
func defaultLogger() *logging.Logger {
	return logging.Default()
}
