package common

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// loggerPtr holds the process-wide logger. Swapped atomically so SetLogger may race with loads
// running on other goroutines.
var loggerPtr atomic.Pointer[zap.Logger]

func init() {
	loggerPtr.Store(zap.NewNop())
}

// SetLogger installs the logger used by every engine package.
// Library code is silent by default; the driver decides where logs go.
// Passing nil restores the silent default.
//
// Parameters:
//   - l: the logger to install, or nil
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerPtr.Store(l)
}

// Logger returns the current process-wide logger.
//
// Returns:
//   - *zap.Logger: the active logger, never nil
func Logger() *zap.Logger {
	return loggerPtr.Load()
}
