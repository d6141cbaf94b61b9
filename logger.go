package wire

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	nopLogger = zap.NewNop()
	logger    atomic.Pointer[zap.Logger]
)

// Logger returns the package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nopLogger
}

// SetLogger configures the package's logger. It is safe to call while
// allocators are in use; nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = nopLogger
	}
	logger.Store(l)
}

// debug writes a debug entry only when the level is enabled, so disabled
// logging never builds the fields.
func debug(msg string, fields func() []zap.Field) {
	if ce := Logger().Check(zap.DebugLevel, msg); ce != nil {
		ce.Write(fields()...)
	}
}
