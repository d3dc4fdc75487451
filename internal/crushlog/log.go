// Package crushlog provides the package-scoped structured logger shared by
// the search strategies, the allocator, and the background worker.
package crushlog

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.Mutex
	logger *zap.SugaredLogger
)

// L returns the shared sugared logger, lazily building a production logger
// on first use.
func L() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		base, err := zap.NewProduction()
		if err != nil {
			base = zap.NewNop()
		}
		logger = base.Sugar()
	}
	return logger
}

// SetLogger replaces the shared logger, e.g. with a development logger from
// the CLI or a test's observed logger.
func SetLogger(l *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// Sync flushes any buffered log entries. Errors are intentionally ignored;
// Sync commonly fails on stderr/stdout with "invalid argument" on some
// platforms and that failure carries no actionable information here.
func Sync() {
	mu.Lock()
	l := logger
	mu.Unlock()
	if l != nil {
		_ = l.Sync()
	}
}
