// Package logger holds the process-wide zap logger shared by the API server,
// the migration CLI, and the middleware stack.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	log  *zap.SugaredLogger
	once sync.Once
)

// Init builds the shared logger once for the given environment. "production"
// gets JSON output for log shipping; anything else (development, test) gets
// the console encoder.
func Init(env string) {
	once.Do(func() {
		var base *zap.Logger
		var err error

		if env == "production" {
			base, err = zap.NewProduction()
		} else {
			base, err = zap.NewDevelopment()
		}

		if err != nil {
			// A process with no logger is worse than one logging nowhere.
			base = zap.NewNop()
		}

		log = base.Sugar()
	})
}

// Get returns the shared sugared logger, initializing a development logger
// when Init was never called.
func Get() *zap.SugaredLogger {
	if log == nil {
		Init("development")
	}
	return log
}

// Sync flushes buffered entries. Deferred in main before exit.
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
