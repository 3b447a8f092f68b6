package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	mu  sync.RWMutex
	log *zap.Logger
)

// Init builds the global logger for the given environment. Production gets
// JSON output at info level, everything else the human readable development
// encoder.
func Init(env string) error {
	var (
		l   *zap.Logger
		err error
	)
	if env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}

	mu.Lock()
	log = l
	mu.Unlock()
	return nil
}

// L returns the global logger, initialising it from ENV on first use.
func L() *zap.Logger {
	mu.RLock()
	l := log
	mu.RUnlock()
	if l != nil {
		return l
	}

	if err := Init(os.Getenv("ENV")); err != nil {
		return zap.NewNop()
	}
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Named returns a child logger tagged with a component field.
func Named(component string) *zap.Logger {
	return L().With(zap.String("component", component))
}

// Replace swaps the global logger and returns a func restoring the previous one.
func Replace(l *zap.Logger) func() {
	mu.Lock()
	prev := log
	log = l
	mu.Unlock()
	return func() {
		mu.Lock()
		log = prev
		mu.Unlock()
	}
}

// Sync flushes buffered log entries.
func Sync() {
	_ = L().Sync()
}
