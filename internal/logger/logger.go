package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	instance *zap.SugaredLogger
	once     sync.Once
)

type Config struct {
	Development bool
	// Level overrides the mode's default ("debug" in development, "info"
	// otherwise). Accepts the zap level names.
	Level string
}

func buildConfig(cfg Config) (zap.Config, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		lvl, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return zc, err
		}
		zc.Level = lvl
	}
	return zc, nil
}

// New builds the process-wide logger on first call; later calls return the
// same instance.
func New(cfg Config) (*zap.SugaredLogger, error) {
	var err error
	once.Do(func() {
		var zc zap.Config
		zc, err = buildConfig(cfg)
		if err != nil {
			return
		}
		var l *zap.Logger
		l, err = zc.Build()
		if err != nil {
			return
		}
		instance = l.Sugar()
	})
	return instance, err
}

// Named returns a child of the process logger scoped to a subsystem, or a
// discard logger when New has not run.
func Named(name string) *zap.SugaredLogger {
	if instance == nil {
		return Nop()
	}
	return instance.Named(name)
}

// Nop returns a discard logger for tests and optional dependencies.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
