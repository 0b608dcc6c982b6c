package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a JSON production logger, or a console logger when env is "dev" or "test".
func New(env string) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	switch env {
	case "dev", "test":
		log, err = zap.NewDevelopment()
	default:
		log, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("build zap logger failed: %w", err)
	}
	return log, nil
}
