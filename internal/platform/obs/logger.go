package obs

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds a JSON logger for production and a console logger otherwise.
func NewLogger(env string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}
	return logger, nil
}
