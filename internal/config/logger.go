package config

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds the process logger: human-readable development output
// outside production, JSON in production.
func NewLogger(c Config) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if c.IsProd() {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return l.With(zap.String("env", c.Env)), nil
}
