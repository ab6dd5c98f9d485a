package api

import (
	"go.uber.org/zap"
)

// NewLogger builds the structured JSON logger the server layer uses. The
// geometry core itself never logs; queries are pure and synchronous.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableCaller = true
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
