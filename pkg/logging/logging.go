// Package logging configures the process-wide zap logger.
package logging

import (
	"go.uber.org/zap"

	"github.com/safeguardsiliconlife/aidigest/pkg/version"
)

// Setup builds the application logger and installs it as zap's global.
// Debug mode switches to the development config with debug-level output.
func Setup(debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	cfg.InitialFields = map[string]interface{}{
		"appName":    "aidigest",
		"appVersion": version.Get().Version,
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop(), err
	}

	zap.ReplaceGlobals(logger)
	return logger, nil
}
