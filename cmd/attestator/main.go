package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/pnetwork/event-attestator/app"
)

func main() {
	if err := app.RootCmd().Execute(); err != nil {
		zap.L().Debug("command failed", zap.Error(err))
		os.Exit(1)
	}
	os.Exit(0)
}

func init() {
	// replaced by the configured logger once the root command has loaded its settings
	zap.ReplaceGlobals(zap.Must(zap.NewProduction()))
}
