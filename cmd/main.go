// Package main provides the CLI entrypoint of the contact extractor.
// It parses flags, loads configuration, initializes logging and runs the extraction.
package main

import (
	"context"
	"extractor/pkg/logger"
	"os"

	"go.uber.org/zap"
)

// main executes the root Cobra command and exits with status 1 when it fails.
func main() {
	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	err := rootCommand().Execute()
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
