package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"ranking/pkg/api"
	"ranking/pkg/config"
	"ranking/pkg/tracing"

	log "github.com/sirupsen/logrus"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose logging")
	configPath := flag.String("config", "", "Path to a TOML config file")

	flag.Parse()
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	if err := run(*configPath); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// run performs a single ranking run and returns once the output sheets are
// written or the run has failed.
func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	shutdownTracing, err := tracing.Setup(cfg.Trace)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warnf("Failed to flush traces: %v", err)
		}
	}()

	ctx := context.Background()
	runner, cleanup, err := api.NewRunner(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to set up ranking runner: %w", err)
	}
	defer cleanup()

	result, err := runner.Run(ctx, api.NewRunID())
	if err != nil {
		return fmt.Errorf("ranking failed: %w", err)
	}
	fmt.Printf("Ranked %d students in %d groups\n", result.Students, result.Groups)
	return nil
}
