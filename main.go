package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

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
	// Set the log format to include a leading timestamp in ISO8601 format
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	shutdownTracing, err := tracing.Setup(cfg.Trace)
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warnf("Failed to flush traces: %v", err)
		}
	}()

	runner, cleanup, err := api.NewRunner(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to set up ranking runner: %v", err)
	}
	defer cleanup()

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.GetRouter(runner),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout.Duration,
	}
	go startServer(server)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	<-signalChan
	log.Info("Signalled, shutting down")

	// in-flight runs get until the shutdown timeout to finish publishing
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Shutdown did not complete cleanly: %v", err)
	}
}

func startServer(server *http.Server) {
	log.Infof("listening for HTTP on: %s", server.Addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("ListenAndServe: %v", err)
	}
}
