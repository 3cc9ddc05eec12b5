// Command featuresd serves feature builds over HTTP: POST /api/builds
// starts one, GET /api/builds/{id} reports it, /metrics exposes Prometheus
// metrics. The service runs builds one at a time and keeps job state in
// memory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"callcast/internal/app"
	"callcast/internal/config"
	"callcast/internal/infrastructure"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("featuresd", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to the YAML configuration file")
	port := fs.Int("port", 0, "override server port (0 keeps the configured value)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "featuresd: %v\n", err)
		return 1
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	log, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "featuresd: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	service, err := app.New(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "featuresd: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := service.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "featuresd: %v\n", err)
		return 1
	}
	return 0
}
