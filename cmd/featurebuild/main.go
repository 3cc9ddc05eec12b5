// Command featurebuild runs one feature build from the command line: raw
// historic records in, feature table and manifest out. With -load it also
// pushes the finished table into the configured warehouse.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"callcast/internal/config"
	"callcast/internal/infrastructure"
	"callcast/internal/pipeline"
	"callcast/internal/warehouse"
)

type options struct {
	configPath string
	historic   string
	outputDir  string
	format     string
	workers    int
	verbose    bool
	load       bool
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("featurebuild", flag.ContinueOnError)
	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "path to the YAML configuration file")
	fs.StringVar(&opts.historic, "historic", "", "override historic_path (file or directory)")
	fs.StringVar(&opts.outputDir, "out", "", "override output_dir")
	fs.StringVar(&opts.format, "format", "", "override output_format (parquet or csv)")
	fs.IntVar(&opts.workers, "workers", 0, "override worker count (0 keeps the configured value)")
	fs.BoolVar(&opts.verbose, "v", false, "verbose (debug) logging")
	fs.BoolVar(&opts.load, "load", false, "load the finished table into the configured warehouse")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// applyOverrides folds the command-line overrides into cfg and revalidates.
func applyOverrides(cfg *config.Config, opts *options) error {
	if opts.historic != "" {
		cfg.HistoricPath = opts.historic
	}
	if opts.outputDir != "" {
		cfg.OutputDir = opts.outputDir
	}
	if opts.format != "" {
		cfg.OutputFormat = opts.format
	}
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg.Validate()
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args)
	if err != nil {
		return 2
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "featurebuild: %v\n", err)
		return 1
	}
	if err := applyOverrides(cfg, opts); err != nil {
		fmt.Fprintf(os.Stderr, "featurebuild: %v\n", err)
		return 1
	}

	log, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "featurebuild: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := pipeline.New(cfg, log).BuildAndSave(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "featurebuild: %v\n", err)
		return 1
	}

	if opts.load {
		if err := loadWarehouse(ctx, cfg, log, result); err != nil {
			fmt.Fprintf(os.Stderr, "featurebuild: %v\n", err)
			return 1
		}
	}

	fmt.Println(result.OutputPath)
	return 0
}

func loadWarehouse(ctx context.Context, cfg *config.Config, log *slog.Logger, result *pipeline.Result) error {
	if cfg.Warehouse.DSN == "" {
		return fmt.Errorf("-load requires warehouse.dsn in the configuration")
	}
	exec, err := warehouse.NewExecutor(ctx, cfg.Warehouse)
	if err != nil {
		return err
	}
	defer exec.Close(ctx)

	loader := warehouse.NewLoader(exec, cfg.Warehouse.Table, cfg.Warehouse.BatchSize, log)
	return loader.Load(ctx, result.Table)
}
