package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conexcli/internal/config"
	"conexcli/internal/infrastructure"
	"conexcli/internal/operations"
	"conexcli/pkg/contracts"
)

func main() {
	coverageFile := flag.String("coverage", "", "path to the mobile coverage source file (.csv or .xlsx)")
	accessFile := flag.String("access", "", "path to the fixed internet access source file (.csv or .xlsx)")
	outDir := flag.String("out", "", "output directory for the result files (defaults to output)")
	configFile := flag.String("config", "", "optional YAML configuration file")
	logLevel := flag.String("log-level", "", "log level: debug | info | warn | error")
	bomPrefix := flag.Bool("bom", false, "prefix output files with a UTF-8 BOM so Excel detects the encoding")
	traceRun := flag.Bool("trace", false, "emit OpenTelemetry spans for the run to stdout")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Flags override the config file and environment
	if *coverageFile != "" {
		cfg.Sources.CoverageFile = *coverageFile
	}
	if *accessFile != "" {
		cfg.Sources.AccessFile = *accessFile
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *bomPrefix {
		cfg.Output.BOMPrefix = true
	}
	if *traceRun {
		cfg.Observability.TracingEnabled = true
	}

	if cfg.Sources.CoverageFile == "" || cfg.Sources.AccessFile == "" {
		fmt.Fprintln(os.Stderr, "Error: both source files are required (-coverage and -access, or CONEX_SOURCES_* in the environment)")
		flag.Usage()
		os.Exit(2)
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	paths := config.NewPaths(cfg)
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	if err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
	}
	logger := infrastructure.GetLogger()

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Observability), logger)
	if err != nil {
		logger.Warn("Failed to initialize tracing, continuing without it", slog.String("error", err.Error()))
		otelProviders = nil
	}

	logger.Info("Starting connectivity ETL",
		slog.String("coverage_source", cfg.Sources.CoverageFile),
		slog.String("access_source", cfg.Sources.AccessFile),
		slog.String("output_dir", cfg.Output.Dir))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := operations.NewRunner(cfg, logger)
	summary, err := runner.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		shutdown(otelProviders, logger)
		os.Exit(1)
	}

	fmt.Printf("Coverage: %d rows x %d columns\n", summary.CoverageShape.Rows, summary.CoverageShape.Columns)
	fmt.Printf("Access:   %d rows x %d columns\n", summary.AccessShape.Rows, summary.AccessShape.Columns)
	fmt.Printf("Merged:   %d rows x %d columns (%d matched keys, %d coverage-only, %d access-only)\n",
		summary.MergedShape.Rows, summary.MergedShape.Columns,
		summary.MergeStats.MatchedKeys, summary.MergeStats.DroppedCoverageKeys, summary.MergeStats.DroppedAccessKeys)
	for _, file := range summary.OutputFiles {
		fmt.Printf("Wrote %s\n", file)
	}

	shutdown(otelProviders, logger)
}

// shutdown flushes tracing and the log file. os.Exit skips deferred calls,
// so the error path calls this explicitly.
func shutdown(providers *infrastructure.OTelProviders, logger *slog.Logger) {
	if providers != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(ctx); err != nil {
			logger.Warn("Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		logger.Warn("Error closing log file", slog.String("error", err.Error()))
	}
}
