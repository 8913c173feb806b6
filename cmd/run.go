package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvlspec/config"
	"github.com/katalvlaran/lvlspec/metrics"
	"github.com/katalvlaran/lvlspec/pipeline"
)

var (
	runConfigPath string
	runJSONPath   string
	runWorkers    int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the removal-step pipeline",
	Long: `Run evaluates every configured removal step: raw and unfolded spacing
statistics and the KL divergence from Poisson. The snapshot is written as
JSON and, when store.path is set, saved to the database (partial runs
included).`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "YAML config file")
	runCmd.Flags().StringVar(&runJSONPath, "json", "-", "snapshot output file (- for stdout, empty to skip)")
	runCmd.Flags().IntVarP(&runWorkers, "workers", "w", 0, "override run.workers")
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return err
	}
	if runWorkers > 0 {
		cfg.Run.Workers = runWorkers
	}
	logger := config.SetupLogger(cfg.Logging, cmd.ErrOrStderr())

	pc, err := cfg.Pipeline()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	src, err := buildSource(cfg, pc, db)
	if err != nil {
		return err
	}

	opts := []pipeline.Option{
		pipeline.WithWorkers(cfg.Run.Workers),
		pipeline.WithLogger(config.WithComponent("pipeline")),
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled || cfg.Metrics.Textfile != "" {
		collector = metrics.New()
		opts = append(opts, pipeline.WithObserver(collector))
		if cfg.Metrics.Enabled {
			shutdown := collector.StartServer(cfg.Metrics.Addr)
			defer shutdown(context.Background())
		}
	}

	var reporters pipeline.Reporters
	if runJSONPath != "" {
		w, closeFn, err := openOutput(cmd.OutOrStdout(), runJSONPath)
		if err != nil {
			return err
		}
		defer closeFn()
		reporters = append(reporters, pipeline.JSONReporter{W: w})
	}
	if db != nil {
		reporters = append(reporters, db)
	}
	if len(reporters) > 0 {
		opts = append(opts, pipeline.WithReporter(reporters))
	}

	res, runErr := pipeline.Run(ctx, src, pc, opts...)

	if collector != nil && cfg.Metrics.Textfile != "" {
		if err := collector.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn("writing metrics textfile", "path", cfg.Metrics.Textfile, "error", err)
		}
	}

	var stepErr *pipeline.StepError
	if runErr != nil && errors.As(runErr, &stepErr) && res != nil && db != nil {
		// Reporters only see complete runs; keep the committed prefix anyway.
		if err := db.Report(context.Background(), res.Snapshot()); err != nil {
			logger.Warn("saving partial run", "run", res.ID(), "error", err)
		} else {
			logger.Info("saved partial run", "run", res.ID(), "steps", res.Len())
		}
	}
	if runErr != nil {
		return fmt.Errorf("run: %w", runErr)
	}
	logger.Info("run complete", "run", res.ID(), "steps", res.Len())

	return nil
}

// openOutput resolves "-" to stdout, anything else to a created file.
func openOutput(stdout io.Writer, path string) (io.Writer, func() error, error) {
	if path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}

	return f, f.Close, nil
}
