package main

import (
	"context"
	"fmt"
	"os"
	"time"

	logrusr "github.com/bombsimon/logrusr/v3"
	"github.com/go-logr/logr"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stepbar/stepbar/config"
	"github.com/stepbar/stepbar/progress"
	"github.com/stepbar/stepbar/progress/collector"
	"github.com/stepbar/stepbar/progress/reporter"
)

var (
	configFile     string
	steps          int
	epochs         int
	barWidth       int
	label          string
	stepDelay      time.Duration
	progressOutput string
	progressFormat string
	logLevel       int
)

func RunCmd() *cobra.Command {
	var errLog logr.Logger

	rootCmd := &cobra.Command{
		Use:   "stepbar",
		Short: "Render progress for a simulated stepped training run",
		PreRunE: func(c *cobra.Command, args []string) error {
			logrusErrLog := logrus.New()
			logrusErrLog.SetOutput(os.Stderr)
			errLog = logrusr.New(logrusErrLog)

			if configFile != "" {
				if _, err := os.Stat(configFile); err != nil {
					err = fmt.Errorf("unable to find run config file: %w", err)
					errLog.Error(err, "failed to validate flags")
					return err
				}
			}
			return nil
		},
		RunE: func(c *cobra.Command, args []string) error {
			logrusLog := logrus.New()
			logrusLog.SetOutput(os.Stdout)
			logrusLog.SetFormatter(&logrus.TextFormatter{})
			// Adding 5 moves verbose levels into logrus info territory:
			// --verbose 1 shows V(2) logs, --verbose 2 shows V(3), and so on
			logrusLog.SetLevel(logrus.Level(logLevel + 5))
			log := logrusr.New(logrusLog)

			ctx, cancelFunc := context.WithCancel(context.Background())
			defer cancelFunc()

			cfg, err := buildConfig(c)
			if err != nil {
				errLog.Error(err, "invalid run configuration")
				return err
			}

			rep, err := createProgressReporter(cfg)
			if err != nil {
				errLog.Error(err, "unable to create progress reporter")
				return err
			}

			// The fill bar consumes one event per step, so the run uses the
			// pass-through collector; throttling would eat steps.
			col := collector.New()
			_, err = progress.New(
				progress.WithContext(ctx),
				progress.WithCollectors(col),
				progress.WithReporters(rep),
			)
			if err != nil {
				errLog.Error(err, "unable to create progress pipeline")
				return err
			}

			log.V(2).Info("starting simulated run",
				"steps", cfg.Steps, "epochs", cfg.Epochs, "format", cfg.ProgressFormat)
			simulateRun(ctx, cfg, col)

			// Let the pipeline drain before the process exits
			time.Sleep(200 * time.Millisecond)
			return nil
		},
	}

	rootCmd.Flags().StringVar(&configFile, "config", "", "path to a YAML run settings file")
	rootCmd.Flags().IntVar(&steps, "steps", 45, "steps per epoch")
	rootCmd.Flags().IntVar(&epochs, "epochs", 1, "number of epochs")
	rootCmd.Flags().IntVar(&barWidth, "width", 60, "fill bar width in characters")
	rootCmd.Flags().StringVar(&label, "label", "", "header label for the fill bar")
	rootCmd.Flags().DurationVar(&stepDelay, "step-delay", 50*time.Millisecond, "simulated work per step")
	rootCmd.Flags().StringVar(&progressOutput, "progress-output", "stderr", "progress sink: stderr, stdout, a file path, or empty to disable")
	rootCmd.Flags().StringVar(&progressFormat, "progress-format", "fill", "progress format: fill, text or json")
	rootCmd.Flags().IntVar(&logLevel, "verbose", 0, "level for logging output")

	return rootCmd
}

func main() {
	if err := RunCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig merges the optional settings file with flag overrides: any
// flag the user set wins over the file, which wins over the defaults.
func buildConfig(c *cobra.Command) (config.RunConfig, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if c.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if c.Flags().Changed("epochs") {
		cfg.Epochs = epochs
	}
	if c.Flags().Changed("width") {
		cfg.BarWidth = barWidth
	}
	if c.Flags().Changed("label") {
		cfg.Label = label
	}
	if c.Flags().Changed("progress-output") {
		cfg.ProgressOutput = progressOutput
	}
	if c.Flags().Changed("progress-format") {
		cfg.ProgressFormat = progressFormat
	}

	return cfg, cfg.Validate()
}

// createProgressReporter selects the reporter from the run settings.
func createProgressReporter(cfg config.RunConfig) (progress.Reporter, error) {
	if cfg.ProgressOutput == "" {
		return progress.NewNoopReporter(), nil
	}

	var writer *os.File
	switch cfg.ProgressOutput {
	case "stderr":
		writer = os.Stderr
	case "stdout":
		writer = os.Stdout
	default:
		file, err := os.Create(cfg.ProgressOutput)
		if err != nil {
			return nil, fmt.Errorf("failed to create progress output file %s: %w", cfg.ProgressOutput, err)
		}
		writer = file
	}

	switch cfg.ProgressFormat {
	case "text":
		return reporter.NewTextReporter(writer), nil
	case "json":
		return reporter.NewJSONReporter(writer), nil
	default:
		return reporter.NewFillReporter(writer,
			reporter.WithBarWidth(cfg.BarWidth),
			reporter.WithRunLabel(cfg.Label),
		), nil
	}
}

// simulateRun publishes the event sequence of a small training run: init,
// data load, stepped epochs, an eval pass and completion.
func simulateRun(ctx context.Context, cfg config.RunConfig, col progress.Collector) {
	col.Report(progress.Event{
		Stage:   progress.StageInit,
		Message: "Starting run",
	})
	col.Report(progress.Event{
		Stage: progress.StageDataLoad,
		Total: 60000,
	})

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		col.Report(progress.Event{
			Stage:   progress.StageEpoch,
			Current: epoch,
			Total:   cfg.Epochs,
		})
		for step := 1; step <= cfg.Steps; step++ {
			select {
			case <-ctx.Done():
				return
			case <-time.After(stepDelay):
			}
			col.Report(progress.Event{
				Stage:   progress.StageStep,
				Current: step,
				Total:   cfg.Steps,
			})
		}
	}

	col.Report(progress.Event{
		Stage:   progress.StageEval,
		Message: fmt.Sprintf("accuracy=%.2f", 0.98),
	})
	col.Report(progress.Event{
		Stage:   progress.StageComplete,
		Message: "Run complete",
	})
}
