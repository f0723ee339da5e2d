package main

import (
	"context"
	"errors"
	"extractor/internal/config"
	"extractor/internal/contact"
	"extractor/internal/worker"
	"extractor/pkg/fetcher/httpfetcher"
	"extractor/pkg/logger"
	"extractor/pkg/metrics"
	"extractor/pkg/storage/csvstore"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// flags holds the command line values. They only override the loaded
// configuration when set explicitly.
type flags struct {
	configPath    string
	output        string
	timeout       int
	delay         float64
	logFile       string
	metricsFile   string
	respectRobots bool
}

func rootCommand() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:           "extractor [flags] <input.csv>",
		Short:         "Extracts business emails and social media links from websites",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return reportFatal(err)
			}
			if err := f.apply(cmd.Flags(), cfg); err != nil {
				return reportFatal(err)
			}

			if err := logger.Setup(cfg.Environment, logger.Options{
				Level:      cfg.Log.Level,
				File:       cfg.Log.File,
				MaxSizeMB:  cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
				MaxAgeDays: cfg.Log.MaxAgeDays,
			}); err != nil {
				return reportFatal(fmt.Errorf("could not setup logger: %w", err))
			}

			return extract(cmd.Context(), cfg, args[0])
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "config.yml", "config file path")
	fs.StringVarP(&f.output, "output", "o", "emails_extracted_v2.csv", "output CSV file")
	fs.IntVarP(&f.timeout, "timeout", "t", 10, "request timeout in seconds")
	fs.Float64VarP(&f.delay, "delay", "d", 1.0, "delay between page requests in seconds")
	fs.StringVar(&f.logFile, "log-file", "extractor.log", "log file path, empty disables file logging")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile at the end of the run")
	fs.BoolVar(&f.respectRobots, "respect-robots", false, "skip pages disallowed by robots.txt")

	return cmd
}

// apply copies explicitly set flags over cfg.
func (f *flags) apply(fs *pflag.FlagSet, cfg *config.Config) error {
	if fs.Changed("output") {
		cfg.Output.Path = f.output
	}
	if fs.Changed("timeout") {
		cfg.Fetcher.Timeout = time.Duration(f.timeout) * time.Second
	}
	if fs.Changed("delay") {
		if f.delay < 0 {
			return fmt.Errorf("delay must not be negative, got %g", f.delay)
		}
		cfg.Fetcher.Delay = time.Duration(f.delay * float64(time.Second))
	}
	if fs.Changed("log-file") {
		cfg.Log.File = f.logFile
	}
	if fs.Changed("metrics-file") {
		cfg.Metrics.File = f.metricsFile
	}
	if fs.Changed("respect-robots") {
		cfg.Fetcher.RespectRobots = f.respectRobots
	}

	if cfg.Fetcher.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", cfg.Fetcher.Timeout)
	}
	if cfg.Output.Path == "" {
		return errors.New("output path must not be empty")
	}

	return nil
}

// reportFatal prints errors raised before the logger exists.
func reportFatal(err error) error {
	_, _ = fmt.Fprintln(os.Stderr, "extractor:", err)

	return err
}

// extract reads the input CSV, processes every business and writes the
// results. An interrupt stops the run early; the results gathered so far are
// still written.
func extract(ctx context.Context, cfg *config.Config, inputPath string) error {
	ctx = logger.WithFields(ctx, zap.String("runID", uuid.NewString()))
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	businesses, err := csvstore.ReadFile(inputPath)
	if err != nil {
		logger.Error(ctx, "could not read input file", zap.String("path", inputPath), zap.Error(err))

		return err
	}
	logger.Info(ctx, "loaded businesses", zap.String("path", inputPath), zap.Int("count", len(businesses)))

	cleaner, err := contact.NewCleaner(contact.Rules{
		Extensions:          cfg.Cleaner.Extensions,
		PlaceholderPatterns: cfg.Cleaner.PlaceholderPatterns,
	})
	if err != nil {
		logger.Error(ctx, "could not create email cleaner", zap.Error(err))

		return err
	}

	fetchOptions := httpfetcher.Options{
		Timeout:       cfg.Fetcher.Timeout,
		UserAgent:     cfg.Fetcher.UserAgent,
		MaxBodyBytes:  cfg.Fetcher.MaxBodyBytes,
		RespectRobots: cfg.Fetcher.RespectRobots,
	}
	logger.Debug(ctx, "fetcher configured", zap.Stringer("options", fetchOptions), zap.Duration("delay", cfg.Fetcher.Delay))

	m := metrics.New()
	processor := worker.NewProcessor(httpfetcher.New(nil, fetchOptions), cleaner, m, worker.ProcessorOptions{
		Paths: cfg.Fetcher.Paths,
		Delay: cfg.Fetcher.Delay,
	})

	results, summary, runErr := worker.NewRunner(processor).Run(ctx, businesses)
	if runErr != nil {
		logger.Warn(ctx, "extraction interrupted, saving partial results", zap.Error(runErr))
	}

	if err := csvstore.WriteFile(cfg.Output.Path, results); err != nil {
		logger.Error(ctx, "could not write results", zap.String("path", cfg.Output.Path), zap.Error(err))

		return err
	}
	logger.Info(ctx, "results saved", zap.String("path", cfg.Output.Path), zap.Int("rows", len(results)))

	if cfg.Metrics.File != "" {
		if err := m.WriteTextfile(cfg.Metrics.File); err != nil {
			logger.Warn(ctx, "could not write metrics file", zap.String("path", cfg.Metrics.File), zap.Error(err))
		}
	}

	logSummary(ctx, summary)

	return nil
}

func logSummary(ctx context.Context, s worker.Summary) {
	logger.Info(ctx, "extraction summary",
		zap.Int("total", s.Total),
		zap.Int("processed", s.Processed),
		zap.Int("withContact", s.WithContact),
		zap.Int("withEmails", s.WithEmails),
		zap.String("withEmailsPercent", percent(s.WithEmails, s.Processed)),
		zap.Int("withSocial", s.WithSocial),
		zap.String("withSocialPercent", percent(s.WithSocial, s.Processed)),
		zap.Int("failed", s.Failed))
}

func percent(n, total int) string {
	if total == 0 {
		return "0.0%"
	}

	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(total))
}
