package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/docflow-tools/finstat/internal/common"
	"github.com/docflow-tools/finstat/internal/logsink"
	"github.com/docflow-tools/finstat/internal/pipeline"
	"github.com/docflow-tools/finstat/internal/quarantine"
	"github.com/docflow-tools/finstat/internal/session"
	"github.com/docflow-tools/finstat/internal/stats"
	"github.com/docflow-tools/finstat/internal/upload"
)

var (
	flagInput string
	flagYear  string
	flagToken string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process a directory of financial documents",
	RunE:  runAnalysis,
}

func init() {
	runCmd.Flags().StringVar(&flagInput, "input", "", "input directory (overrides config)")
	runCmd.Flags().StringVar(&flagYear, "year", "", "4-digit processing year (overrides config)")
	runCmd.Flags().StringVar(&flagToken, "token", "", "access session token (overrides config and env)")
	rootCmd.AddCommand(runCmd)
}

func runAnalysis(cmd *cobra.Command, _ []string) error {
	cfg, err := common.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	if flagInput != "" {
		cfg.InputDir = flagInput
	}
	if flagYear != "" {
		cfg.ProcessingYear = flagYear
	}
	if flagToken != "" {
		cfg.Session.Token = flagToken
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Structured events go to the async file sink; stdout stays reserved
	// for the human-readable summary.
	sink, err := logsink.New(cfg.LogDir)
	if err != nil {
		return err
	}
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		sink.Shutdown(drainCtx)
	}()

	level := slog.LevelInfo
	var w io.Writer = sink
	if verbose {
		level = slog.LevelDebug
		w = io.MultiWriter(sink, os.Stderr)
	}
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	sess := session.Session{
		Token:     cfg.Session.Token,
		ExpiresAt: time.Now().Add(time.Duration(cfg.Session.TTLMinutes) * time.Minute),
	}

	agg := stats.NewAggregator(logger)
	tracker := quarantine.NewTracker()
	orch := pipeline.New(cfg, session.TimeChecker{}, sess, agg, tracker, logger)

	ctx := cmd.Context()
	runStats, runErr := orch.Run(ctx)
	if errors.Is(runErr, common.ErrInvalidSession) {
		return runErr
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "======== FILE PROCESSING RESULTS ========")
	fmt.Fprintf(out, "Total files: %d\n", runStats.TotalProcessed)
	fmt.Fprintf(out, "Valid files: %d\n", runStats.Valid)
	fmt.Fprintf(out, "Invalid files: %d\n\n", runStats.Invalid)
	fmt.Fprintln(out, agg.RenderTable())
	fmt.Fprintln(out, agg.RenderBarChart())
	fmt.Fprintln(out, tracker.Report())

	if runErr != nil {
		return fmt.Errorf("run %s failed: %w", runStats.RunID, runErr)
	}

	uploader := upload.NopUploader{Logger: logger}
	if err := uploader.Upload(ctx, cfg.StatsPath, cfg.ReportPath); err != nil {
		logger.Error("upload.failed", "error", err)
	}
	return nil
}
