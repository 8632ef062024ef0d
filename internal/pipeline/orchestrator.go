// Package pipeline walks the input directory once and routes every regular
// file through eligibility filtering, content validation, and amount
// extraction, quarantining rejections along the way.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/docflow-tools/finstat/constants"
	"github.com/docflow-tools/finstat/internal/common"
	"github.com/docflow-tools/finstat/internal/extract"
	"github.com/docflow-tools/finstat/internal/quarantine"
	"github.com/docflow-tools/finstat/internal/session"
	"github.com/docflow-tools/finstat/internal/stats"
)

// RunStats are the per-run counters. TotalProcessed == Valid + Invalid holds
// for every completed run.
type RunStats struct {
	RunID          uuid.UUID
	TotalProcessed int
	Valid          int
	Invalid        int
}

// Orchestrator coordinates one pipeline run over one directory.
type Orchestrator struct {
	cfg       *common.Config
	checker   session.Checker
	sess      session.Session
	agg       *stats.Aggregator
	tracker   *quarantine.Tracker
	extractor *extract.Extractor
	logger    *slog.Logger
}

// New wires an orchestrator. The session value is passed in explicitly; its
// lifecycle belongs to the caller.
func New(cfg *common.Config, checker session.Checker, sess session.Session,
	agg *stats.Aggregator, tracker *quarantine.Tracker, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		cfg:       cfg,
		checker:   checker,
		sess:      sess,
		agg:       agg,
		tracker:   tracker,
		extractor: extract.NewExtractor(cfg.MaxFileSize, logger),
		logger:    logger,
	}
}

// Run executes one pass: session check, non-recursive walk, per-file routing,
// then report and statistics export. Per-file errors quarantine the file and
// the loop continues; an invalid session, a failed quarantine move, or a
// statistics export failure aborts the run.
func (o *Orchestrator) Run(ctx context.Context) (RunStats, error) {
	rs := RunStats{RunID: uuid.New()}
	log := o.logger.With("run_id", rs.RunID.String())

	log.Info("pipeline.session.check")
	if !o.checker.IsValid(o.sess.Token, o.sess.ExpiresAt) {
		log.Error("pipeline.session.invalid")
		return rs, common.ErrInvalidSession
	}

	invalidDir := filepath.Join(o.cfg.InputDir, constants.QuarantineDirName)
	if err := quarantine.EnsureDir(invalidDir); err != nil {
		return rs, common.NewAppError("QUARANTINE_DIR_ERROR", "creating quarantine directory "+invalidDir, err)
	}

	entries, err := os.ReadDir(o.cfg.InputDir)
	if err != nil {
		return rs, common.NewAppError("INPUT_DIR_ERROR", "reading input directory "+o.cfg.InputDir, err)
	}

	log.Info("pipeline.run.started",
		"input_dir", o.cfg.InputDir,
		"year", o.cfg.ProcessingYear,
		"extension", o.cfg.Extension,
	)

	for _, entry := range entries {
		// Non-recursive walk: subdirectories, the quarantine dir included,
		// are never descended into.
		if entry.IsDir() || !entry.Type().IsRegular() {
			continue
		}
		if err := o.processFile(log, entry, invalidDir, &rs); err != nil {
			return rs, err
		}
	}

	// Aggregate counters are logged before the export stage so the summary
	// survives a late export failure.
	log.Info("pipeline.run.completed",
		"total_processed", rs.TotalProcessed,
		"valid", rs.Valid,
		"invalid", rs.Invalid,
	)

	if err := o.tracker.Export(o.cfg.ReportPath); err != nil {
		log.Error("pipeline.report.export_failed", "path", o.cfg.ReportPath, "error", err)
	} else {
		log.Info("pipeline.report.exported", "path", o.cfg.ReportPath)
	}

	if err := o.agg.Export(o.cfg.StatsPath); err != nil {
		log.Error("pipeline.stats.export_failed", "path", o.cfg.StatsPath, "error", err)
		return rs, err
	}
	if o.cfg.StatsWorkbookPath != "" {
		if err := o.agg.ExportXLSX(o.cfg.StatsWorkbookPath); err != nil {
			log.Error("pipeline.stats.export_failed", "path", o.cfg.StatsWorkbookPath, "error", err)
			return rs, err
		}
	}

	return rs, nil
}

// processFile routes one file through the per-file state machine. The
// returned error is non-nil only for the escalated quarantine-move failure.
func (o *Orchestrator) processFile(log *slog.Logger, entry os.DirEntry, invalidDir string, rs *RunStats) error {
	name := entry.Name()
	path := filepath.Join(o.cfg.InputDir, name)
	rs.TotalProcessed++

	info, err := entry.Info()
	if err != nil {
		log.Error("pipeline.file.stat_failed", "file", name, "error", err)
		return o.quarantineFile(log, path, invalidDir, name, constants.ReasonParsingError, rs)
	}

	if reason, eligible := CheckEligibility(name, info.Size(), o.cfg.ProcessingYear, o.cfg.Extension); !eligible {
		log.Warn("pipeline.file.ineligible", "file", name, "reason", string(reason))
		return o.quarantineFile(log, path, invalidDir, name, reason, rs)
	}

	hasContent, err := o.extractor.HasParseableLine(path)
	if err != nil {
		log.Error("pipeline.probe.failed", "file", name, "error", err)
		return o.quarantineFile(log, path, invalidDir, name, constants.ReasonParsingError, rs)
	}
	if !hasContent {
		log.Warn("pipeline.content.invalid", "file", name)
		return o.quarantineFile(log, path, invalidDir, name, constants.ReasonIncorrectContent, rs)
	}

	parsed, err := o.extractor.ScanFile(path, o.agg)
	if err != nil {
		log.Error("pipeline.extract.failed", "file", name, "error", err)
		return o.quarantineFile(log, path, invalidDir, name, constants.ReasonParsingError, rs)
	}

	rs.Valid++
	log.Info("pipeline.file.ok", "file", name, "lines_parsed", parsed)
	return nil
}

// quarantineFile moves the file and records its single rejection reason.
// Quarantine is a guaranteed side effect: a failed move is escalated rather
// than isolated like other per-file errors.
func (o *Orchestrator) quarantineFile(log *slog.Logger, path, invalidDir, name string, reason constants.Reason, rs *RunStats) error {
	if err := quarantine.Move(path, invalidDir); err != nil {
		log.Error("pipeline.quarantine.move_failed", "file", name, "error", err)
		return err
	}
	o.tracker.Record(reason, name)
	rs.Invalid++
	log.Info("pipeline.file.quarantined", "file", name, "reason", string(reason))
	return nil
}
