package pipeline_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docflow-tools/finstat/constants"
	"github.com/docflow-tools/finstat/internal/common"
	"github.com/docflow-tools/finstat/internal/pipeline"
	"github.com/docflow-tools/finstat/internal/quarantine"
	"github.com/docflow-tools/finstat/internal/session"
	"github.com/docflow-tools/finstat/internal/stats"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T, inputDir string) *common.Config {
	t.Helper()
	outDir := t.TempDir()
	cfg := common.DefaultConfig()
	cfg.InputDir = inputDir
	cfg.ProcessingYear = "2024"
	cfg.StatsPath = filepath.Join(outDir, "turnover.txt")
	cfg.ReportPath = filepath.Join(outDir, "invalid_report.txt")
	return cfg
}

func validSession() session.Session {
	return session.Session{Token: "token", ExpiresAt: time.Now().Add(time.Hour)}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestCheckEligibility(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		size       int64
		wantReason constants.Reason
		wantOK     bool
	}{
		{
			name:     "eligible file",
			filename: "check_2024.txt",
			size:     10,
			wantOK:   true,
		},
		{
			name:       "zero-byte file",
			filename:   "anything_2024.txt",
			size:       0,
			wantReason: constants.ReasonEmptyFile,
		},
		{
			name:       "wrong year",
			filename:   "report_2023.txt",
			size:       10,
			wantReason: constants.ReasonWrongYear,
		},
		{
			name:       "wrong extension",
			filename:   "report_2024.csv",
			size:       10,
			wantReason: constants.ReasonIncorrectExtension,
		},
		{
			name:     "extension check is case-insensitive",
			filename: "report_2024.TXT",
			size:     10,
			wantOK:   true,
		},
		{
			// Several conditions fail; precedence picks the single reason.
			name:       "empty file beats wrong year and extension",
			filename:   "report_2023.csv",
			size:       0,
			wantReason: constants.ReasonEmptyFile,
		},
		{
			name:       "wrong year beats wrong extension",
			filename:   "report_2023.csv",
			size:       10,
			wantReason: constants.ReasonWrongYear,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, ok := pipeline.CheckEligibility(tt.filename, tt.size, "2024", ".txt")
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, tt.wantReason, reason)
			}
		})
	}
}

func TestOrchestratorRun(t *testing.T) {
	inputDir := t.TempDir()
	writeFile(t, inputDir, "check_2024.txt", "Bill total amount EURO 123,45\n")
	writeFile(t, inputDir, "invoice_2024.txt", "Total Amount: $99.99\n")
	writeFile(t, inputDir, "order_2024.txt", "Order Total 1,234.56\n")
	writeFile(t, inputDir, "anything_2024.txt", "")
	writeFile(t, inputDir, "report_2023.txt", "Bill total amount 5\n")
	writeFile(t, inputDir, "data_2024.csv", "Order Total 7.00\n")
	writeFile(t, inputDir, "notes_2024.txt", "nothing parseable here\n")

	cfg := testConfig(t, inputDir)
	agg := stats.NewAggregator(testLogger())
	tracker := quarantine.NewTracker()
	orch := pipeline.New(cfg, session.TimeChecker{}, validSession(), agg, tracker, testLogger())

	rs, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7, rs.TotalProcessed)
	assert.Equal(t, 3, rs.Valid)
	assert.Equal(t, 4, rs.Invalid)
	assert.Equal(t, rs.TotalProcessed, rs.Valid+rs.Invalid)

	snap := agg.Snapshot()
	assert.True(t, snap[constants.DocTypeCheck].Total.Equal(decimal.RequireFromString("123.45")))
	assert.Equal(t, 1, snap[constants.DocTypeCheck].Count)
	assert.True(t, snap[constants.DocTypeInvoice].Total.Equal(decimal.RequireFromString("99.99")))
	assert.Equal(t, 1, snap[constants.DocTypeInvoice].Count)
	assert.True(t, snap[constants.DocTypeOrder].Total.Equal(decimal.RequireFromString("1234.56")))
	assert.Equal(t, 1, snap[constants.DocTypeOrder].Count)

	// Valid files stay put, rejected files are physically quarantined.
	invalidDir := filepath.Join(inputDir, constants.QuarantineDirName)
	assert.FileExists(t, filepath.Join(inputDir, "check_2024.txt"))
	for _, name := range []string{"anything_2024.txt", "report_2023.txt", "data_2024.csv", "notes_2024.txt"} {
		assert.NoFileExists(t, filepath.Join(inputDir, name))
		assert.FileExists(t, filepath.Join(invalidDir, name))
	}

	// Each rejected file lands in exactly one reason bucket.
	reasons := make(map[string]constants.Reason)
	for _, r := range tracker.Records() {
		_, dup := reasons[r.Filename]
		assert.False(t, dup, "file %s in two buckets", r.Filename)
		reasons[r.Filename] = r.Reason
	}
	assert.Equal(t, constants.ReasonEmptyFile, reasons["anything_2024.txt"])
	assert.Equal(t, constants.ReasonWrongYear, reasons["report_2023.txt"])
	assert.Equal(t, constants.ReasonIncorrectExtension, reasons["data_2024.csv"])
	assert.Equal(t, constants.ReasonIncorrectContent, reasons["notes_2024.txt"])

	// Both artifacts exist, and the statistics round-trip.
	assert.FileExists(t, cfg.ReportPath)
	f, err := os.Open(cfg.StatsPath)
	require.NoError(t, err)
	defer f.Close()
	parsed, err := stats.ParseExport(f)
	require.NoError(t, err)
	for _, docType := range constants.DocTypes {
		assert.True(t, parsed[docType].Total.Equal(snap[docType].Total))
		assert.Equal(t, snap[docType].Count, parsed[docType].Count)
	}
}

func TestOrchestratorRun_QuarantineDirExcluded(t *testing.T) {
	inputDir := t.TempDir()
	invalidDir := filepath.Join(inputDir, constants.QuarantineDirName)
	require.NoError(t, os.MkdirAll(invalidDir, 0o755))
	writeFile(t, invalidDir, "previously_quarantined_2024.txt", "Order Total 5.00\n")
	writeFile(t, inputDir, "order_2024.txt", "Order Total 10.00\n")

	cfg := testConfig(t, inputDir)
	agg := stats.NewAggregator(testLogger())
	tracker := quarantine.NewTracker()
	orch := pipeline.New(cfg, session.TimeChecker{}, validSession(), agg, tracker, testLogger())

	rs, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, rs.TotalProcessed)
	assert.Equal(t, 1, rs.Valid)
	assert.True(t, agg.Snapshot()[constants.DocTypeOrder].Total.Equal(decimal.RequireFromString("10.00")))
}

func TestOrchestratorRun_InvalidSession(t *testing.T) {
	inputDir := t.TempDir()
	writeFile(t, inputDir, "order_2024.txt", "Order Total 10.00\n")

	cfg := testConfig(t, inputDir)
	expired := session.Session{Token: "token", ExpiresAt: time.Now().Add(-time.Minute)}
	orch := pipeline.New(cfg, session.TimeChecker{}, expired,
		stats.NewAggregator(testLogger()), quarantine.NewTracker(), testLogger())

	rs, err := orch.Run(context.Background())

	require.ErrorIs(t, err, common.ErrInvalidSession)
	assert.Zero(t, rs.TotalProcessed)
	// No file is touched when the run refuses to start.
	assert.FileExists(t, filepath.Join(inputDir, "order_2024.txt"))
}

func TestOrchestratorRun_OversizedFileQuarantined(t *testing.T) {
	inputDir := t.TempDir()
	writeFile(t, inputDir, "order_2024.txt", "Order Total 10.00\n")
	writeFile(t, inputDir, "huge_2024.txt", "Order Total 20.00\nmore content\n")

	cfg := testConfig(t, inputDir)
	cfg.MaxFileSize = 20

	agg := stats.NewAggregator(testLogger())
	tracker := quarantine.NewTracker()
	orch := pipeline.New(cfg, session.TimeChecker{}, validSession(), agg, tracker, testLogger())

	rs, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, rs.Valid)
	assert.Equal(t, 1, rs.Invalid)
	records := tracker.Records()
	require.Len(t, records, 1)
	assert.Equal(t, constants.ReasonParsingError, records[0].Reason)
	assert.Equal(t, "huge_2024.txt", records[0].Filename)
}

func TestOrchestratorRun_StatsExportFailure(t *testing.T) {
	inputDir := t.TempDir()
	writeFile(t, inputDir, "order_2024.txt", "Order Total 10.00\n")

	cfg := testConfig(t, inputDir)
	cfg.StatsPath = filepath.Join(t.TempDir(), "no-such-dir", "turnover.txt")

	agg := stats.NewAggregator(testLogger())
	tracker := quarantine.NewTracker()
	orch := pipeline.New(cfg, session.TimeChecker{}, validSession(), agg, tracker, testLogger())

	rs, err := orch.Run(context.Background())

	var exportErr *common.ExportError
	require.ErrorAs(t, err, &exportErr)
	// Everything processed before the failed export keeps its state.
	assert.Equal(t, 1, rs.TotalProcessed)
	assert.Equal(t, 1, rs.Valid)
	assert.True(t, agg.Snapshot()[constants.DocTypeOrder].Total.Equal(decimal.RequireFromString("10.00")))
}
