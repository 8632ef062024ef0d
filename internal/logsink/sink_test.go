package logsink_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docflow-tools/finstat/internal/logsink"
)

func TestSinkWritesThroughSlog(t *testing.T) {
	dir := t.TempDir()
	sink, err := logsink.New(dir)
	require.NoError(t, err)

	logger := slog.New(slog.NewJSONHandler(sink, nil))
	logger.Info("pipeline.run.started", "input_dir", "/data/docs")
	logger.Warn("pipeline.file.ineligible", "file", "report_2023.txt")

	sink.Shutdown(context.Background())

	data, err := os.ReadFile(sink.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "pipeline.run.started")
	assert.Contains(t, string(data), "report_2023.txt")
}

func TestSinkPath(t *testing.T) {
	dir := t.TempDir()
	sink, err := logsink.New(dir)
	require.NoError(t, err)
	defer sink.Shutdown(context.Background())

	expected := filepath.Join(dir, fmt.Sprintf("finstat-%s.log", time.Now().Format("20060102")))
	assert.Equal(t, expected, sink.Path())
}

func TestSinkShutdownDrainsQueue(t *testing.T) {
	dir := t.TempDir()
	sink, err := logsink.New(dir, logsink.WithQueueSize(8))
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		_, err := sink.Write([]byte(fmt.Sprintf("entry %d\n", i)))
		require.NoError(t, err)
	}
	sink.Shutdown(context.Background())

	data, err := os.ReadFile(sink.Path())
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		assert.Contains(t, string(data), fmt.Sprintf("entry %d", i))
	}
}

func TestSinkWriteAfterShutdown(t *testing.T) {
	sink, err := logsink.New(t.TempDir())
	require.NoError(t, err)
	sink.Shutdown(context.Background())

	// Late writes are dropped without error so deferred log calls stay safe.
	n, err := sink.Write([]byte("late entry\n"))
	require.NoError(t, err)
	assert.Equal(t, len("late entry\n"), n)

	sink.Shutdown(context.Background())
}
