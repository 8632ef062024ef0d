// Package quarantine tracks rejected files and relocates them into the
// quarantine subdirectory of the input directory.
package quarantine

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/docflow-tools/finstat/constants"
	"github.com/docflow-tools/finstat/internal/common"
	"github.com/docflow-tools/finstat/internal/entity"
)

// Tracker records one rejection reason per quarantined file. Append-only
// during a run, read for reporting at the end.
type Tracker struct {
	mu    sync.Mutex
	files map[constants.Reason][]string
	total int
}

func NewTracker() *Tracker {
	return &Tracker{
		files: make(map[constants.Reason][]string),
	}
}

// Record appends the filename under its reason and bumps the global counter.
func (t *Tracker) Record(reason constants.Reason, filename string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.files[reason] = append(t.files[reason], filename)
	t.total++
}

// Total returns the number of invalid files recorded so far.
func (t *Tracker) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Records returns every (reason, filename) pair in reporting order.
func (t *Tracker) Records() []entity.InvalidFileRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []entity.InvalidFileRecord
	for _, reason := range constants.Reasons {
		for _, name := range t.files[reason] {
			out = append(out, entity.InvalidFileRecord{Reason: reason, Filename: name})
		}
	}
	return out
}

// Report renders the total, the per-reason file lists, and a percentage
// breakdown table whose rows sum to 100%.
func (t *Tracker) Report() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	b.WriteString("==== DETAILED REPORT ON INVALID FILES ====\n")
	fmt.Fprintf(&b, "The total number of invalid files: %d\n", t.total)

	for _, reason := range constants.Reasons {
		files := t.files[reason]
		if len(files) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", reason)
		fmt.Fprintf(&b, "Number of files: %d\n", len(files))
		b.WriteString("Files:\n")
		for _, name := range files {
			fmt.Fprintf(&b, " - %s\n", name)
		}
	}

	t.writePercentageBreakdown(&b)
	return b.String()
}

func (t *Tracker) writePercentageBreakdown(b *strings.Builder) {
	if t.total == 0 {
		return
	}
	b.WriteString("\n==================== ANALYSIS OF INVALID FILES ====================\n")
	fmt.Fprintf(b, "%-30s | %-10s | %-15s\n", "The reason for the invalidity", "Percent", "Number of files")
	b.WriteString("----------------------------------------------------------------\n")
	for _, reason := range constants.Reasons {
		files := t.files[reason]
		if len(files) == 0 {
			continue
		}
		percentage := float64(len(files)) * 100.0 / float64(t.total)
		fmt.Fprintf(b, "%-30s | %6.2f%% | %15d\n", reason, percentage, len(files))
	}
	b.WriteString("----------------------------------------------------------------\n")
	fmt.Fprintf(b, "%-30s | %6.2f%% | %15d\n", "Total invalid files:", 100.0, t.total)
}

// Export writes the report structure to a flat text file. Unlike the
// statistics export this failure is not run-fatal; the caller logs it.
func (t *Tracker) Export(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &common.ExportError{Path: path, Err: err}
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(t.Report()); err != nil {
		return &common.ExportError{Path: path, Err: err}
	}
	if err := w.Flush(); err != nil {
		return &common.ExportError{Path: path, Err: err}
	}
	return nil
}
