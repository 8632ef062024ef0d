package stats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/docflow-tools/finstat/constants"
	"github.com/docflow-tools/finstat/internal/common"
)

// Export writes one pair of lines per document type:
//
//	<Type> total: <value>
//	<Type> count: <n>
//
// An I/O failure here is run-fatal (wrapped as *common.ExportError).
func (a *Aggregator) Export(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &common.ExportError{Path: path, Err: err}
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	snap := a.Snapshot()
	for _, t := range constants.DocTypes {
		ts := snap[t]
		if _, err := fmt.Fprintf(w, "%s total: %s\n%s count: %d\n",
			string(t), ts.Total.StringFixed(2), string(t), ts.Count); err != nil {
			return &common.ExportError{Path: path, Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		return &common.ExportError{Path: path, Err: err}
	}

	a.logger.Info("stats.export.ok", "path", path)
	return nil
}

// ParseExport reads the format written by Export back into typed stats.
// Round-tripping an export file must reproduce the original totals.
func ParseExport(r io.Reader) (map[constants.DocType]TypeStats, error) {
	out := make(map[constants.DocType]TypeStats, len(constants.DocTypes))

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		name, rest, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("malformed statistics line: %q", line)
		}
		field, value, ok := strings.Cut(rest, ": ")
		if !ok {
			return nil, fmt.Errorf("malformed statistics line: %q", line)
		}
		t := constants.DocType(name)
		ts := out[t]
		switch field {
		case "total":
			total, err := decimal.NewFromString(value)
			if err != nil {
				return nil, fmt.Errorf("malformed total in line %q: %w", line, err)
			}
			ts.Total = total
		case "count":
			if _, err := fmt.Sscanf(value, "%d", &ts.Count); err != nil {
				return nil, fmt.Errorf("malformed count in line %q: %w", line, err)
			}
		default:
			return nil, fmt.Errorf("unknown statistics field %q in line %q", field, line)
		}
		out[t] = ts
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
