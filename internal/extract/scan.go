package extract

import (
	"bufio"
	"log/slog"
	"os"

	"github.com/docflow-tools/finstat/constants"
	"github.com/docflow-tools/finstat/internal/common"
	"github.com/docflow-tools/finstat/internal/entity"
)

// Recorder receives every successfully parsed line. The statistics
// aggregator satisfies this.
type Recorder interface {
	Record(doc entity.Document)
}

// Extractor scans eligible files line by line and records extracted amounts.
type Extractor struct {
	maxFileSize int64
	logger      *slog.Logger
}

func NewExtractor(maxFileSize int64, logger *slog.Logger) *Extractor {
	if maxFileSize <= 0 {
		maxFileSize = constants.DefaultMaxFileSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{maxFileSize: maxFileSize, logger: logger}
}

// HasParseableLine streams the file and returns true on the first line that
// matches any grammar. It is a pre-filter so the full extraction only runs
// over content known to contain at least one parseable line.
func (e *Extractor) HasParseableLine(path string) (bool, error) {
	f, err := e.open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	scanner := newLineScanner(f)
	for scanner.Scan() {
		if MatchAny(scanner.Text()) {
			return true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, &common.FileNotReadableError{Path: path, Err: err}
	}
	return false, nil
}

// ScanFile applies the grammars to every line, records each parsed amount,
// and returns how many lines parsed. An amount-format error aborts the file
// immediately; a full scan with zero parsed lines is *common.NoValidLinesError.
func (e *Extractor) ScanFile(path string, rec Recorder) (int, error) {
	f, err := e.open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	parsed := 0
	scanner := newLineScanner(f)
	for scanner.Scan() {
		doc, ok, err := ExtractLine(scanner.Text())
		if err != nil {
			e.logger.Error("extract.line.failed", "path", path, "error", err)
			return parsed, err
		}
		if !ok {
			continue
		}
		rec.Record(doc)
		parsed++
		e.logger.Debug("extract.line.ok",
			"path", path,
			"type", string(doc.Type),
			"amount", doc.Amount.String(),
		)
	}
	if err := scanner.Err(); err != nil {
		return parsed, &common.FileNotReadableError{Path: path, Err: err}
	}
	if parsed == 0 {
		return 0, &common.NoValidLinesError{Path: path}
	}
	return parsed, nil
}

// open stats the file first: exceeding the size limit is a hard failure for
// the file, not a rejection reason of its own.
func (e *Extractor) open(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &common.FileNotReadableError{Path: path, Err: err}
	}
	if info.Size() > e.maxFileSize {
		return nil, &common.FileTooLargeError{Path: path, Size: info.Size(), Limit: e.maxFileSize}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &common.FileNotReadableError{Path: path, Err: err}
	}
	return f, nil
}

func newLineScanner(f *os.File) *bufio.Scanner {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), constants.MaxLineBytes)
	return scanner
}
