package common

import (
	"errors"
	"fmt"

	"github.com/docflow-tools/finstat/constants"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError builds an AppError.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ErrInvalidSession aborts a run before any file is processed.
var ErrInvalidSession = errors.New("access session is missing or expired")

// FileTooLargeError is a hard per-file failure: the file exceeds the
// configured size limit and is never scanned.
type FileTooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file too large to process: %s (%d bytes, limit %d)", e.Path, e.Size, e.Limit)
}

// FileNotReadableError covers open/read failures on an otherwise eligible file.
type FileNotReadableError struct {
	Path string
	Err  error
}

func (e *FileNotReadableError) Error() string {
	return fmt.Sprintf("file not readable: %s: %v", e.Path, e.Err)
}

func (e *FileNotReadableError) Unwrap() error { return e.Err }

// AmountFormatError marks a line that matched a grammar but whose captured
// amount could not be converted to a number. It aborts the file, not the run.
type AmountFormatError struct {
	Type constants.DocType
	Raw  string
	Line string
	Err  error
}

func (e *AmountFormatError) Error() string {
	return fmt.Sprintf("incorrect %s amount format: failed to convert %q in line %q", e.Type, e.Raw, e.Line)
}

func (e *AmountFormatError) Unwrap() error { return e.Err }

// NoValidLinesError means a full scan produced zero parsed amounts.
type NoValidLinesError struct {
	Path string
}

func (e *NoValidLinesError) Error() string {
	return fmt.Sprintf("no valid lines found in file: %s", e.Path)
}

// QuarantineMoveError means a rejected file could not be relocated into the
// quarantine directory. Quarantine is a guaranteed side effect, so this is
// escalated to a run-level failure.
type QuarantineMoveError struct {
	Path string
	Dest string
	Err  error
}

func (e *QuarantineMoveError) Error() string {
	return fmt.Sprintf("could not move %s to quarantine %s: %v", e.Path, e.Dest, e.Err)
}

func (e *QuarantineMoveError) Unwrap() error { return e.Err }

// ExportError means an output artifact could not be written.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to export statistics to %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
