package quarantine

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/docflow-tools/finstat/internal/common"
)

// EnsureDir creates the quarantine directory if it does not exist.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// Move relocates path into destDir, silently replacing an already-quarantined
// file with the same name. Rename is tried first; a cross-device move falls
// back to copy+remove. Failure is a *common.QuarantineMoveError, which the
// orchestrator escalates to a run-level failure.
func Move(path, destDir string) error {
	dest := filepath.Join(destDir, filepath.Base(path))
	if err := os.Rename(path, dest); err == nil {
		return nil
	} else if !isCrossDevice(err) {
		return &common.QuarantineMoveError{Path: path, Dest: dest, Err: err}
	}

	if err := copyFile(path, dest); err != nil {
		return &common.QuarantineMoveError{Path: path, Dest: dest, Err: err}
	}
	if err := os.Remove(path); err != nil {
		return &common.QuarantineMoveError{Path: path, Dest: dest, Err: err}
	}
	return nil
}

func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
