// Package upload defines the remote-storage collaborator that consumes the
// output artifacts after a run. The pipeline never calls it; the CLI does.
// Real implementations (object storage et al.) live outside this repository.
package upload

import (
	"context"
	"log/slog"
)

// Uploader ships the finished artifacts somewhere durable.
type Uploader interface {
	Upload(ctx context.Context, paths ...string) error
}

// NopUploader satisfies Uploader without shipping anything. It is the
// default when no remote storage is configured.
type NopUploader struct {
	Logger *slog.Logger
}

func (u NopUploader) Upload(_ context.Context, paths ...string) error {
	if u.Logger != nil {
		u.Logger.Info("upload.skipped", "paths", paths)
	}
	return nil
}
