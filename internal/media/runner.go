package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/internal/artifacts"
	"github.com/JaimeStill/trendr/internal/jobs"
	"github.com/JaimeStill/trendr/internal/providers"
	"github.com/JaimeStill/trendr/pkg/formatting"
)

// Runner executes media jobs: it generates an image, stores inline payloads
// in blob storage, and records an image artifact on the job's project.
type Runner struct {
	jobs      jobs.Store
	artifacts artifacts.Store
	images    ImageGenerator
	blobs     Blobs
	maxSize   int64
	logger    *slog.Logger
}

// NewRunner creates a Runner. Inline payloads larger than maxSize bytes are rejected.
func NewRunner(
	jobStore jobs.Store,
	artifactStore artifacts.Store,
	images ImageGenerator,
	blobs Blobs,
	maxSize int64,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		jobs:      jobStore,
		artifacts: artifactStore,
		images:    images,
		blobs:     blobs,
		maxSize:   maxSize,
		logger:    logger.With("system", "media"),
	}
}

// Run executes the media job id. A failed job is returned alongside the
// error that failed it.
func (r *Runner) Run(ctx context.Context, workspaceID, id uuid.UUID) (*jobs.Job, error) {
	return jobs.Run(ctx, r.jobs, workspaceID, id, r.work)
}

func (r *Runner) work(ctx context.Context, job *jobs.Job) (any, error) {
	var in Input
	if err := job.DecodeInput(&in); err != nil {
		return nil, &InputError{Err: err}
	}
	in.Normalize()

	if job.ProjectID == nil {
		return nil, &InputError{Err: ErrMissingProject}
	}
	if in.Prompt == "" {
		return nil, &InputError{Err: ErrMissingPrompt}
	}
	projectID := *job.ProjectID

	res, err := r.images.GenerateImage(ctx, providers.ImageRequest{
		WorkspaceID: job.WorkspaceID,
		Prompt:      in.Prompt,
		Size:        in.Size,
		Meta:        map[string]any{"quality": in.Quality, "style": in.Style},
		Preferred:   in.Provider,
	})
	if err != nil {
		return nil, err
	}

	meta := map[string]any{
		"size":     res.Size,
		"provider": res.Provider,
	}
	if res.RevisedPrompt != "" {
		meta["revised_prompt"] = res.RevisedPrompt
	}

	url := res.URL
	if res.B64 != "" {
		key, size, err := r.store(ctx, projectID, res.B64)
		if err != nil {
			return nil, err
		}
		url = r.blobs.URL(key)
		meta["storage_key"] = key
		meta["bytes"] = size
		r.logger.Debug("image stored", "key", key, "size", formatting.FormatBytes(size, 1))
	}
	if url == "" {
		return nil, ErrEmptyImage
	}
	meta["url"] = url

	a, err := r.artifacts.Create(ctx, artifacts.CreateCommand{
		WorkspaceID: job.WorkspaceID,
		ProjectID:   projectID,
		Kind:        artifacts.KindImage,
		Title:       "Generated Image",
		Content:     in.Prompt,
		Meta:        meta,
	})
	if err != nil {
		return nil, fmt.Errorf("store image artifact: %w", err)
	}

	r.logger.Info("image generated",
		"job_id", job.ID,
		"workspace_id", job.WorkspaceID,
		"provider", res.Provider,
		"stored", meta["storage_key"] != nil,
	)

	return Output{
		URL:           url,
		RevisedPrompt: res.RevisedPrompt,
		Size:          res.Size,
		Provider:      res.Provider,
		ArtifactID:    a.ID,
	}, nil
}

// store decodes and uploads a base64 image payload, returning its key and
// decoded size. Oversized payloads are rejected before decoding when the
// encoded length already rules them out.
func (r *Runner) store(ctx context.Context, projectID uuid.UUID, payload string) (string, int64, error) {
	if est := int64(base64.StdEncoding.DecodedLen(len(payload))); r.maxSize > 0 && est > r.maxSize+2 {
		return "", 0, r.tooLarge(est)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", 0, fmt.Errorf("decode image payload: %w", err)
	}
	size := int64(len(data))
	if r.maxSize > 0 && size > r.maxSize {
		return "", 0, r.tooLarge(size)
	}

	key := ImageKey(projectID, uuid.New())
	if err := r.blobs.Upload(ctx, key, bytes.NewReader(data), "image/png"); err != nil {
		return "", 0, fmt.Errorf("upload image: %w", err)
	}
	return key, size, nil
}

func (r *Runner) tooLarge(size int64) error {
	return fmt.Errorf("%w (%s > %s)",
		ErrImageTooLarge,
		formatting.FormatBytes(size, 1),
		formatting.FormatBytes(r.maxSize, 1),
	)
}
