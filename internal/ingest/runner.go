package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/internal/artifacts"
	"github.com/JaimeStill/trendr/internal/jobs"
)

// Input is the payload of an ingest job.
type Input struct {
	URL string `json:"url"`
}

// Output is the result document of a succeeded ingest job.
type Output struct {
	YouTube         *Metadata   `json:"youtube"`
	TranscriptChars int         `json:"transcript_chars"`
	Segments        int         `json:"segments"`
	ArtifactIDs     []uuid.UUID `json:"artifact_ids"`
}

// Runner executes ingest jobs: it fetches the source, stores source_meta and
// transcript artifacts on the job's project, and records the outcome.
type Runner struct {
	jobs      jobs.Store
	artifacts artifacts.Store
	source    Source
	logger    *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(jobStore jobs.Store, artifactStore artifacts.Store, source Source, logger *slog.Logger) *Runner {
	return &Runner{
		jobs:      jobStore,
		artifacts: artifactStore,
		source:    source,
		logger:    logger.With("system", "ingest"),
	}
}

// Run executes the ingest job id. A failed job is returned alongside the
// error that failed it.
func (r *Runner) Run(ctx context.Context, workspaceID, id uuid.UUID) (*jobs.Job, error) {
	return jobs.Run(ctx, r.jobs, workspaceID, id, r.work)
}

func (r *Runner) work(ctx context.Context, job *jobs.Job) (any, error) {
	var in Input
	if err := job.DecodeInput(&in); err != nil {
		return nil, &InputError{Err: err}
	}

	url := strings.TrimSpace(in.URL)
	if url == "" {
		return nil, &InputError{Err: ErrMissingURL}
	}
	if job.ProjectID == nil {
		return nil, &InputError{Err: ErrMissingProject}
	}

	logger := r.logger.With("job_id", job.ID, "workspace_id", job.WorkspaceID)

	meta, err := r.source.FetchMetadata(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata: %w", err)
	}

	transcript, err := r.source.FetchTranscript(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch transcript: %w", err)
	}

	metaDoc, err := toMeta(meta)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}

	segments := transcript.Segments
	if segments == nil {
		segments = []Segment{}
	}

	source, err := r.artifacts.Create(ctx, artifacts.CreateCommand{
		WorkspaceID: job.WorkspaceID,
		ProjectID:   *job.ProjectID,
		Kind:        artifacts.KindSourceMeta,
		Title:       "YouTube Metadata",
		Meta:        metaDoc,
	})
	if err != nil {
		return nil, fmt.Errorf("store source metadata: %w", err)
	}

	text, err := r.artifacts.Create(ctx, artifacts.CreateCommand{
		WorkspaceID: job.WorkspaceID,
		ProjectID:   *job.ProjectID,
		Kind:        artifacts.KindTranscript,
		Title:       "Transcript",
		Content:     transcript.Text,
		Meta:        map[string]any{"segments": segments},
	})
	if err != nil {
		return nil, fmt.Errorf("store transcript: %w", err)
	}

	logger.Info("source ingested", "video_id", meta.VideoID, "segments", len(segments))

	return Output{
		YouTube:         meta,
		TranscriptChars: len([]rune(transcript.Text)),
		Segments:        len(segments),
		ArtifactIDs:     []uuid.UUID{source.ID, text.ID},
	}, nil
}
