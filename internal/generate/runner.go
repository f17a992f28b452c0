package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/internal/artifacts"
	"github.com/JaimeStill/trendr/internal/ingest"
	"github.com/JaimeStill/trendr/internal/jobs"
	"github.com/JaimeStill/trendr/internal/templates"
)

const missingTranscript = "No transcript found. (Run ingest first.)"

// Runner executes generate jobs: one draft artifact per requested output.
type Runner struct {
	jobs      jobs.Store
	artifacts artifacts.Store
	templates templates.Finder
	writer    *Writer
	logger    *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(
	jobStore jobs.Store,
	artifactStore artifacts.Store,
	templateFinder templates.Finder,
	writer *Writer,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		jobs:      jobStore,
		artifacts: artifactStore,
		templates: templateFinder,
		writer:    writer,
		logger:    logger.With("system", "generate"),
	}
}

// Run executes the generate job id. A failed job is returned alongside the
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
	if err := in.CheckOutputs(); err != nil {
		return nil, err
	}

	projectID := job.ProjectID
	if projectID == nil {
		projectID = in.ProjectID
	}
	if projectID == nil {
		return nil, &InputError{Err: ErrMissingProject}
	}

	var templateContent string
	if in.TemplateID != nil {
		t, err := r.templates.Find(ctx, job.WorkspaceID, *in.TemplateID)
		if err != nil {
			if errors.Is(err, templates.ErrNotFound) {
				return nil, &InputError{Err: ErrTemplateNotFound}
			}
			return nil, fmt.Errorf("load template: %w", err)
		}
		if err := in.CheckTemplate(t.Kind); err != nil {
			return nil, err
		}
		templateContent = t.Content
	}

	transcript, segments, err := r.transcript(ctx, job.WorkspaceID, *projectID)
	if err != nil {
		return nil, err
	}

	logger := r.logger.With("job_id", job.ID, "workspace_id", job.WorkspaceID)

	ids := make([]uuid.UUID, 0, len(in.Outputs))
	for _, kind := range in.Outputs {
		text, err := r.writer.Write(ctx, Request{
			WorkspaceID: job.WorkspaceID,
			Transcript:  transcript,
			Segments:    segments,
			Kind:        kind,
			Tone:        in.Tone,
			BrandVoice:  in.brandVoice(),
			Provider:    in.Provider,
			Meta:        in.Meta,
			Template:    templateContent,
		})
		if err != nil {
			return Output{Outputs: in.Outputs, ArtifactIDs: ids}, err
		}

		meta := map[string]any{"tone": in.Tone, "brand_voice": in.BrandVoice}
		if in.TemplateID != nil {
			meta["template_id"] = *in.TemplateID
		}

		a, err := r.artifacts.Create(ctx, artifacts.CreateCommand{
			WorkspaceID: job.WorkspaceID,
			ProjectID:   *projectID,
			Kind:        kind,
			Title:       draftTitle(kind),
			Content:     text,
			Meta:        meta,
		})
		if err != nil {
			return Output{Outputs: in.Outputs, ArtifactIDs: ids}, fmt.Errorf("store %s draft: %w", kind, err)
		}
		ids = append(ids, a.ID)
		logger.Debug("draft generated", "kind", kind, "artifact_id", a.ID)
	}

	logger.Info("drafts generated", "outputs", len(ids))
	return Output{Generated: true, Outputs: in.Outputs, ArtifactIDs: ids}, nil
}

func (r *Runner) transcript(ctx context.Context, workspaceID, projectID uuid.UUID) (string, []ingest.Segment, error) {
	a, err := r.artifacts.Latest(ctx, workspaceID, projectID, artifacts.KindTranscript)
	if errors.Is(err, artifacts.ErrNotFound) {
		return missingTranscript, nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("load transcript: %w", err)
	}
	return a.Content, ingest.SegmentsFromMeta(a.Meta), nil
}
