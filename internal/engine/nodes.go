package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/internal/artifacts"
	"github.com/JaimeStill/trendr/internal/generate"
	"github.com/JaimeStill/trendr/internal/ingest"
	"github.com/JaimeStill/trendr/internal/jobs"
	"github.com/JaimeStill/trendr/internal/media"
	"github.com/JaimeStill/trendr/internal/projects"
	"github.com/JaimeStill/trendr/internal/tasks"
)

// Built-in node task names.
const (
	TaskIngestYouTube = tasks.IngestYouTube
	TaskGeneratePosts = tasks.GeneratePosts
	TaskGenerateImage = tasks.GenerateImage
)

// UnitRunner executes a queued child job inline and returns it in its final state.
type UnitRunner interface {
	Run(ctx context.Context, workspaceID, id uuid.UUID) (*jobs.Job, error)
}

// Runtime bundles the dependencies that built-in node handlers require.
type Runtime struct {
	Jobs     jobs.Store
	Projects projects.Store
	Ingest   UnitRunner
	Generate UnitRunner
	Media    UnitRunner
	Logger   *slog.Logger
}

// DefaultHandlers registers the built-in node handlers over rt.
func DefaultHandlers(rt *Runtime) Handlers {
	return Handlers{
		TaskIngestYouTube: IngestNode(rt),
		TaskGeneratePosts: GenerateNode(rt),
		TaskGenerateImage: ImageNode(rt),
	}
}

// IngestNode resolves the run's project, creating one from the url when the
// context has none, and ingests the source through a child ingest job.
func IngestNode(rt *Runtime) Handler {
	return HandlerFunc(func(ctx context.Context, exec *ExecutionContext, params Params, parent *jobs.Job) (any, error) {
		url, ok := params.String("url")
		if !ok {
			url = strings.TrimSpace(exec.URL)
		}

		if exec.ProjectID == nil {
			if url == "" {
				return nil, &ingest.InputError{Err: ingest.ErrMissingURL}
			}

			name, ok := params.String("project_name")
			if !ok {
				name = strings.TrimSpace(exec.ProjectName)
			}
			if name == "" {
				name = ingest.DefaultProjectName
			}

			p, err := rt.Projects.Create(ctx, projects.CreateCommand{
				WorkspaceID: exec.WorkspaceID,
				Name:        name,
				SourceType:  projects.SourceYouTube,
				SourceRef:   url,
			})
			if err != nil {
				return nil, fmt.Errorf("create project: %w", err)
			}
			exec.ProjectID = &p.ID
		} else if url == "" {
			p, err := rt.Projects.Find(ctx, exec.WorkspaceID, *exec.ProjectID)
			if err != nil {
				return nil, fmt.Errorf("load project: %w", err)
			}
			url = p.SourceRef
			if url == "" {
				return nil, &ingest.InputError{Err: ingest.ErrMissingURL}
			}
		}
		exec.URL = url

		var out ingest.Output
		child, err := rt.runChild(ctx, exec, parent, jobs.KindIngest, rt.Ingest, ingest.Input{URL: url}, &out)
		if err != nil {
			return nil, err
		}

		return map[string]any{
			"job_id":       child.ID,
			"project_id":   *exec.ProjectID,
			"artifact_ids": out.ArtifactIDs,
		}, nil
	})
}

// GenerateNode writes text drafts for the run's project through a child
// generate job. Params override the context's generation options.
func GenerateNode(rt *Runtime) Handler {
	return HandlerFunc(func(ctx context.Context, exec *ExecutionContext, params Params, parent *jobs.Job) (any, error) {
		if exec.ProjectID == nil {
			return nil, &generate.InputError{Err: generate.ErrMissingProject}
		}

		outputs, ok, err := params.Strings("outputs")
		if err != nil {
			return nil, err
		}
		if !ok {
			outputs = exec.Outputs
		}

		tone, ok := params.String("tone")
		if !ok {
			tone = exec.Tone
		}

		brandVoice, ok := params.StringPtr("brand_voice")
		if !ok {
			brandVoice = exec.BrandVoice
		}

		templateID, ok, err := params.UUID("template_id")
		if err != nil {
			return nil, err
		}
		if !ok {
			templateID = exec.TemplateID
		}

		meta := maps.Clone(exec.Meta)
		if meta == nil {
			meta = map[string]any{}
		}
		if overlay, ok := params.Map("meta"); ok {
			maps.Copy(meta, overlay)
		}

		provider, _ := params.String("provider")

		in := generate.Input{
			ProjectID:  exec.ProjectID,
			Outputs:    kinds(outputs),
			Tone:       tone,
			BrandVoice: brandVoice,
			TemplateID: templateID,
			Provider:   provider,
			Meta:       meta,
		}

		var out generate.Output
		child, err := rt.runChild(ctx, exec, parent, jobs.KindGenerate, rt.Generate, in, &out)
		if err != nil {
			return nil, err
		}
		exec.AddArtifacts(out.ArtifactIDs...)

		return map[string]any{
			"job_id":       child.ID,
			"artifact_ids": out.ArtifactIDs,
		}, nil
	})
}

// ImageNode generates an image for the run's project through a child media
// job. The prompt comes from params.prompt or meta.image_prompt.
func ImageNode(rt *Runtime) Handler {
	return HandlerFunc(func(ctx context.Context, exec *ExecutionContext, params Params, parent *jobs.Job) (any, error) {
		if exec.ProjectID == nil {
			return nil, &media.InputError{Err: media.ErrMissingProject}
		}

		prompt, ok := params.String("prompt")
		if !ok {
			prompt, _ = exec.Meta["image_prompt"].(string)
		}

		in := media.Input{ProjectID: exec.ProjectID, Prompt: prompt}
		in.Size, _ = params.String("size")
		in.Quality, _ = params.String("quality")
		in.Style, _ = params.String("style")
		in.Provider, _ = params.String("provider")

		var out media.Output
		child, err := rt.runChild(ctx, exec, parent, jobs.KindMedia, rt.Media, in, &out)
		if err != nil {
			return nil, err
		}
		exec.AddArtifacts(out.ArtifactID)

		return map[string]any{
			"job_id":      child.ID,
			"artifact_id": out.ArtifactID,
			"url":         out.URL,
		}, nil
	})
}

// runChild creates a child job of kind in the run's workspace, executes it
// through unit, requires it to succeed, and decodes its output into out.
func (rt *Runtime) runChild(
	ctx context.Context,
	exec *ExecutionContext,
	parent *jobs.Job,
	kind jobs.Kind,
	unit UnitRunner,
	input any,
	out any,
) (*jobs.Job, error) {
	child, err := rt.Jobs.Create(ctx, jobs.CreateCommand{
		WorkspaceID: exec.WorkspaceID,
		ProjectID:   exec.ProjectID,
		Kind:        kind,
		Input:       input,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s job: %w", kind, err)
	}

	rt.Logger.Debug("child job created", "parent_job_id", parent.ID, "job_id", child.ID, "kind", kind)

	done, err := unit.Run(ctx, exec.WorkspaceID, child.ID)
	if err != nil {
		return nil, err
	}
	if done.Status != jobs.StatusSucceeded {
		return nil, fmt.Errorf("%s job %s ended %s: %s", kind, child.ID, done.Status, done.ErrorMessage())
	}

	if len(done.Output) > 0 {
		if err := json.Unmarshal(done.Output, out); err != nil {
			return nil, fmt.Errorf("decode %s output: %w", kind, err)
		}
	}
	return done, nil
}

func kinds(outputs []string) []artifacts.Kind {
	if outputs == nil {
		return nil
	}
	out := make([]artifacts.Kind, len(outputs))
	for i, o := range outputs {
		out[i] = artifacts.Kind(o)
	}
	return out
}
