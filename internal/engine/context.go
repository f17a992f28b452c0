package engine

import (
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/internal/workflows"
)

// ExecutionContext is the state threaded through one workflow run. It is
// seeded from the run input and enriched by node handlers; the executor
// owns it and passes it to one handler at a time.
type ExecutionContext struct {
	WorkspaceID uuid.UUID
	ProjectID   *uuid.UUID
	URL         string
	ProjectName string
	Outputs     []string
	Tone        string
	BrandVoice  *string
	TemplateID  *uuid.UUID
	Meta        map[string]any
	ArtifactIDs []uuid.UUID
}

// Seed builds the context for a run in workspaceID from its input.
func Seed(workspaceID uuid.UUID, in workflows.RunInput) *ExecutionContext {
	meta := map[string]any{}
	maps.Copy(meta, in.Meta)

	return &ExecutionContext{
		WorkspaceID: workspaceID,
		ProjectID:   in.ProjectID,
		URL:         in.URL,
		ProjectName: in.ProjectName,
		Outputs:     slices.Clone(in.Outputs),
		Tone:        in.Tone,
		BrandVoice:  in.BrandVoice,
		TemplateID:  in.TemplateID,
		Meta:        meta,
		ArtifactIDs: []uuid.UUID{},
	}
}

// AddArtifacts appends ids not already recorded.
func (c *ExecutionContext) AddArtifacts(ids ...uuid.UUID) {
	for _, id := range ids {
		if !slices.Contains(c.ArtifactIDs, id) {
			c.ArtifactIDs = append(c.ArtifactIDs, id)
		}
	}
}
