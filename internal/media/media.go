// Package media generates images through the image provider router and
// stores inline image payloads in blob storage.
package media

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/internal/providers"
)

const (
	DefaultSize    = providers.DefaultImageSize
	DefaultQuality = "standard"
	DefaultStyle   = "vivid"
)

// ImageGenerator produces an image for a request, failing over between providers.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req providers.ImageRequest) (*providers.ImageResult, error)
}

// Blobs is the subset of blob storage used for generated images.
type Blobs interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	URL(key string) string
}

// Input is the payload of a media job and the body of POST /media/images.
type Input struct {
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
	Prompt    string     `json:"prompt"`
	Size      string     `json:"size,omitempty"`
	Quality   string     `json:"quality,omitempty"`
	Style     string     `json:"style,omitempty"`
	Provider  string     `json:"provider,omitempty"`
}

// Normalize trims the prompt and fills unset options with defaults.
func (in *Input) Normalize() {
	in.Prompt = strings.TrimSpace(in.Prompt)
	if strings.TrimSpace(in.Size) == "" {
		in.Size = DefaultSize
	}
	if strings.TrimSpace(in.Quality) == "" {
		in.Quality = DefaultQuality
	}
	if strings.TrimSpace(in.Style) == "" {
		in.Style = DefaultStyle
	}
}

// Output is the result document of a succeeded media job.
type Output struct {
	URL           string    `json:"url"`
	RevisedPrompt string    `json:"revised_prompt,omitempty"`
	Size          string    `json:"size"`
	Provider      string    `json:"provider"`
	ArtifactID    uuid.UUID `json:"artifact_id"`
}

// ImageKey returns the blob key for a generated image of a project.
func ImageKey(projectID uuid.UUID, id uuid.UUID) string {
	return "projects/" + projectID.String() + "/images/" + strings.ReplaceAll(id.String(), "-", "") + ".png"
}
