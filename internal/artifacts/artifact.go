// Package artifacts stores the content derived from a project: source metadata,
// transcripts, generated drafts, and images.
package artifacts

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Kind classifies an artifact.
type Kind string

const (
	KindSourceMeta Kind = "source_meta"
	KindTranscript Kind = "transcript"
	KindTweet      Kind = "tweet"
	KindLinkedIn   Kind = "linkedin"
	KindBlog       Kind = "blog"
	KindImage      Kind = "image"
)

// TextKinds are the kinds produced by text generation.
var TextKinds = []Kind{KindTweet, KindLinkedIn, KindBlog}

// IsTextKind reports whether k is a text generation output.
func IsTextKind(k Kind) bool {
	return slices.Contains(TextKinds, k)
}

// Artifact is one piece of content belonging to a project.
type Artifact struct {
	ID          uuid.UUID      `json:"id"`
	WorkspaceID uuid.UUID      `json:"workspace_id"`
	ProjectID   uuid.UUID      `json:"project_id"`
	Kind        Kind           `json:"kind"`
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	Meta        map[string]any `json:"meta"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// CreateCommand holds the fields for creating an artifact.
type CreateCommand struct {
	WorkspaceID uuid.UUID
	ProjectID   uuid.UUID
	Kind        Kind
	Title       string
	Content     string
	Meta        map[string]any
}

// UpdateCommand holds the editable fields of an artifact. Nil fields are left unchanged.
type UpdateCommand struct {
	Title   *string         `json:"title,omitempty"`
	Content *string         `json:"content,omitempty"`
	Meta    *map[string]any `json:"meta,omitempty"`
}

// Empty reports whether the command changes nothing.
func (c UpdateCommand) Empty() bool {
	return c.Title == nil && c.Content == nil && c.Meta == nil
}
