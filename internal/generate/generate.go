// Package generate turns a project's transcript into text drafts through the
// provider router and stores each draft as an artifact.
package generate

import (
	"context"
	"maps"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/internal/artifacts"
	"github.com/JaimeStill/trendr/internal/ingest"
	"github.com/JaimeStill/trendr/internal/providers"
)

// DefaultTone is used when a request names no tone.
const DefaultTone = "professional"

// DefaultOutputs are generated when a request names none.
var DefaultOutputs = []artifacts.Kind{artifacts.KindTweet, artifacts.KindLinkedIn, artifacts.KindBlog}

// TextGenerator produces text for a prompt. Implemented by *providers.Router.
type TextGenerator interface {
	GenerateText(ctx context.Context, req providers.TextRequest) (string, error)
}

// Request describes one draft to write.
type Request struct {
	WorkspaceID uuid.UUID
	Transcript  string
	Segments    []ingest.Segment
	Kind        artifacts.Kind
	Tone        string
	BrandVoice  string
	Provider    string
	Meta        map[string]any
	Template    string
}

// Writer builds prompts and sends them through a TextGenerator.
type Writer struct {
	text TextGenerator
}

// NewWriter creates a Writer over text.
func NewWriter(text TextGenerator) *Writer {
	return &Writer{text: text}
}

// Write renders the prompt for req and returns the generated draft.
// meta.audience and meta.notes feed the prompt; the provider receives meta
// extended with tone and output_kind.
func (w *Writer) Write(ctx context.Context, req Request) (string, error) {
	audience, _ := req.Meta["audience"].(string)
	notes, _ := req.Meta["notes"].(string)

	prompt, err := BuildPrompt(PromptInput{
		Kind:       req.Kind,
		Tone:       req.Tone,
		BrandVoice: req.BrandVoice,
		Audience:   audience,
		Notes:      notes,
		Transcript: req.Transcript,
		Segments:   req.Segments,
		Template:   req.Template,
	})
	if err != nil {
		return "", err
	}

	meta := make(map[string]any, len(req.Meta)+2)
	maps.Copy(meta, req.Meta)
	meta["tone"] = req.Tone
	meta["output_kind"] = string(req.Kind)

	return w.text.GenerateText(ctx, providers.TextRequest{
		WorkspaceID: req.WorkspaceID,
		Prompt:      prompt,
		Meta:        meta,
		Preferred:   req.Provider,
	})
}

// Input is the payload of a generate job.
type Input struct {
	ProjectID  *uuid.UUID       `json:"project_id,omitempty"`
	Outputs    []artifacts.Kind `json:"outputs,omitempty"`
	Tone       string           `json:"tone,omitempty"`
	BrandVoice *string          `json:"brand_voice,omitempty"`
	TemplateID *uuid.UUID       `json:"template_id,omitempty"`
	Provider   string           `json:"provider,omitempty"`
	Meta       map[string]any   `json:"meta,omitempty"`
}

// Normalize fills the default outputs and tone.
func (in *Input) Normalize() {
	if len(in.Outputs) == 0 {
		in.Outputs = append([]artifacts.Kind(nil), DefaultOutputs...)
	}
	if strings.TrimSpace(in.Tone) == "" {
		in.Tone = DefaultTone
	}
	if in.Meta == nil {
		in.Meta = map[string]any{}
	}
}

// CheckOutputs rejects output kinds that are not text kinds.
func (in *Input) CheckOutputs() error {
	for _, k := range in.Outputs {
		if !artifacts.IsTextKind(k) {
			return &InputError{Err: unknownKind(k)}
		}
	}
	return nil
}

// CheckTemplate rejects a template whose kind differs from any requested output.
func (in *Input) CheckTemplate(kind string) error {
	for _, k := range in.Outputs {
		if string(k) != kind {
			return &InputError{Err: mismatch(kind, k)}
		}
	}
	return nil
}

// Output is the result document of a succeeded generate job.
type Output struct {
	Generated   bool             `json:"generated"`
	Outputs     []artifacts.Kind `json:"outputs"`
	ArtifactIDs []uuid.UUID      `json:"artifact_ids"`
}

func (in *Input) brandVoice() string {
	if in.BrandVoice == nil {
		return ""
	}
	return *in.BrandVoice
}

func draftTitle(k artifacts.Kind) string {
	s := string(k)
	if s == "" {
		return "Draft"
	}
	return strings.ToUpper(s[:1]) + s[1:] + " Draft"
}
