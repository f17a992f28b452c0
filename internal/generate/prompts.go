package generate

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/JaimeStill/trendr/internal/artifacts"
	"github.com/JaimeStill/trendr/internal/ingest"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var builtin = template.Must(
	template.New("prompts").Option("missingkey=error").ParseFS(templateFS, "templates/*.tmpl"),
)

var builtinNames = map[artifacts.Kind]string{
	artifacts.KindTweet:    "tweet.tmpl",
	artifacts.KindLinkedIn: "linkedin.tmpl",
	artifacts.KindBlog:     "blog.tmpl",
}

// PromptData is the value prompt templates are executed against.
type PromptData struct {
	Kind               string
	Tone               string
	BrandVoice         string
	Audience           string
	Notes              string
	Transcript         string
	Segments           string
	SourceFacts        string
	WritingConstraints string
}

// PromptInput holds what a prompt is built from. Template, when set, replaces
// the built-in template for Kind.
type PromptInput struct {
	Kind       artifacts.Kind
	Tone       string
	BrandVoice string
	Audience   string
	Notes      string
	Transcript string
	Segments   []ingest.Segment
	Template   string
}

// BuildPrompt renders the prompt for one output kind.
func BuildPrompt(in PromptInput) (string, error) {
	data := PromptData{
		Kind:               string(in.Kind),
		Tone:               in.Tone,
		BrandVoice:         orDefault(in.BrandVoice, "N/A"),
		Audience:           orDefault(in.Audience, "General audience"),
		Notes:              orDefault(in.Notes, "None"),
		Transcript:         in.Transcript,
		Segments:           FormatSegments(in.Segments),
		SourceFacts:        SourceFacts(in.Transcript, in.Segments, DefaultFactLimit),
		WritingConstraints: WritingConstraints(string(in.Kind), in.Tone, in.Audience, in.Notes),
	}

	tmpl, err := promptTemplate(in.Kind, in.Template)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return b.String(), nil
}

func promptTemplate(kind artifacts.Kind, content string) (*template.Template, error) {
	if strings.TrimSpace(content) != "" {
		t, err := template.New(string(kind)).Option("missingkey=error").Parse(content)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRender, err)
		}
		return t, nil
	}

	name, ok := builtinNames[kind]
	if !ok {
		return nil, unknownKind(kind)
	}
	return builtin.Lookup(name), nil
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
