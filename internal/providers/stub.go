package providers

import (
	"context"
	"fmt"
)

// OpenAIStub is a deterministic local text provider used as the last resort
// when remote providers are unavailable.
type OpenAIStub struct{}

func (OpenAIStub) Name() string { return NameOpenAIStub }

func (OpenAIStub) Capabilities() Capabilities {
	return Capabilities{
		MaxInputTokens:       intPtr(8_000),
		MaxOutputTokens:      intPtr(2_000),
		SupportsSystemPrompt: true,
	}
}

func (OpenAIStub) Available(context.Context, TextRequest) bool { return true }

func (OpenAIStub) Generate(_ context.Context, req TextRequest) (string, error) {
	tone, _ := req.Meta["tone"].(string)
	if tone == "" {
		tone = "professional"
	}
	return fmt.Sprintf(
		"/* Trendr stub output (OpenAI) */\nTone: %s\nPrompt received:\n%s",
		tone, truncate(req.Prompt, 2000),
	), nil
}

// NanoBanana is a placeholder image provider returning a fixed URL.
type NanoBanana struct{}

func (NanoBanana) Name() string { return NameNanoBanana }

func (NanoBanana) Capabilities() Capabilities { return Capabilities{} }

func (NanoBanana) Available(context.Context, ImageRequest) bool { return true }

func (NanoBanana) GenerateImage(_ context.Context, req ImageRequest) (*ImageResult, error) {
	size := req.Size
	if size == "" {
		size = DefaultImageSize
	}
	return &ImageResult{
		Provider: NameNanoBanana,
		URL:      "https://example.com/placeholder.png",
		Size:     size,
		Note:     "Stub provider: integrate Nano Banana here.",
	}, nil
}
