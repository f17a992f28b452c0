package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// Registered provider names.
const (
	NameOpenAI      = "openai"
	NameOpenAIStub  = "openai_stub"
	NameOpenAIImage = "openai_image"
	NameNanoBanana  = "nanobanana"
)

const maxErrorDetail = 500

// OpenAIText generates text with the chat completions API.
type OpenAIText struct {
	keys    keySource
	baseURL string
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

// NewOpenAIText creates the "openai" text provider.
func NewOpenAIText(cfg *Config, limiter *rate.Limiter, creds CredentialResolver, logger *slog.Logger) *OpenAIText {
	return &OpenAIText{
		keys: keySource{
			credential: NameOpenAI,
			global:     cfg.OpenAI.APIKey,
			creds:      creds,
			logger:     logger,
		},
		baseURL: cfg.OpenAI.BaseURL,
		model:   cfg.OpenAI.Model,
		timeout: cfg.TimeoutDuration(),
		limiter: limiter,
	}
}

func (p *OpenAIText) Name() string { return NameOpenAI }

func (p *OpenAIText) Capabilities() Capabilities {
	return Capabilities{
		MaxInputTokens:       intPtr(128_000),
		MaxOutputTokens:      intPtr(16_384),
		SupportsJSONMode:     true,
		SupportsSystemPrompt: true,
	}
}

func (p *OpenAIText) Available(ctx context.Context, req TextRequest) bool {
	return p.keys.resolve(ctx, req.WorkspaceID) != ""
}

func (p *OpenAIText) Generate(ctx context.Context, req TextRequest) (string, error) {
	key := p.keys.resolve(ctx, req.WorkspaceID)
	if key == "" {
		return "", &CallError{Provider: NameOpenAI, Type: "ConfigurationError", Err: ErrNotConfigured}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.limiter.Wait(ctx); err != nil {
		return "", &CallError{Provider: NameOpenAI, Type: "RateLimited", Err: err}
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	chat := openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: messages,
	}
	if t, ok := metaFloat(req.Meta, "temperature"); ok {
		chat.Temperature = float32(t)
		// go-openai omits a zero temperature; the smallest float32 is sent in its place.
		if chat.Temperature == 0 {
			chat.Temperature = math.SmallestNonzeroFloat32
		}
	}
	if n, ok := metaInt(req.Meta, "max_output_tokens"); ok && n > 0 {
		chat.MaxTokens = n
	}

	resp, err := newClient(key, p.baseURL).CreateChatCompletion(ctx, chat)
	if err != nil {
		return "", callError(NameOpenAI, err)
	}

	if len(resp.Choices) == 0 {
		return "", &CallError{Provider: NameOpenAI, Type: "EmptyResponse", Err: fmt.Errorf("%w: no choices", ErrEmptyResponse)}
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", &CallError{Provider: NameOpenAI, Type: "EmptyResponse", Err: fmt.Errorf("%w: missing text content", ErrEmptyResponse)}
	}
	return content, nil
}

// OpenAIImage generates images with the images API, returning base64 payloads.
type OpenAIImage struct {
	keys    keySource
	baseURL string
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

// NewOpenAIImage creates the "openai_image" provider. It shares the "openai"
// workspace credential with the text provider.
func NewOpenAIImage(cfg *Config, limiter *rate.Limiter, creds CredentialResolver, logger *slog.Logger) *OpenAIImage {
	return &OpenAIImage{
		keys: keySource{
			credential: NameOpenAI,
			global:     cfg.OpenAI.APIKey,
			creds:      creds,
			logger:     logger,
		},
		baseURL: cfg.OpenAI.BaseURL,
		model:   cfg.OpenAI.ImageModel,
		timeout: cfg.ImageTimeoutDuration(),
		limiter: limiter,
	}
}

func (p *OpenAIImage) Name() string { return NameOpenAIImage }

func (p *OpenAIImage) Capabilities() Capabilities {
	return Capabilities{MaxInputTokens: intPtr(4000)}
}

func (p *OpenAIImage) Available(ctx context.Context, req ImageRequest) bool {
	return p.keys.resolve(ctx, req.WorkspaceID) != ""
}

func (p *OpenAIImage) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	key := p.keys.resolve(ctx, req.WorkspaceID)
	if key == "" {
		return nil, &CallError{Provider: NameOpenAIImage, Type: "ConfigurationError", Err: ErrNotConfigured}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &CallError{Provider: NameOpenAIImage, Type: "RateLimited", Err: err}
	}

	size := req.Size
	if size == "" {
		size = DefaultImageSize
	}

	image := openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          p.model,
		N:              1,
		Size:           size,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	}
	if q, ok := req.Meta["quality"].(string); ok && (q == openai.CreateImageQualityStandard || q == openai.CreateImageQualityHD) {
		image.Quality = q
	}
	if s, ok := req.Meta["style"].(string); ok && (s == openai.CreateImageStyleVivid || s == openai.CreateImageStyleNatural) {
		image.Style = s
	}

	resp, err := newClient(key, p.baseURL).CreateImage(ctx, image)
	if err != nil {
		return nil, callError(NameOpenAIImage, err)
	}

	if len(resp.Data) == 0 {
		return nil, &CallError{Provider: NameOpenAIImage, Type: "EmptyResponse", Err: fmt.Errorf("%w: no image data", ErrEmptyResponse)}
	}

	item := resp.Data[0]
	return &ImageResult{
		Provider:      NameOpenAIImage,
		URL:           item.URL,
		B64:           item.B64JSON,
		Size:          size,
		RevisedPrompt: item.RevisedPrompt,
	}, nil
}

// NewLimiter returns the limiter shared by the OpenAI providers.
// A non-positive rpm disables limiting.
func NewLimiter(rpm int) *rate.Limiter {
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60), max(1, rpm/10))
}

func newClient(key, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(key)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return openai.NewClientWithConfig(cfg)
}

func callError(provider string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &CallError{
			Provider: provider,
			Type:     "APIError",
			Err:      fmt.Errorf("OpenAI API %d: %s", apiErr.HTTPStatusCode, truncate(apiErr.Message, maxErrorDetail)),
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &CallError{
			Provider: provider,
			Type:     "RequestError",
			Err:      fmt.Errorf("OpenAI API %d: %s", reqErr.HTTPStatusCode, truncate(reqErr.Error(), maxErrorDetail)),
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &CallError{Provider: provider, Type: "Timeout", Err: err}
	}

	return &CallError{Provider: provider, Type: "Error", Err: err}
}

func metaFloat(meta map[string]any, key string) (float64, bool) {
	switch v := meta[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

func metaInt(meta map[string]any, key string) (int, bool) {
	switch v := meta[key].(type) {
	case int:
		return v, true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
