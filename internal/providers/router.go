package providers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/trendr/pkg/metrics"
)

// Chain is a default provider followed by ordered fallbacks.
type Chain struct {
	Default   string
	Fallbacks []string
}

// Candidates returns [preferred or default, fallbacks...] trimmed, with blanks
// and repeats removed. First occurrence wins.
func (c Chain) Candidates(preferred string) []string {
	head := strings.TrimSpace(preferred)
	if head == "" {
		head = c.Default
	}

	seen := make(map[string]bool, len(c.Fallbacks)+1)
	out := make([]string, 0, len(c.Fallbacks)+1)
	for _, name := range append([]string{head}, c.Fallbacks...) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Router tries providers in chain order until one succeeds. Attempts are
// strictly sequential. Per-call deadlines belong to the providers.
type Router struct {
	registry *Registry
	text     Chain
	image    Chain
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// NewRouter creates a Router over registry using the text and image chains.
func NewRouter(registry *Registry, text, image Chain, collector *metrics.Collector, logger *slog.Logger) *Router {
	return &Router{
		registry: registry,
		text:     text,
		image:    image,
		metrics:  collector,
		logger:   logger.With("system", "router"),
	}
}

// Registry returns the registry the router resolves candidates from.
func (r *Router) Registry() *Registry {
	return r.registry
}

// GenerateText returns the output of the first candidate that succeeds.
func (r *Router) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	return route(ctx, r, CategoryText, r.text.Candidates(req.Preferred),
		func(ctx context.Context, name string) candidate[string] {
			p, err := r.registry.Text(name)
			if err != nil {
				return candidate[string]{}
			}
			return candidate[string]{
				known:     true,
				available: p.Available(ctx, req),
				call: func(ctx context.Context) (string, error) {
					return p.Generate(ctx, req)
				},
			}
		},
	)
}

// GenerateImage returns the result of the first candidate that succeeds.
func (r *Router) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	if req.Size == "" {
		req.Size = DefaultImageSize
	}
	return route(ctx, r, CategoryImage, r.image.Candidates(req.Preferred),
		func(ctx context.Context, name string) candidate[*ImageResult] {
			p, err := r.registry.Image(name)
			if err != nil {
				return candidate[*ImageResult]{}
			}
			return candidate[*ImageResult]{
				known:     true,
				available: p.Available(ctx, req),
				call: func(ctx context.Context) (*ImageResult, error) {
					res, err := p.GenerateImage(ctx, req)
					if err != nil {
						return nil, err
					}
					if res.Provider == "" {
						res.Provider = name
					}
					return res, nil
				},
			}
		},
	)
}

// candidate is a resolved chain entry. Registry lookup and availability are
// settled before call, so errors returned by call are always provider errors.
type candidate[T any] struct {
	known     bool
	available bool
	call      func(ctx context.Context) (T, error)
}

func route[T any](
	ctx context.Context,
	r *Router,
	category Category,
	names []string,
	resolve func(ctx context.Context, name string) candidate[T],
) (T, error) {
	var zero T
	attempts := make([]string, 0, len(names))

	for _, name := range names {
		start := time.Now()
		c := resolve(ctx, name)

		switch {
		case !c.known:
			r.metrics.ProviderAttempt(string(category), name, metrics.OutcomeUnknown, time.Since(start))
			attempts = append(attempts, name+": unknown provider")
		case !c.available:
			r.metrics.ProviderAttempt(string(category), name, metrics.OutcomeUnavailable, time.Since(start))
			attempts = append(attempts, name+": unavailable (missing credentials/config)")
		default:
			out, err := c.call(ctx)
			elapsed := time.Since(start)
			if err == nil {
				r.metrics.ProviderAttempt(string(category), name, metrics.OutcomeSuccess, elapsed)
				r.logger.Debug("provider succeeded", "category", category, "provider", name, "duration", elapsed)
				return out, nil
			}
			r.metrics.ProviderAttempt(string(category), name, metrics.OutcomeError, elapsed)
			attempts = append(attempts, fmt.Sprintf("%s: %s: %v", name, errorKind(err), err))
		}

		r.logger.Warn("provider attempt failed", "category", category, "provider", name, "reason", attempts[len(attempts)-1])
	}

	return zero, &AllProvidersFailedError{Category: category, Attempts: attempts}
}
