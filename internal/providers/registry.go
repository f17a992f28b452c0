package providers

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Registry holds named text and image providers. Construct one per process
// and inject it into the router and the listing handler.
type Registry struct {
	mu    sync.RWMutex
	text  map[string]TextProvider
	image map[string]ImageProvider
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		text:  make(map[string]TextProvider),
		image: make(map[string]ImageProvider),
	}
}

// RegisterText adds p under p.Name(), replacing any provider with the same name.
func (r *Registry) RegisterText(p TextProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.text[p.Name()] = p
}

// RegisterImage adds p under p.Name(), replacing any provider with the same name.
func (r *Registry) RegisterImage(p ImageProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.image[p.Name()] = p
}

// Text returns the named text provider or ErrUnknownProvider.
func (r *Registry) Text(name string) (TextProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.text[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}

// Image returns the named image provider or ErrUnknownProvider.
func (r *Registry) Image(name string) (ImageProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.image[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}

// ListText returns the registered text provider names in sorted order.
func (r *Registry) ListText() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.text))
}

// ListImage returns the registered image provider names in sorted order.
func (r *Registry) ListImage() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.image))
}

// TextInfo describes the named text provider as seen by workspaceID.
func (r *Registry) TextInfo(ctx context.Context, workspaceID uuid.UUID, name string) (Info, error) {
	p, err := r.Text(name)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Name:         p.Name(),
		Available:    p.Available(ctx, TextRequest{WorkspaceID: workspaceID}),
		Capabilities: p.Capabilities(),
	}, nil
}

// ImageInfo describes the named image provider as seen by workspaceID.
func (r *Registry) ImageInfo(ctx context.Context, workspaceID uuid.UUID, name string) (Info, error) {
	p, err := r.Image(name)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Name:         p.Name(),
		Available:    p.Available(ctx, ImageRequest{WorkspaceID: workspaceID}),
		Capabilities: p.Capabilities(),
	}, nil
}
