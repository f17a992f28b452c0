package workspaces

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/pkg/handlers"
)

// Request headers carrying the caller identity.
const (
	HeaderWorkspace = "X-Workspace-Slug"
	HeaderUser      = "X-User-Id"
)

type contextKey struct{}

// WithWorkspace returns a copy of ctx carrying w.
func WithWorkspace(ctx context.Context, w *Workspace) context.Context {
	return context.WithValue(ctx, contextKey{}, w)
}

// FromContext returns the workspace stored by Middleware.
func FromContext(ctx context.Context) (*Workspace, bool) {
	w, ok := ctx.Value(contextKey{}).(*Workspace)
	return w, ok && w != nil
}

// ID returns the workspace id stored in ctx or ErrMissing.
func ID(ctx context.Context) (uuid.UUID, error) {
	w, ok := FromContext(ctx)
	if !ok {
		return uuid.Nil, ErrMissing
	}
	return w.ID, nil
}

// Middleware resolves the workspace named by the X-Workspace-Slug header
// (DefaultSlug when absent) and stores it on the request context.
func Middleware(sys System, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("middleware", "workspaces")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ws, err := sys.Resolve(r.Context(), r.Header.Get(HeaderWorkspace))
			if err != nil {
				handlers.RespondError(w, logger, MapHTTPStatus(err), err)
				return
			}

			if user := r.Header.Get(HeaderUser); user != "" {
				logger.Debug("request actor", "user", user, "workspace", ws.Slug)
			}

			next.ServeHTTP(w, r.WithContext(WithWorkspace(r.Context(), ws)))
		})
	}
}
