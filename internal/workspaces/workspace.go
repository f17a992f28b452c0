// Package workspaces resolves the tenant boundary every request and job is scoped to.
package workspaces

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultSlug is used when a request carries no workspace header.
const DefaultSlug = "default"

// Workspace is a tenant. All domain rows carry its id.
type Workspace struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeSlug lowercases and trims a slug and replaces spaces with hyphens.
// A blank slug normalizes to DefaultSlug.
func NormalizeSlug(slug string) string {
	slug = strings.ToLower(strings.TrimSpace(slug))
	slug = strings.Join(strings.Fields(slug), "-")
	if slug == "" {
		return DefaultSlug
	}
	return slug
}
