// Package plugin maps command-line slugs to the static metadata of a
// releasable plugin.
package plugin

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/drewdunne/releaser/internal/config"
)

// ErrUnknownPlugin indicates the slug is not in the configured set.
var ErrUnknownPlugin = errors.New("unknown plugin")

// Descriptor is the static metadata for one plugin.
type Descriptor struct {
	Slug            string
	MainFile        string
	VersionConstant string
	Repo            string // owner/repo
}

// Resolver looks up plugins by slug.
type Resolver struct {
	plugins map[string]config.PluginConfig
}

// NewResolver creates a resolver over the given plugin table.
func NewResolver(plugins map[string]config.PluginConfig) *Resolver {
	return &Resolver{plugins: plugins}
}

// Resolve returns the descriptor for slug.
func (r *Resolver) Resolve(slug string) (Descriptor, error) {
	p, ok := r.plugins[slug]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownPlugin, slug, strings.Join(r.Slugs(), ", "))
	}
	return Descriptor{
		Slug:            slug,
		MainFile:        p.File,
		VersionConstant: p.Constant,
		Repo:            p.Repo,
	}, nil
}

// Slugs returns the known slugs in sorted order.
func (r *Resolver) Slugs() []string {
	slugs := make([]string, 0, len(r.plugins))
	for slug := range r.plugins {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}
