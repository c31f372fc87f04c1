package providers

import (
	"strings"

	"github.com/dealwise-project/backend/internal/config"
)

// Registry holds the known adapters in declaration order
type Registry struct {
	providers []Provider
}

// NewRegistry builds the default registry: amazon, then flipkart
func NewRegistry(cfg config.ProvidersConfig) *Registry {
	return NewRegistryOf(NewAmazon(cfg), NewFlipkart(cfg))
}

// NewRegistryOf builds a registry from explicit adapters
func NewRegistryOf(providers ...Provider) *Registry {
	return &Registry{providers: providers}
}

// All returns every adapter in declaration order
func (r *Registry) All() []Provider {
	return append([]Provider(nil), r.providers...)
}

// Select parses a comma-separated provider list.
// Names are trimmed and lowercased; unknown names are ignored.
// The result follows declaration order, not request order. An absent list selects all;
// a blank one selects none.
func (r *Registry) Select(raw string) []Provider {
	if raw == "" {
		return r.All()
	}

	requested := make(map[string]bool)
	for _, name := range strings.Split(raw, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			requested[name] = true
		}
	}

	selected := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		if requested[p.Name()] {
			selected = append(selected, p)
		}
	}
	return selected
}

// Names lists adapter names
func Names(providers []Provider) []string {
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	return names
}
