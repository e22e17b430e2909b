package news

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// SourceType categorizes a source for the column UIs. Ranked
// ("hottest") sources get rank-diff annotations on refresh.
type SourceType string

const (
	SourceTypeHottest  SourceType = "hottest"
	SourceTypeRealtime SourceType = "realtime"
)

// Getter produces a best-effort item list for one source id.
type Getter func(ctx context.Context) ([]NewsItem, error)

// Source is one registered source id. Several ids may share a getter
// (e.g. "reddit" and "reddit-popular").
type Source struct {
	ID     string
	Title  string
	Type   SourceType
	TTL    time.Duration
	Getter Getter
}

// Registry maps source ids to their definitions. It is populated once
// at startup and read-only afterwards.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]*Source
}

func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]*Source)}
}

func (r *Registry) Register(src *Source) error {
	if src.ID == "" {
		return fmt.Errorf("source id is required")
	}
	if src.Getter == nil {
		return fmt.Errorf("source %s: getter is required", src.ID)
	}
	if src.TTL <= 0 {
		return fmt.Errorf("source %s: TTL must be positive", src.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[src.ID]; exists {
		return fmt.Errorf("source %s already registered", src.ID)
	}
	r.sources[src.ID] = src
	return nil
}

func (r *Registry) Lookup(id string) (*Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src, ok := r.sources[id]
	return src, ok
}

// IDs returns all registered source ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sources))
	for id := range r.sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sources)
}
