package news

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Service runs the per-source orchestration: registry dispatch, cache
// check, single-flight chain execution, rank-diff annotation, cache
// write. Failures are contained within one source; a stale cache entry
// is never served after exhaustion.
type Service struct {
	cache    *Cache
	registry *Registry
}

func NewService(cache *Cache, registry *Registry) *Service {
	return &Service{cache: cache, registry: registry}
}

func (s *Service) Registry() *Registry {
	return s.registry
}

func (s *Service) Cache() *Cache {
	return s.cache
}

// Fetch produces the response for one source id. With latest set the
// TTL check is bypassed and the strategy chain runs unconditionally
// (still under single-flight).
func (s *Service) Fetch(ctx context.Context, id string, latest bool) (SourceResponse, error) {
	src, ok := s.registry.Lookup(id)
	if !ok {
		return SourceResponse{}, fmt.Errorf("%w: %s", ErrUnknownSource, id)
	}

	if !latest {
		if items, updated, ok := s.cache.Get(id, src.TTL); ok {
			slog.Debug("Cache hit", "source", id, "age", time.Since(updated).Round(time.Millisecond))
			return SourceResponse{
				Status:      StatusCache,
				ID:          id,
				UpdatedTime: updated,
				Items:       items,
			}, nil
		}
	}

	items, err := s.cache.Do(id, func() ([]NewsItem, error) {
		items, err := src.Getter(ctx)
		if err != nil {
			return nil, err
		}

		if src.Type == SourceTypeHottest {
			if prev, _, ok := s.cache.Peek(id); ok {
				AnnotateRankDiff(prev, items)
			}
		}

		s.cache.Set(id, items)
		return items, nil
	})
	if err != nil {
		slog.Error("Source fetch failed", "source", id, "error", err)
		return SourceResponse{Status: StatusError, ID: id, Message: err.Error()}, err
	}

	return SourceResponse{
		Status:      StatusSuccess,
		ID:          id,
		UpdatedTime: time.Now(),
		Items:       items,
	}, nil
}
