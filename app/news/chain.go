package news

import (
	"context"
	"fmt"
	"log/slog"
)

// Strategy is one concrete method of obtaining data for a source.
type Strategy struct {
	// Name identifies the strategy in logs and exhaustion errors.
	Name string
	// Ready reports whether the strategy's preconditions are met
	// (e.g. a credential is configured). A nil Ready means always.
	// An unready strategy is skipped without counting as a failure.
	Ready func() bool
	// Attempt fetches and normalizes items. Credential-rotation
	// retries live inside Attempt, bounded by the pool size.
	Attempt func(ctx context.Context) ([]NewsItem, error)
}

// Chain tries strategies in priority order and returns the first
// non-empty success. An empty result is a failure, not a success:
// absence of an error does not imply usable data.
type Chain struct {
	Source     string
	Strategies []Strategy
}

func (c *Chain) Run(ctx context.Context) ([]NewsItem, error) {
	var reasons []string

	for _, strategy := range c.Strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if strategy.Ready != nil && !strategy.Ready() {
			slog.Debug("Strategy not configured, skipping", "source", c.Source, "strategy", strategy.Name)
			continue
		}

		items, err := strategy.Attempt(ctx)
		if err != nil {
			kind := KindOf(err)
			if kind == KindRateLimited {
				slog.Warn("Strategy rate limited", "source", c.Source, "strategy", strategy.Name, "error", err)
			} else {
				slog.Warn("Strategy failed", "source", c.Source, "strategy", strategy.Name, "kind", kind.String(), "error", err)
			}
			reasons = append(reasons, fmt.Sprintf("%s: %v", strategy.Name, err))
			continue
		}

		if len(items) == 0 {
			slog.Warn("Strategy returned no items", "source", c.Source, "strategy", strategy.Name)
			reasons = append(reasons, fmt.Sprintf("%s: %s", strategy.Name, KindEmptyResult))
			continue
		}

		slog.Debug("Strategy succeeded", "source", c.Source, "strategy", strategy.Name, "items", len(items))
		return items, nil
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "no strategy configured")
	}
	return nil, &ExhaustedError{Source: c.Source, Reasons: reasons}
}

// Getter wraps the chain as a registry getter.
func (c *Chain) Getter() Getter {
	return c.Run
}
