package news

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestChainFallbackOrdering(t *testing.T) {
	var attempted []string

	chain := &Chain{
		Source: "test",
		Strategies: []Strategy{
			{
				Name: "a",
				Attempt: func(ctx context.Context) ([]NewsItem, error) {
					attempted = append(attempted, "a")
					return nil, errors.New("boom")
				},
			},
			{
				Name: "b",
				Attempt: func(ctx context.Context) ([]NewsItem, error) {
					attempted = append(attempted, "b")
					return []NewsItem{}, nil
				},
			},
			{
				Name: "c",
				Attempt: func(ctx context.Context) ([]NewsItem, error) {
					attempted = append(attempted, "c")
					return []NewsItem{{ID: "1"}, {ID: "2"}}, nil
				},
			},
		},
	}

	items, err := chain.Run(context.Background())
	if err != nil {
		t.Fatalf("Expected success, got: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("Expected 2 items from strategy c, got %d", len(items))
	}
	if len(attempted) != 3 || attempted[0] != "a" || attempted[1] != "b" || attempted[2] != "c" {
		t.Errorf("Expected a and b attempted before c, got %v", attempted)
	}
}

func TestChainEmptyResultIsFailure(t *testing.T) {
	chain := &Chain{
		Source: "test",
		Strategies: []Strategy{
			{
				Name: "empty",
				Attempt: func(ctx context.Context) ([]NewsItem, error) {
					return []NewsItem{}, nil
				},
			},
			{
				Name: "full",
				Attempt: func(ctx context.Context) ([]NewsItem, error) {
					return []NewsItem{{ID: "1"}}, nil
				},
			},
		},
	}

	items, err := chain.Run(context.Background())
	if err != nil {
		t.Fatalf("Expected success, got: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("Expected the non-empty result to win, got %d items", len(items))
	}
}

func TestChainSkipsUnreadyStrategy(t *testing.T) {
	skippedCalled := false

	chain := &Chain{
		Source: "test",
		Strategies: []Strategy{
			{
				Name:  "unconfigured",
				Ready: func() bool { return false },
				Attempt: func(ctx context.Context) ([]NewsItem, error) {
					skippedCalled = true
					return nil, errors.New("should not run")
				},
			},
			{
				Name: "ok",
				Attempt: func(ctx context.Context) ([]NewsItem, error) {
					return []NewsItem{{ID: "1"}}, nil
				},
			},
		},
	}

	items, err := chain.Run(context.Background())
	if err != nil {
		t.Fatalf("Expected success, got: %v", err)
	}
	if skippedCalled {
		t.Error("Unready strategy must not be attempted")
	}
	if len(items) != 1 {
		t.Errorf("Expected 1 item, got %d", len(items))
	}
}

func TestChainExhaustionAggregatesReasons(t *testing.T) {
	chain := &Chain{
		Source: "test",
		Strategies: []Strategy{
			{
				Name: "api",
				Attempt: func(ctx context.Context) ([]NewsItem, error) {
					return nil, errors.New("quota exceeded")
				},
			},
			{
				Name: "mirror",
				Attempt: func(ctx context.Context) ([]NewsItem, error) {
					return nil, errors.New("connection refused")
				},
			},
		},
	}

	_, err := chain.Run(context.Background())
	if err == nil {
		t.Fatal("Expected exhaustion error")
	}

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Expected *ExhaustedError, got %T", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "quota exceeded") || !strings.Contains(msg, "connection refused") {
		t.Errorf("Expected aggregate error to contain every reason, got: %s", msg)
	}
	if len(exhausted.Reasons) != 2 {
		t.Errorf("Expected 2 recorded reasons, got %d", len(exhausted.Reasons))
	}
}

func TestChainAllStrategiesUnready(t *testing.T) {
	chain := &Chain{
		Source: "test",
		Strategies: []Strategy{
			{
				Name:  "a",
				Ready: func() bool { return false },
				Attempt: func(ctx context.Context) ([]NewsItem, error) {
					return nil, nil
				},
			},
		},
	}

	_, err := chain.Run(context.Background())
	if err == nil {
		t.Fatal("Expected error when no strategy is configured")
	}
}

func TestChainContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chain := &Chain{
		Source: "test",
		Strategies: []Strategy{
			{
				Name: "never",
				Attempt: func(ctx context.Context) ([]NewsItem, error) {
					t.Error("Strategy must not run after cancellation")
					return nil, nil
				},
			},
		},
	}

	if _, err := chain.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
}

func TestChainTokenRotationWithinStrategy(t *testing.T) {
	pool := NewTokenPool("t1", "t2", "t3")

	// The strategy rotates through the pool internally: fail on the
	// first two tokens, succeed on the third.
	attempt := func(ctx context.Context) ([]NewsItem, error) {
		retries := pool.Len()
		var reasons []string
		for i := 0; i < retries; i++ {
			token := pool.Next()
			if token != "t3" {
				reasons = append(reasons, fmt.Sprintf("%s failed", token))
				continue
			}
			return []NewsItem{{ID: "ok"}}, nil
		}
		return nil, fmt.Errorf("all tokens failed: %s", strings.Join(reasons, "; "))
	}

	chain := &Chain{
		Source:     "test",
		Strategies: []Strategy{{Name: "api", Attempt: attempt}},
	}

	items, err := chain.Run(context.Background())
	if err != nil {
		t.Fatalf("Expected success on third token, got: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("Expected 1 item, got %d", len(items))
	}
	// Cursor advanced on every attempt: (0 + 3) % 3 == 0.
	if pool.Cursor() != 0 {
		t.Errorf("Expected cursor back at 0 after full rotation, got %d", pool.Cursor())
	}
}
