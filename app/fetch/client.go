package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"github.com/lysyi3m/newswire/app/news"
)

// BrowserUserAgent is the spoofed UA used by scrape strategies whose
// upstreams block non-browser clients.
const BrowserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Client wraps an http.Client with default headers, a per-request
// timeout and a per-host circuit breaker. An open breaker surfaces as
// an ordinary transient failure so fallback chains move on to the next
// mirror instead of waiting out a dead host.
type Client struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	feedParser *gofeed.Parser

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

func NewClient(timeout time.Duration, userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		timeout:    timeout,
		feedParser: gofeed.NewParser(),
		breakers:   make(map[string]*gobreaker.CircuitBreaker),
	}
}

func (c *Client) breaker(host string) *gobreaker.CircuitBreaker {
	c.mu.Lock()
	defer c.mu.Unlock()

	if br, ok := c.breakers[host]; ok {
		return br
	}

	br := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    host,
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "host", name, "from", from.String(), "to", to.String())
		},
	})
	c.breakers[host] = br
	return br
}

// Get performs a GET request and returns the response body. Non-2xx
// responses are classified into fetch error kinds by status code.
func (c *Client) Get(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %s: %w", rawURL, err)
	}

	result, err := c.breaker(u.Host).Execute(func() (interface{}, error) {
		return c.doGet(ctx, rawURL, headers)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, news.NewFetchError(news.KindUpstream, fmt.Errorf("host %s unavailable: %w", u.Host, err))
		}
		return nil, err
	}

	return result.([]byte), nil
}

func (c *Client) doGet(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, news.NewFetchError(news.KindTimeout, err)
		}
		return nil, news.NewFetchError(news.KindUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		kind := news.KindFromStatus(resp.StatusCode)
		return nil, news.NewFetchError(kind, fmt.Errorf("HTTP %d %s", resp.StatusCode, resp.Status))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, news.NewFetchError(news.KindUpstream, fmt.Errorf("failed to read response body: %w", err))
	}

	return data, nil
}

// GetJSON fetches rawURL and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, rawURL string, headers map[string]string, out interface{}) error {
	data, err := c.Get(ctx, rawURL, headers)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return news.NewFetchError(news.KindUpstream, fmt.Errorf("failed to decode JSON from %s: %w", rawURL, err))
	}
	return nil
}

// Document fetches rawURL and parses the body as an HTML document for
// CSS-selector queries.
func (c *Client) Document(ctx context.Context, rawURL string, headers map[string]string) (*goquery.Document, error) {
	data, err := c.Get(ctx, rawURL, headers)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, news.NewFetchError(news.KindUpstream, fmt.Errorf("failed to parse HTML from %s: %w", rawURL, err))
	}
	return doc, nil
}

// FeedItems fetches rawURL and parses it as an RSS/Atom feed,
// returning the feed's items.
func (c *Client) FeedItems(ctx context.Context, rawURL string) ([]*gofeed.Item, error) {
	data, err := c.Get(ctx, rawURL, nil)
	if err != nil {
		return nil, err
	}

	feed, err := c.feedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, news.NewFetchError(news.KindUpstream, fmt.Errorf("failed to parse feed from %s: %w", rawURL, err))
	}
	return feed.Items, nil
}
