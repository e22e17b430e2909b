package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lysyi3m/newswire/app/config"
	"github.com/lysyi3m/newswire/app/fetch"
	"github.com/lysyi3m/newswire/app/news"
)

func TestBuildRegistryBuiltins(t *testing.T) {
	client := fetch.NewClient(5*time.Second, "newswire/test")

	registry, err := BuildRegistry(client, nil)
	if err != nil {
		t.Fatalf("BuildRegistry failed: %v", err)
	}

	for _, id := range []string{"reddit", "reddit-popular", "twitter", "youtube", "youtube-music", "youtube-gaming"} {
		if _, ok := registry.Lookup(id); !ok {
			t.Errorf("expected builtin source %q to be registered", id)
		}
	}

	src, _ := registry.Lookup("reddit")
	if src.Type != news.SourceTypeHottest {
		t.Errorf("expected reddit to be a hottest source, got %s", src.Type)
	}
	if src.TTL != 5*time.Minute {
		t.Errorf("unexpected reddit TTL: %v", src.TTL)
	}
}

func TestBuildRegistryRedditWiring(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"children": [{"data": {"id": "x", "title": "T", "permalink": "/p/", "subreddit": "funny", "score": 1, "num_comments": 1}}]}}`))
	}))
	defer server.Close()

	origBase := redditBaseURL
	redditBaseURL = server.URL
	defer func() { redditBaseURL = origBase }()

	client := fetch.NewClient(5*time.Second, "newswire/test")
	registry, err := BuildRegistry(client, nil)
	if err != nil {
		t.Fatalf("BuildRegistry failed: %v", err)
	}

	fetchInfo := func(id string) string {
		src, ok := registry.Lookup(id)
		if !ok {
			t.Fatalf("source %q not registered", id)
		}
		items, err := src.Getter(context.Background())
		if err != nil {
			t.Fatalf("getter for %q failed: %v", id, err)
		}
		return items[0].Extra.Info
	}

	// reddit and reddit-popular both serve the popular listing and name
	// the subreddit; single-topic listings drop the prefix.
	for _, id := range []string{"reddit", "reddit-popular"} {
		if info := fetchInfo(id); info != "r/funny · ↑1 · 1 comments" {
			t.Errorf("%s: expected subreddit-prefixed info, got %q", id, info)
		}
	}
	if info := fetchInfo("reddit-programming"); info != "↑1 · 1 comments" {
		t.Errorf("reddit-programming: expected unprefixed info, got %q", info)
	}
}

func TestRedditListingPaths(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"children": [{"data": {"id": "x", "title": "T"}}]}}`))
	}))
	defer server.Close()

	origBase := redditBaseURL
	redditBaseURL = server.URL
	defer func() { redditBaseURL = origBase }()

	client := fetch.NewClient(5*time.Second, "newswire/test")
	registry, err := BuildRegistry(client, nil)
	if err != nil {
		t.Fatalf("BuildRegistry failed: %v", err)
	}

	cases := map[string]string{
		"reddit":             "/r/popular.json",
		"reddit-popular":     "/r/popular.json",
		"reddit-all":         "/r/all.json",
		"reddit-programming": "/r/programming.json",
		"reddit-worldnews":   "/r/worldnews.json",
	}
	for id, wantPath := range cases {
		src, ok := registry.Lookup(id)
		if !ok {
			t.Fatalf("source %q not registered", id)
		}
		if _, err := src.Getter(context.Background()); err != nil {
			t.Fatalf("getter for %q failed: %v", id, err)
		}
		if gotPath != wantPath {
			t.Errorf("%s fetched %q, want %q", id, gotPath, wantPath)
		}
	}
}

func TestBuildRegistryConfigOverrides(t *testing.T) {
	client := fetch.NewClient(5*time.Second, "newswire/test")

	configs := map[string]*config.Config{
		"reddit": {
			Name:     "reddit",
			Settings: config.Settings{TTL: 60},
		},
		"twitter": {
			Name:     "twitter",
			Settings: config.Settings{Disabled: true},
		},
	}

	registry, err := BuildRegistry(client, configs)
	if err != nil {
		t.Fatalf("BuildRegistry failed: %v", err)
	}

	src, ok := registry.Lookup("reddit")
	if !ok {
		t.Fatal("expected reddit to be registered")
	}
	if src.TTL != time.Minute {
		t.Errorf("expected TTL override of 1m, got %v", src.TTL)
	}

	if _, ok := registry.Lookup("twitter"); ok {
		t.Error("expected disabled twitter to be absent")
	}
	if _, ok := registry.Lookup("twitter-trending"); !ok {
		t.Error("expected twitter-trending to remain registered")
	}
}

func TestBuildRegistryTitleOnlyOverrideKeepsTTL(t *testing.T) {
	client := fetch.NewClient(5*time.Second, "newswire/test")

	configs := map[string]*config.Config{
		"twitter": {
			Name:  "twitter",
			Title: "Custom Twitter",
		},
	}

	registry, err := BuildRegistry(client, configs)
	if err != nil {
		t.Fatalf("BuildRegistry failed: %v", err)
	}

	src, ok := registry.Lookup("twitter")
	if !ok {
		t.Fatal("expected twitter to be registered")
	}
	if src.Title != "Custom Twitter" {
		t.Errorf("expected title override to apply, got %q", src.Title)
	}
	if src.TTL != twitterTTL {
		t.Errorf("title-only override changed builtin TTL: got %v, want %v", src.TTL, twitterTTL)
	}
}

func TestBuildRegistryRSSSources(t *testing.T) {
	client := fetch.NewClient(5*time.Second, "newswire/test")

	configs := map[string]*config.Config{
		"hackernews": {
			Name:     "hackernews",
			Title:    "Hacker News",
			URL:      "https://hnrss.org/frontpage",
			Settings: config.Settings{MaxItems: 30},
		},
		"lobsters": {
			Name:     "lobsters",
			Title:    "Lobsters",
			URL:      "https://lobste.rs/rss",
			Type:     "hottest",
			Settings: config.Settings{MaxItems: 30, Disabled: true},
		},
		"notes-only": {
			Name:     "notes-only",
			Settings: config.Settings{TTL: 120},
		},
	}

	registry, err := BuildRegistry(client, configs)
	if err != nil {
		t.Fatalf("BuildRegistry failed: %v", err)
	}

	src, ok := registry.Lookup("hackernews")
	if !ok {
		t.Fatal("expected hackernews to be registered")
	}
	if src.Type != news.SourceTypeRealtime {
		t.Errorf("expected realtime type, got %s", src.Type)
	}
	if src.Title != "Hacker News" {
		t.Errorf("unexpected title: %q", src.Title)
	}

	if _, ok := registry.Lookup("lobsters"); ok {
		t.Error("expected disabled RSS source to be absent")
	}
	if _, ok := registry.Lookup("notes-only"); ok {
		t.Error("expected config without URL to not register a source")
	}
}
