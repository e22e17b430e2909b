package sources

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestMapTweets(t *testing.T) {
	resp := twitterSearchResponse{
		Data: []twitterTweet{
			{ID: "100", Text: "Hello world", AuthorID: "u1", CreatedAt: "2026-01-15T10:30:00Z"},
			{ID: "200", Text: strings.Repeat("x", 150), AuthorID: "u2"},
			{ID: "300", Text: "Orphan tweet", AuthorID: "missing"},
		},
	}
	resp.Includes.Users = []twitterUser{
		{ID: "u1", Username: "alice", Name: "Alice A"},
		{ID: "u2", Username: "bob"},
	}

	items := mapTweets(resp)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	first := items[0]
	if first.URL != "https://twitter.com/alice/status/100" {
		t.Errorf("unexpected URL: %q", first.URL)
	}
	if first.Extra.Info != "Alice A" {
		t.Errorf("expected display name info, got %q", first.Extra.Info)
	}
	if first.PubDate == nil || first.PubDate.Hour() != 10 {
		t.Errorf("unexpected pub date: %v", first.PubDate)
	}

	second := items[1]
	if len([]rune(second.Title)) != twitterTitleLimit+3 {
		t.Errorf("expected truncated title, got %d runes", len([]rune(second.Title)))
	}
	if !strings.HasSuffix(second.Title, "...") {
		t.Error("expected ellipsis on truncated title")
	}
	if second.Extra.Info != "bob" {
		t.Errorf("expected username fallback, got %q", second.Extra.Info)
	}
	if second.PubDate != nil {
		t.Error("expected nil pub date without created_at")
	}

	third := items[2]
	if third.URL != "https://twitter.com/unknown/status/300" {
		t.Errorf("expected unknown-author URL, got %q", third.URL)
	}
}

func nitterPage(count int) string {
	var sb strings.Builder
	sb.WriteString(`<html><body><div class="timeline">`)
	for i := 0; i < count; i++ {
		fmt.Fprintf(&sb, `<div class="timeline-item">
			<a class="tweet-link" href="/user%d/status/%d"></a>
			<div class="tweet-content">Tweet number %d</div>
			<a class="fullname">User %d</a>
			<a class="username">@user%d</a>
		</div>`, i, i, i, i, i)
	}
	sb.WriteString(`</div></body></html>`)
	return sb.String()
}

func TestParseNitterTimeline(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(nitterPage(3)))
	if err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}

	items := parseNitterTimeline(doc)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	if items[0].ID != "/user0/status/0" {
		t.Errorf("unexpected id: %q", items[0].ID)
	}
	if items[0].URL != "https://twitter.com/user0/status/0" {
		t.Errorf("unexpected URL: %q", items[0].URL)
	}
	if items[0].Title != "Tweet number 0" {
		t.Errorf("unexpected title: %q", items[0].Title)
	}
	if items[0].Extra.Info != "User 0" {
		t.Errorf("unexpected info: %q", items[0].Extra.Info)
	}
}

func TestParseNitterTimelineCapsItems(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(nitterPage(25)))
	if err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}

	items := parseNitterTimeline(doc)
	if len(items) != nitterItemCap {
		t.Errorf("expected %d items, got %d", nitterItemCap, len(items))
	}
}

func TestParseNitterTimelineSkipsIncomplete(t *testing.T) {
	page := `<html><body>
		<div class="timeline-item">
			<a class="tweet-link" href="/a/status/1"></a>
		</div>
		<div class="timeline-item">
			<div class="tweet-content">No link here</div>
		</div>
		<div class="timeline-item">
			<a class="tweet-link" href="/b/status/2"></a>
			<div class="tweet-content">Complete</div>
			<a class="username">@b</a>
		</div>
	</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}

	items := parseNitterTimeline(doc)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].ID != "/b/status/2" {
		t.Errorf("unexpected id: %q", items[0].ID)
	}
	if items[0].Extra.Info != "@b" {
		t.Errorf("expected username fallback info, got %q", items[0].Extra.Info)
	}
}
