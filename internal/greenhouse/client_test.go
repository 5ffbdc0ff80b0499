package greenhouse

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchPostings_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/boards/acme/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("content") != "true" {
			t.Errorf("expected content=true, got query %q", r.URL.RawQuery)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("expected Accept: application/json, got %q", got)
		}
		_, _ = w.Write([]byte(`{"jobs":[{
			"id": 4000042,
			"title": "Backend Engineer",
			"content": "Needs &lt;b&gt;Go&lt;/b&gt; and SQL",
			"updated_at": "2025-01-01T00:00:00Z",
			"metadata": [{"name":"department","value":"Engineering"},{"name":"headcount","value":3}]
		}]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := NewClient(server.URL, 5*time.Second, nil)
	postings, err := c.FetchPostings(context.Background(), "acme")
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if len(postings) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(postings))
	}

	p := postings[0]
	if p.ExternalID != "4000042" {
		t.Errorf("external id = %q", p.ExternalID)
	}
	if p.Title != "Backend Engineer" {
		t.Errorf("title = %q", p.Title)
	}
	if got := MetadataString(p.Metadata["department"]); got != "Engineering" {
		t.Errorf("department = %q", got)
	}
	if got := MetadataString(p.Metadata["headcount"]); got != "3" {
		t.Errorf("headcount = %q", got)
	}
}

func TestFetchPostings_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "board not found", http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(server.URL, 5*time.Second, nil)
	_, err := c.FetchPostings(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error for 404")
	}

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected *UpstreamError, got %T: %v", err, err)
	}
	if upstream.StatusCode != http.StatusNotFound {
		t.Errorf("status code = %d", upstream.StatusCode)
	}
	if upstream.Status != "Not Found" {
		t.Errorf("status text = %q", upstream.Status)
	}
}

func TestFetchPostings_EmptyBoardToken(t *testing.T) {
	c := NewClient("http://unused", time.Second, nil)
	if _, err := c.FetchPostings(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty board token")
	}
}
