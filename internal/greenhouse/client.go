package greenhouse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// UpstreamError reports a non-2xx response from the job board API.
type UpstreamError struct {
	StatusCode int
	Status     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("greenhouse: bad status: %d %s", e.StatusCode, e.Status)
}

// Posting is the ephemeral upstream shape. It is never persisted as-is;
// RawContentHTML goes through entity decode and tag stripping first.
type Posting struct {
	ExternalID     string
	Title          string
	RawContentHTML string
	Metadata       map[string]any
	UpdatedAt      string
}

type boardResponse struct {
	Jobs []boardJob `json:"jobs"`
}

type boardJob struct {
	ID        json.Number     `json:"id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	UpdatedAt string          `json:"updated_at"`
	Metadata  []boardMetadata `json:"metadata"`
}

type boardMetadata struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type Client struct {
	client  *http.Client
	baseURL string
	logger  interface{ Printf(string, ...any) }
}

func NewClient(baseURL string, timeout time.Duration, logger interface{ Printf(string, ...any) }) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		logger:  logger,
	}
}

// FetchPostings loads all published postings for a board, with full
// content included. Retries are the caller's concern.
func (c *Client) FetchPostings(ctx context.Context, boardToken string) ([]Posting, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("nil client")
	}
	if boardToken == "" {
		return nil, fmt.Errorf("empty board token")
	}

	u := fmt.Sprintf("%s/v1/boards/%s/jobs?content=true", c.baseURL, url.PathEscape(boardToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	var body boardResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("greenhouse: decode response: %w", err)
	}

	out := make([]Posting, 0, len(body.Jobs))
	for _, j := range body.Jobs {
		out = append(out, Posting{
			ExternalID:     j.ID.String(),
			Title:          j.Title,
			RawContentHTML: j.Content,
			Metadata:       foldMetadata(j.Metadata),
			UpdatedAt:      j.UpdatedAt,
		})
	}

	if c.logger != nil {
		c.logger.Printf("greenhouse fetch board=%s postings=%d", boardToken, len(out))
	}
	return out, nil
}

// foldMetadata flattens the board API's name/value pairs into a map.
// Later duplicates win, matching upstream order.
func foldMetadata(pairs []boardMetadata) map[string]any {
	if len(pairs) == 0 {
		return map[string]any{}
	}
	m := make(map[string]any, len(pairs))
	for _, p := range pairs {
		if p.Name == "" {
			continue
		}
		m[p.Name] = p.Value
	}
	return m
}

// MetadataString renders a metadata value the way filter comparisons
// expect: numbers without exponent notation, booleans as true/false.
func MetadataString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
