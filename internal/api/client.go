package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"dsaview/internal/domain"
)

// Endpoint names carried by RequestFailedError
const (
	EndpointSearch            = "search"
	EndpointFilter            = "filter"
	EndpointFile              = "file"
	EndpointExplain           = "explain-code"
	EndpointStructuredExplain = "structured-explain-code"
)

const (
	maxBodyBytes  = 32 << 20
	maxErrorBytes = 64 << 10
)

// Client talks to the search/file backend and the AI explanation backend.
// It performs no retries, caching or de-duplication.
type Client struct {
	searchURL string
	aiURL     string
	http      *http.Client
	userAgent string
	logger    *zap.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout on the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a client. searchURL is backend A, aiURL is backend B; either
// may be empty when the caller never uses that half.
func New(searchURL, aiURL string, opts ...Option) *Client {
	c := &Client{
		searchURL: strings.TrimRight(searchURL, "/"),
		aiURL:     strings.TrimRight(aiURL, "/"),
		http:      &http.Client{Timeout: 30 * time.Second},
		userAgent: "dsaview",
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search queries the backend for files matching query.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SearchResultItem, error) {
	u := c.searchURL + "/search?query=" + url.QueryEscape(query)
	var items []domain.SearchResultItem
	if err := c.getJSON(ctx, EndpointSearch, u, &items); err != nil {
		return nil, err
	}
	return nonNil(items), nil
}

// Filter lists files tagged with a data-structure category.
func (c *Client) Filter(ctx context.Context, category string) ([]domain.SearchResultItem, error) {
	u := c.searchURL + "/filter?dataStructure=" + url.QueryEscape(category)
	var items []domain.SearchResultItem
	if err := c.getJSON(ctx, EndpointFilter, u, &items); err != nil {
		return nil, err
	}
	return nonNil(items), nil
}

type fileResponse struct {
	Content string `json:"content"`
}

// FetchFile retrieves the source text of a previously listed item.
func (c *Client) FetchFile(ctx context.Context, item domain.SearchResultItem) (domain.FileContent, error) {
	u := c.searchURL + "/file/" + url.PathEscape(item.Path)
	var resp fileResponse
	if err := c.getJSON(ctx, EndpointFile, u, &resp); err != nil {
		return domain.FileContent{}, err
	}
	return domain.FileContent{Name: item.Name, Path: item.Path, Content: resp.Content}, nil
}

type explainRequest struct {
	Code         string `json:"code"`
	UserQuestion string `json:"user_question"`
}

type explainResponse struct {
	Explanation string `json:"explanation"`
}

// Explain asks the AI backend for a free-form markdown explanation.
func (c *Client) Explain(ctx context.Context, code, question string) (string, error) {
	var resp explainResponse
	body := explainRequest{Code: code, UserQuestion: question}
	if err := c.postJSON(ctx, EndpointExplain, c.aiURL+"/explain-code", body, &resp); err != nil {
		return "", err
	}
	return resp.Explanation, nil
}

// ExplainStructured asks the AI backend for a step-by-step explanation.
func (c *Client) ExplainStructured(ctx context.Context, code, question string) (domain.StructuredExplanation, error) {
	var resp domain.StructuredExplanation
	body := explainRequest{Code: code, UserQuestion: question}
	if err := c.postJSON(ctx, EndpointStructuredExplain, c.aiURL+"/structured-explain-code", body, &resp); err != nil {
		return domain.StructuredExplanation{}, err
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &RequestFailedError{Endpoint: endpoint, Err: err}
	}
	return c.do(endpoint, req, out)
}

func (c *Client) postJSON(ctx context.Context, endpoint, rawURL string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &RequestFailedError{Endpoint: endpoint, Err: fmt.Errorf("encode body: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return &RequestFailedError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(endpoint, req, out)
}

func (c *Client) do(endpoint string, req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("endpoint", endpoint),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return &RequestFailedError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		zap.String("endpoint", endpoint),
		zap.String("method", req.Method),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		return &RequestFailedError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Detail:   extractDetail(raw),
			Err:      fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return &RequestFailedError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

// extractDetail pulls a human message out of an error body: the JSON
// detail/error/message field when present, otherwise the trimmed text.
func extractDetail(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return ""
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err == nil {
		for _, key := range []string{"detail", "error", "message"} {
			v, ok := fields[key]
			if !ok {
				continue
			}
			var s string
			if err := json.Unmarshal(v, &s); err == nil {
				return s
			}
			return string(v)
		}
	}
	return text
}

func nonNil(items []domain.SearchResultItem) []domain.SearchResultItem {
	if items == nil {
		return []domain.SearchResultItem{}
	}
	return items
}
