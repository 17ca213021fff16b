// Package elastic is a thin HTTP adapter speaking the Elasticsearch _search
// wire shape. It owns no ranking logic; it dispatches built queries and
// translates transport failures into domain sentinels.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Ham12-3/info-hunter/internal/domain"
	"github.com/Ham12-3/info-hunter/internal/index"
)

// DefaultIndexName is the knowledge records index.
const DefaultIndexName = "info_hunter_knowledge"

// Config holds connection parameters for the index.
type Config struct {
	BaseURL string
	Index   string
	Timeout time.Duration
	Logger  *zap.Logger

	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client implements index.Searcher and domain.KnowledgeReader over HTTP.
type Client struct {
	base    string
	index   string
	httpc   *http.Client
	logger  *zap.Logger
	timeout time.Duration
}

var (
	_ index.Searcher         = (*Client)(nil)
	_ domain.KnowledgeReader = (*Client)(nil)
)

// NewClient creates an index client.
func NewClient(cfg Config) *Client {
	if cfg.Index == "" {
		cfg.Index = DefaultIndexName
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:    strings.TrimRight(cfg.BaseURL, "/"),
		index:   cfg.Index,
		httpc:   httpc,
		logger:  logger,
		timeout: cfg.Timeout,
	}
}

// searchEnvelope is the index's raw search response shape.
type searchEnvelope struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID        string              `json:"_id"`
			Score     *float64            `json:"_score"`
			Source    json.RawMessage     `json:"_source"`
			Highlight map[string][]string `json:"highlight"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search dispatches a built query to the index.
func (c *Client) Search(ctx context.Context, q *index.Query) (*index.Response, error) {
	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal query: %w", domain.ErrIndexQueryInvalid, err)
	}

	data, err := c.do(ctx, http.MethodPost, c.indexPath("_search"), body)
	if err != nil {
		return nil, err
	}

	var env searchEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %w", domain.ErrIndexUnavailable, err)
	}

	resp := &index.Response{Total: env.Hits.Total.Value}
	resp.Hits = make([]index.Hit, 0, len(env.Hits.Hits))
	for _, h := range env.Hits.Hits {
		score := 0.0
		if h.Score != nil {
			score = *h.Score
		}
		resp.Hits = append(resp.Hits, index.Hit{
			ID:        h.ID,
			Score:     score,
			Source:    h.Source,
			Highlight: h.Highlight,
		})
	}
	return resp, nil
}

// Get reads a knowledge record by identifier from the index's document store.
func (c *Client) Get(ctx context.Context, id string) (domain.KnowledgeRecord, error) {
	if id == "" {
		return domain.KnowledgeRecord{}, fmt.Errorf("%w: record id is required", domain.ErrInvalidRequest)
	}

	data, err := c.do(ctx, http.MethodGet, c.indexPath("_doc/"+id), nil)
	if err != nil {
		return domain.KnowledgeRecord{}, err
	}

	var env struct {
		Found  bool            `json:"found"`
		Source json.RawMessage `json:"_source"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return domain.KnowledgeRecord{}, fmt.Errorf("%w: decode document: %w", domain.ErrIndexUnavailable, err)
	}
	if !env.Found {
		return domain.KnowledgeRecord{}, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}

	var rec domain.KnowledgeRecord
	if err := json.Unmarshal(env.Source, &rec); err != nil {
		return domain.KnowledgeRecord{}, fmt.Errorf("%w: decode record %s: %w", domain.ErrIndexUnavailable, id, err)
	}
	if rec.ID == "" {
		rec.ID = id
	}
	return rec, nil
}

// Ping checks index connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodGet, "/", nil); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// HealthCheck implements domain.HealthChecker.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx)
}

// EnsureIndex creates the knowledge index with its mapping if absent.
func (c *Client) EnsureIndex(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.base+"/"+c.index, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return c.transportError(http.MethodHead, "/"+c.index, err)
	}
	_ = resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		// fall through to create
	default:
		return fmt.Errorf("%w: index check returned status %d", domain.ErrIndexUnavailable, resp.StatusCode)
	}

	body, err := json.Marshal(knowledgeIndexMapping())
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}
	if _, err := c.do(ctx, http.MethodPut, "/"+c.index, body); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	c.logger.Info("created knowledge index", zap.String("index", c.index))
	return nil
}

func (c *Client) indexPath(suffix string) string {
	return "/" + c.index + "/" + suffix
}

// do executes one HTTP exchange and maps failures to domain sentinels.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, c.transportError(method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", domain.ErrIndexUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return data, nil
	case resp.StatusCode == http.StatusNotFound && strings.Contains(path, "/_doc/"):
		// A missing document is a well-formed 404 with a found:false body.
		return data, nil
	case resp.StatusCode == http.StatusBadRequest:
		// The index rejected the query shape: a builder defect, not user error.
		c.logger.Error("index rejected query",
			zap.String("method", method),
			zap.String("path", path),
			zap.ByteString("response", truncate(data, 512)),
		)
		return nil, fmt.Errorf("%w: %s %s returned status 400", domain.ErrIndexQueryInvalid, method, path)
	default:
		return nil, fmt.Errorf("%w: %s %s returned status %d", domain.ErrIndexUnavailable, method, path, resp.StatusCode)
	}
}

func (c *Client) transportError(method, path string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s %s: %w", domain.ErrTimeout, method, path, err)
	}
	return fmt.Errorf("%w: %s %s: %w", domain.ErrIndexUnavailable, method, path, err)
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
