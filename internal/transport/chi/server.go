// Package chi exposes the search and ask pipelines over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Ham12-3/info-hunter/internal/domain"
	"github.com/Ham12-3/info-hunter/internal/domain/search/filter"
	"github.com/Ham12-3/info-hunter/internal/domain/search/mode"
	"github.com/Ham12-3/info-hunter/internal/domain/search/page"
	"github.com/Ham12-3/info-hunter/internal/logger"
	askuc "github.com/Ham12-3/info-hunter/internal/usecase/ask"
	healthuc "github.com/Ham12-3/info-hunter/internal/usecase/health"
	searchuc "github.com/Ham12-3/info-hunter/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server routes HTTP requests into the use case layer. Handlers log
// through the request-scoped logger installed by the wide-event
// middleware, so every line carries the request id.
type Server struct {
	search        *searchuc.Service
	ask           *askuc.Service
	records       domain.KnowledgeReader
	health        *healthuc.Service
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	ask *askuc.Service,
	records domain.KnowledgeReader,
	health *healthuc.Service,
) *Server {
	s := &Server{
		search:  search,
		ask:     ask,
		records: records,
		health:  health,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, "invalid_request"),
		sentinelHandler(domain.ErrRecordNotFound, http.StatusNotFound, "record_not_found"),
		sentinelHandler(domain.ErrProviderRateLimited, http.StatusTooManyRequests, "provider_rate_limited"),
		sentinelHandler(domain.ErrRateLimitTimeout, http.StatusTooManyRequests, "rate_limit_timeout"),
		sentinelHandler(domain.ErrProviderUnavailable, http.StatusBadGateway, "provider_unavailable"),
		sentinelHandler(domain.ErrProviderResponseInvalid, http.StatusBadGateway, "provider_response_invalid"),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, "index_unavailable"),
		sentinelHandler(domain.ErrTimeout, http.StatusGatewayTimeout, "timeout"),
	}
	return s
}

// Routes mounts all endpoints on a chi router. Middleware is the caller's
// concern so tests can mount bare routes.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Post("/ask", s.handleAsk)
		r.Get("/knowledge/{id}", s.handleGetKnowledge)
	})
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// searchItem is the public wire shape of one scored record.
type searchItem struct {
	ID              string               `json:"id"`
	SourceType      string               `json:"source_type"`
	SourceName      string               `json:"source_name"`
	SourceURL       string               `json:"source_url"`
	Title           string               `json:"title"`
	Summary         string               `json:"summary,omitempty"`
	BodyText        string               `json:"body_text,omitempty"`
	CodeSnippets    []domain.CodeSnippet `json:"code_snippets,omitempty"`
	Tags            []string             `json:"tags,omitempty"`
	PrimaryLanguage string               `json:"primary_language,omitempty"`
	Framework       string               `json:"framework,omitempty"`
	Author          string               `json:"author,omitempty"`
	Licence         string               `json:"licence,omitempty"`
	PublishedAt     *time.Time           `json:"published_at,omitempty"`
	Score           float64              `json:"score"`
	Highlights      map[string][]string  `json:"highlights,omitempty"`
}

type searchResponse struct {
	Items      []searchItem `json:"items"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	Size       int          `json:"size"`
	TotalPages int          `json:"total_pages"`
}

// handleSearch handles GET /api/v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	m, err := modeFromQuery(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	filters, err := filtersFromValues(
		q.Get("source_type"), q.Get("language"), q.Get("framework"),
		q.Get("tags"), q.Get("published_after"),
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	pageNum, err := intParam(q.Get("page"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "page must be an integer")
		return
	}
	size, err := intParam(q.Get("size"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "size must be an integer")
		return
	}

	resp, err := s.search.Search(r.Context(), searchuc.Params{
		Query:   q.Get("q"),
		Mode:    m,
		Filters: filters,
		Page:    pageNum,
		Size:    size,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseFromPage(resp))
}

// askRequest is the POST /ask body.
type askRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
	Filters  struct {
		SourceType      string   `json:"source_type"`
		PrimaryLanguage string   `json:"primary_language"`
		Framework       string   `json:"framework"`
		Tags            []string `json:"tags"`
		PublishedAfter  string   `json:"published_after"`
	} `json:"filters"`
}

// handleAsk handles POST /api/v1/ask.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body: "+err.Error())
		return
	}

	filters, err := filtersFromValues(
		req.Filters.SourceType, req.Filters.PrimaryLanguage, req.Filters.Framework,
		strings.Join(req.Filters.Tags, ","), req.Filters.PublishedAfter,
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := s.ask.Ask(r.Context(), req.Question, filters, req.TopK)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetKnowledge handles GET /api/v1/knowledge/{id}.
func (s *Server) handleGetKnowledge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "record id is required")
		return
	}

	record, err := s.records.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	record.Embedding = nil
	writeJSON(w, http.StatusOK, record)
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func modeFromQuery(q map[string][]string) (mode.Mode, error) {
	semantic := firstValue(q, "semantic") == "true"
	hybrid := firstValue(q, "hybrid") == "true"
	switch {
	case semantic && hybrid:
		return "", errors.New("semantic and hybrid are mutually exclusive")
	case hybrid:
		return mode.Hybrid, nil
	case semantic:
		return mode.Semantic, nil
	default:
		return mode.Keyword, nil
	}
}

func firstValue(q map[string][]string, key string) string {
	if vs := q[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func filtersFromValues(sourceType, language, framework, tags, publishedAfter string) (filter.Filters, error) {
	var after *time.Time
	if publishedAfter != "" {
		parsed, err := time.Parse(time.RFC3339, publishedAfter)
		if err != nil {
			return filter.Filters{}, errors.New("published_after must be an RFC 3339 timestamp")
		}
		after = &parsed
	}

	var tagList []string
	if tags != "" {
		tagList = strings.Split(tags, ",")
	}

	filters, err := filter.New(sourceType, language, framework, tagList, after)
	if err != nil {
		return filter.Filters{}, err
	}
	return filters, nil
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func searchResponseFromPage(resp page.Response) searchResponse {
	items := make([]searchItem, len(resp.Items))
	for i, rec := range resp.Items {
		items[i] = searchItem{
			ID:              rec.ID,
			SourceType:      rec.SourceType,
			SourceName:      rec.SourceName,
			SourceURL:       rec.SourceURL,
			Title:           rec.Title,
			Summary:         rec.Summary,
			BodyText:        rec.BodyText,
			CodeSnippets:    rec.CodeSnippets,
			Tags:            rec.Tags,
			PrimaryLanguage: rec.PrimaryLanguage,
			Framework:       rec.Framework,
			Author:          rec.Author,
			Licence:         rec.Licence,
			PublishedAt:     rec.PublishedAt,
			Score:           rec.Score,
			Highlights:      rec.Highlights,
		}
	}
	return searchResponse{
		Items:      items,
		Total:      resp.Total,
		Page:       resp.Page,
		Size:       resp.Size,
		TotalPages: resp.TotalPages(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing provider error bodies.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrRecordNotFound,
		domain.ErrProviderRateLimited,
		domain.ErrRateLimitTimeout,
		domain.ErrProviderUnavailable,
		domain.ErrProviderResponseInvalid,
		domain.ErrIndexUnavailable,
		domain.ErrTimeout,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error",
		zap.String("path", r.URL.Path), zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	// ErrAnswerMalformed and ErrIndexQueryInvalid land here: internal
	// contract violations are logged as defects and never detailed to
	// the client.
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
