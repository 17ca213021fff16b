package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Ham12-3/info-hunter/internal/domain"
)

// parseAPIError maps provider failures onto domain sentinels: 429 becomes
// ErrProviderRateLimited, a caller deadline becomes ErrTimeout, everything
// else ErrProviderUnavailable.
func parseAPIError(kind string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s request deadline exceeded: %w", kind, domain.ErrTimeout)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		wrap := sentinelForStatus(reqErr.HTTPStatusCode)
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("%s API error %d: %s: %w", kind, reqErr.HTTPStatusCode, detail, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		wrap := sentinelForStatus(apiErr.HTTPStatusCode)
		return fmt.Errorf("%s API error %d: %s: %w", kind, apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("%s request failed: %w", kind, domain.ErrProviderUnavailable)
}

func sentinelForStatus(status int) error {
	if status == http.StatusTooManyRequests {
		return domain.ErrProviderRateLimited
	}
	return domain.ErrProviderUnavailable
}

// isTransient reports whether a failed call is worth one immediate retry:
// connection-level failures and 5xx responses, never 4xx or deadlines.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == 0 || reqErr.HTTPStatusCode >= 500
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode >= 500
	}

	return true
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
