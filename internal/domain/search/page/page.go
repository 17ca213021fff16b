// Package page holds the paged search response shape shared by the search
// executor and the HTTP transport.
package page

import "github.com/Ham12-3/info-hunter/internal/domain"

// Response is an ephemeral paged search result.
type Response struct {
	Items []domain.KnowledgeRecord
	Total int
	Page  int
	Size  int
}

// TotalPages derives the page count: ceil(total/size), 0 when total is 0.
func (r Response) TotalPages() int {
	if r.Total <= 0 || r.Size <= 0 {
		return 0
	}
	return (r.Total + r.Size - 1) / r.Size
}
