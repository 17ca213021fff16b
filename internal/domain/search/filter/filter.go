package filter

import (
	"fmt"
	"strings"
	"time"
)

// MaxTags is the maximum number of tag values in a single filter.
const MaxTags = 16

// Filters is the fixed set of hard constraints applied to every search mode.
// Each present field becomes an exact-match clause ANDed with the query.
// Language and framework are normalized to lower case, matching how the
// ingestion side indexes them.
type Filters struct {
	sourceType      string
	primaryLanguage string
	framework       string
	tags            []string
	publishedAfter  *time.Time
}

// New validates and normalizes a filter set.
func New(sourceType, primaryLanguage, framework string, tags []string, publishedAfter *time.Time) (Filters, error) {
	if len(tags) > MaxTags {
		return Filters{}, fmt.Errorf("too many tags (max %d)", MaxTags)
	}
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		cleaned = append(cleaned, strings.ToLower(tag))
	}
	if len(cleaned) == 0 {
		cleaned = nil
	}
	return Filters{
		sourceType:      strings.TrimSpace(sourceType),
		primaryLanguage: strings.ToLower(strings.TrimSpace(primaryLanguage)),
		framework:       strings.ToLower(strings.TrimSpace(framework)),
		tags:            cleaned,
		publishedAfter:  publishedAfter,
	}, nil
}

// SourceType returns the source type constraint ("" when absent).
func (f Filters) SourceType() string { return f.sourceType }

// PrimaryLanguage returns the language constraint ("" when absent).
func (f Filters) PrimaryLanguage() string { return f.primaryLanguage }

// Framework returns the framework constraint ("" when absent).
func (f Filters) Framework() string { return f.framework }

// Tags returns the tag constraints (nil when absent).
func (f Filters) Tags() []string { return f.tags }

// PublishedAfter returns the publication date lower bound (nil when absent).
func (f Filters) PublishedAfter() *time.Time { return f.publishedAfter }

// IsEmpty reports whether no constraint is set.
func (f Filters) IsEmpty() bool {
	return f.sourceType == "" && f.primaryLanguage == "" && f.framework == "" &&
		len(f.tags) == 0 && f.publishedAfter == nil
}
