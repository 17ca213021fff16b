package elastic

import "github.com/Ham12-3/info-hunter/internal/index"

// EmbeddingDimensions is the agreed vector dimensionality for stored record
// embeddings (text-embedding-3-small).
const EmbeddingDimensions = 1536

// knowledgeIndexMapping is the index definition for knowledge records:
// keyword fields for exact-match filters, analyzed text for full-text
// scoring, nested code snippets, dates, and a cosine dense vector for
// semantic scoring.
func knowledgeIndexMapping() map[string]any {
	return map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"id":                  map[string]any{"type": "keyword"},
				index.FieldSourceType: map[string]any{"type": "keyword"},
				"source_name":         map[string]any{"type": "keyword"},
				"source_url":          map[string]any{"type": "keyword"},
				index.FieldTitle: map[string]any{
					"type": "text",
					"fields": map[string]any{
						"keyword": map[string]any{"type": "keyword"},
						"autocomplete": map[string]any{
							"type":            "text",
							"analyzer":        "autocomplete_analyzer",
							"search_analyzer": "standard",
						},
					},
				},
				"summary":       map[string]any{"type": "text"},
				index.FieldBody: map[string]any{"type": "text"},
				"code_snippets": map[string]any{
					"type": "nested",
					"properties": map[string]any{
						"language": map[string]any{"type": "keyword"},
						"code":     map[string]any{"type": "text"},
						"context":  map[string]any{"type": "text"},
					},
				},
				index.FieldTags:            map[string]any{"type": "keyword"},
				index.FieldPrimaryLanguage: map[string]any{"type": "keyword"},
				index.FieldFramework:       map[string]any{"type": "keyword"},
				"author":                   map[string]any{"type": "keyword"},
				"licence":                  map[string]any{"type": "keyword"},
				index.FieldPublishedAt:     map[string]any{"type": "date"},
				"found_at":                 map[string]any{"type": "date"},
				"updated_at":               map[string]any{"type": "date"},
				index.FieldEmbedding: map[string]any{
					"type":       "dense_vector",
					"dims":       EmbeddingDimensions,
					"index":      true,
					"similarity": "cosine",
				},
			},
		},
		"settings": map[string]any{
			"analysis": map[string]any{
				"analyzer": map[string]any{
					"autocomplete_analyzer": map[string]any{
						"type":      "custom",
						"tokenizer": "standard",
						"filter":    []string{"lowercase", "autocomplete_filter"},
					},
				},
				"filter": map[string]any{
					"autocomplete_filter": map[string]any{
						"type":     "edge_ngram",
						"min_gram": 2,
						"max_gram": 20,
					},
				},
			},
		},
	}
}
