package rag

import (
	"context"

	"github.com/mee-advisor/mee-assistant-go/internal/config"
	"github.com/mee-advisor/mee-assistant-go/internal/corpus"
	"github.com/mee-advisor/mee-assistant-go/internal/logger"
	"github.com/mee-advisor/mee-assistant-go/internal/metrics"
)

// DedupKeyFunc computes the identity key used when merging vector and
// keyword results. Documents with equal keys are considered duplicates.
type DedupKeyFunc func(corpus.Document) string

// dedupPrefixLen bounds the content prefix used as a fallback key.
const dedupPrefixLen = 100

// DefaultDedupKey keys a document by its course code when it has one,
// otherwise by a prefix of its content.
func DefaultDedupKey(doc corpus.Document) string {
	if code := doc.CourseCode(); code != "" {
		return code
	}
	content := doc.Content
	if len(content) > dedupPrefixLen {
		content = content[:dedupPrefixLen]
	}
	return content
}

// HybridRetriever combines vector similarity search with BM25 keyword
// search. Retrieval never fails: any index error degrades to fewer (or
// zero) documents.
type HybridRetriever struct {
	vectorDB *VectorDB
	bm25     *BM25Index
	cfg      config.RetrievalConfig
	dedupKey DedupKeyFunc
	m        *metrics.Metrics
	log      *logger.Logger
}

// NewHybridRetriever creates a retriever over both indices. A nil
// dedupKey selects DefaultDedupKey.
func NewHybridRetriever(vectorDB *VectorDB, bm25 *BM25Index, cfg config.RetrievalConfig, dedupKey DedupKeyFunc, m *metrics.Metrics, log *logger.Logger) *HybridRetriever {
	if dedupKey == nil {
		dedupKey = DefaultDedupKey
	}
	return &HybridRetriever{
		vectorDB: vectorDB,
		bm25:     bm25,
		cfg:      cfg,
		dedupKey: dedupKey,
		m:        m,
		log:      log.WithModule("retriever"),
	}
}

// GetRelevantDocuments retrieves documents for a query within a
// category, optionally constrained to a course code. Vector results
// come first, then BM25 results, deduplicated first-wins and capped at
// the configured maximum. The returned slice may be empty but the call
// never returns an error.
func (r *HybridRetriever) GetRelevantDocuments(ctx context.Context, query string, category corpus.Category, courseCode string) []corpus.Document {
	vectorDocs := r.vectorSearch(ctx, query, category, courseCode)
	keywordDocs := r.keywordSearch(query, category, courseCode)

	merged := make([]corpus.Document, 0, len(vectorDocs)+len(keywordDocs))
	seen := make(map[string]struct{}, len(vectorDocs)+len(keywordDocs))

	for _, doc := range vectorDocs {
		key := r.dedupKey(doc)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, doc)
	}
	for _, doc := range keywordDocs {
		key := r.dedupKey(doc)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, doc)
	}

	if len(merged) > r.cfg.MaxDocs {
		merged = merged[:r.cfg.MaxDocs]
	}

	r.log.WithFields(map[string]any{
		"category":    category,
		"course_code": courseCode,
		"vector":      len(vectorDocs),
		"keyword":     len(keywordDocs),
		"merged":      len(merged),
	}).Debug("Hybrid retrieval complete")

	return merged
}

// vectorSearch queries the vector index with the tightest applicable
// metadata filter, then degrades: a failed {category, course_code}
// filter retries with category only, and a failed category filter
// yields nothing from this index.
func (r *HybridRetriever) vectorSearch(ctx context.Context, query string, category corpus.Category, courseCode string) []corpus.Document {
	if r.vectorDB == nil {
		return nil
	}

	where := map[string]string{corpus.MetaCategory: string(category)}
	if courseCode != "" {
		where[corpus.MetaCourseCode] = courseCode

		docs, err := r.vectorDB.Search(ctx, query, r.cfg.VectorK, where)
		if err == nil {
			return docs
		}
		r.m.RetrievalErrorsTotal.WithLabelValues("vector", "filter_rejected").Inc()
		r.log.WithError(err).WithField("course_code", courseCode).Debug("Course-code filter rejected, retrying category-only")

		where = map[string]string{corpus.MetaCategory: string(category)}
	}

	docs, err := r.vectorDB.Search(ctx, query, r.cfg.VectorK, where)
	if err != nil {
		r.m.RetrievalErrorsTotal.WithLabelValues("vector", "search_failed").Inc()
		r.log.WithError(err).WithField("category", category).Warn("Vector search failed")
		return nil
	}
	return docs
}

// keywordSearch runs an unfiltered BM25 query and applies the metadata
// constraints in-process, since the lexical index carries no filter
// support.
func (r *HybridRetriever) keywordSearch(query string, category corpus.Category, courseCode string) []corpus.Document {
	if r.bm25 == nil {
		return nil
	}

	docs, err := r.bm25.Search(query, r.cfg.LexicalK)
	if err != nil {
		r.m.RetrievalErrorsTotal.WithLabelValues("lexical", "search_failed").Inc()
		r.log.WithError(err).Warn("BM25 search failed")
		return nil
	}

	filtered := docs[:0:0]
	for _, doc := range docs {
		if doc.Category() != category {
			continue
		}
		if courseCode != "" && doc.CourseCode() != courseCode {
			continue
		}
		filtered = append(filtered, doc)
	}
	return filtered
}
