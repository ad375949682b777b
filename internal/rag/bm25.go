package rag

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/crawlab-team/bm25"

	"github.com/mee-advisor/mee-assistant-go/internal/corpus"
	"github.com/mee-advisor/mee-assistant-go/internal/logger"
)

// BM25Index provides keyword-based retrieval over the corpus. It
// complements the vector index: exact course codes and rare terms score
// well here even when embeddings miss them.
type BM25Index struct {
	okapi *bm25.BM25Okapi
	docs  []corpus.Document
	log   *logger.Logger

	mu          sync.RWMutex
	initialized bool
}

// NewBM25Index creates an empty index. Call Initialize before Search.
func NewBM25Index(log *logger.Logger) *BM25Index {
	return &BM25Index{log: log.WithModule("bm25")}
}

// Initialize builds the index over the given documents.
func (idx *BM25Index) Initialize(docs []corpus.Document) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if len(docs) == 0 {
		idx.log.Warn("No documents for BM25 index")
		return nil
	}

	contents := make([]string, len(docs))
	for i, doc := range docs {
		contents[i] = doc.Content
	}

	// k1=1.5, b=0.75 are standard BM25 parameters
	okapi, err := bm25.NewBM25Okapi(contents, tokenize, 1.5, 0.75, nil)
	if err != nil {
		return fmt.Errorf("build BM25 index: %w", err)
	}

	idx.okapi = okapi
	idx.docs = docs
	idx.initialized = true
	idx.log.WithField("docs", len(docs)).Info("BM25 index initialized")
	return nil
}

// Search scores all documents against the query and returns the topN
// with positive scores, best first.
func (idx *BM25Index) Search(query string, topN int) ([]corpus.Document, error) {
	if idx == nil {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if !idx.initialized || idx.okapi == nil {
		return nil, nil
	}
	if strings.TrimSpace(query) == "" || topN <= 0 {
		return nil, nil
	}

	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	scores, err := idx.okapi.GetScores(queryTokens)
	if err != nil {
		return nil, fmt.Errorf("BM25 scoring: %w", err)
	}

	type scoredDoc struct {
		index int
		score float64
	}
	scored := make([]scoredDoc, 0, len(scores))
	for i, s := range scores {
		if s > 0 {
			scored = append(scored, scoredDoc{index: i, score: s})
		}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].score > scored[b].score
	})

	if len(scored) > topN {
		scored = scored[:topN]
	}

	results := make([]corpus.Document, 0, len(scored))
	for _, sd := range scored {
		results = append(results, idx.docs[sd.index])
	}
	return results, nil
}

// Count returns the number of indexed documents.
func (idx *BM25Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docs)
}

// tokenize lowercases text and splits it into letter/digit runs.
// Course codes like "MDPS476" survive as single tokens.
func tokenize(text string) []string {
	text = strings.ToLower(text)

	var tokens []string
	var current strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}
