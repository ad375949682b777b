package rag

import (
	"context"
	"fmt"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/mee-advisor/mee-assistant-go/internal/corpus"
	apperrors "github.com/mee-advisor/mee-assistant-go/internal/errors"
	"github.com/mee-advisor/mee-assistant-go/internal/logger"
)

// addConcurrency bounds parallel embedding requests during indexing.
const addConcurrency = 4

// VectorDB wraps a chromem-go collection as the semantic retrieval index.
type VectorDB struct {
	db            *chromem.DB
	collection    *chromem.Collection
	embeddingFunc chromem.EmbeddingFunc
	log           *logger.Logger

	mu          sync.RWMutex
	initialized bool
}

// NewVectorDB opens (or creates) the vector store. When persistDir is
// empty the store is in-memory only, which tests rely on.
func NewVectorDB(persistDir string, embeddingFunc chromem.EmbeddingFunc, log *logger.Logger) (*VectorDB, error) {
	var (
		db  *chromem.DB
		err error
	)
	if persistDir == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(persistDir, false)
		if err != nil {
			return nil, fmt.Errorf("open vector store at %s: %w", persistDir, err)
		}
	}

	return &VectorDB{
		db:            db,
		embeddingFunc: embeddingFunc,
		log:           log.WithModule("vectordb"),
	}, nil
}

// Initialize creates the collection and indexes the corpus. A persisted
// collection that already holds documents is reused as-is, so restarts
// skip the embedding pass.
func (v *VectorDB) Initialize(ctx context.Context, collectionName string, docs []corpus.Document) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	collection, err := v.db.GetOrCreateCollection(collectionName, nil, v.embeddingFunc)
	if err != nil {
		return fmt.Errorf("get or create collection %q: %w", collectionName, err)
	}
	v.collection = collection

	if count := collection.Count(); count > 0 {
		v.log.WithFields(map[string]any{
			"collection": collectionName,
			"docs":       count,
		}).Info("Reusing persisted vector collection")
		v.initialized = true
		return nil
	}

	chromemDocs := make([]chromem.Document, 0, len(docs))
	for i, doc := range docs {
		metadata := make(map[string]string, len(doc.Metadata))
		for k, val := range doc.Metadata {
			metadata[k] = val
		}
		chromemDocs = append(chromemDocs, chromem.Document{
			ID:       fmt.Sprintf("%s_%d", doc.Source(), i),
			Content:  doc.Content,
			Metadata: metadata,
		})
	}

	if err := collection.AddDocuments(ctx, chromemDocs, addConcurrency); err != nil {
		return fmt.Errorf("index %d documents: %w", len(chromemDocs), err)
	}

	v.log.WithFields(map[string]any{
		"collection": collectionName,
		"docs":       len(chromemDocs),
	}).Info("Vector collection indexed")
	v.initialized = true
	return nil
}

// Count returns the number of indexed documents.
func (v *VectorDB) Count() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.collection == nil {
		return 0
	}
	return v.collection.Count()
}

// Search runs a nearest-neighbor query with an optional metadata filter.
// k is clamped to the collection size since chromem rejects oversized
// result requests.
func (v *VectorDB) Search(ctx context.Context, query string, k int, where map[string]string) ([]corpus.Document, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if !v.initialized || v.collection == nil {
		return nil, apperrors.ErrIndexNotReady
	}

	count := v.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := v.collection.Query(ctx, query, k, where, nil)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}

	docs := make([]corpus.Document, 0, len(results))
	for _, res := range results {
		docs = append(docs, corpus.Document{
			Content:  res.Content,
			Metadata: res.Metadata,
		})
	}
	return docs, nil
}
