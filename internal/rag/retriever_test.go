package rag

import (
	"context"
	"testing"

	"github.com/mee-advisor/mee-assistant-go/internal/config"
	"github.com/mee-advisor/mee-assistant-go/internal/corpus"
	"github.com/mee-advisor/mee-assistant-go/internal/logger"
)

func testRetrievalConfig() config.RetrievalConfig {
	return config.RetrievalConfig{VectorK: 5, LexicalK: 6, MaxDocs: 8}
}

func newTestRetriever(t *testing.T, docs []corpus.Document) *HybridRetriever {
	t.Helper()
	log := logger.New("error")

	v, err := NewVectorDB("", testEmbeddingFunc, log)
	if err != nil {
		t.Fatalf("NewVectorDB() error = %v", err)
	}
	if err := v.Initialize(context.Background(), "retriever_test", docs); err != nil {
		t.Fatalf("vector Initialize() error = %v", err)
	}

	idx := NewBM25Index(log)
	if err := idx.Initialize(docs); err != nil {
		t.Fatalf("bm25 Initialize() error = %v", err)
	}

	return NewHybridRetriever(v, idx, testRetrievalConfig(), nil, testMetrics(), log)
}

func TestHybridRetriever_CategoryFilter(t *testing.T) {
	r := newTestRetriever(t, bm25TestDocs())

	docs := r.GetRelevantDocuments(context.Background(), "training weeks summer", corpus.CategoryTrainingRules, "")
	if len(docs) == 0 {
		t.Fatal("GetRelevantDocuments() returned no docs")
	}
	for _, doc := range docs {
		if doc.Category() != corpus.CategoryTrainingRules {
			t.Errorf("doc category = %v, want %v", doc.Category(), corpus.CategoryTrainingRules)
		}
	}
}

func TestHybridRetriever_CourseCodeFilter(t *testing.T) {
	r := newTestRetriever(t, bm25TestDocs())

	docs := r.GetRelevantDocuments(context.Background(), "what is MDPS372 about", corpus.CategoryCourses, "MDPS372")
	if len(docs) == 0 {
		t.Fatal("GetRelevantDocuments() returned no docs")
	}
	for _, doc := range docs {
		if doc.CourseCode() != "MDPS372" {
			t.Errorf("doc course code = %q, want MDPS372", doc.CourseCode())
		}
	}
}

func TestHybridRetriever_UnknownCodeDegradesToCategory(t *testing.T) {
	r := newTestRetriever(t, bm25TestDocs())

	// No document carries this code. The vector filter finds nothing
	// (or errors) and BM25 filters everything out, but the category
	// retry keeps the result non-empty rather than failing.
	docs := r.GetRelevantDocuments(context.Background(), "control systems ZZZZ999", corpus.CategoryCourses, "ZZZZ999")
	for _, doc := range docs {
		if doc.Category() != corpus.CategoryCourses {
			t.Errorf("doc category = %v, want %v", doc.Category(), corpus.CategoryCourses)
		}
	}
}

func TestHybridRetriever_Dedup(t *testing.T) {
	r := newTestRetriever(t, bm25TestDocs())

	// Query hits the same course through both indices; the merged
	// result must carry it once.
	docs := r.GetRelevantDocuments(context.Background(), "MDPS476 mobile robots", corpus.CategoryCourses, "MDPS476")

	seen := map[string]int{}
	for _, doc := range docs {
		seen[DefaultDedupKey(doc)]++
	}
	for key, n := range seen {
		if n > 1 {
			t.Errorf("key %q appears %d times, want 1", key, n)
		}
	}
}

func TestHybridRetriever_MaxDocsCap(t *testing.T) {
	var docs []corpus.Document
	for _, code := range []string{"AAAA101", "AAAB102", "AAAC103", "AAAD104", "AAAE105", "AAAF106", "AAAG107", "AAAH108", "AAAI109", "AAAJ110"} {
		docs = append(docs, corpus.Document{
			Content: "control systems lecture " + code,
			Metadata: map[string]string{
				corpus.MetaSource:     "courses_prereq_description.json",
				corpus.MetaCategory:   string(corpus.CategoryCourses),
				corpus.MetaCourseCode: code,
			},
		})
	}

	r := newTestRetriever(t, docs)
	got := r.GetRelevantDocuments(context.Background(), "control systems lecture", corpus.CategoryCourses, "")
	if len(got) > testRetrievalConfig().MaxDocs {
		t.Errorf("GetRelevantDocuments() returned %d docs, cap is %d", len(got), testRetrievalConfig().MaxDocs)
	}
}

func TestHybridRetriever_NilIndices(t *testing.T) {
	log := logger.New("error")
	r := NewHybridRetriever(nil, nil, testRetrievalConfig(), nil, testMetrics(), log)

	docs := r.GetRelevantDocuments(context.Background(), "anything", corpus.CategoryCourses, "")
	if len(docs) != 0 {
		t.Errorf("GetRelevantDocuments() = %d docs, want 0", len(docs))
	}
}

func TestDefaultDedupKey(t *testing.T) {
	withCode := corpus.Document{
		Content:  "some content",
		Metadata: map[string]string{corpus.MetaCourseCode: "MDPS476"},
	}
	if got := DefaultDedupKey(withCode); got != "MDPS476" {
		t.Errorf("DefaultDedupKey() = %q, want MDPS476", got)
	}

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	noCode := corpus.Document{Content: string(long)}
	if got := DefaultDedupKey(noCode); len(got) != 100 {
		t.Errorf("DefaultDedupKey() length = %d, want 100", len(got))
	}

	short := corpus.Document{Content: "short"}
	if got := DefaultDedupKey(short); got != "short" {
		t.Errorf("DefaultDedupKey() = %q, want %q", got, "short")
	}
}
