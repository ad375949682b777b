package rag

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mee-advisor/mee-assistant-go/internal/corpus"
	apperrors "github.com/mee-advisor/mee-assistant-go/internal/errors"
	"github.com/mee-advisor/mee-assistant-go/internal/logger"
	"github.com/mee-advisor/mee-assistant-go/internal/metrics"
	"github.com/mee-advisor/mee-assistant-go/internal/sentry"
)

// CategoryError is the out-of-band category tag carried by results of
// failed queries. It is not part of the corpus category set.
const CategoryError = "error"

// noDocsMessage is returned when retrieval comes up empty.
const noDocsMessage = "I couldn't find specific information about your question in the %s category. Please try rephrasing your question or ask about a different topic."

// QueryResult is the complete outcome of one question.
type QueryResult struct {
	Answer           string   // Generated answer or error explanation
	Category         string   // Resolved category, or "error" on failure
	NumDocsRetrieved int      // Documents that backed the answer
	Sources          []string // Unique source identifiers, retrieval order
	SemesterInfo     []string // Sorted semester tags (results queries only)
	CourseCode       string   // Extracted course code, if any
}

// System orchestrates the full pipeline: categorize, extract the course
// code, retrieve, assemble context, and generate the answer.
type System struct {
	classifier *Classifier
	retriever  *HybridRetriever
	generator  *Generator
	m          *metrics.Metrics
	log        *logger.Logger
}

// NewSystem wires the pipeline stages together.
func NewSystem(classifier *Classifier, retriever *HybridRetriever, generator *Generator, m *metrics.Metrics, log *logger.Logger) *System {
	return &System{
		classifier: classifier,
		retriever:  retriever,
		generator:  generator,
		m:          m,
		log:        log.WithModule("rag"),
	}
}

// Query answers one question. It is the pipeline's single error
// boundary: every failure, including panics in a stage, is converted
// into an error-tagged QueryResult so callers always get something to
// show the user.
func (s *System) Query(ctx context.Context, question string) (result QueryResult) {
	queryID := uuid.NewString()
	log := s.log.WithQueryID(queryID)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("query pipeline panic: %v", r)
			stageErr := apperrors.NewStageError("pipeline", question, err)
			log.WithError(stageErr).Error("Recovered from panic")
			sentry.CaptureException(stageErr)
			result = s.errorResult(err)
		}
		s.m.QueriesTotal.WithLabelValues(result.Category, statusFor(result)).Inc()
		if result.Category != CategoryError {
			s.m.QueryDurationSeconds.WithLabelValues(result.Category).Observe(time.Since(start).Seconds())
		}
	}()

	log.WithField("question_length", len(question)).Info("Processing query")

	category := s.classifier.Categorize(ctx, question)
	courseCode, _ := ExtractCourseCode(question)

	docs := s.retriever.GetRelevantDocuments(ctx, question, category, courseCode)
	s.m.DocsRetrieved.Observe(float64(len(docs)))

	if len(docs) == 0 {
		log.WithFields(map[string]any{
			"category":    category,
			"course_code": courseCode,
		}).Info("No documents retrieved")
		return QueryResult{
			Answer:     fmt.Sprintf(noDocsMessage, category.DisplayName()),
			Category:   string(category),
			CourseCode: courseCode,
		}
	}

	contextBlock := PrepareContext(docs, category)
	answer, err := s.generator.GenerateAnswer(ctx, question, contextBlock, category)
	if err != nil {
		stageErr := apperrors.NewStageError("generation", question, err)
		log.WithError(stageErr).Error("Answer generation failed")
		sentry.CaptureException(stageErr)
		return s.errorResult(err)
	}

	log.WithFields(map[string]any{
		"category": category,
		"docs":     len(docs),
		"duration": time.Since(start).String(),
	}).Info("Query answered")

	return QueryResult{
		Answer:           answer,
		Category:         string(category),
		NumDocsRetrieved: len(docs),
		Sources:          collectSources(docs),
		SemesterInfo:     collectSemesters(docs, category),
		CourseCode:       courseCode,
	}
}

// errorResult builds the error-tagged result shown to the user.
func (s *System) errorResult(err error) QueryResult {
	return QueryResult{
		Answer:   fmt.Sprintf("I encountered an error while processing your question: %v. Please try again.", err),
		Category: CategoryError,
	}
}

// collectSources returns unique source identifiers in retrieval order.
func collectSources(docs []corpus.Document) []string {
	var sources []string
	seen := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		src := doc.Source()
		if src == "" {
			continue
		}
		if _, dup := seen[src]; dup {
			continue
		}
		seen[src] = struct{}{}
		sources = append(sources, src)
	}
	return sources
}

// collectSemesters gathers the sorted set of semester tags. Only
// results queries carry semester information.
func collectSemesters(docs []corpus.Document, category corpus.Category) []string {
	if category != corpus.CategoryResults {
		return nil
	}
	seen := make(map[string]struct{})
	for _, doc := range docs {
		if sem := doc.Semester(); sem != "" {
			seen[sem] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	semesters := make([]string, 0, len(seen))
	for sem := range seen {
		semesters = append(semesters, sem)
	}
	sort.Strings(semesters)
	return semesters
}

// statusFor maps a result to the metrics status label.
func statusFor(r QueryResult) string {
	switch {
	case r.Category == CategoryError:
		return "error"
	case r.NumDocsRetrieved == 0:
		return "no_docs"
	}
	return "answered"
}
