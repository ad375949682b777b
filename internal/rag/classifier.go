package rag

import (
	"context"
	"strings"

	"github.com/mee-advisor/mee-assistant-go/internal/corpus"
	"github.com/mee-advisor/mee-assistant-go/internal/genai"
	"github.com/mee-advisor/mee-assistant-go/internal/logger"
	"github.com/mee-advisor/mee-assistant-go/internal/metrics"
)

// keywordGroup maps trigger substrings to a category. Groups are
// checked in order, so the earlier ones win on overlapping queries
// ("grades of the industrial training course" is a results query).
type keywordGroup struct {
	category corpus.Category
	terms    []string
}

var keywordGroups = []keywordGroup{
	{corpus.CategoryResults, []string{"grade", "gpa", "statistics", "result", "performance"}},
	{corpus.CategoryTrainingRules, []string{"training", "internship", "it1", "it2", "industrial"}},
	{corpus.CategoryCourses, []string{"prerequisite", "prereq", "description", "course content"}},
}

// Classifier assigns each query a category, first by keyword matching
// and then by asking the language model. It never fails: anything the
// model cannot place lands in the default category.
type Classifier struct {
	llm genai.Completer
	m   *metrics.Metrics
	log *logger.Logger
}

// NewClassifier creates a classifier. llm may be nil, in which case
// unmatched queries go straight to the default category.
func NewClassifier(llm genai.Completer, m *metrics.Metrics, log *logger.Logger) *Classifier {
	return &Classifier{
		llm: llm,
		m:   m,
		log: log.WithModule("classifier"),
	}
}

// Categorize determines the query's category.
func (c *Classifier) Categorize(ctx context.Context, query string) corpus.Category {
	lowered := strings.ToLower(query)

	for _, group := range keywordGroups {
		for _, term := range group.terms {
			if strings.Contains(lowered, term) {
				c.m.ClassificationsTotal.WithLabelValues("keyword", string(group.category)).Inc()
				c.log.WithFields(map[string]any{
					"category": group.category,
					"term":     term,
				}).Debug("Keyword classification")
				return group.category
			}
		}
	}

	if category, ok := c.categorizeLLM(ctx, query); ok {
		c.m.ClassificationsTotal.WithLabelValues("llm", string(category)).Inc()
		return category
	}

	c.m.ClassificationsTotal.WithLabelValues("default", string(corpus.CategoryCourses)).Inc()
	return corpus.CategoryCourses
}

// categorizeLLM asks the model and validates its answer against the
// closed category set. Only the first line of the response counts.
func (c *Classifier) categorizeLLM(ctx context.Context, query string) (corpus.Category, bool) {
	if c.llm == nil {
		return "", false
	}

	response, err := c.llm.Complete(ctx, CategorizationPrompt, query)
	if err != nil {
		c.m.LLMRequestsTotal.WithLabelValues("categorize", "error").Inc()
		c.log.WithError(err).Warn("LLM categorization failed, using default")
		return "", false
	}
	c.m.LLMRequestsTotal.WithLabelValues("categorize", "success").Inc()

	firstLine, _, _ := strings.Cut(response, "\n")
	category, err := corpus.ParseCategory(firstLine)
	if err != nil {
		c.log.WithField("response", firstLine).Warn("LLM returned unknown category, using default")
		return "", false
	}

	c.log.WithField("category", category).Debug("LLM classification")
	return category, true
}
