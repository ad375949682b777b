package rag

import (
	"context"
	"time"

	"github.com/mee-advisor/mee-assistant-go/internal/corpus"
	"github.com/mee-advisor/mee-assistant-go/internal/genai"
	"github.com/mee-advisor/mee-assistant-go/internal/logger"
	"github.com/mee-advisor/mee-assistant-go/internal/metrics"
)

// Generator produces the final answer from the question and the
// assembled context using the category's prompt template.
type Generator struct {
	llm genai.Completer
	m   *metrics.Metrics
	log *logger.Logger
}

// NewGenerator creates an answer generator.
func NewGenerator(llm genai.Completer, m *metrics.Metrics, log *logger.Logger) *Generator {
	return &Generator{
		llm: llm,
		m:   m,
		log: log.WithModule("generator"),
	}
}

// GenerateAnswer runs one completion with the category's template and
// returns the model's text verbatim. Unlike retrieval, generation
// errors propagate: a missing answer is a pipeline failure.
func (g *Generator) GenerateAnswer(ctx context.Context, question, docContext string, category corpus.Category) (string, error) {
	tmpl := templateFor(category)

	start := time.Now()
	answer, err := g.llm.Complete(ctx, tmpl.system, buildUserPrompt(tmpl, question, docContext))
	g.m.LLMDurationSeconds.WithLabelValues("generate").Observe(time.Since(start).Seconds())

	if err != nil {
		g.m.LLMRequestsTotal.WithLabelValues("generate", "error").Inc()
		return "", err
	}
	g.m.LLMRequestsTotal.WithLabelValues("generate", "success").Inc()

	g.log.WithFields(map[string]any{
		"category":      category,
		"answer_length": len(answer),
	}).Debug("Answer generated")
	return answer, nil
}
