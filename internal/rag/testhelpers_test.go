package rag

import (
	"context"
	"strings"

	chromem "github.com/philippgille/chromem-go"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mee-advisor/mee-assistant-go/internal/metrics"
)

// fakeCompleter returns canned responses keyed by a substring of the
// system prompt, or a fixed response when respond is set.
type fakeCompleter struct {
	respond string
	err     error

	// Captured from the last call.
	lastSystem string
	lastUser   string
	calls      int
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastUser = user
	if f.err != nil {
		return "", f.err
	}
	return f.respond, nil
}

// testMetrics builds a metrics set on a private registry so tests do
// not collide on metric registration.
func testMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

// testVocabulary drives the deterministic test embedding: each word is
// one dimension, so documents sharing words with the query are close.
var testVocabulary = []string{
	"control", "systems", "robots", "thermodynamics", "training",
	"industrial", "grade", "statistics", "mission", "vision",
	"prerequisites", "mdps476", "mdps372", "mees281",
}

// testEmbeddingFunc is a chromem.EmbeddingFunc built on word counts.
// It never calls the network and is fully deterministic.
func testEmbeddingFunc(_ context.Context, text string) ([]float32, error) {
	lowered := strings.ToLower(text)
	vec := make([]float32, len(testVocabulary)+1)
	for i, word := range testVocabulary {
		vec[i] = float32(strings.Count(lowered, word))
	}
	// Constant tail component keeps the vector non-zero for any input.
	vec[len(testVocabulary)] = 0.1
	return vec, nil
}

var _ chromem.EmbeddingFunc = testEmbeddingFunc
