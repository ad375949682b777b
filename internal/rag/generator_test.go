package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mee-advisor/mee-assistant-go/internal/corpus"
	"github.com/mee-advisor/mee-assistant-go/internal/logger"
)

func TestGenerator_UsesCategoryTemplate(t *testing.T) {
	log := logger.New("error")

	tests := []struct {
		category   corpus.Category
		wantSystem string
		wantLabel  string
	}{
		{corpus.CategoryCourses, "No available courses with this code.", "Course Information"},
		{corpus.CategoryGeneralInfo, "Use ONLY the program data provided.", "Program Information"},
		{corpus.CategoryTrainingRules, "Use ONLY the training information provided.", "Training Information"},
		{corpus.CategoryResults, "We don't have data for this semester.", "Results Data"},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			llm := &fakeCompleter{respond: "the answer"}
			g := NewGenerator(llm, testMetrics(), log)

			answer, err := g.GenerateAnswer(context.Background(), "a question", "some context", tt.category)
			if err != nil {
				t.Fatalf("GenerateAnswer() error = %v", err)
			}
			if answer != "the answer" {
				t.Errorf("answer = %q, want verbatim model output", answer)
			}
			if !strings.Contains(llm.lastSystem, tt.wantSystem) {
				t.Errorf("system prompt missing %q", tt.wantSystem)
			}
			if !strings.Contains(llm.lastUser, tt.wantLabel+":") {
				t.Errorf("user prompt missing context label %q", tt.wantLabel)
			}
			if !strings.Contains(llm.lastUser, "Student Question: a question") {
				t.Error("user prompt missing the question")
			}
			if !strings.Contains(llm.lastUser, "some context") {
				t.Error("user prompt missing the context")
			}
		})
	}
}

func TestGenerator_ErrorPropagates(t *testing.T) {
	log := logger.New("error")
	llm := &fakeCompleter{err: errors.New("model down")}
	g := NewGenerator(llm, testMetrics(), log)

	_, err := g.GenerateAnswer(context.Background(), "q", "ctx", corpus.CategoryCourses)
	if err == nil {
		t.Fatal("GenerateAnswer() expected error")
	}
}

func TestTemplateFor_UnknownCategoryDefaults(t *testing.T) {
	tmpl := templateFor(corpus.Category("bogus"))
	if tmpl.contextLabel != "Program Information" {
		t.Errorf("contextLabel = %q, want the general-info template", tmpl.contextLabel)
	}
}
