package telegram

import (
	"strings"
	"testing"

	"github.com/mee-advisor/mee-assistant-go/internal/corpus"
	"github.com/mee-advisor/mee-assistant-go/internal/rag"
)

func TestBuildReply_CourseAnswer(t *testing.T) {
	result := rag.QueryResult{
		Answer:           "MDPS372 requires **MDPS241**.",
		Category:         string(corpus.CategoryCourses),
		NumDocsRetrieved: 2,
		Sources:          []string{"courses_prereq_description.json"},
		CourseCode:       "MDPS372",
	}

	got := BuildReply(result)

	if !strings.HasPrefix(got, "📚 <b>Courses &amp; Curriculum</b>") {
		t.Errorf("reply header = %q", got)
	}
	if !strings.Contains(got, "<b>MDPS241</b>") {
		t.Errorf("reply should carry formatted answer, got %q", got)
	}
	if !strings.Contains(got, "📄 <i>Source: courses_prereq_description</i>") {
		t.Errorf("reply should carry source footer without .json, got %q", got)
	}
	if strings.Contains(got, "🗓️") {
		t.Errorf("course reply should not carry a semester footer, got %q", got)
	}
}

func TestBuildReply_ResultsCarrySemesterFooter(t *testing.T) {
	result := rag.QueryResult{
		Answer:           "In Fall 2024 there were 10 A grades.",
		Category:         string(corpus.CategoryResults),
		NumDocsRetrieved: 1,
		Sources:          []string{"Fall_2024.json"},
		SemesterInfo:     []string{corpus.SemesterFall2024, corpus.SemesterSpring2025},
	}

	got := BuildReply(result)

	if !strings.HasPrefix(got, "📊 <b>Results Statistics</b>") {
		t.Errorf("reply header = %q", got)
	}
	if !strings.Contains(got, "🗓️ <i>Semester(s): Fall 2024, Spring 2025</i>") {
		t.Errorf("reply should list display semesters, got %q", got)
	}
}

func TestBuildReply_UnknownCategoryEmoji(t *testing.T) {
	result := rag.QueryResult{Answer: "something", Category: "error"}

	got := BuildReply(result)
	if !strings.HasPrefix(got, "🤖") {
		t.Errorf("unknown category should use the fallback emoji, got %q", got)
	}
}

func TestBuildReply_Truncation(t *testing.T) {
	result := rag.QueryResult{
		Answer:   strings.Repeat("very long answer ", 600),
		Category: string(corpus.CategoryGeneralInfo),
	}

	got := BuildReply(result)
	if len(got) > maxMessageLen+len(truncateNotice) {
		t.Errorf("reply length = %d, exceeds limit", len(got))
	}
	if !strings.HasSuffix(got, truncateNotice) {
		t.Error("truncated reply should end with the truncation notice")
	}
}

func TestBuildReply_TruncationRespectsRuneBoundaries(t *testing.T) {
	result := rag.QueryResult{
		Answer:   strings.Repeat("课程信息🎓", 800),
		Category: string(corpus.CategoryGeneralInfo),
	}

	got := BuildReply(result)
	if !strings.HasSuffix(got, truncateNotice) {
		t.Fatal("expected truncation")
	}
	for _, r := range got {
		if r == '�' {
			t.Fatal("truncation split a multi-byte rune")
		}
	}
}

func TestCategoryEmoji(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{string(corpus.CategoryCourses), "📚"},
		{string(corpus.CategoryGeneralInfo), "ℹ️"},
		{string(corpus.CategoryTrainingRules), "🏭"},
		{string(corpus.CategoryResults), "📊"},
		{"error", "🤖"},
	}

	for _, tt := range tests {
		if got := categoryEmoji(tt.category); got != tt.want {
			t.Errorf("categoryEmoji(%q) = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestCategorySuggestionsCoverAllCategories(t *testing.T) {
	for _, cat := range corpus.Categories() {
		if _, ok := categorySuggestions[string(cat)]; !ok {
			t.Errorf("no callback suggestion for category %s", cat)
		}
	}
	if _, ok := categorySuggestions[callbackAskQuestion]; !ok {
		t.Error("no callback suggestion for ask_question")
	}
}
