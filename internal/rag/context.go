package rag

import (
	"strings"

	"github.com/mee-advisor/mee-assistant-go/internal/corpus"
)

// PrepareContext assembles retrieved documents into the context block
// fed to the answer prompt, preserving retrieval order.
//
// Curriculum documents get a header naming their code and name so the
// model can verify the match the prompt demands; every other category
// just names the source.
func PrepareContext(docs []corpus.Document, category corpus.Category) string {
	if len(docs) == 0 {
		return ""
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		var header strings.Builder
		header.WriteString("Source: ")
		header.WriteString(doc.Source())

		if category == corpus.CategoryCourses {
			code := doc.CourseCode()
			name := doc.CourseName()
			if code != "" || name != "" {
				header.WriteString(" - ")
				header.WriteString(strings.TrimSpace(code + " " + name))
			}
		}

		parts = append(parts, header.String()+"\n"+doc.Content)
	}

	return strings.Join(parts, "\n\n")
}
