// Package corpus defines the retrievable document model and loads the
// program's category-tagged JSON source files into it.
package corpus

import (
	"fmt"
	"strings"

	apperrors "github.com/mee-advisor/mee-assistant-go/internal/errors"
)

// Category is a closed classification tag. It governs which metadata
// filter, context framing, and prompt template apply to a query.
type Category string

const (
	// CategoryCourses covers course descriptions, codes, prerequisites,
	// and curriculum structure.
	CategoryCourses Category = "courses_and_curriculum"

	// CategoryGeneralInfo covers mission, vision, admission and
	// graduation requirements.
	CategoryGeneralInfo Category = "general_info"

	// CategoryTrainingRules covers industrial and summer training rules
	// and internship procedures.
	CategoryTrainingRules Category = "training_rules"

	// CategoryResults covers grade statistics and academic results.
	CategoryResults Category = "results_statistics"
)

// Categories returns all valid categories in a fixed order.
func Categories() []Category {
	return []Category{
		CategoryCourses,
		CategoryGeneralInfo,
		CategoryTrainingRules,
		CategoryResults,
	}
}

// ParseCategory validates a category string (case-insensitive).
// Unknown values fail with errors.ErrInvalidCategory.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategoryCourses, CategoryGeneralInfo, CategoryTrainingRules, CategoryResults:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidCategory, s)
}

// DisplayName returns a human-readable category name for chat output.
func (c Category) DisplayName() string {
	switch c {
	case CategoryCourses:
		return "Courses & Curriculum"
	case CategoryGeneralInfo:
		return "General Information"
	case CategoryTrainingRules:
		return "Training Rules"
	case CategoryResults:
		return "Results Statistics"
	}
	// Unknown tags (e.g. the orchestrator's "error") fall back to a
	// title-cased version of the raw value.
	name := strings.ReplaceAll(string(c), "_", " ")
	return strings.Title(name) //nolint:staticcheck // ASCII-only category tags
}

// Known semester tags carried by results documents.
const (
	SemesterFall2024   = "fall_2024"
	SemesterSpring2025 = "spring_2025"
)

// SemesterDisplayName maps a semester tag to its display form.
// Unknown tags are returned unchanged.
func SemesterDisplayName(tag string) string {
	switch tag {
	case SemesterFall2024:
		return "Fall 2024"
	case SemesterSpring2025:
		return "Spring 2025"
	}
	return tag
}
