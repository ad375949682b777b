package corpus

import (
	"errors"
	"testing"

	apperrors "github.com/mee-advisor/mee-assistant-go/internal/errors"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    Category
		wantErr bool
	}{
		{"courses_and_curriculum", CategoryCourses, false},
		{"general_info", CategoryGeneralInfo, false},
		{"training_rules", CategoryTrainingRules, false},
		{"results_statistics", CategoryResults, false},
		{"RESULTS_STATISTICS", CategoryResults, false},
		{"  general_info  ", CategoryGeneralInfo, false},
		{"error", "", true},
		{"curriculum", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCategory(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCategoryErrorIsInvalidCategory(t *testing.T) {
	_, err := ParseCategory("course_prerequisites")
	if !errors.Is(err, apperrors.ErrInvalidCategory) {
		t.Errorf("ParseCategory() error = %v, want ErrInvalidCategory", err)
	}
}

func TestCategoryDisplayName(t *testing.T) {
	tests := []struct {
		category Category
		want     string
	}{
		{CategoryCourses, "Courses & Curriculum"},
		{CategoryGeneralInfo, "General Information"},
		{CategoryTrainingRules, "Training Rules"},
		{CategoryResults, "Results Statistics"},
		{Category("error"), "Error"},
		{Category("some_other_tag"), "Some Other Tag"},
	}

	for _, tt := range tests {
		if got := tt.category.DisplayName(); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestSemesterDisplayName(t *testing.T) {
	if got := SemesterDisplayName(SemesterFall2024); got != "Fall 2024" {
		t.Errorf("SemesterDisplayName(fall_2024) = %q", got)
	}
	if got := SemesterDisplayName(SemesterSpring2025); got != "Spring 2025" {
		t.Errorf("SemesterDisplayName(spring_2025) = %q", got)
	}
	if got := SemesterDisplayName("winter_2023"); got != "winter_2023" {
		t.Errorf("SemesterDisplayName(unknown) = %q, want unchanged", got)
	}
}

func TestCategoriesOrder(t *testing.T) {
	cats := Categories()
	if len(cats) != 4 {
		t.Fatalf("Categories() returned %d entries, want 4", len(cats))
	}
	if cats[0] != CategoryCourses || cats[3] != CategoryResults {
		t.Errorf("Categories() order changed: %v", cats)
	}
}
