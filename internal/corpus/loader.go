package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mee-advisor/mee-assistant-go/internal/logger"
)

// Source describes one corpus input file and the category its
// documents carry.
type Source struct {
	Filename string
	Category Category
}

// DefaultSources lists the program's corpus files.
func DefaultSources() []Source {
	return []Source{
		{Filename: "General_Info.json", Category: CategoryGeneralInfo},
		{Filename: "courses_prereq_description.json", Category: CategoryCourses},
		{Filename: "mee_spring_2025_raw_data.json", Category: CategoryResults},
		{Filename: "Fall_2024.json", Category: CategoryResults},
		{Filename: "Industrial_training.json", Category: CategoryTrainingRules},
	}
}

// Load reads all default sources from dataDir and returns their documents.
// Missing or malformed files are skipped with a warning; an empty corpus
// is returned as an error since the indices would be useless.
func Load(dataDir string, log *logger.Logger) ([]Document, error) {
	return LoadSources(dataDir, DefaultSources(), log)
}

// LoadSources reads the given source files from dataDir into documents.
func LoadSources(dataDir string, sources []Source, log *logger.Logger) ([]Document, error) {
	var docs []Document

	for _, src := range sources {
		path := filepath.Join(dataDir, src.Filename)
		loaded, err := loadFile(path, src)
		if err != nil {
			log.WithError(err).WithField("file", src.Filename).Warn("Skipping corpus file")
			continue
		}
		log.WithFields(map[string]any{
			"file":     src.Filename,
			"category": src.Category,
			"docs":     len(loaded),
		}).Info("Loaded corpus file")
		docs = append(docs, loaded...)
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents loaded from %s", dataDir)
	}
	return docs, nil
}

// loadFile parses a single source file according to its category's shape.
//
// Course and results files are tabular: a list of course records, each
// becoming one document whose content is the serialized record. General
// info and training files are sectioned: one document per top-level
// section.
func loadFile(path string, src Source) ([]Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	switch src.Category {
	case CategoryCourses, CategoryResults:
		return loadCourseRecords(raw, src)
	case CategoryGeneralInfo, CategoryTrainingRules:
		return loadSections(raw, src)
	}
	return nil, fmt.Errorf("no loader for category %q", src.Category)
}

// courseFile matches both course-description and results file shapes.
type courseFile struct {
	Courses            []map[string]any `json:"courses"`
	ProgramDescription *struct {
		Courses []map[string]any `json:"courses"`
	} `json:"program_description"`
}

func loadCourseRecords(raw []byte, src Source) ([]Document, error) {
	var file courseFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode %s: %w", src.Filename, err)
	}

	records := file.Courses
	if file.ProgramDescription != nil {
		records = file.ProgramDescription.Courses
	}

	docs := make([]Document, 0, len(records))
	for _, rec := range records {
		content, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("serialize record in %s: %w", src.Filename, err)
		}

		md := map[string]string{
			MetaSource:   src.Filename,
			MetaCategory: string(src.Category),
		}
		if code, ok := rec["course_code"].(string); ok && code != "" {
			md[MetaCourseCode] = code
		}
		if name, ok := rec["course_name"].(string); ok && name != "" {
			md[MetaCourseName] = name
		}
		if sem, ok := rec["semester"].(string); ok && sem != "" {
			md[MetaSemester] = sem
		}

		docs = append(docs, Document{Content: string(content), Metadata: md})
	}
	return docs, nil
}

func loadSections(raw []byte, src Source) ([]Document, error) {
	// Sectioned files nest their content under a key matching the category.
	var file map[string]map[string]json.RawMessage
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode %s: %w", src.Filename, err)
	}

	sections := file[string(src.Category)]
	if sections == nil {
		return nil, fmt.Errorf("%s: missing %q root key", src.Filename, src.Category)
	}

	docs := make([]Document, 0, len(sections))
	for key, value := range sections {
		content, err := json.MarshalIndent(map[string]json.RawMessage{key: value}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("serialize section %q in %s: %w", key, src.Filename, err)
		}
		docs = append(docs, Document{
			Content: string(content),
			Metadata: map[string]string{
				MetaSource:   src.Filename,
				MetaCategory: string(src.Category),
				MetaSection:  key,
			},
		})
	}
	return docs, nil
}
