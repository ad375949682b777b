package corpus

// Metadata keys recognized on documents.
const (
	MetaSource     = "source"      // origin file identifier, always present
	MetaCategory   = "category"    // one of the fixed category set, always present
	MetaCourseCode = "course_code" // present on course and results records
	MetaCourseName = "course_name" // present on course and results records
	MetaSemester   = "semester"    // present on results records
	MetaSection    = "section"     // present on sectioned (non-tabular) content
)

// Document is an immutable unit of retrievable text with attached metadata.
type Document struct {
	Content  string
	Metadata map[string]string
}

// Meta returns the metadata value for key, or "" if absent.
func (d Document) Meta(key string) string {
	return d.Metadata[key]
}

// Source returns the origin identifier.
func (d Document) Source() string { return d.Metadata[MetaSource] }

// Category returns the document's category tag.
func (d Document) Category() Category { return Category(d.Metadata[MetaCategory]) }

// CourseCode returns the course code, or "" if not applicable.
func (d Document) CourseCode() string { return d.Metadata[MetaCourseCode] }

// CourseName returns the course name, or "" if not applicable.
func (d Document) CourseName() string { return d.Metadata[MetaCourseName] }

// Semester returns the semester tag, or "" if not applicable.
func (d Document) Semester() string { return d.Metadata[MetaSemester] }
