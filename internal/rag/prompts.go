package rag

import (
	"fmt"

	"github.com/mee-advisor/mee-assistant-go/internal/corpus"
)

// CategorizationPrompt instructs the model to classify a query into
// exactly one category and respond with only the category name.
const CategorizationPrompt = `Analyze the user's query to determine its primary intent and categorize it into exactly ONE of the following categories.
Focus on the most specific category that applies. For instance, questions about the rules of "Industrial Training" courses (like MEES281) belong in 'training_rules', not 'courses_and_curriculum'.
Respond with ONLY the category name.

---
## Categories & Examples:
- **courses_and_curriculum**: "What is the description of MDPS241?", "prereq for Control Systems"
- **general_info**: "What is the program's vision?", "How many elective courses are there?"
- **training_rules**: "Can my industrial training be online?", "How do I register for IT2?"
- **results_statistics**: "Show me the grades for Thermodynamics in Fall 2024."
---
Category:`

// answerTemplate pairs the category persona/constraints with the label
// used for the retrieved context block.
type answerTemplate struct {
	system       string
	contextLabel string
}

const coursesTemplate = `You are an academic advisor for the Mechatronics Engineering program.

Instructions:
- If a course code is provided, ensure it matches. If it does not match, respond: "No available courses with this code."
- If a course name is provided, ensure it matches. If it does not match, respond: "No available courses with this name."
- If any information for a field is missing, write: "Not available."
- Do NOT use JSON or code fences.
- Fetch the relevant course information and answer the student's question directly in a structured format.`

const generalInfoTemplate = `You are an academic advisor for the Mechatronics Engineering program.

Instructions:
- Use ONLY the program data provided.
- Answer the student's question clearly based on the context.
- Do NOT use JSON or code fences.`

const trainingRulesTemplate = `You are an academic advisor for the Mechatronics Engineering program.

Instructions:
- Use ONLY the training information provided.
- Answer the student's question clearly.
- If a section is missing, write: "Not available."
- Do NOT use JSON or code fences.`

const resultsTemplate = `You are an academic advisor for the Mechatronics Engineering program.

Instructions:
- Use ONLY the results data provided.
- If a course code is provided, ensure it matches. If it does not match, respond: "No available courses in this semester with this code."
- If a course name is provided, ensure it matches. If it does not match, respond: "No available courses in this semester with this name."
- If the question specifies a semester other than Fall 2024 or Spring 2025, respond: "We don't have data for this semester."
- Do NOT use JSON or code fences.
- Return an introductory message that presents the course name and code first.
- Clearly display the number of each grade event if it is zero (do not use percentages).
- Clearly specify which semester you are referring to.`

// templateFor selects the answer template for a category. The switch is
// exhaustive over the closed category set; the general-info template is
// the defensive default for any tag that slips past upstream validation.
func templateFor(category corpus.Category) answerTemplate {
	switch category {
	case corpus.CategoryCourses:
		return answerTemplate{system: coursesTemplate, contextLabel: "Course Information"}
	case corpus.CategoryGeneralInfo:
		return answerTemplate{system: generalInfoTemplate, contextLabel: "Program Information"}
	case corpus.CategoryTrainingRules:
		return answerTemplate{system: trainingRulesTemplate, contextLabel: "Training Information"}
	case corpus.CategoryResults:
		return answerTemplate{system: resultsTemplate, contextLabel: "Results Data"}
	}
	return answerTemplate{system: generalInfoTemplate, contextLabel: "Program Information"}
}

// buildUserPrompt combines the question and assembled context into the
// user message sent alongside the template's system instructions.
func buildUserPrompt(tmpl answerTemplate, question, context string) string {
	return fmt.Sprintf("Student Question: %s\n\n%s:\n%s\n\nProvide your answer:", question, tmpl.contextLabel, context)
}
