package telegram

import (
	"strings"
	"unicode/utf8"

	"github.com/mee-advisor/mee-assistant-go/internal/corpus"
	"github.com/mee-advisor/mee-assistant-go/internal/rag"
)

// Telegram hard-caps messages at 4096 characters; we truncate earlier
// to leave room for the truncation notice.
const (
	maxMessageLen  = 4000
	truncateAt     = 3900
	truncateNotice = "\n\n<i>... (message truncated)</i>"
)

const welcomeText = `🎓 <b>Welcome to the MEE Academic Assistant!</b>

I can help you with:
📚 Course information, descriptions, and prerequisites
🏭 Training and internship rules
📊 Academic results and statistics
ℹ️ General program information

Choose a category or just ask me anything!`

const helpText = `🤖 <b>How to use this bot:</b>

<b>Commands:</b>
• /start - Main menu
• /help - This help message
• /examples - Example questions

• Smart course code detection (MDPS423, CMPS402, etc.)
• Better document retrieval with filtering
• Improved categorization

<b>Just ask naturally:</b>
• "What are the prerequisites for MDPS476?"
• "Describe the Control Systems course"
• "What are the training requirements?"
• "Show me Spring 2025 results"

I'll understand your questions and find the right information! 💬`

const examplesText = `📝 <b>Example Questions:</b>

<b>📚 Courses:</b>
• "What is MDPS372 about?"
• "Prerequisites for Mobile Robots course"
• "How many credit hours is MDPS476?"
• "Describe the Control Systems course"

<b>🏭 Training:</b>
• "Industrial training requirements"
• "Summer training duration"
• "Training evaluation process"

<b>📊 Results:</b>
• "Spring 2025 grade statistics"
• "Fall 2024 performance data"
• "Course pass rates"

<b>ℹ️ General:</b>
• "Program mission and vision"
• "Graduation requirements"
• "Total credit hours needed"

Just ask in your own words! 💬`

const (
	initializingText = "❌ Sorry, the system is currently initializing. Please try again in a few moments."
	errorText        = "⚠️ I encountered an error processing your question. Please try rephrasing it or try again later."
	rateLimitedText  = "⏳ You're sending messages too quickly. Please wait a few seconds and try again."
	askAnythingText  = "Just type any question about the MEE program!"
)

// categorySuggestions map callback-button categories to example prompts.
var categorySuggestions = map[string]string{
	string(corpus.CategoryCourses):       "Ask me: 'What are the prerequisites for MDPS476?' or 'Describe the Control Systems course'",
	string(corpus.CategoryTrainingRules): "Ask me: 'What are the industrial training requirements?' or 'How long is summer training?'",
	string(corpus.CategoryResults):       "Ask me: 'Show me Spring 2025 results' or 'What are the grade statistics?'",
	string(corpus.CategoryGeneralInfo):   "Ask me: 'What is the program mission?' or 'What are graduation requirements?'",
	callbackAskQuestion:                  askAnythingText,
}

const callbackAskQuestion = "ask_question"

// categoryEmoji returns the marker shown before the category header.
func categoryEmoji(category string) string {
	switch corpus.Category(category) {
	case corpus.CategoryCourses:
		return "📚"
	case corpus.CategoryGeneralInfo:
		return "ℹ️"
	case corpus.CategoryTrainingRules:
		return "🏭"
	case corpus.CategoryResults:
		return "📊"
	}
	return "🤖"
}

// BuildReply renders a pipeline result as a Telegram HTML message:
// category header, formatted answer, then semester and source footers.
func BuildReply(result rag.QueryResult) string {
	var parts []string

	header := categoryEmoji(result.Category) + " <b>" +
		EscapeHTML(corpus.Category(result.Category).DisplayName()) + "</b>"
	parts = append(parts, header)

	if strings.TrimSpace(result.Answer) != "" {
		parts = append(parts, FormatHTML(strings.TrimSpace(result.Answer)))
	}

	if len(result.SemesterInfo) > 0 {
		displays := make([]string, 0, len(result.SemesterInfo))
		for _, sem := range result.SemesterInfo {
			displays = append(displays, corpus.SemesterDisplayName(sem))
		}
		parts = append(parts, "\n🗓️ <i>Semester(s): "+EscapeHTML(strings.Join(displays, ", "))+"</i>")
	}

	if len(result.Sources) > 0 {
		cleaned := make([]string, 0, len(result.Sources))
		for _, src := range result.Sources {
			cleaned = append(cleaned, strings.TrimSuffix(src, ".json"))
		}
		parts = append(parts, "\n📄 <i>Source: "+EscapeHTML(strings.Join(cleaned, ", "))+"</i>")
	}

	message := strings.Join(parts, "\n\n")
	if len(message) > maxMessageLen {
		cut := truncateAt
		// Back off to a rune boundary so truncation never splits a
		// multi-byte character.
		for cut > 0 && !utf8.RuneStart(message[cut]) {
			cut--
		}
		message = message[:cut] + truncateNotice
	}
	return message
}
