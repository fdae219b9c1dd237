package service

import (
	"html"
	"ieltsprep/internal/model"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	// bracketToken matches one [answer] candidate; nested or empty brackets never
	// match, and a candidate whose answer is blank is skipped
	bracketToken = regexp.MustCompile(`\[([^\[\]]+)\]`)
	htmlTag      = regexp.MustCompile(`<[^>]*>`)
)

// CompileNotes extracts one NOTES_COMPLETION question per bracket token in
// document order. The question text is the literal token; the answer is the
// token's inner text with markup removed. Identifiers are fresh on every call.
func CompileNotes(content string) []model.Question {
	matches := bracketToken.FindAllStringSubmatch(content, -1)
	questions := make([]model.Question, 0, len(matches))
	for _, m := range matches {
		answer := tokenAnswer(m[1])
		if answer == "" {
			continue
		}
		questions = append(questions, model.Question{
			ID:            uuid.NewString(),
			Text:          m[0],
			Type:          model.QuestionTypeNotesCompletion,
			CorrectAnswer: answer,
		})
	}
	return questions
}

// CompileNotesGroup returns a copy of g whose questions are rebuilt from its content
func CompileNotesGroup(g model.QuestionGroup) model.QuestionGroup {
	out := g.Clone()
	out.Questions = CompileNotes(g.Content)
	return out
}

func tokenAnswer(inner string) string {
	text := htmlTag.ReplaceAllString(inner, "")
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}

// numberNotesBlanks replaces each bracket token with a numbered blank starting
// at first, keeping question texts aligned with the blanks they mark
func numberNotesBlanks(g model.QuestionGroup, first int) model.QuestionGroup {
	out := g.Clone()
	n := 0
	out.Content = bracketToken.ReplaceAllStringFunc(g.Content, func(token string) string {
		if tokenAnswer(token[1:len(token)-1]) == "" {
			return token
		}
		placeholder := "[" + strconv.Itoa(first+n) + "]"
		if n < len(out.Questions) {
			out.Questions[n].Text = placeholder
		}
		n++
		return placeholder
	})
	return out
}
