package service

import (
	"encoding/json"
	"fmt"
	"ieltsprep/internal/model"
	"regexp"
	"strings"
)

var (
	questionNumbering = regexp.MustCompile(`^\s*(?:(?i:question)\s*\d+\s*[.):\-]?\s*|\d+\s*[.):\-]\s+|\d{1,2}\s+([A-Z]))`)
	optionLabel       = regexp.MustCompile(`^\s*(?:\(\s*[A-Za-z]\s*\)|[A-Z]\s*[.):]|[a-z]\))\s*`)
	headingLabel      = regexp.MustCompile(`^\s*\(?(?i:[ivxl]+)\s*[.)]\s*`)
)

// ParseQuizImport decodes a bulk-import document of the form
// {"passageContent": "...", "questionGroups": [...]}. Nothing is applied on
// error.
func ParseQuizImport(raw []byte) (model.QuizExtraction, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.QuizExtraction{}, NewValidationError("import is not a valid JSON object: " + err.Error())
	}

	passageRaw, ok := doc["passageContent"]
	if !ok || strings.TrimSpace(string(passageRaw)) == "null" {
		return model.QuizExtraction{}, NewValidationError("import is missing passageContent",
			FieldError{Field: "passageContent", Error: "passageContent is required"})
	}
	var passage string
	if err := json.Unmarshal(passageRaw, &passage); err != nil {
		return model.QuizExtraction{}, NewValidationError("passageContent must be a string",
			FieldError{Field: "passageContent", Error: "passageContent must be a string"})
	}

	groupsRaw, ok := doc["questionGroups"]
	if !ok || !isJSONArray(groupsRaw) {
		return model.QuizExtraction{}, NewValidationError("questionGroups must be an array",
			FieldError{Field: "questionGroups", Error: "questionGroups must be an array"})
	}
	var groups []model.QuestionGroup
	if err := json.Unmarshal(groupsRaw, &groups); err != nil {
		return model.QuizExtraction{}, NewValidationError("questionGroups could not be read: " + err.Error())
	}

	for i, g := range groups {
		if !g.Type.Valid() {
			field := fmt.Sprintf("questionGroups[%d].type", i)
			msg := fmt.Sprintf("%s %q is not a supported question type", field, g.Type)
			return model.QuizExtraction{}, NewValidationError(msg, FieldError{Field: field, Error: msg})
		}
		groups[i] = inheritGroupType(g)
	}

	return model.QuizExtraction{PassageContent: passage, QuestionGroups: groups}, nil
}

func isJSONArray(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return strings.HasPrefix(s, "[")
}

// inheritGroupType makes every question take its group's type and rebuilds
// notes completion questions from the content
func inheritGroupType(g model.QuestionGroup) model.QuestionGroup {
	out := g.Clone()
	if out.Type == model.QuestionTypeNotesCompletion {
		return CompileNotesGroup(out)
	}
	if out.Questions == nil {
		out.Questions = []model.Question{}
	}
	for i := range out.Questions {
		out.Questions[i].Type = out.Type
	}
	return out
}

// NormalizeExtraction coerces generative output into the question model:
// unknown group types are dropped, question types are inherited from the
// group, numbering is stripped from question text, option and heading labels
// are stripped, and answer keys are put into their canonical encoding.
func NormalizeExtraction(in model.QuizExtraction) (model.QuizExtraction, []string) {
	out := model.QuizExtraction{
		PassageContent: strings.TrimSpace(in.PassageContent),
		QuestionGroups: make([]model.QuestionGroup, 0, len(in.QuestionGroups)),
	}
	var dropped []string
	for i, g := range in.QuestionGroups {
		g.Type = model.QuestionType(strings.ToUpper(strings.TrimSpace(string(g.Type))))
		if !g.Type.Valid() {
			dropped = append(dropped, fmt.Sprintf("group %d: unsupported type %q", i+1, g.Type))
			continue
		}
		g = inheritGroupType(g)
		g.HeadingList = stripLabels(g.HeadingList, headingLabel)
		g.MatchOptions = stripLabels(g.MatchOptions, optionLabel)
		if g.Type != model.QuestionTypeMatchingHeadings {
			g.HeadingList = nil
		}
		if g.Type != model.QuestionTypeMatchingFeatures && g.Type != model.QuestionTypeMatchingSentenceEndings {
			g.MatchOptions = nil
		}
		if g.Type != model.QuestionTypeNotesCompletion {
			g.Content = ""
			for j := range g.Questions {
				g.Questions[j] = normalizeExtractedQuestion(g.Questions[j])
			}
		}
		if strings.TrimSpace(g.Instruction) == "" {
			g.Instruction = model.DefaultInstruction(g.Type)
		}
		out.QuestionGroups = append(out.QuestionGroups, g)
	}
	return out, dropped
}

func normalizeExtractedQuestion(q model.Question) model.Question {
	q.Text = strings.TrimSpace(questionNumbering.ReplaceAllString(q.Text, "${1}"))
	answer := strings.TrimSpace(q.CorrectAnswer)

	switch q.Type {
	case model.QuestionTypeMCQ:
		q.Options = stripLabels(q.Options, optionLabel)
		if q.Options == nil {
			q.Options = make([]string, model.DefaultMCQOptions)
		}
		answer = strings.ToUpper(answer)
		if strings.Contains(answer, ",") {
			answer = model.NormalizeLetterSet(answer)
			q.MaxSelection = max(q.MaxSelection, len(strings.Split(answer, ",")))
		}
		q.MaxSelection = max(q.MaxSelection, 1)
	case model.QuestionTypeTrueFalseNG, model.QuestionTypeYesNoNG:
		answer = strings.ToUpper(answer)
		switch answer {
		case "NG", "NOT_GIVEN", "NOTGIVEN":
			answer = "NOT GIVEN"
		}
		q.Options = nil
	case model.QuestionTypeMatchingHeadings:
		answer = strings.ToLower(answer)
		q.Options = nil
	case model.QuestionTypeMatchingFeatures, model.QuestionTypeMatchingSentenceEndings, model.QuestionTypeMatchingInformation:
		answer = strings.ToUpper(answer)
		q.Options = nil
	default:
		q.Options = nil
	}
	if q.Type != model.QuestionTypeMCQ {
		q.MaxSelection = 0
	}
	q.CorrectAnswer = answer
	return q
}

func stripLabels(items []string, label *regexp.Regexp) []string {
	if items == nil {
		return nil
	}
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = strings.TrimSpace(label.ReplaceAllString(s, ""))
	}
	return out
}
