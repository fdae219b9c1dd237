package service

import (
	"ieltsprep/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuizImport_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "unrelated object", raw: `{"foo":1}`},
		{name: "not json", raw: `passage: hi`},
		{name: "top level array", raw: `[]`},
		{name: "groups not array", raw: `{"passageContent":"p","questionGroups":{"a":1}}`},
		{name: "groups missing", raw: `{"passageContent":"p"}`},
		{name: "passage not string", raw: `{"passageContent":5,"questionGroups":[]}`},
		{name: "passage null", raw: `{"passageContent":null,"questionGroups":[]}`},
		{name: "groups null", raw: `{"passageContent":"p","questionGroups":null}`},
		{name: "unknown group type", raw: `{"passageContent":"p","questionGroups":[{"type":"ESSAY","questions":[]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuizImport([]byte(tt.raw))
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestParseQuizImport(t *testing.T) {
	raw := `{
		"passageContent": "<p>Text</p>",
		"questionGroups": [
			{"id": "g", "type": "YES_NO_NG", "title": "Q1-2", "questions": [
				{"id": "x", "text": "Claim one", "type": "MCQ", "correctAnswer": "YES"}
			]},
			{"id": "n", "type": "NOTES_COMPLETION", "content": "A [cat] and a [dog]", "questions": []}
		]
	}`
	doc, err := ParseQuizImport([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "<p>Text</p>", doc.PassageContent)
	require.Len(t, doc.QuestionGroups, 2)
	assert.Equal(t, model.QuestionTypeYesNoNG, doc.QuestionGroups[0].Questions[0].Type)
	require.Len(t, doc.QuestionGroups[1].Questions, 2)
	assert.Equal(t, "dog", doc.QuestionGroups[1].Questions[1].CorrectAnswer)
}

func TestImportLeavesDraftUntouchedOnError(t *testing.T) {
	d, _, err := model.NewDraft("t", "c", "", model.SkillReading).WithGroupAdded(model.QuestionTypeMCQ, "keep")
	require.NoError(t, err)

	_, err = ParseQuizImport([]byte(`{"foo":1}`))
	require.Error(t, err)
	assert.Len(t, d.Assignment.QuestionGroups, 1)
	assert.Equal(t, "keep", d.Assignment.QuestionGroups[0].Title)
}

func TestNormalizeExtraction(t *testing.T) {
	in := model.QuizExtraction{
		PassageContent: "  <p>Passage</p> ",
		QuestionGroups: []model.QuestionGroup{
			{Type: "mcq", Questions: []model.Question{
				{Text: "1. What is the writer's aim?", Type: "TRUE_FALSE_NG", Options: []string{"A. to inform", "(B) to persuade", "c) to amuse", "D: to warn"}, CorrectAnswer: "b"},
				{Text: "Question 2: Which TWO are true?", Options: []string{"A. x", "B. y", "C. z", "D. w"}, CorrectAnswer: "D, B"},
			}},
			{Type: "TRUE_FALSE_NG", Questions: []model.Question{
				{Text: "14 The bridge opened in 1890.", CorrectAnswer: "ng"},
				{Text: "2020 saw record numbers.", CorrectAnswer: "true"},
			}},
			{Type: "MATCHING_HEADINGS", HeadingList: []string{"i. Origins", "ii) Decline"}, MatchOptions: []string{"stray"}, Questions: []model.Question{
				{Text: "Paragraph A", CorrectAnswer: "II"},
			}},
			{Type: "ESSAY"},
		},
	}

	out, dropped := NormalizeExtraction(in)

	assert.Equal(t, "<p>Passage</p>", out.PassageContent)
	require.Len(t, out.QuestionGroups, 3)
	require.Len(t, dropped, 1)

	mcq := out.QuestionGroups[0]
	assert.Equal(t, model.QuestionTypeMCQ, mcq.Type)
	assert.Equal(t, model.DefaultInstruction(model.QuestionTypeMCQ), mcq.Instruction)
	assert.Equal(t, "What is the writer's aim?", mcq.Questions[0].Text)
	assert.Equal(t, model.QuestionTypeMCQ, mcq.Questions[0].Type)
	assert.Equal(t, []string{"to inform", "to persuade", "to amuse", "to warn"}, mcq.Questions[0].Options)
	assert.Equal(t, "B", mcq.Questions[0].CorrectAnswer)
	assert.Equal(t, 1, mcq.Questions[0].MaxSelection)
	assert.Equal(t, "Which TWO are true?", mcq.Questions[1].Text)
	assert.Equal(t, "B,D", mcq.Questions[1].CorrectAnswer)
	assert.Equal(t, 2, mcq.Questions[1].MaxSelection)

	tfng := out.QuestionGroups[1]
	assert.Equal(t, "The bridge opened in 1890.", tfng.Questions[0].Text)
	assert.Equal(t, "NOT GIVEN", tfng.Questions[0].CorrectAnswer)
	assert.Equal(t, "2020 saw record numbers.", tfng.Questions[1].Text)
	assert.Equal(t, "TRUE", tfng.Questions[1].CorrectAnswer)

	headings := out.QuestionGroups[2]
	assert.Equal(t, []string{"Origins", "Decline"}, headings.HeadingList)
	assert.Nil(t, headings.MatchOptions)
	assert.Equal(t, "ii", headings.Questions[0].CorrectAnswer)
}
