package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestDraft_CopyOnWrite(t *testing.T) {
	d0 := NewDraft("t1", "c1", "f1", SkillReading)

	d1, g, err := d0.WithGroupAdded(QuestionTypeMCQ, "Questions 1-3")
	require.NoError(t, err)
	assert.Empty(t, d0.Assignment.QuestionGroups)
	require.Len(t, d1.Assignment.QuestionGroups, 1)
	assert.Equal(t, DefaultInstruction(QuestionTypeMCQ), g.Instruction)

	d2, q, err := d1.WithQuestionAdded(g.ID, "What is the main idea?")
	require.NoError(t, err)
	assert.Empty(t, d1.Assignment.QuestionGroups[0].Questions)
	assert.Len(t, q.Options, DefaultMCQOptions)
	assert.Equal(t, 1, q.MaxSelection)

	d3, err := d2.WithQuestionUpdated(g.ID, q.ID, QuestionPatch{Options: []string{"a", "b", "c", "d"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"", "", "", ""}, d2.Assignment.QuestionGroups[0].Questions[0].Options)
	assert.Equal(t, []string{"a", "b", "c", "d"}, d3.Assignment.QuestionGroups[0].Questions[0].Options)

	d4, err := d3.WithCorrectAnswer(g.ID, q.ID, " B ")
	require.NoError(t, err)
	assert.Empty(t, d3.Assignment.QuestionGroups[0].Questions[0].CorrectAnswer)
	assert.Equal(t, "B", d4.Assignment.QuestionGroups[0].Questions[0].CorrectAnswer)
}

func TestDraft_WithCorrectAnswer_MultiSelectSorted(t *testing.T) {
	d, g, _ := NewDraft("t1", "c1", "", SkillReading).WithGroupAdded(QuestionTypeMCQ, "")
	d, q, _ := d.WithQuestionAdded(g.ID, "Which two?")
	two := 2
	d, err := d.WithQuestionUpdated(g.ID, q.ID, QuestionPatch{MaxSelection: &two})
	require.NoError(t, err)

	d, err = d.WithCorrectAnswer(g.ID, q.ID, "D, A")
	require.NoError(t, err)
	assert.Equal(t, "A,D", d.Assignment.QuestionGroups[0].Questions[0].CorrectAnswer)
}

func TestDraft_WithGroupUpdated_TypeChangeIsDestructive(t *testing.T) {
	d, g, _ := NewDraft("t1", "c1", "", SkillReading).WithGroupAdded(QuestionTypeMatchingHeadings, "Headings")
	d, err := d.WithGroupUpdated(g.ID, GroupPatch{HeadingList: []string{"Origins", "Decline"}})
	require.NoError(t, err)
	d, q, _ := d.WithQuestionAdded(g.ID, "Paragraph A")
	d, _ = d.WithCorrectAnswer(g.ID, q.ID, "ii")

	features := QuestionTypeMatchingFeatures
	changed, err := d.WithGroupUpdated(g.ID, GroupPatch{Type: &features})
	require.NoError(t, err)

	got := changed.Assignment.QuestionGroups[0]
	assert.Equal(t, QuestionTypeMatchingFeatures, got.Type)
	assert.Nil(t, got.HeadingList)
	assert.Nil(t, got.MatchOptions)
	require.Len(t, got.Questions, 1)
	assert.Equal(t, "Paragraph A", got.Questions[0].Text)
	assert.Equal(t, QuestionTypeMatchingFeatures, got.Questions[0].Type)
	assert.Empty(t, got.Questions[0].CorrectAnswer)

	// original untouched
	assert.Equal(t, []string{"Origins", "Decline"}, d.Assignment.QuestionGroups[0].HeadingList)
	assert.Equal(t, "ii", d.Assignment.QuestionGroups[0].Questions[0].CorrectAnswer)

	notes := QuestionTypeNotesCompletion
	toNotes, err := d.WithGroupUpdated(g.ID, GroupPatch{Type: &notes, Content: strPtr("The [sun] rises.")})
	require.NoError(t, err)
	assert.Empty(t, toNotes.Assignment.QuestionGroups[0].Questions)
	assert.Equal(t, "The [sun] rises.", toNotes.Assignment.QuestionGroups[0].Content)
}

func TestDraft_WithGroupUpdated_IgnoresForeignAuxiliaryData(t *testing.T) {
	d, g, _ := NewDraft("t1", "c1", "", SkillReading).WithGroupAdded(QuestionTypeTrueFalseNG, "")
	d, err := d.WithGroupUpdated(g.ID, GroupPatch{
		Title:        strPtr("Questions 1-5"),
		HeadingList:  []string{"x"},
		MatchOptions: []string{"y"},
		Content:      strPtr("[z]"),
	})
	require.NoError(t, err)
	got := d.Assignment.QuestionGroups[0]
	assert.Equal(t, "Questions 1-5", got.Title)
	assert.Nil(t, got.HeadingList)
	assert.Nil(t, got.MatchOptions)
	assert.Empty(t, got.Content)
}

func TestDraft_NotesGroupRejectsDirectQuestions(t *testing.T) {
	d, g, _ := NewDraft("t1", "c1", "", SkillReading).WithGroupAdded(QuestionTypeNotesCompletion, "")
	_, _, err := d.WithQuestionAdded(g.ID, "x")
	assert.ErrorIs(t, err, ErrDerivedQuestions)
}

func TestDraft_GroupMoveAndRemove(t *testing.T) {
	d := NewDraft("t1", "c1", "", SkillReading)
	var ids []string
	for i := 0; i < 3; i++ {
		var g QuestionGroup
		d, g, _ = d.WithGroupAdded(QuestionTypeFillInBlanks, "")
		ids = append(ids, g.ID)
	}

	order := func(d Draft) []string {
		var out []string
		for _, g := range d.Assignment.QuestionGroups {
			out = append(out, g.ID)
		}
		return out
	}

	moved, err := d.WithGroupMoved(ids[2], 0)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[2], ids[0], ids[1]}, order(moved))
	assert.Equal(t, ids, order(d))

	moved, err = d.WithGroupMoved(ids[0], 99)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[1], ids[2], ids[0]}, order(moved))

	removed, err := d.WithGroupRemoved(ids[1])
	require.NoError(t, err)
	assert.Equal(t, []string{ids[0], ids[2]}, order(removed))
	assert.Equal(t, ids, order(d))

	_, err = d.WithGroupRemoved("nope")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestDraft_WithImported_FreshIDs(t *testing.T) {
	doc := QuizExtraction{
		PassageContent: "<p>passage</p>",
		QuestionGroups: []QuestionGroup{{
			ID:   "dup",
			Type: QuestionTypeTrueFalseNG,
			Questions: []Question{
				{ID: "dup", Text: "a", Type: QuestionTypeTrueFalseNG, CorrectAnswer: "TRUE"},
				{ID: "dup", Text: "b", Type: QuestionTypeTrueFalseNG, CorrectAnswer: "FALSE"},
			},
		}},
	}
	d := NewDraft("t1", "c1", "", SkillReading).WithImported(doc)

	assert.Equal(t, "<p>passage</p>", d.Assignment.PassageContent)
	g := d.Assignment.QuestionGroups[0]
	assert.NotEqual(t, "dup", g.ID)
	assert.NotEqual(t, "dup", g.Questions[0].ID)
	assert.NotEqual(t, g.Questions[0].ID, g.Questions[1].ID)
	assert.Equal(t, "dup", doc.QuestionGroups[0].ID)
}
