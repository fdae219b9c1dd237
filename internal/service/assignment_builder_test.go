package service

import (
	"ieltsprep/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readingDraft(t *testing.T) model.Draft {
	t.Helper()
	due := time.Date(2026, 11, 1, 17, 0, 0, 0, time.UTC)
	title := "Cambridge 18 Test 1"
	d := model.NewDraft("teacher-1", "class-1", "folder-1", model.SkillReading).
		WithDetails(model.DraftDetails{Title: &title, DueDate: &due})

	d, g, err := d.WithGroupAdded(model.QuestionTypeNotesCompletion, "Questions 1-2")
	require.NoError(t, err)
	content := "The [sun] rises in the [east]."
	d, err = d.WithGroupUpdated(g.ID, model.GroupPatch{Content: &content})
	require.NoError(t, err)
	return d
}

func TestBuildAssignment_CompilesNotesAtSave(t *testing.T) {
	d := readingDraft(t)
	// stale questions left from an earlier compile must not survive
	d.Assignment.QuestionGroups[0].Questions = []model.Question{{ID: "stale", Text: "[old]", CorrectAnswer: "old"}}

	res, err := BuildAssignment(d)
	require.NoError(t, err)

	qs := res.Assignment.QuestionGroups[0].Questions
	require.Len(t, qs, 2)
	assert.Equal(t, "sun", qs[0].CorrectAnswer)
	assert.Equal(t, "east", qs[1].CorrectAnswer)
	assert.Equal(t, "folder-1", res.Assignment.GroupID)
	assert.Empty(t, res.Warnings)

	// draft is unchanged
	assert.Equal(t, "stale", d.Assignment.QuestionGroups[0].Questions[0].ID)
}

func TestBuildAssignment_Validation(t *testing.T) {
	base := readingDraft(t)

	tests := []struct {
		name   string
		mutate func(d *model.Draft)
		field  string
	}{
		{name: "missing title", mutate: func(d *model.Draft) { d.Assignment.Title = "  " }, field: "title"},
		{name: "missing due date", mutate: func(d *model.Draft) { d.Assignment.DueDate = nil }, field: "dueDate"},
		{name: "bad skill", mutate: func(d *model.Draft) { d.Assignment.Type = "GRAMMAR" }, field: "type"},
		{name: "writing without prompt", mutate: func(d *model.Draft) {
			d.Assignment.Type = model.SkillWriting
			d.Assignment.WritingPrompt = "   "
		}, field: "writingPrompt"},
		{name: "missing class", mutate: func(d *model.Draft) { d.Assignment.ClassID = "" }, field: "classId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base.Clone()
			tt.mutate(&d)
			_, err := BuildAssignment(d)
			require.Error(t, err)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			require.NotEmpty(t, vErr.Fields)
			assert.Equal(t, tt.field, vErr.Fields[0].Field)
		})
	}
}

func TestBuildAssignment_WritingDefaultsAndPayload(t *testing.T) {
	d := readingDraft(t)
	d.Assignment.Type = model.SkillWriting
	d.Assignment.WritingPrompt = " Describe the chart. "
	d.Assignment.PassageContent = "leftover"

	res, err := BuildAssignment(d)
	require.NoError(t, err)

	a := res.Assignment
	assert.Equal(t, model.WritingTask1, a.WritingTaskType)
	assert.Equal(t, "Describe the chart.", a.WritingPrompt)
	assert.Empty(t, a.PassageContent)
	assert.Nil(t, a.QuestionGroups)
}

func TestBuildAssignment_EditKeepsIdentity(t *testing.T) {
	due := time.Now().Add(48 * time.Hour)
	existing := model.Assignment{
		ID:             "a-1",
		ClassID:        "class-1",
		GroupID:        "folder-original",
		Title:          "Listening 2",
		Type:           model.SkillListening,
		DueDate:        &due,
		VideoURL:       "https://example.com/audio.mp3",
		PassageContent: "not used by listening",
	}
	d := model.DraftFromAssignment("teacher-1", existing)
	d.FolderID = "folder-elsewhere"

	res, err := BuildAssignment(d)
	require.NoError(t, err)
	assert.Equal(t, "a-1", res.Assignment.ID)
	assert.Equal(t, "folder-original", res.Assignment.GroupID)
	assert.Empty(t, res.Assignment.PassageContent)
	assert.Equal(t, "https://example.com/audio.mp3", res.Assignment.VideoURL)
	assert.NotNil(t, res.Assignment.QuestionGroups)
}

func TestBuildAssignment_WarningsDoNotBlock(t *testing.T) {
	d := readingDraft(t)
	d, g, err := d.WithGroupAdded(model.QuestionTypeTrueFalseNG, "Questions 3-4")
	require.NoError(t, err)
	d, q, err := d.WithQuestionAdded(g.ID, "The sun sets in the west.")
	require.NoError(t, err)
	d, err = d.WithCorrectAnswer(g.ID, q.ID, "true")
	require.NoError(t, err)
	d, _, err = d.WithQuestionAdded(g.ID, "Nobody knows.")
	require.NoError(t, err)

	res, err := BuildAssignment(d)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[0], "question 3")
	assert.Contains(t, res.Warnings[1], "question 4: correct answer missing")
}
