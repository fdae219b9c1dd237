package service

import (
	"testing"

	"ieltsprep/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftSaveFlow(t *testing.T) {
	f := newFixture(t)

	folder, err := f.folders.CreateFolder(f.ctx, teacher, f.classID, FolderRequest{Name: "Week 1"})
	require.NoError(t, err)

	d, err := f.draftSvc.StartDraft(f.ctx, teacher, StartDraftRequest{
		ClassID:  f.classID,
		FolderID: folder.ID,
		Type:     model.SkillReading,
	})
	require.NoError(t, err)

	due := mustTime("2026-11-01T09:00:00Z")
	_, err = f.draftSvc.UpdateDetails(f.ctx, teacher, d.ID, DraftDetailsRequest{
		Title:          ptr("  Bees  "),
		DueDate:        &due,
		PassageContent: ptr("<p>The hive faces east.</p>"),
		VideoURL:       ptr("https://example.com/v.mp4"),
	})
	require.NoError(t, err)

	d, err = f.draftSvc.AddGroup(f.ctx, teacher, d.ID, AddGroupRequest{Type: model.QuestionTypeTrueFalseNG})
	require.NoError(t, err)
	tfng := d.Assignment.QuestionGroups[0].ID

	d, err = f.draftSvc.AddQuestion(f.ctx, teacher, d.ID, tfng, QuestionRequest{
		Text:          ptr("The hive faces east."),
		CorrectAnswer: ptr("TRUE"),
	})
	require.NoError(t, err)

	d, err = f.draftSvc.AddGroup(f.ctx, teacher, d.ID, AddGroupRequest{Type: model.QuestionTypeNotesCompletion})
	require.NoError(t, err)
	notes := d.Assignment.QuestionGroups[1].ID

	d, err = f.draftSvc.UpdateGroup(f.ctx, teacher, d.ID, notes, UpdateGroupRequest{
		Content: ptr("<p>Faces [east] in [spring]</p>"),
	})
	require.NoError(t, err)

	res, err := f.draftSvc.Save(f.ctx, teacher, d.ID)
	require.NoError(t, err)

	a := res.Assignment
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "Bees", a.Title)
	assert.Equal(t, folder.ID, a.GroupID)
	assert.Equal(t, teacher.UserID, a.CreatedBy)
	assert.Empty(t, a.VideoURL, "reading assignments carry no video")
	require.Len(t, a.QuestionGroups, 2)
	require.Len(t, a.QuestionGroups[1].Questions, 2)
	assert.Equal(t, "east", a.QuestionGroups[1].Questions[0].CorrectAnswer)

	stored, err := f.assignmentRepo.GetByID(f.ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.FlattenQuestions(), 3)

	_, err = f.draftSvc.GetDraft(f.ctx, teacher, d.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound, "a saved draft is dropped")
}

func TestDraftSaveKeepsDraftOnValidationError(t *testing.T) {
	f := newFixture(t)

	d, err := f.draftSvc.StartDraft(f.ctx, teacher, StartDraftRequest{ClassID: f.classID, Type: model.SkillWriting})
	require.NoError(t, err)
	_, err = f.draftSvc.UpdateDetails(f.ctx, teacher, d.ID, DraftDetailsRequest{Title: ptr("Essay")})
	require.NoError(t, err)

	_, err = f.draftSvc.Save(f.ctx, teacher, d.ID)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	kept, err := f.draftSvc.GetDraft(f.ctx, teacher, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Essay", kept.Assignment.Title)

	list, err := f.assignmentRepo.ListByClass(f.ctx, f.classID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEditAssignmentReplacesInPlace(t *testing.T) {
	f := newFixture(t)
	a := f.saveAssignment(t, model.SkillReading, readingQuiz)

	d, err := f.draftSvc.EditAssignment(f.ctx, teacher, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, d.AssignmentID)

	_, err = f.draftSvc.UpdateDetails(f.ctx, teacher, d.ID, DraftDetailsRequest{Title: ptr("Renamed")})
	require.NoError(t, err)
	res, err := f.draftSvc.Save(f.ctx, teacher, d.ID)
	require.NoError(t, err)

	assert.Equal(t, a.ID, res.Assignment.ID)
	assert.Equal(t, a.CreatedAt, res.Assignment.CreatedAt)

	list, err := f.assignmentRepo.ListByClass(f.ctx, f.classID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Renamed", list[0].Title)
}

func TestDraftAccess(t *testing.T) {
	f := newFixture(t)

	d, err := f.draftSvc.StartDraft(f.ctx, teacher, StartDraftRequest{ClassID: f.classID, Type: model.SkillReading})
	require.NoError(t, err)

	tests := []struct {
		name string
		p    model.Principal
		want error
	}{
		{name: "owner", p: teacher},
		{name: "other teacher", p: otherTeacher, want: ErrForbidden},
		{name: "student", p: student, want: ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.draftSvc.GetDraft(f.ctx, tt.p, d.ID)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("other teacher cannot start a draft in the class", func(t *testing.T) {
		_, err := f.draftSvc.StartDraft(f.ctx, otherTeacher, StartDraftRequest{ClassID: f.classID, Type: model.SkillReading})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("folder of another class", func(t *testing.T) {
		other, err := f.classes.CreateClass(f.ctx, teacher, CreateClassRequest{Name: "Other"})
		require.NoError(t, err)
		folder, err := f.folders.CreateFolder(f.ctx, teacher, other.ID, FolderRequest{Name: "X"})
		require.NoError(t, err)

		_, err = f.draftSvc.StartDraft(f.ctx, teacher, StartDraftRequest{ClassID: f.classID, FolderID: folder.ID, Type: model.SkillReading})
		assert.ErrorIs(t, err, ErrFolderNotFound)
	})
}

func TestDraftNotesRules(t *testing.T) {
	f := newFixture(t)

	d, err := f.draftSvc.StartDraft(f.ctx, teacher, StartDraftRequest{ClassID: f.classID, Type: model.SkillListening})
	require.NoError(t, err)
	d, err = f.draftSvc.AddGroup(f.ctx, teacher, d.ID, AddGroupRequest{Type: model.QuestionTypeNotesCompletion})
	require.NoError(t, err)
	groupID := d.Assignment.QuestionGroups[0].ID

	_, err = f.draftSvc.AddQuestion(f.ctx, teacher, d.ID, groupID, QuestionRequest{Text: ptr("manual")})
	require.Error(t, err)
	assert.True(t, IsValidation(err), "notes questions come from the content")

	_, err = f.draftSvc.UpdateGroup(f.ctx, teacher, d.ID, groupID, UpdateGroupRequest{
		Content: ptr("<p>Meet at [noon] by the [river]</p>"),
	})
	require.NoError(t, err)

	preview, err := f.draftSvc.PreviewNotes(f.ctx, teacher, d.ID, groupID)
	require.NoError(t, err)
	require.Len(t, preview.Compiled.Questions, 2)
	assert.Equal(t, "noon", preview.Compiled.Questions[0].CorrectAnswer)
	for _, q := range preview.Student.Questions {
		assert.Empty(t, q.CorrectAnswer)
	}
}

func TestDraftImportJSON(t *testing.T) {
	f := newFixture(t)

	d, err := f.draftSvc.StartDraft(f.ctx, teacher, StartDraftRequest{ClassID: f.classID, Type: model.SkillReading})
	require.NoError(t, err)
	_, err = f.draftSvc.UpdateDetails(f.ctx, teacher, d.ID, DraftDetailsRequest{Title: ptr("Kept")})
	require.NoError(t, err)

	t.Run("rejected document leaves the draft untouched", func(t *testing.T) {
		_, err := f.draftSvc.ImportJSON(f.ctx, teacher, d.ID, []byte(`{"questionGroups": []}`))
		require.Error(t, err)
		assert.True(t, IsValidation(err))

		kept, err := f.draftSvc.GetDraft(f.ctx, teacher, d.ID)
		require.NoError(t, err)
		assert.Empty(t, kept.Assignment.QuestionGroups)
	})

	raw := []byte(`{
		"passageContent": "<p>A</p>",
		"questionGroups": [
			{"type": "YES_NO_NG", "questions": [{"text": "Q", "correctAnswer": "YES"}]}
		]
	}`)
	imported, err := f.draftSvc.ImportJSON(f.ctx, teacher, d.ID, raw)
	require.NoError(t, err)
	assert.Equal(t, "Kept", imported.Assignment.Title)
	assert.Equal(t, "<p>A</p>", imported.Assignment.PassageContent)
	require.Len(t, imported.Assignment.QuestionGroups, 1)
	q := imported.Assignment.QuestionGroups[0].Questions[0]
	assert.NotEmpty(t, q.ID)
	assert.Equal(t, model.QuestionTypeYesNoNG, q.Type)
}

func TestDraftExtractFromFile(t *testing.T) {
	f := newFixture(t)

	d, err := f.draftSvc.StartDraft(f.ctx, teacher, StartDraftRequest{ClassID: f.classID, Type: model.SkillReading})
	require.NoError(t, err)

	t.Run("AI failure keeps the draft", func(t *testing.T) {
		f.ai.err = assert.AnError
		defer func() { f.ai.err = nil }()

		_, err := f.draftSvc.ExtractFromFile(f.ctx, teacher, d.ID, "aGk=", "image/png")
		assert.ErrorIs(t, err, ErrAIUnavailable)
	})

	f.ai.extraction = &model.QuizExtraction{
		PassageContent: "<p>scan</p>",
		QuestionGroups: []model.QuestionGroup{
			{Type: model.QuestionTypeTrueFalseNG, Questions: []model.Question{{Text: "x", CorrectAnswer: "TRUE"}}},
			{Type: "ESSAY"},
		},
	}
	res, err := f.draftSvc.ExtractFromFile(f.ctx, teacher, d.ID, "aGk=", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "<p>scan</p>", res.Draft.Assignment.PassageContent)
	assert.Len(t, res.Draft.Assignment.QuestionGroups, 1)
	assert.Len(t, res.Warnings, 1)
}

func TestListAndDiscardDrafts(t *testing.T) {
	f := newFixture(t)

	first, err := f.draftSvc.StartDraft(f.ctx, teacher, StartDraftRequest{ClassID: f.classID, Type: model.SkillReading})
	require.NoError(t, err)
	second, err := f.draftSvc.StartDraft(f.ctx, teacher, StartDraftRequest{ClassID: f.classID, Type: model.SkillWriting})
	require.NoError(t, err)

	drafts, err := f.draftSvc.ListDrafts(f.ctx, teacher)
	require.NoError(t, err)
	assert.Len(t, drafts, 2)

	require.NoError(t, f.draftSvc.DiscardDraft(f.ctx, teacher, first.ID))

	drafts, err = f.draftSvc.ListDrafts(f.ctx, teacher)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, second.ID, drafts[0].ID)

	_, err = f.draftSvc.ListDrafts(f.ctx, student)
	assert.ErrorIs(t, err, ErrForbidden)
}
