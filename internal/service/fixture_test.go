package service

import (
	"context"
	"ieltsprep/internal/cache"
	"ieltsprep/internal/model"
	"ieltsprep/internal/repository/memory"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	teacher      = model.Principal{UserID: "t1", Role: model.RoleTeacher}
	otherTeacher = model.Principal{UserID: "t2", Role: model.RoleTeacher}
	student      = model.Principal{UserID: "s1", Role: model.RoleStudent}
	student2     = model.Principal{UserID: "s2", Role: model.RoleStudent}
	outsider     = model.Principal{UserID: "s9", Role: model.RoleStudent}
)

// fakeAI records requests and returns canned results
type fakeAI struct {
	mu          sync.Mutex
	transcript  string
	feedback    *model.WritingFeedback
	extraction  *model.QuizExtraction
	err         error
	lastWriting WritingGradeRequest
	calls       int
}

func (f *fakeAI) TranscribeAudio(ctx context.Context, audioBase64, mimeType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.transcript, f.err
}

func (f *fakeAI) GradeWritingTask(ctx context.Context, req WritingGradeRequest) (*model.WritingFeedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastWriting = req
	return f.feedback, f.err
}

func (f *fakeAI) ExtractQuiz(ctx context.Context, fileBase64, mimeType string) (*model.QuizExtraction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.extraction, f.err
}

// recordingNotifier remembers which classes were refreshed
type recordingNotifier struct {
	mu      sync.Mutex
	classes []string
}

func (n *recordingNotifier) Notify(classID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.classes = append(n.classes, classID)
}

func (n *recordingNotifier) notified() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.classes...)
}

type fixture struct {
	ctx context.Context

	classRepo      *memory.ClassRepo
	folderRepo     *memory.FolderRepo
	assignmentRepo *memory.AssignmentRepo
	submissionRepo *memory.SubmissionRepo
	drafts         cache.DraftCache
	attempts       cache.AttemptCache
	analyticsCache cache.AnalyticsCache
	ranking        cache.RankingCache

	ai       *fakeAI
	media    *MediaService
	notifier *recordingNotifier

	classes     *ClassService
	folders     *FolderService
	draftSvc    *DraftService
	assignments *AssignmentService
	submissions *SubmissionService
	analytics   *AnalyticsService

	classID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		ctx:            context.Background(),
		classRepo:      memory.NewClassRepo(),
		folderRepo:     memory.NewFolderRepo(),
		assignmentRepo: memory.NewAssignmentRepo(),
		submissionRepo: memory.NewSubmissionRepo(),
		drafts:         cache.NewMemoryDraftCache(),
		attempts:       cache.NewMemoryAttemptCache(),
		analyticsCache: cache.NewMemoryAnalyticsCache(),
		ranking:        cache.NewMemoryRankingCache(),
		ai:             &fakeAI{},
		notifier:       &recordingNotifier{},
	}
	f.media = NewMediaService(&LocalStorageProvider{Root: t.TempDir()})

	ai := NewAIServiceWithProvider(f.ai, "fake", 0, 1)
	f.classes = NewClassService(f.classRepo)
	f.folders = NewFolderService(f.folderRepo, f.classes, f.notifier)
	f.assignments = NewAssignmentService(f.assignmentRepo, f.folderRepo, f.submissionRepo, f.analyticsCache, f.ranking, f.classes)
	f.draftSvc = NewDraftService(f.drafts, f.classes, f.folderRepo, f.assignmentRepo, ai)
	f.submissions = NewSubmissionService(f.submissionRepo, f.assignments, f.attempts, f.analyticsCache, f.ranking, ai, f.media)
	f.analytics = NewAnalyticsService(f.analyticsCache, f.ranking, f.classRepo, f.submissionRepo, f.assignments)

	class, err := f.classes.CreateClass(f.ctx, teacher, CreateClassRequest{
		Name:       "Band 7 Prep",
		StudentIDs: []string{student.UserID, student2.UserID},
	})
	require.NoError(t, err)
	f.classID = class.ID
	return f
}

// saveAssignment stores an assignment through the editor
func (f *fixture) saveAssignment(t *testing.T, skill model.SkillType, edit func(d *model.Draft)) *model.Assignment {
	t.Helper()

	d, err := f.draftSvc.StartDraft(f.ctx, teacher, StartDraftRequest{ClassID: f.classID, Type: skill})
	require.NoError(t, err)

	title := "Practice " + string(skill)
	due := mustTime("2026-11-01T09:00:00Z")
	_, err = f.draftSvc.UpdateDetails(f.ctx, teacher, d.ID, DraftDetailsRequest{Title: &title, DueDate: &due})
	require.NoError(t, err)

	if edit != nil {
		stored, err := f.drafts.Get(f.ctx, d.ID)
		require.NoError(t, err)
		edit(stored)
		require.NoError(t, f.drafts.Save(f.ctx, stored))
	}

	res, err := f.draftSvc.Save(f.ctx, teacher, d.ID)
	require.NoError(t, err)
	return res.Assignment
}

// readingQuiz has three auto-graded questions: q1 TRUE, q2 "east", q3 B
func readingQuiz(d *model.Draft) {
	d.Assignment.PassageContent = "<p>passage</p>"
	d.Assignment.QuestionGroups = []model.QuestionGroup{
		{
			ID:   "g1",
			Type: model.QuestionTypeTrueFalseNG,
			Questions: []model.Question{
				{ID: "q1", Type: model.QuestionTypeTrueFalseNG, Text: "Bees dance.", CorrectAnswer: "TRUE"},
			},
		},
		{
			ID:        "g2",
			Type:      model.QuestionTypeFillInBlanks,
			Questions: []model.Question{{ID: "q2", Type: model.QuestionTypeFillInBlanks, Text: "Hives face ___", CorrectAnswer: "east"}},
		},
		{
			ID:   "g3",
			Type: model.QuestionTypeMCQ,
			Questions: []model.Question{{
				ID: "q3", Type: model.QuestionTypeMCQ, Text: "Pick one",
				Options: []string{"a", "b", "c"}, MaxSelection: 1, CorrectAnswer: "B",
			}},
		},
	}
}

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }
