package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"ieltsprep/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAssignmentHidesAnswersFromStudents(t *testing.T) {
	f := newFixture(t)
	a := f.saveAssignment(t, model.SkillReading, readingQuiz)

	view, err := f.assignments.GetAssignment(f.ctx, student, a.ID)
	require.NoError(t, err)
	for _, q := range view.FlattenQuestions() {
		assert.Empty(t, q.CorrectAnswer, q.ID)
	}

	full, err := f.assignments.GetAssignment(f.ctx, teacher, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "TRUE", full.FlattenQuestions()[0].CorrectAnswer)

	_, err = f.assignments.GetAssignment(f.ctx, outsider, a.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListForClassFlagsMissingFolders(t *testing.T) {
	f := newFixture(t)
	folder, err := f.folders.CreateFolder(f.ctx, teacher, f.classID, FolderRequest{Name: "Week 1"})
	require.NoError(t, err)

	filed := f.saveAssignment(t, model.SkillReading, func(d *model.Draft) {
		readingQuiz(d)
		d.FolderID = folder.ID
	})
	loose := f.saveAssignment(t, model.SkillReading, readingQuiz)

	require.NoError(t, f.folders.DeleteFolder(f.ctx, teacher, folder.ID))

	snap, err := f.assignments.ListForClass(f.ctx, student, f.classID)
	require.NoError(t, err)
	assert.Empty(t, snap.Folders)
	require.Len(t, snap.Assignments, 2)

	flags := map[string]bool{}
	for _, item := range snap.Assignments {
		flags[item.ID] = item.FolderMissing
		for _, q := range item.FlattenQuestions() {
			assert.Empty(t, q.CorrectAnswer)
		}
	}
	assert.True(t, flags[filed.ID])
	assert.False(t, flags[loose.ID])
}

func TestMoveToFolder(t *testing.T) {
	f := newFixture(t)
	a := f.saveAssignment(t, model.SkillReading, readingQuiz)
	folder, err := f.folders.CreateFolder(f.ctx, teacher, f.classID, FolderRequest{Name: "Week 2"})
	require.NoError(t, err)

	moved, err := f.assignments.MoveToFolder(f.ctx, teacher, a.ID, MoveRequest{FolderID: folder.ID})
	require.NoError(t, err)
	assert.Equal(t, folder.ID, moved.GroupID)

	_, err = f.assignments.MoveToFolder(f.ctx, teacher, a.ID, MoveRequest{FolderID: "missing"})
	assert.ErrorIs(t, err, ErrFolderNotFound)

	ungrouped, err := f.assignments.MoveToFolder(f.ctx, teacher, a.ID, MoveRequest{})
	require.NoError(t, err)
	assert.Empty(t, ungrouped.GroupID)

	_, err = f.assignments.MoveToFolder(f.ctx, student, a.ID, MoveRequest{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteAssignmentRemovesSubmissions(t *testing.T) {
	f := newFixture(t)
	a := f.saveAssignment(t, model.SkillReading, readingQuiz)

	_, err := f.submissions.Submit(f.ctx, student, a.ID, SubmitRequest{Answers: map[string]string{}})
	require.NoError(t, err)

	assert.ErrorIs(t, f.assignments.DeleteAssignment(f.ctx, student, a.ID), ErrForbidden)
	require.NoError(t, f.assignments.DeleteAssignment(f.ctx, teacher, a.ID))

	_, err = f.assignments.GetAssignment(f.ctx, teacher, a.ID)
	assert.ErrorIs(t, err, ErrAssignmentNotFound)

	subs, err := f.submissionRepo.ListByAssignment(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestAssignmentAnalyticsCaching(t *testing.T) {
	f := newFixture(t)
	a := f.saveAssignment(t, model.SkillReading, readingQuiz)

	_, err := f.analytics.GetAssignmentAnalytics(f.ctx, student, a.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.submissions.Submit(f.ctx, student, a.ID, SubmitRequest{
		Answers: map[string]string{"q1": "TRUE", "q2": "east", "q3": "B"},
	})
	require.NoError(t, err)

	first, err := f.analytics.GetAssignmentAnalytics(f.ctx, teacher, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, first.RosterSize)
	assert.Equal(t, 1, first.SubmissionCount)
	assert.Equal(t, 100, first.AverageScore)
	assert.Equal(t, 50, first.CompletionRate)

	// written behind the service's back, so the cached result stays
	_, err = f.submissionRepo.Create(f.ctx, &model.Submission{
		AssignmentID: a.ID,
		ClassID:      f.classID,
		StudentID:    student2.UserID,
		Answers:      map[string]string{},
		Status:       model.SubmissionSubmitted,
		SubmittedAt:  time.Now(),
	})
	require.NoError(t, err)

	cached, err := f.analytics.GetAssignmentAnalytics(f.ctx, teacher, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cached.SubmissionCount)

	require.NoError(t, f.assignments.analyticsCache.Invalidate(f.ctx, a.ID))
	fresh, err := f.analytics.GetAssignmentAnalytics(f.ctx, teacher, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.SubmissionCount)
	assert.Equal(t, 100, fresh.CompletionRate)
}

func TestSubmitInvalidatesAnalytics(t *testing.T) {
	f := newFixture(t)
	a := f.saveAssignment(t, model.SkillReading, readingQuiz)

	before, err := f.analytics.GetAssignmentAnalytics(f.ctx, teacher, a.ID)
	require.NoError(t, err)
	assert.Zero(t, before.SubmissionCount)

	_, err = f.submissions.Submit(f.ctx, student, a.ID, SubmitRequest{Answers: map[string]string{}})
	require.NoError(t, err)

	after, err := f.analytics.GetAssignmentAnalytics(f.ctx, teacher, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.SubmissionCount)
}

// fakeBroadcaster captures snapshots pushed to a class
type fakeBroadcaster struct {
	mu   sync.Mutex
	sent []sentSnapshot
	got  chan struct{}
}

type sentSnapshot struct {
	classID string
	role    model.Role
	snap    *model.ClassSnapshot
}

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{got: make(chan struct{}, 64)}
}

func (b *fakeBroadcaster) BroadcastToClass(classID string, role model.Role, msgType string, payload interface{}) {
	b.mu.Lock()
	b.sent = append(b.sent, sentSnapshot{classID: classID, role: role, snap: payload.(*model.ClassSnapshot)})
	b.mu.Unlock()
	b.got <- struct{}{}
}

func (b *fakeBroadcaster) ActiveClasses() []string { return nil }

func (b *fakeBroadcaster) wait(t *testing.T, n int) []sentSnapshot {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-b.got:
		case <-time.After(2 * time.Second):
			t.Fatalf("waited for %d broadcasts, got %d", n, i)
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]sentSnapshot(nil), b.sent...)
}

func TestClassFeedPushesSnapshots(t *testing.T) {
	f := newFixture(t)
	b := newFakeBroadcaster()
	feed := NewClassFeed(f.assignmentRepo, f.assignments, b)

	ctx, cancel := context.WithCancel(f.ctx)
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = feed.Run(ctx)
	}()

	feed.Notify(f.classID)
	sent := b.wait(t, 2)
	assert.Equal(t, model.RoleTeacher, sent[0].role)
	assert.Equal(t, model.RoleStudent, sent[1].role)
	assert.Equal(t, f.classID, sent[0].classID)

	// an assignment write reaches subscribers through the change stream
	f.saveAssignment(t, model.SkillReading, readingQuiz)
	sent = b.wait(t, 2)
	last := sent[len(sent)-1]
	assert.Equal(t, model.RoleStudent, last.role)
	require.Len(t, last.snap.Assignments, 1)
	assert.Empty(t, last.snap.Assignments[0].FlattenQuestions()[0].CorrectAnswer)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("feed did not stop")
	}
}
