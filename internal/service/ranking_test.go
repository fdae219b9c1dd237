package service

import (
	"testing"

	"ieltsprep/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankingFollowsGrades(t *testing.T) {
	f := newFixture(t)
	a := f.saveAssignment(t, model.SkillReading, readingQuiz)

	_, err := f.submissions.Submit(f.ctx, student, a.ID, SubmitRequest{
		Answers: map[string]string{"q1": "TRUE", "q2": "East", "q3": "B"},
	})
	require.NoError(t, err)
	_, err = f.submissions.Submit(f.ctx, student2, a.ID, SubmitRequest{
		Answers: map[string]string{"q1": "TRUE", "q2": "west", "q3": "A"},
	})
	require.NoError(t, err)

	top, err := f.analytics.Ranking(f.ctx, teacher, a.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []model.RankEntry{
		{StudentID: "s1", Score: 100, Rank: 1},
		{StudentID: "s2", Score: 33, Rank: 2},
	}, top)

	top, err = f.analytics.Ranking(f.ctx, teacher, a.ID, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)

	mine, err := f.analytics.MyRank(f.ctx, student2, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RankEntry{StudentID: "s2", Score: 33, Rank: 2}, mine)

	_, err = f.analytics.Ranking(f.ctx, student, a.ID, 0)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.analytics.MyRank(f.ctx, teacher, a.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.analytics.MyRank(f.ctx, outsider, a.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRankingWaitsForTeacherGrade(t *testing.T) {
	f := newFixture(t)
	a := f.saveAssignment(t, model.SkillWriting, writingTask)

	sub, err := f.submissions.Submit(f.ctx, student, a.ID, SubmitRequest{
		Answers: map[string]string{model.EssayAnswerKey: "An essay."},
	})
	require.NoError(t, err)

	mine, err := f.analytics.MyRank(f.ctx, student, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, mine.Rank, "not ranked before grading")

	_, err = f.submissions.Grade(f.ctx, teacher, sub.ID, GradeRequest{Grade: "6"})
	require.NoError(t, err)

	mine, err = f.analytics.MyRank(f.ctx, student, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, mine.Rank)
	assert.Equal(t, 67, mine.Score, "band 6 of 9")
}

func TestRankingRebuildsFromSubmissions(t *testing.T) {
	f := newFixture(t)
	a := f.saveAssignment(t, model.SkillReading, readingQuiz)

	_, err := f.submissions.Submit(f.ctx, student, a.ID, SubmitRequest{
		Answers: map[string]string{"q1": "FALSE", "q2": "east", "q3": "B"},
	})
	require.NoError(t, err)

	// the ranking store was flushed
	require.NoError(t, f.ranking.Delete(f.ctx, a.ID))

	top, err := f.analytics.Ranking(f.ctx, teacher, a.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, []model.RankEntry{{StudentID: "s1", Score: 67, Rank: 1}}, top)

	require.NoError(t, f.ranking.Delete(f.ctx, a.ID))
	mine, err := f.analytics.MyRank(f.ctx, student, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, mine.Rank)
}

func TestDeleteAssignmentDropsRanking(t *testing.T) {
	f := newFixture(t)
	a := f.saveAssignment(t, model.SkillReading, readingQuiz)

	_, err := f.submissions.Submit(f.ctx, student, a.ID, SubmitRequest{
		Answers: map[string]string{"q1": "TRUE"},
	})
	require.NoError(t, err)

	require.NoError(t, f.assignments.DeleteAssignment(f.ctx, teacher, a.ID))

	top, err := f.ranking.Top(f.ctx, a.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}
