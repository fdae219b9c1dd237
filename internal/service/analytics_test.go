package service

import (
	"fmt"
	"ieltsprep/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenQuestionAssignment() *model.Assignment {
	qs := make([]model.Question, 10)
	for i := range qs {
		qs[i] = model.Question{
			ID:            fmt.Sprintf("q%d", i+1),
			Type:          model.QuestionTypeFillInBlanks,
			CorrectAnswer: "ok",
		}
	}
	return &model.Assignment{
		ID:   "a1",
		Type: model.SkillReading,
		QuestionGroups: []model.QuestionGroup{
			{ID: "g1", Type: model.QuestionTypeFillInBlanks, Questions: qs[:5]},
			{ID: "g2", Type: model.QuestionTypeFillInBlanks, Questions: qs[5:]},
		},
	}
}

func gradedSubmission(a *model.Assignment, student string, answers map[string]string) *model.Submission {
	res := GradeAnswers(a.FlattenQuestions(), answers)
	return &model.Submission{
		ID:           "s-" + student,
		AssignmentID: a.ID,
		StudentID:    student,
		Answers:      answers,
		Status:       model.SubmissionGraded,
		Grade:        res.Grade,
		Report:       res.Report,
	}
}

func TestComputeAnalytics_AverageAndCompletion(t *testing.T) {
	a := tenQuestionAssignment()
	roster := make([]string, 8)
	for i := range roster {
		roster[i] = fmt.Sprintf("st%d", i)
	}

	// 6 students each with 8 of 10 correct
	var subs []*model.Submission
	for i := 0; i < 6; i++ {
		answers := map[string]string{}
		for j := 1; j <= 10; j++ {
			answers[fmt.Sprintf("q%d", j)] = "ok"
		}
		answers["q9"] = "wrong"
		answers["q10"] = "wrong"
		subs = append(subs, gradedSubmission(a, roster[i], answers))
	}

	got := ComputeAnalytics(AnalyticsInput{Assignment: a, Roster: roster, Submissions: subs})

	assert.Equal(t, "a1", got.AssignmentID)
	assert.Equal(t, 80, got.AverageScore)
	assert.Equal(t, 75, got.CompletionRate)
	assert.Equal(t, 6, got.GradedCount)
	assert.Equal(t, 6, got.ScoreDistribution[4].Count)

	require.Len(t, got.QuestionAccuracy, 10)
	assert.Equal(t, "q9", got.QuestionAccuracy[0].QuestionID)
	assert.Equal(t, "q10", got.QuestionAccuracy[1].QuestionID)
	assert.Equal(t, 0, got.QuestionAccuracy[0].Accuracy)
	assert.Equal(t, 100, got.QuestionAccuracy[2].Accuracy)
	assert.Equal(t, "q1", got.QuestionAccuracy[2].QuestionID)
}

func TestComputeAnalytics_AttemptsExcludeUnanswered(t *testing.T) {
	a := tenQuestionAssignment()
	subs := []*model.Submission{
		gradedSubmission(a, "x", map[string]string{"q1": "ok"}),
		gradedSubmission(a, "y", map[string]string{"q1": "no", "q2": "ok"}),
		gradedSubmission(a, "z", map[string]string{"q1": "  "}),
	}

	got := ComputeAnalytics(AnalyticsInput{Assignment: a, Roster: []string{"x", "y", "z"}, Submissions: subs})

	byID := map[string]model.QuestionAccuracy{}
	for _, qa := range got.QuestionAccuracy {
		byID[qa.QuestionID] = qa
	}
	assert.Equal(t, 2, byID["q1"].AttemptCount)
	assert.Equal(t, 1, byID["q1"].CorrectCount)
	assert.Equal(t, 50, byID["q1"].Accuracy)
	assert.Equal(t, 1, byID["q2"].AttemptCount)
	assert.Equal(t, 100, byID["q2"].Accuracy)
	assert.Equal(t, 0, byID["q3"].AttemptCount)
	assert.Equal(t, 0, byID["q3"].Accuracy)
	assert.Equal(t, 100, got.CompletionRate)
}

func TestComputeAnalytics_Degenerate(t *testing.T) {
	a := tenQuestionAssignment()

	t.Run("no submissions", func(t *testing.T) {
		got := ComputeAnalytics(AnalyticsInput{Assignment: a, Roster: []string{"a", "b"}})
		assert.Equal(t, 0, got.AverageScore)
		assert.Equal(t, 0, got.CompletionRate)
		for _, qa := range got.QuestionAccuracy {
			assert.Equal(t, 0, qa.Accuracy)
		}
	})

	t.Run("empty roster", func(t *testing.T) {
		sub := gradedSubmission(a, "ghost", map[string]string{"q1": "ok"})
		got := ComputeAnalytics(AnalyticsInput{Assignment: a, Submissions: []*model.Submission{sub}})
		assert.Equal(t, 0, got.CompletionRate)
		assert.Equal(t, 10, got.AverageScore)
	})

	t.Run("submitters off the roster are not counted", func(t *testing.T) {
		subs := []*model.Submission{
			gradedSubmission(a, "a", nil),
			gradedSubmission(a, "b", nil),
		}
		got := ComputeAnalytics(AnalyticsInput{Assignment: a, Roster: []string{"a", "c"}, Submissions: subs})
		assert.Equal(t, 50, got.CompletionRate)
		assert.Equal(t, 2, got.SubmissionCount)

		var former []*model.Submission
		for i := 0; i < 6; i++ {
			former = append(former, gradedSubmission(a, fmt.Sprintf("gone%d", i), nil))
		}
		got = ComputeAnalytics(AnalyticsInput{Assignment: a, Roster: []string{"zz"}, Submissions: former})
		assert.Equal(t, 0, got.CompletionRate)
	})

	t.Run("nil assignment", func(t *testing.T) {
		got := ComputeAnalytics(AnalyticsInput{})
		assert.Empty(t, got.QuestionAccuracy)
		assert.Len(t, got.ScoreDistribution, 5)
	})
}

func TestComputeAnalytics_PendingAndBandGrades(t *testing.T) {
	w := &model.Assignment{ID: "w1", Type: model.SkillWriting}
	subs := []*model.Submission{
		{ID: "1", StudentID: "a", Status: model.SubmissionGraded, Grade: "6.5"},
		{ID: "2", StudentID: "b", Status: model.SubmissionGraded, Grade: "9"},
		{ID: "3", StudentID: "c", Status: model.SubmissionSubmitted, Metadata: model.IntegrityMetadata{TabSwitches: 3}},
		{ID: "4", StudentID: "d", Status: model.SubmissionGraded, Grade: "n/a", Metadata: model.IntegrityMetadata{PasteAttempts: 1}},
	}

	got := ComputeAnalytics(AnalyticsInput{Assignment: w, Roster: []string{"a", "b", "c", "d"}, Submissions: subs})

	// (72.2 + 100) / 2
	assert.Equal(t, 86, got.AverageScore)
	assert.Equal(t, 100, got.CompletionRate)
	assert.Equal(t, 3, got.GradedCount)
	assert.Equal(t, 2, got.Integrity.FlaggedSubmissions)
	assert.Equal(t, 3, got.Integrity.TotalTabSwitches)
	assert.Equal(t, 1, got.Integrity.TotalPasteAttempts)
	assert.Equal(t, 1, got.ScoreDistribution[3].Count)
	assert.Equal(t, 1, got.ScoreDistribution[4].Count)
}
