package service

import (
	"ieltsprep/internal/model"
	"ieltsprep/pkg/logger"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// AnalyticsInput is everything the aggregator needs for one assignment
type AnalyticsInput struct {
	Assignment  *model.Assignment
	Roster      []string
	Submissions []*model.Submission
}

var scoreBuckets = []model.ScoreBucket{
	{Label: "0-19", Min: 0, Max: 19},
	{Label: "20-39", Min: 20, Max: 39},
	{Label: "40-59", Min: 40, Max: 59},
	{Label: "60-79", Min: 60, Max: 79},
	{Label: "80-100", Min: 80, Max: 100},
}

// ComputeAnalytics aggregates accuracy, scores, completion and integrity for
// one assignment. Percentages are always in [0, 100].
func ComputeAnalytics(in AnalyticsInput) model.AssignmentAnalytics {
	out := model.AssignmentAnalytics{
		RosterSize:        len(in.Roster),
		SubmissionCount:   len(in.Submissions),
		ScoreDistribution: make([]model.ScoreBucket, len(scoreBuckets)),
		QuestionAccuracy:  []model.QuestionAccuracy{},
		ComputedAt:        time.Now(),
	}
	copy(out.ScoreDistribution, scoreBuckets)

	var questions []model.Question
	if in.Assignment != nil {
		out.AssignmentID = in.Assignment.ID
		questions = in.Assignment.FlattenQuestions()
	}

	enrolled := make(map[string]bool, len(in.Roster))
	for _, id := range in.Roster {
		enrolled[id] = true
	}

	var graded []*model.Submission
	submitters := make(map[string]struct{}, len(in.Submissions))
	for _, sub := range in.Submissions {
		if sub == nil {
			continue
		}
		// students who left the class do not count toward completion
		if enrolled[sub.StudentID] {
			submitters[sub.StudentID] = struct{}{}
		}
		if sub.Metadata.Flagged() {
			out.Integrity.FlaggedSubmissions++
		}
		out.Integrity.TotalTabSwitches += sub.Metadata.TabSwitches
		out.Integrity.TotalPasteAttempts += sub.Metadata.PasteAttempts
		if sub.Status == model.SubmissionGraded {
			graded = append(graded, sub)
		}
	}
	out.GradedCount = len(graded)

	out.QuestionAccuracy = questionAccuracy(questions, graded)

	var total float64
	var scored int
	for _, sub := range graded {
		pct, ok := ParseGradePercent(sub.Grade)
		if !ok {
			logger.Log.Warn("skipping unreadable grade in analytics",
				zap.String("submissionId", sub.ID),
				zap.String("grade", sub.Grade))
			continue
		}
		total += pct
		scored++
		bucketScore(out.ScoreDistribution, int(math.Round(pct)))
	}
	if scored > 0 {
		out.AverageScore = roundPercent(total / float64(scored))
	}

	if out.RosterSize > 0 {
		out.CompletionRate = roundPercent(float64(len(submitters)) / float64(out.RosterSize) * 100)
	}

	return out
}

func questionAccuracy(questions []model.Question, graded []*model.Submission) []model.QuestionAccuracy {
	stats := make([]model.QuestionAccuracy, len(questions))
	for i, q := range questions {
		s := model.QuestionAccuracy{
			QuestionID: q.ID,
			Number:     i + 1,
			Text:       q.Text,
			Type:       q.Type,
		}
		for _, sub := range graded {
			answer := strings.TrimSpace(sub.Answers[q.ID])
			if answer == "" {
				continue
			}
			s.AttemptCount++
			if result, ok := sub.Report[q.ID]; ok {
				if result.IsCorrect {
					s.CorrectCount++
				}
			} else if CompareAnswer(q, answer) {
				s.CorrectCount++
			}
		}
		if s.AttemptCount > 0 {
			s.Accuracy = roundPercent(float64(s.CorrectCount) / float64(s.AttemptCount) * 100)
		}
		stats[i] = s
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Accuracy < stats[j].Accuracy
	})
	return stats
}

func bucketScore(buckets []model.ScoreBucket, score int) {
	for i := range buckets {
		if score >= buckets[i].Min && score <= buckets[i].Max {
			buckets[i].Count++
			return
		}
	}
}

func roundPercent(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(clampPercent(v)))
}
