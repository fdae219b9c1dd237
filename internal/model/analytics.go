package model

import "time"

// QuestionAccuracy is how a single question fared across graded submissions
type QuestionAccuracy struct {
	QuestionID   string       `json:"questionId" bson:"questionId"`
	Number       int          `json:"number" bson:"number"` // 1-based position in the flattened list
	Text         string       `json:"text" bson:"text"`
	Type         QuestionType `json:"type" bson:"type"`
	CorrectCount int          `json:"correctCount" bson:"correctCount"`
	AttemptCount int          `json:"attemptCount" bson:"attemptCount"`
	Accuracy     int          `json:"accuracy" bson:"accuracy"` // rounded percentage, 0 when never attempted
}

// ScoreBucket counts graded submissions whose score falls in [Min, Max]
type ScoreBucket struct {
	Label string `json:"label" bson:"label"`
	Min   int    `json:"min" bson:"min"`
	Max   int    `json:"max" bson:"max"`
	Count int    `json:"count" bson:"count"`
}

// IntegritySummary aggregates attempt integrity counters
type IntegritySummary struct {
	FlaggedSubmissions int `json:"flaggedSubmissions" bson:"flaggedSubmissions"`
	TotalTabSwitches   int `json:"totalTabSwitches" bson:"totalTabSwitches"`
	TotalPasteAttempts int `json:"totalPasteAttempts" bson:"totalPasteAttempts"`
}

// AssignmentAnalytics is the teacher dashboard for one assignment
type AssignmentAnalytics struct {
	AssignmentID      string             `json:"assignmentId" bson:"assignmentId"`
	RosterSize        int                `json:"rosterSize" bson:"rosterSize"`
	SubmissionCount   int                `json:"submissionCount" bson:"submissionCount"`
	GradedCount       int                `json:"gradedCount" bson:"gradedCount"`
	AverageScore      int                `json:"averageScore" bson:"averageScore"`
	CompletionRate    int                `json:"completionRate" bson:"completionRate"`
	QuestionAccuracy  []QuestionAccuracy `json:"questionAccuracy" bson:"questionAccuracy"` // hardest first
	ScoreDistribution []ScoreBucket      `json:"scoreDistribution" bson:"scoreDistribution"`
	Integrity         IntegritySummary   `json:"integrity" bson:"integrity"`
	ComputedAt        time.Time          `json:"computedAt" bson:"computedAt"`
}

// RankEntry is one student's place in an assignment's score ranking
type RankEntry struct {
	StudentID string `json:"studentId"`
	Score     int    `json:"score"` // percentage
	Rank      int    `json:"rank"`  // 1-based, 0 when not ranked
}
