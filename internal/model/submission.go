package model

import "time"

// SubmissionStatus tracks where a submission is in the review flow
type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "SUBMITTED" // waiting for teacher review
	SubmissionGraded    SubmissionStatus = "GRADED"
)

// EssayAnswerKey is the answers key holding a writing task's essay
const EssayAnswerKey = "essay"

// IntegrityMetadata counts suspicious events during a timed attempt
type IntegrityMetadata struct {
	TabSwitches   int `json:"tabSwitches" bson:"tabSwitches"`
	PasteAttempts int `json:"pasteAttempts" bson:"pasteAttempts"`
}

// Flagged reports whether any integrity event was recorded
func (m IntegrityMetadata) Flagged() bool {
	return m.TabSwitches > 0 || m.PasteAttempts > 0
}

// Merge keeps the larger of each counter
func (m IntegrityMetadata) Merge(other IntegrityMetadata) IntegrityMetadata {
	return IntegrityMetadata{
		TabSwitches:   max(m.TabSwitches, other.TabSwitches),
		PasteAttempts: max(m.PasteAttempts, other.PasteAttempts),
	}
}

// AttemptEvent is an integrity event reported while a student works
type AttemptEvent string

const (
	AttemptEventTabSwitch AttemptEvent = "tab_switch"
	AttemptEventPaste     AttemptEvent = "paste"
)

// QuestionResult is the per-question grading outcome
type QuestionResult struct {
	QuestionID    string `json:"questionId" bson:"questionId"`
	IsCorrect     bool   `json:"isCorrect" bson:"isCorrect"`
	StudentAnswer string `json:"studentAnswer" bson:"studentAnswer"`
	CorrectAnswer string `json:"correctAnswer" bson:"correctAnswer"`
}

// Submission is one student's attempt at an assignment
type Submission struct {
	ID           string                    `json:"id" bson:"_id,omitempty"`
	AssignmentID string                    `json:"assignmentId" bson:"assignmentId"`
	ClassID      string                    `json:"classId" bson:"classId"`
	StudentID    string                    `json:"studentId" bson:"studentId"`
	Answers      map[string]string         `json:"answers" bson:"answers"`
	Status       SubmissionStatus          `json:"status" bson:"status"`
	Grade        string                    `json:"grade,omitempty" bson:"grade,omitempty"`
	Report       map[string]QuestionResult `json:"report,omitempty" bson:"report,omitempty"`
	Feedback     string                    `json:"feedback,omitempty" bson:"feedback,omitempty"`
	AIFeedback   *WritingFeedback          `json:"aiFeedback,omitempty" bson:"aiFeedback,omitempty"`
	Metadata     IntegrityMetadata         `json:"metadata" bson:"metadata"`
	SubmittedAt  time.Time                 `json:"submittedAt" bson:"submittedAt"`
	GradedAt     *time.Time                `json:"gradedAt,omitempty" bson:"gradedAt,omitempty"`
}

// CriterionScore is one IELTS band descriptor result
type CriterionScore struct {
	Score   float64 `json:"score" bson:"score"`
	Comment string  `json:"comment" bson:"comment"`
}

// WritingCriteria holds the four IELTS writing criteria
type WritingCriteria struct {
	TaskAchievement   CriterionScore `json:"taskAchievement" bson:"taskAchievement"`
	CoherenceCohesion CriterionScore `json:"coherenceCohesion" bson:"coherenceCohesion"`
	LexicalResource   CriterionScore `json:"lexicalResource" bson:"lexicalResource"`
	GrammaticalRange  CriterionScore `json:"grammaticalRange" bson:"grammaticalRange"`
}

// WritingFeedback is the generative-AI assessment of an essay
type WritingFeedback struct {
	OverallBand        float64         `json:"overallBand" bson:"overallBand"`
	Criteria           WritingCriteria `json:"criteria" bson:"criteria"`
	CorrectedEssayHTML string          `json:"correctedEssayHtml" bson:"correctedEssayHtml"`
	GeneralComment     string          `json:"generalComment" bson:"generalComment"`
}

// QuizExtraction is the generative-AI reading of an image or PDF, and also
// the JSON bulk-import document shape
type QuizExtraction struct {
	PassageContent string          `json:"passageContent"`
	QuestionGroups []QuestionGroup `json:"questionGroups"`
}
