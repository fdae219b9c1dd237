package service

import (
	"context"
	"fmt"
	"ieltsprep/internal/cache"
	"ieltsprep/internal/model"
	"ieltsprep/internal/repository"
	"ieltsprep/pkg/logger"
	"ieltsprep/pkg/monitoring"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SubmissionService runs the submission lifecycle: submit, auto-grade,
// teacher review and AI assistance
type SubmissionService struct {
	submissionRepo repository.SubmissionRepo
	assignments    *AssignmentService
	attempts       cache.AttemptCache
	analyticsCache cache.AnalyticsCache
	ranking        cache.RankingCache
	ai             *AIService
	media          *MediaService
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(
	submissionRepo repository.SubmissionRepo,
	assignments *AssignmentService,
	attempts cache.AttemptCache,
	analyticsCache cache.AnalyticsCache,
	ranking cache.RankingCache,
	ai *AIService,
	media *MediaService,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		assignments:    assignments,
		attempts:       attempts,
		analyticsCache: analyticsCache,
		ranking:        ranking,
		ai:             ai,
		media:          media,
	}
}

// SubmitRequest is a student's answers plus client-side integrity counters
type SubmitRequest struct {
	Answers  map[string]string       `json:"answers" validate:"required"`
	Metadata model.IntegrityMetadata `json:"metadata"`
}

// Submit stores a student's only submission for an assignment. Reading and
// listening are graded immediately.
func (s *SubmissionService) Submit(ctx context.Context, p model.Principal, assignmentID string, req SubmitRequest) (*model.Submission, error) {
	if p.Role != model.RoleStudent {
		return nil, ErrForbidden
	}
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	a, err := s.assignments.load(ctx, p, assignmentID, false)
	if err != nil {
		return nil, err
	}

	existing, err := s.submissionRepo.GetByAssignmentAndStudent(ctx, assignmentID, p.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "check submission")
	}
	if existing != nil {
		return nil, ErrSubmissionExists
	}

	metadata := sanitizeMetadata(req.Metadata)
	if server, err := s.attempts.Get(ctx, assignmentID, p.UserID); err != nil {
		logger.Log.Warn("attempt counters unavailable", zap.String("assignmentId", assignmentID), zap.Error(err))
	} else {
		metadata = metadata.Merge(server)
	}

	sub := &model.Submission{
		AssignmentID: assignmentID,
		ClassID:      a.ClassID,
		StudentID:    p.UserID,
		Answers:      req.Answers,
		Status:       model.SubmissionSubmitted,
		Metadata:     metadata,
		SubmittedAt:  time.Now(),
	}
	outcome := "pending_review"
	if a.Type.AutoGraded() {
		result := GradeAnswers(a.FlattenQuestions(), req.Answers)
		sub.Status = model.SubmissionGraded
		sub.Grade = result.Grade
		sub.Report = result.Report
		sub.GradedAt = &sub.SubmittedAt
		outcome = "auto_graded"
	}

	if _, err := s.submissionRepo.Create(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSubmissionExists
		}
		logger.Log.Error("submit failed", zap.String("assignmentId", assignmentID), zap.Error(err))
		return nil, errors.Wrap(err, "create submission")
	}
	monitoring.SubmissionCounter.WithLabelValues(string(a.Type), outcome).Inc()

	if err := s.attempts.Clear(ctx, assignmentID, p.UserID); err != nil {
		logger.Log.Warn("attempt counters not cleared", zap.String("assignmentId", assignmentID), zap.Error(err))
	}
	s.invalidate(ctx, assignmentID)
	if sub.Status == model.SubmissionGraded {
		s.rank(ctx, sub.AssignmentID, sub.StudentID, sub.Grade)
	}
	return sub, nil
}

func sanitizeMetadata(m model.IntegrityMetadata) model.IntegrityMetadata {
	return model.IntegrityMetadata{
		TabSwitches:   max(m.TabSwitches, 0),
		PasteAttempts: max(m.PasteAttempts, 0),
	}
}

// AttemptEventRequest reports one integrity event
type AttemptEventRequest struct {
	Event model.AttemptEvent `json:"event" validate:"oneof=tab_switch paste"`
}

// RecordAttemptEvent counts a tab switch or paste while the student works
func (s *SubmissionService) RecordAttemptEvent(ctx context.Context, p model.Principal, assignmentID string, req AttemptEventRequest) (model.IntegrityMetadata, error) {
	if p.Role != model.RoleStudent {
		return model.IntegrityMetadata{}, ErrForbidden
	}
	if err := ValidateStruct(req); err != nil {
		return model.IntegrityMetadata{}, err
	}
	if _, err := s.assignments.load(ctx, p, assignmentID, false); err != nil {
		return model.IntegrityMetadata{}, err
	}
	meta, err := s.attempts.Record(ctx, assignmentID, p.UserID, req.Event)
	if err != nil {
		return model.IntegrityMetadata{}, errors.Wrap(err, "record attempt event")
	}
	return meta, nil
}

// GetSubmission returns a submission to its student or the class teacher
func (s *SubmissionService) GetSubmission(ctx context.Context, p model.Principal, submissionID string) (*model.Submission, error) {
	sub, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, errors.Wrap(err, "get submission")
	}
	if sub == nil {
		return nil, ErrSubmissionNotFound
	}
	if p.Role == model.RoleStudent {
		if sub.StudentID != p.UserID {
			return nil, ErrForbidden
		}
		return sub, nil
	}
	if _, err := s.assignments.classes.authorize(ctx, p, sub.ClassID, true); err != nil {
		return nil, err
	}
	return sub, nil
}

// MySubmission returns the caller's submission for an assignment
func (s *SubmissionService) MySubmission(ctx context.Context, p model.Principal, assignmentID string) (*model.Submission, error) {
	sub, err := s.submissionRepo.GetByAssignmentAndStudent(ctx, assignmentID, p.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "get submission")
	}
	if sub == nil {
		return nil, ErrSubmissionNotFound
	}
	return sub, nil
}

// ListMine returns every submission of the calling student
func (s *SubmissionService) ListMine(ctx context.Context, p model.Principal) ([]*model.Submission, error) {
	if p.Role != model.RoleStudent {
		return nil, ErrForbidden
	}
	return s.submissionRepo.ListByStudent(ctx, p.UserID)
}

// ListForAssignment returns all submissions of an assignment to its teacher
func (s *SubmissionService) ListForAssignment(ctx context.Context, p model.Principal, assignmentID string) ([]*model.Submission, error) {
	if _, err := s.assignments.load(ctx, p, assignmentID, true); err != nil {
		return nil, err
	}
	return s.submissionRepo.ListByAssignment(ctx, assignmentID)
}

// GradeRequest is a teacher's grade and feedback
type GradeRequest struct {
	Grade    string `json:"grade" validate:"notblank"`
	Feedback string `json:"feedback"`
}

// Grade records a teacher band score for a writing or speaking submission.
// Reading and listening keep the grade computed at submit.
func (s *SubmissionService) Grade(ctx context.Context, p model.Principal, submissionID string, req GradeRequest) (*model.Submission, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	sub, a, err := s.reviewable(ctx, p, submissionID)
	if err != nil {
		return nil, err
	}

	if a.Type.AutoGraded() {
		return nil, NewValidationError("auto-graded submissions keep their computed grade",
			FieldError{Field: "grade", Error: "not gradable by hand"})
	}
	grade, err := normalizeGrade(req.Grade)
	if err != nil {
		return nil, err
	}
	feedback := strings.TrimSpace(req.Feedback)
	if err := s.submissionRepo.UpdateGrade(ctx, submissionID, grade, feedback); err != nil {
		return nil, errors.Wrap(err, "update grade")
	}
	s.invalidate(ctx, sub.AssignmentID)
	s.rank(ctx, sub.AssignmentID, sub.StudentID, grade)

	now := time.Now()
	sub.Status = model.SubmissionGraded
	sub.Grade = grade
	sub.Feedback = feedback
	sub.GradedAt = &now
	return sub, nil
}

func normalizeGrade(grade string) (string, error) {
	band, err := strconv.ParseFloat(strings.TrimSpace(grade), 64)
	if err != nil || !IsValidBand(band) {
		return "", NewValidationError("grade must be a band score from 0 to 9 in steps of 0.5",
			FieldError{Field: "grade", Error: "invalid band score"})
	}
	return FormatBand(band), nil
}

// AIGradeWriting asks the generative AI to assess a writing submission and
// stores the feedback. The status is left for the teacher to finalize.
func (s *SubmissionService) AIGradeWriting(ctx context.Context, p model.Principal, submissionID string) (*model.Submission, error) {
	sub, a, err := s.reviewable(ctx, p, submissionID)
	if err != nil {
		return nil, err
	}
	if a.Type != model.SkillWriting {
		return nil, NewValidationError("AI grading is only available for writing tasks",
			FieldError{Field: "type", Error: "must be WRITING"})
	}
	essay := strings.TrimSpace(sub.Answers[model.EssayAnswerKey])
	if essay == "" {
		return nil, NewValidationError("the submission has no essay",
			FieldError{Field: model.EssayAnswerKey, Error: "is empty"})
	}

	req := WritingGradeRequest{
		TaskType: a.WritingTaskType,
		Prompt:   a.WritingPrompt,
		Essay:    essay,
	}
	if a.WritingTaskType == model.WritingTask1 && a.WritingImage != "" {
		img, mimeType, err := s.media.LoadBase64(ctx, a.WritingImage)
		if err != nil {
			logger.Log.Warn("chart image unavailable, grading without it",
				zap.String("assignmentId", a.ID), zap.Error(err))
		} else {
			req.ChartImage, req.ChartImageMime = img, mimeType
		}
	}

	feedback, err := s.ai.GradeWritingTask(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.submissionRepo.SetAIFeedback(ctx, submissionID, feedback); err != nil {
		return nil, errors.Wrap(err, "store AI feedback")
	}
	sub.AIFeedback = feedback
	return sub, nil
}

// Transcription is the text of one spoken answer
type Transcription struct {
	AnswerKey string `json:"answerKey"`
	Text      string `json:"text"`
}

// Transcribe converts a recorded (data URI) answer to text for the teacher
func (s *SubmissionService) Transcribe(ctx context.Context, p model.Principal, submissionID, answerKey string) (*Transcription, error) {
	sub, _, err := s.reviewable(ctx, p, submissionID)
	if err != nil {
		return nil, err
	}
	answer, ok := sub.Answers[answerKey]
	if !ok {
		return nil, NewValidationError(fmt.Sprintf("no answer %q in this submission", answerKey),
			FieldError{Field: "answerKey", Error: "not found"})
	}
	mimeType, payload, ok := ParseDataURI(answer)
	if !ok || !strings.HasPrefix(mimeType, "audio/") {
		return nil, NewValidationError("the answer is not a recording",
			FieldError{Field: "answerKey", Error: "must reference an audio answer"})
	}

	text, err := s.ai.TranscribeAudio(ctx, payload, mimeType)
	if err != nil {
		return nil, err
	}
	return &Transcription{AnswerKey: answerKey, Text: text}, nil
}

// reviewable loads a submission and its assignment for the class teacher
func (s *SubmissionService) reviewable(ctx context.Context, p model.Principal, submissionID string) (*model.Submission, *model.Assignment, error) {
	if !p.IsTeacher() {
		return nil, nil, ErrForbidden
	}
	sub, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "get submission")
	}
	if sub == nil {
		return nil, nil, ErrSubmissionNotFound
	}
	a, err := s.assignments.load(ctx, p, sub.AssignmentID, true)
	if err != nil {
		return nil, nil, err
	}
	return sub, a, nil
}

func (s *SubmissionService) invalidate(ctx context.Context, assignmentID string) {
	if err := s.analyticsCache.Invalidate(ctx, assignmentID); err != nil {
		logger.Log.Warn("analytics cache not invalidated", zap.String("assignmentId", assignmentID), zap.Error(err))
	}
}

// rank records a graded score in the assignment's ranking
func (s *SubmissionService) rank(ctx context.Context, assignmentID, studentID, grade string) {
	pct, ok := ParseGradePercent(grade)
	if !ok {
		logger.Log.Warn("grade not ranked", zap.String("assignmentId", assignmentID), zap.String("grade", grade))
		return
	}
	if err := s.ranking.SetScore(ctx, assignmentID, studentID, pct); err != nil {
		logger.Log.Warn("ranking not updated", zap.String("assignmentId", assignmentID), zap.Error(err))
	}
}
