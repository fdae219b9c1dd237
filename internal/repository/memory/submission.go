package memory

import (
	"context"
	"ieltsprep/internal/model"
	"ieltsprep/internal/repository"
	"sort"
	"sync"
	"time"
)

// SubmissionRepo is an in-memory repository.SubmissionRepo enforcing one
// submission per student per assignment
type SubmissionRepo struct {
	mu          sync.RWMutex
	submissions map[string]model.Submission
}

// NewSubmissionRepo creates an empty submission store
func NewSubmissionRepo() *SubmissionRepo {
	return &SubmissionRepo{submissions: make(map[string]model.Submission)}
}

func cloneSubmission(s model.Submission) *model.Submission {
	if s.Answers != nil {
		answers := make(map[string]string, len(s.Answers))
		for k, v := range s.Answers {
			answers[k] = v
		}
		s.Answers = answers
	}
	if s.Report != nil {
		report := make(map[string]model.QuestionResult, len(s.Report))
		for k, v := range s.Report {
			report[k] = v
		}
		s.Report = report
	}
	if s.AIFeedback != nil {
		fb := *s.AIFeedback
		s.AIFeedback = &fb
	}
	if s.GradedAt != nil {
		at := *s.GradedAt
		s.GradedAt = &at
	}
	return &s
}

func (r *SubmissionRepo) Create(ctx context.Context, submission *model.Submission) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.submissions {
		if s.AssignmentID == submission.AssignmentID && s.StudentID == submission.StudentID {
			return "", repository.ErrDuplicate
		}
	}
	if submission.ID == "" {
		submission.ID = repository.NewID()
	}
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now()
	}
	r.submissions[submission.ID] = *cloneSubmission(*submission)
	return submission.ID, nil
}

func (r *SubmissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.submissions[id]
	if !ok {
		return nil, nil
	}
	return cloneSubmission(s), nil
}

func (r *SubmissionRepo) GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (*model.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.submissions {
		if s.AssignmentID == assignmentID && s.StudentID == studentID {
			return cloneSubmission(s), nil
		}
	}
	return nil, nil
}

func (r *SubmissionRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]*model.Submission, error) {
	return r.filter(func(s model.Submission) bool { return s.AssignmentID == assignmentID }), nil
}

func (r *SubmissionRepo) ListByStudent(ctx context.Context, studentID string) ([]*model.Submission, error) {
	return r.filter(func(s model.Submission) bool { return s.StudentID == studentID }), nil
}

func (r *SubmissionRepo) filter(keep func(model.Submission) bool) []*model.Submission {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*model.Submission{}
	for _, s := range r.submissions {
		if keep(s) {
			out = append(out, cloneSubmission(s))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out
}

func (r *SubmissionRepo) UpdateGrade(ctx context.Context, id, grade, feedback string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.submissions[id]
	if !ok {
		return nil
	}
	now := time.Now()
	s.Status = model.SubmissionGraded
	s.Grade = grade
	s.Feedback = feedback
	s.GradedAt = &now
	r.submissions[id] = s
	return nil
}

func (r *SubmissionRepo) SetAIFeedback(ctx context.Context, id string, feedback *model.WritingFeedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.submissions[id]
	if !ok {
		return nil
	}
	if feedback != nil {
		fb := *feedback
		s.AIFeedback = &fb
	} else {
		s.AIFeedback = nil
	}
	r.submissions[id] = s
	return nil
}

func (r *SubmissionRepo) DeleteByAssignment(ctx context.Context, assignmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.submissions {
		if s.AssignmentID == assignmentID {
			delete(r.submissions, id)
		}
	}
	return nil
}
