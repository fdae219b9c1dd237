package service

import (
	"context"
	"ieltsprep/internal/cache"
	"ieltsprep/internal/model"
	"ieltsprep/internal/repository"
	"ieltsprep/pkg/logger"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// AssignmentService serves stored assignments to teachers and students
type AssignmentService struct {
	assignmentRepo repository.AssignmentRepo
	folderRepo     repository.FolderRepo
	submissionRepo repository.SubmissionRepo
	analyticsCache cache.AnalyticsCache
	ranking        cache.RankingCache
	classes        *ClassService
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(
	assignmentRepo repository.AssignmentRepo,
	folderRepo repository.FolderRepo,
	submissionRepo repository.SubmissionRepo,
	analyticsCache cache.AnalyticsCache,
	ranking cache.RankingCache,
	classes *ClassService,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		folderRepo:     folderRepo,
		submissionRepo: submissionRepo,
		analyticsCache: analyticsCache,
		ranking:        ranking,
		classes:        classes,
	}
}

// GetAssignment returns an assignment; students get the answer-free view
func (s *AssignmentService) GetAssignment(ctx context.Context, p model.Principal, assignmentID string) (*model.Assignment, error) {
	a, err := s.load(ctx, p, assignmentID, false)
	if err != nil {
		return nil, err
	}
	if !p.IsTeacher() {
		view := StudentView(*a)
		return &view, nil
	}
	return a, nil
}

// ListForClass returns a class's assignments ordered by due date. Assignments
// whose folder was deleted are flagged rather than hidden.
func (s *AssignmentService) ListForClass(ctx context.Context, p model.Principal, classID string) (*model.ClassSnapshot, error) {
	if _, err := s.classes.authorize(ctx, p, classID, false); err != nil {
		return nil, err
	}
	return s.Snapshot(ctx, classID, p.Role)
}

// Snapshot builds the class listing for a role without access checks
func (s *AssignmentService) Snapshot(ctx context.Context, classID string, role model.Role) (*model.ClassSnapshot, error) {
	folders, err := s.folderRepo.ListByClass(ctx, classID)
	if err != nil {
		return nil, errors.Wrap(err, "list folders")
	}
	assignments, err := s.assignmentRepo.ListByClass(ctx, classID)
	if err != nil {
		return nil, errors.Wrap(err, "list assignments")
	}

	known := make(map[string]bool, len(folders))
	snap := &model.ClassSnapshot{
		ClassID:     classID,
		Folders:     make([]model.AssignmentGroup, 0, len(folders)),
		Assignments: make([]model.AssignmentListItem, 0, len(assignments)),
		At:          time.Now(),
	}
	for _, f := range folders {
		known[f.ID] = true
		snap.Folders = append(snap.Folders, *f)
	}
	for _, a := range assignments {
		item := model.AssignmentListItem{Assignment: *a}
		if role != model.RoleTeacher {
			item.Assignment = StudentView(*a)
		}
		if a.GroupID != "" && !known[a.GroupID] {
			item.FolderMissing = true
			logger.Log.Warn("assignment references a missing folder",
				zap.String("assignmentId", a.ID),
				zap.String("groupId", a.GroupID))
		}
		snap.Assignments = append(snap.Assignments, item)
	}
	return snap, nil
}

// MoveRequest is the input of MoveToFolder; an empty folder id ungroups
type MoveRequest struct {
	FolderID string `json:"folderId"`
}

// MoveToFolder files an assignment under another folder of its class
func (s *AssignmentService) MoveToFolder(ctx context.Context, p model.Principal, assignmentID string, req MoveRequest) (*model.Assignment, error) {
	a, err := s.load(ctx, p, assignmentID, true)
	if err != nil {
		return nil, err
	}
	if req.FolderID != "" {
		folder, err := s.folderRepo.GetByID(ctx, req.FolderID)
		if err != nil {
			return nil, errors.Wrap(err, "get folder")
		}
		if folder == nil || folder.ClassID != a.ClassID {
			return nil, ErrFolderNotFound
		}
	}
	a.GroupID = req.FolderID
	if err := s.assignmentRepo.Replace(ctx, a); err != nil {
		return nil, errors.Wrap(err, "move assignment")
	}
	return a, nil
}

// DeleteAssignment removes an assignment and its submissions
func (s *AssignmentService) DeleteAssignment(ctx context.Context, p model.Principal, assignmentID string) error {
	if _, err := s.load(ctx, p, assignmentID, true); err != nil {
		return err
	}
	if err := s.submissionRepo.DeleteByAssignment(ctx, assignmentID); err != nil {
		return errors.Wrap(err, "delete submissions")
	}
	if err := s.assignmentRepo.Delete(ctx, assignmentID); err != nil {
		return errors.Wrap(err, "delete assignment")
	}
	if err := s.analyticsCache.Invalidate(ctx, assignmentID); err != nil {
		logger.Log.Warn("analytics cache not invalidated", zap.String("assignmentId", assignmentID), zap.Error(err))
	}
	if err := s.ranking.Delete(ctx, assignmentID); err != nil {
		logger.Log.Warn("ranking not deleted", zap.String("assignmentId", assignmentID), zap.Error(err))
	}
	return nil
}

// load fetches an assignment the caller may read, or manage
func (s *AssignmentService) load(ctx context.Context, p model.Principal, assignmentID string, manage bool) (*model.Assignment, error) {
	a, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, errors.Wrap(err, "get assignment")
	}
	if a == nil {
		return nil, ErrAssignmentNotFound
	}
	if _, err := s.classes.authorize(ctx, p, a.ClassID, manage); err != nil {
		return nil, err
	}
	return a, nil
}
