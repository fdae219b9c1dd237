package service

import (
	"context"
	"ieltsprep/internal/cache"
	"ieltsprep/internal/model"
	"ieltsprep/internal/repository"
	"ieltsprep/pkg/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AnalyticsService serves cached assignment analytics to teachers
type AnalyticsService struct {
	analyticsCache cache.AnalyticsCache
	ranking        cache.RankingCache
	classRepo      repository.ClassRepo
	submissionRepo repository.SubmissionRepo
	assignments    *AssignmentService
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	analyticsCache cache.AnalyticsCache,
	ranking cache.RankingCache,
	classRepo repository.ClassRepo,
	submissionRepo repository.SubmissionRepo,
	assignments *AssignmentService,
) *AnalyticsService {
	return &AnalyticsService{
		analyticsCache: analyticsCache,
		ranking:        ranking,
		classRepo:      classRepo,
		submissionRepo: submissionRepo,
		assignments:    assignments,
	}
}

// GetAssignmentAnalytics returns the analytics of one assignment, computing
// them when the cache holds nothing current
func (s *AnalyticsService) GetAssignmentAnalytics(ctx context.Context, p model.Principal, assignmentID string) (*model.AssignmentAnalytics, error) {
	a, err := s.assignments.load(ctx, p, assignmentID, true)
	if err != nil {
		return nil, err
	}

	cached, err := s.analyticsCache.Get(ctx, assignmentID)
	if err != nil {
		logger.Log.Warn("analytics cache read failed", zap.String("assignmentId", assignmentID), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	var (
		class       *model.Class
		submissions []*model.Submission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		class, err = s.classRepo.GetByID(gctx, a.ClassID)
		return errors.Wrap(err, "load roster")
	})
	g.Go(func() error {
		var err error
		submissions, err = s.submissionRepo.ListByAssignment(gctx, assignmentID)
		return errors.Wrap(err, "load submissions")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var roster []string
	if class != nil {
		roster = class.StudentIDs
	}
	result := ComputeAnalytics(AnalyticsInput{
		Assignment:  a,
		Roster:      roster,
		Submissions: submissions,
	})

	if err := s.analyticsCache.Set(ctx, &result); err != nil {
		logger.Log.Warn("analytics cache write failed", zap.String("assignmentId", assignmentID), zap.Error(err))
	}
	return &result, nil
}

// DefaultRankingLimit is how many students Ranking returns when asked for
// no particular number
const DefaultRankingLimit = 10

// Ranking returns the best graded scores of an assignment, highest first.
// An empty ranking is rebuilt from the stored submissions.
func (s *AnalyticsService) Ranking(ctx context.Context, p model.Principal, assignmentID string, limit int) ([]model.RankEntry, error) {
	if _, err := s.assignments.load(ctx, p, assignmentID, true); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRankingLimit
	}

	top, err := s.ranking.Top(ctx, assignmentID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "read ranking")
	}
	if len(top) > 0 {
		return top, nil
	}
	rebuilt, err := s.rebuildRanking(ctx, assignmentID)
	if err != nil || !rebuilt {
		return top, err
	}
	return s.ranking.Top(ctx, assignmentID, limit)
}

// MyRank returns the calling student's place in an assignment's ranking;
// Rank is 0 until the submission is graded
func (s *AnalyticsService) MyRank(ctx context.Context, p model.Principal, assignmentID string) (model.RankEntry, error) {
	if p.Role != model.RoleStudent {
		return model.RankEntry{}, ErrForbidden
	}
	if _, err := s.assignments.load(ctx, p, assignmentID, false); err != nil {
		return model.RankEntry{}, err
	}

	entry, err := s.ranking.Rank(ctx, assignmentID, p.UserID)
	if err != nil {
		return model.RankEntry{}, errors.Wrap(err, "read rank")
	}
	if entry.Rank > 0 {
		return entry, nil
	}
	rebuilt, err := s.rebuildRanking(ctx, assignmentID)
	if err != nil || !rebuilt {
		return entry, err
	}
	return s.ranking.Rank(ctx, assignmentID, p.UserID)
}

// rebuildRanking refills the ranking from graded submissions, reporting
// whether anything was added
func (s *AnalyticsService) rebuildRanking(ctx context.Context, assignmentID string) (bool, error) {
	submissions, err := s.submissionRepo.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return false, errors.Wrap(err, "load submissions")
	}
	added := false
	for _, sub := range submissions {
		if sub.Status != model.SubmissionGraded {
			continue
		}
		pct, ok := ParseGradePercent(sub.Grade)
		if !ok {
			continue
		}
		if err := s.ranking.SetScore(ctx, assignmentID, sub.StudentID, pct); err != nil {
			return false, errors.Wrap(err, "rebuild ranking")
		}
		added = true
	}
	if added {
		logger.Log.Info("ranking rebuilt", zap.String("assignmentId", assignmentID))
	}
	return added, nil
}
