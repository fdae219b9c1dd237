package service

import (
	"context"
	"ieltsprep/internal/model"
	"ieltsprep/internal/repository"
	"ieltsprep/pkg/logger"

	"go.uber.org/zap"
)

// ClassFeed turns assignment change events into fresh class snapshots for
// websocket subscribers
type ClassFeed struct {
	assignmentRepo repository.AssignmentRepo
	assignments    *AssignmentService
	broadcaster    Broadcaster
	pending        chan string
}

// NewClassFeed creates a new class feed
func NewClassFeed(assignmentRepo repository.AssignmentRepo, assignments *AssignmentService, broadcaster Broadcaster) *ClassFeed {
	return &ClassFeed{
		assignmentRepo: assignmentRepo,
		assignments:    assignments,
		broadcaster:    broadcaster,
		pending:        make(chan string, 64),
	}
}

// Notify queues a refresh for a class; implements ClassNotifier
func (f *ClassFeed) Notify(classID string) {
	select {
	case f.pending <- classID:
	default:
		logger.Log.Warn("class refresh dropped, feed busy", zap.String("classId", classID))
	}
}

// Run consumes the change stream until ctx is done
func (f *ClassFeed) Run(ctx context.Context) error {
	events, err := f.assignmentRepo.Watch(ctx)
	if err != nil {
		// standalone mongo has no change streams; folder changes still flow
		logger.Log.Warn("assignment changes will not be pushed", zap.Error(err))
		events = nil
	}
	logger.Log.Info("class feed started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case classID := <-f.pending:
			f.Refresh(ctx, classID)
		case ev, ok := <-events:
			if !ok {
				if ctx.Err() == nil {
					logger.Log.Warn("assignment change stream closed")
				}
				events = nil
				continue
			}
			if ev.ClassID == "" {
				// deletes carry no document, refresh everything being watched
				for _, classID := range f.broadcaster.ActiveClasses() {
					f.Refresh(ctx, classID)
				}
				continue
			}
			f.Refresh(ctx, ev.ClassID)
		}
	}
}

// Refresh pushes the current snapshot of a class to its subscribers, the
// answer-free view to students
func (f *ClassFeed) Refresh(ctx context.Context, classID string) {
	for _, role := range []model.Role{model.RoleTeacher, model.RoleStudent} {
		snap, err := f.assignments.Snapshot(ctx, classID, role)
		if err != nil {
			logger.Log.Warn("class snapshot failed", zap.String("classId", classID), zap.Error(err))
			return
		}
		f.broadcaster.BroadcastToClass(classID, role, model.ClassSnapshotMessage, snap)
	}
}
