package memory

import (
	"context"
	"ieltsprep/internal/model"
	"ieltsprep/internal/repository"
	"sort"
	"sync"
	"time"
)

// AssignmentRepo is an in-memory repository.AssignmentRepo. Watchers receive
// an event after every write.
type AssignmentRepo struct {
	mu          sync.RWMutex
	assignments map[string]model.Assignment
	watchers    map[chan repository.ChangeEvent]struct{}
}

// NewAssignmentRepo creates an empty assignment store
func NewAssignmentRepo() *AssignmentRepo {
	return &AssignmentRepo{
		assignments: make(map[string]model.Assignment),
		watchers:    make(map[chan repository.ChangeEvent]struct{}),
	}
}

func (r *AssignmentRepo) Create(ctx context.Context, assignment *model.Assignment) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if assignment.ID == "" {
		assignment.ID = repository.NewID()
	}
	if _, ok := r.assignments[assignment.ID]; ok {
		return "", repository.ErrDuplicate
	}
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = assignment.CreatedAt
	r.assignments[assignment.ID] = assignment.Clone()
	r.notify(repository.ChangeEvent{Operation: "insert", AssignmentID: assignment.ID, ClassID: assignment.ClassID})
	return assignment.ID, nil
}

func (r *AssignmentRepo) Replace(ctx context.Context, assignment *model.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	op := "replace"
	if _, ok := r.assignments[assignment.ID]; !ok {
		op = "insert"
	}
	assignment.UpdatedAt = time.Now()
	r.assignments[assignment.ID] = assignment.Clone()
	r.notify(repository.ChangeEvent{Operation: op, AssignmentID: assignment.ID, ClassID: assignment.ClassID})
	return nil
}

func (r *AssignmentRepo) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.assignments[id]
	if !ok {
		return nil, nil
	}
	out := a.Clone()
	return &out, nil
}

func (r *AssignmentRepo) ListByClass(ctx context.Context, classID string) ([]*model.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*model.Assignment{}
	for _, a := range r.assignments {
		if a.ClassID == classID {
			c := a.Clone()
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].DueDate, out[j].DueDate
		switch {
		case di == nil && dj != nil:
			return true
		case di != nil && dj == nil:
			return false
		case di != nil && !di.Equal(*dj):
			return di.Before(*dj)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *AssignmentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.assignments[id]; !ok {
		return nil
	}
	delete(r.assignments, id)
	// deletes carry no document, matching the mongo change stream
	r.notify(repository.ChangeEvent{Operation: "delete", AssignmentID: id})
	return nil
}

func (r *AssignmentRepo) Watch(ctx context.Context) (<-chan repository.ChangeEvent, error) {
	ch := make(chan repository.ChangeEvent, 16)

	r.mu.Lock()
	r.watchers[ch] = struct{}{}
	r.mu.Unlock()

	go func() {
		<-ctx.Done()
		r.mu.Lock()
		delete(r.watchers, ch)
		close(ch)
		r.mu.Unlock()
	}()
	return ch, nil
}

// notify must be called with mu held. Slow watchers drop events.
func (r *AssignmentRepo) notify(ev repository.ChangeEvent) {
	for ch := range r.watchers {
		select {
		case ch <- ev:
		default:
		}
	}
}
