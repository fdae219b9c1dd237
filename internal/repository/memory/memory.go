// Package memory holds in-process implementations of the repository
// interfaces. They back tests and the "memory" store mode.
package memory

import (
	"context"
	"ieltsprep/internal/model"
	"ieltsprep/internal/repository"
	"sort"
	"sync"
	"time"
)

var (
	_ repository.ClassRepo      = (*ClassRepo)(nil)
	_ repository.FolderRepo     = (*FolderRepo)(nil)
	_ repository.AssignmentRepo = (*AssignmentRepo)(nil)
	_ repository.SubmissionRepo = (*SubmissionRepo)(nil)
)

// ClassRepo is an in-memory repository.ClassRepo
type ClassRepo struct {
	mu      sync.RWMutex
	classes map[string]model.Class
}

// NewClassRepo creates an empty class store
func NewClassRepo() *ClassRepo {
	return &ClassRepo{classes: make(map[string]model.Class)}
}

func cloneClass(c model.Class) *model.Class {
	c.StudentIDs = append([]string{}, c.StudentIDs...)
	return &c
}

func (r *ClassRepo) Create(ctx context.Context, class *model.Class) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if class.ID == "" {
		class.ID = repository.NewID()
	}
	if _, ok := r.classes[class.ID]; ok {
		return "", repository.ErrDuplicate
	}
	class.CreatedAt = time.Now()
	r.classes[class.ID] = *cloneClass(*class)
	return class.ID, nil
}

func (r *ClassRepo) GetByID(ctx context.Context, id string) (*model.Class, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classes[id]
	if !ok {
		return nil, nil
	}
	return cloneClass(c), nil
}

func (r *ClassRepo) ListByTeacher(ctx context.Context, teacherID string) ([]*model.Class, error) {
	return r.filter(func(c model.Class) bool { return c.TeacherID == teacherID }), nil
}

func (r *ClassRepo) ListByStudent(ctx context.Context, studentID string) ([]*model.Class, error) {
	return r.filter(func(c model.Class) bool { return c.HasStudent(studentID) }), nil
}

func (r *ClassRepo) filter(keep func(model.Class) bool) []*model.Class {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*model.Class{}
	for _, c := range r.classes {
		if keep(c) {
			out = append(out, cloneClass(c))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *ClassRepo) UpdateRoster(ctx context.Context, id string, studentIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.classes[id]
	if !ok {
		return nil
	}
	c.StudentIDs = append([]string{}, studentIDs...)
	r.classes[id] = c
	return nil
}

// FolderRepo is an in-memory repository.FolderRepo
type FolderRepo struct {
	mu      sync.RWMutex
	folders map[string]model.AssignmentGroup
}

// NewFolderRepo creates an empty folder store
func NewFolderRepo() *FolderRepo {
	return &FolderRepo{folders: make(map[string]model.AssignmentGroup)}
}

func (r *FolderRepo) Create(ctx context.Context, folder *model.AssignmentGroup) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if folder.ID == "" {
		folder.ID = repository.NewID()
	}
	folder.CreatedAt = time.Now()
	r.folders[folder.ID] = *folder
	return folder.ID, nil
}

func (r *FolderRepo) GetByID(ctx context.Context, id string) (*model.AssignmentGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.folders[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (r *FolderRepo) ListByClass(ctx context.Context, classID string) ([]*model.AssignmentGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*model.AssignmentGroup{}
	for _, f := range r.folders {
		if f.ClassID == classID {
			f := f
			out = append(out, &f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *FolderRepo) Rename(ctx context.Context, id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.folders[id]; ok {
		f.Name = name
		r.folders[id] = f
	}
	return nil
}

func (r *FolderRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.folders, id)
	return nil
}

// Reorder validates every id before writing any of them
func (r *FolderRepo) Reorder(ctx context.Context, classID string, orderedIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range orderedIDs {
		f, ok := r.folders[id]
		if !ok || f.ClassID != classID {
			return repository.ErrReorderMismatch
		}
	}
	for i, id := range orderedIDs {
		f := r.folders[id]
		f.Order = i
		r.folders[id] = f
	}
	return nil
}
