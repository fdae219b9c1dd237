package service

import (
	"context"
	"ieltsprep/internal/model"
	"ieltsprep/internal/repository"
	"strings"

	"github.com/pkg/errors"
)

// ClassService manages classes and their rosters
type ClassService struct {
	classRepo repository.ClassRepo
}

// NewClassService creates a new class service
func NewClassService(classRepo repository.ClassRepo) *ClassService {
	return &ClassService{classRepo: classRepo}
}

// CreateClassRequest is the input of CreateClass
type CreateClassRequest struct {
	Name       string   `json:"name" validate:"notblank,max=120"`
	StudentIDs []string `json:"studentIds" validate:"omitempty,dive,notblank"`
}

// CreateClass creates a class owned by the calling teacher
func (s *ClassService) CreateClass(ctx context.Context, p model.Principal, req CreateClassRequest) (*model.Class, error) {
	if !p.IsTeacher() {
		return nil, ErrForbidden
	}
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	class := &model.Class{
		Name:       strings.TrimSpace(req.Name),
		TeacherID:  p.UserID,
		StudentIDs: uniqueIDs(req.StudentIDs),
	}
	if _, err := s.classRepo.Create(ctx, class); err != nil {
		return nil, errors.Wrap(err, "create class")
	}
	return class, nil
}

// GetClass returns a class its teacher or one of its students can see
func (s *ClassService) GetClass(ctx context.Context, p model.Principal, classID string) (*model.Class, error) {
	return s.authorize(ctx, p, classID, false)
}

// ListClasses returns the caller's classes
func (s *ClassService) ListClasses(ctx context.Context, p model.Principal) ([]*model.Class, error) {
	if p.IsTeacher() {
		return s.classRepo.ListByTeacher(ctx, p.UserID)
	}
	return s.classRepo.ListByStudent(ctx, p.UserID)
}

// SetRoster replaces a class's student list
func (s *ClassService) SetRoster(ctx context.Context, p model.Principal, classID string, studentIDs []string) (*model.Class, error) {
	class, err := s.authorize(ctx, p, classID, true)
	if err != nil {
		return nil, err
	}
	roster := uniqueIDs(studentIDs)
	if err := s.classRepo.UpdateRoster(ctx, classID, roster); err != nil {
		return nil, errors.Wrap(err, "update roster")
	}
	class.StudentIDs = roster
	return class, nil
}

// authorize loads a class and checks the caller may read it, or write it
// when manage is set (owning teacher only)
func (s *ClassService) authorize(ctx context.Context, p model.Principal, classID string, manage bool) (*model.Class, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, errors.Wrap(err, "get class")
	}
	if class == nil {
		return nil, ErrClassNotFound
	}

	switch {
	case p.IsTeacher() && class.TeacherID == p.UserID:
		return class, nil
	case !manage && p.Role == model.RoleStudent && class.HasStudent(p.UserID):
		return class, nil
	}
	return nil, ErrForbidden
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := []string{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// FolderService manages assignment folders inside a class
type FolderService struct {
	folderRepo repository.FolderRepo
	classes    *ClassService
	notifier   ClassNotifier
}

// NewFolderService creates a new folder service
func NewFolderService(folderRepo repository.FolderRepo, classes *ClassService, notifier ClassNotifier) *FolderService {
	return &FolderService{
		folderRepo: folderRepo,
		classes:    classes,
		notifier:   notifier,
	}
}

// FolderRequest is the input of CreateFolder and RenameFolder
type FolderRequest struct {
	Name string `json:"name" validate:"notblank,max=120"`
}

// CreateFolder appends a folder at the end of the class's list
func (s *FolderService) CreateFolder(ctx context.Context, p model.Principal, classID string, req FolderRequest) (*model.AssignmentGroup, error) {
	if _, err := s.classes.authorize(ctx, p, classID, true); err != nil {
		return nil, err
	}
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	existing, err := s.folderRepo.ListByClass(ctx, classID)
	if err != nil {
		return nil, errors.Wrap(err, "list folders")
	}
	order := 0
	for _, f := range existing {
		order = max(order, f.Order+1)
	}

	folder := &model.AssignmentGroup{
		ClassID: classID,
		Name:    strings.TrimSpace(req.Name),
		Order:   order,
	}
	if _, err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, errors.Wrap(err, "create folder")
	}
	s.notifier.Notify(classID)
	return folder, nil
}

// ListFolders returns a class's folders in display order
func (s *FolderService) ListFolders(ctx context.Context, p model.Principal, classID string) ([]*model.AssignmentGroup, error) {
	if _, err := s.classes.authorize(ctx, p, classID, false); err != nil {
		return nil, err
	}
	return s.folderRepo.ListByClass(ctx, classID)
}

// RenameFolder changes a folder's name
func (s *FolderService) RenameFolder(ctx context.Context, p model.Principal, folderID string, req FolderRequest) (*model.AssignmentGroup, error) {
	folder, err := s.ownedFolder(ctx, p, folderID)
	if err != nil {
		return nil, err
	}
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	folder.Name = strings.TrimSpace(req.Name)
	if err := s.folderRepo.Rename(ctx, folderID, folder.Name); err != nil {
		return nil, errors.Wrap(err, "rename folder")
	}
	s.notifier.Notify(folder.ClassID)
	return folder, nil
}

// DeleteFolder removes a folder. Its assignments are kept and keep pointing
// at the folder; listings flag them as folderMissing.
func (s *FolderService) DeleteFolder(ctx context.Context, p model.Principal, folderID string) error {
	folder, err := s.ownedFolder(ctx, p, folderID)
	if err != nil {
		return err
	}
	if err := s.folderRepo.Delete(ctx, folderID); err != nil {
		return errors.Wrap(err, "delete folder")
	}
	s.notifier.Notify(folder.ClassID)
	return nil
}

// ReorderRequest is the input of ReorderFolders
type ReorderRequest struct {
	FolderIDs []string `json:"folderIds" validate:"required,dive,notblank"`
}

// ReorderFolders sets each folder's order to its index in the list. The list
// must name every folder of the class exactly once; it is applied all or
// nothing.
func (s *FolderService) ReorderFolders(ctx context.Context, p model.Principal, classID string, req ReorderRequest) ([]*model.AssignmentGroup, error) {
	if _, err := s.classes.authorize(ctx, p, classID, true); err != nil {
		return nil, err
	}
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	existing, err := s.folderRepo.ListByClass(ctx, classID)
	if err != nil {
		return nil, errors.Wrap(err, "list folders")
	}
	if !sameIDSet(existing, req.FolderIDs) {
		return nil, NewValidationError("folder list must contain every folder of the class exactly once",
			FieldError{Field: "folderIds", Error: "does not match the class's folders"})
	}

	err = s.folderRepo.Reorder(ctx, classID, req.FolderIDs)
	if errors.Is(err, repository.ErrReorderMismatch) {
		return nil, NewValidationError("folders changed while reordering, reload and try again",
			FieldError{Field: "folderIds", Error: "does not match the class's folders"})
	}
	if err != nil {
		return nil, errors.Wrap(err, "reorder folders")
	}
	s.notifier.Notify(classID)
	return s.folderRepo.ListByClass(ctx, classID)
}

func (s *FolderService) ownedFolder(ctx context.Context, p model.Principal, folderID string) (*model.AssignmentGroup, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, errors.Wrap(err, "get folder")
	}
	if folder == nil {
		return nil, ErrFolderNotFound
	}
	if _, err := s.classes.authorize(ctx, p, folder.ClassID, true); err != nil {
		return nil, err
	}
	return folder, nil
}

func sameIDSet(folders []*model.AssignmentGroup, ids []string) bool {
	if len(folders) != len(ids) {
		return false
	}
	want := make(map[string]bool, len(folders))
	for _, f := range folders {
		want[f.ID] = true
	}
	for _, id := range ids {
		if !want[id] {
			return false
		}
		delete(want, id)
	}
	return len(want) == 0
}
