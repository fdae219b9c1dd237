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

// DraftService is the authoring surface of the assignment builder. Every
// edit loads the draft, applies one copy-on-write operation and stores the
// result, so a failed save or AI call never loses work.
type DraftService struct {
	drafts         cache.DraftCache
	classes        *ClassService
	folderRepo     repository.FolderRepo
	assignmentRepo repository.AssignmentRepo
	ai             *AIService
}

// NewDraftService creates a new draft service
func NewDraftService(
	drafts cache.DraftCache,
	classes *ClassService,
	folderRepo repository.FolderRepo,
	assignmentRepo repository.AssignmentRepo,
	ai *AIService,
) *DraftService {
	return &DraftService{
		drafts:         drafts,
		classes:        classes,
		folderRepo:     folderRepo,
		assignmentRepo: assignmentRepo,
		ai:             ai,
	}
}

// StartDraftRequest is the input of StartDraft
type StartDraftRequest struct {
	ClassID  string          `json:"classId" validate:"notblank"`
	FolderID string          `json:"folderId"`
	Type     model.SkillType `json:"type" validate:"skilltype"`
}

// StartDraft opens an empty draft for a new assignment. The folder that is
// open when the draft starts becomes the assignment's folder.
func (s *DraftService) StartDraft(ctx context.Context, p model.Principal, req StartDraftRequest) (*model.Draft, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.classes.authorize(ctx, p, req.ClassID, true); err != nil {
		return nil, err
	}
	if req.FolderID != "" {
		folder, err := s.folderRepo.GetByID(ctx, req.FolderID)
		if err != nil {
			return nil, errors.Wrap(err, "get folder")
		}
		if folder == nil || folder.ClassID != req.ClassID {
			return nil, ErrFolderNotFound
		}
	}

	d := model.NewDraft(p.UserID, req.ClassID, req.FolderID, req.Type)
	if err := s.store(ctx, d); err != nil {
		return nil, err
	}
	return &d, nil
}

// EditAssignment opens an existing assignment in a draft
func (s *DraftService) EditAssignment(ctx context.Context, p model.Principal, assignmentID string) (*model.Draft, error) {
	a, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, errors.Wrap(err, "get assignment")
	}
	if a == nil {
		return nil, ErrAssignmentNotFound
	}
	if _, err := s.classes.authorize(ctx, p, a.ClassID, true); err != nil {
		return nil, err
	}

	d := model.DraftFromAssignment(p.UserID, *a)
	if err := s.store(ctx, d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDraft returns one of the caller's drafts
func (s *DraftService) GetDraft(ctx context.Context, p model.Principal, draftID string) (*model.Draft, error) {
	return s.load(ctx, p, draftID)
}

// ListDrafts returns the caller's drafts, most recently edited first
func (s *DraftService) ListDrafts(ctx context.Context, p model.Principal) ([]*model.Draft, error) {
	if !p.IsTeacher() {
		return nil, ErrForbidden
	}
	ids, err := s.drafts.ListIDs(ctx, p.UserID, 50)
	if err != nil {
		return nil, errors.Wrap(err, "list drafts")
	}
	out := []*model.Draft{}
	for _, id := range ids {
		d, err := s.drafts.Get(ctx, id)
		if err != nil {
			logger.Log.Warn("skipping unreadable draft", zap.String("draftId", id), zap.Error(err))
			continue
		}
		if d != nil {
			out = append(out, d)
		}
	}
	return out, nil
}

// DiscardDraft drops a draft without saving
func (s *DraftService) DiscardDraft(ctx context.Context, p model.Principal, draftID string) error {
	d, err := s.load(ctx, p, draftID)
	if err != nil {
		return err
	}
	return s.drafts.Delete(ctx, d)
}

// DraftDetailsRequest changes assignment-level fields; absent fields are kept
type DraftDetailsRequest struct {
	Title           *string                `json:"title"`
	Type            *model.SkillType       `json:"type" validate:"omitempty,skilltype"`
	DueDate         *time.Time             `json:"dueDate"`
	TimeLimit       *int                   `json:"timeLimit" validate:"omitempty,gte=0"`
	PassageContent  *string                `json:"passageContent"`
	VideoURL        *string                `json:"videoUrl" validate:"omitempty,url"`
	WritingTaskType *model.WritingTaskType `json:"writingTaskType" validate:"omitempty,oneof=TASK_1 TASK_2"`
	WritingPrompt   *string                `json:"writingPrompt"`
	WritingImage    *string                `json:"writingImage"`
	SpeakingPrompts []model.SpeakingPrompt `json:"speakingPrompts"`
}

// UpdateDetails sets assignment-level fields
func (s *DraftService) UpdateDetails(ctx context.Context, p model.Principal, draftID string, req DraftDetailsRequest) (*model.Draft, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, p, draftID, func(d model.Draft) (model.Draft, error) {
		return d.WithDetails(model.DraftDetails{
			Title:           req.Title,
			Type:            req.Type,
			DueDate:         req.DueDate,
			TimeLimit:       req.TimeLimit,
			PassageContent:  req.PassageContent,
			VideoURL:        req.VideoURL,
			WritingTaskType: req.WritingTaskType,
			WritingPrompt:   req.WritingPrompt,
			WritingImage:    req.WritingImage,
			SpeakingPrompts: req.SpeakingPrompts,
		}), nil
	})
}

// AddGroupRequest is the input of AddGroup
type AddGroupRequest struct {
	Type  model.QuestionType `json:"type" validate:"qtype"`
	Title string             `json:"title"`
}

// AddGroup appends an empty question group
func (s *DraftService) AddGroup(ctx context.Context, p model.Principal, draftID string, req AddGroupRequest) (*model.Draft, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, p, draftID, func(d model.Draft) (model.Draft, error) {
		out, _, err := d.WithGroupAdded(req.Type, req.Title)
		return out, err
	})
}

// UpdateGroupRequest changes a question group; absent fields are kept
type UpdateGroupRequest struct {
	Type         *model.QuestionType `json:"type" validate:"omitempty,qtype"`
	Title        *string             `json:"title"`
	Instruction  *string             `json:"instruction"`
	Content      *string             `json:"content"`
	HeadingList  []string            `json:"headingList"`
	MatchOptions []string            `json:"matchOptions"`
}

// UpdateGroup edits a group. A type change resets the group's auxiliary
// lists and retypes its questions.
func (s *DraftService) UpdateGroup(ctx context.Context, p model.Principal, draftID, groupID string, req UpdateGroupRequest) (*model.Draft, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, p, draftID, func(d model.Draft) (model.Draft, error) {
		return d.WithGroupUpdated(groupID, model.GroupPatch{
			Type:         req.Type,
			Title:        req.Title,
			Instruction:  req.Instruction,
			Content:      req.Content,
			HeadingList:  req.HeadingList,
			MatchOptions: req.MatchOptions,
		})
	})
}

// RemoveGroup drops a question group
func (s *DraftService) RemoveGroup(ctx context.Context, p model.Principal, draftID, groupID string) (*model.Draft, error) {
	return s.mutate(ctx, p, draftID, func(d model.Draft) (model.Draft, error) {
		return d.WithGroupRemoved(groupID)
	})
}

// MoveGroup moves a group to a new position
func (s *DraftService) MoveGroup(ctx context.Context, p model.Principal, draftID, groupID string, to int) (*model.Draft, error) {
	return s.mutate(ctx, p, draftID, func(d model.Draft) (model.Draft, error) {
		return d.WithGroupMoved(groupID, to)
	})
}

// QuestionRequest adds or edits a question; absent fields are kept
type QuestionRequest struct {
	Text          *string  `json:"text"`
	Options       []string `json:"options"`
	MaxSelection  *int     `json:"maxSelection" validate:"omitempty,gte=1"`
	CorrectAnswer *string  `json:"correctAnswer"`
}

// AddQuestion appends a question to a group
func (s *DraftService) AddQuestion(ctx context.Context, p model.Principal, draftID, groupID string, req QuestionRequest) (*model.Draft, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, p, draftID, func(d model.Draft) (model.Draft, error) {
		text := ""
		if req.Text != nil {
			text = *req.Text
		}
		out, q, err := d.WithQuestionAdded(groupID, text)
		if err != nil {
			return d, err
		}
		return applyQuestionRequest(out, groupID, q.ID, req, false)
	})
}

// UpdateQuestion edits a question's text, choices or answer key
func (s *DraftService) UpdateQuestion(ctx context.Context, p model.Principal, draftID, groupID, questionID string, req QuestionRequest) (*model.Draft, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, p, draftID, func(d model.Draft) (model.Draft, error) {
		return applyQuestionRequest(d, groupID, questionID, req, true)
	})
}

func applyQuestionRequest(d model.Draft, groupID, questionID string, req QuestionRequest, withText bool) (model.Draft, error) {
	patch := model.QuestionPatch{Options: req.Options, MaxSelection: req.MaxSelection}
	if withText {
		patch.Text = req.Text
	}
	out, err := d.WithQuestionUpdated(groupID, questionID, patch)
	if err != nil {
		return d, err
	}
	if req.CorrectAnswer != nil {
		return out.WithCorrectAnswer(groupID, questionID, *req.CorrectAnswer)
	}
	return out, nil
}

// RemoveQuestion drops a question
func (s *DraftService) RemoveQuestion(ctx context.Context, p model.Principal, draftID, groupID, questionID string) (*model.Draft, error) {
	return s.mutate(ctx, p, draftID, func(d model.Draft) (model.Draft, error) {
		return d.WithQuestionRemoved(groupID, questionID)
	})
}

// NotesPreview shows a notes group as it will be saved and as students
// will see it
type NotesPreview struct {
	Compiled model.QuestionGroup `json:"compiled"`
	Student  model.QuestionGroup `json:"student"`
}

// PreviewNotes compiles a notes group without changing the draft
func (s *DraftService) PreviewNotes(ctx context.Context, p model.Principal, draftID, groupID string) (*NotesPreview, error) {
	d, err := s.load(ctx, p, draftID)
	if err != nil {
		return nil, err
	}
	g, ok := d.Group(groupID)
	if !ok {
		return nil, model.ErrGroupNotFound
	}
	if g.Type != model.QuestionTypeNotesCompletion {
		return nil, NewValidationError("only notes completion groups can be previewed",
			FieldError{Field: "type", Error: "must be NOTES_COMPLETION"})
	}

	compiled := CompileNotesGroup(g)
	student := numberNotesBlanks(compiled, 1)
	for i := range student.Questions {
		student.Questions[i].CorrectAnswer = ""
	}
	return &NotesPreview{Compiled: compiled, Student: student}, nil
}

// ImportJSON replaces the draft's passage and groups with a bulk-import
// document. A rejected document leaves the draft untouched.
func (s *DraftService) ImportJSON(ctx context.Context, p model.Principal, draftID string, raw []byte) (*model.Draft, error) {
	doc, err := ParseQuizImport(raw)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, p, draftID, func(d model.Draft) (model.Draft, error) {
		return d.WithImported(doc), nil
	})
}

// ExtractResult is the draft after an AI extraction plus dropped groups
type ExtractResult struct {
	Draft    *model.Draft `json:"draft"`
	Warnings []string     `json:"warnings"`
}

// ExtractFromFile reads a scanned page or PDF with the generative AI and
// merges the result like an import
func (s *DraftService) ExtractFromFile(ctx context.Context, p model.Principal, draftID, fileBase64, mimeType string) (*ExtractResult, error) {
	if _, err := s.load(ctx, p, draftID); err != nil {
		return nil, err
	}
	doc, dropped, err := s.ai.ExtractQuiz(ctx, fileBase64, mimeType)
	if err != nil {
		return nil, err
	}
	d, err := s.mutate(ctx, p, draftID, func(d model.Draft) (model.Draft, error) {
		return d.WithImported(doc), nil
	})
	if err != nil {
		return nil, err
	}
	if dropped == nil {
		dropped = []string{}
	}
	return &ExtractResult{Draft: d, Warnings: dropped}, nil
}

// SaveResult is the stored assignment plus non-blocking authoring warnings
type SaveResult struct {
	Assignment *model.Assignment `json:"assignment"`
	Warnings   []string          `json:"warnings"`
}

// Save validates the draft, persists the assignment and drops the draft. On
// any failure the draft is kept.
func (s *DraftService) Save(ctx context.Context, p model.Principal, draftID string) (*SaveResult, error) {
	d, err := s.load(ctx, p, draftID)
	if err != nil {
		return nil, err
	}

	built, err := BuildAssignment(*d)
	if err != nil {
		return nil, err
	}
	a := built.Assignment

	if _, err := s.classes.authorize(ctx, p, a.ClassID, true); err != nil {
		if errors.Is(err, ErrClassNotFound) {
			return nil, NewValidationError("class not found", FieldError{Field: "classId", Error: "does not reference an existing class"})
		}
		return nil, err
	}

	if d.AssignmentID == "" {
		a.CreatedBy = p.UserID
		if _, err := s.assignmentRepo.Create(ctx, &a); err != nil {
			logger.Log.Error("save assignment failed", zap.String("draftId", d.ID), zap.Error(err))
			return nil, errors.Wrap(err, "create assignment")
		}
	} else {
		existing, err := s.assignmentRepo.GetByID(ctx, a.ID)
		if err != nil {
			return nil, errors.Wrap(err, "get assignment")
		}
		if existing != nil {
			a.CreatedBy = existing.CreatedBy
			a.CreatedAt = existing.CreatedAt
		} else {
			a.CreatedBy = p.UserID
			a.CreatedAt = time.Now()
		}
		if err := s.assignmentRepo.Replace(ctx, &a); err != nil {
			logger.Log.Error("save assignment failed", zap.String("draftId", d.ID), zap.Error(err))
			return nil, errors.Wrap(err, "replace assignment")
		}
	}

	if err := s.drafts.Delete(ctx, d); err != nil {
		logger.Log.Warn("saved draft not deleted", zap.String("draftId", d.ID), zap.Error(err))
	}
	if built.Warnings == nil {
		built.Warnings = []string{}
	}
	return &SaveResult{Assignment: &a, Warnings: built.Warnings}, nil
}

func (s *DraftService) load(ctx context.Context, p model.Principal, draftID string) (*model.Draft, error) {
	if !p.IsTeacher() {
		return nil, ErrForbidden
	}
	d, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, errors.Wrap(err, "load draft")
	}
	if d == nil {
		return nil, ErrDraftNotFound
	}
	if d.TeacherID != p.UserID {
		return nil, ErrForbidden
	}
	return d, nil
}

func (s *DraftService) mutate(ctx context.Context, p model.Principal, draftID string, op func(model.Draft) (model.Draft, error)) (*model.Draft, error) {
	d, err := s.load(ctx, p, draftID)
	if err != nil {
		return nil, err
	}
	next, err := op(*d)
	if err != nil {
		return nil, draftError(err)
	}
	if err := s.store(ctx, next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *DraftService) store(ctx context.Context, d model.Draft) error {
	if err := s.drafts.Save(ctx, &d); err != nil {
		logger.Log.Error("store draft failed", zap.String("draftId", d.ID), zap.Error(err))
		return errors.Wrap(err, "store draft")
	}
	return nil
}

// draftError turns authoring rule violations into validation errors; lookup
// failures pass through
func draftError(err error) error {
	switch {
	case errors.Is(err, model.ErrDerivedQuestions):
		return NewValidationError(err.Error(), FieldError{Field: "content", Error: "edit the notes content instead"})
	case errors.Is(err, model.ErrInvalidQuestion):
		return NewValidationError(err.Error(), FieldError{Field: "type", Error: "unknown question type"})
	}
	return err
}
