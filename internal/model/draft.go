package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrGroupNotFound    = errors.New("question group not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrDerivedQuestions = errors.New("notes completion questions are derived from the group content")
	ErrInvalidQuestion  = errors.New("invalid question type")
)

// DefaultMCQOptions is how many blank options a new MCQ question starts with
const DefaultMCQOptions = 4

var defaultInstructions = map[QuestionType]string{
	QuestionTypeMCQ:                     "Choose the correct letter.",
	QuestionTypeFillInBlanks:            "Complete the sentences below. Write NO MORE THAN TWO WORDS from the passage for each answer.",
	QuestionTypeNotesCompletion:         "Complete the notes below. Write ONE WORD ONLY from the passage for each answer.",
	QuestionTypeTrueFalseNG:             "Do the following statements agree with the information given in the passage? Write TRUE, FALSE or NOT GIVEN.",
	QuestionTypeYesNoNG:                 "Do the following statements agree with the views of the writer? Write YES, NO or NOT GIVEN.",
	QuestionTypeMatchingHeadings:        "Choose the correct heading for each paragraph from the list of headings below.",
	QuestionTypeMatchingFeatures:        "Match each statement with the correct option.",
	QuestionTypeMatchingSentenceEndings: "Complete each sentence with the correct ending.",
	QuestionTypeMatchingInformation:     "Which paragraph contains the following information? Write the correct letter, A-H.",
}

// DefaultInstruction returns the stock IELTS instruction for a question type
func DefaultInstruction(t QuestionType) string {
	return defaultInstructions[t]
}

// Draft is an in-progress assignment being authored by a teacher. Every
// With* method returns a new Draft and leaves the receiver untouched.
type Draft struct {
	ID           string     `json:"id"`
	TeacherID    string     `json:"teacherId"`
	AssignmentID string     `json:"assignmentId,omitempty"` // set when editing an existing assignment
	FolderID     string     `json:"folderId,omitempty"`     // folder open when the draft was started
	Assignment   Assignment `json:"assignment"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// NewDraft starts an empty draft for a class
func NewDraft(teacherID, classID, folderID string, skill SkillType) Draft {
	return Draft{
		ID:        uuid.NewString(),
		TeacherID: teacherID,
		FolderID:  folderID,
		Assignment: Assignment{
			ClassID: classID,
			Type:    skill,
		},
		UpdatedAt: time.Now(),
	}
}

// DraftFromAssignment opens an existing assignment for editing
func DraftFromAssignment(teacherID string, a Assignment) Draft {
	return Draft{
		ID:           uuid.NewString(),
		TeacherID:    teacherID,
		AssignmentID: a.ID,
		FolderID:     a.GroupID,
		Assignment:   a.Clone(),
		UpdatedAt:    time.Now(),
	}
}

// Clone returns a deep copy of the draft
func (d Draft) Clone() Draft {
	out := d
	out.Assignment = d.Assignment.Clone()
	return out
}

// DraftDetails carries assignment-level fields; nil pointers are left as is
type DraftDetails struct {
	Title           *string
	Type            *SkillType
	DueDate         *time.Time
	TimeLimit       *int
	PassageContent  *string
	VideoURL        *string
	WritingTaskType *WritingTaskType
	WritingPrompt   *string
	WritingImage    *string
	SpeakingPrompts []SpeakingPrompt
}

// WithDetails applies assignment-level field changes
func (d Draft) WithDetails(p DraftDetails) Draft {
	out := d.Clone()
	a := &out.Assignment
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.DueDate != nil {
		due := *p.DueDate
		a.DueDate = &due
	}
	if p.TimeLimit != nil {
		a.TimeLimit = *p.TimeLimit
	}
	if p.PassageContent != nil {
		a.PassageContent = *p.PassageContent
	}
	if p.VideoURL != nil {
		a.VideoURL = *p.VideoURL
	}
	if p.WritingTaskType != nil {
		a.WritingTaskType = *p.WritingTaskType
	}
	if p.WritingPrompt != nil {
		a.WritingPrompt = *p.WritingPrompt
	}
	if p.WritingImage != nil {
		a.WritingImage = *p.WritingImage
	}
	if p.SpeakingPrompts != nil {
		prompts := make([]SpeakingPrompt, len(p.SpeakingPrompts))
		for i, sp := range p.SpeakingPrompts {
			if sp.ID == "" {
				sp.ID = uuid.NewString()
			}
			prompts[i] = sp
		}
		a.SpeakingPrompts = prompts
	}
	return out.touch()
}

// WithGroupAdded appends an empty group of type t
func (d Draft) WithGroupAdded(t QuestionType, title string) (Draft, QuestionGroup, error) {
	if !t.Valid() {
		return d, QuestionGroup{}, ErrInvalidQuestion
	}
	g := QuestionGroup{
		ID:          uuid.NewString(),
		Type:        t,
		Title:       title,
		Instruction: DefaultInstruction(t),
		Questions:   []Question{},
	}
	out := d.Clone()
	out.Assignment.QuestionGroups = append(out.Assignment.QuestionGroups, g)
	return out.touch(), g.Clone(), nil
}

// GroupPatch changes a question group; nil pointers are left as is
type GroupPatch struct {
	Type         *QuestionType
	Title        *string
	Instruction  *string
	Content      *string
	HeadingList  []string
	MatchOptions []string
}

// WithGroupUpdated applies p to the group. Changing the type clears every
// type-specific field of the group and its questions before the remaining
// patch fields are applied.
func (d Draft) WithGroupUpdated(groupID string, p GroupPatch) (Draft, error) {
	out := d.Clone()
	gi := out.groupIndex(groupID)
	if gi < 0 {
		return d, ErrGroupNotFound
	}
	g := &out.Assignment.QuestionGroups[gi]

	if p.Type != nil && *p.Type != g.Type {
		if !p.Type.Valid() {
			return d, ErrInvalidQuestion
		}
		retype(g, *p.Type)
	}
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Instruction != nil {
		g.Instruction = *p.Instruction
	}
	if p.Content != nil && g.Type == QuestionTypeNotesCompletion {
		g.Content = *p.Content
	}
	if p.HeadingList != nil && g.Type == QuestionTypeMatchingHeadings {
		g.HeadingList = cloneStrings(p.HeadingList)
	}
	if p.MatchOptions != nil && usesMatchOptions(g.Type) {
		g.MatchOptions = cloneStrings(p.MatchOptions)
	}
	return out.touch(), nil
}

func retype(g *QuestionGroup, t QuestionType) {
	g.Type = t
	g.Content = ""
	g.HeadingList = nil
	g.MatchOptions = nil
	g.Instruction = DefaultInstruction(t)
	if t == QuestionTypeNotesCompletion {
		g.Questions = []Question{}
		return
	}
	for i := range g.Questions {
		q := &g.Questions[i]
		q.Type = t
		q.CorrectAnswer = ""
		q.Options = nil
		q.MaxSelection = 0
		if t == QuestionTypeMCQ {
			q.Options = make([]string, DefaultMCQOptions)
			q.MaxSelection = 1
		}
	}
}

func usesMatchOptions(t QuestionType) bool {
	return t == QuestionTypeMatchingFeatures || t == QuestionTypeMatchingSentenceEndings
}

// WithGroupRemoved drops a group and its questions
func (d Draft) WithGroupRemoved(groupID string) (Draft, error) {
	gi := d.groupIndex(groupID)
	if gi < 0 {
		return d, ErrGroupNotFound
	}
	out := d.Clone()
	groups := out.Assignment.QuestionGroups
	out.Assignment.QuestionGroups = append(groups[:gi:gi], groups[gi+1:]...)
	return out.touch(), nil
}

// WithGroupMoved moves a group to position to, clamped to the list bounds
func (d Draft) WithGroupMoved(groupID string, to int) (Draft, error) {
	gi := d.groupIndex(groupID)
	if gi < 0 {
		return d, ErrGroupNotFound
	}
	out := d.Clone()
	groups := out.Assignment.QuestionGroups
	to = min(max(to, 0), len(groups)-1)
	g := groups[gi]
	groups = append(groups[:gi:gi], groups[gi+1:]...)
	groups = append(groups[:to:to], append([]QuestionGroup{g}, groups[to:]...)...)
	out.Assignment.QuestionGroups = groups
	return out.touch(), nil
}

// WithQuestionAdded appends a question to a group. Notes completion groups
// reject direct additions.
func (d Draft) WithQuestionAdded(groupID, text string) (Draft, Question, error) {
	out := d.Clone()
	gi := out.groupIndex(groupID)
	if gi < 0 {
		return d, Question{}, ErrGroupNotFound
	}
	g := &out.Assignment.QuestionGroups[gi]
	if g.Type == QuestionTypeNotesCompletion {
		return d, Question{}, ErrDerivedQuestions
	}
	q := Question{
		ID:   uuid.NewString(),
		Text: text,
		Type: g.Type,
	}
	if g.Type == QuestionTypeMCQ {
		q.Options = make([]string, DefaultMCQOptions)
		q.MaxSelection = 1
	}
	g.Questions = append(g.Questions, q)
	return out.touch(), q, nil
}

// QuestionPatch changes a question's prompt or choice data
type QuestionPatch struct {
	Text         *string
	Options      []string
	MaxSelection *int
}

// WithQuestionUpdated applies p to one question
func (d Draft) WithQuestionUpdated(groupID, questionID string, p QuestionPatch) (Draft, error) {
	out := d.Clone()
	q, err := out.question(groupID, questionID)
	if err != nil {
		return d, err
	}
	if p.Text != nil {
		q.Text = *p.Text
	}
	if q.Type == QuestionTypeMCQ {
		if p.Options != nil {
			q.Options = cloneStrings(p.Options)
		}
		if p.MaxSelection != nil {
			q.MaxSelection = max(*p.MaxSelection, 1)
		}
	}
	return out.touch(), nil
}

// WithCorrectAnswer sets a question's answer key. Multi-select MCQ keys are
// stored sorted and comma joined.
func (d Draft) WithCorrectAnswer(groupID, questionID, answer string) (Draft, error) {
	out := d.Clone()
	q, err := out.question(groupID, questionID)
	if err != nil {
		return d, err
	}
	answer = strings.TrimSpace(answer)
	if q.IsMultiSelect() && answer != "" {
		answer = NormalizeLetterSet(answer)
	}
	q.CorrectAnswer = answer
	return out.touch(), nil
}

// WithQuestionRemoved drops a question from its group
func (d Draft) WithQuestionRemoved(groupID, questionID string) (Draft, error) {
	out := d.Clone()
	gi := out.groupIndex(groupID)
	if gi < 0 {
		return d, ErrGroupNotFound
	}
	g := &out.Assignment.QuestionGroups[gi]
	if g.Type == QuestionTypeNotesCompletion {
		return d, ErrDerivedQuestions
	}
	for i, q := range g.Questions {
		if q.ID == questionID {
			g.Questions = append(g.Questions[:i:i], g.Questions[i+1:]...)
			return out.touch(), nil
		}
	}
	return d, ErrQuestionNotFound
}

// WithImported replaces the passage and question groups with doc, giving
// every group and question a fresh identifier
func (d Draft) WithImported(doc QuizExtraction) Draft {
	out := d.Clone()
	out.Assignment.PassageContent = doc.PassageContent
	groups := make([]QuestionGroup, len(doc.QuestionGroups))
	for i, g := range doc.QuestionGroups {
		groups[i] = WithFreshIDs(g)
	}
	out.Assignment.QuestionGroups = groups
	return out.touch()
}

// WithFreshIDs returns a copy of g where the group and all of its questions
// carry newly generated identifiers
func WithFreshIDs(g QuestionGroup) QuestionGroup {
	out := g.Clone()
	out.ID = uuid.NewString()
	if out.Questions == nil {
		out.Questions = []Question{}
	}
	for i := range out.Questions {
		out.Questions[i].ID = uuid.NewString()
	}
	return out
}

// Group returns a copy of the group with the given id
func (d Draft) Group(groupID string) (QuestionGroup, bool) {
	gi := d.groupIndex(groupID)
	if gi < 0 {
		return QuestionGroup{}, false
	}
	return d.Assignment.QuestionGroups[gi].Clone(), true
}

func (d Draft) groupIndex(groupID string) int {
	for i, g := range d.Assignment.QuestionGroups {
		if g.ID == groupID {
			return i
		}
	}
	return -1
}

// question must only be called on a draft that was already cloned
func (d *Draft) question(groupID, questionID string) (*Question, error) {
	gi := d.groupIndex(groupID)
	if gi < 0 {
		return nil, ErrGroupNotFound
	}
	g := &d.Assignment.QuestionGroups[gi]
	for i := range g.Questions {
		if g.Questions[i].ID == questionID {
			return &g.Questions[i], nil
		}
	}
	return nil, ErrQuestionNotFound
}

func (d Draft) touch() Draft {
	d.UpdatedAt = time.Now()
	return d
}
