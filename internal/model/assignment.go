package model

import "time"

// SkillType is the IELTS skill an assignment trains
type SkillType string

const (
	SkillReading   SkillType = "READING"
	SkillListening SkillType = "LISTENING"
	SkillWriting   SkillType = "WRITING"
	SkillSpeaking  SkillType = "SPEAKING"
)

// Valid reports whether s is a known skill
func (s SkillType) Valid() bool {
	switch s {
	case SkillReading, SkillListening, SkillWriting, SkillSpeaking:
		return true
	}
	return false
}

// AutoGraded reports whether submissions for this skill are scored on submit
func (s SkillType) AutoGraded() bool {
	return s == SkillReading || s == SkillListening
}

// WritingTaskType distinguishes IELTS writing task 1 (chart) from task 2 (essay)
type WritingTaskType string

const (
	WritingTask1 WritingTaskType = "TASK_1"
	WritingTask2 WritingTaskType = "TASK_2"
)

// SpeakingPrompt is one cue card question for a speaking assignment
type SpeakingPrompt struct {
	ID   string `json:"id" bson:"id"`
	Text string `json:"text" bson:"text"`
}

// Class groups students under one teacher
type Class struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	Name       string    `json:"name" bson:"name"`
	TeacherID  string    `json:"teacherId" bson:"teacherId"`
	StudentIDs []string  `json:"studentIds" bson:"studentIds"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

// HasStudent reports whether studentID is on the roster
func (c *Class) HasStudent(studentID string) bool {
	return contains(c.StudentIDs, studentID)
}

// AssignmentGroup is a folder of assignments inside a class. It does not own
// its assignments.
type AssignmentGroup struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	ClassID   string    `json:"classId" bson:"classId"`
	Name      string    `json:"name" bson:"name"`
	Order     int       `json:"order" bson:"order"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Assignment is the gradable unit assigned to a class
type Assignment struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	ClassID   string     `json:"classId" bson:"classId"`
	GroupID   string     `json:"groupId,omitempty" bson:"groupId,omitempty"` // folder, optional
	Title     string     `json:"title" bson:"title"`
	Type      SkillType  `json:"type" bson:"type"`
	DueDate   *time.Time `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	TimeLimit int        `json:"timeLimit,omitempty" bson:"timeLimit,omitempty"` // minutes

	// READING / LISTENING
	PassageContent string          `json:"passageContent,omitempty" bson:"passageContent,omitempty"`
	VideoURL       string          `json:"videoUrl,omitempty" bson:"videoUrl,omitempty"`
	QuestionGroups []QuestionGroup `json:"questionGroups,omitempty" bson:"questionGroups,omitempty"`

	// WRITING
	WritingTaskType WritingTaskType `json:"writingTaskType,omitempty" bson:"writingTaskType,omitempty"`
	WritingPrompt   string          `json:"writingPrompt,omitempty" bson:"writingPrompt,omitempty"`
	WritingImage    string          `json:"writingImage,omitempty" bson:"writingImage,omitempty"` // storage key

	// SPEAKING
	SpeakingPrompts []SpeakingPrompt `json:"speakingPrompts,omitempty" bson:"speakingPrompts,omitempty"`

	CreatedBy string    `json:"createdBy" bson:"createdBy"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// FlattenQuestions returns every question in group order then in-group order
func (a *Assignment) FlattenQuestions() []Question {
	var out []Question
	for _, g := range a.QuestionGroups {
		out = append(out, g.Questions...)
	}
	return out
}

// Clone returns a deep copy of the assignment
func (a Assignment) Clone() Assignment {
	out := a
	if a.DueDate != nil {
		due := *a.DueDate
		out.DueDate = &due
	}
	if a.QuestionGroups != nil {
		out.QuestionGroups = make([]QuestionGroup, len(a.QuestionGroups))
		for i, g := range a.QuestionGroups {
			out.QuestionGroups[i] = g.Clone()
		}
	}
	if a.SpeakingPrompts != nil {
		out.SpeakingPrompts = append([]SpeakingPrompt(nil), a.SpeakingPrompts...)
	}
	return out
}

// AssignmentListItem is an assignment as listed for a class, flagged when its
// folder no longer exists
type AssignmentListItem struct {
	Assignment
	FolderMissing bool `json:"folderMissing"`
}

// ClassSnapshotMessage is the websocket message type carrying a ClassSnapshot
const ClassSnapshotMessage = "class_snapshot"

// ClassSnapshot is pushed to subscribers whenever a class's assignments change
type ClassSnapshot struct {
	ClassID     string               `json:"classId"`
	Folders     []AssignmentGroup    `json:"folders"`
	Assignments []AssignmentListItem `json:"assignments"`
	At          time.Time            `json:"at"`
}
