package service

import (
	"fmt"
	"ieltsprep/internal/model"
	"strings"
	"time"
)

// assignmentRules are the fields an assignment must carry before it is saved
type assignmentRules struct {
	Title         string     `json:"title" validate:"notblank"`
	DueDate       *time.Time `json:"dueDate" validate:"required"`
	Type          string     `json:"type" validate:"skilltype"`
	WritingPrompt string     `json:"writingPrompt" validate:"required_if=Type WRITING"`
	TimeLimit     int        `json:"timeLimit" validate:"gte=0"`
}

// BuildResult is a validated assignment ready to persist, plus authoring
// warnings that do not block the save
type BuildResult struct {
	Assignment model.Assignment
	Warnings   []string
}

// BuildAssignment validates a draft and turns it into the assignment that
// will be stored. Notes completion groups are recompiled from their content,
// fields belonging to other skills are cleared, and new assignments take the
// draft's folder. The draft itself is not modified.
func BuildAssignment(d model.Draft) (BuildResult, error) {
	a := d.Assignment.Clone()

	rules := assignmentRules{
		Title:         a.Title,
		DueDate:       a.DueDate,
		Type:          string(a.Type),
		WritingPrompt: strings.TrimSpace(a.WritingPrompt),
		TimeLimit:     a.TimeLimit,
	}
	if err := ValidateStruct(rules); err != nil {
		return BuildResult{}, err
	}
	if strings.TrimSpace(a.ClassID) == "" {
		return BuildResult{}, NewValidationError("classId is a required field", FieldError{Field: "classId", Error: "classId is a required field"})
	}

	a.Title = strings.TrimSpace(a.Title)
	if d.AssignmentID == "" {
		a.GroupID = d.FolderID
	} else {
		a.ID = d.AssignmentID
	}

	normalizePayload(&a)

	var warnings []string
	for i := range a.QuestionGroups {
		g := &a.QuestionGroups[i]
		if g.Type == model.QuestionTypeNotesCompletion {
			*g = CompileNotesGroup(*g)
			if len(g.Questions) == 0 {
				warnings = append(warnings, fmt.Sprintf("group %d: notes have no [bracketed] answers", i+1))
			}
		}
		alignQuestions(g)
	}

	n := 0
	for _, g := range a.QuestionGroups {
		for _, q := range g.Questions {
			n++
			if issue := model.AnswerIssue(g, q); issue != "" {
				warnings = append(warnings, fmt.Sprintf("question %d: %s", n, issue))
			}
		}
	}

	return BuildResult{Assignment: a, Warnings: warnings}, nil
}

// normalizePayload keeps only the payload belonging to the assignment's skill
func normalizePayload(a *model.Assignment) {
	switch a.Type {
	case model.SkillReading:
		a.VideoURL = ""
		clearWriting(a)
		a.SpeakingPrompts = nil
	case model.SkillListening:
		a.PassageContent = ""
		clearWriting(a)
		a.SpeakingPrompts = nil
	case model.SkillWriting:
		a.PassageContent = ""
		a.VideoURL = ""
		a.QuestionGroups = nil
		a.SpeakingPrompts = nil
		a.WritingPrompt = strings.TrimSpace(a.WritingPrompt)
		if a.WritingTaskType == "" {
			a.WritingTaskType = model.WritingTask1
		}
		if a.WritingTaskType == model.WritingTask2 {
			a.WritingImage = ""
		}
	case model.SkillSpeaking:
		a.PassageContent = ""
		a.VideoURL = ""
		a.QuestionGroups = nil
		clearWriting(a)
	}
	if a.QuestionGroups == nil && a.Type.AutoGraded() {
		a.QuestionGroups = []model.QuestionGroup{}
	}
}

func clearWriting(a *model.Assignment) {
	a.WritingTaskType = ""
	a.WritingPrompt = ""
	a.WritingImage = ""
}

// alignQuestions makes every question carry its group's type and drops
// choice data from types that have none
func alignQuestions(g *model.QuestionGroup) {
	if g.Questions == nil {
		g.Questions = []model.Question{}
	}
	for i := range g.Questions {
		q := &g.Questions[i]
		q.Type = g.Type
		if q.Type == model.QuestionTypeMCQ {
			q.MaxSelection = max(q.MaxSelection, 1)
			continue
		}
		q.Options = nil
		q.MaxSelection = 0
	}
}
