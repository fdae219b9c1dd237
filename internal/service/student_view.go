package service

import "ieltsprep/internal/model"

// StudentView returns a copy of a safe to show to a student: answer keys are
// removed and notes blanks are numbered by their position in the test.
func StudentView(a model.Assignment) model.Assignment {
	out := a.Clone()
	number := 1
	for i := range out.QuestionGroups {
		g := out.QuestionGroups[i]
		if g.Type == model.QuestionTypeNotesCompletion {
			g = numberNotesBlanks(g, number)
		}
		for j := range g.Questions {
			g.Questions[j].CorrectAnswer = ""
		}
		number += len(g.Questions)
		out.QuestionGroups[i] = g
	}
	return out
}
