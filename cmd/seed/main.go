package main

import (
	"context"
	"fmt"
	"ieltsprep/internal/app"
	"ieltsprep/internal/config"
	"ieltsprep/internal/model"
	"ieltsprep/internal/service"
	"ieltsprep/pkg/logger"
	"time"

	"go.uber.org/zap"
)

const (
	teacherID = "teacher_demo"
	studentID = "student_demo"
)

const readingQuiz = `{
  "passageContent": "<p><b>A</b> The honeybee has been kept by humans for at least 9,000 years.</p><p><b>B</b> Modern hives were designed in the 1850s and allow frames to be removed without harming the colony.</p><p><b>C</b> Colony losses have risen sharply since 2006, a pattern researchers link to parasites, pesticides and poor forage.</p>",
  "questionGroups": [
    {
      "type": "TRUE_FALSE_NG",
      "title": "Questions 1-3",
      "questions": [
        {"text": "Humans have kept bees for thousands of years.", "correctAnswer": "TRUE"},
        {"text": "Removable frames damage the colony.", "correctAnswer": "FALSE"},
        {"text": "Most beekeepers today are professionals.", "correctAnswer": "NOT GIVEN"}
      ]
    },
    {
      "type": "NOTES_COMPLETION",
      "title": "Questions 4-5",
      "content": "<p>Modern hives date from the [1850s].</p><p>Losses have grown since [2006].</p>"
    },
    {
      "type": "MCQ",
      "title": "Question 6",
      "questions": [
        {
          "text": "Which factor is NOT linked to colony losses?",
          "options": ["Parasites", "Pesticides", "Cold winters", "Poor forage"],
          "maxSelection": 1,
          "correctAnswer": "C"
        }
      ]
    }
  ]
}`

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("load config: " + err.Error())
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stores, err := app.ConnectStores(ctx, cfg)
	if err != nil {
		logger.Log.Fatal("failed to connect stores", zap.Error(err))
	}
	defer stores.Close(ctx)

	class := &model.Class{
		Name:       "IELTS Academic - Demo",
		TeacherID:  teacherID,
		StudentIDs: []string{studentID},
	}
	if _, err := stores.ClassRepo.Create(ctx, class); err != nil {
		logger.Log.Fatal("failed to create class", zap.Error(err))
	}

	folder := &model.AssignmentGroup{ClassID: class.ID, Name: "Week 1"}
	if _, err := stores.FolderRepo.Create(ctx, folder); err != nil {
		logger.Log.Fatal("failed to create folder", zap.Error(err))
	}

	doc, err := service.ParseQuizImport([]byte(readingQuiz))
	if err != nil {
		logger.Log.Fatal("seed quiz rejected", zap.Error(err))
	}
	due := time.Now().AddDate(0, 0, 7)
	draft := model.NewDraft(teacherID, class.ID, folder.ID, model.SkillReading).WithImported(doc)
	draft.Assignment.Title = "Reading Practice: Honeybees"
	draft.Assignment.DueDate = &due
	draft.Assignment.TimeLimit = 20

	built, err := service.BuildAssignment(draft)
	if err != nil {
		logger.Log.Fatal("seed assignment invalid", zap.Error(err))
	}
	for _, w := range built.Warnings {
		logger.Log.Warn("seed assignment warning", zap.String("warning", w))
	}
	assignment := built.Assignment
	assignment.CreatedBy = teacherID
	if _, err := stores.AssignmentRepo.Create(ctx, &assignment); err != nil {
		logger.Log.Fatal("failed to create assignment", zap.Error(err))
	}

	auth := service.NewAuthService(cfg.JWT.Secret, cfg.JWT.ExpireTime)
	teacherToken, err := auth.IssueToken(teacherID, model.RoleTeacher)
	if err != nil {
		logger.Log.Fatal("failed to sign token", zap.Error(err))
	}
	studentToken, err := auth.IssueToken(studentID, model.RoleStudent)
	if err != nil {
		logger.Log.Fatal("failed to sign token", zap.Error(err))
	}

	fmt.Printf("Class:        %s\n", class.ID)
	fmt.Printf("Folder:       %s\n", folder.ID)
	fmt.Printf("Assignment:   %s\n", assignment.ID)
	fmt.Printf("Teacher JWT:  %s\n", teacherToken)
	fmt.Printf("Student JWT:  %s\n", studentToken)
}
