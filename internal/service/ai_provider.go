package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"ieltsprep/internal/model"
	"strings"
)

// AI operation names, used for metrics and logs
const (
	OpTranscribe = "transcribe"
	OpGradeWrite = "grade_writing"
	OpExtract    = "extract_quiz"
)

// WritingGradeRequest is the input of an essay assessment. ChartImage is
// base64 and only present for task 1.
type WritingGradeRequest struct {
	TaskType       model.WritingTaskType
	Prompt         string
	Essay          string
	ChartImage     string
	ChartImageMime string
}

// GenerativeAI is a provider of the three generative operations. Inputs are
// base64 so every provider sees the same bytes.
type GenerativeAI interface {
	TranscribeAudio(ctx context.Context, audioBase64, mimeType string) (string, error)
	GradeWritingTask(ctx context.Context, req WritingGradeRequest) (*model.WritingFeedback, error)
	ExtractQuiz(ctx context.Context, fileBase64, mimeType string) (*model.QuizExtraction, error)
}

// rawExtraction accepts both passage key spellings providers return
type rawExtraction struct {
	PassageContent     string                `json:"passageContent"`
	PassageContentHTML string                `json:"passageContentHtml"`
	QuestionGroups     []model.QuestionGroup `json:"questionGroups"`
}

func (r rawExtraction) extraction() *model.QuizExtraction {
	passage := r.PassageContent
	if passage == "" {
		passage = r.PassageContentHTML
	}
	return &model.QuizExtraction{PassageContent: passage, QuestionGroups: r.QuestionGroups}
}

// ParseDataURI splits "data:<mime>;base64,<payload>" into its parts
func ParseDataURI(uri string) (mimeType, payload string, ok bool) {
	rest, found := strings.CutPrefix(uri, "data:")
	if !found {
		return "", "", false
	}
	meta, data, found := strings.Cut(rest, ",")
	if !found {
		return "", "", false
	}
	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 || data == "" {
		return "", "", false
	}
	if _, err := base64.StdEncoding.DecodeString(data); err != nil {
		return "", "", false
	}
	return mimeType, data, true
}

// Prompt builders
func buildWritingPrompt(req WritingGradeRequest) string {
	task := "Task 2 (essay)"
	achievement := "Task Response"
	if req.TaskType == model.WritingTask1 {
		task = "Task 1 (describe the visual information)"
		achievement = "Task Achievement"
	}
	chart := ""
	if req.ChartImage != "" {
		chart = "\nThe chart the student had to describe is attached as an image."
	}
	return fmt.Sprintf(`You are a certified IELTS examiner grading Academic Writing %s.
Return ONLY valid JSON matching this schema:
{
  "overallBand": number (0-9 in steps of 0.5),
  "criteria": {
    "taskAchievement": {"score": number, "comment": "string"},
    "coherenceCohesion": {"score": number, "comment": "string"},
    "lexicalResource": {"score": number, "comment": "string"},
    "grammaticalRange": {"score": number, "comment": "string"}
  },
  "correctedEssayHtml": "the essay as HTML, mistakes wrapped in <del> and corrections in <ins>",
  "generalComment": "two or three sentences of advice"
}
"taskAchievement" is the %s criterion.%s

Task prompt:
%s

Student essay:
%s`, task, achievement, chart, req.Prompt, req.Essay)
}

func buildExtractionPrompt() string {
	return `You are reading a scanned IELTS Reading or Listening test. Return ONLY valid JSON:
{
  "passageContent": "the passage as simple HTML (<p>, <h3>, <b>, <i>)",
  "questionGroups": [
    {
      "type": one of MCQ, FILL_IN_BLANKS, NOTES_COMPLETION, TRUE_FALSE_NG, YES_NO_NG,
              MATCHING_HEADINGS, MATCHING_FEATURES, MATCHING_SENTENCE_ENDINGS, MATCHING_INFORMATION,
      "title": "Questions 1-5",
      "instruction": "the printed instruction",
      "content": "NOTES_COMPLETION only: the notes as HTML with each answer in [square brackets]",
      "headingList": ["MATCHING_HEADINGS only: heading text without roman numerals"],
      "matchOptions": ["MATCHING_FEATURES / MATCHING_SENTENCE_ENDINGS only: option text without letters"],
      "questions": [
        {"text": "question text without its number", "options": ["MCQ only, without A/B/C labels"],
         "correctAnswer": "letter(s) like A or A,C; TRUE/FALSE/NOT GIVEN; YES/NO/NOT GIVEN; roman numeral like iv; or the words",
         "maxSelection": 1}
      ]
    }
  ]
}
Leave correctAnswer empty when the answer key is not on the page.`
}

const transcribePrompt = "Transcribe this IELTS speaking answer verbatim. Return only the transcript text, no commentary."

// mockAI serves deterministic results when no provider is configured
type mockAI struct{}

func (mockAI) TranscribeAudio(ctx context.Context, audioBase64, mimeType string) (string, error) {
	return "[transcription unavailable: AI provider not configured]", nil
}

func (mockAI) GradeWritingTask(ctx context.Context, req WritingGradeRequest) (*model.WritingFeedback, error) {
	words := len(strings.Fields(req.Essay))
	band := 5.0
	switch {
	case words == 0:
		band = 0
	case words >= 250:
		band = 6.0
	}
	score := model.CriterionScore{Score: band, Comment: "Estimated without an AI provider."}
	return &model.WritingFeedback{
		OverallBand: band,
		Criteria: model.WritingCriteria{
			TaskAchievement:   score,
			CoherenceCohesion: score,
			LexicalResource:   score,
			GrammaticalRange:  score,
		},
		CorrectedEssayHTML: "<p>" + strings.TrimSpace(req.Essay) + "</p>",
		GeneralComment:     fmt.Sprintf("Placeholder assessment based on length (%d words).", words),
	}, nil
}

func (mockAI) ExtractQuiz(ctx context.Context, fileBase64, mimeType string) (*model.QuizExtraction, error) {
	return &model.QuizExtraction{QuestionGroups: []model.QuestionGroup{}}, nil
}
