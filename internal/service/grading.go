package service

import (
	"fmt"
	"ieltsprep/internal/model"
	"math"
	"strconv"
	"strings"
)

// GradeResult is the auto-grading outcome for one submission
type GradeResult struct {
	Correct int
	Total   int
	Grade   string // "<correct>/<total>"
	Report  map[string]model.QuestionResult
}

// GradeAnswers scores answers against the flattened question list. Missing
// answers and missing keys compare as empty strings; it never fails.
func GradeAnswers(questions []model.Question, answers map[string]string) GradeResult {
	res := GradeResult{
		Total:  len(questions),
		Report: make(map[string]model.QuestionResult, len(questions)),
	}
	for _, q := range questions {
		r := GradeQuestion(q, answers[q.ID])
		if r.IsCorrect {
			res.Correct++
		}
		res.Report[q.ID] = r
	}
	res.Grade = FormatFractionGrade(res.Correct, res.Total)
	return res
}

// GradeQuestion compares one answer using the question's comparison rule
func GradeQuestion(q model.Question, answer string) model.QuestionResult {
	student := normalizeAnswer(q, answer)
	key := normalizeAnswer(q, q.CorrectAnswer)

	var correct bool
	switch q.Comparison() {
	case model.CompareCaseInsensitive:
		correct = strings.EqualFold(student, key)
	case model.CompareLetterSet, model.CompareExact:
		correct = student == key
	}

	return model.QuestionResult{
		QuestionID:    q.ID,
		IsCorrect:     correct,
		StudentAnswer: student,
		CorrectAnswer: key,
	}
}

// CompareAnswer reports whether answer is correct for q
func CompareAnswer(q model.Question, answer string) bool {
	return GradeQuestion(q, answer).IsCorrect
}

func normalizeAnswer(q model.Question, s string) string {
	s = strings.TrimSpace(s)
	if q.Comparison() == model.CompareLetterSet && s != "" {
		return model.NormalizeLetterSet(s)
	}
	return s
}

// FormatFractionGrade renders an auto-graded score
func FormatFractionGrade(correct, total int) string {
	return fmt.Sprintf("%d/%d", correct, total)
}

// ParseGradePercent converts a stored grade to a percentage in [0, 100].
// Fraction grades ("8/10") are used as is; band grades ("6.5") count as
// band/9. ok is false for grades that cannot be read.
func ParseGradePercent(grade string) (pct float64, ok bool) {
	grade = strings.TrimSpace(grade)
	if grade == "" {
		return 0, false
	}
	if num, den, found := strings.Cut(grade, "/"); found {
		n, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err1 != nil || err2 != nil || !finite(n) || !finite(d) || d <= 0 {
			return 0, false
		}
		return clampPercent(n / d * 100), true
	}
	band, err := strconv.ParseFloat(grade, 64)
	if err != nil || !finite(band) {
		return 0, false
	}
	return clampPercent(band / 9 * 100), true
}

// IsValidBand reports whether b is an IELTS band: 0 to 9 in half steps
func IsValidBand(b float64) bool {
	if b < 0 || b > 9 {
		return false
	}
	return b*2 == float64(int(b*2))
}

// FormatBand renders a band score the way IELTS reports it ("6", "6.5")
func FormatBand(b float64) string {
	return strconv.FormatFloat(b, 'f', -1, 64)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clampPercent(v float64) float64 {
	return min(max(v, 0), 100)
}
