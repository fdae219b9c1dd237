package model

import (
	"sort"
	"strconv"
	"strings"
)

// QuestionType defines the type of question
type QuestionType string

const (
	QuestionTypeMCQ                     QuestionType = "MCQ"                       // Letter per option, multi-select when maxSelection > 1
	QuestionTypeFillInBlanks            QuestionType = "FILL_IN_BLANKS"            // Free text, case-insensitive
	QuestionTypeNotesCompletion         QuestionType = "NOTES_COMPLETION"          // Free text derived from [bracket] tokens
	QuestionTypeTrueFalseNG             QuestionType = "TRUE_FALSE_NG"             // TRUE / FALSE / NOT GIVEN
	QuestionTypeYesNoNG                 QuestionType = "YES_NO_NG"                 // YES / NO / NOT GIVEN
	QuestionTypeMatchingHeadings        QuestionType = "MATCHING_HEADINGS"         // Roman numeral into headingList
	QuestionTypeMatchingFeatures        QuestionType = "MATCHING_FEATURES"         // Letter into matchOptions
	QuestionTypeMatchingSentenceEndings QuestionType = "MATCHING_SENTENCE_ENDINGS" // Letter into matchOptions
	QuestionTypeMatchingInformation     QuestionType = "MATCHING_INFORMATION"      // Paragraph letter A-H
)

// AllQuestionTypes lists every supported question type in authoring order
var AllQuestionTypes = []QuestionType{
	QuestionTypeMCQ,
	QuestionTypeFillInBlanks,
	QuestionTypeNotesCompletion,
	QuestionTypeTrueFalseNG,
	QuestionTypeYesNoNG,
	QuestionTypeMatchingHeadings,
	QuestionTypeMatchingFeatures,
	QuestionTypeMatchingSentenceEndings,
	QuestionTypeMatchingInformation,
}

// Valid reports whether t is one of the supported question types
func (t QuestionType) Valid() bool {
	_, ok := comparisonByType[t]
	return ok
}

// ComparisonMode is how a student answer is matched against the key
type ComparisonMode int

const (
	CompareExact           ComparisonMode = iota // trimmed, case-sensitive
	CompareCaseInsensitive                       // trimmed, case-folded
	CompareLetterSet                             // comma list, order-insensitive
)

// comparisonByType must carry an entry for every QuestionType.
var comparisonByType = map[QuestionType]ComparisonMode{
	QuestionTypeMCQ:                     CompareExact,
	QuestionTypeFillInBlanks:            CompareCaseInsensitive,
	QuestionTypeNotesCompletion:         CompareCaseInsensitive,
	QuestionTypeTrueFalseNG:             CompareExact,
	QuestionTypeYesNoNG:                 CompareExact,
	QuestionTypeMatchingHeadings:        CompareExact,
	QuestionTypeMatchingFeatures:        CompareExact,
	QuestionTypeMatchingSentenceEndings: CompareExact,
	QuestionTypeMatchingInformation:     CompareExact,
}

// Question is one gradable unit inside a question group
type Question struct {
	ID            string       `json:"id" bson:"id"`
	Text          string       `json:"text" bson:"text"`
	Type          QuestionType `json:"type" bson:"type"`
	Options       []string     `json:"options,omitempty" bson:"options,omitempty"`             // MCQ only
	CorrectAnswer string       `json:"correctAnswer,omitempty" bson:"correctAnswer,omitempty"` // encoding depends on Type
	MaxSelection  int          `json:"maxSelection,omitempty" bson:"maxSelection,omitempty"`   // MCQ only, >= 1
}

// IsMultiSelect reports whether the question accepts more than one letter
func (q Question) IsMultiSelect() bool {
	return q.Type == QuestionTypeMCQ && q.MaxSelection > 1
}

// Comparison returns the matching rule used when grading this question.
// Unknown types fall back to exact matching so grading stays total.
func (q Question) Comparison() ComparisonMode {
	if q.IsMultiSelect() {
		return CompareLetterSet
	}
	mode, ok := comparisonByType[q.Type]
	if !ok {
		return CompareExact
	}
	return mode
}

// QuestionGroup is a titled cluster of questions sharing one type
type QuestionGroup struct {
	ID           string       `json:"id" bson:"id"`
	Type         QuestionType `json:"type" bson:"type"`
	Title        string       `json:"title" bson:"title"`
	Instruction  string       `json:"instruction" bson:"instruction"`
	Content      string       `json:"content,omitempty" bson:"content,omitempty"`           // NOTES_COMPLETION only
	HeadingList  []string     `json:"headingList,omitempty" bson:"headingList,omitempty"`   // MATCHING_HEADINGS only
	MatchOptions []string     `json:"matchOptions,omitempty" bson:"matchOptions,omitempty"` // MATCHING_FEATURES / SENTENCE_ENDINGS
	Questions    []Question   `json:"questions" bson:"questions"`
}

// Clone returns a deep copy of the group
func (g QuestionGroup) Clone() QuestionGroup {
	out := g
	out.HeadingList = cloneStrings(g.HeadingList)
	out.MatchOptions = cloneStrings(g.MatchOptions)
	if g.Questions != nil {
		out.Questions = make([]Question, len(g.Questions))
		for i, q := range g.Questions {
			q.Options = cloneStrings(q.Options)
			out.Questions[i] = q
		}
	}
	return out
}

// TrueFalseNGAnswers and YesNoNGAnswers are the only accepted keys for those types
var (
	TrueFalseNGAnswers = []string{"TRUE", "FALSE", "NOT GIVEN"}
	YesNoNGAnswers     = []string{"YES", "NO", "NOT GIVEN"}
)

// MatchingInformationParagraphs is the fixed paragraph set for MATCHING_INFORMATION
const MatchingInformationParagraphs = 8

var romanNumerals = []string{
	"i", "ii", "iii", "iv", "v", "vi", "vii", "viii", "ix", "x",
	"xi", "xii", "xiii", "xiv", "xv",
}

// LetterForIndex maps 0 -> "A", 1 -> "B" ... Indexes past Z degrade to the
// 1-based number.
func LetterForIndex(i int) string {
	if i < 0 {
		return ""
	}
	if i < 26 {
		return string(rune('A' + i))
	}
	return strconv.Itoa(i + 1)
}

// IndexForLetter is the inverse of LetterForIndex; -1 when s is not a letter.
func IndexForLetter(s string) int {
	if len(s) != 1 || s[0] < 'A' || s[0] > 'Z' {
		return -1
	}
	return int(s[0] - 'A')
}

// RomanForIndex maps 0 -> "i", 1 -> "ii" ... up to index 14; beyond that the
// 1-based number is returned as a plain base-10 string.
func RomanForIndex(i int) string {
	if i < 0 {
		return ""
	}
	if i < len(romanNumerals) {
		return romanNumerals[i]
	}
	return strconv.Itoa(i + 1)
}

// IndexForRoman is the inverse of RomanForIndex; -1 when s is not recognised.
func IndexForRoman(s string) int {
	for i, r := range romanNumerals {
		if r == s {
			return i
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n > len(romanNumerals) {
		return n - 1
	}
	return -1
}

// NormalizeLetterSet trims each comma separated element, sorts them and joins
// them back with ",". It is used both for storing and for comparing
// multi-select MCQ answers.
func NormalizeLetterSet(s string) string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// AnswerIssue describes a correctAnswer that does not match its type's
// encoding. Issues never block a save; they are reported back to the author.
func AnswerIssue(g QuestionGroup, q Question) string {
	answer := strings.TrimSpace(q.CorrectAnswer)
	if answer == "" {
		return "correct answer missing"
	}

	switch q.Type {
	case QuestionTypeMCQ:
		if q.IsMultiSelect() {
			letters := strings.Split(answer, ",")
			if len(letters) > q.MaxSelection {
				return "more answers than maxSelection"
			}
			for _, l := range letters {
				if !letterInRange(strings.TrimSpace(l), len(q.Options)) {
					return "answer " + strings.TrimSpace(l) + " does not match an option"
				}
			}
			if NormalizeLetterSet(answer) != answer {
				return "answer letters must be sorted and comma separated"
			}
			return ""
		}
		if !letterInRange(answer, len(q.Options)) {
			return "answer does not match an option"
		}
	case QuestionTypeFillInBlanks, QuestionTypeNotesCompletion:
		return ""
	case QuestionTypeTrueFalseNG:
		if !contains(TrueFalseNGAnswers, answer) {
			return "answer must be TRUE, FALSE or NOT GIVEN"
		}
	case QuestionTypeYesNoNG:
		if !contains(YesNoNGAnswers, answer) {
			return "answer must be YES, NO or NOT GIVEN"
		}
	case QuestionTypeMatchingHeadings:
		idx := IndexForRoman(answer)
		if idx < 0 || idx >= len(g.HeadingList) {
			return "answer does not match a heading"
		}
	case QuestionTypeMatchingFeatures, QuestionTypeMatchingSentenceEndings:
		if !letterInRange(answer, len(g.MatchOptions)) {
			return "answer does not match a match option"
		}
	case QuestionTypeMatchingInformation:
		if !letterInRange(answer, MatchingInformationParagraphs) {
			return "answer must be a paragraph letter A-H"
		}
	default:
		return "unknown question type " + string(q.Type)
	}
	return ""
}

func letterInRange(s string, n int) bool {
	idx := IndexForLetter(s)
	return idx >= 0 && idx < n
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
