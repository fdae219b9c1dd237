package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComparisonCoversEveryType(t *testing.T) {
	assert.Len(t, comparisonByType, len(AllQuestionTypes))
	for _, qt := range AllQuestionTypes {
		_, ok := comparisonByType[qt]
		assert.True(t, ok, "no comparison for %s", qt)
		assert.NotEmpty(t, DefaultInstruction(qt), "no instruction for %s", qt)
	}
}

func TestQuestion_Comparison(t *testing.T) {
	tests := []struct {
		name string
		q    Question
		want ComparisonMode
	}{
		{name: "mcq single", q: Question{Type: QuestionTypeMCQ, MaxSelection: 1}, want: CompareExact},
		{name: "mcq multi", q: Question{Type: QuestionTypeMCQ, MaxSelection: 2}, want: CompareLetterSet},
		{name: "fill", q: Question{Type: QuestionTypeFillInBlanks}, want: CompareCaseInsensitive},
		{name: "notes", q: Question{Type: QuestionTypeNotesCompletion}, want: CompareCaseInsensitive},
		{name: "tfng", q: Question{Type: QuestionTypeTrueFalseNG}, want: CompareExact},
		{name: "headings", q: Question{Type: QuestionTypeMatchingHeadings}, want: CompareExact},
		{name: "unknown", q: Question{Type: "ESSAY"}, want: CompareExact},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.Comparison())
		})
	}
}

func TestLetterForIndex(t *testing.T) {
	assert.Equal(t, "A", LetterForIndex(0))
	assert.Equal(t, "D", LetterForIndex(3))
	assert.Equal(t, "Z", LetterForIndex(25))
	assert.Equal(t, "27", LetterForIndex(26))
	assert.Equal(t, "", LetterForIndex(-1))

	assert.Equal(t, 2, IndexForLetter("C"))
	assert.Equal(t, -1, IndexForLetter("c"))
	assert.Equal(t, -1, IndexForLetter("AB"))
}

func TestRomanForIndex(t *testing.T) {
	want := []string{"i", "ii", "iii", "iv", "v", "vi", "vii", "viii", "ix", "x", "xi", "xii", "xiii", "xiv", "xv"}
	for i, w := range want {
		assert.Equal(t, w, RomanForIndex(i))
		assert.Equal(t, i, IndexForRoman(w))
	}
	assert.Equal(t, "16", RomanForIndex(15))
	assert.Equal(t, "21", RomanForIndex(20))
	assert.Equal(t, 15, IndexForRoman("16"))
	assert.Equal(t, -1, IndexForRoman("IV"))
}

func TestNormalizeLetterSet(t *testing.T) {
	assert.Equal(t, "A,C", NormalizeLetterSet("C,A"))
	assert.Equal(t, "A,C", NormalizeLetterSet(" C , A "))
	assert.Equal(t, "B", NormalizeLetterSet("B"))
}

func TestAnswerIssue(t *testing.T) {
	headings := QuestionGroup{Type: QuestionTypeMatchingHeadings, HeadingList: []string{"one", "two", "three"}}
	features := QuestionGroup{Type: QuestionTypeMatchingFeatures, MatchOptions: []string{"x", "y"}}
	plain := QuestionGroup{}
	opts := []string{"a", "b", "c", "d"}

	tests := []struct {
		name    string
		g       QuestionGroup
		q       Question
		wantBad bool
	}{
		{name: "missing", g: plain, q: Question{Type: QuestionTypeFillInBlanks}, wantBad: true},
		{name: "mcq ok", g: plain, q: Question{Type: QuestionTypeMCQ, Options: opts, MaxSelection: 1, CorrectAnswer: "D"}},
		{name: "mcq out of range", g: plain, q: Question{Type: QuestionTypeMCQ, Options: opts, MaxSelection: 1, CorrectAnswer: "E"}, wantBad: true},
		{name: "mcq multi ok", g: plain, q: Question{Type: QuestionTypeMCQ, Options: opts, MaxSelection: 2, CorrectAnswer: "A,C"}},
		{name: "mcq multi unsorted", g: plain, q: Question{Type: QuestionTypeMCQ, Options: opts, MaxSelection: 2, CorrectAnswer: "C,A"}, wantBad: true},
		{name: "mcq multi too many", g: plain, q: Question{Type: QuestionTypeMCQ, Options: opts, MaxSelection: 2, CorrectAnswer: "A,B,C"}, wantBad: true},
		{name: "fill free text", g: plain, q: Question{Type: QuestionTypeFillInBlanks, CorrectAnswer: "anything"}},
		{name: "tfng ok", g: plain, q: Question{Type: QuestionTypeTrueFalseNG, CorrectAnswer: "NOT GIVEN"}},
		{name: "tfng lower", g: plain, q: Question{Type: QuestionTypeTrueFalseNG, CorrectAnswer: "true"}, wantBad: true},
		{name: "yes no ok", g: plain, q: Question{Type: QuestionTypeYesNoNG, CorrectAnswer: "NO"}},
		{name: "yes no wrong set", g: plain, q: Question{Type: QuestionTypeYesNoNG, CorrectAnswer: "FALSE"}, wantBad: true},
		{name: "heading ok", g: headings, q: Question{Type: QuestionTypeMatchingHeadings, CorrectAnswer: "iii"}},
		{name: "heading past list", g: headings, q: Question{Type: QuestionTypeMatchingHeadings, CorrectAnswer: "iv"}, wantBad: true},
		{name: "feature ok", g: features, q: Question{Type: QuestionTypeMatchingFeatures, CorrectAnswer: "B"}},
		{name: "feature past list", g: features, q: Question{Type: QuestionTypeMatchingFeatures, CorrectAnswer: "C"}, wantBad: true},
		{name: "information ok", g: plain, q: Question{Type: QuestionTypeMatchingInformation, CorrectAnswer: "H"}},
		{name: "information past H", g: plain, q: Question{Type: QuestionTypeMatchingInformation, CorrectAnswer: "I"}, wantBad: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := AnswerIssue(tt.g, tt.q)
			if tt.wantBad {
				assert.NotEmpty(t, issue)
			} else {
				assert.Empty(t, issue)
			}
		})
	}
}

func TestAssignment_FlattenQuestions(t *testing.T) {
	a := Assignment{QuestionGroups: []QuestionGroup{
		{Questions: []Question{{ID: "1"}, {ID: "2"}}},
		{Questions: []Question{}},
		{Questions: []Question{{ID: "3"}}},
	}}
	var ids []string
	for _, q := range a.FlattenQuestions() {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []string{"1", "2", "3"}, ids)
}

func TestIntegrityMetadata_Merge(t *testing.T) {
	m := IntegrityMetadata{TabSwitches: 2, PasteAttempts: 0}.Merge(IntegrityMetadata{TabSwitches: 1, PasteAttempts: 3})
	assert.Equal(t, IntegrityMetadata{TabSwitches: 2, PasteAttempts: 3}, m)
	assert.True(t, m.Flagged())
	assert.False(t, IntegrityMetadata{}.Flagged())
}
