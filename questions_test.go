package passquiz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuestions(n int) []Question {
	questions := make([]Question, n)
	for i := range questions {
		questions[i] = Question{
			ID:           i + 1,
			Category:     "General",
			Question:     "Question " + string(rune('A'+i)),
			Options:      []string{"w", "x", "y", "z"},
			CorrectIndex: i % 4,
		}
	}
	return questions
}

func TestDefaultQuestionBank(t *testing.T) {
	bank, err := DefaultQuestionBank()
	require.NoError(t, err)
	assert.Equal(t, 10, bank.Len())

	q, ok := bank.Get(1)
	require.True(t, ok)
	assert.Equal(t, "What is the capital of France?", q.Question)
	assert.Equal(t, "Paris", q.Options[q.CorrectIndex])
}

func TestNewQuestionBankRejectsBrokenInvariants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]Question) []Question
	}{
		{"empty", func([]Question) []Question { return nil }},
		{"duplicate id", func(qs []Question) []Question { qs[1].ID = qs[0].ID; return qs }},
		{"correct index too large", func(qs []Question) []Question { qs[0].CorrectIndex = 4; return qs }},
		{"negative correct index", func(qs []Question) []Question { qs[0].CorrectIndex = -1; return qs }},
		{"single option", func(qs []Question) []Question { qs[0].Options = []string{"only"}; qs[0].CorrectIndex = 0; return qs }},
		{"blank text", func(qs []Question) []Question { qs[0].Question = "  "; return qs }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQuestionBank(tt.mutate(sampleQuestions(3)))
			assert.ErrorIs(t, err, ErrInvalidQuestionBank)
		})
	}
}

func TestQuestionBankIsReadOnly(t *testing.T) {
	source := sampleQuestions(2)
	bank, err := NewQuestionBank(source)
	require.NoError(t, err)

	source[0].Options[0] = "changed"
	all := bank.All()
	all[1].Options[1] = "changed too"

	q0, _ := bank.Get(1)
	q1, _ := bank.Get(2)
	assert.Equal(t, "w", q0.Options[0])
	assert.Equal(t, "x", q1.Options[1])

	_, ok := bank.Get(99)
	assert.False(t, ok)
}

func TestLoadQuestionBankFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	data := `[{"id":7,"category":"Test","question":"Two plus two?","options":["3","4"],"correctIndex":1}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	bank, err := LoadQuestionBankFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, bank.Len())

	_, err = LoadQuestionBankFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadQuestionBank([]byte("{not json"))
	assert.Error(t, err)
}
