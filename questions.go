package passquiz

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

//go:embed data/questions.json
var defaultQuestions []byte

// QuestionBank is a read-only, validated set of questions
type QuestionBank struct {
	questions []Question
	byID      map[int]int // question id -> position in questions
}

// DefaultQuestionBank returns the bank compiled into the binary
func DefaultQuestionBank() (*QuestionBank, error) {
	return LoadQuestionBank(defaultQuestions)
}

// LoadQuestionBankFile reads and validates a question bank JSON file
func LoadQuestionBankFile(path string) (*QuestionBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank %s: %w", path, err)
	}
	return LoadQuestionBank(data)
}

// LoadQuestionBank parses a JSON array of questions and validates it
func LoadQuestionBank(data []byte) (*QuestionBank, error) {
	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
	}
	return NewQuestionBank(questions)
}

// NewQuestionBank validates questions and wraps them in a bank.
// The bank keeps its own copy; later changes to the argument are not visible.
func NewQuestionBank(questions []Question) (*QuestionBank, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", ErrInvalidQuestionBank)
	}

	bank := &QuestionBank{
		questions: make([]Question, 0, len(questions)),
		byID:      make(map[int]int, len(questions)),
	}

	for _, q := range questions {
		if err := ValidateQuestion(q); err != nil {
			return nil, err
		}
		if _, dup := bank.byID[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %d", ErrInvalidQuestionBank, q.ID)
		}
		bank.byID[q.ID] = len(bank.questions)
		bank.questions = append(bank.questions, cloneQuestion(q))
	}

	return bank, nil
}

// ValidateQuestion checks the structural invariants of a single question
func ValidateQuestion(q Question) error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("%w: question %d has no text", ErrInvalidQuestionBank, q.ID)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: question %d needs at least 2 options, has %d", ErrInvalidQuestionBank, q.ID, len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("%w: question %d correct index %d out of range [0,%d)", ErrInvalidQuestionBank, q.ID, q.CorrectIndex, len(q.Options))
	}
	return nil
}

// All returns a copy of every question in bank order
func (b *QuestionBank) All() []Question {
	out := make([]Question, len(b.questions))
	for i, q := range b.questions {
		out[i] = cloneQuestion(q)
	}
	return out
}

// Get returns the question with the given id
func (b *QuestionBank) Get(id int) (Question, bool) {
	i, ok := b.byID[id]
	if !ok {
		return Question{}, false
	}
	return cloneQuestion(b.questions[i]), true
}

// Len returns the number of questions in the bank
func (b *QuestionBank) Len() int {
	return len(b.questions)
}

// Score grades answers against the whole bank
func (b *QuestionBank) Score(answers map[int]int) Score {
	return CalculateScore(b.questions, answers)
}

func cloneQuestion(q Question) Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}
