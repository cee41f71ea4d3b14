package passquiz

import "time"

// Question represents a single multiple choice question from the question bank
type Question struct {
	ID           int      `json:"id"`
	Category     string   `json:"category"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"` // 0-based index into Options
}

// SessionData is the payload carried by the signed session token
type SessionData struct {
	Name     string `json:"name"`
	IsAuthed bool   `json:"isAuthed"`
}

// Score is the outcome of comparing submitted answers with the answer key
type Score struct {
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// QuizResult is the latest quiz outcome cached in the result cookie
type QuizResult struct {
	Correct     int         `json:"correct"`
	Total       int         `json:"total"`
	Percentage  int         `json:"percentage"`
	Answers     map[int]int `json:"answers"` // question id -> chosen original option index
	SubmittedAt time.Time   `json:"submittedAt"`
}

// NewQuizResult builds a result from a score and the answers it was computed from
func NewQuizResult(score Score, answers map[int]int, submittedAt time.Time) QuizResult {
	return QuizResult{
		Correct:     score.Correct,
		Total:       score.Total,
		Percentage:  score.Percentage,
		Answers:     answers,
		SubmittedAt: submittedAt,
	}
}

// Attempt is a submitted quiz stored in the history database
type Attempt struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Correct     int         `json:"correct"`
	Total       int         `json:"total"`
	Percentage  int         `json:"percentage"`
	Answers     map[int]int `json:"answers"`
	SubmittedAt time.Time   `json:"submittedAt"`
}

// RateLimitRecord counts login attempts for one key within a window
type RateLimitRecord struct {
	Count     int
	ResetTime time.Time
}

// GenerationRequest represents a request to generate a question bank
type GenerationRequest struct {
	Topic          string `json:"topic"`
	NumQuestions   int    `json:"num_questions"`
	SourceMaterial string `json:"source_material,omitempty"`
	Difficulty     string `json:"difficulty,omitempty"`
}
