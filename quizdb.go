package passquiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// DB stores the history of submitted attempts
type DB struct {
	db *sql.DB
}

// OpenDB opens a new database connection
func OpenDB(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db: db}, nil
}

// CloseDB closes the database connection
func (db *DB) CloseDB() error {
	return db.db.Close()
}

// CreateTables creates the necessary tables if they don't exist
func (db *DB) CreateTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS attempts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			correct INTEGER NOT NULL,
			total INTEGER NOT NULL,
			percentage INTEGER NOT NULL,
			answers TEXT NOT NULL,
			submitted_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_name ON attempts (name, submitted_at)`,
	}

	for _, query := range queries {
		if _, err := db.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute %s: %w", query, err)
		}
	}
	return nil
}

// RecordAttempt stores a submitted result for name and returns the stored attempt
func (db *DB) RecordAttempt(ctx context.Context, name string, result QuizResult) (*Attempt, error) {
	answersJSON, err := AnswersToJSON(result.Answers)
	if err != nil {
		return nil, err
	}

	attempt := &Attempt{
		ID:          uuid.NewString(),
		Name:        name,
		Correct:     result.Correct,
		Total:       result.Total,
		Percentage:  result.Percentage,
		Answers:     result.Answers,
		SubmittedAt: result.SubmittedAt.UTC(),
	}

	_, err = db.db.ExecContext(ctx,
		"INSERT INTO attempts (id, name, correct, total, percentage, answers, submitted_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		attempt.ID, attempt.Name, attempt.Correct, attempt.Total, attempt.Percentage, answersJSON, attempt.SubmittedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}
	return attempt, nil
}

// ListAttempts returns the attempts of name, newest first, optionally limited by count
func (db *DB) ListAttempts(ctx context.Context, name string, limit int) ([]Attempt, error) {
	query := "SELECT id, name, correct, total, percentage, answers, submitted_at FROM attempts WHERE name = ? ORDER BY submitted_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempts: %w", err)
	}
	defer rows.Close()

	attempts := []Attempt{}
	for rows.Next() {
		var (
			attempt     Attempt
			answersJSON string
			submittedAt time.Time
		)
		err := rows.Scan(&attempt.ID, &attempt.Name, &attempt.Correct, &attempt.Total, &attempt.Percentage, &answersJSON, &submittedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempt.Answers, err = JSONToAnswers(answersJSON)
		if err != nil {
			return nil, err
		}
		attempt.SubmittedAt = submittedAt
		attempts = append(attempts, attempt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attempts: %w", err)
	}

	return attempts, nil
}

// CountAttempts returns how many attempts name has submitted
func (db *DB) CountAttempts(ctx context.Context, name string) (int, error) {
	var n int
	err := db.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM attempts WHERE name = ?", name).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count attempts: %w", err)
	}
	return n, nil
}

// Helper function to convert an answer map to a JSON string
func AnswersToJSON(answers map[int]int) (string, error) {
	if answers == nil {
		answers = map[int]int{}
	}
	data, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("failed to marshal answers: %w", err)
	}
	return string(data), nil
}

// Helper function to convert a JSON string to an answer map
func JSONToAnswers(answersJSON string) (map[int]int, error) {
	answers := map[int]int{}
	if err := json.Unmarshal([]byte(answersJSON), &answers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
	}
	return answers, nil
}
