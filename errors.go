package passquiz

import "errors"

var (
	// ErrInvalidName is returned when a name is empty or too long after sanitizing
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidQuestionBank is returned when question data breaks a bank invariant
	ErrInvalidQuestionBank = errors.New("invalid question bank")

	// ErrHistoryDisabled is returned when attempt history has no database configured
	ErrHistoryDisabled = errors.New("attempt history disabled")
)
