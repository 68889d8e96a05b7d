package models

import "time"

// QuizQuestion is a multiple choice question. It is stored inside the quiz
// as JSON.
type QuizQuestion struct {
	QuestionText       string   `json:"questionText"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correctOptionIndex"`
}

// Quiz is a practice quiz published by an admin
type Quiz struct {
	ID          string         `json:"id" db:"id"`
	Title       string         `json:"title" db:"title"`
	Description string         `json:"description" db:"description"`
	Questions   []QuizQuestion `json:"questions" db:"questions"`
	CreatedBy   string         `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
}
