package models

import (
	"time"
)

// QueryStatus tracks where a logged query sits in the escalation workflow
type QueryStatus string

const (
	// StatusPending is the initial state before classification
	StatusPending QueryStatus = "pending"
	// StatusAnswered means the NLP service or an admin supplied an accepted answer
	StatusAnswered QueryStatus = "answered"
	// StatusUnanswered means the query is escalated and waiting for an admin
	StatusUnanswered QueryStatus = "unanswered"
)

// Valid reports whether the status is one of the recognized states
func (s QueryStatus) Valid() bool {
	return s == StatusPending || s == StatusAnswered || s == StatusUnanswered
}

// QueryLog is the durable record of one user query and its outcome.
// QueryText, UserID, Language and CreatedAt are immutable after creation;
// only the status/answer/answered-at triple may change, and only along
// pending -> {answered|unanswered} and unanswered -> answered.
type QueryLog struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UserID          string      `gorm:"index" json:"user_id"`
	QueryText       string      `json:"query_text"`
	BotResponseText string      `json:"bot_response_text"`
	Status          QueryStatus `gorm:"index;default:pending" json:"status"`
	Language        string      `json:"language"`
	SimilarityScore *float64    `json:"similarity_score,omitempty"`
	AnsweredBy      string      `json:"answered_by,omitempty"`
	AnsweredAt      *time.Time  `json:"answered_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// ChatRequest is the payload accepted by the chat endpoint
type ChatRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	QueryText string `json:"query_text" binding:"required"`
	Language  string `json:"language"`
}

// ChatResponse is the unified reply returned to the chat front-end
type ChatResponse struct {
	BotResponse     string      `json:"bot_response"`
	Status          QueryStatus `json:"status"`
	Language        string      `json:"language"`
	QueryID         uint        `json:"query_id,omitempty"`
	SimilarityScore *float64    `json:"similarity_score,omitempty"`
}

// AnswerRequest is the payload an admin submits to resolve an escalation
type AnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}
