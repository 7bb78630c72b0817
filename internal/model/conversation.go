package model

import "time"

// Conversation roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ConversationTurn is one append-only log entry. SourceLabel records which
// backend produced an assistant turn ("rules", "gemini", "groq") for
// diagnostics; it is never validated.
type ConversationTurn struct {
	Role        string    `json:"role"`
	Text        string    `json:"text"`
	SourceLabel string    `json:"sourceLabel,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
