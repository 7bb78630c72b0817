package model

// WebSocket message types
const (
	WSMessageTypeProgress = "progress"
	WSMessageTypeComplete = "complete"
	WSMessageTypeError    = "error"
	WSMessageTypeDraft    = "draft"
	WSMessageTypePing     = "ping"
	WSMessageTypePong     = "pong"
)

// WSMessage represents a generic WebSocket message
type WSMessage struct {
	Type string `json:"type"`
}

// WSProgressMessage is an analysis progress update for a session
type WSProgressMessage struct {
	Type        string    `json:"type"`
	SessionID   string    `json:"sessionId"`
	JobID       string    `json:"jobId"`
	Progress    int       `json:"progress"`
	Status      JobStatus `json:"status"`
	CurrentStep string    `json:"currentStep,omitempty"`
}

// WSCompleteMessage signals analysis completion
type WSCompleteMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId"`
	JobID     string      `json:"jobId"`
	Result    interface{} `json:"result"`
}

// WSDraftMessage pushes a fresh draft snapshot after a field update
type WSDraftMessage struct {
	Type      string       `json:"type"`
	SessionID string       `json:"sessionId"`
	Step      DialogueStep `json:"step"`
	Draft     ReleaseDraft `json:"draft"`
}

// WSErrorMessage represents an error
type WSErrorMessage struct {
	Type      string  `json:"type"`
	SessionID string  `json:"sessionId"`
	Error     WSError `json:"error"`
}

// WSError represents error details
type WSError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
