package model

// StartSessionResponse is returned when a new wizard session is created
type StartSessionResponse struct {
	SessionID string       `json:"sessionId"`
	Step      DialogueStep `json:"step"`
	Prompt    string       `json:"prompt"`
	Draft     ReleaseDraft `json:"draft"`
}

// MessageRequest is one user utterance or button selection
type MessageRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

// MessageResponse carries the assistant reply and the new wizard state
type MessageResponse struct {
	Reply       string       `json:"reply"`
	SourceLabel string       `json:"sourceLabel,omitempty"`
	Step        DialogueStep `json:"step"`
	Draft       ReleaseDraft `json:"draft"`
}

// SessionStateResponse is the full session snapshot for live-preview rendering
type SessionStateResponse struct {
	SessionID string             `json:"sessionId"`
	Step      DialogueStep       `json:"step"`
	Prompt    string             `json:"prompt"`
	Draft     ReleaseDraft       `json:"draft"`
	Log       []ConversationTurn `json:"log"`
}

// UploadRequest registers an asset reference. The file content is never
// inspected here; analysis is a background collaborator.
type UploadRequest struct {
	Kind     AssetKind `json:"kind" validate:"required,oneof=cover audio"`
	FileName string    `json:"fileName" validate:"required,min=1,max=255"`
}

// UploadResponse acknowledges the asset and the queued analysis job
type UploadResponse struct {
	AssetRef string       `json:"assetRef"`
	JobID    string       `json:"jobId"`
	Status   JobStatus    `json:"status"`
	Reply    string       `json:"reply"`
	Step     DialogueStep `json:"step"`
}

// SubmitResponse confirms the draft left the wizard
type SubmitResponse struct {
	Step  DialogueStep `json:"step"`
	Draft ReleaseDraft `json:"draft"`
}
