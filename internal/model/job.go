package model

import (
	"encoding/json"
	"time"
)

// Job is the redis record for one asset-analysis job
type Job struct {
	ID          string          `json:"id"`
	SessionID   string          `json:"sessionId"`
	Type        JobType         `json:"type"`
	Status      JobStatus       `json:"status"`
	Progress    int             `json:"progress"`
	CurrentStep string          `json:"currentStep,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	StartedAt   *time.Time      `json:"startedAt,omitempty"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

// AnalysisJobPayload is the task payload for the analysis worker
type AnalysisJobPayload struct {
	SessionID string  `json:"sessionId"`
	Type      JobType `json:"type"`
	AssetRef  string  `json:"assetRef"`
	FileName  string  `json:"fileName"`
}

// ImageAnalysisResult is the cover-art check outcome
type ImageAnalysisResult struct {
	IssuesFound bool   `json:"issuesFound"`
	Description string `json:"description"`
}

// AudioAnalysisResult is the audio copyright-scan outcome
type AudioAnalysisResult struct {
	CopyrightMatch bool   `json:"copyrightMatch"`
	Description    string `json:"description"`
}

// AnalysisStatusResponse is returned by the job status endpoint
type AnalysisStatusResponse struct {
	JobID       string          `json:"jobId"`
	Type        JobType         `json:"type"`
	Status      JobStatus       `json:"status"`
	Progress    int             `json:"progress"`
	CurrentStep string          `json:"currentStep,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}
