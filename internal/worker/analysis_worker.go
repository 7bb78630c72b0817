package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/releasewizard/api/internal/model"
	"github.com/releasewizard/api/internal/session"
	"github.com/releasewizard/api/internal/websocket"
)

// AnalysisWorker processes asset-analysis jobs. The analysis itself is a
// staged simulation; only the result shape matters to the wizard.
type AnalysisWorker struct {
	redis    *redis.Client
	hub      *websocket.Hub
	sessions *session.Store
}

func NewAnalysisWorker(redisClient *redis.Client, hub *websocket.Hub, sessions *session.Store) *AnalysisWorker {
	return &AnalysisWorker{
		redis:    redisClient,
		hub:      hub,
		sessions: sessions,
	}
}

type analysisStage struct {
	progress int
	step     string
	duration time.Duration
}

var coverArtStages = []analysisStage{
	{20, "Checking resolution...", 1 * time.Second},
	{45, "Scanning for text and URLs...", 2 * time.Second},
	{70, "Scanning for brand logos...", 2 * time.Second},
	{90, "Checking for blur and borders...", 1 * time.Second},
}

var audioStages = []analysisStage{
	{25, "Fingerprinting audio...", 2 * time.Second},
	{60, "Searching copyright database...", 3 * time.Second},
	{90, "Checking loudness and clipping...", 1 * time.Second},
}

// ProcessTask handles one analysis task
func (w *AnalysisWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var taskPayload struct {
		JobID   string          `json:"jobId"`
		Payload json.RawMessage `json:"payload"`
	}

	if err := json.Unmarshal(t.Payload(), &taskPayload); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	jobID := taskPayload.JobID
	log.Printf("Starting analysis job: %s", jobID)

	var payload model.AnalysisJobPayload
	if err := json.Unmarshal(taskPayload.Payload, &payload); err != nil {
		w.failJob(ctx, jobID, "Invalid payload")
		return fmt.Errorf("failed to unmarshal analysis payload: %w", err)
	}

	stages := coverArtStages
	if payload.Type == model.JobTypeAudio {
		stages = audioStages
	}

	w.updateJob(ctx, jobID, model.JobStatusRunning, 0, "Starting analysis...")

	for _, stage := range stages {
		w.updateJob(ctx, jobID, model.JobStatusRunning, stage.progress, stage.step)
		w.hub.BroadcastProgress(payload.SessionID, jobID, stage.progress, model.JobStatusRunning, stage.step)

		if err := waitStage(ctx, stage.duration); err != nil {
			log.Printf("Analysis job %s cancelled", jobID)
			return err
		}
	}

	result, summary := mockResult(payload.Type)
	w.completeJob(ctx, jobID, result)
	w.hub.BroadcastComplete(payload.SessionID, jobID, result)
	w.notifySession(payload.SessionID, summary)

	log.Printf("Analysis job %s completed", jobID)
	return nil
}

// waitStage paces the simulation without blocking cancellation.
func waitStage(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func mockResult(jobType model.JobType) (interface{}, string) {
	if jobType == model.JobTypeAudio {
		return &model.AudioAnalysisResult{
			CopyrightMatch: false,
			Description:    "No copyright matches found. Loudness and clipping are within store limits.",
		}, "[System: audio scan passed — no copyright matches found]"
	}
	return &model.ImageAnalysisResult{
		IssuesFound: false,
		Description: "Artwork looks clean: no text, URLs, or brand logos detected.",
	}, "[System: cover art check passed — no issues found]"
}

// notifySession appends the analysis outcome to the conversation so the
// dialogue picks it up like any other system message.
func (w *AnalysisWorker) notifySession(sessionID, summary string) {
	sess := w.sessions.Get(sessionID)
	if sess == nil {
		return
	}
	sess.Lock()
	sess.AppendTurn(model.RoleSystem, summary, "")
	sess.Unlock()
}

func (w *AnalysisWorker) updateJob(ctx context.Context, jobID string, status model.JobStatus, progress int, step string) {
	job, err := w.getJob(ctx, jobID)
	if err != nil {
		log.Printf("Failed to get job: %v", err)
		return
	}

	job.Status = status
	job.Progress = progress
	job.CurrentStep = step

	if status == model.JobStatusRunning && job.StartedAt == nil {
		now := time.Now()
		job.StartedAt = &now
	}

	w.saveJob(ctx, job)
}

func (w *AnalysisWorker) completeJob(ctx context.Context, jobID string, result interface{}) {
	job, err := w.getJob(ctx, jobID)
	if err != nil {
		log.Printf("Failed to get job: %v", err)
		return
	}

	resultBytes, _ := json.Marshal(result)
	job.Status = model.JobStatusSucceeded
	job.Progress = 100
	job.CurrentStep = ""
	job.Result = resultBytes
	now := time.Now()
	job.CompletedAt = &now

	w.saveJob(ctx, job)
}

func (w *AnalysisWorker) failJob(ctx context.Context, jobID, errMsg string) {
	job, err := w.getJob(ctx, jobID)
	if err != nil {
		log.Printf("Failed to get job: %v", err)
		return
	}

	job.Status = model.JobStatusFailed
	job.Error = errMsg
	now := time.Now()
	job.CompletedAt = &now

	w.saveJob(ctx, job)
}

func (w *AnalysisWorker) saveJob(ctx context.Context, job *model.Job) {
	data, err := json.Marshal(job)
	if err != nil {
		log.Printf("Failed to marshal job: %v", err)
		return
	}
	if err := w.redis.Set(ctx, fmt.Sprintf("job:%s", job.ID), data, 24*time.Hour).Err(); err != nil {
		log.Printf("Failed to save job: %v", err)
	}
}

func (w *AnalysisWorker) getJob(ctx context.Context, jobID string) (*model.Job, error) {
	data, err := w.redis.Get(ctx, fmt.Sprintf("job:%s", jobID)).Bytes()
	if err != nil {
		return nil, err
	}

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}

	return &job, nil
}
