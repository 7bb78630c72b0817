package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/releasewizard/api/internal/model"
)

// TaskTypeAnalysis is the asynq task type for asset analysis jobs
const TaskTypeAnalysis = "analysis:asset"

// AnalysisService queues mocked cover-art and audio checks. The wizard only
// ever consumes the boolean/description shape of the result; how analysis
// is performed is a collaborator concern.
type AnalysisService struct {
	redis       *redis.Client
	asynqClient *asynq.Client
}

func NewAnalysisService(redisClient *redis.Client, asynqClient *asynq.Client) *AnalysisService {
	return &AnalysisService{
		redis:       redisClient,
		asynqClient: asynqClient,
	}
}

// Start queues an analysis job for an uploaded asset.
func (s *AnalysisService) Start(ctx context.Context, sessionID string, kind model.AssetKind, assetRef, fileName string) (*model.Job, error) {
	jobType := model.JobTypeCoverArt
	if kind == model.AssetAudio {
		jobType = model.JobTypeAudio
	}

	job := &model.Job{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Type:      jobType,
		Status:    model.JobStatusQueued,
		Progress:  0,
		CreatedAt: time.Now(),
	}

	if err := s.saveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	payload := &model.AnalysisJobPayload{
		SessionID: sessionID,
		Type:      jobType,
		AssetRef:  assetRef,
		FileName:  fileName,
	}

	task, err := newAnalysisTask(job.ID, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	_, err = s.asynqClient.Enqueue(task,
		asynq.Queue("analysis"),
		asynq.MaxRetry(3),
		asynq.Retention(24*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}

	return job, nil
}

// GetStatus returns the current status of an analysis job.
func (s *AnalysisService) GetStatus(ctx context.Context, jobID string) (*model.AnalysisStatusResponse, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	return &model.AnalysisStatusResponse{
		JobID:       job.ID,
		Type:        job.Type,
		Status:      job.Status,
		Progress:    job.Progress,
		CurrentStep: job.CurrentStep,
		Result:      job.Result,
	}, nil
}

func (s *AnalysisService) saveJob(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, fmt.Sprintf("job:%s", job.ID), data, 24*time.Hour).Err()
}

func (s *AnalysisService) getJob(ctx context.Context, jobID string) (*model.Job, error) {
	data, err := s.redis.Get(ctx, fmt.Sprintf("job:%s", jobID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("job not found")
		}
		return nil, err
	}

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}

	return &job, nil
}

func newAnalysisTask(jobID string, payload *model.AnalysisJobPayload) (*asynq.Task, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	taskPayload := map[string]interface{}{
		"jobId":   jobID,
		"payload": payloadBytes,
	}
	data, err := json.Marshal(taskPayload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAnalysis, data), nil
}
