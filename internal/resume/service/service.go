// Package service coordinates pipeline runs: asynchronous jobs the
// caller polls, synchronous inline runs, and the post-run side effects
// (events, audit rows).
package service

import (
	"context"
	"time"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
	"github.com/talentflow/talentflow-backend/internal/resume/events"
	"github.com/talentflow/talentflow-backend/internal/resume/pipeline"
	"github.com/talentflow/talentflow-backend/internal/resume/repository"
	"github.com/talentflow/talentflow-backend/internal/resume/storage"
	"github.com/talentflow/talentflow-backend/pkg/logger"
	"github.com/talentflow/talentflow-backend/pkg/messaging"
)

// Service runs the pipeline and manages job lifecycle. The publisher
// and audit repository are optional; nil disables the side effect.
type Service struct {
	orchestrator *pipeline.Orchestrator
	jobs         *storage.JobStore
	publisher    *events.PipelineEventPublisher
	audit        *repository.AuditRepository
	log          *logger.Logger
}

// NewService creates a new resume processing service.
func NewService(
	orchestrator *pipeline.Orchestrator,
	jobs *storage.JobStore,
	publisher *events.PipelineEventPublisher,
	audit *repository.AuditRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		orchestrator: orchestrator,
		jobs:         jobs,
		publisher:    publisher,
		audit:        audit,
		log:          log.WithComponent("service"),
	}
}

// StartProcessing creates a job and runs the pipeline asynchronously.
// Returns the job immediately so the caller can poll for results.
func (s *Service) StartProcessing(ctx context.Context, doc *domain.Document, opts pipeline.Options) (*domain.PipelineJob, error) {
	if doc == nil || len(doc.Data) == 0 {
		return nil, domain.ErrEmptyDocument
	}

	jobID := storage.GenerateJobID()
	job := &domain.PipelineJob{
		JobID:     jobID,
		Status:    domain.JobProcessing,
		CreatedAt: time.Now(),
	}
	s.jobs.Store(job)

	// Detached context so request cancellation doesn't kill processing
	go s.processAsync(context.Background(), jobID, doc, opts)

	return s.jobs.Get(jobID), nil
}

// processAsync runs the pipeline in a background goroutine.
func (s *Service) processAsync(ctx context.Context, jobID string, doc *domain.Document, opts pipeline.Options) {
	result := s.orchestrator.Run(ctx, doc, opts)

	s.jobs.Update(jobID, func(j *domain.PipelineJob) {
		j.Result = result
		if result.OverallSuccess {
			j.Status = domain.JobCompleted
		} else {
			j.Status = domain.JobFailed
			j.Error = firstError(result)
		}
	})

	s.finishRun(ctx, result)

	s.log.Info().
		Str("job_id", jobID).
		Str("processing_id", result.ProcessingID).
		Bool("success", result.OverallSuccess).
		Msg("async pipeline run finished")
}

// ProcessSync runs the pipeline inline and returns the full result.
func (s *Service) ProcessSync(ctx context.Context, doc *domain.Document, opts pipeline.Options) (*domain.PipelineResult, error) {
	if doc == nil || len(doc.Data) == 0 {
		return nil, domain.ErrEmptyDocument
	}

	result := s.orchestrator.Run(ctx, doc, opts)
	s.finishRun(ctx, result)
	return result, nil
}

// GetJob retrieves a pipeline job by ID, or nil if unknown or expired.
func (s *Service) GetJob(jobID string) *domain.PipelineJob {
	return s.jobs.Get(jobID)
}

// finishRun fires the post-run side effects. Both are best effort and
// never affect the returned result. Events carry the processing ID as
// their correlation ID so downstream consumers can tie them back to a
// run.
func (s *Service) finishRun(ctx context.Context, result *domain.PipelineResult) {
	ctx = messaging.WithCorrelationID(ctx, result.ProcessingID)

	if s.publisher != nil {
		if result.OverallSuccess {
			s.publisher.PublishProcessed(ctx, result)
		} else {
			s.publisher.PublishFailed(ctx, result)
		}
	}

	if s.audit != nil {
		if err := s.audit.RecordRun(ctx, result); err != nil {
			s.log.Error().Err(err).
				Str("processing_id", result.ProcessingID).
				Msg("failed to record pipeline run")
		}
	}
}

func firstError(result *domain.PipelineResult) string {
	if len(result.Errors) > 0 {
		return result.Errors[0]
	}
	return "pipeline failed"
}
