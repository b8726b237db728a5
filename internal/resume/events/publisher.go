package events

import (
	"context"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
	"github.com/talentflow/talentflow-backend/pkg/logger"
	"github.com/talentflow/talentflow-backend/pkg/messaging"
)

// PipelineEventPublisher publishes pipeline lifecycle events
type PipelineEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewPipelineEventPublisher creates a new pipeline event publisher
func NewPipelineEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*PipelineEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeResumeEvents, "resume-service", log)
	if err != nil {
		return nil, err
	}

	return &PipelineEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishProcessed publishes a completion event for a successful run
func (p *PipelineEventPublisher) PublishProcessed(ctx context.Context, result *domain.PipelineResult) {
	data := messaging.ResumeProcessedEvent{
		ProcessingID:      result.ProcessingID,
		InputRef:          result.InputRef,
		ConfidenceScore:   result.ConfidenceScore,
		QualityScore:      result.QualityScore,
		CompletenessScore: result.CompletenessScore,
		DurationMs:        result.CompletedAt.Sub(result.StartedAt).Milliseconds(),
	}
	if result.Extraction != nil {
		data.Method = string(result.Extraction.Method)
	}
	if result.Profile != nil {
		data.WorkEntries = len(result.Profile.WorkExperience)
		data.SkillCount = len(result.Profile.Skills)
	}

	if err := p.publisher.Publish(ctx, messaging.EventResumeProcessed, data); err != nil {
		p.logger.Error().Err(err).Str("processing_id", result.ProcessingID).Msg("failed to publish resume processed event")
	}
}

// PublishFailed publishes a failure event for a run that aborted on a
// critical stage
func (p *PipelineEventPublisher) PublishFailed(ctx context.Context, result *domain.PipelineResult) {
	data := messaging.ResumeFailedEvent{
		ProcessingID: result.ProcessingID,
		InputRef:     result.InputRef,
		FailedStage:  failedStage(result),
		Errors:       result.Errors,
	}

	if err := p.publisher.Publish(ctx, messaging.EventResumeFailed, data); err != nil {
		p.logger.Error().Err(err).Str("processing_id", result.ProcessingID).Msg("failed to publish resume failed event")
	}
}

func failedStage(result *domain.PipelineResult) string {
	for _, stage := range domain.StageOrder {
		if sr, ok := result.StageResults[stage]; ok && sr.Status == domain.StageFailed {
			return string(stage)
		}
	}
	return ""
}
