// Package pipeline runs the fixed stage sequence over one document and
// assembles the final result. Extraction and parsing are critical;
// enhancement, matching and validation degrade to warnings on failure.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
	"github.com/talentflow/talentflow-backend/internal/resume/enhance"
	"github.com/talentflow/talentflow-backend/internal/resume/extraction"
	"github.com/talentflow/talentflow-backend/internal/resume/match"
	"github.com/talentflow/talentflow-backend/internal/resume/parsing"
	"github.com/talentflow/talentflow-backend/internal/resume/validation"
	"github.com/talentflow/talentflow-backend/pkg/config"
	"github.com/talentflow/talentflow-backend/pkg/logger"
)

// Options carries the per-run choices a caller can make.
type Options struct {
	Extraction     config.ExtractionConfig
	JobDescription string
	Enhance        bool
	Match          bool
}

// Orchestrator walks the stage order for one document. It is safe for
// concurrent runs; all mutable state lives in the per-run result.
type Orchestrator struct {
	extractor *extraction.Extractor
	parser    *parsing.Parser
	enhancer  enhance.Enhancer
	matcher   match.Matcher
	validator *validation.Validator
	cfg       *config.PipelineConfig
	log       *logger.Logger
}

func NewOrchestrator(
	extractor *extraction.Extractor,
	parser *parsing.Parser,
	enhancer enhance.Enhancer,
	matcher match.Matcher,
	validator *validation.Validator,
	cfg *config.PipelineConfig,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		extractor: extractor,
		parser:    parser,
		enhancer:  enhancer,
		matcher:   matcher,
		validator: validator,
		cfg:       cfg,
		log:       log.WithComponent("pipeline"),
	}
}

// Run executes every stage in order and always returns a well-formed
// result, even on cancellation or critical failure.
func (o *Orchestrator) Run(ctx context.Context, doc *domain.Document, opts Options) *domain.PipelineResult {
	result := &domain.PipelineResult{
		InputRef:     inputRef(doc),
		ProcessingID: uuid.New().String(),
		StageResults: make(map[domain.StageID]*domain.StageResult, len(domain.StageOrder)),
		StartedAt:    time.Now().UTC(),
	}
	for _, stage := range domain.StageOrder {
		result.StageResults[stage] = &domain.StageResult{Stage: stage, Status: domain.StagePending}
	}

	log := o.log.WithProcessingID(result.ProcessingID)
	log.Info().Str("input", result.InputRef).Msg("pipeline run started")

	aborted := false
	for _, stage := range domain.StageOrder {
		sr := result.StageResults[stage]

		if aborted {
			sr.Status = domain.StageSkipped
			continue
		}
		if err := ctx.Err(); err != nil {
			sr.Status = domain.StageSkipped
			result.Errors = append(result.Errors, fmt.Sprintf("%s: run cancelled: %v", stage, err))
			aborted = true
			continue
		}

		if reason := o.skipReason(stage, opts); reason != "" {
			sr.Status = domain.StageSkipped
			log.Debug().Str("stage", string(stage)).Str("reason", reason).Msg("stage skipped")
			continue
		}

		err := o.execute(ctx, sr, func(stageCtx context.Context) (any, error) {
			return o.runStage(stageCtx, stage, doc, opts, result)
		})
		if err == nil {
			// The validator's success flag reflects a clean run, for
			// observability only.
			if stage == domain.StageValidation {
				sr.Success = len(sr.Warnings) == 0
			}
			continue
		}

		if stage.IsCritical() {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", stage, err))
			log.Error().Err(err).Str("stage", string(stage)).Msg("critical stage failed, aborting run")
			aborted = true
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", stage, err))
			log.Warn().Err(err).Str("stage", string(stage)).Msg("optional stage failed, continuing")
		}
	}

	result.OverallSuccess = !aborted
	aggregateScores(result, &o.cfg.Scores)
	result.CompletedAt = time.Now().UTC()

	log.Info().
		Bool("success", result.OverallSuccess).
		Float64("confidence", result.ConfidenceScore).
		Float64("quality", result.QualityScore).
		Dur("elapsed", result.CompletedAt.Sub(result.StartedAt)).
		Msg("pipeline run finished")

	return result
}

// skipReason reports why a stage will not run, or "" to run it.
func (o *Orchestrator) skipReason(stage domain.StageID, opts Options) string {
	switch stage {
	case domain.StageEnhancement:
		if !opts.Enhance {
			return "not requested"
		}
		if o.enhancer == nil || !o.enhancer.Available() {
			return "enhancement service not configured"
		}
	case domain.StageMatching:
		if !opts.Match {
			return "not requested"
		}
		if opts.JobDescription == "" {
			return "no job description provided"
		}
		if o.matcher == nil || !o.matcher.Available() {
			return "matching service not configured"
		}
	}
	return ""
}

// execute bounds one stage by the configured timeout and records its
// lifecycle on the stage result. A timeout surfaces as a stage failure.
func (o *Orchestrator) execute(ctx context.Context, sr *domain.StageResult, fn func(context.Context) (any, error)) error {
	stageCtx := ctx
	cancel := func() {}
	if o.cfg.StageTimeout > 0 {
		stageCtx, cancel = context.WithTimeout(ctx, o.cfg.StageTimeout)
	}
	defer cancel()

	sr.Status = domain.StageInProgress
	sr.StartTime = time.Now().UTC()

	payload, err := fn(stageCtx)

	sr.EndTime = time.Now().UTC()
	if err != nil {
		sr.Status = domain.StageFailed
		sr.Error = err.Error()
		return err
	}

	sr.Status = domain.StageCompleted
	sr.Success = true
	sr.Payload = payload
	return nil
}

func (o *Orchestrator) runStage(ctx context.Context, stage domain.StageID, doc *domain.Document, opts Options, result *domain.PipelineResult) (any, error) {
	switch stage {
	case domain.StageExtraction:
		extracted, err := o.extractor.Extract(ctx, doc, &opts.Extraction)
		if err != nil {
			return nil, err
		}
		result.Extraction = extracted
		return extracted, nil

	case domain.StageParsing:
		profile, err := o.parser.Parse(result.Extraction.Text)
		if err != nil {
			return nil, err
		}
		result.Profile = profile
		return profile, nil

	case domain.StageEnhancement:
		enhanced, err := o.enhancer.Enhance(ctx, result.Profile)
		if err != nil {
			return nil, err
		}
		result.Enhancement = enhanced
		return enhanced, nil

	case domain.StageMatching:
		matched, err := o.matcher.Match(ctx, result.Profile, opts.JobDescription)
		if err != nil {
			return nil, err
		}
		result.Match = matched
		return matched, nil

	case domain.StageValidation:
		warnings := o.validator.Validate(result)
		result.Warnings = append(result.Warnings, warnings...)
		result.StageResults[stage].Warnings = warnings
		return warnings, nil

	default:
		return nil, fmt.Errorf("unknown stage %q", stage)
	}
}

func inputRef(doc *domain.Document) string {
	if doc == nil {
		return ""
	}
	return doc.Path
}
