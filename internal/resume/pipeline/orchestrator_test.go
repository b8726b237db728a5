package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
	"github.com/talentflow/talentflow-backend/internal/resume/enhance"
	"github.com/talentflow/talentflow-backend/internal/resume/extraction"
	"github.com/talentflow/talentflow-backend/internal/resume/match"
	"github.com/talentflow/talentflow-backend/internal/resume/parsing"
	"github.com/talentflow/talentflow-backend/internal/resume/pipeline"
	"github.com/talentflow/talentflow-backend/internal/resume/validation"
	"github.com/talentflow/talentflow-backend/pkg/config"
	"github.com/talentflow/talentflow-backend/pkg/logger"
)

const stubResumeText = `John Doe
john@example.com
+1-415-555-0100

Summary
Backend engineer building distributed systems in Go since 2014.

Work Experience
Senior Engineer at Acme Corp
January 2020 - Present
• Led the payments platform team on Go and PostgreSQL services

Education
BSc in Computer Science at MIT
2014

Skills
Go, Python, Docker, Kubernetes`

// stubEngine returns fixed text, or an error.
type stubEngine struct {
	text string
	err  error
}

func (s *stubEngine) ID() domain.EngineID { return domain.EngineStream }
func (s *stubEngine) Available() bool     { return true }

func (s *stubEngine) Extract(ctx context.Context, doc *domain.Document, cfg *config.ExtractionConfig) (*domain.ExtractionResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.ExtractionResult{Text: s.text, PageCount: 1}, nil
}

// stubEnhancer and stubMatcher script the optional collaborator services.
type stubEnhancer struct {
	res *domain.EnhancementResult
	err error
}

func (s *stubEnhancer) Available() bool { return true }
func (s *stubEnhancer) Enhance(ctx context.Context, profile *domain.CandidateProfile) (*domain.EnhancementResult, error) {
	return s.res, s.err
}

type stubMatcher struct {
	res *domain.MatchResult
	err error
}

func (s *stubMatcher) Available() bool { return true }
func (s *stubMatcher) Match(ctx context.Context, profile *domain.CandidateProfile, jobDescription string) (*domain.MatchResult, error) {
	return s.res, s.err
}

func pipelineConfig() *config.PipelineConfig {
	return &config.PipelineConfig{
		Extraction: config.ExtractionConfig{
			PreferredMethod:  "auto",
			UseFallback:      true,
			SmallDocBytes:    256 * 1024,
			LargeDocBytes:    4 * 1024 * 1024,
			MinTextLength:    50,
			MinConfidence:    0.5,
			MaxPageErrorRate: 0.3,
			MaxSymbolRatio:   0.3,
		},
		Confidence: config.ConfidenceWeights{
			BasePlainText:        0.95,
			BasePDFCPU:           0.90,
			BasePDFCPURelaxed:    0.85,
			BaseStream:           0.80,
			BaseOCR:              0.60,
			LengthBonus:          0.05,
			KeywordBonus:         0.02,
			KeywordBonusCap:      0.10,
			SymbolRatioThreshold: 0.20,
			SymbolPenaltyScale:   0.50,
		},
		Scores: config.ScoreWeights{
			ExtractionWeight:   0.3,
			ParsingWeight:      0.4,
			EnhancementWeight:  0.3,
			EnhancementDefault: 0.2,
			QualityContact:     0.2,
			QualityExperience:  0.3,
			QualityEducation:   0.2,
			QualitySkills:      0.2,
			QualitySummary:     0.1,
		},
		StageTimeout:         time.Minute,
		MinParsingConfidence: 0.3,
	}
}

func newOrchestrator(engine extraction.Engine, enhancer enhance.Enhancer, matcher match.Matcher, cfg *config.PipelineConfig) *pipeline.Orchestrator {
	registry := extraction.NewRegistry(engine)
	extractor := extraction.NewExtractor(registry, &cfg.Confidence, logger.Nop())
	parser := parsing.NewParser(logger.Nop())
	validator := validation.NewValidator(cfg.MinParsingConfidence)

	return pipeline.NewOrchestrator(extractor, parser, enhancer, matcher, validator, cfg, logger.Nop())
}

func testDoc() *domain.Document {
	return &domain.Document{Path: "resume.pdf", Data: []byte("%PDF-1.7 stub"), ByteSize: 1024}
}

func TestRunSuccessWithoutOptionalStages(t *testing.T) {
	cfg := pipelineConfig()
	o := newOrchestrator(&stubEngine{text: stubResumeText}, nil, nil, cfg)

	result := o.Run(context.Background(), testDoc(), pipeline.Options{Extraction: cfg.Extraction})

	assert.True(t, result.OverallSuccess)
	assert.NotEmpty(t, result.ProcessingID)
	assert.Equal(t, "resume.pdf", result.InputRef)

	assert.Equal(t, domain.StageCompleted, result.StageResults[domain.StageExtraction].Status)
	assert.Equal(t, domain.StageCompleted, result.StageResults[domain.StageParsing].Status)
	assert.Equal(t, domain.StageSkipped, result.StageResults[domain.StageEnhancement].Status)
	assert.Equal(t, domain.StageSkipped, result.StageResults[domain.StageMatching].Status)
	assert.Equal(t, domain.StageCompleted, result.StageResults[domain.StageValidation].Status)

	require.NotNil(t, result.Profile)
	assert.Equal(t, "john@example.com", result.Profile.Contact.Email)

	assert.Greater(t, result.ConfidenceScore, 0.0)
	assert.Greater(t, result.QualityScore, 0.0)
	assert.Greater(t, result.CompletenessScore, 0.0)
	assert.False(t, result.CompletedAt.Before(result.StartedAt))
}

func TestRunCriticalFailureAborts(t *testing.T) {
	cfg := pipelineConfig()
	o := newOrchestrator(&stubEngine{err: errors.New("unreadable document")}, nil, nil, cfg)

	result := o.Run(context.Background(), testDoc(), pipeline.Options{Extraction: cfg.Extraction})

	assert.False(t, result.OverallSuccess)
	assert.NotEmpty(t, result.Errors)

	assert.Equal(t, domain.StageFailed, result.StageResults[domain.StageExtraction].Status)
	assert.Equal(t, domain.StageSkipped, result.StageResults[domain.StageParsing].Status)
	assert.Equal(t, domain.StageSkipped, result.StageResults[domain.StageValidation].Status)

	assert.Zero(t, result.ConfidenceScore)
	assert.Zero(t, result.QualityScore)
}

func TestRunOptionalStageFailureDegrades(t *testing.T) {
	cfg := pipelineConfig()
	enhancer := &stubEnhancer{err: errors.New("service unavailable")}
	o := newOrchestrator(&stubEngine{text: stubResumeText}, enhancer, nil, cfg)

	result := o.Run(context.Background(), testDoc(), pipeline.Options{
		Extraction: cfg.Extraction,
		Enhance:    true,
	})

	assert.True(t, result.OverallSuccess)
	assert.Equal(t, domain.StageFailed, result.StageResults[domain.StageEnhancement].Status)
	assert.Equal(t, domain.StageCompleted, result.StageResults[domain.StageValidation].Status)
	assert.Nil(t, result.Enhancement)

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "enhancement") {
			found = true
		}
	}
	assert.True(t, found, "expected an enhancement warning, got %v", result.Warnings)
}

func TestRunEnhancementAndMatching(t *testing.T) {
	cfg := pipelineConfig()
	enhancer := &stubEnhancer{res: &domain.EnhancementResult{OverallScore: 0.8}}
	matcher := &stubMatcher{res: &domain.MatchResult{OverallMatch: 0.7, SkillMatch: 0.9}}
	o := newOrchestrator(&stubEngine{text: stubResumeText}, enhancer, matcher, cfg)

	result := o.Run(context.Background(), testDoc(), pipeline.Options{
		Extraction:     cfg.Extraction,
		Enhance:        true,
		Match:          true,
		JobDescription: "Senior Go engineer",
	})

	assert.True(t, result.OverallSuccess)
	require.NotNil(t, result.Enhancement)
	require.NotNil(t, result.Match)
	assert.Equal(t, 0.8, result.Enhancement.OverallScore)
	assert.Equal(t, 0.7, result.Match.OverallMatch)

	// Confidence uses the enhancement term instead of the default.
	withEnhancement := result.ConfidenceScore

	plain := o.Run(context.Background(), testDoc(), pipeline.Options{Extraction: cfg.Extraction})
	base := 0.3*plain.Extraction.Confidence + 0.4*plain.Profile.ParsingConfidence
	assert.InDelta(t, base+0.2, plain.ConfidenceScore, 0.001)
	assert.InDelta(t, base+0.3*0.8, withEnhancement, 0.001)
}

func TestRunMatchingSkippedWithoutJobDescription(t *testing.T) {
	cfg := pipelineConfig()
	matcher := &stubMatcher{res: &domain.MatchResult{OverallMatch: 0.7}}
	o := newOrchestrator(&stubEngine{text: stubResumeText}, nil, matcher, cfg)

	result := o.Run(context.Background(), testDoc(), pipeline.Options{
		Extraction: cfg.Extraction,
		Match:      true,
	})

	assert.Equal(t, domain.StageSkipped, result.StageResults[domain.StageMatching].Status)
	assert.Nil(t, result.Match)
}

func TestRunEmptyDocument(t *testing.T) {
	cfg := pipelineConfig()
	o := newOrchestrator(&stubEngine{text: stubResumeText}, nil, nil, cfg)

	doc := &domain.Document{Path: "empty.pdf", Data: nil}
	result := o.Run(context.Background(), doc, pipeline.Options{Extraction: cfg.Extraction})

	assert.False(t, result.OverallSuccess)
	assert.NotEmpty(t, result.Errors)
	assert.Equal(t, domain.StageFailed, result.StageResults[domain.StageExtraction].Status)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := pipelineConfig()
	o := newOrchestrator(&stubEngine{text: stubResumeText}, nil, nil, cfg)

	result := o.Run(ctx, testDoc(), pipeline.Options{Extraction: cfg.Extraction})

	assert.False(t, result.OverallSuccess)
	assert.NotEmpty(t, result.Errors)
	for _, stage := range domain.StageOrder {
		assert.Equal(t, domain.StageSkipped, result.StageResults[stage].Status)
	}
	assert.False(t, result.CompletedAt.IsZero())
}

func TestRunCompletenessScore(t *testing.T) {
	cfg := pipelineConfig()
	o := newOrchestrator(&stubEngine{text: stubResumeText}, nil, nil, cfg)

	result := o.Run(context.Background(), testDoc(), pipeline.Options{Extraction: cfg.Extraction})

	// Four of the nine canonical sections are present.
	assert.InDelta(t, 4.0/9.0, result.CompletenessScore, 0.001)
}
