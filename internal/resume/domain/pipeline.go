package domain

import "time"

// StageID identifies one unit of work in the pipeline's fixed sequence.
type StageID string

const (
	StageExtraction  StageID = "extraction"
	StageParsing     StageID = "parsing"
	StageEnhancement StageID = "enhancement"
	StageMatching    StageID = "matching"
	StageValidation  StageID = "validation"
)

// StageOrder is the fixed dependency order the orchestrator walks.
var StageOrder = []StageID{
	StageExtraction, StageParsing, StageEnhancement, StageMatching, StageValidation,
}

// IsCritical reports whether a failure of this stage aborts the run.
func (s StageID) IsCritical() bool {
	return s == StageExtraction || s == StageParsing
}

// StageStatus tracks the lifecycle of a stage within one run.
type StageStatus string

const (
	StagePending    StageStatus = "pending"
	StageInProgress StageStatus = "in_progress"
	StageCompleted  StageStatus = "completed"
	StageFailed     StageStatus = "failed"
	StageSkipped    StageStatus = "skipped"
)

// StageResult records the outcome of one executed stage. It is owned
// exclusively by the PipelineResult that contains it.
type StageResult struct {
	Stage     StageID     `json:"stage"`
	Status    StageStatus `json:"status"`
	StartTime time.Time   `json:"start_time,omitempty"`
	EndTime   time.Time   `json:"end_time,omitempty"`
	Success   bool        `json:"success"`
	Error     string      `json:"error,omitempty"`
	Warnings  []string    `json:"warnings,omitempty"`
	Payload   any         `json:"payload,omitempty"`
}

// PipelineResult is created once per document submission and is immutable
// after the orchestrator finalizes it. A failed run still yields a fully
// formed result with a human-readable error list.
type PipelineResult struct {
	InputRef          string                    `json:"input_ref"`
	ProcessingID      string                    `json:"processing_id"`
	StageResults      map[StageID]*StageResult  `json:"stage_results"`
	Extraction        *ExtractionResult         `json:"extraction,omitempty"`
	Profile           *CandidateProfile         `json:"profile,omitempty"`
	Enhancement       *EnhancementResult        `json:"enhancement,omitempty"`
	Match             *MatchResult              `json:"match,omitempty"`
	OverallSuccess    bool                      `json:"overall_success"`
	ConfidenceScore   float64                   `json:"confidence_score"`
	QualityScore      float64                   `json:"quality_score"`
	CompletenessScore float64                   `json:"completeness_score"`
	Errors            []string                  `json:"errors,omitempty"`
	Warnings          []string                  `json:"warnings,omitempty"`
	StartedAt         time.Time                 `json:"started_at"`
	CompletedAt       time.Time                 `json:"completed_at"`
}

// JobStatus represents the processing state of an async pipeline job.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// PipelineJob is the poll-able record for one asynchronous submission.
type PipelineJob struct {
	JobID     string          `json:"job_id"`
	Status    JobStatus       `json:"status"`
	Result    *PipelineResult `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
