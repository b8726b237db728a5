// Package repository persists pipeline run summaries for auditing.
// Persistence is optional; the service runs without a database.
package repository

import (
	"context"
	"time"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
	"github.com/talentflow/talentflow-backend/pkg/database"
)

// RunRecord is one persisted pipeline run summary.
type RunRecord struct {
	ProcessingID      string    `db:"processing_id"`
	InputRef          string    `db:"input_ref"`
	Method            string    `db:"method"`
	OverallSuccess    bool      `db:"overall_success"`
	ConfidenceScore   float64   `db:"confidence_score"`
	QualityScore      float64   `db:"quality_score"`
	CompletenessScore float64   `db:"completeness_score"`
	WorkEntries       int       `db:"work_entries"`
	SkillCount        int       `db:"skill_count"`
	WarningCount      int       `db:"warning_count"`
	DurationMs        int64     `db:"duration_ms"`
	CreatedAt         time.Time `db:"created_at"`
}

// AuditRepository handles pipeline run persistence.
type AuditRepository struct {
	db *database.DB
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(db *database.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// RecordRun inserts a summary row for a finished pipeline run.
func (r *AuditRepository) RecordRun(ctx context.Context, result *domain.PipelineResult) error {
	rec := summarize(result)

	query := `
		INSERT INTO pipeline_runs (processing_id, input_ref, method, overall_success,
		                           confidence_score, quality_score, completeness_score,
		                           work_entries, skill_count, warning_count, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`

	return r.db.QueryRowxContext(ctx, query,
		rec.ProcessingID,
		rec.InputRef,
		rec.Method,
		rec.OverallSuccess,
		rec.ConfidenceScore,
		rec.QualityScore,
		rec.CompletenessScore,
		rec.WorkEntries,
		rec.SkillCount,
		rec.WarningCount,
		rec.DurationMs,
	).Scan(&rec.CreatedAt)
}

// ListRecent returns the most recent run summaries, newest first.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]*RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT processing_id, input_ref, method, overall_success,
		       confidence_score, quality_score, completeness_score,
		       work_entries, skill_count, warning_count, duration_ms, created_at
		FROM pipeline_runs
		ORDER BY created_at DESC
		LIMIT $1
	`

	var records []*RunRecord
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, err
	}
	return records, nil
}

// summarize flattens a pipeline result into its audit row. Nil stage
// outputs are tolerated so failed runs are recorded too.
func summarize(result *domain.PipelineResult) *RunRecord {
	rec := &RunRecord{
		ProcessingID:      result.ProcessingID,
		InputRef:          result.InputRef,
		OverallSuccess:    result.OverallSuccess,
		ConfidenceScore:   result.ConfidenceScore,
		QualityScore:      result.QualityScore,
		CompletenessScore: result.CompletenessScore,
		WarningCount:      len(result.Warnings),
		DurationMs:        result.CompletedAt.Sub(result.StartedAt).Milliseconds(),
	}
	if result.Extraction != nil {
		rec.Method = string(result.Extraction.Method)
	}
	if result.Profile != nil {
		rec.WorkEntries = len(result.Profile.WorkExperience)
		rec.SkillCount = len(result.Profile.Skills)
	}
	return rec
}
