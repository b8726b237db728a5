package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
	"github.com/talentflow/talentflow-backend/internal/resume/repository"
	"github.com/talentflow/talentflow-backend/pkg/database"
	"github.com/talentflow/talentflow-backend/pkg/logger"
	"github.com/talentflow/talentflow-backend/pkg/testutil"
)

func sampleResult() *domain.PipelineResult {
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &domain.PipelineResult{
		ProcessingID:      "proc-123",
		InputRef:          "resume.pdf",
		OverallSuccess:    true,
		ConfidenceScore:   0.82,
		QualityScore:      0.7,
		CompletenessScore: 0.44,
		Warnings:          []string{"no email address found"},
		StartedAt:         started,
		CompletedAt:       started.Add(1500 * time.Millisecond),
		Extraction:        &domain.ExtractionResult{Method: domain.EnginePDFCPU},
		Profile: &domain.CandidateProfile{
			WorkExperience: []domain.WorkExperience{{Company: "Acme"}, {Company: "Globex"}},
			Skills:         []string{"Go", "Docker", "PostgreSQL"},
		},
	}
}

func TestRecordRun(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	repo := repository.NewAuditRepository(database.NewFromSQLX(mockDB.DB, logger.Nop()))

	mockDB.ExpectQuery("INSERT INTO pipeline_runs").
		WithArgs("proc-123", "resume.pdf", "pdfcpu", true, 0.82, 0.7, 0.44, 2, 3, 1, int64(1500)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	err := repo.RecordRun(context.Background(), sampleResult())
	require.NoError(t, err)

	mockDB.ExpectationsWereMet(t)
}

func TestRecordRunFailedRunWithoutStageOutputs(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	repo := repository.NewAuditRepository(database.NewFromSQLX(mockDB.DB, logger.Nop()))

	result := sampleResult()
	result.OverallSuccess = false
	result.Extraction = nil
	result.Profile = nil

	mockDB.ExpectQuery("INSERT INTO pipeline_runs").
		WithArgs("proc-123", "resume.pdf", "", false, 0.82, 0.7, 0.44, 0, 0, 1, int64(1500)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	err := repo.RecordRun(context.Background(), result)
	require.NoError(t, err)

	mockDB.ExpectationsWereMet(t)
}

func TestListRecent(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	repo := repository.NewAuditRepository(database.NewFromSQLX(mockDB.DB, logger.Nop()))

	rows := sqlmock.NewRows([]string{
		"processing_id", "input_ref", "method", "overall_success",
		"confidence_score", "quality_score", "completeness_score",
		"work_entries", "skill_count", "warning_count", "duration_ms", "created_at",
	}).
		AddRow("proc-2", "b.pdf", "stream", true, 0.9, 0.8, 0.5, 1, 4, 0, int64(900), time.Now()).
		AddRow("proc-1", "a.pdf", "pdfcpu", false, 0.3, 0.1, 0.1, 0, 0, 3, int64(2100), time.Now())

	mockDB.ExpectQuery("SELECT processing_id, input_ref, method, overall_success").
		WithArgs(10).
		WillReturnRows(rows)

	records, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "proc-2", records[0].ProcessingID)
	assert.Equal(t, "stream", records[0].Method)
	assert.False(t, records[1].OverallSuccess)

	mockDB.ExpectationsWereMet(t)
}

func TestListRecentDefaultLimit(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	repo := repository.NewAuditRepository(database.NewFromSQLX(mockDB.DB, logger.Nop()))

	mockDB.ExpectQuery("SELECT processing_id").
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows([]string{"processing_id"}))

	_, err := repo.ListRecent(context.Background(), 0)
	require.NoError(t, err)

	mockDB.ExpectationsWereMet(t)
}
