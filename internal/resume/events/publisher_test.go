package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
	"github.com/talentflow/talentflow-backend/pkg/messaging"
)

func TestFailedStage(t *testing.T) {
	tests := []struct {
		name   string
		result *domain.PipelineResult
		want   string
	}{
		{
			name: "extraction failed",
			result: &domain.PipelineResult{
				StageResults: map[domain.StageID]*domain.StageResult{
					domain.StageExtraction: {Stage: domain.StageExtraction, Status: domain.StageFailed},
					domain.StageParsing:    {Stage: domain.StageParsing, Status: domain.StageSkipped},
				},
			},
			want: "extraction",
		},
		{
			name: "first failed stage in order wins",
			result: &domain.PipelineResult{
				StageResults: map[domain.StageID]*domain.StageResult{
					domain.StageExtraction: {Stage: domain.StageExtraction, Status: domain.StageCompleted},
					domain.StageParsing:    {Stage: domain.StageParsing, Status: domain.StageFailed},
					domain.StageValidation: {Stage: domain.StageValidation, Status: domain.StageFailed},
				},
			},
			want: "parsing",
		},
		{
			name:   "no stage results",
			result: &domain.PipelineResult{StageResults: map[domain.StageID]*domain.StageResult{}},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, failedStage(tt.result))
		})
	}
}

func TestProcessedEventSerialization(t *testing.T) {
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	event := messaging.ResumeProcessedEvent{
		ProcessingID:      "proc-123",
		InputRef:          "resume.pdf",
		Method:            "pdfcpu",
		ConfidenceScore:   0.87,
		QualityScore:      0.72,
		CompletenessScore: 0.44,
		WorkEntries:       2,
		SkillCount:        8,
		DurationMs:        started.Add(1500 * time.Millisecond).Sub(started).Milliseconds(),
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var parsed messaging.ResumeProcessedEvent
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, event.ProcessingID, parsed.ProcessingID)
	assert.Equal(t, event.Method, parsed.Method)
	assert.Equal(t, event.ConfidenceScore, parsed.ConfidenceScore)
	assert.Equal(t, int64(1500), parsed.DurationMs)
	assert.Equal(t, 2, parsed.WorkEntries)
}
