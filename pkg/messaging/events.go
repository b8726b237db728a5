package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	// Resume pipeline events
	EventResumeProcessed = "resume.processed"
	EventResumeFailed    = "resume.failed"

	// Exchange for resume pipeline events
	ExchangeResumeEvents = "talentflow.resume.events"
)

// Event is the envelope for all published events
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// GenerateEventID returns a unique event identifier
func GenerateEventID() string {
	return uuid.New().String()
}

// ResumeProcessedEvent is published when a pipeline run completes
type ResumeProcessedEvent struct {
	ProcessingID      string  `json:"processing_id"`
	InputRef          string  `json:"input_ref"`
	Method            string  `json:"method"`
	ConfidenceScore   float64 `json:"confidence_score"`
	QualityScore      float64 `json:"quality_score"`
	CompletenessScore float64 `json:"completeness_score"`
	WorkEntries       int     `json:"work_entries"`
	SkillCount        int     `json:"skill_count"`
	DurationMs        int64   `json:"duration_ms"`
}

// ResumeFailedEvent is published when a pipeline run fails a critical stage
type ResumeFailedEvent struct {
	ProcessingID string   `json:"processing_id"`
	InputRef     string   `json:"input_ref"`
	FailedStage  string   `json:"failed_stage"`
	Errors       []string `json:"errors,omitempty"`
}
