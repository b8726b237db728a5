package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the pipeline error taxonomy.
var (
	ErrNoEngines     = errors.New("no extraction engine available")
	ErrEmptyDocument = errors.New("document is empty")
	ErrEmptyText     = errors.New("extracted text is empty or unusable")
)

// ExtractionError is returned when every engine failed or was unavailable.
// Attempts maps each tried engine to its failure.
type ExtractionError struct {
	Path     string
	Attempts map[EngineID]string
	Err      error
}

func (e *ExtractionError) Error() string {
	var tried []string
	for id, msg := range e.Attempts {
		tried = append(tried, fmt.Sprintf("%s: %s", id, msg))
	}
	if len(tried) == 0 {
		return fmt.Sprintf("extraction failed for %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("extraction failed for %q: %s", e.Path, strings.Join(tried, "; "))
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ParsingError is returned when extracted text cannot produce a profile.
type ParsingError struct {
	Reason string
	Err    error
}

func (e *ParsingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parsing failed: %s", e.Reason)
}

func (e *ParsingError) Unwrap() error { return e.Err }

// EnhancementError wraps a failure of the external enhancement service.
// Always treated as non-critical by the orchestrator.
type EnhancementError struct{ Err error }

func (e *EnhancementError) Error() string { return fmt.Sprintf("enhancement failed: %v", e.Err) }
func (e *EnhancementError) Unwrap() error { return e.Err }

// MatchingError wraps a failure of the external matching service.
type MatchingError struct{ Err error }

func (e *MatchingError) Error() string { return fmt.Sprintf("matching failed: %v", e.Err) }
func (e *MatchingError) Unwrap() error { return e.Err }
