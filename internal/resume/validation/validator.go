// Package validation performs the final sanity checks of a pipeline
// run. The validator only produces warnings; it never fails a run.
package validation

import (
	"fmt"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
)

// Validator checks a pipeline result for quality issues worth flagging
// to callers.
type Validator struct {
	minParsingConfidence float64
}

func NewValidator(minParsingConfidence float64) *Validator {
	return &Validator{minParsingConfidence: minParsingConfidence}
}

// Validate returns warnings for low-quality runs. An empty slice means
// the run passed every check.
func (v *Validator) Validate(result *domain.PipelineResult) []string {
	var warnings []string

	if result.Extraction != nil {
		if result.Extraction.Confidence < 0.5 {
			warnings = append(warnings, fmt.Sprintf(
				"extraction confidence %.2f is below 0.5", result.Extraction.Confidence))
		}
		if len(result.Extraction.Text) < 100 {
			warnings = append(warnings, fmt.Sprintf(
				"extracted text is only %d characters", len(result.Extraction.Text)))
		}
	}

	if result.Profile != nil {
		if result.Profile.ParsingConfidence < v.minParsingConfidence {
			warnings = append(warnings, fmt.Sprintf(
				"parsing confidence %.2f is below %.2f",
				result.Profile.ParsingConfidence, v.minParsingConfidence))
		}
		if result.Profile.Contact.Email == "" {
			warnings = append(warnings, "no email address found")
		}
		if len(result.Profile.WorkExperience) == 0 {
			warnings = append(warnings, "no work experience entries found")
		}
	}

	return warnings
}
