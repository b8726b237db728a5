package pipeline

import (
	"github.com/talentflow/talentflow-backend/internal/resume/domain"
	"github.com/talentflow/talentflow-backend/pkg/config"
)

// aggregateScores derives the run-level confidence, quality and
// completeness scores from whatever stages produced output. A run that
// failed before parsing still gets consistent zero-leaning scores.
func aggregateScores(result *domain.PipelineResult, w *config.ScoreWeights) {
	var extractionConfidence, parsingConfidence float64
	if result.Extraction != nil {
		extractionConfidence = result.Extraction.Confidence
	}
	if result.Profile != nil {
		parsingConfidence = result.Profile.ParsingConfidence
	}

	// The default term substitutes for a skipped enhancement stage on a
	// run that parsed successfully; a run aborted before parsing gets no
	// free confidence.
	var enhancementTerm float64
	switch {
	case result.Enhancement != nil:
		enhancementTerm = w.EnhancementWeight * result.Enhancement.OverallScore
	case result.Profile != nil:
		enhancementTerm = w.EnhancementDefault
	}
	result.ConfidenceScore = domain.Clamp(
		w.ExtractionWeight*extractionConfidence +
			w.ParsingWeight*parsingConfidence +
			enhancementTerm)

	result.QualityScore = qualityScore(result.Profile, w)
	result.CompletenessScore = completenessScore(result.Profile)
}

// qualityScore weighs the presence of the profile's main building
// blocks. Contact contributes proportionally to how many of its core
// fields were found.
func qualityScore(profile *domain.CandidateProfile, w *config.ScoreWeights) float64 {
	if profile == nil {
		return 0
	}

	score := w.QualityContact * contactCompleteness(&profile.Contact)
	if len(profile.WorkExperience) > 0 {
		score += w.QualityExperience
	}
	if len(profile.Education) > 0 {
		score += w.QualityEducation
	}
	if len(profile.Skills) > 0 {
		score += w.QualitySkills
	}
	if profile.Summary != "" {
		score += w.QualitySummary
	}

	return domain.Clamp(score)
}

func contactCompleteness(c *domain.ContactInfo) float64 {
	fields := []string{c.Name, c.Email, c.Phone, c.LinkedIn}
	filled := 0
	for _, f := range fields {
		if f != "" {
			filled++
		}
	}
	return float64(filled) / float64(len(fields))
}

func completenessScore(profile *domain.CandidateProfile) float64 {
	if profile == nil {
		return 0
	}
	return domain.Clamp(float64(len(profile.SectionsFound)) / float64(len(domain.AllSections)))
}
