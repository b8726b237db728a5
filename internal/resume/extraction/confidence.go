package extraction

import (
	"strings"
	"unicode"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
	"github.com/talentflow/talentflow-backend/pkg/config"
)

// resumeKeywords are the section and contact markers whose presence
// raises extraction confidence. Each hit contributes a fixed increment
// up to a cap.
var resumeKeywords = []string{
	"experience", "education", "skills", "email", "phone",
	"summary", "university", "work", "project", "certification",
}

// Score computes the confidence of an engine's raw result: per-engine
// base reliability, length bonuses past 100 and 500 characters, a capped
// keyword bonus, and a penalty once the non-alphanumeric ratio exceeds
// its threshold. Always clamped to [0,1].
func Score(text string, engineID domain.EngineID, w *config.ConfidenceWeights) float64 {
	score := w.Base(string(engineID))

	n := len(text)
	if n > 100 {
		score += w.LengthBonus
	}
	if n > 500 {
		score += w.LengthBonus
	}

	lower := strings.ToLower(text)
	bonus := 0.0
	for _, kw := range resumeKeywords {
		if strings.Contains(lower, kw) {
			bonus += w.KeywordBonus
		}
	}
	if bonus > w.KeywordBonusCap {
		bonus = w.KeywordBonusCap
	}
	score += bonus

	if ratio := SymbolRatio(text); ratio > w.SymbolRatioThreshold {
		score -= (ratio - w.SymbolRatioThreshold) * w.SymbolPenaltyScale
	}

	return domain.Clamp(score)
}

// SymbolRatio returns the fraction of characters that are neither
// alphanumeric nor whitespace. High ratios indicate garbage extraction.
func SymbolRatio(text string) float64 {
	if text == "" {
		return 0
	}
	total := 0
	symbols := 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			continue
		}
		symbols++
	}
	return float64(symbols) / float64(total)
}

// NeedsFallback checks the escalation triggers against a primary result.
func NeedsFallback(res *domain.ExtractionResult, cfg *config.ExtractionConfig) bool {
	if res == nil {
		return true
	}
	if len(res.Text) < cfg.MinTextLength {
		return true
	}
	if res.Confidence < cfg.MinConfidence {
		return true
	}
	if res.PageCount > 0 {
		errorRate := float64(len(res.Errors)) / float64(res.PageCount)
		if errorRate > cfg.MaxPageErrorRate {
			return true
		}
	}
	if SymbolRatio(res.Text) > cfg.MaxSymbolRatio {
		return true
	}
	return false
}
