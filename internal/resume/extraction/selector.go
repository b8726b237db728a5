package extraction

import (
	"github.com/talentflow/talentflow-backend/internal/resume/domain"
	"github.com/talentflow/talentflow-backend/pkg/config"
)

// Select picks the initial engine for a document.
//
// Deterministic ranking for auto mode: non-PDF buffers go to the
// plaintext engine; small PDFs take the fastest direct engine (stream),
// medium PDFs the engine with the best layout fidelity (pdfcpu), large
// PDFs the most robust direct engine (pdfcpu_relaxed). When no direct
// engine is available the recognition engine is chosen immediately.
func Select(doc *domain.Document, cfg *config.ExtractionConfig, caps Capabilities) (domain.EngineID, error) {
	preferred := domain.EngineID(cfg.PreferredMethod)

	if preferred != "" && preferred != domain.EngineAuto {
		if !caps.Has(preferred) {
			return "", domain.ErrNoEngines
		}
		return preferred, nil
	}

	if !doc.IsPDF() {
		if caps.Has(domain.EnginePlainText) {
			return domain.EnginePlainText, nil
		}
		return "", domain.ErrNoEngines
	}

	if !caps.DirectAvailable() {
		if caps.Has(domain.EngineOCR) {
			return domain.EngineOCR, nil
		}
		return "", domain.ErrNoEngines
	}

	var want domain.EngineID
	switch {
	case doc.ByteSize < cfg.SmallDocBytes:
		want = domain.EngineStream
	case doc.ByteSize < cfg.LargeDocBytes:
		want = domain.EnginePDFCPU
	default:
		want = domain.EnginePDFCPURelaxed
	}

	if caps.Has(want) {
		return want, nil
	}

	// Preferred direct engine missing: fall back to any direct engine
	// in fidelity order.
	for _, id := range []domain.EngineID{domain.EnginePDFCPU, domain.EnginePDFCPURelaxed, domain.EngineStream} {
		if caps.Has(id) {
			return id, nil
		}
	}
	return domain.EngineOCR, nil
}
