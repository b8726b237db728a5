package extraction

import (
	"context"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
	"github.com/talentflow/talentflow-backend/pkg/config"
	"github.com/talentflow/talentflow-backend/pkg/logger"
)

// Extractor runs the method selector, the chosen engine, and the
// fallback chain over one document. Attempts are strictly sequential:
// the chain stops as soon as a result no longer trips a fallback check,
// so later engines often never run.
type Extractor struct {
	registry *Registry
	weights  *config.ConfidenceWeights
	log      *logger.Logger
}

// NewExtractor creates an extractor over the given engine registry.
func NewExtractor(registry *Registry, weights *config.ConfidenceWeights, log *logger.Logger) *Extractor {
	return &Extractor{
		registry: registry,
		weights:  weights,
		log:      log.WithComponent("extraction"),
	}
}

// Capabilities exposes the registry's availability flags.
func (x *Extractor) Capabilities() Capabilities {
	return x.registry.Capabilities()
}

// Extract produces the best extraction result for the document, trying
// the fallback chain when the primary attempt is judged insufficient.
// The retained result always has text at least as long as the primary's.
func (x *Extractor) Extract(ctx context.Context, doc *domain.Document, cfg *config.ExtractionConfig) (*domain.ExtractionResult, error) {
	attempts := make(map[domain.EngineID]string)

	if doc == nil || len(doc.Data) == 0 {
		return nil, &domain.ExtractionError{Path: refOf(doc), Attempts: attempts, Err: domain.ErrEmptyDocument}
	}

	primaryID, err := Select(doc, cfg, x.registry.Capabilities())
	if err != nil {
		return nil, &domain.ExtractionError{Path: doc.Path, Attempts: attempts, Err: err}
	}

	tried := map[domain.EngineID]bool{}
	best := x.attempt(ctx, primaryID, doc, cfg, attempts)
	tried[primaryID] = true

	if !cfg.UseFallback {
		if best == nil {
			return nil, &domain.ExtractionError{Path: doc.Path, Attempts: attempts}
		}
		return best, nil
	}

	for _, engine := range x.registry.FallbackOrder(tried) {
		if best != nil && !NeedsFallback(best, cfg) {
			break
		}
		if err := ctx.Err(); err != nil {
			attempts[engine.ID()] = "cancelled: " + err.Error()
			break
		}

		x.log.Debug().
			Str("engine", string(engine.ID())).
			Str("input", doc.Path).
			Msg("escalating to fallback engine")

		res := x.attempt(ctx, engine.ID(), doc, cfg, attempts)
		tried[engine.ID()] = true
		best = better(best, res)
	}

	if best == nil {
		return nil, &domain.ExtractionError{Path: doc.Path, Attempts: attempts}
	}
	return best, nil
}

// attempt runs one engine and scores its result. Engine errors are
// recorded, never propagated; they become fallback triggers.
func (x *Extractor) attempt(ctx context.Context, id domain.EngineID, doc *domain.Document, cfg *config.ExtractionConfig, attempts map[domain.EngineID]string) *domain.ExtractionResult {
	engine := x.registry.Engine(id)
	if engine == nil || !engine.Available() {
		attempts[id] = "engine unavailable"
		return nil
	}

	res, err := engine.Extract(ctx, doc, cfg)
	if err != nil {
		attempts[id] = err.Error()
		x.log.Warn().Err(err).
			Str("engine", string(id)).
			Str("input", doc.Path).
			Msg("extraction attempt failed")
		return nil
	}

	res.Method = id
	if cfg.CleanText {
		res.Text = cleanExtracted(res.Text)
	}
	res.Confidence = Score(res.Text, id, x.weights)

	x.log.Info().
		Str("engine", string(id)).
		Int("chars", len(res.Text)).
		Int("pages", res.PageCount).
		Float64("confidence", res.Confidence).
		Msg("extraction attempt completed")

	return res
}

// better keeps the result with the longest text, breaking ties by
// confidence.
func better(a, b *domain.ExtractionResult) *domain.ExtractionResult {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case len(b.Text) > len(a.Text):
		return b
	case len(b.Text) == len(a.Text) && b.Confidence > a.Confidence:
		return b
	default:
		return a
	}
}

func refOf(doc *domain.Document) string {
	if doc == nil {
		return ""
	}
	return doc.Path
}
