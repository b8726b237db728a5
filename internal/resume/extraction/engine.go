package extraction

import (
	"context"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
	"github.com/talentflow/talentflow-backend/pkg/config"
)

// Engine converts raw document bytes into plain text plus a confidence
// estimate. Implementations can be swapped in without changing the
// selector or the pipeline.
type Engine interface {
	// ID returns the engine identifier used in results and config
	ID() domain.EngineID

	// Available reports whether the engine can run in this process.
	// Computed once at construction, never probed at call time.
	Available() bool

	// Extract runs the engine over the document. Engine-level failures
	// are returned as errors and converted into fallback triggers by
	// the registry; they never escape as panics.
	Extract(ctx context.Context, doc *domain.Document, cfg *config.ExtractionConfig) (*domain.ExtractionResult, error)
}

// Capabilities is the explicit feature-flag set of available engines,
// computed once when the registry is built.
type Capabilities struct {
	flags map[domain.EngineID]bool
}

// Has reports whether the given engine is available.
func (c Capabilities) Has(id domain.EngineID) bool {
	return c.flags[id]
}

// Flags returns a copy of the availability map, for health reporting.
func (c Capabilities) Flags() map[domain.EngineID]bool {
	out := make(map[domain.EngineID]bool, len(c.flags))
	for id, ok := range c.flags {
		out[id] = ok
	}
	return out
}

// DirectAvailable reports whether any direct-text engine is available.
func (c Capabilities) DirectAvailable() bool {
	return c.flags[domain.EnginePDFCPU] ||
		c.flags[domain.EnginePDFCPURelaxed] ||
		c.flags[domain.EngineStream]
}

// Registry holds all registered engines in fixed fallback order:
// direct-text engines by fidelity first, recognition-based last.
type Registry struct {
	engines []Engine
	caps    Capabilities
}

// NewRegistry creates a registry from the given engines. Order matters:
// it is the fallback order.
func NewRegistry(engines ...Engine) *Registry {
	flags := make(map[domain.EngineID]bool, len(engines))
	for _, e := range engines {
		flags[e.ID()] = e.Available()
	}
	return &Registry{
		engines: engines,
		caps:    Capabilities{flags: flags},
	}
}

// Capabilities returns the availability flags computed at construction.
func (r *Registry) Capabilities() Capabilities {
	return r.caps
}

// Engine returns the engine with the given id, or nil.
func (r *Registry) Engine(id domain.EngineID) Engine {
	for _, e := range r.engines {
		if e.ID() == id {
			return e
		}
	}
	return nil
}

// FallbackOrder returns the available engines in fallback order,
// excluding the ids in skip.
func (r *Registry) FallbackOrder(skip map[domain.EngineID]bool) []Engine {
	var order []Engine
	for _, e := range r.engines {
		if !e.Available() || skip[e.ID()] {
			continue
		}
		order = append(order, e)
	}
	return order
}
