package extraction

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
	"github.com/talentflow/talentflow-backend/pkg/config"
)

// StreamEngine scans the raw file bytes for uncompressed text operators
// without reading the cross-reference table. It is the fastest engine
// and works on files whose xref is damaged, at the cost of missing
// compressed content streams entirely. Positioning operators are mapped
// to line breaks so downstream section segmentation keeps working.
type StreamEngine struct{}

func NewStreamEngine() *StreamEngine { return &StreamEngine{} }

func (e *StreamEngine) ID() domain.EngineID { return domain.EngineStream }

func (e *StreamEngine) Available() bool { return true }

func (e *StreamEngine) Extract(ctx context.Context, doc *domain.Document, cfg *config.ExtractionConfig) (*domain.ExtractionResult, error) {
	start := time.Now()

	if !doc.IsPDF() {
		return nil, fmt.Errorf("stream: input is not a PDF")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("stream: %w", err)
	}

	pages := bytes.Count(doc.Data, []byte("/Type /Page")) + bytes.Count(doc.Data, []byte("/Type/Page"))
	if cfg.MaxPages > 0 && pages > cfg.MaxPages {
		pages = cfg.MaxPages
	}

	text := decodeContentStream(doc.Data, true)
	if text == "" {
		return nil, fmt.Errorf("stream: no uncompressed text operators found")
	}

	return &domain.ExtractionResult{
		Text:      text,
		Method:    domain.EngineStream,
		PageCount: pages,
		Elapsed:   time.Since(start),
	}, nil
}
