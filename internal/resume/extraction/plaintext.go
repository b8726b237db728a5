package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
	"github.com/talentflow/talentflow-backend/pkg/config"
)

// PlainTextEngine handles non-PDF buffers: résumés submitted as .txt or
// .md. It passes valid UTF-8 through with line-ending normalization and
// carries the highest base reliability weight, since the text needs no
// extraction at all.
type PlainTextEngine struct{}

func NewPlainTextEngine() *PlainTextEngine { return &PlainTextEngine{} }

func (e *PlainTextEngine) ID() domain.EngineID { return domain.EnginePlainText }

func (e *PlainTextEngine) Available() bool { return true }

func (e *PlainTextEngine) Extract(ctx context.Context, doc *domain.Document, cfg *config.ExtractionConfig) (*domain.ExtractionResult, error) {
	start := time.Now()

	if doc.IsPDF() {
		return nil, fmt.Errorf("plaintext: input is a PDF")
	}
	if !utf8.Valid(doc.Data) {
		return nil, fmt.Errorf("plaintext: input is not valid UTF-8 text")
	}

	text := string(doc.Data)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSpace(text)

	if text == "" {
		return nil, fmt.Errorf("plaintext: empty text")
	}

	return &domain.ExtractionResult{
		Text:      text,
		Method:    domain.EnginePlainText,
		PageCount: 1,
		Elapsed:   time.Since(start),
	}, nil
}
