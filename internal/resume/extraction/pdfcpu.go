package extraction

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
	"github.com/talentflow/talentflow-backend/pkg/config"
)

// PDFEngine extracts text from PDF content streams via pdfcpu. The
// strict variant validates the cross-reference table and yields the best
// layout fidelity; the relaxed variant tolerates violations of the PDF
// standard so it survives damaged files.
type PDFEngine struct {
	id     domain.EngineID
	strict bool
}

// NewPDFEngine returns the strict pdfcpu engine.
func NewPDFEngine() *PDFEngine {
	return &PDFEngine{id: domain.EnginePDFCPU, strict: true}
}

// NewRelaxedPDFEngine returns the pdfcpu engine with validation disabled.
func NewRelaxedPDFEngine() *PDFEngine {
	return &PDFEngine{id: domain.EnginePDFCPURelaxed, strict: false}
}

func (e *PDFEngine) ID() domain.EngineID { return e.id }

// Available is always true: pdfcpu is pure Go and carries no runtime
// dependency.
func (e *PDFEngine) Available() bool { return true }

func (e *PDFEngine) Extract(ctx context.Context, doc *domain.Document, cfg *config.ExtractionConfig) (*domain.ExtractionResult, error) {
	start := time.Now()

	if !doc.IsPDF() {
		return nil, fmt.Errorf("%s: input is not a PDF", e.id)
	}

	conf := model.NewDefaultConfiguration()
	if e.strict {
		conf.ValidationMode = model.ValidationStrict
	} else {
		conf.ValidationMode = model.ValidationRelaxed
	}

	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(doc.Data), conf)
	if err != nil {
		return nil, fmt.Errorf("%s: read pdf: %w", e.id, err)
	}

	pages := pdfCtx.PageCount
	if cfg.MaxPages > 0 && pages > cfg.MaxPages {
		pages = cfg.MaxPages
	}

	var sb strings.Builder
	var pageErrors []string

	for pageNr := 1; pageNr <= pages; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", e.id, err)
		}

		r, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr)
		if err != nil {
			pageErrors = append(pageErrors, fmt.Sprintf("page %d: %v", pageNr, err))
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil || len(data) == 0 {
			pageErrors = append(pageErrors, fmt.Sprintf("page %d: empty content stream", pageNr))
			continue
		}

		pageText := decodeContentStream(data, true)
		if pageText == "" {
			pageErrors = append(pageErrors, fmt.Sprintf("page %d: no text operators", pageNr))
			continue
		}

		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(pageText)
	}

	return &domain.ExtractionResult{
		Text:      sb.String(),
		Method:    e.id,
		PageCount: pages,
		Errors:    pageErrors,
		Elapsed:   time.Since(start),
	}, nil
}
