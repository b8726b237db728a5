package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
	"github.com/talentflow/talentflow-backend/pkg/config"
)

// OCREngine extracts text by rendering pages through an external
// recognition service. Each page is split out of the document with
// pdfcpu and POSTed to the service with the configured language set;
// page texts are joined with a blank-line separator.
//
// Recognition is CPU-bound on the service side, so page requests pass
// through a process-wide gate bounding simultaneous recognition jobs.
type OCREngine struct {
	serviceURL string
	httpClient *http.Client
	gate       chan struct{}
}

// NewOCREngine creates the recognition engine. The gate bounds
// concurrent page-recognition requests across all pipeline runs; it must
// be sized before concurrent runs begin.
func NewOCREngine(serviceURL string, concurrency int) *OCREngine {
	if concurrency < 1 {
		concurrency = 1
	}
	return &OCREngine{
		serviceURL: serviceURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second, // page recognition can take tens of seconds
		},
		gate: make(chan struct{}, concurrency),
	}
}

func (e *OCREngine) ID() domain.EngineID { return domain.EngineOCR }

// Available reports whether a recognition service is configured.
func (e *OCREngine) Available() bool { return e.serviceURL != "" }

func (e *OCREngine) Extract(ctx context.Context, doc *domain.Document, cfg *config.ExtractionConfig) (*domain.ExtractionResult, error) {
	start := time.Now()

	if !e.Available() {
		return nil, fmt.Errorf("ocr: no recognition service configured")
	}
	if !doc.IsPDF() {
		return nil, fmt.Errorf("ocr: input is not a PDF")
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pageCount, err := api.PageCount(bytes.NewReader(doc.Data), conf)
	if err != nil {
		return nil, fmt.Errorf("ocr: page count: %w", err)
	}
	if cfg.MaxPages > 0 && pageCount > cfg.MaxPages {
		pageCount = cfg.MaxPages
	}

	var pageTexts []string
	var pageErrors []string

	for pageNr := 1; pageNr <= pageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("ocr: %w", err)
		}

		text, err := e.recognizePage(ctx, doc.Data, pageNr, conf, cfg.OCRLanguages)
		if err != nil {
			pageErrors = append(pageErrors, fmt.Sprintf("page %d: %v", pageNr, err))
			continue
		}
		if text != "" {
			pageTexts = append(pageTexts, text)
		}
	}

	if len(pageTexts) == 0 {
		return nil, fmt.Errorf("ocr: no page produced text (%d errors)", len(pageErrors))
	}

	return &domain.ExtractionResult{
		Text:      strings.Join(pageTexts, "\n\n"),
		Method:    domain.EngineOCR,
		PageCount: pageCount,
		Errors:    pageErrors,
		Elapsed:   time.Since(start),
	}, nil
}

// recognizePage splits one page out of the document and sends it to the
// recognition service. Blocks on the concurrency gate first.
func (e *OCREngine) recognizePage(ctx context.Context, data []byte, pageNr int, conf *model.Configuration, languages []string) (string, error) {
	select {
	case e.gate <- struct{}{}:
		defer func() { <-e.gate }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	var pageBuf bytes.Buffer
	if err := api.Trim(bytes.NewReader(data), &pageBuf, []string{strconv.Itoa(pageNr)}, conf); err != nil {
		return "", fmt.Errorf("split page: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", fmt.Sprintf("page-%d.pdf", pageNr))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(pageBuf.Bytes()); err != nil {
		return "", fmt.Errorf("write page data: %w", err)
	}
	if err := writer.WriteField("languages", strings.Join(languages, "+")); err != nil {
		return "", fmt.Errorf("write languages field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	url := e.serviceURL + "/api/v1/recognize"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("recognition request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("recognition service returned %d: %s", resp.StatusCode, string(respBody))
	}

	var rec recognitionResponse
	if err := json.Unmarshal(respBody, &rec); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	return strings.TrimSpace(rec.Text), nil
}

// recognitionResponse mirrors the recognition service contract.
type recognitionResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}
