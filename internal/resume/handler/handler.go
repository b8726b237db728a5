package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
	"github.com/talentflow/talentflow-backend/internal/resume/pipeline"
	"github.com/talentflow/talentflow-backend/internal/resume/service"
	"github.com/talentflow/talentflow-backend/pkg/config"
	"github.com/talentflow/talentflow-backend/pkg/errors"
	"github.com/talentflow/talentflow-backend/pkg/httputil"
	"github.com/talentflow/talentflow-backend/pkg/logger"
)

const maxUploadSize = 20 << 20 // 20MB

// Handler handles HTTP requests for resume processing
type Handler struct {
	service        *service.Service
	baseExtraction config.ExtractionConfig
	log            *logger.Logger
}

// NewHandler creates a new resume processing handler. baseExtraction
// supplies the defaults that per-request form fields may override.
func NewHandler(svc *service.Service, baseExtraction config.ExtractionConfig, log *logger.Logger) *Handler {
	return &Handler{
		service:        svc,
		baseExtraction: baseExtraction,
		log:            log,
	}
}

// Routes mounts the resume endpoints on a router
func (h *Handler) Routes(r chi.Router) {
	r.Post("/resumes", h.Submit)
	r.Get("/resumes/{jobID}", h.GetJob)
	r.Post("/resumes/sync", h.ProcessSync)
}

// Submit handles POST /resumes
// Accepts multipart form with:
// - file: the resume document (PDF or plain text)
// - method: optional engine override (auto, pdfcpu, pdfcpu_relaxed, stream, ocr, plaintext)
// - use_fallback: optional bool, defaults to the configured value
// - enhance: optional bool, requests the enhancement stage
// - job_description: optional text, enables the matching stage
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	doc, opts, ok := h.parseSubmission(w, r)
	if !ok {
		return
	}

	job, err := h.service.StartProcessing(r.Context(), doc, opts)
	if err != nil {
		h.requestLog(r).Error().Err(err).Msg("failed to start processing")
		httputil.Error(w, errors.Internal("resume processing failed to start"))
		return
	}

	httputil.Accepted(w, job)
}

// GetJob handles GET /resumes/{jobID}
// Returns the pipeline job status and, once finished, the full result
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if jobID == "" {
		httputil.Error(w, errors.BadRequest("missing jobID parameter"))
		return
	}

	job := h.service.GetJob(jobID)
	if job == nil {
		httputil.Error(w, errors.NotFound("job"))
		return
	}

	httputil.JSON(w, http.StatusOK, job)
}

// ProcessSync handles POST /resumes/sync
// Runs the full pipeline inline and returns the result
func (h *Handler) ProcessSync(w http.ResponseWriter, r *http.Request) {
	doc, opts, ok := h.parseSubmission(w, r)
	if !ok {
		return
	}

	result, err := h.service.ProcessSync(r.Context(), doc, opts)
	if err != nil {
		h.requestLog(r).Error().Err(err).Msg("synchronous processing failed")
		httputil.Error(w, errors.Internal("resume processing failed"))
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}

// parseSubmission reads the multipart form into a document and run
// options. On failure it writes the error response and returns ok=false.
func (h *Handler) parseSubmission(w http.ResponseWriter, r *http.Request) (*domain.Document, pipeline.Options, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		httputil.Error(w, errors.BadRequest("file too large or invalid multipart form"))
		return nil, pipeline.Options{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.Error(w, errors.BadRequest("missing file in request"))
		return nil, pipeline.Options{}, false
	}
	defer file.Close()

	// Read file into memory (never to disk)
	data, err := io.ReadAll(file)
	if err != nil {
		h.requestLog(r).Error().Err(err).Msg("failed to read uploaded file")
		httputil.Error(w, errors.Internal("failed to read uploaded file"))
		return nil, pipeline.Options{}, false
	}
	if len(data) == 0 {
		httputil.Error(w, errors.BadRequest("uploaded file is empty"))
		return nil, pipeline.Options{}, false
	}

	doc := &domain.Document{
		Path:     header.Filename,
		Data:     data,
		ByteSize: int64(len(data)),
	}

	extraction := h.baseExtraction
	if method := r.FormValue("method"); method != "" {
		switch domain.EngineID(method) {
		case domain.EngineAuto, domain.EnginePDFCPU, domain.EnginePDFCPURelaxed,
			domain.EngineStream, domain.EngineOCR, domain.EnginePlainText:
			extraction.PreferredMethod = method
		default:
			httputil.Error(w, errors.BadRequest("invalid method, must be one of: auto, pdfcpu, pdfcpu_relaxed, stream, ocr, plaintext"))
			return nil, pipeline.Options{}, false
		}
	}
	if raw := r.FormValue("use_fallback"); raw != "" {
		useFallback, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.Error(w, errors.BadRequest("invalid use_fallback, must be a boolean"))
			return nil, pipeline.Options{}, false
		}
		extraction.UseFallback = useFallback
	}

	opts := pipeline.Options{
		Extraction:     extraction,
		JobDescription: r.FormValue("job_description"),
		Enhance:        r.FormValue("enhance") == "true",
	}
	opts.Match = opts.JobDescription != ""

	return doc, opts, true
}

// requestLog attaches the request ID so handler errors correlate with
// the access log line.
func (h *Handler) requestLog(r *http.Request) *logger.Logger {
	return h.log.WithRequestID(httputil.GetRequestID(r.Context()))
}
