package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentflow/talentflow-backend/internal/resume/extraction"
	"github.com/talentflow/talentflow-backend/internal/resume/handler"
	"github.com/talentflow/talentflow-backend/internal/resume/parsing"
	"github.com/talentflow/talentflow-backend/internal/resume/pipeline"
	"github.com/talentflow/talentflow-backend/internal/resume/service"
	"github.com/talentflow/talentflow-backend/internal/resume/storage"
	"github.com/talentflow/talentflow-backend/internal/resume/validation"
	"github.com/talentflow/talentflow-backend/pkg/config"
	"github.com/talentflow/talentflow-backend/pkg/logger"
)

const sampleResumeText = `John Doe
john@example.com
+1-415-555-0100

Summary
Backend engineer building distributed systems in Go since 2014.

Work Experience
Senior Engineer at Acme Corp
January 2020 - Present
• Led the payments platform team on Go and PostgreSQL services

Education
BSc in Computer Science at MIT
2014

Skills
Go, Python, Docker, Kubernetes`

func testConfig() *config.PipelineConfig {
	return &config.PipelineConfig{
		Extraction: config.ExtractionConfig{
			PreferredMethod:  "auto",
			UseFallback:      true,
			SmallDocBytes:    256 * 1024,
			LargeDocBytes:    4 * 1024 * 1024,
			MinTextLength:    50,
			MinConfidence:    0.5,
			MaxPageErrorRate: 0.3,
			MaxSymbolRatio:   0.3,
		},
		Confidence: config.ConfidenceWeights{
			BasePlainText:        0.95,
			BasePDFCPU:           0.90,
			BasePDFCPURelaxed:    0.85,
			BaseStream:           0.80,
			BaseOCR:              0.60,
			LengthBonus:          0.05,
			KeywordBonus:         0.02,
			KeywordBonusCap:      0.10,
			SymbolRatioThreshold: 0.20,
			SymbolPenaltyScale:   0.50,
		},
		Scores: config.ScoreWeights{
			ExtractionWeight:   0.3,
			ParsingWeight:      0.4,
			EnhancementWeight:  0.3,
			EnhancementDefault: 0.2,
			QualityContact:     0.2,
			QualityExperience:  0.3,
			QualityEducation:   0.2,
			QualitySkills:      0.2,
			QualitySummary:     0.1,
		},
		StageTimeout:         time.Minute,
		MinParsingConfidence: 0.3,
	}
}

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	cfg := testConfig()
	registry := extraction.NewRegistry(extraction.NewPlainTextEngine(), extraction.NewStreamEngine())
	extractor := extraction.NewExtractor(registry, &cfg.Confidence, logger.Nop())
	parser := parsing.NewParser(logger.Nop())
	validator := validation.NewValidator(cfg.MinParsingConfidence)
	orchestrator := pipeline.NewOrchestrator(extractor, parser, nil, nil, validator, cfg, logger.Nop())

	jobs := storage.NewJobStore(time.Minute)
	svc := service.NewService(orchestrator, jobs, nil, nil, logger.Nop())
	h := handler.NewHandler(svc, cfg.Extraction, logger.Nop())

	r := chi.NewRouter()
	r.Route("/api/v1", h.Routes)
	return r
}

// multipartBody builds a multipart form with a file part plus extra fields.
func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

func TestSubmitReturnsJob(t *testing.T) {
	router := newTestRouter(t)

	body, contentType := multipartBody(t, "resume.txt", sampleResumeText, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var job struct {
		JobID  string `json:"job_id"`
		Status string `json:"status"`
	}
	decodeResponse(t, rec, &job)
	assert.Len(t, job.JobID, 32)
	assert.NotEmpty(t, job.Status)

	// Poll until the background run finishes.
	require.Eventually(t, func() bool {
		getReq := httptest.NewRequest(http.MethodGet, "/api/v1/resumes/"+job.JobID, nil)
		getRec := httptest.NewRecorder()
		router.ServeHTTP(getRec, getReq)
		if getRec.Code != http.StatusOK {
			return false
		}
		var resp struct {
			Data struct {
				Status string `json:"status"`
			} `json:"data"`
		}
		if err := json.Unmarshal(getRec.Body.Bytes(), &resp); err != nil {
			return false
		}
		return resp.Data.Status == "completed"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestSubmitMissingFile(t *testing.T) {
	router := newTestRouter(t)

	body, contentType := multipartBody(t, "", "", map[string]string{"method": "auto"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitEmptyFile(t *testing.T) {
	router := newTestRouter(t)

	body, contentType := multipartBody(t, "resume.txt", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitInvalidMethod(t *testing.T) {
	router := newTestRouter(t)

	body, contentType := multipartBody(t, "resume.txt", sampleResumeText, map[string]string{"method": "telepathy"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "invalid method")
}

func TestSubmitInvalidUseFallback(t *testing.T) {
	router := newTestRouter(t)

	body, contentType := multipartBody(t, "resume.txt", sampleResumeText, map[string]string{"use_fallback": "sometimes"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetJobNotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes/deadbeefdeadbeefdeadbeefdeadbeef", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProcessSync(t *testing.T) {
	router := newTestRouter(t)

	body, contentType := multipartBody(t, "resume.txt", sampleResumeText, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/sync", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		OverallSuccess bool `json:"overall_success"`
		Profile        struct {
			Contact struct {
				Email string `json:"email"`
			} `json:"contact"`
		} `json:"profile"`
		ConfidenceScore float64 `json:"confidence_score"`
	}
	decodeResponse(t, rec, &result)
	assert.True(t, result.OverallSuccess)
	assert.Equal(t, "john@example.com", result.Profile.Contact.Email)
	assert.Greater(t, result.ConfidenceScore, 0.0)
}
