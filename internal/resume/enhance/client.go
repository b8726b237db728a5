// Package enhance calls the external résumé enhancement service, which
// scores a parsed profile and returns improvement feedback. The service
// is optional; callers treat failures as degraded output, not pipeline
// failures.
package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
)

// Enhancer scores a candidate profile against general résumé quality
// criteria.
type Enhancer interface {
	Available() bool
	Enhance(ctx context.Context, profile *domain.CandidateProfile) (*domain.EnhancementResult, error)
}

// Client is an HTTP Enhancer backed by the enhancement service.
type Client struct {
	serviceURL string
	httpClient *http.Client
}

// NewClient creates an enhancement client for the given service URL.
// An empty URL yields a client that reports itself unavailable.
func NewClient(serviceURL string) *Client {
	return &Client{
		serviceURL: serviceURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second, // Scoring models can take tens of seconds
		},
	}
}

func (c *Client) Available() bool { return c.serviceURL != "" }

func (c *Client) Enhance(ctx context.Context, profile *domain.CandidateProfile) (*domain.EnhancementResult, error) {
	if !c.Available() {
		return nil, &domain.EnhancementError{Err: fmt.Errorf("enhancement service not configured")}
	}

	payload, err := json.Marshal(enhanceRequest{Profile: profile})
	if err != nil {
		return nil, &domain.EnhancementError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	url := c.serviceURL + "/api/v1/enhance"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &domain.EnhancementError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.EnhancementError{Err: fmt.Errorf("enhancement service request failed: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.EnhancementError{Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.EnhancementError{Err: fmt.Errorf("enhancement service returned %d: %s", resp.StatusCode, string(respBody))}
	}

	var result domain.EnhancementResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &domain.EnhancementError{Err: fmt.Errorf("parse response: %w", err)}
	}

	result.OverallScore = domain.Clamp(result.OverallScore)
	result.ATSCompatibility = domain.Clamp(result.ATSCompatibility)
	return &result, nil
}

type enhanceRequest struct {
	Profile *domain.CandidateProfile `json:"profile"`
}
