// Package match calls the external job-matching service, which scores a
// parsed profile against a job description. Matching only runs when the
// caller supplies a job description.
package match

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

// Matcher scores a candidate profile against a job description.
type Matcher interface {
	Available() bool
	Match(ctx context.Context, profile *domain.CandidateProfile, jobDescription string) (*domain.MatchResult, error)
}

// Client is an HTTP Matcher backed by the matching service.
type Client struct {
	serviceURL string
	httpClient *http.Client
}

// NewClient creates a matching client for the given service URL. An
// empty URL yields a client that reports itself unavailable.
func NewClient(serviceURL string) *Client {
	return &Client{
		serviceURL: serviceURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Available() bool { return c.serviceURL != "" }

func (c *Client) Match(ctx context.Context, profile *domain.CandidateProfile, jobDescription string) (*domain.MatchResult, error) {
	if !c.Available() {
		return nil, &domain.MatchingError{Err: fmt.Errorf("matching service not configured")}
	}
	if jobDescription == "" {
		return nil, &domain.MatchingError{Err: fmt.Errorf("job description is empty")}
	}

	payload, err := json.Marshal(matchRequest{Profile: profile, JobDescription: jobDescription})
	if err != nil {
		return nil, &domain.MatchingError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	url := c.serviceURL + "/api/v1/match"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &domain.MatchingError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.MatchingError{Err: fmt.Errorf("matching service request failed: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.MatchingError{Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.MatchingError{Err: fmt.Errorf("matching service returned %d: %s", resp.StatusCode, string(respBody))}
	}

	var result domain.MatchResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &domain.MatchingError{Err: fmt.Errorf("parse response: %w", err)}
	}

	result.OverallMatch = domain.Clamp(result.OverallMatch)
	result.SkillMatch = domain.Clamp(result.SkillMatch)
	result.KeywordMatch = domain.Clamp(result.KeywordMatch)
	return &result, nil
}

type matchRequest struct {
	Profile        *domain.CandidateProfile `json:"profile"`
	JobDescription string                   `json:"job_description"`
}
