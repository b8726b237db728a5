package match_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentflow/talentflow-backend/internal/resume/domain"
	"github.com/talentflow/talentflow-backend/internal/resume/match"
)

func TestClientMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/match", r.URL.Path)

		var req struct {
			Profile        *domain.CandidateProfile `json:"profile"`
			JobDescription string                   `json:"job_description"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Senior Go engineer, Kubernetes experience", req.JobDescription)
		assert.Contains(t, req.Profile.Skills, "Go")

		json.NewEncoder(w).Encode(domain.MatchResult{
			OverallMatch:  0.82,
			SkillMatch:    0.9,
			KeywordMatch:  0.7,
			MatchedSkills: []string{"Go"},
			MissingSkills: []string{"Kubernetes"},
		})
	}))
	defer srv.Close()

	c := match.NewClient(srv.URL)
	require.True(t, c.Available())

	profile := &domain.CandidateProfile{Skills: []string{"Go", "PostgreSQL"}}
	res, err := c.Match(context.Background(), profile, "Senior Go engineer, Kubernetes experience")
	require.NoError(t, err)

	assert.Equal(t, 0.82, res.OverallMatch)
	assert.Equal(t, []string{"Go"}, res.MatchedSkills)
	assert.Equal(t, []string{"Kubernetes"}, res.MissingSkills)
}

func TestClientMatchClampsScores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]float64{
			"overall_match": 1.3,
			"skill_match":   -0.5,
			"keyword_match": 0.4,
		})
	}))
	defer srv.Close()

	c := match.NewClient(srv.URL)
	res, err := c.Match(context.Background(), &domain.CandidateProfile{}, "any role")
	require.NoError(t, err)

	assert.Equal(t, 1.0, res.OverallMatch)
	assert.Equal(t, 0.0, res.SkillMatch)
	assert.Equal(t, 0.4, res.KeywordMatch)
}

func TestClientMatchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := match.NewClient(srv.URL)
	_, err := c.Match(context.Background(), &domain.CandidateProfile{}, "any role")

	var matchErr *domain.MatchingError
	require.ErrorAs(t, err, &matchErr)
	assert.Contains(t, err.Error(), "400")
}

func TestClientMatchEmptyJobDescription(t *testing.T) {
	c := match.NewClient("http://localhost:1")

	_, err := c.Match(context.Background(), &domain.CandidateProfile{}, "")

	var matchErr *domain.MatchingError
	require.ErrorAs(t, err, &matchErr)
}

func TestClientMatchUnconfigured(t *testing.T) {
	c := match.NewClient("")

	assert.False(t, c.Available())
	_, err := c.Match(context.Background(), &domain.CandidateProfile{}, "any role")
	assert.Error(t, err)
}
