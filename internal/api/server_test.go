package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobmatch-engine/backend/internal/api"
	"github.com/jobmatch-engine/backend/internal/catalogue"
	"github.com/jobmatch-engine/backend/internal/config"
	"github.com/jobmatch-engine/backend/internal/engine"
	"github.com/jobmatch-engine/backend/internal/skills"
)

// Mocks

type staticSource struct {
	postings []catalogue.JobPosting
	err      error
}

func (s *staticSource) Load(ctx context.Context) ([]catalogue.JobPosting, error) {
	return s.postings, s.err
}

func setupServer(source catalogue.Source) *api.Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	entry := logger.WithField("component", "test")

	eng := engine.New(config.Load(), entry, source, skills.New(skills.DefaultVocabulary()), nil)
	return api.NewServer(eng, entry)
}

func fixtureSource() *staticSource {
	return &staticSource{postings: []catalogue.JobPosting{
		{JobTitle: "Data Scientist", Company: "A", Location: "Mumbai", Industry: "python data analysis"},
		{JobTitle: "Data Analyst", Company: "B", Location: "Pune", Industry: "python data analysis"},
		{JobTitle: "Accountant", Company: "C", Location: "Delhi", Industry: "unrelated finance"},
	}}
}

func multipartBody(t *testing.T, fields map[string]string, filename, fileContent string) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("resume", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(fileContent))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestMatchWithUploadedFile(t *testing.T) {
	server := setupServer(fixtureSource())

	body, contentType := multipartBody(t, map[string]string{"top_n": "5"},
		"resume.txt", "I know python and data analysis")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	server.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var resp api.MatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"python", "data analysis"}, resp.Skills)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "A", resp.Results[0].Company)
	assert.Equal(t, "B", resp.Results[1].Company)
	for _, res := range resp.Results {
		assert.Greater(t, res.Similarity, 0.0)
		assert.LessOrEqual(t, res.Similarity, 1.0)
	}
}

func TestMatchWithPastedText(t *testing.T) {
	server := setupServer(fixtureSource())

	body, contentType := multipartBody(t, map[string]string{
		"resume_text": "python data analysis",
		"top_n":       "1",
	}, "", "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	server.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp api.MatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "A", resp.Results[0].Company)
}

func TestMatchDegenerateReturnsEmptyList(t *testing.T) {
	server := setupServer(fixtureSource())

	body, contentType := multipartBody(t, map[string]string{
		"resume_text": "nothing in common with any posting",
	}, "", "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	server.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.MatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Results)
}

func TestMatchRejectsBadTopN(t *testing.T) {
	server := setupServer(fixtureSource())

	for _, bad := range []string{"0", "-3", "abc", "1.5"} {
		body, contentType := multipartBody(t, map[string]string{
			"resume_text": "python",
			"top_n":       bad,
		}, "", "")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/match", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		server.Router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "top_n=%s must be rejected", bad)
	}
}

func TestMatchClampsTopNToMax(t *testing.T) {
	server := setupServer(fixtureSource())

	body, contentType := multipartBody(t, map[string]string{
		"resume_text": "python data analysis",
		"top_n":       "99999",
	}, "", "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	server.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMatchRejectsMissingResume(t *testing.T) {
	server := setupServer(fixtureSource())

	body, contentType := multipartBody(t, map[string]string{"top_n": "5"}, "", "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	server.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatchRejectsUnsupportedFormat(t *testing.T) {
	server := setupServer(fixtureSource())

	body, contentType := multipartBody(t, nil, "resume.exe", "binary junk")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	server.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatchCatalogueFailureIs500(t *testing.T) {
	server := setupServer(&staticSource{err: assert.AnError})

	body, contentType := multipartBody(t, map[string]string{"resume_text": "python"}, "", "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	server.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMatchMethodNotAllowed(t *testing.T) {
	server := setupServer(fixtureSource())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/match", nil)
	rec := httptest.NewRecorder()

	server.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSkillsEndpoint(t *testing.T) {
	server := setupServer(fixtureSource())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/skills", nil)
	rec := httptest.NewRecorder()

	server.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.SkillsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Skills, "python")
	assert.Contains(t, resp.Skills, "c++")
}

func TestStatusEndpoint(t *testing.T) {
	server := setupServer(fixtureSource())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()

	server.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Running)
	assert.Equal(t, int64(0), resp.MatchesServed)
}
