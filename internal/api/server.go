package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jobmatch-engine/backend/internal/engine"
	"github.com/jobmatch-engine/backend/internal/ingest"
	"github.com/jobmatch-engine/backend/internal/match"
)

const maxUploadBytes = 10 << 20 // 10 MiB resume uploads

type Server struct {
	Engine *engine.Engine
	Logger *logrus.Entry
	Router *http.ServeMux
}

func NewServer(eng *engine.Engine, logger *logrus.Entry) *Server {
	s := &Server{
		Engine: eng,
		Logger: logger,
		Router: http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.HandleFunc("/api/v1/match", s.handleMatch)
	s.Router.HandleFunc("/api/v1/skills", s.handleSkills)
	s.Router.HandleFunc("/api/v1/status", s.handleStatus)
}

func (s *Server) Start(port string) error {
	s.Logger.Infof("Starting API Server on %s", port)
	return http.ListenAndServe(port, s.Router)
}

// Responses

type ErrorResponse struct {
	Error string `json:"error"`
}

type MatchResponse struct {
	RequestID string           `json:"request_id"`
	Skills    []string         `json:"skills"`
	Results   []engine.JobView `json:"results"`
	MapHTML   string           `json:"map_html,omitempty"`
}

type SkillsResponse struct {
	Skills []string `json:"skills"`
}

type StatusResponse struct {
	Running       bool   `json:"running"`
	MatchesServed int64  `json:"matches_served"`
	Uptime        string `json:"uptime"`
}

// Handlers

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.NewString()
	w.Header().Set("X-Request-ID", requestID)
	logger := s.Logger.WithField("request_id", requestID)

	resumeText, err := s.resumeText(r)
	if err != nil {
		logger.WithError(err).Info("Rejected match request")
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	topN, err := s.topN(r)
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	outcome, err := s.Engine.Match(r.Context(), resumeText, topN)
	if err != nil {
		var inputErr *match.InputError
		if errors.As(err, &inputErr) {
			jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: inputErr.Error()})
			return
		}
		logger.WithError(err).Error("Match failed")
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	logger.WithFields(logrus.Fields{
		"skills":  len(outcome.Skills),
		"results": len(outcome.Jobs),
		"top_n":   topN,
	}).Info("Match served")

	jsonResponse(w, http.StatusOK, MatchResponse{
		RequestID: requestID,
		Skills:    outcome.Skills,
		Results:   outcome.Jobs,
		MapHTML:   outcome.MapHTML,
	})
}

// resumeText pulls the resume out of the multipart form: either an
// uploaded file in the "resume" field or pasted text in "resume_text".
func (s *Server) resumeText(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", errors.New("expected a multipart form with a 'resume' file or 'resume_text' field")
	}

	file, header, err := r.FormFile("resume")
	if err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if readErr != nil {
			return "", errors.New("failed to read uploaded resume")
		}
		text, extractErr := ingest.ExtractText(header.Filename, data)
		if extractErr != nil {
			return "", extractErr
		}
		return text, nil
	}

	if text := r.FormValue("resume_text"); text != "" {
		return text, nil
	}
	return "", errors.New("a 'resume' file or 'resume_text' field is required")
}

// topN parses and clamps the requested result count. Absent means the
// configured default; non-positive or non-numeric values are rejected.
func (s *Server) topN(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.FormValue("top_n"))
	if raw == "" {
		return s.Engine.Config.Matcher.DefaultTopN, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New("top_n must be a positive integer")
	}
	if max := s.Engine.Config.Matcher.MaxTopN; n > max {
		n = max
	}
	return n, nil
}

func (s *Server) handleSkills(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jsonResponse(w, http.StatusOK, SkillsResponse{Skills: s.Engine.Skills.Vocabulary()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.Engine.Stats()

	jsonResponse(w, http.StatusOK, StatusResponse{
		Running:       true,
		MatchesServed: stats.MatchesServed,
		Uptime:        time.Since(stats.StartTime).String(),
	})
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
