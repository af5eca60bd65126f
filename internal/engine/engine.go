package engine

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jobmatch-engine/backend/internal/catalogue"
	"github.com/jobmatch-engine/backend/internal/config"
	"github.com/jobmatch-engine/backend/internal/geo"
	"github.com/jobmatch-engine/backend/internal/geomap"
	"github.com/jobmatch-engine/backend/internal/match"
	"github.com/jobmatch-engine/backend/internal/skills"
)

// Engine wires the match pipeline to its collaborators: the catalogue
// source, the skill extractor and the geocoder. Each Match call is an
// independent, synchronous operation with a fresh catalogue snapshot.
type Engine struct {
	Config   *config.Config
	Logger   *logrus.Entry
	Pipeline *match.Pipeline
	Skills   *skills.Extractor
	Geocoder geo.Geocoder

	mu    sync.RWMutex
	stats EngineStats
}

type EngineStats struct {
	MatchesServed int64
	LastError     string
	StartTime     time.Time
}

// JobView is one ranked job enriched with optional coordinates.
type JobView struct {
	JobTitle   string   `json:"job_title"`
	Company    string   `json:"company"`
	Location   string   `json:"location"`
	Similarity float64  `json:"similarity"`
	Lat        *float64 `json:"lat,omitempty"`
	Lon        *float64 `json:"lon,omitempty"`
}

// Outcome is the full result of one match request.
type Outcome struct {
	Skills  []string
	Jobs    []JobView
	MapHTML string
}

func New(cfg *config.Config, logger *logrus.Entry, source catalogue.Source, extractor *skills.Extractor, geocoder geo.Geocoder) *Engine {
	return &Engine{
		Config:   cfg,
		Logger:   logger,
		Pipeline: match.NewPipeline(source, extractor, logger),
		Skills:   extractor,
		Geocoder: geocoder,
		stats:    EngineStats{StartTime: time.Now()},
	}
}

// Match runs the full operation: validate, rank, then geocode the winners.
// Geocoding is strictly post-ranking and never fails the match; jobs whose
// location cannot be resolved simply carry no coordinates.
func (e *Engine) Match(ctx context.Context, resumeText string, topN int) (*Outcome, error) {
	if topN < 1 {
		return nil, &match.InputError{Reason: "top_n must be a positive integer"}
	}

	result, err := e.Pipeline.Match(ctx, resumeText, topN)
	if err != nil {
		e.recordError(err)
		return nil, err
	}

	outcome := &Outcome{
		Skills: result.Skills,
		Jobs:   make([]JobView, len(result.Jobs)),
	}

	var markers []geomap.Marker
	for i, ranked := range result.Jobs {
		view := JobView{
			JobTitle:   ranked.Posting.JobTitle,
			Company:    ranked.Posting.Company,
			Location:   ranked.Posting.Location,
			Similarity: ranked.Similarity,
		}

		if e.Geocoder != nil {
			point, gerr := e.Geocoder.Geocode(ctx, ranked.Posting.Location)
			switch {
			case gerr != nil:
				e.Logger.WithError(gerr).WithField("location", ranked.Posting.Location).
					Warn("Geocoding failed, leaving job unpinned")
			case point != nil:
				lat, lon := point.Lat, point.Lon
				view.Lat, view.Lon = &lat, &lon
				markers = append(markers, geomap.Marker{
					Lat:      lat,
					Lon:      lon,
					JobTitle: view.JobTitle,
					Company:  view.Company,
					Location: view.Location,
				})
			}
		}
		outcome.Jobs[i] = view
	}

	if len(markers) > 0 {
		mapHTML, merr := geomap.Render(markers)
		if merr != nil {
			e.Logger.WithError(merr).Warn("Map rendering failed")
		} else {
			outcome.MapHTML = mapHTML
		}
	}

	e.recordMatch()
	return outcome, nil
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() EngineStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

func (e *Engine) recordMatch() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.MatchesServed++
}

func (e *Engine) recordError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.LastError = err.Error()
}
