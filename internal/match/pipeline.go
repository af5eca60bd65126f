package match

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/jobmatch-engine/backend/internal/catalogue"
	"github.com/jobmatch-engine/backend/internal/skills"
)

// Pipeline runs one complete match operation: catalogue load, skill
// extraction, vectorization and ranking. It holds no request state; the
// model is fit fresh on every call.
type Pipeline struct {
	Source catalogue.Source
	Skills *skills.Extractor
	Logger *logrus.Entry
}

// Result is the output of a single match operation.
type Result struct {
	Skills []string
	Jobs   []Ranked
}

func NewPipeline(source catalogue.Source, extractor *skills.Extractor, logger *logrus.Entry) *Pipeline {
	return &Pipeline{
		Source: source,
		Skills: extractor,
		Logger: logger,
	}
}

// Match ranks the catalogue against resumeText and extracts its skills.
// Empty resume text is a valid degenerate match (no skills, no jobs), not
// an error. topN is assumed validated (>= 1) by the caller.
func (p *Pipeline) Match(ctx context.Context, resumeText string, topN int) (*Result, error) {
	postings, err := p.Source.Load(ctx)
	if err != nil {
		return nil, &CatalogueError{Err: err}
	}
	if len(postings) == 0 {
		return nil, &CatalogueError{Err: errors.New("catalogue is empty")}
	}

	extracted := p.Skills.Extract(resumeText)

	corpus := make([]string, len(postings))
	for i, posting := range postings {
		corpus[i] = posting.Industry
	}

	model := Fit(corpus)
	queryVector := model.Transform(resumeText)
	ranked := Rank(queryVector, model.DocumentVectors(), postings, topN)

	p.Logger.WithFields(logrus.Fields{
		"postings": len(postings),
		"terms":    model.Terms(),
		"skills":   len(extracted),
		"results":  len(ranked),
	}).Debug("Match pipeline completed")

	return &Result{Skills: extracted, Jobs: ranked}, nil
}
