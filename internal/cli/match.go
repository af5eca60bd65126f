package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jobmatch-engine/backend/internal/catalogue"
	"github.com/jobmatch-engine/backend/internal/config"
	"github.com/jobmatch-engine/backend/internal/engine"
	"github.com/jobmatch-engine/backend/internal/geo"
	"github.com/jobmatch-engine/backend/internal/ingest"
	"github.com/jobmatch-engine/backend/internal/skills"
	"github.com/jobmatch-engine/backend/internal/storage"
)

var (
	matchJobs    string
	matchTopN    int
	matchGeocode bool
)

var matchCmd = &cobra.Command{
	Use:   "match <resume-file>",
	Short: "Match a resume file against the job catalogue and print the ranked results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry := newLogger()
		cfg := config.Load()

		if matchJobs != "" {
			cfg.Catalogue.Source = matchJobs
		}
		if matchTopN < 1 {
			return fmt.Errorf("--top must be a positive integer")
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read resume: %w", err)
		}
		resumeText, err := ingest.ExtractText(args[0], data)
		if err != nil {
			return err
		}

		source := catalogue.NewCSVSource(cfg.Catalogue.Source, cfg.Catalogue.LoadTimeout)
		extractor, err := loadExtractor(cfg)
		if err != nil {
			return err
		}

		var geocoder geo.Geocoder
		if matchGeocode {
			geocoder = geo.NewNominatimGeocoder(
				cfg.Geocoder.BaseURL,
				cfg.Geocoder.UserAgent,
				cfg.Geocoder.RequestTimeout,
				cfg.Geocoder.MinDelay,
				storage.NewMemoryCache(),
			)
		}

		eng := engine.New(cfg, entry, source, extractor, geocoder)
		outcome, err := eng.Match(cmd.Context(), resumeText, matchTopN)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(struct {
			Skills  []string         `json:"skills"`
			Results []engine.JobView `json:"results"`
		}{outcome.Skills, outcome.Jobs}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

// loadExtractor builds the skill extractor, honoring SKILLS_FILE when set.
func loadExtractor(cfg *config.Config) (*skills.Extractor, error) {
	if cfg.Matcher.SkillsFile == "" {
		return skills.New(skills.DefaultVocabulary()), nil
	}

	data, err := os.ReadFile(cfg.Matcher.SkillsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read skills file: %w", err)
	}
	var vocabulary []string
	for _, line := range strings.Split(string(data), "\n") {
		if term := strings.TrimSpace(line); term != "" {
			vocabulary = append(vocabulary, term)
		}
	}
	if len(vocabulary) == 0 {
		return nil, fmt.Errorf("skills file %s contains no terms", cfg.Matcher.SkillsFile)
	}
	return skills.New(vocabulary), nil
}

func init() {
	matchCmd.Flags().StringVar(&matchJobs, "jobs", "", "catalogue CSV path or URL (overrides CATALOGUE_SOURCE)")
	matchCmd.Flags().IntVar(&matchTopN, "top", 5, "maximum number of ranked results")
	matchCmd.Flags().BoolVar(&matchGeocode, "geocode", false, "geocode result locations")
	rootCmd.AddCommand(matchCmd)
}
