package catalogue

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// JobPosting is one row of the job catalogue.
type JobPosting struct {
	JobTitle string `json:"job_title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Industry string `json:"industry"`
}

// Source provides the job catalogue for a single match request.
// Implementations must return a fresh, read-only snapshot on every call.
type Source interface {
	Load(ctx context.Context) ([]JobPosting, error)
}

// CSVSource loads postings from a CSV file or an HTTP(S) URL.
// Required columns: job_title, company, location, industry.
type CSVSource struct {
	Location string
	client   *http.Client
}

func NewCSVSource(location string, timeout time.Duration) *CSVSource {
	return &CSVSource{
		Location: location,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (s *CSVSource) Load(ctx context.Context) ([]JobPosting, error) {
	reader, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return parseCSV(reader)
}

func (s *CSVSource) open(ctx context.Context) (io.ReadCloser, error) {
	if strings.HasPrefix(s.Location, "http://") || strings.HasPrefix(s.Location, "https://") {
		req, err := http.NewRequestWithContext(ctx, "GET", s.Location, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch catalogue: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("catalogue fetch returned status: %d", resp.StatusCode)
		}
		return resp.Body, nil
	}

	f, err := os.Open(s.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalogue file: %w", err)
	}
	return f, nil
}

var requiredColumns = []string{"job_title", "company", "location", "industry"}

func parseCSV(r io.Reader) ([]JobPosting, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("catalogue is missing required column %q", name)
		}
	}

	var postings []JobPosting
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read catalogue row: %w", err)
		}
		postings = append(postings, JobPosting{
			JobTitle: field(record, cols["job_title"]),
			Company:  field(record, cols["company"]),
			Location: field(record, cols["location"]),
			Industry: field(record, cols["industry"]),
		})
	}

	if len(postings) == 0 {
		return nil, fmt.Errorf("catalogue contains no postings")
	}
	return postings, nil
}

// field tolerates short rows; an absent cell is an empty string.
func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
