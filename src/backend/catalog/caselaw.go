package catalog

import (
	"context"
	"slices"
	"strings"
	"time"
)

type CaseLawResult struct {
	ID        int    `yaml:"id" json:"id"`
	Title     string `yaml:"title" json:"title"`
	Citation  string `yaml:"citation" json:"citation"`
	Court     string `yaml:"court" json:"court"`
	Date      string `yaml:"date" json:"date"`
	Snippet   string `yaml:"snippet" json:"snippet"`
	Relevance int    `yaml:"relevance" json:"relevance"`
}

// SearchFilters are the case-law search options. They are echoed back with
// the results.
type SearchFilters struct {
	Jurisdiction string `json:"jurisdiction"`
	DateRange    string `json:"date_range"`
	CaseType     string `json:"case_type"`
}

func (f SearchFilters) withDefaults() SearchFilters {
	if f.Jurisdiction == "" {
		f.Jurisdiction = FilterAll
	}
	if f.DateRange == "" {
		f.DateRange = FilterAll
	}
	if f.CaseType == "" {
		f.CaseType = FilterAll
	}
	return f
}

type SearchResponse struct {
	Query   string          `json:"query"`
	Filters SearchFilters   `json:"filters"`
	Results []CaseLawResult `json:"results"`
}

// SearchCaseLaw waits for delay and returns the fixed result set. Blank
// queries fail with ErrEmptyQuery before any waiting.
func (c *Catalog) SearchCaseLaw(ctx context.Context, query string, filters SearchFilters, delay time.Duration) (SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResponse{}, ErrEmptyQuery
	}

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return SearchResponse{}, ctx.Err()
		case <-timer.C:
		}
	}

	return SearchResponse{
		Query:   query,
		Filters: filters.withDefaults(),
		Results: slices.Clone(c.caseLaw),
	}, nil
}
