package catalog

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"
)

var ErrEmptyQuery = errors.New("search query is empty")

type LegalCase struct {
	ID         string   `yaml:"id" json:"id"`
	Title      string   `yaml:"title" json:"title"`
	Citation   string   `yaml:"citation" json:"citation"`
	Court      string   `yaml:"court" json:"court"`
	Date       string   `yaml:"date" json:"date"` // YYYY-MM-DD
	Judges     []string `yaml:"judges" json:"judges"`
	Summary    string   `yaml:"summary" json:"summary"`
	Categories []string `yaml:"categories" json:"categories"`
	Statutes   []string `yaml:"statutes" json:"statutes"`
	Tags       []string `yaml:"tags" json:"tags"`
}

// Year returns the decision year, or 0 when the date is malformed
func (lc LegalCase) Year() int {
	t, err := time.Parse(time.DateOnly, lc.Date)
	if err != nil {
		return 0
	}
	return t.Year()
}

// CaseFilter narrows the case library. Zero values match everything.
type CaseFilter struct {
	Court       string `json:"court"`
	Category    string `json:"category"`
	YearFrom    int    `json:"year_from"`
	YearTo      int    `json:"year_to"`
	SearchQuery string `json:"search_query"`
}

// Cases returns the library cases matching every set filter. The search
// query is matched against title, summary, citation, tags and statutes.
func (c *Catalog) Cases(f CaseFilter) []LegalCase {
	query := strings.ToLower(strings.TrimSpace(f.SearchQuery))

	result := make([]LegalCase, 0, len(c.cases))
	for _, lc := range c.cases {
		if f.Court != "" && lc.Court != f.Court {
			continue
		}
		if f.Category != "" && !slices.Contains(lc.Categories, f.Category) {
			continue
		}
		year := lc.Year()
		if (f.YearFrom > 0 && year < f.YearFrom) || (f.YearTo > 0 && year > f.YearTo) {
			continue
		}
		if query != "" && !caseMatches(lc, query) {
			continue
		}
		result = append(result, lc)
	}
	return result
}

// Case looks a library case up by id
func (c *Catalog) Case(id string) (LegalCase, bool) {
	for _, lc := range c.cases {
		if lc.ID == id {
			return lc, true
		}
	}
	return LegalCase{}, false
}

func caseMatches(lc LegalCase, query string) bool {
	if strings.Contains(strings.ToLower(lc.Title), query) ||
		strings.Contains(strings.ToLower(lc.Summary), query) ||
		strings.Contains(strings.ToLower(lc.Citation), query) {
		return true
	}
	for _, list := range [][]string{lc.Tags, lc.Statutes} {
		for _, v := range list {
			if strings.Contains(strings.ToLower(v), query) {
				return true
			}
		}
	}
	return false
}

// Courts lists the court filter options
func (c *Catalog) Courts() []string {
	return slices.Clone(c.courts)
}

// Categories lists the category filter options
func (c *Catalog) Categories() []string {
	return slices.Clone(c.categories)
}

// ParseYear reads an optional year form value
func ParseYear(s string) int {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || year < 0 {
		return 0
	}
	return year
}
