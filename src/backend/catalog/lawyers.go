package catalog

import (
	"sort"
	"strings"
)

const FilterAll = "all"

// Sort orders accepted by Lawyers
const (
	SortRelevance  = "relevance"
	SortExperience = "experience"
	SortName       = "name"
)

// DirectoryLawyer is a profile in the lawyer directory
type DirectoryLawyer struct {
	ID               int    `yaml:"id" json:"id"`
	Name             string `yaml:"name" json:"name"`
	Specialty        string `yaml:"specialty" json:"specialty"`
	SpecialtyDisplay string `yaml:"specialty_display" json:"specialty_display"`
	Experience       string `yaml:"experience" json:"experience"`
	ExperienceYears  int    `yaml:"experience_years" json:"experience_years"`
	Education        string `yaml:"education" json:"education"`
	Location         string `yaml:"location" json:"location"`
	NotableCases     string `yaml:"notable_cases" json:"notable_cases"`
	Keywords         string `yaml:"keywords" json:"keywords"`
	Image            string `yaml:"image" json:"image"`
}

// LawyerFilter narrows the directory. Empty fields behave like "all".
type LawyerFilter struct {
	Specialty  string `json:"specialty"`
	Experience string `json:"experience"`
	Keyword    string `json:"keyword"`
	Sort       string `json:"sort"`
}

// Lawyers applies the specialty, experience and keyword filters, then sorts.
// Relevance ranks by how often the keyword appears in the profile keywords
// and name, keeping directory order for ties.
func (c *Catalog) Lawyers(f LawyerFilter) []DirectoryLawyer {
	keyword := strings.ToLower(strings.TrimSpace(f.Keyword))

	result := make([]DirectoryLawyer, 0, len(c.lawyers))
	for _, l := range c.lawyers {
		if !matchesOption(f.Specialty, l.Specialty) || !matchesOption(f.Experience, l.Experience) {
			continue
		}
		if keyword != "" && keywordHits(l, keyword) == 0 {
			continue
		}
		result = append(result, l)
	}

	switch f.Sort {
	case SortExperience:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].ExperienceYears > result[j].ExperienceYears
		})
	case SortName:
		sort.SliceStable(result, func(i, j int) bool {
			return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
		})
	default:
		if keyword != "" {
			sort.SliceStable(result, func(i, j int) bool {
				return keywordHits(result[i], keyword) > keywordHits(result[j], keyword)
			})
		}
	}

	return result
}

func matchesOption(filter, value string) bool {
	return filter == "" || filter == FilterAll || filter == value
}

func keywordHits(l DirectoryLawyer, keyword string) int {
	return strings.Count(strings.ToLower(l.Keywords), keyword) + strings.Count(strings.ToLower(l.Name), keyword)
}
