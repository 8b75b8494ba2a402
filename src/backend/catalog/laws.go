package catalog

import "strings"

type Law struct {
	ID          int    `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// Laws returns the acts whose title or description contains search
// (case-insensitive). An empty search returns every act.
func (c *Catalog) Laws(search string) []Law {
	search = strings.ToLower(strings.TrimSpace(search))
	result := make([]Law, 0, len(c.laws))
	for _, law := range c.laws {
		if search == "" ||
			strings.Contains(strings.ToLower(law.Title), search) ||
			strings.Contains(strings.ToLower(law.Description), search) {
			result = append(result, law)
		}
	}
	return result
}
