// Package catalog serves the static reference data: Indian acts, the lawyer
// directory, the landmark case library and the case-law search results.
package catalog

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Catalog holds the parsed reference data
type Catalog struct {
	laws       []Law
	lawyers    []DirectoryLawyer
	cases      []LegalCase
	courts     []string
	categories []string
	caseLaw    []CaseLawResult
}

type caseLibraryFile struct {
	Courts     []string    `yaml:"courts"`
	Categories []string    `yaml:"categories"`
	Cases      []LegalCase `yaml:"cases"`
}

// Load parses the embedded data files
func Load() (*Catalog, error) {
	c := &Catalog{}

	if err := decode("data/laws.yaml", &c.laws); err != nil {
		return nil, err
	}
	if err := decode("data/lawyers.yaml", &c.lawyers); err != nil {
		return nil, err
	}

	var library caseLibraryFile
	if err := decode("data/cases.yaml", &library); err != nil {
		return nil, err
	}
	c.cases = library.Cases
	c.courts = library.Courts
	c.categories = library.Categories

	if err := decode("data/caselaw.yaml", &c.caseLaw); err != nil {
		return nil, err
	}

	return c, nil
}

// MustLoad is Load for callers that cannot continue without the data
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func decode(name string, out any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}
