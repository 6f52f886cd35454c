package main

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	types "github.com/cownect/cownect-backend/internal/domain"
	"github.com/cownect/cownect-backend/internal/modules/careers/catalog"
)

type clubFile struct {
	Clubs []clubEntry `yaml:"clubs"`
}

type clubEntry struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	CareerTags  []string `yaml:"career_tags"`
	Keywords    []string `yaml:"keywords"`
	Instagram   string   `yaml:"instagram"`
	Website     string   `yaml:"website"`
	Inactive    bool     `yaml:"inactive"`
}

type catalogReader interface {
	Lookup(name string) (catalog.CareerDefinition, bool)
	Categories() []string
}

// parseClubs checks every career tag against the catalog: a tag must be a career
// name or a category.
func parseClubs(data []byte, cat catalogReader) ([]*types.Club, error) {
	var f clubFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	categories := map[string]bool{}
	for _, c := range cat.Categories() {
		categories[c] = true
	}
	seen := map[string]bool{}
	out := make([]*types.Club, 0, len(f.Clubs))
	for i, e := range f.Clubs {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("clubs[%d]: name is required", i)
		}
		if seen[strings.ToLower(name)] {
			return nil, fmt.Errorf("clubs[%d]: duplicate name %q", i, name)
		}
		seen[strings.ToLower(name)] = true
		for _, tag := range e.CareerTags {
			if _, ok := cat.Lookup(tag); !ok && !categories[tag] {
				return nil, fmt.Errorf("club %q: unknown career tag %q", name, tag)
			}
		}
		out = append(out, &types.Club{
			Name:        name,
			Description: strings.TrimSpace(e.Description),
			Category:    strings.TrimSpace(e.Category),
			CareerTags:  e.CareerTags,
			Keywords:    e.Keywords,
			Instagram:   strings.TrimSpace(e.Instagram),
			Website:     strings.TrimSpace(e.Website),
			Active:      !e.Inactive,
		})
	}
	return out, nil
}
