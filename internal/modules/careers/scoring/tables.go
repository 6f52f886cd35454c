package scoring

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cownect/cownect-backend/internal/modules/careers/catalog"
)

const tablesPathEnv = "CAREER_SCORING_YAML"

//go:embed tables.yaml
var embeddedTables []byte

// Selector names a group of careers by category and/or exact career name.
type Selector struct {
	Categories []string `yaml:"categories"`
	Careers    []string `yaml:"careers"`
}

// Tables is the versioned data the scorer reads: category classification, the
// domain/impact/major career groups and the level adjustment sets.
type Tables struct {
	Version            int                 `yaml:"version"`
	HardwareCategories []string            `yaml:"hardware_categories"`
	SoftwareCategories []string            `yaml:"software_categories"`
	Domains            map[string]Selector `yaml:"domains"`
	Impacts            map[string]Selector `yaml:"impacts"`
	BeginnerFriendly   []string            `yaml:"beginner_friendly"`
	Advanced           []string            `yaml:"advanced"`
	Majors             map[string]Selector `yaml:"majors"`
}

// LoadTables reads CAREER_SCORING_YAML when set, else the embedded tables.
func LoadTables() (*Tables, error) {
	data := embeddedTables
	if path := strings.TrimSpace(os.Getenv(tablesPathEnv)); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read scoring tables: %w", err)
		}
		data = b
	}
	return ParseTables(data)
}

func ParseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse scoring tables: %w", err)
	}
	if t.Version <= 0 {
		return nil, errors.New("scoring tables: version is required")
	}
	return &t, nil
}

type careerSet map[string]bool

type majorRule struct {
	phrase  string
	careers careerSet
}

// resolved is Tables expanded against one catalog.
type resolved struct {
	hardware map[string]bool
	software map[string]bool
	domains  map[string]careerSet
	impacts  map[string]careerSet
	beginner careerSet
	advanced careerSet
	majors   []majorRule
}

func (t *Tables) resolve(defs []catalog.CareerDefinition) (*resolved, error) {
	names := map[string]bool{}
	categories := map[string]bool{}
	byCategory := map[string][]string{}
	for _, d := range defs {
		names[d.Name] = true
		categories[d.Category] = true
		byCategory[d.Category] = append(byCategory[d.Category], d.Name)
	}

	expand := func(where string, sel Selector) (careerSet, error) {
		out := careerSet{}
		for _, c := range sel.Categories {
			if !categories[c] {
				return nil, fmt.Errorf("%s: unknown category %q", where, c)
			}
			for _, n := range byCategory[c] {
				out[n] = true
			}
		}
		for _, n := range sel.Careers {
			if !names[n] {
				return nil, fmt.Errorf("%s: unknown career %q", where, n)
			}
			out[n] = true
		}
		return out, nil
	}
	list := func(where string, in []string) (careerSet, error) {
		return expand(where, Selector{Careers: in})
	}

	r := &resolved{
		hardware: toSet(t.HardwareCategories),
		software: toSet(t.SoftwareCategories),
		domains:  map[string]careerSet{},
		impacts:  map[string]careerSet{},
	}
	for c := range r.hardware {
		if r.software[c] {
			return nil, fmt.Errorf("category %q is classified as both hardware and software", c)
		}
	}
	var err error
	for k, sel := range t.Domains {
		if r.domains[k], err = expand("domains."+k, sel); err != nil {
			return nil, err
		}
	}
	for k, sel := range t.Impacts {
		if r.impacts[k], err = expand("impacts."+k, sel); err != nil {
			return nil, err
		}
	}
	if r.beginner, err = list("beginner_friendly", t.BeginnerFriendly); err != nil {
		return nil, err
	}
	if r.advanced, err = list("advanced", t.Advanced); err != nil {
		return nil, err
	}
	for phrase, sel := range t.Majors {
		set, err := expand("majors."+phrase, sel)
		if err != nil {
			return nil, err
		}
		r.majors = append(r.majors, majorRule{phrase: strings.ToLower(strings.TrimSpace(phrase)), careers: set})
	}
	sort.Slice(r.majors, func(i, j int) bool { return r.majors[i].phrase < r.majors[j].phrase })
	return r, nil
}

func toSet(in []string) map[string]bool {
	out := make(map[string]bool, len(in))
	for _, v := range in {
		out[v] = true
	}
	return out
}
