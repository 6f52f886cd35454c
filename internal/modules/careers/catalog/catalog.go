package catalog

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cownect/cownect-backend/internal/domain/careers"
)

const catalogPathEnv = "CAREER_CATALOG_YAML"

//go:embed careers.yaml
var catalogFS embed.FS

// CareerDefinition is one immutable catalog entry.
type CareerDefinition struct {
	Name           string                       `yaml:"name" json:"name"`
	Category       string                       `yaml:"category" json:"category"`
	Description    string                       `yaml:"description" json:"description"`
	Keywords       []string                     `yaml:"keywords" json:"keywords"`
	Education      careers.Education            `yaml:"education" json:"education"`
	Skills         careers.TechnicalSkills      `yaml:"skills" json:"technicalSkills"`
	Experience     careers.Experience           `yaml:"experience" json:"experience"`
	Certifications careers.Certifications       `yaml:"certifications" json:"certifications"`
	Resources      careers.InstitutionResources `yaml:"resources" json:"institutionResources"`
	Progression    []careers.ProgressionStep    `yaml:"progression" json:"careerProgression"`
	Market         careers.MarketData           `yaml:"market" json:"marketData"`
}

// EntryRequirements is the static entry-requirements block for this career.
func (d CareerDefinition) EntryRequirements() careers.EntryRequirements {
	return careers.EntryRequirements{
		Education:       d.Education,
		TechnicalSkills: d.Skills,
		Experience:      d.Experience,
		Certifications:  d.Certifications,
	}
}

type categoryDefaults struct {
	Resources careers.InstitutionResources `yaml:"resources"`
}

type catalogFile struct {
	Version    int                         `yaml:"version"`
	Categories []string                    `yaml:"categories"`
	Defaults   map[string]categoryDefaults `yaml:"defaults"`
	Careers    []CareerDefinition          `yaml:"careers"`
}

// Catalog is read-only after construction and safe for concurrent use.
type Catalog struct {
	version    int
	categories []string
	order      []string
	byName     map[string]CareerDefinition
}

// Load reads the catalog from CAREER_CATALOG_YAML when set, else the embedded file.
func Load() (*Catalog, error) {
	var (
		data []byte
		err  error
	)
	if path := strings.TrimSpace(os.Getenv(catalogPathEnv)); path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = catalogFS.ReadFile("careers.yaml")
	}
	if err != nil {
		return nil, fmt.Errorf("read career catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse career catalog: %w", err)
	}
	if err := validate(&file); err != nil {
		return nil, fmt.Errorf("invalid career catalog: %w", err)
	}

	c := &Catalog{
		version:    file.Version,
		categories: append([]string(nil), file.Categories...),
		order:      make([]string, 0, len(file.Careers)),
		byName:     make(map[string]CareerDefinition, len(file.Careers)),
	}
	for _, def := range file.Careers {
		def.Resources = mergeResources(def.Resources, file.Defaults[def.Category].Resources)
		c.order = append(c.order, def.Name)
		c.byName[def.Name] = def
	}
	return c, nil
}

func validate(file *catalogFile) error {
	if len(file.Careers) == 0 {
		return errors.New("no careers defined")
	}
	known := map[string]bool{}
	for _, cat := range file.Categories {
		known[cat] = true
	}
	seen := map[string]bool{}
	for i, def := range file.Careers {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			return fmt.Errorf("career %d: name is required", i)
		}
		if name != def.Name {
			return fmt.Errorf("career %q: name has surrounding whitespace", def.Name)
		}
		if seen[name] {
			return fmt.Errorf("duplicate career: %s", name)
		}
		seen[name] = true
		if !known[def.Category] {
			return fmt.Errorf("career %s: unknown category %q", name, def.Category)
		}
		if len(def.Skills.Required) == 0 {
			return fmt.Errorf("career %s: no required skills", name)
		}
		if len(def.Progression) == 0 {
			return fmt.Errorf("career %s: no progression ladder", name)
		}
		if def.Market.RemotePercentage < 0 || def.Market.RemotePercentage > 100 {
			return fmt.Errorf("career %s: remote_percentage out of range", name)
		}
	}
	return nil
}

func mergeResources(own, def careers.InstitutionResources) careers.InstitutionResources {
	if len(own.Clubs) == 0 {
		own.Clubs = def.Clubs
	}
	if len(own.Courses) == 0 {
		own.Courses = def.Courses
	}
	if len(own.Events) == 0 {
		own.Events = def.Events
	}
	if len(own.FacultyContacts) == 0 {
		own.FacultyContacts = def.FacultyContacts
	}
	return own
}

func (c *Catalog) Version() int { return c.version }

func (c *Catalog) Len() int { return len(c.order) }

// Lookup returns the definition for an exact display name. A miss yields the zero
// definition and false.
func (c *Catalog) Lookup(name string) (CareerDefinition, bool) {
	def, ok := c.byName[name]
	return def, ok
}

// Names returns career names in catalog order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// All returns every definition in catalog order.
func (c *Catalog) All() []CareerDefinition {
	out := make([]CareerDefinition, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.byName[name])
	}
	return out
}

func (c *Catalog) Categories() []string {
	return append([]string(nil), c.categories...)
}

func (c *Catalog) ByCategory(category string) []CareerDefinition {
	var out []CareerDefinition
	for _, name := range c.order {
		if def := c.byName[name]; def.Category == category {
			out = append(out, def)
		}
	}
	return out
}
