package questions

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cownect/cownect-backend/internal/domain/quiz"
)

const effectsPathEnv = "QUIZ_EFFECTS_YAML"

//go:embed effects.yaml
var embeddedEffects []byte

type ScaleTarget string

const (
	TargetCollaboration ScaleTarget = "collaboration"
	TargetAutonomy      ScaleTarget = "autonomy"
	TargetRisk          ScaleTarget = "risk"
	TargetBalance       ScaleTarget = "balance"
)

type ScaleMode string

const (
	ModeOverwrite ScaleMode = "overwrite"
	ModeBlend     ScaleMode = "blend"
)

// ScaleRule routes a scale question category into one profile scalar.
type ScaleRule struct {
	Target ScaleTarget `yaml:"target"`
	Mode   ScaleMode   `yaml:"mode"`
}

// Effect is what selecting one option contributes to a profile. Weighted maps
// accumulate; the scalar pointers, when set, are blended into the running value.
type Effect struct {
	Domains       map[string]float64 `yaml:"domains"`
	Impacts       map[string]float64 `yaml:"impacts"`
	Skills        map[string]float64 `yaml:"skills"`
	Balance       *float64           `yaml:"balance"`
	Collaboration *float64           `yaml:"collaboration"`
	Autonomy      *float64           `yaml:"autonomy"`
	Risk          *float64           `yaml:"risk"`
}

// Empty reports whether the effect carries no signal at all.
func (e Effect) Empty() bool {
	return len(e.Domains) == 0 && len(e.Impacts) == 0 && len(e.Skills) == 0 &&
		e.Balance == nil && e.Collaboration == nil && e.Autonomy == nil && e.Risk == nil
}

// Effects is the versioned question-id -> effect table.
type Effects struct {
	Version       int                           `yaml:"version"`
	Scales        map[string]ScaleRule          `yaml:"scales"`
	Choices       map[string]map[string]Effect  `yaml:"choices"`
	ImpactOptions map[string]map[string]float64 `yaml:"impact_options"`
	SkillKeywords []string                      `yaml:"skill_keywords"`
	TextKeywords  []string                      `yaml:"text_keywords"`
}

// LoadEffects reads QUIZ_EFFECTS_YAML when set, else the embedded table.
func LoadEffects() (*Effects, error) {
	data := embeddedEffects
	if path := strings.TrimSpace(os.Getenv(effectsPathEnv)); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read effects table: %w", err)
		}
		data = b
	}
	return ParseEffects(data)
}

func ParseEffects(data []byte) (*Effects, error) {
	var e Effects
	if err := yaml.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("parse effects table: %w", err)
	}
	if err := validateEffects(&e); err != nil {
		return nil, fmt.Errorf("invalid effects table: %w", err)
	}
	e.SkillKeywords = normalizeTerms(e.SkillKeywords)
	e.TextKeywords = normalizeTerms(e.TextKeywords)
	return &e, nil
}

// ChoiceTable returns the option table for a question id. ok is false when the
// question has no explicit mapping.
func (e *Effects) ChoiceTable(questionID string) (map[string]Effect, bool) {
	if e == nil {
		return nil, false
	}
	t, ok := e.Choices[questionID]
	return t, ok
}

func (e *Effects) ScaleRule(category string) (ScaleRule, bool) {
	if e == nil {
		return ScaleRule{}, false
	}
	r, ok := e.Scales[category]
	return r, ok
}

func (e *Effects) ImpactOption(optionID string) (map[string]float64, bool) {
	if e == nil {
		return nil, false
	}
	m, ok := e.ImpactOptions[optionID]
	return m, ok
}

// CheckAgainst verifies that every mapped question and option exists in the bank
// and that every scale category and multi-select option has an entry.
func (e *Effects) CheckAgainst(b *Bank) error {
	if b == nil {
		return errors.New("nil question bank")
	}
	known := map[string]*Set{}
	for _, s := range b.sets {
		for _, q := range s.Questions {
			known[q.ID] = s
		}
	}
	ids := make([]string, 0, len(e.Choices))
	for id := range e.Choices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, qid := range ids {
		s, ok := known[qid]
		if !ok {
			return fmt.Errorf("choices: unknown question %s", qid)
		}
		q, _ := s.Question(qid)
		if !q.Type.IsChoice() || q.MultiSelect {
			return fmt.Errorf("choices: question %s is not a single-choice question", qid)
		}
		for optID := range e.Choices[qid] {
			if _, ok := q.Option(optID); !ok {
				return fmt.Errorf("choices: question %s has no option %s", qid, optID)
			}
		}
	}
	for _, s := range b.sets {
		for _, q := range s.Questions {
			if q.Type == quiz.TypeScale {
				if _, ok := e.Scales[q.Category]; !ok {
					return fmt.Errorf("scales: no rule for category %s (question %s)", q.Category, q.ID)
				}
			}
			if q.MultiSelect {
				for _, o := range q.Options {
					if _, ok := e.ImpactOptions[o.ID]; !ok {
						return fmt.Errorf("impact_options: no entry for %s (question %s)", o.ID, q.ID)
					}
				}
			}
		}
	}
	return nil
}

func validateEffects(e *Effects) error {
	if e.Version <= 0 {
		return errors.New("version is required")
	}
	for cat, r := range e.Scales {
		switch r.Target {
		case TargetCollaboration, TargetAutonomy, TargetRisk, TargetBalance:
		default:
			return fmt.Errorf("scale %s: unknown target %q", cat, r.Target)
		}
		switch r.Mode {
		case ModeOverwrite, ModeBlend:
		default:
			return fmt.Errorf("scale %s: unknown mode %q", cat, r.Mode)
		}
	}
	for qid, opts := range e.Choices {
		for optID, eff := range opts {
			where := qid + "." + optID
			if eff.Empty() {
				return fmt.Errorf("choice %s: effect is empty", where)
			}
			for _, m := range []map[string]float64{eff.Domains, eff.Impacts, eff.Skills} {
				if err := checkWeights(where, m); err != nil {
					return err
				}
			}
			for _, v := range []*float64{eff.Balance, eff.Collaboration, eff.Autonomy, eff.Risk} {
				if v != nil && (*v < 0 || *v > 1) {
					return fmt.Errorf("choice %s: scalar %g outside [0,1]", where, *v)
				}
			}
		}
	}
	for optID, m := range e.ImpactOptions {
		if err := checkWeights("impact_options."+optID, m); err != nil {
			return err
		}
	}
	return nil
}

func checkWeights(where string, m map[string]float64) error {
	for k, w := range m {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("%s: empty key", where)
		}
		if w < 0 {
			return fmt.Errorf("%s: negative weight for %s", where, k)
		}
	}
	return nil
}

func normalizeTerms(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
