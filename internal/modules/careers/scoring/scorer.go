package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cownect/cownect-backend/internal/domain/quiz"
	"github.com/cownect/cownect-backend/internal/modules/careers/catalog"
	"github.com/cownect/cownect-backend/internal/modules/careers/profile"
)

var ErrEmptyCatalog = errors.New("career catalog is empty")

// Per-factor caps. Each contribution is clamped before the factors are summed.
const (
	capAlignment = 25.0
	capDomain    = 30.0
	capImpact    = 20.0
	capSkill     = 20.0
	capWorkStyle = 10.0
	capText      = 15.0
	majorBonus   = 10.0

	neutralAlignment  = 12.5
	domainPerWeight   = 10.0
	impactPerWeight   = 10.0
	skillPerWeight    = 5.0
	textKeywordPoints = 3.0

	workStyleBase     = 5.0
	workStyleBonus    = 5.0
	autonomyThreshold = 0.7
	remoteThreshold   = 60

	beginnerMultiplier = 1.2
	advancedMultiplier = 1.15

	DefaultTopN = 5
)

// Catalog is the read side of the career catalog the scorer needs.
type Catalog interface {
	All() []catalog.CareerDefinition
}

type UserMeta struct {
	Major string `json:"major,omitempty"`
}

// CareerScore is one career's result for one submission. Factors explain which
// contributions fired; they are not used for re-scoring.
type CareerScore struct {
	Career   string   `json:"career"`
	Category string   `json:"category"`
	RawScore float64  `json:"rawScore"`
	Score    float64  `json:"score"`
	Factors  []string `json:"factors"`
}

// Scorer ranks every catalog career against a profile. It holds no mutable state.
type Scorer struct {
	careers []catalog.CareerDefinition
	tables  *resolved
}

// NewScorer resolves the tables against the catalog. An empty catalog or a table
// naming an unknown career or category is a configuration error.
func NewScorer(cat Catalog, tables *Tables) (*Scorer, error) {
	if cat == nil {
		return nil, ErrEmptyCatalog
	}
	defs := cat.All()
	if len(defs) == 0 {
		return nil, ErrEmptyCatalog
	}
	if tables == nil {
		return nil, errors.New("scoring tables are required")
	}
	r, err := tables.resolve(defs)
	if err != nil {
		return nil, fmt.Errorf("scoring tables: %w", err)
	}
	return &Scorer{careers: defs, tables: r}, nil
}

// ScoreAll scores the full catalog and returns it ordered by descending score. Ties
// keep catalog order, so the first-listed career wins.
func (s *Scorer) ScoreAll(p profile.Profile, level quiz.Level, meta UserMeta) ([]CareerScore, error) {
	if s == nil || len(s.careers) == 0 {
		return nil, ErrEmptyCatalog
	}
	domains := profile.Sorted(p.DomainInterests)
	impacts := profile.Sorted(p.ImpactPreferences)
	skills := profile.Sorted(p.TechnicalSkills)
	keywords := p.Keywords()
	majors := s.majorCareers(meta.Major)

	out := make([]CareerScore, 0, len(s.careers))
	for _, def := range s.careers {
		out = append(out, s.score(def, p, level, domains, impacts, skills, keywords, majors))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func (s *Scorer) score(
	def catalog.CareerDefinition,
	p profile.Profile,
	level quiz.Level,
	domains, impacts, skills []profile.Weighted,
	keywords []string,
	majors careerSet,
) CareerScore {
	cs := CareerScore{Career: def.Name, Category: def.Category}
	add := func(label string, v float64) float64 {
		if v > 0 {
			cs.Factors = append(cs.Factors, fmt.Sprintf("%s (+%.1f)", label, v))
		}
		return v
	}

	var total float64

	switch {
	case s.tables.hardware[def.Category]:
		total += add("hardware alignment", (1-p.HardwareVsSoftware)*capAlignment)
	case s.tables.software[def.Category]:
		total += add("software alignment", p.HardwareVsSoftware*capAlignment)
	default:
		total += add("mixed hardware/software domain", neutralAlignment)
	}

	var domain float64
	var domainHits []string
	for _, w := range domains {
		if s.tables.domains[w.Key][def.Name] {
			domain += w.Weight * domainPerWeight
			domainHits = append(domainHits, w.Key)
		}
	}
	total += add("domain interest: "+strings.Join(domainHits, ", "), capped(domain, capDomain))

	var impact float64
	var impactHits []string
	for _, w := range impacts {
		if s.tables.impacts[w.Key][def.Name] {
			impact += w.Weight * impactPerWeight
			impactHits = append(impactHits, w.Key)
		}
	}
	total += add("impact preference: "+strings.Join(impactHits, ", "), capped(impact, capImpact))

	var skill float64
	var skillHits []string
	for _, w := range skills {
		if requiresSkill(def, w.Key) {
			skill += w.Weight * skillPerWeight
			skillHits = append(skillHits, w.Key)
		}
	}
	total += add("skill match: "+strings.Join(skillHits, ", "), capped(skill, capSkill))

	workStyle := workStyleBase
	if p.AutonomyLevel > autonomyThreshold && def.Market.RemotePercentage > remoteThreshold {
		workStyle += workStyleBonus
	}
	total += add("work style", capped(workStyle, capWorkStyle))

	var text float64
	var textHits []string
	for _, k := range keywords {
		if hasKeyword(def, k) {
			text += textKeywordPoints
			textHits = append(textHits, k)
		}
	}
	total += add("your own words: "+strings.Join(textHits, ", "), capped(text, capText))

	switch {
	case level == quiz.LevelBeginner && s.tables.beginner[def.Name]:
		total *= beginnerMultiplier
		cs.Factors = append(cs.Factors, fmt.Sprintf("beginner friendly (x%.2f)", beginnerMultiplier))
	case level == quiz.LevelAdvanced && s.tables.advanced[def.Name]:
		total *= advancedMultiplier
		cs.Factors = append(cs.Factors, fmt.Sprintf("advanced track (x%.2f)", advancedMultiplier))
	}

	if majors[def.Name] {
		total += add("fits your major", majorBonus)
	}

	cs.RawScore = round2(total)
	cs.Score = round2(capped(total, 100))
	return cs
}

func (s *Scorer) majorCareers(major string) careerSet {
	major = strings.TrimSpace(major)
	if major == "" {
		return nil
	}
	out := careerSet{}
	for _, rule := range s.tables.majors {
		if profile.ContainsTerm(major, rule.phrase) {
			for n := range rule.careers {
				out[n] = true
			}
		}
	}
	return out
}

func requiresSkill(def catalog.CareerDefinition, tag string) bool {
	for _, req := range def.Skills.Required {
		if profile.ContainsTerm(req, tag) {
			return true
		}
	}
	return false
}

func hasKeyword(def catalog.CareerDefinition, k string) bool {
	for _, kw := range def.Keywords {
		if strings.EqualFold(kw, k) {
			return true
		}
	}
	return false
}

// Top returns the first n scores, DefaultTopN when n is not positive.
func Top(scores []CareerScore, n int) []CareerScore {
	if n <= 0 {
		n = DefaultTopN
	}
	if len(scores) < n {
		n = len(scores)
	}
	return append([]CareerScore(nil), scores[:n]...)
}

func capped(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	return math.Min(v, max)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
