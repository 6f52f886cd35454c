package compose

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gorm.io/datatypes"

	"github.com/cownect/cownect-backend/internal/domain/careers"
	"github.com/cownect/cownect-backend/internal/domain/clubs"
	"github.com/cownect/cownect-backend/internal/domain/quiz"
	"github.com/cownect/cownect-backend/internal/modules/careers/catalog"
	"github.com/cownect/cownect-backend/internal/modules/careers/narrative"
	"github.com/cownect/cownect-backend/internal/modules/careers/profile"
	"github.com/cownect/cownect-backend/internal/modules/careers/scoring"
)

const (
	DefaultMaxAlternates = 5
	NeutralRelevance     = 0.5

	reasoningFactors = 3

	// AIInsights.ConfidenceScore weights.
	confidenceFromScore       = 0.7
	confidenceFromConsistency = 0.3
)

// Lookup is the catalog read the composer needs for alternate market snippets.
type Lookup interface {
	Lookup(name string) (catalog.CareerDefinition, bool)
}

// Input is everything one result is assembled from. Narrative may be nil, in which
// case the static fallback bundle is used.
type Input struct {
	Level          quiz.Level
	Top            scoring.CareerScore
	Alternates     []scoring.CareerScore
	Reasoning      map[string]string
	Narrative      *narrative.Bundle
	Definition     catalog.CareerDefinition
	Clubs          []clubs.Recommendation
	Profile        profile.Profile
	CatalogVersion int
}

// Composer assembles results. It does no I/O and never fails.
type Composer struct {
	cat           Lookup
	maxAlternates int
}

func New(cat Lookup, maxAlternates int) *Composer {
	if maxAlternates <= 0 {
		maxAlternates = DefaultMaxAlternates
	}
	return &Composer{cat: cat, maxAlternates: maxAlternates}
}

// Compose builds the result payload. Ownership, answers and timestamps are left for
// the caller.
func (c *Composer) Compose(in Input) careers.QuizResult {
	def := in.Definition
	if def.Name == "" {
		def.Name = in.Top.Career
	}
	bundle := completeBundle(in.Narrative, def, in.Profile, in.Level)

	top := c.topMatch(in, def, bundle)
	alternates := c.alternates(in, top.Career)
	quality := qualityMetrics(in.Profile, bundle, top.Percentage)

	return careers.QuizResult{
		Level:               in.Level,
		TopMatch:            datatypes.NewJSONType(top),
		Alternates:          datatypes.NewJSONType(alternates),
		ClubRecommendations: datatypes.NewJSONType(normalizeClubs(in.Clubs, top.Career)),
		AIInsights: datatypes.NewJSONType(careers.AIInsights{
			PersonalityProfile: bundle.PersonalizedAdvice.PersonalityProfile,
			WorkStyle:          bundle.PersonalizedAdvice.WorkStyle,
			MotivationFactors:  bundle.PersonalizedAdvice.MotivationFactors,
			ConfidenceScore:    round2(confidenceFromScore*quality.RecommendationRelevance + confidenceFromConsistency*quality.ResponseConsistency),
		}),
		QualityMetrics:  datatypes.NewJSONType(quality),
		BookmarkedClubs: datatypes.JSONSlice[string]{},
		CompletedSteps:  datatypes.JSONSlice[string]{},
		CatalogVersion:  in.CatalogVersion,
	}
}

func (c *Composer) topMatch(in Input, def catalog.CareerDefinition, b narrative.Bundle) careers.TopMatch {
	pct := clampPct(in.Top.Score)
	category := in.Top.Category
	if category == "" {
		category = def.Category
	}
	return careers.TopMatch{
		Career:             def.Name,
		Category:           category,
		Percentage:         pct,
		Confidence:         careers.ConfidenceFor(pct),
		Reasoning:          reasoningFor(in.Top, in.Reasoning),
		Factors:            nonNil(in.Top.Factors),
		EntryRequirements:  MergeEntryRequirements(b.EntryRequirements, def.EntryRequirements()),
		SkillGapAnalysis:   b.SkillGapAnalysis,
		PersonalizedAdvice: b.PersonalizedAdvice,
		LearningPath:       b.LearningPath.Numbered(),
		CareerProgression:  def.Progression,
		ProgressionOutlook: b.Progression,
		MarketData:         def.Market,
		MarketInsights:     b.MarketInsights,
		// Institution resources always come from the catalog, never the bundle.
		InstitutionResources: def.Resources,
	}
}

// MergeEntryRequirements combines generated and static entry requirements. Education
// and technical skills prefer the generated value field by field; experience and
// certifications are always static.
func MergeEntryRequirements(gen, static careers.EntryRequirements) careers.EntryRequirements {
	return careers.EntryRequirements{
		Education: careers.Education{
			PrimaryPath:     preferString(gen.Education.PrimaryPath, static.Education.PrimaryPath),
			AlternativePath: preferString(gen.Education.AlternativePath, static.Education.AlternativePath),
			RequiredCourses: preferList(gen.Education.RequiredCourses, static.Education.RequiredCourses),
		},
		TechnicalSkills: careers.TechnicalSkills{
			Required:  preferList(gen.TechnicalSkills.Required, static.TechnicalSkills.Required),
			Preferred: preferList(gen.TechnicalSkills.Preferred, static.TechnicalSkills.Preferred),
			Tools:     preferList(gen.TechnicalSkills.Tools, static.TechnicalSkills.Tools),
		},
		Experience:     static.Experience,
		Certifications: static.Certifications,
	}
}

func (c *Composer) alternates(in Input, topName string) []careers.AlternateMatch {
	out := make([]careers.AlternateMatch, 0, c.maxAlternates)
	seen := map[string]bool{topName: true}
	for _, s := range in.Alternates {
		if len(out) == c.maxAlternates {
			break
		}
		if seen[s.Career] || s.Career == "" {
			continue
		}
		seen[s.Career] = true
		pct := clampPct(s.Score)
		alt := careers.AlternateMatch{
			Career:     s.Career,
			Category:   s.Category,
			Percentage: pct,
			Confidence: careers.ConfidenceFor(pct),
			Reasoning:  reasoningFor(s, in.Reasoning),
		}
		if c.cat != nil {
			if def, ok := c.cat.Lookup(s.Career); ok {
				alt.MarketSnippet = def.Market.Snippet()
				if alt.Category == "" {
					alt.Category = def.Category
				}
			}
		}
		out = append(out, alt)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Percentage > out[j].Percentage })
	return out
}

func normalizeClubs(in []clubs.Recommendation, career string) []careers.ClubRecommendation {
	out := make([]careers.ClubRecommendation, 0, len(in))
	for _, r := range in {
		ref := strings.TrimSpace(r.ClubID)
		if ref == "" {
			ref = strings.TrimSpace(r.Name)
		}
		if ref == "" {
			continue
		}
		relevance := NeutralRelevance
		if r.RelevanceScore != nil && !math.IsNaN(*r.RelevanceScore) {
			relevance = math.Max(0, math.Min(1, *r.RelevanceScore))
		}
		reasoning := strings.TrimSpace(r.Reasoning)
		if reasoning == "" {
			reasoning = fmt.Sprintf("Members build skills used by a %s.", career)
		}
		out = append(out, careers.ClubRecommendation{
			ClubRef:          ref,
			Name:             preferString(r.Name, ref),
			RelevanceScore:   round2(relevance),
			Reasoning:        reasoning,
			SuggestedActions: nonNil(r.SuggestedActions),
		})
	}
	return out
}

func qualityMetrics(p profile.Profile, b narrative.Bundle, pct float64) careers.QualityMetrics {
	var consistency float64
	if p.Answered > 0 {
		consistency = float64(p.Signals) / float64(p.Answered)
	}
	return careers.QualityMetrics{
		ResponseConsistency:     round2(consistency),
		AnalysisDepth:           round2(float64(b.Generated()) / float64(len(narrative.Sections))),
		RecommendationRelevance: round2(pct / 100),
	}
}

// reasoningFor prefers model reasoning, then the strongest factors.
func reasoningFor(s scoring.CareerScore, reasoning map[string]string) string {
	if r := strings.TrimSpace(reasoning[s.Career]); r != "" {
		return r
	}
	if len(s.Factors) == 0 {
		return "Ranked on overall fit with your answers."
	}
	n := min(len(s.Factors), reasoningFactors)
	return "Matched on " + strings.Join(s.Factors[:n], "; ") + "."
}

// completeBundle substitutes the static default for a missing bundle or any blank
// section of it.
func completeBundle(b *narrative.Bundle, def catalog.CareerDefinition, p profile.Profile, level quiz.Level) narrative.Bundle {
	fb := narrative.Fallback(def, p, level)
	if b == nil {
		return fb
	}
	out := *b
	out.Sources = make(map[narrative.Section]narrative.Source, len(narrative.Sections))
	for _, sec := range narrative.Sections {
		out.Sources[sec] = narrative.SourceFallback
		if src, ok := b.Sources[sec]; ok {
			out.Sources[sec] = src
		}
	}
	substitute := func(sec narrative.Section, blank bool, apply func()) {
		if blank {
			apply()
			out.Sources[sec] = narrative.SourceFallback
		}
	}
	substitute(narrative.SectionSkillGapAnalysis,
		out.SkillGapAnalysis.ReadinessDescription == "" && len(out.SkillGapAnalysis.CriticalGaps) == 0,
		func() { out.SkillGapAnalysis = fb.SkillGapAnalysis })
	substitute(narrative.SectionProgression,
		out.Progression.Summary == "" && len(out.Progression.Milestones) == 0,
		func() { out.Progression = fb.Progression })
	substitute(narrative.SectionLearningPath, out.LearningPath.Empty(),
		func() { out.LearningPath = fb.LearningPath })
	substitute(narrative.SectionMarketInsights, out.MarketInsights.Summary == "",
		func() { out.MarketInsights = fb.MarketInsights })
	substitute(narrative.SectionPersonalizedAdvice,
		out.PersonalizedAdvice.PersonalityProfile == "" && len(out.PersonalizedAdvice.Advice) == 0,
		func() { out.PersonalizedAdvice = fb.PersonalizedAdvice })
	return out
}

func preferString(gen, static string) string {
	if strings.TrimSpace(gen) != "" {
		return gen
	}
	return static
}

func preferList(gen, static []string) []string {
	if len(gen) > 0 {
		return gen
	}
	return nonNil(static)
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func clampPct(v float64) float64 {
	return round2(math.Max(0, math.Min(100, v)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
