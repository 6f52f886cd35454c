package narrative

import (
	"context"
	"fmt"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/cownect/cownect-backend/internal/domain/careers"
	"github.com/cownect/cownect-backend/internal/domain/quiz"
	"github.com/cownect/cownect-backend/internal/modules/careers/catalog"
	"github.com/cownect/cownect-backend/internal/modules/careers/profile"
	"github.com/cownect/cownect-backend/internal/modules/careers/prompts"
	"github.com/cownect/cownect-backend/internal/modules/careers/scoring"
	"github.com/cownect/cownect-backend/internal/observability"
	"github.com/cownect/cownect-backend/internal/platform/logger"
	"github.com/cownect/cownect-backend/internal/platform/openai"
)

const DefaultSectionTimeout = 45 * time.Second

type Section string

const (
	SectionEntryRequirements  Section = "entry_requirements"
	SectionSkillGapAnalysis   Section = "skill_gap_analysis"
	SectionProgression        Section = "career_progression"
	SectionLearningPath       Section = "learning_path"
	SectionMarketInsights     Section = "market_insights"
	SectionPersonalizedAdvice Section = "personalized_advice"
)

// Sections lists every generated section in bundle order.
var Sections = []Section{
	SectionEntryRequirements,
	SectionSkillGapAnalysis,
	SectionProgression,
	SectionLearningPath,
	SectionMarketInsights,
	SectionPersonalizedAdvice,
}

var sectionPrompts = map[Section]prompts.PromptName{
	SectionEntryRequirements:  prompts.PromptEntryRequirements,
	SectionSkillGapAnalysis:   prompts.PromptSkillGapAnalysis,
	SectionProgression:        prompts.PromptProgression,
	SectionLearningPath:       prompts.PromptLearningPath,
	SectionMarketInsights:     prompts.PromptMarketInsights,
	SectionPersonalizedAdvice: prompts.PromptPersonalizedAdvice,
}

type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Bundle is the long-form content attached to a top match. Every section is always
// populated; Sources records which ones came from the model.
type Bundle struct {
	EntryRequirements    careers.EntryRequirements
	SkillGapAnalysis     careers.SkillGapAnalysis
	Progression          careers.ProgressionOutlook
	LearningPath         careers.LearningPath
	MarketInsights       careers.MarketInsights
	PersonalizedAdvice   careers.PersonalizedAdvice
	InstitutionResources careers.InstitutionResources
	Sources              map[Section]Source
}

// Generated counts sections produced by the model.
func (b Bundle) Generated() int {
	n := 0
	for _, s := range b.Sources {
		if s == SourceModel {
			n++
		}
	}
	return n
}

// Lookup is the catalog read the generator needs.
type Lookup interface {
	Lookup(name string) (catalog.CareerDefinition, bool)
}

type Config struct {
	SectionTimeout time.Duration
}

// Generator produces narrative bundles. A nil model client means the provider is
// unavailable and every bundle is the static fallback.
type Generator struct {
	log     *logger.Logger
	ai      openai.Client
	cat     Lookup
	timeout time.Duration
	schemas map[prompts.PromptName]*gojsonschema.Schema
}

func New(log *logger.Logger, ai openai.Client, cat Lookup, cfg Config) (*Generator, error) {
	if log == nil {
		log = logger.Nop()
	}
	timeout := cfg.SectionTimeout
	if timeout <= 0 {
		timeout = DefaultSectionTimeout
	}
	schemas, err := compileSchemas(append(promptNames(), prompts.PromptRankingRefinement)...)
	if err != nil {
		return nil, err
	}
	return &Generator{
		log:     log.With("service", "NarrativeGenerator"),
		ai:      ai,
		cat:     cat,
		timeout: timeout,
		schemas: schemas,
	}, nil
}

// Available reports whether model calls will be attempted.
func (g *Generator) Available() bool {
	return g != nil && g.ai != nil
}

// Generate builds the bundle for career. Sections are requested concurrently, each
// with its own timeout; any failure falls back for that section only. It never
// returns an error.
func (g *Generator) Generate(ctx context.Context, career string, meta scoring.UserMeta, p profile.Profile, level quiz.Level) Bundle {
	var def catalog.CareerDefinition
	if g != nil && g.cat != nil {
		def, _ = g.cat.Lookup(career)
	}
	if def.Name == "" {
		def.Name = career
	}
	fb := Fallback(def, p, level)

	if !g.Available() {
		for _, s := range Sections {
			observability.Current().IncNarrativeSection(string(s), string(SourceFallback))
		}
		return fb
	}

	ctx, span := observability.StartSpan(ctx, "narrative.generate",
		attribute.String("career", career),
		attribute.String("level", string(level)),
	)
	defer span.End()

	in := buildInput(def, p, level, meta)
	var src [6]Source
	out := fb

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		out.EntryRequirements, src[0] = generateSection(egctx, g, SectionEntryRequirements, in, fb.EntryRequirements, nil)
		return nil
	})
	eg.Go(func() error {
		out.SkillGapAnalysis, src[1] = generateSection(egctx, g, SectionSkillGapAnalysis, in, fb.SkillGapAnalysis, checkSkillGap)
		return nil
	})
	eg.Go(func() error {
		out.Progression, src[2] = generateSection(egctx, g, SectionProgression, in, fb.Progression, checkProgression)
		return nil
	})
	eg.Go(func() error {
		out.LearningPath, src[3] = generateSection(egctx, g, SectionLearningPath, in, fb.LearningPath, checkLearningPath)
		return nil
	})
	eg.Go(func() error {
		out.MarketInsights, src[4] = generateSection(egctx, g, SectionMarketInsights, in, fb.MarketInsights, checkMarket)
		return nil
	})
	eg.Go(func() error {
		out.PersonalizedAdvice, src[5] = generateSection(egctx, g, SectionPersonalizedAdvice, in, fb.PersonalizedAdvice, checkAdvice)
		return nil
	})
	_ = eg.Wait()

	out.LearningPath = out.LearningPath.Numbered()
	out.Sources = make(map[Section]Source, len(Sections))
	for i, s := range Sections {
		out.Sources[s] = src[i]
	}
	span.SetAttributes(attribute.Int("sections_generated", out.Generated()))
	return out
}

func promptNames() []prompts.PromptName {
	out := make([]prompts.PromptName, 0, len(Sections))
	for _, s := range Sections {
		out = append(out, sectionPrompts[s])
	}
	return out
}

func compileSchemas(names ...prompts.PromptName) (map[prompts.PromptName]*gojsonschema.Schema, error) {
	out := make(map[prompts.PromptName]*gojsonschema.Schema, len(names))
	for _, name := range names {
		_, raw, ok := prompts.Schema(name)
		if !ok {
			return nil, fmt.Errorf("narrative: prompt %s is not registered", name)
		}
		s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("narrative: compile %s schema: %w", name, err)
		}
		out[name] = s
	}
	return out, nil
}
