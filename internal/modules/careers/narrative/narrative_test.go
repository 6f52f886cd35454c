package narrative

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cownect/cownect-backend/internal/domain/quiz"
	"github.com/cownect/cownect-backend/internal/modules/careers/catalog"
	"github.com/cownect/cownect-backend/internal/modules/careers/profile"
	"github.com/cownect/cownect-backend/internal/modules/careers/scoring"
	"github.com/cownect/cownect-backend/internal/platform/logger"
	"github.com/cownect/cownect-backend/internal/platform/openai"
)

type fakeAI struct {
	mu    sync.Mutex
	calls map[string]int
	reply func(ctx context.Context, schemaName, user string) (map[string]any, error)
}

var _ openai.Client = (*fakeAI)(nil)

func (f *fakeAI) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[schemaName]++
	f.mu.Unlock()
	return f.reply(ctx, schemaName, user)
}

func (f *fakeAI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func versioned(fields map[string]any) map[string]any {
	fields["version"] = 1
	fields["warnings"] = []string{}
	return fields
}

func validReply(schemaName string) map[string]any {
	switch schemaName {
	case "entry_requirements":
		return versioned(map[string]any{
			"education":       map[string]any{"primaryPath": "AI education", "alternativePath": "", "requiredCourses": []string{"ECS 36C"}},
			"technicalSkills": map[string]any{"required": []string{"Go"}, "preferred": []string{}, "tools": []string{}},
			"experience":      map[string]any{"portfolio": "", "internships": "", "projects": []string{}},
			"certifications":  map[string]any{"optional": []string{}, "recommended": []string{}},
		})
	case "skill_gap_analysis":
		return versioned(map[string]any{
			"overallReadiness":     "developing",
			"readinessDescription": "AI readiness",
			"criticalGaps":         []map[string]any{{"skill": "Go", "importance": "critical", "howToClose": "practice"}},
			"existingStrengths":    []string{"python"},
			"quickWins":            []string{"tutorial"},
			"longTermDevelopment":  []string{"internship"},
		})
	case "progression_outlook":
		return versioned(map[string]any{
			"summary":         "AI progression",
			"milestones":      []map[string]any{{"stage": "Junior", "timeframe": "0-2 years", "focus": "learn"}},
			"advancementTips": []string{"find a mentor"},
		})
	case "learning_path":
		return versioned(map[string]any{
			"summary": "AI path",
			"phases": []map[string]any{{
				"title":    "Start",
				"duration": "1 month",
				"steps": []map[string]any{
					{"title": "one", "description": "d", "resource": "r"},
					{"title": "two", "description": "d", "resource": "r"},
				},
			}},
		})
	case "market_insights":
		return versioned(map[string]any{
			"summary":        "AI market",
			"demandOutlook":  "strong",
			"salaryOutlook":  "rising",
			"emergingTrends": []string{"agents"},
			"topEmployers":   []string{"startups"},
		})
	case "personalized_advice":
		return versioned(map[string]any{
			"personalityProfile": "AI profile",
			"workStyle":          "independent",
			"motivationFactors":  []string{"impact"},
			"advice":             []string{"build things"},
			"nextSteps":          []string{"apply"},
		})
	}
	return nil
}

func newGenerator(t *testing.T, ai openai.Client, cfg Config) (*Generator, *catalog.Catalog) {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	g, err := New(logger.Nop(), ai, cat, cfg)
	require.NoError(t, err)
	return g, cat
}

func assertComplete(t *testing.T, b Bundle) {
	t.Helper()
	assert.NotEmpty(t, b.EntryRequirements.Education.PrimaryPath)
	assert.NotEmpty(t, b.EntryRequirements.TechnicalSkills.Required)
	assert.NoError(t, checkSkillGap(b.SkillGapAnalysis))
	assert.Contains(t, []string{"early", "developing", "nearly_ready", "ready"}, b.SkillGapAnalysis.OverallReadiness)
	assert.NoError(t, checkProgression(b.Progression))
	assert.NoError(t, checkLearningPath(b.LearningPath))
	assert.NoError(t, checkMarket(b.MarketInsights))
	assert.NotEmpty(t, b.MarketInsights.EmergingTrends)
	assert.NotEmpty(t, b.MarketInsights.TopEmployers)
	assert.NoError(t, checkAdvice(b.PersonalizedAdvice))
	assert.NotEmpty(t, b.PersonalizedAdvice.MotivationFactors)
	assert.Len(t, b.Sources, len(Sections))
	for _, id := range b.LearningPath.StepIDs() {
		assert.Regexp(t, `^step-\d+-\d+$`, id)
	}
}

func TestGenerate_NoProviderReturnsFallbackWithoutCalls(t *testing.T) {
	g, cat := newGenerator(t, nil, Config{})
	require.False(t, g.Available())

	b := g.Generate(context.Background(), "Backend Developer", scoring.UserMeta{}, profile.New(), quiz.LevelBeginner)
	assertComplete(t, b)
	assert.Zero(t, b.Generated())

	def, ok := cat.Lookup("Backend Developer")
	require.True(t, ok)
	assert.Equal(t, def.Experience, b.EntryRequirements.Experience)
	assert.Equal(t, def.Resources, b.InstitutionResources)
	assert.Equal(t, "step-1-1", b.LearningPath.StepIDs()[0])
}

func TestGenerate_AllSectionsFromModel(t *testing.T) {
	ai := &fakeAI{reply: func(_ context.Context, schemaName, _ string) (map[string]any, error) {
		return validReply(schemaName), nil
	}}
	g, _ := newGenerator(t, ai, Config{})

	b := g.Generate(context.Background(), "Backend Developer", scoring.UserMeta{Major: "Computer Science"}, profile.New(), quiz.LevelIntermediate)
	assertComplete(t, b)
	assert.Equal(t, 6, b.Generated())
	assert.Equal(t, 6, ai.total())
	assert.Equal(t, "AI education", b.EntryRequirements.Education.PrimaryPath)
	assert.Equal(t, "AI readiness", b.SkillGapAnalysis.ReadinessDescription)
	assert.Equal(t, "AI progression", b.Progression.Summary)
	assert.Equal(t, []string{"step-1-1", "step-1-2"}, b.LearningPath.StepIDs())
	assert.Equal(t, "AI market", b.MarketInsights.Summary)
	assert.Equal(t, "AI profile", b.PersonalizedAdvice.PersonalityProfile)
}

func TestGenerate_SectionFailuresAreIndependent(t *testing.T) {
	ai := &fakeAI{reply: func(_ context.Context, schemaName, _ string) (map[string]any, error) {
		switch schemaName {
		case "skill_gap_analysis":
			return nil, errors.New("upstream 500")
		case "market_insights":
			return map[string]any{"summary": "missing the rest"}, nil
		case "personalized_advice":
			r := validReply(schemaName)
			r["personalityProfile"] = "  "
			return r, nil
		case "progression_outlook":
			return nil, nil
		}
		return validReply(schemaName), nil
	}}
	g, _ := newGenerator(t, ai, Config{})
	fb := Fallback(mustLookup(t, "Data Engineer"), profile.New(), quiz.LevelBeginner)

	b := g.Generate(context.Background(), "Data Engineer", scoring.UserMeta{}, profile.New(), quiz.LevelBeginner)
	assertComplete(t, b)
	assert.Equal(t, SourceFallback, b.Sources[SectionSkillGapAnalysis])
	assert.Equal(t, SourceFallback, b.Sources[SectionMarketInsights])
	assert.Equal(t, SourceFallback, b.Sources[SectionPersonalizedAdvice])
	assert.Equal(t, SourceModel, b.Sources[SectionEntryRequirements])
	assert.Equal(t, SourceFallback, b.Sources[SectionProgression])
	assert.Equal(t, SourceModel, b.Sources[SectionLearningPath])
	assert.Equal(t, fb.SkillGapAnalysis, b.SkillGapAnalysis)
	assert.Equal(t, fb.MarketInsights, b.MarketInsights)
	assert.Equal(t, fb.PersonalizedAdvice, b.PersonalizedAdvice)
	assert.Equal(t, fb.Progression, b.Progression)
	assert.Equal(t, 2, b.Generated())
}

func TestGenerate_WrongEnumFallsBack(t *testing.T) {
	ai := &fakeAI{reply: func(_ context.Context, schemaName, _ string) (map[string]any, error) {
		r := validReply(schemaName)
		if schemaName == "skill_gap_analysis" {
			r["overallReadiness"] = "expert"
		}
		return r, nil
	}}
	g, _ := newGenerator(t, ai, Config{})

	b := g.Generate(context.Background(), "Data Engineer", scoring.UserMeta{}, profile.New(), quiz.LevelBeginner)
	assert.Equal(t, SourceFallback, b.Sources[SectionSkillGapAnalysis])
	assert.Equal(t, 5, b.Generated())
}

func TestGenerate_TimeoutFallsBackWithoutBlockingSiblings(t *testing.T) {
	ai := &fakeAI{reply: func(ctx context.Context, schemaName, _ string) (map[string]any, error) {
		if schemaName == "learning_path" {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return validReply(schemaName), nil
	}}
	g, _ := newGenerator(t, ai, Config{SectionTimeout: 50 * time.Millisecond})

	start := time.Now()
	b := g.Generate(context.Background(), "Frontend Developer", scoring.UserMeta{}, profile.New(), quiz.LevelBeginner)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, SourceFallback, b.Sources[SectionLearningPath])
	assert.Equal(t, 5, b.Generated())
	assertComplete(t, b)
}

func TestGenerate_UnknownCareerUsesGenericContent(t *testing.T) {
	g, _ := newGenerator(t, nil, Config{})

	b := g.Generate(context.Background(), "Astronaut Chef", scoring.UserMeta{}, profile.New(), quiz.LevelAdvanced)
	assertComplete(t, b)
	assert.Equal(t, genericEntry.Education.PrimaryPath, b.EntryRequirements.Education.PrimaryPath)
	assert.Equal(t, defaultEmployers, b.MarketInsights.TopEmployers)
	assert.True(t, b.InstitutionResources.Empty())
	assert.Contains(t, b.LearningPath.Summary, "Astronaut Chef")
}

func TestFallbackIsDeterministic(t *testing.T) {
	def := mustLookup(t, "Software Engineer (Full Stack)")
	p := profile.New()
	p.TechnicalSkills["python"] = 2
	p.ImpactPreferences["helping_people"] = 1

	assert.Equal(t, Fallback(def, p, quiz.LevelBeginner), Fallback(def, p, quiz.LevelBeginner))
}

func TestFallbackSkillGapUsesProfileSkills(t *testing.T) {
	def := mustLookup(t, "Software Engineer (Full Stack)")
	p := profile.New()
	for _, s := range []string{"javascript", "react", "sql", "git"} {
		p.TechnicalSkills[s] = 1
	}

	sg := Fallback(def, p, quiz.LevelBeginner).SkillGapAnalysis
	assert.Equal(t, "developing", sg.OverallReadiness)
	assert.Equal(t, []string{"JavaScript", "React", "SQL", "Git"}, sg.ExistingStrengths)
	require.Len(t, sg.CriticalGaps, 3)
	assert.Equal(t, "TypeScript", sg.CriticalGaps[0].Skill)
	assert.Equal(t, "critical", sg.CriticalGaps[0].Importance)
	assert.Equal(t, "important", sg.CriticalGaps[1].Importance)
	assert.Contains(t, sg.ReadinessDescription, "4 of the 7")

	empty := Fallback(def, profile.New(), quiz.LevelBeginner).SkillGapAnalysis
	assert.Equal(t, "early", empty.OverallReadiness)
	assert.Equal(t, []string{"Curiosity about Software Engineer (Full Stack)"}, empty.ExistingStrengths)
}

func TestFallbackAdviceReflectsScalars(t *testing.T) {
	def := mustLookup(t, "Backend Developer")
	p := profile.New()
	p.CollaborationStyle = 0.9
	p.AutonomyLevel = 0.8
	p.ImpactPreferences["helping_people"] = 2

	adv := Fallback(def, p, quiz.LevelBeginner).PersonalizedAdvice
	assert.Contains(t, adv.PersonalityProfile, "with a team")
	assert.Contains(t, adv.WorkStyle, "autonomy")
	assert.Equal(t, []string{"Helping people"}, adv.MotivationFactors)
}

func TestSummarizeProfile(t *testing.T) {
	p := profile.New()
	p.HardwareVsSoftware = 0.9
	p.DomainInterests["software"] = 4
	p.Rankings = []profile.Ranking{{Category: "values_ranking", ItemIDs: []string{"impact", "salary"}}}
	p.Answered, p.Signals = 15, 12

	s := SummarizeProfile(p)
	assert.Contains(t, s, "hardware/software balance: 0.90")
	assert.Contains(t, s, "domain interests: software (4.0)")
	assert.Contains(t, s, "impact themes: none")
	assert.Contains(t, s, "ranked values_ranking: impact > salary")
	assert.Contains(t, s, "12 of 15")
}

func mustLookup(t *testing.T, name string) catalog.CareerDefinition {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	def, ok := cat.Lookup(name)
	require.True(t, ok, name)
	return def
}
