package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cownect/cownect-backend/internal/domain/careers"
	"github.com/cownect/cownect-backend/internal/domain/clubs"
	"github.com/cownect/cownect-backend/internal/domain/quiz"
	"github.com/cownect/cownect-backend/internal/modules/careers/catalog"
	"github.com/cownect/cownect-backend/internal/modules/careers/narrative"
	"github.com/cownect/cownect-backend/internal/modules/careers/profile"
	"github.com/cownect/cownect-backend/internal/modules/careers/scoring"
)

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	return cat
}

func lookup(t *testing.T, cat *catalog.Catalog, name string) catalog.CareerDefinition {
	t.Helper()
	def, ok := cat.Lookup(name)
	require.True(t, ok, name)
	return def
}

func scoresFor(names ...string) []scoring.CareerScore {
	out := make([]scoring.CareerScore, 0, len(names))
	for i, n := range names {
		out = append(out, scoring.CareerScore{Career: n, Score: float64(90 - 5*i), Factors: []string{"work style (+5.0)"}})
	}
	return out
}

func TestMergeEntryRequirements_StaticOnlyFields(t *testing.T) {
	static := careers.EntryRequirements{
		Education:       careers.Education{PrimaryPath: "B.S. CS", AlternativePath: "Bootcamp", RequiredCourses: []string{"ECS 36C"}},
		TechnicalSkills: careers.TechnicalSkills{Required: []string{"Go"}, Preferred: []string{"Rust"}, Tools: []string{"Git"}},
		Experience:      careers.Experience{Portfolio: "Three deployed apps", Internships: "One internship", Projects: []string{"Chat app"}},
		Certifications:  careers.Certifications{Recommended: []string{"AWS Developer"}},
	}
	gen := careers.EntryRequirements{
		Education:       careers.Education{PrimaryPath: "B.S. Computer Engineering"},
		TechnicalSkills: careers.TechnicalSkills{Required: []string{"Python", "SQL"}},
		Experience:      careers.Experience{},
		Certifications:  careers.Certifications{Recommended: []string{"Made-up cert"}},
	}

	got := MergeEntryRequirements(gen, static)
	assert.Equal(t, static.Experience, got.Experience, "experience is static even when generated is empty")
	assert.Equal(t, static.Certifications, got.Certifications, "certifications are static even when generated is set")
	assert.Equal(t, "B.S. Computer Engineering", got.Education.PrimaryPath)
	assert.Equal(t, "Bootcamp", got.Education.AlternativePath)
	assert.Equal(t, []string{"ECS 36C"}, got.Education.RequiredCourses)
	assert.Equal(t, []string{"Python", "SQL"}, got.TechnicalSkills.Required)
	assert.Equal(t, []string{"Rust"}, got.TechnicalSkills.Preferred)
	assert.Equal(t, []string{"Git"}, got.TechnicalSkills.Tools)
}

func TestCompose_TopMatchUsesStaticBlocks(t *testing.T) {
	cat := loadCatalog(t)
	def := lookup(t, cat, "Backend Developer")
	bundle := narrative.Fallback(def, profile.New(), quiz.LevelBeginner)
	bundle.EntryRequirements.Experience = careers.Experience{}
	bundle.InstitutionResources = careers.InstitutionResources{Clubs: []string{"Not from the catalog"}}

	res := New(cat, 0).Compose(Input{
		Level:      quiz.LevelBeginner,
		Top:        scoring.CareerScore{Career: def.Name, Category: def.Category, Score: 82, Factors: []string{"a", "b", "c", "d"}},
		Narrative:  &bundle,
		Definition: def,
		Profile:    profile.New(),
	})

	top := res.TopMatch.Data()
	assert.Equal(t, "Backend Developer", top.Career)
	assert.Equal(t, 82.0, top.Percentage)
	assert.Equal(t, careers.ConfidenceHigh, top.Confidence)
	assert.Equal(t, def.Experience, top.EntryRequirements.Experience)
	assert.NotEmpty(t, top.EntryRequirements.Experience.Portfolio)
	assert.Equal(t, def.Progression, top.CareerProgression)
	assert.Equal(t, def.Market, top.MarketData)
	assert.Equal(t, def.Resources, top.InstitutionResources)
	assert.Equal(t, "Matched on a; b; c.", top.Reasoning)
	assert.Equal(t, "step-1-1", top.LearningPath.StepIDs()[0])
	assert.Equal(t, quiz.LevelBeginner, res.Level)
	assert.Empty(t, res.BookmarkedClubs)
	assert.Empty(t, res.CompletedSteps)
}

func TestCompose_MissingNarrativeUsesFallback(t *testing.T) {
	cat := loadCatalog(t)
	def := lookup(t, cat, "Hardware Engineer")

	res := New(cat, 0).Compose(Input{
		Level:      quiz.LevelAdvanced,
		Top:        scoring.CareerScore{Career: def.Name, Score: 40},
		Definition: def,
		Profile:    profile.New(),
	})

	top := res.TopMatch.Data()
	want := narrative.Fallback(def, profile.New(), quiz.LevelAdvanced)
	assert.Equal(t, want.SkillGapAnalysis, top.SkillGapAnalysis)
	assert.Equal(t, want.PersonalizedAdvice, top.PersonalizedAdvice)
	assert.Equal(t, "hardware", top.Category, "category falls back to the definition")
	assert.Equal(t, careers.ConfidenceLow, top.Confidence)
	assert.Zero(t, res.QualityMetrics.Data().AnalysisDepth)
}

func TestCompose_BlankSectionIsReplaced(t *testing.T) {
	cat := loadCatalog(t)
	def := lookup(t, cat, "Data Scientist")
	bundle := narrative.Fallback(def, profile.New(), quiz.LevelBeginner)
	for _, s := range narrative.Sections {
		bundle.Sources[s] = narrative.SourceModel
	}
	bundle.LearningPath = careers.LearningPath{}

	res := New(cat, 0).Compose(Input{
		Top:        scoring.CareerScore{Career: def.Name, Score: 60},
		Narrative:  &bundle,
		Definition: def,
	})

	assert.False(t, res.TopMatch.Data().LearningPath.Empty())
	assert.Equal(t, 0.83, res.QualityMetrics.Data().AnalysisDepth, "five of six sections came from the model")
	assert.Equal(t, narrative.SourceModel, bundle.Sources[narrative.SectionLearningPath], "input bundle is not modified")
}

func TestCompose_Alternates(t *testing.T) {
	cat := loadCatalog(t)
	def := lookup(t, cat, "Backend Developer")
	alts := scoresFor("Data Engineer", "Backend Developer", "Cloud Engineer", "DevOps Engineer", "Frontend Developer", "Data Analyst", "QA Automation Engineer")
	alts[2].Score = 95 // out of order on input

	res := New(cat, 0).Compose(Input{
		Top:        scoring.CareerScore{Career: "Backend Developer", Score: 96},
		Alternates: alts,
		Reasoning:  map[string]string{"Data Engineer": "You like pipelines."},
		Definition: def,
	})

	got := res.Alternates.Data()
	require.Len(t, got, DefaultMaxAlternates)
	names := make([]string, 0, len(got))
	for i, a := range got {
		names = append(names, a.Career)
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].Percentage, a.Percentage)
		}
		assert.NotEmpty(t, a.Category)
		assert.NotEmpty(t, a.MarketSnippet.MedianSalary)
	}
	assert.NotContains(t, names, "Backend Developer")
	assert.Equal(t, "Cloud Engineer", names[0])
	assert.Equal(t, "You like pipelines.", got[1].Reasoning)
	assert.Equal(t, lookup(t, cat, "Cloud Engineer").Market.Snippet(), got[0].MarketSnippet)

	res = New(cat, 2).Compose(Input{Top: scoring.CareerScore{Career: "Backend Developer"}, Alternates: alts})
	assert.Len(t, res.Alternates.Data(), 2)
}

func TestCompose_UnknownAlternateHasNoSnippet(t *testing.T) {
	res := New(loadCatalog(t), 0).Compose(Input{
		Top:        scoring.CareerScore{Career: "Backend Developer"},
		Alternates: []scoring.CareerScore{{Career: "Astronaut Chef", Score: 10}},
	})
	got := res.Alternates.Data()
	require.Len(t, got, 1)
	assert.Equal(t, careers.MarketSnippet{}, got[0].MarketSnippet)
	assert.Equal(t, "Ranked on overall fit with your answers.", got[0].Reasoning)
}

func TestCompose_ClubsAreNormalized(t *testing.T) {
	high, neg := 1.7, -0.2
	res := New(nil, 0).Compose(Input{
		Top: scoring.CareerScore{Career: "Backend Developer"},
		Clubs: []clubs.Recommendation{
			{ClubID: "c1", Name: "#include", Reasoning: "Builds software projects", SuggestedActions: []string{"Join a project team"}},
			{Name: "HackDavis", RelevanceScore: &high},
			{ClubID: "c3", Name: "Chess Club", RelevanceScore: &neg},
			{ClubID: " ", Name: ""},
		},
	})

	got := res.ClubRecommendations.Data()
	require.Len(t, got, 3)
	assert.Equal(t, careers.ClubRecommendation{
		ClubRef:          "c1",
		Name:             "#include",
		RelevanceScore:   NeutralRelevance,
		Reasoning:        "Builds software projects",
		SuggestedActions: []string{"Join a project team"},
	}, got[0])
	assert.Equal(t, "HackDavis", got[1].ClubRef)
	assert.Equal(t, 1.0, got[1].RelevanceScore)
	assert.Equal(t, []string{}, got[1].SuggestedActions)
	assert.Contains(t, got[1].Reasoning, "Backend Developer")
	assert.Equal(t, 0.0, got[2].RelevanceScore)
}

func TestCompose_QualityAndInsights(t *testing.T) {
	cat := loadCatalog(t)
	def := lookup(t, cat, "Backend Developer")
	p := profile.New()
	p.Answered, p.Signals = 15, 12
	bundle := narrative.Fallback(def, p, quiz.LevelBeginner)
	bundle.Sources[narrative.SectionSkillGapAnalysis] = narrative.SourceModel
	bundle.Sources[narrative.SectionLearningPath] = narrative.SourceModel
	bundle.Sources[narrative.SectionMarketInsights] = narrative.SourceModel

	res := New(cat, 0).Compose(Input{
		Top:        scoring.CareerScore{Career: def.Name, Score: 80},
		Narrative:  &bundle,
		Definition: def,
		Profile:    p,
	})

	q := res.QualityMetrics.Data()
	assert.Equal(t, 0.8, q.ResponseConsistency)
	assert.Equal(t, 0.5, q.AnalysisDepth)
	assert.Equal(t, 0.8, q.RecommendationRelevance)

	ai := res.AIInsights.Data()
	assert.Equal(t, bundle.PersonalizedAdvice.PersonalityProfile, ai.PersonalityProfile)
	assert.Equal(t, bundle.PersonalizedAdvice.MotivationFactors, ai.MotivationFactors)
	assert.Equal(t, 0.8, ai.ConfidenceScore)
}

func TestCompose_IsTotal(t *testing.T) {
	assert.NotPanics(t, func() {
		res := New(nil, 0).Compose(Input{})
		assert.Equal(t, 0.0, res.TopMatch.Data().Percentage)
		assert.Empty(t, res.Alternates.Data())
		assert.Empty(t, res.ClubRecommendations.Data())
	})
}
