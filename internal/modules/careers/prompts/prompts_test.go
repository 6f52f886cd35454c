package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allPrompts = []PromptName{
	PromptEntryRequirements,
	PromptSkillGapAnalysis,
	PromptProgression,
	PromptLearningPath,
	PromptMarketInsights,
	PromptPersonalizedAdvice,
	PromptRankingRefinement,
}

func sampleInput() Input {
	return Input{
		Career:         "Backend Developer",
		Category:       "software",
		Level:          "beginner",
		ProfileSummary: "leans software (0.90)",
		ReferenceJSON:  `{"name":"Backend Developer"}`,
		CandidatesJSON: `[{"career":"Backend Developer","score":80}]`,
	}
}

func TestBuildRendersEveryPrompt(t *testing.T) {
	for _, name := range allPrompts {
		t.Run(string(name), func(t *testing.T) {
			p, err := Build(name, sampleInput())
			require.NoError(t, err)
			assert.Equal(t, string(name), p.Name)
			assert.NotEmpty(t, p.System)
			assert.NotEmpty(t, p.User)
			assert.NotEmpty(t, p.SchemaName)
			assert.NotContains(t, p.User, "<no value>")
			assertStrict(t, p.Schema)
		})
	}
}

func TestBuildRendersOptionalFields(t *testing.T) {
	p, err := Build(PromptSkillGapAnalysis, sampleInput())
	require.NoError(t, err)
	assert.Contains(t, p.User, "CAREER: Backend Developer")
	assert.Contains(t, p.User, "MAJOR: (not provided)")

	in := sampleInput()
	in.Major = "Computer Engineering"
	p, err = Build(PromptSkillGapAnalysis, in)
	require.NoError(t, err)
	assert.Contains(t, p.User, "MAJOR: Computer Engineering")
}

func TestBuildRunsValidators(t *testing.T) {
	_, err := Build(PromptLearningPath, Input{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Career required")

	_, err = Build(PromptRankingRefinement, Input{Career: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CandidatesJSON required")

	_, err = Build(PromptName("nope"), sampleInput())
	require.Error(t, err)
}

func TestFingerprintIsStable(t *testing.T) {
	a, err := Build(PromptMarketInsights, sampleInput())
	require.NoError(t, err)
	b, err := Build(PromptMarketInsights, sampleInput())
	require.NoError(t, err)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	in := sampleInput()
	in.Career = "Data Engineer"
	c, err := Build(PromptMarketInsights, in)
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestSchemaLookup(t *testing.T) {
	name, schema, ok := Schema(PromptLearningPath)
	require.True(t, ok)
	assert.Equal(t, "learning_path", name)
	assert.Equal(t, "object", schema["type"])

	_, _, ok = Schema(PromptName("nope"))
	assert.False(t, ok)
}

func TestCompileRejectsIncompleteSpecs(t *testing.T) {
	_, err := compile(Spec{Name: "x", Version: 1, SchemaName: "x"})
	assert.Error(t, err, "missing schema func")
	_, err = compile(Spec{Name: "x", SchemaName: "x", Schema: RankingRefinementSchema})
	assert.Error(t, err, "missing version")
	_, err = compile(Spec{Name: "x", Version: 1, SchemaName: "x", Schema: RankingRefinementSchema, User: "{{.Career"})
	assert.Error(t, err, "bad template")
}

// assertStrict walks a schema and checks every object lists all of its properties as
// required and forbids additional ones.
func assertStrict(t *testing.T, schema map[string]any) {
	t.Helper()
	switch schema["type"] {
	case "object":
		props, ok := schema["properties"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, false, schema["additionalProperties"])
		req, ok := schema["required"].([]string)
		require.True(t, ok)
		assert.Len(t, req, len(props))
		for _, k := range req {
			require.Contains(t, props, k)
		}
		for _, v := range props {
			assertStrict(t, v.(map[string]any))
		}
	case "array":
		assertStrict(t, schema["items"].(map[string]any))
	}
}
