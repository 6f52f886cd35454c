package prompts

import "sync"

const advisorSystem = `
You are a career advisor for university engineering and computer science students.
Ground every statement in the career reference and the student's quiz profile below.
Be concrete and student-actionable: name courses, project types, tools and timelines.
Do not invent salary figures or employer names that are not plausible for the career.
Return JSON only.`

const studentContext = `
CAREER: {{.Career}}
CATEGORY: {{.Category}}
QUIZ LEVEL: {{.Level}}
MAJOR: {{if .Major}}{{.Major}}{{else}}(not provided){{end}}

PROFILE:
{{.ProfileSummary}}

STRENGTHS SEEN IN ANSWERS:
{{if .Strengths}}{{.Strengths}}{{else}}(none detected){{end}}

IN THEIR OWN WORDS:
{{if .TextInsights}}{{.TextInsights}}{{else}}(no free-text answers matched known topics){{end}}

CAREER REFERENCE (static catalog, authoritative):
{{.ReferenceJSON}}`

var registerOnce sync.Once

// RegisterAll registers every careers prompt. It is safe to call repeatedly.
func RegisterAll() {
	registerOnce.Do(registerAll)
}

func registerAll() {
	RegisterSpec(Spec{
		Name:       PromptEntryRequirements,
		Version:    1,
		SchemaName: "entry_requirements",
		Schema:     EntryRequirementsSchema,
		System:     advisorSystem,
		User: studentContext + `

Task: describe how this student enters {{.Career}}.
- education.primaryPath: the usual degree route; alternativePath: a credible non-traditional route.
- education.requiredCourses: 4-8 university courses, most important first.
- technicalSkills: required (5-8), preferred (3-6), tools (3-8). Lead with skills the student already shows.
- experience and certifications: fill them, the catalog values will be used for these blocks.
- warnings: note anything in the profile that conflicts with this career.`,
		Validators: []Validator{requireCareer},
	})

	RegisterSpec(Spec{
		Name:       PromptSkillGapAnalysis,
		Version:    1,
		SchemaName: "skill_gap_analysis",
		Schema:     SkillGapAnalysisSchema,
		System:     advisorSystem,
		User: studentContext + `

Task: compare the student's current signals with what {{.Career}} requires.
- overallReadiness: one of early|developing|nearly_ready|ready, judged for a student at the {{.Level}} quiz level.
- readinessDescription: 2-3 sentences addressed to the student.
- criticalGaps: 2-5 gaps, each with importance and a concrete howToClose.
- existingStrengths: 2-5 strengths grounded in the profile.
- quickWins: 3-5 things doable within a month.
- longTermDevelopment: 2-4 multi-semester goals.`,
		Validators: []Validator{requireCareer},
	})

	RegisterSpec(Spec{
		Name:       PromptProgression,
		Version:    1,
		SchemaName: "progression_outlook",
		Schema:     ProgressionOutlookSchema,
		System:     advisorSystem,
		User: studentContext + `

Task: explain how a career in {{.Career}} typically develops, following the ladder in the reference.
- summary: 2-4 sentences.
- milestones: 3-5 stages from student to senior, each with a timeframe and what to focus on.
- advancementTips: 3-5 tips.`,
		Validators: []Validator{requireCareer},
	})

	RegisterSpec(Spec{
		Name:       PromptLearningPath,
		Version:    1,
		SchemaName: "learning_path",
		Schema:     LearningPathSchema,
		System:     advisorSystem,
		User: studentContext + `

Task: build a learning path toward an entry-level {{.Career}} role.
- 3-4 phases, ordered, each with a duration such as "1-2 months".
- 2-4 steps per phase. Each step names one resource (course, book, project, club or event).
- Start from what the student already knows; skip basics they clearly have.`,
		Validators: []Validator{requireCareer},
	})

	RegisterSpec(Spec{
		Name:       PromptMarketInsights,
		Version:    1,
		SchemaName: "market_insights",
		Schema:     MarketInsightsSchema,
		System:     advisorSystem,
		User: studentContext + `

Task: summarize the job market for {{.Career}} for a student graduating in the next few years.
- summary: 2-3 sentences consistent with the reference market data.
- demandOutlook and salaryOutlook: one sentence each.
- emergingTrends: 3-5 trends. topEmployers: 3-6 employer types or well-known employers.`,
		Validators: []Validator{requireCareer},
	})

	RegisterSpec(Spec{
		Name:       PromptPersonalizedAdvice,
		Version:    1,
		SchemaName: "personalized_advice",
		Schema:     PersonalizedAdviceSchema,
		System:     advisorSystem,
		User: studentContext + `

Task: write advice for this specific student.
- personalityProfile: 1-2 sentences describing how they like to work, drawn from the profile.
- workStyle: one sentence.
- motivationFactors: 2-4 items.
- advice: 3-5 concrete suggestions. nextSteps: 3 actions for this week.`,
		Validators: []Validator{requireCareer},
	})

	RegisterSpec(Spec{
		Name:       PromptRankingRefinement,
		Version:    1,
		SchemaName: "ranking_refinement",
		Schema:     RankingRefinementSchema,
		System: `
You review a heuristic ranking of career matches for a university student.
You may reorder the candidates but you must return exactly the candidate names given, each once.
Do not add or rename careers.
Return JSON only.`,
		User: `
QUIZ LEVEL: {{.Level}}
MAJOR: {{if .Major}}{{.Major}}{{else}}(not provided){{end}}

PROFILE:
{{.ProfileSummary}}

IN THEIR OWN WORDS:
{{if .TextInsights}}{{.TextInsights}}{{else}}(none){{end}}

CANDIDATES (heuristic order, with scores and the factors that fired):
{{.CandidatesJSON}}

Task: return ranking, best fit first, with one or two sentences of reasoning per career addressed to the student.`,
		Validators: []Validator{
			RequireNonEmpty("CandidatesJSON", func(in Input) string { return in.CandidatesJSON }),
		},
	})
}
