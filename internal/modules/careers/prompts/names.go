package prompts

type PromptName string

const (
	// Narrative sections
	PromptEntryRequirements  PromptName = "career_entry_requirements"
	PromptSkillGapAnalysis   PromptName = "career_skill_gap_analysis"
	PromptProgression        PromptName = "career_progression_outlook"
	PromptLearningPath       PromptName = "career_learning_path"
	PromptMarketInsights     PromptName = "career_market_insights"
	PromptPersonalizedAdvice PromptName = "career_personalized_advice"

	// Ranking
	PromptRankingRefinement PromptName = "career_ranking_refinement"
)
