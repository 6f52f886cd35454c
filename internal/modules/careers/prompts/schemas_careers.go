package prompts

// Readiness levels a skill gap analysis may report.
var ReadinessLevels = []string{"early", "developing", "nearly_ready", "ready"}

// Gap importance levels.
var ImportanceLevels = []string{"critical", "important", "nice_to_have"}

func EntryRequirementsSchema() map[string]any {
	return SchemaVersionedObject(1, map[string]any{
		"education": ObjectSchema(map[string]any{
			"primaryPath":     StringSchema(),
			"alternativePath": StringSchema(),
			"requiredCourses": StringArraySchema(),
		}),
		"technicalSkills": ObjectSchema(map[string]any{
			"required":  StringArraySchema(),
			"preferred": StringArraySchema(),
			"tools":     StringArraySchema(),
		}),
		"experience": ObjectSchema(map[string]any{
			"portfolio":   StringSchema(),
			"internships": StringSchema(),
			"projects":    StringArraySchema(),
		}),
		"certifications": ObjectSchema(map[string]any{
			"optional":    StringArraySchema(),
			"recommended": StringArraySchema(),
		}),
	})
}

func SkillGapAnalysisSchema() map[string]any {
	return SchemaVersionedObject(1, map[string]any{
		"overallReadiness":     EnumSchema(ReadinessLevels...),
		"readinessDescription": StringSchema(),
		"criticalGaps": ArrayOf(ObjectSchema(map[string]any{
			"skill":      StringSchema(),
			"importance": EnumSchema(ImportanceLevels...),
			"howToClose": StringSchema(),
		})),
		"existingStrengths":   StringArraySchema(),
		"quickWins":           StringArraySchema(),
		"longTermDevelopment": StringArraySchema(),
	})
}

func ProgressionOutlookSchema() map[string]any {
	return SchemaVersionedObject(1, map[string]any{
		"summary": StringSchema(),
		"milestones": ArrayOf(ObjectSchema(map[string]any{
			"stage":     StringSchema(),
			"timeframe": StringSchema(),
			"focus":     StringSchema(),
		})),
		"advancementTips": StringArraySchema(),
	})
}

func LearningPathSchema() map[string]any {
	return SchemaVersionedObject(1, map[string]any{
		"summary": StringSchema(),
		"phases": ArrayOf(ObjectSchema(map[string]any{
			"title":    StringSchema(),
			"duration": StringSchema(),
			"steps": ArrayOf(ObjectSchema(map[string]any{
				"title":       StringSchema(),
				"description": StringSchema(),
				"resource":    StringSchema(),
			})),
		})),
	})
}

func MarketInsightsSchema() map[string]any {
	return SchemaVersionedObject(1, map[string]any{
		"summary":        StringSchema(),
		"demandOutlook":  StringSchema(),
		"salaryOutlook":  StringSchema(),
		"emergingTrends": StringArraySchema(),
		"topEmployers":   StringArraySchema(),
	})
}

func PersonalizedAdviceSchema() map[string]any {
	return SchemaVersionedObject(1, map[string]any{
		"personalityProfile": StringSchema(),
		"workStyle":          StringSchema(),
		"motivationFactors":  StringArraySchema(),
		"advice":             StringArraySchema(),
		"nextSteps":          StringArraySchema(),
	})
}

func RankingRefinementSchema() map[string]any {
	return SchemaVersionedObject(1, map[string]any{
		"ranking": ArrayOf(ObjectSchema(map[string]any{
			"career":    StringSchema(),
			"reasoning": StringSchema(),
		})),
	})
}
