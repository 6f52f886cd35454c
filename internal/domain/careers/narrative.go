package careers

import "fmt"

// Narrative sections. JSON names match the structured-output schemas sent to the model.

type EntryRequirements struct {
	Education       Education       `json:"education"`
	TechnicalSkills TechnicalSkills `json:"technicalSkills"`
	Experience      Experience      `json:"experience"`
	Certifications  Certifications  `json:"certifications"`
}

type SkillGap struct {
	Skill      string `json:"skill"`
	Importance string `json:"importance"`
	HowToClose string `json:"howToClose"`
}

type SkillGapAnalysis struct {
	OverallReadiness     string     `json:"overallReadiness"`
	ReadinessDescription string     `json:"readinessDescription"`
	CriticalGaps         []SkillGap `json:"criticalGaps"`
	ExistingStrengths    []string   `json:"existingStrengths"`
	QuickWins            []string   `json:"quickWins"`
	LongTermDevelopment  []string   `json:"longTermDevelopment"`
}

type ProgressionMilestone struct {
	Stage     string `json:"stage"`
	Timeframe string `json:"timeframe"`
	Focus     string `json:"focus"`
}

type ProgressionOutlook struct {
	Summary         string                 `json:"summary"`
	Milestones      []ProgressionMilestone `json:"milestones"`
	AdvancementTips []string               `json:"advancementTips"`
}

type LearningStep struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Resource    string `json:"resource"`
	Completed   bool   `json:"completed"`
}

type LearningPhase struct {
	Title    string         `json:"title"`
	Duration string         `json:"duration"`
	Steps    []LearningStep `json:"steps"`
}

type LearningPath struct {
	Summary string          `json:"summary"`
	Phases  []LearningPhase `json:"phases"`
}

// StepIDs returns every step id in order.
func (p LearningPath) StepIDs() []string {
	var ids []string
	for _, ph := range p.Phases {
		for _, s := range ph.Steps {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// Numbered returns a copy whose step ids are "step-<phase>-<step>", 1-based. Completion
// flags are kept.
func (p LearningPath) Numbered() LearningPath {
	out := LearningPath{Summary: p.Summary, Phases: make([]LearningPhase, len(p.Phases))}
	for i, ph := range p.Phases {
		steps := make([]LearningStep, len(ph.Steps))
		for j, s := range ph.Steps {
			s.ID = fmt.Sprintf("step-%d-%d", i+1, j+1)
			steps[j] = s
		}
		ph.Steps = steps
		out.Phases[i] = ph
	}
	return out
}

// Empty reports whether the path has no steps at all.
func (p LearningPath) Empty() bool {
	for _, ph := range p.Phases {
		if len(ph.Steps) > 0 {
			return false
		}
	}
	return true
}

type MarketInsights struct {
	Summary        string   `json:"summary"`
	DemandOutlook  string   `json:"demandOutlook"`
	SalaryOutlook  string   `json:"salaryOutlook"`
	EmergingTrends []string `json:"emergingTrends"`
	TopEmployers   []string `json:"topEmployers"`
}

type PersonalizedAdvice struct {
	PersonalityProfile string   `json:"personalityProfile"`
	WorkStyle          string   `json:"workStyle"`
	MotivationFactors  []string `json:"motivationFactors"`
	Advice             []string `json:"advice"`
	NextSteps          []string `json:"nextSteps"`
}
