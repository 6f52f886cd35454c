package careers

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/cownect/cownect-backend/internal/domain/quiz"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

func ConfidenceFor(percentage float64) Confidence {
	switch {
	case percentage >= 75:
		return ConfidenceHigh
	case percentage >= 50:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

type TopMatch struct {
	Career               string               `json:"career"`
	Category             string               `json:"category"`
	Percentage           float64              `json:"percentage"`
	Confidence           Confidence           `json:"confidence"`
	Reasoning            string               `json:"reasoning"`
	Factors              []string             `json:"factors"`
	EntryRequirements    EntryRequirements    `json:"entryRequirements"`
	SkillGapAnalysis     SkillGapAnalysis     `json:"skillGapAnalysis"`
	PersonalizedAdvice   PersonalizedAdvice   `json:"personalizedAdvice"`
	LearningPath         LearningPath         `json:"learningPath"`
	CareerProgression    []ProgressionStep    `json:"careerProgression"`
	ProgressionOutlook   ProgressionOutlook   `json:"progressionOutlook"`
	MarketData           MarketData           `json:"marketData"`
	MarketInsights       MarketInsights       `json:"marketInsights"`
	InstitutionResources InstitutionResources `json:"institutionResources"`
}

type AlternateMatch struct {
	Career        string        `json:"career"`
	Category      string        `json:"category"`
	Percentage    float64       `json:"percentage"`
	Confidence    Confidence    `json:"confidence"`
	Reasoning     string        `json:"reasoning"`
	MarketSnippet MarketSnippet `json:"marketSnippet"`
}

type ClubRecommendation struct {
	ClubRef          string   `json:"clubRef"`
	Name             string   `json:"name"`
	RelevanceScore   float64  `json:"relevanceScore"`
	Reasoning        string   `json:"reasoning"`
	SuggestedActions []string `json:"suggestedActions"`
}

type AIInsights struct {
	PersonalityProfile string   `json:"personalityProfile"`
	WorkStyle          string   `json:"workStyle"`
	MotivationFactors  []string `json:"motivationFactors"`
	ConfidenceScore    float64  `json:"confidenceScore"`
}

type QualityMetrics struct {
	ResponseConsistency     float64 `json:"responseConsistency"`
	AnalysisDepth           float64 `json:"analysisDepth"`
	RecommendationRelevance float64 `json:"recommendationRelevance"`
}

type Feedback struct {
	Rating      int       `json:"rating"`
	Helpful     bool      `json:"helpful"`
	Comment     string    `json:"comment,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// QuizResult is written once per accepted submission. Afterwards only the engagement
// columns (BookmarkedClubs, CompletedSteps, Feedback) change, each change bumping
// Revision.
type QuizResult struct {
	ID                    uuid.UUID                                `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                uuid.UUID                                `gorm:"type:uuid;not null;index" json:"userId"`
	Level                 quiz.Level                               `gorm:"column:level;not null" json:"level"`
	Answers               datatypes.JSONType[[]quiz.Answer]        `gorm:"column:answers" json:"answers"`
	CompletionTimeSeconds float64                                  `gorm:"column:completion_time_seconds" json:"completionTimeSeconds"`
	Metadata              datatypes.JSONMap                        `gorm:"column:metadata" json:"metadata,omitempty"`
	TopMatch              datatypes.JSONType[TopMatch]             `gorm:"column:top_match" json:"topMatch"`
	Alternates            datatypes.JSONType[[]AlternateMatch]     `gorm:"column:alternates" json:"alternates"`
	ClubRecommendations   datatypes.JSONType[[]ClubRecommendation] `gorm:"column:club_recommendations" json:"clubRecommendations"`
	AIInsights            datatypes.JSONType[AIInsights]           `gorm:"column:ai_insights" json:"aiInsights"`
	QualityMetrics        datatypes.JSONType[QualityMetrics]       `gorm:"column:quality_metrics" json:"qualityMetrics"`
	BookmarkedClubs       datatypes.JSONSlice[string]              `gorm:"column:bookmarked_clubs" json:"bookmarkedClubs"`
	CompletedSteps        datatypes.JSONSlice[string]              `gorm:"column:completed_steps" json:"completedSteps"`
	Feedback              *datatypes.JSONType[Feedback]            `gorm:"column:feedback" json:"feedback,omitempty"`
	CatalogVersion        int                                      `gorm:"column:catalog_version" json:"catalogVersion"`
	Revision              int                                      `gorm:"column:revision;not null;default:0" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// ClubRefs lists the recommended club references in order.
func (r *QuizResult) ClubRefs() []string {
	recs := r.ClubRecommendations.Data()
	out := make([]string, 0, len(recs))
	for _, c := range recs {
		out = append(out, c.ClubRef)
	}
	return out
}

func (QuizResult) TableName() string { return "quiz_result" }

func (r *QuizResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
