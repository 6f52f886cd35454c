package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/cownect/cownect-backend/internal/domain"
	"github.com/cownect/cownect-backend/internal/domain/careers"
	"github.com/cownect/cownect-backend/internal/domain/quiz"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: "Aggie",
		LastName:  "Student",
		Major:     "Computer Science",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedClub(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, careerTags []string, keywords []string) *types.Club {
	tb.Helper()
	c := &types.Club{
		ID:         uuid.New(),
		Name:       name,
		Category:   "engineering",
		CareerTags: datatypes.JSONSlice[string](careerTags),
		Keywords:   datatypes.JSONSlice[string](keywords),
		Active:     true,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed club: %v", err)
	}
	return c
}

// SeedQuizResult stores a result whose top match recommends clubRefs and has a
// two-step learning path (step-1-1, step-1-2).
func SeedQuizResult(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, career string, clubRefs ...string) *types.QuizResult {
	tb.Helper()
	recs := make([]careers.ClubRecommendation, 0, len(clubRefs))
	for _, ref := range clubRefs {
		recs = append(recs, careers.ClubRecommendation{ClubRef: ref, Name: ref, RelevanceScore: 0.5, SuggestedActions: []string{}})
	}
	top := careers.TopMatch{
		Career:     career,
		Percentage: 80,
		Confidence: careers.ConfidenceHigh,
		LearningPath: careers.LearningPath{Phases: []careers.LearningPhase{{
			Title: "Start",
			Steps: []careers.LearningStep{{Title: "one"}, {Title: "two"}},
		}}}.Numbered(),
	}
	r := &types.QuizResult{
		UserID:              userID,
		Level:               quiz.LevelBeginner,
		Answers:             datatypes.NewJSONType([]quiz.Answer{}),
		TopMatch:            datatypes.NewJSONType(top),
		Alternates:          datatypes.NewJSONType([]careers.AlternateMatch{}),
		ClubRecommendations: datatypes.NewJSONType(recs),
		AIInsights:          datatypes.NewJSONType(careers.AIInsights{}),
		QualityMetrics:      datatypes.NewJSONType(careers.QualityMetrics{}),
		BookmarkedClubs:     datatypes.JSONSlice[string]{},
		CompletedSteps:      datatypes.JSONSlice[string]{},
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed quiz result: %v", err)
	}
	return r
}
