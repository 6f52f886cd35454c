package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	types "github.com/cownect/cownect-backend/internal/domain"
	"github.com/cownect/cownect-backend/internal/domain/careers"
	"github.com/cownect/cownect-backend/internal/http/response"
	"github.com/cownect/cownect-backend/internal/modules/careers/catalog"
	"github.com/cownect/cownect-backend/internal/modules/careers/questions"
	"github.com/cownect/cownect-backend/internal/platform/apierr"
	"github.com/cownect/cownect-backend/internal/platform/ctxutil"
	"github.com/cownect/cownect-backend/internal/platform/logger"
	"github.com/cownect/cownect-backend/internal/services"
)

type stubQuiz struct {
	services.QuizService

	submitted  services.SubmitRequest
	submitErr  error
	listLimit  int
	results    []*types.QuizResult
	engagement *types.QuizResult
	engageErr  error
	lastClub   string
	lastStep   string
}

func (s *stubQuiz) Submit(_ context.Context, _ uuid.UUID, req services.SubmitRequest) (*services.SubmitResult, error) {
	s.submitted = req
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return &services.SubmitResult{Success: true, ResultID: uuid.New(), TopCareer: "Backend Developer", Percentage: 88}, nil
}

func (s *stubQuiz) ListResults(_ context.Context, _ uuid.UUID, limit int) ([]*types.QuizResult, error) {
	s.listLimit = limit
	return s.results, nil
}

func (s *stubQuiz) BookmarkClub(_ context.Context, _, _ uuid.UUID, clubRef string) (*types.QuizResult, error) {
	s.lastClub = clubRef
	return s.engagement, s.engageErr
}

func (s *stubQuiz) CompleteStep(_ context.Context, _, _ uuid.UUID, stepID string) (*types.QuizResult, error) {
	s.lastStep = stepID
	return s.engagement, s.engageErr
}

func (s *stubQuiz) Questions(level string) (*questions.Set, error) {
	bank, err := questions.LoadBank()
	if err != nil {
		return nil, err
	}
	set, err := bank.SetFor(level)
	if err != nil {
		return nil, apierr.BadRequest("unknown_level", err.Error())
	}
	return set, nil
}

func testEngine(userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.UseRawPath = true
	r.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: userID})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	})
	return r
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.APIError {
	t.Helper()
	var env response.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Error
}

func quizRoutes(t *testing.T, userID uuid.UUID, quiz *stubQuiz) *gin.Engine {
	t.Helper()
	h := NewQuizHandler(logger.Nop(), quiz)
	r := testEngine(userID)
	r.GET("/api/quiz/questions/:level", h.GetQuestions)
	r.POST("/api/quiz/submit", h.Submit)
	r.GET("/api/quiz/results", h.ListResults)
	r.POST("/api/quiz/results/:id/clubs/:clubId/bookmark", h.BookmarkClub)
	r.POST("/api/quiz/results/:id/steps/:stepId/complete", h.CompleteStep)
	return r
}

func TestSubmitDecodesAnswers(t *testing.T) {
	quiz := &stubQuiz{}
	r := quizRoutes(t, uuid.New(), quiz)

	body := `{"level":"beginner","completionTimeSeconds":312,"answers":[
		{"questionId":"B13","type":"visual_choice","answer":{"id":"modern_office"}},
		{"questionId":"B15","type":"scale","answer":9}]}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/quiz/submit", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "beginner", quiz.submitted.Level)
	require.Len(t, quiz.submitted.Answers, 2)
	assert.Equal(t, "B15", quiz.submitted.Answers[1].QuestionID)

	var out services.SubmitResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.Equal(t, "Backend Developer", out.TopCareer)
}

func TestSubmitCooldownSetsRetryAfter(t *testing.T) {
	quiz := &stubQuiz{submitErr: apierr.New(http.StatusTooManyRequests, "quiz_cooldown", &services.CooldownError{RetryAfter: 90 * time.Second})}
	r := quizRoutes(t, uuid.New(), quiz)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/quiz/submit", strings.NewReader(`{"level":"beginner","answers":[]}`)))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "90", rec.Header().Get("Retry-After"))
	assert.Equal(t, "quiz_cooldown", decodeError(t, rec).Code)
}

func TestSubmitRejectsBadBodyAndAnonymousCallers(t *testing.T) {
	rec := httptest.NewRecorder()
	quizRoutes(t, uuid.New(), &stubQuiz{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/quiz/submit", strings.NewReader(`{"answers":`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeError(t, rec).Code)

	rec = httptest.NewRecorder()
	quizRoutes(t, uuid.Nil, &stubQuiz{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/quiz/submit", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmitHidesServerErrorDetail(t *testing.T) {
	quiz := &stubQuiz{submitErr: apierr.New(http.StatusInternalServerError, "analysis_failed", assert.AnError)}
	rec := httptest.NewRecorder()
	quizRoutes(t, uuid.New(), quiz).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/quiz/submit", strings.NewReader(`{"level":"beginner"}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, response.AnalysisFailed, e.Message)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestGetQuestions(t *testing.T) {
	r := quizRoutes(t, uuid.New(), &stubQuiz{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quiz/questions/beginner", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var set questions.Set
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
	assert.Len(t, set.Questions, 15)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quiz/questions/expert", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown_level", decodeError(t, rec).Code)
}

func TestListResultsSummaries(t *testing.T) {
	created := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	quiz := &stubQuiz{results: []*types.QuizResult{{
		ID:        uuid.New(),
		Level:     "beginner",
		TopMatch:  datatypes.NewJSONType(careers.TopMatch{Career: "Data Scientist", Category: "data", Percentage: 81.5}),
		CreatedAt: created,
	}}}
	r := quizRoutes(t, uuid.New(), quiz)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quiz/results?limit=3", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, quiz.listLimit)

	var out struct {
		Results []ResultSummary `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Results, 1)
	assert.Equal(t, "Data Scientist", out.Results[0].TopCareer)
	assert.Equal(t, 81.5, out.Results[0].Percentage)
	assert.True(t, created.Equal(out.Results[0].CreatedAt))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quiz/results?limit=lots", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEngagementRoutes(t *testing.T) {
	quiz := &stubQuiz{engagement: &types.QuizResult{
		BookmarkedClubs: datatypes.JSONSlice[string]{"club-1"},
		CompletedSteps:  datatypes.JSONSlice[string]{"step-1-1"},
	}}
	r := quizRoutes(t, uuid.New(), quiz)
	id := uuid.New().String()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/quiz/results/"+id+"/clubs/club-1/bookmark", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "club-1", quiz.lastClub)
	assert.Contains(t, rec.Body.String(), `"bookmarkedClubs":["club-1"]`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/quiz/results/"+id+"/steps/step-1-1/complete", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "step-1-1", quiz.lastStep)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/quiz/results/not-a-uuid/steps/step-1-1/complete", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_result_id", decodeError(t, rec).Code)

	quiz.engageErr = apierr.NotFound("result_not_found")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/quiz/results/"+id+"/clubs/club-1/bookmark", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "result_not_found", decodeError(t, rec).Code)
}

func TestCareerRoutes(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)
	h := NewCareerHandler(logger.Nop(), cat)
	r := testEngine(uuid.Nil)
	r.GET("/api/careers", h.ListCareers)
	r.GET("/api/careers/:name", h.GetCareer)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/careers/"+url.PathEscape("AR/VR Developer"), nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"name":"AR/VR Developer"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/careers/Astronaut", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "career_not_found", decodeError(t, rec).Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/careers?category=hardware", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Careers []catalog.CareerDefinition `json:"careers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.Careers)
	for _, d := range out.Careers {
		assert.Equal(t, "hardware", d.Category)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/careers?category=astrology", nil))
	assert.Contains(t, rec.Body.String(), `"careers":[]`)
}

func TestHealthCheckWithoutDB(t *testing.T) {
	r := testEngine(uuid.Nil)
	r.GET("/healthcheck", NewHealthHandler(nil).HealthCheck)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
