package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/cownect/cownect-backend/internal/domain"
	"github.com/cownect/cownect-backend/internal/http/response"
	"github.com/cownect/cownect-backend/internal/platform/apierr"
	"github.com/cownect/cownect-backend/internal/platform/ctxutil"
	"github.com/cownect/cownect-backend/internal/platform/logger"
	"github.com/cownect/cownect-backend/internal/services"
)

type QuizHandler struct {
	log  *logger.Logger
	quiz services.QuizService
}

func NewQuizHandler(log *logger.Logger, quiz services.QuizService) *QuizHandler {
	return &QuizHandler{log: log.With("handler", "QuizHandler"), quiz: quiz}
}

// ResultSummary is one row of the history list.
type ResultSummary struct {
	ID         uuid.UUID       `json:"id"`
	Level      types.QuizLevel `json:"level"`
	TopCareer  string          `json:"topCareer"`
	Category   string          `json:"category"`
	Percentage float64         `json:"percentage"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// GET /api/quiz/questions/:level
func (h *QuizHandler) GetQuestions(c *gin.Context) {
	set, err := h.quiz.Questions(c.Param("level"))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, set)
}

// POST /api/quiz/submit
func (h *QuizHandler) Submit(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req services.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, h.log, apierr.BadRequest("invalid_request", "request body must be a JSON quiz submission"))
		return
	}
	res, err := h.quiz.Submit(c.Request.Context(), userID, req)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/quiz/results
func (h *QuizHandler) ListResults(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.RespondAPIError(c, h.log, apierr.BadRequest("invalid_limit", "limit must be a positive integer"))
			return
		}
		limit = n
	}
	rows, err := h.quiz.ListResults(c.Request.Context(), userID, limit)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	out := make([]ResultSummary, 0, len(rows))
	for _, r := range rows {
		if r == nil {
			continue
		}
		top := r.TopMatch.Data()
		out = append(out, ResultSummary{
			ID:         r.ID,
			Level:      r.Level,
			TopCareer:  top.Career,
			Category:   top.Category,
			Percentage: top.Percentage,
			CreatedAt:  r.CreatedAt,
		})
	}
	response.RespondOK(c, gin.H{"results": out})
}

// GET /api/quiz/results/:id
func (h *QuizHandler) GetResult(c *gin.Context) {
	userID, resultID, ok := h.resultParams(c)
	if !ok {
		return
	}
	res, err := h.quiz.GetResult(c.Request.Context(), userID, resultID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"result": res})
}

// POST /api/quiz/results/:id/clubs/:clubId/bookmark
func (h *QuizHandler) BookmarkClub(c *gin.Context) {
	userID, resultID, ok := h.resultParams(c)
	if !ok {
		return
	}
	res, err := h.quiz.BookmarkClub(c.Request.Context(), userID, resultID, c.Param("clubId"))
	h.respondEngagement(c, res, err)
}

// DELETE /api/quiz/results/:id/clubs/:clubId/bookmark
func (h *QuizHandler) UnbookmarkClub(c *gin.Context) {
	userID, resultID, ok := h.resultParams(c)
	if !ok {
		return
	}
	res, err := h.quiz.UnbookmarkClub(c.Request.Context(), userID, resultID, c.Param("clubId"))
	h.respondEngagement(c, res, err)
}

// POST /api/quiz/results/:id/steps/:stepId/complete
func (h *QuizHandler) CompleteStep(c *gin.Context) {
	userID, resultID, ok := h.resultParams(c)
	if !ok {
		return
	}
	res, err := h.quiz.CompleteStep(c.Request.Context(), userID, resultID, c.Param("stepId"))
	h.respondEngagement(c, res, err)
}

// POST /api/quiz/results/:id/feedback
func (h *QuizHandler) SubmitFeedback(c *gin.Context) {
	userID, resultID, ok := h.resultParams(c)
	if !ok {
		return
	}
	var req services.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, h.log, apierr.BadRequest("invalid_feedback", "request body must be JSON"))
		return
	}
	res, err := h.quiz.SubmitFeedback(c.Request.Context(), userID, resultID, req)
	h.respondEngagement(c, res, err)
}

func (h *QuizHandler) respondEngagement(c *gin.Context, res *types.QuizResult, err error) {
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	var fb any
	if res.Feedback != nil {
		fb = res.Feedback.Data()
	}
	response.RespondOK(c, gin.H{
		"success":         true,
		"bookmarkedClubs": []string(res.BookmarkedClubs),
		"completedSteps":  []string(res.CompletedSteps),
		"feedback":        fb,
	})
}

func (h *QuizHandler) resultParams(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := requireUser(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	resultID, err := uuid.Parse(c.Param("id"))
	if err != nil || resultID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_result_id", err)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, resultID, true
}

func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID := ctxutil.UserID(c.Request.Context())
	if userID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, false
	}
	return userID, true
}
