package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cownect/cownect-backend/internal/platform/apierr"
	"github.com/cownect/cownect-backend/internal/platform/logger"
)

type waitErr struct{}

func (waitErr) Error() string          { return "slow down" }
func (waitErr) RetryAfterSeconds() int { return 42 }

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	RespondAPIError(c, logger.Nop(), err)

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestRespondAPIError_ClientErrorKeepsDetails(t *testing.T) {
	rec, env := respond(t, apierr.BadRequest("invalid_submission", "expected 15 answers"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_submission", env.Error.Code)
	assert.Equal(t, []string{"expected 15 answers"}, env.Error.Details)
}

func TestRespondAPIError_ServerErrorIsGeneric(t *testing.T) {
	rec, env := respond(t, apierr.New(http.StatusInternalServerError, "analysis_failed", errors.New("pq: relation does not exist")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, AnalysisFailed, env.Error.Message)
	assert.NotContains(t, rec.Body.String(), "pq:")

	rec, env = respond(t, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", env.Error.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestRespondAPIError_RetryAfterHeader(t *testing.T) {
	rec, env := respond(t, apierr.New(http.StatusTooManyRequests, "quiz_cooldown", waitErr{}))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "42", rec.Header().Get("Retry-After"))
	assert.Equal(t, "slow down", env.Error.Message)
}
