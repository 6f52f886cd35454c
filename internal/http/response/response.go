package response

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cownect/cownect-backend/internal/platform/apierr"
	"github.com/cownect/cownect-backend/internal/platform/logger"
)

// AnalysisFailed is the message every failed analysis returns. Internal detail is
// logged, never sent.
const AnalysisFailed = "analysis failed, please retry"

type APIError struct {
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type retryAfter interface {
	RetryAfterSeconds() int
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError writes err using its *apierr.Error status and code. Server-side
// failures get a generic message.
func RespondAPIError(c *gin.Context, log *logger.Logger, err error) {
	ae := apierr.As(err)
	if ae == nil {
		ae = apierr.New(http.StatusInternalServerError, "internal_error", err)
	}
	status := ae.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}

	body := APIError{Code: ae.Code, Details: ae.Details}
	switch {
	case status >= http.StatusInternalServerError:
		if log != nil {
			log.Error("request failed", "path", c.FullPath(), "code", ae.Code, "error", err)
		}
		body.Details = nil
		body.Message = http.StatusText(status)
		if ae.Code == "analysis_failed" {
			body.Message = AnalysisFailed
		}
	default:
		body.Message = ae.Error()
	}

	var ra retryAfter
	if errors.As(err, &ra) {
		c.Header("Retry-After", strconv.Itoa(ra.RetryAfterSeconds()))
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: body})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
