package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/cownect/cownect-backend/internal/domain"
	"github.com/cownect/cownect-backend/internal/platform/ctxutil"
	"github.com/cownect/cownect-backend/internal/platform/logger"
	"github.com/cownect/cownect-backend/internal/services"
)

type stubAuth struct {
	userID uuid.UUID
	err    error
}

func (s stubAuth) IssueToken(*types.User) (string, error) { return "", nil }
func (s stubAuth) EmailAllowed(string) bool               { return true }

func (s stubAuth) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	if s.err != nil {
		return ctx, s.err
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{TokenString: token, UserID: s.userID}), nil
}

func runAuth(t *testing.T, auth services.AuthService, header string) (*httptest.ResponseRecorder, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var seen uuid.UUID
	r := gin.New()
	r.Use(NewAuthMiddleware(logger.Nop(), auth).RequireAuth())
	r.GET("/api/quiz/results", func(c *gin.Context) {
		seen = ctxutil.UserID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/quiz/results", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec, seen
}

func TestRequireAuth(t *testing.T) {
	id := uuid.New()
	cases := []struct {
		name   string
		auth   stubAuth
		header string
		status int
	}{
		{"valid bearer", stubAuth{userID: id}, "Bearer abc", http.StatusOK},
		{"lowercase scheme", stubAuth{userID: id}, "bearer abc", http.StatusOK},
		{"missing header", stubAuth{userID: id}, "", http.StatusUnauthorized},
		{"basic scheme", stubAuth{userID: id}, "Basic abc", http.StatusUnauthorized},
		{"invalid token", stubAuth{err: services.ErrInvalidToken}, "Bearer abc", http.StatusUnauthorized},
		{"lookup failure", stubAuth{err: fmt.Errorf("load user: boom")}, "Bearer abc", http.StatusUnauthorized},
		{"other domain", stubAuth{err: services.ErrEmailForbidden}, "Bearer abc", http.StatusForbidden},
		{"no user attached", stubAuth{}, "Bearer abc", http.StatusForbidden},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rec, seen := runAuth(t, tc.auth, tc.header)
			if rec.Code != tc.status {
				t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, tc.status, rec.Body.String())
			}
			if tc.status == http.StatusOK && seen != id {
				t.Fatalf("handler saw user %s, want %s", seen, id)
			}
		})
	}
}
