package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cownect/cownect-backend/internal/data/repos"
	"github.com/cownect/cownect-backend/internal/data/repos/testutil"
	types "github.com/cownect/cownect-backend/internal/domain"
	"github.com/cownect/cownect-backend/internal/platform/ctxutil"
	"github.com/cownect/cownect-backend/internal/platform/logger"
)

const testSecret = "test-secret"

func newAuth(t *testing.T) (*authService, repos.UserRepo) {
	t.Helper()
	users := repos.NewUserRepo(testutil.DB(t), logger.Nop())
	svc, err := NewAuthService(logger.Nop(), users, AuthServiceConfig{SecretKey: testSecret, AllowedEmailDomain: "@UCDavis.edu"})
	require.NoError(t, err)
	return svc.(*authService), users
}

func TestAuth_RoundTrip(t *testing.T) {
	as, users := newAuth(t)
	ctx := context.Background()
	created, err := users.Create(ctx, nil, []*types.User{{Email: "aggie@ucdavis.edu", FirstName: "Gunrock"}})
	require.NoError(t, err)

	tok, err := as.IssueToken(created[0])
	require.NoError(t, err)

	authed, err := as.SetContextFromToken(ctx, tok)
	require.NoError(t, err)
	rd := ctxutil.GetRequestData(authed)
	require.NotNil(t, rd)
	assert.Equal(t, created[0].ID, rd.UserID)
	assert.Equal(t, "aggie@ucdavis.edu", rd.Email)
	assert.Equal(t, created[0].ID, ctxutil.UserID(authed))
}

func TestAuth_FirstTokenCreatesUser(t *testing.T) {
	as, users := newAuth(t)
	ctx := context.Background()
	id := uuid.New()

	tok, err := as.IssueToken(&types.User{ID: id, Email: "New.Student@ucdavis.edu", FirstName: "New", LastName: "Student"})
	require.NoError(t, err)
	_, err = as.SetContextFromToken(ctx, tok)
	require.NoError(t, err)

	u, err := users.GetByID(ctx, nil, id)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "new.student@ucdavis.edu", u.Email)
	assert.Equal(t, "New", u.FirstName)
}

func TestAuth_RejectsOtherDomains(t *testing.T) {
	as, _ := newAuth(t)
	tok, err := as.IssueToken(&types.User{ID: uuid.New(), Email: "someone@gmail.com"})
	require.NoError(t, err)

	_, err = as.SetContextFromToken(context.Background(), tok)
	assert.ErrorIs(t, err, ErrEmailForbidden)

	assert.True(t, as.EmailAllowed("x@ucdavis.edu"))
	assert.False(t, as.EmailAllowed("x@ucdavis.edu.evil.com"))
	assert.False(t, as.EmailAllowed("not-an-email"))
}

func TestAuth_RejectsBadTokens(t *testing.T) {
	as, _ := newAuth(t)
	ctx := context.Background()
	u := &types.User{ID: uuid.New(), Email: "aggie@ucdavis.edu"}

	as.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	expired, err := as.IssueToken(u)
	require.NoError(t, err)
	as.now = time.Now

	_, err = as.SetContextFromToken(ctx, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		Email:            u.Email,
		RegisteredClaims: jwt.RegisteredClaims{Subject: u.ID.String(), ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	signed, err := foreign.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = as.SetContextFromToken(ctx, signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, JWTClaims{
		Email:            u.Email,
		RegisteredClaims: jwt.RegisteredClaims{Subject: u.ID.String()},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = as.SetContextFromToken(ctx, unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = as.SetContextFromToken(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewAuthService_RequiresSecret(t *testing.T) {
	_, err := NewAuthService(logger.Nop(), nil, AuthServiceConfig{})
	assert.Error(t, err)
}
