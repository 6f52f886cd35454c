package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/cownect/cownect-backend/internal/data/repos"
	types "github.com/cownect/cownect-backend/internal/domain"
	"github.com/cownect/cownect-backend/internal/platform/ctxutil"
	"github.com/cownect/cownect-backend/internal/platform/logger"
)

var (
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrEmailForbidden = errors.New("email domain is not allowed")
)

const DefaultAccessTTL = 24 * time.Hour

// JWTClaims are the claims carried by access tokens. Subject is the user id.
type JWTClaims struct {
	Email     string `json:"email"`
	FirstName string `json:"given_name,omitempty"`
	LastName  string `json:"family_name,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	IssueToken(user *types.User) (string, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	EmailAllowed(email string) bool
}

type AuthServiceConfig struct {
	SecretKey          string
	AllowedEmailDomain string
	AccessTTL          time.Duration
}

type authService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	cfg      AuthServiceConfig
	now      func() time.Time
}

func NewAuthService(log *logger.Logger, userRepo repos.UserRepo, cfg AuthServiceConfig) (AuthService, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, fmt.Errorf("missing JWT_SECRET_KEY")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	cfg.AllowedEmailDomain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(cfg.AllowedEmailDomain), "@"))
	return &authService{
		log:      log.With("service", "AuthService"),
		userRepo: userRepo,
		cfg:      cfg,
		now:      time.Now,
	}, nil
}

// EmailAllowed reports whether email belongs to the configured domain. An empty
// domain allows every address.
func (as *authService) EmailAllowed(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	if as.cfg.AllowedEmailDomain == "" {
		return true
	}
	return email[at+1:] == as.cfg.AllowedEmailDomain
}

func (as *authService) IssueToken(user *types.User) (string, error) {
	if user == nil || user.ID == uuid.Nil {
		return "", fmt.Errorf("user with id required")
	}
	now := as.now()
	claims := JWTClaims{
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.cfg.AccessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.cfg.SecretKey))
}

// SetContextFromToken verifies the token, checks the email domain, makes sure the user
// row exists and attaches the caller to ctx.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if strings.TrimSpace(tokenString) == "" {
		return ctx, ErrInvalidToken
	}
	claims := &JWTClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.cfg.SecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil || !parsed.Valid {
		as.log.Debug("token rejected", "error", err)
		return ctx, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	if !as.EmailAllowed(claims.Email) {
		return ctx, ErrEmailForbidden
	}

	u, err := as.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return ctx, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		u, err = as.userRepo.EnsureByEmail(ctx, nil, &types.User{
			ID:        userID,
			Email:     claims.Email,
			FirstName: claims.FirstName,
			LastName:  claims.LastName,
		})
		if err != nil {
			return ctx, fmt.Errorf("create user: %w", err)
		}
		if u.ID != userID {
			return ctx, fmt.Errorf("%w: email belongs to another account", ErrInvalidToken)
		}
		as.log.Info("user created from token", "user_id", u.ID)
	}

	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      u.ID,
		Email:       u.Email,
	}), nil
}
