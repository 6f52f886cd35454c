package app

import (
	"strings"
	"time"

	"github.com/cownect/cownect-backend/internal/data/db"
	"github.com/cownect/cownect-backend/internal/modules/careers/compose"
	"github.com/cownect/cownect-backend/internal/modules/careers/cooldown"
	"github.com/cownect/cownect-backend/internal/modules/careers/narrative"
	"github.com/cownect/cownect-backend/internal/modules/careers/scoring"
	"github.com/cownect/cownect-backend/internal/platform/envutil"
	"github.com/cownect/cownect-backend/internal/platform/logger"
	"github.com/cownect/cownect-backend/internal/platform/openai"
	"github.com/cownect/cownect-backend/internal/platform/redis"
	"github.com/cownect/cownect-backend/internal/platform/sendgrid"
)

type Config struct {
	Port            string
	LogMode         string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	AppBaseURL      string

	Postgres db.PostgresConfig
	Redis    redis.Config
	OpenAI   openai.Config
	SendGrid sendgrid.Config

	JWTSecretKey       string
	AccessTokenTTL     time.Duration
	AllowedEmailDomain string

	QuizCooldown      time.Duration
	TopN              int
	MaxAlternates     int
	RefineEnabled     bool
	SectionTimeout    time.Duration
	ClubCacheTTL      time.Duration
	ClubLimit         int
	ResultsEmailsOn   bool
	ServiceVersion    string
	DeployEnvironment string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:            envutil.String("PORT", "8080"),
		LogMode:         envutil.String("LOG_MODE", "development"),
		ShutdownTimeout: envutil.Seconds("SHUTDOWN_TIMEOUT_SECONDS", 30*time.Second),
		AllowedOrigins:  splitList(envutil.String("CORS_ALLOWED_ORIGINS", "")),
		AppBaseURL:      strings.TrimRight(envutil.String("APP_BASE_URL", "http://localhost:5173"), "/"),

		Postgres: db.PostgresConfigFromEnv(),
		Redis:    redis.ConfigFromEnv(),
		OpenAI: openai.Config{
			APIKey:  envutil.String("OPENAI_API_KEY", ""),
			BaseURL: envutil.String("OPENAI_BASE_URL", ""),
			Model:   envutil.String("OPENAI_MODEL", ""),
			// Narrative sections get one attempt each; a failure falls back to static content.
			MaxRetries: envutil.Int("OPENAI_MAX_RETRIES", 0),
			Timeout:    envutil.Seconds("OPENAI_TIMEOUT_SECONDS", 60*time.Second),
		},
		SendGrid: sendgrid.Config{
			APIKey:           envutil.String("SENDGRID_API_KEY", ""),
			DefaultFromEmail: envutil.String("SENDGRID_FROM_EMAIL", ""),
			DefaultFromName:  envutil.String("SENDGRID_FROM_NAME", "Cownect"),
			MaxRetries:       envutil.Int("SENDGRID_MAX_RETRIES", 2),
		},

		JWTSecretKey:       envutil.String("JWT_SECRET_KEY", ""),
		AccessTokenTTL:     envutil.Seconds("ACCESS_TOKEN_TTL", 24*time.Hour),
		AllowedEmailDomain: envutil.String("ALLOWED_EMAIL_DOMAIN", "ucdavis.edu"),

		QuizCooldown:      envutil.Seconds("QUIZ_COOLDOWN_SECONDS", cooldown.DefaultWindow),
		TopN:              envutil.Int("CAREER_TOP_N", scoring.DefaultTopN),
		MaxAlternates:     envutil.Int("CAREER_ALTERNATES", compose.DefaultMaxAlternates),
		RefineEnabled:     envutil.Bool("CAREER_AI_REFINE_ENABLED", false),
		SectionTimeout:    envutil.Seconds("NARRATIVE_SECTION_TIMEOUT_SECONDS", narrative.DefaultSectionTimeout),
		ClubCacheTTL:      envutil.Seconds("CLUB_CACHE_TTL_SECONDS", 10*time.Minute),
		ClubLimit:         envutil.Int("CLUB_RECOMMENDATION_LIMIT", 5),
		ResultsEmailsOn:   envutil.Bool("RESULTS_EMAIL_ENABLED", true),
		ServiceVersion:    envutil.String("SERVICE_VERSION", "dev"),
		DeployEnvironment: envutil.String("DEPLOY_ENV", "local"),
	}
	if log != nil {
		log.Info("config loaded",
			"port", cfg.Port,
			"openai_enabled", cfg.OpenAI.APIKey != "",
			"redis_enabled", cfg.Redis.Addr != "",
			"sendgrid_enabled", cfg.SendGrid.APIKey != "" && cfg.ResultsEmailsOn,
			"refine_enabled", cfg.RefineEnabled,
			"cooldown", cfg.QuizCooldown.String(),
		)
	}
	return cfg
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
