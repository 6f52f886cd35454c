package app

import (
	"fmt"

	"github.com/cownect/cownect-backend/internal/data/repos"
	"github.com/cownect/cownect-backend/internal/modules/careers/catalog"
	"github.com/cownect/cownect-backend/internal/modules/careers/compose"
	"github.com/cownect/cownect-backend/internal/modules/careers/cooldown"
	"github.com/cownect/cownect-backend/internal/modules/careers/narrative"
	"github.com/cownect/cownect-backend/internal/modules/careers/profile"
	"github.com/cownect/cownect-backend/internal/modules/careers/questions"
	"github.com/cownect/cownect-backend/internal/modules/careers/scoring"
	"github.com/cownect/cownect-backend/internal/platform/logger"
	"github.com/cownect/cownect-backend/internal/services"
)

type Services struct {
	Catalog      *catalog.Catalog
	Auth         services.AuthService
	Quiz         services.QuizService
	Clubs        services.ClubService
	Notification services.NotificationService
}

// wireServices loads the static career data and builds the pipeline. A broken
// catalog, question bank or scoring table stops startup.
func wireServices(log *logger.Logger, cfg Config, r repos.Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	cat, err := catalog.Load()
	if err != nil {
		return Services{}, fmt.Errorf("load career catalog: %w", err)
	}
	bank, err := questions.LoadBank()
	if err != nil {
		return Services{}, fmt.Errorf("load question bank: %w", err)
	}
	effects, err := questions.LoadEffects()
	if err != nil {
		return Services{}, fmt.Errorf("load question effects: %w", err)
	}
	tables, err := scoring.LoadTables()
	if err != nil {
		return Services{}, fmt.Errorf("load scoring tables: %w", err)
	}
	scorer, err := scoring.NewScorer(cat, tables)
	if err != nil {
		return Services{}, fmt.Errorf("init scorer: %w", err)
	}
	narrator, err := narrative.New(log, clients.OpenAI, cat, narrative.Config{SectionTimeout: cfg.SectionTimeout})
	if err != nil {
		return Services{}, fmt.Errorf("init narrative generator: %w", err)
	}

	authService, err := services.NewAuthService(log, r.Users, services.AuthServiceConfig{
		SecretKey:          cfg.JWTSecretKey,
		AllowedEmailDomain: cfg.AllowedEmailDomain,
		AccessTTL:          cfg.AccessTokenTTL,
	})
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}
	clubService := services.NewClubService(log, r.Clubs, cat, clients.Redis, services.ClubServiceConfig{
		Limit:    cfg.ClubLimit,
		CacheTTL: cfg.ClubCacheTTL,
	})
	notificationService := services.NewNotificationService(log, clients.SendGrid, cfg.AppBaseURL)

	quizService := services.NewQuizService(log, r.Users, r.Results, services.QuizDeps{
		Bank:      bank,
		Extractor: profile.NewExtractor(effects),
		Scorer:    scorer,
		Catalog:   cat,
		Narrator:  narrator,
		Clubs:     clubService,
		Composer:  compose.New(cat, cfg.MaxAlternates),
		Cooldown:  cooldown.New(cfg.QuizCooldown),
		Notifier:  notificationService,
	}, services.QuizServiceConfig{
		TopN:          cfg.TopN,
		RefineEnabled: cfg.RefineEnabled,
	})

	log.Info("career pipeline ready",
		"catalog_version", cat.Version(),
		"careers", cat.Len(),
		"narrative_provider", narrator.Available(),
	)
	return Services{
		Catalog:      cat,
		Auth:         authService,
		Quiz:         quizService,
		Clubs:        clubService,
		Notification: notificationService,
	}, nil
}
