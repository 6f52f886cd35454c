package app

import (
	"gorm.io/gorm"

	"github.com/cownect/cownect-backend/internal/http"
	httpH "github.com/cownect/cownect-backend/internal/http/handlers"
	httpMW "github.com/cownect/cownect-backend/internal/http/middleware"
	"github.com/cownect/cownect-backend/internal/observability"
	"github.com/cownect/cownect-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health *httpH.HealthHandler
	Quiz   *httpH.QuizHandler
	Career *httpH.CareerHandler
}

func wireMiddleware(log *logger.Logger, svc Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, svc.Auth),
	}
}

func wireHandlers(log *logger.Logger, db *gorm.DB, svc Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(db),
		Quiz:   httpH.NewQuizHandler(log, svc.Quiz),
		Career: httpH.NewCareerHandler(log, svc.Catalog),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, h Handlers, mw Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		AllowedOrigins: cfg.AllowedOrigins,
		AuthMiddleware: mw.Auth,
		QuizHandler:    h.Quiz,
		CareerHandler:  h.Career,
		HealthHandler:  h.Health,
	})
}
