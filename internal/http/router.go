package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/cownect/cownect-backend/internal/http/handlers"
	httpMW "github.com/cownect/cownect-backend/internal/http/middleware"
	"github.com/cownect/cownect-backend/internal/observability"
	"github.com/cownect/cownect-backend/internal/platform/logger"
)

const serviceName = "cownect-backend"

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	AllowedOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	QuizHandler   *httpH.QuizHandler
	CareerHandler *httpH.CareerHandler
	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	// Career names contain "/", so params are matched on the escaped path.
	r.UseRawPath = true
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil && cfg.Metrics.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")

	// Careers (public)
	if cfg.CareerHandler != nil {
		api.GET("/careers", cfg.CareerHandler.ListCareers)
		api.GET("/careers/:name", cfg.CareerHandler.GetCareer)
	}
	if cfg.QuizHandler != nil {
		api.GET("/quiz/questions/:level", cfg.QuizHandler.GetQuestions)
	}

	protected := api.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Quiz
	if cfg.QuizHandler != nil {
		protected.POST("/quiz/submit", cfg.QuizHandler.Submit)
		protected.GET("/quiz/results", cfg.QuizHandler.ListResults)
		protected.GET("/quiz/results/:id", cfg.QuizHandler.GetResult)
		protected.POST("/quiz/results/:id/clubs/:clubId/bookmark", cfg.QuizHandler.BookmarkClub)
		protected.DELETE("/quiz/results/:id/clubs/:clubId/bookmark", cfg.QuizHandler.UnbookmarkClub)
		protected.POST("/quiz/results/:id/steps/:stepId/complete", cfg.QuizHandler.CompleteStep)
		protected.POST("/quiz/results/:id/feedback", cfg.QuizHandler.SubmitFeedback)
	}

	return r
}
