package app

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cownect/cownect-backend/internal/platform/logger"
	"github.com/cownect/cownect-backend/internal/platform/openai"
	"github.com/cownect/cownect-backend/internal/platform/redis"
	"github.com/cownect/cownect-backend/internal/platform/sendgrid"
)

// Clients are the optional upstreams. Each is nil when unconfigured and the
// dependent feature degrades instead of failing startup.
type Clients struct {
	OpenAI   openai.Client
	Redis    *goredis.Client
	SendGrid sendgrid.Client
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// OpenAI
	if cfg.OpenAI.APIKey != "" {
		c, err := openai.NewClient(log, cfg.OpenAI)
		if err != nil {
			return Clients{}, fmt.Errorf("init openai client: %w", err)
		}
		out.OpenAI = c
	} else {
		log.Warn("OPENAI_API_KEY not set; narratives use static fallback content")
	}

	// Redis
	rdb, err := redis.New(log, cfg.Redis)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	out.Redis = rdb

	// SendGrid
	if cfg.ResultsEmailsOn && cfg.SendGrid.APIKey != "" {
		mail, err := sendgrid.New(log, cfg.SendGrid)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init sendgrid client: %w", err)
		}
		out.SendGrid = mail
	}
	return out, nil
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
