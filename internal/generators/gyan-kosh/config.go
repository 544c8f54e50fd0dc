// internal/generators/gyan-kosh/config.go
package gyankosh

import (
	"time"

	"sahachari/internal/common/config"
)

type Config struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	DefaultLanguage string
	MaxBodyBytes    int64
	// RecentTimeout bounds each background write to the recent-questions store.
	RecentTimeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Model:           cfg.AI.Models.Answer,
		Temperature:     0.7,
		MaxOutputTokens: 1024,
		DefaultLanguage: cfg.AI.DefaultLanguage,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		RecentTimeout:   2 * time.Second,
	}
}
