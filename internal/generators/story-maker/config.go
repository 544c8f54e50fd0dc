// internal/generators/story-maker/config.go
package storymaker

import "sahachari/internal/common/config"

type Config struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	DefaultLanguage string
	MaxBodyBytes    int64
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Model:           cfg.AI.Models.Story,
		Temperature:     0.9,
		MaxOutputTokens: 2048,
		DefaultLanguage: cfg.AI.DefaultLanguage,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
	}
}
