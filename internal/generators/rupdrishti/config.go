// internal/generators/rupdrishti/config.go
package rupdrishti

import "sahachari/internal/common/config"

type Config struct {
	TextModel    string
	ImageModel   string
	AspectRatio  string
	MaxBodyBytes int64
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		TextModel:    cfg.AI.Models.VisualAidText,
		ImageModel:   cfg.AI.Models.VisualAidImage,
		AspectRatio:  "4:3",
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	}
}
