// internal/generators/speech-to-text/config.go
package speechtotext

import "sahachari/internal/common/config"

type Config struct {
	Model          string
	MaxUploadBytes int64
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Model:          cfg.AI.Models.Transcription,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	}
}
