// internal/generators/worksheet-creator/config.go
package worksheetcreator

import "sahachari/internal/common/config"

const (
	MinGrade = 1
	MaxGrade = 12
)

type Config struct {
	Model           string
	DefaultLanguage string
	MaxBodyBytes    int64
	MaxUploadBytes  int64
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Model:           cfg.AI.Models.Worksheet,
		DefaultLanguage: cfg.AI.DefaultLanguage,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		MaxUploadBytes:  cfg.Server.MaxUploadBytes,
	}
}
