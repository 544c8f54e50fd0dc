// internal/common/config/loader.go
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml over it
// and applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	if root := findProjectRoot(); root != "" {
		v.AddConfigPath(filepath.Join(root, "configs"))
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // the environment file is optional

	return finalize(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finalize(v)
}

func finalize(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := materializeCredentials(); err != nil {
		return nil, err
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders left in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

func setIfEmpty(target *string, envKeys ...string) {
	if *target != "" {
		return
	}
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			*target = val
			return
		}
	}
}

// overrideEmptyConfig fills secrets and project ids from well-known variables.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.AI.Gemini.APIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")
	setIfEmpty(&cfg.AI.Gemini.Project, "GOOGLE_CLOUD_PROJECT_ID", "GOOGLE_CLOUD_PROJECT")
	setIfEmpty(&cfg.AI.Gemini.Location, "GOOGLE_CLOUD_LOCATION")
	setIfEmpty(&cfg.AI.OpenAI.APIKey, "OPENAI_API_KEY")

	setIfEmpty(&cfg.Auth.Firebase.ProjectID, "FIREBASE_PROJECT_ID", "GOOGLE_CLOUD_PROJECT_ID")
	setIfEmpty(&cfg.Auth.Keycloak.ClientSecret, "KEYCLOAK_CLIENT_SECRET")
	setIfEmpty(&cfg.Storage.Bucket, "FIREBASE_STORAGE_BUCKET")

	setIfEmpty(&cfg.Database.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Database.Postgres.Password, "DB_PASSWORD")
	setIfEmpty(&cfg.Database.Redis.Password, "REDIS_PASSWORD")
}

// materializeCredentials writes GOOGLE_APPLICATION_CREDENTIALS_BASE64 to a private
// file so the Google SDKs pick it up through application default credentials.
func materializeCredentials() error {
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" {
		return nil
	}
	encoded := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_BASE64")
	if encoded == "" {
		return nil
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return fmt.Errorf("decode GOOGLE_APPLICATION_CREDENTIALS_BASE64: %w", err)
	}

	f, err := os.CreateTemp("", "sahachari-credentials-*.json")
	if err != nil {
		return fmt.Errorf("write service account file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write service account file: %w", err)
	}
	return os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", f.Name())
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "sahachari"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 120000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30000
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = 20 << 20
	}

	if cfg.Auth.Provider == "" {
		cfg.Auth.Provider = "firebase"
	}
	if cfg.Auth.Keycloak.Timeout == 0 {
		cfg.Auth.Keycloak.Timeout = 10000
	}

	if cfg.AI.DefaultProvider == "" {
		cfg.AI.DefaultProvider = "gemini"
	}
	if cfg.AI.DefaultLanguage == "" {
		cfg.AI.DefaultLanguage = "English"
	}
	if cfg.AI.Gemini.Backend == "" {
		cfg.AI.Gemini.Backend = "gemini"
	}
	if cfg.AI.Gemini.Location == "" {
		cfg.AI.Gemini.Location = "us-central1"
	}
	if len(cfg.AI.Gemini.Models) == 0 {
		cfg.AI.Gemini.Models = []string{"gemini-2.5-pro", "gemini-2.5-flash", "imagen-3.0-generate-002"}
	}
	if cfg.AI.Models.Story == "" {
		cfg.AI.Models.Story = "gemini-2.5-pro"
	}
	if cfg.AI.Models.Answer == "" {
		cfg.AI.Models.Answer = "gemini-2.5-pro"
	}
	if cfg.AI.Models.Worksheet == "" {
		cfg.AI.Models.Worksheet = "gemini-2.5-pro"
	}
	if cfg.AI.Models.Transcription == "" {
		cfg.AI.Models.Transcription = "gemini-2.5-flash"
	}
	if cfg.AI.Models.VisualAidText == "" {
		cfg.AI.Models.VisualAidText = "gemini-2.5-flash"
	}
	if cfg.AI.Models.VisualAidImage == "" {
		cfg.AI.Models.VisualAidImage = "imagen-3.0-generate-002"
	}

	if cfg.Speech.DefaultLanguage == "" {
		cfg.Speech.DefaultLanguage = "en-IN"
	}
	if cfg.Speech.SpeakingRate == 0 {
		cfg.Speech.SpeakingRate = 1
	}

	if cfg.Storage.TextbookPrefix == "" {
		cfg.Storage.TextbookPrefix = "textbooks/"
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Elasticsearch.Index == "" {
		cfg.Database.Elasticsearch.Index = "sahachari-saved-items"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	switch cfg.Auth.Provider {
	case "firebase":
		if cfg.Auth.Firebase.ProjectID == "" {
			return fmt.Errorf("auth.firebase.project_id is required")
		}
	case "keycloak":
		if cfg.Auth.Keycloak.URL == "" || cfg.Auth.Keycloak.Realm == "" {
			return fmt.Errorf("auth.keycloak.url and auth.keycloak.realm are required")
		}
	default:
		return fmt.Errorf("auth.provider must be firebase or keycloak, got %q", cfg.Auth.Provider)
	}

	switch cfg.AI.Gemini.Backend {
	case "gemini":
		if cfg.AI.Gemini.APIKey == "" && cfg.AI.OpenAI.APIKey == "" {
			return fmt.Errorf("ai.gemini.api_key or ai.openai.api_key is required")
		}
	case "vertex":
		if cfg.AI.Gemini.Project == "" {
			return fmt.Errorf("ai.gemini.project is required for the vertex backend")
		}
	default:
		return fmt.Errorf("ai.gemini.backend must be gemini or vertex, got %q", cfg.AI.Gemini.Backend)
	}

	if cfg.AI.DefaultProvider != "gemini" && cfg.AI.DefaultProvider != "openai" {
		return fmt.Errorf("ai.default_provider must be gemini or openai, got %q", cfg.AI.DefaultProvider)
	}
	if cfg.AI.DefaultProvider == "openai" && cfg.AI.OpenAI.APIKey == "" {
		return fmt.Errorf("ai.openai.api_key is required when openai is the default provider")
	}
	if cfg.AI.DefaultProvider == "gemini" && cfg.AI.Gemini.Backend == "gemini" && cfg.AI.Gemini.APIKey == "" {
		return fmt.Errorf("ai.gemini.api_key is required when gemini is the default provider")
	}

	if cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if cfg.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if cfg.Database.Postgres.User == "" {
		return fmt.Errorf("database.postgres.user is required")
	}

	if cfg.Database.Elasticsearch.Enabled && len(cfg.Database.Elasticsearch.Addresses) == 0 {
		return fmt.Errorf("database.elasticsearch.addresses is required when search is enabled")
	}

	if cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
