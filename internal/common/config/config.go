// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	AI       AIConfig       `mapstructure:"ai"`
	Speech   SpeechConfig   `mapstructure:"speech"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string   `mapstructure:"address"`
	RequestTimeout  int      `mapstructure:"request_timeout"`  // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	MaxBodyBytes    int64    `mapstructure:"max_body_bytes"`
	MaxUploadBytes  int64    `mapstructure:"max_upload_bytes"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// ElasticsearchConfig backs saved-library search. Search is off unless Enabled.
type ElasticsearchConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Identity ---

// AuthConfig selects and configures the bearer-token verifier.
type AuthConfig struct {
	Provider string `mapstructure:"provider"` // firebase | keycloak

	Firebase struct {
		ProjectID string `mapstructure:"project_id"`
	} `mapstructure:"firebase"`

	Keycloak struct {
		URL          string `mapstructure:"url"`
		Realm        string `mapstructure:"realm"`
		ClientID     string `mapstructure:"client_id"`
		ClientSecret string `mapstructure:"client_secret"`
		Timeout      int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"keycloak"`
}

// --- Generative AI ---

type AIConfig struct {
	DefaultProvider string       `mapstructure:"default_provider"`
	DefaultLanguage string       `mapstructure:"default_language"`
	Gemini          GeminiConfig `mapstructure:"gemini"`
	OpenAI          OpenAIConfig `mapstructure:"openai"`
	Models          ModelsConfig `mapstructure:"models"`
}

type GeminiConfig struct {
	APIKey   string   `mapstructure:"api_key"`
	Backend  string   `mapstructure:"backend"` // gemini | vertex
	Project  string   `mapstructure:"project"`
	Location string   `mapstructure:"location"`
	Models   []string `mapstructure:"models"`
}

type OpenAIConfig struct {
	APIKey  string   `mapstructure:"api_key"`
	BaseURL string   `mapstructure:"base_url"`
	Models  []string `mapstructure:"models"`
}

// ModelsConfig names the model used for each content kind.
type ModelsConfig struct {
	Story          string `mapstructure:"story"`
	Answer         string `mapstructure:"answer"`
	Worksheet      string `mapstructure:"worksheet"`
	Transcription  string `mapstructure:"transcription"`
	VisualAidText  string `mapstructure:"visual_aid_text"`
	VisualAidImage string `mapstructure:"visual_aid_image"`
}

// --- Speech ---

type VoiceConfig struct {
	Name         string `mapstructure:"name"`
	LanguageCode string `mapstructure:"language_code"`
	Gender       string `mapstructure:"gender"`
}

type SpeechConfig struct {
	DefaultLanguage string                 `mapstructure:"default_language"`
	SpeakingRate    float64                `mapstructure:"speaking_rate"`
	Voices          map[string]VoiceConfig `mapstructure:"voices"`
}

// --- Object storage ---

type StorageConfig struct {
	Bucket         string `mapstructure:"bucket"`
	TextbookPrefix string `mapstructure:"textbook_prefix"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
