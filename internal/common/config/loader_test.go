// internal/common/config/loader_test.go
package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

const baseYAML = `
app:
  name: sahachari
  environment: test
auth:
  provider: firebase
  firebase:
    project_id: sahachari-test
ai:
  gemini:
    api_key: ${TEST_GEMINI_KEY}
speech:
  voices:
    en-IN:
      name: en-IN-Wavenet-D
      gender: FEMALE
database:
  postgres:
    host: localhost
    database: sahachari
    user: teacher
  redis:
    address: localhost:6379
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// ==========================
// Core Functionality Tests
// ==========================

func TestLoadFromFile_AppliesDefaultsAndExpandsEnv(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "key-from-env")

	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "key-from-env", cfg.AI.Gemini.APIKey)
	assert.Equal(t, "gemini", cfg.AI.DefaultProvider)
	assert.Equal(t, "English", cfg.AI.DefaultLanguage)
	assert.Equal(t, "gemini-2.5-pro", cfg.AI.Models.Story)
	assert.Equal(t, "imagen-3.0-generate-002", cfg.AI.Models.VisualAidImage)
	assert.Equal(t, []string{"gemini-2.5-pro", "gemini-2.5-flash", "imagen-3.0-generate-002"}, cfg.AI.Gemini.Models)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "en-IN", cfg.Speech.DefaultLanguage)
	assert.Equal(t, 1.0, cfg.Speech.SpeakingRate)
	assert.Equal(t, "textbooks/", cfg.Storage.TextbookPrefix)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "sahachari-saved-items", cfg.Database.Elasticsearch.Index)
	assert.Equal(t, "info", cfg.Logging.Level)

	require.Len(t, cfg.Speech.Voices, 1)
	for _, voice := range cfg.Speech.Voices {
		assert.Equal(t, "en-IN-Wavenet-D", voice.Name)
	}
}

func TestLoadFromFile_SecretFallbacks(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "")
	t.Setenv("GEMINI_API_KEY", "fallback-key")
	t.Setenv("DB_PASSWORD", "s3cret")

	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "fallback-key", cfg.AI.Gemini.APIKey)
	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
}

func TestLoadFromFile_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		expectedErr string
	}{
		{
			name: "unknown auth provider",
			yaml: `
auth:
  provider: cognito
`,
			expectedErr: "auth.provider",
		},
		{
			name: "keycloak without realm",
			yaml: `
auth:
  provider: keycloak
  keycloak:
    url: http://kc
`,
			expectedErr: "auth.keycloak.url",
		},
		{
			name: "vertex without project",
			yaml: `
auth:
  firebase:
    project_id: p
ai:
  gemini:
    backend: vertex
`,
			expectedErr: "ai.gemini.project",
		},
		{
			name: "gemini default with only an openai key",
			yaml: `
auth:
  firebase:
    project_id: p
ai:
  default_provider: gemini
  openai:
    api_key: sk-test
    models: [gpt-4o]
`,
			expectedErr: "ai.gemini.api_key is required when gemini is the default provider",
		},
		{
			name: "missing postgres host",
			yaml: `
auth:
  firebase:
    project_id: p
ai:
  gemini:
    api_key: k
database:
  redis:
    address: localhost:6379
`,
			expectedErr: "database.postgres.host",
		},
		{
			name: "search enabled without addresses",
			yaml: `
auth:
  firebase:
    project_id: p
ai:
  gemini:
    api_key: k
database:
  postgres:
    host: localhost
    database: sahachari
    user: teacher
  redis:
    address: localhost:6379
  elasticsearch:
    enabled: true
`,
			expectedErr: "database.elasticsearch.addresses",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", "")
			t.Setenv("GOOGLE_API_KEY", "")
			t.Setenv("OPENAI_API_KEY", "")
			t.Setenv("FIREBASE_PROJECT_ID", "")
			t.Setenv("GOOGLE_CLOUD_PROJECT_ID", "")
			t.Setenv("GOOGLE_CLOUD_PROJECT", "")
			t.Setenv("DB_USER", "")

			_, err := LoadFromFile(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestMaterializeCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_BASE64",
		base64.StdEncoding.EncodeToString([]byte(`{"type":"service_account"}`)))

	require.NoError(t, materializeCredentials())

	path := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	require.NotEmpty(t, path)
	t.Cleanup(func() { os.Remove(path) })

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"service_account"}`, string(data))
}

func TestMaterializeCredentials_InvalidBase64(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_BASE64", "!!not-base64!!")

	err := materializeCredentials()
	require.Error(t, err)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
