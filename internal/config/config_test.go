package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFilename = "product-service"

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, testFilename+".yaml"), []byte(content), 0o600)
	require.NoError(t, err)
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeConfig(t, `
application:
  env: development
  port: 9090
remote:
  base_url: https://example-db.restdb.io/rest/products
  access_key: file-key
  classifier: status
`)

	cfg, err := Load(context.Background(), dir, testFilename)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Application.Env)
	assert.Equal(t, "0.0.0.0", cfg.Application.Host)
	assert.Equal(t, 9090, cfg.Application.Port)
	assert.Equal(t, "https://example-db.restdb.io/rest/products", cfg.Remote.BaseURL)
	assert.Equal(t, "file-key", cfg.Remote.AccessKey)
	assert.Equal(t, "status", cfg.Remote.Classifier)
	assert.Equal(t, "_id", cfg.Remote.Marker)
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 4317, cfg.Otel.Port)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	dir := writeConfig(t, `
remote:
  base_url: https://example-db.restdb.io/rest/products
  access_key: file-key
`)
	t.Setenv("REMOTE_ACCESS_KEY", "env-key")
	t.Setenv("REMOTE_TIMEOUT", "3s")

	cfg, err := Load(context.Background(), dir, testFilename)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Remote.AccessKey)
	assert.Equal(t, 3*time.Second, cfg.Remote.Timeout)
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv("REMOTE_BASE_URL", "https://example-db.restdb.io/rest/products")
	t.Setenv("REMOTE_ACCESS_KEY", "env-key")

	cfg, err := Load(context.Background(), t.TempDir(), testFilename)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Remote.AccessKey)
	assert.Equal(t, "marker", cfg.Remote.Classifier)
	assert.Equal(t, "production", cfg.Application.Env)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "given missing base url should fail",
			content: `
remote:
  access_key: file-key
`,
		},
		{
			name: "given missing access key should fail",
			content: `
remote:
  base_url: https://example-db.restdb.io/rest/products
`,
		},
		{
			name: "given unknown classifier should fail",
			content: `
remote:
  base_url: https://example-db.restdb.io/rest/products
  access_key: file-key
  classifier: schema
`,
		},
		{
			name: "given invalid base url should fail",
			content: `
remote:
  base_url: not a url
  access_key: file-key
`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dir := writeConfig(t, test.content)

			cfg, err := Load(context.Background(), dir, testFilename)

			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestRemoteMasksAccessKey(t *testing.T) {
	cfg := Config{Remote: Remote{
		BaseURL:   "https://example-db.restdb.io/rest/products",
		AccessKey: "secret-key",
	}}

	b, err := json.Marshal(cfg)
	require.NoError(t, err)

	assert.NotContains(t, string(b), "secret-key")
	assert.Contains(t, string(b), `"access_key":"***"`)
	assert.Equal(t, "secret-key", cfg.Remote.AccessKey)
}
