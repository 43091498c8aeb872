package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_AllVarsSet(t *testing.T) {
	t.Setenv("KEY_ID", "testkey")
	t.Setenv("SECRET", "testsecret")
	t.Setenv("ENDPOINT", "s3.example.com")
	t.Setenv("REGION", "us-east-1")
	t.Setenv("BUCKET", "test-bucket")
	t.Setenv("DB_PATH", "/tmp/test.sqlite")
	t.Setenv("ORG_ID", "acme")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	require.NotNil(t, cfg.S3KeyID)
	assert.Equal(t, "testkey", *cfg.S3KeyID)
	assert.Equal(t, "test-bucket", cfg.S3BucketName())
	assert.Equal(t, "/tmp/test.sqlite", cfg.DBPath)
	assert.Equal(t, "acme", cfg.OrgID)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"KEY_ID", "SECRET", "ENDPOINT", "REGION", "BUCKET",
		"DB_PATH", "ORG_ID", "TIME_ZONE", "DIGEST_CRON",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Nil(t, cfg.S3KeyID)
	assert.Equal(t, "rollcall.sqlite", cfg.DBPath)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "default", cfg.OrgID)
	assert.Equal(t, "UTC", cfg.TimeZone)
	assert.Equal(t, "5 0 * * *", cfg.DigestCron)
	assert.Equal(t, float64(100), cfg.RateLimitRPS)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestHasS3Config_PartialConfig(t *testing.T) {
	t.Setenv("KEY_ID", "testkey")
	t.Setenv("SECRET", "")
	t.Setenv("ENDPOINT", "s3.example.com")
	t.Setenv("REGION", "")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.False(t, cfg.HasS3Config(), "partial S3 config should return false")
}

func TestLoadFromEnv_InvalidTimeZone(t *testing.T) {
	t.Setenv("TIME_ZONE", "Mars/Olympus")

	_, err := LoadFromEnv()
	require.Error(t, err)
}

func TestLoadFromEnv_Warnings(t *testing.T) {
	t.Setenv("AUTH_ISSUER_URL", "")
	t.Setenv("AUTH_JWKS_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("KEY_ID", "")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Warnings)
}

func TestLoadFromEnv_ProductionRequiresAuth(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("AUTH_ISSUER_URL", "")
	t.Setenv("AUTH_JWKS_URL", "")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadFromEnv()
	require.Error(t, err)
}

func TestLoadFromEnv_ProductionRejectsCORSWildcard(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "supersecret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	_, err := LoadFromEnv()
	require.Error(t, err)
}

func TestLoadDotEnv_FileNotFound(t *testing.T) {
	err := LoadDotEnv("/nonexistent/.env")
	if err != nil {
		t.Errorf("expected no error for missing .env, got: %v", err)
	}
}

func TestLoadDotEnv_ParsesKeyValue(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	err := os.WriteFile(envFile, []byte("# comment\nTEST_ROLLCALL_KEY=\"quoted\"\n"), 0644)
	if err != nil {
		t.Fatalf("write .env: %v", err)
	}

	if err := LoadDotEnv(envFile); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}

	if val := os.Getenv("TEST_ROLLCALL_KEY"); val != "quoted" {
		t.Errorf("TEST_ROLLCALL_KEY = %q, want %q", val, "quoted")
	}
	_ = os.Unsetenv("TEST_ROLLCALL_KEY")
}
