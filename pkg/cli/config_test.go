package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserConfigRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := &UserConfig{
		CurrentProfile: "dev",
		Profiles: map[string]Profile{
			"dev":  {Host: "http://localhost:8080", Token: "tok", Output: "table"},
			"prod": {Host: "https://rollcall.example.com", Output: "json"},
		},
	}
	require.NoError(t, SaveUserConfig(cfg))

	loaded, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, "dev", loaded.CurrentProfile)
	assert.Equal(t, cfg.Profiles["dev"], loaded.Profiles["dev"])
	assert.Equal(t, cfg.Profiles["prod"], loaded.Profiles["prod"])

	info, err := os.Stat(ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadUserConfigMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := LoadUserConfig()
	assert.Error(t, err)
}

func TestActiveProfile(t *testing.T) {
	cfg := &UserConfig{
		CurrentProfile: "dev",
		Profiles: map[string]Profile{
			"dev":  {Host: "http://localhost:8080"},
			"prod": {Host: "https://rollcall.example.com"},
		},
	}

	assert.Equal(t, "http://localhost:8080", cfg.ActiveProfile("").Host)
	assert.Equal(t, "https://rollcall.example.com", cfg.ActiveProfile("prod").Host)
	assert.Equal(t, Profile{}, cfg.ActiveProfile("missing"))
}

func TestSaveTokenToProfileCreatesDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, saveTokenToProfile("new-token"))

	loaded, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, "default", loaded.CurrentProfile)
	assert.Equal(t, "new-token", loaded.Profiles["default"].Token)
}

func TestSaveTokenToProfilePreservesOtherFields(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, SaveUserConfig(&UserConfig{
		CurrentProfile: "dev",
		Profiles: map[string]Profile{
			"dev": {Host: "http://localhost:8080", Token: "old", Output: "json"},
		},
	}))

	require.NoError(t, saveTokenToProfile("new"))

	loaded, err := LoadUserConfig()
	require.NoError(t, err)
	p := loaded.Profiles["dev"]
	assert.Equal(t, "new", p.Token)
	assert.Equal(t, "http://localhost:8080", p.Host)
	assert.Equal(t, "json", p.Output)
}

func TestConfigPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, ".rollcall", "config.yaml"), ConfigPath())
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", maskSecret(""))
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "****", maskSecret("exactly10c"))
	assert.Equal(t, "abcd****wxyz", maskSecret("abcdefghijklmnopqrstuvwxyz"))
}

func TestMaskConfigDoesNotMutateOriginal(t *testing.T) {
	cfg := &UserConfig{
		CurrentProfile: "dev",
		Profiles: map[string]Profile{
			"dev": {Token: "a-very-long-secret-token"},
		},
	}

	masked := maskConfig(cfg)
	assert.Equal(t, "a-ve****oken", masked.Profiles["dev"].Token)
	assert.Equal(t, "a-very-long-secret-token", cfg.Profiles["dev"].Token)
}
