package configs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.FileExists(t, path)
	assert.Equal(t, "info", cfg.Get(KeyLogLevel))
	assert.Equal(t, "en", cfg.Get(KeyYoutubeLang))
	assert.Equal(t, filepath.Join(filepath.Dir(path), "cookies"), cfg.Get(KeyCookiesDir))
	assert.Equal(t, int64(2097152000), cfg.MaxFileBytes())
}

func TestLoadFromMergesFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data, err := json.Marshal(map[string]string{
		KeyYoutubeLang:    "zh",
		KeyTelegramTarget: "12345",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "zh", cfg.Get(KeyYoutubeLang))
	assert.Equal(t, "12345", cfg.Get(KeyTelegramTarget))
	// 文件里没有的键保留默认值
	assert.Equal(t, "info", cfg.Get(KeyLogLevel))
}

func TestLoadFromEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data, err := json.Marshal(map[string]string{KeyYoutubeLang: "zh"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))

	t.Setenv(KeyYoutubeLang, "ja")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "ja", cfg.Get(KeyYoutubeLang))
}

func TestPersistRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	cfg.Set(KeyTelegramTarget, "-100200300")
	cfg.Delete(KeyDefaultCover)
	require.NoError(t, cfg.Persist())

	reloaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "-100200300", reloaded.Get(KeyTelegramTarget))
	assert.False(t, reloaded.Has(KeyDefaultCover))
}

func TestGetOr(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	assert.Equal(t, "fallback", cfg.GetOr(KeyTelegramToken, "fallback"))
	cfg.Set(KeyTelegramToken, "token")
	assert.Equal(t, "token", cfg.GetOr(KeyTelegramToken, "fallback"))
}

func TestMaxFileBytesFallback(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	for _, bad := range []string{"not-a-number", "-1", "0"} {
		cfg.Set(KeyMaxFileBytes, bad)
		assert.Equal(t, int64(2097152000), cfg.MaxFileBytes(), "value: %s", bad)
	}

	cfg.Set(KeyMaxFileBytes, "52428800")
	assert.Equal(t, int64(52428800), cfg.MaxFileBytes())
}

func TestProxyURL(t *testing.T) {
	t.Setenv(KeyProxy, "http://127.0.0.1:7890")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	u := cfg.ProxyURL()
	require.NotNil(t, u)
	assert.Equal(t, "127.0.0.1:7890", u.Host)
}

func TestPathEnvOverride(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "custom.json")
	t.Setenv(envPathKey, custom)

	assert.Equal(t, custom, Path())
}

func TestKeysSorted(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	keys := cfg.Keys()
	require.NotEmpty(t, keys)
	assert.IsIncreasing(t, keys)
}
