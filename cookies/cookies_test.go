package cookies

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderOf(t *testing.T) {
	tests := []struct {
		host     string
		provider string
		ok       bool
	}{
		{"www.youtube.com", "youtube", true},
		{"m.youtube.com", "youtube", true},
		{"youtu.be", "youtube", true},
		{"www.bilibili.com", "bilibili", true},
		{"b23.tv", "bilibili", true},
		{"www.example.com", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		provider, ok := ProviderOf(tt.host)
		assert.Equal(t, tt.ok, ok, tt.host)
		assert.Equal(t, tt.provider, provider, tt.host)
	}
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("https://www.youtube.com/watch?v=abc"))
	assert.True(t, IsSupported("https://b23.tv/abcdef"))
	assert.False(t, IsSupported("https://vimeo.com/12345"))
	assert.False(t, IsSupported("not-a-url"))
}

func TestFilePath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cookies")

	path, err := FilePath(dir, "https://www.youtube.com/watch?v=abc")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "youtube.txt"), path)
	assert.DirExists(t, dir)

	path, err = FilePath(dir, "https://m.bilibili.com/video/BV1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bilibili.txt"), path)

	// 未知站点退化为按域名命名
	path, err = FilePath(dir, "https://www.example.com/v")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "www.example.com.txt"), path)

	_, err = FilePath(dir, "::bad::url")
	assert.Error(t, err)
}

func TestLocalCookieRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies", "youtube.txt")
	c := NewLocalCookie(path)

	require.NoError(t, c.SaveCookies([]byte("# Netscape HTTP Cookie File\n")))

	data, err := c.LoadCookies()
	require.NoError(t, err)
	assert.Equal(t, "# Netscape HTTP Cookie File\n", string(data))

	require.NoError(t, c.DeleteCookies())
	_, err = c.LoadCookies()
	assert.Error(t, err)

	// 重复删除不算错误
	assert.NoError(t, c.DeleteCookies())
}
