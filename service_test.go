package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpzouying/videogram/configs"
	"github.com/xpzouying/videogram/pkg/media"
)

func newTestService(t *testing.T) *VideogramService {
	t.Helper()
	cfg, err := configs.LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	return NewVideogramService(cfg)
}

func TestDownloadRejectsUnsupportedDomain(t *testing.T) {
	s := newTestService(t)

	tests := []string{
		"https://vimeo.com/12345",
		"https://www.example.com/watch?v=abc",
		"not-a-url",
	}
	for _, url := range tests {
		_, err := s.Download(context.Background(), url, DownloadOptions{})

		var unsupportedErr *UnsupportedInputError
		assert.ErrorAs(t, err, &unsupportedErr, url)
	}
}

func TestUploadRejectsUnsupportedInput(t *testing.T) {
	s := newTestService(t)

	// 文件不存在
	err := s.Upload(context.Background(), "/nonexistent.mp4", "", "1", 0)
	var unsupportedErr *UnsupportedInputError
	assert.ErrorAs(t, err, &unsupportedErr)

	// 既不是 mp4 也不是音频格式
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	err = s.Upload(context.Background(), path, "", "1", 0)
	assert.ErrorAs(t, err, &unsupportedErr)
	assert.Contains(t, err.Error(), ".pdf")
}

func TestResolveTarget(t *testing.T) {
	s := newTestService(t)
	s.cfg.Set(configs.KeyTelegramTarget, "999")

	assert.Equal(t, "123", s.resolveTarget("123"))
	assert.Equal(t, "999", s.resolveTarget(""))
}

func TestCleanup(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"clip.mp4", "clip.jpg", "clip.f140.m4a", "clip.m4a",
		"clip_00.mp4", "clip_01.mp4",
		"unrelated.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	s := newTestService(t)
	s.cleanup(dir, []*media.Record{
		{Thumb: filepath.Join(dir, "clip.jpg")},
	})

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "unrelated.txt", entries[0].Name())
}

func TestUnsupportedInputErrorMessage(t *testing.T) {
	err := &UnsupportedInputError{Input: "vimeo.com"}
	assert.Equal(t, "unsupported input: vimeo.com", err.Error())
}
