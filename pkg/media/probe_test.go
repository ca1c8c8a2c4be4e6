package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpzouying/videogram/pkg/ffmpeg"
)

func TestParseLocalInfoVideo(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(videoPath, []byte("v"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip.jpg"), []byte("j"), 0644))

	tool := &fakeTool{
		probeResult: &ffmpeg.ProbeResult{
			Streams: []ffmpeg.Stream{
				{CodecType: "video", Duration: "61.4", Width: 1280, Height: 720},
				{CodecType: "audio", Duration: "61.4"},
			},
		},
	}
	covers := NewCoverResolver(newTestConfig(t), tool, &fakeFetcher{})

	rec, err := ParseLocalInfo(context.Background(), tool, covers, videoPath, "https://example.com", KindVideo)
	require.NoError(t, err)

	assert.Equal(t, "clip", rec.Title)
	assert.Equal(t, videoPath, rec.VideoPath)
	assert.Equal(t, videoPath, rec.AudioPath)
	assert.Equal(t, "[clip](https://example.com)", rec.Caption)
	assert.Equal(t, 61, rec.Duration)
	assert.Equal(t, 1280, rec.Width)
	assert.Equal(t, 720, rec.Height)
	assert.Equal(t, filepath.Join(dir, "clip.jpg"), rec.Thumb)
}

func TestParseLocalInfoAudioSkipsDimensions(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "song.m4a")
	require.NoError(t, os.WriteFile(audioPath, []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "song.jpg"), []byte("j"), 0644))

	tool := &fakeTool{
		probeResult: &ffmpeg.ProbeResult{
			Streams: []ffmpeg.Stream{{CodecType: "audio", Duration: "10.2", Width: 300, Height: 300}},
		},
	}
	covers := NewCoverResolver(newTestConfig(t), tool, &fakeFetcher{})

	rec, err := ParseLocalInfo(context.Background(), tool, covers, audioPath, "", KindAudio)
	require.NoError(t, err)

	assert.Equal(t, "song", rec.Caption)
	assert.Equal(t, 10, rec.Duration)
	assert.Zero(t, rec.Width)
	assert.Zero(t, rec.Height)
}

func TestParseLocalInfoMissingStreamInfo(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(videoPath, []byte("v"), 0644))

	tests := []struct {
		name    string
		result  *ffmpeg.ProbeResult
		missing []string
	}{
		{
			name:    "no streams",
			result:  &ffmpeg.ProbeResult{},
			missing: []string{"streams"},
		},
		{
			name: "no duration",
			result: &ffmpeg.ProbeResult{
				Streams: []ffmpeg.Stream{{CodecType: "video"}},
			},
			missing: []string{"duration"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := &fakeTool{probeResult: tt.result}
			covers := NewCoverResolver(newTestConfig(t), tool, &fakeFetcher{})

			_, err := ParseLocalInfo(context.Background(), tool, covers, videoPath, "", KindVideo)

			var missingErr *MissingFieldError
			require.ErrorAs(t, err, &missingErr)
			assert.Equal(t, tt.missing, missingErr.Fields)
		})
	}
}
