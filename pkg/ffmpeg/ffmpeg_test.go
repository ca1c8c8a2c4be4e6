package ffmpeg

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"-y", "-loglevel", "warning", "-i", "in.webp", "out.jpg"},
		convertArgs("in.webp", "out.jpg"))
}

func TestFirstFrameArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"-y", "-loglevel", "warning", "-i", "in.mp4", "-vframes", "1", "out.jpg"},
		firstFrameArgs("in.mp4", "out.jpg"))
}

func TestSplitArgs(t *testing.T) {
	args := splitArgs("in.mp4", "out_00.mp4", 93.5, 1998585856)

	assert.Equal(t, []string{
		"-y", "-loglevel", "warning",
		"-ss", "93500ms",
		"-i", "in.mp4",
		"-acodec", "copy",
		"-vcodec", "copy",
		"-fs", "1998585856",
		"out_00.mp4",
	}, args)
}

func TestProbeArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"-print_format", "json", "-show_streams", "in.mp4"},
		probeArgs("in.mp4"))
}

func TestProbeResultDuration(t *testing.T) {
	raw := `{
		"streams": [
			{"codec_type": "video", "duration": "93.466667", "width": 1920, "height": 1080},
			{"codec_type": "audio", "duration": "93.483000"}
		]
	}`

	var result ProbeResult
	require.NoError(t, json.Unmarshal([]byte(raw), &result))

	d, err := result.Duration()
	require.NoError(t, err)
	assert.InDelta(t, 93.466667, d, 1e-6)

	width, height := result.Dimensions()
	assert.Equal(t, 1920, width)
	assert.Equal(t, 1080, height)
}

func TestProbeResultErrors(t *testing.T) {
	var empty ProbeResult
	_, err := empty.Duration()
	assert.Error(t, err)

	noDuration := ProbeResult{Streams: []Stream{{CodecType: "video"}}}
	_, err = noDuration.Duration()
	assert.Error(t, err)

	badDuration := ProbeResult{Streams: []Stream{{Duration: "N/A"}}}
	_, err = badDuration.Duration()
	assert.Error(t, err)
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Bin: "ffmpeg", Message: "Error muxing a packet"}
	assert.Equal(t, "ffmpeg failed: Error muxing a packet", err.Error())
}
