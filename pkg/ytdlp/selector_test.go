package ytdlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func videoFormat(id, ext, vcodec string) Format {
	return Format{
		FormatID:   id,
		Format:     id + " - " + ext,
		Ext:        ext,
		VideoExt:   ext,
		AudioExt:   "none",
		ACodec:     "none",
		VCodec:     vcodec,
		Resolution: "1920x1080",
		Protocol:   "https",
		Width:      1920,
		Height:     1080,
	}
}

func audioFormat(id, ext string) Format {
	return Format{
		FormatID:   id,
		Format:     id + " - audio only",
		Ext:        ext,
		VideoExt:   "none",
		AudioExt:   ext,
		ACodec:     "mp4a.40.2",
		VCodec:     "none",
		Resolution: "audio only",
		Protocol:   "https",
	}
}

func TestSelectFormatPrefersKnownIDs(t *testing.T) {
	// 从差到好排序，偏好的 299/140 故意不放在最佳位置
	formats := []Format{
		audioFormat("139", "m4a"),
		audioFormat("140", "m4a"),
		audioFormat("251", "m4a"),
		videoFormat("299", "mp4", "avc1.64002a"),
		videoFormat("303", "mp4", "avc1.640028"),
	}

	choice, err := SelectFormat(formats)
	require.NoError(t, err)

	assert.Equal(t, "299+140", choice.FormatID)
	assert.Equal(t, "https+https", choice.Protocol)
	assert.True(t, choice.HasVideo())
	assert.True(t, choice.HasAudio())
	assert.Equal(t, "mp4", choice.Ext)
}

func TestSelectFormatFallsBackToBest(t *testing.T) {
	// 没有 299/140 时取最佳（列表末尾）的兼容格式
	formats := []Format{
		audioFormat("139", "m4a"),
		audioFormat("141", "m4a"),
		videoFormat("134", "mp4", "avc1.4d401e"),
		videoFormat("137", "mp4", "avc1.640028"),
	}

	choice, err := SelectFormat(formats)
	require.NoError(t, err)

	assert.Equal(t, "137+141", choice.FormatID)
}

func TestSelectFormatCompatibility(t *testing.T) {
	tests := []struct {
		name    string
		formats []Format
	}{
		{
			name: "vp9 only",
			formats: []Format{
				videoFormat("248", "webm", "vp9"),
				videoFormat("313", "webm", "vp09.00.40.08"),
			},
		},
		{
			name: "vp9 in mp4 container",
			formats: []Format{
				videoFormat("399", "mp4", "vp09.00.40.08"),
			},
		},
		{
			name: "opus audio only",
			formats: []Format{
				audioFormat("251", "opus"),
			},
		},
		{
			name: "muxed stream with audio track",
			formats: []Format{
				func() Format {
					f := videoFormat("22", "mp4", "avc1.64001F")
					f.ACodec = "mp4a.40.2"
					return f
				}(),
			},
		},
		{
			name:    "empty list",
			formats: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			choice, err := SelectFormat(tt.formats)
			assert.Nil(t, choice)
			assert.ErrorIs(t, err, ErrNoFormatFound)
		})
	}
}

func TestSelectFormatAudioOnly(t *testing.T) {
	formats := []Format{
		audioFormat("139", "m4a"),
		audioFormat("140", "m4a"),
	}

	choice, err := SelectFormat(formats)
	require.NoError(t, err)

	assert.Equal(t, "140", choice.FormatID)
	assert.False(t, choice.HasVideo())
	assert.True(t, choice.HasAudio())
}

func TestSelectFormatVideoOnly(t *testing.T) {
	formats := []Format{
		videoFormat("137", "mp4", "avc1.640028"),
		videoFormat("299", "mp4", "avc1.64002a"),
	}

	choice, err := SelectFormat(formats)
	require.NoError(t, err)

	assert.Equal(t, "299", choice.FormatID)
	assert.True(t, choice.HasVideo())
	assert.False(t, choice.HasAudio())
}

func TestSelectFormatCaseInsensitive(t *testing.T) {
	f := videoFormat("137", "MP4", "AVC1.640028")
	f.VideoExt = "MP4"

	choice, err := SelectFormat([]Format{f})
	require.NoError(t, err)
	assert.Equal(t, "137", choice.FormatID)
}
