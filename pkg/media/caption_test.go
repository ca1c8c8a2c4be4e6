package media

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestBuildCaption(t *testing.T) {
	assert.Equal(t, "[title](https://example.com)", BuildCaption("title", "https://example.com"))
	assert.Equal(t, "title", BuildCaption("title", ""))
}

func TestBuildCaptionTruncates(t *testing.T) {
	long := strings.Repeat("标题", 600)

	caption := BuildCaption(long, "https://example.com")

	assert.LessOrEqual(t, runewidth.StringWidth(caption), captionMaxWidth)
	assert.True(t, strings.HasSuffix(caption, "…"))
}

func TestCompactUploader(t *testing.T) {
	tests := []struct {
		uploader string
		want     string
	}{
		{"Foo Bar", "Foo_Bar"},
		{"Foo Bar.Baz-Qux/X", "Foo_Bar_Baz_Qux_X"},
		{"  trimmed  ", "trimmed"},
		{"简单", "简单"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CompactUploader(tt.uploader))
	}
}

func TestCheckRequiredFields(t *testing.T) {
	raw := rawJSON("title", "webpage_url")

	assert.NoError(t, CheckRequiredFields(raw, "title", "webpage_url"))

	err := CheckRequiredFields(raw, "title", "upload_date", "duration")
	var missingErr *MissingFieldError
	assert.ErrorAs(t, err, &missingErr)
	assert.Equal(t, []string{"upload_date", "duration"}, missingErr.Fields)
	assert.Equal(t, "required fields not found: upload_date, duration", err.Error())
}

func TestIsAudioExt(t *testing.T) {
	assert.True(t, IsAudioExt(".m4a"))
	assert.True(t, IsAudioExt(".FLAC"))
	assert.False(t, IsAudioExt(".mp4"))
	assert.False(t, IsAudioExt("m4a"))

	assert.True(t, IsAudioPath("/tmp/song.mp3"))
	assert.False(t, IsAudioPath("/tmp/clip.mp4"))
	assert.Equal(t, KindAudio, KindOf("/tmp/song.mp3"))
	assert.Equal(t, KindVideo, KindOf("/tmp/clip.mp4"))
}

func TestRecordClone(t *testing.T) {
	rec := &Record{Title: "t", Caption: "c", Duration: 10}

	clone := rec.Clone()
	clone.Caption = "c-P1"
	clone.Duration = 5

	assert.Equal(t, "c", rec.Caption)
	assert.Equal(t, 10, rec.Duration)
	assert.Equal(t, "t", clone.Title)
}
