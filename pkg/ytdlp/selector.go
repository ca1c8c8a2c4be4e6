package ytdlp

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrNoFormatFound 没有任何兼容的音视频格式。
var ErrNoFormatFound = errors.New("no compatible video and audio format found")

// 优先选择的 YouTube 格式：299 是 1080p60 AVC，140 是 128k m4a。
const (
	preferredVideoID = "299"
	preferredAudioID = "140"
)

// FormatChoice 格式选择结果。Video / Audio 至少有一个非空。
type FormatChoice struct {
	FormatID string
	Ext      string
	Protocol string
	Video    *Format
	Audio    *Format
}

func (c *FormatChoice) HasVideo() bool { return c.Video != nil }
func (c *FormatChoice) HasAudio() bool { return c.Audio != nil }

// SelectFormat 从 yt-dlp 给出的格式列表里挑出最佳的兼容组合。
//
// 为了最大的播放兼容性，视频只接受 mp4 容器里的 AVC 纯视频流
// （VP9 在 iOS 上没有解码支持），音频只接受 m4a。
// 输入列表按 yt-dlp 约定从差到好排序，这里先反转成从好到差再找。
// 纯函数，不做任何 IO。
func SelectFormat(formats []Format) (*FormatChoice, error) {
	reversed := make([]Format, 0, len(formats))
	for i := len(formats) - 1; i >= 0; i-- {
		reversed = append(reversed, formats[i])
	}
	logrus.Tracef("choose best format from %d extracted formats", len(reversed))

	var allVideos, allAudios []Format
	for _, f := range reversed {
		if strings.ToLower(f.VideoExt) != "none" {
			allVideos = append(allVideos, f)
		}
		if strings.ToLower(f.AudioExt) != "none" {
			allAudios = append(allAudios, f)
		}
	}

	// acodec 为 none 说明该流只带视频
	var videos []Format
	for _, f := range allVideos {
		if strings.ToLower(f.VideoExt) == "mp4" &&
			strings.ToLower(f.ACodec) == "none" &&
			strings.HasPrefix(strings.ToLower(f.VCodec), "avc") {
			videos = append(videos, f)
		}
	}
	var audios []Format
	for _, f := range allAudios {
		if strings.ToLower(f.Resolution) == "audio only" &&
			strings.ToLower(f.AudioExt) == "m4a" {
			audios = append(audios, f)
		}
	}
	logrus.Tracef("found %d compatible video formats", len(videos))
	logrus.Tracef("found %d compatible audio formats", len(audios))

	switch {
	case len(videos) == 0 && len(audios) == 0:
		return nil, ErrNoFormatFound

	case len(videos) == 0:
		best := audios[0]
		logrus.Debugf("use audio format: %s", best.Format)
		return &FormatChoice{
			FormatID: best.FormatID,
			Ext:      best.Ext,
			Protocol: best.Protocol,
			Audio:    &best,
		}, nil

	case len(audios) == 0:
		best := videos[0]
		logrus.Debugf("use video format: %s", best.Format)
		return &FormatChoice{
			FormatID: best.FormatID,
			Ext:      best.Ext,
			Protocol: best.Protocol,
			Video:    &best,
		}, nil

	default:
		bestVideo := pickPreferred(videos, preferredVideoID)
		bestAudio := pickPreferred(audios, preferredAudioID)
		logrus.Debugf("use video format: %s", bestVideo.Format)
		logrus.Debugf("use audio format: %s", bestAudio.Format)
		return &FormatChoice{
			FormatID: fmt.Sprintf("%s+%s", bestVideo.FormatID, bestAudio.FormatID),
			Ext:      bestVideo.Ext,
			Protocol: fmt.Sprintf("%s+%s", bestVideo.Protocol, bestAudio.Protocol),
			Video:    &bestVideo,
			Audio:    &bestAudio,
		}, nil
	}
}

// pickPreferred 列表里有指定 format_id 就用它，否则取第一个（最佳）。
func pickPreferred(formats []Format, preferredID string) Format {
	for _, f := range formats {
		if f.FormatID == preferredID {
			return f
		}
	}
	return formats[0]
}
