package ffmpeg

import (
	"strconv"

	"github.com/pkg/errors"
)

// Stream ffprobe 输出的单个流。
// ffprobe 的 JSON 里 duration 是字符串，宽高只有视频流才有。
type Stream struct {
	CodecType string `json:"codec_type"`
	Duration  string `json:"duration"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// ProbeResult ffprobe -show_streams 的结构化结果。
type ProbeResult struct {
	Streams []Stream `json:"streams"`
}

// Duration 第一个流的时长（秒）。
func (p *ProbeResult) Duration() (float64, error) {
	if len(p.Streams) == 0 {
		return 0, errors.New("no streams found")
	}
	raw := p.Streams[0].Duration
	if raw == "" {
		return 0, errors.New("stream has no duration")
	}
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid stream duration: %s", raw)
	}
	return d, nil
}

// Dimensions 返回第一个带宽度的流的宽和第一个带高度的流的高。
func (p *ProbeResult) Dimensions() (width, height int) {
	for _, s := range p.Streams {
		if s.Width > 0 {
			width = s.Width
			break
		}
	}
	for _, s := range p.Streams {
		if s.Height > 0 {
			height = s.Height
			break
		}
	}
	return width, height
}
