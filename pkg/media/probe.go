package media

import (
	"context"
	"math"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Kind 本地文件按扩展名归类出的媒体类型。
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

// KindOf 根据扩展名判断媒体类型。
func KindOf(path string) Kind {
	if IsAudioPath(path) {
		return KindAudio
	}
	return KindVideo
}

// ParseLocalInfo 直接探测一个本地媒体文件，生成可上传的 Record。
// 与下载产物走同一套字段约定，缺少必要的流信息时返回 MissingFieldError。
func ParseLocalInfo(ctx context.Context, tool Transcoder, covers *CoverResolver, path, link string, kind Kind) (*Record, error) {
	probe, err := tool.Probe(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to probe media file: %s", path)
	}

	var missing []string
	if len(probe.Streams) == 0 {
		missing = append(missing, "streams")
	} else if probe.Streams[0].Duration == "" {
		missing = append(missing, "duration")
	}
	if len(missing) > 0 {
		return nil, &MissingFieldError{Fields: missing}
	}

	duration, err := probe.Duration()
	if err != nil {
		return nil, errors.Wrapf(err, "invalid duration for: %s", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve path: %s", path)
	}

	var width, height int
	if kind == KindVideo {
		width, height = probe.Dimensions()
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	thumb := covers.Resolve(ctx, abs)
	if thumbAbs, err := filepath.Abs(thumb); err == nil {
		thumb = thumbAbs
	}

	logrus.Debugf("parsed local media info: %s (%s)", stem, kind)
	return &Record{
		Title:     stem,
		VideoPath: abs,
		AudioPath: abs,
		Caption:   BuildCaption(stem, link),
		Uploader:  "",
		Duration:  int(math.Round(duration)),
		Width:     width,
		Height:    height,
		Thumb:     thumb,
	}, nil
}
