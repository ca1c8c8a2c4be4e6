package media

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/xpzouying/videogram/pkg/ffmpeg"
)

// splitSafetyMargin 切分时预留的余量。
// ffmpeg 的 -fs 不保证精确卡在目标大小，容器封装可能略微超出，
// 所以实际切分尺寸要比上限小一些。
const splitSafetyMargin int64 = 50 * 1024 * 1024

// muxingPacketError ffmpeg 在分段边界上的非致命报错，输出仍然可用。
const muxingPacketError = "Error muxing a packet"

// Splitter 把超过大小上限的视频切成若干可上传的分段。
type Splitter struct {
	tool   Transcoder
	covers *CoverResolver
}

func NewSplitter(tool Transcoder, covers *CoverResolver) *Splitter {
	return &Splitter{
		tool:   tool,
		covers: covers,
	}
}

// SplitBySize 按字节上限切分视频。
//
// 文件不超限时原样返回单条记录。切分采用流拷贝不重新编码，
// 每段实际时长用 ffprobe 回读，下一段从上一段的精确结束点开始。
// 单个分段失败只丢弃该分段，不中断整体切分。
func (s *Splitter) SplitBySize(ctx context.Context, rec *Record, limitBytes int64) ([]*Record, error) {
	info, err := os.Stat(rec.VideoPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat video file: %s", rec.VideoPath)
	}
	cover := s.covers.Resolve(ctx, rec.VideoPath)

	fileSize := info.Size()
	if fileSize <= limitBytes {
		return []*Record{rec}, nil
	}

	effective := limitBytes - splitSafetyMargin
	if effective <= 0 {
		effective = limitBytes
	}
	parts := fileSize/effective + 1
	logrus.Infof("video file size: %.1f MB, split size: %.1f MB",
		float64(fileSize)/1024/1024, float64(effective)/1024/1024)
	logrus.Infof("split video file: %s into %d parts", filepath.Base(rec.VideoPath), parts)

	ext := filepath.Ext(rec.VideoPath)
	stem := strings.TrimSuffix(rec.VideoPath, ext)

	results := make([]*Record, 0, parts)
	startTime := 0.0
	for idx := int64(0); idx < parts; idx++ {
		outPath := fmt.Sprintf("%s_%02d%s", stem, idx, ext)
		duration, ok := s.splitOne(ctx, rec.VideoPath, outPath, startTime, effective)
		if !ok {
			continue
		}
		startTime += duration

		segment := rec.Clone()
		segment.VideoPath = outPath
		segment.Duration = int(math.Round(duration))
		segment.Caption = fmt.Sprintf("%s-P%d", rec.Caption, idx+1)
		segment.Thumb = cover
		results = append(results, segment)
	}
	return results, nil
}

// splitOne 切出一段并回读其实际时长。
func (s *Splitter) splitOne(ctx context.Context, src, dst string, startTime float64, limitBytes int64) (float64, bool) {
	logrus.Debugf("split video: %s to %s at %.1fs", src, dst, startTime)
	if err := s.tool.Split(ctx, src, dst, startTime, limitBytes); err != nil {
		logrus.Errorf("failed to split video %s: %v", src, err)

		var ffErr *ffmpeg.Error
		if errors.As(err, &ffErr) && strings.Contains(ffErr.Message, muxingPacketError) {
			// 分段边界上的封装报错，产物可用
			logrus.Warnf("this is not a fatal error, continue to split the video")
		} else {
			return 0, false
		}
	}

	probe, err := s.tool.Probe(ctx, dst)
	if err != nil {
		logrus.Errorf("failed to probe split segment %s: %v", dst, err)
		return 0, false
	}
	duration, err := probe.Duration()
	if err != nil {
		logrus.Errorf("invalid duration for split segment %s: %v", dst, err)
		return 0, false
	}
	return duration, true
}
