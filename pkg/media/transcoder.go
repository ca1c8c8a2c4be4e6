package media

import (
	"context"

	"github.com/xpzouying/videogram/pkg/ffmpeg"
)

// Transcoder 外部转码工具的能力集，生产实现是 *ffmpeg.Runner。
type Transcoder interface {
	Convert(ctx context.Context, src, dst string) error
	FirstFrame(ctx context.Context, src, dst string) error
	Split(ctx context.Context, src, dst string, startSec float64, limitBytes int64) error
	Probe(ctx context.Context, path string) (*ffmpeg.ProbeResult, error)
}
