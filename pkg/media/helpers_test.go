package media

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xpzouying/videogram/configs"
	"github.com/xpzouying/videogram/pkg/ffmpeg"
)

func rawJSON(fields ...string) map[string]json.RawMessage {
	raw := make(map[string]json.RawMessage, len(fields))
	for _, f := range fields {
		raw[f] = json.RawMessage(`""`)
	}
	return raw
}

func newTestConfig(t *testing.T) *configs.Config {
	t.Helper()
	cfg, err := configs.LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	return cfg
}

// fakeTool 可编排的 Transcoder 桩实现。
type fakeTool struct {
	convertErr    error
	firstFrameErr error

	// splitErrs 按调用序号注入 Split 错误，splitWritesOnErr 控制出错时是否仍产出文件
	splitErrs        map[int]error
	splitWritesOnErr bool
	splitCalls       []float64

	probeResult *ffmpeg.ProbeResult
	probeErr    error

	convertCalls    []string
	firstFrameCalls []string
}

func (f *fakeTool) Convert(ctx context.Context, src, dst string) error {
	f.convertCalls = append(f.convertCalls, src)
	if f.convertErr != nil {
		return f.convertErr
	}
	return os.WriteFile(dst, []byte("jpg"), 0644)
}

func (f *fakeTool) FirstFrame(ctx context.Context, src, dst string) error {
	f.firstFrameCalls = append(f.firstFrameCalls, src)
	if f.firstFrameErr != nil {
		return f.firstFrameErr
	}
	return os.WriteFile(dst, []byte("jpg"), 0644)
}

func (f *fakeTool) Split(ctx context.Context, src, dst string, startSec float64, limitBytes int64) error {
	call := len(f.splitCalls)
	f.splitCalls = append(f.splitCalls, startSec)
	if err, ok := f.splitErrs[call]; ok {
		if f.splitWritesOnErr {
			_ = os.WriteFile(dst, []byte("seg"), 0644)
		}
		return err
	}
	return os.WriteFile(dst, []byte("seg"), 0644)
}

func (f *fakeTool) Probe(ctx context.Context, path string) (*ffmpeg.ProbeResult, error) {
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	if f.probeResult != nil {
		return f.probeResult, nil
	}
	return &ffmpeg.ProbeResult{
		Streams: []ffmpeg.Stream{{CodecType: "video", Duration: "10.000000"}},
	}, nil
}

// fakeFetcher 记录下载次数的 Fetcher 桩实现。
type fakeFetcher struct {
	calls int
	err   error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url, dst string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return os.WriteFile(dst, []byte("cover"), 0644)
}
