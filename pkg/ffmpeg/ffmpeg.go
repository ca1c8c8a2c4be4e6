package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Runner 对外部 ffmpeg / ffprobe 二进制的薄封装。
// 所有调用都是阻塞的子进程调用，由上层串行使用。
type Runner struct {
	ffmpegBin  string
	ffprobeBin string
}

func New() *Runner {
	return &Runner{
		ffmpegBin:  "ffmpeg",
		ffprobeBin: "ffprobe",
	}
}

// Error ffmpeg / ffprobe 执行失败，Message 携带 stderr 诊断信息。
type Error struct {
	Bin     string
	Args    []string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Bin, e.Message)
}

func (r *Runner) run(ctx context.Context, bin string, args []string) ([]byte, error) {
	logrus.Debugf("exec: %s %s", bin, strings.Join(args, " "))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return stdout.Bytes(), &Error{Bin: bin, Args: args, Message: msg}
	}
	return stdout.Bytes(), nil
}

// Convert 把 src 转换为 dst，格式由扩展名决定（webp/png 封面转 jpg 用）。
func (r *Runner) Convert(ctx context.Context, src, dst string) error {
	_, err := r.run(ctx, r.ffmpegBin, convertArgs(src, dst))
	return err
}

// FirstFrame 抽取 src 的第一帧写入 dst。
func (r *Runner) FirstFrame(ctx context.Context, src, dst string) error {
	_, err := r.run(ctx, r.ffmpegBin, firstFrameArgs(src, dst))
	return err
}

// Split 从 startSec 开始切出一段，音视频流原样拷贝，输出大小不超过 limitBytes。
func (r *Runner) Split(ctx context.Context, src, dst string, startSec float64, limitBytes int64) error {
	_, err := r.run(ctx, r.ffmpegBin, splitArgs(src, dst, startSec, limitBytes))
	return err
}

// Probe 调 ffprobe 返回结构化的流信息。
func (r *Runner) Probe(ctx context.Context, path string) (*ProbeResult, error) {
	out, err := r.run(ctx, r.ffprobeBin, probeArgs(path))
	if err != nil {
		return nil, err
	}
	var result ProbeResult
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, errors.Wrapf(err, "failed to parse ffprobe output for: %s", path)
	}
	return &result, nil
}

func convertArgs(src, dst string) []string {
	return []string{"-y", "-loglevel", "warning", "-i", src, dst}
}

func firstFrameArgs(src, dst string) []string {
	return []string{"-y", "-loglevel", "warning", "-i", src, "-vframes", "1", dst}
}

func splitArgs(src, dst string, startSec float64, limitBytes int64) []string {
	// -ss 用毫秒精度放在 -i 之前，配合流拷贝做快速 seek
	return []string{
		"-y", "-loglevel", "warning",
		"-ss", fmt.Sprintf("%.0fms", startSec*1000),
		"-i", src,
		"-acodec", "copy",
		"-vcodec", "copy",
		"-fs", strconv.FormatInt(limitBytes, 10),
		dst,
	}
}

func probeArgs(path string) []string {
	return []string{"-print_format", "json", "-show_streams", path}
}
