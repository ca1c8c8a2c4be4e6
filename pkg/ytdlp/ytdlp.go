package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/xpzouying/videogram/configs"
	"github.com/xpzouying/videogram/cookies"
)

// audioOnlyFormat 不要视频时交给 yt-dlp 的格式表达式。
const audioOnlyFormat = "m4a/bestaudio/best"

// Error yt-dlp 执行失败，Message 携带 stderr 诊断信息。
type Error struct {
	URL     string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("yt-dlp failed for %s: %s", e.URL, e.Message)
}

// Engine 对外部 yt-dlp 二进制的封装。
// 格式选择在 Go 侧完成（SelectFormat），选择结果通过 -f 传给 yt-dlp。
type Engine struct {
	cfg *configs.Config
	bin string
}

func NewEngine(cfg *configs.Config) *Engine {
	return &Engine{
		cfg: cfg,
		bin: "yt-dlp",
	}
}

// Options 单次提取 / 下载的选项。
type Options struct {
	SaveDir       string
	UseCookie     bool
	Playlist      bool
	DownloadVideo bool
}

// ExtractInfo 提取 URL 的元数据，不下载。
// 播放列表会展开成逐条的 Info，顺序与源顺序一致。
func (e *Engine) ExtractInfo(ctx context.Context, url string, opts Options) ([]*Info, error) {
	args := e.commonArgs(url, opts.UseCookie)
	args = append(args, "-J")
	if !opts.Playlist {
		args = append(args, "--no-playlist")
	}
	args = append(args, url)

	out, err := e.run(ctx, url, args)
	if err != nil {
		return nil, err
	}

	var info Info
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, errors.Wrapf(err, "failed to parse yt-dlp output for: %s", url)
	}

	if !opts.Playlist || !info.IsPlaylist() {
		logrus.Infof("extracted info for: %s", info.Title)
		return []*Info{&info}, nil
	}

	entries := flattenEntries(&info)
	logrus.Infof("found %d entries in playlist", len(entries))

	// 播放列表条目逐条重新解析，拿到完整的 formats 列表
	results := make([]*Info, 0, len(entries))
	for _, entry := range entries {
		entryURL := entry.WebpageURL
		if entryURL == "" {
			entryURL = entry.URL
		}
		single, err := e.ExtractInfo(ctx, entryURL, Options{
			UseCookie:     opts.UseCookie,
			DownloadVideo: opts.DownloadVideo,
		})
		if err != nil {
			return nil, err
		}
		results = append(results, single...)
	}
	return results, nil
}

// flattenEntries 展开可能嵌套的播放列表条目。
func flattenEntries(info *Info) []*Info {
	var entries []*Info
	for _, entry := range info.Entries {
		if entry.IsPlaylist() || len(entry.Entries) > 0 {
			entries = append(entries, flattenEntries(entry)...)
		} else {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Download 下载 URL 指向的媒体，播放列表逐条顺序下载。
func (e *Engine) Download(ctx context.Context, url string, opts Options) ([]*DownloadResult, error) {
	logrus.Debugf("downloading %s to %s", url, opts.SaveDir)
	if err := os.MkdirAll(opts.SaveDir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create save directory")
	}

	infos, err := e.ExtractInfo(ctx, url, opts)
	if err != nil {
		return nil, err
	}

	results := make([]*DownloadResult, 0, len(infos))
	for _, info := range infos {
		result, err := e.downloadOne(ctx, info, opts)
		if err != nil {
			return nil, err
		}
		logrus.Infof("downloaded to: %s", result.Filepath)
		results = append(results, result)
	}
	return results, nil
}

// downloadOne 下载单个条目：先在 formats 上跑格式选择，再把结果交给 yt-dlp。
func (e *Engine) downloadOne(ctx context.Context, info *Info, opts Options) (*DownloadResult, error) {
	formatSpec := audioOnlyFormat
	var choice *FormatChoice
	if opts.DownloadVideo {
		var err error
		choice, err = SelectFormat(info.Formats)
		if err != nil {
			logrus.Errorf("no format found for: %s", info.WebpageURL)
			return nil, err
		}
		formatSpec = choice.FormatID
	}

	args := e.commonArgs(info.WebpageURL, opts.UseCookie)
	args = append(args,
		"-f", formatSpec,
		"--paths", opts.SaveDir,
		"--output", "%(title)s.%(ext)s",
		"--write-thumbnail",
		"--keep-video",
		"--trim-filenames", "60", // 文件系统对文件名有 255 字节限制
		"--live-from-start",
		"--no-simulate",
		"--print", "after_move:filepath",
		info.WebpageURL,
	)

	out, err := e.run(ctx, info.WebpageURL, args)
	if err != nil {
		return nil, err
	}

	filepath := lastLine(out)
	if filepath == "" {
		return nil, &Error{URL: info.WebpageURL, Message: "yt-dlp did not report a downloaded file"}
	}
	return &DownloadResult{
		Info:     info,
		Choice:   choice,
		Filepath: filepath,
	}, nil
}

// commonArgs 提取和下载共用的参数，对齐站点限制和网络环境。
func (e *Engine) commonArgs(url string, useCookie bool) []string {
	args := []string{
		"--retries", "50",
		"--force-ipv4",
		"--no-check-certificates",
		"--extractor-args", fmt.Sprintf("youtube:lang=%s", e.cfg.GetOr(configs.KeyYoutubeLang, "en")),
	}
	if proxy := e.cfg.Get(configs.KeyProxy); proxy != "" {
		args = append(args, "--proxy", proxy)
	}
	if useCookie {
		cookieFile, err := cookies.FilePath(e.cfg.Get(configs.KeyCookiesDir), url)
		if err != nil {
			logrus.Warnf("failed to resolve cookie file for %s: %v", url, err)
		} else if _, statErr := os.Stat(cookieFile); statErr == nil {
			logrus.Debugf("use cookie file: %s", cookieFile)
			args = append(args, "--cookies", cookieFile)
		}
	}
	return args
}

func (e *Engine) run(ctx context.Context, url string, args []string) ([]byte, error) {
	logrus.Debugf("exec: %s %s", e.bin, strings.Join(args, " "))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		logrus.Errorf("yt-dlp failed for url: %s", url)
		logrus.Errorf("yt-dlp error message: %s", msg)
		return nil, &Error{URL: url, Message: msg}
	}
	return stdout.Bytes(), nil
}

func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
