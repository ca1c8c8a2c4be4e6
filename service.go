package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xpzouying/videogram/configs"
	"github.com/xpzouying/videogram/cookies"
	"github.com/xpzouying/videogram/pkg/downloader"
	"github.com/xpzouying/videogram/pkg/ffmpeg"
	"github.com/xpzouying/videogram/pkg/media"
	"github.com/xpzouying/videogram/pkg/telegram"
	"github.com/xpzouying/videogram/pkg/ytdlp"
)

// UnsupportedInputError 不支持的站点或文件格式。
type UnsupportedInputError struct {
	Input string
}

func (e *UnsupportedInputError) Error() string {
	return fmt.Sprintf("unsupported input: %s", e.Input)
}

// VideogramService 同步管道的编排层：下载 -> 规范化 -> 切分 -> 上传 -> 清理。
// 所有步骤严格串行，一个条目失败会中断整个批次。
type VideogramService struct {
	cfg      *configs.Config
	engine   *ytdlp.Engine
	tool     *ffmpeg.Runner
	covers   *media.CoverResolver
	splitter *media.Splitter
}

// NewVideogramService 创建服务实例。
func NewVideogramService(cfg *configs.Config) *VideogramService {
	tool := ffmpeg.New()
	fetcher := downloader.NewImageDownloader(cfg.ProxyURL())
	covers := media.NewCoverResolver(cfg, tool, fetcher)

	return &VideogramService{
		cfg:      cfg,
		engine:   ytdlp.NewEngine(cfg),
		tool:     tool,
		covers:   covers,
		splitter: media.NewSplitter(tool, covers),
	}
}

// DownloadOptions 下载选项。
type DownloadOptions struct {
	SaveDir       string `json:"save_dir"`
	DownloadVideo bool   `json:"download_video"`
	SplitVideo    bool   `json:"split_video"`
	Playlist      bool   `json:"playlist"`
	UseCookie     bool   `json:"use_cookie"`
}

// DownloadResults 下载产物。
// AudioInfo 始终是逐条目的完整记录，VideoInfo 在切分后可能比条目数多。
type DownloadResults struct {
	VideoInfo []*media.Record `json:"video_info"`
	AudioInfo []*media.Record `json:"audio_info"`
}

// Download 下载 URL 指向的媒体并规范化成可上传的记录。
func (s *VideogramService) Download(ctx context.Context, rawURL string, opts DownloadOptions) (*DownloadResults, error) {
	logrus.Infof("download: %s", rawURL)

	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return nil, &UnsupportedInputError{Input: rawURL}
	}
	provider, ok := cookies.ProviderOf(u.Hostname())
	if !ok {
		logrus.Errorf("unsupported domain: %s", u.Hostname())
		return nil, &UnsupportedInputError{Input: u.Hostname()}
	}
	logrus.Infof("downloading from %s ...", provider)

	if opts.SaveDir == "" {
		opts.SaveDir = configs.DefaultSaveDir()
	}
	downloads, err := s.engine.Download(ctx, rawURL, ytdlp.Options{
		SaveDir:       opts.SaveDir,
		UseCookie:     opts.UseCookie,
		Playlist:      opts.Playlist,
		DownloadVideo: opts.DownloadVideo,
	})
	if err != nil {
		return nil, err
	}

	results := &DownloadResults{
		VideoInfo: []*media.Record{},
		AudioInfo: []*media.Record{},
	}
	for _, dl := range downloads {
		rec, err := ytdlp.StructInfo(ctx, dl, s.covers)
		if err != nil {
			return nil, err
		}
		results.AudioInfo = append(results.AudioInfo, rec)
	}

	switch {
	case opts.DownloadVideo && opts.SplitVideo:
		for _, rec := range results.AudioInfo {
			segments, err := s.splitter.SplitBySize(ctx, rec, s.cfg.MaxFileBytes())
			if err != nil {
				return nil, err
			}
			results.VideoInfo = append(results.VideoInfo, segments...)
		}
	case opts.DownloadVideo:
		results.VideoInfo = append(results.VideoInfo, results.AudioInfo...)
	}
	return results, nil
}

// Upload 上传一个本地文件到 Telegram。
// .mp4 按视频上传，音频扩展名按音频上传，其余一律拒绝。
func (s *VideogramService) Upload(ctx context.Context, path, link, targetID string, replyTo int) error {
	logrus.Debugf("uploading: %s", path)

	if _, err := os.Stat(path); err != nil {
		return &UnsupportedInputError{Input: path}
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".mp4" && !media.IsAudioExt(ext) {
		logrus.Errorf("unsupported file format: %s", ext)
		return &UnsupportedInputError{Input: ext}
	}

	client, err := telegram.NewClient(s.cfg)
	if err != nil {
		return err
	}
	target, err := telegram.ParseTarget(s.resolveTarget(targetID))
	if err != nil {
		return err
	}

	if ext == ".mp4" {
		rec, err := media.ParseLocalInfo(ctx, s.tool, s.covers, path, link, media.KindVideo)
		if err != nil {
			return err
		}
		_, err = client.SendVideo(rec, target, replyTo)
		return err
	}

	rec, err := media.ParseLocalInfo(ctx, s.tool, s.covers, path, link, media.KindAudio)
	if err != nil {
		return err
	}
	_, err = client.SendAudio(rec, target, replyTo)
	return err
}

// SyncOptions 同步选项。
type SyncOptions struct {
	TargetID  string `json:"telegram_target"`
	ReplyTo   int    `json:"reply_msg_id"`
	SaveDir   string `json:"save_dir"`
	SyncVideo bool   `json:"sync_video"`
	SyncAudio bool   `json:"sync_audio"`
	Clean     bool   `json:"clean"`
	Playlist  bool   `json:"playlist"`
	UseCookie bool   `json:"use_cookie"`
}

// SyncResults 同步产物，消息 ID 来自 Telegram 的响应。
type SyncResults struct {
	VideoInfo     []*media.Record `json:"video_info"`
	AudioInfo     []*media.Record `json:"audio_info"`
	VideoMessages []int           `json:"video_messages"`
	AudioMessages []int           `json:"audio_messages"`
}

// Sync 下载并上传到 Telegram，一条龙。
func (s *VideogramService) Sync(ctx context.Context, rawURL string, opts SyncOptions) (*SyncResults, error) {
	logrus.Infof("sync: %s", rawURL)

	targetID := s.resolveTarget(opts.TargetID)
	target, err := telegram.ParseTarget(targetID)
	if err != nil {
		return nil, err
	}
	client, err := telegram.NewClient(s.cfg)
	if err != nil {
		return nil, err
	}

	if opts.SaveDir == "" {
		opts.SaveDir = configs.DefaultSaveDir()
	}
	downloaded, err := s.Download(ctx, rawURL, DownloadOptions{
		SaveDir:       opts.SaveDir,
		DownloadVideo: opts.SyncVideo,
		SplitVideo:    true,
		Playlist:      opts.Playlist,
		UseCookie:     opts.UseCookie,
	})
	if err != nil {
		return nil, err
	}

	results := &SyncResults{
		VideoInfo:     downloaded.VideoInfo,
		AudioInfo:     downloaded.AudioInfo,
		VideoMessages: []int{},
		AudioMessages: []int{},
	}
	logrus.Infof("uploading to telegram chat: %s", targetID)
	if opts.SyncVideo {
		for idx, rec := range results.VideoInfo {
			logrus.Infof("uploading video %d/%d", idx+1, len(results.VideoInfo))
			msg, err := client.SendVideo(rec, target, opts.ReplyTo)
			if err != nil {
				return nil, err
			}
			results.VideoMessages = append(results.VideoMessages, msg.MessageID)
		}
	}
	if opts.SyncAudio {
		for idx, rec := range results.AudioInfo {
			logrus.Infof("uploading audio %d/%d", idx+1, len(results.AudioInfo))
			msg, err := client.SendAudio(rec, target, opts.ReplyTo)
			if err != nil {
				return nil, err
			}
			results.AudioMessages = append(results.AudioMessages, msg.MessageID)
		}
	}

	if opts.Clean {
		logrus.Info("clean up downloaded files")
		s.cleanup(opts.SaveDir, results.AudioInfo)
	}
	return results, nil
}

// resolveTarget 参数优先，否则回落到配置里的默认会话。
func (s *VideogramService) resolveTarget(targetID string) string {
	if targetID != "" {
		return targetID
	}
	return s.cfg.Get(configs.KeyTelegramTarget)
}

// cleanup 删除下载产物。媒体文件、封面、分段、音频别名共享同一个
// 文件名前缀（封面的无扩展名部分），按前缀清理即可全部覆盖。
func (s *VideogramService) cleanup(saveDir string, records []*media.Record) {
	prefixes := make(map[string]struct{})
	for _, rec := range records {
		if rec.Thumb == "" {
			continue
		}
		stem := strings.TrimSuffix(filepath.Base(rec.Thumb), filepath.Ext(rec.Thumb))
		if stem != "" {
			prefixes[stem] = struct{}{}
		}
	}

	entries, err := os.ReadDir(saveDir)
	if err != nil {
		logrus.Warnf("failed to list save directory %s: %v", saveDir, err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		for prefix := range prefixes {
			if strings.HasPrefix(entry.Name(), prefix) {
				path := filepath.Join(saveDir, entry.Name())
				if err := os.Remove(path); err != nil {
					logrus.Warnf("failed to delete %s: %v", path, err)
				}
				break
			}
		}
	}
}
