package ytdlp

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xpzouying/videogram/pkg/media"
)

// requiredInfoFields 规范化下载产物前必须存在的元数据字段。
var requiredInfoFields = []string{"title", "upload_date", "webpage_url", "duration"}

// StructInfo 把一次下载的产物规范化成可上传的 Record。
func StructInfo(ctx context.Context, res *DownloadResult, covers *media.CoverResolver) (*media.Record, error) {
	info := res.Info
	if err := media.CheckRequiredFields(info.Raw, requiredInfoFields...); err != nil {
		logrus.Errorf("invalid download info for %s: %v", info.WebpageURL, err)
		return nil, err
	}

	// 清掉 URL 上的跟踪参数
	removeURLTracking(info)

	videoPath := videoFilePath(res)
	audioPath := audioFilePath(res)

	uploader := info.Uploader
	if uploader == "" {
		switch {
		case info.Series != "":
			uploader = info.Series
		case info.Extractor != "":
			uploader = info.Extractor
		default:
			uploader = "Unknown"
		}
	}

	var width, height int
	coverSource := audioPath
	if videoPath != "" {
		coverSource = videoPath
		if res.Choice != nil && res.Choice.HasVideo() {
			width = res.Choice.Video.Width
			height = res.Choice.Video.Height
		}
	}
	thumb := covers.Resolve(ctx, coverSource)

	caption := fmt.Sprintf("%s\n#%s #%s",
		media.BuildCaption(info.Title, info.WebpageURL),
		media.CompactUploader(uploader),
		info.UploadDate)

	return &media.Record{
		Title:     info.Title,
		VideoPath: absOrEmpty(videoPath),
		AudioPath: absOrEmpty(audioPath),
		Caption:   caption,
		Uploader:  uploader,
		Duration:  int(math.Round(info.Duration)),
		Width:     width,
		Height:    height,
		Thumb:     absOrEmpty(thumb),
	}, nil
}

// videoFilePath 下载产物本身就是视频容器时直接用它。
func videoFilePath(res *DownloadResult) string {
	if !media.IsAudioPath(res.Filepath) {
		logrus.Infof("use video filepath: %s", res.Filepath)
		return res.Filepath
	}
	logrus.Warnf("not a valid video format: %s", res.Filepath)
	return ""
}

// audioFilePath 定位音频文件。
//
// 纯音频下载时落盘文件就是音频。视频+音频合并下载时，--keep-video
// 会把音频基本流留在旁边，文件名里带着 format id；这里按选中的音频
// 格式拼出这个文件名，并给它建一个不带 format id 的稳定别名（symlink），
// 方便下游用可预测的文件名引用。找不到唯一候选时只告警，不算错误。
func audioFilePath(res *DownloadResult) string {
	if media.IsAudioPath(res.Filepath) {
		logrus.Infof("use audio filepath: %s", res.Filepath)
		return res.Filepath
	}

	if res.Choice == nil || !res.Choice.HasAudio() || !media.IsAudioExt("."+res.Choice.Audio.AudioExt) {
		logrus.Warnf("no audio file found")
		return ""
	}

	audio := res.Choice.Audio
	base := strings.TrimSuffix(res.Filepath, filepath.Ext(res.Filepath))
	audioPath := fmt.Sprintf("%s.f%s.%s", base, audio.FormatID, audio.AudioExt)
	if _, err := os.Stat(audioPath); err != nil {
		logrus.Warnf("no audio file found")
		return ""
	}
	logrus.Debugf("found audio filepath: %s", audioPath)

	alias := fmt.Sprintf("%s.%s", base, audio.AudioExt)
	if err := os.Remove(alias); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("failed to remove stale audio alias %s: %v", alias, err)
	}
	if err := os.Symlink(audioPath, alias); err != nil {
		logrus.Warnf("failed to symlink audio file: %v", err)
		return audioPath
	}
	logrus.Infof("symlink %s file to: %s", audio.AudioExt, filepath.Base(alias))
	return alias
}

// removeURLTracking 重写 Bilibili 的 webpage_url，去掉跟踪用的分 P 后缀。
// display_id 形如 "BV123_p2" 表示多 P 视频的第 2 个分 P，p=1 是冗余的。
func removeURLTracking(info *Info) {
	if info.Extractor != "BiliBili" {
		return
	}
	bid := info.WebpageURLBasename
	if strings.Contains(info.DisplayID, "_p") {
		parts := strings.Split(info.DisplayID, "_p")
		pid := parts[len(parts)-1]
		bid = strings.TrimSuffix(fmt.Sprintf("%s?p=%s", bid, pid), "?p=1")
	}
	info.WebpageURL = fmt.Sprintf("https://www.bilibili.com/video/%s", bid)
}

func absOrEmpty(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
