package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xpzouying/videogram/configs"
)

// defaultCoverURL 默认封面图，首次使用时下载一次并缓存到配置目录。
const defaultCoverURL = "https://wsrv.nl/?url=github.com/edent/SuperTinyIcons/raw/master/images/svg/apple_music.svg&output=jpg"

// Fetcher 下载默认封面的能力，生产实现是 downloader.ImageDownloader。
type Fetcher interface {
	Fetch(ctx context.Context, url, dst string) error
}

// CoverResolver 为媒体文件定位或生成 JPG 封面。
//
// 按顺序尝试：同名 .jpg > 同名 .webp 转 JPG > 同名 .png 转 JPG >
// 视频第一帧 > 默认封面。Resolve 不会失败，最差也返回默认封面路径。
type CoverResolver struct {
	cfg     *configs.Config
	tool    Transcoder
	fetcher Fetcher
}

func NewCoverResolver(cfg *configs.Config, tool Transcoder, fetcher Fetcher) *CoverResolver {
	return &CoverResolver{
		cfg:     cfg,
		tool:    tool,
		fetcher: fetcher,
	}
}

// Resolve 返回 path 对应的封面路径。
// 可能在媒体文件旁边生成新的 .jpg 文件，也可能触发一次默认封面下载。
func (r *CoverResolver) Resolve(ctx context.Context, path string) string {
	logrus.Debugf("generate cover for: %s", path)

	jpgPath := withExt(path, ".jpg")
	if fileExists(jpgPath) {
		logrus.Debugf("jpg cover already exists: %s", jpgPath)
		return jpgPath
	}

	// 下载器通常会把封面和媒体文件放在一起，常见是 .webp
	for _, ext := range []string{".webp", ".png"} {
		sibling := withExt(path, ext)
		if !fileExists(sibling) {
			continue
		}
		logrus.Debugf("found %s cover image: %s, convert to jpg", ext, sibling)
		if err := r.tool.Convert(ctx, sibling, jpgPath); err != nil {
			logrus.Errorf("failed to convert %s cover to jpg: %v", sibling, err)
			logrus.Warnf("trying next method to generate jpg cover image")
			continue
		}
		return jpgPath
	}

	// 视频文件从第一帧抽封面
	if !IsAudioPath(path) {
		logrus.Debugf("no cover image found, generate from the first frame of %s", path)
		if err := r.tool.FirstFrame(ctx, path, jpgPath); err == nil {
			return jpgPath
		} else {
			logrus.Errorf("failed to extract first frame of %s: %v", path, err)
		}
	}

	return r.defaultCover(ctx)
}

// defaultCover 返回默认封面，不存在时下载一次并把路径写入配置。
func (r *CoverResolver) defaultCover(ctx context.Context) string {
	cover := r.cfg.GetOr(configs.KeyDefaultCover,
		filepath.Join(filepath.Dir(r.cfg.Path()), "default_cover.jpg"))
	logrus.Warnf("use default cover image: %s", cover)

	if fileExists(cover) {
		return cover
	}

	logrus.Debugf("downloading default cover image from: %s", defaultCoverURL)
	if err := r.fetcher.Fetch(ctx, defaultCoverURL, cover); err != nil {
		logrus.Errorf("failed to download default cover image: %v", err)
		return cover
	}

	r.cfg.Set(configs.KeyDefaultCover, cover)
	if err := r.cfg.Persist(); err != nil {
		logrus.Errorf("failed to persist default cover path: %v", err)
	}
	return cover
}

// withExt 替换路径的扩展名。
func withExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
