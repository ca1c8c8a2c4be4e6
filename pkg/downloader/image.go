package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/h2non/filetype"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ImageDownloader 图片下载器，用于获取默认封面图。
type ImageDownloader struct {
	httpClient *http.Client
}

// NewImageDownloader 创建图片下载器，proxyURL 为 nil 时直连。
func NewImageDownloader(proxyURL *url.URL) *ImageDownloader {
	transport := &http.Transport{}
	if proxyURL != nil {
		transport.Proxy = http.ProxyURL(proxyURL)
	}
	return &ImageDownloader{
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// Fetch 下载图片并写入 dst。
// 下载失败会重试几次，写盘前校验确实是图片格式。
func (d *ImageDownloader) Fetch(ctx context.Context, imageURL, dst string) error {
	var data []byte
	err := retry.Do(
		func() error {
			var fetchErr error
			data, fetchErr = d.fetch(ctx, imageURL)
			return fetchErr
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.OnRetry(func(n uint, err error) {
			logrus.Warnf("retry %d to download image %s: %v", n+1, imageURL, err)
		}),
	)
	if err != nil {
		return err
	}

	if !filetype.IsImage(data) {
		return errors.Errorf("downloaded file is not a valid image: %s", imageURL)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrap(err, "failed to create image directory")
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to save image to %s", dst)
	}
	return nil
}

func (d *ImageDownloader) fetch(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to download image from %s", imageURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed with status %d for URL: %s", resp.StatusCode, imageURL)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read image data")
	}
	return data, nil
}
