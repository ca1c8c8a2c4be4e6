package cookies

import (
	"net/url"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// providerDomains 站点域名到 provider 的归类。
// 同一 provider 的所有域名共用一份 cookie 文件。
var providerDomains = map[string][]string{
	"youtube":  {"www.youtube.com", "m.youtube.com", "youtu.be"},
	"bilibili": {"www.bilibili.com", "m.bilibili.com", "b23.tv"},
}

// ProviderOf 根据域名返回所属 provider。
func ProviderOf(host string) (string, bool) {
	for provider, domains := range providerDomains {
		for _, d := range domains {
			if d == host {
				return provider, true
			}
		}
	}
	return "", false
}

// IsSupported 判断该 URL 是否属于支持的站点。
func IsSupported(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return false
	}
	_, ok := ProviderOf(u.Hostname())
	return ok
}

// FilePath 解析该 URL 对应的 cookie 文件路径（Netscape 格式，直接喂给 yt-dlp）。
// 已知 provider 用 provider 名命名，其余站点退化为按域名命名。
func FilePath(dir, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrapf(err, "invalid url: %s", rawURL)
	}
	host := u.Hostname()
	if host == "" {
		return "", errors.Errorf("invalid url: %s", rawURL)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, "failed to create cookies directory")
	}

	name := host + ".txt"
	if provider, ok := ProviderOf(host); ok {
		name = provider + ".txt"
	}
	return filepath.Join(dir, name), nil
}

type Cookier interface {
	LoadCookies() ([]byte, error)
	SaveCookies(data []byte) error
	DeleteCookies() error
}

type localCookie struct {
	path string
}

func NewLocalCookie(path string) Cookier {
	if path == "" {
		panic("path is required")
	}

	return &localCookie{
		path: path,
	}
}

// LoadCookies 从文件中加载 cookies。
func (c *localCookie) LoadCookies() ([]byte, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read cookies file")
	}

	return data, nil
}

// SaveCookies 保存 cookies 到文件中。
func (c *localCookie) SaveCookies(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return errors.Wrap(err, "failed to create cookies directory")
	}
	return os.WriteFile(c.path, data, 0644)
}

// DeleteCookies 删除 cookies 文件。
func (c *localCookie) DeleteCookies() error {
	if _, err := os.Stat(c.path); os.IsNotExist(err) {
		// 文件不存在，返回 nil（认为已经删除）
		return nil
	}
	return os.Remove(c.path)
}
