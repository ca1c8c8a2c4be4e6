package configs

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// 配置键，沿用 VIDEOGRAM_ 前缀的环境变量命名，文件和环境变量使用同一套键。
const (
	KeyLogLevel       = "VIDEOGRAM_LOG_LEVEL"
	KeyDefaultCover   = "VIDEOGRAM_DEFAULT_COVER"
	KeyProxy          = "VIDEOGRAM_PROXY"
	KeyCookiesDir     = "VIDEOGRAM_COOKIES_DIR"
	KeyYoutubeLang    = "VIDEOGRAM_YT_LANG"
	KeyTelegramToken  = "VIDEOGRAM_TG_BOT_TOKEN"
	KeyTelegramTarget = "VIDEOGRAM_TG_TARGET_ID"
	KeyMaxFileBytes   = "VIDEOGRAM_TG_MAX_FILE_BYTES"
)

const (
	envPrefix  = "VIDEOGRAM_"
	envPathKey = "VIDEOGRAM_CONFIG_FILE"

	// DefaultMaxFileBytes Telegram 单个文件的大小上限，默认 2000MB。
	DefaultMaxFileBytes = "2097152000"
)

// proxyEnvVars 未配置代理时按顺序探测的环境变量。
var proxyEnvVars = []string{"http_proxy", "https_proxy", "all_proxy", "HTTP_PROXY", "HTTPS_PROXY", "ALL_PROXY"}

// Config 进程内唯一的配置对象。
// 所有修改只改内存，调用 Persist 时整个文件覆盖写回。
type Config struct {
	path   string
	values map[string]string
}

// Path 解析配置文件路径。
// 优先级：VIDEOGRAM_CONFIG_FILE > XDG_CONFIG_HOME > ~/.config
func Path() string {
	if p := os.Getenv(envPathKey); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "videogram", "config.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// 没有 HOME 的环境（比如容器）退回当前目录
		return "config.json"
	}
	return filepath.Join(home, ".config", "videogram", "config.json")
}

// Load 加载配置：默认值 <- 配置文件 <- VIDEOGRAM_ 环境变量。
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom 从指定路径加载配置，文件不存在时用默认值创建。
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{
		path:   path,
		values: defaultValues(path),
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logrus.Warnf("config file not found, create a default one at %s", path)
		if err := cfg.Persist(); err != nil {
			return nil, err
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read config file: %s", path)
		}
		fileValues := make(map[string]string)
		if err := json.Unmarshal(data, &fileValues); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config file: %s", path)
		}
		for k, v := range fileValues {
			cfg.values[k] = v
		}
	}

	// 环境变量覆盖文件配置
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(key, envPrefix) && key != envPathKey {
			cfg.values[key] = value
		}
	}

	cfg.detectProxy()
	return cfg, nil
}

func defaultValues(path string) map[string]string {
	return map[string]string{
		KeyLogLevel:       "info",
		KeyDefaultCover:   "",
		KeyProxy:          "",
		KeyCookiesDir:     filepath.Join(filepath.Dir(path), "cookies"),
		KeyYoutubeLang:    "en",
		KeyTelegramToken:  "",
		KeyTelegramTarget: "",
		KeyMaxFileBytes:   DefaultMaxFileBytes,
	}
}

// detectProxy VIDEOGRAM_PROXY 未设置时，从常见代理环境变量里探测。
func (c *Config) detectProxy() {
	if c.values[KeyProxy] != "" {
		return
	}
	for _, env := range proxyEnvVars {
		if v := os.Getenv(env); v != "" {
			logrus.Debugf("use network proxy from %s: %s", env, v)
			c.values[KeyProxy] = v
			return
		}
	}
}

// Get 读取配置项，不存在时返回空字符串。
func (c *Config) Get(key string) string {
	return c.values[key]
}

// GetOr 读取配置项，空值时返回 fallback。
func (c *Config) GetOr(key, fallback string) string {
	if v := c.values[key]; v != "" {
		return v
	}
	return fallback
}

func (c *Config) Set(key, value string) {
	c.values[key] = value
}

func (c *Config) Delete(key string) {
	delete(c.values, key)
}

func (c *Config) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Keys 返回排序后的全部配置键。
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Path 返回配置文件路径。
func (c *Config) Path() string {
	return c.path
}

// Persist 把当前配置整体写回磁盘（覆盖写，不追加）。
func (c *Config) Persist() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	data, err := json.MarshalIndent(c.values, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return errors.Wrapf(err, "failed to write config file: %s", c.path)
	}
	return nil
}

// MaxFileBytes Telegram 文件大小上限，配置非法时退回默认值。
func (c *Config) MaxFileBytes() int64 {
	raw := c.GetOr(KeyMaxFileBytes, DefaultMaxFileBytes)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		logrus.Warnf("invalid %s: %q, fallback to %s", KeyMaxFileBytes, raw, DefaultMaxFileBytes)
		n, _ = strconv.ParseInt(DefaultMaxFileBytes, 10, 64)
	}
	return n
}

// ProxyURL 解析代理配置，未配置或非法时返回 nil。
func (c *Config) ProxyURL() *url.URL {
	raw := c.values[KeyProxy]
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		logrus.Warnf("invalid proxy url: %s", raw)
		return nil
	}
	return u
}

// DefaultSaveDir 未指定保存目录时使用的下载目录。
func DefaultSaveDir() string {
	return filepath.Join(os.TempDir(), "videogram_downloads")
}
