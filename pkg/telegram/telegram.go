package telegram

import (
	"net/http"
	"path/filepath"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/xpzouying/videogram/configs"
	"github.com/xpzouying/videogram/pkg/media"
)

// Client Telegram 上传客户端。
// 只做上传，不收消息，走 Bot API。
type Client struct {
	bot *tgbotapi.BotAPI
}

// NewClient 用配置里的 bot token 创建客户端，代理配置同样生效。
func NewClient(cfg *configs.Config) (*Client, error) {
	token := cfg.Get(configs.KeyTelegramToken)
	if token == "" {
		return nil, errors.Errorf("%s is not set, please set it via `videogram config set`", configs.KeyTelegramToken)
	}

	transport := &http.Transport{}
	if proxyURL := cfg.ProxyURL(); proxyURL != nil {
		logrus.Debugf("use network proxy for telegram: %s", proxyURL)
		transport.Proxy = http.ProxyURL(proxyURL)
	}
	// 大文件上传耗时不可控，不在 client 上设总超时
	httpClient := &http.Client{Transport: transport}

	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, errors.Wrap(err, "failed to authorize telegram bot")
	}
	logrus.Debugf("authorized telegram bot: %s", bot.Self.UserName)

	return &Client{bot: bot}, nil
}

// ParseTarget 解析目标会话 ID。
func ParseTarget(raw string) (int64, error) {
	target, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid telegram target id: %s", raw)
	}
	return target, nil
}

// SendVideo 上传视频，replyTo 为 0 时不引用任何消息。
func (c *Client) SendVideo(rec *media.Record, target int64, replyTo int) (*tgbotapi.Message, error) {
	logrus.Infof("uploading video to telegram for: %s", filepath.Base(rec.VideoPath))

	video := tgbotapi.NewVideo(target, tgbotapi.FilePath(rec.VideoPath))
	video.Caption = rec.Caption
	video.ParseMode = tgbotapi.ModeMarkdown
	video.Duration = rec.Duration
	video.SupportsStreaming = true
	if rec.Thumb != "" {
		video.Thumb = tgbotapi.FilePath(rec.Thumb)
	}
	if replyTo != 0 {
		video.ReplyToMessageID = replyTo
	}

	msg, err := c.bot.Send(video)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to upload video: %s", rec.VideoPath)
	}
	return &msg, nil
}

// SendAudio 上传音频，uploader 作为 performer 展示。
func (c *Client) SendAudio(rec *media.Record, target int64, replyTo int) (*tgbotapi.Message, error) {
	logrus.Infof("uploading audio to telegram for: %s", filepath.Base(rec.AudioPath))

	audio := tgbotapi.NewAudio(target, tgbotapi.FilePath(rec.AudioPath))
	audio.Caption = rec.Caption
	audio.ParseMode = tgbotapi.ModeMarkdown
	audio.Duration = rec.Duration
	audio.Performer = rec.Uploader
	audio.Title = rec.Title
	if rec.Thumb != "" {
		audio.Thumb = tgbotapi.FilePath(rec.Thumb)
	}
	if replyTo != 0 {
		audio.ReplyToMessageID = replyTo
	}

	msg, err := c.bot.Send(audio)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to upload audio: %s", rec.AudioPath)
	}
	return &msg, nil
}
