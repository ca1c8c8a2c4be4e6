package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// WebhookPayload webhook 发送的数据结构
type WebhookPayload struct {
	Results   interface{} `json:"results"`   // 同步 / 下载的结果
	Timestamp int64       `json:"timestamp"` // 发送时间戳
	Event     string      `json:"event"`     // 事件类型（sync / sync_failed）
}

// WebhookSender webhook 发送器
type WebhookSender struct {
	client  *http.Client
	timeout time.Duration
}

// NewWebhookSender 创建 webhook 发送器
func NewWebhookSender() *WebhookSender {
	return &WebhookSender{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		timeout: 10 * time.Second,
	}
}

// SendAsync 异步发送 webhook。
// 不阻塞主流程，失败只记录日志，不影响同步结果。
func (w *WebhookSender) SendAsync(webhookURL string, results interface{}, eventType string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logrus.Errorf("webhook panic: %v", r)
			}
		}()

		if err := w.send(webhookURL, results, eventType); err != nil {
			logrus.Errorf("failed to send webhook [%s]: %v", webhookURL, err)
		} else {
			logrus.Infof("webhook sent [%s]", webhookURL)
		}
	}()
}

// send 实际发送 webhook（同步）
func (w *WebhookSender) send(webhookURL string, results interface{}, eventType string) error {
	if err := w.validateURL(webhookURL); err != nil {
		return fmt.Errorf("invalid webhook URL: %w", err)
	}

	payload := WebhookPayload{
		Results:   results,
		Timestamp: time.Now().Unix(),
		Event:     eventType,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "videogram-webhook/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned non-success status: %d", resp.StatusCode)
	}

	return nil
}

// validateURL 验证 webhook URL 是否有效
func (w *WebhookSender) validateURL(webhookURL string) error {
	if webhookURL == "" {
		return fmt.Errorf("webhook URL is empty")
	}

	u, err := url.Parse(webhookURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("only http and https are supported")
	}

	if u.Host == "" {
		return fmt.Errorf("URL must contain a host")
	}

	return nil
}
