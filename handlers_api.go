package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/xpzouying/videogram/configs"
	"github.com/xpzouying/videogram/cookies"
)

// respondError 返回错误响应
func respondError(c *gin.Context, statusCode int, code, message string, details any) {
	response := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}

	logrus.Errorf("%s %s %d: %s", c.Request.Method, c.Request.URL.Path, statusCode, message)

	c.JSON(statusCode, response)
}

// respondSuccess 返回成功响应
func respondSuccess(c *gin.Context, data any, message string) {
	response := SuccessResponse{
		Success: true,
		Data:    data,
		Message: message,
	}

	logrus.Infof("%s %s %d", c.Request.Method, c.Request.URL.Path, http.StatusOK)

	c.JSON(http.StatusOK, response)
}

// healthHandler 健康检查
func healthHandler(c *gin.Context) {
	respondSuccess(c, map[string]any{
		"status":  "healthy",
		"service": "videogram",
	}, "service is healthy")
}

// syncHandler 同步媒体（异步模式）
//
// 流程：
//  1. 立即返回 202 Accepted，告知客户端请求已接受
//  2. 后台异步执行下载和上传
//  3. 完成后通过 webhook 通知结果
//
// 下载加上传可能耗时很久，同步等待必然超时，所以 webhook 是必填的。
func (s *AppServer) syncHandler(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST",
			"invalid request parameters", err.Error())
		return
	}

	c.JSON(http.StatusAccepted, SuccessResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":  "accepted",
			"url":     req.URL,
			"webhook": req.Webhook,
		},
		Message: "sync accepted, results will be delivered via webhook",
	})

	// 用 channel 确保 goroutine 真正启动
	started := make(chan struct{})

	go func() {
		// 独立的 context，60 分钟超时，下载加上传可能都很慢
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Minute)
		defer cancel()

		close(started)

		logrus.Infof("starting async sync, webhook: %s", req.Webhook)

		results, err := s.service.Sync(ctx, req.URL, SyncOptions{
			TargetID:  req.TgID,
			ReplyTo:   req.ReplyTo,
			SaveDir:   req.SaveDir,
			SyncVideo: !req.NoVideo,
			SyncAudio: !req.NoAudio,
			Clean:     !req.KeepFiles,
			Playlist:  !req.NoPlaylist,
			UseCookie: !req.NoCookie,
		})
		if err != nil {
			logrus.Errorf("async sync failed: %v", err)
			s.sendSyncErrorWebhook(req.Webhook, err.Error())
			return
		}

		s.webhookSender.SendAsync(req.Webhook, results, "sync")
	}()

	select {
	case <-started:
	case <-time.After(100 * time.Millisecond):
		logrus.Warn("timed out waiting for async sync to start")
	}
}

// sendSyncErrorWebhook 发送同步失败的 webhook 通知
func (s *AppServer) sendSyncErrorWebhook(webhookURL, errorMsg string) {
	errorPayload := map[string]interface{}{
		"error":  errorMsg,
		"status": "failed",
	}
	s.webhookSender.SendAsync(webhookURL, errorPayload, "sync_failed")
}

// downloadHandler 下载媒体（同步模式），客户端自己把握超时。
func (s *AppServer) downloadHandler(c *gin.Context) {
	var req DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST",
			"invalid request parameters", err.Error())
		return
	}

	results, err := s.service.Download(c.Request.Context(), req.URL, DownloadOptions{
		SaveDir:       req.SaveDir,
		DownloadVideo: !req.AudioOnly,
		SplitVideo:    req.Split,
		Playlist:      !req.NoPlaylist,
		UseCookie:     !req.NoCookie,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DOWNLOAD_FAILED",
			"failed to download media", err.Error())
		return
	}

	respondSuccess(c, results, "download finished")
}

// uploadHandler 上传本地文件到 Telegram
func (s *AppServer) uploadHandler(c *gin.Context) {
	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST",
			"invalid request parameters", err.Error())
		return
	}

	if err := s.service.Upload(c.Request.Context(), req.Path, req.Link, req.TgID, req.ReplyTo); err != nil {
		respondError(c, http.StatusInternalServerError, "UPLOAD_FAILED",
			"failed to upload file", err.Error())
		return
	}

	respondSuccess(c, map[string]any{"path": req.Path}, "upload finished")
}

// configInfoHandler 查看配置，token 打码。
func (s *AppServer) configInfoHandler(c *gin.Context) {
	entries := make(map[string]string)
	for _, key := range s.cfg.Keys() {
		value := s.cfg.Get(key)
		if key == configs.KeyTelegramToken && value != "" {
			value = "********"
		}
		entries[key] = value
	}

	respondSuccess(c, map[string]any{
		"path":    s.cfg.Path(),
		"entries": entries,
	}, "config loaded")
}

// configSetHandler 写单个配置项并落盘
func (s *AppServer) configSetHandler(c *gin.Context) {
	var req ConfigSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST",
			"invalid request parameters", err.Error())
		return
	}

	key := c.Param("key")
	s.cfg.Set(key, req.Value)
	if err := s.cfg.Persist(); err != nil {
		respondError(c, http.StatusInternalServerError, "CONFIG_PERSIST_FAILED",
			"failed to persist config", err.Error())
		return
	}

	respondSuccess(c, map[string]any{"key": key}, "config updated")
}

// configDeleteHandler 删除单个配置项并落盘
func (s *AppServer) configDeleteHandler(c *gin.Context) {
	key := c.Param("key")
	s.cfg.Delete(key)
	if err := s.cfg.Persist(); err != nil {
		respondError(c, http.StatusInternalServerError, "CONFIG_PERSIST_FAILED",
			"failed to persist config", err.Error())
		return
	}

	respondSuccess(c, map[string]any{"key": key}, "config updated")
}

// importCookiesHandler 导入站点 cookie，后续下载自动带上。
func (s *AppServer) importCookiesHandler(c *gin.Context) {
	var req CookieImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST",
			"invalid request parameters", err.Error())
		return
	}

	path, err := cookies.FilePath(s.cfg.Get(configs.KeyCookiesDir), req.URL)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_URL",
			"failed to resolve cookie file", err.Error())
		return
	}

	if err := cookies.NewLocalCookie(path).SaveCookies([]byte(req.Content)); err != nil {
		respondError(c, http.StatusInternalServerError, "SAVE_COOKIES_FAILED",
			"failed to save cookies", err.Error())
		return
	}

	respondSuccess(c, map[string]any{"cookie_path": path}, "cookies saved")
}

// deleteCookiesHandler 删除站点 cookie
func (s *AppServer) deleteCookiesHandler(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		respondError(c, http.StatusBadRequest, "MISSING_URL",
			"missing url parameter", "url query parameter is required")
		return
	}

	path, err := cookies.FilePath(s.cfg.Get(configs.KeyCookiesDir), rawURL)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_URL",
			"failed to resolve cookie file", err.Error())
		return
	}

	if err := cookies.NewLocalCookie(path).DeleteCookies(); err != nil {
		respondError(c, http.StatusInternalServerError, "DELETE_COOKIES_FAILED",
			"failed to delete cookies", err.Error())
		return
	}

	respondSuccess(c, map[string]any{"cookie_path": path}, "cookies deleted")
}
