package main

// HTTP API 响应类型

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// SuccessResponse 成功响应
type SuccessResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// MCP 相关类型（用于内部转换）

// MCPToolResult MCP 工具结果（内部使用）
type MCPToolResult struct {
	Content []MCPContent `json:"content"`
	IsError bool         `json:"isError,omitempty"`
}

// MCPContent MCP 内容（内部使用）
type MCPContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// HTTP API 请求类型。布尔选项用否定式命名，零值即默认行为。

// SyncRequest 同步请求
type SyncRequest struct {
	URL        string `json:"url" binding:"required"`
	TgID       string `json:"tg_id,omitempty"`
	ReplyTo    int    `json:"reply_msg_id,omitempty"`
	NoVideo    bool   `json:"no_video,omitempty"`
	NoAudio    bool   `json:"no_audio,omitempty"`
	KeepFiles  bool   `json:"keep_files,omitempty"`
	NoPlaylist bool   `json:"no_playlist,omitempty"`
	NoCookie   bool   `json:"no_cookie,omitempty"`
	SaveDir    string `json:"save_dir,omitempty"`
	Webhook    string `json:"webhook" binding:"required"` // 同步结果回调的 URL
}

// DownloadRequest 下载请求
type DownloadRequest struct {
	URL        string `json:"url" binding:"required"`
	SaveDir    string `json:"save_dir,omitempty"`
	AudioOnly  bool   `json:"audio_only,omitempty"`
	Split      bool   `json:"split,omitempty"`
	NoPlaylist bool   `json:"no_playlist,omitempty"`
	NoCookie   bool   `json:"no_cookie,omitempty"`
}

// UploadRequest 上传请求
type UploadRequest struct {
	Path    string `json:"path" binding:"required"`
	Link    string `json:"link,omitempty"`
	TgID    string `json:"tg_id,omitempty"`
	ReplyTo int    `json:"reply_msg_id,omitempty"`
}

// ConfigSetRequest 写配置请求
type ConfigSetRequest struct {
	Value string `json:"value" binding:"required"`
}

// CookieImportRequest 导入 cookie 请求，content 为 Netscape 格式的 cookie 文本。
type CookieImportRequest struct {
	URL     string `json:"url" binding:"required"`
	Content string `json:"content" binding:"required"`
}
