package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/xpzouying/videogram/configs"
)

// MCP 工具参数结构体定义

// SyncMediaArgs 同步媒体的参数
type SyncMediaArgs struct {
	URL  string `json:"url" jsonschema:"YouTube 或 Bilibili 的视频 / 播放列表链接"`
	TgID string `json:"tg_id,omitempty" jsonschema:"Telegram 会话 ID（可选，缺省用配置里的默认会话）"`
}

// DownloadMediaArgs 下载媒体的参数
type DownloadMediaArgs struct {
	URL       string `json:"url" jsonschema:"YouTube 或 Bilibili 的视频 / 播放列表链接"`
	SaveDir   string `json:"save_dir,omitempty" jsonschema:"下载目录（可选，缺省用临时目录）"`
	AudioOnly bool   `json:"audio_only,omitempty" jsonschema:"只下载音频"`
	Split     bool   `json:"split,omitempty" jsonschema:"超过大小限制的视频切分成多段"`
}

// UploadFileArgs 上传文件的参数
type UploadFileArgs struct {
	Path string `json:"path" jsonschema:"本地媒体文件的绝对路径，mp4 或音频格式"`
	Link string `json:"link,omitempty" jsonschema:"写进 caption 的来源链接（可选）"`
	TgID string `json:"tg_id,omitempty" jsonschema:"Telegram 会话 ID（可选，缺省用配置里的默认会话）"`
}

// InitMCPServer 初始化 MCP Server
func InitMCPServer(appServer *AppServer) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "videogram",
			Version: "1.0.0",
		},
		nil,
	)

	registerTools(server, appServer)

	logrus.Info("MCP Server initialized with official SDK")

	return server
}

// registerTools 注册所有 MCP 工具
func registerTools(server *mcp.Server, appServer *AppServer) {
	// 工具 1: 同步媒体到 Telegram
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "sync_media",
			Description: "下载 YouTube / Bilibili 媒体并上传到 Telegram，视频超限自动切分",
		},
		func(ctx context.Context, req *mcp.CallToolRequest, args SyncMediaArgs) (*mcp.CallToolResult, any, error) {
			logrus.Infof("MCP Server: sync request for %s", args.URL)
			result := appServer.handleSyncMedia(ctx, args)
			return convertToMCPResult(result), nil, nil
		},
	)

	// 工具 2: 只下载不上传
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "download_media",
			Description: "下载 YouTube / Bilibili 媒体到本地，返回规范化的媒体记录",
		},
		func(ctx context.Context, req *mcp.CallToolRequest, args DownloadMediaArgs) (*mcp.CallToolResult, any, error) {
			logrus.Infof("MCP Server: download request for %s", args.URL)
			result := appServer.handleDownloadMedia(ctx, args)
			return convertToMCPResult(result), nil, nil
		},
	)

	// 工具 3: 上传本地文件
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "upload_file",
			Description: "上传本地媒体文件到 Telegram（mp4 按视频，音频格式按音频）",
		},
		func(ctx context.Context, req *mcp.CallToolRequest, args UploadFileArgs) (*mcp.CallToolResult, any, error) {
			result := appServer.handleUploadFile(ctx, args)
			return convertToMCPResult(result), nil, nil
		},
	)

	// 工具 4: 查看配置
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "config_info",
			Description: "查看当前配置（bot token 打码）",
		},
		func(ctx context.Context, req *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
			result := appServer.handleConfigInfo(ctx)
			return convertToMCPResult(result), nil, nil
		},
	)

	logrus.Infof("Registered %d MCP tools", 4)
}

// MCP 工具处理器

func (s *AppServer) handleSyncMedia(ctx context.Context, args SyncMediaArgs) *MCPToolResult {
	results, err := s.service.Sync(ctx, args.URL, SyncOptions{
		TargetID:  args.TgID,
		SyncVideo: true,
		SyncAudio: true,
		Clean:     true,
		Playlist:  true,
		UseCookie: true,
	})
	if err != nil {
		return mcpError(fmt.Sprintf("sync failed: %v", err))
	}
	return mcpJSON(results)
}

func (s *AppServer) handleDownloadMedia(ctx context.Context, args DownloadMediaArgs) *MCPToolResult {
	results, err := s.service.Download(ctx, args.URL, DownloadOptions{
		SaveDir:       args.SaveDir,
		DownloadVideo: !args.AudioOnly,
		SplitVideo:    args.Split,
		Playlist:      true,
		UseCookie:     true,
	})
	if err != nil {
		return mcpError(fmt.Sprintf("download failed: %v", err))
	}
	return mcpJSON(results)
}

func (s *AppServer) handleUploadFile(ctx context.Context, args UploadFileArgs) *MCPToolResult {
	if err := s.service.Upload(ctx, args.Path, args.Link, args.TgID, 0); err != nil {
		return mcpError(fmt.Sprintf("upload failed: %v", err))
	}
	return mcpText(fmt.Sprintf("uploaded: %s", args.Path))
}

func (s *AppServer) handleConfigInfo(_ context.Context) *MCPToolResult {
	entries := make(map[string]string)
	for _, key := range s.cfg.Keys() {
		value := s.cfg.Get(key)
		if key == configs.KeyTelegramToken && value != "" {
			value = "********"
		}
		entries[key] = value
	}
	return mcpJSON(map[string]any{
		"path":    s.cfg.Path(),
		"entries": entries,
	})
}

// mcpText 纯文本结果
func mcpText(text string) *MCPToolResult {
	return &MCPToolResult{
		Content: []MCPContent{{Type: "text", Text: text}},
	}
}

// mcpJSON 把结果序列化成 JSON 文本
func mcpJSON(v any) *MCPToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal result: %v", err))
	}
	return mcpText(string(data))
}

// mcpError 错误结果
func mcpError(message string) *MCPToolResult {
	return &MCPToolResult{
		Content: []MCPContent{{Type: "text", Text: message}},
		IsError: true,
	}
}

// convertToMCPResult 将自定义的 MCPToolResult 转换为官方 SDK 的格式
func convertToMCPResult(result *MCPToolResult) *mcp.CallToolResult {
	var contents []mcp.Content
	for _, c := range result.Content {
		contents = append(contents, &mcp.TextContent{Text: c.Text})
	}

	return &mcp.CallToolResult{
		Content: contents,
		IsError: result.IsError,
	}
}
