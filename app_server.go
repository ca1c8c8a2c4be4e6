package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/xpzouying/videogram/configs"
)

// AppServer 应用服务器，承载 HTTP API 和 MCP 端点。
type AppServer struct {
	cfg            *configs.Config
	service        *VideogramService
	sessionManager *SessionManager
	webhookSender  *WebhookSender
	router         *gin.Engine
	httpServer     *http.Server
}

// NewAppServer 创建应用服务器实例。
func NewAppServer(service *VideogramService) *AppServer {
	appServer := &AppServer{
		cfg:           service.cfg,
		service:       service,
		webhookSender: NewWebhookSender(),
	}

	// MCP Server 按会话创建，工具注册需要访问 appServer
	appServer.sessionManager = NewSessionManager(appServer)

	return appServer
}

// Start 启动服务器，阻塞直到收到退出信号。
func (s *AppServer) Start(port string) error {
	s.router = setupRoutes(s)

	s.httpServer = &http.Server{
		Addr:    port,
		Handler: s.router,
	}

	go func() {
		logrus.Infof("starting HTTP server on %s", port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Errorf("failed to start server: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Infof("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logrus.Warnf("timed out waiting for connections to close: %v", err)
	} else {
		logrus.Infof("server stopped gracefully")
	}

	return nil
}
