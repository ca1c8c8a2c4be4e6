package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
)

// setupRoutes 设置路由配置。
func setupRoutes(appServer *AppServer) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(errorHandlingMiddleware())
	router.Use(corsMiddleware())

	// 健康检查
	router.GET("/health", healthHandler)

	// MCP 端点，每个会话维护独立的 MCP Server 实例。
	// HTTP 客户端通过 X-Session-Id 标识会话，缺省用远端地址。
	mcpHandler := mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server {
			sessionID := r.Header.Get("X-Session-Id")
			if sessionID == "" {
				sessionID = r.RemoteAddr
			}
			return appServer.sessionManager.GetOrCreateSession(sessionID)
		},
		&mcp.StreamableHTTPOptions{
			JSONResponse: true,
		},
	)
	router.POST("/mcp", gin.WrapH(mcpHandler))
	router.POST("/mcp/*path", gin.WrapH(mcpHandler))

	api := router.Group("/api/v1")
	{
		api.POST("/sync", appServer.syncHandler)
		api.POST("/download", appServer.downloadHandler)
		api.POST("/upload", appServer.uploadHandler)

		api.GET("/config", appServer.configInfoHandler)
		api.PUT("/config/:key", appServer.configSetHandler)
		api.DELETE("/config/:key", appServer.configDeleteHandler)

		api.POST("/cookies", appServer.importCookiesHandler)
		api.DELETE("/cookies", appServer.deleteCookiesHandler)
	}

	return router
}

// errorHandlingMiddleware 统一记录 handler 挂上来的错误。
func errorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		for _, err := range c.Errors {
			logrus.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err.Err)
		}
	}
}

// corsMiddleware 跨域支持。
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Session-Id")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
