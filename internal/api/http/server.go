// Package http 提供只读的工作流观察接口
//
// 路由：
//   - GET /status  工作流快照
//   - GET /events  WebSocket 推送工作流事件
//   - GET /metrics Prometheus 指标
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/weisyn/zkverify/client/core/workflow"
	"github.com/weisyn/zkverify/internal/api/http/middleware"
	"github.com/weisyn/zkverify/internal/api/http/types"
	"github.com/weisyn/zkverify/internal/api/websocket"
	"github.com/weisyn/zkverify/pkg/interfaces/infrastructure/log"
)

// StatusSource 提供工作流快照
type StatusSource interface {
	Snapshot() workflow.Snapshot
}

// Server 观察接口服务器
type Server struct {
	addr       string
	router     *gin.Engine
	httpServer *http.Server
	listener   net.Listener
	hub        *websocket.Hub
	logger     log.Logger
}

// NewServer 创建观察接口服务器，addr 形如 "127.0.0.1:9464"
func NewServer(addr string, status StatusSource, hub *websocket.Hub, reg *prometheus.Registry, logger log.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.NewMetrics(reg).Middleware(),
	)

	s := &Server{
		addr:   addr,
		router: router,
		hub:    hub,
		logger: logger.With("module", "observer"),
	}

	router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, types.NewSuccessResponse(status.Snapshot(), middleware.GetRequestID(c)))
	})
	router.GET("/events", hub.Handle)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrNotFound,
			"no route for "+c.Request.URL.Path, middleware.GetRequestID(c)))
	})

	return s
}

// Handler 返回路由，供测试直接调用
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr 实际监听地址，未启动时返回配置地址
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Start 开始监听，监听失败立即返回错误
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen observer api on %s: %w", s.addr, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("observer api stopped: %v", err)
		}
	}()
	s.logger.Infof("observer api listening on %s", s.Addr())
	return nil
}

// Stop 关闭服务器，最多等待 5 秒
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	s.hub.Close()
	if err := s.httpServer.Shutdown(stopCtx); err != nil {
		return fmt.Errorf("shutdown observer api: %w", err)
	}
	s.logger.Info("observer api stopped")
	return nil
}
