// Package websocket 通过 WebSocket 推送工作流事件
package websocket

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/weisyn/zkverify/client/core/workflow"
	"github.com/weisyn/zkverify/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/zkverify/pkg/interfaces/infrastructure/log"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 32
)

// Subscriber 可异步订阅工作流事件的对象
type Subscriber interface {
	SubscribeAsync(topic event.EventType, handler func(workflow.Event)) error
}

// Message 推送给客户端的消息
type Message struct {
	Subscription string         `json:"subscription"` // 订阅ID
	Result       workflow.Event `json:"result"`       // 事件数据
}

// subscription 一个 WebSocket 连接
type subscription struct {
	id   string
	conn *websocket.Conn
	send chan workflow.Event
}

// Hub 管理所有 WebSocket 订阅并广播工作流事件
type Hub struct {
	logger        log.Logger
	upgrader      websocket.Upgrader
	mu            sync.RWMutex
	subscriptions map[string]*subscription
	closed        bool
}

// NewHub 创建事件推送中心
func NewHub(logger log.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			// 观察接口只读，且默认只监听本机
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		subscriptions: make(map[string]*subscription),
	}
}

// Attach 订阅状态与提示事件
func (h *Hub) Attach(s Subscriber) error {
	if err := s.SubscribeAsync(workflow.TopicState, h.Broadcast); err != nil {
		return fmt.Errorf("subscribe state events: %w", err)
	}
	if err := s.SubscribeAsync(workflow.TopicAlert, h.Broadcast); err != nil {
		return fmt.Errorf("subscribe alert events: %w", err)
	}
	return nil
}

// Count 当前订阅数
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions)
}

// Broadcast 向所有订阅推送事件，发送缓冲已满的连接丢弃该事件
func (h *Hub) Broadcast(ev workflow.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subscriptions {
		select {
		case sub.send <- ev:
		default:
			h.logger.Warnf("websocket subscription %s is slow, dropping %s event", sub.id, ev.Topic)
		}
	}
}

// Handle 升级连接并开始推送（Gin Handler）
func (h *Hub) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnf("upgrade websocket connection: %v", err)
		return
	}

	sub := &subscription{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan workflow.Event, sendBuffer),
	}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	h.subscriptions[sub.id] = sub
	h.mu.Unlock()
	h.logger.Infof("websocket subscription %s opened from %s", sub.id, conn.RemoteAddr())

	done := make(chan struct{})
	go h.writeLoop(sub, done)

	// 客户端只需保持连接，读循环用于发现关闭
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warnf("websocket subscription %s closed unexpectedly: %v", sub.id, err)
			}
			break
		}
	}

	h.remove(sub.id)
	close(done)
	if err := conn.Close(); err != nil {
		h.logger.Debugf("close websocket connection: %v", err)
	}
	h.logger.Infof("websocket subscription %s closed", sub.id)
}

// Close 关闭所有订阅连接，之后的连接请求会被立即关闭
// http.Server.Shutdown 不会关闭已升级的连接，停止观察接口时需要调用
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	subs := make([]*subscription, 0, len(h.subscriptions))
	for _, sub := range h.subscriptions {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, sub := range subs {
		_ = sub.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		// 读循环随之出错退出，并移除订阅
		if err := sub.conn.Close(); err != nil {
			h.logger.Debugf("close websocket subscription %s: %v", sub.id, err)
		}
	}
	if len(subs) > 0 {
		h.logger.Infof("closed %d websocket subscriptions", len(subs))
	}
}

func (h *Hub) writeLoop(sub *subscription, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case ev := <-sub.send:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteJSON(Message{Subscription: sub.id, Result: ev}); err != nil {
				h.logger.Warnf("send event to websocket subscription %s: %v", sub.id, err)
				return
			}
		}
	}
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	delete(h.subscriptions, id)
	h.mu.Unlock()
}
