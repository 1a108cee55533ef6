// Package event 定义事件总线接口
package event

// EventType 事件主题
type EventType string

// EventBus 事件总线接口
// 处理函数为任意函数，参数与 Publish 的参数一一对应
type EventBus interface {
	// Subscribe 订阅事件，Publish 时同步调用
	Subscribe(eventType EventType, handler interface{}) error
	// SubscribeAsync 异步订阅事件，transactional 为 true 时同一处理函数串行执行
	SubscribeAsync(eventType EventType, handler interface{}, transactional bool) error
	// SubscribeOnce 一次性订阅事件
	SubscribeOnce(eventType EventType, handler interface{}) error
	// Publish 发布事件
	Publish(eventType EventType, args ...interface{})
	// Unsubscribe 取消订阅
	Unsubscribe(eventType EventType, handler interface{}) error
	// HasCallback 是否有订阅者
	HasCallback(eventType EventType) bool
	// WaitAsync 等待所有异步处理完成
	WaitAsync()
}
