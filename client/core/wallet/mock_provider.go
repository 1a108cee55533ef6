package wallet

import (
	"context"
	"sync"
)

// HandlerFunc MockProvider 的方法处理函数，返回值按 JSON 语义写入结果
type HandlerFunc func(ctx context.Context, params []interface{}) (interface{}, error)

// MockProvider 内存中的脚本化提供者，用于测试
// 未注册的方法返回 -32601
type MockProvider struct {
	mu       sync.Mutex
	handlers map[string]HandlerFunc
	calls    []RequestArguments
}

// NewMockProvider 创建空的 MockProvider
func NewMockProvider() *MockProvider {
	return &MockProvider{handlers: make(map[string]HandlerFunc)}
}

// On 注册方法处理函数，重复注册覆盖之前的处理函数
func (m *MockProvider) On(method string, fn HandlerFunc) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[method] = fn
	return m
}

// Returns 注册固定返回值
func (m *MockProvider) Returns(method string, value interface{}) *MockProvider {
	return m.On(method, func(context.Context, []interface{}) (interface{}, error) {
		return value, nil
	})
}

// Fails 注册固定错误
func (m *MockProvider) Fails(method string, err error) *MockProvider {
	return m.On(method, func(context.Context, []interface{}) (interface{}, error) {
		return nil, err
	})
}

// Request 实现 Provider
func (m *MockProvider) Request(ctx context.Context, args RequestArguments, result interface{}) error {
	m.mu.Lock()
	m.calls = append(m.calls, args)
	fn, ok := m.handlers[args.Method]
	m.mu.Unlock()

	if !ok {
		return &ProviderError{Code: CodeMethodNotFound, Message: "the method " + args.Method + " does not exist/is not available"}
	}
	value, err := fn(ctx, args.Params)
	if err != nil {
		return err
	}
	return assignResult(result, value)
}

// Calls 返回指定方法的调用记录，method 为空返回全部
func (m *MockProvider) Calls(method string) []RequestArguments {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []RequestArguments
	for _, c := range m.calls {
		if method == "" || c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// CallCount 指定方法的调用次数
func (m *MockProvider) CallCount(method string) int {
	return len(m.Calls(method))
}
