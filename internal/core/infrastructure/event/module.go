package event

import (
	"context"
	"time"

	"go.uber.org/fx"

	eventInterface "github.com/weisyn/zkverify/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/zkverify/pkg/interfaces/infrastructure/log"
)

// ModuleInput 事件模块输入依赖
type ModuleInput struct {
	fx.In

	Logger    log.Logger `optional:"true"`
	Lifecycle fx.Lifecycle
}

// ModuleOutput 事件模块输出服务
type ModuleOutput struct {
	fx.Out

	EventBus eventInterface.EventBus
}

// Module 返回事件模块
func Module() fx.Option {
	return fx.Module("event",
		fx.Provide(func(input ModuleInput) ModuleOutput {
			bus := New()
			input.Lifecycle.Append(fx.Hook{
				// 停止前等待异步订阅者处理完已发布的事件
				OnStop: func(ctx context.Context) error {
					done := make(chan struct{})
					go func() {
						bus.WaitAsync()
						close(done)
					}()
					select {
					case <-done:
					case <-ctx.Done():
					case <-time.After(2 * time.Second):
					}
					if input.Logger != nil {
						input.Logger.Debugf("event bus stopped after %d events", bus.Published())
					}
					return nil
				},
			})
			return ModuleOutput{EventBus: bus}
		}),
	)
}
