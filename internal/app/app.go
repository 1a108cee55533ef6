package app

import (
	"context"
	"fmt"
	"time"

	"github.com/weisyn/zkverify/client/core/wallet"
	"github.com/weisyn/zkverify/client/core/workflow"
	"github.com/weisyn/zkverify/client/pkg/config"
	"github.com/weisyn/zkverify/client/pkg/ux/ui"
	"github.com/weisyn/zkverify/pkg/interfaces/infrastructure/log"
)

const (
	startTimeout = 30 * time.Second
	stopTimeout  = 10 * time.Second
)

// App 运行中的客户端
type App interface {
	// Workflow 验证工作流
	Workflow() *workflow.Workflow

	// Gateway 钱包网关
	Gateway() *wallet.Gateway

	// Components 终端界面组件
	Components() ui.Components

	// Config 生效的配置
	Config() *config.Config

	// Logger 日志记录器
	Logger() log.Logger

	// ObserverAddr 观察接口实际监听地址，未启动时为空
	ObserverAddr() string

	// Stop 停止应用
	Stop() error
}

// BootstrapApp 组装并启动客户端
func BootstrapApp(ctx context.Context, opts ...Option) (App, error) {
	b := NewBootstrap(newOptions(opts...))
	if err := b.CreateFxApp(); err != nil {
		return nil, fmt.Errorf("create app: %w", err)
	}

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()
	if err := b.StartApp(startCtx); err != nil {
		return nil, err
	}
	return &internalApp{bootstrap: b}, nil
}

type internalApp struct {
	bootstrap *Bootstrap
}

func (a *internalApp) Workflow() *workflow.Workflow { return a.bootstrap.workflow }

func (a *internalApp) Gateway() *wallet.Gateway { return a.bootstrap.gateway }

func (a *internalApp) Components() ui.Components { return a.bootstrap.opts.components }

func (a *internalApp) Config() *config.Config { return a.bootstrap.opts.cfg }

func (a *internalApp) Logger() log.Logger { return a.bootstrap.logger }

func (a *internalApp) ObserverAddr() string {
	if a.bootstrap.observer == nil {
		return ""
	}
	return a.bootstrap.observer.Addr()
}

func (a *internalApp) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return a.bootstrap.StopApp(ctx)
}
