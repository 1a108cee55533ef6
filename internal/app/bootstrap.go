// Package app 用 fx 组装 zkverify 客户端
//
// 分层：
//   - 基础设施：配置、日志、事件总线、指标注册器
//   - 钱包：提供者、钱包网关
//   - 应用：验证工作流、终端提示、指标、观察接口
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/weisyn/zkverify/client/core/contract"
	"github.com/weisyn/zkverify/client/core/proof"
	"github.com/weisyn/zkverify/client/core/wallet"
	"github.com/weisyn/zkverify/client/core/workflow"
	"github.com/weisyn/zkverify/client/pkg/config"
	"github.com/weisyn/zkverify/client/pkg/ux/ui"
	apihttp "github.com/weisyn/zkverify/internal/api/http"
	"github.com/weisyn/zkverify/internal/api/websocket"
	logconfig "github.com/weisyn/zkverify/internal/config/log"
	eventimpl "github.com/weisyn/zkverify/internal/core/infrastructure/event"
	logimpl "github.com/weisyn/zkverify/internal/core/infrastructure/log"
	"github.com/weisyn/zkverify/internal/metrics"
	"github.com/weisyn/zkverify/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/zkverify/pkg/interfaces/infrastructure/log"
)

// terminal 终端输入输出
type terminal struct {
	in  *os.File
	out io.Writer
}

// Bootstrap 负责组装并启动 fx 应用
type Bootstrap struct {
	opts  *options
	fxApp *fx.App

	workflow *workflow.Workflow
	gateway  *wallet.Gateway
	logger   log.Logger
	observer *apihttp.Server
}

// NewBootstrap 创建启动器
func NewBootstrap(opts *options) *Bootstrap {
	return &Bootstrap{opts: opts}
}

// SetupInfrastructureLayer 配置、日志、事件总线、指标注册器
func (b *Bootstrap) SetupInfrastructureLayer() []fx.Option {
	return []fx.Option{
		fx.Supply(b.opts.cfg),
		fx.Provide(func(cfg *config.Config) *logconfig.LogOptions { return cfg.Log }),
		logimpl.Module(),
		eventimpl.Module(),
		fx.Provide(newRegistry),
	}
}

// SetupWalletLayer 钱包提供者与网关
func (b *Bootstrap) SetupWalletLayer() []fx.Option {
	provide := fx.Provide(ProvideWallet)
	if b.opts.providerForced {
		provide = fx.Provide(func() wallet.Provider { return b.opts.provider })
	}
	return []fx.Option{
		fx.Supply(terminal{in: b.opts.in, out: b.opts.out}),
		fx.Provide(func() ui.Components { return b.opts.components }),
		provide,
		fx.Provide(func(provider wallet.Provider, logger log.Logger) *wallet.Gateway {
			return wallet.NewGateway(provider, logger.With("module", "wallet"))
		}),
	}
}

// SetupApplicationLayer 工作流及其订阅者
func (b *Bootstrap) SetupApplicationLayer() []fx.Option {
	modules := []fx.Option{
		fx.Provide(
			ProvideWorkflow,
			ui.NewAlerter,
			func(reg *prometheus.Registry) *metrics.WorkflowMetrics { return metrics.New(reg) },
			websocket.NewHub,
		),
		fx.Invoke(attachSubscribers),
	}

	if b.opts.enableObserver && b.opts.cfg.ObserverAddr != "" {
		modules = append(modules, fx.Invoke(b.registerObserver))
	}
	if b.opts.checkExisting {
		modules = append(modules, fx.Invoke(checkExistingConnection))
	}

	modules = append(modules, fx.Populate(&b.workflow, &b.gateway, &b.logger))
	return modules
}

// CreateFxApp 创建 fx 应用
func (b *Bootstrap) CreateFxApp() error {
	var modules []fx.Option
	modules = append(modules, b.SetupInfrastructureLayer()...)
	modules = append(modules, b.SetupWalletLayer()...)
	modules = append(modules, b.SetupApplicationLayer()...)

	b.fxApp = fx.New(
		fx.Options(modules...),
		fx.WithLogger(func(zl *zap.Logger) fxevent.Logger {
			l := &fxevent.ZapLogger{Logger: zl}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
	)
	return b.fxApp.Err()
}

// StartApp 启动应用
func (b *Bootstrap) StartApp(ctx context.Context) error {
	if err := b.fxApp.Start(ctx); err != nil {
		return fmt.Errorf("start app: %w", err)
	}
	return nil
}

// StopApp 停止应用
func (b *Bootstrap) StopApp(ctx context.Context) error {
	if err := b.fxApp.Stop(ctx); err != nil {
		return fmt.Errorf("stop app: %w", err)
	}
	return nil
}

// ProvideWorkflow 按配置创建验证工作流
func ProvideWorkflow(cfg *config.Config, gateway *wallet.Gateway, bus event.EventBus, logger log.Logger) (*workflow.Workflow, error) {
	contractABI, err := contract.LoadABI(cfg.ABIPath)
	if err != nil {
		return nil, err
	}
	format, err := proof.ParseFormat(cfg.ProofFormat)
	if err != nil {
		return nil, err
	}
	return workflow.New(gateway, workflow.Config{
		ContractAddress: cfg.ContractAddress,
		ABI:             contractABI,
		VerifyMethod:    cfg.VerifyMethod,
		ProofFormat:     format,
		PollInterval:    cfg.PollInterval.Std(),
		ConfirmTimeout:  cfg.ConfirmTimeout.Std(),
	}, bus, logger), nil
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// attachSubscribers 终端提示同步订阅，指标和推送异步订阅
func attachSubscribers(wf *workflow.Workflow, alerter *ui.Alerter, m *metrics.WorkflowMetrics, hub *websocket.Hub) error {
	if err := alerter.Attach(wf); err != nil {
		return err
	}
	if err := m.Attach(wf); err != nil {
		return err
	}
	return hub.Attach(wf)
}

func (b *Bootstrap) registerObserver(lc fx.Lifecycle, wf *workflow.Workflow, hub *websocket.Hub, reg *prometheus.Registry, logger log.Logger) {
	b.observer = apihttp.NewServer(b.opts.cfg.ObserverAddr, wf, hub, reg, logger)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { return b.observer.Start() },
		OnStop:  b.observer.Stop,
	})
}

// checkExistingConnection 启动时静默检查已授权账户，失败只产生提示
func checkExistingConnection(lc fx.Lifecycle, wf *workflow.Workflow) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = wf.Init(ctx)
			return nil
		},
	})
}
