package log

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	logconfig "github.com/weisyn/zkverify/internal/config/log"
	logInterface "github.com/weisyn/zkverify/pkg/interfaces/infrastructure/log"
)

// ModuleParams 日志模块的依赖参数
type ModuleParams struct {
	fx.In

	Options   *logconfig.LogOptions `optional:"true"` // 用户日志配置，缺省为默认配置
	Lifecycle fx.Lifecycle
}

// ModuleOutput 日志模块的输出
type ModuleOutput struct {
	fx.Out

	Logger    logInterface.Logger // 日志记录器接口
	ZapLogger *zap.Logger         // 底层 zap 记录器
}

// Module 返回日志模块
func Module() fx.Option {
	return fx.Module("log",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 按配置创建日志记录器，停止时刷新缓冲
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	logger, err := New(logconfig.New(params.Options))
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("create logger: %w", err)
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			// 标准输出不支持 Sync，忽略其错误
			_ = logger.Sync()
			return nil
		},
	})

	return ModuleOutput{
		Logger:    logger,
		ZapLogger: logger.GetZapLogger(),
	}, nil
}
