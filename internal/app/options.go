package app

import (
	"io"
	"os"

	"github.com/weisyn/zkverify/client/core/wallet"
	"github.com/weisyn/zkverify/client/pkg/config"
	"github.com/weisyn/zkverify/client/pkg/ux/ui"
)

// Option 应用选项
type Option func(*options)

type options struct {
	// 客户端配置，缺省为默认配置
	cfg *config.Config

	// 终端输入输出
	in  *os.File
	out io.Writer

	// 界面组件，缺省按 out 创建
	components ui.Components

	// 钱包提供者，设置后忽略配置中的钱包模式
	provider       wallet.Provider
	providerForced bool

	// 是否启动观察接口（还需配置 observer_addr）
	enableObserver bool

	// 启动时静默检查已授权账户
	checkExisting bool
}

// WithConfig 使用给定配置
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithTerminal 指定终端输入输出
func WithTerminal(in *os.File, out io.Writer) Option {
	return func(o *options) {
		o.in = in
		o.out = out
	}
}

// WithComponents 指定界面组件
func WithComponents(components ui.Components) Option {
	return func(o *options) {
		o.components = components
	}
}

// WithProvider 使用给定的钱包提供者，nil 表示没有钱包
func WithProvider(provider wallet.Provider) Option {
	return func(o *options) {
		o.provider = provider
		o.providerForced = true
	}
}

// WithoutObserver 不启动观察接口
func WithoutObserver() Option {
	return func(o *options) {
		o.enableObserver = false
	}
}

// WithoutExistingCheck 启动时不检查已授权账户
func WithoutExistingCheck() Option {
	return func(o *options) {
		o.checkExisting = false
	}
}

func newOptions(opts ...Option) *options {
	o := &options{
		out:            os.Stdout,
		enableObserver: true,
		checkExisting:  true,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.cfg == nil {
		o.cfg = config.DefaultConfig()
	}
	if o.in == nil {
		o.in = os.Stdin
	}
	if o.out == nil {
		o.out = os.Stdout
	}
	if o.components == nil {
		o.components = ui.NewComponents(o.out)
	}
	return o
}
