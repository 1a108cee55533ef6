package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weisyn/zkverify/client/core/output"
	"github.com/weisyn/zkverify/client/pkg/config"
	"github.com/weisyn/zkverify/internal/app"
)

// GlobalFlags 全局命令行参数
type GlobalFlags struct {
	ConfigPath   string // 配置文件路径
	Wallet       string // 钱包模式
	Endpoint     string // JSON-RPC 端点
	Contract     string // 验证合约地址
	LogLevel     string // 日志级别
	ObserverAddr string // 观察接口监听地址
	Output       string // 结果输出格式
}

var (
	globalFlags GlobalFlags
	cfg         *config.Config
	formatter   *output.Formatter
)

var rootCmd = &cobra.Command{
	Use:   "zkverify",
	Short: "零知识证明链上验证客户端",
	Long: `zkverify - 连接钱包并向链上验证合约提交零知识证明

钱包模式:
  rpc       通过 JSON-RPC 端点使用已解锁账户（默认 http://localhost:8545）
  keystore  使用本地 keystore 目录，本地签名，交易经节点广播
  none      不使用钱包，只能查看状态

配置优先级: 命令行参数 > 环境变量 (ZKVERIFY_*) > 配置文件 > 默认值`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(globalFlags.ConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		loaded.ApplyEnv(os.LookupEnv)
		applyFlags(cmd, loaded)
		cfg = loaded

		format, err := output.ParseFormat(globalFlags.Output)
		if err != nil {
			return err
		}
		formatter = output.NewFormatter(format, cmd.OutOrStdout())
		return nil
	},
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalFlags.ConfigPath, "config", "", "配置文件路径 (默认: ~/.zkverify/config.json)")
	flags.StringVar(&globalFlags.Wallet, "wallet", "", "钱包模式: rpc|keystore|none")
	flags.StringVar(&globalFlags.Endpoint, "endpoint", "", "钱包/节点 JSON-RPC 端点")
	flags.StringVar(&globalFlags.Contract, "contract", "", "验证合约地址")
	flags.StringVar(&globalFlags.LogLevel, "log-level", "", "日志级别: debug|info|warn|error")
	flags.StringVar(&globalFlags.ObserverAddr, "observer-addr", "", "只读观察接口监听地址，如 127.0.0.1:9464")
	flags.StringVarP(&globalFlags.Output, "output", "o", "text", "结果输出格式: text|json|pretty")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// applyFlags 只覆盖显式设置的参数
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("wallet") {
		c.Wallet = strings.ToLower(globalFlags.Wallet)
	}
	if flags.Changed("endpoint") {
		c.Endpoint = globalFlags.Endpoint
	}
	if flags.Changed("contract") {
		c.ContractAddress = globalFlags.Contract
	}
	if flags.Changed("log-level") {
		c.Log.Level = globalFlags.LogLevel
	}
	if flags.Changed("observer-addr") {
		c.ObserverAddr = globalFlags.ObserverAddr
	}
}

// startApp 校验配置并启动客户端
func startApp(ctx context.Context, requireContract bool, opts ...app.Option) (app.App, error) {
	if err := cfg.Validate(requireContract); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	opts = append([]app.Option{app.WithConfig(cfg), app.WithTerminal(os.Stdin, os.Stdout)}, opts...)
	return app.BootstrapApp(ctx, opts...)
}
