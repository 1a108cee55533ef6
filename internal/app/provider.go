package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/fx"

	"github.com/weisyn/zkverify/client/core/wallet"
	"github.com/weisyn/zkverify/client/pkg/config"
	"github.com/weisyn/zkverify/client/pkg/ux/ui"
	"github.com/weisyn/zkverify/pkg/interfaces/infrastructure/log"
)

const dialTimeout = 10 * time.Second

// WalletParams 钱包提供者的依赖
type WalletParams struct {
	fx.In

	Config     *config.Config
	Components ui.Components
	Terminal   terminal
	Logger     log.Logger
	Lifecycle  fx.Lifecycle
}

// ProvideWallet 按钱包模式创建提供者
//
// 端点无法连接时返回 nil 提供者，由工作流在连接时提示 ProviderUnavailable。
// 口令文件读取或解锁失败属于配置错误，直接返回。
func ProvideWallet(p WalletParams) (wallet.Provider, error) {
	logger := p.Logger.With("module", "wallet")
	cfg := p.Config

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	switch cfg.Wallet {
	case config.WalletNone:
		logger.Info("wallet disabled by configuration")
		return nil, nil

	case config.WalletRPC:
		provider, err := wallet.DialRPCProvider(ctx, cfg.Endpoint)
		if err != nil {
			logger.Warnf("wallet endpoint unavailable: %v", err)
			return nil, nil
		}
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				provider.Close()
				return nil
			},
		})
		logger.Infof("using rpc wallet at %s", cfg.Endpoint)
		return provider, nil

	case config.WalletKeystore:
		node, err := rpc.DialContext(ctx, cfg.Endpoint)
		if err != nil {
			logger.Warnf("node endpoint unavailable: %v", err)
			return nil, nil
		}
		ks := keystore.NewKeyStore(cfg.KeystoreDir, keystore.StandardScryptN, keystore.StandardScryptP)
		prompter := ui.NewTerminalPrompter(p.Components, p.Terminal.in, p.Terminal.out)
		provider := wallet.NewKeystoreProvider(ks, node, prompter, cfg.Account)

		passphrase, ok, err := cfg.ReadPassphrase()
		if err != nil {
			node.Close()
			return nil, err
		}
		if ok {
			if err := provider.UnlockWithPassphrase(passphrase); err != nil {
				node.Close()
				return nil, fmt.Errorf("pre-authorize keystore account: %w", err)
			}
			logger.Info("keystore account pre-authorized from passphrase file")
		}
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				node.Close()
				return nil
			},
		})
		logger.Infof("using keystore %s with node %s (%d accounts)", cfg.KeystoreDir, cfg.Endpoint, len(ks.Accounts()))
		return provider, nil

	default:
		return nil, fmt.Errorf("unknown wallet mode %q", cfg.Wallet)
	}
}
