package wallet

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/weisyn/zkverify/client/core/zkerrors"
	"github.com/weisyn/zkverify/pkg/interfaces/infrastructure/log"
)

// Gateway 钱包网关
// 检测提供者、查询已授权账户、请求授权，本身只持有提供者句柄
type Gateway struct {
	provider Provider
	logger   log.Logger
}

// NewGateway 创建钱包网关，provider 为 nil 表示环境中没有钱包
func NewGateway(provider Provider, logger log.Logger) *Gateway {
	return &Gateway{provider: provider, logger: logger}
}

// Available 是否检测到钱包提供者
func (g *Gateway) Available() bool {
	if g.provider == nil {
		return false
	}
	v := reflect.ValueOf(g.provider)
	return !(v.Kind() == reflect.Ptr && v.IsNil())
}

// Provider 返回底层提供者
func (g *Gateway) Provider() Provider {
	return g.provider
}

// CheckExistingConnection 查询已授权账户（不弹出授权提示）
// 有账户时返回第一个；没有账户时返回空字符串和 nil
func (g *Gateway) CheckExistingConnection(ctx context.Context) (string, error) {
	const op = "wallet.checkExistingConnection"
	if !g.Available() {
		return "", zkerrors.New(zkerrors.KindProviderUnavailable, op, "no wallet provider detected, install a wallet", nil)
	}

	var accounts []string
	if err := g.provider.Request(ctx, RequestArguments{Method: MethodAccounts}, &accounts); err != nil {
		return "", classify(op, err, false)
	}
	g.logger.Debugf("list of accounts: %v", accounts)
	if len(accounts) == 0 {
		g.logger.Info("no accounts found")
		return "", nil
	}
	return normalizeAddress(op, accounts[0])
}

// RequestConnection 请求用户授权账户，会触发钱包的授权提示
// 返回第一个授权账户
func (g *Gateway) RequestConnection(ctx context.Context) (string, error) {
	const op = "wallet.requestConnection"
	if !g.Available() {
		return "", zkerrors.New(zkerrors.KindProviderUnavailable, op, "no wallet provider detected, install a wallet", nil)
	}

	var accounts []string
	err := g.provider.Request(ctx, RequestArguments{Method: MethodRequestAccounts}, &accounts)
	if isMethodMissing(err) {
		// 节点类提供者不实现 eth_requestAccounts，其账户本身即已授权
		g.logger.Debug("provider lacks eth_requestAccounts, falling back to eth_accounts")
		err = g.provider.Request(ctx, RequestArguments{Method: MethodAccounts}, &accounts)
	}
	if err != nil {
		return "", classify(op, err, true)
	}
	if len(accounts) == 0 {
		return "", zkerrors.New(zkerrors.KindUserRejected, op, "wallet authorized no accounts", nil)
	}
	return normalizeAddress(op, accounts[0])
}

// Signer 返回绑定到 account 的签名器
func (g *Gateway) Signer(account string) (*Signer, error) {
	const op = "wallet.signer"
	if !g.Available() {
		return nil, zkerrors.New(zkerrors.KindProviderUnavailable, op, "no wallet provider detected, install a wallet", nil)
	}
	if !common.IsHexAddress(account) {
		return nil, zkerrors.New(zkerrors.KindNotConnected, op, "no connected account", nil)
	}
	return NewSigner(g.provider, common.HexToAddress(account)), nil
}

// normalizeAddress 校验并返回校验和格式地址
func normalizeAddress(op string, account string) (string, error) {
	if !common.IsHexAddress(account) {
		return "", fmt.Errorf("%s: provider returned invalid address %q", op, account)
	}
	return common.HexToAddress(account).Hex(), nil
}

// isMethodMissing 提供者是否报告方法不存在
func isMethodMissing(err error) bool {
	var perr *ProviderError
	if !errors.As(err, &perr) {
		return false
	}
	return perr.Code == CodeMethodNotFound || perr.Code == CodeUnsupportedMethod
}

// classify 把提供者错误转换为错误类别
// interactive 为 true 时，取消授权提示视为用户拒绝
func classify(op string, err error, interactive bool) error {
	if errors.Is(err, zkerrors.ErrProviderUnavailable) || errors.Is(err, zkerrors.ErrUserRejected) {
		return err
	}

	var perr *ProviderError
	if errors.As(err, &perr) {
		switch perr.Code {
		case CodeUserRejected, CodeUnauthorized:
			return zkerrors.New(zkerrors.KindUserRejected, op, perr.Message, err)
		case CodeDisconnected, CodeChainDisconnected:
			return zkerrors.New(zkerrors.KindProviderUnavailable, op, perr.Message, err)
		}
	}

	if interactive && (errors.Is(err, context.Canceled) || errors.Is(err, ErrPromptDismissed)) {
		return zkerrors.New(zkerrors.KindUserRejected, op, "authorization prompt dismissed", err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
