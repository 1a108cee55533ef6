package wallet

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/weisyn/zkverify/client/core/zkerrors"
)

// RPCProvider 通过 JSON-RPC 端点访问钱包/节点的提供者
// 适用于暴露已解锁账户的开发节点或钱包桥接服务
type RPCProvider struct {
	endpoint string
	client   *rpc.Client
}

// DialRPCProvider 连接 JSON-RPC 端点（http/https/ws/wss/ipc）
func DialRPCProvider(ctx context.Context, endpoint string) (*RPCProvider, error) {
	if endpoint == "" {
		return nil, zkerrors.New(zkerrors.KindProviderUnavailable, "wallet.dial", "wallet endpoint is not configured", nil)
	}
	client, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, zkerrors.New(zkerrors.KindProviderUnavailable, "wallet.dial", "cannot reach wallet endpoint "+endpoint, err)
	}
	return &RPCProvider{endpoint: endpoint, client: client}, nil
}

// NewRPCProvider 使用已有的 rpc.Client 创建提供者
func NewRPCProvider(client *rpc.Client) *RPCProvider {
	return &RPCProvider{client: client}
}

// Client 返回底层 rpc.Client
func (p *RPCProvider) Client() *rpc.Client {
	return p.client
}

// Request 实现 Provider
func (p *RPCProvider) Request(ctx context.Context, args RequestArguments, result interface{}) error {
	err := p.client.CallContext(ctx, result, args.Method, args.Params...)
	return convertRPCError(err)
}

// Close 关闭连接
func (p *RPCProvider) Close() {
	p.client.Close()
}

// convertRPCError 把 go-ethereum rpc 错误转换为 ProviderError
// 连接层失败视为提供者不可用
func convertRPCError(err error) error {
	if err == nil {
		return nil
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		perr := &ProviderError{Code: rpcErr.ErrorCode(), Message: rpcErr.Error()}
		var dataErr rpc.DataError
		if errors.As(err, &dataErr) {
			perr.Data = dataErr.ErrorData()
		}
		return perr
	}

	if isConnectionFailure(err) {
		return zkerrors.New(zkerrors.KindProviderUnavailable, "wallet.request", "wallet endpoint unreachable", err)
	}
	return fmt.Errorf("rpc request: %w", err)
}

// isConnectionFailure 判断是否为连接层错误
func isConnectionFailure(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, rpc.ErrClientQuit) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && !urlErr.Timeout()
}
