// Package contract 验证合约客户端
//
// 绑定固定的合约地址与接口，把证明和公开输入打包为 verify 调用，
// 通过钱包签名器提交，并等待交易回执。
package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/zkverify/client/core/wallet"
	"github.com/weisyn/zkverify/client/core/zkerrors"
	"github.com/weisyn/zkverify/pkg/interfaces/infrastructure/log"
)

// DefaultPollInterval 默认回执轮询间隔
const DefaultPollInterval = 2 * time.Second

// Option 绑定选项
type Option func(*options)

type options struct {
	method       string
	pollInterval time.Duration
	logger       log.Logger
}

// WithVerifyMethod 指定验证方法名
func WithVerifyMethod(name string) Option {
	return func(o *options) {
		if name != "" {
			o.method = name
		}
	}
}

// WithPollInterval 指定回执轮询间隔
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithLogger 指定等待回执时使用的日志记录器
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Client 验证合约客户端
type Client struct {
	address      common.Address
	abi          abi.ABI
	method       abi.Method
	signer       *wallet.Signer
	pollInterval time.Duration
	logger       log.Logger
}

// Bind 绑定合约地址、接口和签名器，不发起任何请求
func Bind(address string, contractABI abi.ABI, signer *wallet.Signer, opts ...Option) (*Client, error) {
	o := options{method: DefaultVerifyMethod, pollInterval: DefaultPollInterval}
	for _, opt := range opts {
		opt(&o)
	}

	if signer == nil {
		return nil, zkerrors.New(zkerrors.KindNotConnected, "contract.bind", "no signer for contract binding", nil)
	}
	if !common.IsHexAddress(address) {
		return nil, zkerrors.New(zkerrors.KindInvalidInterface, "contract.bind", fmt.Sprintf("invalid contract address %q", address), nil)
	}
	method, err := checkVerifyMethod(contractABI, o.method)
	if err != nil {
		return nil, err
	}

	return &Client{
		address:      common.HexToAddress(address),
		abi:          contractABI,
		method:       method,
		signer:       signer,
		pollInterval: o.pollInterval,
		logger:       o.logger,
	}, nil
}

// Address 合约地址
func (c *Client) Address() common.Address {
	return c.address
}

// Method 验证方法签名，如 "verifyTx(bytes,uint256[])"
func (c *Client) Method() string {
	return c.method.Sig
}

// InputSize 固定长度输入数组的长度，动态数组返回 0
func (c *Client) InputSize() int {
	if t := c.method.Inputs[1].Type; t.T == abi.ArrayTy {
		return t.Size
	}
	return 0
}

// Verify 提交验证交易，交易哈希可用时立即返回
func (c *Client) Verify(ctx context.Context, proof []byte, inputs []*big.Int) (*TxHandle, error) {
	const op = "contract.verify"

	arg, err := c.inputArgument(inputs)
	if err != nil {
		return nil, err
	}
	data, err := c.abi.Pack(c.method.Name, proof, arg)
	if err != nil {
		return nil, zkerrors.New(zkerrors.KindSubmissionFailed, op, "cannot encode call data", err)
	}

	to := c.address
	hash, err := c.signer.SendTransaction(ctx, wallet.TxRequest{To: &to, Data: data})
	if err != nil {
		return nil, zkerrors.New(zkerrors.KindSubmissionFailed, op, reasonFromError(err), err)
	}
	return newTxHandle(hash, c.signer, &to, data, c.pollInterval, c.logger), nil
}

// inputArgument 把公开输入转换为方法参数类型
// uint256[N] 需要恰好 N 个输入
func (c *Client) inputArgument(inputs []*big.Int) (interface{}, error) {
	const op = "contract.verify"
	for i, v := range inputs {
		if v == nil || v.Sign() < 0 || v.BitLen() > 256 {
			return nil, zkerrors.New(zkerrors.KindInvalidPublicInput, op, fmt.Sprintf("input %d is not a uint256", i), nil)
		}
	}

	t := c.method.Inputs[1].Type
	if t.T != abi.ArrayTy {
		return inputs, nil
	}
	if len(inputs) != t.Size {
		return nil, zkerrors.New(zkerrors.KindInvalidPublicInput, op,
			fmt.Sprintf("contract expects %d public inputs, got %d", t.Size, len(inputs)), nil)
	}
	arr := reflect.New(t.GetType()).Elem()
	for i, v := range inputs {
		arr.Index(i).Set(reflect.ValueOf(v))
	}
	return arr.Interface(), nil
}

// reasonFromError 提取提供者错误中面向用户的原因
// 携带 revert 数据时优先解码 Error(string)
func reasonFromError(err error) string {
	var perr *wallet.ProviderError
	if errors.As(err, &perr) {
		if reason, ok := decodeRevertData(perr.Data); ok {
			return reason
		}
		return perr.Message
	}
	if reason := zkerrors.ReasonOf(err); reason != "" {
		return reason
	}
	return err.Error()
}
