package wallet

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// TxRequest eth_sendTransaction 的交易参数
// To 为 nil 表示合约创建
type TxRequest struct {
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to,omitempty"`
	Data  hexutil.Bytes   `json:"data,omitempty"`
	Gas   *hexutil.Uint64 `json:"gas,omitempty"`
	Value *hexutil.Big    `json:"value,omitempty"`
}

// CallRequest eth_call 的调用参数
type CallRequest struct {
	From common.Address  `json:"from"`
	To   *common.Address `json:"to"`
	Data hexutil.Bytes   `json:"data,omitempty"`
}

// Signer 签名器 - 绑定一个账户的交易提交句柄
// 签名由提供者完成（浏览器钱包/本地 keystore），签名器只负责组织请求
type Signer struct {
	provider Provider
	account  common.Address
}

// NewSigner 创建绑定到 account 的签名器
func NewSigner(provider Provider, account common.Address) *Signer {
	return &Signer{provider: provider, account: account}
}

// Address 签名账户地址
func (s *Signer) Address() common.Address {
	return s.account
}

// SendTransaction 由提供者签名并提交交易，返回交易哈希
// 返回时交易尚未打包
func (s *Signer) SendTransaction(ctx context.Context, tx TxRequest) (common.Hash, error) {
	tx.From = s.account
	var hash common.Hash
	if err := s.provider.Request(ctx, RequestArguments{
		Method: MethodSendTransaction,
		Params: []interface{}{tx},
	}, &hash); err != nil {
		return common.Hash{}, err
	}
	if hash == (common.Hash{}) {
		return common.Hash{}, fmt.Errorf("provider returned empty transaction hash")
	}
	return hash, nil
}

// Call 执行只读调用，blockNumber 为 nil 表示 latest
func (s *Signer) Call(ctx context.Context, call CallRequest, blockNumber *big.Int) ([]byte, error) {
	call.From = s.account
	block := "latest"
	if blockNumber != nil {
		block = hexutil.EncodeBig(blockNumber)
	}
	var out hexutil.Bytes
	if err := s.provider.Request(ctx, RequestArguments{
		Method: MethodCall,
		Params: []interface{}{call, block},
	}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TransactionReceipt 查询交易回执，未打包时返回 nil, nil
func (s *Signer) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	var receipt *types.Receipt
	if err := s.provider.Request(ctx, RequestArguments{
		Method: MethodGetReceipt,
		Params: []interface{}{hash},
	}, &receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// ChainID 查询当前链ID
func (s *Signer) ChainID(ctx context.Context) (*big.Int, error) {
	var id hexutil.Big
	if err := s.provider.Request(ctx, RequestArguments{Method: MethodChainID}, &id); err != nil {
		return nil, err
	}
	return id.ToInt(), nil
}
