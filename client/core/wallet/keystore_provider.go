package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// nodeBackend 本地签名所需的节点能力，由 ethclient.Client 实现
type nodeBackend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// KeystoreProvider 基于本地 keystore 目录的钱包提供者
//
// 授权即解锁：eth_requestAccounts 通过 Prompter 向用户索取口令并解锁账户，
// 已解锁账户会出现在 eth_accounts 中。eth_sendTransaction 在本地签名后以原始交易提交，
// 其余方法原样转发给节点。
type KeystoreProvider struct {
	ks       *keystore.KeyStore
	node     nodeBackend
	forward  Provider
	prompter Prompter
	account  string // 指定使用的账户，空表示 keystore 中第一个

	mu         sync.Mutex
	authorized []accounts.Account
}

// NewKeystoreProvider 创建 keystore 提供者，读写请求经 client 发往节点
func NewKeystoreProvider(ks *keystore.KeyStore, client *rpc.Client, prompter Prompter, account string) *KeystoreProvider {
	return newKeystoreProvider(ks, ethclient.NewClient(client), NewRPCProvider(client), prompter, account)
}

func newKeystoreProvider(ks *keystore.KeyStore, node nodeBackend, forward Provider, prompter Prompter, account string) *KeystoreProvider {
	return &KeystoreProvider{
		ks:       ks,
		node:     node,
		forward:  forward,
		prompter: prompter,
		account:  account,
	}
}

// UnlockWithPassphrase 用口令预先解锁账户，相当于用户此前已授权过本应用
func (p *KeystoreProvider) UnlockWithPassphrase(passphrase string) error {
	acct, err := p.selectAccount()
	if err != nil {
		return err
	}
	if err := p.ks.Unlock(acct, passphrase); err != nil {
		return fmt.Errorf("unlock account %s: %w", acct.Address.Hex(), err)
	}
	p.authorize(acct)
	return nil
}

// Request 实现 Provider
func (p *KeystoreProvider) Request(ctx context.Context, args RequestArguments, result interface{}) error {
	switch args.Method {
	case MethodAccounts:
		return assignResult(result, p.authorizedAddresses())
	case MethodRequestAccounts:
		return p.requestAccounts(ctx, result)
	case MethodSendTransaction:
		return p.sendTransaction(ctx, args, result)
	default:
		return p.forward.Request(ctx, args, result)
	}
}

func (p *KeystoreProvider) requestAccounts(ctx context.Context, result interface{}) error {
	if addrs := p.authorizedAddresses(); len(addrs) > 0 {
		return assignResult(result, addrs)
	}

	acct, err := p.selectAccount()
	if err != nil {
		return err
	}
	if p.prompter == nil {
		return &ProviderError{Code: CodeUnauthorized, Message: "no passphrase prompt available"}
	}

	passphrase, err := p.prompter.Passphrase(ctx, acct.Address.Hex())
	if err != nil {
		if errors.Is(err, ErrPromptDismissed) {
			return &ProviderError{Code: CodeUserRejected, Message: "user rejected the request"}
		}
		return err
	}
	if err := p.ks.Unlock(acct, passphrase); err != nil {
		if errors.Is(err, keystore.ErrDecrypt) {
			return &ProviderError{Code: CodeUserRejected, Message: "invalid passphrase"}
		}
		return fmt.Errorf("unlock account %s: %w", acct.Address.Hex(), err)
	}
	p.authorize(acct)
	return assignResult(result, p.authorizedAddresses())
}

func (p *KeystoreProvider) sendTransaction(ctx context.Context, args RequestArguments, result interface{}) error {
	var req TxRequest
	if err := decodeParam(args, 0, &req); err != nil {
		return err
	}
	acct, ok := p.authorizedAccount(req.From)
	if !ok {
		return &ProviderError{Code: CodeUnauthorized, Message: "account " + req.From.Hex() + " is not authorized"}
	}

	tx, chainID, err := p.buildTransaction(ctx, req)
	if err != nil {
		return err
	}
	signed, err := p.ks.SignTx(acct, tx, chainID)
	if err != nil {
		return fmt.Errorf("sign transaction: %w", err)
	}
	if err := p.node.SendTransaction(ctx, signed); err != nil {
		return convertRPCError(err)
	}
	return assignResult(result, signed.Hash())
}

// buildTransaction 补全 nonce、gas 与费用字段
// 节点支持 EIP-1559 时构造动态费用交易，否则构造传统交易
func (p *KeystoreProvider) buildTransaction(ctx context.Context, req TxRequest) (*types.Transaction, *big.Int, error) {
	chainID, err := p.node.ChainID(ctx)
	if err != nil {
		return nil, nil, convertRPCError(err)
	}
	nonce, err := p.node.PendingNonceAt(ctx, req.From)
	if err != nil {
		return nil, nil, convertRPCError(err)
	}

	value := new(big.Int)
	if req.Value != nil {
		value = req.Value.ToInt()
	}

	var gas uint64
	if req.Gas != nil {
		gas = uint64(*req.Gas)
	} else {
		gas, err = p.node.EstimateGas(ctx, ethereum.CallMsg{
			From:  req.From,
			To:    req.To,
			Value: value,
			Data:  req.Data,
		})
		if err != nil {
			return nil, nil, convertRPCError(err)
		}
	}

	head, err := p.node.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, nil, convertRPCError(err)
	}

	if head.BaseFee != nil {
		tip, err := p.node.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, nil, convertRPCError(err)
		}
		feeCap := new(big.Int).Add(tip, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
		return types.NewTx(&types.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       gas,
			To:        req.To,
			Value:     value,
			Data:      req.Data,
		}), chainID, nil
	}

	gasPrice, err := p.node.SuggestGasPrice(ctx)
	if err != nil {
		return nil, nil, convertRPCError(err)
	}
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       req.To,
		Value:    value,
		Data:     req.Data,
	}), chainID, nil
}

// selectAccount 找到要授权的 keystore 账户
func (p *KeystoreProvider) selectAccount() (accounts.Account, error) {
	if p.account != "" {
		if !common.IsHexAddress(p.account) {
			return accounts.Account{}, fmt.Errorf("invalid keystore account %q", p.account)
		}
		acct, err := p.ks.Find(accounts.Account{Address: common.HexToAddress(p.account)})
		if err != nil {
			return accounts.Account{}, &ProviderError{Code: CodeUnauthorized, Message: "account " + p.account + " not found in keystore"}
		}
		return acct, nil
	}
	all := p.ks.Accounts()
	if len(all) == 0 {
		return accounts.Account{}, &ProviderError{Code: CodeUnauthorized, Message: "keystore holds no accounts"}
	}
	return all[0], nil
}

func (p *KeystoreProvider) authorize(acct accounts.Account) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, a := range p.authorized {
		if a.Address == acct.Address {
			return
		}
	}
	p.authorized = append(p.authorized, acct)
}

func (p *KeystoreProvider) authorizedAccount(addr common.Address) (accounts.Account, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, a := range p.authorized {
		if a.Address == addr {
			return a, true
		}
	}
	return accounts.Account{}, false
}

func (p *KeystoreProvider) authorizedAddresses() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	addrs := make([]string, 0, len(p.authorized))
	for _, a := range p.authorized {
		addrs = append(addrs, a.Address.Hex())
	}
	return addrs
}
