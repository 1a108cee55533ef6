package contract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/weisyn/zkverify/client/core/wallet"
	"github.com/weisyn/zkverify/client/core/zkerrors"
)

// DeployResult 合约部署结果
type DeployResult struct {
	Address common.Address // 合约地址
	TxHash  common.Hash    // 部署交易哈希
	Receipt *types.Receipt // 部署回执
}

// Deploy 提交合约创建交易并等待回执
// bytecode 为编译产物（含构造参数），编译本身不在此处完成，opts 只使用轮询间隔和日志
func Deploy(ctx context.Context, signer *wallet.Signer, bytecode []byte, opts ...Option) (*DeployResult, error) {
	const op = "contract.deploy"
	o := options{pollInterval: DefaultPollInterval}
	for _, opt := range opts {
		opt(&o)
	}
	if signer == nil {
		return nil, zkerrors.New(zkerrors.KindNotConnected, op, "no signer for deployment", nil)
	}
	if len(bytecode) == 0 {
		return nil, zkerrors.New(zkerrors.KindSubmissionFailed, op, "empty contract bytecode", nil)
	}

	hash, err := signer.SendTransaction(ctx, wallet.TxRequest{Data: bytecode})
	if err != nil {
		return nil, zkerrors.New(zkerrors.KindSubmissionFailed, op, reasonFromError(err), err)
	}

	receipt, err := newTxHandle(hash, signer, nil, bytecode, o.pollInterval, o.logger).Confirm(ctx)
	if err != nil {
		return nil, err
	}
	return &DeployResult{Address: receipt.ContractAddress, TxHash: hash, Receipt: receipt}, nil
}

// ParseBytecode 解析部署字节码
// 接受 0x 十六进制文本，或带 "bytecode" 字段的编译产物 JSON（如 Hardhat artifact）
func ParseBytecode(text string) ([]byte, error) {
	const op = "contract.parseBytecode"
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "{") {
		var artifact struct {
			Bytecode json.RawMessage `json:"bytecode"`
		}
		if err := json.Unmarshal([]byte(text), &artifact); err != nil {
			return nil, zkerrors.New(zkerrors.KindInvalidInterface, op, "malformed contract artifact", err)
		}
		// solc 标准输出为 {"object": "..."}，Hardhat 为字符串
		var code string
		if err := json.Unmarshal(artifact.Bytecode, &code); err != nil {
			var obj struct {
				Object string `json:"object"`
			}
			if err := json.Unmarshal(artifact.Bytecode, &obj); err != nil {
				return nil, zkerrors.New(zkerrors.KindInvalidInterface, op, "artifact has no bytecode", err)
			}
			code = obj.Object
		}
		text = code
	}
	if text == "" {
		return nil, zkerrors.New(zkerrors.KindInvalidInterface, op, "empty contract bytecode", nil)
	}
	if !strings.HasPrefix(text, "0x") && !strings.HasPrefix(text, "0X") {
		text = "0x" + text
	}
	code, err := hexutil.Decode(text)
	if err != nil {
		return nil, zkerrors.New(zkerrors.KindInvalidInterface, op, "bytecode is not valid hex", err)
	}
	return code, nil
}
