package contract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/weisyn/zkverify/client/core/wallet"
	"github.com/weisyn/zkverify/client/core/zkerrors"
	"github.com/weisyn/zkverify/pkg/interfaces/infrastructure/log"
)

// TxHandle 已提交交易的句柄
type TxHandle struct {
	Hash common.Hash

	signer       *wallet.Signer
	to           *common.Address
	data         []byte
	pollInterval time.Duration
	logger       log.Logger
}

func newTxHandle(hash common.Hash, signer *wallet.Signer, to *common.Address, data []byte, interval time.Duration, logger log.Logger) *TxHandle {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &TxHandle{Hash: hash, signer: signer, to: to, data: data, pollInterval: interval, logger: logger}
}

// Confirm 等待交易打包并返回回执
//
// 交易执行失败时返回回执和 TransactionReverted 错误，原因来自在回执区块重放调用。
// 回执查询出错不结束等待，只有 ctx 结束才放弃，此时返回 ConfirmationFailed。
// ctx 结束只停止等待，已提交的交易不受影响。
func (h *TxHandle) Confirm(ctx context.Context) (*types.Receipt, error) {
	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		receipt, err := h.signer.TransactionReceipt(ctx, h.Hash)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, h.giveUp(ctx, lastErr)
		case err != nil:
			lastErr = err
			if h.logger != nil {
				h.logger.With("tx_hash", h.Hash.Hex()).Warnf("query receipt failed, polling again: %v", err)
			}
		case receipt != nil:
			if receipt.Status == types.ReceiptStatusFailed {
				return receipt, zkerrors.New(zkerrors.KindTransactionReverted, "contract.confirm", h.revertReason(ctx, receipt), nil)
			}
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, h.giveUp(ctx, lastErr)
		case <-ticker.C:
		}
	}
}

// giveUp 停止等待，附带最后一次回执查询错误
func (h *TxHandle) giveUp(ctx context.Context, lastErr error) error {
	waitErr := fmt.Errorf("wait for receipt %s: %w", h.Hash.Hex(), ctx.Err())
	if lastErr != nil {
		return zkerrors.Wrapf(zkerrors.KindConfirmationFailed, "contract.confirm", waitErr, "last receipt query failed: %v", lastErr)
	}
	return zkerrors.New(zkerrors.KindConfirmationFailed, "contract.confirm", "", waitErr)
}

// revertReason 在回执所在区块重放调用以取得 revert 原因
func (h *TxHandle) revertReason(ctx context.Context, receipt *types.Receipt) string {
	const fallback = "execution reverted"
	if h.to == nil {
		return fallback
	}

	out, err := h.signer.Call(ctx, wallet.CallRequest{To: h.to, Data: h.data}, receipt.BlockNumber)
	if err != nil {
		var perr *wallet.ProviderError
		if errors.As(err, &perr) {
			if reason, ok := decodeRevertData(perr.Data); ok {
				return reason
			}
			if perr.Message != "" {
				return perr.Message
			}
		}
		return fallback
	}
	if reason, err := abi.UnpackRevert(out); err == nil {
		return reason
	}
	return fallback
}

// decodeRevertData 解码提供者错误附带的 revert 数据
func decodeRevertData(data interface{}) (string, bool) {
	var raw []byte
	switch v := data.(type) {
	case string:
		b, err := hexutil.Decode(v)
		if err != nil {
			return "", false
		}
		raw = b
	case hexutil.Bytes:
		raw = v
	case []byte:
		raw = v
	default:
		return "", false
	}
	reason, err := abi.UnpackRevert(raw)
	if err != nil {
		return "", false
	}
	return reason, true
}
