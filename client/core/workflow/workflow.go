// Package workflow 钱包连接与证明验证的工作流
//
// 工作流持有 Account 与 FormData，按状态机串行执行连接、提交与确认：
//
//	Disconnected → Connecting → Connected → Submitting → AwaitingConfirmation → {Confirmed, Failed} → Connected
//
// 同一实例同时最多只有一个连接或提交在进行。状态变化和用户提示通过事件总线发布，
// 外部视图订阅事件或轮询 Snapshot。
package workflow

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"

	"github.com/weisyn/zkverify/client/core/contract"
	"github.com/weisyn/zkverify/client/core/proof"
	"github.com/weisyn/zkverify/client/core/wallet"
	"github.com/weisyn/zkverify/client/core/zkerrors"
	"github.com/weisyn/zkverify/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/zkverify/pkg/interfaces/infrastructure/log"
)

// Config 工作流配置
type Config struct {
	ContractAddress string        // 验证合约地址
	ABI             abi.ABI       // 合约接口
	VerifyMethod    string        // 验证方法名，空为 verifyTx
	ProofFormat     proof.Format  // 证明文本格式，空为自动识别
	PollInterval    time.Duration // 回执轮询间隔
	ConfirmTimeout  time.Duration // 等待确认的超时，0 表示只受 ctx 限制
}

// Workflow 验证工作流
type Workflow struct {
	gateway *wallet.Gateway
	cfg     Config
	encoder *proof.Encoder
	bus     event.EventBus
	logger  log.Logger

	mu      sync.RWMutex
	state   State
	account string
	form    FormData
	busy    bool // 连接或提交进行中
	last    *Outcome
}

// New 创建工作流，初始状态为 Disconnected
func New(gateway *wallet.Gateway, cfg Config, bus event.EventBus, logger log.Logger) *Workflow {
	if cfg.ProofFormat == "" {
		cfg.ProofFormat = proof.FormatAuto
	}
	return &Workflow{
		gateway: gateway,
		cfg:     cfg,
		encoder: proof.NewEncoder(cfg.ProofFormat),
		bus:     bus,
		logger:  logger.With("module", "workflow"),
		state:   StateDisconnected,
	}
}

// ========== 查询 ==========

// State 当前状态
func (w *Workflow) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Account 当前账户，未连接时为空
func (w *Workflow) Account() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.account
}

// Form 当前表单
func (w *Workflow) Form() FormData {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.form
}

// Snapshot 返回当前状态的副本，等待钱包或网络时也可调用
func (w *Workflow) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	snap := Snapshot{
		State:     w.state,
		Account:   w.account,
		Form:      w.form,
		CanSubmit: w.account != "" && !w.busy,
	}
	if w.last != nil {
		last := *w.last
		snap.LastOutcome = &last
	}
	return snap
}

// Subscribe 同步订阅工作流事件
func (w *Workflow) Subscribe(topic event.EventType, handler func(Event)) error {
	return w.bus.Subscribe(topic, handler)
}

// SubscribeAsync 异步订阅工作流事件，同一处理函数串行执行
func (w *Workflow) SubscribeAsync(topic event.EventType, handler func(Event)) error {
	return w.bus.SubscribeAsync(topic, handler, true)
}

// ========== 表单 ==========

// SetField 按字段名更新表单
func (w *Workflow) SetField(name, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form.set(name, value)
}

// SetProof 更新证明文本
func (w *Workflow) SetProof(value string) {
	_ = w.SetField(FieldProof, value)
}

// SetInput 更新公开输入文本
func (w *Workflow) SetInput(value string) {
	_ = w.SetField(FieldInput, value)
}

// ========== 连接 ==========

// Init 静默检查已授权账户，找到则直接进入 Connected
// 不会触发钱包授权提示
func (w *Workflow) Init(ctx context.Context) error {
	w.mu.Lock()
	if w.busy || w.account != "" {
		w.mu.Unlock()
		return nil
	}
	w.busy = true
	w.mu.Unlock()

	account, err := w.gateway.CheckExistingConnection(ctx)

	w.mu.Lock()
	w.busy = false
	w.mu.Unlock()

	if err != nil {
		w.logger.Warnf("check existing connection failed: %v", err)
		w.alert(err, "")
		return err
	}
	if account == "" {
		return nil
	}
	w.logger.Infof("found authorized account %s", account)
	w.transition(StateConnected, account, nil)
	return nil
}

// Connect 请求用户授权账户
// 已连接时直接返回当前账户；失败时回到 Disconnected 并发出提示
func (w *Workflow) Connect(ctx context.Context) (string, error) {
	w.mu.Lock()
	if w.account != "" {
		account := w.account
		w.mu.Unlock()
		return account, nil
	}
	if w.busy {
		w.mu.Unlock()
		return "", zkerrors.New(zkerrors.KindSubmissionInFlight, "workflow.connect", "a wallet request is already in progress", nil)
	}
	if !w.gateway.Available() {
		w.mu.Unlock()
		_, err := w.gateway.RequestConnection(ctx)
		w.logger.Warnf("connect wallet failed: %v", err)
		w.alert(err, "")
		return "", err
	}
	w.busy = true
	w.mu.Unlock()

	w.transition(StateConnecting, "", nil)
	account, err := w.gateway.RequestConnection(ctx)

	w.mu.Lock()
	w.busy = false
	w.mu.Unlock()

	if err != nil {
		w.logger.Warnf("connect wallet failed: %v", err)
		w.transition(StateDisconnected, "", nil)
		w.alert(err, "")
		return "", err
	}
	w.logger.Infof("wallet connected: %s", account)
	w.transition(StateConnected, account, nil)
	return account, nil
}

// ========== 提交 ==========

// Submit 用当前表单提交一次验证并等待确认
//
// 证明编码在提交时从当前表单重新计算。编码失败不改变状态；
// 交易提交或确认失败时进入 Failed，随后回到 Connected，账户和表单保持不变。
// 不会自动重试。
func (w *Workflow) Submit(ctx context.Context) (*Outcome, error) {
	const op = "workflow.submit"

	w.mu.Lock()
	if w.account == "" {
		w.mu.Unlock()
		err := zkerrors.New(zkerrors.KindNotConnected, op, "connect a wallet before submitting", nil)
		w.alert(err, "")
		return nil, err
	}
	if w.busy {
		w.mu.Unlock()
		err := zkerrors.New(zkerrors.KindSubmissionInFlight, op, "a submission is already in progress", nil)
		w.logger.Warn("submission rejected: another submission is in flight")
		w.alert(err, "")
		return nil, err
	}
	w.busy = true
	account := w.account
	form := w.form
	w.mu.Unlock()

	client, proofBytes, inputs, err := w.prepare(account, form)
	if err != nil {
		w.release()
		w.logger.Warnf("submission rejected: %v", err)
		w.alert(err, "")
		return nil, err
	}

	outcome := &Outcome{AttemptID: uuid.NewString(), StartedAt: time.Now()}
	logger := w.logger.With("attempt_id", outcome.AttemptID)
	logger.Debugf("proof: 0x%x", proofBytes)
	logger.Debugf("input: %v", inputs)

	w.transition(StateSubmitting, account, outcome)
	handle, err := client.Verify(ctx, proofBytes, inputs)
	if err != nil {
		logger.Errorf("submit verification failed: %v", err)
		return w.finish(outcome, nil, err)
	}

	outcome.TxHash = handle.Hash.Hex()
	logger.With("tx_hash", outcome.TxHash).Infof("Loading - %s", outcome.TxHash)
	w.transition(StateAwaitingConfirmation, account, outcome)

	confirmCtx := ctx
	if w.cfg.ConfirmTimeout > 0 {
		var cancel context.CancelFunc
		confirmCtx, cancel = context.WithTimeout(ctx, w.cfg.ConfirmTimeout)
		defer cancel()
	}
	receipt, err := handle.Confirm(confirmCtx)
	if err != nil {
		logger.With("tx_hash", outcome.TxHash).Errorf("transaction %s failed: %v", outcome.TxHash, err)
		return w.finish(outcome, receipt, err)
	}

	logger.With(
		"tx_hash", outcome.TxHash,
		"block_number", receipt.BlockNumber,
		"gas_used", receipt.GasUsed,
		"status", receipt.Status,
	).Infof("Success - %s", outcome.TxHash)
	return w.finish(outcome, receipt, nil)
}

// prepare 编码当前表单并绑定合约
func (w *Workflow) prepare(account string, form FormData) (*contract.Client, []byte, []*big.Int, error) {
	proofBytes, err := w.encoder.Encode(form.Proof)
	if err != nil {
		return nil, nil, nil, err
	}
	inputs, err := proof.ParseInputs(form.Input)
	if err != nil {
		return nil, nil, nil, err
	}

	signer, err := w.gateway.Signer(account)
	if err != nil {
		return nil, nil, nil, err
	}
	client, err := contract.Bind(w.cfg.ContractAddress, w.cfg.ABI, signer,
		contract.WithVerifyMethod(w.cfg.VerifyMethod),
		contract.WithPollInterval(w.cfg.PollInterval),
		contract.WithLogger(w.logger),
	)
	if err != nil {
		return nil, nil, nil, err
	}
	if size := client.InputSize(); size > 0 && len(inputs) != size {
		return nil, nil, nil, zkerrors.New(zkerrors.KindInvalidPublicInput, "workflow.submit",
			fmt.Sprintf("contract expects %d public inputs, got %d", size, len(inputs)), nil)
	}
	return client, proofBytes, inputs, nil
}

// finish 记录结果，经 Confirmed/Failed 回到 Connected
func (w *Workflow) finish(outcome *Outcome, receipt *types.Receipt, err error) (*Outcome, error) {
	outcome.FinishedAt = time.Now()
	if receipt != nil {
		if receipt.BlockNumber != nil {
			outcome.BlockNumber = receipt.BlockNumber.Uint64()
		}
		outcome.GasUsed = receipt.GasUsed
	}
	if err != nil {
		outcome.State = StateFailed
		outcome.ErrorKind = zkerrors.KindOf(err)
		outcome.Reason = failureReason(err)
	} else {
		outcome.State = StateConfirmed
	}

	w.mu.Lock()
	account := w.account
	last := *outcome
	w.last = &last
	w.mu.Unlock()

	// 回到 Connected 之后才释放，新的提交不会早于这次的 Connected 事件
	w.transition(outcome.State, account, outcome)
	w.transition(StateConnected, account, nil)
	w.release()

	if err != nil {
		w.alert(err, outcome.TxHash)
	}
	return outcome, err
}

func (w *Workflow) release() {
	w.mu.Lock()
	w.busy = false
	w.mu.Unlock()
}

// transition 切换状态并发布事件，发布时不持有锁
func (w *Workflow) transition(to State, account string, outcome *Outcome) {
	w.mu.Lock()
	prev := w.state
	w.state = to
	switch to {
	case StateConnected:
		w.account = account
	case StateDisconnected:
		w.account = ""
	}
	account = w.account
	w.mu.Unlock()

	ev := Event{
		Topic:    TopicState,
		State:    to,
		Previous: prev,
		Account:  account,
		Time:     time.Now(),
	}
	if outcome != nil {
		snapshot := *outcome
		ev.AttemptID = snapshot.AttemptID
		ev.TxHash = snapshot.TxHash
		if to == StateConfirmed || to == StateFailed {
			ev.Outcome = &snapshot
		}
	}
	w.logger.Debugf("state %s -> %s", prev, to)
	w.bus.Publish(TopicState, ev)
}

// alert 发布面向用户的提示
func (w *Workflow) alert(err error, txHash string) {
	w.bus.Publish(TopicAlert, Event{
		Topic:     TopicAlert,
		State:     w.State(),
		Account:   w.Account(),
		TxHash:    txHash,
		ErrorKind: zkerrors.KindOf(err),
		Message:   AlertMessage(err),
		Time:      time.Now(),
	})
}

// failureReason 面向用户的失败原因
func failureReason(err error) string {
	if reason := zkerrors.ReasonOf(err); reason != "" {
		return reason
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out waiting for confirmation"
	}
	if errors.Is(err, context.Canceled) {
		return "stopped waiting for confirmation"
	}
	return err.Error()
}
