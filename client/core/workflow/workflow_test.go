package workflow

import (
	"context"
	"encoding/json"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/weisyn/zkverify/client/core/contract"
	"github.com/weisyn/zkverify/client/core/wallet"
	"github.com/weisyn/zkverify/client/core/zkerrors"
	eventimpl "github.com/weisyn/zkverify/internal/core/infrastructure/event"
	logimpl "github.com/weisyn/zkverify/internal/core/infrastructure/log"
)

const testContract = "0x00000000000000000000000000000000000000aa"

var (
	testAccount = common.HexToAddress("0xabc0000000000000000000000000000000000001").Hex()
	testTxHash  = common.HexToHash("0x7101")
)

// recorder 记录工作流发布的事件
type recorder struct {
	mu     sync.Mutex
	states []State
	events []Event
	alerts []Event
}

func (r *recorder) onState(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, ev.State)
	r.events = append(r.events, ev)
}

func (r *recorder) onAlert(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, ev)
}

func (r *recorder) States() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

func (r *recorder) Alerts() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.alerts...)
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states, r.events, r.alerts = nil, nil, nil
}

type harness struct {
	wf   *Workflow
	rec  *recorder
	logs *observer.ObservedLogs
}

func newHarness(t *testing.T, provider wallet.Provider, mutate ...func(*Config)) *harness {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	logger := logimpl.NewFromZap(zap.New(core))

	cfg := Config{
		ContractAddress: testContract,
		ABI:             contract.DefaultABI(),
		PollInterval:    time.Millisecond,
	}
	for _, m := range mutate {
		m(&cfg)
	}

	wf := New(wallet.NewGateway(provider, logger), cfg, eventimpl.New(), logger)
	rec := &recorder{}
	require.NoError(t, wf.Subscribe(TopicState, rec.onState))
	require.NoError(t, wf.Subscribe(TopicAlert, rec.onAlert))
	return &harness{wf: wf, rec: rec, logs: logs}
}

// connected 返回已预授权 testAccount 的 MockProvider
func connectedProvider() *wallet.MockProvider {
	return wallet.NewMockProvider().Returns(wallet.MethodAccounts, []string{testAccount})
}

func successReceipt() *types.Receipt {
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      testTxHash,
		BlockNumber: big.NewInt(21),
		GasUsed:     30000,
		Logs:        []*types.Log{},
	}
}

// decodeVerifyCall 解码 eth_sendTransaction 参数中的 verifyTx 调用
func decodeVerifyCall(t *testing.T, param interface{}) ([]byte, []*big.Int) {
	t.Helper()
	raw, err := json.Marshal(param)
	require.NoError(t, err)
	var tx wallet.TxRequest
	require.NoError(t, json.Unmarshal(raw, &tx))

	method := contract.DefaultABI().Methods[contract.DefaultVerifyMethod]
	values, err := method.Inputs.Unpack(tx.Data[4:])
	require.NoError(t, err)
	return values[0].([]byte), values[1].([]*big.Int)
}

func revertData(t *testing.T, reason string) string {
	t.Helper()
	strType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: strType}}.Pack(reason)
	require.NoError(t, err)
	return hexutil.Encode(append([]byte{0x08, 0xc3, 0x79, 0xa0}, packed...))
}

func TestScenario_NoProvider(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	err := h.wf.Init(ctx)
	assert.ErrorIs(t, err, zkerrors.ErrProviderUnavailable)
	assert.Equal(t, StateDisconnected, h.wf.State())

	_, err = h.wf.Connect(ctx)
	assert.ErrorIs(t, err, zkerrors.ErrProviderUnavailable)
	assert.Equal(t, StateDisconnected, h.wf.State())
	assert.Empty(t, h.wf.Account())
	assert.Empty(t, h.rec.States())

	alerts := h.rec.Alerts()
	require.Len(t, alerts, 2)
	for _, a := range alerts {
		assert.Equal(t, zkerrors.KindProviderUnavailable, a.ErrorKind)
		assert.Contains(t, a.Message, "Install a wallet")
	}
}

func TestScenario_PreAuthorizedAccount(t *testing.T) {
	m := connectedProvider()
	h := newHarness(t, m)

	require.NoError(t, h.wf.Init(context.Background()))
	assert.Equal(t, StateConnected, h.wf.State())
	assert.Equal(t, testAccount, h.wf.Account())
	assert.Equal(t, []State{StateConnected}, h.rec.States())
	assert.Equal(t, 0, m.CallCount(wallet.MethodRequestAccounts), "不应弹出授权提示")
	assert.Empty(t, h.rec.Alerts())
}

func TestScenario_NoAuthorizedAccount(t *testing.T) {
	h := newHarness(t, wallet.NewMockProvider().Returns(wallet.MethodAccounts, []string{}))

	require.NoError(t, h.wf.Init(context.Background()))
	assert.Equal(t, StateDisconnected, h.wf.State())
	assert.Empty(t, h.rec.States())
}

func TestScenario_SubmitConfirmed(t *testing.T) {
	m := connectedProvider().
		Returns(wallet.MethodSendTransaction, testTxHash).
		Returns(wallet.MethodGetReceipt, successReceipt())
	h := newHarness(t, m)
	ctx := context.Background()
	require.NoError(t, h.wf.Init(ctx))
	h.rec.reset()

	h.wf.SetProof("p1")
	h.wf.SetInput("42")
	outcome, err := h.wf.Submit(ctx)
	require.NoError(t, err)

	assert.Equal(t, StateConfirmed, outcome.State)
	assert.Equal(t, testTxHash.Hex(), outcome.TxHash)
	assert.Equal(t, uint64(21), outcome.BlockNumber)
	assert.NotEmpty(t, outcome.AttemptID)
	assert.Equal(t, []State{StateSubmitting, StateAwaitingConfirmation, StateConfirmed, StateConnected}, h.rec.States())
	assert.Equal(t, StateConnected, h.wf.State())
	assert.Equal(t, testAccount, h.wf.Account())

	// 提交与确认各记录一次交易哈希
	assert.Equal(t, 2, h.logs.FilterMessageSnippet(testTxHash.Hex()).Len())
	assert.Equal(t, 1, h.logs.FilterMessage("Loading - "+testTxHash.Hex()).Len())
	assert.Equal(t, 1, h.logs.FilterMessage("Success - "+testTxHash.Hex()).Len())

	calls := m.Calls(wallet.MethodSendTransaction)
	require.Len(t, calls, 1)
	proofBytes, inputs := decodeVerifyCall(t, calls[0].Params[0])
	assert.Equal(t, []byte("p1"), proofBytes)
	require.Len(t, inputs, 1)
	assert.Equal(t, int64(42), inputs[0].Int64())

	// 表单在成功后保持不变
	assert.Equal(t, FormData{Proof: "p1", Input: "42"}, h.wf.Form())

	snap := h.wf.Snapshot()
	assert.True(t, snap.CanSubmit)
	require.NotNil(t, snap.LastOutcome)
	assert.Equal(t, StateConfirmed, snap.LastOutcome.State)
}

func TestScenario_SubmissionThrows(t *testing.T) {
	m := connectedProvider().Fails(wallet.MethodSendTransaction,
		&wallet.ProviderError{Code: wallet.CodeUserRejected, Message: "User denied transaction signature."})
	h := newHarness(t, m)
	ctx := context.Background()
	require.NoError(t, h.wf.Init(ctx))
	h.rec.reset()

	h.wf.SetProof("p1")
	h.wf.SetInput("42")
	outcome, err := h.wf.Submit(ctx)
	assert.ErrorIs(t, err, zkerrors.ErrSubmissionFailed)

	require.NotNil(t, outcome)
	assert.Equal(t, StateFailed, outcome.State)
	assert.Equal(t, zkerrors.KindSubmissionFailed, outcome.ErrorKind)
	assert.Equal(t, "User denied transaction signature.", outcome.Reason)
	assert.Empty(t, outcome.TxHash)

	assert.Equal(t, []State{StateSubmitting, StateFailed, StateConnected}, h.rec.States())
	assert.Equal(t, testAccount, h.wf.Account())
	assert.Equal(t, FormData{Proof: "p1", Input: "42"}, h.wf.Form())
	assert.Equal(t, 0, m.CallCount(wallet.MethodGetReceipt))

	alerts := h.rec.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, zkerrors.KindSubmissionFailed, alerts[0].ErrorKind)
}

func TestSubmit_NeverVerifiesWithoutAccount(t *testing.T) {
	type action int
	const (
		connect action = iota
		submit
	)

	cases := []struct {
		name      string
		authorize bool
		actions   []action
		wantSends int
	}{
		{"只提交", false, []action{submit, submit}, 0},
		{"连接被拒后提交", false, []action{connect, submit, connect, submit}, 0},
		{"连接成功后提交", true, []action{submit, connect, submit, submit}, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := wallet.NewMockProvider().
				Returns(wallet.MethodSendTransaction, testTxHash).
				Returns(wallet.MethodGetReceipt, successReceipt())
			if tc.authorize {
				m.Returns(wallet.MethodRequestAccounts, []string{testAccount})
			} else {
				m.Fails(wallet.MethodRequestAccounts, &wallet.ProviderError{Code: wallet.CodeUserRejected, Message: "rejected"})
			}
			h := newHarness(t, m)
			h.wf.SetProof("p1")
			h.wf.SetInput("1")

			ctx := context.Background()
			for _, a := range tc.actions {
				sendsBefore := m.CallCount(wallet.MethodSendTransaction)
				accountBefore := h.wf.Account()
				switch a {
				case connect:
					_, _ = h.wf.Connect(ctx)
				case submit:
					_, err := h.wf.Submit(ctx)
					if accountBefore == "" {
						assert.ErrorIs(t, err, zkerrors.ErrNotConnected)
						assert.Equal(t, sendsBefore, m.CallCount(wallet.MethodSendTransaction))
					}
				}
			}
			assert.Equal(t, tc.wantSends, m.CallCount(wallet.MethodSendTransaction))
		})
	}
}

func TestSubmit_RecomputesEncoding(t *testing.T) {
	var mu sync.Mutex
	var proofs [][]byte
	attempt := 0
	m := connectedProvider().
		Returns(wallet.MethodGetReceipt, successReceipt()).
		On(wallet.MethodSendTransaction, func(_ context.Context, params []interface{}) (interface{}, error) {
			p, _ := decodeVerifyCall(t, params[0])
			mu.Lock()
			defer mu.Unlock()
			proofs = append(proofs, p)
			attempt++
			if attempt == 1 {
				return nil, &wallet.ProviderError{Code: -32000, Message: "insufficient funds for gas * price + value"}
			}
			return testTxHash, nil
		})
	h := newHarness(t, m)
	ctx := context.Background()
	require.NoError(t, h.wf.Init(ctx))

	h.wf.SetProof("p1")
	h.wf.SetInput("42")
	_, err := h.wf.Submit(ctx)
	require.ErrorIs(t, err, zkerrors.ErrSubmissionFailed)

	h.wf.SetProof("0x7032")
	outcome, err := h.wf.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, outcome.State)

	require.Len(t, proofs, 2)
	assert.Equal(t, []byte("p1"), proofs[0])
	assert.Equal(t, []byte{0x70, 0x32}, proofs[1])
}

func TestSubmit_RejectsConcurrentSubmission(t *testing.T) {
	sendEntered := make(chan struct{})
	releaseSend := make(chan struct{})
	receiptEntered := make(chan struct{})
	releaseReceipt := make(chan struct{})
	var sendOnce, receiptOnce sync.Once

	m := connectedProvider().
		On(wallet.MethodSendTransaction, func(context.Context, []interface{}) (interface{}, error) {
			sendOnce.Do(func() { close(sendEntered) })
			<-releaseSend
			return testTxHash, nil
		}).
		On(wallet.MethodGetReceipt, func(context.Context, []interface{}) (interface{}, error) {
			receiptOnce.Do(func() { close(receiptEntered) })
			<-releaseReceipt
			return successReceipt(), nil
		})
	h := newHarness(t, m)
	ctx := context.Background()
	require.NoError(t, h.wf.Init(ctx))
	h.wf.SetProof("p1")
	h.wf.SetInput("42")

	type result struct {
		outcome *Outcome
		err     error
	}
	done := make(chan result, 1)
	go func() {
		o, err := h.wf.Submit(ctx)
		done <- result{o, err}
	}()

	<-sendEntered
	assert.Equal(t, StateSubmitting, h.wf.State())
	assert.False(t, h.wf.Snapshot().CanSubmit)
	_, err := h.wf.Submit(ctx)
	assert.ErrorIs(t, err, zkerrors.ErrSubmissionInFlight)
	close(releaseSend)

	<-receiptEntered
	assert.Equal(t, StateAwaitingConfirmation, h.wf.State())
	assert.False(t, h.wf.Snapshot().CanSubmit)
	_, err = h.wf.Submit(ctx)
	assert.ErrorIs(t, err, zkerrors.ErrSubmissionInFlight)
	close(releaseReceipt)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, StateConfirmed, res.outcome.State)
	assert.Equal(t, 1, m.CallCount(wallet.MethodSendTransaction))
	assert.True(t, h.wf.Snapshot().CanSubmit)
}

func TestSubmit_InvalidFormRejectedWithoutTransition(t *testing.T) {
	cases := []struct {
		name    string
		proof   string
		input   string
		wantErr *zkerrors.Error
	}{
		{"证明为空", "", "42", zkerrors.ErrInvalidProofEncoding},
		{"证明十六进制非法", "0xzz", "42", zkerrors.ErrInvalidProofEncoding},
		{"输入为空", "p1", " ", zkerrors.ErrInvalidPublicInput},
		{"输入不是数字", "p1", "abc", zkerrors.ErrInvalidPublicInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := connectedProvider().Returns(wallet.MethodSendTransaction, testTxHash)
			h := newHarness(t, m)
			ctx := context.Background()
			require.NoError(t, h.wf.Init(ctx))
			h.rec.reset()

			h.wf.SetProof(tc.proof)
			h.wf.SetInput(tc.input)
			outcome, err := h.wf.Submit(ctx)
			assert.Nil(t, outcome)
			assert.ErrorIs(t, err, tc.wantErr)

			assert.Empty(t, h.rec.States())
			assert.Equal(t, StateConnected, h.wf.State())
			assert.Equal(t, 0, m.CallCount(wallet.MethodSendTransaction))
			require.Len(t, h.rec.Alerts(), 1)
			assert.True(t, h.wf.Snapshot().CanSubmit)
		})
	}
}

func TestSubmit_FixedInputCountMismatch(t *testing.T) {
	fixed, err := contract.ParseABI(strings.NewReader(`[{"type":"function","name":"verifyTx",
		"inputs":[{"name":"proof","type":"bytes"},{"name":"input","type":"uint256[2]"}],"outputs":[]}]`))
	require.NoError(t, err)

	m := connectedProvider().Returns(wallet.MethodSendTransaction, testTxHash)
	h := newHarness(t, m, func(c *Config) { c.ABI = fixed })
	ctx := context.Background()
	require.NoError(t, h.wf.Init(ctx))
	h.rec.reset()

	h.wf.SetProof("p1")
	h.wf.SetInput("1")
	_, err = h.wf.Submit(ctx)
	assert.ErrorIs(t, err, zkerrors.ErrInvalidPublicInput)
	assert.Empty(t, h.rec.States())
	assert.Equal(t, 0, m.CallCount(wallet.MethodSendTransaction))
}

func TestSubmit_Reverted(t *testing.T) {
	failed := successReceipt()
	failed.Status = types.ReceiptStatusFailed
	m := connectedProvider().
		Returns(wallet.MethodSendTransaction, testTxHash).
		Returns(wallet.MethodGetReceipt, failed).
		Fails(wallet.MethodCall, &wallet.ProviderError{Code: 3, Message: "execution reverted", Data: revertData(t, "invalid proof")})
	h := newHarness(t, m)
	ctx := context.Background()
	require.NoError(t, h.wf.Init(ctx))
	h.rec.reset()

	h.wf.SetProof("p1")
	h.wf.SetInput("42")
	outcome, err := h.wf.Submit(ctx)
	assert.ErrorIs(t, err, zkerrors.ErrTransactionReverted)
	assert.Equal(t, StateFailed, outcome.State)
	assert.Equal(t, zkerrors.KindTransactionReverted, outcome.ErrorKind)
	assert.Equal(t, "invalid proof", outcome.Reason)
	assert.Equal(t, testTxHash.Hex(), outcome.TxHash)
	assert.Equal(t, []State{StateSubmitting, StateAwaitingConfirmation, StateFailed, StateConnected}, h.rec.States())

	alerts := h.rec.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, "transaction reverted: invalid proof", alerts[0].Message)
	assert.Equal(t, testTxHash.Hex(), alerts[0].TxHash)
}

func TestSubmit_ConfirmTimeout(t *testing.T) {
	m := connectedProvider().
		Returns(wallet.MethodSendTransaction, testTxHash).
		Returns(wallet.MethodGetReceipt, nil)
	h := newHarness(t, m, func(c *Config) { c.ConfirmTimeout = 20 * time.Millisecond })
	ctx := context.Background()
	require.NoError(t, h.wf.Init(ctx))

	h.wf.SetProof("p1")
	h.wf.SetInput("42")
	outcome, err := h.wf.Submit(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, zkerrors.ErrConfirmationFailed)
	assert.Equal(t, StateFailed, outcome.State)
	assert.Equal(t, zkerrors.KindConfirmationFailed, outcome.ErrorKind)
	assert.Equal(t, "timed out waiting for confirmation", outcome.Reason)
	assert.Equal(t, StateConnected, h.wf.State())
}

func TestSubmit_ReceiptQueryErrorKeepsWaiting(t *testing.T) {
	polls := 0
	m := connectedProvider().
		Returns(wallet.MethodSendTransaction, testTxHash).
		On(wallet.MethodGetReceipt, func(context.Context, []interface{}) (interface{}, error) {
			polls++
			if polls == 1 {
				return nil, &wallet.ProviderError{Code: -32603, Message: "header not found"}
			}
			return successReceipt(), nil
		})
	h := newHarness(t, m)
	ctx := context.Background()
	require.NoError(t, h.wf.Init(ctx))
	h.rec.reset()

	h.wf.SetProof("p1")
	h.wf.SetInput("42")
	outcome, err := h.wf.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, outcome.State)
	assert.Equal(t, 2, polls)
	assert.Equal(t, 1, m.CallCount(wallet.MethodSendTransaction))
	assert.Empty(t, h.rec.Alerts())
	assert.Equal(t, 1, h.logs.FilterMessageSnippet("header not found").Len())
}

func TestSubmit_ReceiptQueryErrorUntilTimeout(t *testing.T) {
	m := connectedProvider().
		Returns(wallet.MethodSendTransaction, testTxHash).
		Fails(wallet.MethodGetReceipt, &wallet.ProviderError{Code: -32603, Message: "header not found"})
	h := newHarness(t, m, func(c *Config) { c.ConfirmTimeout = 20 * time.Millisecond })
	ctx := context.Background()
	require.NoError(t, h.wf.Init(ctx))
	h.rec.reset()

	h.wf.SetProof("p1")
	h.wf.SetInput("42")
	outcome, err := h.wf.Submit(ctx)
	assert.ErrorIs(t, err, zkerrors.ErrConfirmationFailed)
	assert.Equal(t, zkerrors.KindConfirmationFailed, outcome.ErrorKind)
	assert.Contains(t, outcome.Reason, "header not found")
	assert.Greater(t, m.CallCount(wallet.MethodGetReceipt), 1)

	alerts := h.rec.Alerts()
	require.Len(t, alerts, 1)
	assert.Contains(t, alerts[0].Message, "transaction not confirmed: ")
}

func TestSubmit_ReleasesAfterConnectedEvent(t *testing.T) {
	m := connectedProvider().
		Returns(wallet.MethodSendTransaction, testTxHash).
		Returns(wallet.MethodGetReceipt, successReceipt())
	h := newHarness(t, m)
	ctx := context.Background()
	require.NoError(t, h.wf.Init(ctx))

	var during []bool
	require.NoError(t, h.wf.Subscribe(TopicState, func(ev Event) {
		if ev.State == StateConnected && ev.Previous == StateConfirmed {
			during = append(during, h.wf.Snapshot().CanSubmit)
		}
	}))

	h.wf.SetProof("p1")
	h.wf.SetInput("42")
	_, err := h.wf.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, []bool{false}, during)
	assert.True(t, h.wf.Snapshot().CanSubmit)
}

func TestConnect(t *testing.T) {
	t.Run("授权成功", func(t *testing.T) {
		m := wallet.NewMockProvider().Returns(wallet.MethodRequestAccounts, []string{testAccount})
		h := newHarness(t, m)

		account, err := h.wf.Connect(context.Background())
		require.NoError(t, err)
		assert.Equal(t, testAccount, account)
		assert.Equal(t, []State{StateConnecting, StateConnected}, h.rec.States())

		// 已连接时再次连接不发起请求
		again, err := h.wf.Connect(context.Background())
		require.NoError(t, err)
		assert.Equal(t, testAccount, again)
		assert.Equal(t, 1, m.CallCount(wallet.MethodRequestAccounts))
	})

	t.Run("用户拒绝", func(t *testing.T) {
		m := wallet.NewMockProvider().Fails(wallet.MethodRequestAccounts,
			&wallet.ProviderError{Code: wallet.CodeUserRejected, Message: "User rejected the request."})
		h := newHarness(t, m)

		_, err := h.wf.Connect(context.Background())
		assert.ErrorIs(t, err, zkerrors.ErrUserRejected)
		assert.Equal(t, []State{StateConnecting, StateDisconnected}, h.rec.States())
		assert.Equal(t, StateDisconnected, h.wf.State())

		alerts := h.rec.Alerts()
		require.Len(t, alerts, 1)
		assert.Equal(t, zkerrors.KindUserRejected, alerts[0].ErrorKind)
	})

	t.Run("连接中不接受第二次连接", func(t *testing.T) {
		entered := make(chan struct{})
		release := make(chan struct{})
		m := wallet.NewMockProvider().On(wallet.MethodRequestAccounts, func(context.Context, []interface{}) (interface{}, error) {
			close(entered)
			<-release
			return []string{testAccount}, nil
		})
		h := newHarness(t, m)

		done := make(chan error, 1)
		go func() {
			_, err := h.wf.Connect(context.Background())
			done <- err
		}()
		<-entered
		assert.Equal(t, StateConnecting, h.wf.State())
		_, err := h.wf.Connect(context.Background())
		assert.ErrorIs(t, err, zkerrors.ErrSubmissionInFlight)
		close(release)
		require.NoError(t, <-done)
		assert.Equal(t, StateConnected, h.wf.State())
	})
}

func TestSetField(t *testing.T) {
	h := newHarness(t, wallet.NewMockProvider())

	require.NoError(t, h.wf.SetField(FieldProof, "a"))
	require.NoError(t, h.wf.SetField(FieldInput, "b"))
	assert.Error(t, h.wf.SetField("memo", "c"))
	assert.Equal(t, FormData{Proof: "a", Input: "b"}, h.wf.Form())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "AwaitingConfirmation", StateAwaitingConfirmation.String())
	assert.Equal(t, "Unknown", State(99).String())

	data, err := json.Marshal(Snapshot{State: StateConnected})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"state":"Connected"`)
}
