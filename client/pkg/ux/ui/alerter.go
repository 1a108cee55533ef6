package ui

import (
	"fmt"

	"github.com/weisyn/zkverify/client/core/workflow"
	"github.com/weisyn/zkverify/client/core/zkerrors"
	"github.com/weisyn/zkverify/pkg/interfaces/infrastructure/event"
)

// Subscriber 可订阅工作流事件的对象
type Subscriber interface {
	Subscribe(topic event.EventType, handler func(workflow.Event)) error
}

// Alerter 把工作流事件显示为终端提示和状态行
type Alerter struct {
	ui Components
}

// NewAlerter 创建提示器
func NewAlerter(components Components) *Alerter {
	return &Alerter{ui: components}
}

// Attach 同步订阅状态与提示事件，输出顺序与状态变化一致
func (a *Alerter) Attach(s Subscriber) error {
	if err := s.Subscribe(workflow.TopicState, a.OnState); err != nil {
		return fmt.Errorf("subscribe state events: %w", err)
	}
	if err := s.Subscribe(workflow.TopicAlert, a.OnAlert); err != nil {
		return fmt.Errorf("subscribe alert events: %w", err)
	}
	return nil
}

// OnAlert 显示用户提示
func (a *Alerter) OnAlert(ev workflow.Event) {
	switch ev.ErrorKind {
	case zkerrors.KindNotConnected, zkerrors.KindSubmissionInFlight:
		_ = a.ui.ShowWarning(ev.Message)
	default:
		_ = a.ui.ShowError(ev.Message)
	}
}

// OnState 显示状态行
func (a *Alerter) OnState(ev workflow.Event) {
	switch ev.State {
	case workflow.StateConnecting:
		_ = a.ui.ShowInfo("waiting for wallet authorization")
	case workflow.StateConnected:
		if ev.Previous == workflow.StateDisconnected || ev.Previous == workflow.StateConnecting {
			_ = a.ui.ShowSuccess("wallet connected: " + ev.Account)
		}
	case workflow.StateSubmitting:
		_ = a.ui.ShowLoadingMessage("submitting proof to the verifier contract")
	case workflow.StateAwaitingConfirmation:
		_ = a.ui.ShowLoadingMessage("Loading - " + ev.TxHash)
	case workflow.StateConfirmed:
		msg := "Success - " + ev.TxHash
		if ev.Outcome != nil && ev.Outcome.BlockNumber > 0 {
			msg = fmt.Sprintf("%s (block %d, %s)", msg, ev.Outcome.BlockNumber, FormatDuration(ev.Outcome.Duration()))
		}
		_ = a.ui.ShowSuccess(msg)
	}
}
