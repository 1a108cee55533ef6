package flows

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/weisyn/zkverify/client/core/workflow"
	"github.com/weisyn/zkverify/client/pkg/ux/ui"
)

// 菜单项
const (
	actionConnect = "Connect wallet"
	actionProof   = "Edit proof"
	actionInput   = "Edit public input"
	actionSubmit  = "Verify proof"
	actionStatus  = "Show status"
	actionQuit    = "Quit"
)

// VerifyFlow 交互式验证会话
// 错误已由工作流转为提示，流程本身只在界面故障时返回错误
type VerifyFlow struct {
	ui      ui.Components
	service VerifyService
}

// NewVerifyFlow 创建交互式验证会话
func NewVerifyFlow(components ui.Components, service VerifyService) *VerifyFlow {
	return &VerifyFlow{ui: components, service: service}
}

// Run 循环显示菜单直到用户退出或 ctx 结束
func (f *VerifyFlow) Run(ctx context.Context) error {
	_ = f.ui.ShowHeader("zkverify session")
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		options := f.menu()
		idx, err := f.ui.ShowMenu("Choose an action", options)
		if err != nil {
			if errors.Is(err, ui.ErrCanceled) {
				return nil
			}
			return fmt.Errorf("show menu: %w", err)
		}

		switch options[idx] {
		case actionConnect:
			_, _ = f.service.Connect(ctx)
		case actionProof:
			if err := f.editField(workflow.FieldProof, "Proof", "proof (0x-hex, text, or snarkjs JSON)"); err != nil {
				return err
			}
		case actionInput:
			if err := f.editField(workflow.FieldInput, "Public input", "public input (decimal or 0x-hex, comma separated)"); err != nil {
				return err
			}
		case actionSubmit:
			_, _ = f.service.Submit(ctx)
		case actionStatus:
			f.ShowStatus()
		case actionQuit:
			return nil
		}
	}
}

// menu 已连接时不再显示连接项
func (f *VerifyFlow) menu() []string {
	snap := f.service.Snapshot()
	options := make([]string, 0, 6)
	if snap.Account == "" {
		options = append(options, actionConnect)
	}
	return append(options, actionProof, actionInput, actionSubmit, actionStatus, actionQuit)
}

func (f *VerifyFlow) editField(name, title, prompt string) error {
	value, err := f.ui.ShowInputDialog(title, prompt)
	if err != nil {
		if errors.Is(err, ui.ErrCanceled) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	return f.service.SetField(name, value)
}

// ShowStatus 显示当前状态与最近一次提交结果
func (f *VerifyFlow) ShowStatus() {
	snap := f.service.Snapshot()
	_ = f.ui.ShowKeyValuePairs("Status", StatusKeys(snap), StatusPairs(snap))
}

// StatusKeys 状态表的键顺序
func StatusKeys(snap workflow.Snapshot) []string {
	keys := []string{"state", "account", "proof", "input", "can_submit"}
	if snap.LastOutcome != nil {
		keys = append(keys, "last_attempt", "last_result", "last_tx", "last_block", "last_reason")
	}
	return keys
}

// StatusPairs 状态表内容
func StatusPairs(snap workflow.Snapshot) map[string]string {
	account := snap.Account
	if account == "" {
		account = "(not connected)"
	}
	pairs := map[string]string{
		"state":      snap.State.String(),
		"account":    account,
		"proof":      ui.TruncateString(snap.Form.Proof, 48),
		"input":      ui.TruncateString(snap.Form.Input, 48),
		"can_submit": strconv.FormatBool(snap.CanSubmit),
	}
	if o := snap.LastOutcome; o != nil {
		pairs["last_attempt"] = o.AttemptID
		pairs["last_result"] = o.State.String()
		pairs["last_tx"] = o.TxHash
		pairs["last_block"] = strconv.FormatUint(o.BlockNumber, 10)
		pairs["last_reason"] = o.Reason
	}
	return pairs
}
