package flows

import (
	"context"

	"github.com/weisyn/zkverify/client/core/workflow"
)

// VerifyService 交互式验证流程依赖的工作流能力
// *workflow.Workflow 实现该接口
type VerifyService interface {
	// Snapshot 当前状态快照
	Snapshot() workflow.Snapshot

	// Connect 请求钱包授权
	Connect(ctx context.Context) (string, error)

	// SetField 更新表单字段（proof/input）
	SetField(name, value string) error

	// Submit 提交当前表单并等待确认
	Submit(ctx context.Context) (*workflow.Outcome, error)
}
