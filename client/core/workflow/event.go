package workflow

import (
	"time"

	"github.com/weisyn/zkverify/client/core/zkerrors"
	"github.com/weisyn/zkverify/pkg/interfaces/infrastructure/event"
)

// 工作流事件主题
const (
	TopicState event.EventType = "workflow:state" // 状态变化
	TopicAlert event.EventType = "workflow:alert" // 面向用户的提示
)

// Outcome 一次提交的结果
type Outcome struct {
	AttemptID   string        `json:"attempt_id"`
	State       State         `json:"state"`
	TxHash      string        `json:"tx_hash,omitempty"`
	BlockNumber uint64        `json:"block_number,omitempty"`
	GasUsed     uint64        `json:"gas_used,omitempty"`
	ErrorKind   zkerrors.Kind `json:"error_kind,omitempty"`
	Reason      string        `json:"reason,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  time.Time     `json:"finished_at"`
}

// Duration 从提交到结束的耗时
func (o *Outcome) Duration() time.Duration {
	return o.FinishedAt.Sub(o.StartedAt)
}

// Event 工作流发布的事件
type Event struct {
	Topic     event.EventType `json:"topic"`
	State     State           `json:"state"`
	Previous  State           `json:"previous"`
	Account   string          `json:"account,omitempty"`
	AttemptID string          `json:"attempt_id,omitempty"`
	TxHash    string          `json:"tx_hash,omitempty"`
	Outcome   *Outcome        `json:"outcome,omitempty"`
	ErrorKind zkerrors.Kind   `json:"error_kind,omitempty"`
	Message   string          `json:"message,omitempty"`
	Time      time.Time       `json:"time"`
}

// Snapshot 工作流状态的只读副本
type Snapshot struct {
	State       State    `json:"state"`
	Account     string   `json:"account"`
	Form        FormData `json:"form"`
	CanSubmit   bool     `json:"can_submit"`
	LastOutcome *Outcome `json:"last_outcome,omitempty"`
}
