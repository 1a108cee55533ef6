package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/zkverify/client/core/workflow"
	"github.com/weisyn/zkverify/client/core/zkerrors"
)

// gathered 按指标名与标签取值
func gathered(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue next
				}
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				return float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return 0
}

func TestWorkflowMetrics_OnState(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	start := time.Now()
	events := []workflow.Event{
		{State: workflow.StateConnecting, Previous: workflow.StateDisconnected},
		{State: workflow.StateConnected, Previous: workflow.StateConnecting},
		{State: workflow.StateSubmitting, Previous: workflow.StateConnected},
		{State: workflow.StateAwaitingConfirmation, Previous: workflow.StateSubmitting},
		{State: workflow.StateConfirmed, Previous: workflow.StateAwaitingConfirmation, Outcome: &workflow.Outcome{
			State: workflow.StateConfirmed, StartedAt: start, FinishedAt: start.Add(3 * time.Second),
		}},
		{State: workflow.StateConnected, Previous: workflow.StateConfirmed},
		{State: workflow.StateSubmitting, Previous: workflow.StateConnected},
		{State: workflow.StateFailed, Previous: workflow.StateSubmitting, Outcome: &workflow.Outcome{
			State: workflow.StateFailed, ErrorKind: zkerrors.KindSubmissionFailed, StartedAt: start, FinishedAt: start.Add(time.Second),
		}},
		{State: workflow.StateConnected, Previous: workflow.StateFailed},
	}
	for _, ev := range events {
		m.OnState(ev)
	}

	t.Run("状态计数", func(t *testing.T) {
		assert.Equal(t, 3.0, gathered(t, reg, "zkverify_workflow_transitions_total", map[string]string{"state": "Connected"}))
		assert.Equal(t, 2.0, gathered(t, reg, "zkverify_workflow_transitions_total", map[string]string{"state": "Submitting"}))
	})

	t.Run("连接只统计一次", func(t *testing.T) {
		assert.Equal(t, 1.0, gathered(t, reg, "zkverify_wallet_connections_total", map[string]string{"result": "connected"}))
	})

	t.Run("提交结果", func(t *testing.T) {
		assert.Equal(t, 1.0, gathered(t, reg, "zkverify_verifier_submissions_total",
			map[string]string{"result": "confirmed", "error_kind": ""}))
		assert.Equal(t, 1.0, gathered(t, reg, "zkverify_verifier_submissions_total",
			map[string]string{"result": "failed", "error_kind": "SubmissionFailed"}))
		assert.Equal(t, 2.0, gathered(t, reg, "zkverify_verifier_submission_duration_seconds", nil))
	})

	t.Run("结束后不在进行中", func(t *testing.T) {
		assert.Equal(t, 0.0, gathered(t, reg, "zkverify_verifier_submissions_in_flight", nil))
	})
}

func TestWorkflowMetrics_ConnectFailed(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.OnState(workflow.Event{State: workflow.StateConnecting, Previous: workflow.StateDisconnected})
	m.OnState(workflow.Event{State: workflow.StateDisconnected, Previous: workflow.StateConnecting})
	m.OnAlert(workflow.Event{ErrorKind: zkerrors.KindUserRejected})

	assert.Equal(t, 1.0, gathered(t, reg, "zkverify_wallet_connections_total", map[string]string{"result": "failed"}))
	assert.Equal(t, 1.0, gathered(t, reg, "zkverify_workflow_alerts_total", map[string]string{"error_kind": "UserRejected"}))
}

func TestWorkflowMetrics_InFlight(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.OnState(workflow.Event{State: workflow.StateSubmitting, Previous: workflow.StateConnected})
	assert.Equal(t, 1.0, gathered(t, reg, "zkverify_verifier_submissions_in_flight", nil))
}
