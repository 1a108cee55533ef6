// Package metrics 把工作流事件转换为 Prometheus 指标
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/weisyn/zkverify/client/core/workflow"
	"github.com/weisyn/zkverify/pkg/interfaces/infrastructure/event"
)

const namespace = "zkverify"

// Subscriber 可订阅工作流事件的对象
type Subscriber interface {
	SubscribeAsync(topic event.EventType, handler func(workflow.Event)) error
}

// WorkflowMetrics 工作流指标
type WorkflowMetrics struct {
	transitions *prometheus.CounterVec
	connections *prometheus.CounterVec
	submissions *prometheus.CounterVec
	alerts      *prometheus.CounterVec
	duration    prometheus.Histogram
	inFlight    prometheus.Gauge
}

// New 在给定注册器上创建指标
func New(reg prometheus.Registerer) *WorkflowMetrics {
	factory := promauto.With(reg)
	return &WorkflowMetrics{
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "workflow",
				Name:      "transitions_total",
				Help:      "Workflow state transitions by target state",
			},
			[]string{"state"},
		),
		connections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "wallet",
				Name:      "connections_total",
				Help:      "Wallet connection attempts by result",
			},
			[]string{"result"},
		),
		submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "verifier",
				Name:      "submissions_total",
				Help:      "Finished proof submissions by result and error kind",
			},
			[]string{"result", "error_kind"},
		),
		alerts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "workflow",
				Name:      "alerts_total",
				Help:      "User-visible alerts by error kind",
			},
			[]string{"error_kind"},
		),
		duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "verifier",
				Name:      "submission_duration_seconds",
				Help:      "Time from submission to confirmation or failure",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
			},
		),
		inFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "verifier",
				Name:      "submissions_in_flight",
				Help:      "Whether a submission is waiting for submit or confirmation",
			},
		),
	}
}

// Attach 异步订阅工作流事件
func (m *WorkflowMetrics) Attach(s Subscriber) error {
	if err := s.SubscribeAsync(workflow.TopicState, m.OnState); err != nil {
		return fmt.Errorf("subscribe state events: %w", err)
	}
	if err := s.SubscribeAsync(workflow.TopicAlert, m.OnAlert); err != nil {
		return fmt.Errorf("subscribe alert events: %w", err)
	}
	return nil
}

// OnState 记录一次状态变化
func (m *WorkflowMetrics) OnState(ev workflow.Event) {
	m.transitions.WithLabelValues(ev.State.String()).Inc()

	switch ev.State {
	case workflow.StateConnected:
		if ev.Previous == workflow.StateConnecting || ev.Previous == workflow.StateDisconnected {
			m.connections.WithLabelValues("connected").Inc()
		}
	case workflow.StateDisconnected:
		if ev.Previous == workflow.StateConnecting {
			m.connections.WithLabelValues("failed").Inc()
		}
	case workflow.StateSubmitting:
		m.inFlight.Set(1)
	case workflow.StateConfirmed, workflow.StateFailed:
		m.inFlight.Set(0)
		if ev.Outcome == nil {
			return
		}
		result := "confirmed"
		if ev.State == workflow.StateFailed {
			result = "failed"
		}
		m.submissions.WithLabelValues(result, string(ev.Outcome.ErrorKind)).Inc()
		if d := ev.Outcome.Duration(); d > 0 {
			m.duration.Observe(d.Seconds())
		}
	}
}

// OnAlert 记录一次用户提示
func (m *WorkflowMetrics) OnAlert(ev workflow.Event) {
	m.alerts.WithLabelValues(string(ev.ErrorKind)).Inc()
}
