package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/zkverify/client/core/workflow"
	"github.com/weisyn/zkverify/internal/api/websocket"
	logimpl "github.com/weisyn/zkverify/internal/core/infrastructure/log"
)

type fixedStatus struct {
	snapshot workflow.Snapshot
}

func (f fixedStatus) Snapshot() workflow.Snapshot { return f.snapshot }

func newTestServer(t *testing.T) (*httptest.Server, *websocket.Hub) {
	t.Helper()
	logger := logimpl.NewNop()
	hub := websocket.NewHub(logger)
	status := fixedStatus{snapshot: workflow.Snapshot{
		State:     workflow.StateConnected,
		Account:   "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		Form:      workflow.FormData{Proof: "0x01", Input: "7"},
		CanSubmit: true,
	}}
	s := NewServer("127.0.0.1:0", status, hub, prometheus.NewRegistry(), logger)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, hub
}

func TestServer_Status(t *testing.T) {
	ts, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/status", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "req-1")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "req-1", resp.Header.Get("X-Request-ID"))

	var body struct {
		Data struct {
			State     string `json:"state"`
			Account   string `json:"account"`
			CanSubmit bool   `json:"can_submit"`
			Form      struct {
				Proof string `json:"proof"`
				Input string `json:"input"`
			} `json:"form"`
		} `json:"data"`
		RequestID string `json:"requestId"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Connected", body.Data.State)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", body.Data.Account)
	assert.True(t, body.Data.CanSubmit)
	assert.Equal(t, "0x01", body.Data.Form.Proof)
	assert.Equal(t, "7", body.Data.Form.Input)
	assert.Equal(t, "req-1", body.RequestID)
}

func TestServer_NotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/submit")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestServer_Metrics(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/status")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `zkverify_observer_requests_total{method="GET",path="/status",status="200"} 1`)
}

func TestServer_Events(t *testing.T) {
	ts, hub := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/events"
	conn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	hub.Broadcast(workflow.Event{
		Topic:   workflow.TopicState,
		State:   workflow.StateAwaitingConfirmation,
		TxHash:  "0x7101",
		Account: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Subscription string `json:"subscription"`
		Result       struct {
			Topic  string `json:"topic"`
			State  string `json:"state"`
			TxHash string `json:"tx_hash"`
		} `json:"result"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.NotEmpty(t, msg.Subscription)
	assert.Equal(t, "workflow:state", msg.Result.Topic)
	assert.Equal(t, "AwaitingConfirmation", msg.Result.State)
	assert.Equal(t, "0x7101", msg.Result.TxHash)

	require.NoError(t, conn.WriteMessage(gorillaws.CloseMessage,
		gorillaws.FormatCloseMessage(gorillaws.CloseNormalClosure, "")))
	require.Eventually(t, func() bool { return hub.Count() == 0 }, time.Second, 10*time.Millisecond)
}

func TestServer_StartStop(t *testing.T) {
	logger := logimpl.NewNop()
	s := NewServer("127.0.0.1:0", fixedStatus{}, websocket.NewHub(logger), prometheus.NewRegistry(), logger)

	require.NoError(t, s.Start())
	resp, err := http.Get("http://" + s.Addr() + "/status")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Stop(context.Background()))
}

func TestServer_StopClosesEventStreams(t *testing.T) {
	logger := logimpl.NewNop()
	hub := websocket.NewHub(logger)
	s := NewServer("127.0.0.1:0", fixedStatus{}, hub, prometheus.NewRegistry(), logger)
	require.NoError(t, s.Start())

	conn, _, err := gorillaws.DefaultDialer.Dial("ws://"+s.Addr()+"/events", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, s.Stop(context.Background()))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, gorillaws.IsCloseError(err, gorillaws.CloseGoingAway), "unexpected read error: %v", err)
	require.Eventually(t, func() bool { return hub.Count() == 0 }, time.Second, 10*time.Millisecond)
}
