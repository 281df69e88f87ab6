package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niklas-mlrr/projektwoche-2025-eisenbahn/controller"
	"github.com/niklas-mlrr/projektwoche-2025-eisenbahn/logger"
)

func newTestServer(t *testing.T, state StateFunc) *httptest.Server {
	t.Helper()
	s := NewServer("", state, logger.Get("error"))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, func() controller.State { return controller.State{} })

	resp, err := http.Get(ts.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestState(t *testing.T) {
	ts := newTestServer(t, func() controller.State {
		return controller.State{
			PointsAngle:  42,
			BarrierAngle: 0,
			Blinking:     true,
			Lamp1:        true,
		}
	})

	resp, err := http.Get(ts.URL + "/api/v1/state")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state controller.State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, 42, state.PointsAngle)
	assert.True(t, state.Blinking)
	assert.True(t, state.Lamp1)
	assert.False(t, state.Lamp2)
}

func TestStateMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, func() controller.State { return controller.State{} })

	resp, err := http.Post(ts.URL+"/api/v1/state", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestWebSocketStream(t *testing.T) {
	angle := 90
	ts := newTestServer(t, func() controller.State {
		angle += 2
		return controller.State{PointsAngle: angle}
	})

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws?interval=10ms"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	var prev int
	for i := 0; i < 3; i++ {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

		var msg struct {
			Type string           `json:"type"`
			Data controller.State `json:"data"`
		}
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "state", msg.Type)
		assert.Greater(t, msg.Data.PointsAngle, prev)
		prev = msg.Data.PointsAngle
	}
}

func TestWebSocketIntervalClamped(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ws?interval=1h", nil)
	assert.Equal(t, defaultInterval, parseInterval(req))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/ws?interval=garbage", nil)
	assert.Equal(t, defaultInterval, parseInterval(req))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/ws?interval=250ms", nil)
	assert.Equal(t, 250*time.Millisecond, parseInterval(req))
}
