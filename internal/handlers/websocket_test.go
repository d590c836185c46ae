package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"charging_station"
	"charging_station/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", 1 * time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=20s", 1 * time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=20000", 1 * time.Second},
		{"interval_invalid_string", "/ws?interval=bogus", 1 * time.Second},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", 1 * time.Second},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			c, _ := gin.CreateTestContext(w)
			c.Request = req
			got := h.parseInterval(c)
			if got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

// --- websocket integration tests ---

type wsTestEnvelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func dialWS(t *testing.T, s *service.Service) (*websocket.Conn, func()) {
	t.Helper()

	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/ws", h.wsConnect)

	srv := httptest.NewServer(r)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	q := u.Query()
	q.Set("interval", "5s") // keep periodic snapshots out of the way
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial error: %v", err)
	}
	return conn, func() {
		_ = conn.Close()
		srv.Close()
	}
}

func readEnvelope(t *testing.T, conn *websocket.Conn) wsTestEnvelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env wsTestEnvelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read envelope: %v", err)
	}
	return env
}

func TestWebSocket_InitialStateThenFeedbackAndResult(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mon := &mockMonitoring{state: charging_station.ChargeState{
		ID:           1,
		Status:       charging_station.StatusCharging,
		CurrentLevel: 25,
		TargetLevel:  100,
	}}
	feed := newMockFeed()
	s := &service.Service{Monitoring: mon, Feed: feed}

	conn, cleanup := dialWS(t, s)
	defer cleanup()

	// Initial state envelope.
	env := readEnvelope(t, conn)
	if env.Type != "state" || len(env.Data) == 0 {
		t.Fatalf("bad initial envelope: %+v", env)
	}
	var st charging_station.ChargeState
	if err := json.Unmarshal(env.Data, &st); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if st.Status != charging_station.StatusCharging || st.CurrentLevel != 25 {
		t.Fatalf("unexpected state: %+v", st)
	}

	// Feedback pushed through the feed.
	feed.ch <- service.FeedUpdate{Feedback: &charging_station.ChargeFeedback{
		GoalID:       "goal-1",
		CurrentLevel: 30,
		EtaSeconds:   14,
		Rate:         5,
	}}
	env = readEnvelope(t, conn)
	if env.Type != "feedback" {
		t.Fatalf("expected feedback envelope, got %+v", env)
	}
	var fb charging_station.ChargeFeedback
	if err := json.Unmarshal(env.Data, &fb); err != nil {
		t.Fatalf("unmarshal feedback: %v", err)
	}
	if fb.CurrentLevel != 30 || fb.GoalID != "goal-1" {
		t.Fatalf("unexpected feedback: %+v", fb)
	}

	// Terminal result follows.
	feed.ch <- service.FeedUpdate{Result: &charging_station.ChargeResult{
		GoalID:         "goal-1",
		Success:        true,
		FinalLevel:     100,
		ElapsedSeconds: 8,
	}}
	env = readEnvelope(t, conn)
	if env.Type != "result" {
		t.Fatalf("expected result envelope, got %+v", env)
	}
	var res charging_station.ChargeResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if !res.Success || res.FinalLevel != 100 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestWebSocket_PeriodicStateSnapshots(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mon := &mockMonitoring{state: charging_station.ChargeState{
		ID:           1,
		Status:       charging_station.StatusIdle,
		CurrentLevel: 20,
	}}
	s := &service.Service{Monitoring: mon, Feed: newMockFeed()}

	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/ws", h.wsConnect)
	srv := httptest.NewServer(r)
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	q := u.Query()
	q.Set("interval_ms", "20") // fast ticks for the test
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	// Initial plus at least one periodic snapshot.
	for i := 0; i < 2; i++ {
		env := readEnvelope(t, conn)
		if env.Type != "state" {
			t.Fatalf("snapshot %d: expected state envelope, got %+v", i, env)
		}
	}
}
