package handlers

import (
	"context"
	"net/http"
	"time"

	"charging_station"
	"charging_station/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockCharger struct {
	submitGoal  charging_station.ChargeGoal
	submitErr   error
	cancelErr   error
	result      charging_station.ChargeResult
	hasResult   bool
	resetErr    error
	lastParams  service.GoalParams
	submitCalls int
	cancelCalls int
}

func (m *mockCharger) SubmitGoal(ctx context.Context, p service.GoalParams) (charging_station.ChargeGoal, error) {
	m.submitCalls++
	m.lastParams = p
	return m.submitGoal, m.submitErr
}
func (m *mockCharger) Cancel(ctx context.Context) error {
	m.cancelCalls++
	return m.cancelErr
}
func (m *mockCharger) LastResult() (charging_station.ChargeResult, bool) {
	return m.result, m.hasResult
}
func (m *mockCharger) Reset(ctx context.Context) error {
	return m.resetErr
}

type mockMonitoring struct {
	state charging_station.ChargeState
	err   error
}

func (m *mockMonitoring) GetState(ctx context.Context) (charging_station.ChargeState, error) {
	return m.state, m.err
}

type mockEventLog struct {
	resp     []charging_station.ChargeEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]charging_station.ChargeEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

type mockFeed struct {
	ch chan service.FeedUpdate
}

func newMockFeed() *mockFeed {
	return &mockFeed{ch: make(chan service.FeedUpdate, 16)}
}

func (m *mockFeed) Subscribe() (<-chan service.FeedUpdate, func()) {
	return m.ch, func() {}
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
