package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Digital-Creators-Team/stakes-engine/command"
	"github.com/Digital-Creators-Team/stakes-engine/config"
	"github.com/Digital-Creators-Team/stakes-engine/errors"
	"github.com/Digital-Creators-Team/stakes-engine/game"
	"github.com/Digital-Creators-Team/stakes-engine/middleware"
	"github.com/Digital-Creators-Team/stakes-engine/provider"
	"github.com/Digital-Creators-Team/stakes-engine/store"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Environment = "test"

	engine := game.NewEngine(game.DefaultRules(), game.NewRandomSource(42))
	st := store.New(provider.NewMemoryStateProvider(), engine.Catalog(), zerolog.Nop())
	d := command.NewDispatcher(engine, st, nil, zerolog.Nop())

	app := New(Options{Config: cfg, Logger: zerolog.Nop(), Dispatcher: d})
	app.UseCommonMiddlewares()
	app.RegisterHealthCheck()
	app.RegisterCommandRoutes()
	return app
}

func doJSON(t *testing.T, app *App, method, path, username string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if username != "" {
		req.Header.Set(middleware.UsernameHeader, username)
	}
	w := httptest.NewRecorder()
	app.Router().ServeHTTP(w, req)
	return w
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp SuccessResponse[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.IsSuccess, w.Body.String())
	return resp.Data
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	w := doJSON(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestCreateAccount(t *testing.T) {
	app := newTestApp(t)

	w := doJSON(t, app, http.MethodPost, "/api/accounts", "", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusCreated, w.Code)
	view := decodeData[AccountView](t, w)
	assert.Equal(t, "alice", view.Username)
	assert.Equal(t, int64(1000), view.Balance)
	assert.Equal(t, int64(1000), view.Wealth)

	w = doJSON(t, app, http.MethodPost, "/api/accounts", "", map[string]string{"username": "Alice"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, app, http.MethodPost, "/api/accounts", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, app, http.MethodGet, "/api/accounts/ALICE", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, app, http.MethodGet, "/api/accounts/bob", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExecuteCommand(t *testing.T) {
	app := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/api/accounts", "", map[string]string{"username": "alice"})

	w := doJSON(t, app, http.MethodPost, "/api/commands", "alice", map[string]string{"command": "-dep 500"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeData[CommandResponse](t, w)
	assert.Equal(t, game.OutcomePlain, resp.Result.Outcome)
	assert.Equal(t, "Deposited 500 Gcoins. New Balance: 500, Bank: 500", resp.Result.Message)
	assert.NotEmpty(t, resp.TraceID)
	assert.Equal(t, resp.TraceID, w.Header().Get(middleware.TraceIDHeader))

	// rule failures are still 200
	w = doJSON(t, app, http.MethodPost, "/api/commands", "alice", map[string]string{"command": "-buy throne"})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeData[CommandResponse](t, w)
	assert.Equal(t, game.OutcomeError, resp.Result.Outcome)
	assert.Equal(t, errors.ErrInsufficientFunds, resp.Result.Code)
}

func TestExecuteCommandErrors(t *testing.T) {
	app := newTestApp(t)

	w := doJSON(t, app, http.MethodPost, "/api/commands", "", map[string]string{"command": "-bal"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, app, http.MethodPost, "/api/commands", "ghost", map[string]string{"command": "-bal"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	doJSON(t, app, http.MethodPost, "/api/accounts", "", map[string]string{"username": "alice"})
	w = doJSON(t, app, http.MethodPost, "/api/commands", "alice", map[string]string{"command": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeaderboardRoute(t *testing.T) {
	app := newTestApp(t)
	for _, name := range []string{"alice", "bob"} {
		doJSON(t, app, http.MethodPost, "/api/accounts", "", map[string]string{"username": name})
	}
	doJSON(t, app, http.MethodPost, "/api/commands", "bob", map[string]string{"command": "-daily"})

	w := doJSON(t, app, http.MethodGet, "/api/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	board := decodeData[LeaderboardResponse](t, w)
	assert.Equal(t, game.RankWealth, board.Category)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, "bob", board.Entries[0].Username)
	assert.Equal(t, int64(1200), board.Entries[0].Value)

	w = doJSON(t, app, http.MethodGet, "/api/leaderboard?category=gold", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommandSocket(t *testing.T) {
	app := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/api/accounts", "", map[string]string{"username": "alice"})

	srv := httptest.NewServer(app.Router())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/commands/ws?username=alice"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var hello SocketMessage
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, MessageTypeConnected, hello.Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("-with 1")))
	var msg SocketMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MessageTypeResult, msg.Type)
	require.NotNil(t, msg.Result)
	assert.Equal(t, errors.ErrInsufficientBank, msg.Result.Code)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("")))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MessageTypeError, msg.Type)
	assert.Equal(t, "empty command", msg.Error)
}

func TestCommandSocketUnknownUser(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.Router())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/commands/ws?username=ghost"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
