package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/catmouse/internal/auth"
	"github.com/playmatatu/catmouse/internal/config"
	"github.com/playmatatu/catmouse/internal/game"
)

const testSecret = "ws-test-secret"

func setupGameServer(t *testing.T) (*httptest.Server, *game.GameManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		CatSpeed:        game.DefaultCatSpeed,
		MouseFactor:     game.DefaultMouseFactor,
		FrameRate:       game.DefaultFrameRate,
		CatchRange:      game.DefaultCatchRange,
		InitialCatAngle: game.DefaultInitialCatAngle,
		TickIntervalMs:  1,
		JWTSecret:       testSecret,
	}
	gm := game.NewGameManager(nil, nil, cfg)
	game.Manager = gm
	SetRedisClient(nil, cfg)
	AttachManager(gm)

	router := gin.New()
	router.GET("/games/:token/ws", HandleWebSocket)
	srv := httptest.NewServer(router)

	t.Cleanup(func() {
		srv.Close()
		gm.Shutdown()
		game.Manager = nil
	})
	return srv, gm
}

func dialGame(t *testing.T, srv *httptest.Server, gameToken, playerToken string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/games/" + gameToken + "/ws?pt=" + playerToken
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("dial: %v (status %d)", err, status)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) (string, map[string]json.RawMessage) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg map[string]json.RawMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	var typ string
	json.Unmarshal(msg["type"], &typ)
	return typ, msg
}

func send(t *testing.T, conn *websocket.Conn, typ string, data any) {
	t.Helper()
	raw, _ := json.Marshal(data)
	if err := conn.WriteJSON(WSMessage{Type: typ, Data: raw}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func TestWebSocketPlaysGame(t *testing.T) {
	srv, gm := setupGameServer(t)
	s := gm.CreateGame()
	pt, err := auth.IssuePlayerToken(testSecret, s.Token, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	conn := dialGame(t, srv, s.Token, pt)

	typ, msg := readMessage(t, conn)
	if typ != "frame" {
		t.Fatalf("first message type = %q, want frame", typ)
	}
	var first game.Frame
	if err := json.Unmarshal(msg["frame"], &first); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if first.Token != s.Token || first.Number != 0 {
		t.Errorf("first frame = %+v", first)
	}

	send(t, conn, "pointer", PointerData{X: 2, Y: 0})
	send(t, conn, "track", ToggleData{Enabled: true})

	for {
		typ, msg := readMessage(t, conn)
		if typ != "game_over" {
			continue
		}
		var outcome game.Outcome
		json.Unmarshal(msg["outcome"], &outcome)
		if outcome != game.OutcomeMouseCaught {
			t.Errorf("outcome = %v, want caught", outcome)
		}
		return
	}
}

func TestWebSocketGetStateAndUnknownMessage(t *testing.T) {
	srv, gm := setupGameServer(t)
	s := gm.CreateGame()
	pt, _ := auth.IssuePlayerToken(testSecret, s.Token, time.Hour)

	conn := dialGame(t, srv, s.Token, pt)
	readMessage(t, conn) // initial frame

	send(t, conn, "dance", nil)
	if typ, _ := readMessage(t, conn); typ != "error" {
		t.Errorf("unknown message answered with %q, want error", typ)
	}

	send(t, conn, "get_state", nil)
	if typ, _ := readMessage(t, conn); typ != "frame" {
		t.Errorf("get_state answered with %q, want frame", typ)
	}
}

func TestWebSocketRejectsForeignToken(t *testing.T) {
	srv, gm := setupGameServer(t)
	a := gm.CreateGame()
	b := gm.CreateGame()
	ptForB, _ := auth.IssuePlayerToken(testSecret, b.Token, time.Hour)

	resp, err := http.Get(srv.URL + "/games/" + a.Token + "/ws?pt=" + ptForB)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/games/" + a.Token + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing pt: status = %d, want 400", resp.StatusCode)
	}
}

func TestWebSocketUnknownGame(t *testing.T) {
	srv, _ := setupGameServer(t)
	pt, _ := auth.IssuePlayerToken(testSecret, "game_missing", time.Hour)

	resp, err := http.Get(srv.URL + "/games/game_missing/ws?pt=" + pt)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
