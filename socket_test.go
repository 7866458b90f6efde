package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

func newTestServer(t *testing.T, db *DB) (*httptest.Server, *World) {
	t.Helper()
	var auth *Auth
	if db != nil {
		auth = NewAuth(db)
	}
	world := NewWorld(nil, nil)
	go world.Run()
	t.Cleanup(world.Stop)

	hub := NewHub(world, db, auth, nil)
	go hub.Run()

	srv := httptest.NewServer(SetupRoutes(hub, t.TempDir(), "http://example.test/"))
	t.Cleanup(srv.Close)
	return srv, world
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := strings.Replace(srv.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readEnvelope reads text frames until one matches the wanted type
func readEnvelope(t *testing.T, conn *websocket.Conn, want string) InEnvelope {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	conn.SetReadDeadline(deadline)
	for time.Now().Before(deadline) {
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ws read: %v", err)
		}
		if msgType != websocket.TextMessage {
			continue
		}
		var env InEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("unmarshal envelope: %v", err)
		}
		if env.T == want {
			return env
		}
	}
	t.Fatalf("no %q message received", want)
	return InEnvelope{}
}

func TestGuestJoinReceivesWelcomeAndState(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	conn := dialWS(t, srv)

	if err := conn.WriteJSON(Envelope{T: MsgJoin}); err != nil {
		t.Fatalf("send join: %v", err)
	}

	env := readEnvelope(t, conn, MsgWelcome)
	var welcome WelcomeMsg
	if err := json.Unmarshal(env.D, &welcome); err != nil {
		t.Fatalf("unmarshal welcome: %v", err)
	}
	if welcome.ID == "" {
		t.Error("welcome must carry the assigned session id")
	}
	if welcome.Identity != nil {
		t.Errorf("guest identity must be null, got %v", *welcome.Identity)
	}
	if len(welcome.BoatCatalog) != len(BoatCatalog) || len(welcome.FishTable) != len(FishTable) {
		t.Error("welcome must carry the full static reference data")
	}
	if len(welcome.ComboTable) != len(ComboTable) {
		t.Error("welcome must carry the combination table")
	}

	env = readEnvelope(t, conn, MsgState)
	var state WorldState
	if err := json.Unmarshal(env.D, &state); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if len(state.Players) != 1 {
		t.Errorf("expected 1 player in snapshot, got %d", len(state.Players))
	}
	if state.Players[0].ID != welcome.ID {
		t.Error("snapshot should contain the joined player")
	}
}

func TestBinaryClientReceivesMsgpackState(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	conn := dialWS(t, srv)

	join, _ := json.Marshal(JoinMsg{Binary: true})
	if err := conn.WriteJSON(InEnvelope{T: MsgJoin, D: join}); err != nil {
		t.Fatalf("send join: %v", err)
	}

	// Binary frames are msgpack-encoded WorldState
	deadline := time.Now().Add(3 * time.Second)
	conn.SetReadDeadline(deadline)
	for time.Now().Before(deadline) {
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ws read: %v", err)
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		var state WorldState
		if err := msgpack.Unmarshal(raw, &state); err != nil {
			t.Fatalf("msgpack unmarshal: %v", err)
		}
		if len(state.Players) != 1 {
			t.Errorf("expected 1 player in binary snapshot, got %d", len(state.Players))
		}
		return
	}
	t.Fatal("no binary state frame received")
}

func TestRegisterLoginAndAuthenticatedJoin(t *testing.T) {
	db := openTestDB(t)
	srv, _ := newTestServer(t, db)

	body, _ := json.Marshal(RegisterRequest{Username: "alice", Password: "secret"})
	resp, err := http.Post(srv.URL+"/api/register", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register status %d", resp.StatusCode)
	}
	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if authResp.Token == "" {
		t.Fatal("register must return a token")
	}

	conn := dialWS(t, srv)
	join, _ := json.Marshal(JoinMsg{Token: authResp.Token})
	if err := conn.WriteJSON(InEnvelope{T: MsgJoin, D: join}); err != nil {
		t.Fatalf("send join: %v", err)
	}

	env := readEnvelope(t, conn, MsgWelcome)
	var welcome WelcomeMsg
	if err := json.Unmarshal(env.D, &welcome); err != nil {
		t.Fatalf("unmarshal welcome: %v", err)
	}
	if welcome.Identity == nil || *welcome.Identity != "alice" {
		t.Errorf("expected identity alice, got %v", welcome.Identity)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	db := openTestDB(t)
	srv, _ := newTestServer(t, db)

	body, _ := json.Marshal(RegisterRequest{Username: "alice", Password: "secret"})
	resp, err := http.Post(srv.URL+"/api/register", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	resp.Body.Close()

	body, _ = json.Marshal(LoginRequest{Username: "alice", Password: "wrong"})
	resp, err = http.Post(srv.URL+"/api/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}

func TestJoinQRCodeEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	resp, err := http.Get(srv.URL + "/join.png")
	if err != nil {
		t.Fatalf("get qr: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("qr status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
}
