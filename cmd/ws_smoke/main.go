package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"taskboard/internal/logger"

	"github.com/gorilla/websocket"
)

// ws_smoke drives a running server: two users join a room, one posts a
// room-scoped message, the other must receive it over the websocket.
func main() {
	base := flag.String("url", "http://127.0.0.1:8080", "server base url")
	room := flag.String("room", "smoke", "room to join")
	flag.Parse()

	stamp := time.Now().UnixNano()
	alice := newClient(*base)
	bob := newClient(*base)
	alice.signup(fmt.Sprintf("smoke-a-%d@example.com", stamp))
	bob.signup(fmt.Sprintf("smoke-b-%d@example.com", stamp))

	connA := alice.dial()
	defer connA.Close()
	connB := bob.dial()
	defer connB.Close()

	join(connA, *room)
	// give the first join a head start so alice is a member when bob arrives
	time.Sleep(200 * time.Millisecond)
	join(connB, *room)
	waitFor(connA, "user:joined")

	alice.post("/api/messages", map[string]string{"text": "smoke test", "room": *room})

	msg := waitFor(connB, "chat:message")
	logger.Info("smoke ok", "payload", string(msg))
}

func join(conn *websocket.Conn, room string) {
	if err := conn.WriteJSON(map[string]any{"type": "join", "payload": room}); err != nil {
		logger.Fatal("join", "error", err)
	}
}

type client struct {
	base string
	http *http.Client
}

func newClient(base string) *client {
	jar, _ := cookiejar.New(nil)
	return &client{base: base, http: &http.Client{Jar: jar, Timeout: 10 * time.Second}}
}

func (c *client) post(path string, body any) {
	b, _ := json.Marshal(body)
	res, err := c.http.Post(c.base+path, "application/json", bytes.NewReader(b))
	if err != nil {
		logger.Fatal("request", "path", path, "error", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		logger.Fatal("unexpected status", "path", path, "status", res.StatusCode)
	}
}

func (c *client) signup(email string) {
	c.post("/signup", map[string]string{
		"first_name":       "Smoke",
		"last_name":        "Test",
		"email":            email,
		"password":         "password123",
		"confirm_password": "password123",
	})
}

func (c *client) dial() *websocket.Conn {
	u, err := url.Parse(c.base)
	if err != nil {
		logger.Fatal("parse url", "error", err)
	}
	header := http.Header{}
	for _, ck := range c.http.Jar.Cookies(u) {
		header.Add("Cookie", ck.String())
	}

	wsURL := *u
	wsURL.Scheme = "ws"
	if u.Scheme == "https" {
		wsURL.Scheme = "wss"
	}
	wsURL.Path = "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), header)
	if err != nil {
		logger.Fatal("dial", "error", err)
	}
	waitFor(conn, "ready")
	return conn
}

func waitFor(conn *websocket.Conn, typ string) json.RawMessage {
	deadline := time.Now().Add(5 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		var env struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := conn.ReadJSON(&env); err != nil {
			logger.Fatal("waiting for event", "type", typ, "error", err)
		}
		if env.Type == typ {
			return env.Payload
		}
	}
}
