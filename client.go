package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 50
)

// Client represents a WebSocket connection and its session state.
// Lifecycle: Connecting (no playerID) -> Active (joined) -> Disconnected.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	playerID   string // "" until the session joins the world
	username   string // "" = guest
	binary     bool   // client asked for msgpack state frames
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// 0xFF prefix marks a binary frame (see SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message.
// Prefixes with 0xFF marker byte so WritePump can distinguish from text.
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

// WantsBinary reports whether the client opted into msgpack state frames
func (c *Client) WantsBinary() bool {
	return c.binary
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope).
// Malformed payloads are dropped without a client-visible error.
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	switch env.T {
	case MsgJoin:
		c.handleJoin(env.D)
	case MsgUpdate:
		c.handleUpdate(env.D)
	case MsgShoot:
		c.handleShoot(env.D)
	case MsgCatch:
		c.handleCatch(env.D)
	case MsgBuy:
		c.handleBuy(env.D)
	}
}

// handleJoin activates the session: resolve optional identity, build the
// player (restored economy or defaults) and send the one-time welcome.
func (c *Client) handleJoin(data json.RawMessage) {
	if c.playerID != "" {
		return // already active
	}
	var msg JoinMsg
	if len(data) > 0 {
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
	}
	c.binary = msg.Binary

	var identity *string
	if msg.Token != "" && c.hub.auth != nil {
		username, err := c.hub.auth.ValidateToken(msg.Token)
		if err != nil {
			c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "invalid token"}})
		} else {
			c.username = username
			identity = &username
		}
	}

	var prof *Profile
	if c.username != "" && c.hub.db != nil {
		p, err := c.hub.db.LoadProfile(c.username)
		if err != nil {
			// Best-effort read: degrade to new-player defaults
			log.Printf("profile load failed for %s: %v", c.username, err)
		} else {
			prof = p
		}
	}

	name := c.username
	if name == "" {
		name = GenerateGuestName()
	}

	c.playerID = GenerateUUID()
	c.hub.world.AddPlayer(c.playerID, name, c.username, prof)
	c.hub.world.SetClient(c.playerID, c)

	if c.hub.analytics != nil {
		c.hub.analytics.Track(EvtSessionStart, c.username, c.playerID, "")
	}

	c.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{
		ID:          c.playerID,
		BoatCatalog: BoatCatalog,
		FishTable:   FishTable,
		ComboTable:  ComboTable,
		Identity:    identity,
	}})
}

func (c *Client) handleUpdate(data json.RawMessage) {
	if c.playerID == "" {
		return
	}
	var msg UpdateMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	c.hub.world.HandleUpdate(c.playerID, msg)
}

func (c *Client) handleShoot(data json.RawMessage) {
	if c.playerID == "" {
		return
	}
	var msg ShootMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	c.hub.world.HandleShoot(c.playerID, msg)
}

func (c *Client) handleCatch(data json.RawMessage) {
	if c.playerID == "" {
		return
	}
	var msg CatchMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	c.hub.world.HandleCatch(c.playerID, msg.FishID)
}

func (c *Client) handleBuy(data json.RawMessage) {
	if c.playerID == "" {
		return
	}
	var msg BuyMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	c.hub.world.HandleBuy(c.playerID, msg.BoatID)
}
