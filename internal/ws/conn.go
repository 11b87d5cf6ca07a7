package ws

import (
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 32
)

// conn bridges one websocket client to a hub subscription for a single
// conversation.
type conn struct {
	ws   *websocket.Conn
	send chan models.Message
	done chan struct{}
}

func newConn(c *websocket.Conn) *conn {
	return &conn{ws: c, send: make(chan models.Message, sendBuffer), done: make(chan struct{})}
}

// deliver is the hub callback. Slow clients drop events rather than stall
// the hub.
func (c *conn) deliver(msg models.Message) {
	select {
	case c.send <- msg:
	case <-c.done:
	default:
	}
}

func (c *conn) readPump() {
	defer close(c.done)
	c.ws.SetReadLimit(32 * 1024)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		// clients send nothing meaningful on this channel; reads only
		// detect disconnects and answer pings
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			b, err := json.Marshal(envelope{Type: "message", Data: msg})
			if err != nil {
				continue
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(time.Second)); err != nil {
				return
			}
		case <-c.done:
			_ = c.ws.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(time.Second))
			return
		}
	}
}

type envelope struct {
	Type string         `json:"type"`
	Data models.Message `json:"data"`
}
