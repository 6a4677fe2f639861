package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
	sendBuffer = 64
)

// Client представляет одно websocket-подключение участника.
// Все исходящие события проходят через буферизованный канал Send и
// единственную пишущую горутину, поэтому порядок постановки в очередь
// совпадает с порядком записи в сокет.
type Client struct {
	Conn   *websocket.Conn
	Send   chan []byte
	UserID int
	Role   string

	hub *Hub
}

// NewClient создает клиента для установленного подключения.
func NewClient(hub *Hub, conn *websocket.Conn, userID int, role string) *Client {
	return &Client{
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		UserID: userID,
		Role:   role,
		hub:    hub,
	}
}

// enqueue ставит событие в очередь отправки. Переполненный буфер означает
// безнадежно отставшее подключение - событие пропускается, клиент получит
// пропущенное при переподключении вместе с историей.
func (c *Client) enqueue(payload []byte) {
	select {
	case c.Send <- payload:
	default:
		log.Printf("очередь отправки пользователя %d переполнена, событие пропущено", c.UserID)
	}
}

// ReadPump читает события клиента и передает их хабу. Возвращается при
// обрыве подключения: клиент покидает все каналы, Send закрывается.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Leave(c)
		close(c.Send)
		c.Conn.Close()
	}()
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}
		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			c.enqueue(mustMarshal(ErrorEvent{Type: EventError, Message: "некорректный формат события"}))
			continue
		}
		c.dispatch(event)
	}
}

func (c *Client) dispatch(event Event) {
	switch event.Type {
	case EventJoin:
		if err := c.hub.Join(c, event.ConversationID); err != nil {
			c.enqueue(mustMarshal(ErrorEvent{Type: EventError, Message: err.Error()}))
		}
	case EventSend:
		if _, err := c.hub.Send(c, event.ConversationID, event.Content); err != nil {
			c.enqueue(mustMarshal(ErrorEvent{Type: EventError, Message: err.Error()}))
		}
	case EventTyping:
		c.hub.Typing(c, event.ConversationID, event.IsTyping)
	case EventMarkRead:
		if err := c.hub.MarkRead(event.ConversationID, c.Role); err != nil {
			c.enqueue(mustMarshal(ErrorEvent{Type: EventError, Message: err.Error()}))
		}
	default:
		c.enqueue(mustMarshal(ErrorEvent{Type: EventError, Message: "неизвестный тип события"}))
	}
}

// WritePump пишет события из очереди в сокет и поддерживает heartbeat.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
