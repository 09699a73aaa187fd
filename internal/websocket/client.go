package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/B5plus/Random-user/internal/chat"
	"github.com/B5plus/Random-user/internal/handlers/dto"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Время ожидания записи
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping
	pingPeriod = (pongWait * 9) / 10

	// Канал нисходящий, от клиента ждём только управляющие фреймы
	maxMessageSize = 512
)

const (
	FrameHistory         = "history"
	FrameMessageInserted = "message_inserted"
	FrameMessageUpdated  = "message_updated"
	FrameMessageDeleted  = "message_deleted"
)

// Frame — исходящий кадр канала событий комнаты
type Frame struct {
	Type      string          `json:"type"`
	RoomID    uuid.UUID       `json:"room_id"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Client привязывает сессию комнаты к WebSocket соединению.
// Отключение клиента закрывает сессию и освобождает подписку
type Client struct {
	conn    *websocket.Conn
	session *chat.Session
}

func NewClient(conn *websocket.Conn, session *chat.Session) *Client {
	return &Client{conn: conn, session: session}
}

// ReadPump читает соединение ради pong и закрытия:
// сообщения клиент отправляет по HTTP, не сюда
func (c *Client) ReadPump() {
	defer func() {
		c.session.Close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// WritePump шлёт историю, затем события сессии, пока feed не закроет канал
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.session.Close()
		c.conn.Close()
	}()

	if err := c.sendHistory(); err != nil {
		return
	}

	for {
		select {
		case event, ok := <-c.session.Events():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := marshalEvent(c.session.RoomID, event)
			if err != nil {
				log.Printf("Failed to marshal event: %v", err)
				continue
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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

func (c *Client) sendHistory() error {
	data, err := json.Marshal(dto.NewMessageResponses(c.session.History))
	if err != nil {
		return err
	}

	frame, err := json.Marshal(Frame{
		Type:      FrameHistory,
		RoomID:    c.session.RoomID,
		Data:      data,
		Timestamp: time.Now(),
	})
	if err != nil {
		return err
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, frame)
}

func marshalEvent(roomID uuid.UUID, event chat.Event) ([]byte, error) {
	data, err := json.Marshal(dto.NewMessageResponse(event.Message))
	if err != nil {
		return nil, err
	}

	return json.Marshal(Frame{
		Type:      frameType(event.Kind),
		RoomID:    roomID,
		Data:      data,
		Timestamp: time.Now(),
	})
}

func frameType(kind chat.EventKind) string {
	switch kind {
	case chat.EventUpdated:
		return FrameMessageUpdated
	case chat.EventDeleted:
		return FrameMessageDeleted
	default:
		return FrameMessageInserted
	}
}
