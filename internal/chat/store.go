package chat

import (
	"strings"
	"sync"
	"time"

	"github.com/B5plus/Random-user/internal/models"
	"github.com/google/uuid"
)

type messageDB interface {
	SaveMessage(message *models.Message) error
	GetMessage(id string) (*models.Message, error)
	UpdateMessage(message *models.Message) error
	DeleteMessage(id string) error
	ListRoomMessages(roomID uuid.UUID) ([]models.Message, error)
}

// MessageStore — единственная точка мутаций сообщений: durable-запись,
// затем синхронная публикация в feed. Лента комнаты сериализована
// per-room мьютексом, поэтому порядок коммитов и порядок fan-out совпадают
type MessageStore struct {
	db   messageDB
	feed *Feed

	mu    sync.Mutex
	lanes map[uuid.UUID]*sync.Mutex
}

func NewMessageStore(db messageDB, feed *Feed) *MessageStore {
	return &MessageStore{
		db:    db,
		feed:  feed,
		lanes: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *MessageStore) lane(roomID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lanes[roomID]; !ok {
		s.lanes[roomID] = &sync.Mutex{}
	}
	return s.lanes[roomID]
}

// Append пишет сообщение и рассылает Inserted. К моменту получения
// события подписчиком запись уже видна любому чтению из store
func (s *MessageStore) Append(roomID uuid.UUID, senderType string, senderID *uuid.UUID, senderName, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyBody
	}

	lane := s.lane(roomID)
	lane.Lock()
	defer lane.Unlock()

	message := &models.Message{
		RoomID:     roomID,
		SenderType: senderType,
		SenderID:   senderID,
		SenderName: senderName,
		Body:       body,
		CreatedAt:  time.Now(),
	}

	if err := s.db.SaveMessage(message); err != nil {
		return nil, err
	}

	s.feed.Publish(roomID, Event{Kind: EventInserted, Message: *message})

	return message, nil
}

// Edit меняет тело сообщения, CreatedAt и Seq не трогаются —
// позиция в истории сохраняется
func (s *MessageStore) Edit(messageID string, newBody string) (*models.Message, error) {
	newBody = strings.TrimSpace(newBody)
	if newBody == "" {
		return nil, ErrEmptyBody
	}

	message, err := s.db.GetMessage(messageID)
	if err != nil {
		return nil, err
	}

	lane := s.lane(message.RoomID)
	lane.Lock()
	defer lane.Unlock()

	now := time.Now()
	message.Body = newBody
	message.EditedAt = &now

	if err := s.db.UpdateMessage(message); err != nil {
		return nil, err
	}

	s.feed.Publish(message.RoomID, Event{Kind: EventUpdated, Message: *message})

	return message, nil
}

func (s *MessageStore) Remove(messageID string) (*models.Message, error) {
	message, err := s.db.GetMessage(messageID)
	if err != nil {
		return nil, err
	}

	lane := s.lane(message.RoomID)
	lane.Lock()
	defer lane.Unlock()

	if err := s.db.DeleteMessage(messageID); err != nil {
		return nil, err
	}

	s.feed.Publish(message.RoomID, Event{Kind: EventDeleted, Message: *message})

	return message, nil
}

func (s *MessageStore) ListByRoom(roomID uuid.UUID) ([]models.Message, error) {
	return s.db.ListRoomMessages(roomID)
}
