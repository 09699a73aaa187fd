package chat

import (
	"log"
	"sync"

	"github.com/B5plus/Random-user/internal/models"
	"github.com/google/uuid"
)

type EventKind string

const (
	EventInserted EventKind = "inserted"
	EventUpdated  EventKind = "updated"
	EventDeleted  EventKind = "deleted"
)

// Event — мутация сообщения, доставляемая живым подписчикам комнаты
type Event struct {
	Kind    EventKind
	Message models.Message
}

// Размер буфера подписчика: медленный клиент не тормозит публикацию,
// при переполнении события отбрасываются
const subscriberBuffer = 256

// Subscription — поток событий одной комнаты. История не проигрывается:
// текущее состояние подписчик забирает отдельно через ListByRoom
type Subscription struct {
	roomID uuid.UUID
	events chan Event
	feed   *Feed
	once   sync.Once
}

func (s *Subscription) RoomID() uuid.UUID {
	return s.roomID
}

func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Cancel освобождает подписку, повторные вызовы безопасны
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.feed.remove(s)
	})
}

// Feed разносит события сообщений по подписчикам комнат.
// Один экземпляр на процесс, жизненный цикл явный: NewFeed / Close
type Feed struct {
	mu     sync.RWMutex
	rooms  map[uuid.UUID]map[*Subscription]struct{}
	closed bool
}

func NewFeed() *Feed {
	return &Feed{
		rooms: make(map[uuid.UUID]map[*Subscription]struct{}),
	}
}

func (f *Feed) Subscribe(roomID uuid.UUID) *Subscription {
	sub := &Subscription{
		roomID: roomID,
		events: make(chan Event, subscriberBuffer),
		feed:   f,
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		close(sub.events)
		return sub
	}

	if _, ok := f.rooms[roomID]; !ok {
		f.rooms[roomID] = make(map[*Subscription]struct{})
	}
	f.rooms[roomID][sub] = struct{}{}

	return sub
}

// Publish рассылает событие всем подписчикам комнаты. Отправка
// неблокирующая: забитый буфер — проблема клиента, не писателя
func (f *Feed) Publish(roomID uuid.UUID, event Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for sub := range f.rooms[roomID] {
		select {
		case sub.events <- event:
		default:
			log.Printf("Feed: subscriber buffer full, dropping event for room %s", roomID)
		}
	}
}

func (f *Feed) SubscriberCount(roomID uuid.UUID) int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return len(f.rooms[roomID])
}

// Close закрывает все подписки, дальнейшие Subscribe получают
// уже закрытый канал
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true

	for _, subs := range f.rooms {
		for sub := range subs {
			close(sub.events)
		}
	}
	f.rooms = make(map[uuid.UUID]map[*Subscription]struct{})
}

func (f *Feed) remove(s *Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()

	subs, ok := f.rooms[s.roomID]
	if !ok {
		return
	}
	if _, ok := subs[s]; !ok {
		return
	}

	delete(subs, s)
	if len(subs) == 0 {
		delete(f.rooms, s.roomID)
	}
	close(s.events)
}
