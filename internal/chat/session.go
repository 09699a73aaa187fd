package chat

import (
	"errors"
	"sync"

	"github.com/B5plus/Random-user/internal/models"
	"github.com/google/uuid"
)

type SessionState string

const (
	StateUnauthenticated SessionState = "unauthenticated"
	StateVerifying       SessionState = "verifying"
	StateAuthorized      SessionState = "authorized"
	StateActive          SessionState = "active"
	StateClosed          SessionState = "closed"
	StateDenied          SessionState = "denied"
)

type AccessChecker interface {
	VerifyAccess(roomID uuid.UUID, contactHandle string) (*MemberSnapshot, error)
}

type HistorySource interface {
	ListByRoom(roomID uuid.UUID) ([]models.Message, error)
}

// Coordinator собирает сессию комнаты: проверка доступа, подписка на feed,
// загрузка истории. Подписка никогда не выдаётся без пройденной проверки
type Coordinator struct {
	verifier AccessChecker
	history  HistorySource
	feed     *Feed
}

func NewCoordinator(verifier AccessChecker, history HistorySource, feed *Feed) *Coordinator {
	return &Coordinator{
		verifier: verifier,
		history:  history,
		feed:     feed,
	}
}

// Session — одна связка клиент-комната. Переоткрытие (перезагрузка
// страницы) всегда начинает машину заново, токенов возобновления нет
type Session struct {
	RoomID uuid.UUID
	// Member nil для админской сессии
	Member *MemberSnapshot
	// История на момент открытия; события, пришедшие во время открытия,
	// могут дублировать её хвост — потребитель применяет их по id
	History []models.Message

	sub *Subscription

	mu    sync.Mutex
	state SessionState
}

// Open открывает сессию игрока. При отказе в доступе возвращает сессию
// в терминальном состоянии Denied вместе с ErrAccessDenied
func (c *Coordinator) Open(roomID uuid.UUID, contactHandle string) (*Session, error) {
	s := &Session{RoomID: roomID, state: StateUnauthenticated}

	s.setState(StateVerifying)
	member, err := c.verifier.VerifyAccess(roomID, contactHandle)
	if err != nil {
		if errors.Is(err, ErrAccessDenied) {
			s.setState(StateDenied)
			return s, ErrAccessDenied
		}
		return nil, err
	}

	s.Member = member
	s.setState(StateAuthorized)

	return c.activate(s)
}

// OpenAdmin открывает сессию без проверки членства: админ авторизуется
// на границе по JWT, членом комнаты он не является
func (c *Coordinator) OpenAdmin(roomID uuid.UUID) (*Session, error) {
	s := &Session{RoomID: roomID, state: StateAuthorized}
	return c.activate(s)
}

// activate: сначала подписка, потом история — событие, влетевшее между
// ними, не теряется
func (c *Coordinator) activate(s *Session) (*Session, error) {
	s.sub = c.feed.Subscribe(s.RoomID)

	history, err := c.history.ListByRoom(s.RoomID)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.History = history

	s.setState(StateActive)
	return s, nil
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(state SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Events nil, пока сессия не активирована
func (s *Session) Events() <-chan Event {
	if s.sub == nil {
		return nil
	}
	return s.sub.Events()
}

// Close отменяет подписку, повторные вызовы безопасны.
// Denied остаётся терминальным состоянием
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed || s.state == StateDenied {
		return
	}
	s.state = StateClosed

	if s.sub != nil {
		s.sub.Cancel()
	}
}
