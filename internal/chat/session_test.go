package chat_test

import (
	"errors"
	"testing"
	"time"

	"github.com/B5plus/Random-user/internal/chat"
	"github.com/B5plus/Random-user/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verifyFunc func(roomID uuid.UUID, contactHandle string) (*chat.MemberSnapshot, error)

func (f verifyFunc) VerifyAccess(roomID uuid.UUID, contactHandle string) (*chat.MemberSnapshot, error) {
	return f(roomID, contactHandle)
}

type historyFunc func(roomID uuid.UUID) ([]models.Message, error)

func (f historyFunc) ListByRoom(roomID uuid.UUID) ([]models.Message, error) {
	return f(roomID)
}

func grantAll(name string) verifyFunc {
	return func(roomID uuid.UUID, contactHandle string) (*chat.MemberSnapshot, error) {
		return &chat.MemberSnapshot{
			User: models.User{Name: name, ContactHandle: contactHandle},
		}, nil
	}
}

func denyAll() verifyFunc {
	return func(uuid.UUID, string) (*chat.MemberSnapshot, error) {
		return nil, chat.ErrAccessDenied
	}
}

func staticHistory(messages ...models.Message) historyFunc {
	return func(uuid.UUID) ([]models.Message, error) {
		return messages, nil
	}
}

func TestCoordinator_OpenDenied(t *testing.T) {
	feed := chat.NewFeed()
	defer feed.Close()

	roomID := uuid.New()
	coordinator := chat.NewCoordinator(denyAll(), staticHistory(), feed)

	session, err := coordinator.Open(roomID, "+79999999999")
	assert.ErrorIs(t, err, chat.ErrAccessDenied)
	require.NotNil(t, session)
	assert.Equal(t, chat.StateDenied, session.State())

	// Отказанному никогда не выдаётся подписка
	assert.Nil(t, session.Events())
	assert.Equal(t, 0, feed.SubscriberCount(roomID))
}

func TestCoordinator_OpenActivatesSession(t *testing.T) {
	feed := chat.NewFeed()
	defer feed.Close()

	roomID := uuid.New()
	history := []models.Message{
		{ID: uuid.New(), RoomID: roomID, Body: "older"},
		{ID: uuid.New(), RoomID: roomID, Body: "newer"},
	}
	coordinator := chat.NewCoordinator(grantAll("Ann"), staticHistory(history...), feed)

	session, err := coordinator.Open(roomID, "+70000000001")
	require.NoError(t, err)
	assert.Equal(t, chat.StateActive, session.State())
	require.NotNil(t, session.Member)
	assert.Equal(t, "Ann", session.Member.User.Name)
	assert.Len(t, session.History, 2)

	feed.Publish(roomID, testEvent(chat.EventInserted, roomID, "live"))

	select {
	case event := <-session.Events():
		assert.Equal(t, "live", event.Message.Body)
	case <-time.After(time.Second):
		t.Fatal("no live event received")
	}

	session.Close()
	assert.Equal(t, chat.StateClosed, session.State())
}

func TestCoordinator_NoVisibilityGap(t *testing.T) {
	feed := chat.NewFeed()
	defer feed.Close()

	roomID := uuid.New()

	// Запись влетает между подпиской и чтением истории:
	// событие обязано дойти до сессии
	racing := historyFunc(func(id uuid.UUID) ([]models.Message, error) {
		feed.Publish(id, testEvent(chat.EventInserted, id, "racing"))
		return nil, nil
	})

	coordinator := chat.NewCoordinator(grantAll("Ann"), racing, feed)

	session, err := coordinator.Open(roomID, "+70000000001")
	require.NoError(t, err)

	select {
	case event := <-session.Events():
		assert.Equal(t, "racing", event.Message.Body)
	case <-time.After(time.Second):
		t.Fatal("event published during open was lost")
	}
}

func TestCoordinator_OpenAdminSkipsVerify(t *testing.T) {
	feed := chat.NewFeed()
	defer feed.Close()

	verifierCalled := false
	verifier := verifyFunc(func(uuid.UUID, string) (*chat.MemberSnapshot, error) {
		verifierCalled = true
		return nil, chat.ErrAccessDenied
	})

	coordinator := chat.NewCoordinator(verifier, staticHistory(), feed)

	session, err := coordinator.OpenAdmin(uuid.New())
	require.NoError(t, err)
	assert.False(t, verifierCalled)
	assert.Equal(t, chat.StateActive, session.State())
	assert.Nil(t, session.Member)
}

func TestCoordinator_HistoryErrorReleasesSubscription(t *testing.T) {
	feed := chat.NewFeed()
	defer feed.Close()

	roomID := uuid.New()
	failing := historyFunc(func(uuid.UUID) ([]models.Message, error) {
		return nil, errors.New("db down")
	})

	coordinator := chat.NewCoordinator(grantAll("Ann"), failing, feed)

	session, err := coordinator.Open(roomID, "+70000000001")
	assert.Error(t, err)
	assert.Nil(t, session)
	assert.Equal(t, 0, feed.SubscriberCount(roomID))
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	feed := chat.NewFeed()
	defer feed.Close()

	roomID := uuid.New()
	coordinator := chat.NewCoordinator(grantAll("Ann"), staticHistory(), feed)

	session, err := coordinator.Open(roomID, "+70000000001")
	require.NoError(t, err)

	session.Close()
	session.Close()

	assert.Equal(t, chat.StateClosed, session.State())
	assert.Equal(t, 0, feed.SubscriberCount(roomID))

	_, ok := <-session.Events()
	assert.False(t, ok)
}
