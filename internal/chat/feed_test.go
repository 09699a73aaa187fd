package chat_test

import (
	"testing"
	"time"

	"github.com/B5plus/Random-user/internal/chat"
	"github.com/B5plus/Random-user/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent(kind chat.EventKind, roomID uuid.UUID, body string) chat.Event {
	return chat.Event{
		Kind: kind,
		Message: models.Message{
			ID:     uuid.New(),
			RoomID: roomID,
			Body:   body,
		},
	}
}

func TestFeed_FanOutSameOrder(t *testing.T) {
	feed := chat.NewFeed()
	defer feed.Close()

	roomID := uuid.New()
	sub1 := feed.Subscribe(roomID)
	sub2 := feed.Subscribe(roomID)

	bodies := []string{"one", "two", "three"}
	for _, body := range bodies {
		feed.Publish(roomID, testEvent(chat.EventInserted, roomID, body))
	}

	for _, sub := range []*chat.Subscription{sub1, sub2} {
		for _, want := range bodies {
			select {
			case event := <-sub.Events():
				assert.Equal(t, want, event.Message.Body)
			case <-time.After(time.Second):
				t.Fatal("timed out waiting for event")
			}
		}
	}
}

func TestFeed_RoomIsolation(t *testing.T) {
	feed := chat.NewFeed()
	defer feed.Close()

	roomA := uuid.New()
	roomB := uuid.New()
	subA := feed.Subscribe(roomA)

	feed.Publish(roomB, testEvent(chat.EventInserted, roomB, "other room"))
	feed.Publish(roomA, testEvent(chat.EventInserted, roomA, "mine"))

	event := <-subA.Events()
	assert.Equal(t, "mine", event.Message.Body)
	assert.Empty(t, subA.Events())
}

func TestFeed_CancelIsIdempotent(t *testing.T) {
	feed := chat.NewFeed()
	defer feed.Close()

	roomID := uuid.New()
	sub := feed.Subscribe(roomID)
	require.Equal(t, 1, feed.SubscriberCount(roomID))

	sub.Cancel()
	sub.Cancel()

	assert.Equal(t, 0, feed.SubscriberCount(roomID))

	_, ok := <-sub.Events()
	assert.False(t, ok)

	// Публикация после отмены не паникует и никуда не уходит
	feed.Publish(roomID, testEvent(chat.EventInserted, roomID, "late"))
}

func TestFeed_PublishDoesNotBlockOnSlowSubscriber(t *testing.T) {
	feed := chat.NewFeed()
	defer feed.Close()

	roomID := uuid.New()
	feed.Subscribe(roomID)

	// Подписчик ничего не читает: лишние события отбрасываются,
	// Publish обязан вернуться
	done := make(chan struct{})
	go func() {
		for i := 0; i < 500; i++ {
			feed.Publish(roomID, testEvent(chat.EventInserted, roomID, "flood"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestFeed_Close(t *testing.T) {
	feed := chat.NewFeed()

	roomID := uuid.New()
	sub := feed.Subscribe(roomID)

	feed.Close()

	_, ok := <-sub.Events()
	assert.False(t, ok)
	assert.Equal(t, 0, feed.SubscriberCount(roomID))

	// Повторное закрытие и отмена после закрытия безопасны
	feed.Close()
	sub.Cancel()

	// Подписка на закрытый feed сразу отдаёт закрытый канал
	late := feed.Subscribe(roomID)
	_, ok = <-late.Events()
	assert.False(t, ok)
}
