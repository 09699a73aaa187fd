package chat_test

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/B5plus/Random-user/internal/chat"
	"github.com/B5plus/Random-user/internal/database"
	"github.com/B5plus/Random-user/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMessageDB имитирует durable-хранилище сообщений в памяти
type fakeMessageDB struct {
	mu       sync.Mutex
	nextSeq  int64
	rooms    map[uuid.UUID]bool
	messages map[uuid.UUID]models.Message
}

func newFakeMessageDB(rooms ...uuid.UUID) *fakeMessageDB {
	db := &fakeMessageDB{
		rooms:    make(map[uuid.UUID]bool),
		messages: make(map[uuid.UUID]models.Message),
	}
	for _, roomID := range rooms {
		db.rooms[roomID] = true
	}
	return db
}

func (f *fakeMessageDB) SaveMessage(message *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.rooms[message.RoomID] {
		return database.ErrRoomNotFound
	}

	f.nextSeq++
	message.ID = uuid.New()
	message.Seq = f.nextSeq
	f.messages[message.ID] = *message
	return nil
}

func (f *fakeMessageDB) GetMessage(id string) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	messageID, err := uuid.Parse(id)
	if err != nil {
		return nil, database.ErrMessageNotFound
	}
	message, ok := f.messages[messageID]
	if !ok {
		return nil, database.ErrMessageNotFound
	}
	return &message, nil
}

func (f *fakeMessageDB) UpdateMessage(message *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.messages[message.ID]; !ok {
		return database.ErrMessageNotFound
	}
	f.messages[message.ID] = *message
	return nil
}

func (f *fakeMessageDB) DeleteMessage(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	messageID, err := uuid.Parse(id)
	if err != nil {
		return database.ErrMessageNotFound
	}
	if _, ok := f.messages[messageID]; !ok {
		return database.ErrMessageNotFound
	}
	delete(f.messages, messageID)
	return nil
}

func (f *fakeMessageDB) ListRoomMessages(roomID uuid.UUID) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var messages []models.Message
	for _, message := range f.messages {
		if message.RoomID == roomID {
			messages = append(messages, message)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		if !messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].CreatedAt.Before(messages[j].CreatedAt)
		}
		return messages[i].Seq < messages[j].Seq
	})
	return messages, nil
}

func TestMessageStore_AppendRejectsBlankBody(t *testing.T) {
	roomID := uuid.New()
	store := chat.NewMessageStore(newFakeMessageDB(roomID), chat.NewFeed())

	for _, body := range []string{"", "   ", "\n\t "} {
		_, err := store.Append(roomID, models.SenderPlayer, nil, "Ann", body)
		assert.ErrorIs(t, err, chat.ErrEmptyBody)
	}
}

func TestMessageStore_AppendUnknownRoom(t *testing.T) {
	store := chat.NewMessageStore(newFakeMessageDB(), chat.NewFeed())

	_, err := store.Append(uuid.New(), models.SenderAdmin, nil, "Admin", "hi")
	assert.ErrorIs(t, err, database.ErrRoomNotFound)
}

func TestMessageStore_AppendPublishesAfterDurableWrite(t *testing.T) {
	roomID := uuid.New()
	feed := chat.NewFeed()
	defer feed.Close()
	store := chat.NewMessageStore(newFakeMessageDB(roomID), feed)

	sub := feed.Subscribe(roomID)

	sent, err := store.Append(roomID, models.SenderPlayer, nil, "Ann", "  hi  ")
	require.NoError(t, err)
	assert.Equal(t, "hi", sent.Body)

	select {
	case event := <-sub.Events():
		assert.Equal(t, chat.EventInserted, event.Kind)
		assert.Equal(t, sent.ID, event.Message.ID)

		// Получатель события уже видит запись через чтение store
		messages, err := store.ListByRoom(roomID)
		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, sent.ID, messages[0].ID)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestMessageStore_EditKeepsHistoryPosition(t *testing.T) {
	roomID := uuid.New()
	feed := chat.NewFeed()
	defer feed.Close()
	store := chat.NewMessageStore(newFakeMessageDB(roomID), feed)

	original, err := store.Append(roomID, models.SenderPlayer, nil, "Ann", "hi")
	require.NoError(t, err)

	sub := feed.Subscribe(roomID)

	edited, err := store.Edit(original.ID.String(), "hello")
	require.NoError(t, err)

	assert.Equal(t, "hello", edited.Body)
	assert.Equal(t, original.Seq, edited.Seq)
	assert.True(t, original.CreatedAt.Equal(edited.CreatedAt))
	require.NotNil(t, edited.EditedAt)

	event := <-sub.Events()
	assert.Equal(t, chat.EventUpdated, event.Kind)
	assert.Equal(t, "hello", event.Message.Body)
}

func TestMessageStore_EditRejectsBlankBody(t *testing.T) {
	roomID := uuid.New()
	store := chat.NewMessageStore(newFakeMessageDB(roomID), chat.NewFeed())

	original, err := store.Append(roomID, models.SenderPlayer, nil, "Ann", "hi")
	require.NoError(t, err)

	_, err = store.Edit(original.ID.String(), "   ")
	assert.ErrorIs(t, err, chat.ErrEmptyBody)
}

func TestMessageStore_Remove(t *testing.T) {
	roomID := uuid.New()
	feed := chat.NewFeed()
	defer feed.Close()
	store := chat.NewMessageStore(newFakeMessageDB(roomID), feed)

	message, err := store.Append(roomID, models.SenderAdmin, nil, "Admin", "bye")
	require.NoError(t, err)

	sub := feed.Subscribe(roomID)

	removed, err := store.Remove(message.ID.String())
	require.NoError(t, err)
	assert.Equal(t, message.ID, removed.ID)

	event := <-sub.Events()
	assert.Equal(t, chat.EventDeleted, event.Kind)
	assert.Equal(t, message.ID, event.Message.ID)

	_, err = store.Remove(message.ID.String())
	assert.ErrorIs(t, err, database.ErrMessageNotFound)
}

func TestMessageStore_ListOrderedBySeqOnTies(t *testing.T) {
	roomID := uuid.New()
	db := newFakeMessageDB(roomID)
	store := chat.NewMessageStore(db, chat.NewFeed())

	// Одинаковый created_at: порядок определяет seq, не имя отправителя
	ts := time.Now()
	for i, name := range []string{"Zoe", "Ann", "Mia"} {
		id := uuid.New()
		db.messages[id] = models.Message{
			ID:         id,
			RoomID:     roomID,
			SenderName: name,
			Body:       name,
			Seq:        int64(i + 1),
			CreatedAt:  ts,
		}
	}

	messages, err := store.ListByRoom(roomID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, []string{"Zoe", "Ann", "Mia"}, []string{
		messages[0].Body, messages[1].Body, messages[2].Body,
	})
}
