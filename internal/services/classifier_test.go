package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/crewlink/backend/internal/models"
	"github.com/crewlink/backend/internal/repositories"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	users    map[string]*models.User
	projects map[string]*models.Project
	chats    map[string]*models.Chat

	removed    map[string][]string
	presence   map[string]models.PresenceUpdate
	removeErr  error
	getUserErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:    make(map[string]*models.User),
		projects: make(map[string]*models.Project),
		chats:    make(map[string]*models.Chat),
		removed:  make(map[string][]string),
		presence: make(map[string]models.PresenceUpdate),
	}
}

func (s *fakeUserStore) GetUser(_ context.Context, id string) (*models.User, error) {
	if s.getUserErr != nil {
		return nil, s.getUserErr
	}
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeUserStore) GetProject(_ context.Context, id string) (*models.Project, error) {
	if p, ok := s.projects[id]; ok {
		return p, nil
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeUserStore) GetChat(_ context.Context, id string) (*models.Chat, error) {
	if c, ok := s.chats[id]; ok {
		return c, nil
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeUserStore) RemoveDestinations(_ context.Context, userID string, tokens []string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removed[userID] = append(s.removed[userID], tokens...)
	return nil
}

func (s *fakeUserStore) UpdatePresence(_ context.Context, userID string, update models.PresenceUpdate) error {
	s.presence[userID] = update
	return nil
}

func event(kind string, params map[string]string, after interface{}) *models.ChangeEvent {
	var raw json.RawMessage
	if after != nil {
		raw, _ = json.Marshal(after)
	}
	return &models.ChangeEvent{Kind: kind, Params: params, After: raw}
}

func creditEvent(after interface{}) *models.ChangeEvent {
	return event(models.EventCreditAdded, map[string]string{"creditId": "C1"}, after)
}

func TestClassifyCreditAdded(t *testing.T) {
	store := newFakeUserStore()
	store.projects["P1"] = &models.Project{ID: "P1", Title: "Film X", CreatedBy: "U1"}
	store.users["U2"] = &models.User{ID: "U2", FullName: "Bob"}
	c := NewClassifier(store, zerolog.Nop())

	t.Run("creates intent for credited user", func(t *testing.T) {
		ev := creditEvent(map[string]string{
			"userId": "U2", "projectId": "P1", "role": "Editor",
			"projectTitle": "Film X", "creatorName": "Alice",
		})
		intent, err := c.Classify(context.Background(), ev)
		require.NoError(t, err)
		require.NotNil(t, intent)
		assert.Equal(t, "U2", intent.RecipientID)
		assert.Equal(t, models.TypeCreditRequest, intent.Type)
		assert.Equal(t, "Alice added you as 'Editor' on 'Film X'", intent.Message)
		assert.Equal(t, "C1", intent.ReferenceID)
		assert.True(t, intent.Persist)
	})

	t.Run("discards self-grant", func(t *testing.T) {
		ev := creditEvent(map[string]string{
			"userId": "U1", "projectId": "P1", "role": "Editor",
			"projectTitle": "Film X", "creatorName": "Alice",
		})
		// U1 created P1, so crediting U1 is a self-grant.
		intent, err := c.Classify(context.Background(), ev)
		require.NoError(t, err)
		assert.Nil(t, intent)
	})

	t.Run("discards when project is missing", func(t *testing.T) {
		ev := creditEvent(map[string]string{"userId": "U2", "projectId": "gone"})
		intent, err := c.Classify(context.Background(), ev)
		require.NoError(t, err)
		assert.Nil(t, intent)
	})

	t.Run("discards when recipient is missing", func(t *testing.T) {
		ev := creditEvent(map[string]string{"userId": "ghost", "projectId": "P1"})
		intent, err := c.Classify(context.Background(), ev)
		require.NoError(t, err)
		assert.Nil(t, intent)
	})

	t.Run("discards malformed payload", func(t *testing.T) {
		ev := creditEvent(map[string]string{"projectId": "P1"}) // no userId
		intent, err := c.Classify(context.Background(), ev)
		require.NoError(t, err)
		assert.Nil(t, intent)
	})

	t.Run("falls back to default creator name", func(t *testing.T) {
		ev := creditEvent(map[string]string{
			"userId": "U2", "projectId": "P1", "role": "Editor", "projectTitle": "Film X",
		})
		intent, err := c.Classify(context.Background(), ev)
		require.NoError(t, err)
		require.NotNil(t, intent)
		assert.Equal(t, "A Project Manager added you as 'Editor' on 'Film X'", intent.Message)
	})
}

func TestClassifyJoinRequest(t *testing.T) {
	c := NewClassifier(newFakeUserStore(), zerolog.Nop())

	pending := map[string]string{
		"status": "pending", "projectId": "P1", "projectTitle": "Film X",
		"projectCreatorId": "U1", "requestedRole": "Gaffer",
		"requestingUserId": "U3", "requestingUserName": "Carol",
	}

	t.Run("notifies the project creator for pending requests", func(t *testing.T) {
		ev := event(models.EventJoinRequestCreated, map[string]string{"requestId": "R1"}, pending)
		intent, err := c.Classify(context.Background(), ev)
		require.NoError(t, err)
		require.NotNil(t, intent)
		assert.Equal(t, "U1", intent.RecipientID)
		assert.Equal(t, models.TypeJoinRequest, intent.Type)
		assert.Equal(t, "Carol requested to join 'Film X' as 'Gaffer'.", intent.Message)
		assert.Equal(t, "R1", intent.ReferenceID)
		assert.True(t, intent.Persist)
	})

	t.Run("discards non-pending statuses", func(t *testing.T) {
		for _, status := range []string{"accepted", "rejected", ""} {
			doc := map[string]string{}
			for k, v := range pending {
				doc[k] = v
			}
			doc["status"] = status
			ev := event(models.EventJoinRequestCreated, map[string]string{"requestId": "R1"}, doc)
			intent, err := c.Classify(context.Background(), ev)
			require.NoError(t, err)
			assert.Nil(t, intent, "status %q must not notify", status)
		}
	})
}

func TestClassifyChatMessage(t *testing.T) {
	store := newFakeUserStore()
	store.chats["CH1"] = &models.Chat{ID: "CH1", Participants: []string{"U1", "U2"}}
	store.users["U1"] = &models.User{ID: "U1", FullName: "Alice"}
	c := NewClassifier(store, zerolog.Nop())

	params := map[string]string{"chatId": "CH1", "messageId": "M1"}

	t.Run("recipient is the other participant", func(t *testing.T) {
		ev := event(models.EventChatMessageCreated, params, map[string]string{"senderId": "U1", "text": "hey there"})
		intent, err := c.Classify(context.Background(), ev)
		require.NoError(t, err)
		require.NotNil(t, intent)
		assert.Equal(t, "U2", intent.RecipientID)
		assert.False(t, intent.Persist)
		assert.Equal(t, "New Message from Alice", intent.Title)
		assert.Equal(t, "hey there", intent.Body)
	})

	t.Run("unknown sender gets a fallback name", func(t *testing.T) {
		ev := event(models.EventChatMessageCreated, params, map[string]string{"senderId": "U2", "text": "hi"})
		intent, err := c.Classify(context.Background(), ev)
		require.NoError(t, err)
		require.NotNil(t, intent)
		assert.Equal(t, "New Message from Someone", intent.Title)
	})

	t.Run("discards when no other participant exists", func(t *testing.T) {
		store.chats["SOLO"] = &models.Chat{ID: "SOLO", Participants: []string{"U1"}}
		ev := event(models.EventChatMessageCreated, map[string]string{"chatId": "SOLO", "messageId": "M2"}, map[string]string{"senderId": "U1", "text": "hi"})
		intent, err := c.Classify(context.Background(), ev)
		require.NoError(t, err)
		assert.Nil(t, intent)
	})

	t.Run("discards when chat is missing", func(t *testing.T) {
		ev := event(models.EventChatMessageCreated, map[string]string{"chatId": "gone", "messageId": "M3"}, map[string]string{"senderId": "U1", "text": "hi"})
		intent, err := c.Classify(context.Background(), ev)
		require.NoError(t, err)
		assert.Nil(t, intent)
	})
}

func TestClassifyIsDeterministic(t *testing.T) {
	store := newFakeUserStore()
	store.projects["P1"] = &models.Project{ID: "P1", Title: "Film X", CreatedBy: "U1"}
	store.users["U2"] = &models.User{ID: "U2"}
	c := NewClassifier(store, zerolog.Nop())

	ev := creditEvent(map[string]string{
		"userId": "U2", "projectId": "P1", "role": "Editor",
		"projectTitle": "Film X", "creatorName": "Alice",
	})

	first, err := c.Classify(context.Background(), ev)
	require.NoError(t, err)
	second, err := c.Classify(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
