package repositories

import (
	"context"
	"errors"

	"github.com/crewlink/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a referenced document does not exist.
// Callers treat it as an expected race (document deleted after the
// triggering write), not a failure.
var ErrNotFound = errors.New("document not found")

// UserStore defines the interface over the user/project/chat content
// store: profile lookups, destination pruning, and presence writes.
type UserStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	GetChat(ctx context.Context, id string) (*models.Chat, error)
	RemoveDestinations(ctx context.Context, userID string, tokens []string) error
	UpdatePresence(ctx context.Context, userID string, update models.PresenceUpdate) error
}

// MongoUserStore implements UserStore for MongoDB.
type MongoUserStore struct {
	users    *mongo.Collection
	projects *mongo.Collection
	chats    *mongo.Collection
}

// NewMongoUserStore creates a new MongoUserStore
func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{
		users:    db.Collection("users"),
		projects: db.Collection("projects"),
		chats:    db.Collection("chats"),
	}
}

// GetUser retrieves a user document by ID
func (s *MongoUserStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetProject retrieves a project document by ID
func (s *MongoUserStore) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	err := s.projects.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// GetChat retrieves a chat document by ID
func (s *MongoUserStore) GetChat(ctx context.Context, id string) (*models.Chat, error) {
	var chat models.Chat
	err := s.chats.FindOne(ctx, bson.M{"_id": id}).Decode(&chat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &chat, nil
}

// RemoveDestinations removes exactly the given tokens from the user's
// destination set. $pull is a genuine set-difference on the server, so
// tokens registered concurrently by other writers are untouched.
func (s *MongoUserStore) RemoveDestinations(ctx context.Context, userID string, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	_, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"fcmTokens": bson.M{"$in": tokens}}},
	)
	return err
}

// UpdatePresence writes the user's presence status, and last-seen
// timestamp when one is carried.
func (s *MongoUserStore) UpdatePresence(ctx context.Context, userID string, update models.PresenceUpdate) error {
	set := bson.M{"status": update.Status}
	if update.LastSeen != nil {
		set["lastSeen"] = *update.LastSeen
	}
	_, err := s.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set})
	return err
}
