package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/crewlink/backend/internal/models"
	"github.com/crewlink/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Classifier maps data-store change events to notification intents,
// applying the business rules for each event kind.
type Classifier struct {
	store    repositories.UserStore
	validate *validator.Validate
	log      zerolog.Logger
}

// NewClassifier creates a new Classifier
func NewClassifier(store repositories.UserStore, log zerolog.Logger) *Classifier {
	return &Classifier{store: store, validate: validator.New(), log: log}
}

// Classify derives a notification intent from a change event. A nil
// intent with a nil error means the event was discarded; an error marks
// a failed invocation (unexpected storage failure, never a missing
// reference).
func (c *Classifier) Classify(ctx context.Context, event *models.ChangeEvent) (*models.NotificationIntent, error) {
	switch event.Kind {
	case models.EventCreditAdded:
		return c.classifyCredit(ctx, event)
	case models.EventJoinRequestCreated:
		return c.classifyJoinRequest(event)
	case models.EventChatMessageCreated:
		return c.classifyChatMessage(ctx, event)
	default:
		return nil, nil
	}
}

// decodePayload unmarshals and validates an event payload. Any failure
// is a malformed payload the caller should discard.
func (c *Classifier) decodePayload(raw json.RawMessage, out interface{}) error {
	if len(raw) == 0 {
		return errors.New("empty payload")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return err
	}
	return c.validate.Struct(out)
}

func (c *Classifier) classifyCredit(ctx context.Context, event *models.ChangeEvent) (*models.NotificationIntent, error) {
	var credit models.CreditDoc
	if err := c.decodePayload(event.After, &credit); err != nil {
		c.log.Warn().Err(err).Str("kind", event.Kind).Msg("malformed credit payload, discarding")
		return nil, nil
	}
	creditID := event.Param("creditId")

	project, err := c.store.GetProject(ctx, credit.ProjectID)
	if errors.Is(err, repositories.ErrNotFound) {
		c.log.Warn().Str("projectId", credit.ProjectID).Msg("project not found, discarding credit event")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("look up project %s: %w", credit.ProjectID, err)
	}

	// Self-grant: the project creator crediting themselves is not
	// something worth notifying about.
	if credit.UserID == project.CreatedBy {
		c.log.Info().Str("userId", credit.UserID).Msg("credit recipient is the project creator, skipping")
		return nil, nil
	}

	if _, err := c.store.GetUser(ctx, credit.UserID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.log.Warn().Str("userId", credit.UserID).Msg("credit recipient not found, discarding credit event")
			return nil, nil
		}
		return nil, fmt.Errorf("look up user %s: %w", credit.UserID, err)
	}

	creatorName := credit.CreatorName
	if creatorName == "" {
		creatorName = "A Project Manager"
	}

	return &models.NotificationIntent{
		RecipientID: credit.UserID,
		Type:        models.TypeCreditRequest,
		Message:     fmt.Sprintf("%s added you as '%s' on '%s'", creatorName, credit.Role, credit.ProjectTitle),
		ReferenceID: creditID,
		ProjectID:   credit.ProjectID,
		SenderID:    credit.CreatedBy,
		SenderName:  creatorName,
		Persist:     true,
	}, nil
}

func (c *Classifier) classifyJoinRequest(event *models.ChangeEvent) (*models.NotificationIntent, error) {
	var req models.JoinRequestDoc
	if err := c.decodePayload(event.After, &req); err != nil {
		c.log.Warn().Err(err).Str("kind", event.Kind).Msg("malformed join request payload, discarding")
		return nil, nil
	}

	// Only the initial pending write notifies the creator; status
	// transitions (accepted, rejected) do not.
	if req.Status != "pending" {
		c.log.Info().Str("status", req.Status).Msg("join request not pending, skipping")
		return nil, nil
	}

	return &models.NotificationIntent{
		RecipientID: req.ProjectCreatorID,
		Type:        models.TypeJoinRequest,
		Message:     fmt.Sprintf("%s requested to join '%s' as '%s'.", req.RequestingUserName, req.ProjectTitle, req.RequestedRole),
		ReferenceID: event.Param("requestId"),
		ProjectID:   req.ProjectID,
		SenderID:    req.RequestingUserID,
		SenderName:  req.RequestingUserName,
		Persist:     true,
	}, nil
}

func (c *Classifier) classifyChatMessage(ctx context.Context, event *models.ChangeEvent) (*models.NotificationIntent, error) {
	var msg models.ChatMessageDoc
	if err := c.decodePayload(event.After, &msg); err != nil {
		c.log.Warn().Err(err).Str("kind", event.Kind).Msg("malformed chat message payload, discarding")
		return nil, nil
	}
	chatID := event.Param("chatId")

	chat, err := c.store.GetChat(ctx, chatID)
	if errors.Is(err, repositories.ErrNotFound) {
		c.log.Warn().Str("chatId", chatID).Msg("chat not found, discarding message event")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("look up chat %s: %w", chatID, err)
	}

	var recipientID string
	for _, p := range chat.Participants {
		if p != msg.SenderID {
			recipientID = p
			break
		}
	}
	if recipientID == "" {
		c.log.Warn().Str("chatId", chatID).Msg("could not find a recipient, discarding message event")
		return nil, nil
	}

	senderName := "Someone"
	sender, err := c.store.GetUser(ctx, msg.SenderID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("look up user %s: %w", msg.SenderID, err)
	}
	if sender != nil && sender.FullName != "" {
		senderName = sender.FullName
	}

	// Chat pushes carry the raw message text; truncation and
	// sanitization are client concerns.
	return &models.NotificationIntent{
		RecipientID: recipientID,
		Type:        models.TypeChatMessage,
		ReferenceID: event.Param("messageId"),
		SenderID:    msg.SenderID,
		SenderName:  senderName,
		Persist:     false,
		Title:       fmt.Sprintf("New Message from %s", senderName),
		Body:        msg.Text,
	}, nil
}
