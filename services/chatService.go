package services

import (
	"context"
	"errors"
	"time"

	"github.com/pricile448/amcb-sub000/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatID derives the canonical chat document id for a user. One key, one
// lookup: no field/participants/full-scan fallback chain.
func ChatID(userID string) string {
	return "chat_" + userID
}

type ChatService interface {
	GetMessages(ctx context.Context, userID string) ([]models.ChatMessage, error)
	AddMessage(ctx context.Context, userID string, message *models.ChatMessage) error
}

type ChatServiceImpl struct {
	chatCollection *mongo.Collection
}

func ChatConstructor(chatCollection *mongo.Collection) ChatService {
	return &ChatServiceImpl{chatCollection: chatCollection}
}

// GetMessages returns the user's support thread, empty if no message was
// ever posted.
func (c *ChatServiceImpl) GetMessages(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	var chat models.Chat
	err := c.chatCollection.FindOne(ctx, bson.M{"_id": ChatID(userID)}).Decode(&chat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []models.ChatMessage{}, nil
	}
	if err != nil {
		return nil, err
	}
	if chat.Messages == nil {
		return []models.ChatMessage{}, nil
	}
	return chat.Messages, nil
}

// AddMessage appends to the thread, creating the chat document on first use.
func (c *ChatServiceImpl) AddMessage(ctx context.Context, userID string, message *models.ChatMessage) error {
	now := time.Now()
	_, err := c.chatCollection.UpdateOne(ctx,
		bson.M{"_id": ChatID(userID)},
		bson.M{
			"$push": bson.M{"messages": message},
			"$set":  bson.M{"updatedAt": now},
			"$setOnInsert": bson.M{
				"userId":       userID,
				"participants": bson.A{userID, "support"},
				"createdAt":    now,
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}
