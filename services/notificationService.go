package services

import (
	"context"
	"errors"
	"time"

	"github.com/pricile448/amcb-sub000/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationService mutates the notifications array by key, never by
// reloading and rewriting the whole array: concurrent writers cannot clobber
// each other's entries.
type NotificationService interface {
	List(ctx context.Context, userID string) ([]models.Notification, error)
	Add(ctx context.Context, userID string, notification *models.Notification) error
	MarkRead(ctx context.Context, userID, notificationID string) error
	Delete(ctx context.Context, userID, notificationID string) error
}

type NotificationServiceImpl struct {
	userCollection *mongo.Collection
}

func NotificationConstructor(userCollection *mongo.Collection) NotificationService {
	return &NotificationServiceImpl{userCollection: userCollection}
}

func (n *NotificationServiceImpl) List(ctx context.Context, userID string) ([]models.Notification, error) {
	var user models.User
	err := n.userCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if user.Notifications == nil {
		return []models.Notification{}, nil
	}
	return user.Notifications, nil
}

func (n *NotificationServiceImpl) Add(ctx context.Context, userID string, notification *models.Notification) error {
	result, err := n.userCollection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$push": bson.M{"notifications": notification},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount != 1 {
		return ErrNotFound
	}
	return nil
}

func (n *NotificationServiceImpl) MarkRead(ctx context.Context, userID, notificationID string) error {
	result, err := n.userCollection.UpdateOne(ctx,
		bson.M{"_id": userID, "notifications.id": notificationID},
		bson.M{"$set": bson.M{"notifications.$.read": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount != 1 {
		return ErrNotFound
	}
	return nil
}

func (n *NotificationServiceImpl) Delete(ctx context.Context, userID, notificationID string) error {
	result, err := n.userCollection.UpdateOne(ctx,
		bson.M{"_id": userID, "notifications.id": notificationID},
		bson.M{
			"$pull": bson.M{"notifications": bson.M{"id": notificationID}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount != 1 {
		return ErrNotFound
	}
	return nil
}
