package services

import (
	"context"
	"errors"
	"time"

	"github.com/pricile448/amcb-sub000/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type TransactionService interface {
	List(ctx context.Context, userID string) ([]models.Transaction, error)
	Add(ctx context.Context, userID string, transaction *models.Transaction) error
}

type TransactionServiceImpl struct {
	userCollection *mongo.Collection
}

func TransactionConstructor(userCollection *mongo.Collection) TransactionService {
	return &TransactionServiceImpl{userCollection: userCollection}
}

func (t *TransactionServiceImpl) List(ctx context.Context, userID string) ([]models.Transaction, error) {
	var user models.User
	err := t.userCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if user.Transactions == nil {
		return []models.Transaction{}, nil
	}
	return user.Transactions, nil
}

func (t *TransactionServiceImpl) Add(ctx context.Context, userID string, transaction *models.Transaction) error {
	result, err := t.userCollection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$push": bson.M{"transactions": transaction},
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
