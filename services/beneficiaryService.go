package services

import (
	"context"
	"errors"
	"time"

	"github.com/pricile448/amcb-sub000/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type BeneficiaryService interface {
	List(ctx context.Context, userID string) ([]models.Beneficiary, error)
	Add(ctx context.Context, userID string, beneficiary *models.Beneficiary) error
	Delete(ctx context.Context, userID, beneficiaryID string) error
}

type BeneficiaryServiceImpl struct {
	userCollection *mongo.Collection
}

func BeneficiaryConstructor(userCollection *mongo.Collection) BeneficiaryService {
	return &BeneficiaryServiceImpl{userCollection: userCollection}
}

func (b *BeneficiaryServiceImpl) List(ctx context.Context, userID string) ([]models.Beneficiary, error) {
	var user models.User
	err := b.userCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if user.Beneficiaries == nil {
		return []models.Beneficiary{}, nil
	}
	return user.Beneficiaries, nil
}

func (b *BeneficiaryServiceImpl) Add(ctx context.Context, userID string, beneficiary *models.Beneficiary) error {
	result, err := b.userCollection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$push": bson.M{"beneficiaries": beneficiary},
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

func (b *BeneficiaryServiceImpl) Delete(ctx context.Context, userID, beneficiaryID string) error {
	result, err := b.userCollection.UpdateOne(ctx,
		bson.M{"_id": userID, "beneficiaries.id": beneficiaryID},
		bson.M{
			"$pull": bson.M{"beneficiaries": bson.M{"id": beneficiaryID}},
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
