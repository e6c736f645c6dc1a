package services

import (
	"context"
	"errors"
	"time"

	"github.com/pricile448/amcb-sub000/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserService interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	MarkEmailVerified(ctx context.Context, email string) error
	UpdateKYCStatus(ctx context.Context, id, status string) error
	AddKYCDocument(ctx context.Context, id string, doc models.Document) error
}

type UserServiceImpl struct {
	userCollection *mongo.Collection
}

func UserConstructor(userCollection *mongo.Collection) UserService {
	return &UserServiceImpl{userCollection: userCollection}
}

func (u *UserServiceImpl) CreateUser(ctx context.Context, user *models.User) error {
	_, err := u.userCollection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (u *UserServiceImpl) GetUser(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := u.userCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserServiceImpl) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := u.userCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserServiceImpl) EmailTaken(ctx context.Context, email string) (bool, error) {
	count, err := u.userCollection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (u *UserServiceImpl) MarkEmailVerified(ctx context.Context, email string) error {
	result, err := u.userCollection.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"emailVerified": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount != 1 {
		return ErrNotFound
	}
	return nil
}

// kycRank orders statuses so transitions only ever move forward. verified and
// rejected are both terminal.
var kycRank = map[string]int{
	models.KYCUnverified: 0,
	models.KYCPending:    1,
	models.KYCVerified:   2,
	models.KYCRejected:   2,
}

func (u *UserServiceImpl) UpdateKYCStatus(ctx context.Context, id, status string) error {
	rank, known := kycRank[status]
	if !known {
		return ErrKYCRegression
	}
	user, err := u.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if current, ok := kycRank[user.KYCStatus]; ok && rank <= current && status != user.KYCStatus {
		return ErrKYCRegression
	}

	now := time.Now()
	set := bson.M{"kycStatus": status, "updatedAt": now}
	switch status {
	case models.KYCVerified:
		set["verifiedAt"] = now
		set["billing.billingVisible"] = true
	case models.KYCRejected:
		set["rejectedAt"] = now
		set["billing.billingVisible"] = false
	default:
		set["billing.billingVisible"] = false
	}
	result, err := u.userCollection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount != 1 {
		return ErrNotFound
	}
	return nil
}

func (u *UserServiceImpl) AddKYCDocument(ctx context.Context, id string, doc models.Document) error {
	user, err := u.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	set := bson.M{"updatedAt": time.Now()}
	if user.KYCStatus == models.KYCUnverified {
		set["kycStatus"] = models.KYCPending
	}
	result, err := u.userCollection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"documents": doc}, "$set": set},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount != 1 {
		return ErrNotFound
	}
	return nil
}
