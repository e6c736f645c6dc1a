package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pricile448/amcb-sub000/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AccountService interface {
	GetAccounts(ctx context.Context, userID string) ([]models.Account, error)
	Transfer(ctx context.Context, userID string, req TransferRequest) (*models.Transaction, error)
}

// TransferRequest moves money between two of the user's own accounts.
type TransferRequest struct {
	FromAccountID string
	ToAccountID   string
	Amount        float64
	Description   string
}

type AccountServiceImpl struct {
	userCollection *mongo.Collection
}

func AccountConstructor(userCollection *mongo.Collection) AccountService {
	return &AccountServiceImpl{userCollection: userCollection}
}

func (a *AccountServiceImpl) GetAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	var user models.User
	err := a.userCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if user.Accounts == nil {
		return []models.Account{}, nil
	}
	return user.Accounts, nil
}

// Transfer debits one account and credits another in a single document
// update, appending the two matching transaction records in the same write.
// The funds check lives in the update filter, not in the prior read: two
// concurrent transfers race on the stored balance, and the second one only
// matches if enough is still left.
func (a *AccountServiceImpl) Transfer(ctx context.Context, userID string, req TransferRequest) (*models.Transaction, error) {
	if req.Amount <= 0 {
		return nil, ErrInsufficientFunds
	}
	var found models.User
	if err := a.userCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&found); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var from, to *models.Account
	for i := range found.Accounts {
		switch found.Accounts[i].ID {
		case req.FromAccountID:
			from = &found.Accounts[i]
		case req.ToAccountID:
			to = &found.Accounts[i]
		}
	}
	if from == nil || to == nil {
		return nil, ErrAccountNotFound
	}
	if from.Balance < req.Amount {
		return nil, ErrInsufficientFunds
	}

	now := time.Now()
	debit := models.Transaction{
		ID:          uuid.NewString(),
		AccountID:   from.ID,
		Amount:      -req.Amount,
		Currency:    from.Currency,
		Description: req.Description,
		Category:    "transfer",
		Type:        "debit",
		Status:      "completed",
		Date:        now,
	}
	credit := models.Transaction{
		ID:          uuid.NewString(),
		AccountID:   to.ID,
		Amount:      req.Amount,
		Currency:    to.Currency,
		Description: req.Description,
		Category:    "transfer",
		Type:        "credit",
		Status:      "completed",
		Date:        now,
	}

	update := bson.M{
		"$inc": bson.M{
			"accounts.$[from].balance": -req.Amount,
			"accounts.$[to].balance":   req.Amount,
		},
		"$push": bson.M{
			"transactions": bson.M{"$each": bson.A{debit, credit}},
		},
		"$set": bson.M{"updatedAt": now},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"from.id": req.FromAccountID},
			bson.M{"to.id": req.ToAccountID},
		},
	})
	result, err := a.userCollection.UpdateOne(ctx, transferFilter(userID, req), update, opts)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount != 1 {
		// The balance moved (or an account vanished) between the read and
		// this write; nothing was debited or pushed.
		return nil, ErrInsufficientFunds
	}
	return &debit, nil
}

// transferFilter matches the user document only while the source account
// still holds the requested amount and the destination account still exists.
func transferFilter(userID string, req TransferRequest) bson.M {
	return bson.M{
		"_id": userID,
		"$and": bson.A{
			bson.M{"accounts": bson.M{"$elemMatch": bson.M{
				"id":      req.FromAccountID,
				"balance": bson.M{"$gte": req.Amount},
			}}},
			bson.M{"accounts": bson.M{"$elemMatch": bson.M{
				"id": req.ToAccountID,
			}}},
		},
	}
}
