package services

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

// The funds check must be part of the update filter itself: a concurrent
// transfer that drains the account between the read and the write leaves
// this filter matching nothing, so no debit and no transaction records land.
func TestTransferFilterGuardsFundsInTheWrite(t *testing.T) {
	filter := transferFilter("u1", TransferRequest{
		FromAccountID: "u1_checking",
		ToAccountID:   "u1_savings",
		Amount:        80,
	})

	if filter["_id"] != "u1" {
		t.Fatalf("_id = %v", filter["_id"])
	}
	and, ok := filter["$and"].(bson.A)
	if !ok || len(and) != 2 {
		t.Fatalf("expected two account conditions, got %v", filter["$and"])
	}

	from, ok := and[0].(bson.M)["accounts"].(bson.M)["$elemMatch"].(bson.M)
	if !ok {
		t.Fatalf("missing source elemMatch: %v", and[0])
	}
	if from["id"] != "u1_checking" {
		t.Fatalf("source id = %v", from["id"])
	}
	guard, ok := from["balance"].(bson.M)
	if !ok || guard["$gte"] != float64(80) {
		t.Fatalf("source balance guard = %v", from["balance"])
	}

	to, ok := and[1].(bson.M)["accounts"].(bson.M)["$elemMatch"].(bson.M)
	if !ok || to["id"] != "u1_savings" {
		t.Fatalf("destination condition = %v", and[1])
	}
	if _, guarded := to["balance"]; guarded {
		t.Fatal("destination must not carry a balance guard")
	}
}
