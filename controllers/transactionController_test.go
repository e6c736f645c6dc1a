package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pricile448/amcb-sub000/models"
	"github.com/pricile448/amcb-sub000/services"
)

type stubTransactionService struct {
	transactions map[string][]models.Transaction
}

func newStubTransactionService() *stubTransactionService {
	return &stubTransactionService{transactions: map[string][]models.Transaction{}}
}

func (s *stubTransactionService) List(ctx context.Context, userID string) ([]models.Transaction, error) {
	list, ok := s.transactions[userID]
	if !ok {
		return nil, services.ErrNotFound
	}
	return list, nil
}

func (s *stubTransactionService) Add(ctx context.Context, userID string, transaction *models.Transaction) error {
	if _, ok := s.transactions[userID]; !ok {
		return services.ErrNotFound
	}
	s.transactions[userID] = append(s.transactions[userID], *transaction)
	return nil
}

func newTransactionRouter(svc services.TransactionService) *gin.Engine {
	tc := TransactionConstructor(svc)
	router := gin.New()
	tc.TransactionRoutes(router.Group("/api"))
	return router
}

func TestTransactionCreateAndList(t *testing.T) {
	stub := newStubTransactionService()
	stub.transactions["u1"] = []models.Transaction{}
	router := newTransactionRouter(stub)

	w := postJSON(t, router, "/api/transactions/u1", gin.H{
		"accountId":   "u1_checking",
		"amount":      -24.90,
		"description": "Carrefour",
		"category":    "courses",
		"type":        "debit",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	tx := decodeBody(t, w)["transaction"].(map[string]interface{})
	if tx["id"] == "" || tx["currency"] != "EUR" || tx["status"] != "completed" {
		t.Fatalf("transaction defaults wrong: %v", tx)
	}

	w = get(t, router, "/api/transactions/u1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	list := decodeBody(t, w)["transactions"].([]interface{})
	if len(list) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(list))
	}
}

func TestTransactionCreateRejectsUnknownType(t *testing.T) {
	stub := newStubTransactionService()
	stub.transactions["u1"] = []models.Transaction{}
	router := newTransactionRouter(stub)

	w := postJSON(t, router, "/api/transactions/u1", gin.H{
		"accountId": "u1_checking",
		"amount":    10,
		"type":      "virement",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unknown type, got %d", w.Code)
	}
	if len(stub.transactions["u1"]) != 0 {
		t.Fatal("invalid transaction must not be stored")
	}
}

func TestTransactionUnknownUserIsA404(t *testing.T) {
	router := newTransactionRouter(newStubTransactionService())

	w := get(t, router, "/api/transactions/ghost")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w = postJSON(t, router, "/api/transactions/ghost", gin.H{
		"accountId": "x", "amount": 5, "type": "credit",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on create, got %d", w.Code)
	}
}
