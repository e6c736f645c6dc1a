package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pricile448/amcb-sub000/models"
	"github.com/pricile448/amcb-sub000/services"
)

type TransactionController struct {
	TransactionService services.TransactionService
}

func TransactionConstructor(transactionService services.TransactionService) TransactionController {
	return TransactionController{TransactionService: transactionService}
}

type TransactionBody struct {
	AccountID   string  `json:"accountId" validate:"required"`
	Amount      float64 `json:"amount" validate:"required"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Type        string  `json:"type" validate:"required,oneof=debit credit"`
}

func (tc *TransactionController) List(c *gin.Context) {
	transactions, err := tc.TransactionService.List(c.Request.Context(), c.Param("userId"))
	if err != nil {
		failFrom(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"transactions": transactions})
}

func (tc *TransactionController) Create(c *gin.Context) {
	var body TransactionBody
	if err := c.BindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := Validate.Struct(body); err != nil {
		fail(c, http.StatusBadRequest, msgBadRequest)
		return
	}

	currency := body.Currency
	if currency == "" {
		currency = "EUR"
	}
	transaction := models.Transaction{
		ID:          uuid.NewString(),
		AccountID:   body.AccountID,
		Amount:      body.Amount,
		Currency:    currency,
		Description: body.Description,
		Category:    body.Category,
		Type:        body.Type,
		Status:      "completed",
		Date:        time.Now(),
	}
	if err := tc.TransactionService.Add(c.Request.Context(), c.Param("userId"), &transaction); err != nil {
		failFrom(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"transaction": transaction})
}

func (tc *TransactionController) TransactionRoutes(rg *gin.RouterGroup) {
	rg.GET("/transactions/:userId", tc.List)
	rg.POST("/transactions/:userId", tc.Create)
}
