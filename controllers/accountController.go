package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pricile448/amcb-sub000/services"
)

type AccountController struct {
	AccountService services.AccountService
	UserService    services.UserService
}

func AccountConstructor(accountService services.AccountService, userService services.UserService) AccountController {
	return AccountController{
		AccountService: accountService,
		UserService:    userService,
	}
}

func (ac *AccountController) GetAccounts(c *gin.Context) {
	accounts, err := ac.AccountService.GetAccounts(c.Request.Context(), c.Param("userId"))
	if err != nil {
		failFrom(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"accounts": accounts})
}

// GetIBAN returns the user's IBAN once KYC verification has made it visible,
// {iban: null} otherwise.
func (ac *AccountController) GetIBAN(c *gin.Context) {
	user, err := ac.UserService.GetUserByID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		failFrom(c, err)
		return
	}
	if !user.Billing.BillingVisible || user.Billing.BillingIban == "" {
		respond(c, http.StatusOK, gin.H{"iban": nil})
		return
	}
	respond(c, http.StatusOK, gin.H{
		"iban":   user.Billing.BillingIban,
		"bic":    user.Billing.BillingBic,
		"holder": user.Billing.BillingHolder,
	})
}

type TransferBody struct {
	FromAccountID string  `json:"fromAccountId" validate:"required"`
	ToAccountID   string  `json:"toAccountId" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Description   string  `json:"description"`
}

func (ac *AccountController) Transfer(c *gin.Context) {
	var body TransferBody
	if err := c.BindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := Validate.Struct(body); err != nil {
		fail(c, http.StatusBadRequest, "Montant ou compte invalide")
		return
	}

	tx, err := ac.AccountService.Transfer(c.Request.Context(), c.Param("userId"), services.TransferRequest{
		FromAccountID: body.FromAccountID,
		ToAccountID:   body.ToAccountID,
		Amount:        body.Amount,
		Description:   body.Description,
	})
	if err != nil {
		failFrom(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"transaction": tx})
}

func (ac *AccountController) AccountRoutes(rg *gin.RouterGroup) {
	rg.GET("/accounts/:userId", ac.GetAccounts)
	rg.GET("/iban/:userId", ac.GetIBAN)
	rg.POST("/transfers/:userId", ac.Transfer)
}
