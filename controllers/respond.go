package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pricile448/amcb-sub000/services"
)

var Validate = validator.New()

const (
	msgUserNotFound  = "Utilisateur introuvable"
	msgInternalError = "Une erreur est survenue"
	msgBadRequest    = "Requête invalide"
)

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// failFrom maps a service error to the right status; anything unrecognized
// becomes a generic 500 with a fixed message.
func failFrom(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		fail(c, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, services.ErrDuplicateEmail):
		fail(c, http.StatusBadRequest, "Cet email est déjà utilisé.")
	case errors.Is(err, services.ErrAccountNotFound):
		fail(c, http.StatusNotFound, "Compte introuvable")
	case errors.Is(err, services.ErrInsufficientFunds):
		fail(c, http.StatusBadRequest, "Solde insuffisant")
	case errors.Is(err, services.ErrKYCRegression):
		fail(c, http.StatusBadRequest, "Transition de statut KYC invalide")
	default:
		fail(c, http.StatusInternalServerError, msgInternalError)
	}
}

func respond(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}
