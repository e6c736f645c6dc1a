package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pricile448/amcb-sub000/models"
	"github.com/pricile448/amcb-sub000/services"
	generate "github.com/pricile448/amcb-sub000/utils"
)

type AuthController struct {
	UserService  services.UserService
	Verification *services.VerificationService
}

func AuthConstructor(userService services.UserService, verification *services.VerificationService) AuthController {
	return AuthController{
		UserService:  userService,
		Verification: verification,
	}
}

type RegisterRequest struct {
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=6"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Phone      string  `json:"phone"`
	Address    string  `json:"address"`
	City       string  `json:"city"`
	PostalCode string  `json:"postalCode"`
	Country    string  `json:"country"`
	Dob        string  `json:"dob"`
	Pob        string  `json:"pob"`
	Nationality string `json:"nationality"`
	Profession string  `json:"profession"`
	Salary     float64 `json:"salary"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// userResponse is the profile projection returned by the auth endpoints.
// The stored model keeps one canonical status field; the legacy names the
// existing frontend reads (verificationStatus, isEmailVerified) only exist
// here, at the serialization boundary.
type userResponse struct {
	ID                 string           `json:"id"`
	Email              string           `json:"email"`
	FirstName          string           `json:"firstName"`
	LastName           string           `json:"lastName"`
	Phone              string           `json:"phone"`
	Role               string           `json:"role"`
	VerificationStatus string           `json:"verificationStatus"`
	KYCStatus          string           `json:"kycStatus,omitempty"`
	EmailVerified      bool             `json:"emailVerified"`
	IsEmailVerified    bool             `json:"isEmailVerified"`
	Accounts           []models.Account `json:"accounts"`
}

func newUserResponse(user *models.User, includeKYC bool) userResponse {
	accounts := user.Accounts
	if accounts == nil {
		accounts = []models.Account{}
	}
	resp := userResponse{
		ID:                 user.ID,
		Email:              user.Email,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		Phone:              user.Phone,
		Role:               user.Role,
		VerificationStatus: user.KYCStatus,
		EmailVerified:      user.EmailVerified,
		IsEmailVerified:    user.EmailVerified,
		Accounts:           accounts,
	}
	if includeKYC {
		resp.KYCStatus = user.KYCStatus
	}
	return resp
}

func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := Validate.Struct(req); err != nil {
		fail(c, http.StatusBadRequest, msgBadRequest)
		return
	}

	taken, err := ac.UserService.EmailTaken(c.Request.Context(), req.Email)
	if err != nil {
		failFrom(c, err)
		return
	}
	if taken {
		fail(c, http.StatusBadRequest, "Cet email est déjà utilisé.")
		return
	}

	now := time.Now()
	user := models.User{
		ID:            uuid.NewString(),
		Email:         req.Email,
		Password:      generate.HashPassword(req.Password),
		Role:          "user",
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		PostalCode:    req.PostalCode,
		Country:       req.Country,
		Dob:           req.Dob,
		Pob:           req.Pob,
		Nationality:   req.Nationality,
		Profession:    req.Profession,
		Salary:        req.Salary,
		KYCStatus:     models.KYCUnverified,
		EmailVerified: false,
		CreatedAt:     now,
		UpdatedAt:     now,
		// Default accounts are a seeding concern, not a registration one:
		// every embedded collection starts empty.
		Accounts:      []models.Account{},
		Transactions:  []models.Transaction{},
		Notifications: []models.Notification{},
		Beneficiaries: []models.Beneficiary{},
		Budgets:       []models.Budget{},
		Documents:     []models.Document{},
		VirtualCards:  []models.VirtualCard{},
		CardLimits: models.CardLimits{
			Monthly:    2000,
			Withdrawal: 500,
			CardStatus: "none",
			CardType:   "standard",
		},
		NotificationPrefs: models.NotificationPrefs{
			Email:    true,
			Security: true,
		},
	}
	if err := ac.UserService.CreateUser(c.Request.Context(), &user); err != nil {
		failFrom(c, err)
		return
	}

	access, refresh, err := generate.TokenGenerator(user.ID, user.Email)
	if err != nil {
		failFrom(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{
		"access":  access,
		"refresh": refresh,
		"user":    newUserResponse(&user, false),
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := Validate.Struct(req); err != nil {
		fail(c, http.StatusBadRequest, msgBadRequest)
		return
	}

	// Unknown email and wrong password produce the same response: no
	// account-existence leak.
	const loginFailed = "Email ou mot de passe incorrect"

	user, err := ac.UserService.GetUser(c.Request.Context(), req.Email)
	if errors.Is(err, services.ErrNotFound) {
		fail(c, http.StatusUnauthorized, loginFailed)
		return
	}
	if err != nil {
		failFrom(c, err)
		return
	}
	if !generate.VerifyPassword(req.Password, user.Password) {
		fail(c, http.StatusUnauthorized, loginFailed)
		return
	}

	access, refresh, err := generate.TokenGenerator(user.ID, user.Email)
	if err != nil {
		failFrom(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"access":  access,
		"refresh": refresh,
		"user":    newUserResponse(user, true),
	})
}

func (ac *AuthController) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.BindJSON(&req); err != nil || req.Refresh == "" {
		fail(c, http.StatusUnauthorized, "Jeton de rafraîchissement manquant")
		return
	}
	claims, err := generate.ValidateToken(req.Refresh)
	if err != nil {
		fail(c, http.StatusUnauthorized, "Jeton de rafraîchissement invalide")
		return
	}
	access, refresh, err := generate.TokenGenerator(claims.Id, claims.Email)
	if err != nil {
		failFrom(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"access": access, "refresh": refresh})
}

func (ac *AuthController) SendVerificationCode(c *gin.Context) {
	var req EmailRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := Validate.Struct(req); err != nil {
		fail(c, http.StatusBadRequest, msgBadRequest)
		return
	}

	code, debug, err := ac.Verification.RequestCode(c.Request.Context(), req.Email)
	if err != nil {
		failFrom(c, err)
		return
	}
	if debug {
		respond(c, http.StatusOK, gin.H{
			"message": "Email indisponible, code renvoyé en mode debug",
			"debug":   true,
			"code":    code,
		})
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Code de vérification envoyé"})
}

func (ac *AuthController) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := Validate.Struct(req); err != nil {
		fail(c, http.StatusBadRequest, msgBadRequest)
		return
	}

	err := ac.Verification.VerifyCode(c.Request.Context(), req.Email, req.Code)
	switch err {
	case nil:
		respond(c, http.StatusOK, gin.H{"message": "Email vérifié avec succès"})
	case services.ErrCodeNotFound:
		fail(c, http.StatusBadRequest, "Aucun code en attente pour cet email")
	case services.ErrCodeExpired:
		fail(c, http.StatusBadRequest, "Code expiré")
	case services.ErrCodeIncorrect:
		fail(c, http.StatusBadRequest, "Code incorrect")
	case services.ErrTooManyAttempts:
		fail(c, http.StatusBadRequest, "Trop de tentatives, demandez un nouveau code")
	default:
		failFrom(c, err)
	}
}

func (ac *AuthController) AuthRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", ac.Register)
	rg.POST("/auth/login", ac.Login)
	rg.POST("/auth/refresh", ac.Refresh)
	rg.POST("/sendVerificationCode", ac.SendVerificationCode)
	rg.POST("/verifyCode", ac.VerifyCode)
}
