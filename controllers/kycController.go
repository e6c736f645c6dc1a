package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pricile448/amcb-sub000/models"
	"github.com/pricile448/amcb-sub000/services"
)

type KYCController struct {
	UserService services.UserService
	Storage     services.DocumentStorage
}

func KYCConstructor(userService services.UserService, storage services.DocumentStorage) KYCController {
	return KYCController{
		UserService: userService,
		Storage:     storage,
	}
}

func (kc *KYCController) GetStatus(c *gin.Context) {
	user, err := kc.UserService.GetUserByID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		failFrom(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"kycStatus":          user.KYCStatus,
		"verificationStatus": user.KYCStatus,
		"verifiedAt":         user.VerifiedAt,
		"rejectedAt":         user.RejectedAt,
	})
}

type KYCStatusBody struct {
	Status string `json:"status" validate:"required,oneof=unverified pending verified rejected"`
}

func (kc *KYCController) UpdateStatus(c *gin.Context) {
	var body KYCStatusBody
	if err := c.BindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := Validate.Struct(body); err != nil {
		fail(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := kc.UserService.UpdateKYCStatus(c.Request.Context(), c.Param("userId"), body.Status); err != nil {
		failFrom(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"kycStatus": body.Status})
}

// UploadDocument stores one KYC document and moves a fresh user to pending.
func (kc *KYCController) UploadDocument(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "Fichier manquant")
		return
	}
	src, err := file.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "Fichier illisible")
		return
	}
	defer src.Close()

	userID := c.Param("userId")
	url, err := kc.Storage.Save(c.Request.Context(), userID, file.Filename,
		file.Header.Get("Content-Type"), src)
	if err != nil {
		failFrom(c, err)
		return
	}

	doc := models.Document{
		ID:         uuid.NewString(),
		Name:       file.Filename,
		Type:       c.PostForm("type"),
		URL:        url,
		UploadedAt: time.Now(),
	}
	if err := kc.UserService.AddKYCDocument(c.Request.Context(), userID, doc); err != nil {
		failFrom(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"document": doc})
}

func (kc *KYCController) KYCRoutes(rg *gin.RouterGroup) {
	rg.GET("/kyc/:userId", kc.GetStatus)
	rg.PUT("/kyc/:userId/status", kc.UpdateStatus)
	rg.POST("/kyc/:userId/documents", kc.UploadDocument)
}
