package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pricile448/amcb-sub000/models"
	"github.com/pricile448/amcb-sub000/services"
)

type NotificationController struct {
	NotificationService services.NotificationService
}

func NotificationConstructor(notificationService services.NotificationService) NotificationController {
	return NotificationController{NotificationService: notificationService}
}

type NotificationBody struct {
	Title    string `json:"title" validate:"required"`
	Message  string `json:"message" validate:"required"`
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Category string `json:"category"`
}

func (nc *NotificationController) List(c *gin.Context) {
	notifications, err := nc.NotificationService.List(c.Request.Context(), c.Param("userId"))
	if err != nil {
		failFrom(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"notifications": notifications})
}

func (nc *NotificationController) Create(c *gin.Context) {
	var body NotificationBody
	if err := c.BindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := Validate.Struct(body); err != nil {
		fail(c, http.StatusBadRequest, msgBadRequest)
		return
	}

	notification := models.Notification{
		ID:       uuid.NewString(),
		Title:    body.Title,
		Message:  body.Message,
		Type:     body.Type,
		Date:     time.Now(),
		Read:     false,
		Priority: body.Priority,
		Category: body.Category,
	}
	if err := nc.NotificationService.Add(c.Request.Context(), c.Param("userId"), &notification); err != nil {
		failFrom(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"notification": notification})
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	err := nc.NotificationService.MarkRead(c.Request.Context(), c.Param("userId"), c.Param("id"))
	if err != nil {
		failFrom(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{})
}

func (nc *NotificationController) Delete(c *gin.Context) {
	err := nc.NotificationService.Delete(c.Request.Context(), c.Param("userId"), c.Param("id"))
	if err != nil {
		failFrom(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (nc *NotificationController) NotificationRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications/:userId", nc.List)
	rg.POST("/notifications/:userId", nc.Create)
	rg.PUT("/notifications/:userId/:id/read", nc.MarkRead)
	rg.DELETE("/notifications/:userId/:id", nc.Delete)
}
