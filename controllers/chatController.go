package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pricile448/amcb-sub000/models"
	"github.com/pricile448/amcb-sub000/services"
)

type ChatController struct {
	ChatService services.ChatService
}

func ChatConstructor(chatService services.ChatService) ChatController {
	return ChatController{ChatService: chatService}
}

type ChatMessageBody struct {
	Text   string `json:"text" validate:"required"`
	Sender string `json:"sender" validate:"required"`
}

func (cc *ChatController) GetMessages(c *gin.Context) {
	messages, err := cc.ChatService.GetMessages(c.Request.Context(), c.Param("userId"))
	if err != nil {
		failFrom(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"messages": messages})
}

func (cc *ChatController) PostMessage(c *gin.Context) {
	var body ChatMessageBody
	if err := c.BindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := Validate.Struct(body); err != nil {
		fail(c, http.StatusBadRequest, msgBadRequest)
		return
	}

	message := models.ChatMessage{
		ID:        uuid.NewString(),
		Text:      body.Text,
		Sender:    body.Sender,
		Timestamp: time.Now(),
	}
	if err := cc.ChatService.AddMessage(c.Request.Context(), c.Param("userId"), &message); err != nil {
		failFrom(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": message})
}

func (cc *ChatController) ChatRoutes(rg *gin.RouterGroup) {
	rg.GET("/chat/:userId", cc.GetMessages)
	rg.POST("/chat/:userId", cc.PostMessage)
}
