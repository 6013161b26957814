package handlers

import (
	"net/http"

	"github.com/dsyengo/dekai-smart-poultry-backend/internal/models"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/services"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	ChatService services.IChatService
}

func NewChatHandler(chatService services.IChatService) *ChatHandler {
	return &ChatHandler{
		ChatService: chatService,
	}
}

func (h *ChatHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	chatGr := router.Group("/api/v1/chat", auth)
	chatGr.POST("/send", h.SendMessage)
	chatGr.GET("/history", h.GetHistory)
	chatGr.DELETE("/clear", h.ClearHistory)
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.CreateErrorResponse("UNAUTHORIZED", "not authenticated"))
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("VALIDATION_ERROR", "invalid request body"))
		return
	}

	resp, err := h.ChatService.SendMessage(c.Request.Context(), userID, req.Message)
	if err != nil {
		errorCode, httpStatus := MapErrorToHTTPStatus(err)
		c.JSON(httpStatus, utils.CreateErrorResponse(errorCode, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(resp))
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.CreateErrorResponse("UNAUTHORIZED", "not authenticated"))
		return
	}

	sessions, err := h.ChatService.GetHistory(c.Request.Context(), userID)
	if err != nil {
		errorCode, httpStatus := MapErrorToHTTPStatus(err)
		c.JSON(httpStatus, utils.CreateErrorResponse(errorCode, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(sessions))
}

func (h *ChatHandler) ClearHistory(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.CreateErrorResponse("UNAUTHORIZED", "not authenticated"))
		return
	}

	if err := h.ChatService.ClearHistory(c.Request.Context(), userID); err != nil {
		errorCode, httpStatus := MapErrorToHTTPStatus(err)
		c.JSON(httpStatus, utils.CreateErrorResponse(errorCode, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"message": "Chat history cleared"}))
}
