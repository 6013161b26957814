package handlers

import (
	"net/http"

	"github.com/dsyengo/dekai-smart-poultry-backend/internal/models"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/services"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	UserService services.IUserService
}

func NewAuthHandler(userService services.IUserService) *AuthHandler {
	return &AuthHandler{
		UserService: userService,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	authGr := router.Group("/api/v1/auth")
	authGr.POST("/register", h.Register)
	authGr.POST("/login", h.Login)

	authGrProtected := router.Group("/api/v1/auth", auth)
	authGrProtected.POST("/logout", h.Logout)
	authGrProtected.GET("/me", h.GetProfile)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("VALIDATION_ERROR", "invalid request body"))
		return
	}

	user, err := h.UserService.RegisterNewUser(c.Request.Context(), &req)
	if err != nil {
		errorCode, httpStatus := MapErrorToHTTPStatus(err)
		c.JSON(httpStatus, utils.CreateErrorResponse(errorCode, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(user.Summary()))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("VALIDATION_ERROR", "invalid request body"))
		return
	}

	resp, err := h.UserService.Login(c.Request.Context(), &req)
	if err != nil {
		errorCode, httpStatus := MapErrorToHTTPStatus(err)
		c.JSON(httpStatus, utils.CreateErrorResponse(errorCode, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(resp))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.CreateErrorResponse("UNAUTHORIZED", "not authenticated"))
		return
	}

	if err := h.UserService.Logout(c.Request.Context(), userID); err != nil {
		errorCode, httpStatus := MapErrorToHTTPStatus(err)
		c.JSON(httpStatus, utils.CreateErrorResponse(errorCode, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"message": "Logged out successfully"}))
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.CreateErrorResponse("UNAUTHORIZED", "not authenticated"))
		return
	}

	user, err := h.UserService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		errorCode, httpStatus := MapErrorToHTTPStatus(err)
		c.JSON(httpStatus, utils.CreateErrorResponse(errorCode, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(user))
}
