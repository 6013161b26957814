package handlers

import (
	"net/http"

	"github.com/dsyengo/dekai-smart-poultry-backend/internal/models"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/services"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FarmHandler struct {
	FarmService services.IFarmService
}

func NewFarmHandler(farmService services.IFarmService) *FarmHandler {
	return &FarmHandler{
		FarmService: farmService,
	}
}

func (h *FarmHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	farmGr := router.Group("/api/v1/farms", auth)
	farmGr.POST("", h.CreateFarm)
	farmGr.GET("", h.GetFarms)
	farmGr.GET("/:farmId", h.GetFarm)
	farmGr.PUT("/:farmId", h.UpdateFarm)
	farmGr.GET("/:farmId/completion", h.CheckCompletion)
	farmGr.DELETE("/:farmId", h.DeleteFarm)
}

func (h *FarmHandler) CreateFarm(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.CreateErrorResponse("UNAUTHORIZED", "not authenticated"))
		return
	}

	var req models.CreateFarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("VALIDATION_ERROR", "invalid request body"))
		return
	}

	farm, err := h.FarmService.CreateFarm(c.Request.Context(), userID, &req)
	if err != nil {
		errorCode, httpStatus := MapErrorToHTTPStatus(err)
		c.JSON(httpStatus, utils.CreateErrorResponse(errorCode, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(farm))
}

func (h *FarmHandler) GetFarms(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.CreateErrorResponse("UNAUTHORIZED", "not authenticated"))
		return
	}

	farms, err := h.FarmService.GetFarms(c.Request.Context(), userID)
	if err != nil {
		errorCode, httpStatus := MapErrorToHTTPStatus(err)
		c.JSON(httpStatus, utils.CreateErrorResponse(errorCode, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(farms))
}

func (h *FarmHandler) GetFarm(c *gin.Context) {
	userID, farmID, ok := h.farmRequestIDs(c)
	if !ok {
		return
	}

	farm, err := h.FarmService.GetFarm(c.Request.Context(), farmID, userID)
	if err != nil {
		errorCode, httpStatus := MapErrorToHTTPStatus(err)
		c.JSON(httpStatus, utils.CreateErrorResponse(errorCode, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(farm))
}

func (h *FarmHandler) UpdateFarm(c *gin.Context) {
	userID, farmID, ok := h.farmRequestIDs(c)
	if !ok {
		return
	}

	var req models.CreateFarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("VALIDATION_ERROR", "invalid request body"))
		return
	}

	farm, err := h.FarmService.UpdateFarm(c.Request.Context(), farmID, userID, &req)
	if err != nil {
		errorCode, httpStatus := MapErrorToHTTPStatus(err)
		c.JSON(httpStatus, utils.CreateErrorResponse(errorCode, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(farm))
}

func (h *FarmHandler) CheckCompletion(c *gin.Context) {
	userID, farmID, ok := h.farmRequestIDs(c)
	if !ok {
		return
	}

	farm, err := h.FarmService.CheckCompletion(c.Request.Context(), farmID, userID)
	if err != nil {
		errorCode, httpStatus := MapErrorToHTTPStatus(err)
		c.JSON(httpStatus, utils.CreateErrorResponse(errorCode, err.Error()))
		return
	}

	message := "Farm profile is complete"
	if !farm.IsDataFilled {
		message = "Farm profile is missing required details"
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{
		"farmId":       farm.ID,
		"isDataFilled": farm.IsDataFilled,
		"message":      message,
	}))
}

func (h *FarmHandler) DeleteFarm(c *gin.Context) {
	userID, farmID, ok := h.farmRequestIDs(c)
	if !ok {
		return
	}

	if err := h.FarmService.DeleteFarm(c.Request.Context(), farmID, userID); err != nil {
		errorCode, httpStatus := MapErrorToHTTPStatus(err)
		c.JSON(httpStatus, utils.CreateErrorResponse(errorCode, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"message": "Farm deleted"}))
}

func (h *FarmHandler) farmRequestIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.CreateErrorResponse("UNAUTHORIZED", "not authenticated"))
		return uuid.Nil, uuid.Nil, false
	}

	farmID, err := uuid.Parse(c.Param("farmId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("VALIDATION_ERROR", "invalid farm id"))
		return uuid.Nil, uuid.Nil, false
	}

	return userID, farmID, true
}
