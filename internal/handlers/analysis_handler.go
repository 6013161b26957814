package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/dsyengo/dekai-smart-poultry-backend/internal/models"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/services"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AnalysisHandler struct {
	ScanService services.IScanService
}

func NewAnalysisHandler(scanService services.IScanService) *AnalysisHandler {
	return &AnalysisHandler{
		ScanService: scanService,
	}
}

func (h *AnalysisHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	analysisGr := router.Group("/api/v1/analysis", auth)
	analysisGr.POST("/scan", h.SubmitScan)
	analysisGr.GET("/scans", h.ListScans)
	analysisGr.GET("/scans/:scanId", h.GetScan)
	analysisGr.GET("/alerts", h.GetRiskAlerts)
}

// SubmitScan accepts a multipart form with the scan image and its capture
// context. The image and both coordinates are required; sensor readings are
// optional and absent readings stay unset rather than zero.
func (h *AnalysisHandler) SubmitScan(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.CreateErrorResponse("UNAUTHORIZED", "not authenticated"))
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("VALIDATION_ERROR", "scan image is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("VALIDATION_ERROR", "could not read scan image"))
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("VALIDATION_ERROR", "could not read scan image"))
		return
	}

	latitude, err := strconv.ParseFloat(c.PostForm("latitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("VALIDATION_ERROR", "latitude is required"))
		return
	}
	longitude, err := strconv.ParseFloat(c.PostForm("longitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("VALIDATION_ERROR", "longitude is required"))
		return
	}

	var farmID *uuid.UUID
	if raw := c.PostForm("farmId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("VALIDATION_ERROR", "invalid farm id"))
			return
		}
		farmID = &parsed
	}

	ammonia := utils.ParseOptionalFloat(c.PostForm("ammonia"))
	if ammonia == nil {
		// Sensor firmware sends the ammonia channel as nh4.
		ammonia = utils.ParseOptionalFloat(c.PostForm("nh4"))
	}

	sub := &models.ScanSubmission{
		UserID:      userID,
		FarmID:      farmID,
		ImageData:   imageData,
		ImageName:   fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Location: models.Location{
			Latitude:  latitude,
			Longitude: longitude,
		},
		Environment: models.Environment{
			Temperature: utils.ParseOptionalFloat(c.PostForm("temperature")),
			Humidity:    utils.ParseOptionalFloat(c.PostForm("humidity")),
			Ammonia:     ammonia,
			CO2:         utils.ParseOptionalFloat(c.PostForm("co2")),
			PM25:        utils.ParseOptionalFloat(c.PostForm("pm25")),
		},
	}

	result, err := h.ScanService.SubmitScan(c.Request.Context(), sub)
	if err != nil {
		errorCode, httpStatus := MapErrorToHTTPStatus(err)
		c.JSON(httpStatus, utils.CreateErrorResponse(errorCode, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(result))
}

func (h *AnalysisHandler) ListScans(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.CreateErrorResponse("UNAUTHORIZED", "not authenticated"))
		return
	}

	page, err := utils.GetQueryParamAsInt(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("VALIDATION_ERROR", err.Error()))
		return
	}
	limit, err := utils.GetQueryParamAsInt(c, "limit", 10)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("VALIDATION_ERROR", err.Error()))
		return
	}

	scans, pagination, err := h.ScanService.ListScans(c.Request.Context(), userID, page, limit)
	if err != nil {
		errorCode, httpStatus := MapErrorToHTTPStatus(err)
		c.JSON(httpStatus, utils.CreateErrorResponse(errorCode, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{
		"scans":      scans,
		"pagination": pagination,
	}))
}

func (h *AnalysisHandler) GetRiskAlerts(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.CreateErrorResponse("UNAUTHORIZED", "not authenticated"))
		return
	}

	alerts, err := h.ScanService.GetAlerts(c.Request.Context(), userID)
	if err != nil {
		errorCode, httpStatus := MapErrorToHTTPStatus(err)
		c.JSON(httpStatus, utils.CreateErrorResponse(errorCode, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{
		"alerts":     alerts,
		"alertCount": len(alerts),
	}))
}

func (h *AnalysisHandler) GetScan(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.CreateErrorResponse("UNAUTHORIZED", "not authenticated"))
		return
	}

	scanID, err := uuid.Parse(c.Param("scanId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("VALIDATION_ERROR", "invalid scan id"))
		return
	}

	scan, err := h.ScanService.GetScan(c.Request.Context(), scanID, userID)
	if err != nil {
		errorCode, httpStatus := MapErrorToHTTPStatus(err)
		c.JSON(httpStatus, utils.CreateErrorResponse(errorCode, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(scan))
}
