package handlers

import (
	"net/http"

	"github.com/dsyengo/dekai-smart-poultry-backend/internal/services"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type HistoryHandler struct {
	ScanService   services.IScanService
	ReportService services.IReportService
}

func NewHistoryHandler(scanService services.IScanService, reportService services.IReportService) *HistoryHandler {
	return &HistoryHandler{
		ScanService:   scanService,
		ReportService: reportService,
	}
}

func (h *HistoryHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	historyGr := router.Group("/api/v1/history", auth)
	historyGr.GET("", h.GetScanHistory)
	historyGr.POST("/report", h.GenerateReport)
	historyGr.DELETE("/:scanId", h.DeleteScan)
}

func (h *HistoryHandler) GetScanHistory(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.CreateErrorResponse("UNAUTHORIZED", "not authenticated"))
		return
	}

	scans, err := h.ScanService.GetAllScans(c.Request.Context(), userID)
	if err != nil {
		errorCode, httpStatus := MapErrorToHTTPStatus(err)
		c.JSON(httpStatus, utils.CreateErrorResponse(errorCode, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{
		"scans": scans,
		"count": len(scans),
	}))
}

func (h *HistoryHandler) GenerateReport(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.CreateErrorResponse("UNAUTHORIZED", "not authenticated"))
		return
	}

	url, err := h.ReportService.GenerateHistoryReport(c.Request.Context(), userID)
	if err != nil {
		errorCode, httpStatus := MapErrorToHTTPStatus(err)
		c.JSON(httpStatus, utils.CreateErrorResponse(errorCode, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"reportUrl": url}))
}

func (h *HistoryHandler) DeleteScan(c *gin.Context) {
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

	if err := h.ScanService.DeleteScan(c.Request.Context(), scanID, userID); err != nil {
		errorCode, httpStatus := MapErrorToHTTPStatus(err)
		c.JSON(httpStatus, utils.CreateErrorResponse(errorCode, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"message": "Scan deleted"}))
}
