package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path"
	"strings"
	"time"

	"github.com/dsyengo/dekai-smart-poultry-backend/internal/event"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/models"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/repository"

	"github.com/google/uuid"
)

const (
	maxScanImageBytes = 10 << 20
	riskAlertLimit    = 5
)

// ScanGateway is the external inference endpoint that turns an uploaded image
// plus context readings into an analysis outcome.
type ScanGateway interface {
	Analyze(ctx context.Context, imageURL string, env models.Environment, loc models.Location) (*models.AnalysisOutcome, error)
}

// ObjectStorage stores scan images and resolves their public URLs.
type ObjectStorage interface {
	UploadBytes(ctx context.Context, bucketName, objectName string, data []byte, contentType string) error
	ObjectURL(bucketName, objectName string) string
}

// AlertPublisher fans out high risk detections as events.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, event event.ScanAlertEvent) error
}

type IScanService interface {
	SubmitScan(ctx context.Context, sub *models.ScanSubmission) (*models.ScanResult, error)
	GetScan(ctx context.Context, scanID, userID uuid.UUID) (*models.DiseaseScan, error)
	ListScans(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.DiseaseScan, *models.Pagination, error)
	GetAllScans(ctx context.Context, userID uuid.UUID) ([]models.DiseaseScan, error)
	GetAlerts(ctx context.Context, userID uuid.UUID) ([]models.DiseaseScan, error)
	DeleteScan(ctx context.Context, scanID, userID uuid.UUID) error
}

type ScanService struct {
	scanRepo    repository.IScanRepository
	farmRepo    repository.IFarmRepository
	gateway     ScanGateway
	storage     ObjectStorage
	publisher   AlertPublisher
	imageBucket string
}

func NewScanService(
	scanRepo repository.IScanRepository,
	farmRepo repository.IFarmRepository,
	gateway ScanGateway,
	storage ObjectStorage,
	publisher AlertPublisher,
	imageBucket string,
) IScanService {
	return &ScanService{
		scanRepo:    scanRepo,
		farmRepo:    farmRepo,
		gateway:     gateway,
		storage:     storage,
		publisher:   publisher,
		imageBucket: imageBucket,
	}
}

// SubmitScan runs the full scan lifecycle: validate, upload the image, create
// the provisional record, call the inference gateway, then finalize the record
// exactly once. Validation failures happen before any record exists; gateway
// failures leave a failed record behind and surface to the caller.
func (s *ScanService) SubmitScan(ctx context.Context, sub *models.ScanSubmission) (*models.ScanResult, error) {
	if err := s.validateSubmission(sub); err != nil {
		return nil, err
	}

	scanID := uuid.New()
	objectName := scanObjectName(scanID, sub.ImageName)
	if err := s.storage.UploadBytes(ctx, s.imageBucket, objectName, sub.ImageData, sub.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store scan image: %w", err)
	}
	imageURL := s.storage.ObjectURL(s.imageBucket, objectName)

	sessionStart := time.Now()
	scan := &models.DiseaseScan{
		ID:           scanID,
		UserID:       sub.UserID,
		FarmID:       sub.FarmID,
		ImageURL:     imageURL,
		Latitude:     sub.Location.Latitude,
		Longitude:    sub.Location.Longitude,
		Temperature:  sub.Environment.Temperature,
		Humidity:     sub.Environment.Humidity,
		Ammonia:      sub.Environment.Ammonia,
		CO2:          sub.Environment.CO2,
		PM25:         sub.Environment.PM25,
		Status:       models.ScanProcessing,
		SessionStart: sessionStart,
	}
	if err := s.scanRepo.CreateScan(scan); err != nil {
		return nil, err
	}

	outcome, err := s.gateway.Analyze(ctx, imageURL, sub.Environment, sub.Location)
	if err != nil {
		slog.Error("scan analysis failed", "scan_id", scanID, "error", err)
		if markErr := s.scanRepo.MarkFailed(scanID); markErr != nil {
			slog.Error("failed to mark scan failed", "scan_id", scanID, "error", markErr)
		}
		// Raw upstream detail stays in the logs, not in the response.
		return nil, fmt.Errorf("%w: disease analysis is currently unavailable", ErrUpstreamService)
	}

	sessionEnd := time.Now()
	duration := int(math.Round(sessionEnd.Sub(sessionStart).Seconds()))
	if err := s.scanRepo.FinalizeCompleted(scanID, sessionEnd, duration, outcome); err != nil {
		// The record must still reach a terminal state.
		slog.Error("failed to finalize scan", "scan_id", scanID, "error", err)
		if markErr := s.scanRepo.MarkFailed(scanID); markErr != nil {
			slog.Error("failed to mark scan failed", "scan_id", scanID, "error", markErr)
		}
		return nil, err
	}

	s.publishAlertIfNeeded(ctx, scan, outcome, sessionEnd)

	slog.Info("scan completed",
		"scan_id", scanID,
		"user_id", sub.UserID,
		"detected", outcome.Detected,
		"risk_level", outcome.RiskLevel,
		"duration_seconds", duration,
	)

	return &models.ScanResult{
		ScanID:           scanID,
		DiseaseDetected:  outcome.Detected,
		Prediction:       outcome.Prediction,
		Confidence:       outcome.Confidence,
		RiskLevel:        outcome.RiskLevel,
		ImmediateActions: outcome.ImmediateActions(),
		Recommendations:  outcome.Recommendations,
		Timestamp:        sessionEnd.UTC().Format(time.RFC3339),
	}, nil
}

// publishAlertIfNeeded emits an alert event for detected high or critical
// scans. Publishing is best effort and never fails the scan.
func (s *ScanService) publishAlertIfNeeded(ctx context.Context, scan *models.DiseaseScan, outcome *models.AnalysisOutcome, at time.Time) {
	if s.publisher == nil {
		return
	}
	if !outcome.Detected || !outcome.RiskLevel.AtLeast(models.RiskHigh) {
		return
	}

	err := s.publisher.PublishAlert(ctx, event.ScanAlertEvent{
		ScanID:     scan.ID,
		UserID:     scan.UserID,
		FarmID:     scan.FarmID,
		Prediction: outcome.Prediction,
		RiskLevel:  string(outcome.RiskLevel),
		Confidence: outcome.Confidence,
		OccurredAt: at,
	})
	if err != nil {
		slog.Error("failed to publish scan alert", "scan_id", scan.ID, "error", err)
	}
}

func (s *ScanService) GetScan(ctx context.Context, scanID, userID uuid.UUID) (*models.DiseaseScan, error) {
	scan, err := s.scanRepo.GetScanByID(scanID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: scan", ErrNotFound)
	}
	return scan, err
}

func (s *ScanService) ListScans(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.DiseaseScan, *models.Pagination, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	scans, total, err := s.scanRepo.GetScansByUserID(userID, page, limit)
	if err != nil {
		return nil, nil, err
	}

	totalPages := (total + limit - 1) / limit
	return scans, &models.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalScans:  total,
	}, nil
}

func (s *ScanService) GetAllScans(ctx context.Context, userID uuid.UUID) ([]models.DiseaseScan, error) {
	return s.scanRepo.GetAllScansByUserID(userID)
}

func (s *ScanService) GetAlerts(ctx context.Context, userID uuid.UUID) ([]models.DiseaseScan, error) {
	return s.scanRepo.GetRiskAlerts(userID, riskAlertLimit)
}

func (s *ScanService) DeleteScan(ctx context.Context, scanID, userID uuid.UUID) error {
	if err := s.scanRepo.DeleteScan(scanID, userID); err != nil {
		return fmt.Errorf("%w: scan", ErrNotFound)
	}
	return nil
}

func (s *ScanService) validateSubmission(sub *models.ScanSubmission) error {
	if len(sub.ImageData) == 0 {
		return fmt.Errorf("%w: scan image is required", ErrValidation)
	}
	if len(sub.ImageData) > maxScanImageBytes {
		return fmt.Errorf("%w: scan image exceeds 10MB", ErrValidation)
	}
	if !strings.HasPrefix(sub.ContentType, "image/") {
		return fmt.Errorf("%w: file must be an image", ErrValidation)
	}
	if sub.Location.Latitude < -90 || sub.Location.Latitude > 90 {
		return fmt.Errorf("%w: latitude out of range", ErrValidation)
	}
	if sub.Location.Longitude < -180 || sub.Location.Longitude > 180 {
		return fmt.Errorf("%w: longitude out of range", ErrValidation)
	}
	if sub.FarmID != nil {
		if _, err := s.farmRepo.GetFarmByID(*sub.FarmID, sub.UserID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: farm", ErrNotFound)
			}
			return err
		}
	}
	return nil
}

// scanObjectName derives the bucket object key. The scan id keeps keys unique
// even when farmers reuse file names.
func scanObjectName(scanID uuid.UUID, imageName string) string {
	ext := strings.ToLower(path.Ext(imageName))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("scans/%s%s", scanID, ext)
}
