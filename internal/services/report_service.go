package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dsyengo/dekai-smart-poultry-backend/internal/models"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/repository"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
)

const reportURLExpiry = 24 * time.Hour

// ReportStorage stores generated reports and hands out time limited links.
type ReportStorage interface {
	UploadBytes(ctx context.Context, bucketName, objectName string, data []byte, contentType string) error
	GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error)
}

type IReportService interface {
	GenerateHistoryReport(ctx context.Context, userID uuid.UUID) (string, error)
}

type ReportService struct {
	scanRepo     repository.IScanRepository
	userRepo     repository.IUserRepository
	storage      ReportStorage
	reportBucket string
}

func NewReportService(scanRepo repository.IScanRepository, userRepo repository.IUserRepository, storage ReportStorage, reportBucket string) IReportService {
	return &ReportService{
		scanRepo:     scanRepo,
		userRepo:     userRepo,
		storage:      storage,
		reportBucket: reportBucket,
	}
}

// GenerateHistoryReport renders the user's scan history as a PDF, uploads it
// and returns a presigned download URL.
func (s *ReportService) GenerateHistoryReport(ctx context.Context, userID uuid.UUID) (string, error) {
	scans, err := s.scanRepo.GetAllScansByUserID(userID)
	if err != nil {
		return "", err
	}
	if len(scans) == 0 {
		return "", fmt.Errorf("%w: no scans to report", ErrNotFound)
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return "", err
	}

	data, err := renderHistoryPDF(user, scans)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	objectName := fmt.Sprintf("reports/%s/scan-history-%s.pdf", userID, time.Now().UTC().Format("20060102-150405"))
	if err := s.storage.UploadBytes(ctx, s.reportBucket, objectName, data, "application/pdf"); err != nil {
		return "", fmt.Errorf("failed to store report: %w", err)
	}

	url, err := s.storage.GetPresignedURL(ctx, s.reportBucket, objectName, reportURLExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign report url: %w", err)
	}

	slog.Info("generated scan history report", "user_id", userID, "scans", len(scans))
	return url, nil
}

func renderHistoryPDF(user *models.User, scans []models.DiseaseScan) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Poultry Scan History", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Poultry Disease Scan History")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Farmer: %s", user.Fullname))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format("2 Jan 2006 15:04 MST")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total scans: %d", len(scans)))
	pdf.Ln(10)

	for i := range scans {
		writeScanSection(pdf, &scans[i])
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeScanSection(pdf *fpdf.Fpdf, scan *models.DiseaseScan) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, scan.SessionStart.Format("2 Jan 2006 15:04"))
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 10)
	if scan.Status != models.ScanCompleted || scan.AnalysisResult == nil {
		pdf.Cell(0, 6, fmt.Sprintf("Status: %s", scan.Status))
		pdf.Ln(8)
		return
	}

	outcome := scan.AnalysisResult
	pdf.Cell(0, 6, fmt.Sprintf("Result: %s", outcome.Prediction))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Confidence: %.0f%%", outcome.Confidence*100))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Risk level: %s", strings.ToUpper(string(outcome.RiskLevel))))
	pdf.Ln(5)

	if len(outcome.Recommendations) > 0 {
		pdf.Cell(0, 6, "Recommendations:")
		pdf.Ln(5)
		for _, rec := range outcome.Recommendations {
			pdf.SetX(14)
			pdf.MultiCell(0, 5, fmt.Sprintf("- [%s] %s", rec.Priority, rec.Action), "", "L", false)
		}
	}
	pdf.Ln(6)
}
