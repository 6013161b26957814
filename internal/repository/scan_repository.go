package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dsyengo/dekai-smart-poultry-backend/internal/models"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type IScanRepository interface {
	CreateScan(scan *models.DiseaseScan) error
	FinalizeCompleted(scanID uuid.UUID, sessionEnd time.Time, durationSeconds int, outcome *models.AnalysisOutcome) error
	MarkFailed(scanID uuid.UUID) error
	GetScanByID(scanID, userID uuid.UUID) (*models.DiseaseScan, error)
	GetScansByUserID(userID uuid.UUID, page, limit int) ([]models.DiseaseScan, int, error)
	GetAllScansByUserID(userID uuid.UUID) ([]models.DiseaseScan, error)
	GetRiskAlerts(userID uuid.UUID, limit int) ([]models.DiseaseScan, error)
	DeleteScan(scanID, userID uuid.UUID) error
}

type ScanRepository struct {
	db *sqlx.DB
}

func NewScanRepository(db *sqlx.DB) IScanRepository {
	return &ScanRepository{
		db: db,
	}
}

func (r *ScanRepository) CreateScan(scan *models.DiseaseScan) error {
	now := time.Now()
	scan.CreatedAt = now
	scan.UpdatedAt = now

	query := `
        INSERT INTO disease_scans (
            id,
            user_id,
            farm_id,
            image_url,
            latitude,
            longitude,
            temperature,
            humidity,
            ammonia,
            co2,
            pm25,
            status,
            session_start,
            created_at,
            updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
            $11, $12, $13, $14, $15
        )
    `

	err := utils.ExecWithCheck(
		r.db,
		query,
		utils.ExecInsert,
		scan.ID,
		scan.UserID,
		scan.FarmID,
		scan.ImageURL,
		scan.Latitude,
		scan.Longitude,
		scan.Temperature,
		scan.Humidity,
		scan.Ammonia,
		scan.CO2,
		scan.PM25,
		scan.Status,
		scan.SessionStart,
		scan.CreatedAt,
		scan.UpdatedAt,
	)
	if err != nil {
		log.Printf("Error creating disease scan: %s", err.Error())
		return fmt.Errorf("failed to create disease scan: %w", err)
	}

	return nil
}

// FinalizeCompleted is the single finalization write of the success path. The
// status guard keeps transitions forward-only: a terminal record is never
// overwritten.
func (r *ScanRepository) FinalizeCompleted(scanID uuid.UUID, sessionEnd time.Time, durationSeconds int, outcome *models.AnalysisOutcome) error {
	query := `
        UPDATE disease_scans SET
            status = $2,
            disease_detected = $3,
            risk_level = $4,
            analysis_result = $5,
            session_end = $6,
            duration_seconds = $7,
            updated_at = $8
        WHERE id = $1 AND status IN ('pending', 'processing')
    `

	err := utils.ExecWithCheck(
		r.db,
		query,
		utils.ExecUpdate,
		scanID,
		models.ScanCompleted,
		outcome.Detected,
		outcome.RiskLevel,
		outcome,
		sessionEnd,
		durationSeconds,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to finalize disease scan: %w", err)
	}
	return nil
}

// MarkFailed moves a non-terminal record to failed without attaching any
// output payload.
func (r *ScanRepository) MarkFailed(scanID uuid.UUID) error {
	query := `
        UPDATE disease_scans SET
            status = $2,
            updated_at = $3
        WHERE id = $1 AND status IN ('pending', 'processing')
    `

	err := utils.ExecWithCheck(r.db, query, utils.ExecUpdate, scanID, models.ScanFailed, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark disease scan failed: %w", err)
	}
	return nil
}

func (r *ScanRepository) GetScanByID(scanID, userID uuid.UUID) (*models.DiseaseScan, error) {
	var scan models.DiseaseScan
	err := r.db.Get(&scan,
		"SELECT * FROM disease_scans WHERE id = $1 AND user_id = $2", scanID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("Error fetching scan %s: %v", scanID, err)
		return nil, err
	}
	return &scan, nil
}

func (r *ScanRepository) GetScansByUserID(userID uuid.UUID, page, limit int) ([]models.DiseaseScan, int, error) {
	scans := []models.DiseaseScan{}
	offset := (page - 1) * limit
	err := r.db.Select(&scans, `
        SELECT * FROM disease_scans
        WHERE user_id = $1
        ORDER BY session_start DESC
        LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		log.Printf("Error fetching scans for user %s: %v", userID, err)
		return nil, 0, err
	}

	var total int
	if err := r.db.Get(&total,
		"SELECT COUNT(*) FROM disease_scans WHERE user_id = $1", userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count scans: %w", err)
	}

	return scans, total, nil
}

func (r *ScanRepository) GetAllScansByUserID(userID uuid.UUID) ([]models.DiseaseScan, error) {
	scans := []models.DiseaseScan{}
	err := r.db.Select(&scans, `
        SELECT * FROM disease_scans
        WHERE user_id = $1
        ORDER BY session_start DESC`, userID)
	if err != nil {
		log.Printf("Error fetching scan history for user %s: %v", userID, err)
		return nil, err
	}
	return scans, nil
}

func (r *ScanRepository) GetRiskAlerts(userID uuid.UUID, limit int) ([]models.DiseaseScan, error) {
	scans := []models.DiseaseScan{}
	err := r.db.Select(&scans, `
        SELECT * FROM disease_scans
        WHERE user_id = $1
          AND risk_level IN ('high', 'critical')
          AND disease_detected
        ORDER BY session_start DESC
        LIMIT $2`, userID, limit)
	if err != nil {
		log.Printf("Error fetching risk alerts for user %s: %v", userID, err)
		return nil, err
	}
	return scans, nil
}

func (r *ScanRepository) DeleteScan(scanID, userID uuid.UUID) error {
	query := `DELETE FROM disease_scans WHERE id = $1 AND user_id = $2`
	if err := utils.ExecWithCheck(r.db, query, utils.ExecDelete, scanID, userID); err != nil {
		return ErrNotFound
	}
	return nil
}
