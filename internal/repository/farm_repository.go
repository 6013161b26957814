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
	"github.com/lib/pq"
)

type IFarmRepository interface {
	GetFarmsByUserID(userID uuid.UUID) ([]models.Farm, error)
	GetFarmByID(farmID, userID uuid.UUID) (*models.Farm, error)
	CreateFarm(farm *models.Farm) error
	UpdateFarm(farm *models.Farm) error
	UpdateDataFilled(farmID uuid.UUID, isDataFilled bool) error
	DeleteFarm(farmID, userID uuid.UUID) error
}

type FarmRepository struct {
	db *sqlx.DB
}

func NewFarmRepository(db *sqlx.DB) IFarmRepository {
	return &FarmRepository{
		db: db,
	}
}

func (r *FarmRepository) GetFarmsByUserID(userID uuid.UUID) ([]models.Farm, error) {
	farms := []models.Farm{}
	err := r.db.Select(&farms,
		"SELECT * FROM farms WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		log.Printf("Error fetching farms for user %s: %v", userID, err)
		return nil, err
	}
	return farms, nil
}

func (r *FarmRepository) GetFarmByID(farmID, userID uuid.UUID) (*models.Farm, error) {
	var farm models.Farm
	err := r.db.Get(&farm,
		"SELECT * FROM farms WHERE id = $1 AND user_id = $2", farmID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("Error fetching farm %s: %v", farmID, err)
		return nil, err
	}
	return &farm, nil
}

func (r *FarmRepository) CreateFarm(farm *models.Farm) error {
	now := time.Now()
	farm.CreatedAt = now
	farm.UpdatedAt = now

	query := `
        INSERT INTO farms (
            id,
            user_id,
            farm_name,
            county,
            subcounty,
            village,
            latitude,
            longitude,
            altitude,
            poultry_type,
            bird_count,
            average_bird_age_weeks,
            production_stage,
            feed_type,
            mortality_rate,
            housing_type,
            biosecurity_practices,
            cleaning_frequency,
            litter_management,
            ventilation_quality,
            is_data_filled,
            created_at,
            updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
            $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
            $21, $22, $23
        )
    `

	err := utils.ExecWithCheck(
		r.db,
		query,
		utils.ExecInsert,
		farm.ID,
		farm.UserID,
		farm.FarmName,
		farm.County,
		farm.Subcounty,
		farm.Village,
		farm.Latitude,
		farm.Longitude,
		farm.Altitude,
		farm.PoultryType,
		farm.BirdCount,
		farm.AverageBirdAgeWeeks,
		farm.ProductionStage,
		farm.FeedType,
		farm.MortalityRate,
		farm.HousingType,
		farm.BiosecurityPractices,
		farm.CleaningFrequency,
		farm.LitterManagement,
		farm.VentilationQuality,
		farm.IsDataFilled,
		farm.CreatedAt,
		farm.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicate
		}
		log.Printf("Error creating farm: %s", err.Error())
		return fmt.Errorf("failed to create farm: %w", err)
	}

	return nil
}

func (r *FarmRepository) UpdateFarm(farm *models.Farm) error {
	farm.UpdatedAt = time.Now()

	query := `
        UPDATE farms SET
            farm_name = $3,
            county = $4,
            subcounty = $5,
            village = $6,
            latitude = $7,
            longitude = $8,
            altitude = $9,
            poultry_type = $10,
            bird_count = $11,
            average_bird_age_weeks = $12,
            production_stage = $13,
            feed_type = $14,
            mortality_rate = $15,
            housing_type = $16,
            biosecurity_practices = $17,
            cleaning_frequency = $18,
            litter_management = $19,
            ventilation_quality = $20,
            is_data_filled = $21,
            updated_at = $22
        WHERE id = $1 AND user_id = $2
    `

	err := utils.ExecWithCheck(
		r.db,
		query,
		utils.ExecUpdate,
		farm.ID,
		farm.UserID,
		farm.FarmName,
		farm.County,
		farm.Subcounty,
		farm.Village,
		farm.Latitude,
		farm.Longitude,
		farm.Altitude,
		farm.PoultryType,
		farm.BirdCount,
		farm.AverageBirdAgeWeeks,
		farm.ProductionStage,
		farm.FeedType,
		farm.MortalityRate,
		farm.HousingType,
		farm.BiosecurityPractices,
		farm.CleaningFrequency,
		farm.LitterManagement,
		farm.VentilationQuality,
		farm.IsDataFilled,
		farm.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update farm: %w", err)
	}
	return nil
}

func (r *FarmRepository) UpdateDataFilled(farmID uuid.UUID, isDataFilled bool) error {
	query := `UPDATE farms SET is_data_filled = $2, updated_at = $3 WHERE id = $1`
	if err := utils.ExecWithCheck(r.db, query, utils.ExecUpdate, farmID, isDataFilled, time.Now()); err != nil {
		return fmt.Errorf("failed to update farm completeness flag: %w", err)
	}
	return nil
}

func (r *FarmRepository) DeleteFarm(farmID, userID uuid.UUID) error {
	query := `DELETE FROM farms WHERE id = $1 AND user_id = $2`
	if err := utils.ExecWithCheck(r.db, query, utils.ExecDelete, farmID, userID); err != nil {
		return ErrNotFound
	}
	return nil
}
