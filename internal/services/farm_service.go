package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dsyengo/dekai-smart-poultry-backend/internal/models"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/repository"

	"github.com/google/uuid"
)

type IFarmService interface {
	CreateFarm(ctx context.Context, userID uuid.UUID, req *models.CreateFarmRequest) (*models.Farm, error)
	GetFarms(ctx context.Context, userID uuid.UUID) ([]models.Farm, error)
	GetFarm(ctx context.Context, farmID, userID uuid.UUID) (*models.Farm, error)
	UpdateFarm(ctx context.Context, farmID, userID uuid.UUID, req *models.CreateFarmRequest) (*models.Farm, error)
	CheckCompletion(ctx context.Context, farmID, userID uuid.UUID) (*models.Farm, error)
	DeleteFarm(ctx context.Context, farmID, userID uuid.UUID) error
}

type FarmService struct {
	farmRepo repository.IFarmRepository
}

func NewFarmService(farmRepo repository.IFarmRepository) IFarmService {
	return &FarmService{
		farmRepo: farmRepo,
	}
}

func (s *FarmService) CreateFarm(ctx context.Context, userID uuid.UUID, req *models.CreateFarmRequest) (*models.Farm, error) {
	if err := validateFarmRequest(req); err != nil {
		return nil, err
	}

	farm := farmFromRequest(req)
	farm.ID = uuid.New()
	farm.UserID = userID
	farm.IsDataFilled = farm.ComputeDataFilled()

	if err := s.farmRepo.CreateFarm(farm); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: a farm profile already exists for this account", ErrAlreadyExists)
		}
		return nil, err
	}

	slog.Info("created farm", "farm_id", farm.ID, "user_id", userID)
	return farm, nil
}

func (s *FarmService) GetFarms(ctx context.Context, userID uuid.UUID) ([]models.Farm, error) {
	return s.farmRepo.GetFarmsByUserID(userID)
}

func (s *FarmService) GetFarm(ctx context.Context, farmID, userID uuid.UUID) (*models.Farm, error) {
	farm, err := s.farmRepo.GetFarmByID(farmID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: farm", ErrNotFound)
	}
	return farm, err
}

func (s *FarmService) UpdateFarm(ctx context.Context, farmID, userID uuid.UUID, req *models.CreateFarmRequest) (*models.Farm, error) {
	if err := validateFarmRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.farmRepo.GetFarmByID(farmID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: farm", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	farm := farmFromRequest(req)
	farm.ID = existing.ID
	farm.UserID = existing.UserID
	farm.CreatedAt = existing.CreatedAt
	farm.IsDataFilled = farm.ComputeDataFilled()

	if err := s.farmRepo.UpdateFarm(farm); err != nil {
		return nil, err
	}
	return farm, nil
}

// CheckCompletion recomputes the profile completeness flag and persists it
// only when the stored value drifted from the derived one.
func (s *FarmService) CheckCompletion(ctx context.Context, farmID, userID uuid.UUID) (*models.Farm, error) {
	farm, err := s.farmRepo.GetFarmByID(farmID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: farm", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	computed := farm.ComputeDataFilled()
	if computed != farm.IsDataFilled {
		if err := s.farmRepo.UpdateDataFilled(farm.ID, computed); err != nil {
			return nil, err
		}
		farm.IsDataFilled = computed
	}
	return farm, nil
}

func (s *FarmService) DeleteFarm(ctx context.Context, farmID, userID uuid.UUID) error {
	if err := s.farmRepo.DeleteFarm(farmID, userID); err != nil {
		return fmt.Errorf("%w: farm", ErrNotFound)
	}
	slog.Info("deleted farm", "farm_id", farmID, "user_id", userID)
	return nil
}

func farmFromRequest(req *models.CreateFarmRequest) *models.Farm {
	return &models.Farm{
		FarmName:             strings.TrimSpace(req.FarmName),
		County:               strings.TrimSpace(req.County),
		Subcounty:            req.Subcounty,
		Village:              req.Village,
		Latitude:             req.Latitude,
		Longitude:            req.Longitude,
		Altitude:             req.Altitude,
		PoultryType:          req.PoultryType,
		BirdCount:            req.BirdCount,
		AverageBirdAgeWeeks:  req.AverageBirdAgeWeeks,
		ProductionStage:      req.ProductionStage,
		FeedType:             req.FeedType,
		MortalityRate:        req.MortalityRate,
		HousingType:          req.HousingType,
		BiosecurityPractices: req.BiosecurityPractices,
		CleaningFrequency:    req.CleaningFrequency,
		LitterManagement:     req.LitterManagement,
		VentilationQuality:   req.VentilationQuality,
	}
}

func validateFarmRequest(req *models.CreateFarmRequest) error {
	if strings.TrimSpace(req.FarmName) == "" {
		return fmt.Errorf("%w: farm_name is required", ErrValidation)
	}
	if strings.TrimSpace(req.County) == "" {
		return fmt.Errorf("%w: county is required", ErrValidation)
	}
	if req.PoultryType != "" && !req.PoultryType.Valid() {
		return fmt.Errorf("%w: unknown poultry_type %q", ErrValidation, req.PoultryType)
	}
	if req.BirdCount < 0 {
		return fmt.Errorf("%w: bird_count cannot be negative", ErrValidation)
	}
	if req.MortalityRate < 0 || req.MortalityRate > 100 {
		return fmt.Errorf("%w: mortality_rate must be between 0 and 100", ErrValidation)
	}
	if req.Latitude != nil && (*req.Latitude < -90 || *req.Latitude > 90) {
		return fmt.Errorf("%w: latitude out of range", ErrValidation)
	}
	if req.Longitude != nil && (*req.Longitude < -180 || *req.Longitude > 180) {
		return fmt.Errorf("%w: longitude out of range", ErrValidation)
	}
	return nil
}
