package services

import (
	"context"
	"testing"

	"github.com/dsyengo/dekai-smart-poultry-backend/internal/models"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFarmRepo struct {
	farms            map[uuid.UUID]*models.Farm
	dataFilledWrites int
}

func newMemFarmRepo() *memFarmRepo {
	return &memFarmRepo{farms: map[uuid.UUID]*models.Farm{}}
}

func (m *memFarmRepo) GetFarmsByUserID(userID uuid.UUID) ([]models.Farm, error) {
	var out []models.Farm
	for _, f := range m.farms {
		if f.UserID == userID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (m *memFarmRepo) GetFarmByID(farmID, userID uuid.UUID) (*models.Farm, error) {
	f, ok := m.farms[farmID]
	if !ok || f.UserID != userID {
		return nil, repository.ErrNotFound
	}
	copied := *f
	return &copied, nil
}

func (m *memFarmRepo) CreateFarm(farm *models.Farm) error {
	for _, f := range m.farms {
		if f.UserID == farm.UserID {
			return repository.ErrDuplicate
		}
	}
	m.farms[farm.ID] = farm
	return nil
}

func (m *memFarmRepo) UpdateFarm(farm *models.Farm) error {
	m.farms[farm.ID] = farm
	return nil
}

func (m *memFarmRepo) UpdateDataFilled(farmID uuid.UUID, isDataFilled bool) error {
	m.dataFilledWrites++
	m.farms[farmID].IsDataFilled = isDataFilled
	return nil
}

func (m *memFarmRepo) DeleteFarm(farmID, userID uuid.UUID) error {
	f, ok := m.farms[farmID]
	if !ok || f.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.farms, farmID)
	return nil
}

func validFarmRequest() *models.CreateFarmRequest {
	return &models.CreateFarmRequest{
		FarmName:    "Green Acres",
		County:      "Kiambu",
		PoultryType: models.PoultryLayers,
		BirdCount:   250,
	}
}

func TestCreateFarmSetsDataFilled(t *testing.T) {
	repo := newMemFarmRepo()
	svc := NewFarmService(repo)

	farm, err := svc.CreateFarm(context.Background(), uuid.New(), validFarmRequest())
	require.NoError(t, err)
	assert.True(t, farm.IsDataFilled)
}

func TestCreateFarmIncompleteProfile(t *testing.T) {
	repo := newMemFarmRepo()
	svc := NewFarmService(repo)

	req := validFarmRequest()
	req.BirdCount = 0

	farm, err := svc.CreateFarm(context.Background(), uuid.New(), req)
	require.NoError(t, err)
	assert.False(t, farm.IsDataFilled)
}

func TestCreateSecondFarmRejected(t *testing.T) {
	repo := newMemFarmRepo()
	svc := NewFarmService(repo)
	userID := uuid.New()

	_, err := svc.CreateFarm(context.Background(), userID, validFarmRequest())
	require.NoError(t, err)

	_, err = svc.CreateFarm(context.Background(), userID, validFarmRequest())
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestCreateFarmValidation(t *testing.T) {
	svc := NewFarmService(newMemFarmRepo())
	userID := uuid.New()

	req := validFarmRequest()
	req.FarmName = "  "
	_, err := svc.CreateFarm(context.Background(), userID, req)
	assert.ErrorIs(t, err, ErrValidation)

	req = validFarmRequest()
	req.PoultryType = "Ostriches"
	_, err = svc.CreateFarm(context.Background(), userID, req)
	assert.ErrorIs(t, err, ErrValidation)

	req = validFarmRequest()
	req.MortalityRate = 140
	_, err = svc.CreateFarm(context.Background(), userID, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateFarmRecomputesDataFilled(t *testing.T) {
	repo := newMemFarmRepo()
	svc := NewFarmService(repo)
	userID := uuid.New()

	req := validFarmRequest()
	req.BirdCount = 0
	farm, err := svc.CreateFarm(context.Background(), userID, req)
	require.NoError(t, err)
	require.False(t, farm.IsDataFilled)

	req.BirdCount = 120
	updated, err := svc.UpdateFarm(context.Background(), farm.ID, userID, req)
	require.NoError(t, err)
	assert.True(t, updated.IsDataFilled)
}

func TestCheckCompletionPersistsOnlyOnDrift(t *testing.T) {
	repo := newMemFarmRepo()
	svc := NewFarmService(repo)
	userID := uuid.New()

	farm, err := svc.CreateFarm(context.Background(), userID, validFarmRequest())
	require.NoError(t, err)

	// Flag already correct, no write should happen.
	_, err = svc.CheckCompletion(context.Background(), farm.ID, userID)
	require.NoError(t, err)
	assert.Zero(t, repo.dataFilledWrites)

	// Drift the stored flag, a recheck repairs it with one write.
	repo.farms[farm.ID].IsDataFilled = false
	checked, err := svc.CheckCompletion(context.Background(), farm.ID, userID)
	require.NoError(t, err)
	assert.True(t, checked.IsDataFilled)
	assert.Equal(t, 1, repo.dataFilledWrites)
}

func TestGetFarmWrongOwner(t *testing.T) {
	repo := newMemFarmRepo()
	svc := NewFarmService(repo)

	farm, err := svc.CreateFarm(context.Background(), uuid.New(), validFarmRequest())
	require.NoError(t, err)

	_, err = svc.GetFarm(context.Background(), farm.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteFarm(t *testing.T) {
	repo := newMemFarmRepo()
	svc := NewFarmService(repo)
	userID := uuid.New()

	farm, err := svc.CreateFarm(context.Background(), userID, validFarmRequest())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFarm(context.Background(), farm.ID, userID))
	assert.ErrorIs(t, svc.DeleteFarm(context.Background(), farm.ID, userID), ErrNotFound)
}
