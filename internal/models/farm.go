package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ============================================================================
// FARM MANAGEMENT
// ============================================================================

type Farm struct {
	ID                   uuid.UUID      `json:"id" db:"id"`
	UserID               uuid.UUID      `json:"user_id" db:"user_id"`
	FarmName             string         `json:"farm_name" db:"farm_name"`
	County               string         `json:"county" db:"county"`
	Subcounty            *string        `json:"subcounty,omitempty" db:"subcounty"`
	Village              *string        `json:"village,omitempty" db:"village"`
	Latitude             *float64       `json:"latitude,omitempty" db:"latitude"`
	Longitude            *float64       `json:"longitude,omitempty" db:"longitude"`
	Altitude             *float64       `json:"altitude,omitempty" db:"altitude"`
	PoultryType          PoultryType    `json:"poultry_type" db:"poultry_type"`
	BirdCount            int            `json:"bird_count" db:"bird_count"`
	AverageBirdAgeWeeks  *int           `json:"average_bird_age_weeks,omitempty" db:"average_bird_age_weeks"`
	ProductionStage      *string        `json:"production_stage,omitempty" db:"production_stage"`
	FeedType             *string        `json:"feed_type,omitempty" db:"feed_type"`
	MortalityRate        float64        `json:"mortality_rate" db:"mortality_rate"`
	HousingType          *string        `json:"housing_type,omitempty" db:"housing_type"`
	BiosecurityPractices pq.StringArray `json:"biosecurity_practices" db:"biosecurity_practices"`
	CleaningFrequency    *string        `json:"cleaning_frequency,omitempty" db:"cleaning_frequency"`
	LitterManagement     *string        `json:"litter_management,omitempty" db:"litter_management"`
	VentilationQuality   *string        `json:"ventilation_quality,omitempty" db:"ventilation_quality"`
	IsDataFilled         bool           `json:"is_data_filled" db:"is_data_filled"`
	CreatedAt            time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at" db:"updated_at"`
}

// ComputeDataFilled derives the completeness flag from the fixed required set
// {farm_name, county, poultry_type, bird_count}. The stored flag must always
// reflect the current values after a write.
func (f *Farm) ComputeDataFilled() bool {
	return strings.TrimSpace(f.FarmName) != "" &&
		strings.TrimSpace(f.County) != "" &&
		f.PoultryType != "" &&
		f.BirdCount > 0
}
