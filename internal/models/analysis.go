package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Location is the scan capture point. Both coordinates are required together.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Environment holds the optional sensor readings attached to a scan. A nil
// field means the reading is unknown, which is distinct from zero.
type Environment struct {
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	Ammonia     *float64 `json:"ammonia"`
	CO2         *float64 `json:"co2"`
	PM25        *float64 `json:"pm25"`
}

type Recommendation struct {
	Action      string                 `json:"action"`
	Priority    RecommendationPriority `json:"priority"`
	Description string                 `json:"description"`
}

type TreatmentOptions struct {
	Conventional []string `json:"conventional"`
	Indigenous   []string `json:"indigenous"`
}

// AnalysisOutcome is the mapped output of one scan gateway round trip.
type AnalysisOutcome struct {
	Detected           bool             `json:"detected"`
	Prediction         string           `json:"prediction"`
	Confidence         float64          `json:"confidence"`
	RiskIndex          int              `json:"risk_index"`
	RiskLevel          RiskLevel        `json:"risk_level"`
	Recommendations    []Recommendation `json:"recommendations"`
	PreventiveMeasures []string         `json:"preventive_measures"`
	Treatments         TreatmentOptions `json:"treatment_options"`
}

// ImmediateActions filters the action texts tagged immediate, preserving the
// original recommendation order without mutating the list.
func (o *AnalysisOutcome) ImmediateActions() []string {
	actions := []string{}
	for _, rec := range o.Recommendations {
		if rec.Priority == PriorityImmediate {
			actions = append(actions, rec.Action)
		}
	}
	return actions
}

func (o AnalysisOutcome) Value() (driver.Value, error) {
	return json.Marshal(o)
}

func (o *AnalysisOutcome) Scan(value any) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("AnalysisOutcome: Scan failed, expected []byte but got %T", value)
	}
	return json.Unmarshal(b, o)
}

// DiseaseScan is one analysis record per scan attempt. The output payload is
// populated only after the gateway succeeds; a failed record never carries one.
type DiseaseScan struct {
	ID              uuid.UUID        `json:"id" db:"id"`
	UserID          uuid.UUID        `json:"user_id" db:"user_id"`
	FarmID          *uuid.UUID       `json:"farm_id,omitempty" db:"farm_id"`
	ImageURL        string           `json:"image_url" db:"image_url"`
	Latitude        float64          `json:"latitude" db:"latitude"`
	Longitude       float64          `json:"longitude" db:"longitude"`
	Temperature     *float64         `json:"temperature,omitempty" db:"temperature"`
	Humidity        *float64         `json:"humidity,omitempty" db:"humidity"`
	Ammonia         *float64         `json:"ammonia,omitempty" db:"ammonia"`
	CO2             *float64         `json:"co2,omitempty" db:"co2"`
	PM25            *float64         `json:"pm25,omitempty" db:"pm25"`
	Status          ScanStatus       `json:"status" db:"status"`
	DiseaseDetected bool             `json:"disease_detected" db:"disease_detected"`
	RiskLevel       *RiskLevel       `json:"risk_level,omitempty" db:"risk_level"`
	AnalysisResult  *AnalysisOutcome `json:"analysis_result,omitempty" db:"analysis_result"`
	SessionStart    time.Time        `json:"session_start" db:"session_start"`
	SessionEnd      *time.Time       `json:"session_end,omitempty" db:"session_end"`
	DurationSeconds *int             `json:"duration_seconds,omitempty" db:"duration_seconds"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" db:"updated_at"`
}

func (s *DiseaseScan) Environment() Environment {
	return Environment{
		Temperature: s.Temperature,
		Humidity:    s.Humidity,
		Ammonia:     s.Ammonia,
		CO2:         s.CO2,
		PM25:        s.PM25,
	}
}

func (s *DiseaseScan) Location() Location {
	return Location{Latitude: s.Latitude, Longitude: s.Longitude}
}
