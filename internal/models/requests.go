package models

import "github.com/google/uuid"

type RegisterRequest struct {
	Fullname              string  `json:"fullname"`
	Email                 string  `json:"email"`
	PhoneNumber           string  `json:"phone_number"`
	Password              string  `json:"password"`
	ConsentToTermsDataUse bool    `json:"consent_to_terms_data_use"`
	PreferredLanguage     *string `json:"preferred_language,omitempty"`
	Country               *string `json:"country,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserSummary `json:"user"`
}

type CreateFarmRequest struct {
	FarmName             string      `json:"farm_name"`
	County               string      `json:"county"`
	Subcounty            *string     `json:"subcounty,omitempty"`
	Village              *string     `json:"village,omitempty"`
	Latitude             *float64    `json:"latitude,omitempty"`
	Longitude            *float64    `json:"longitude,omitempty"`
	Altitude             *float64    `json:"altitude,omitempty"`
	PoultryType          PoultryType `json:"poultry_type"`
	BirdCount            int         `json:"bird_count"`
	AverageBirdAgeWeeks  *int        `json:"average_bird_age_weeks,omitempty"`
	ProductionStage      *string     `json:"production_stage,omitempty"`
	FeedType             *string     `json:"feed_type,omitempty"`
	MortalityRate        float64     `json:"mortality_rate"`
	HousingType          *string     `json:"housing_type,omitempty"`
	BiosecurityPractices []string    `json:"biosecurity_practices,omitempty"`
	CleaningFrequency    *string     `json:"cleaning_frequency,omitempty"`
	LitterManagement     *string     `json:"litter_management,omitempty"`
	VentilationQuality   *string     `json:"ventilation_quality,omitempty"`
}

type SendMessageRequest struct {
	Message string `json:"message"`
}

type SendMessageResponse struct {
	UserMessage string    `json:"userMessage"`
	BotResponse string    `json:"botResponse"`
	SessionID   uuid.UUID `json:"sessionId"`
}

// ScanSubmission is the validated input of one disease scan, assembled by the
// handler from the multipart form. Owner identity comes from the verified
// session context, never from the body.
type ScanSubmission struct {
	UserID      uuid.UUID
	FarmID      *uuid.UUID
	ImageData   []byte
	ImageName   string
	ContentType string
	Location    Location
	Environment Environment
}

// ScanResult is the mobile-facing summary of a completed scan.
type ScanResult struct {
	ScanID           uuid.UUID        `json:"scanId"`
	DiseaseDetected  bool             `json:"diseaseDetected"`
	Prediction       string           `json:"prediction"`
	Confidence       float64          `json:"confidence"`
	RiskLevel        RiskLevel        `json:"riskLevel"`
	ImmediateActions []string         `json:"immediateActions"`
	Recommendations  []Recommendation `json:"recommendations"`
	Timestamp        string           `json:"timestamp"`
}

type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalScans  int `json:"totalScans"`
}
