package modelarts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dsyengo/dekai-smart-poultry-backend/internal/config"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/models"
)

// Client calls the external disease-inference endpoint. Any transport error,
// non-2xx status, timeout or malformed payload is returned as an error; the
// scan service turns that into the record-failure path. No fallback outcome is
// fabricated here.
type Client struct {
	cfg        config.ModelArtsConfig
	httpClient *http.Client
}

func NewClient(cfg config.ModelArtsConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if cfg.TimeoutSeconds <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type inferenceRequest struct {
	ImageURL          string          `json:"image_url"`
	EnvironmentalData envPayload      `json:"environmental_data"`
	Location          models.Location `json:"location"`
	Timestamp         string          `json:"timestamp"`
}

type envPayload struct {
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	Ammonia     *float64 `json:"ammonia"`
	CO2         *float64 `json:"co2"`
	PM25        *float64 `json:"pm25"`
}

// inferenceResponse is the fixed wire contract of the inference endpoint.
type inferenceResponse struct {
	DiseaseDetected        bool     `json:"disease_detected"`
	PredictedDisease       string   `json:"predicted_disease"`
	ConfidenceScore        float64  `json:"confidence_score"`
	RiskIndex              int      `json:"risk_index"`
	EnvironmentAlert       bool     `json:"environment_alert"`
	PreventiveMeasures     []string `json:"preventive_measures"`
	ConventionalTreatments []string `json:"conventional_treatments"`
	IndigenousRemedies     []string `json:"indigenous_remedies"`
}

// Analyze sends one scan to the inference endpoint and maps the response into
// an AnalysisOutcome.
func (c *Client) Analyze(ctx context.Context, imageURL string, env models.Environment, loc models.Location) (*models.AnalysisOutcome, error) {
	if c.cfg.Endpoint == "" {
		return nil, fmt.Errorf("inference endpoint not configured")
	}

	payload := inferenceRequest{
		ImageURL: imageURL,
		EnvironmentalData: envPayload{
			Temperature: env.Temperature,
			Humidity:    env.Humidity,
			Ammonia:     env.Ammonia,
			CO2:         env.CO2,
			PM25:        env.PM25,
		},
		Location:  loc,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Auth-Token", c.cfg.AuthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference call failed: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Error("Inference endpoint returned non-2xx",
			"status", resp.Status,
			"body_size", len(data))
		return nil, fmt.Errorf("inference endpoint non-2xx: %s", resp.Status)
	}

	var out inferenceResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode inference response: %w", err)
	}

	outcome := MapOutcome(out)
	slog.Info("Inference completed",
		"detected", outcome.Detected,
		"prediction", outcome.Prediction,
		"risk_index", outcome.RiskIndex,
		"risk_level", outcome.RiskLevel)
	return outcome, nil
}

// RiskLevelFromIndex derives the ordinal risk level from the 0-100 risk index.
// Tier lower bounds are inclusive.
func RiskLevelFromIndex(riskIndex int) models.RiskLevel {
	switch {
	case riskIndex >= 80:
		return models.RiskCritical
	case riskIndex >= 60:
		return models.RiskHigh
	case riskIndex >= 40:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// MapOutcome translates the endpoint's wire shape into the record output
// payload. Recommendation synthesis is deterministic and order-preserving:
// immediate actions come before high, before medium.
func MapOutcome(resp inferenceResponse) *models.AnalysisOutcome {
	prediction := resp.PredictedDisease
	if prediction == "" {
		prediction = "No disease detected"
	}

	recommendations := []models.Recommendation{}
	if resp.DiseaseDetected {
		recommendations = append(recommendations,
			models.Recommendation{
				Action:      "Isolate sick birds immediately",
				Priority:    models.PriorityImmediate,
				Description: "Prevent disease spread to healthy flock",
			},
			models.Recommendation{
				Action:      "Follow the recommended treatment protocol",
				Priority:    models.PriorityHigh,
				Description: "Apply the treatment guidance for the predicted disease",
			},
		)
	}
	if resp.EnvironmentAlert {
		recommendations = append(recommendations, models.Recommendation{
			Action:      "Improve ventilation",
			Priority:    models.PriorityMedium,
			Description: "High ammonia levels detected",
		})
	}

	preventive := resp.PreventiveMeasures
	if preventive == nil {
		preventive = []string{}
	}
	conventional := resp.ConventionalTreatments
	if conventional == nil {
		conventional = []string{}
	}
	indigenous := resp.IndigenousRemedies
	if indigenous == nil {
		indigenous = []string{}
	}

	return &models.AnalysisOutcome{
		Detected:           resp.DiseaseDetected,
		Prediction:         prediction,
		Confidence:         clampFloat(resp.ConfidenceScore, 0, 1),
		RiskIndex:          clampInt(resp.RiskIndex, 0, 100),
		RiskLevel:          RiskLevelFromIndex(clampInt(resp.RiskIndex, 0, 100)),
		Recommendations:    recommendations,
		PreventiveMeasures: preventive,
		Treatments: models.TreatmentOptions{
			Conventional: conventional,
			Indigenous:   indigenous,
		},
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
