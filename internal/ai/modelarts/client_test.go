package modelarts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dsyengo/dekai-smart-poultry-backend/internal/config"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskLevelFromIndex(t *testing.T) {
	tests := []struct {
		index int
		want  models.RiskLevel
	}{
		{0, models.RiskLow},
		{39, models.RiskLow},
		{40, models.RiskMedium},
		{59, models.RiskMedium},
		{60, models.RiskHigh},
		{79, models.RiskHigh},
		{80, models.RiskCritical},
		{85, models.RiskCritical},
		{100, models.RiskCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevelFromIndex(tt.index), "index %d", tt.index)
	}
}

func TestMapOutcomeRecommendationOrder(t *testing.T) {
	outcome := MapOutcome(inferenceResponse{
		DiseaseDetected:  true,
		PredictedDisease: "Newcastle Disease",
		ConfidenceScore:  0.92,
		RiskIndex:        85,
		EnvironmentAlert: true,
	})

	require.Len(t, outcome.Recommendations, 3)
	assert.Equal(t, models.PriorityImmediate, outcome.Recommendations[0].Priority)
	assert.Equal(t, "Isolate sick birds immediately", outcome.Recommendations[0].Action)
	assert.Equal(t, models.PriorityHigh, outcome.Recommendations[1].Priority)
	assert.Equal(t, models.PriorityMedium, outcome.Recommendations[2].Priority)
	assert.Equal(t, "Improve ventilation", outcome.Recommendations[2].Action)

	assert.Equal(t, []string{"Isolate sick birds immediately"}, outcome.ImmediateActions())
}

func TestMapOutcomeEnvironmentAlertOnly(t *testing.T) {
	outcome := MapOutcome(inferenceResponse{
		DiseaseDetected:  false,
		EnvironmentAlert: true,
		RiskIndex:        45,
	})

	require.Len(t, outcome.Recommendations, 1)
	assert.Equal(t, models.PriorityMedium, outcome.Recommendations[0].Priority)
	assert.Empty(t, outcome.ImmediateActions())
}

func TestMapOutcomeDefaultsAndClamping(t *testing.T) {
	outcome := MapOutcome(inferenceResponse{
		DiseaseDetected: false,
		ConfidenceScore: 1.7,
		RiskIndex:       140,
	})

	assert.Equal(t, "No disease detected", outcome.Prediction)
	assert.Equal(t, 1.0, outcome.Confidence)
	assert.Equal(t, 100, outcome.RiskIndex)
	assert.Equal(t, models.RiskCritical, outcome.RiskLevel)

	low := MapOutcome(inferenceResponse{ConfidenceScore: -0.3, RiskIndex: -10})
	assert.Equal(t, 0.0, low.Confidence)
	assert.Equal(t, 0, low.RiskIndex)
	assert.Equal(t, models.RiskLow, low.RiskLevel)
}

func TestMapOutcomeEmptySlicesNotNil(t *testing.T) {
	outcome := MapOutcome(inferenceResponse{})

	assert.NotNil(t, outcome.PreventiveMeasures)
	assert.NotNil(t, outcome.Treatments.Conventional)
	assert.NotNil(t, outcome.Treatments.Indigenous)
	assert.NotNil(t, outcome.Recommendations)
}

func TestAnalyzeSendsContract(t *testing.T) {
	var received inferenceRequest
	var gotToken string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Auth-Token")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(inferenceResponse{
			DiseaseDetected:  true,
			PredictedDisease: "Coccidiosis",
			ConfidenceScore:  0.81,
			RiskIndex:        66,
		})
	}))
	defer server.Close()

	client := NewClient(config.ModelArtsConfig{
		Endpoint:       server.URL,
		AuthToken:      "test-token",
		TimeoutSeconds: 5,
	})

	temp := 31.5
	outcome, err := client.Analyze(context.Background(), "http://storage/scan.jpg",
		models.Environment{Temperature: &temp},
		models.Location{Latitude: -1.28, Longitude: 36.82})
	require.NoError(t, err)

	assert.Equal(t, "test-token", gotToken)
	assert.Equal(t, "http://storage/scan.jpg", received.ImageURL)
	require.NotNil(t, received.EnvironmentalData.Temperature)
	assert.Equal(t, 31.5, *received.EnvironmentalData.Temperature)
	assert.Nil(t, received.EnvironmentalData.Humidity)
	assert.Equal(t, -1.28, received.Location.Latitude)

	assert.True(t, outcome.Detected)
	assert.Equal(t, "Coccidiosis", outcome.Prediction)
	assert.Equal(t, models.RiskHigh, outcome.RiskLevel)
}

func TestAnalyzeNon2xxFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(config.ModelArtsConfig{Endpoint: server.URL, TimeoutSeconds: 5})

	outcome, err := client.Analyze(context.Background(), "http://storage/scan.jpg",
		models.Environment{}, models.Location{})
	assert.Error(t, err)
	assert.Nil(t, outcome)
}

func TestAnalyzeMalformedResponseFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(config.ModelArtsConfig{Endpoint: server.URL, TimeoutSeconds: 5})

	_, err := client.Analyze(context.Background(), "http://storage/scan.jpg",
		models.Environment{}, models.Location{})
	assert.Error(t, err)
}

func TestAnalyzeMissingEndpointFails(t *testing.T) {
	client := NewClient(config.ModelArtsConfig{})

	_, err := client.Analyze(context.Background(), "http://storage/scan.jpg",
		models.Environment{}, models.Location{})
	assert.Error(t, err)
}
