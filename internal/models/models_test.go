package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDataFilled(t *testing.T) {
	farm := Farm{
		FarmName:    "Green Acres",
		County:      "Kiambu",
		PoultryType: PoultryBroilers,
		BirdCount:   100,
	}
	assert.True(t, farm.ComputeDataFilled())

	incomplete := farm
	incomplete.FarmName = "   "
	assert.False(t, incomplete.ComputeDataFilled())

	incomplete = farm
	incomplete.BirdCount = 0
	assert.False(t, incomplete.ComputeDataFilled())

	incomplete = farm
	incomplete.PoultryType = ""
	assert.False(t, incomplete.ComputeDataFilled())

	// Optional fields never affect completeness.
	minimal := farm
	minimal.Subcounty = nil
	minimal.Latitude = nil
	assert.True(t, minimal.ComputeDataFilled())
}

func TestScanStatusTerminal(t *testing.T) {
	assert.False(t, ScanPending.Terminal())
	assert.False(t, ScanProcessing.Terminal())
	assert.True(t, ScanCompleted.Terminal())
	assert.True(t, ScanFailed.Terminal())
}

func TestRiskLevelOrdering(t *testing.T) {
	assert.True(t, RiskCritical.AtLeast(RiskHigh))
	assert.True(t, RiskHigh.AtLeast(RiskHigh))
	assert.False(t, RiskMedium.AtLeast(RiskHigh))
	assert.False(t, RiskLow.AtLeast(RiskMedium))
}

func TestImmediateActionsPreservesOrder(t *testing.T) {
	outcome := AnalysisOutcome{
		Recommendations: []Recommendation{
			{Action: "first", Priority: PriorityImmediate},
			{Action: "skip", Priority: PriorityHigh},
			{Action: "second", Priority: PriorityImmediate},
			{Action: "also skip", Priority: PriorityMedium},
		},
	}
	assert.Equal(t, []string{"first", "second"}, outcome.ImmediateActions())

	empty := AnalysisOutcome{}
	assert.Empty(t, empty.ImmediateActions())
	assert.NotNil(t, empty.ImmediateActions())
}

func TestAnalysisOutcomeScanRoundTrip(t *testing.T) {
	original := AnalysisOutcome{
		Detected:           true,
		Prediction:         "Fowl Pox",
		Confidence:         0.77,
		RiskIndex:          64,
		RiskLevel:          RiskHigh,
		PreventiveMeasures: []string{"vaccinate flock"},
		Recommendations: []Recommendation{
			{Action: "Isolate sick birds immediately", Priority: PriorityImmediate, Description: "stop the spread"},
		},
	}

	value, err := original.Value()
	require.NoError(t, err)

	var decoded AnalysisOutcome
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, original, decoded)
}

func TestTranscriptScanRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	original := Transcript{
		{Role: RoleUser, Message: "hello", Timestamp: now},
		{Role: RoleAssistant, Message: "hi there", Timestamp: now.Add(time.Second)},
	}

	value, err := original.Value()
	require.NoError(t, err)

	var decoded Transcript
	require.NoError(t, decoded.Scan(value))
	require.Len(t, decoded, 2)
	assert.Equal(t, RoleUser, decoded[0].Role)
	assert.Equal(t, "hi there", decoded[1].Message)
}

func TestTranscriptNilMarshalsAsEmptyArray(t *testing.T) {
	var t1 Transcript
	value, err := t1.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(value.([]byte)))
}

func TestUserSummaryOmitsCredentials(t *testing.T) {
	user := User{
		Fullname:     "Wanjiku Farmer",
		Email:        "wanjiku@example.com",
		PasswordHash: "bcrypt-hash",
	}
	summary := user.Summary()
	assert.Equal(t, user.Email, summary.Email)
	assert.Equal(t, user.Fullname, summary.Fullname)
}
