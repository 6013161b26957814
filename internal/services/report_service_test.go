package services

import (
	"context"
	"testing"
	"time"

	"github.com/dsyengo/dekai-smart-poultry-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportStorage struct {
	uploads map[string][]byte
}

func (f *fakeReportStorage) UploadBytes(ctx context.Context, bucketName, objectName string, data []byte, contentType string) error {
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[bucketName+"/"+objectName] = data
	return nil
}

func (f *fakeReportStorage) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	return "http://storage/presigned/" + bucketName + "/" + objectName, nil
}

func TestGenerateHistoryReport(t *testing.T) {
	scanRepo := newFakeScanRepo()
	userRepo := newFakeUserRepo()
	storage := &fakeReportStorage{}
	svc := NewReportService(scanRepo, userRepo, storage, "scan-reports")

	user := &models.User{ID: uuid.New(), Fullname: "Wanjiku Farmer", Email: "wanjiku@example.com"}
	require.NoError(t, userRepo.CreateUser(user))

	outcome := &models.AnalysisOutcome{
		Detected:   true,
		Prediction: "Coccidiosis",
		Confidence: 0.81,
		RiskLevel:  models.RiskHigh,
		Recommendations: []models.Recommendation{
			{Action: "Isolate sick birds immediately", Priority: models.PriorityImmediate},
		},
	}
	scanRepo.scans[uuid.New()] = &models.DiseaseScan{
		ID:             uuid.New(),
		UserID:         user.ID,
		Status:         models.ScanCompleted,
		AnalysisResult: outcome,
		SessionStart:   time.Now().Add(-time.Hour),
	}

	url, err := svc.GenerateHistoryReport(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Contains(t, url, "scan-reports")

	require.Len(t, storage.uploads, 1)
	for key, data := range storage.uploads {
		assert.Contains(t, key, "scan-reports/reports/"+user.ID.String())
		// A rendered PDF always opens with the magic header.
		require.Greater(t, len(data), 4)
		assert.Equal(t, "%PDF", string(data[:4]))
	}
}

func TestGenerateHistoryReportNoScans(t *testing.T) {
	scanRepo := newFakeScanRepo()
	userRepo := newFakeUserRepo()
	svc := NewReportService(scanRepo, userRepo, &fakeReportStorage{}, "scan-reports")

	_, err := svc.GenerateHistoryReport(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenerateHistoryReportIncludesFailedScans(t *testing.T) {
	scanRepo := newFakeScanRepo()
	userRepo := newFakeUserRepo()
	storage := &fakeReportStorage{}
	svc := NewReportService(scanRepo, userRepo, storage, "scan-reports")

	user := &models.User{ID: uuid.New(), Fullname: "Wanjiku Farmer", Email: "wanjiku@example.com"}
	require.NoError(t, userRepo.CreateUser(user))

	scanRepo.scans[uuid.New()] = &models.DiseaseScan{
		ID:           uuid.New(),
		UserID:       user.ID,
		Status:       models.ScanFailed,
		SessionStart: time.Now(),
	}

	_, err := svc.GenerateHistoryReport(context.Background(), user.ID)
	require.NoError(t, err)
}
