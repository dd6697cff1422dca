package services

import (
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icare-http-service/models"
	"icare-http-service/services/hub"
)

func newDetectionFixture(t *testing.T) (*DetectionService, *fakeBroadcaster) {
	t.Helper()
	db := newTestDB(t)
	broadcaster := &fakeBroadcaster{}
	svc := NewDetectionService(db, newTestConfig(), broadcaster, nil).(*DetectionService)
	return svc, broadcaster
}

func TestRecordDetectionOncePerDay(t *testing.T) {
	svc, broadcaster := newDetectionFixture(t)
	seedPatient(t, svc.DB, "BN001", "Nguyễn Văn A")

	outcome, err := svc.RecordDetection(DetectionInput{MaYTe: "BN001", Confidence: 0.97, CameraID: "cam-1"})
	require.NoError(t, err)
	assert.Equal(t, "Nguyễn Văn A", outcome.PatientName)
	assert.False(t, outcome.AlreadyRecorded)

	// second sighting the same day hits the existing record
	outcome, err = svc.RecordDetection(DetectionInput{MaYTe: "BN001", Confidence: 0.99, CameraID: "cam-2"})
	require.NoError(t, err)
	assert.Equal(t, "Nguyễn Văn A", outcome.PatientName)
	assert.True(t, outcome.AlreadyRecorded)

	var count int64
	require.NoError(t, svc.DB.Model(&models.DetectionRecord{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// only the first sighting is broadcast
	events := broadcaster.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, hub.EventPatientDetected, events[0].Type)
}

func TestRecordDetectionNameHintFallback(t *testing.T) {
	svc, _ := newDetectionFixture(t)

	// code not in the directory: the reporter's hint names the record
	outcome, err := svc.RecordDetection(DetectionInput{MaYTe: "BN404", DisplayNameHint: "Trần Thị B"})
	require.NoError(t, err)
	assert.Equal(t, "Trần Thị B", outcome.PatientName)

	var record models.DetectionRecord
	require.NoError(t, svc.DB.Where("ma_y_te = ?", "BN404").First(&record).Error)
	assert.Equal(t, "Trần Thị B", record.PatientName)

	// the directory still wins over the hint
	seedPatient(t, svc.DB, "BN001", "Nguyễn Văn A")
	outcome, err = svc.RecordDetection(DetectionInput{MaYTe: "BN001", DisplayNameHint: "Ai đó"})
	require.NoError(t, err)
	assert.Equal(t, "Nguyễn Văn A", outcome.PatientName)
}

func TestRecordDetectionSeparateDays(t *testing.T) {
	svc, _ := newDetectionFixture(t)

	yesterday := time.Now().AddDate(0, 0, -1)
	outcome, err := svc.RecordDetection(DetectionInput{MaYTe: "BN001", DetectedAt: &yesterday})
	require.NoError(t, err)
	assert.False(t, outcome.AlreadyRecorded)

	// a new calendar day starts a fresh dedup window
	outcome, err = svc.RecordDetection(DetectionInput{MaYTe: "BN001"})
	require.NoError(t, err)
	assert.False(t, outcome.AlreadyRecorded)
}

func TestRecordDetectionConcurrentSameKey(t *testing.T) {
	svc, _ := newDetectionFixture(t)
	seedPatient(t, svc.DB, "BN001", "Nguyễn Văn A")

	const writers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	recordedFirst := 0

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := svc.RecordDetection(DetectionInput{MaYTe: "BN001", Confidence: 0.9})
			if err != nil {
				return
			}
			if !outcome.AlreadyRecorded {
				mu.Lock()
				recordedFirst++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, recordedFirst)

	var count int64
	require.NoError(t, svc.DB.Model(&models.DetectionRecord{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRecordDetectionValidation(t *testing.T) {
	svc, _ := newDetectionFixture(t)

	_, err := svc.RecordDetection(DetectionInput{MaYTe: "   "})
	assert.ErrorIs(t, err, ErrDetectionMissingKey)

	_, err = svc.RecordDetection(DetectionInput{MaYTe: "BN001", Confidence: math.NaN()})
	assert.ErrorIs(t, err, ErrInvalidConfidence)
}

func TestGetTodayDetections(t *testing.T) {
	svc, _ := newDetectionFixture(t)

	yesterday := time.Now().AddDate(0, 0, -1)
	_, err := svc.RecordDetection(DetectionInput{MaYTe: "BN000", DetectedAt: &yesterday})
	require.NoError(t, err)

	for _, maYTe := range []string{"BN001", "BN002", "BN003"} {
		_, err := svc.RecordDetection(DetectionInput{MaYTe: maYTe})
		require.NoError(t, err)
	}

	records, err := svc.GetTodayDetections()
	require.NoError(t, err)
	require.Len(t, records, 3)
	// newest first
	assert.Equal(t, "BN003", records[0].MaYTe)
	assert.Equal(t, "BN001", records[2].MaYTe)

	keys, err := svc.GetTodayDetectedKeys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"BN001", "BN002", "BN003"}, keys)
}

func TestClearTodayKeepsRecentFeed(t *testing.T) {
	svc, _ := newDetectionFixture(t)

	for _, maYTe := range []string{"BN001", "BN002"} {
		_, err := svc.RecordDetection(DetectionInput{MaYTe: maYTe})
		require.NoError(t, err)
	}

	deleted, err := svc.ClearToday()
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	records, err := svc.GetTodayDetections()
	require.NoError(t, err)
	assert.Empty(t, records)

	// the display feed is not the dedup store and survives the reset
	assert.Len(t, svc.RecentDetections(0), 2)

	// after the reset the next sighting is recorded again
	outcome, err := svc.RecordDetection(DetectionInput{MaYTe: "BN001"})
	require.NoError(t, err)
	assert.False(t, outcome.AlreadyRecorded)
}

func TestRecentDetectionsBoundedNewestFirst(t *testing.T) {
	svc, _ := newDetectionFixture(t)

	for i := 0; i < recentFeedCapacity+20; i++ {
		_, err := svc.RecordDetection(DetectionInput{MaYTe: fmt.Sprintf("BN%03d", i)})
		require.NoError(t, err)
	}

	feed := svc.RecentDetections(0)
	require.Len(t, feed, recentFeedCapacity)
	// newest first, oldest entries evicted
	assert.Equal(t, fmt.Sprintf("BN%03d", recentFeedCapacity+19), feed[0].MaYTe)
	assert.Equal(t, fmt.Sprintf("BN%03d", 20), feed[len(feed)-1].MaYTe)

	limited := svc.RecentDetections(5)
	require.Len(t, limited, 5)
	assert.Equal(t, feed[0].MaYTe, limited[0].MaYTe)
}
