package services

import (
	"encoding/base64"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icare-http-service/models"
	"icare-http-service/services/hub"
)

func newAlertFixture(t *testing.T) (*AlertService, *fakeBroadcaster) {
	t.Helper()
	db := newTestDB(t)
	cfg := newTestConfig()
	broadcaster := &fakeBroadcaster{}
	patients := NewPatientService(db, cfg)
	svc := NewAlertService(db, cfg, patients, broadcaster, nil).(*AlertService)
	return svc, broadcaster
}

func TestCreateAlertResolvesPatientName(t *testing.T) {
	svc, broadcaster := newAlertFixture(t)
	seedPatient(t, svc.DB, "BN001", "Nguyễn Văn A")

	maYTe := "BN001"
	view, err := svc.CreateAlert(CreateAlertInput{MaYTe: &maYTe, Location: "Phòng 302", Confidence: 0.91})
	require.NoError(t, err)

	assert.Equal(t, "Nguyễn Văn A", view.PatientName)
	assert.Equal(t, models.AlertStatusActive, view.Status)
	assert.False(t, view.HasImage)
	assert.Nil(t, view.ResolvedAt)

	events := broadcaster.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, hub.EventFallAlert, events[0].Type)
}

func TestCreateAlertUnknownPatient(t *testing.T) {
	svc, _ := newAlertFixture(t)

	view, err := svc.CreateAlert(CreateAlertInput{Location: "Hành lang", Confidence: 0.8})
	require.NoError(t, err)
	assert.Equal(t, "Unknown", view.PatientName)
	assert.Nil(t, view.MaYTe)

	missing := "BN999"
	view, err = svc.CreateAlert(CreateAlertInput{MaYTe: &missing, Confidence: 0.8})
	require.NoError(t, err)
	assert.Equal(t, "Unknown", view.PatientName)
	require.NotNil(t, view.MaYTe)
	assert.Equal(t, "BN999", *view.MaYTe)
}

func TestCreateAlertRejectsNonFiniteConfidence(t *testing.T) {
	svc, _ := newAlertFixture(t)

	for _, confidence := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := svc.CreateAlert(CreateAlertInput{Confidence: confidence})
		assert.ErrorIs(t, err, ErrInvalidConfidence)
	}
}

func TestCreateAlertSurvivesBroadcastFailure(t *testing.T) {
	svc, broadcaster := newAlertFixture(t)
	broadcaster.err = assert.AnError

	view, err := svc.CreateAlert(CreateAlertInput{Location: "Phòng 101", Confidence: 0.7})
	require.NoError(t, err)
	assert.NotZero(t, view.ID)
}

func TestAlertLifecycleTransitions(t *testing.T) {
	svc, broadcaster := newAlertFixture(t)

	view, err := svc.CreateAlert(CreateAlertInput{Location: "Phòng 302", Confidence: 0.9})
	require.NoError(t, err)

	// active -> acknowledged
	require.NoError(t, svc.AcknowledgeAlert(view.ID, "Y tá Lan"))
	updated, err := svc.GetAlertByID(view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusAcknowledged, updated.Status)
	assert.Nil(t, updated.ResolvedAt)

	// acknowledged -> resolved stamps the resolution fields
	require.NoError(t, svc.ResolveAlert(view.ID, "Y tá Lan", "đã xử lý"))
	updated, err = svc.GetAlertByID(view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusResolved, updated.Status)
	require.NotNil(t, updated.ResolvedAt)
	require.NotNil(t, updated.ResolvedBy)
	assert.Equal(t, "Y tá Lan", *updated.ResolvedBy)
	assert.Equal(t, "đã xử lý", updated.Notes)

	// one FallAlert + two AlertStatusUpdate events
	events := broadcaster.recorded()
	require.Len(t, events, 3)
	assert.Equal(t, hub.EventAlertStatusUpdate, events[1].Type)
	assert.Equal(t, hub.EventAlertStatusUpdate, events[2].Type)
}

func TestAlertDirectTerminalTransition(t *testing.T) {
	svc, _ := newAlertFixture(t)

	view, err := svc.CreateAlert(CreateAlertInput{Confidence: 0.6})
	require.NoError(t, err)

	// acknowledgment is optional: active -> false_positive directly
	_, err = svc.UpdateStatus(view.ID, models.AlertStatusFalsePositive, "Bác sĩ Minh", "")
	require.NoError(t, err)

	updated, err := svc.GetAlertByID(view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusFalsePositive, updated.Status)
	assert.NotNil(t, updated.ResolvedAt)
}

func TestAlertTerminalCannotReopen(t *testing.T) {
	svc, _ := newAlertFixture(t)

	view, err := svc.CreateAlert(CreateAlertInput{Confidence: 0.6})
	require.NoError(t, err)
	require.NoError(t, svc.ResolveAlert(view.ID, "Y tá Lan", ""))

	for _, status := range []models.AlertStatus{models.AlertStatusActive, models.AlertStatusAcknowledged} {
		_, err = svc.UpdateStatus(view.ID, status, "", "")
		assert.ErrorIs(t, err, ErrAlertTerminalLocked)
	}
}

func TestAlertTerminalReclassify(t *testing.T) {
	svc, _ := newAlertFixture(t)

	view, err := svc.CreateAlert(CreateAlertInput{Confidence: 0.6})
	require.NoError(t, err)
	require.NoError(t, svc.ResolveAlert(view.ID, "Y tá Lan", ""))

	// resolved -> false_positive corrects a mis-resolution
	_, err = svc.UpdateStatus(view.ID, models.AlertStatusFalsePositive, "Bác sĩ Minh", "")
	require.NoError(t, err)

	// with reclassification disabled the terminal status is locked
	svc.Config.AllowTerminalReclassify = false
	_, err = svc.UpdateStatus(view.ID, models.AlertStatusResolved, "", "")
	assert.ErrorIs(t, err, ErrAlertTerminalLocked)

	// re-sending the current status stays allowed
	_, err = svc.UpdateStatus(view.ID, models.AlertStatusFalsePositive, "Bác sĩ Minh", "")
	assert.NoError(t, err)
}

func TestUpdateStatusValidation(t *testing.T) {
	svc, _ := newAlertFixture(t)

	_, err := svc.UpdateStatus(1, "escalated", "", "")
	assert.ErrorIs(t, err, ErrInvalidAlertStatus)

	_, err = svc.UpdateStatus(12345, models.AlertStatusAcknowledged, "", "")
	assert.ErrorIs(t, err, ErrAlertNotFound)
}

func TestGetActiveAlertsNewestFirst(t *testing.T) {
	svc, _ := newAlertFixture(t)

	first, err := svc.CreateAlert(CreateAlertInput{Location: "P1", Confidence: 0.5})
	require.NoError(t, err)
	second, err := svc.CreateAlert(CreateAlertInput{Location: "P2", Confidence: 0.5})
	require.NoError(t, err)
	require.NoError(t, svc.ResolveAlert(first.ID, "", ""))

	third, err := svc.CreateAlert(CreateAlertInput{Location: "P3", Confidence: 0.5})
	require.NoError(t, err)

	active, err := svc.GetActiveAlerts()
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, third.ID, active[0].ID)
	assert.Equal(t, second.ID, active[1].ID)
}

func TestGetAllAlertsPagination(t *testing.T) {
	svc, _ := newAlertFixture(t)

	for i := 0; i < 7; i++ {
		_, err := svc.CreateAlert(CreateAlertInput{Confidence: 0.5})
		require.NoError(t, err)
	}

	page, total, err := svc.GetAllAlerts(1, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	assert.Len(t, page, 5)

	page, _, err = svc.GetAllAlerts(2, 5)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	// out-of-range values are normalized, not rejected
	page, _, err = svc.GetAllAlerts(-3, 100000)
	require.NoError(t, err)
	assert.Len(t, page, 7)
}

func TestGetAlertImage(t *testing.T) {
	svc, _ := newAlertFixture(t)

	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02}
	view, err := svc.CreateAlert(CreateAlertInput{
		Confidence: 0.9,
		FrameData:  base64.StdEncoding.EncodeToString(jpeg),
	})
	require.NoError(t, err)

	image, err := svc.GetAlertImage(view.ID)
	require.NoError(t, err)
	assert.Equal(t, jpeg, image)

	// without a frame
	bare, err := svc.CreateAlert(CreateAlertInput{Confidence: 0.9})
	require.NoError(t, err)
	_, err = svc.GetAlertImage(bare.ID)
	assert.ErrorIs(t, err, ErrAlertImageNotFound)

	// corrupt payload
	require.NoError(t, svc.DB.Model(&models.FallAlert{}).Where("id = ?", view.ID).
		Update("frame_data", "not!!base64??").Error)
	_, err = svc.GetAlertImage(view.ID)
	assert.ErrorIs(t, err, ErrAlertImageCorrupt)
}

func TestGetAlertStatistics(t *testing.T) {
	svc, _ := newAlertFixture(t)

	now := time.Now()
	old := now.AddDate(0, -2, 0)
	for _, ts := range []time.Time{now, now, old} {
		stamp := ts
		_, err := svc.CreateAlert(CreateAlertInput{Confidence: 0.5, Timestamp: &stamp})
		require.NoError(t, err)
	}

	views, err := svc.GetActiveAlerts()
	require.NoError(t, err)
	require.NoError(t, svc.ResolveAlert(views[0].ID, "", ""))

	stats, err := svc.GetAlertStatistics()
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Active)
	assert.EqualValues(t, 3, stats.Total)
	assert.EqualValues(t, 2, stats.Today)
	assert.EqualValues(t, 2, stats.ThisMonth)
}
