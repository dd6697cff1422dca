package services

import (
	"encoding/base64"
	"errors"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"icare-http-service/config"
	"icare-http-service/models"
	"icare-http-service/services/hub"
)

// Sentinel errors for the alert lifecycle
var (
	ErrAlertNotFound       = errors.New("alert not found")
	ErrInvalidAlertStatus  = errors.New("invalid alert status")
	ErrAlertTerminalLocked = errors.New("alert is already in a terminal status")
	ErrAlertImageNotFound  = errors.New("alert has no captured image")
	ErrAlertImageCorrupt   = errors.New("alert image payload is not valid base64")
	ErrInvalidConfidence   = errors.New("confidence must be a finite number")
)

// MaxAlertPageSize caps a single page of alerts
const MaxAlertPageSize = 100

// Broadcaster pushes an event to connected dashboard sessions. The
// notification hub implements it; tests substitute a recorder.
type Broadcaster interface {
	Broadcast(eventType string, payload interface{}) error
}

// CreateAlertInput carries a fall event from either ingress path
// (HTTP from the AI module, or the MQTT camera bridge)
type CreateAlertInput struct {
	MaYTe      *string
	Location   string
	Confidence float64
	Timestamp  *time.Time
	FrameData  string // base64 JPEG, optional
}

// AlertStatistics is the dashboard summary block
type AlertStatistics struct {
	Active    int64 `json:"active"`
	Total     int64 `json:"total"`
	Today     int64 `json:"today"`
	ThisWeek  int64 `json:"thisWeek"`
	ThisMonth int64 `json:"thisMonth"`
}

// InterfaceAlertService defines the fall-alert lifecycle interface
type InterfaceAlertService interface {
	CreateAlert(input CreateAlertInput) (*models.AlertView, error)
	UpdateStatus(id uint, status models.AlertStatus, actor string, notes string) (*models.AlertView, error)
	AcknowledgeAlert(id uint, acknowledgedBy string) error
	ResolveAlert(id uint, resolvedBy string, notes string) error
	GetActiveAlerts() ([]models.AlertView, error)
	GetAllAlerts(page, pageSize int) ([]models.AlertView, int64, error)
	GetAlertByID(id uint) (*models.FallAlert, error)
	GetAlertImage(id uint) ([]byte, error)
	GetAlertStatistics() (*AlertStatistics, error)
}

// AlertService owns the fall-alert state machine:
//
//	active -> acknowledged -> resolved | false_positive
//	active -> resolved | false_positive   (acknowledgment is optional)
//
// Alerts are appended on creation and mutated only through UpdateStatus;
// they are never deleted.
type AlertService struct {
	DB       *gorm.DB
	Config   *config.Config
	Patients InterfacePatientService
	Hub      Broadcaster
	Redis    *RedisService
}

// NewAlertService creates a new alert service
func NewAlertService(db *gorm.DB, cfg *config.Config, patients InterfacePatientService, broadcaster Broadcaster, redis *RedisService) InterfaceAlertService {
	return &AlertService{
		DB:       db,
		Config:   cfg,
		Patients: patients,
		Hub:      broadcaster,
		Redis:    redis,
	}
}

// CreateAlert persists a new fall alert and pushes it to connected
// sessions. The broadcast is best-effort: a hub failure is logged and
// the created alert is still returned.
func (s *AlertService) CreateAlert(input CreateAlertInput) (*models.AlertView, error) {
	if math.IsNaN(input.Confidence) || math.IsInf(input.Confidence, 0) {
		return nil, ErrInvalidConfidence
	}

	patientName := "Unknown"
	if input.MaYTe != nil && *input.MaYTe != "" {
		patientName = s.Patients.ResolvePatientName(*input.MaYTe)
	}

	timestamp := time.Now()
	if input.Timestamp != nil {
		timestamp = *input.Timestamp
	}

	alert := models.FallAlert{
		MaYTe:       normalizeMaYTe(input.MaYTe),
		PatientName: patientName,
		Location:    input.Location,
		Confidence:  input.Confidence,
		Status:      models.AlertStatusActive,
		FrameData:   input.FrameData,
		Timestamp:   timestamp,
	}

	if err := s.DB.Create(&alert).Error; err != nil {
		return nil, err
	}

	view := alert.ToView()
	s.invalidateStats()
	if s.Hub != nil {
		if err := s.Hub.Broadcast(hub.EventFallAlert, view); err != nil {
			config.Warning("[Alert] broadcast of alert %d failed: %v", alert.ID, err)
		}
	}
	return &view, nil
}

// UpdateStatus applies a lifecycle transition. Transitions are applied
// in arrival order, last write wins; re-sending the current status is
// accepted and simply re-stamps the resolution fields.
func (s *AlertService) UpdateStatus(id uint, status models.AlertStatus, actor string, notes string) (*models.AlertView, error) {
	if !status.IsValid() {
		return nil, ErrInvalidAlertStatus
	}

	var alert models.FallAlert
	if err := s.DB.First(&alert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}

	if alert.Status.IsTerminal() && status != alert.Status {
		// Re-classifying resolved <-> false_positive corrects a
		// mis-resolution; reopening a terminal alert is never allowed.
		if !status.IsTerminal() || !s.Config.AllowTerminalReclassify {
			return nil, ErrAlertTerminalLocked
		}
	}

	alert.Status = status
	if notes != "" {
		alert.Notes = notes
	}
	if status.IsTerminal() {
		now := time.Now()
		alert.ResolvedAt = &now
		if actor != "" {
			alert.ResolvedBy = &actor
		}
	} else {
		// Keep the invariant: resolvedAt set iff status is terminal
		alert.ResolvedAt = nil
		alert.ResolvedBy = nil
	}

	if err := s.DB.Save(&alert).Error; err != nil {
		return nil, err
	}

	view := alert.ToView()
	s.invalidateStats()
	if s.Hub != nil {
		if err := s.Hub.Broadcast(hub.EventAlertStatusUpdate, hub.AlertStatusPayload{
			AlertID: alert.ID,
			Status:  alert.Status,
		}); err != nil {
			config.Warning("[Alert] status broadcast for alert %d failed: %v", alert.ID, err)
		}
	}
	return &view, nil
}

// AcknowledgeAlert is the single acknowledge path shared by the HTTP
// surface and the hub's inbound AcknowledgeAlert invocation
func (s *AlertService) AcknowledgeAlert(id uint, acknowledgedBy string) error {
	_, err := s.UpdateStatus(id, models.AlertStatusAcknowledged, acknowledgedBy, "")
	return err
}

// ResolveAlert marks an alert resolved
func (s *AlertService) ResolveAlert(id uint, resolvedBy string, notes string) error {
	_, err := s.UpdateStatus(id, models.AlertStatusResolved, resolvedBy, notes)
	return err
}

// GetActiveAlerts returns all alerts still awaiting staff attention,
// newest first (same ordering as GetAllAlerts for pagination parity)
func (s *AlertService) GetActiveAlerts() ([]models.AlertView, error) {
	var alerts []models.FallAlert
	if err := s.DB.Where("status = ?", models.AlertStatusActive).
		Order("id DESC").Find(&alerts).Error; err != nil {
		return nil, err
	}
	return toViews(alerts), nil
}

// GetAllAlerts returns one page of the full alert history, newest
// first. page < 1 behaves as page 1; pageSize is clamped to [1,100].
func (s *AlertService) GetAllAlerts(page, pageSize int) ([]models.AlertView, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > MaxAlertPageSize {
		pageSize = MaxAlertPageSize
	}

	var total int64
	if err := s.DB.Model(&models.FallAlert{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var alerts []models.FallAlert
	offset := (page - 1) * pageSize
	if err := s.DB.Order("id DESC").Limit(pageSize).Offset(offset).Find(&alerts).Error; err != nil {
		return nil, 0, err
	}
	return toViews(alerts), total, nil
}

// GetAlertByID returns the full stored alert, including the raw frame
func (s *AlertService) GetAlertByID(id uint) (*models.FallAlert, error) {
	var alert models.FallAlert
	if err := s.DB.First(&alert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// GetAlertImage decodes the captured frame back into JPEG bytes
func (s *AlertService) GetAlertImage(id uint) ([]byte, error) {
	alert, err := s.GetAlertByID(id)
	if err != nil {
		return nil, err
	}
	if !alert.HasImage() {
		return nil, ErrAlertImageNotFound
	}

	// Some camera clients send a data URL instead of bare base64
	payload := alert.FrameData
	if idx := strings.Index(payload, ","); idx != -1 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}

	image, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrAlertImageCorrupt
	}
	return image, nil
}

// GetAlertStatistics computes the dashboard summary. Windows are
// evaluated against local wall-clock time at query time. The block is
// cached briefly in Redis when available.
func (s *AlertService) GetAlertStatistics() (*AlertStatistics, error) {
	if s.Redis != nil {
		var cached AlertStatistics
		if err := s.Redis.GetAlertStats(&cached); err == nil {
			return &cached, nil
		}
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	// Week starts Monday
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	weekStart := dayStart.AddDate(0, 0, -(weekday - 1))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := &AlertStatistics{}
	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.Active, s.DB.Model(&models.FallAlert{}).Where("status = ?", models.AlertStatusActive)},
		{&stats.Total, s.DB.Model(&models.FallAlert{})},
		{&stats.Today, s.DB.Model(&models.FallAlert{}).Where("timestamp >= ?", dayStart)},
		{&stats.ThisWeek, s.DB.Model(&models.FallAlert{}).Where("timestamp >= ?", weekStart)},
		{&stats.ThisMonth, s.DB.Model(&models.FallAlert{}).Where("timestamp >= ?", monthStart)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	if s.Redis != nil {
		if err := s.Redis.CacheAlertStats(stats); err != nil {
			config.Warning("[Alert] stats cache write failed: %v", err)
		}
	}
	return stats, nil
}

func (s *AlertService) invalidateStats() {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.InvalidateAlertStats(); err != nil {
		config.Warning("[Alert] stats cache invalidation failed: %v", err)
	}
}

func toViews(alerts []models.FallAlert) []models.AlertView {
	views := make([]models.AlertView, len(alerts))
	for i := range alerts {
		views[i] = alerts[i].ToView()
	}
	return views
}

func normalizeMaYTe(maYTe *string) *string {
	if maYTe == nil || strings.TrimSpace(*maYTe) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*maYTe)
	return &trimmed
}
