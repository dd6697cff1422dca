package services

import (
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"icare-http-service/config"
	"icare-http-service/models"
	"icare-http-service/services/hub"
)

// ErrDetectionMissingKey is returned when a detection arrives without a
// medical code to dedup on
var ErrDetectionMissingKey = errors.New("detection requires a maYTe")

// recentFeedCapacity bounds the in-memory recent activity feed
const recentFeedCapacity = 100

// DetectionInput is one face-recognition sighting reported by the AI
// module or the camera bridge
type DetectionInput struct {
	MaYTe           string
	DisplayNameHint string // reporter's own name guess, used when the directory misses
	Confidence      float64
	CameraID        string
	Location        string
	Note            string
	DetectedAt      *time.Time
}

// DetectionOutcome tells the reporter whether this sighting created
// today's record or hit an existing one
type DetectionOutcome struct {
	PatientName     string `json:"patientName"`
	AlreadyRecorded bool   `json:"alreadyRecorded"`
}

// InterfaceDetectionService defines the daily detection log interface
type InterfaceDetectionService interface {
	RecordDetection(input DetectionInput) (*DetectionOutcome, error)
	GetTodayDetections() ([]models.DetectionRecord, error)
	GetTodayDetectedKeys() ([]string, error)
	ClearToday() (int64, error)
	RecentDetections(limit int) []models.RecentDetectionEntry
}

// DetectionService keeps the per-day face detection log. The invariant
// is one DetectionRecord per (maYTe, calendar day): concurrent reports
// for the same patient are serialized on a per-key mutex, and the
// composite unique index catches anything that slips past it (multiple
// instances, direct writes).
type DetectionService struct {
	DB     *gorm.DB
	Config *config.Config
	Hub    Broadcaster
	Redis  *RedisService

	keyMu sync.Mutex
	keys  map[string]*sync.Mutex

	feedMu sync.Mutex
	feed   []models.RecentDetectionEntry
}

// NewDetectionService creates a new detection service
func NewDetectionService(db *gorm.DB, cfg *config.Config, broadcaster Broadcaster, redisService *RedisService) InterfaceDetectionService {
	return &DetectionService{
		DB:     db,
		Config: cfg,
		Hub:    broadcaster,
		Redis:  redisService,
		keys:   make(map[string]*sync.Mutex),
	}
}

// lockKey returns the mutex serializing writes for one (maYTe, day)
// pair. Entries accumulate one per patient per day; the map is rebuilt
// on restart and stays small for a single ward.
func (s *DetectionService) lockKey(maYTe, sessionDate string) *sync.Mutex {
	key := maYTe + "|" + sessionDate
	s.keyMu.Lock()
	defer s.keyMu.Unlock()
	mu, ok := s.keys[key]
	if !ok {
		mu = &sync.Mutex{}
		s.keys[key] = mu
	}
	return mu
}

// RecordDetection logs a sighting, at most once per patient per
// calendar day. Reports after the first for the same day return the
// existing record's identity with alreadyRecorded=true.
func (s *DetectionService) RecordDetection(input DetectionInput) (*DetectionOutcome, error) {
	maYTe := strings.TrimSpace(input.MaYTe)
	if maYTe == "" {
		return nil, ErrDetectionMissingKey
	}
	if math.IsNaN(input.Confidence) || math.IsInf(input.Confidence, 0) {
		return nil, ErrInvalidConfidence
	}

	detectedAt := time.Now()
	if input.DetectedAt != nil {
		detectedAt = *input.DetectedAt
	}
	sessionDate := detectedAt.Format(models.SessionDateLayout)

	mu := s.lockKey(maYTe, sessionDate)
	mu.Lock()
	defer mu.Unlock()

	var existing models.DetectionRecord
	err := s.DB.Where("ma_y_te = ? AND session_date = ?", maYTe, sessionDate).First(&existing).Error
	if err == nil {
		return &DetectionOutcome{PatientName: existing.PatientName, AlreadyRecorded: true}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Name resolution: directory, then the reporter's hint, then Unknown
	var patientName string
	var patient models.Patient
	if err := s.DB.Where("ma_y_te = ?", maYTe).First(&patient).Error; err == nil {
		patientName = patient.TenBenhNhan
	} else if hint := strings.TrimSpace(input.DisplayNameHint); hint != "" {
		patientName = hint
	} else {
		patientName = "Unknown"
	}

	record := models.DetectionRecord{
		MaYTe:       maYTe,
		PatientName: patientName,
		Confidence:  input.Confidence,
		CameraID:    input.CameraID,
		Location:    input.Location,
		Note:        input.Note,
		DetectedAt:  detectedAt,
		SessionDate: sessionDate,
	}
	if err := s.DB.Create(&record).Error; err != nil {
		if isDuplicateKeyError(err) {
			// A concurrent writer won the race; today's record exists
			return &DetectionOutcome{PatientName: patientName, AlreadyRecorded: true}, nil
		}
		return nil, err
	}

	s.pushRecent(models.RecentDetectionEntry{
		MaYTe:       maYTe,
		PatientName: patientName,
		Confidence:  input.Confidence,
		CameraID:    input.CameraID,
		Location:    input.Location,
		DetectedAt:  detectedAt,
	})
	s.invalidateTodayKeys()
	if s.Hub != nil {
		if err := s.Hub.Broadcast(hub.EventPatientDetected, record); err != nil {
			config.Warning("[Detection] broadcast for %s failed: %v", maYTe, err)
		}
	}

	return &DetectionOutcome{PatientName: patientName, AlreadyRecorded: false}, nil
}

// GetTodayDetections returns today's detection records, newest first
func (s *DetectionService) GetTodayDetections() ([]models.DetectionRecord, error) {
	today := time.Now().Format(models.SessionDateLayout)
	var records []models.DetectionRecord
	if err := s.DB.Where("session_date = ?", today).Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GetTodayDetectedKeys returns the maYTe values already recorded today.
// The AI module polls this to skip patients it has already reported, so
// the list is served from a short-lived Redis cache when available.
func (s *DetectionService) GetTodayDetectedKeys() ([]string, error) {
	if s.Redis != nil {
		keys, err := s.Redis.GetTodayDetectedKeys()
		if err == nil {
			return keys, nil
		}
		if !errors.Is(err, redis.Nil) {
			config.Warning("[Detection] today-keys cache read failed: %v", err)
		}
	}

	today := time.Now().Format(models.SessionDateLayout)
	keys := []string{}
	if err := s.DB.Model(&models.DetectionRecord{}).
		Where("session_date = ?", today).
		Order("id DESC").
		Pluck("ma_y_te", &keys).Error; err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if err := s.Redis.CacheTodayDetectedKeys(keys); err != nil {
			config.Warning("[Detection] today-keys cache write failed: %v", err)
		}
	}
	return keys, nil
}

// ClearToday deletes today's detection records and returns how many
// were removed. The recent activity feed is deliberately left intact:
// it is a display log, not the dedup store.
func (s *DetectionService) ClearToday() (int64, error) {
	today := time.Now().Format(models.SessionDateLayout)
	result := s.DB.Where("session_date = ?", today).Delete(&models.DetectionRecord{})
	if result.Error != nil {
		return 0, result.Error
	}
	s.invalidateTodayKeys()
	config.Info("[Detection] cleared %d records for %s", result.RowsAffected, today)
	return result.RowsAffected, nil
}

// RecentDetections returns up to limit feed entries, newest first.
// limit <= 0 returns the whole feed.
func (s *DetectionService) RecentDetections(limit int) []models.RecentDetectionEntry {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()

	n := len(s.feed)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.RecentDetectionEntry, n)
	for i := 0; i < n; i++ {
		out[i] = s.feed[len(s.feed)-1-i]
	}
	return out
}

func (s *DetectionService) pushRecent(entry models.RecentDetectionEntry) {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	s.feed = append(s.feed, entry)
	if len(s.feed) > recentFeedCapacity {
		s.feed = s.feed[len(s.feed)-recentFeedCapacity:]
	}
}

func (s *DetectionService) invalidateTodayKeys() {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.InvalidateTodayDetectedKeys(); err != nil {
		config.Warning("[Detection] today-keys cache invalidation failed: %v", err)
	}
}

// isDuplicateKeyError recognizes a unique index violation from either
// backing store (MySQL in production, SQLite in tests)
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
