package models

import (
	"time"
)

// DetectionRecord represents one face-recognition sighting of a patient.
// At most one record exists per (maYTe, session date): the service layer
// serializes the check-then-insert and the composite unique index backs
// it up against concurrent writers.
type DetectionRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	MaYTe       string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_detection_mayte_date" json:"maYTe"`
	PatientName string    `gorm:"type:varchar(100)" json:"patientName"`
	Confidence  float64   `json:"confidence"`
	CameraID    string    `gorm:"type:varchar(50)" json:"cameraId"`
	Location    string    `gorm:"type:varchar(100)" json:"location"`
	Note        string    `gorm:"type:text" json:"note,omitempty"`
	DetectedAt  time.Time `json:"detectedAt"`
	SessionDate string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_detection_mayte_date" json:"sessionDate"` // calendar date YYYY-MM-DD, the dedup partition key
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SessionDateLayout is the storage format of DetectionRecord.SessionDate
const SessionDateLayout = "2006-01-02"

// RecentDetectionEntry is the in-memory "recent activity" feed item.
// It is not persisted and may legitimately diverge from the
// detection_records table.
type RecentDetectionEntry struct {
	MaYTe       string    `json:"maYTe"`
	PatientName string    `json:"patientName"`
	Confidence  float64   `json:"confidence"`
	CameraID    string    `json:"cameraId"`
	Location    string    `json:"location"`
	DetectedAt  time.Time `json:"detectedAt"`
}
