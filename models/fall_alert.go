package models

import (
	"time"
)

// AlertStatus represents the lifecycle status of a fall alert
type AlertStatus string

const (
	AlertStatusActive        AlertStatus = "active"
	AlertStatusAcknowledged  AlertStatus = "acknowledged"
	AlertStatusResolved      AlertStatus = "resolved"
	AlertStatusFalsePositive AlertStatus = "false_positive"
)

// IsValid reports whether s is one of the four known statuses
func (s AlertStatus) IsValid() bool {
	switch s {
	case AlertStatusActive, AlertStatusAcknowledged, AlertStatusResolved, AlertStatusFalsePositive:
		return true
	}
	return false
}

// IsTerminal reports whether s ends the alert lifecycle
func (s AlertStatus) IsTerminal() bool {
	return s == AlertStatusResolved || s == AlertStatusFalsePositive
}

// FallAlert represents a fall event reported by the AI module.
// Alerts are never deleted; the dashboard statistics depend on the
// full history. ResolvedAt is set if and only if Status is terminal.
type FallAlert struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	MaYTe       *string     `gorm:"type:varchar(50);index" json:"maYTe,omitempty"` // nil when the fallen person was not recognized
	PatientName string      `gorm:"type:varchar(100)" json:"patientName"`          // resolved at creation time, "Unknown" on miss
	Location    string      `gorm:"type:varchar(100)" json:"location"`
	Confidence  float64     `json:"confidence"`
	Status      AlertStatus `gorm:"type:varchar(20);default:'active';index" json:"status"`
	FrameData   string      `gorm:"type:longtext" json:"-"` // base64 JPEG captured at detection time
	Notes       string      `gorm:"type:text" json:"notes,omitempty"`
	ResolvedBy  *string     `gorm:"type:varchar(100)" json:"resolvedBy,omitempty"`
	ResolvedAt  *time.Time  `json:"resolvedAt,omitempty"`
	Timestamp   time.Time   `gorm:"index" json:"timestamp"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// HasImage reports whether a captured frame is attached
func (a *FallAlert) HasImage() bool {
	return len(a.FrameData) > 0
}

// AlertView is the JSON shape returned to dashboard clients and
// pushed through the notification hub. The raw frame payload is
// replaced by the hasImage flag; the image itself is served by the
// dedicated image endpoint.
type AlertView struct {
	ID          uint        `json:"id"`
	MaYTe       *string     `json:"maYTe,omitempty"`
	PatientName string      `json:"patientName"`
	Location    string      `json:"location"`
	Confidence  float64     `json:"confidence"`
	Status      AlertStatus `json:"status"`
	HasImage    bool        `json:"hasImage"`
	Notes       string      `json:"notes,omitempty"`
	ResolvedBy  *string     `json:"resolvedBy,omitempty"`
	ResolvedAt  *time.Time  `json:"resolvedAt,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}

// AlertDetailView is the single-alert shape. Unlike the list views it
// carries the captured frame payload inline.
type AlertDetailView struct {
	AlertView
	FrameData string `json:"frameData,omitempty"`
}

// ToDetailView converts the stored alert into its detail shape
func (a *FallAlert) ToDetailView() AlertDetailView {
	return AlertDetailView{
		AlertView: a.ToView(),
		FrameData: a.FrameData,
	}
}

// ToView converts the stored alert into its client-facing shape
func (a *FallAlert) ToView() AlertView {
	return AlertView{
		ID:          a.ID,
		MaYTe:       a.MaYTe,
		PatientName: a.PatientName,
		Location:    a.Location,
		Confidence:  a.Confidence,
		Status:      a.Status,
		HasImage:    a.HasImage(),
		Notes:       a.Notes,
		ResolvedBy:  a.ResolvedBy,
		ResolvedAt:  a.ResolvedAt,
		Timestamp:   a.Timestamp,
	}
}
