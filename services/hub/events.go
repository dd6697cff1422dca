package hub

import (
	"icare-http-service/models"
)

// Event names pushed to connected dashboard sessions. Clients that miss
// an event (connected later, dropped connection) recover through the
// polling endpoints; the hub itself keeps no backlog.
const (
	EventFallAlert         = "FallAlert"
	EventAlertStatusUpdate = "AlertStatusUpdate"
	EventPatientDetected   = "PatientDetected"
)

// Inbound message types a session may send to the server
const (
	ActionAcknowledgeAlert = "AcknowledgeAlert"
)

// Envelope wraps every event pushed through the hub
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp int64       `json:"timestamp"` // Unix milliseconds
}

// AlertStatusPayload is the body of an AlertStatusUpdate event
type AlertStatusPayload struct {
	AlertID uint               `json:"alertId"`
	Status  models.AlertStatus `json:"status"`
}

// InboundMessage is what a connected session sends to the server
type InboundMessage struct {
	Type    string `json:"type"`
	Payload struct {
		AlertID        uint   `json:"alertId"`
		AcknowledgedBy string `json:"acknowledgedBy"`
	} `json:"payload"`
}

// AckResult is sent back to the invoking session only
type AckResult struct {
	AlertID uint   `json:"alertId"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// AlertAcknowledger routes a session's AcknowledgeAlert invocation
// through the same transition path the HTTP surface uses. Implemented
// by the alert service; injected after construction to keep the hub
// free of service dependencies.
type AlertAcknowledger interface {
	AcknowledgeAlert(alertID uint, acknowledgedBy string) error
}
