package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"icare-http-service/config"
	"icare-http-service/models"
)

// newTestDB opens an isolated in-memory database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every pooled connection to :memory: would get its own database;
	// pin the pool to a single connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Patient{},
		&models.FallAlert{},
		&models.DetectionRecord{},
		&models.FaceImage{},
	))
	return db
}

// newTestConfig returns a config with production defaults
func newTestConfig() *config.Config {
	return &config.Config{
		ServerPort:              "5000",
		DBMigrationMode:         "auto",
		AllowTerminalReclassify: true,
	}
}

// recordedEvent is one captured broadcast
type recordedEvent struct {
	Type    string
	Payload interface{}
}

// fakeBroadcaster records events instead of fanning them out
type fakeBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (f *fakeBroadcaster) Broadcast(eventType string, payload interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, recordedEvent{Type: eventType, Payload: payload})
	return nil
}

func (f *fakeBroadcaster) recorded() []recordedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedEvent, len(f.events))
	copy(out, f.events)
	return out
}

// seedPatient inserts one patient row
func seedPatient(t *testing.T, db *gorm.DB, maYTe, name string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Patient{MaYTe: maYTe, TenBenhNhan: name}).Error)
}
