package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"icare-http-service/config"
	"icare-http-service/models"
)

// envelope mirrors the wire shape the AI module and dashboard consume
type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Patient{},
		&models.FallAlert{},
		&models.DetectionRecord{},
		&models.FaceImage{},
	))

	cfg := &config.Config{
		ServerPort:              "5000",
		AllowTerminalReclassify: true,
		// no MQTT broker, no Redis: both are optional infrastructure
	}
	return SetupRouter(db, cfg, nil)
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "image/jpeg" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w, env := do(t, r, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	var health map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "disabled", health["redis"])
	assert.Equal(t, "disabled", health["mqtt"])
}

func TestFallAlertFlowOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	// patient registered first so the alert carries a real name
	w, _ := do(t, r, http.MethodPost, "/api/patients", gin.H{
		"maYTe":       "BN001",
		"tenBenhNhan": "Nguyễn Văn A",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := do(t, r, http.MethodPost, "/api/fall-alert", gin.H{
		"maYTe":      "BN001",
		"location":   "Phòng 302",
		"confidence": 0.93,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, env.Success)

	var created models.AlertView
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Nguyễn Văn A", created.PatientName)
	assert.Equal(t, models.AlertStatusActive, created.Status)

	// shows up in the active list
	w, env = do(t, r, http.MethodGet, "/api/alerts/active", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var active []models.AlertView
	require.NoError(t, json.Unmarshal(env.Data, &active))
	require.Len(t, active, 1)

	// acknowledge, then resolve
	w, env = do(t, r, http.MethodPost, fmt.Sprintf("/api/alerts/%d/acknowledge", created.ID), gin.H{
		"acknowledgedBy": "Y tá Lan",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	w, _ = do(t, r, http.MethodPost, fmt.Sprintf("/api/alerts/%d/resolve", created.ID), gin.H{
		"resolvedBy": "Y tá Lan",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// reopening a resolved alert is rejected
	w, env = do(t, r, http.MethodPut, fmt.Sprintf("/api/alerts/%d/status", created.ID), gin.H{
		"status": "active",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)

	w, _ = do(t, r, http.MethodGet, "/api/alerts/active", nil)
	_, env = do(t, r, http.MethodGet, "/api/alerts/active", nil)
	require.NoError(t, json.Unmarshal(env.Data, &active))
	assert.Empty(t, active)
}

func TestAlertNotFoundEnvelope(t *testing.T) {
	r := newTestRouter(t)

	w, env := do(t, r, http.MethodGet, "/api/alerts/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Message)
}

func TestDetectionDedupOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	_, _ = do(t, r, http.MethodPost, "/api/patients", gin.H{
		"maYTe":       "BN001",
		"tenBenhNhan": "Nguyễn Văn A",
	})

	// the AI module reads the outcome beside the success flag
	type outcome struct {
		Success         bool   `json:"success"`
		PatientName     string `json:"patientName"`
		AlreadyRecorded bool   `json:"alreadyRecorded"`
	}

	w, _ := do(t, r, http.MethodPost, "/api/face/detection", gin.H{
		"maYTe":      "BN001",
		"confidence": 0.97,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var first outcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.True(t, first.Success)
	assert.False(t, first.AlreadyRecorded)
	assert.Equal(t, "Nguyễn Văn A", first.PatientName)

	w, _ = do(t, r, http.MethodPost, "/api/face/detection", gin.H{
		"maYTe":      "BN001",
		"confidence": 0.99,
	})
	var second outcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.True(t, second.AlreadyRecorded)

	// the polling list carries the recorded code
	_, env := do(t, r, http.MethodGet, "/api/face/detections/today/mayte-list", nil)
	var keys []string
	require.NoError(t, json.Unmarshal(env.Data, &keys))
	assert.Equal(t, []string{"BN001"}, keys)

	// operational reset
	w, _ = do(t, r, http.MethodDelete, "/api/face/detections/today", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, env = do(t, r, http.MethodGet, "/api/face/detections/today/mayte-list", nil)
	require.NoError(t, json.Unmarshal(env.Data, &keys))
	assert.Empty(t, keys)
}

func TestFallAlertAcceptsFallPipelineBody(t *testing.T) {
	r := newTestRouter(t)

	_, _ = do(t, r, http.MethodPost, "/api/patients", gin.H{
		"maYTe":       "BN001",
		"tenBenhNhan": "Nguyễn Văn A",
	})

	// the fall pipeline names the patient reference patientId and sends
	// a naive UTC isoformat timestamp
	w, env := do(t, r, http.MethodPost, "/api/fall-alert", gin.H{
		"patientId":  "BN001",
		"location":   "Phòng 302",
		"confidence": 0.88,
		"timestamp":  "2025-06-01T08:30:00.123456",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, env.Success)

	var created models.AlertView
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotNil(t, created.MaYTe)
	assert.Equal(t, "BN001", *created.MaYTe)
	assert.Equal(t, "Nguyễn Văn A", created.PatientName)
	assert.Equal(t, 2025, created.Timestamp.Year())
}

func TestAlertDetailCarriesFramePayload(t *testing.T) {
	r := newTestRouter(t)

	frame := "ZmFrZS1qcGVnLWJ5dGVz"
	w, env := do(t, r, http.MethodPost, "/api/fall-alert", gin.H{
		"location":   "Hành lang",
		"confidence": 0.91,
		"frameData":  frame,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.AlertView
	require.NoError(t, json.Unmarshal(env.Data, &created))

	_, env = do(t, r, http.MethodGet, fmt.Sprintf("/api/alerts/%d", created.ID), nil)
	var detail models.AlertDetailView
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.True(t, detail.HasImage)
	assert.Equal(t, frame, detail.FrameData)

	// list views still carry only the flag
	_, env = do(t, r, http.MethodGet, "/api/alerts/active", nil)
	var raw []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &raw))
	require.Len(t, raw, 1)
	assert.NotContains(t, raw[0], "frameData")
}

func TestFaceRegistrationAndLookup(t *testing.T) {
	r := newTestRouter(t)

	// registering against an unknown patient fails with 404
	w, env := do(t, r, http.MethodPost, "/api/face/register", gin.H{
		"maYTe":  "BN404",
		"vector": []float64{0.1, 0.2},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)

	_, _ = do(t, r, http.MethodPost, "/api/patients", gin.H{
		"maYTe":       "BN001",
		"tenBenhNhan": "Nguyễn Văn A",
	})

	w, _ = do(t, r, http.MethodPost, "/api/face/register", gin.H{
		"maYTe":  "BN001",
		"vector": []float64{0.1, 0.2, 0.3},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// the AI module uploads under the embedding key
	w, _ = do(t, r, http.MethodPost, "/api/face/embeddings", gin.H{
		"maYTe":     "BN001",
		"embedding": []float64{0.4, 0.5, 0.6},
		"modelName": "Facenet512",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// an upload with neither key is rejected before storage
	w, env = do(t, r, http.MethodPost, "/api/face/register", gin.H{
		"maYTe": "BN001",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)

	_, env = do(t, r, http.MethodGet, "/api/face/embeddings", nil)
	var gallery []models.PatientEmbeddings
	require.NoError(t, json.Unmarshal(env.Data, &gallery))
	require.Len(t, gallery, 1)
	assert.Equal(t, "BN001", gallery[0].MaYTe)
	require.Len(t, gallery[0].Embeddings, 2)
	assert.Len(t, gallery[0].Embeddings[0].Vector, 3)

	// lookup by medical code after a face match
	w, env = do(t, r, http.MethodGet, "/api/patients/by-face-id/BN001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var patient models.Patient
	require.NoError(t, json.Unmarshal(env.Data, &patient))
	assert.Equal(t, "Nguyễn Văn A", patient.TenBenhNhan)
}
