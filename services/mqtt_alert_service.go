package services

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"icare-http-service/config"
)

// Topic constants. Cameras publish fall events under their own id:
// icare/fall-alert/<cameraId>.
const (
	TopicFallAlert     = "icare/fall-alert/+"
	TopicSystemMessage = "icare/system"
)

// processedMsgTTL bounds how long an event id is remembered for dedup
const processedMsgTTL = 5 * time.Minute

// FallEventMessage is the payload a camera publishes on a detected fall
type FallEventMessage struct {
	EventID    string  `json:"event_id"`
	MaYTe      string  `json:"ma_y_te,omitempty"`
	Location   string  `json:"location"`
	Confidence float64 `json:"confidence"`
	Timestamp  int64   `json:"timestamp,omitempty"` // Unix milliseconds
	FrameData  string  `json:"frame_data,omitempty"`
}

// SystemMessage is published on the system topic for operators
type SystemMessage struct {
	Type      string      `json:"type"`
	Level     string      `json:"level"` // info/warning/error
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// InterfaceMQTTAlertService defines the camera-to-alert bridge interface
type InterfaceMQTTAlertService interface {
	Connect() error
	Disconnect()
	IsBrokerConnected() bool
	PublishSystemMessage(messageType, level, message string, data interface{}) error
}

// MQTTAlertService bridges camera fall events from the broker into the
// alert lifecycle. The broker is an optional ingress: the service comes
// up without it and the HTTP path keeps working.
type MQTTAlertService struct {
	Config         *config.Config
	Alerts         InterfaceAlertService
	Client         mqtt.Client
	IsConnected    bool
	connectedMutex sync.RWMutex
	ProcessedMsgs  *sync.Map // event id -> receipt time, at-least-once dedup
	PublishMutex   sync.Mutex
}

// NewMQTTAlertService creates the bridge; Connect must be called to go live
func NewMQTTAlertService(cfg *config.Config, alerts InterfaceAlertService) InterfaceMQTTAlertService {
	service := &MQTTAlertService{
		Config:        cfg,
		Alerts:        alerts,
		ProcessedMsgs: &sync.Map{},
	}
	service.setupMQTTClient()
	go service.startMsgCleanupTask()
	return service
}

func (s *MQTTAlertService) setupMQTTClient() {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.Config.MQTTBrokerURL)
	// Unique client id so multiple instances don't kick each other off
	opts.SetClientID(fmt.Sprintf("%s-%s", s.Config.MQTTClientID, uuid.New().String()[:8]))
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(time.Second * 30)
	opts.SetKeepAlive(time.Second * 60)
	opts.SetPingTimeout(time.Second * 10)
	opts.SetCleanSession(true)

	if s.Config.MQTTUsername != "" {
		opts.SetUsername(s.Config.MQTTUsername)
		opts.SetPassword(s.Config.MQTTPassword)
	}

	if strings.HasPrefix(s.Config.MQTTBrokerURL, "ssl://") || strings.HasPrefix(s.Config.MQTTBrokerURL, "tls://") {
		opts.SetTLSConfig(&tls.Config{InsecureSkipVerify: true})
	}

	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		config.Warning("[MQTT] connection lost: %v", err)
		s.connectedMutex.Lock()
		s.IsConnected = false
		s.connectedMutex.Unlock()
	})

	opts.SetOnConnectHandler(func(client mqtt.Client) {
		config.Info("[MQTT] connected to %s", s.Config.MQTTBrokerURL)
		s.connectedMutex.Lock()
		s.IsConnected = true
		s.connectedMutex.Unlock()

		// Subscriptions do not survive a clean-session reconnect
		if err := s.subscribeToTopics(); err != nil {
			config.Error("[MQTT] subscribe failed: %v", err)
		}
	})

	s.Client = mqtt.NewClient(opts)
}

// Connect dials the broker. Failure is reported but callers treat the
// broker as optional infrastructure.
func (s *MQTTAlertService) Connect() error {
	if s.Config.MQTTBrokerURL == "" {
		return fmt.Errorf("MQTT broker URL is not configured")
	}
	token := s.Client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("timed out connecting to MQTT broker %s", s.Config.MQTTBrokerURL)
	}
	return token.Error()
}

// Disconnect closes the broker connection
func (s *MQTTAlertService) Disconnect() {
	if s.Client != nil && s.Client.IsConnected() {
		s.Client.Disconnect(250)
	}
	s.connectedMutex.Lock()
	s.IsConnected = false
	s.connectedMutex.Unlock()
}

// IsBrokerConnected reports whether the bridge is live
func (s *MQTTAlertService) IsBrokerConnected() bool {
	s.connectedMutex.RLock()
	defer s.connectedMutex.RUnlock()
	return s.IsConnected
}

func (s *MQTTAlertService) subscribeToTopics() error {
	token := s.Client.Subscribe(TopicFallAlert, 1, s.handleFallEvent)
	token.Wait()
	return token.Error()
}

// handleFallEvent turns one camera message into an alert
func (s *MQTTAlertService) handleFallEvent(client mqtt.Client, msg mqtt.Message) {
	var event FallEventMessage
	if err := json.Unmarshal(msg.Payload(), &event); err != nil {
		config.Warning("[MQTT] invalid fall event on %s: %v", msg.Topic(), err)
		return
	}

	// The broker delivers at-least-once on QoS 1
	if event.EventID != "" {
		if _, seen := s.ProcessedMsgs.LoadOrStore(event.EventID, time.Now()); seen {
			config.Info("[MQTT] duplicate fall event %s ignored", event.EventID)
			return
		}
	}

	cameraID := msg.Topic()
	if idx := strings.LastIndex(cameraID, "/"); idx != -1 {
		cameraID = cameraID[idx+1:]
	}
	location := event.Location
	if location == "" {
		location = cameraID
	}

	input := CreateAlertInput{
		Location:   location,
		Confidence: event.Confidence,
		FrameData:  event.FrameData,
	}
	if event.MaYTe != "" {
		maYTe := event.MaYTe
		input.MaYTe = &maYTe
	}
	if event.Timestamp > 0 {
		ts := time.UnixMilli(event.Timestamp)
		input.Timestamp = &ts
	}

	view, err := s.Alerts.CreateAlert(input)
	if err != nil {
		config.Error("[MQTT] fall event from camera %s rejected: %v", cameraID, err)
		return
	}
	config.Info("[MQTT] fall alert %d created from camera %s", view.ID, cameraID)
}

// PublishSystemMessage announces an operational event on the system topic
func (s *MQTTAlertService) PublishSystemMessage(messageType, level, message string, data interface{}) error {
	if !s.IsBrokerConnected() {
		return fmt.Errorf("not connected to MQTT broker")
	}

	payload, err := json.Marshal(SystemMessage{
		Type:      messageType,
		Level:     level,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		return err
	}

	s.PublishMutex.Lock()
	defer s.PublishMutex.Unlock()
	token := s.Client.Publish(TopicSystemMessage, 1, false, payload)
	token.Wait()
	return token.Error()
}

// startMsgCleanupTask expires remembered event ids
func (s *MQTTAlertService) startMsgCleanupTask() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-processedMsgTTL)
		s.ProcessedMsgs.Range(func(key, value interface{}) bool {
			if receivedAt, ok := value.(time.Time); ok && receivedAt.Before(cutoff) {
				s.ProcessedMsgs.Delete(key)
			}
			return true
		})
	}
}
