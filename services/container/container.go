package container

import (
	"context"
	"sync"
	"time"

	"icare-http-service/config"
	"icare-http-service/services"
	"icare-http-service/services/hub"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ServiceContainer wires the services together and owns their lifetimes
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client

	// Realtime fan-out
	notificationHub *hub.Hub

	// Data storage services
	redisService *services.RedisService

	// MQTT camera bridge
	mqttAlertService services.InterfaceMQTTAlertService

	// Business services
	patientService   services.InterfacePatientService
	alertService     services.InterfaceAlertService
	detectionService services.InterfaceDetectionService
	faceService      services.InterfaceFaceService

	mu sync.RWMutex
}

// NewServiceContainer creates the container and starts the hub. The
// Redis client may be nil; every caching path degrades to the database.
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *ServiceContainer {
	if db == nil {
		panic("database connection is nil")
	}
	if cfg == nil {
		panic("configuration is nil")
	}

	// Probe Redis once; a dead cache is an operational note, not a
	// startup failure
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			config.Warning("Redis ping failed: %v, running without cache", err)
			redisClient = nil
		}
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
		redis:  redisClient,
	}
	container.initializeServices()
	return container
}

// initializeServices builds every service and resolves the hub/alert
// cycle through the acknowledger injection
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.notificationHub = hub.NewHub()
	go c.notificationHub.Run()

	if c.redis != nil {
		c.redisService = &services.RedisService{
			Client: c.redis,
			Ctx:    context.Background(),
		}
	}

	c.patientService = services.NewPatientService(c.db, c.config)
	c.alertService = services.NewAlertService(c.db, c.config, c.patientService, c.notificationHub, c.redisService)
	c.detectionService = services.NewDetectionService(c.db, c.config, c.notificationHub, c.redisService)
	c.faceService = services.NewFaceService(c.db, c.config, c.patientService)

	// Inbound AcknowledgeAlert from a websocket session goes through the
	// same transition path as the HTTP endpoint
	c.notificationHub.SetAcknowledger(c.alertService)

	if c.config.MQTTBrokerURL != "" {
		c.mqttAlertService = services.NewMQTTAlertService(c.config, c.alertService)
		if err := c.mqttAlertService.Connect(); err != nil {
			config.Warning("MQTT bridge unavailable: %v", err)
		} else if err := c.mqttAlertService.PublishSystemMessage("startup", "info", "monitoring service online", nil); err != nil {
			config.Warning("MQTT startup notice failed: %v", err)
		}
	}
}

// GetDB returns the database connection
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// GetConfig returns the application configuration
func (c *ServiceContainer) GetConfig() *config.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// GetHub returns the notification hub
func (c *ServiceContainer) GetHub() *hub.Hub {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.notificationHub
}

// GetRedisService returns the Redis cache wrapper, nil when Redis is
// not configured or unreachable
func (c *ServiceContainer) GetRedisService() *services.RedisService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.redisService
}

// GetPatientService returns the patient directory service
func (c *ServiceContainer) GetPatientService() services.InterfacePatientService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.patientService
}

// GetAlertService returns the fall-alert lifecycle service
func (c *ServiceContainer) GetAlertService() services.InterfaceAlertService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.alertService
}

// GetDetectionService returns the daily detection log service
func (c *ServiceContainer) GetDetectionService() services.InterfaceDetectionService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.detectionService
}

// GetFaceService returns the face embedding service
func (c *ServiceContainer) GetFaceService() services.InterfaceFaceService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.faceService
}

// GetMQTTAlertService returns the camera bridge, nil when no broker is
// configured
func (c *ServiceContainer) GetMQTTAlertService() services.InterfaceMQTTAlertService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mqttAlertService
}
