package routes

import (
	"time"

	"icare-http-service/config"
	"icare-http-service/controllers"
	_ "icare-http-service/docs"
	"icare-http-service/middleware"
	"icare-http-service/services/container"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter builds the gin engine with all routes registered
func SetupRouter(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *gin.Engine {
	r := gin.Default()

	// CORS: the dashboard frontend is served from its own origin
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	serviceContainer := container.NewServiceContainer(db, cfg, redisClient)

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes wires every API endpoint
func registerRoutes(r *gin.Engine, container *container.ServiceContainer) {
	api := r.Group("/api")

	// Liveness probe used by the AI module at startup
	api.GET("/health", controllers.HandleHealthFunc(container, "getHealth"))

	// Realtime dashboard channel
	api.GET("/ws", controllers.HandleWebSocketFunc(container))

	registerAlertRoutes(api, container)
	registerPatientRoutes(api, container)
	registerFaceRoutes(api, container)
}

// registerAlertRoutes wires the fall-alert lifecycle
func registerAlertRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	// Ingest path from the AI module; never throttled
	api.POST("/fall-alert", controllers.HandleAlertFunc(container, "createAlert"))

	alerts := api.Group("/alerts")
	alerts.GET("", controllers.HandleAlertFunc(container, "getAllAlerts"))
	alerts.GET("/active", controllers.HandleAlertFunc(container, "getActiveAlerts"))
	alerts.GET("/stats", middleware.Cache(15*time.Second), controllers.HandleAlertFunc(container, "getAlertStatistics"))
	alerts.GET("/:id", controllers.HandleAlertFunc(container, "getAlertByID"))
	alerts.GET("/:id/image", controllers.HandleAlertFunc(container, "getAlertImage"))
	alerts.PUT("/:id/status", controllers.HandleAlertFunc(container, "updateAlertStatus"))
	alerts.POST("/:id/acknowledge", controllers.HandleAlertFunc(container, "acknowledgeAlert"))
	alerts.POST("/:id/resolve", controllers.HandleAlertFunc(container, "resolveAlert"))
}

// registerPatientRoutes wires the patient directory
func registerPatientRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	patients := api.Group("/patients")
	patients.GET("", middleware.CombinedRateLimiter(10, 20), controllers.HandlePatientFunc(container, "getPatients"))
	patients.POST("", controllers.HandlePatientFunc(container, "createPatient"))
	// Lookup by medical code after a face match
	patients.GET("/by-face-id/:maYTe", controllers.HandlePatientFunc(container, "getPatientByMaYTe"))

	patient := api.Group("/patient")
	patient.GET("/:id", controllers.HandlePatientFunc(container, "getPatientByID"))
	patient.PUT("/:id", controllers.HandlePatientFunc(container, "updatePatient"))
	patient.DELETE("/:id", controllers.HandlePatientFunc(container, "deletePatient"))
}

// registerFaceRoutes wires the detection log and the embedding gallery
func registerFaceRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	face := api.Group("/face")
	face.POST("/detection", controllers.HandleFaceFunc(container, "recordDetection"))
	face.GET("/detections/today", controllers.HandleFaceFunc(container, "getTodayDetections"))
	face.GET("/detections/today/mayte-list", controllers.HandleFaceFunc(container, "getTodayDetectedKeys"))
	face.DELETE("/detections/today", controllers.HandleFaceFunc(container, "clearTodayDetections"))
	face.GET("/detections/recent", controllers.HandleFaceFunc(container, "getRecentDetections"))

	face.POST("/register", controllers.HandleFaceFunc(container, "registerFace"))
	face.GET("/embeddings", controllers.HandleFaceFunc(container, "getAllEmbeddings"))
	face.GET("/embeddings/by-patient/:maYTe", controllers.HandleFaceFunc(container, "getEmbeddingsByMaYTe"))
	face.POST("/embeddings", controllers.HandleFaceFunc(container, "registerFace"))
	face.DELETE("/embeddings/:id", controllers.HandleFaceFunc(container, "deleteFaceImage"))
}
