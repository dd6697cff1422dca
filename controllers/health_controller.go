package controllers

import (
	"github.com/gin-gonic/gin"

	"icare-http-service/internal/error/response"
	"icare-http-service/services/container"
)

// HealthController reports service liveness for the AI module's
// startup probe and for operators
type HealthController struct {
	BaseControllerImpl
}

// NewHealthController creates a new health controller
func (f *ControllerFactory) NewHealthController(ctx *gin.Context) *HealthController {
	return &HealthController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// GetHealth reports the status of the service and its dependencies
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /health [get]
func (c *HealthController) GetHealth() {
	dbStatus := "up"
	if sqlDB, err := c.Container.GetDB().DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
	}

	redisStatus := "disabled"
	if rs := c.Container.GetRedisService(); rs != nil {
		redisStatus = "up"
		if err := rs.Client.Ping(rs.Ctx).Err(); err != nil {
			redisStatus = "down"
		}
	}

	mqttStatus := "disabled"
	if bridge := c.Container.GetMQTTAlertService(); bridge != nil {
		mqttStatus = "down"
		if bridge.IsBrokerConnected() {
			mqttStatus = "up"
		}
	}

	response.Success(c.Context, gin.H{
		"status":   "ok",
		"database": dbStatus,
		"redis":    redisStatus,
		"mqtt":     mqttStatus,
	})
}

// HandleHealthFunc returns a gin handler for the health endpoint
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewHealthController(ctx)

		switch method {
		case "getHealth":
			controller.GetHealth()
		default:
			response.ParamError(ctx, "phương thức không hợp lệ")
		}
	}
}
