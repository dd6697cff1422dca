package controllers

import (
	"github.com/gin-gonic/gin"

	"icare-http-service/services/container"
	"icare-http-service/services/hub"
)

// HandleWebSocketFunc upgrades the request into a notification hub
// session. Dashboard clients receive FallAlert, AlertStatusUpdate and
// PatientDetected events and may send AcknowledgeAlert back.
func HandleWebSocketFunc(container *container.ServiceContainer) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		hub.ServeWS(container.GetHub(), ctx)
	}
}
