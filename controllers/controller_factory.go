package controllers

import (
	"icare-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// BaseController is the interface every controller satisfies
type BaseController interface {
	// GetContainer returns the service container
	GetContainer() *container.ServiceContainer
	// GetContext returns the gin context of the current request
	GetContext() *gin.Context
}

// BaseControllerImpl is the shared controller implementation
type BaseControllerImpl struct {
	Container *container.ServiceContainer
	Context   *gin.Context
}

// GetContainer implements BaseController
func (c *BaseControllerImpl) GetContainer() *container.ServiceContainer {
	return c.Container
}

// GetContext implements BaseController
func (c *BaseControllerImpl) GetContext() *gin.Context {
	return c.Context
}

// ControllerFactory builds per-request controllers
type ControllerFactory struct {
	Container *container.ServiceContainer
}

// NewControllerFactory creates a new controller factory
func NewControllerFactory(container *container.ServiceContainer) *ControllerFactory {
	return &ControllerFactory{
		Container: container,
	}
}
