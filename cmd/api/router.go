package main

import (
	"github.com/gin-gonic/gin"

	"person-registry/internal/domains/person/handler"
	"person-registry/internal/shared/middleware"
	"person-registry/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	handler.RegisterRoutes(router, c.PersonHandler)

	return router
}
