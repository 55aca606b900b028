package main

import (
	"knowledge-platform/internal/httpapi"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers. The route gate middleware
// is installed in main and runs before anything registered here.
// Keep this file free of business logic.
func registerRoutes(r *gin.Engine, h httpapi.Handlers) {
	httpapi.Register(r, h)
}
