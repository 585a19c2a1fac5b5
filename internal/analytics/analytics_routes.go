package analytics

import (
	"github.com/gin-gonic/gin"

	"go-payroll/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/analytics")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("/variance", handler.Variance)
	}
}
