package settings

import (
	"github.com/gin-gonic/gin"

	"go-payroll/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/settings")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("", handler.Get)
		group.PUT("", handler.Update)
	}
}
