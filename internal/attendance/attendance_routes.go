package attendance

import (
	"github.com/gin-gonic/gin"

	"go-payroll/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/attendance")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("/clock-in", handler.ClockIn)
		group.GET("", handler.List)
	}
}
