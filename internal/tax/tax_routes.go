package tax

import (
	"github.com/gin-gonic/gin"

	"go-payroll/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/tax")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("/report", handler.Report)
	}
}
