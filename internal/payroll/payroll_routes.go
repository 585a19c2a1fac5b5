package payroll

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"go-payroll/internal/middleware"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	runs := r.Group("/payroll/runs")
	runs.Use(middleware.AuthMiddleware())
	{
		runs.GET("", handler.List)
		if redisClient != nil {
			runs.POST("/calculate", middleware.Idempotency(redisClient), handler.Calculate)
		} else {
			runs.POST("/calculate", handler.Calculate)
		}
		runs.PATCH("/:id/overtime", handler.UpdateOvertime)
		runs.POST("/:id/flag", handler.Flag)
		runs.POST("/:id/approve", handler.Approve)
		runs.POST("/bulk-approve", handler.BulkApprove)
	}
}
