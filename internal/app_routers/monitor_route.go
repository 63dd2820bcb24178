package approuters

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/configuration"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/handler"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/hub"
)

// MonitorRouters sets up monitoring API routes
func MonitorRouters(router *gin.Engine, container *configuration.Container) {
	// Create monitor service with hub reference
	monitorService := hub.NewMonitorService(container.Hub)

	// Create monitor handler
	monitorHandler := handler.NewMonitorHandler(monitorService)

	// Monitor API group
	monitorGroup := router.Group("/api/monitor")
	{
		// GET /api/monitor/stats - Get hub statistics
		monitorGroup.GET("/stats", monitorHandler.GetHubStats)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
