package approuters

import (
	"github.com/gin-gonic/gin"

	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/configuration"
)

func UserRouters(router *gin.Engine, container *configuration.Container) {
	userRoute := router.Group("/api/users")
	{
		userRoute.GET("", container.UserHandler.ListUsers)
	}
}
