package approuters

import (
	"github.com/gin-gonic/gin"

	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/configuration"
)

func MessageRouters(router *gin.Engine, container *configuration.Container) {
	messageRoute := router.Group("/api/messages")
	{
		messageRoute.POST("/send", container.MessageHandler.Send)
		messageRoute.GET("/:viewer/:peer", container.MessageHandler.History)
		messageRoute.POST("/read-all", container.MessageHandler.ReadAll)
		messageRoute.POST("/delete-for-me", container.MessageHandler.DeleteForMe)
		messageRoute.POST("/clear-chat", container.MessageHandler.ClearChat)
		messageRoute.POST("/block", container.MessageHandler.Block)
		messageRoute.POST("/unblock", container.MessageHandler.Unblock)
		messageRoute.GET("/is-blocked/:me/:other", container.MessageHandler.IsBlocked)
	}
}
