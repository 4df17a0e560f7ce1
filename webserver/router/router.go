package router

import (
	"github.com/gin-gonic/gin"
	"github.com/insikex/safeguard/config"
	"github.com/insikex/safeguard/webserver/controller"
)

func Run() error {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/", controller.GetIndex)
	engine.GET("/health", controller.GetHealth)
	engine.GET("/verify", controller.GetVerify)
	engine.POST("/verify", controller.PostVerify)
	webhook := engine.Group("/webhook")
	{
		webhook.POST("pakasir", controller.PostPakasirWebhook)
	}
	return engine.Run(config.GetConfig().Address)
}
