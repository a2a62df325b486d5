package routes

import (
	"github.com/eidbazar/eidbazar-api/controllers"
	"github.com/eidbazar/eidbazar-api/middlewares"
	"github.com/gin-gonic/gin"
)

func PromoRoutes(server *gin.Engine, promoController *controllers.PromoController) {
	server.POST("/promo/validate", promoController.ValidatePromo)

	admin := server.Group("/", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("/promo", promoController.CreatePromo)
		admin.GET("/promo", promoController.GetPromos)
		admin.PATCH("/promo/:id", promoController.UpdatePromo)
		admin.DELETE("/promo/:id", promoController.DeletePromo)
	}
}
