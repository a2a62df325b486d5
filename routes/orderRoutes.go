package routes

import (
	"github.com/eidbazar/eidbazar-api/controllers"
	"github.com/eidbazar/eidbazar-api/middlewares"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine, orderController *controllers.OrderController) {
	server.POST("/orders", orderController.CreateOrder)

	admin := server.Group("/", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.GET("/order", orderController.GetOrders)
		admin.GET("/order/:orderId", orderController.GetOrder)
		admin.GET("/order-pending-count", orderController.GetPendingOrderCount)
		admin.PATCH("/order/:orderId", orderController.UpdateOrderStatus)
		admin.DELETE("/order/:orderId", orderController.DeleteOrder)
	}
}
