package routes

import (
	"github.com/eidbazar/eidbazar-api/controllers"
	"github.com/eidbazar/eidbazar-api/middlewares"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(server *gin.Engine, productController *controllers.ProductController) {
	server.GET("/product", productController.GetProducts)
	server.GET("/product/:id", productController.GetProduct)

	admin := server.Group("/", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("/product", productController.CreateProduct)
		admin.PUT("/product/:id", productController.UpdateProduct)
		admin.DELETE("/product/:id", productController.DeleteProduct)
		admin.POST("/product-images", productController.UploadProductImages)
	}
}
