package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Eid Bazar API.

The following are the endpoints for this API:

PRODUCT
- GET "/product" - List products (paginated, searchable)
- GET "/product/:id" - Get product by ID
- POST "/product" - Create product (admin)
- PUT "/product/:id" - Update product (admin)
- DELETE "/product/:id" - Delete product (admin)
- POST "/product-images" - Upload product images (admin)

ORDER
- POST "/orders" - Place a guest order
- GET "/order" - List orders (admin)
- GET "/order/:orderId" - Get order by ID (admin)
- GET "/order-pending-count" - Count pending orders (admin)
- PATCH "/order/:orderId" - Update order status (admin)
- DELETE "/order/:orderId" - Delete order (admin)

PROMO
- POST "/promo/validate" - Check a promo code against a subtotal
- POST "/promo" - Create promo code (admin)
- GET "/promo" - List promo codes (admin)
- PATCH "/promo/:id" - Update promo code (admin)
- DELETE "/promo/:id" - Delete promo code (admin)`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
