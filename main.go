package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/eidbazar/eidbazar-api/controllers"
	"github.com/eidbazar/eidbazar-api/initializers"
	"github.com/eidbazar/eidbazar-api/routes"
	"github.com/eidbazar/eidbazar-api/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	initializers.LoadEnv()

	db, err := initializers.ConnectToDB()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to access database handle: %v", err)
	}
	defer sqlDB.Close()

	if err := initializers.SyncDatabase(db); err != nil {
		log.Fatalf("failed to sync database: %v", err)
	}

	sms := services.NewSMSServiceFromEnv()
	promoService := services.NewPromoService(db)
	orderService := services.NewOrderService(db, promoService, sms)

	orderController := controllers.NewOrderController(db, orderService)
	productController := controllers.NewProductController(db)
	promoController := controllers.NewPromoController(db, promoService)

	server := gin.Default()
	server.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.DefaultRoutes(server)
	routes.ProductRoutes(server, productController)
	routes.OrderRoutes(server, orderController)
	routes.PromoRoutes(server, promoController)

	if err := server.Run(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func corsOrigins() []string {
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		return strings.Split(origins, ",")
	}
	return []string{"http://localhost:3000"}
}
