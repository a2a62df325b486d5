package controllers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/eidbazar/eidbazar-api/models"
	"github.com/eidbazar/eidbazar-api/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OrderController struct {
	db     *gorm.DB
	orders *services.OrderService
}

func NewOrderController(db *gorm.DB, orders *services.OrderService) *OrderController {
	return &OrderController{db: db, orders: orders}
}

// CreateOrder is the public guest checkout endpoint.
func (c *OrderController) CreateOrder(ctx *gin.Context) {
	var req models.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		sendJSONResponse(ctx, http.StatusBadRequest, gin.H{
			"error":   string(services.KindValidation),
			"message": "Invalid request body",
		})
		return
	}

	result, svcErr := c.orders.CreateOrder(ctx.Request.Context(), &req)
	if svcErr != nil {
		sendServiceError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusCreated, result)
}

func (c *OrderController) GetOrders(ctx *gin.Context) {
	var orders []models.Order

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	offset := (page - 1) * limit

	sortOrder := ctx.DefaultQuery("sort", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	query := c.db.Preload("OrderItems")

	if search := ctx.Query("search"); search != "" {
		query = query.Where("order_number LIKE ? OR customer_phone LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	query = query.Order("created_at " + sortOrder)

	result := query.Limit(limit).Offset(offset).Find(&orders)
	if result.Error != nil {
		log.Println(result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch orders")
		return
	}

	var count int64
	countQuery := c.db.Model(&models.Order{})
	if search := ctx.Query("search"); search != "" {
		countQuery = countQuery.Where("order_number LIKE ? OR customer_phone LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	countQuery.Count(&count)

	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"metadata": gin.H{
			"total":      count,
			"page":       page,
			"limit":      limit,
			"totalPages": math.Ceil(float64(count) / float64(limit)),
		},
	})
}

func (c *OrderController) GetOrder(ctx *gin.Context) {
	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var order models.Order
	result := c.db.Preload("OrderItems").First(&order, orderId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		} else {
			log.Println(result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch order")
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

func (c *OrderController) UpdateOrderStatus(ctx *gin.Context) {
	var statusData struct {
		Status string `json:"status" binding:"required,oneof=PENDING CONFIRMED SHIPPED DELIVERED CANCELLED"`
	}
	if err := ctx.ShouldBindJSON(&statusData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid order status")
		return
	}

	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var order models.Order
	if err := c.db.First(&order, orderId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		} else {
			log.Println(err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch order")
		}
		return
	}

	if err := c.db.Model(&order).Update("order_status", statusData.Status).Error; err != nil {
		log.Println(err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	// Status SMS follows the same best-effort contract as the checkout
	// confirmation: fired after the write, outcome never surfaced.
	c.orders.NotifyStatusChange(&order, statusData.Status)

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order status updated successfully."})
}

func (c *OrderController) GetPendingOrderCount(ctx *gin.Context) {
	var count int64
	result := c.db.Model(&models.Order{}).
		Where("order_status = ?", models.OrderStatusPending).
		Count(&count)
	if result.Error != nil {
		log.Println(result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to count pending orders")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"count": count})
}

func (c *OrderController) DeleteOrder(ctx *gin.Context) {
	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid order ID")
		return
	}

	if result := c.db.Select("OrderItems").Delete(&models.Order{Model: gorm.Model{ID: uint(orderId)}}); result.Error != nil {
		log.Println(result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete order")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order deleted successfully."})
}
