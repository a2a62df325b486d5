package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/eidbazar/eidbazar-api/models"
	"github.com/eidbazar/eidbazar-api/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PromoController keeps the admin CRUD surface and the public validation
// endpoint as separate operations with separate routes; there is no
// payload-shape dispatch.
type PromoController struct {
	db     *gorm.DB
	promos *services.PromoService
}

func NewPromoController(db *gorm.DB, promos *services.PromoService) *PromoController {
	return &PromoController{db: db, promos: promos}
}

// ValidatePromo is the public quote endpoint: it reports the discount a code
// would grant for a given subtotal without consuming a usage slot.
func (c *PromoController) ValidatePromo(ctx *gin.Context) {
	var req models.ValidatePromoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Code == "" || req.Subtotal <= 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "A promo code and a positive subtotal are required")
		return
	}

	quote, svcErr := c.promos.Validate(ctx.Request.Context(), req.Code, req.Subtotal)
	if svcErr != nil {
		sendServiceError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, quote)
}

func (c *PromoController) CreatePromo(ctx *gin.Context) {
	var req models.CreatePromoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	promo, svcErr := c.promos.Create(ctx.Request.Context(), &req)
	if svcErr != nil {
		sendServiceError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusCreated, promo)
}

func (c *PromoController) GetPromos(ctx *gin.Context) {
	var promos []models.PromoCode
	if err := c.db.Order("created_at desc").Find(&promos).Error; err != nil {
		log.Println(err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch promo codes")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"promoCodes": promos})
}

func (c *PromoController) UpdatePromo(ctx *gin.Context) {
	promoId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid promo code ID")
		return
	}

	var updates struct {
		IsActive       *bool    `json:"isActive"`
		MinOrderAmount *float64 `json:"minOrderAmount"`
		MaxUses        *int     `json:"maxUses"`
	}
	if err := ctx.ShouldBindJSON(&updates); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	var promo models.PromoCode
	if err := c.db.First(&promo, promoId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Promo code not found")
		} else {
			log.Println(err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch promo code")
		}
		return
	}

	fields := map[string]any{}
	if updates.IsActive != nil {
		fields["is_active"] = *updates.IsActive
	}
	if updates.MinOrderAmount != nil {
		fields["min_order_amount"] = *updates.MinOrderAmount
	}
	if updates.MaxUses != nil {
		fields["max_uses"] = *updates.MaxUses
	}
	if len(fields) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "No updatable fields provided")
		return
	}

	if err := c.db.Model(&promo).Updates(fields).Error; err != nil {
		log.Println(err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update promo code")
		return
	}

	ctx.JSON(http.StatusOK, promo)
}

func (c *PromoController) DeletePromo(ctx *gin.Context) {
	promoId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid promo code ID")
		return
	}

	if err := c.db.Delete(&models.PromoCode{}, promoId).Error; err != nil {
		log.Println(err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to delete promo code")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Promo code deleted successfully."})
}
