package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eidbazar/eidbazar-api/models"
	"gorm.io/gorm"
)

// PromoQuote is the result of evaluating a promo code against a subtotal. No
// usage is consumed at evaluation time; usedCount only moves inside the
// order transaction.
type PromoQuote struct {
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
}

type PromoService struct {
	db *gorm.DB
}

func NewPromoService(db *gorm.DB) *PromoService {
	return &PromoService{db: db}
}

// FindByCode looks a promo up by its canonical (upper-cased) code.
func (s *PromoService) FindByCode(ctx context.Context, code string) (*models.PromoCode, *Error) {
	var promo models.PromoCode
	err := s.db.WithContext(ctx).Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&promo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, conflictError("invalid promo code")
		}
		return nil, internalError("failed to look up promo code", err)
	}
	return &promo, nil
}

// EvaluatePromo applies the promo rules in order and computes the discount.
// The discount never exceeds the subtotal, so a FIXED code larger than the
// cart still yields a non-negative total.
func EvaluatePromo(promo *models.PromoCode, subtotal float64) (float64, *Error) {
	if !promo.IsActive {
		return 0, conflictError("promo code %s is inactive", promo.Code)
	}
	if promo.ExpiresAt != nil && promo.ExpiresAt.Before(time.Now()) {
		return 0, conflictError("promo code %s has expired", promo.Code)
	}
	if promo.MaxUses != nil && promo.UsedCount >= *promo.MaxUses {
		return 0, conflictError("promo code %s has reached its usage limit", promo.Code)
	}
	if subtotal < promo.MinOrderAmount {
		return 0, conflictError("promo code %s requires a minimum order of %.2f", promo.Code, promo.MinOrderAmount)
	}

	var discount float64
	switch promo.Type {
	case models.PromoTypePercentage:
		discount = subtotal * promo.Value / 100
	case models.PromoTypeFixed:
		discount = promo.Value
	default:
		return 0, internalError("unknown promo type", fmt.Errorf("promo %s has type %q", promo.Code, promo.Type))
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount, nil
}

// Validate is the public quote operation: given a code and a cart subtotal,
// report the discount the code would grant right now.
func (s *PromoService) Validate(ctx context.Context, code string, subtotal float64) (*PromoQuote, *Error) {
	promo, svcErr := s.FindByCode(ctx, code)
	if svcErr != nil {
		return nil, svcErr
	}
	discount, svcErr := EvaluatePromo(promo, subtotal)
	if svcErr != nil {
		return nil, svcErr
	}
	return &PromoQuote{Code: promo.Code, Discount: discount}, nil
}

// Create persists a new promo code for the admin surface. Codes are stored
// upper-cased so lookups are case-insensitive.
func (s *PromoService) Create(ctx context.Context, req *models.CreatePromoRequest) (*models.PromoCode, *Error) {
	if fields := collectFieldErrors(newValidator(), req); fields != nil {
		return nil, validationError(fields)
	}
	if req.Type == models.PromoTypePercentage && req.Value > 100 {
		return nil, validationError([]FieldError{{Field: "value", Message: "percentage value must be at most 100"}})
	}

	promo := models.PromoCode{
		Code:           strings.ToUpper(strings.TrimSpace(req.Code)),
		Type:           req.Type,
		Value:          req.Value,
		MinOrderAmount: req.MinOrderAmount,
		MaxUses:        req.MaxUses,
		ExpiresAt:      req.ExpiresAt,
		IsActive:       true,
	}
	if err := s.db.WithContext(ctx).Create(&promo).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictError("promo code %s already exists", promo.Code)
		}
		return nil, internalError("failed to create promo code", err)
	}
	return &promo, nil
}
