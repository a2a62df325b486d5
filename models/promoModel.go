package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PromoTypePercentage = "PERCENTAGE"
	PromoTypeFixed      = "FIXED"
)

// PromoCode stores one discount rule. Codes are upper-cased on write and
// looked up upper-cased, so matching is case-insensitive. MaxUses and
// ExpiresAt are nil for unlimited / never-expiring codes.
type PromoCode struct {
	gorm.Model
	Code           string     `json:"code" gorm:"uniqueIndex;size:32"`
	Type           string     `json:"type"`
	Value          float64    `json:"value"`
	MinOrderAmount float64    `json:"minOrderAmount"`
	MaxUses        *int       `json:"maxUses"`
	UsedCount      int        `json:"usedCount"`
	ExpiresAt      *time.Time `json:"expiresAt"`
	IsActive       bool       `json:"isActive" gorm:"default:true"`
}

type CreatePromoRequest struct {
	Code           string     `json:"code" validate:"required,min=3,max=32"`
	Type           string     `json:"type" validate:"required,oneof=PERCENTAGE FIXED"`
	Value          float64    `json:"value" validate:"required,gt=0"`
	MinOrderAmount float64    `json:"minOrderAmount" validate:"gte=0"`
	MaxUses        *int       `json:"maxUses" validate:"omitempty,gt=0"`
	ExpiresAt      *time.Time `json:"expiresAt"`
}

type ValidatePromoRequest struct {
	Code     string  `json:"code" validate:"required"`
	Subtotal float64 `json:"subtotal" validate:"required,gt=0"`
}
