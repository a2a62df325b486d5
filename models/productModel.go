package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProductImage struct {
	gorm.Model
	Url       string `json:"url" binding:"required"`
	ProductID int    `json:"productId" binding:"required"`
}

type Product struct {
	gorm.Model
	Name        string         `json:"name"`
	NameBn      string         `json:"nameBn"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	BasePrice   float64        `json:"basePrice"`
	SalePrice   *float64       `json:"salePrice"`
	StockQty    int            `json:"stockQty"`
	IsActive    bool           `json:"isActive" gorm:"default:true"`
	Variants    datatypes.JSON `json:"variants"`
	Images      []ProductImage `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// Price returns the unit price a buyer actually pays: the sale price when one
// is set, otherwise the base price.
func (p *Product) Price() float64 {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.BasePrice
}
