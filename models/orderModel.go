package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"

	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
	PaymentStatusFailed  = "FAILED"
)

type Order struct {
	gorm.Model
	OrderNumber     string      `json:"orderNumber" gorm:"uniqueIndex;size:32"`
	CustomerName    string      `json:"customerName"`
	CustomerPhone   string      `json:"customerPhone"`
	CustomerAddress string      `json:"customerAddress"`
	PaymentMethod   string      `json:"paymentMethod"`
	PaymentStatus   string      `json:"paymentStatus"`
	OrderStatus     string      `json:"orderStatus"`
	Subtotal        float64     `json:"subtotal"`
	Discount        float64     `json:"discount"`
	Total           float64     `json:"total"`
	PromoCode       string      `json:"promoCode"`
	TransactionID   string      `json:"transactionId"`
	OrderItems      []OrderItem `json:"orderItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is a denormalized snapshot of the product at purchase time, so
// later catalog edits never change what a historical order shows.
type OrderItem struct {
	gorm.Model
	OrderID          int               `json:"orderId"`
	ProductId        int               `json:"productId"`
	ProductName      string            `json:"productName"`
	ProductNameBn    string            `json:"productNameBn"`
	VariantInfo      string            `json:"variantInfo"`
	SelectedVariants datatypes.JSONMap `json:"selectedVariants"`
	UnitPrice        float64           `json:"unitPrice"`
	Quantity         int               `json:"quantity"`
	Total            float64           `json:"total"`
}

type OrderItemRequest struct {
	ProductID        string            `json:"productId" validate:"required,number"`
	Quantity         int               `json:"quantity" validate:"gt=0"`
	SelectedVariants map[string]string `json:"selectedVariants"`
}

// CreateOrderRequest is the guest checkout payload. Every payment method
// except COD requires a buyer-supplied transaction reference.
type CreateOrderRequest struct {
	CustomerName    string             `json:"customerName" validate:"required,min=2"`
	CustomerPhone   string             `json:"customerPhone" validate:"required,bdphone"`
	CustomerAddress string             `json:"customerAddress" validate:"required,min=10"`
	PaymentMethod   string             `json:"paymentMethod" validate:"required,oneof=COD BKASH NAGAD ROCKET"`
	TransactionID   string             `json:"transactionId" validate:"required_unless=PaymentMethod COD"`
	PromoCode       string             `json:"promoCode"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}
