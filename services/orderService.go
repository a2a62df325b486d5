package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/eidbazar/eidbazar-api/models"
	"github.com/eidbazar/eidbazar-api/utils"
	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const orderTxTimeout = 10 * time.Second

type OrderService struct {
	db          *gorm.DB
	validate    *validator.Validate
	promos      *PromoService
	sms         *SMSService
	orderPrefix string
}

func NewOrderService(db *gorm.DB, promos *PromoService, sms *SMSService) *OrderService {
	return &OrderService{
		db:          db,
		validate:    newValidator(),
		promos:      promos,
		sms:         sms,
		orderPrefix: os.Getenv("ORDER_PREFIX"),
	}
}

type CreateOrderResult struct {
	OrderNumber string  `json:"orderNumber"`
	Total       float64 `json:"total"`
}

// resolvedItem pairs a requested line with the authoritative product row and
// the server-side unit price. Client-submitted prices and names never enter
// the pipeline.
type resolvedItem struct {
	product   models.Product
	request   models.OrderItemRequest
	unitPrice float64
}

// CreateOrder runs the whole guest checkout: validate, re-price from the
// catalog, evaluate the promo, then persist order, items, stock decrements
// and promo usage as one transaction. The confirmation SMS goes out only
// after commit and never blocks the response.
func (s *OrderService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*CreateOrderResult, *Error) {
	NormalizeOrderRequest(req)
	if fields := collectFieldErrors(s.validate, req); fields != nil {
		return nil, validationError(fields)
	}

	items, subtotal, svcErr := s.resolvePricing(ctx, req.Items)
	if svcErr != nil {
		return nil, svcErr
	}

	// An invalid promo code rejects the whole order; the discount is never
	// silently dropped.
	var promo *models.PromoCode
	var discount float64
	if req.PromoCode != "" {
		promo, svcErr = s.promos.FindByCode(ctx, req.PromoCode)
		if svcErr != nil {
			return nil, svcErr
		}
		discount, svcErr = EvaluatePromo(promo, subtotal)
		if svcErr != nil {
			return nil, svcErr
		}
	}

	order := s.buildOrder(req, items, subtotal, discount)

	txCtx, cancel := context.WithTimeout(ctx, orderTxTimeout)
	defer cancel()

	err := s.db.WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
		for i := range items {
			if svcErr := decrementStock(tx, &items[i]); svcErr != nil {
				return svcErr
			}
		}
		if promo != nil {
			if svcErr := consumePromo(tx, promo); svcErr != nil {
				return svcErr
			}
		}
		if err := tx.Create(order).Error; err != nil {
			return internalError("failed to save order", err)
		}
		return nil
	})
	if err != nil {
		var svcErr *Error
		if errors.As(err, &svcErr) {
			return nil, svcErr
		}
		return nil, internalError("failed to place order", err)
	}

	s.sms.Dispatch(order.CustomerPhone, fmt.Sprintf(
		"Thank you %s! Your order %s for Tk %.2f has been received. We will confirm it shortly.",
		order.CustomerName, order.OrderNumber, order.Total,
	))

	return &CreateOrderResult{OrderNumber: order.OrderNumber, Total: order.Total}, nil
}

// resolvePricing loads every requested product in one batched read and
// returns the priced lines plus the subtotal. Stock is checked here against
// the snapshot for early feedback; the transaction re-checks it at commit
// time because stock can move between read and write.
func (s *OrderService) resolvePricing(ctx context.Context, reqs []models.OrderItemRequest) ([]resolvedItem, float64, *Error) {
	ids := make([]uint, 0, len(reqs))
	for _, it := range reqs {
		id, err := strconv.ParseUint(it.ProductID, 10, 64)
		if err != nil {
			return nil, 0, notFoundError("product %s not found", it.ProductID)
		}
		ids = append(ids, uint(id))
	}

	var products []models.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, 0, internalError("failed to load products", err)
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]resolvedItem, 0, len(reqs))
	var subtotal float64
	for i, it := range reqs {
		product, ok := byID[ids[i]]
		if !ok {
			return nil, 0, notFoundError("product %s not found", it.ProductID)
		}
		if !product.IsActive {
			return nil, 0, conflictError("product %s is no longer available", product.Name)
		}
		if product.StockQty < it.Quantity {
			return nil, 0, conflictError("only %d of %s in stock", product.StockQty, product.Name)
		}

		price := product.Price()
		subtotal += price * float64(it.Quantity)
		items = append(items, resolvedItem{product: product, request: it, unitPrice: price})
	}
	return items, subtotal, nil
}

func (s *OrderService) buildOrder(req *models.CreateOrderRequest, items []resolvedItem, subtotal, discount float64) *models.Order {
	order := &models.Order{
		OrderNumber:     utils.GenerateOrderNumber(s.orderPrefix),
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		OrderStatus:     models.OrderStatusPending,
		Subtotal:        subtotal,
		Discount:        discount,
		Total:           subtotal - discount,
		PromoCode:       req.PromoCode,
		TransactionID:   req.TransactionID,
	}

	for _, it := range items {
		var selected datatypes.JSONMap
		if len(it.request.SelectedVariants) > 0 {
			selected = datatypes.JSONMap{}
			for k, v := range it.request.SelectedVariants {
				selected[k] = v
			}
		}
		order.OrderItems = append(order.OrderItems, models.OrderItem{
			ProductId:        int(it.product.ID),
			ProductName:      it.product.Name,
			ProductNameBn:    it.product.NameBn,
			VariantInfo:      formatVariantInfo(it.request.SelectedVariants),
			SelectedVariants: selected,
			UnitPrice:        it.unitPrice,
			Quantity:         it.request.Quantity,
			Total:            it.unitPrice * float64(it.request.Quantity),
		})
	}
	return order
}

// decrementStock is the commit-time stock check: a conditional update that
// only succeeds while enough stock remains, so two concurrent orders can
// never over-draw the same product and stock_qty can never go negative.
func decrementStock(tx *gorm.DB, item *resolvedItem) *Error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND is_active = ? AND stock_qty >= ?", item.product.ID, true, item.request.Quantity).
		UpdateColumn("stock_qty", gorm.Expr("stock_qty - ?", item.request.Quantity))
	if res.Error != nil {
		return internalError("failed to update stock", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// The condition failed; look at the row inside the same transaction to
	// name the reason.
	var current models.Product
	err := tx.Select("id", "name", "is_active", "stock_qty").First(&current, item.product.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundError("product %s not found", item.request.ProductID)
	}
	if err != nil {
		return internalError("failed to re-check stock", err)
	}
	if !current.IsActive {
		return conflictError("product %s is no longer available", current.Name)
	}
	return conflictError("only %d of %s in stock", current.StockQty, current.Name)
}

// consumePromo burns one usage slot, guarded by the same conditional-update
// discipline: the increment only lands while the code is active and below
// its usage limit.
func consumePromo(tx *gorm.DB, promo *models.PromoCode) *Error {
	res := tx.Model(&models.PromoCode{}).
		Where("id = ? AND is_active = ? AND (max_uses IS NULL OR used_count < max_uses)", promo.ID, true).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return internalError("failed to update promo usage", res.Error)
	}
	if res.RowsAffected == 0 {
		return conflictError("promo code %s is no longer valid", promo.Code)
	}
	return nil
}

func formatVariantInfo(selected map[string]string) string {
	if len(selected) == 0 {
		return ""
	}
	keys := make([]string, 0, len(selected))
	for k := range selected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, selected[k]))
	}
	return strings.Join(parts, ", ")
}

// NotifyStatusChange sends the admin-driven status SMS (confirmed/shipped)
// with the same fire-and-forget contract as the checkout confirmation.
func (s *OrderService) NotifyStatusChange(order *models.Order, status string) {
	var message string
	switch status {
	case models.OrderStatusConfirmed:
		message = fmt.Sprintf("Your order %s has been confirmed. Thank you for shopping with us!", order.OrderNumber)
	case models.OrderStatusShipped:
		message = fmt.Sprintf("Good news! Your order %s has been shipped.", order.OrderNumber)
	default:
		return
	}
	s.sms.Dispatch(order.CustomerPhone, message)
}
