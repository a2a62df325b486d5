package services

import (
	"context"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/eidbazar/eidbazar-api/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// These tests run against a real MySQL instance because the properties under
// test (atomicity, conditional decrements, row-level serialization) only
// exist at the database. They skip when no database is reachable.
func openTestDB(t *testing.T) *gorm.DB {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = os.Getenv("MYSQL_DSN")
	}
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/eidbazar_test?parseTime=true"
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	require.NoError(t, db.AutoMigrate(
		&models.Product{}, &models.ProductImage{}, &models.PromoCode{},
		&models.Order{}, &models.OrderItem{},
	))
	return db
}

func newTestOrderService(db *gorm.DB) *OrderService {
	return NewOrderService(db, NewPromoService(db), NewSMSServiceFromEnv())
}

func createTestProduct(t *testing.T, db *gorm.DB, basePrice float64, salePrice *float64, stock int, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:      "Test Panjabi " + uuid.NewString()[:8],
		NameBn:    "টেস্ট পাঞ্জাবি",
		BasePrice: basePrice,
		SalePrice: salePrice,
		StockQty:  stock,
		IsActive:  active,
	}
	require.NoError(t, db.Create(product).Error)
	t.Cleanup(func() {
		db.Unscoped().Delete(&models.Product{}, product.ID)
	})
	return product
}

func createTestPromo(t *testing.T, db *gorm.DB, promo *models.PromoCode) *models.PromoCode {
	t.Helper()
	promo.Code = "T" + strings.ToUpper(uuid.NewString()[:10])
	require.NoError(t, db.Create(promo).Error)
	t.Cleanup(func() {
		db.Unscoped().Delete(&models.PromoCode{}, promo.ID)
	})
	return promo
}

func orderRequestFor(product *models.Product, quantity int) *models.CreateOrderRequest {
	return &models.CreateOrderRequest{
		CustomerName:    "Rahim Uddin",
		CustomerPhone:   "01712345678",
		CustomerAddress: "House 12, Road 3, Dhaka",
		PaymentMethod:   "COD",
		Items: []models.OrderItemRequest{
			{ProductID: strconv.Itoa(int(product.ID)), Quantity: quantity},
		},
	}
}

func cleanupOrder(t *testing.T, db *gorm.DB, orderNumber string) {
	t.Helper()
	var order models.Order
	if db.Where("order_number = ?", orderNumber).First(&order).Error == nil {
		db.Unscoped().Where("order_id = ?", order.ID).Delete(&models.OrderItem{})
		db.Unscoped().Delete(&models.Order{}, order.ID)
	}
}

func TestCreateOrder_EndToEnd(t *testing.T) {
	db := openTestDB(t)
	svc := newTestOrderService(db)

	product := createTestProduct(t, db, 500, nil, 10, true)

	result, svcErr := svc.CreateOrder(context.Background(), orderRequestFor(product, 2))
	require.Nil(t, svcErr)
	t.Cleanup(func() { cleanupOrder(t, db, result.OrderNumber) })

	assert.Equal(t, 1000.0, result.Total)
	assert.True(t, strings.HasPrefix(result.OrderNumber, "EID-"))

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 8, reloaded.StockQty)

	var order models.Order
	require.NoError(t, db.Preload("OrderItems").Where("order_number = ?", result.OrderNumber).First(&order).Error)
	assert.Equal(t, 1000.0, order.Subtotal)
	assert.Equal(t, 0.0, order.Discount)
	assert.Equal(t, 1000.0, order.Total)
	assert.Equal(t, models.OrderStatusPending, order.OrderStatus)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, int(product.ID), order.OrderItems[0].ProductId)
	assert.Equal(t, product.Name, order.OrderItems[0].ProductName)
	assert.Equal(t, 500.0, order.OrderItems[0].UnitPrice)
	assert.Equal(t, 2, order.OrderItems[0].Quantity)
	assert.Equal(t, 1000.0, order.OrderItems[0].Total)
}

func TestCreateOrder_SalePriceWins(t *testing.T) {
	db := openTestDB(t)
	svc := newTestOrderService(db)

	sale := 400.0
	product := createTestProduct(t, db, 500, &sale, 10, true)

	result, svcErr := svc.CreateOrder(context.Background(), orderRequestFor(product, 1))
	require.Nil(t, svcErr)
	t.Cleanup(func() { cleanupOrder(t, db, result.OrderNumber) })

	assert.Equal(t, 400.0, result.Total)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	db := openTestDB(t)
	svc := newTestOrderService(db)

	req := &models.CreateOrderRequest{
		CustomerName:    "Rahim Uddin",
		CustomerPhone:   "01712345678",
		CustomerAddress: "House 12, Road 3, Dhaka",
		PaymentMethod:   "COD",
		Items:           []models.OrderItemRequest{{ProductID: "999999999", Quantity: 1}},
	}

	_, svcErr := svc.CreateOrder(context.Background(), req)
	require.NotNil(t, svcErr)
	assert.Equal(t, KindNotFound, svcErr.Kind)
}

func TestCreateOrder_InactiveProduct(t *testing.T) {
	db := openTestDB(t)
	svc := newTestOrderService(db)

	product := createTestProduct(t, db, 500, nil, 10, false)

	_, svcErr := svc.CreateOrder(context.Background(), orderRequestFor(product, 1))
	require.NotNil(t, svcErr)
	assert.Equal(t, KindConflict, svcErr.Kind)
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	db := openTestDB(t)
	svc := newTestOrderService(db)

	product := createTestProduct(t, db, 500, nil, 1, true)

	_, svcErr := svc.CreateOrder(context.Background(), orderRequestFor(product, 2))
	require.NotNil(t, svcErr)
	assert.Equal(t, KindConflict, svcErr.Kind)
	assert.Contains(t, svcErr.Message, product.Name)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 1, reloaded.StockQty)
}

func TestCreateOrder_RollbackLeavesNoPartialWrites(t *testing.T) {
	db := openTestDB(t)
	svc := newTestOrderService(db)

	inStock := createTestProduct(t, db, 500, nil, 10, true)
	soldOut := createTestProduct(t, db, 300, nil, 0, true)

	req := orderRequestFor(inStock, 1)
	req.Items = append(req.Items, models.OrderItemRequest{
		ProductID: strconv.Itoa(int(soldOut.ID)), Quantity: 1,
	})

	_, svcErr := svc.CreateOrder(context.Background(), req)
	require.NotNil(t, svcErr)
	assert.Equal(t, KindConflict, svcErr.Kind)

	// The first item's decrement must not survive the failed transaction.
	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, inStock.ID).Error)
	assert.Equal(t, 10, reloaded.StockQty)

	var orderCount int64
	db.Model(&models.Order{}).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("order_items.product_id = ?", inStock.ID).
		Count(&orderCount)
	assert.Zero(t, orderCount)
}

func TestCreateOrder_WithPercentagePromo(t *testing.T) {
	db := openTestDB(t)
	svc := newTestOrderService(db)

	product := createTestProduct(t, db, 500, nil, 10, true)
	promo := createTestPromo(t, db, &models.PromoCode{
		Type: models.PromoTypePercentage, Value: 10, IsActive: true,
	})

	req := orderRequestFor(product, 2)
	req.PromoCode = promo.Code

	result, svcErr := svc.CreateOrder(context.Background(), req)
	require.Nil(t, svcErr)
	t.Cleanup(func() { cleanupOrder(t, db, result.OrderNumber) })

	assert.Equal(t, 900.0, result.Total)

	var order models.Order
	require.NoError(t, db.Where("order_number = ?", result.OrderNumber).First(&order).Error)
	assert.Equal(t, 1000.0, order.Subtotal)
	assert.Equal(t, 100.0, order.Discount)
	assert.Equal(t, promo.Code, order.PromoCode)

	var reloadedPromo models.PromoCode
	require.NoError(t, db.First(&reloadedPromo, promo.ID).Error)
	assert.Equal(t, 1, reloadedPromo.UsedCount)
}

func TestCreateOrder_InvalidPromoRejectsWholeOrder(t *testing.T) {
	db := openTestDB(t)
	svc := newTestOrderService(db)

	product := createTestProduct(t, db, 500, nil, 10, true)

	req := orderRequestFor(product, 1)
	req.PromoCode = "NOSUCHCODE"

	_, svcErr := svc.CreateOrder(context.Background(), req)
	require.NotNil(t, svcErr)
	assert.Equal(t, KindConflict, svcErr.Kind)

	// The order is rejected outright; the discount is not silently dropped.
	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 10, reloaded.StockQty)
}

func TestCreateOrder_ConcurrentStockOverdraw(t *testing.T) {
	db := openTestDB(t)
	svc := newTestOrderService(db)

	product := createTestProduct(t, db, 500, nil, 5, true)

	var wg sync.WaitGroup
	results := make([]*CreateOrderResult, 2)
	errs := make([]*Error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.CreateOrder(context.Background(), orderRequestFor(product, 3))
		}(i)
	}
	wg.Wait()

	successes := 0
	for i := 0; i < 2; i++ {
		if errs[i] == nil {
			successes++
			cleanupOrder(t, db, results[i].OrderNumber)
		} else {
			assert.Equal(t, KindConflict, errs[i].Kind)
		}
	}
	assert.Equal(t, 1, successes, "stock 5 cannot satisfy two orders of 3")

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 2, reloaded.StockQty)
	assert.GreaterOrEqual(t, reloaded.StockQty, 0)
}

func TestCreateOrder_ConcurrentPromoRedemption(t *testing.T) {
	db := openTestDB(t)
	svc := newTestOrderService(db)

	productA := createTestProduct(t, db, 500, nil, 10, true)
	productB := createTestProduct(t, db, 500, nil, 10, true)
	promo := createTestPromo(t, db, &models.PromoCode{
		Type: models.PromoTypeFixed, Value: 50, IsActive: true, MaxUses: intPtr(1),
	})

	var wg sync.WaitGroup
	results := make([]*CreateOrderResult, 2)
	errs := make([]*Error, 2)
	for i, product := range []*models.Product{productA, productB} {
		wg.Add(1)
		go func(i int, product *models.Product) {
			defer wg.Done()
			req := orderRequestFor(product, 1)
			req.PromoCode = promo.Code
			results[i], errs[i] = svc.CreateOrder(context.Background(), req)
		}(i, product)
	}
	wg.Wait()

	successes := 0
	for i := 0; i < 2; i++ {
		if errs[i] == nil {
			successes++
			cleanupOrder(t, db, results[i].OrderNumber)
		} else {
			assert.Equal(t, KindConflict, errs[i].Kind)
		}
	}
	assert.Equal(t, 1, successes, "a maxUses=1 promo can only be redeemed once")

	var reloadedPromo models.PromoCode
	require.NoError(t, db.First(&reloadedPromo, promo.ID).Error)
	assert.Equal(t, 1, reloadedPromo.UsedCount, "usedCount must never exceed maxUses")
}

func TestCreateOrder_TransactionIDRecordedForMobilePayment(t *testing.T) {
	db := openTestDB(t)
	svc := newTestOrderService(db)

	product := createTestProduct(t, db, 500, nil, 10, true)

	req := orderRequestFor(product, 1)
	req.PaymentMethod = "BKASH"
	req.TransactionID = "TX" + uuid.NewString()[:8]

	result, svcErr := svc.CreateOrder(context.Background(), req)
	require.Nil(t, svcErr)
	t.Cleanup(func() { cleanupOrder(t, db, result.OrderNumber) })

	var order models.Order
	require.NoError(t, db.Where("order_number = ?", result.OrderNumber).First(&order).Error)
	assert.Equal(t, req.TransactionID, order.TransactionID)
	assert.Equal(t, "BKASH", order.PaymentMethod)
}
