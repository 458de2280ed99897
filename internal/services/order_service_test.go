package services_test

import (
	"encoding/json"
	"regexp"
	"testing"

	"swagstore/internal/models"
	"swagstore/internal/repositories"
	"swagstore/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher captures published event bodies.
type recordingPublisher struct {
	bodies [][]byte
}

func (p *recordingPublisher) PublishOrderEvent(body []byte) error {
	p.bodies = append(p.bodies, body)
	return nil
}

var testAddress = models.ShippingAddress{
	Name:       "Test Buyer",
	Line1:      "1 Main St",
	City:       "Springfield",
	PostalCode: "12345",
	Country:    "US",
}

func newOrderServiceFixture() (*services.OrderService, *repositories.MockOrderRepository, *repositories.MockProductRepository, *recordingPublisher) {
	orderRepo := repositories.NewMockOrderRepository()
	productRepo := repositories.NewMockProductRepository()
	publisher := &recordingPublisher{}
	svc := services.NewOrderService(orderRepo, productRepo, publisher, 10.00, 0.08)
	return svc, orderRepo, productRepo, publisher
}

func TestOrderService_CreateOrderComputesTotals(t *testing.T) {
	svc, _, productRepo, publisher := newOrderServiceFixture()
	require.NoError(t, productRepo.Create(&models.Product{ID: "prod-tee", Name: "Tee", Slug: "tee", Price: 25.00, Stock: 10}))
	require.NoError(t, productRepo.Create(&models.Product{ID: "prod-mug", Name: "Mug", Slug: "mug", Price: 8.00, Stock: 5}))

	order, err := svc.CreateOrder("user-1", "buyer@example.com", []services.OrderItemRequest{
		{ProductID: "prod-tee", Quantity: 2, Size: "M"},
		{ProductID: "prod-mug", Quantity: 1},
	}, testAddress)
	require.NoError(t, err)

	assert.Equal(t, 58.00, order.Subtotal)
	assert.Equal(t, 10.00, order.Shipping)
	assert.Equal(t, 4.64, order.Tax)
	assert.Equal(t, 72.64, order.Total)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "user-1", order.UserID)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "Tee", order.Items[0].ProductName)
	assert.Equal(t, 25.00, order.Items[0].UnitPrice)
	assert.Equal(t, "M", order.Items[0].Size)

	// An order.created event goes out with the order's key facts.
	require.Len(t, publisher.bodies, 1)
	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(publisher.bodies[0], &event))
	assert.Equal(t, "order.created", event["event"])
	assert.Equal(t, order.OrderNumber, event["order_number"])
	assert.Equal(t, "buyer@example.com", event["email"])
	assert.Equal(t, 72.64, event["total"])
}

func TestOrderService_ClientTotalsAreIgnored(t *testing.T) {
	// Totals come from the catalog, so the same request always prices the
	// same regardless of what the client believed the cart cost.
	svc, _, productRepo, _ := newOrderServiceFixture()
	require.NoError(t, productRepo.Create(&models.Product{ID: "prod-tee", Name: "Tee", Slug: "tee", Price: 30.00, Stock: 10}))

	order, err := svc.CreateOrder("user-1", "buyer@example.com", []services.OrderItemRequest{
		{ProductID: "prod-tee", Quantity: 1},
	}, testAddress)
	require.NoError(t, err)
	assert.Equal(t, 30.00, order.Subtotal)
	assert.Equal(t, 30.00, order.Items[0].UnitPrice)
}

func TestOrderService_OrderNumberFormat(t *testing.T) {
	svc, _, productRepo, _ := newOrderServiceFixture()
	require.NoError(t, productRepo.Create(&models.Product{ID: "prod-tee", Name: "Tee", Slug: "tee", Price: 25.00, Stock: 10}))

	order, err := svc.CreateOrder("user-1", "buyer@example.com", []services.OrderItemRequest{
		{ProductID: "prod-tee", Quantity: 1},
	}, testAddress)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^ORD-\d+-[A-Z0-9]{9}$`), order.OrderNumber)
}

func TestOrderService_InsufficientStock(t *testing.T) {
	svc, orderRepo, productRepo, publisher := newOrderServiceFixture()
	require.NoError(t, productRepo.Create(&models.Product{ID: "prod-tee", Name: "Tee", Slug: "tee", Price: 25.00, Stock: 2}))

	_, err := svc.CreateOrder("user-1", "buyer@example.com", []services.OrderItemRequest{
		{ProductID: "prod-tee", Quantity: 3},
	}, testAddress)
	assert.ErrorIs(t, err, services.ErrInsufficientStock)

	// Nothing persisted, nothing published.
	orders, err := orderRepo.GetByUser("user-1")
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, publisher.bodies)
}

func TestOrderService_UnknownProduct(t *testing.T) {
	svc, _, _, _ := newOrderServiceFixture()

	_, err := svc.CreateOrder("user-1", "buyer@example.com", []services.OrderItemRequest{
		{ProductID: "no-such-product", Quantity: 1},
	}, testAddress)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestOrderService_CreateOrderWithoutPublisher(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	productRepo := repositories.NewMockProductRepository()
	require.NoError(t, productRepo.Create(&models.Product{ID: "prod-tee", Name: "Tee", Slug: "tee", Price: 25.00, Stock: 10}))
	svc := services.NewOrderService(orderRepo, productRepo, nil, 10.00, 0.08)

	order, err := svc.CreateOrder("user-1", "buyer@example.com", []services.OrderItemRequest{
		{ProductID: "prod-tee", Quantity: 1},
	}, testAddress)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestOrderService_GetOrderScopedToOwner(t *testing.T) {
	svc, _, productRepo, _ := newOrderServiceFixture()
	require.NoError(t, productRepo.Create(&models.Product{ID: "prod-tee", Name: "Tee", Slug: "tee", Price: 25.00, Stock: 10}))

	order, err := svc.CreateOrder("user-1", "buyer@example.com", []services.OrderItemRequest{
		{ProductID: "prod-tee", Quantity: 1},
	}, testAddress)
	require.NoError(t, err)

	found, err := svc.GetOrder("user-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	// Someone else's order reads as not found, not as forbidden.
	_, err = svc.GetOrder("user-2", order.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	svc, _, productRepo, _ := newOrderServiceFixture()
	require.NoError(t, productRepo.Create(&models.Product{ID: "prod-tee", Name: "Tee", Slug: "tee", Price: 25.00, Stock: 10}))

	order, err := svc.CreateOrder("user-1", "buyer@example.com", []services.OrderItemRequest{
		{ProductID: "prod-tee", Quantity: 1},
	}, testAddress)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus("user-1", order.ID, models.OrderStatusShipped))
	updated, err := svc.GetOrder("user-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)

	err = svc.UpdateStatus("user-1", order.ID, "Teleported")
	assert.ErrorIs(t, err, services.ErrInvalidStatus)

	err = svc.UpdateStatus("user-1", "no-such-order", models.OrderStatusShipped)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestOrderService_UpdateStatusScopedToOwner(t *testing.T) {
	svc, _, productRepo, _ := newOrderServiceFixture()
	require.NoError(t, productRepo.Create(&models.Product{ID: "prod-tee", Name: "Tee", Slug: "tee", Price: 25.00, Stock: 10}))

	order, err := svc.CreateOrder("user-1", "buyer@example.com", []services.OrderItemRequest{
		{ProductID: "prod-tee", Quantity: 1},
	}, testAddress)
	require.NoError(t, err)

	// Someone else's order reads as not found and stays untouched.
	err = svc.UpdateStatus("user-2", order.ID, models.OrderStatusCancelled)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	unchanged, err := svc.GetOrder("user-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, unchanged.Status)
}
