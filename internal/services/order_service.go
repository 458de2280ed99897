package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"swagstore/internal/models"
	"swagstore/internal/repositories"

	"github.com/google/uuid"
)

// ErrInsufficientStock is returned when an ordered quantity exceeds the
// available stock. The cart never enforces stock; this is the one place
// that does.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrInvalidStatus is returned for a status outside the allowed set.
var ErrInvalidStatus = errors.New("invalid order status")

// OrderEventPublisher publishes order lifecycle events. A nil publisher
// disables publishing; failures are logged, never surfaced to the buyer.
type OrderEventPublisher interface {
	PublishOrderEvent(body []byte) error
}

// OrderItemRequest is one requested line at checkout. Prices are never
// taken from the request.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	Size      string `json:"size"`
}

// OrderService creates and reads orders. It is the single authority for
// order totals: subtotal comes from current catalog prices, shipping is a
// flat rate, tax is a fixed rate on the subtotal. Any figures the client
// sends along are display estimates and ignored here.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	publisher   OrderEventPublisher
	shipping    float64
	taxRate     float64
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, publisher OrderEventPublisher, shippingFlatRate, taxRate float64) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
		shipping:    shippingFlatRate,
		taxRate:     taxRate,
	}
}

// CreateOrder validates the requested items against the catalog, computes
// authoritative totals, persists the order as Pending and publishes an
// order.created event.
func (s *OrderService) CreateOrder(userID, email string, items []OrderItemRequest, address models.ShippingAddress) (*models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("order must contain at least one item")
	}

	var subtotal float64
	processedItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", item.ProductID, err)
		}
		if product.Stock < item.Quantity {
			return nil, fmt.Errorf("%w for %s (requested: %d, available: %d)", ErrInsufficientStock, product.Name, item.Quantity, product.Stock)
		}

		processedItems = append(processedItems, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Size:        item.Size,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
		})
		subtotal += product.Price * float64(item.Quantity)
	}

	subtotal = round2(subtotal)
	tax := round2(subtotal * s.taxRate)
	total := round2(subtotal + s.shipping + tax)

	order := &models.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		OrderNumber:     generateOrderNumber(),
		Email:           email,
		Items:           processedItems,
		Subtotal:        subtotal,
		Shipping:        s.shipping,
		Tax:             tax,
		Total:           total,
		Status:          models.OrderStatusPending,
		ShippingAddress: address,
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publishOrderCreated(order)
	return order, nil
}

// Orders retrieves the orders placed by a user, newest first.
func (s *OrderService) Orders(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUser(userID)
}

// GetOrder retrieves a single order, scoped to its owner. An order that
// exists but belongs to someone else reads as not found.
func (s *OrderService) GetOrder(userID, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order %s: %w", orderID, repositories.ErrNotFound)
	}
	return order, nil
}

// UpdateStatus transitions an order's status, scoped to its owner the
// same way reads are. An order that exists but belongs to someone else
// reads as not found.
func (s *OrderService) UpdateStatus(userID, id, status string) error {
	if !models.ValidOrderStatuses[status] {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	if _, err := s.GetOrder(userID, id); err != nil {
		return err
	}
	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	return nil
}

// publishOrderCreated emits the order.created event; failures only log.
func (s *OrderService) publishOrderCreated(order *models.Order) {
	if s.publisher == nil {
		log.Println("Order event publisher is not configured. Skipping message publication.")
		return
	}

	event := map[string]interface{}{
		"event":        "order.created",
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"email":        order.Email,
		"total":        order.Total,
		"status":       order.Status,
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal order event for order %s: %v", order.ID, err)
		return
	}
	if err := s.publisher.PublishOrderEvent(body); err != nil {
		log.Printf("Warning: Failed to publish order created event for order %s: %v", order.ID, err)
		return
	}
	log.Printf("Published order created event for order %s", order.OrderNumber)
}

// generateOrderNumber builds a human-readable order number, e.g.
// ORD-1717171717171-4F6A1B9C2.
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:9]
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}

// round2 rounds a money amount to cents.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
