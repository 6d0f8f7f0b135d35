package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sawyelin1011/mtc-platform/models"
	"github.com/sawyelin1011/mtc-platform/pkg/aws"
	"github.com/sawyelin1011/mtc-platform/repository"
)

// OrderService is the order pipeline. Orders are created from a checkout
// snapshot with frozen monetary fields; afterwards only the three status
// dimensions move, each through its own transition table.
type OrderService interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, *ServiceError)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, *ServiceError)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, *ServiceError)
	ListOrders(ctx context.Context, storeID uuid.UUID, page, limit int) ([]models.Order, int64, *ServiceError)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, *ServiceError)
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, *ServiceError)
	UpdateShippingStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, *ServiceError)
	AddItem(ctx context.Context, orderID uuid.UUID, item *models.CreateOrderItem) (*models.Order, *ServiceError)
	MarkAsPaid(ctx context.Context, orderID uuid.UUID, paymentID *uuid.UUID) (*models.Order, *ServiceError)
	CancelOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, *ServiceError)
}

type orderServiceImpl struct {
	repo      repository.OrderRepository
	storeRepo repository.StoreRepository
	publisher aws.SNSPublisher
	topicARN  string
	metrics   *aws.MetricsClient
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService. publisher and metrics may be
// nil, in which case events and counters are skipped.
func NewOrderService(
	repo repository.OrderRepository,
	storeRepo repository.StoreRepository,
	publisher aws.SNSPublisher,
	topicARN string,
	metrics *aws.MetricsClient,
	logger *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		repo:      repo,
		storeRepo: storeRepo,
		publisher: publisher,
		topicARN:  topicARN,
		metrics:   metrics,
		logger:    logger,
	}
}

// CreateOrder persists a checkout snapshot. The monetary fields arrive
// already computed and are stored verbatim; no recompute happens here or on
// any later transition.
func (s *orderServiceImpl) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, *ServiceError) {
	if len(req.Items) == 0 {
		return nil, badRequest("Order must contain at least one item")
	}

	store, err := s.storeRepo.FindByID(ctx, req.StoreID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Store not found")
		}
		s.logger.Error("Failed to fetch store", zap.Error(err))
		return nil, internal("Failed to create order")
	}

	currency := req.Currency
	if currency == "" {
		currency = store.Currency
	}

	order := &models.Order{
		StoreID:        req.StoreID,
		OrderNumber:    generateOrderNumber(),
		UserID:         req.UserID,
		Email:          req.Email,
		Status:         models.OrderStatusPending,
		PaymentStatus:  models.PaymentStatusUnpaid,
		ShippingStatus: models.ShippingStatusUnshipped,
		Currency:       currency,
		Subtotal:       req.Subtotal,
		Tax:            req.Tax,
		Shipping:       req.Shipping,
		Discount:       req.Discount,
		Total:          req.Total,
		Metadata:       req.Metadata,
	}
	for _, line := range req.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   line.ProductID,
			VariantID:   line.VariantID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Price:       line.Price,
			Total:       round2(line.Price * float64(line.Quantity)),
		})
	}

	if err := s.repo.Create(ctx, order); err != nil {
		// A collision on the random order number suffix is survivable;
		// regenerate once before giving up.
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			order.OrderNumber = generateOrderNumber()
			err = s.repo.Create(ctx, order)
		}
		if err != nil {
			s.logger.Error("Failed to create order", zap.Error(err))
			return nil, internal("Failed to create order")
		}
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", order.Total),
	)

	s.publishOrderCreated(ctx, order)
	if s.metrics != nil {
		_ = s.metrics.RecordCount(ctx, aws.MetricOrdersCreated, map[string]string{"StoreID": order.StoreID.String()})
	}

	return order, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Order not found")
		}
		s.logger.Error("Failed to fetch order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, internal("Failed to fetch order")
	}
	return order, nil
}

// AddItem appends a frozen line to an existing order. The monetary snapshot
// is not recomputed; callers adjusting totals do so through a new order.
func (s *orderServiceImpl) AddItem(ctx context.Context, orderID uuid.UUID, item *models.CreateOrderItem) (*models.Order, *ServiceError) {
	order, svcErr := s.GetOrder(ctx, orderID)
	if svcErr != nil {
		return nil, svcErr
	}

	line := &models.OrderItem{
		OrderID:     order.ID,
		ProductID:   item.ProductID,
		VariantID:   item.VariantID,
		ProductName: item.ProductName,
		Quantity:    item.Quantity,
		Price:       item.Price,
		Total:       round2(item.Price * float64(item.Quantity)),
	}
	if err := s.repo.AddItem(ctx, line); err != nil {
		s.logger.Error("Failed to add order item", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, internal("Failed to add order item")
	}

	return s.GetOrder(ctx, orderID)
}

func (s *orderServiceImpl) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, *ServiceError) {
	order, err := s.repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Order not found")
		}
		s.logger.Error("Failed to fetch order", zap.String("order_number", orderNumber), zap.Error(err))
		return nil, internal("Failed to fetch order")
	}
	return order, nil
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, storeID uuid.UUID, page, limit int) ([]models.Order, int64, *ServiceError) {
	orders, total, err := s.repo.FindByStore(ctx, storeID, page, limit)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, 0, internal("Failed to list orders")
	}
	return orders, total, nil
}

// UpdateStatus moves the main order status through the transition table.
func (s *orderServiceImpl) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, *ServiceError) {
	order, svcErr := s.GetOrder(ctx, orderID)
	if svcErr != nil {
		return nil, svcErr
	}

	if !models.CanTransitionOrderStatus(order.Status, status) {
		return nil, badRequest(fmt.Sprintf("Cannot transition order from %s to %s", order.Status, status))
	}

	updates := map[string]interface{}{"status": status}
	if status == models.OrderStatusCancelled {
		updates["cancelled_at"] = time.Now()
	}
	return s.applyStatusUpdate(ctx, orderID, updates)
}

func (s *orderServiceImpl) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, *ServiceError) {
	order, svcErr := s.GetOrder(ctx, orderID)
	if svcErr != nil {
		return nil, svcErr
	}

	if !models.CanTransitionPaymentStatus(order.PaymentStatus, status) {
		return nil, badRequest(fmt.Sprintf("Cannot transition payment status from %s to %s", order.PaymentStatus, status))
	}
	return s.applyStatusUpdate(ctx, orderID, map[string]interface{}{"payment_status": status})
}

func (s *orderServiceImpl) UpdateShippingStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, *ServiceError) {
	order, svcErr := s.GetOrder(ctx, orderID)
	if svcErr != nil {
		return nil, svcErr
	}

	if !models.CanTransitionShippingStatus(order.ShippingStatus, status) {
		return nil, badRequest(fmt.Sprintf("Cannot transition shipping status from %s to %s", order.ShippingStatus, status))
	}
	return s.applyStatusUpdate(ctx, orderID, map[string]interface{}{"shipping_status": status})
}

// MarkAsPaid records a settled payment: payment status becomes paid, the
// order advances to processing, and the winning payment row is linked. The
// two status moves happen in one update.
func (s *orderServiceImpl) MarkAsPaid(ctx context.Context, orderID uuid.UUID, paymentID *uuid.UUID) (*models.Order, *ServiceError) {
	order, svcErr := s.GetOrder(ctx, orderID)
	if svcErr != nil {
		return nil, svcErr
	}

	if !models.CanTransitionPaymentStatus(order.PaymentStatus, models.PaymentStatusPaid) {
		return nil, badRequest(fmt.Sprintf("Cannot transition payment status from %s to paid", order.PaymentStatus))
	}

	updates := map[string]interface{}{
		"payment_status": models.PaymentStatusPaid,
	}
	if models.CanTransitionOrderStatus(order.Status, models.OrderStatusProcessing) {
		updates["status"] = models.OrderStatusProcessing
	}
	if paymentID != nil {
		updates["payment_id"] = *paymentID
	}
	return s.applyStatusUpdate(ctx, orderID, updates)
}

func (s *orderServiceImpl) CancelOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, *ServiceError) {
	order, svcErr := s.UpdateStatus(ctx, orderID, models.OrderStatusCancelled)
	if svcErr != nil {
		return nil, svcErr
	}

	if s.metrics != nil {
		_ = s.metrics.RecordCount(ctx, aws.MetricOrdersCancelled, map[string]string{"StoreID": order.StoreID.String()})
	}
	return order, nil
}

func (s *orderServiceImpl) applyStatusUpdate(ctx context.Context, orderID uuid.UUID, updates map[string]interface{}) (*models.Order, *ServiceError) {
	if err := s.repo.UpdateStatusFields(ctx, orderID, updates); err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Order not found")
		}
		s.logger.Error("Failed to update order status", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, internal("Failed to update order")
	}
	return s.GetOrder(ctx, orderID)
}

func (s *orderServiceImpl) publishOrderCreated(ctx context.Context, order *models.Order) {
	if s.publisher == nil || s.topicARN == "" {
		return
	}

	event := models.OrderCreatedEvent{
		EventType:   "order.created",
		OrderID:     order.ID.String(),
		StoreID:     order.StoreID.String(),
		OrderNumber: order.OrderNumber,
		Total:       order.Total,
		Currency:    order.Currency,
		Timestamp:   time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal order event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, s.topicARN, event.EventType, payload); err != nil {
		s.logger.Error("Failed to publish order event",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}

// generateOrderNumber builds a human-readable unique order number, e.g.
// ORD-20260829-4F2A91C3.
func generateOrderNumber() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("ORD-%s-%08X", time.Now().UTC().Format("20060102"), time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), strings.ToUpper(hex.EncodeToString(buf)))
}
