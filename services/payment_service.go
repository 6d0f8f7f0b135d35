package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sawyelin1011/mtc-platform/models"
	"github.com/sawyelin1011/mtc-platform/pkg/aws"
	"github.com/sawyelin1011/mtc-platform/repository"
)

// PaymentService is the payment engine. Every charge attempt writes its own
// row before the gateway is called, and every row reaches exactly one
// terminal state; retries create new rows.
type PaymentService interface {
	CreatePaymentMethod(ctx context.Context, req *models.CreatePaymentMethodRequest) (*models.PaymentMethod, *ServiceError)
	GetPaymentMethod(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, *ServiceError)
	ListPaymentMethods(ctx context.Context, storeID uuid.UUID) ([]models.PaymentMethod, *ServiceError)

	ProcessPayment(ctx context.Context, req *models.ProcessPaymentRequest) (*models.Payment, *ServiceError)
	GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, *ServiceError)
	ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Payment, *ServiceError)

	CreateRefund(ctx context.Context, req *models.CreateRefundRequest) (*models.Refund, *ServiceError)
	ProcessRefund(ctx context.Context, refundID uuid.UUID) (*models.Refund, *ServiceError)
	GetRefund(ctx context.Context, id uuid.UUID) (*models.Refund, *ServiceError)
	ListRefundsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Refund, *ServiceError)
}

type paymentServiceImpl struct {
	repo      repository.PaymentRepository
	orders    OrderService
	gateways  *GatewayRegistry
	publisher aws.SNSPublisher
	topicARN  string
	metrics   *aws.MetricsClient
	logger    *zap.Logger
}

// NewPaymentService creates a new PaymentService. The gateway registry is
// injected fully built; no gateways are registered after construction.
func NewPaymentService(
	repo repository.PaymentRepository,
	orders OrderService,
	gateways *GatewayRegistry,
	publisher aws.SNSPublisher,
	topicARN string,
	metrics *aws.MetricsClient,
	logger *zap.Logger,
) PaymentService {
	return &paymentServiceImpl{
		repo:      repo,
		orders:    orders,
		gateways:  gateways,
		publisher: publisher,
		topicARN:  topicARN,
		metrics:   metrics,
		logger:    logger,
	}
}

func (s *paymentServiceImpl) CreatePaymentMethod(ctx context.Context, req *models.CreatePaymentMethodRequest) (*models.PaymentMethod, *ServiceError) {
	method := &models.PaymentMethod{
		StoreID: req.StoreID,
		Type:    req.Type,
		Name:    req.Name,
		Config:  req.Config,
		Active:  true,
	}
	if err := s.repo.CreatePaymentMethod(ctx, method); err != nil {
		s.logger.Error("Failed to create payment method", zap.Error(err))
		return nil, internal("Failed to create payment method")
	}
	return method, nil
}

func (s *paymentServiceImpl) GetPaymentMethod(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, *ServiceError) {
	method, err := s.repo.FindPaymentMethodByID(ctx, id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Payment method not found")
		}
		s.logger.Error("Failed to fetch payment method", zap.Error(err))
		return nil, internal("Failed to fetch payment method")
	}
	return method, nil
}

func (s *paymentServiceImpl) ListPaymentMethods(ctx context.Context, storeID uuid.UUID) ([]models.PaymentMethod, *ServiceError) {
	methods, err := s.repo.FindPaymentMethodsByStore(ctx, storeID)
	if err != nil {
		s.logger.Error("Failed to list payment methods", zap.Error(err))
		return nil, internal("Failed to list payment methods")
	}
	return methods, nil
}

// ProcessPayment runs a single charge attempt. The pending row is persisted
// before the gateway is touched so that an attempt is never lost, then
// flipped to completed or failed exactly once. There is no retry here.
func (s *paymentServiceImpl) ProcessPayment(ctx context.Context, req *models.ProcessPaymentRequest) (*models.Payment, *ServiceError) {
	order, svcErr := s.orders.GetOrder(ctx, req.OrderID)
	if svcErr != nil {
		return nil, svcErr
	}

	method, svcErr := s.GetPaymentMethod(ctx, req.PaymentMethodID)
	if svcErr != nil {
		return nil, svcErr
	}
	if !method.Active {
		return nil, badRequest("Payment method is not active")
	}

	currency := req.Currency
	if currency == "" {
		currency = order.Currency
	}

	payment := &models.Payment{
		OrderID:         req.OrderID,
		PaymentMethodID: method.ID,
		GatewayType:     method.Type,
		Amount:          req.Amount,
		Currency:        currency,
		Status:          models.PaymentAttemptPending,
	}
	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		s.logger.Error("Failed to create payment attempt", zap.Error(err))
		return nil, internal("Failed to create payment")
	}

	gateway, err := s.gateways.Resolve(method.Type)
	if err != nil {
		s.failPayment(ctx, payment, fmt.Sprintf("no gateway registered for type %s", method.Type))
		return payment, configuration(fmt.Sprintf("Payment gateway %s is not configured", method.Type))
	}

	txnID, err := gateway.Process(ctx, GatewayChargeRequest{
		Amount:   req.Amount,
		Currency: currency,
		OrderID:  order.ID.String(),
		Metadata: req.Metadata,
	})
	if err != nil {
		s.failPayment(ctx, payment, err.Error())
		s.logger.Warn("Payment attempt failed",
			zap.String("payment_id", payment.ID.String()),
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return payment, gatewayFailure("Payment failed: " + err.Error())
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":         models.PaymentAttemptCompleted,
		"transaction_id": txnID,
		"succeeded_at":   now,
	}
	if err := s.repo.UpdatePayment(ctx, payment.ID, updates); err != nil {
		s.logger.Error("Failed to record payment success", zap.String("payment_id", payment.ID.String()), zap.Error(err))
		return nil, internal("Failed to record payment")
	}
	payment.Status = models.PaymentAttemptCompleted
	payment.TransactionID = &txnID
	payment.SucceededAt = &now

	if _, svcErr := s.orders.MarkAsPaid(ctx, order.ID, &payment.ID); svcErr != nil {
		s.logger.Error("Payment settled but order update failed",
			zap.String("payment_id", payment.ID.String()),
			zap.String("order_id", order.ID.String()),
			zap.String("error", svcErr.Message),
		)
	}

	s.logger.Info("Payment completed",
		zap.String("payment_id", payment.ID.String()),
		zap.String("order_id", order.ID.String()),
		zap.Float64("amount", payment.Amount),
	)
	s.publishPaymentEvent(ctx, payment, "payment.succeeded")
	if s.metrics != nil {
		_ = s.metrics.RecordCount(ctx, aws.MetricPaymentSucceeded, map[string]string{"Gateway": string(payment.GatewayType)})
	}

	return payment, nil
}

// failPayment flips a pending attempt row to its failed terminal state.
func (s *paymentServiceImpl) failPayment(ctx context.Context, payment *models.Payment, message string) {
	now := time.Now()
	updates := map[string]interface{}{
		"status":        models.PaymentAttemptFailed,
		"error_message": message,
		"failed_at":     now,
	}
	if err := s.repo.UpdatePayment(ctx, payment.ID, updates); err != nil {
		s.logger.Error("Failed to record payment failure", zap.String("payment_id", payment.ID.String()), zap.Error(err))
	}
	payment.Status = models.PaymentAttemptFailed
	payment.ErrorMessage = &message
	payment.FailedAt = &now

	s.publishPaymentEvent(ctx, payment, "payment.failed")
	if s.metrics != nil {
		_ = s.metrics.RecordCount(ctx, aws.MetricPaymentFailed, map[string]string{"Gateway": string(payment.GatewayType)})
	}
}

func (s *paymentServiceImpl) GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, *ServiceError) {
	payment, err := s.repo.FindPaymentByID(ctx, id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Payment not found")
		}
		s.logger.Error("Failed to fetch payment", zap.Error(err))
		return nil, internal("Failed to fetch payment")
	}
	return payment, nil
}

func (s *paymentServiceImpl) ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Payment, *ServiceError) {
	payments, err := s.repo.FindPaymentsByOrder(ctx, orderID)
	if err != nil {
		s.logger.Error("Failed to list payments", zap.Error(err))
		return nil, internal("Failed to list payments")
	}
	return payments, nil
}

// CreateRefund opens a pending refund after bounding the amount by what is
// still refundable on the payment.
func (s *paymentServiceImpl) CreateRefund(ctx context.Context, req *models.CreateRefundRequest) (*models.Refund, *ServiceError) {
	payment, svcErr := s.GetPayment(ctx, req.PaymentID)
	if svcErr != nil {
		return nil, svcErr
	}
	if payment.OrderID != req.OrderID {
		return nil, badRequest("Payment does not belong to the given order")
	}
	if payment.Status != models.PaymentAttemptCompleted {
		return nil, badRequest("Only completed payments can be refunded")
	}

	refunded, err := s.repo.SumCompletedRefunds(ctx, payment.ID)
	if err != nil {
		s.logger.Error("Failed to sum refunds", zap.Error(err))
		return nil, internal("Failed to create refund")
	}
	remaining := round2(payment.Amount - refunded)
	if req.Amount > remaining {
		return nil, badRequest(fmt.Sprintf("Refund amount %.2f exceeds refundable amount %.2f", req.Amount, remaining))
	}

	refund := &models.Refund{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Amount:    req.Amount,
		Currency:  payment.Currency,
		Status:    models.RefundStatusPending,
		Reason:    req.Reason,
	}
	if err := s.repo.CreateRefund(ctx, refund); err != nil {
		s.logger.Error("Failed to create refund", zap.Error(err))
		return nil, internal("Failed to create refund")
	}
	return refund, nil
}

// ProcessRefund executes a pending refund through the original payment's
// gateway and settles the row to completed or failed.
func (s *paymentServiceImpl) ProcessRefund(ctx context.Context, refundID uuid.UUID) (*models.Refund, *ServiceError) {
	refund, svcErr := s.GetRefund(ctx, refundID)
	if svcErr != nil {
		return nil, svcErr
	}
	if refund.Status != models.RefundStatusPending {
		return nil, badRequest("Refund has already been processed")
	}

	payment, svcErr := s.GetPayment(ctx, refund.PaymentID)
	if svcErr != nil {
		return nil, svcErr
	}
	if payment.TransactionID == nil {
		return nil, notFound("Payment has no gateway transaction to refund")
	}

	gateway, err := s.gateways.Resolve(payment.GatewayType)
	if err != nil {
		s.settleRefund(ctx, refund, models.RefundStatusFailed, nil, "no gateway registered for type "+string(payment.GatewayType))
		return refund, configuration(fmt.Sprintf("Payment gateway %s is not configured", payment.GatewayType))
	}

	txnID, err := gateway.Refund(ctx, *payment.TransactionID, refund.Amount, refund.Currency)
	if err != nil {
		s.settleRefund(ctx, refund, models.RefundStatusFailed, nil, err.Error())
		s.logger.Warn("Refund failed",
			zap.String("refund_id", refund.ID.String()),
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
		return refund, gatewayFailure("Refund failed: " + err.Error())
	}

	s.settleRefund(ctx, refund, models.RefundStatusCompleted, &txnID, "")
	s.logger.Info("Refund completed",
		zap.String("refund_id", refund.ID.String()),
		zap.Float64("amount", refund.Amount),
	)
	if s.metrics != nil {
		_ = s.metrics.RecordCount(ctx, aws.MetricRefundsProcessed, map[string]string{"Gateway": string(payment.GatewayType)})
	}

	return refund, nil
}

func (s *paymentServiceImpl) settleRefund(ctx context.Context, refund *models.Refund, status string, txnID *string, errMessage string) {
	updates := map[string]interface{}{"status": status}
	now := time.Now()
	if status == models.RefundStatusCompleted {
		updates["transaction_id"] = txnID
		updates["completed_at"] = now
		refund.TransactionID = txnID
		refund.CompletedAt = &now
	} else {
		updates["error_message"] = errMessage
		refund.ErrorMessage = &errMessage
	}
	refund.Status = status

	if err := s.repo.UpdateRefund(ctx, refund.ID, updates); err != nil {
		s.logger.Error("Failed to settle refund", zap.String("refund_id", refund.ID.String()), zap.Error(err))
	}
}

func (s *paymentServiceImpl) GetRefund(ctx context.Context, id uuid.UUID) (*models.Refund, *ServiceError) {
	refund, err := s.repo.FindRefundByID(ctx, id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Refund not found")
		}
		s.logger.Error("Failed to fetch refund", zap.Error(err))
		return nil, internal("Failed to fetch refund")
	}
	return refund, nil
}

func (s *paymentServiceImpl) ListRefundsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Refund, *ServiceError) {
	refunds, err := s.repo.FindRefundsByOrder(ctx, orderID)
	if err != nil {
		s.logger.Error("Failed to list refunds", zap.Error(err))
		return nil, internal("Failed to list refunds")
	}
	return refunds, nil
}

func (s *paymentServiceImpl) publishPaymentEvent(ctx context.Context, payment *models.Payment, eventType string) {
	if s.publisher == nil || s.topicARN == "" {
		return
	}

	event := models.PaymentEvent{
		EventType: eventType,
		OrderID:   payment.OrderID.String(),
		PaymentID: payment.ID.String(),
		Amount:    payment.Amount,
		Currency:  payment.Currency,
		Status:    payment.Status,
		Timestamp: time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal payment event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, s.topicARN, eventType, payload); err != nil {
		s.logger.Error("Failed to publish payment event",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
	}
}
