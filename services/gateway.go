package services

import (
	"context"
	"fmt"

	"github.com/sawyelin1011/mtc-platform/models"
)

// GatewayChargeRequest carries everything a gateway needs for one charge.
type GatewayChargeRequest struct {
	Amount   float64
	Currency string
	OrderID  string
	Metadata map[string]interface{}
}

// PaymentGateway is the abstract capability every payment processor exposes.
// Both methods may fail with a gateway-specific error; callers treat any
// failure as opaque and surface it unchanged.
type PaymentGateway interface {
	Process(ctx context.Context, req GatewayChargeRequest) (transactionID string, err error)
	Refund(ctx context.Context, transactionID string, amount float64, currency string) (refundTransactionID string, err error)
}

// GatewayRegistry holds the gateway implementations available to the payment
// engine. It is built once at startup and injected at construction time, then
// treated as read-only configuration; lookups need no locking.
type GatewayRegistry struct {
	gateways map[models.GatewayType]PaymentGateway
}

// NewGatewayRegistry creates an empty registry.
func NewGatewayRegistry() *GatewayRegistry {
	return &GatewayRegistry{gateways: make(map[models.GatewayType]PaymentGateway)}
}

// Register binds a gateway implementation to its declared type. Call during
// startup only; the registry is not safe for concurrent mutation.
func (r *GatewayRegistry) Register(gatewayType models.GatewayType, gateway PaymentGateway) {
	r.gateways[gatewayType] = gateway
}

// Resolve returns the gateway registered for the given type.
func (r *GatewayRegistry) Resolve(gatewayType models.GatewayType) (PaymentGateway, error) {
	gateway, ok := r.gateways[gatewayType]
	if !ok {
		return nil, fmt.Errorf("no gateway registered for type %q", gatewayType)
	}
	return gateway, nil
}
