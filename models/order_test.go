package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sawyelin1011/mtc-platform/models"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.OrderStatusPending, models.OrderStatusPaid, true},
		{models.OrderStatusPending, models.OrderStatusProcessing, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusPending, models.OrderStatusDelivered, false},
		{models.OrderStatusPending, models.OrderStatusRefunded, false},
		{models.OrderStatusPaid, models.OrderStatusRefunded, true},
		{models.OrderStatusProcessing, models.OrderStatusShipped, true},
		{models.OrderStatusShipped, models.OrderStatusDelivered, true},
		{models.OrderStatusShipped, models.OrderStatusCancelled, false},
		{models.OrderStatusDelivered, models.OrderStatusRefunded, true},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
		{models.OrderStatusCancelled, models.OrderStatusPaid, false},
		{models.OrderStatusRefunded, models.OrderStatusPaid, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, models.CanTransitionOrderStatus(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestPaymentStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.PaymentStatusUnpaid, models.PaymentStatusPaid, true},
		{models.PaymentStatusUnpaid, models.PaymentStatusFailed, true},
		{models.PaymentStatusUnpaid, models.PaymentStatusRefunded, false},
		// failed attempts may be retried
		{models.PaymentStatusFailed, models.PaymentStatusPaid, true},
		{models.PaymentStatusFailed, models.PaymentStatusFailed, true},
		{models.PaymentStatusPaid, models.PaymentStatusRefunded, true},
		{models.PaymentStatusPaid, models.PaymentStatusUnpaid, false},
		{models.PaymentStatusRefunded, models.PaymentStatusPaid, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, models.CanTransitionPaymentStatus(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestShippingStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.ShippingStatusUnshipped, models.ShippingStatusShipped, true},
		{models.ShippingStatusUnshipped, models.ShippingStatusDelivered, false},
		{models.ShippingStatusUnshipped, models.ShippingStatusReturned, false},
		{models.ShippingStatusShipped, models.ShippingStatusDelivered, true},
		{models.ShippingStatusShipped, models.ShippingStatusReturned, true},
		{models.ShippingStatusDelivered, models.ShippingStatusReturned, true},
		{models.ShippingStatusReturned, models.ShippingStatusShipped, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, models.CanTransitionShippingStatus(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}
