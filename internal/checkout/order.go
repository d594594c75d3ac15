// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

/*
Package checkout implements the purchase flow for the storefront.

A purchase order moves through a small lifecycle: it is created pending,
then either confirmed (payment captured) or cancelled. Confirming an order
is the only code path that mints an entitlement.

# Non-goals

No payment processor is integrated here. Capture confirmation arrives
through the API from the upstream payment edge; this package only enforces
the order lifecycle and the entitlement handshake.
*/
package checkout

import (
	"context"
	"time"

	"github.com/danghuy/inkwell/pkg/pagination"
)

// # Order Lifecycle

// OrderStatus enumerates the purchase order lifecycle states.
type OrderStatus string

const (
	// StatusPending means the order was created but payment has not been captured.
	StatusPending OrderStatus = "pending"

	// StatusPaid means payment was captured and the entitlement was minted.
	StatusPaid OrderStatus = "paid"

	// StatusCancelled means the order was abandoned before capture.
	StatusCancelled OrderStatus = "cancelled"
)

// Order represents one purchase attempt for one book.
type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	BookID      string      `json:"book_id"`
	AmountCents int64       `json:"amount_cents"`
	Currency    string      `json:"currency"`
	Status      OrderStatus `json:"status"`
	ProviderRef string      `json:"provider_ref,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	PaidAt      *time.Time  `json:"paid_at,omitempty"`
}

// Filter holds the parameters for an admin order search.
type Filter struct {
	Status OrderStatus // Empty matches every status
}

// # Storage Contract

// Repository defines the data access contract for purchase orders.
type Repository interface {
	// Create persists a new pending order.
	Create(ctx context.Context, order *Order) error

	// FindByID returns the order with the given ID.
	FindByID(ctx context.Context, id string) (*Order, error)

	// MarkPaid transitions a pending order to paid, recording the upstream
	// payment reference.
	//
	// Returns apperr.Conflict when the order is not pending, so capture
	// confirmations are idempotent-safe at the storage level.
	MarkPaid(ctx context.Context, id string, paidAt time.Time, providerRef string) error

	// MarkCancelled transitions a pending order to cancelled.
	MarkCancelled(ctx context.Context, id string) error

	// ListByUser returns the account's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Order, error)

	// List returns a filtered, paginated view of all orders for the back office.
	List(ctx context.Context, f Filter, params pagination.Params) ([]*Order, int, error)
}

// # Field Identifiers

const (
	FieldBookID  = "book_id"
	FieldOrderID = "order_id"
	FieldStatus  = "status"
)
