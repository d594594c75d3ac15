// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danghuy/inkwell/internal/catalog"
	"github.com/danghuy/inkwell/internal/entitlement"
	"github.com/danghuy/inkwell/internal/platform/apperr"
	"github.com/danghuy/inkwell/internal/platform/validate"
	"github.com/danghuy/inkwell/pkg/pagination"
	"github.com/danghuy/inkwell/pkg/uuidv7"
)

// # Collaborator Contracts

// BookSource resolves the book being purchased. Satisfied by [catalog.Service].
type BookSource interface {
	GetBook(ctx context.Context, id string) (*catalog.Book, error)
}

// EntitlementLedger records ownership. Satisfied by [entitlement.PostgresRepository].
type EntitlementLedger interface {
	Exists(ctx context.Context, userID string, bookID string) (bool, error)
	Create(ctx context.Context, record *entitlement.Entitlement) error
}

// # Definitions & Constructors

// Service coordinates the purchase order lifecycle.
type Service struct {
	orders       Repository
	books        BookSource
	entitlements EntitlementLedger
	log          *slog.Logger
}

// NewService constructs a new checkout [Service].
func NewService(
	orders Repository,
	books BookSource,
	entitlements EntitlementLedger,
	logger *slog.Logger,
) *Service {
	return &Service{
		orders:       orders,
		books:        books,
		entitlements: entitlements,
		log:          logger,
	}
}

// # Operations

/*
CreateOrder opens a pending purchase order for a book.

Description: Snapshots the book price onto the order so later price changes
do not affect in-flight purchases. An account that already owns the book
cannot open an order for it.

Parameters:
  - ctx: context.Context
  - userID: string
  - bookID: string

Returns:
  - *Order: The pending order
  - error: apperr.NotFound, apperr.Conflict, or repository errors
*/
func (service *Service) CreateOrder(ctx context.Context, userID string, bookID string) (*Order, error) {

	// ── 1. Validate input ──────────────────────────────────────────────
	validator := &validate.Validator{}
	validator.Required(FieldBookID, bookID).UUID(FieldBookID, bookID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 2. Resolve the book and its current price ──────────────────────
	book, err := service.books.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	// ── 3. Reject double purchases ─────────────────────────────────────
	owned, err := service.entitlements.Exists(ctx, userID, bookID)
	if err != nil {
		return nil, fmt.Errorf("checkout_entitlement_lookup_failed: %w", err)
	}
	if owned {
		return nil, apperr.Conflict("Book is already in your library")
	}

	// ── 4. Persist the pending order ───────────────────────────────────
	order := &Order{
		ID:          uuidv7.New(),
		UserID:      userID,
		BookID:      book.ID,
		AmountCents: book.PriceCents,
		Currency:    book.Currency,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	if err := service.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("checkout_order_create_failed: %w", err)
	}

	service.log.Info("checkout_order_created",
		slog.String("order_id", order.ID),
		slog.String("book_id", order.BookID),
		slog.Int64("amount_cents", order.AmountCents),
	)

	return order, nil
}

/*
ConfirmPayment marks a pending order as paid and mints the entitlement.

Description: This is the only code path that creates an entitlement row.
The order must belong to the calling account and still be pending. A
duplicate entitlement (won by a concurrent confirmation) is tolerated so
the endpoint stays replay-safe. The provider reference is the upstream
payment edge's capture identifier, stored for reconciliation.

Parameters:
  - ctx: context.Context
  - userID: string
  - orderID: string
  - providerRef: string

Returns:
  - *Order: The paid order
  - error: apperr.NotFound, apperr.Conflict, or repository errors
*/
func (service *Service) ConfirmPayment(ctx context.Context, userID string, orderID string, providerRef string) (*Order, error) {

	// ── 1. Load and authorize the order ────────────────────────────────
	order, err := service.loadOwnOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	// ── 2. Enforce the lifecycle ───────────────────────────────────────
	if order.Status != StatusPending {
		return nil, apperr.Conflict("Order is not awaiting payment")
	}

	// ── 3. Transition to paid ──────────────────────────────────────────
	paidAt := time.Now().UTC()
	if err := service.orders.MarkPaid(ctx, order.ID, paidAt, providerRef); err != nil {
		return nil, fmt.Errorf("checkout_mark_paid_failed: %w", err)
	}

	order.Status = StatusPaid
	order.ProviderRef = providerRef
	order.PaidAt = &paidAt

	// ── 4. Mint the entitlement ────────────────────────────────────────
	record := &entitlement.Entitlement{
		ID:          uuidv7.New(),
		UserID:      order.UserID,
		BookID:      order.BookID,
		OrderID:     order.ID,
		PurchasedAt: paidAt,
	}

	if err := service.entitlements.Create(ctx, record); err != nil {
		// A conflict means a concurrent confirmation already minted it
		if ae := apperr.As(err); ae != nil && ae.HTTPStatus == http.StatusConflict {
			service.log.Warn("checkout_entitlement_already_minted",
				slog.String("order_id", order.ID),
			)
			return order, nil
		}
		return nil, fmt.Errorf("checkout_entitlement_create_failed: %w", err)
	}

	service.log.Info("checkout_payment_confirmed",
		slog.String("order_id", order.ID),
		slog.String("book_id", order.BookID),
	)

	return order, nil
}

/*
CancelOrder abandons a pending order.

Parameters:
  - ctx: context.Context
  - userID: string
  - orderID: string

Returns:
  - error: apperr.NotFound, apperr.Conflict, or repository errors
*/
func (service *Service) CancelOrder(ctx context.Context, userID string, orderID string) error {

	order, err := service.loadOwnOrder(ctx, userID, orderID)
	if err != nil {
		return err
	}

	if order.Status != StatusPending {
		return apperr.Conflict("Only pending orders can be cancelled")
	}

	if err := service.orders.MarkCancelled(ctx, order.ID); err != nil {
		return fmt.Errorf("checkout_mark_cancelled_failed: %w", err)
	}

	service.log.Info("checkout_order_cancelled", slog.String("order_id", order.ID))
	return nil
}

/*
ListOrders returns the account's purchase history, newest first.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - []*Order: The account's orders
  - error: Repository errors
*/
func (service *Service) ListOrders(ctx context.Context, userID string) ([]*Order, error) {
	orders, err := service.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("checkout_order_list_failed: %w", err)
	}
	return orders, nil
}

/*
ListAll returns a filtered, paginated view of every order for the back office.

Parameters:
  - ctx: context.Context
  - f: Filter
  - params: pagination.Params

Returns:
  - []*Order: One page of orders
  - int: Total matching orders
  - error: Validation or repository errors
*/
func (service *Service) ListAll(ctx context.Context, f Filter, params pagination.Params) ([]*Order, int, error) {

	if f.Status != "" {
		switch f.Status {
		case StatusPending, StatusPaid, StatusCancelled:
		default:
			return nil, 0, apperr.ValidationError("Unknown order status")
		}
	}

	orders, total, err := service.orders.List(ctx, f, params)
	if err != nil {
		return nil, 0, fmt.Errorf("checkout_order_list_all_failed: %w", err)
	}
	return orders, total, nil
}

// loadOwnOrder fetches an order and hides other accounts' orders behind NotFound.
func (service *Service) loadOwnOrder(ctx context.Context, userID string, orderID string) (*Order, error) {
	validator := &validate.Validator{}
	validator.Required(FieldOrderID, orderID).UUID(FieldOrderID, orderID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	order, err := service.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != userID {
		return nil, apperr.NotFound("Order")
	}

	return order, nil
}
