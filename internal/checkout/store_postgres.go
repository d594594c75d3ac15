// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package checkout

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danghuy/inkwell/internal/platform/apperr"
	"github.com/danghuy/inkwell/internal/platform/database/schema"
	"github.com/danghuy/inkwell/internal/platform/dberr"
	"github.com/danghuy/inkwell/pkg/pagination"
)

// # Order Repository

// PostgresRepository implements the [Repository] interface using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the [Repository].
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// orderColumns returns the SELECT column list in scan order.
func orderColumns() string {
	t := schema.SalesPurchaseOrder
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.UserID, t.BookID, t.AmountCents, t.Currency, t.Status,
		t.ProviderRef, t.CreatedAt, t.PaidAt,
	)
}

// scanOrder maps one row onto an [Order].
func scanOrder(row pgx.Row) (*Order, error) {
	order := &Order{}
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.BookID,
		&order.AmountCents,
		&order.Currency,
		&order.Status,
		&order.ProviderRef,
		&order.CreatedAt,
		&order.PaidAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

/*
Create persists a new pending order.

Parameters:
  - context: context.Context
  - order: *Order

Returns:
  - error: Constraint violations or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, order *Order) error {
	t := schema.SalesPurchaseOrder
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.Table,
		t.ID, t.UserID, t.BookID, t.AmountCents, t.Currency, t.Status, t.CreatedAt,
	)

	_, err := repository.db.Exec(context, query,
		order.ID,
		order.UserID,
		order.BookID,
		order.AmountCents,
		order.Currency,
		order.Status,
		order.CreatedAt,
	)

	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_order_create_failed: %w", err))
	}

	return nil
}

/*
FindByID returns the order with the given ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Order: The order
  - error: dberr.ErrNotFound or query errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Order, error) {
	t := schema.SalesPurchaseOrder
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, orderColumns(), t.Table, t.ID)

	order, err := scanOrder(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_order_find_failed: %w", err))
	}

	return order, nil
}

/*
MarkPaid transitions a pending order to paid.

Description: The UPDATE is guarded on the pending status, so a confirmation
that loses a race maps to a Conflict instead of silently double-applying.

Parameters:
  - context: context.Context
  - id: string
  - paidAt: time.Time
  - providerRef: string

Returns:
  - error: apperr.Conflict or execution errors
*/
func (repository *PostgresRepository) MarkPaid(context context.Context, id string, paidAt time.Time, providerRef string) error {
	t := schema.SalesPurchaseOrder
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = $3
		WHERE %s = $4 AND %s = $5`,
		t.Table, t.Status, t.PaidAt, t.ProviderRef, t.ID, t.Status,
	)

	tag, err := repository.db.Exec(context, query, StatusPaid, paidAt, providerRef, id, StatusPending)
	if err != nil {
		return fmt.Errorf("postgres_order_mark_paid_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.Conflict("Order is not awaiting payment")
	}

	return nil
}

/*
MarkCancelled transitions a pending order to cancelled.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.Conflict or execution errors
*/
func (repository *PostgresRepository) MarkCancelled(context context.Context, id string) error {
	t := schema.SalesPurchaseOrder
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1
		WHERE %s = $2 AND %s = $3`,
		t.Table, t.Status, t.ID, t.Status,
	)

	tag, err := repository.db.Exec(context, query, StatusCancelled, id, StatusPending)
	if err != nil {
		return fmt.Errorf("postgres_order_mark_cancelled_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.Conflict("Only pending orders can be cancelled")
	}

	return nil
}

/*
ListByUser returns the account's orders, newest first.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []*Order: The account's orders
  - error: Query errors
*/
func (repository *PostgresRepository) ListByUser(context context.Context, userID string) ([]*Order, error) {
	t := schema.SalesPurchaseOrder
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1
		ORDER BY %s DESC`,
		orderColumns(), t.Table, t.UserID, t.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_order_list_failed: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

/*
List returns a filtered, paginated view of all orders for the back office.

Parameters:
  - context: context.Context
  - f: Filter
  - params: pagination.Params

Returns:
  - []*Order: One page of orders
  - int: Total matching orders
  - error: Query errors
*/
func (repository *PostgresRepository) List(context context.Context, f Filter, params pagination.Params) ([]*Order, int, error) {
	t := schema.SalesPurchaseOrder

	where := ""
	args := []any{}
	if f.Status != "" {
		args = append(args, f.Status)
		where = fmt.Sprintf("WHERE %s = $1", t.Status)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, t.Table, where)

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_order_count_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s %s
		ORDER BY %s DESC
		LIMIT %s OFFSET %s`,
		orderColumns(), t.Table, where, t.CreatedAt,
		strconv.Itoa(params.Limit), strconv.Itoa(params.Offset()),
	)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_order_list_all_failed: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// collectOrders drains the result set into a slice.
func collectOrders(rows pgx.Rows) ([]*Order, error) {
	orders := make([]*Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_order_scan_failed: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_order_rows_failed: %w", err)
	}

	return orders, nil
}
