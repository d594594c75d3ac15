// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package entitlement

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danghuy/inkwell/internal/platform/database/schema"
	"github.com/danghuy/inkwell/internal/platform/dberr"
)

// # Entitlement Repository

// PostgresRepository implements the [Repository] interface using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the [Repository].
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
Exists reports whether a purchase record exists for the (user, book) pair.

Parameters:
  - context: context.Context
  - userID: string
  - bookID: string

Returns:
  - bool: true iff at least one row matches
  - error: connectivity or query errors
*/
func (repository *PostgresRepository) Exists(context context.Context, userID, bookID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s WHERE %s = $1 AND %s = $2
		)`,
		schema.SalesEntitlement.Table, schema.SalesEntitlement.UserID, schema.SalesEntitlement.BookID,
	)

	var exists bool
	if err := repository.db.QueryRow(context, query, userID, bookID).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_entitlement_exists_failed: %w", err)
	}

	return exists, nil
}

/*
Create appends a new entitlement record.

Description: The (userid, bookid) pair is unique; a duplicate insert maps to
a Conflict via dberr.

Parameters:
  - context: context.Context
  - record: *Entitlement

Returns:
  - error: Constraint violations or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, record *Entitlement) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)`,
		schema.SalesEntitlement.Table,
		schema.SalesEntitlement.ID, schema.SalesEntitlement.UserID,
		schema.SalesEntitlement.BookID, schema.SalesEntitlement.OrderID,
		schema.SalesEntitlement.PurchasedAt,
	)

	_, err := repository.db.Exec(context, query,
		record.ID,
		record.UserID,
		record.BookID,
		record.OrderID,
		record.PurchasedAt,
	)

	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_entitlement_create_failed: %w", err))
	}

	return nil
}

/*
ListByUser returns every entitlement for the account, newest purchase first.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []*Entitlement: Owned books
  - error: Query errors
*/
func (repository *PostgresRepository) ListByUser(context context.Context, userID string) ([]*Entitlement, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC`,
		schema.SalesEntitlement.ID, schema.SalesEntitlement.UserID,
		schema.SalesEntitlement.BookID, schema.SalesEntitlement.OrderID,
		schema.SalesEntitlement.PurchasedAt,
		schema.SalesEntitlement.Table,
		schema.SalesEntitlement.UserID,
		schema.SalesEntitlement.PurchasedAt,
	)

	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_entitlement_list_failed: %w", err)
	}
	defer rows.Close()

	records := make([]*Entitlement, 0)
	for rows.Next() {
		record := &Entitlement{}
		if err := rows.Scan(&record.ID, &record.UserID, &record.BookID, &record.OrderID, &record.PurchasedAt); err != nil {
			return nil, fmt.Errorf("postgres_entitlement_scan_failed: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_entitlement_rows_failed: %w", err)
	}

	return records, nil
}
