// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

/*
Package entitlement decides whether a shopper may read a book or must buy it.

An entitlement is the record of one completed purchase of one book by one
account. Its existence is the entire signal: at least one record for the
(user, book) pair grants read access; absence permits only purchase
initiation.

# Architecture

The checker is a pure read gate. It holds no cache and no state machine of
its own, and it fails closed: a storage error denies, because granting
unpurchased content is the worse failure mode than a denial the shopper can
retry.
*/
package entitlement

import (
	"context"
	"time"
)

// # Domain Entities

// Entitlement represents one account's completed purchase of one book.
//
// Records are append-only: they are created by the checkout capture flow and
// never mutated afterwards.
type Entitlement struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	BookID      string    `json:"book_id"`
	OrderID     string    `json:"order_id"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// # Storage Contract

// Repository defines the data access contract for entitlement records.
type Repository interface {
	// Exists reports whether at least one record matches the (user, book) pair.
	Exists(ctx context.Context, userID, bookID string) (bool, error)

	// Create appends a new entitlement record.
	//
	// Returns a wrapped error if the (user, book) uniqueness constraint fails.
	Create(ctx context.Context, record *Entitlement) error

	// ListByUser returns every book the account owns, newest purchase first.
	ListByUser(ctx context.Context, userID string) ([]*Entitlement, error)
}

// # Field Identifiers

const (
	FieldBookID = "book_id"
)
