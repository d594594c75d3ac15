// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package entitlement

import (
	"context"
	"fmt"
	"log/slog"
)

// Checker implements the read-or-buy gate.
//
// # Contract
//
// [Checker.HasEntitlement] never returns an error to its caller: a transient
// read failure is treated as "not entitled". There are no retries — the
// shopper's next click is the retry.
type Checker struct {
	repository Repository
	log        *slog.Logger
}

// NewChecker constructs a [Checker] with its repository dependency.
func NewChecker(repository Repository, logger *slog.Logger) *Checker {
	return &Checker{repository: repository, log: logger}
}

/*
HasEntitlement reports whether the account owns the book.

Description: A single existence query; true iff at least one purchase record
matches the pair. Storage errors deny (fail-closed).

Parameters:
  - context: context.Context
  - userID: string
  - bookID: string

Returns:
  - bool: true iff read access is granted
*/
func (checker *Checker) HasEntitlement(context context.Context, userID, bookID string) bool {
	owned, err := checker.repository.Exists(context, userID, bookID)
	if err != nil {
		// Deny on uncertainty; the error never reaches the shopper.
		checker.log.Warn("entitlement_check_failed",
			slog.String("user_id", userID),
			slog.String("book_id", bookID),
			slog.Any("error", err),
		)
		return false
	}

	return owned
}

// Library returns every book the account owns.
func (checker *Checker) Library(context context.Context, userID string) ([]*Entitlement, error) {
	records, err := checker.repository.ListByUser(context, userID)
	if err != nil {
		return nil, fmt.Errorf("entitlement_library_failed: %w", err)
	}

	return records, nil
}
