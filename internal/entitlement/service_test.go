// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package entitlement

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeRepository struct {
	owned map[string]bool
	err   error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{owned: make(map[string]bool)}
}

func (repository *fakeRepository) key(userID, bookID string) string {
	return userID + "/" + bookID
}

func (repository *fakeRepository) Exists(_ context.Context, userID, bookID string) (bool, error) {
	if repository.err != nil {
		return false, repository.err
	}
	return repository.owned[repository.key(userID, bookID)], nil
}

func (repository *fakeRepository) Create(_ context.Context, record *Entitlement) error {
	if repository.err != nil {
		return repository.err
	}
	repository.owned[repository.key(record.UserID, record.BookID)] = true
	return nil
}

func (repository *fakeRepository) ListByUser(_ context.Context, userID string) ([]*Entitlement, error) {
	if repository.err != nil {
		return nil, repository.err
	}

	records := make([]*Entitlement, 0)
	for key := range repository.owned {
		if len(key) > len(userID) && key[:len(userID)] == userID {
			records = append(records, &Entitlement{UserID: userID, BookID: key[len(userID)+1:]})
		}
	}
	return records, nil
}

/*
TestChecker_HasEntitlement_Owned grants read access when a purchase record
exists for the pair.
*/
func TestChecker_HasEntitlement_Owned(t *testing.T) {
	repository := newFakeRepository()
	checker := NewChecker(repository, slog.Default())

	err := repository.Create(context.Background(), &Entitlement{
		UserID:      "shopper-1",
		BookID:      "book-1",
		PurchasedAt: time.Now(),
	})
	assert.NoError(t, err)

	assert.True(t, checker.HasEntitlement(context.Background(), "shopper-1", "book-1"))
}

/*
TestChecker_HasEntitlement_NotOwned denies read access when no purchase
record exists, leaving the buy path as the only option.
*/
func TestChecker_HasEntitlement_NotOwned(t *testing.T) {
	repository := newFakeRepository()
	checker := NewChecker(repository, slog.Default())

	assert.False(t, checker.HasEntitlement(context.Background(), "shopper-1", "book-1"))
}

/*
TestChecker_HasEntitlement_FailsClosed denies on a storage error even for a
pair that would otherwise be owned.
*/
func TestChecker_HasEntitlement_FailsClosed(t *testing.T) {
	repository := newFakeRepository()
	checker := NewChecker(repository, slog.Default())

	repository.owned[repository.key("shopper-1", "book-1")] = true
	repository.err = errors.New("connection refused")

	assert.False(t, checker.HasEntitlement(context.Background(), "shopper-1", "book-1"))
}

/*
TestChecker_Library returns the owned records and surfaces storage errors.
*/
func TestChecker_Library(t *testing.T) {
	repository := newFakeRepository()
	checker := NewChecker(repository, slog.Default())

	repository.owned[repository.key("shopper-1", "book-1")] = true
	repository.owned[repository.key("shopper-1", "book-2")] = true

	records, err := checker.Library(context.Background(), "shopper-1")
	assert.NoError(t, err)
	assert.Len(t, records, 2)

	repository.err = errors.New("connection refused")
	_, err = checker.Library(context.Background(), "shopper-1")
	assert.Error(t, err)
}
