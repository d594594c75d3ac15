// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package checkout

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danghuy/inkwell/internal/catalog"
	"github.com/danghuy/inkwell/internal/entitlement"
	"github.com/danghuy/inkwell/internal/platform/apperr"
	"github.com/danghuy/inkwell/pkg/pagination"
)

// # Fakes

type fakeOrderRepository struct {
	byID map[string]*Order
}

func newFakeOrderRepository() *fakeOrderRepository {
	return &fakeOrderRepository{byID: make(map[string]*Order)}
}

func (f *fakeOrderRepository) Create(_ context.Context, order *Order) error {
	clone := *order
	f.byID[order.ID] = &clone
	return nil
}

func (f *fakeOrderRepository) FindByID(_ context.Context, id string) (*Order, error) {
	order, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("Order")
	}
	clone := *order
	return &clone, nil
}

func (f *fakeOrderRepository) MarkPaid(_ context.Context, id string, paidAt time.Time, providerRef string) error {
	order, ok := f.byID[id]
	if !ok || order.Status != StatusPending {
		return apperr.Conflict("Order is not awaiting payment")
	}
	order.Status = StatusPaid
	order.ProviderRef = providerRef
	order.PaidAt = &paidAt
	return nil
}

func (f *fakeOrderRepository) MarkCancelled(_ context.Context, id string) error {
	order, ok := f.byID[id]
	if !ok || order.Status != StatusPending {
		return apperr.Conflict("Only pending orders can be cancelled")
	}
	order.Status = StatusCancelled
	return nil
}

func (f *fakeOrderRepository) ListByUser(_ context.Context, userID string) ([]*Order, error) {
	orders := make([]*Order, 0)
	for _, order := range f.byID {
		if order.UserID == userID {
			clone := *order
			orders = append(orders, &clone)
		}
	}
	return orders, nil
}

func (f *fakeOrderRepository) List(_ context.Context, filter Filter, _ pagination.Params) ([]*Order, int, error) {
	orders := make([]*Order, 0)
	for _, order := range f.byID {
		if filter.Status == "" || order.Status == filter.Status {
			clone := *order
			orders = append(orders, &clone)
		}
	}
	return orders, len(orders), nil
}

type fakeBookSource struct {
	byID map[string]*catalog.Book
}

func (f *fakeBookSource) GetBook(_ context.Context, id string) (*catalog.Book, error) {
	book, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("Book")
	}
	return book, nil
}

type fakeLedger struct {
	owned   map[string]bool
	created []*entitlement.Entitlement
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{owned: make(map[string]bool)}
}

func (f *fakeLedger) Exists(_ context.Context, userID, bookID string) (bool, error) {
	return f.owned[userID+"/"+bookID], nil
}

func (f *fakeLedger) Create(_ context.Context, record *entitlement.Entitlement) error {
	key := record.UserID + "/" + record.BookID
	if f.owned[key] {
		return apperr.Conflict("Resource already exists")
	}
	f.owned[key] = true
	f.created = append(f.created, record)
	return nil
}

// # Fixtures

const (
	testUserID = "0198f2c0-0000-7000-8000-000000000001"
	testBookID = "0198f2c0-0000-7000-8000-0000000000b1"
)

func newCheckoutFixture() (*Service, *fakeOrderRepository, *fakeLedger) {
	orders := newFakeOrderRepository()
	ledger := newFakeLedger()
	books := &fakeBookSource{byID: map[string]*catalog.Book{
		testBookID: {
			ID:         testBookID,
			Title:      "The Dispossessed",
			PriceCents: 1299,
			Currency:   "USD",
		},
	}}

	service := NewService(orders, books, ledger, slog.Default())
	return service, orders, ledger
}

// # Tests

/*
TestService_CreateOrder_SnapshotsPrice copies the book price onto the order
at creation time.
*/
func TestService_CreateOrder_SnapshotsPrice(t *testing.T) {
	service, orders, _ := newCheckoutFixture()

	order, err := service.CreateOrder(context.Background(), testUserID, testBookID)

	require.NoError(t, err)
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, int64(1299), order.AmountCents)
	assert.Equal(t, "USD", order.Currency)
	assert.Contains(t, orders.byID, order.ID)
}

/*
TestService_CreateOrder_Rejections covers unknown books and double purchases.
*/
func TestService_CreateOrder_Rejections(t *testing.T) {
	service, _, ledger := newCheckoutFixture()
	ledger.owned[testUserID+"/"+testBookID] = true

	testCases := []struct {
		name       string
		bookID     string
		wantStatus int
	}{
		{
			name:       "already_owned",
			bookID:     testBookID,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "unknown_book",
			bookID:     "0198f2c0-0000-7000-8000-0000000000ff",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "malformed_book_id",
			bookID:     "not-a-uuid",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.CreateOrder(context.Background(), testUserID, testCase.bookID)

			require.Error(t, err)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, testCase.wantStatus, appError.HTTPStatus)
		})
	}
}

/*
TestService_ConfirmPayment_MintsEntitlement transitions the order to paid and
records ownership linked back to the order.
*/
func TestService_ConfirmPayment_MintsEntitlement(t *testing.T) {
	service, _, ledger := newCheckoutFixture()

	order, err := service.CreateOrder(context.Background(), testUserID, testBookID)
	require.NoError(t, err)

	paid, err := service.ConfirmPayment(context.Background(), testUserID, order.ID, "cap_8847")

	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paid.Status)
	assert.Equal(t, "cap_8847", paid.ProviderRef)
	require.NotNil(t, paid.PaidAt)

	require.Len(t, ledger.created, 1)
	assert.Equal(t, order.ID, ledger.created[0].OrderID)
	assert.Equal(t, testBookID, ledger.created[0].BookID)
}

/*
TestService_ConfirmPayment_SettledOrderConflicts rejects a second confirmation
of the same order.
*/
func TestService_ConfirmPayment_SettledOrderConflicts(t *testing.T) {
	service, _, _ := newCheckoutFixture()

	order, err := service.CreateOrder(context.Background(), testUserID, testBookID)
	require.NoError(t, err)

	_, err = service.ConfirmPayment(context.Background(), testUserID, order.ID, "cap_0001")
	require.NoError(t, err)

	_, err = service.ConfirmPayment(context.Background(), testUserID, order.ID, "cap_0002")

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusConflict, appError.HTTPStatus)
}

/*
TestService_ConfirmPayment_HidesForeignOrders maps another account's order to
NotFound rather than Forbidden, so order IDs cannot be probed.
*/
func TestService_ConfirmPayment_HidesForeignOrders(t *testing.T) {
	service, _, _ := newCheckoutFixture()

	order, err := service.CreateOrder(context.Background(), testUserID, testBookID)
	require.NoError(t, err)

	_, err = service.ConfirmPayment(context.Background(), "0198f2c0-0000-7000-8000-000000000002", order.ID, "")

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
}

/*
TestService_CancelOrder abandons a pending order and blocks cancellation of a
settled one.
*/
func TestService_CancelOrder(t *testing.T) {
	service, orders, _ := newCheckoutFixture()

	order, err := service.CreateOrder(context.Background(), testUserID, testBookID)
	require.NoError(t, err)

	require.NoError(t, service.CancelOrder(context.Background(), testUserID, order.ID))
	assert.Equal(t, StatusCancelled, orders.byID[order.ID].Status)

	err = service.CancelOrder(context.Background(), testUserID, order.ID)
	require.Error(t, err)
}

/*
TestService_ListAll_RejectsUnknownStatus validates the back-office filter.
*/
func TestService_ListAll_RejectsUnknownStatus(t *testing.T) {
	service, _, _ := newCheckoutFixture()

	_, _, err := service.ListAll(context.Background(), Filter{Status: "shipped"}, pagination.Params{Page: 1, Limit: 20})

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
}
