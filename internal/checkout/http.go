// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package checkout

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/danghuy/inkwell/internal/platform/request"
	"github.com/danghuy/inkwell/internal/platform/respond"
	"github.com/danghuy/inkwell/internal/platform/validate"
	"github.com/danghuy/inkwell/pkg/pagination"
)

// Handler exposes the checkout endpoints over HTTP.
type Handler struct {
	checkoutService *Service
}

// NewHandler creates the HTTP handler for the purchase flow.
func NewHandler(service *Service) *Handler {
	return &Handler{checkoutService: service}
}

// Routes mounts the authenticated storefront checkout endpoints.
//
// # Endpoints
//   - POST /          : Opens a pending order for a book.
//   - GET  /          : Lists the account's orders.
//   - POST /{id}/pay  : Confirms payment capture.
//   - POST /{id}/cancel : Abandons a pending order.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.create)
	router.Get("/", handler.list)
	router.Post("/{orderID}/pay", handler.pay)
	router.Post("/{orderID}/cancel", handler.cancel)

	return router
}

// AdminRoutes mounts the back-office order views.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listAll)

	return router
}

type createOrderRequest struct {
	BookID string `json:"book_id"`
}

type payOrderRequest struct {
	ProviderRef string `json:"provider_ref"`
}

/*
Create opens a pending purchase order.

POST /api/v1/orders

Response:
  - 201: Order: The pending order
  - 404: ErrNotFound: Unknown book
  - 409: ErrConflict: Book already owned
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createOrderRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	order, err := handler.checkoutService.CreateOrder(request.Context(), userID, input.BookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, order)
}

/*
Pay confirms payment capture for a pending order.

POST /api/v1/orders/{orderID}/pay

Response:
  - 200: Order: The paid order
  - 404: ErrNotFound: Unknown order or not yours
  - 409: ErrConflict: Order already settled
*/
func (handler *Handler) pay(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The capture reference is optional; an absent body confirms without one.
	var input payOrderRequest
	_ = requestutil.DecodeJSON(request, &input)

	order, err := handler.checkoutService.ConfirmPayment(
		request.Context(),
		userID,
		requestutil.Param(request, "orderID"),
		input.ProviderRef,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, order)
}

/*
Cancel abandons a pending order.

POST /api/v1/orders/{orderID}/cancel

Response:
  - 204: No Content: Order cancelled
  - 404: ErrNotFound: Unknown order or not yours
  - 409: ErrConflict: Order already settled
*/
func (handler *Handler) cancel(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.checkoutService.CancelOrder(
		request.Context(),
		userID,
		requestutil.Param(request, "orderID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
List returns the account's purchase history.

GET /api/v1/orders
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	orders, err := handler.checkoutService.ListOrders(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, orders)
}

/*
ListAll returns a filtered, paginated view of all orders for the back office.

GET /api/v1/admin/orders?status=paid&page=1&limit=20
*/
func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{Status: OrderStatus(request.URL.Query().Get(FieldStatus))}

	orders, total, err := handler.checkoutService.ListAll(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, orders, pagination.NewMeta(params.Page, params.Limit, total))
}
