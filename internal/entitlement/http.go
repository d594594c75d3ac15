// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package entitlement

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danghuy/inkwell/internal/catalog"
	"github.com/danghuy/inkwell/internal/platform/apperr"
	requestutil "github.com/danghuy/inkwell/internal/platform/request"
	"github.com/danghuy/inkwell/internal/platform/respond"
	"github.com/danghuy/inkwell/internal/platform/validate"
)

// Access action verbs returned to the storefront.
const (
	ActionRead = "read"
	ActionBuy  = "buy"
)

// BookResolver fetches the title being read. Satisfied by [catalog.Service].
type BookResolver interface {
	GetBook(ctx context.Context, id string) (*catalog.Book, error)
}

// Handler exposes the entitlement endpoints over HTTP.
type Handler struct {
	checker *Checker
	books   BookResolver
}

// NewHandler creates the HTTP handler for entitlement checks.
func NewHandler(checker *Checker, books BookResolver) *Handler {
	return &Handler{checker: checker, books: books}
}

// Routes mounts the authenticated entitlement endpoints.
//
// # Endpoints
//   - GET /access/{bookID} : Read-or-buy decision for one book.
//   - GET /read/{bookID}   : The book document, owners only.
//   - GET /library         : Every book the account owns.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/access/{bookID}", handler.CheckAccess)
	router.Get("/read/{bookID}", handler.Read)
	router.Get("/library", handler.Library)

	return router
}

// accessResponse tells the storefront which action to render for a book.
type accessResponse struct {
	BookID   string `json:"book_id"`
	Entitled bool   `json:"entitled"`
	Action   string `json:"action"`
}

/*
CheckAccess handles GET /access/{bookID}.

Description: Resolves the read-or-buy decision for the signed-in shopper.
The response always succeeds for an authenticated request; uncertainty is
expressed as action "buy", never as a 5xx.
*/
func (handler *Handler) CheckAccess(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookID := requestutil.Param(request, "bookID")
	if err := validate.New().UUID(FieldBookID, bookID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entitled := handler.checker.HasEntitlement(request.Context(), userID, bookID)

	action := ActionBuy
	if entitled {
		action = ActionRead
	}

	respond.OK(writer, accessResponse{BookID: bookID, Entitled: entitled, Action: action})
}

/*
Read handles GET /read/{bookID}.

Description: Serves the book document to its owner. Ownership is enforced
here on the server, not just reflected in the storefront's buttons; the
check fails closed, so an uncertain decision reads as not owned.
*/
func (handler *Handler) Read(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookID := requestutil.Param(request, "bookID")
	if err := validate.New().UUID(FieldBookID, bookID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if !handler.checker.HasEntitlement(request.Context(), userID, bookID) {
		respond.Error(writer, request, apperr.Forbidden("Purchase required to read this book"))
		return
	}

	book, err := handler.books.GetBook(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

/*
Library handles GET /library.

Description: Lists every book the signed-in shopper owns.
*/
func (handler *Handler) Library(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	records, err := handler.checker.Library(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, records)
}
