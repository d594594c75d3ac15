// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danghuy/inkwell/internal/platform/database/schema"
	"github.com/danghuy/inkwell/internal/platform/respond"
)

// DashboardHandler serves the back-office landing page counters.
//
// It queries aggregates directly instead of going through the domain
// repositories; the dashboard is a read-only operational view and owns no
// business rules.
type DashboardHandler struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

// NewDashboardHandler creates the admin dashboard handler.
func NewDashboardHandler(db *pgxpool.Pool, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{db: db, log: logger}
}

// dashboardStats is the counter set rendered on the admin landing page.
type dashboardStats struct {
	Books         int64 `json:"books"`
	Accounts      int64 `json:"accounts"`
	OrdersPending int64 `json:"orders_pending"`
	OrdersPaid    int64 `json:"orders_paid"`
	Entitlements  int64 `json:"entitlements"`
}

/*
Dashboard handles GET /api/v1/admin/dashboard.

Description: Returns store-wide counters. Each counter failing individually
degrades to zero with a logged warning rather than failing the whole page.
*/
func (handler *DashboardHandler) Dashboard(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	stats := dashboardStats{}

	counters := []struct {
		name   string
		query  string
		target *int64
	}{
		{
			name: "books",
			query: fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s IS NULL",
				schema.CoreBook.Table, schema.CoreBook.DeletedAt),
			target: &stats.Books,
		},
		{
			name: "accounts",
			query: fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s IS NULL",
				schema.UserAccount.Table, schema.UserAccount.DeletedAt),
			target: &stats.Accounts,
		},
		{
			name: "orders_pending",
			query: fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = 'pending'",
				schema.SalesPurchaseOrder.Table, schema.SalesPurchaseOrder.Status),
			target: &stats.OrdersPending,
		},
		{
			name: "orders_paid",
			query: fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = 'paid'",
				schema.SalesPurchaseOrder.Table, schema.SalesPurchaseOrder.Status),
			target: &stats.OrdersPaid,
		},
		{
			name:   "entitlements",
			query:  fmt.Sprintf("SELECT COUNT(*) FROM %s", schema.SalesEntitlement.Table),
			target: &stats.Entitlements,
		},
	}

	for _, counter := range counters {
		if err := handler.db.QueryRow(ctx, counter.query).Scan(counter.target); err != nil {
			handler.log.Warn("dashboard_counter_failed",
				slog.String("counter", counter.name),
				slog.Any("error", err),
			)
		}
	}

	respond.OK(writer, stats)
}
