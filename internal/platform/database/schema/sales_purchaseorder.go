// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package schema

// SalesPurchaseOrderTable represents the 'sales.purchase_order' table
type SalesPurchaseOrderTable struct {
	Table       string
	ID          string
	UserID      string
	BookID      string
	AmountCents string
	Currency    string
	Status      string
	ProviderRef string
	CreatedAt   string
	PaidAt      string
}

// SalesPurchaseOrder is the schema definition for sales.purchase_order
var SalesPurchaseOrder = SalesPurchaseOrderTable{
	Table:       "sales.purchase_order",
	ID:          "id",
	UserID:      "userid",
	BookID:      "bookid",
	AmountCents: "amountcents",
	Currency:    "currency",
	Status:      "status",
	ProviderRef: "providerref",
	CreatedAt:   "createdat",
	PaidAt:      "paidat",
}

// Columns returns all standard column names
func (t SalesPurchaseOrderTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.BookID, t.AmountCents, t.Currency, t.Status,
		t.ProviderRef, t.CreatedAt, t.PaidAt,
	}
}
