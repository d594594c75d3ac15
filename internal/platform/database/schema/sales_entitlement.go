// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package schema

// SalesEntitlementTable represents the 'sales.entitlement' table
type SalesEntitlementTable struct {
	Table       string
	ID          string
	UserID      string
	BookID      string
	OrderID     string
	PurchasedAt string
}

// SalesEntitlement is the schema definition for sales.entitlement
var SalesEntitlement = SalesEntitlementTable{
	Table:       "sales.entitlement",
	ID:          "id",
	UserID:      "userid",
	BookID:      "bookid",
	OrderID:     "orderid",
	PurchasedAt: "purchasedat",
}

// Columns returns all standard column names
func (t SalesEntitlementTable) Columns() []string {
	return []string{t.ID, t.UserID, t.BookID, t.OrderID, t.PurchasedAt}
}
