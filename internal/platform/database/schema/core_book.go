// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

// Package schema centralizes table and column identifiers for all SQL built
// in the storage layer.
//
// Queries reference these values instead of string literals, so a column
// rename is a one-file change.
package schema

// CoreBookTable represents the 'core.book' table
type CoreBookTable struct {
	Table        string
	ID           string
	Title        string
	Author       string
	Slug         string
	Description  string
	PriceCents   string
	Currency     string
	Genres       string
	CoverURL     string
	PublishedAt  string
	CreatedAt    string
	UpdatedAt    string
	DeletedAt    string
	SearchVector string
}

// CoreBook is the schema definition for core.book
var CoreBook = CoreBookTable{
	Table:        "core.book",
	ID:           "id",
	Title:        "title",
	Author:       "author",
	Slug:         "slug",
	Description:  "description",
	PriceCents:   "pricecents",
	Currency:     "currency",
	Genres:       "genres",
	CoverURL:     "coverurl",
	PublishedAt:  "publishedat",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
	DeletedAt:    "deletedat",
	SearchVector: "searchvector",
}

// Columns returns all standard column names
func (t CoreBookTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Author, t.Slug, t.Description, t.PriceCents,
		t.Currency, t.Genres, t.CoverURL, t.PublishedAt, t.CreatedAt,
		t.UpdatedAt, t.DeletedAt, t.SearchVector,
	}
}
