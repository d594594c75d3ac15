// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

// Package catalog serves the public, read-only view of the book inventory.
//
// Titles are seeded out of band; the API exposes browsing, search, and
// single-title lookup only.
package catalog

import "time"

// Book represents one sellable title in the storefront.
type Book struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description"`
	PriceCents  int64      `json:"price_cents"`
	Currency    string     `json:"currency"`
	Genres      []string   `json:"genres"`
	CoverURL    string     `json:"cover_url"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"` // soft-delete tracker
}

// Filter holds the parameters for a paginated catalog search.
type Filter struct {
	Query  string   // Full-text search against title and author
	Genres []string // Matches books carrying every listed genre
}

// Global field names for validation
const (
	FieldSlug   = "slug"
	FieldBookID = "book_id"
)
