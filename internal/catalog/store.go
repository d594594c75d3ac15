// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package catalog

import "context"

type Repository interface {
	ListBooks(context context.Context, f Filter, limit, offset int) ([]*Book, int, error)
	GetBookBySlug(context context.Context, slug string) (*Book, error)
	GetBook(context context.Context, id string) (*Book, error)
}
