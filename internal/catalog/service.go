// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package catalog

import (
	"context"
	"log/slog"

	"github.com/danghuy/inkwell/internal/platform/validate"
	"github.com/danghuy/inkwell/pkg/slug"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListBooks(context context.Context, filter Filter, limit, offset int) ([]*Book, int, error) {
	return service.repo.ListBooks(context, filter, limit, offset)
}

// GetBookBySlug looks up a title by its URL slug.
//
// The raw path segment is canonicalized first, so "The Left Hand of Darkness"
// and "the-left-hand-of-darkness" resolve to the same row.
func (service *Service) GetBookBySlug(context context.Context, rawSlug string) (*Book, error) {
	canonical := slug.From(rawSlug)

	if err := validate.New().Required(FieldSlug, canonical).Slug(FieldSlug, canonical).Err(); err != nil {
		return nil, err
	}

	return service.repo.GetBookBySlug(context, canonical)
}

func (service *Service) GetBook(context context.Context, id string) (*Book, error) {
	if err := validate.New().UUID(FieldBookID, id).Err(); err != nil {
		return nil, err
	}

	return service.repo.GetBook(context, id)
}
