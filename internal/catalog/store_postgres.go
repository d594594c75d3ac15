// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package catalog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danghuy/inkwell/internal/platform/database/schema"
	"github.com/danghuy/inkwell/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// bookColumns is the SELECT list shared by every catalog query.
func bookColumns() string {
	t := schema.CoreBook
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.Title, t.Author, t.Slug, t.Description, t.PriceCents,
		t.Currency, t.Genres, t.CoverURL, t.PublishedAt, t.CreatedAt, t.UpdatedAt,
	)
}

func scanBook(row interface{ Scan(...any) error }) (*Book, error) {
	book := &Book{}
	err := row.Scan(
		&book.ID, &book.Title, &book.Author, &book.Slug, &book.Description,
		&book.PriceCents, &book.Currency, &book.Genres, &book.CoverURL,
		&book.PublishedAt, &book.CreatedAt, &book.UpdatedAt,
	)
	return book, err
}

func (repository *PostgresRepository) ListBooks(context context.Context, f Filter, limit, offset int) ([]*Book, int, error) {
	t := schema.CoreBook

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s IS NULL`, bookColumns(), t.Table, t.DeletedAt)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s IS NULL`, t.Table, t.DeletedAt)

	args := []any{}
	countArgs := []any{}

	if f.Query != "" {
		searchTerm := "%" + f.Query + "%"
		clause := fmt.Sprintf(` AND (%s ILIKE $%d OR %s ILIKE $%d)`, t.Title, len(args)+1, t.Author, len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, searchTerm)
		countArgs = append(countArgs, searchTerm)
	}

	if len(f.Genres) > 0 {
		clause := fmt.Sprintf(` AND %s @> $%d`, t.Genres, len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, f.Genres)
		countArgs = append(countArgs, f.Genres)
	}

	query += fmt.Sprintf(" ORDER BY %s ASC LIMIT $", t.Title) + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	var total int
	if err := repository.db.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("postgres_book_count_failed: %w", err))
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("postgres_book_list_failed: %w", err))
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(fmt.Errorf("postgres_book_scan_failed: %w", err))
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("postgres_book_rows_failed: %w", err))
	}

	return books, total, nil
}

func (repository *PostgresRepository) GetBookBySlug(context context.Context, bookSlug string) (*Book, error) {
	t := schema.CoreBook
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL`,
		bookColumns(), t.Table, t.Slug, t.DeletedAt,
	)

	book, err := scanBook(repository.db.QueryRow(context, query, bookSlug))
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_book_get_by_slug_failed: %w", err))
	}

	return book, nil
}

func (repository *PostgresRepository) GetBook(context context.Context, id string) (*Book, error) {
	t := schema.CoreBook
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL`,
		bookColumns(), t.Table, t.ID, t.DeletedAt,
	)

	book, err := scanBook(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_book_get_failed: %w", err))
	}

	return book, nil
}
