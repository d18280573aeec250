package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/estore/internal/domain"
)

const productColumns = `id, name, currency, price, created_at, updated_at, deleted_at`

type productRepository struct {
	store *Store
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{store: store}
}

func (r *productRepository) Get(ctx context.Context, tx domain.Tx, id uint64) (*domain.Product, error) {
	ex, err := r.store.executor(tx)
	if err != nil {
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	row := ex.QueryRowContext(opCtx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
	`, int64(id))

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select product: %w", err)
	}
	return product, nil
}

func (r *productRepository) Create(ctx context.Context, tx domain.Tx, req domain.CreateProductRequest, id uint64, now time.Time) (*domain.Product, error) {
	ex, err := r.store.executor(tx)
	if err != nil {
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	row := ex.QueryRowContext(opCtx, `
		INSERT INTO products (id, name, currency, price, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+productColumns+`
	`, int64(id), req.Name, int16(req.Currency), req.Price, now)

	product, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return product, nil
}

func (r *productRepository) Update(ctx context.Context, tx domain.Tx, req domain.UpdateProductRequest, now time.Time) (bool, error) {
	if req.Empty() {
		return false, nil
	}

	ex, err := r.store.executor(tx)
	if err != nil {
		return false, err
	}

	set := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if req.Name != nil {
		args = append(args, *req.Name)
		set = append(set, fmt.Sprintf("name = $%d", len(args)))
	}
	if req.Currency != nil {
		args = append(args, int16(*req.Currency))
		set = append(set, fmt.Sprintf("currency = $%d", len(args)))
	}
	if req.Price != nil {
		args = append(args, *req.Price)
		set = append(set, fmt.Sprintf("price = $%d", len(args)))
	}
	args = append(args, now)
	set = append(set, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, int64(req.ID))

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := ex.ExecContext(opCtx,
		fmt.Sprintf("UPDATE products SET %s WHERE id = $%d", strings.Join(set, ", "), len(args)),
		args...,
	)
	if err != nil {
		return false, fmt.Errorf("update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *productRepository) List(ctx context.Context, tx domain.Tx, filter domain.ListFilter) ([]domain.Product, error) {
	ex, err := r.store.executor(tx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
	`
	args := make([]any, 0, 3)
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += `WHERE name ILIKE $1
	`
	}
	args = append(args, int64(filter.Limit()))
	limitPos := len(args)
	args = append(args, int64(filter.Offset()))
	query += fmt.Sprintf("ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", limitPos, limitPos+1)

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := ex.QueryContext(opCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		id        int64
		currency  int16
		product   domain.Product
		updatedAt sql.NullTime
		deletedAt sql.NullTime
	)
	if err := row.Scan(&id, &product.Name, &currency, &product.Price, &product.CreatedAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}
	product.ID = uint64(id)
	product.Currency = int32(currency)
	if updatedAt.Valid {
		product.UpdatedAt = &updatedAt.Time
	}
	if deletedAt.Valid {
		product.DeletedAt = &deletedAt.Time
	}
	return &product, nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
