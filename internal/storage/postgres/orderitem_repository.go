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

// orderItemJoin — соединение позиции с клиентом и товаром. Публичное
// представление позиции всегда несёт срезы обеих сущностей, поэтому каждое
// чтение идёт через это соединение.
const orderItemJoin = `
	SELECT oi.id, oi.quantity, oi.status, oi.created_at, oi.updated_at, oi.deleted_at,
	       c.id, c.name, c.created_at,
	       p.id, p.name, p.currency, p.price, p.created_at
	FROM order_items AS oi
	INNER JOIN customers AS c ON c.id = oi.customer_id
	INNER JOIN products AS p ON p.id = oi.product_id
`

type orderItemRepository struct {
	store *Store
}

// NewOrderItemRepository создаёт PostgreSQL-реализацию OrderItemRepository.
func NewOrderItemRepository(store *Store) domain.OrderItemRepository {
	return &orderItemRepository{store: store}
}

func (r *orderItemRepository) Get(ctx context.Context, tx domain.Tx, id uint64) (*domain.OrderItem, error) {
	ex, err := r.store.executor(tx)
	if err != nil {
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	row := ex.QueryRowContext(opCtx, orderItemJoin+`	WHERE oi.id = $1`, int64(id))

	item, err := scanOrderItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select order item: %w", err)
	}
	return item, nil
}

func (r *orderItemRepository) Create(ctx context.Context, tx domain.Tx, req domain.CreateOrderItemRequest, id uint64, now time.Time) error {
	ex, err := r.store.executor(tx)
	if err != nil {
		return err
	}

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := ex.ExecContext(opCtx, `
		INSERT INTO order_items (id, customer_id, product_id, quantity, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, int64(id), int64(req.CustomerID), int64(req.ProductID), int32(req.Quantity), int16(req.Status), now); err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

func (r *orderItemRepository) Update(ctx context.Context, tx domain.Tx, req domain.UpdateOrderItemRequest, now time.Time) (bool, error) {
	if req.Empty() {
		return false, nil
	}

	ex, err := r.store.executor(tx)
	if err != nil {
		return false, err
	}

	set := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if req.CustomerID != nil {
		args = append(args, int64(*req.CustomerID))
		set = append(set, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if req.ProductID != nil {
		args = append(args, int64(*req.ProductID))
		set = append(set, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if req.Quantity != nil {
		args = append(args, int32(*req.Quantity))
		set = append(set, fmt.Sprintf("quantity = $%d", len(args)))
	}
	if req.Status != nil {
		args = append(args, int16(*req.Status))
		set = append(set, fmt.Sprintf("status = $%d", len(args)))
	}
	args = append(args, now)
	set = append(set, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, int64(req.ID))

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := ex.ExecContext(opCtx,
		fmt.Sprintf("UPDATE order_items SET %s WHERE id = $%d", strings.Join(set, ", "), len(args)),
		args...,
	)
	if err != nil {
		return false, fmt.Errorf("update order item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *orderItemRepository) List(ctx context.Context, tx domain.Tx, filter domain.ListFilter) ([]domain.OrderItem, error) {
	ex, err := r.store.executor(tx)
	if err != nil {
		return nil, err
	}

	query := orderItemJoin
	args := make([]any, 0, 3)
	if filter.Query != "" {
		// Поиск идёт по имени клиента, телефону клиента и имени товара.
		args = append(args, "%"+filter.Query+"%")
		query += `	WHERE c.name ILIKE $1 OR c.phone ILIKE $1 OR p.name ILIKE $1
`
	}
	args = append(args, int64(filter.Limit()))
	limitPos := len(args)
	args = append(args, int64(filter.Offset()))
	query += fmt.Sprintf("	ORDER BY oi.created_at DESC, oi.id DESC LIMIT $%d OFFSET $%d", limitPos, limitPos+1)

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := ex.QueryContext(opCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		item, err := scanOrderItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order item rows: %w", err)
	}

	return items, nil
}

// UpdateStatusBulk безусловно ставит статус всем перечисленным позициям;
// отсутствующие id не считаются ошибкой.
func (r *orderItemRepository) UpdateStatusBulk(ctx context.Context, tx domain.Tx, ids []uint64, status domain.OrderStatus, now time.Time) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}

	ex, err := r.store.executor(tx)
	if err != nil {
		return false, err
	}

	args := make([]any, 0, len(ids)+2)
	args = append(args, int16(status), now)
	placeholders := make([]string, 0, len(ids))
	for _, id := range ids {
		args = append(args, int64(id))
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := ex.ExecContext(opCtx,
		fmt.Sprintf("UPDATE order_items SET status = $1, updated_at = $2 WHERE id IN (%s)", strings.Join(placeholders, ", ")),
		args...,
	)
	if err != nil {
		return false, fmt.Errorf("bulk update order items status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func scanOrderItem(row rowScanner) (*domain.OrderItem, error) {
	var (
		id         int64
		quantity   int32
		status     int16
		updatedAt  sql.NullTime
		deletedAt  sql.NullTime
		customerID int64
		productID  int64
		currency   int16
		item       domain.OrderItem
	)
	if err := row.Scan(
		&id, &quantity, &status, &item.CreatedAt, &updatedAt, &deletedAt,
		&customerID, &item.Customer.Name, &item.Customer.CreatedAt,
		&productID, &item.Product.Name, &currency, &item.Product.Price, &item.Product.CreatedAt,
	); err != nil {
		return nil, err
	}
	item.ID = uint64(id)
	item.Quantity = uint32(quantity)
	item.Status = domain.OrderStatus(status)
	item.Customer.ID = uint64(customerID)
	item.Product.ID = uint64(productID)
	item.Product.Currency = int32(currency)
	if updatedAt.Valid {
		item.UpdatedAt = &updatedAt.Time
	}
	if deletedAt.Valid {
		item.DeletedAt = &deletedAt.Time
	}
	return &item, nil
}

var _ domain.OrderItemRepository = (*orderItemRepository)(nil)
