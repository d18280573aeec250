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

const customerColumns = `id, name, email, phone, created_at, updated_at`

type customerRepository struct {
	store *Store
}

// NewCustomerRepository создаёт PostgreSQL-реализацию CustomerRepository.
func NewCustomerRepository(store *Store) domain.CustomerRepository {
	return &customerRepository{store: store}
}

func (r *customerRepository) Get(ctx context.Context, tx domain.Tx, id uint64) (*domain.Customer, error) {
	ex, err := r.store.executor(tx)
	if err != nil {
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	row := ex.QueryRowContext(opCtx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE id = $1
	`, int64(id))

	customer, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select customer: %w", err)
	}
	return customer, nil
}

func (r *customerRepository) Create(ctx context.Context, tx domain.Tx, req domain.CreateCustomerRequest, id uint64, now time.Time) (*domain.Customer, error) {
	ex, err := r.store.executor(tx)
	if err != nil {
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	row := ex.QueryRowContext(opCtx, `
		INSERT INTO customers (id, name, email, phone, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+customerColumns+`
	`, int64(id), req.Name, req.Email, req.Phone, now)

	customer, err := scanCustomer(row)
	if err != nil {
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	return customer, nil
}

func (r *customerRepository) Update(ctx context.Context, tx domain.Tx, req domain.UpdateCustomerRequest, now time.Time) (bool, error) {
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
	if req.Email != nil {
		args = append(args, *req.Email)
		set = append(set, fmt.Sprintf("email = $%d", len(args)))
	}
	if req.Phone != nil {
		args = append(args, *req.Phone)
		set = append(set, fmt.Sprintf("phone = $%d", len(args)))
	}
	args = append(args, now)
	set = append(set, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, int64(req.ID))

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := ex.ExecContext(opCtx,
		fmt.Sprintf("UPDATE customers SET %s WHERE id = $%d", strings.Join(set, ", "), len(args)),
		args...,
	)
	if err != nil {
		return false, fmt.Errorf("update customer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *customerRepository) List(ctx context.Context, tx domain.Tx, filter domain.ListFilter) ([]domain.Customer, error) {
	ex, err := r.store.executor(tx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + customerColumns + `
		FROM customers
	`
	args := make([]any, 0, 3)
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += `WHERE name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1
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
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		customers = append(customers, *customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer rows: %w", err)
	}

	return customers, nil
}

func (r *customerRepository) ExistsByContact(ctx context.Context, tx domain.Tx, phone, email *string) (bool, error) {
	if phone == nil && email == nil {
		return false, nil
	}

	ex, err := r.store.executor(tx)
	if err != nil {
		return false, err
	}

	conds := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if phone != nil {
		args = append(args, *phone)
		conds = append(conds, fmt.Sprintf("phone = $%d", len(args)))
	}
	if email != nil {
		args = append(args, *email)
		conds = append(conds, fmt.Sprintf("email = $%d", len(args)))
	}

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var id int64
	err = ex.QueryRowContext(opCtx,
		fmt.Sprintf("SELECT id FROM customers WHERE %s LIMIT 1", strings.Join(conds, " OR ")),
		args...,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check customer exists: %w", err)
	}
	return true, nil
}

// rowScanner покрывает *sql.Row и *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var (
		id        int64
		customer  domain.Customer
		email     sql.NullString
		phone     sql.NullString
		updatedAt sql.NullTime
	)
	if err := row.Scan(&id, &customer.Name, &email, &phone, &customer.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}
	customer.ID = uint64(id)
	if email.Valid {
		customer.Email = &email.String
	}
	if phone.Valid {
		customer.Phone = &phone.String
	}
	if updatedAt.Valid {
		customer.UpdatedAt = &updatedAt.Time
	}
	return &customer, nil
}

var _ domain.CustomerRepository = (*customerRepository)(nil)
