package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/estore/internal/domain"
)

type customerRepository struct {
	store *Store
}

// NewCustomerRepository возвращает in-memory реализацию CustomerRepository.
func NewCustomerRepository(store *Store) domain.CustomerRepository {
	return &customerRepository{store: store}
}

func (r *customerRepository) Get(_ context.Context, tx domain.Tx, id uint64) (*domain.Customer, error) {
	mt, err := r.store.tx(tx)
	if err != nil {
		return nil, err
	}

	if mt != nil {
		if c, ok := mt.customers[id]; ok {
			out := c
			return &out, nil
		}
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	c, ok := r.store.customers[id]
	if !ok {
		return nil, nil
	}
	out := c
	return &out, nil
}

func (r *customerRepository) Create(_ context.Context, tx domain.Tx, req domain.CreateCustomerRequest, id uint64, now time.Time) (*domain.Customer, error) {
	mt, err := r.store.tx(tx)
	if err != nil {
		return nil, err
	}

	customer := domain.Customer{
		ID:        id,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: now,
	}

	if mt != nil {
		mt.customers[id] = customer
	} else {
		r.store.mu.Lock()
		r.store.customers[id] = customer
		r.store.mu.Unlock()
	}

	out := customer
	return &out, nil
}

func (r *customerRepository) Update(ctx context.Context, tx domain.Tx, req domain.UpdateCustomerRequest, now time.Time) (bool, error) {
	if req.Empty() {
		return false, nil
	}

	current, err := r.Get(ctx, tx, req.ID)
	if err != nil {
		return false, err
	}
	if current == nil {
		return false, nil
	}

	updated := *current
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Email != nil {
		updated.Email = req.Email
	}
	if req.Phone != nil {
		updated.Phone = req.Phone
	}
	ts := now
	updated.UpdatedAt = &ts

	mt, err := r.store.tx(tx)
	if err != nil {
		return false, err
	}
	if mt != nil {
		mt.customers[req.ID] = updated
	} else {
		r.store.mu.Lock()
		r.store.customers[req.ID] = updated
		r.store.mu.Unlock()
	}
	return true, nil
}

func (r *customerRepository) List(_ context.Context, tx domain.Tx, filter domain.ListFilter) ([]domain.Customer, error) {
	mt, err := r.store.tx(tx)
	if err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	merged := make(map[uint64]domain.Customer, len(r.store.customers))
	for id, c := range r.store.customers {
		merged[id] = c
	}
	r.store.mu.RUnlock()
	if mt != nil {
		for id, c := range mt.customers {
			merged[id] = c
		}
	}

	result := make([]domain.Customer, 0, len(merged))
	for _, c := range merged {
		if filter.Query != "" && !customerMatches(c, filter.Query) {
			continue
		}
		result = append(result, c)
	}

	sortByCreatedDesc(result, func(c domain.Customer) (time.Time, uint64) { return c.CreatedAt, c.ID })
	return paginate(result, filter), nil
}

func (r *customerRepository) ExistsByContact(_ context.Context, tx domain.Tx, phone, email *string) (bool, error) {
	if phone == nil && email == nil {
		return false, nil
	}

	mt, err := r.store.tx(tx)
	if err != nil {
		return false, err
	}

	match := func(c domain.Customer) bool {
		if phone != nil && c.Phone != nil && *c.Phone == *phone {
			return true
		}
		if email != nil && c.Email != nil && *c.Email == *email {
			return true
		}
		return false
	}

	if mt != nil {
		for _, c := range mt.customers {
			if match(c) {
				return true, nil
			}
		}
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, c := range r.store.customers {
		if match(c) {
			return true, nil
		}
	}
	return false, nil
}

func customerMatches(c domain.Customer, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(c.Name), q) {
		return true
	}
	if c.Email != nil && strings.Contains(strings.ToLower(*c.Email), q) {
		return true
	}
	if c.Phone != nil && strings.Contains(strings.ToLower(*c.Phone), q) {
		return true
	}
	return false
}

// sortByCreatedDesc сортирует по created_at убыванию с тай-брейком по id,
// чтобы выборка была детерминированной.
func sortByCreatedDesc[T any](items []T, key func(T) (time.Time, uint64)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi > idj
	})
}

func paginate[T any](items []T, filter domain.ListFilter) []T {
	offset := filter.Offset()
	if offset >= uint64(len(items)) {
		return []T{}
	}
	items = items[offset:]
	if limit := filter.Limit(); uint64(len(items)) > limit {
		items = items[:limit]
	}
	return items
}
