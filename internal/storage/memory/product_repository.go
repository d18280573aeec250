package memory

import (
	"context"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/estore/internal/domain"
)

type productRepository struct {
	store *Store
}

// NewProductRepository возвращает in-memory реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{store: store}
}

func (r *productRepository) Get(_ context.Context, tx domain.Tx, id uint64) (*domain.Product, error) {
	mt, err := r.store.tx(tx)
	if err != nil {
		return nil, err
	}

	if mt != nil {
		if p, ok := mt.products[id]; ok {
			out := p
			return &out, nil
		}
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	out := p
	return &out, nil
}

func (r *productRepository) Create(_ context.Context, tx domain.Tx, req domain.CreateProductRequest, id uint64, now time.Time) (*domain.Product, error) {
	mt, err := r.store.tx(tx)
	if err != nil {
		return nil, err
	}

	product := domain.Product{
		ID:        id,
		Name:      req.Name,
		Currency:  req.Currency,
		Price:     req.Price,
		CreatedAt: now,
	}

	if mt != nil {
		mt.products[id] = product
	} else {
		r.store.mu.Lock()
		r.store.products[id] = product
		r.store.mu.Unlock()
	}

	out := product
	return &out, nil
}

func (r *productRepository) Update(ctx context.Context, tx domain.Tx, req domain.UpdateProductRequest, now time.Time) (bool, error) {
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

	updated := req.Merge(*current)
	ts := now
	updated.UpdatedAt = &ts

	mt, err := r.store.tx(tx)
	if err != nil {
		return false, err
	}
	if mt != nil {
		mt.products[req.ID] = updated
	} else {
		r.store.mu.Lock()
		r.store.products[req.ID] = updated
		r.store.mu.Unlock()
	}
	return true, nil
}

func (r *productRepository) List(_ context.Context, tx domain.Tx, filter domain.ListFilter) ([]domain.Product, error) {
	mt, err := r.store.tx(tx)
	if err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	merged := make(map[uint64]domain.Product, len(r.store.products))
	for id, p := range r.store.products {
		merged[id] = p
	}
	r.store.mu.RUnlock()
	if mt != nil {
		for id, p := range mt.products {
			merged[id] = p
		}
	}

	result := make([]domain.Product, 0, len(merged))
	for _, p := range merged {
		if filter.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Query)) {
			continue
		}
		result = append(result, p)
	}

	sortByCreatedDesc(result, func(p domain.Product) (time.Time, uint64) { return p.CreatedAt, p.ID })
	return paginate(result, filter), nil
}
