package memory

import (
	"context"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/estore/internal/domain"
)

type orderItemRepository struct {
	store *Store
}

// NewOrderItemRepository возвращает in-memory реализацию OrderItemRepository.
func NewOrderItemRepository(store *Store) domain.OrderItemRepository {
	return &orderItemRepository{store: store}
}

// Get материализует позицию вместе со срезами клиента и товара.
// Семантика соответствует inner join: позиция без живого клиента или товара
// не возвращается.
func (r *orderItemRepository) Get(_ context.Context, tx domain.Tx, id uint64) (*domain.OrderItem, error) {
	mt, err := r.store.tx(tx)
	if err != nil {
		return nil, err
	}

	row, ok := r.lookupRow(mt, id)
	if !ok {
		return nil, nil
	}
	return r.resolve(mt, row), nil
}

func (r *orderItemRepository) Create(_ context.Context, tx domain.Tx, req domain.CreateOrderItemRequest, id uint64, now time.Time) error {
	mt, err := r.store.tx(tx)
	if err != nil {
		return err
	}

	row := orderRow{
		ID:         id,
		CustomerID: req.CustomerID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		Status:     req.Status,
		CreatedAt:  now,
	}

	if mt != nil {
		mt.orders[id] = row
	} else {
		r.store.mu.Lock()
		r.store.orders[id] = row
		r.store.mu.Unlock()
	}
	return nil
}

func (r *orderItemRepository) Update(_ context.Context, tx domain.Tx, req domain.UpdateOrderItemRequest, now time.Time) (bool, error) {
	if req.Empty() {
		return false, nil
	}

	mt, err := r.store.tx(tx)
	if err != nil {
		return false, err
	}

	row, ok := r.lookupRow(mt, req.ID)
	if !ok {
		return false, nil
	}

	if req.CustomerID != nil {
		row.CustomerID = *req.CustomerID
	}
	if req.ProductID != nil {
		row.ProductID = *req.ProductID
	}
	if req.Quantity != nil {
		row.Quantity = *req.Quantity
	}
	if req.Status != nil {
		row.Status = *req.Status
	}
	ts := now
	row.UpdatedAt = &ts

	if mt != nil {
		mt.orders[req.ID] = row
	} else {
		r.store.mu.Lock()
		r.store.orders[req.ID] = row
		r.store.mu.Unlock()
	}
	return true, nil
}

func (r *orderItemRepository) List(_ context.Context, tx domain.Tx, filter domain.ListFilter) ([]domain.OrderItem, error) {
	mt, err := r.store.tx(tx)
	if err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	merged := make(map[uint64]orderRow, len(r.store.orders))
	for id, row := range r.store.orders {
		merged[id] = row
	}
	r.store.mu.RUnlock()
	if mt != nil {
		for id, row := range mt.orders {
			merged[id] = row
		}
	}

	result := make([]domain.OrderItem, 0, len(merged))
	for _, row := range merged {
		customer, cok := r.lookupCustomer(mt, row.CustomerID)
		product, pok := r.lookupProduct(mt, row.ProductID)
		if !cok || !pok {
			continue
		}
		// Запрос матчится по имени клиента, телефону клиента и имени товара,
		// как и в SQL-версии соединения.
		if filter.Query != "" && !orderMatches(customer, product, filter.Query) {
			continue
		}
		result = append(result, domain.OrderItem{
			ID:        row.ID,
			Customer:  customer.Snapshot(),
			Product:   product.Snapshot(),
			Quantity:  row.Quantity,
			Status:    row.Status,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
			DeletedAt: row.DeletedAt,
		})
	}

	sortByCreatedDesc(result, func(o domain.OrderItem) (time.Time, uint64) { return o.CreatedAt, o.ID })
	return paginate(result, filter), nil
}

// UpdateStatusBulk безусловно ставит статус всем перечисленным позициям.
// Отсутствующие id молча пропускаются.
func (r *orderItemRepository) UpdateStatusBulk(_ context.Context, tx domain.Tx, ids []uint64, status domain.OrderStatus, now time.Time) (bool, error) {
	mt, err := r.store.tx(tx)
	if err != nil {
		return false, err
	}

	affected := false
	for _, id := range ids {
		row, ok := r.lookupRow(mt, id)
		if !ok {
			continue
		}
		row.Status = status
		ts := now
		row.UpdatedAt = &ts
		if mt != nil {
			mt.orders[id] = row
		} else {
			r.store.mu.Lock()
			r.store.orders[id] = row
			r.store.mu.Unlock()
		}
		affected = true
	}
	return affected, nil
}

// lookupRow читает сырую строку с учётом наложения транзакции.
func (r *orderItemRepository) lookupRow(mt *Tx, id uint64) (orderRow, bool) {
	if mt != nil {
		if row, ok := mt.orders[id]; ok {
			return row, true
		}
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	row, ok := r.store.orders[id]
	return row, ok
}

// resolve собирает OrderItem из сырой строки и актуальных записей
// клиента/товара. nil, если соединение не разрешилось.
func (r *orderItemRepository) resolve(mt *Tx, row orderRow) *domain.OrderItem {
	customer, cok := r.lookupCustomer(mt, row.CustomerID)
	product, pok := r.lookupProduct(mt, row.ProductID)
	if !cok || !pok {
		return nil
	}

	return &domain.OrderItem{
		ID:        row.ID,
		Customer:  customer.Snapshot(),
		Product:   product.Snapshot(),
		Quantity:  row.Quantity,
		Status:    row.Status,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		DeletedAt: row.DeletedAt,
	}
}

func (r *orderItemRepository) lookupCustomer(mt *Tx, id uint64) (domain.Customer, bool) {
	if mt != nil {
		if c, ok := mt.customers[id]; ok {
			return c, true
		}
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	c, ok := r.store.customers[id]
	return c, ok
}

func (r *orderItemRepository) lookupProduct(mt *Tx, id uint64) (domain.Product, bool) {
	if mt != nil {
		if p, ok := mt.products[id]; ok {
			return p, true
		}
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.products[id]
	return p, ok
}

func orderMatches(customer domain.Customer, product domain.Product, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(customer.Name), q) {
		return true
	}
	if customer.Phone != nil && strings.Contains(strings.ToLower(*customer.Phone), q) {
		return true
	}
	return strings.Contains(strings.ToLower(product.Name), q)
}
