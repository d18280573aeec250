package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/estore/internal/domain"
)

// errTxDone возвращается при повторном завершении транзакции.
var errTxDone = errors.New("memory: transaction has already been committed or rolled back")

// orderRow — сырая строка позиции заказа с внешними ключами.
// Срезы клиента и товара материализуются при чтении, как и в SQL-реализации.
type orderRow struct {
	ID         uint64
	CustomerID uint64
	ProductID  uint64
	Quantity   uint32
	Status     domain.OrderStatus
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
}

// Store — in-memory хранилище для локальной разработки и тестов.
// Реализует ту же транзакционную семантику, что и PostgreSQL-хранилище:
// записи внутри транзакции складываются в наложение и становятся видимыми
// только после Commit, Rollback их отбрасывает целиком.
type Store struct {
	mu        sync.RWMutex
	customers map[uint64]domain.Customer
	products  map[uint64]domain.Product
	orders    map[uint64]orderRow
}

// NewStore возвращает пустое in-memory хранилище.
func NewStore() *Store {
	return &Store{
		customers: make(map[uint64]domain.Customer),
		products:  make(map[uint64]domain.Product),
		orders:    make(map[uint64]orderRow),
	}
}

// Begin открывает транзакцию с отложенными записями.
func (s *Store) Begin(_ context.Context) (domain.Tx, error) {
	return &Tx{
		store:     s,
		customers: make(map[uint64]domain.Customer),
		products:  make(map[uint64]domain.Product),
		orders:    make(map[uint64]orderRow),
	}, nil
}

// Tx накапливает записи и применяет их к базовым таблицам на Commit.
// Дескриптор не предназначен для разделения между горутинами.
type Tx struct {
	store     *Store
	mu        sync.Mutex
	done      bool
	customers map[uint64]domain.Customer
	products  map[uint64]domain.Product
	orders    map[uint64]orderRow
}

// Commit применяет накопленные записи атомарно под блокировкой хранилища.
func (t *Tx) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return errTxDone
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for id, c := range t.customers {
		t.store.customers[id] = c
	}
	for id, p := range t.products {
		t.store.products[id] = p
	}
	for id, o := range t.orders {
		t.store.orders[id] = o
	}

	t.done = true
	return nil
}

// Rollback отбрасывает накопленные записи; базовые таблицы не затронуты.
func (t *Tx) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return errTxDone
	}
	t.customers = nil
	t.products = nil
	t.orders = nil
	t.done = true
	return nil
}

// tx приводит доменный дескриптор к локальному типу. nil разрешён и означает
// чтение/запись напрямую в базовые таблицы.
func (s *Store) tx(tx domain.Tx) (*Tx, error) {
	if tx == nil {
		return nil, nil
	}
	mt, ok := tx.(*Tx)
	if !ok || mt.store != s {
		return nil, fmt.Errorf("memory: foreign transaction handle %T", tx)
	}
	if mt.done {
		return nil, errTxDone
	}
	return mt, nil
}

// CustomerCount возвращает число зафиксированных клиентов (для тестов).
func (s *Store) CustomerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.customers)
}

// ProductCount возвращает число зафиксированных товаров (для тестов).
func (s *Store) ProductCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// OrderCount возвращает число зафиксированных позиций заказа (для тестов).
func (s *Store) OrderCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

var _ domain.Store = (*Store)(nil)
var _ domain.Tx = (*Tx)(nil)
