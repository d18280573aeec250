package domain

import (
	"context"
	"time"
)

// Tx — граница транзакции хранилища. Дескриптор принадлежит ровно одному
// сервисному вызову и никогда не разделяется между горутинами, поэтому
// блокировка вокруг него не нужна.
type Tx interface {
	Commit() error
	Rollback() error
}

// Store открывает транзакции над хранилищем.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// IDAllocator выдаёт уникальные 64-битные идентификаторы. Реализация обязана
// быть безопасной для конкурентного использования и не выдавать коллизий
// между процессами.
type IDAllocator interface {
	NextID() uint64
}

// EventPublisher публикует доменные события. Публикация best-effort:
// её ошибка не влияет на результат операции.
type EventPublisher interface {
	Publish(topic, key string, event any) error
}

// CustomerRepository переводит операции над клиентом в запросы хранилища.
// Методы принимают дескриптор транзакции; nil означает выполнение вне
// транзакции на пуле. Get возвращает nil без ошибки, если записи нет.
type CustomerRepository interface {
	Get(ctx context.Context, tx Tx, id uint64) (*Customer, error)
	Create(ctx context.Context, tx Tx, req CreateCustomerRequest, id uint64, now time.Time) (*Customer, error)
	Update(ctx context.Context, tx Tx, req UpdateCustomerRequest, now time.Time) (bool, error)
	List(ctx context.Context, tx Tx, filter ListFilter) ([]Customer, error)
	// ExistsByContact проверяет наличие клиента с таким телефоном или email.
	// Оба nil — всегда false.
	ExistsByContact(ctx context.Context, tx Tx, phone, email *string) (bool, error)
}

// ProductRepository переводит операции над товаром в запросы хранилища.
type ProductRepository interface {
	Get(ctx context.Context, tx Tx, id uint64) (*Product, error)
	Create(ctx context.Context, tx Tx, req CreateProductRequest, id uint64, now time.Time) (*Product, error)
	Update(ctx context.Context, tx Tx, req UpdateProductRequest, now time.Time) (bool, error)
	List(ctx context.Context, tx Tx, filter ListFilter) ([]Product, error)
}

// OrderItemRepository переводит операции над позицией заказа в запросы
// хранилища. Каждое чтение материализует трёхстороннее соединение
// заказ-клиент-товар, потому что публичное представление несёт срезы.
type OrderItemRepository interface {
	Get(ctx context.Context, tx Tx, id uint64) (*OrderItem, error)
	Create(ctx context.Context, tx Tx, req CreateOrderItemRequest, id uint64, now time.Time) error
	// Update собирает набор записываемых полей динамически; пустой набор
	// не выполняет запись и возвращает false.
	Update(ctx context.Context, tx Tx, req UpdateOrderItemRequest, now time.Time) (bool, error)
	List(ctx context.Context, tx Tx, filter ListFilter) ([]OrderItem, error)
	// UpdateStatusBulk — одна безусловная массовая запись статуса по всем
	// перечисленным id.
	UpdateStatusBulk(ctx context.Context, tx Tx, ids []uint64, status OrderStatus, now time.Time) (bool, error)
}
