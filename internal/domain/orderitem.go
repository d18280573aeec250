package domain

import (
	"fmt"
	"time"
)

// OrderStatus — закрытое перечисление статусов позиции заказа.
// На проводе статус кодируется малым целым 0..3.
type OrderStatus int16

const (
	StatusPicked     OrderStatus = 0
	StatusAvailable  OrderStatus = 1
	StatusOrdering   OrderStatus = 2
	StatusOutOfStock OrderStatus = 3
)

// ParseOrderStatus проверяет «сырое» значение с границы транспорта.
// Значения вне диапазона отклоняются, а не пропускаются молча.
func ParseOrderStatus(v uint32) (OrderStatus, error) {
	if v > uint32(StatusOutOfStock) {
		return 0, BadRequestf("unknown order status %d", v)
	}
	return OrderStatus(v), nil
}

// Valid сообщает, входит ли статус в перечисление.
func (s OrderStatus) Valid() bool {
	return s >= StatusPicked && s <= StatusOutOfStock
}

func (s OrderStatus) String() string {
	switch s {
	case StatusPicked:
		return "picked"
	case StatusAvailable:
		return "available"
	case StatusOrdering:
		return "ordering"
	case StatusOutOfStock:
		return "out_of_stock"
	default:
		return fmt.Sprintf("unknown(%d)", int16(s))
	}
}

// OrderItem — позиция заказа с вложенными срезами клиента и товара.
// Публичное представление всегда несёт срезы, а не сырые внешние ключи;
// срезы разрешаются при чтении из актуального состояния хранилища.
type OrderItem struct {
	ID        uint64           `json:"id"`
	Customer  CustomerSnapshot `json:"customer"`
	Product   ProductSnapshot  `json:"product"`
	Quantity  uint32           `json:"quantity"`
	Status    OrderStatus      `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt *time.Time       `json:"updated_at,omitempty"`
	DeletedAt *time.Time       `json:"deleted_at,omitempty"`
}

// CreateOrderItemRequest описывает создание позиции заказа.
type CreateOrderItemRequest struct {
	CustomerID uint64
	ProductID  uint64
	Quantity   uint32
	Status     OrderStatus
}

// Validate проверяет поля запроса. Нулевое количество отклоняется:
// заказ без единиц товара не имеет смысла.
func (r CreateOrderItemRequest) Validate() error {
	if r.Quantity == 0 {
		return BadRequestf("order quantity must be greater than zero")
	}
	if !r.Status.Valid() {
		return BadRequestf("unknown order status %d", r.Status)
	}
	return nil
}

// UpdateOrderItemRequest описывает частичное обновление позиции:
// nil-поле остаётся нетронутым.
type UpdateOrderItemRequest struct {
	ID         uint64
	CustomerID *uint64
	ProductID  *uint64
	Quantity   *uint32
	Status     *OrderStatus
}

// Empty сообщает, что запрос не несёт ни одного поля для записи.
func (r UpdateOrderItemRequest) Empty() bool {
	return r.CustomerID == nil && r.ProductID == nil && r.Quantity == nil && r.Status == nil
}

// Validate проверяет переданные поля запроса.
func (r UpdateOrderItemRequest) Validate() error {
	if r.Quantity != nil && *r.Quantity == 0 {
		return BadRequestf("order quantity must be greater than zero")
	}
	if r.Status != nil && !r.Status.Valid() {
		return BadRequestf("unknown order status %d", *r.Status)
	}
	return nil
}

// UpdateOrderItemsStatusRequest — массовая установка статуса.
// Существование каждого id намеренно не перепроверяется, в отличие от
// одиночного обновления.
type UpdateOrderItemsStatusRequest struct {
	IDs    []uint64
	Status OrderStatus
}

// DefaultPageSize — размер страницы выборки по умолчанию.
const DefaultPageSize = 20

// ListFilter — фильтр постраничной выборки. Query, если задан, ищется
// подстрокой без учёта регистра; offset = Page * PageSize.
type ListFilter struct {
	Query    string
	Page     uint64
	PageSize uint64
}

// Limit возвращает размер страницы с учётом значения по умолчанию.
func (f ListFilter) Limit() uint64 {
	if f.PageSize == 0 {
		return DefaultPageSize
	}
	return f.PageSize
}

// Offset возвращает смещение выборки.
func (f ListFilter) Offset() uint64 {
	return f.Page * f.Limit()
}
