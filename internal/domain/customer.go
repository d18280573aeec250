package domain

import "time"

// Customer — клиент магазина. Email и телефон опциональны и участвуют
// в проверке дубликатов при создании.
type Customer struct {
	ID        uint64     `json:"id"`
	Name      string     `json:"name"`
	Email     *string    `json:"email,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Snapshot возвращает денормализованный срез клиента для вложения в заказ.
// Срез снимается на момент чтения и отдельно не синхронизируется.
func (c Customer) Snapshot() CustomerSnapshot {
	return CustomerSnapshot{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
}

// CustomerSnapshot — вложенная копия ключевых полей клиента внутри OrderItem.
type CustomerSnapshot struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCustomerRequest описывает создание клиента.
type CreateCustomerRequest struct {
	Name  string
	Email *string
	Phone *string
}

// Validate проверяет обязательные поля запроса.
func (r CreateCustomerRequest) Validate() error {
	if r.Name == "" {
		return BadRequestf("customer name is required")
	}
	return nil
}

// UpdateCustomerRequest описывает частичное обновление клиента:
// nil-поле остаётся нетронутым.
type UpdateCustomerRequest struct {
	ID    uint64
	Name  *string
	Email *string
	Phone *string
}

// Empty сообщает, что запрос не несёт ни одного поля для записи.
func (r UpdateCustomerRequest) Empty() bool {
	return r.Name == nil && r.Email == nil && r.Phone == nil
}
