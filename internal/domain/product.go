package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product — товар каталога. Цена хранится точным десятичным числом,
// плавающая точка для денег не используется.
type Product struct {
	ID        uint64          `json:"id"`
	Name      string          `json:"name"`
	Currency  int32           `json:"currency"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
	// DeletedAt зарезервирован под мягкое удаление: операции удаления
	// в API нет, но модель и схема поле несут.
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Snapshot возвращает денормализованный срез товара для вложения в заказ.
func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:        p.ID,
		Name:      p.Name,
		Currency:  p.Currency,
		Price:     p.Price,
		CreatedAt: p.CreatedAt,
	}
}

// ProductSnapshot — вложенная копия ключевых полей товара внутри OrderItem.
type ProductSnapshot struct {
	ID        uint64          `json:"id"`
	Name      string          `json:"name"`
	Currency  int32           `json:"currency"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateProductRequest описывает создание товара.
type CreateProductRequest struct {
	Name     string
	Currency int32
	Price    decimal.Decimal
}

// Validate проверяет обязательные поля запроса.
func (r CreateProductRequest) Validate() error {
	if r.Name == "" {
		return BadRequestf("product name is required")
	}
	if r.Price.IsNegative() {
		return BadRequestf("product price must be non-negative")
	}
	return nil
}

// UpdateProductRequest описывает частичное обновление товара.
type UpdateProductRequest struct {
	ID       uint64
	Name     *string
	Currency *int32
	Price    *decimal.Decimal
}

// Empty сообщает, что запрос не несёт ни одного поля для записи.
func (r UpdateProductRequest) Empty() bool {
	return r.Name == nil && r.Currency == nil && r.Price == nil
}

// Validate проверяет переданные поля запроса.
func (r UpdateProductRequest) Validate() error {
	if r.Price != nil && r.Price.IsNegative() {
		return BadRequestf("product price must be non-negative")
	}
	return nil
}

// Merge накладывает переданные поля поверх старых значений. Цена и валюта
// пересчитываются точной десятичной арифметикой из слияния старого и нового.
func (r UpdateProductRequest) Merge(old Product) Product {
	merged := old
	if r.Name != nil {
		merged.Name = *r.Name
	}
	if r.Currency != nil {
		merged.Currency = *r.Currency
	}
	if r.Price != nil {
		merged.Price = *r.Price
	}
	return merged
}
