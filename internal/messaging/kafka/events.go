package kafka

import (
	"strconv"
	"time"
)

// EventType определяет тип доменного события.
type EventType string

const (
	EventTypeOrderItemCreated        EventType = "order_item.created"
	EventTypeOrderItemUpdated        EventType = "order_item.updated"
	EventTypeOrderItemsStatusUpdated EventType = "order_item.status_bulk_updated"
)

// Topics для Kafka.
const (
	TopicOrderEvents = "estore.order.events"
)

// OrderItemEvent — событие жизненного цикла позиции заказа.
// Идентификаторы кодируются строками: snowflake-значения превышают
// безопасный для JSON-чисел диапазон 2^53.
type OrderItemEvent struct {
	EventID    string    `json:"event_id"`
	EventType  EventType `json:"event_type"`
	OrderID    string    `json:"order_id,omitempty"`
	OrderIDs   []string  `json:"order_ids,omitempty"`
	CustomerID string    `json:"customer_id,omitempty"`
	ProductID  string    `json:"product_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// FormatID приводит идентификатор к строковой форме события.
func FormatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// FormatIDs приводит список идентификаторов к строковой форме события.
func FormatIDs(ids []uint64) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = FormatID(id)
	}
	return out
}
