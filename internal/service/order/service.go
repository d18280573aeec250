package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/estore/internal/domain"
	"github.com/vladislavdragonenkov/estore/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/estore/internal/metrics"
)

// Service — оркестратор операций над позициями заказа. Единственное место,
// где проверяется ссылочная целостность: схема хранилища внешних ключей не
// держит, поэтому каждая мутация идёт в явной транзакции с проверкой
// существования клиента и товара и откатом при любом сбое.
type Service struct {
	store     domain.Store
	orders    domain.OrderItemRepository
	customers domain.CustomerRepository
	products  domain.ProductRepository
	ids       domain.IDAllocator
	metrics   *metrics.OrderMetrics
	publisher domain.EventPublisher
	logger    *log.Entry
	now       func() time.Time
}

// New создаёт сервис заказов.
func New(
	store domain.Store,
	orders domain.OrderItemRepository,
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	ids domain.IDAllocator,
	m *metrics.OrderMetrics,
) *Service {
	return &Service{
		store:     store,
		orders:    orders,
		customers: customers,
		products:  products,
		ids:       ids,
		metrics:   m,
		logger:    log.WithField("component", "order-service"),
		now:       time.Now,
	}
}

// SetEventPublisher включает публикацию доменных событий. Публикация
// best-effort и на результат операций не влияет.
func (s *Service) SetEventPublisher(p domain.EventPublisher) {
	s.publisher = p
}

// Get возвращает позицию заказа по id вместе со срезами клиента и товара.
func (s *Service) Get(ctx context.Context, id uint64) (*domain.OrderItem, error) {
	started := s.now()
	defer func() { s.metrics.RecordOpDuration("get", s.now().Sub(started)) }()

	item, err := s.orders.Get(ctx, nil, id)
	if err != nil {
		s.metrics.RecordStorageError()
		return nil, domain.DatabaseError(err)
	}
	if item == nil {
		return nil, domain.NotFoundf("order item %d not found", id)
	}
	return item, nil
}

// List возвращает страницу позиций. Запрос, если задан, ищется подстрокой
// без учёта регистра по имени клиента, телефону клиента и имени товара.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]domain.OrderItem, error) {
	started := s.now()
	defer func() { s.metrics.RecordOpDuration("list", s.now().Sub(started)) }()

	items, err := s.orders.List(ctx, nil, filter)
	if err != nil {
		s.metrics.RecordStorageError()
		return nil, domain.DatabaseError(err)
	}
	return items, nil
}

// Create создаёт позицию заказа. Существование клиента и товара проверяется
// внутри той же транзакции, что и вставка: сбой любого шага откатывает всё.
func (s *Service) Create(ctx context.Context, req domain.CreateOrderItemRequest) (*domain.OrderItem, error) {
	started := s.now()
	defer func() { s.metrics.RecordOpDuration("create", s.now().Sub(started)) }()

	if err := req.Validate(); err != nil {
		s.metrics.RecordRejected("validation")
		return nil, err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		s.metrics.RecordStorageError()
		return nil, domain.DatabaseError(err)
	}

	customer, err := s.customers.Get(ctx, tx, req.CustomerID)
	if err != nil {
		s.rollback(tx, "create")
		s.metrics.RecordStorageError()
		return nil, domain.DatabaseError(err)
	}
	if customer == nil {
		s.rollback(tx, "create")
		s.metrics.RecordRejected("missing_customer")
		return nil, domain.BadRequestf("customer %d does not exist", req.CustomerID)
	}

	product, err := s.products.Get(ctx, tx, req.ProductID)
	if err != nil {
		s.rollback(tx, "create")
		s.metrics.RecordStorageError()
		return nil, domain.DatabaseError(err)
	}
	if product == nil {
		s.rollback(tx, "create")
		s.metrics.RecordRejected("missing_product")
		return nil, domain.BadRequestf("product %d does not exist", req.ProductID)
	}

	id := s.ids.NextID()
	now := s.now().UTC()
	if err := s.orders.Create(ctx, tx, req, id, now); err != nil {
		s.rollback(tx, "create")
		s.metrics.RecordStorageError()
		return nil, domain.DatabaseError(err)
	}

	// Повторное чтение через то же соединение, что и Get: наружу уходит
	// запись в том виде, в каком её увидят последующие чтения.
	item, err := s.orders.Get(ctx, tx, id)
	if err != nil {
		s.rollback(tx, "create")
		s.metrics.RecordStorageError()
		return nil, domain.DatabaseError(err)
	}
	if item == nil {
		s.rollback(tx, "create")
		s.metrics.RecordStorageError()
		return nil, domain.DatabaseErrorf("order item %d not found after create", id)
	}

	if err := tx.Commit(); err != nil {
		s.metrics.RecordStorageError()
		return nil, domain.DatabaseError(err)
	}

	s.metrics.RecordCreated()
	s.logger.WithFields(log.Fields{
		"order_id":    id,
		"customer_id": req.CustomerID,
		"product_id":  req.ProductID,
	}).Info("order item created")

	s.publish(kafka.OrderItemEvent{
		EventID:    uuid.NewString(),
		EventType:  kafka.EventTypeOrderItemCreated,
		OrderID:    kafka.FormatID(item.ID),
		CustomerID: kafka.FormatID(item.Customer.ID),
		ProductID:  kafka.FormatID(item.Product.ID),
		Status:     item.Status.String(),
		Timestamp:  now,
	})
	return item, nil
}

// Update частично обновляет позицию. Переданные customer_id и product_id
// проверяются на существование в той же транзакции; пустой запрос — законный
// no-op, который ничего не пишет и updated_at не трогает. Второе значение
// сообщает, была ли запись.
func (s *Service) Update(ctx context.Context, req domain.UpdateOrderItemRequest) (*domain.OrderItem, bool, error) {
	started := s.now()
	defer func() { s.metrics.RecordOpDuration("update", s.now().Sub(started)) }()

	if err := req.Validate(); err != nil {
		s.metrics.RecordRejected("validation")
		return nil, false, err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		s.metrics.RecordStorageError()
		return nil, false, domain.DatabaseError(err)
	}

	current, err := s.orders.Get(ctx, tx, req.ID)
	if err != nil {
		s.rollback(tx, "update")
		s.metrics.RecordStorageError()
		return nil, false, domain.DatabaseError(err)
	}
	if current == nil {
		s.rollback(tx, "update")
		return nil, false, domain.NotFoundf("order item %d not found", req.ID)
	}

	if req.CustomerID != nil {
		customer, err := s.customers.Get(ctx, tx, *req.CustomerID)
		if err != nil {
			s.rollback(tx, "update")
			s.metrics.RecordStorageError()
			return nil, false, domain.DatabaseError(err)
		}
		if customer == nil {
			s.rollback(tx, "update")
			s.metrics.RecordRejected("missing_customer")
			return nil, false, domain.BadRequestf("customer %d does not exist", *req.CustomerID)
		}
	}
	if req.ProductID != nil {
		product, err := s.products.Get(ctx, tx, *req.ProductID)
		if err != nil {
			s.rollback(tx, "update")
			s.metrics.RecordStorageError()
			return nil, false, domain.DatabaseError(err)
		}
		if product == nil {
			s.rollback(tx, "update")
			s.metrics.RecordRejected("missing_product")
			return nil, false, domain.BadRequestf("product %d does not exist", *req.ProductID)
		}
	}

	if req.Empty() {
		if err := tx.Commit(); err != nil {
			s.metrics.RecordStorageError()
			return nil, false, domain.DatabaseError(err)
		}
		return current, false, nil
	}

	affected, err := s.orders.Update(ctx, tx, req, s.now().UTC())
	if err != nil {
		s.rollback(tx, "update")
		s.metrics.RecordStorageError()
		return nil, false, domain.DatabaseError(err)
	}
	if !affected {
		s.rollback(tx, "update")
		s.metrics.RecordStorageError()
		return nil, false, domain.DatabaseErrorf("order item %d update affected no rows", req.ID)
	}

	updated, err := s.orders.Get(ctx, tx, req.ID)
	if err != nil {
		s.rollback(tx, "update")
		s.metrics.RecordStorageError()
		return nil, false, domain.DatabaseError(err)
	}
	if updated == nil {
		// Позиция прочитана в этой же транзакции строкой выше.
		s.rollback(tx, "update")
		return nil, false, domain.DatabaseErrorf("order item %d disappeared during update", req.ID)
	}

	if err := tx.Commit(); err != nil {
		s.metrics.RecordStorageError()
		return nil, false, domain.DatabaseError(err)
	}

	s.metrics.RecordUpdated()
	s.logger.WithField("order_id", req.ID).Info("order item updated")
	s.publish(kafka.OrderItemEvent{
		EventID:   uuid.NewString(),
		EventType: kafka.EventTypeOrderItemUpdated,
		OrderID:   kafka.FormatID(req.ID),
		Status:    updated.Status.String(),
		Timestamp: s.now().UTC(),
	})
	return updated, true, nil
}

// UpdateStatusBulk безусловно ставит статус всем перечисленным позициям
// одной записью. Существование id намеренно не перепроверяется: отсутствующие
// id молча пропускаются, это осознанная асимметрия с одиночным обновлением.
func (s *Service) UpdateStatusBulk(ctx context.Context, req domain.UpdateOrderItemsStatusRequest) (bool, error) {
	started := s.now()
	defer func() { s.metrics.RecordOpDuration("update_status_bulk", s.now().Sub(started)) }()

	if !req.Status.Valid() {
		s.metrics.RecordRejected("validation")
		return false, domain.BadRequestf("unknown order status %d", req.Status)
	}
	if len(req.IDs) == 0 {
		return false, nil
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		s.metrics.RecordStorageError()
		return false, domain.DatabaseError(err)
	}

	affected, err := s.orders.UpdateStatusBulk(ctx, tx, req.IDs, req.Status, s.now().UTC())
	if err != nil {
		s.rollback(tx, "update_status_bulk")
		s.metrics.RecordStorageError()
		return false, domain.DatabaseError(err)
	}

	if err := tx.Commit(); err != nil {
		s.metrics.RecordStorageError()
		return false, domain.DatabaseError(err)
	}

	s.metrics.RecordUpdated()
	s.logger.WithFields(log.Fields{
		"count":  len(req.IDs),
		"status": req.Status.String(),
	}).Info("order items status updated")
	s.publish(kafka.OrderItemEvent{
		EventID:   uuid.NewString(),
		EventType: kafka.EventTypeOrderItemsStatusUpdated,
		OrderIDs:  kafka.FormatIDs(req.IDs),
		Status:    req.Status.String(),
		Timestamp: s.now().UTC(),
	})
	return affected, nil
}

func (s *Service) rollback(tx domain.Tx, op string) {
	if err := tx.Rollback(); err != nil {
		s.logger.WithError(err).WithField("op", op).Error("transaction rollback failed")
	}
}

func (s *Service) publish(event kafka.OrderItemEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(kafka.TopicOrderEvents, event.EventID, event); err != nil {
		s.logger.WithError(err).Warn("failed to publish order event")
	}
}
