package customer

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/estore/internal/domain"
)

// Service реализует операции над клиентами. Создание проверяет дубликаты
// по телефону и email внутри той же транзакции, что и вставка.
type Service struct {
	store     domain.Store
	customers domain.CustomerRepository
	ids       domain.IDAllocator
	logger    *log.Entry
	now       func() time.Time
}

// New создаёт сервис клиентов.
func New(store domain.Store, customers domain.CustomerRepository, ids domain.IDAllocator) *Service {
	return &Service{
		store:     store,
		customers: customers,
		ids:       ids,
		logger:    log.WithField("component", "customer-service"),
		now:       time.Now,
	}
}

// Get возвращает клиента по id.
func (s *Service) Get(ctx context.Context, id uint64) (*domain.Customer, error) {
	customer, err := s.customers.Get(ctx, nil, id)
	if err != nil {
		return nil, domain.DatabaseError(err)
	}
	if customer == nil {
		return nil, domain.NotFoundf("customer %d not found", id)
	}
	return customer, nil
}

// List возвращает страницу клиентов. Запрос ищется подстрокой без учёта
// регистра по имени, email и телефону.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]domain.Customer, error) {
	customers, err := s.customers.List(ctx, nil, filter)
	if err != nil {
		return nil, domain.DatabaseError(err)
	}
	return customers, nil
}

// Create создаёт клиента. Клиент с тем же телефоном или email отклоняется.
func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (*domain.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, domain.DatabaseError(err)
	}

	exists, err := s.customers.ExistsByContact(ctx, tx, req.Phone, req.Email)
	if err != nil {
		s.rollback(tx)
		return nil, domain.DatabaseError(err)
	}
	if exists {
		s.rollback(tx)
		return nil, domain.BadRequestf("customer with the same phone or email already exists")
	}

	id := s.ids.NextID()
	customer, err := s.customers.Create(ctx, tx, req, id, s.now().UTC())
	if err != nil {
		s.rollback(tx)
		return nil, domain.DatabaseError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.DatabaseError(err)
	}

	s.logger.WithField("customer_id", id).Info("customer created")
	return customer, nil
}

// Update частично обновляет клиента. Пустой запрос — законный no-op.
func (s *Service) Update(ctx context.Context, req domain.UpdateCustomerRequest) (*domain.Customer, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, domain.DatabaseError(err)
	}

	current, err := s.customers.Get(ctx, tx, req.ID)
	if err != nil {
		s.rollback(tx)
		return nil, domain.DatabaseError(err)
	}
	if current == nil {
		s.rollback(tx)
		return nil, domain.NotFoundf("customer %d not found", req.ID)
	}

	if req.Empty() {
		if err := tx.Commit(); err != nil {
			return nil, domain.DatabaseError(err)
		}
		return current, nil
	}

	affected, err := s.customers.Update(ctx, tx, req, s.now().UTC())
	if err != nil {
		s.rollback(tx)
		return nil, domain.DatabaseError(err)
	}
	if !affected {
		s.rollback(tx)
		return nil, domain.DatabaseErrorf("customer %d update affected no rows", req.ID)
	}

	updated, err := s.customers.Get(ctx, tx, req.ID)
	if err != nil {
		s.rollback(tx)
		return nil, domain.DatabaseError(err)
	}
	if updated == nil {
		// Запись прочитана в этой же транзакции выше.
		s.rollback(tx)
		return nil, domain.DatabaseErrorf("customer %d disappeared during update", req.ID)
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.DatabaseError(err)
	}

	s.logger.WithField("customer_id", req.ID).Info("customer updated")
	return updated, nil
}

func (s *Service) rollback(tx domain.Tx) {
	if err := tx.Rollback(); err != nil {
		s.logger.WithError(err).Error("transaction rollback failed")
	}
}
