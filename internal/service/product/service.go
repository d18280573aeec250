package product

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/estore/internal/domain"
)

// Service реализует операции над товарами каталога.
type Service struct {
	store    domain.Store
	products domain.ProductRepository
	ids      domain.IDAllocator
	logger   *log.Entry
	now      func() time.Time
}

// New создаёт сервис товаров.
func New(store domain.Store, products domain.ProductRepository, ids domain.IDAllocator) *Service {
	return &Service{
		store:    store,
		products: products,
		ids:      ids,
		logger:   log.WithField("component", "product-service"),
		now:      time.Now,
	}
}

// Get возвращает товар по id.
func (s *Service) Get(ctx context.Context, id uint64) (*domain.Product, error) {
	product, err := s.products.Get(ctx, nil, id)
	if err != nil {
		return nil, domain.DatabaseError(err)
	}
	if product == nil {
		return nil, domain.NotFoundf("product %d not found", id)
	}
	return product, nil
}

// List возвращает страницу товаров. Запрос ищется подстрокой без учёта
// регистра по имени.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	products, err := s.products.List(ctx, nil, filter)
	if err != nil {
		return nil, domain.DatabaseError(err)
	}
	return products, nil
}

// Create создаёт товар.
func (s *Service) Create(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, domain.DatabaseError(err)
	}

	id := s.ids.NextID()
	product, err := s.products.Create(ctx, tx, req, id, s.now().UTC())
	if err != nil {
		s.rollback(tx)
		return nil, domain.DatabaseError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.DatabaseError(err)
	}

	s.logger.WithField("product_id", id).Info("product created")
	return product, nil
}

// Update частично обновляет товар. Пустой запрос — законный no-op.
func (s *Service) Update(ctx context.Context, req domain.UpdateProductRequest) (*domain.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, domain.DatabaseError(err)
	}

	current, err := s.products.Get(ctx, tx, req.ID)
	if err != nil {
		s.rollback(tx)
		return nil, domain.DatabaseError(err)
	}
	if current == nil {
		s.rollback(tx)
		return nil, domain.NotFoundf("product %d not found", req.ID)
	}

	if req.Empty() {
		if err := tx.Commit(); err != nil {
			return nil, domain.DatabaseError(err)
		}
		return current, nil
	}

	affected, err := s.products.Update(ctx, tx, req, s.now().UTC())
	if err != nil {
		s.rollback(tx)
		return nil, domain.DatabaseError(err)
	}
	if !affected {
		s.rollback(tx)
		return nil, domain.DatabaseErrorf("product %d update affected no rows", req.ID)
	}

	updated, err := s.products.Get(ctx, tx, req.ID)
	if err != nil {
		s.rollback(tx)
		return nil, domain.DatabaseError(err)
	}
	if updated == nil {
		// Запись прочитана в этой же транзакции выше.
		s.rollback(tx)
		return nil, domain.DatabaseErrorf("product %d disappeared during update", req.ID)
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.DatabaseError(err)
	}

	s.logger.WithField("product_id", req.ID).Info("product updated")
	return updated, nil
}

func (s *Service) rollback(tx domain.Tx) {
	if err := tx.Rollback(); err != nil {
		s.logger.WithError(err).Error("transaction rollback failed")
	}
}
