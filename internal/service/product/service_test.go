package product

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/estore/internal/domain"
	"github.com/vladislavdragonenkov/estore/internal/idgen"
	"github.com/vladislavdragonenkov/estore/internal/storage/memory"
)

func newService() (*Service, *memory.Store) {
	store := memory.NewStore()
	return New(store, memory.NewProductRepository(store), idgen.NewSequence(1)), store
}

func TestCreateAndGet(t *testing.T) {
	svc, _ := newService()

	created, err := svc.Create(context.Background(), domain.CreateProductRequest{
		Name:     "Pen",
		Currency: 643,
		Price:    decimal.RequireFromString("1.50"),
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pen", got.Name)
	assert.Equal(t, int32(643), got.Currency)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("1.5")))
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	svc, store := newService()

	_, err := svc.Create(context.Background(), domain.CreateProductRequest{
		Name:  "Pen",
		Price: decimal.RequireFromString("-0.01"),
	})
	require.Error(t, err)
	assert.True(t, domain.IsBadRequest(err))
	assert.Equal(t, 0, store.ProductCount())
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Get(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestUpdatePriceKeepsExactDecimal(t *testing.T) {
	svc, _ := newService()

	created, err := svc.Create(context.Background(), domain.CreateProductRequest{
		Name:  "Pen",
		Price: decimal.RequireFromString("1.50"),
	})
	require.NoError(t, err)

	// 0.1 + 0.2 в точной десятичной арифметике равно ровно 0.3.
	price := decimal.RequireFromString("0.1").Add(decimal.RequireFromString("0.2"))
	updated, err := svc.Update(context.Background(), domain.UpdateProductRequest{
		ID:    created.ID,
		Price: &price,
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("0.3")))
	assert.Equal(t, "Pen", updated.Name)
	require.NotNil(t, updated.UpdatedAt)
}

func TestUpdateEmptyRequestIsNoOp(t *testing.T) {
	svc, _ := newService()

	created, err := svc.Create(context.Background(), domain.CreateProductRequest{
		Name:  "Pen",
		Price: decimal.RequireFromString("1.50"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), domain.UpdateProductRequest{ID: created.ID})
	require.NoError(t, err)
	assert.Nil(t, updated.UpdatedAt)
}

func TestUpdateMissingReturnsNotFound(t *testing.T) {
	svc, _ := newService()

	name := "Ghost"
	_, err := svc.Update(context.Background(), domain.UpdateProductRequest{
		ID:   99,
		Name: &name,
	})
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

// Стаб репозитория для отказа, который in-memory реализация воспроизвести
// не может: запись пропадает между обновлением и повторным чтением.
type vanishingProductRepo struct {
	gets int
}

func (r *vanishingProductRepo) Get(context.Context, domain.Tx, uint64) (*domain.Product, error) {
	r.gets++
	if r.gets == 1 {
		return &domain.Product{ID: 9, Name: "Pen", Price: decimal.RequireFromString("1.50")}, nil
	}
	return nil, nil
}

func (r *vanishingProductRepo) Create(context.Context, domain.Tx, domain.CreateProductRequest, uint64, time.Time) (*domain.Product, error) {
	return nil, nil
}

func (r *vanishingProductRepo) Update(context.Context, domain.Tx, domain.UpdateProductRequest, time.Time) (bool, error) {
	return true, nil
}

func (r *vanishingProductRepo) List(context.Context, domain.Tx, domain.ListFilter) ([]domain.Product, error) {
	return nil, nil
}

func TestUpdateRereadMissIsDatabaseError(t *testing.T) {
	store := memory.NewStore()
	svc := New(store, &vanishingProductRepo{}, idgen.NewSequence(1))

	name := "Pencil"
	updated, err := svc.Update(context.Background(), domain.UpdateProductRequest{
		ID:   9,
		Name: &name,
	})
	require.Error(t, err)
	assert.True(t, domain.IsDatabase(err))
	assert.Contains(t, err.Error(), "9")
	assert.Nil(t, updated)
}

func TestListFiltersByName(t *testing.T) {
	svc, _ := newService()

	for _, name := range []string{"Pen", "Pencil", "Notebook"} {
		_, err := svc.Create(context.Background(), domain.CreateProductRequest{
			Name:  name,
			Price: decimal.RequireFromString("1.00"),
		})
		require.NoError(t, err)
	}

	products, err := svc.List(context.Background(), domain.ListFilter{Query: "pen"})
	require.NoError(t, err)
	assert.Len(t, products, 2)

	all, err := svc.List(context.Background(), domain.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
