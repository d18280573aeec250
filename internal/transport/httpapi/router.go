package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavdragonenkov/estore/internal/auth"
	"github.com/vladislavdragonenkov/estore/internal/domain"
)

// OrderService — операции над позициями заказа, которые публикует API.
type OrderService interface {
	Get(ctx context.Context, id uint64) (*domain.OrderItem, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.OrderItem, error)
	Create(ctx context.Context, req domain.CreateOrderItemRequest) (*domain.OrderItem, error)
	Update(ctx context.Context, req domain.UpdateOrderItemRequest) (*domain.OrderItem, bool, error)
	UpdateStatusBulk(ctx context.Context, req domain.UpdateOrderItemsStatusRequest) (bool, error)
}

// CustomerService — операции над клиентами.
type CustomerService interface {
	Get(ctx context.Context, id uint64) (*domain.Customer, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Customer, error)
	Create(ctx context.Context, req domain.CreateCustomerRequest) (*domain.Customer, error)
	Update(ctx context.Context, req domain.UpdateCustomerRequest) (*domain.Customer, error)
}

// ProductService — операции над товарами.
type ProductService interface {
	Get(ctx context.Context, id uint64) (*domain.Product, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error)
	Create(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error)
	Update(ctx context.Context, req domain.UpdateProductRequest) (*domain.Product, error)
}

// AuthService — заглушка аутентификации.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*auth.Token, error)
	Logout(ctx context.Context, token string) error
}

// API собирает HTTP-шлюз сервиса.
type API struct {
	orders    OrderService
	customers CustomerService
	products  ProductService
	auth      AuthService
}

// New создаёт API. auth может быть nil, тогда маршруты логина не монтируются.
func New(orders OrderService, customers CustomerService, products ProductService, authService AuthService) *API {
	return &API{
		orders:    orders,
		customers: customers,
		products:  products,
		auth:      authService,
	}
}

// Router возвращает готовый маршрутизатор шлюза.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(recoverMiddleware)

	r.Route("/v1", func(r chi.Router) {
		if a.auth != nil {
			r.Post("/login", a.handleLogin)
			r.Post("/logout", a.handleLogout)
		}

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", a.handleListOrders)
			r.Post("/", a.handleCreateOrder)
			r.Post("/status", a.handleBulkOrderStatus)
			r.Get("/{id}", a.handleGetOrder)
			r.Patch("/{id}", a.handleUpdateOrder)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", a.handleListCustomers)
			r.Post("/", a.handleCreateCustomer)
			r.Get("/{id}", a.handleGetCustomer)
			r.Patch("/{id}", a.handleUpdateCustomer)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", a.handleListProducts)
			r.Post("/", a.handleCreateProduct)
			r.Get("/{id}", a.handleGetProduct)
			r.Patch("/{id}", a.handleUpdateProduct)
		})
	})

	return r
}
