package httpapi

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/estore/internal/domain"
)

type createProductBody struct {
	Name     string          `json:"name"`
	Currency int32           `json:"currency"`
	Price    decimal.Decimal `json:"price"`
}

type updateProductBody struct {
	Name     *string          `json:"name"`
	Currency *int32           `json:"currency"`
	Price    *decimal.Decimal `json:"price"`
}

type listProductsResponse struct {
	Items []domain.Product `json:"items"`
}

func (a *API) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	product, err := a.products.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	products, err := a.products.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listProductsResponse{Items: products})
}

func (a *API) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var body createProductBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	product, err := a.products.Create(r.Context(), domain.CreateProductRequest{
		Name:     body.Name,
		Currency: body.Currency,
		Price:    body.Price,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (a *API) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body updateProductBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	product, err := a.products.Update(r.Context(), domain.UpdateProductRequest{
		ID:       id,
		Name:     body.Name,
		Currency: body.Currency,
		Price:    body.Price,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}
