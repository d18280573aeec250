package httpapi

import (
	"net/http"

	"github.com/vladislavdragonenkov/estore/internal/domain"
)

type createCustomerBody struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type updateCustomerBody struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type listCustomersResponse struct {
	Items []domain.Customer `json:"items"`
}

func (a *API) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	customer, err := a.customers.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (a *API) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	customers, err := a.customers.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listCustomersResponse{Items: customers})
}

func (a *API) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var body createCustomerBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	customer, err := a.customers.Create(r.Context(), domain.CreateCustomerRequest{
		Name:  body.Name,
		Email: body.Email,
		Phone: body.Phone,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

func (a *API) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body updateCustomerBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	customer, err := a.customers.Update(r.Context(), domain.UpdateCustomerRequest{
		ID:    id,
		Name:  body.Name,
		Email: body.Email,
		Phone: body.Phone,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}
