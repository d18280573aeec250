package httpapi

import (
	"net/http"

	"github.com/vladislavdragonenkov/estore/internal/domain"
)

type createOrderBody struct {
	CustomerID uint64 `json:"customer_id"`
	ProductID  uint64 `json:"product_id"`
	Quantity   uint32 `json:"quantity"`
	Status     uint32 `json:"status"`
}

type updateOrderBody struct {
	CustomerID *uint64 `json:"customer_id"`
	ProductID  *uint64 `json:"product_id"`
	Quantity   *uint32 `json:"quantity"`
	Status     *uint32 `json:"status"`
}

type bulkOrderStatusBody struct {
	IDs    []uint64 `json:"ids"`
	Status uint32   `json:"status"`
}

type bulkOrderStatusResponse struct {
	Affected bool `json:"affected"`
}

type listOrdersResponse struct {
	Items []domain.OrderItem `json:"items"`
}

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	item, err := a.orders.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items, err := a.orders.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOrdersResponse{Items: items})
}

func (a *API) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var body createOrderBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	status, err := domain.ParseOrderStatus(body.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	item, err := a.orders.Create(r.Context(), domain.CreateOrderItemRequest{
		CustomerID: body.CustomerID,
		ProductID:  body.ProductID,
		Quantity:   body.Quantity,
		Status:     status,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (a *API) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body updateOrderBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	req := domain.UpdateOrderItemRequest{
		ID:         id,
		CustomerID: body.CustomerID,
		ProductID:  body.ProductID,
		Quantity:   body.Quantity,
	}
	if body.Status != nil {
		status, err := domain.ParseOrderStatus(*body.Status)
		if err != nil {
			writeError(w, r, err)
			return
		}
		req.Status = &status
	}

	item, _, err := a.orders.Update(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (a *API) handleBulkOrderStatus(w http.ResponseWriter, r *http.Request) {
	var body bulkOrderStatusBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	status, err := domain.ParseOrderStatus(body.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	affected, err := a.orders.UpdateStatusBulk(r.Context(), domain.UpdateOrderItemsStatusRequest{
		IDs:    body.IDs,
		Status: status,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bulkOrderStatusResponse{Affected: affected})
}
