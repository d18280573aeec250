package domain_test

import (
	"testing"

	"github.com/vladislavdragonenkov/estore/internal/domain"
)

func TestParseOrderStatus(t *testing.T) {
	for raw := uint32(0); raw <= 3; raw++ {
		status, err := domain.ParseOrderStatus(raw)
		if err != nil {
			t.Fatalf("status %d: unexpected error %v", raw, err)
		}
		if !status.Valid() {
			t.Fatalf("status %d reported invalid", raw)
		}
	}

	if _, err := domain.ParseOrderStatus(4); !domain.IsBadRequest(err) {
		t.Fatalf("out-of-range status must be rejected as bad request, got %v", err)
	}
}

func TestCreateOrderItemRequestValidate(t *testing.T) {
	valid := domain.CreateOrderItemRequest{
		CustomerID: 1,
		ProductID:  2,
		Quantity:   3,
		Status:     domain.StatusAvailable,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	zeroQty := valid
	zeroQty.Quantity = 0
	if err := zeroQty.Validate(); !domain.IsBadRequest(err) {
		t.Fatalf("zero quantity must be rejected, got %v", err)
	}

	badStatus := valid
	badStatus.Status = domain.OrderStatus(9)
	if err := badStatus.Validate(); !domain.IsBadRequest(err) {
		t.Fatalf("unknown status must be rejected, got %v", err)
	}
}

func TestUpdateOrderItemRequestEmpty(t *testing.T) {
	req := domain.UpdateOrderItemRequest{ID: 5}
	if !req.Empty() {
		t.Fatal("request without fields must be empty")
	}

	qty := uint32(2)
	req.Quantity = &qty
	if req.Empty() {
		t.Fatal("request with quantity must not be empty")
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("valid update rejected: %v", err)
	}

	zero := uint32(0)
	req.Quantity = &zero
	if err := req.Validate(); !domain.IsBadRequest(err) {
		t.Fatalf("zero quantity update must be rejected, got %v", err)
	}
}

func TestListFilterPaging(t *testing.T) {
	cases := []struct {
		name   string
		filter domain.ListFilter
		limit  uint64
		offset uint64
	}{
		{name: "defaults", filter: domain.ListFilter{}, limit: 20, offset: 0},
		{name: "second page", filter: domain.ListFilter{Page: 2, PageSize: 10}, limit: 10, offset: 20},
		{name: "default size offset", filter: domain.ListFilter{Page: 3}, limit: 20, offset: 60},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.filter.Limit(); got != tc.limit {
				t.Fatalf("limit = %d, want %d", got, tc.limit)
			}
			if got := tc.filter.Offset(); got != tc.offset {
				t.Fatalf("offset = %d, want %d", got, tc.offset)
			}
		})
	}
}
