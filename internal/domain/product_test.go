package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/estore/internal/domain"
)

func TestUpdateProductRequestMerge(t *testing.T) {
	old := domain.Product{
		ID:        10,
		Name:      "Pen",
		Currency:  840,
		Price:     decimal.RequireFromString("1.50"),
		CreatedAt: time.Now().UTC(),
	}

	newPrice := decimal.RequireFromString("2.05")
	merged := domain.UpdateProductRequest{ID: 10, Price: &newPrice}.Merge(old)

	if merged.Name != "Pen" || merged.Currency != 840 {
		t.Fatalf("untouched fields changed: %+v", merged)
	}
	// Точная десятичная арифметика: никакого дрейфа копеек.
	if !merged.Price.Equal(newPrice) {
		t.Fatalf("price = %s, want %s", merged.Price, newPrice)
	}
	if merged.ID != old.ID || !merged.CreatedAt.Equal(old.CreatedAt) {
		t.Fatal("identity fields must survive merge")
	}
}

func TestUpdateProductRequestValidate(t *testing.T) {
	negative := decimal.RequireFromString("-0.01")
	req := domain.UpdateProductRequest{ID: 1, Price: &negative}
	if err := req.Validate(); !domain.IsBadRequest(err) {
		t.Fatalf("negative price must be rejected, got %v", err)
	}
}

func TestSnapshots(t *testing.T) {
	email := "ann@example.com"
	customer := domain.Customer{ID: 1, Name: "Ann", Email: &email, CreatedAt: time.Now().UTC()}
	snap := customer.Snapshot()
	if snap.ID != 1 || snap.Name != "Ann" || !snap.CreatedAt.Equal(customer.CreatedAt) {
		t.Fatalf("unexpected customer snapshot: %+v", snap)
	}

	product := domain.Product{ID: 2, Name: "Pen", Currency: 840, Price: decimal.NewFromInt(3), CreatedAt: time.Now().UTC()}
	psnap := product.Snapshot()
	if psnap.ID != 2 || psnap.Name != "Pen" || !psnap.Price.Equal(product.Price) {
		t.Fatalf("unexpected product snapshot: %+v", psnap)
	}
}
