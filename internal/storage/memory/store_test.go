package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/estore/internal/domain"
)

func TestTxCommitMakesWritesVisible(t *testing.T) {
	store := NewStore()
	customers := NewCustomerRepository(store)
	ctx := context.Background()
	now := time.Now().UTC()

	tx, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	if _, err := customers.Create(ctx, tx, domain.CreateCustomerRequest{Name: "Ann"}, 1, now); err != nil {
		t.Fatalf("create: %v", err)
	}

	// До Commit запись не видна вне транзакции.
	outside, err := customers.Get(ctx, nil, 1)
	if err != nil {
		t.Fatalf("get outside tx: %v", err)
	}
	if outside != nil {
		t.Fatal("uncommitted write is visible outside the transaction")
	}

	// Внутри транзакции запись видна через наложение.
	inside, err := customers.Get(ctx, tx, 1)
	if err != nil {
		t.Fatalf("get inside tx: %v", err)
	}
	if inside == nil || inside.Name != "Ann" {
		t.Fatalf("staged write not visible inside tx: %+v", inside)
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	committed, err := customers.Get(ctx, nil, 1)
	if err != nil {
		t.Fatalf("get after commit: %v", err)
	}
	if committed == nil || committed.Name != "Ann" {
		t.Fatalf("committed write lost: %+v", committed)
	}
}

func TestTxRollbackDiscardsWrites(t *testing.T) {
	store := NewStore()
	products := NewProductRepository(store)
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	req := domain.CreateProductRequest{Name: "Pen", Currency: 840, Price: decimal.RequireFromString("1.50")}
	if _, err := products.Create(ctx, tx, req, 2, time.Now().UTC()); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	if store.ProductCount() != 0 {
		t.Fatalf("rollback left %d products behind", store.ProductCount())
	}

	// Завершённую транзакцию нельзя завершить повторно.
	if err := tx.Commit(); err == nil {
		t.Fatal("commit after rollback must fail")
	}
}

func TestForeignTxRejected(t *testing.T) {
	store := NewStore()
	other := NewStore()
	customers := NewCustomerRepository(store)

	tx, err := other.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := customers.Get(context.Background(), tx, 1); err == nil {
		t.Fatal("repository accepted a transaction from a different store")
	}
}
