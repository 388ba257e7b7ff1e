package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/printmart/printmart/internal/domain/errors"
	"github.com/printmart/printmart/internal/domain/model"
	"github.com/printmart/printmart/internal/test"
)

func newCartFixture() (*CartUseCase, *test.CartRepositoryStub) {
	repo := &test.CartRepositoryStub{Items: map[int64][]model.CartItem{}}
	return NewCartUseCase(repo, 24*time.Hour), repo
}

func TestCartPutAssignsDefaults(t *testing.T) {
	uc, _ := newCartFixture()

	fileName := test.RandomASCIIString(8, 24) + ".pdf"
	cart, err := uc.Put(context.Background(), 1, model.CartItem{FileName: fileName, Price: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected one item, got %d", len(cart.Items))
	}
	item := cart.Items[0]
	if item.ID == "" {
		t.Fatal("expected generated item id")
	}
	if item.CopiesCount != 1 {
		t.Fatalf("expected default copies count, got %d", item.CopiesCount)
	}
	if item.AddedAt.IsZero() {
		t.Fatal("expected timestamp")
	}
}

func TestCartPutReplacesExisting(t *testing.T) {
	uc, _ := newCartFixture()

	first, err := uc.Put(context.Background(), 1, model.CartItem{ID: "item-1", FileName: "report.pdf", Price: 100, CopiesCount: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart, err := uc.Put(context.Background(), 1, model.CartItem{ID: "item-1", FileName: "report.pdf", Price: 200, CopiesCount: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Items) != len(first.Items) {
		t.Fatalf("expected replacement, got %d items", len(cart.Items))
	}
	if cart.Items[0].CopiesCount != 2 || cart.Items[0].Price != 200 {
		t.Fatalf("expected updated item, got %+v", cart.Items[0])
	}
}

func TestCartPutValidation(t *testing.T) {
	uc, _ := newCartFixture()

	if _, err := uc.Put(context.Background(), 0, model.CartItem{FileName: "x"}); !errors.Is(err, domainErrors.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := uc.Put(context.Background(), 1, model.CartItem{}); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for missing file, got %v", err)
	}
	if _, err := uc.Put(context.Background(), 1, model.CartItem{FileName: "x", Price: -5}); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative price, got %v", err)
	}
}

func TestCartGetPrunes(t *testing.T) {
	uc, repo := newCartFixture()
	repo.Items[1] = []model.CartItem{
		{ID: "fresh", AddedAt: time.Now()},
		{ID: "stale", AddedAt: time.Now().Add(-48 * time.Hour)},
	}

	cart, err := uc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ID != "fresh" {
		t.Fatalf("expected stale item pruned, got %+v", cart.Items)
	}
}

func TestCartRemove(t *testing.T) {
	uc, repo := newCartFixture()
	repo.Items[1] = []model.CartItem{{ID: "item-1", AddedAt: time.Now()}}

	if err := uc.Remove(context.Background(), 1, "item-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := uc.Remove(context.Background(), 1, "item-1"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := uc.Remove(context.Background(), 1, ""); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty id, got %v", err)
	}
}

func TestCartClear(t *testing.T) {
	uc, repo := newCartFixture()
	repo.Items[1] = []model.CartItem{{ID: "item-1", AddedAt: time.Now()}}

	if err := uc.Clear(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.Items[1]) != 0 {
		t.Fatalf("expected empty cart, got %+v", repo.Items[1])
	}
}
