package links

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/plata-pay/plata_pay/internal/ledger"
)

func TestRegistryLinkRequiresExistingBankAccount(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewInMemory()
	registry := NewRegistry(store)

	err := registry.Link(ctx, "w1", "ghost")
	if !errors.Is(err, ledger.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if len(registry.LinkedAccounts("w1")) != 0 {
		t.Fatal("failed link must leave the registry unchanged")
	}
}

func TestRegistryLinkIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewInMemory()
	ledger.SeedBalance(store, ledger.BankCode("bank1"), decimal.NewFromInt(500))
	registry := NewRegistry(store)

	if err := registry.Link(ctx, "w1", "bank1"); err != nil {
		t.Fatalf("first link: %v", err)
	}
	if err := registry.Link(ctx, "w1", "bank1"); err != nil {
		t.Fatalf("second link: %v", err)
	}

	linked := registry.LinkedAccounts("w1")
	if len(linked) != 1 || linked[0] != "bank1" {
		t.Fatalf("expected exactly one link to bank1, got %v", linked)
	}
	if !registry.IsLinked("w1", "bank1") {
		t.Fatal("expected pair to be linked")
	}
}

func TestRegistryIsLinkedScopedPerWallet(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewInMemory()
	ledger.SeedBalance(store, ledger.BankCode("bank1"), decimal.NewFromInt(500))
	registry := NewRegistry(store)

	if err := registry.Link(ctx, "w1", "bank1"); err != nil {
		t.Fatalf("link: %v", err)
	}

	if registry.IsLinked("w2", "bank1") {
		t.Fatal("link for w1 must not authorize w2")
	}
}
