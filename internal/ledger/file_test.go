package ledger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/plata-pay/plata_pay/internal/logging"
)

func TestFileStore_StartsEmptyWithoutSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balances.json")

	store, err := OpenFile(path, logging.Discard())
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}

	exists, err := store.Exists(context.Background(), BankCode("bank1"))
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("expected empty ledger")
	}
}

func TestFileStore_LoadsSeededSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balances.json")
	if err := os.WriteFile(path, []byte(`{"bank:bank1": 500}`), 0o644); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	store, err := OpenFile(path, logging.Discard())
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}

	balance, err := store.Balance(context.Background(), BankCode("bank1"))
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected balance 500, got %s", balance)
	}
}

func TestFileStore_MalformedSnapshotStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balances.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0o644); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	store, err := OpenFile(path, logging.Discard())
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}

	exists, err := store.Exists(context.Background(), BankCode("bank1"))
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("expected empty ledger after malformed snapshot")
	}
}

func TestFileStore_SnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "balances.json")

	store, err := OpenFile(path, logging.Discard())
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}

	if _, err := store.Credit(ctx, BankCode("bank1"), decimal.NewFromInt(500)); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if _, err := store.Debit(ctx, WalletCode("w1"), decimal.NewFromInt(120)); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if err := store.Snapshot(ctx); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary snapshot file left behind: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	var persisted map[string]decimal.Decimal
	if err := json.Unmarshal(raw, &persisted); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if !persisted["bank:bank1"].Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected bank:bank1=500, got %s", persisted["bank:bank1"])
	}
	if !persisted["wallet:w1"].Equal(decimal.NewFromInt(-120)) {
		t.Fatalf("expected wallet:w1=-120, got %s", persisted["wallet:w1"])
	}

	reloaded, err := OpenFile(path, logging.Discard())
	if err != nil {
		t.Fatalf("reopen file store: %v", err)
	}
	balance, err := reloaded.Balance(ctx, WalletCode("w1"))
	if err != nil {
		t.Fatalf("balance after reload: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(-120)) {
		t.Fatalf("expected reloaded balance -120, got %s", balance)
	}
}

func TestFileStore_NamespacedCodesDoNotCollide(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "balances.json")

	store, err := OpenFile(path, logging.Discard())
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}

	if _, err := store.Credit(ctx, BankCode("acme"), decimal.NewFromInt(300)); err != nil {
		t.Fatalf("credit bank: %v", err)
	}

	exists, err := store.Exists(ctx, WalletCode("acme"))
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("wallet namespace must not see the bank account")
	}
}
