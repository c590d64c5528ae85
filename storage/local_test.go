package storage

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	key := DocumentKey("contract", "msa.pdf")
	if key != "docs/contracts/msa.pdf" {
		t.Fatalf("DocumentKey = %q", key)
	}
	if err := store.Upload(ctx, key, strings.NewReader("pdf bytes")); err != nil {
		t.Fatal(err)
	}

	rc, err := store.Download(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "pdf bytes" {
		t.Errorf("downloaded %q", data)
	}
}

func TestLocalStorage_ListByPrefix(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	for _, key := range []string{
		DocumentKey("policy", "handbook.md"),
		DocumentKey("contract", "msa.pdf"),
		DocumentKey("contract", "nda.pdf"),
	} {
		if err := store.Upload(ctx, key, strings.NewReader("x")); err != nil {
			t.Fatal(err)
		}
	}

	contracts, err := store.List(ctx, ContractPrefix)
	if err != nil {
		t.Fatal(err)
	}
	if len(contracts) != 2 {
		t.Errorf("expected 2 contract keys, got %v", contracts)
	}
	for _, k := range contracts {
		if !strings.HasPrefix(k, ContractPrefix) {
			t.Errorf("key %q outside prefix", k)
		}
	}

	policies, err := store.List(ctx, PolicyPrefix)
	if err != nil {
		t.Fatal(err)
	}
	if len(policies) != 1 {
		t.Errorf("expected 1 policy key, got %v", policies)
	}
}

func TestLocalStorage_ListMissingPrefix(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	keys, err := store.List(context.Background(), "docs/none/")
	if err != nil {
		t.Fatalf("missing prefix is not an error: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("expected no keys, got %v", keys)
	}
}

func TestLocalStorage_Delete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	key := DocumentKey("policy", "old.txt")
	if err := store.Upload(ctx, key, strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Download(ctx, key); err == nil {
		t.Error("deleted key should not download")
	}
	// Deleting again is a no-op.
	if err := store.Delete(ctx, key); err != nil {
		t.Errorf("double delete: %v", err)
	}
}
