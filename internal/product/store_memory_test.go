package product_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"MiniAdmin/internal/product"
)

func seed(t *testing.T, s *product.MemStore, ids ...string) {
	t.Helper()
	for _, id := range ids {
		p := product.Product{
			ID:          id,
			Name:        "p-" + id,
			Description: "desc",
			Price:       10,
			Tags:        []string{},
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.Insert(context.Background(), p); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}
}

func TestMemStore_ListPreservesInsertionOrder(t *testing.T) {
	s := product.NewMemStore(true)
	seed(t, s, "3", "1", "2")

	got, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	var ids []string
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	if !reflect.DeepEqual(ids, []string{"3", "1", "2"}) {
		t.Fatalf("order = %v", ids)
	}
}

func TestMemStore_ExactMatchWinsOverFallback(t *testing.T) {
	s := product.NewMemStore(true)

	// A stored id that itself looks like a foreign object id must resolve
	// exactly, never through the last-character reduction.
	const hexID = "507f1f77bcf86cd799439011"
	seed(t, s, "1", hexID)

	p, ok, err := s.FindByID(context.Background(), hexID)
	if err != nil || !ok {
		t.Fatalf("find: ok=%v err=%v", ok, err)
	}
	if p.ID != hexID {
		t.Fatalf("resolved %q, want %q", p.ID, hexID)
	}
}

func TestMemStore_FallbackMatchesLastCharacter(t *testing.T) {
	s := product.NewMemStore(true)
	seed(t, s, "1", "2")

	p, ok, err := s.FindByID(context.Background(), "507f1f77bcf86cd799439011")
	if err != nil || !ok {
		t.Fatalf("find: ok=%v err=%v", ok, err)
	}
	if p.ID != "1" {
		t.Fatalf("resolved %q, want %q", p.ID, "1")
	}

	if i := s.FindIndexByID("507f1f77bcf86cd799439012"); i != 1 {
		t.Fatalf("index = %d, want 1", i)
	}
}

func TestMemStore_FallbackCollision(t *testing.T) {
	// Two distinct foreign ids sharing a trailing character collapse onto
	// the same short-id record. Intentional historical behavior.
	s := product.NewMemStore(true)
	seed(t, s, "1")

	for _, id := range []string{"507f1f77bcf86cd799439011", "aaaaaaaaaaaaaaaaaaaaaaa1"} {
		p, ok, err := s.FindByID(context.Background(), id)
		if err != nil || !ok {
			t.Fatalf("find %s: ok=%v err=%v", id, ok, err)
		}
		if p.ID != "1" {
			t.Fatalf("find %s resolved %q", id, p.ID)
		}
	}
}

func TestMemStore_FallbackDisabled(t *testing.T) {
	s := product.NewMemStore(false)
	seed(t, s, "1")

	_, ok, err := s.FindByID(context.Background(), "507f1f77bcf86cd799439011")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if ok {
		t.Fatal("fallback matched with the shim disabled")
	}
}

func TestMemStore_NoFallbackForNonHexIDs(t *testing.T) {
	s := product.NewMemStore(true)
	seed(t, s, "1")

	// Same length, not hex: fallback must not fire.
	_, ok, err := s.FindByID(context.Background(), "zzzzzzzzzzzzzzzzzzzzzzz1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if ok {
		t.Fatal("fallback matched a non-hex id")
	}
}

func TestMemStore_UpdateMergesOnlySuppliedFields(t *testing.T) {
	s := product.NewMemStore(true)

	orig := product.Product{
		ID:          "1",
		Name:        "Widget",
		Description: "A widget",
		Price:       100,
		Tags:        []string{"a", "b", "c"},
		CreatedAt:   time.Now().UTC().Add(-time.Hour),
	}
	if err := s.Insert(context.Background(), orig); err != nil {
		t.Fatalf("insert: %v", err)
	}

	newPrice := 80.0
	got, ok, err := s.Update(context.Background(), "1", product.Patch{Price: &newPrice})
	if err != nil || !ok {
		t.Fatalf("update: ok=%v err=%v", ok, err)
	}

	if got.Price != 80 {
		t.Errorf("price = %v", got.Price)
	}
	if got.Name != "Widget" || got.Description != "A widget" {
		t.Errorf("unsupplied fields changed: %+v", got)
	}
	if !reflect.DeepEqual(got.Tags, []string{"a", "b", "c"}) {
		t.Errorf("tags changed: %v", got.Tags)
	}
	if got.UpdatedAt == nil {
		t.Fatal("updatedAt not stamped")
	}
	if !got.CreatedAt.Equal(orig.CreatedAt) {
		t.Errorf("createdAt changed")
	}

	// A second update must not move updatedAt backward.
	first := *got.UpdatedAt
	got2, _, err := s.Update(context.Background(), "1", product.Patch{})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if got2.UpdatedAt.Before(first) {
		t.Errorf("updatedAt went backward: %v < %v", got2.UpdatedAt, first)
	}
}

func TestMemStore_RemoveExactlyOne(t *testing.T) {
	s := product.NewMemStore(true)
	seed(t, s, "1", "2", "3")

	removed, ok, err := s.Remove(context.Background(), "2")
	if err != nil || !ok {
		t.Fatalf("remove: ok=%v err=%v", ok, err)
	}
	if removed.ID != "2" {
		t.Fatalf("removed %q", removed.ID)
	}

	got, _ := s.List(context.Background())
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("remaining order: %s, %s", got[0].ID, got[1].ID)
	}

	if _, ok, _ := s.FindByID(context.Background(), "2"); ok {
		t.Fatal("removed record still resolvable")
	}

	if _, ok, _ := s.Remove(context.Background(), "2"); ok {
		t.Fatal("second remove reported success")
	}
}
