package kernelstore

import (
	"context"
	"testing"

	"algcore/internal/bitpack"
	"algcore/internal/cover"
)

func lit(v int, neg bool) bitpack.Literal { return bitpack.Literal{Var: bitpack.Var(v), Negated: neg} }

func mustCover(t *testing.T, n int, cubes [][]bitpack.Literal) *cover.Cover {
	t.Helper()
	c, err := cover.New(n, cubes)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func openMemStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite3::memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreLookupMiss(t *testing.T) {
	s := openMemStore(t)
	f := mustCover(t, 2, [][]bitpack.Literal{{lit(0, false)}})
	entry, err := s.Lookup(context.Background(), f, "quick")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected a miss on an empty store, got %+v", entry)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s := openMemStore(t)
	ctx := context.Background()
	f := mustCover(t, 3, [][]bitpack.Literal{
		{lit(0, false), lit(1, false)},
		{lit(0, false), lit(2, false)},
	})
	if err := s.Store(ctx, f, "good", "(and x0 (or x1 x2))", 3); err != nil {
		t.Fatalf("Store: %v", err)
	}
	entry, err := s.Lookup(ctx, f, "good")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if entry == nil {
		t.Fatalf("expected a hit after Store")
	}
	if entry.ExprText != "(and x0 (or x1 x2))" || entry.LiteralNum != 3 {
		t.Fatalf("unexpected cached entry: %+v", entry)
	}
}

func TestStoreDistinguishesStrategies(t *testing.T) {
	s := openMemStore(t)
	ctx := context.Background()
	f := mustCover(t, 2, [][]bitpack.Literal{{lit(0, false), lit(1, false)}})
	if err := s.Store(ctx, f, "quick", "quick-expr", 2); err != nil {
		t.Fatalf("Store: %v", err)
	}
	entry, err := s.Lookup(ctx, f, "good")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected cache entries to be keyed per strategy, got a hit for an unrelated strategy")
	}
}

func TestStoreUpsertOverwrites(t *testing.T) {
	s := openMemStore(t)
	ctx := context.Background()
	f := mustCover(t, 2, [][]bitpack.Literal{{lit(0, false), lit(1, false)}})
	if err := s.Store(ctx, f, "quick", "first", 5); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := s.Store(ctx, f, "quick", "second", 2); err != nil {
		t.Fatalf("Store: %v", err)
	}
	entry, err := s.Lookup(ctx, f, "quick")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if entry == nil || entry.ExprText != "second" || entry.LiteralNum != 2 {
		t.Fatalf("expected upsert to overwrite, got %+v", entry)
	}
}

func TestOpenRejectsUnsupportedDriver(t *testing.T) {
	if _, err := Open("oracle:whatever"); err == nil {
		t.Fatalf("expected an error for an unsupported driver")
	}
}

func TestOpenRejectsMalformedDSN(t *testing.T) {
	if _, err := Open("no-colon-here"); err == nil {
		t.Fatalf("expected an error for a malformed DSN")
	}
}
