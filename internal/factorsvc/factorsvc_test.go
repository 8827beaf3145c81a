package factorsvc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"algcore/internal/bitpack"
	"algcore/internal/cover"
	"algcore/internal/kernelstore"
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

func startTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	srv := NewServer()
	ts := httptest.NewServer(http.HandlerFunc(srv.Handler))
	t.Cleanup(ts.Close)
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	return srv, url
}

func TestFactorRoundTrip(t *testing.T) {
	_, url := startTestServer(t)
	conn, err := Dial(url)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	f := mustCover(t, 4, [][]bitpack.Literal{
		{lit(0, false), lit(2, false)},
		{lit(0, false), lit(3, false)},
		{lit(1, false), lit(2, false)},
		{lit(1, false), lit(3, false)},
	})
	resp, err := conn.Factor(f, "quick")
	if err != nil {
		t.Fatalf("Factor: %v", err)
	}
	if resp.ExprText == "" {
		t.Fatalf("expected a non-empty factored expression")
	}
	if resp.LiteralNum > 4 {
		t.Fatalf("expected quick-factored literal count <= 4, got %d", resp.LiteralNum)
	}
}

func TestFactorUnknownStrategy(t *testing.T) {
	_, url := startTestServer(t)
	conn, err := Dial(url)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	f := mustCover(t, 2, [][]bitpack.Literal{{lit(0, false)}})
	if _, err := conn.Factor(f, "nonsense"); err == nil {
		t.Fatalf("expected an error for an unknown strategy")
	}
}

func TestFactorUsesAttachedStore(t *testing.T) {
	st, err := kernelstore.Open("sqlite3::memory:")
	if err != nil {
		t.Fatalf("kernelstore.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	srv := NewServer(WithStore(st))
	ts := httptest.NewServer(http.HandlerFunc(srv.Handler))
	t.Cleanup(ts.Close)
	url := "ws" + strings.TrimPrefix(ts.URL, "http")

	conn, err := Dial(url)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	f := mustCover(t, 2, [][]bitpack.Literal{{lit(0, false)}})
	first, err := conn.Factor(f, "quick")
	if err != nil {
		t.Fatalf("Factor: %v", err)
	}

	if hit, err := st.Lookup(context.Background(), f, "quick"); err != nil {
		t.Fatalf("Lookup: %v", err)
	} else if hit == nil {
		t.Fatalf("expected the first request to populate the kernelstore cache")
	} else if hit.ExprText != first.ExprText {
		t.Fatalf("cached expr %q, want %q", hit.ExprText, first.ExprText)
	}

	second, err := conn.Factor(f, "quick")
	if err != nil {
		t.Fatalf("Factor (cached): %v", err)
	}
	if second.ExprText != first.ExprText {
		t.Fatalf("cached response %q, want %q", second.ExprText, first.ExprText)
	}
}

func TestServerTracksClientIDs(t *testing.T) {
	srv, url := startTestServer(t)
	conn, err := Dial(url)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	f := mustCover(t, 2, [][]bitpack.Literal{{lit(0, false)}})
	if _, err := conn.Factor(f, "quick"); err != nil {
		t.Fatalf("Factor: %v", err)
	}
	if len(srv.ClientIDs()) != 1 {
		t.Fatalf("expected exactly one tracked client, got %d", len(srv.ClientIDs()))
	}
}
