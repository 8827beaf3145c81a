// Package kernelstore persists factoring results behind database/sql
// (the factored expression text and its literal count, per cover and
// strategy), so a caller re-factoring the same cover (e.g. across
// process restarts, or across worker processes behind
// internal/factorsvc) can skip the factoring run. Kernel/co-kernel
// pairs themselves are not stored.
// Dispatch across sqlite3/postgres/mysql mirrors the teacher's
// multi-driver database module, trimmed to a cache instead of a
// connection-scanning tool.
package kernelstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"algcore/internal/bitpack"
	"algcore/internal/cover"
)

// Store is a database-backed cache of factored expressions keyed by
// cover hash and variable count.
type Store struct {
	db     *sql.DB
	driver string
	mu     sync.Mutex
}

// Open dials a database by DSN, dispatching the driver from its
// prefix — "sqlite3:", "postgres:", or "mysql:" — the way the
// teacher's Connect switches on an explicit type string, except here
// the type rides along in the DSN itself since there is no separate
// connection-parameter struct to carry it.
func Open(dsn string) (*Store, error) {
	driver, rest, err := splitDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, rest)
	if err != nil {
		return nil, fmt.Errorf("kernelstore: open %s: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("kernelstore: ping %s: %w", driver, err)
	}
	s := &Store{db: db, driver: driver}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func splitDSN(dsn string) (driver, rest string, err error) {
	parts := strings.SplitN(dsn, ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("kernelstore: malformed DSN %q, want driver:connstring", dsn)
	}
	switch parts[0] {
	case "sqlite3", "postgres", "mysql":
		return parts[0], parts[1], nil
	default:
		return "", "", fmt.Errorf("kernelstore: unsupported driver %q", parts[0])
	}
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS factor_cache (
		cover_hash INTEGER NOT NULL,
		var_num    INTEGER NOT NULL,
		strategy   TEXT NOT NULL,
		cubes_json TEXT NOT NULL,
		expr_text  TEXT NOT NULL,
		literals   INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (cover_hash, var_num, strategy)
	)`)
	if err != nil {
		return fmt.Errorf("kernelstore: ensure schema: %w", err)
	}
	return nil
}

// Entry is one cached factoring result.
type Entry struct {
	ExprText    string
	LiteralNum  int
	CreatedAt   time.Time
}

// Lookup returns the cached factoring of f under the named strategy
// ("quick", "good", "bool"), if present. A miss is (nil, nil), not an
// error.
func (s *Store) Lookup(ctx context.Context, f *cover.Cover, strategy string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT cubes_json, expr_text, literals, created_at FROM factor_cache
		 WHERE cover_hash = ? AND var_num = ? AND strategy = ?`),
		f.Hash(), f.VarNum(), strategy)

	var cubesJSON, exprText string
	var literals int
	var createdAt time.Time
	if err := row.Scan(&cubesJSON, &exprText, &literals, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("kernelstore: lookup: %w", err)
	}

	// Hash collisions are possible (spec §4.5's hash is a summary, not
	// an identity); verify the stored cubes actually match f before
	// trusting the cached expression.
	stored, err := decodeCubes(cubesJSON)
	if err != nil {
		return nil, err
	}
	if !sameCubes(f.LiteralList(), stored) {
		return nil, nil
	}
	return &Entry{ExprText: exprText, LiteralNum: literals, CreatedAt: createdAt}, nil
}

// Store records a factoring result for f under strategy.
func (s *Store) Store(ctx context.Context, f *cover.Cover, strategy, exprText string, literalNum int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cubesJSON, err := encodeCubes(f.LiteralList())
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, s.rebind(s.upsertQuery()),
		f.Hash(), f.VarNum(), strategy, cubesJSON, exprText, literalNum, time.Now())
	if err != nil {
		return fmt.Errorf("kernelstore: store: %w", err)
	}
	return nil
}

// upsertQuery picks the insert-or-update dialect for s.driver: MySQL
// has no ON CONFLICT clause, so it gets the ON DUPLICATE KEY form.
func (s *Store) upsertQuery() string {
	if s.driver == "mysql" {
		return `INSERT INTO factor_cache (cover_hash, var_num, strategy, cubes_json, expr_text, literals, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE
		   cubes_json = VALUES(cubes_json), expr_text = VALUES(expr_text),
		   literals = VALUES(literals), created_at = VALUES(created_at)`
	}
	return `INSERT INTO factor_cache (cover_hash, var_num, strategy, cubes_json, expr_text, literals, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (cover_hash, var_num, strategy) DO UPDATE SET
		   cubes_json = excluded.cubes_json, expr_text = excluded.expr_text,
		   literals = excluded.literals, created_at = excluded.created_at`
}

// rebind rewrites ?-style placeholders to $1, $2, ... for postgres,
// which lib/pq requires; sqlite3 and mysql take the query as written.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

type wireLiteral struct {
	Var     int  `json:"v"`
	Negated bool `json:"n"`
}

func encodeCubes(cubes [][]bitpack.Literal) (string, error) {
	wire := make([][]wireLiteral, len(cubes))
	for i, lits := range cubes {
		row := make([]wireLiteral, len(lits))
		for j, l := range lits {
			row[j] = wireLiteral{Var: int(l.Var), Negated: l.Negated}
		}
		wire[i] = row
	}
	b, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("kernelstore: encode cubes: %w", err)
	}
	return string(b), nil
}

func decodeCubes(s string) ([][]bitpack.Literal, error) {
	var wire [][]wireLiteral
	if err := json.Unmarshal([]byte(s), &wire); err != nil {
		return nil, fmt.Errorf("kernelstore: decode cubes: %w", err)
	}
	out := make([][]bitpack.Literal, len(wire))
	for i, row := range wire {
		lits := make([]bitpack.Literal, len(row))
		for j, l := range row {
			lits[j] = bitpack.Literal{Var: bitpack.Var(l.Var), Negated: l.Negated}
		}
		out[i] = lits
	}
	return out, nil
}

func sameCubes(a, b [][]bitpack.Literal) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}
