package devserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Iron-Ham/backoffice/internal/errors"
	"github.com/Iron-Ham/backoffice/internal/record"
	"github.com/Iron-Ham/backoffice/internal/resource"
)

// sortLayout keeps created_at lexicographically ordered.
const sortLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS records (
    resource   TEXT NOT NULL,
    id         TEXT NOT NULL,
    created_at TEXT NOT NULL,
    body       TEXT NOT NULL,
    PRIMARY KEY (resource, id)
);
CREATE INDEX IF NOT EXISTS idx_records_created ON records(resource, created_at DESC);
`

// matchClause matches any top-level value of the JSON body against a LIKE
// pattern.
const matchClause = `(? = '' OR EXISTS (
    SELECT 1 FROM json_each(records.body)
    WHERE lower(CAST(json_each.value AS TEXT)) LIKE ? ESCAPE '\'
))`

// Store keeps every resource's records in one SQLite table. Bodies are
// stored verbatim so each resource keeps its own payload shape.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Page is one page of stored records, newest first.
type Page struct {
	Records      []record.Raw
	Page         int
	Limit        int
	TotalPages   int
	TotalRecords int
}

func likePattern(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return ""
	}
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

// List returns page of resource's records whose values contain q. A page
// beyond the last one is clamped to the last page.
func (s *Store) List(ctx context.Context, res string, page, limit int, q string) (Page, error) {
	pattern := likePattern(q)
	limit = max(limit, 1)

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE resource = ? AND `+matchClause,
		res, pattern, pattern).Scan(&total)
	if err != nil {
		return Page{}, fmt.Errorf("count %s: %w", res, err)
	}

	out := Page{
		Page:         max(page, 1),
		Limit:        limit,
		TotalRecords: total,
		TotalPages:   resource.TotalPages(total, limit),
	}
	out.Page = min(out.Page, out.TotalPages)

	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM records WHERE resource = ? AND `+matchClause+`
		 ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		res, pattern, pattern, limit, (out.Page-1)*limit)
	if err != nil {
		return Page{}, fmt.Errorf("list %s: %w", res, err)
	}
	defer func() { _ = rows.Close() }()

	out.Records = make([]record.Raw, 0, limit)
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return Page{}, fmt.Errorf("scan %s: %w", res, err)
		}
		raw, err := decodeBody(body)
		if err != nil {
			return Page{}, err
		}
		out.Records = append(out.Records, raw)
	}
	return out, rows.Err()
}

// Get returns record id of res.
func (s *Store) Get(ctx context.Context, res, id string) (record.Raw, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM records WHERE resource = ? AND id = ?`, res, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError(res, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", res, id, err)
	}
	return decodeBody(body)
}

// Insert stores body under id.
func (s *Store) Insert(ctx context.Context, res, id string, createdAt time.Time, body record.Raw) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", res, id, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (resource, id, created_at, body) VALUES (?, ?, ?, ?)`,
		res, id, createdAt.UTC().Format(sortLayout), string(buf))
	if err != nil {
		return fmt.Errorf("insert %s/%s: %w", res, id, err)
	}
	return nil
}

// Replace overwrites the body of record id.
func (s *Store) Replace(ctx context.Context, res, id string, body record.Raw) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", res, id, err)
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE records SET body = ? WHERE resource = ? AND id = ?`, string(buf), res, id)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", res, id, err)
	}
	return requireOne(result, res, id)
}

// Delete removes record id.
func (s *Store) Delete(ctx context.Context, res, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE resource = ? AND id = ?`, res, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", res, id, err)
	}
	return requireOne(result, res, id)
}

// Count returns how many records res holds.
func (s *Store) Count(ctx context.Context, res string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE resource = ?`, res).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", res, err)
	}
	return n, nil
}

func requireOne(result sql.Result, res, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NewNotFoundError(res, id)
	}
	return nil
}

func decodeBody(body string) (record.Raw, error) {
	var raw record.Raw
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("decode stored body: %w", err)
	}
	return raw, nil
}
