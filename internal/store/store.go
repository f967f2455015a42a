// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists canonical records in SQLite, keyed by natural key.
// Re-ingesting the same upstream data any number of times updates fields in
// place and never creates duplicate rows; the UNIQUE constraint on the
// natural key is the real guarantee under concurrent upserts.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/civiclens/civiclens/pkg/types"
)

// Outcome reports whether an upsert inserted a new row or updated one.
type Outcome string

const (
	Inserted Outcome = "inserted"
	Updated  Outcome = "updated"
)

// ErrNotFound is returned by lookups for ids with no row.
var ErrNotFound = fmt.Errorf("not found")

// Store is the canonical SQLite store.
type Store struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

// kindTables maps record kinds to their tables.
var kindTables = map[types.RecordKind]string{
	types.KindPolitician:  "politicians",
	types.KindBill:        "bills",
	types.KindLegalAct:    "legal_acts",
	types.KindProcurement: "procurement_contracts",
	types.KindLobbyist:    "lobbyists",
	types.KindElection:    "elections",
	types.KindArticle:     "articles",
}

// NewStore opens or creates the database at path and ensures the schema.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, sb: sq.StatementBuilder.PlaceholderFormat(sq.Question)}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS politicians (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			natural_key TEXT NOT NULL UNIQUE,
			name TEXT, party TEXT, jurisdiction TEXT, level TEXT,
			role TEXT, email TEXT, term_start TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS bills (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			natural_key TEXT NOT NULL UNIQUE,
			number TEXT, session TEXT, title TEXT, status TEXT, sponsor TEXT,
			introduced_at TEXT, votes_for INTEGER DEFAULT 0, votes_against INTEGER DEFAULT 0,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS legal_acts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			natural_key TEXT NOT NULL UNIQUE,
			number TEXT, year INTEGER DEFAULT 0, title TEXT, category TEXT,
			adopted_at TEXT, url TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS procurement_contracts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			natural_key TEXT NOT NULL UNIQUE,
			contract_number TEXT, buyer TEXT, supplier TEXT, subject TEXT,
			value REAL DEFAULT 0, currency TEXT, awarded_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS lobbyists (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			natural_key TEXT NOT NULL UNIQUE,
			registry_number TEXT, name TEXT, organization TEXT, clients TEXT,
			registered_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS elections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			natural_key TEXT NOT NULL UNIQUE,
			election_id TEXT, type TEXT, date TEXT, jurisdiction TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS articles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			natural_key TEXT NOT NULL UNIQUE,
			url TEXT, title TEXT, summary TEXT, body TEXT, source_name TEXT,
			published TEXT, credibility INTEGER DEFAULT 0, bias TEXT,
			updated_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source_name)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// column is one upsertable field. A zero value ('' or 0) means the incoming
// payload did not carry the field, so the existing row value is preserved.
type column struct {
	name    string
	value   any
	numeric bool
	always  bool
}

// Upsert merges one record by its natural key: insert when absent, update
// present fields in place when found. Safe for concurrent calls on the same
// key; last writer wins on contested fields.
func (s *Store) Upsert(ctx context.Context, rec types.Record) (Outcome, error) {
	table, cols, err := recordColumns(rec)
	if err != nil {
		return "", err
	}

	var exists int
	err = s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT count(*) FROM %s WHERE natural_key = ?`, table),
		rec.NaturalKey(),
	).Scan(&exists)
	if err != nil {
		return "", fmt.Errorf("checking %s: %w", table, err)
	}

	cols = append(cols, column{name: "updated_at", value: time.Now().UTC().Format(time.RFC3339), always: true})

	names := make([]string, 0, len(cols)+1)
	placeholders := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(cols)+1)
	names = append(names, "natural_key")
	placeholders = append(placeholders, "?")
	args = append(args, rec.NaturalKey())
	for _, c := range cols {
		names = append(names, c.name)
		placeholders = append(placeholders, "?")
		args = append(args, c.value)
	}

	sets := make([]string, 0, len(cols))
	for _, c := range cols {
		switch {
		case c.always:
			sets = append(sets, fmt.Sprintf("%s = excluded.%s", c.name, c.name))
		case c.numeric:
			sets = append(sets, fmt.Sprintf(
				"%s = CASE WHEN excluded.%s <> 0 THEN excluded.%s ELSE %s.%s END",
				c.name, c.name, c.name, table, c.name))
		default:
			sets = append(sets, fmt.Sprintf(
				"%s = CASE WHEN excluded.%s <> '' THEN excluded.%s ELSE %s.%s END",
				c.name, c.name, c.name, table, c.name))
		}
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(natural_key) DO UPDATE SET %s`,
		table,
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(sets, ", "),
	)

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("upserting into %s: %w", table, err)
	}

	if exists > 0 {
		return Updated, nil
	}
	return Inserted, nil
}

func recordColumns(rec types.Record) (string, []column, error) {
	switch r := rec.(type) {
	case types.Politician:
		return "politicians", []column{
			{name: "name", value: r.Name},
			{name: "party", value: r.Party},
			{name: "jurisdiction", value: r.Jurisdiction},
			{name: "level", value: r.Level},
			{name: "role", value: r.Role},
			{name: "email", value: r.Email},
			{name: "term_start", value: timeText(r.TermStart)},
		}, nil
	case types.Bill:
		return "bills", []column{
			{name: "number", value: r.Number},
			{name: "session", value: r.Session},
			{name: "title", value: r.Title},
			{name: "status", value: r.Status},
			{name: "sponsor", value: r.Sponsor},
			{name: "introduced_at", value: timeText(r.IntroducedAt)},
			{name: "votes_for", value: r.VotesFor, numeric: true},
			{name: "votes_against", value: r.VotesAgainst, numeric: true},
		}, nil
	case types.LegalAct:
		return "legal_acts", []column{
			{name: "number", value: r.Number},
			{name: "year", value: r.Year, numeric: true},
			{name: "title", value: r.Title},
			{name: "category", value: r.Category},
			{name: "adopted_at", value: timeText(r.AdoptedAt)},
			{name: "url", value: r.URL},
		}, nil
	case types.ProcurementContract:
		return "procurement_contracts", []column{
			{name: "contract_number", value: r.ContractNumber},
			{name: "buyer", value: r.Buyer},
			{name: "supplier", value: r.Supplier},
			{name: "subject", value: r.Subject},
			{name: "value", value: r.Value, numeric: true},
			{name: "currency", value: r.Currency},
			{name: "awarded_at", value: timeText(r.AwardedAt)},
		}, nil
	case types.Lobbyist:
		clients, _ := json.Marshal(r.Clients)
		clientsText := string(clients)
		if r.Clients == nil {
			clientsText = ""
		}
		return "lobbyists", []column{
			{name: "registry_number", value: r.RegistryNumber},
			{name: "name", value: r.Name},
			{name: "organization", value: r.Organization},
			{name: "clients", value: clientsText},
			{name: "registered_at", value: timeText(r.RegisteredAt)},
		}, nil
	case types.Election:
		return "elections", []column{
			{name: "election_id", value: r.ElectionID},
			{name: "type", value: r.Type},
			{name: "date", value: timeText(r.Date)},
			{name: "jurisdiction", value: r.Jurisdiction},
		}, nil
	case types.Article:
		return "articles", []column{
			{name: "url", value: r.URL},
			{name: "title", value: r.Title},
			{name: "summary", value: r.Summary},
			{name: "body", value: r.Body},
			{name: "source_name", value: r.SourceName},
			{name: "published", value: timeText(r.Published)},
			{name: "credibility", value: r.Credibility, numeric: true},
			{name: "bias", value: string(r.Bias)},
		}, nil
	default:
		return "", nil, fmt.Errorf("unsupported record type %T", rec)
	}
}

func timeText(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
