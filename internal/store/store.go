// Package store persists nomination records and settings in SQLite.
//
// The pipeline only needs Exists and InsertBatch; the query, filter, and
// pagination surface serves the HTTP API. modernc.org/sqlite keeps the build
// pure Go.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/fyrsmithlabs/nominationd/internal/contract"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// Nomination is one persisted nomination record.
type Nomination struct {
	ID             string             `json:"id"`
	ContractName   string             `json:"contract_name"`
	Buyer          string             `json:"buyer"`
	Seller         string             `json:"seller"`
	ArrivalPeriod  contract.CivilDate `json:"arrival_period"`
	NominationDate contract.CivilDate `json:"nomination_date"`
	Type           string             `json:"nomination_type"`
	Keyword        string             `json:"nomination_keyword"`
	Description    string             `json:"nomination_description"`
	Party          contract.Party     `json:"for_seller_or_buyer"`
	Sent           bool               `json:"sent"`
	Received       bool               `json:"received"`
	CreatedAt      time.Time          `json:"created_at"`
}

// Store wraps the SQLite database.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// New creates or opens the nomination database at path.
func New(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path, logger: logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS nominations (
		id TEXT PRIMARY KEY,
		contract_name TEXT NOT NULL,
		buyer TEXT NOT NULL,
		seller TEXT NOT NULL,
		arrival_period TEXT NOT NULL,
		nomination_date TEXT NOT NULL,
		nomination_type TEXT NOT NULL,
		nomination_keyword TEXT NOT NULL,
		nomination_description TEXT NOT NULL,
		for_seller_or_buyer TEXT NOT NULL CHECK (for_seller_or_buyer IN ('seller', 'buyer')),
		sent INTEGER NOT NULL DEFAULT 0,
		received INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_nominations_contract ON nominations(contract_name);
	CREATE INDEX IF NOT EXISTS idx_nominations_date ON nominations(nomination_date);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT
	);`

	_, err := s.db.Exec(schema)
	return err
}

// Exists reports whether any record for the contract identity is already
// persisted. The dedup gate skips a whole document on true.
func (s *Store) Exists(ctx context.Context, contractName string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM nominations WHERE contract_name = ?`, contractName).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking contract %s: %w", contractName, err)
	}
	return n > 0, nil
}

// InsertBatch persists one document's assembled records in a single
// transaction and returns the inserted count.
func (s *Store) InsertBatch(ctx context.Context, records []contract.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nominations (
			id, contract_name, buyer, seller, arrival_period, nomination_date,
			nomination_type, nomination_keyword, nomination_description,
			for_seller_or_buyer, sent, received, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.ID, r.ContractName, r.Buyer, r.Seller,
			isoDate(r.ArrivalPeriod), isoDate(r.NominationDate),
			r.Type, r.Keyword, r.Description, string(r.Party), now,
		); err != nil {
			return 0, fmt.Errorf("inserting record for %s: %w", r.ContractName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing batch: %w", err)
	}
	return len(records), nil
}

// Insert persists a single manually created nomination, including its
// sent/received flags.
func (s *Store) Insert(ctx context.Context, n *Nomination) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO nominations (
			id, contract_name, buyer, seller, arrival_period, nomination_date,
			nomination_type, nomination_keyword, nomination_description,
			for_seller_or_buyer, sent, received, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.ContractName, n.Buyer, n.Seller,
		isoDate(n.ArrivalPeriod), isoDate(n.NominationDate),
		n.Type, n.Keyword, n.Description, string(n.Party), n.Sent, n.Received, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting nomination %s: %w", n.ID, err)
	}
	return nil
}

// Get retrieves one nomination by ID.
func (s *Store) Get(ctx context.Context, id string) (*Nomination, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` FROM nominations WHERE id = ?`, id)
	n, err := scanNomination(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting nomination %s: %w", id, err)
	}
	return n, nil
}

// Update overwrites a nomination's mutable fields.
func (s *Store) Update(ctx context.Context, n *Nomination) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE nominations SET
			buyer = ?, seller = ?, arrival_period = ?, nomination_date = ?,
			nomination_type = ?, nomination_keyword = ?, nomination_description = ?,
			for_seller_or_buyer = ?, sent = ?, received = ?
		WHERE id = ?`,
		n.Buyer, n.Seller, isoDate(n.ArrivalPeriod), isoDate(n.NominationDate),
		n.Type, n.Keyword, n.Description, string(n.Party), n.Sent, n.Received, n.ID)
	if err != nil {
		return fmt.Errorf("updating nomination %s: %w", n.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a nomination.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM nominations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting nomination %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// BulkSetStatus marks nominations as sent or received. The two flags are
// mutually exclusive: marking one clears the other.
func (s *Store) BulkSetStatus(ctx context.Context, ids []string, action string) (int64, error) {
	if action != "sent" && action != "received" {
		return 0, fmt.Errorf("invalid action %q (want sent or received)", action)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	var set string
	if action == "sent" {
		set = "sent = 1, received = 0"
	} else {
		set = "received = 1, sent = 0"
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE nominations SET %s WHERE id IN (%s)`, set, placeholders), args...)
	if err != nil {
		return 0, fmt.Errorf("bulk status update: %w", err)
	}
	return res.RowsAffected()
}

const selectColumns = `SELECT id, contract_name, buyer, seller, arrival_period, nomination_date,
	nomination_type, nomination_keyword, nomination_description,
	for_seller_or_buyer, sent, received, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNomination(row rowScanner) (*Nomination, error) {
	var n Nomination
	var arrival, due string
	var party string
	if err := row.Scan(
		&n.ID, &n.ContractName, &n.Buyer, &n.Seller, &arrival, &due,
		&n.Type, &n.Keyword, &n.Description, &party, &n.Sent, &n.Received, &n.CreatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if n.ArrivalPeriod, err = parseISODate(arrival); err != nil {
		return nil, fmt.Errorf("corrupt arrival_period %q: %w", arrival, err)
	}
	if n.NominationDate, err = parseISODate(due); err != nil {
		return nil, fmt.Errorf("corrupt nomination_date %q: %w", due, err)
	}
	n.Party = contract.Party(party)
	return &n, nil
}

// isoDate formats a civil date as YYYY-MM-DD; lexicographic order equals
// calendar order, so date filters are plain string comparisons.
func isoDate(d contract.CivilDate) string {
	return d.Time().Format("2006-01-02")
}

func parseISODate(s string) (contract.CivilDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return contract.CivilDate{}, err
	}
	return contract.DateOf(t), nil
}
