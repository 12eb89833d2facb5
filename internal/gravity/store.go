// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package gravity is the sqlite-backed list database: the bulk blocklist
// ("gravity"), the operator-managed allow/deny lists in their exact and
// regex flavors, and the audit list of already-reviewed domains.
package gravity

import (
	"bufio"
	"database/sql"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/miekg/dns"
	_ "modernc.org/sqlite"

	"grimm.is/sinkhole/internal/errors"
	"grimm.is/sinkhole/internal/logging"
)

// ListType names one of the managed domain lists.
type ListType string

const (
	ListAllow      ListType = "allow"
	ListDeny       ListType = "deny"
	ListRegexAllow ListType = "regex_allow"
	ListRegexDeny  ListType = "regex_deny"
	ListAudit      ListType = "audit"
)

// Valid reports whether t names a managed list.
func (t ListType) Valid() bool {
	switch t {
	case ListAllow, ListDeny, ListRegexAllow, ListRegexDeny, ListAudit:
		return true
	}
	return false
}

func (t ListType) regex() bool { return t == ListRegexAllow || t == ListRegexDeny }

// Store handles persistence of the domain lists to SQLite.
type Store struct {
	db *sql.DB
}

// Open opens or creates the list database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open gravity db: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS gravity (
		domain TEXT PRIMARY KEY
	) WITHOUT ROWID;
	CREATE TABLE IF NOT EXISTS list_entries (
		list TEXT NOT NULL,
		entry TEXT NOT NULL,
		added INTEGER NOT NULL, -- Unix timestamp
		PRIMARY KEY (list, entry)
	);
	CREATE INDEX IF NOT EXISTS idx_entries_list ON list_entries(list);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Entries returns the contents of list t in insertion order.
func (s *Store) Entries(t ListType) ([]string, error) {
	if !t.Valid() {
		return nil, errors.Errorf(errors.KindValidation, "unknown list %q", t)
	}
	rows, err := s.db.Query(
		`SELECT entry FROM list_entries WHERE list = ? ORDER BY added, entry`, string(t))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s list: %w", t, err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Add inserts entry into list t. Domains are lower-cased; regex entries
// must compile. Re-adding an existing entry is a no-op.
func (s *Store) Add(t ListType, entry string) error {
	entry, err := normalize(t, entry)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT OR IGNORE INTO list_entries (list, entry, added) VALUES (?, ?, ?)`,
		string(t), entry, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to add to %s list: %w", t, err)
	}
	logging.Debug("[GRAVITY] added %q to %s", entry, t)
	return nil
}

// Remove deletes entry from list t. Removing an absent entry reports
// KindNotFound.
func (s *Store) Remove(t ListType, entry string) error {
	if !t.Valid() {
		return errors.Errorf(errors.KindValidation, "unknown list %q", t)
	}
	if !t.regex() {
		entry = strings.ToLower(entry)
	}
	res, err := s.db.Exec(
		`DELETE FROM list_entries WHERE list = ? AND entry = ?`, string(t), entry)
	if err != nil {
		return fmt.Errorf("failed to remove from %s list: %w", t, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Errorf(errors.KindNotFound, "%q not on %s list", entry, t)
	}
	logging.Debug("[GRAVITY] removed %q from %s", entry, t)
	return nil
}

func normalize(t ListType, entry string) (string, error) {
	if !t.Valid() {
		return "", errors.Errorf(errors.KindValidation, "unknown list %q", t)
	}
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return "", errors.New(errors.KindValidation, "empty list entry")
	}
	if t.regex() {
		if _, err := regexp.Compile(entry); err != nil {
			return "", errors.Wrapf(err, errors.KindValidation, "invalid regex %q", entry)
		}
		return entry, nil
	}
	entry = strings.ToLower(entry)
	if !validDomain(entry) {
		return "", errors.Errorf(errors.KindValidation, "invalid domain %q", entry)
	}
	return entry, nil
}

// validDomain accepts lower-cased host names. IsDomainName enforces the
// wire length limits but passes nearly any byte, so the character set is
// checked separately.
func validDomain(d string) bool {
	if _, ok := dns.IsDomainName(d); !ok {
		return false
	}
	for _, r := range d {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// AuditDomains returns the audit list for ranking filters. Failures are
// logged and read as an empty list; a broken database must not take the
// reporting surface down with it.
func (s *Store) AuditDomains() []string {
	entries, err := s.Entries(ListAudit)
	if err != nil {
		logging.Warn("[GRAVITY] audit list unavailable: %v", err)
		return nil
	}
	return entries
}

// Size returns the number of domains on the bulk blocklist.
func (s *Store) Size() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM gravity`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count gravity: %w", err)
	}
	return n, nil
}

// ImportGravity replaces the bulk blocklist with the domains read from r,
// one per line; blank lines and #-comments are skipped. Returns the new
// list size.
func (s *Store) ImportGravity(r io.Reader) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin gravity import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM gravity`); err != nil {
		return 0, err
	}
	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO gravity (domain) VALUES (?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		domain := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if domain == "" || strings.HasPrefix(domain, "#") {
			continue
		}
		if !validDomain(domain) {
			continue
		}
		if _, err := stmt.Exec(domain); err != nil {
			return 0, err
		}
		n++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to read gravity source: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	size, err := s.Size()
	if err != nil {
		return 0, err
	}
	logging.Info("[GRAVITY] imported blocklist", "lines", n, "size", size)
	return size, nil
}
