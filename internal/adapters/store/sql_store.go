// Package store persists the user directory and msg_emails records in MySQL
// or SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/email-reconciler/internal/core"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

const userColumns = `id, name, genre, email, email2, address, user_code, buyer_id, producer_id, domain, domain2`

const msgEmailColumns = `id, input, address, user_ud, created_at,
	ai_name1, ai_name2, ai_name1pre, ai_name2pre, ai_name3, ai_genre, ai_email, ai_domain,
	ai_is_personal, ai_confidence, ai_status, ai_notes, ai_domain_convention, ai_version, ai_model, ai_processed_at`

// SQLStore implements UserDirectory and MsgEmailRepository over database/sql
type SQLStore struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
}

// NewSQLStore opens the database and creates the schema. driver is "mysql"
// or "sqlite3".
func NewSQLStore(driver, dsn string, logger *zap.Logger) (*SQLStore, error) {
	var schema []string
	switch driver {
	case "sqlite3":
		schema = sqliteSchema
	case "mysql":
		schema = mysqlSchema
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	if driver == "sqlite3" {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return &SQLStore{db: db, driver: driver, logger: logger}, nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// InsertUser adds or replaces a directory user
func (s *SQLStore) InsertUser(ctx context.Context, u *core.UserRecord) error {
	verb := "INSERT OR REPLACE INTO"
	if s.driver == "mysql" {
		verb = "REPLACE INTO"
	}
	_, err := s.db.ExecContext(ctx, verb+` users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, string(u.Genre), u.Email, u.Email2, u.Address, u.UserCode, u.BuyerID, u.ProducerID,
		strings.ToLower(u.Domain), strings.ToLower(u.Domain2))
	if err != nil {
		return fmt.Errorf("failed to insert user %s: %w", u.ID, err)
	}
	return nil
}

// GetUsersByEmail returns users whose email or email2 equals the address
func (s *SQLStore) GetUsersByEmail(ctx context.Context, email string) ([]core.UserRecord, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	return s.queryUsers(ctx, `SELECT `+userColumns+` FROM users
		WHERE LOWER(email) = ? OR LOWER(email2) = ?
		ORDER BY id`, email, email)
}

// GetUsersByDomain returns users registered under domain or one of its
// subdomains, by domain column or by email address
func (s *SQLStore) GetUsersByDomain(ctx context.Context, domain string) ([]core.UserRecord, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return nil, nil
	}
	sub := "%." + domain
	at := "%@" + domain
	return s.queryUsers(ctx, `SELECT `+userColumns+` FROM users
		WHERE LOWER(domain) = ? OR LOWER(domain) LIKE ?
			OR LOWER(domain2) = ? OR LOWER(domain2) LIKE ?
			OR LOWER(email) LIKE ? OR LOWER(email) LIKE ?
		ORDER BY id`, domain, sub, domain, sub, at, sub)
}

func (s *SQLStore) queryUsers(ctx context.Context, query string, args ...interface{}) ([]core.UserRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []core.UserRecord
	for rows.Next() {
		var u core.UserRecord
		var genre string
		if err := rows.Scan(&u.ID, &u.Name, &genre, &u.Email, &u.Email2, &u.Address, &u.UserCode,
			&u.BuyerID, &u.ProducerID, &u.Domain, &u.Domain2); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.Genre = core.Genre(genre)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// Insert stores a new msg_emails record
func (s *SQLStore) Insert(ctx context.Context, rec *core.MsgEmailRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO msg_emails (id, input, address, user_ud, created_at, ai_status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Input, rec.Address, rec.UserUd, rec.CreatedAt.Unix(), string(core.StatusUnprocessed))
	if err != nil {
		return fmt.Errorf("failed to insert msg_email %s: %w", rec.ID, err)
	}
	if rec.AI != nil {
		return s.SaveExtraction(ctx, rec.ID, rec.AI)
	}
	return nil
}

// Get retrieves a record by id
func (s *SQLStore) Get(ctx context.Context, id string) (*core.MsgEmailRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+msgEmailColumns+` FROM msg_emails WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query msg_email %s: %w", id, err)
	}
	defer rows.Close()

	recs, err := scanMsgEmails(rows)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return &recs[0], nil
}

// ListPending returns up to limit unprocessed records, oldest first
func (s *SQLStore) ListPending(ctx context.Context, limit int) ([]core.MsgEmailRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+msgEmailColumns+` FROM msg_emails
		WHERE ai_status = ?
		ORDER BY created_at, id
		LIMIT ?`, string(core.StatusUnprocessed), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending msg_emails: %w", err)
	}
	defer rows.Close()
	return scanMsgEmails(rows)
}

// SaveExtraction writes the ai_* columns of a record
func (s *SQLStore) SaveExtraction(ctx context.Context, id string, ai *core.AIExtraction) error {
	r := ai.Result
	processedAt := ai.ProcessedAt
	if processedAt.IsZero() {
		processedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `UPDATE msg_emails SET
			ai_name1 = ?, ai_name2 = ?, ai_name1pre = ?, ai_name2pre = ?, ai_name3 = ?,
			ai_genre = ?, ai_email = ?, ai_domain = ?, ai_is_personal = ?, ai_confidence = ?,
			ai_status = ?, ai_notes = ?, ai_domain_convention = ?, ai_version = ?, ai_model = ?,
			ai_processed_at = ?
		WHERE id = ?`,
		r.Name1, r.Name2, r.Name1Pre, r.Name2Pre, r.Name3,
		string(r.Genre), r.Email, r.Domain, r.IsPersonal, r.Confidence,
		string(r.ExtractionStatus), ai.Notes, string(ai.DomainConvention), ai.Version, ai.Model,
		processedAt.Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to save extraction for %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		s.logger.Warn("Failed to get rows affected", zap.String("id", id), zap.Error(err))
		return nil
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanMsgEmails(rows *sql.Rows) ([]core.MsgEmailRecord, error) {
	var recs []core.MsgEmailRecord
	for rows.Next() {
		var rec core.MsgEmailRecord
		var ai core.AIExtraction
		var createdAt int64
		var processedAt sql.NullInt64
		var notes sql.NullString
		var genre, status, convention string

		if err := rows.Scan(&rec.ID, &rec.Input, &rec.Address, &rec.UserUd, &createdAt,
			&ai.Result.Name1, &ai.Result.Name2, &ai.Result.Name1Pre, &ai.Result.Name2Pre, &ai.Result.Name3,
			&genre, &ai.Result.Email, &ai.Result.Domain, &ai.Result.IsPersonal, &ai.Result.Confidence,
			&status, &notes, &convention, &ai.Version, &ai.Model, &processedAt); err != nil {
			return nil, fmt.Errorf("failed to scan msg_email: %w", err)
		}

		rec.CreatedAt = time.Unix(createdAt, 0)
		ai.Result.Genre = core.Genre(genre)
		ai.Result.ExtractionStatus = core.ExtractionStatus(status)
		ai.DomainConvention = core.NamingConvention(convention)
		ai.Notes = notes.String
		if processedAt.Valid {
			ai.ProcessedAt = time.Unix(processedAt.Int64, 0)
			rec.AI = &ai
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate msg_emails: %w", err)
	}
	return recs, nil
}
