package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/cyberwatchdog/internal/model"
)

// DefaultListLimit is used by List when limit is not positive.
const DefaultListLimit = 20

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// HistoryDB is the SQLite-backed assessment history.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file when missing.
	CreateIfNotExists bool

	// EnableWAL switches the journal to write-ahead logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database at dbPath.
func Open(dbPath string, opts Options) (*HistoryDB, error) {
	mode := "rw"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		mode = "rwc"
	} else if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("database not found at %s: %w", dbPath, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to check database path: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?mode="+mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	h := &HistoryDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := h.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return h, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS assessments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		target TEXT NOT NULL,
		verdict TEXT NOT NULL,
		english TEXT NOT NULL,
		nepali TEXT NOT NULL,
		details TEXT NOT NULL,
		final_url TEXT,
		title TEXT,
		redirects INTEGER DEFAULT 0,
		content_hash TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_assessments_target ON assessments(target);
	CREATE INDEX IF NOT EXISTS idx_assessments_verdict ON assessments(verdict);
	CREATE INDEX IF NOT EXISTS idx_assessments_created ON assessments(created_at);
	`
	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// Record is one stored assessment.
type Record struct {
	ID          int64
	Target      string
	Verdict     model.Verdict
	English     string
	Nepali      string
	Details     []model.Detail
	FinalURL    string
	Title       string
	Redirects   int
	ContentHash string
	CreatedAt   time.Time
}

// Result rebuilds the assessment result. Snippets are not stored.
func (r *Record) Result() *model.AssessmentResult {
	details := r.Details
	if details == nil {
		details = []model.Detail{}
	}
	return &model.AssessmentResult{
		Verdict: r.Verdict,
		English: r.English,
		Nepali:  r.Nepali,
		Details: details,
		Meta: model.Meta{
			FinalURL:      r.FinalURL,
			Title:         r.Title,
			RedirectCount: r.Redirects,
		},
	}
}

// ContentHash returns the hex BLAKE2b-256 digest of the result's snippets,
// or "" when nothing was acquired.
func ContentHash(result *model.AssessmentResult) string {
	if result.Meta.TextSnippet == "" && result.Meta.MarkupSnippet == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(result.Meta.TextSnippet + "\x00" + result.Meta.MarkupSnippet))
	return hex.EncodeToString(sum[:])
}

// Save stores result under target and returns the new record ID.
func (h *HistoryDB) Save(ctx context.Context, target string, result *model.AssessmentResult) (int64, error) {
	if result == nil {
		return 0, errors.New("nil assessment result")
	}

	details, err := json.Marshal(result.Details)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize details: %w", err)
	}

	query := `
	INSERT INTO assessments (target, verdict, english, nepali, details, final_url, title, redirects, content_hash, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := h.db.ExecContext(ctx, query,
		target,
		result.Verdict.String(),
		result.English,
		result.Nepali,
		string(details),
		result.Meta.FinalURL,
		result.Meta.Title,
		result.Meta.RedirectCount,
		ContentHash(result),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save assessment: %w", err)
	}
	return res.LastInsertId()
}

const selectColumns = `id, target, verdict, english, nepali, details, final_url, title, redirects, content_hash, created_at`

// Get returns the record with the given ID.
func (h *HistoryDB) Get(ctx context.Context, id int64) (*Record, error) {
	row := h.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM assessments WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("assessment %d: %w", id, ErrNotFound)
	}
	return rec, err
}

// List returns the most recent records, newest first.
func (h *HistoryDB) List(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return h.query(ctx, `SELECT `+selectColumns+` FROM assessments ORDER BY id DESC LIMIT ?`, limit)
}

// ListByTarget returns the records for one target, newest first.
func (h *HistoryDB) ListByTarget(ctx context.Context, target string, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return h.query(ctx,
		`SELECT `+selectColumns+` FROM assessments WHERE target = ? ORDER BY id DESC LIMIT ?`,
		target, limit)
}

// CountByVerdict tallies all stored records by verdict.
func (h *HistoryDB) CountByVerdict(ctx context.Context) (map[model.Verdict]int, error) {
	rows, err := h.db.QueryContext(ctx, `SELECT verdict, COUNT(*) FROM assessments GROUP BY verdict`)
	if err != nil {
		return nil, fmt.Errorf("failed to count assessments: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Verdict]int, 4)
	for rows.Next() {
		var (
			name string
			n    int
		)
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		v, err := model.ParseVerdict(name)
		if err != nil {
			return nil, err
		}
		counts[v] = n
	}
	return counts, rows.Err()
}

func (h *HistoryDB) query(ctx context.Context, query string, args ...any) ([]*Record, error) {
	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*Record, error) {
	var (
		rec       Record
		verdict   string
		details   string
		finalURL  sql.NullString
		title     sql.NullString
		hash      sql.NullString
		createdAt string
	)
	err := s.Scan(&rec.ID, &rec.Target, &verdict, &rec.English, &rec.Nepali, &details,
		&finalURL, &title, &rec.Redirects, &hash, &createdAt)
	if err != nil {
		return nil, err
	}

	if rec.Verdict, err = model.ParseVerdict(verdict); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(details), &rec.Details); err != nil {
		return nil, fmt.Errorf("failed to deserialize details: %w", err)
	}
	rec.FinalURL = finalURL.String
	rec.Title = title.String
	rec.ContentHash = hash.String
	rec.CreatedAt = parseTimestamp(createdAt)
	return &rec, nil
}

var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// parseTimestamp returns the zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
