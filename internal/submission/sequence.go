package submission

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"diseasemcp/internal/logging"
)

const sequenceName = "submission"

// SequenceAllocator is a monotonic counter persisted in SQLite. Each Next is
// a single UPDATE ... RETURNING, so concurrent processes sharing the database
// never receive the same id.
type SequenceAllocator struct {
	mu sync.Mutex

	db     *sql.DB
	dbPath string
}

// OpenSequenceAllocator opens (or creates) the sequence database at dbPath.
// On first creation the counter is seeded from the highest numbered file in
// dataDir so numbering carries on from existing submissions.
func OpenSequenceAllocator(ctx context.Context, dbPath, dataDir string) (*SequenceAllocator, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create sequence directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sequence database: %w", err)
	}

	a := &SequenceAllocator{db: db, dbPath: dbPath}
	if err := a.initialize(ctx, dataDir); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// initialize creates the schema and seeds the counter.
func (a *SequenceAllocator) initialize(ctx context.Context, dataDir string) error {
	_, err := a.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sequences (
			name  TEXT PRIMARY KEY,
			value INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create sequences table: %w", err)
	}

	seed, _, err := MaxID(dataDir)
	if err != nil {
		return err
	}

	res, err := a.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sequences (name, value) VALUES (?, ?)`, sequenceName, seed)
	if err != nil {
		return fmt.Errorf("failed to seed sequence: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		logging.Get(logging.CategoryStore).Info("sequence %s seeded at %d from %s", a.dbPath, seed, dataDir)
	}
	return nil
}

// Next increments and returns the counter.
func (a *SequenceAllocator) Next(ctx context.Context) (ID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var n int64
	err := a.db.QueryRowContext(ctx,
		`UPDATE sequences SET value = value + 1 WHERE name = ? RETURNING value`, sequenceName).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("failed to advance sequence: %w", err)
	}
	return FormatID(n), nil
}

// Current returns the last allocated value without advancing.
func (a *SequenceAllocator) Current(ctx context.Context) (int64, error) {
	var n int64
	err := a.db.QueryRowContext(ctx,
		`SELECT value FROM sequences WHERE name = ?`, sequenceName).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to read sequence: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (a *SequenceAllocator) Close() error {
	return a.db.Close()
}

// Peek returns the id the next call to Next will produce.
func (a *SequenceAllocator) Peek(ctx context.Context) (ID, error) {
	n, err := a.Current(ctx)
	if err != nil {
		return "", err
	}
	return FormatID(n + 1), nil
}
