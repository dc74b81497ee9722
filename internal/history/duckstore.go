// Package history keeps a log of chart exports in an embedded DuckDB file.
package history

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chart-builder/backend/internal/models"
	"github.com/google/uuid"
	"github.com/marcboeker/go-duckdb"
)

// DuckStore records export attempts in a DuckDB database.
type DuckStore struct {
	mu     sync.Mutex
	db     *sql.DB
	dbPath string
}

// Open opens (or creates) the history database at dbPath.
func Open(dbPath string) (*DuckStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA threads=1",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				fmt.Printf("[History] Pragma warning: %v\n", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS exports (
			id             VARCHAR PRIMARY KEY,
			session_id     VARCHAR,
			file_name      VARCHAR,
			base_node      VARCHAR,
			server_path    VARCHAR,
			server_version VARCHAR,
			analog_count   INTEGER NOT NULL,
			binary_count   INTEGER NOT NULL,
			success        BOOLEAN NOT NULL,
			message        VARCHAR,
			created_at     BIGINT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create exports table: %w", err)
	}

	fmt.Printf("[History] Using database at %s\n", dbPath)
	return &DuckStore{db: db, dbPath: dbPath}, nil
}

// Record stores rec, filling in ID and CreatedAt when unset.
func (s *DuckStore) Record(ctx context.Context, rec *models.ExportRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exports (id, session_id, file_name, base_node, server_path, server_version,
			analog_count, binary_count, success, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.FileName, rec.BaseNode, rec.ServerPath, rec.ServerVersion,
		rec.AnalogCount, rec.BinaryCount, rec.Success, rec.Message, rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("inserting export record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *DuckStore) Recent(ctx context.Context, limit int) ([]models.ExportRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, file_name, base_node, server_path, server_version,
			analog_count, binary_count, success, message, created_at
		FROM exports
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying export records: %w", err)
	}
	defer rows.Close()

	records := make([]models.ExportRecord, 0)
	for rows.Next() {
		var rec models.ExportRecord
		var createdAt int64
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.FileName, &rec.BaseNode, &rec.ServerPath,
			&rec.ServerVersion, &rec.AnalogCount, &rec.BinaryCount, &rec.Success, &rec.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning export record: %w", err)
		}
		rec.CreatedAt = time.UnixMilli(createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Path returns the database file path.
func (s *DuckStore) Path() string {
	return s.dbPath
}

// Close closes the database.
func (s *DuckStore) Close() error {
	return s.db.Close()
}
