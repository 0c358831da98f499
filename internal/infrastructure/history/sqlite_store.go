package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/iop/internal/domain"
	"github.com/doeshing/iop/internal/pkg/filesystem"
	"github.com/doeshing/iop/internal/ports"
)

const schema = `CREATE TABLE IF NOT EXISTS commands (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT,
	query TEXT,
	command TEXT,
	model TEXT,
	executed INTEGER,
	success INTEGER,
	exit_code INTEGER,
	risk_level TEXT,
	execution_time_ms INTEGER
);`

// SQLiteStore persists history in a SQLite database.
type SQLiteStore struct {
	path string
}

// NewSQLiteStore uses <config dir>/history.db.
func NewSQLiteStore() *SQLiteStore {
	return NewSQLiteStoreAt(filepath.Join(filesystem.ConfigDir(), "history.db"))
}

// NewSQLiteStoreAt uses the database file at path.
func NewSQLiteStoreAt(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Save inserts a new record.
func (s *SQLiteStore) Save(ctx context.Context, record domain.HistoryRecord) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	return s.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `INSERT INTO commands
			(timestamp, query, command, model, executed, success, exit_code, risk_level, execution_time_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			record.Timestamp.UTC().Format(domain.TimestampFormat),
			record.Query,
			record.Command,
			record.Model,
			boolToInt(record.Executed),
			boolToInt(record.Success),
			record.ExitCode,
			string(record.RiskLevel),
			record.ExecutionTimeMS,
		)
		return err
	})
}

// Records returns history entries, newest first (limit/search optional).
func (s *SQLiteStore) Records(ctx context.Context, limit int, search string) ([]domain.HistoryRecord, error) {
	builder := strings.Builder{}
	builder.WriteString("SELECT timestamp, query, command, model, executed, success, exit_code, risk_level, execution_time_ms FROM commands")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE query LIKE ? OR command LIKE ?")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	builder.WriteString(" ORDER BY id DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	var records []domain.HistoryRecord
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, builder.String(), args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var rec domain.HistoryRecord
			var ts, risk string
			var executed, success int
			if err := rows.Scan(&ts, &rec.Query, &rec.Command, &rec.Model, &executed, &success, &rec.ExitCode, &risk, &rec.ExecutionTimeMS); err != nil {
				return err
			}
			if t, err := time.Parse(domain.TimestampFormat, ts); err == nil {
				rec.Timestamp = t
			}
			rec.Executed = executed == 1
			rec.Success = success == 1
			rec.RiskLevel = domain.RiskLevel(risk)
			records = append(records, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return records, nil
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	return s.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, "DELETE FROM commands")
		return err
	})
}

// ExportJSON writes the command table as JSON lines.
func (s *SQLiteStore) ExportJSON(ctx context.Context, w io.Writer) error {
	records, err := s.Records(ctx, 0, "")
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) withDB(ctx context.Context, fn func(*sql.DB) error) error {
	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	defer db.Close()
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return err
	}
	return fn(db)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
