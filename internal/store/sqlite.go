package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite

	"github.com/funvibe/iclc/internal/bytecode"
)

const schema = `
CREATE TABLE IF NOT EXISTS builds (
	id         TEXT PRIMARY KEY,
	file       TEXT NOT NULL,
	source     TEXT NOT NULL,
	created_at TEXT NOT NULL,
	bundle     BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS classes (
	build_id TEXT NOT NULL REFERENCES builds(id),
	name     TEXT NOT NULL,
	kind     TEXT NOT NULL,
	assembly TEXT NOT NULL,
	PRIMARY KEY (build_id, name)
);`

// Fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore keeps every build in one database. It is both a Sink and a
// Source.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One writer; concurrent compiles serialize on the connection.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init %s: %w", path, err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Write(ctx context.Context, b *Build) error {
	data, err := b.Bundle().Serialize()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO builds (id, file, source, created_at, bundle) VALUES (?, ?, ?, ?, ?)`,
		b.ID.String(), b.File, b.Source, b.Created.UTC().Format(timeLayout), data,
	); err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	for _, c := range b.Classes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO classes (build_id, name, kind, assembly) VALUES (?, ?, ?, ?)`,
			b.ID.String(), c.Name, string(c.Kind), bytecode.Disassemble(c),
		); err != nil {
			return fmt.Errorf("insert class %s: %w", c.Name, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Latest(ctx context.Context) (*Build, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, file, source, created_at, bundle FROM builds ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	return scanBuild(row)
}

func (s *SQLiteStore) Load(ctx context.Context, id uuid.UUID) (*Build, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, file, source, created_at, bundle FROM builds WHERE id = ?`, id.String())
	return scanBuild(row)
}

// ClassInfo is one row of the classes table.
type ClassInfo struct {
	Name     string
	Kind     bytecode.Kind
	Assembly string
}

// Classes lists the classes of build id in name order.
func (s *SQLiteStore) Classes(ctx context.Context, id uuid.UUID) ([]ClassInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, kind, assembly FROM classes WHERE build_id = ? ORDER BY name`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ClassInfo
	for rows.Next() {
		var ci ClassInfo
		var kind string
		if err := rows.Scan(&ci.Name, &kind, &ci.Assembly); err != nil {
			return nil, err
		}
		ci.Kind = bytecode.Kind(kind)
		out = append(out, ci)
	}
	return out, rows.Err()
}

func scanBuild(row *sql.Row) (*Build, error) {
	var (
		rawID, file, source, created string
		data                         []byte
	)
	err := row.Scan(&rawID, &file, &source, &created, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	bundle, err := bytecode.Deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", rawID, err)
	}
	b, err := fromBundle(bundle)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", rawID, err)
	}
	b.File = file
	b.Source = source
	if b.Created, err = time.Parse(timeLayout, created); err != nil {
		return nil, fmt.Errorf("build %s: %w", rawID, err)
	}
	return b, nil
}
