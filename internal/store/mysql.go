package store

import (
	"context"
	"database/sql"
	"errors"
)

// MySQL is a Store backed by a single `records` table:
//
//   CREATE TABLE records (
//     bucket VARCHAR(64)  NOT NULL,
//     k      VARCHAR(191) NOT NULL,
//     v      JSON         NOT NULL,
//     PRIMARY KEY (bucket, k)
//   );
//
// The upsert keeps Set idempotent under concurrent writers.
type MySQL struct {
	db *sql.DB
}

// NewMySQL returns a MySQL store bound to the provided database.
func NewMySQL(db *sql.DB) *MySQL { return &MySQL{db: db} }

// EnsureSchema creates the records table when it does not exist yet.
// Servers call this once at startup.
func (s *MySQL) EnsureSchema(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS records (
	             bucket VARCHAR(64)  NOT NULL,
	             k      VARCHAR(191) NOT NULL,
	             v      JSON         NOT NULL,
	             PRIMARY KEY (bucket, k)
	           )`
	_, err := s.db.ExecContext(ctx, q)
	return err
}

func (s *MySQL) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	const q = `SELECT v FROM records WHERE bucket = ? AND k = ?`
	var v []byte
	err := s.db.QueryRowContext(ctx, q, bucket, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *MySQL) Set(ctx context.Context, bucket, key string, value []byte) error {
	const q = `INSERT INTO records (bucket, k, v) VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE v = VALUES(v)`
	_, err := s.db.ExecContext(ctx, q, bucket, key, value)
	return err
}

func (s *MySQL) Delete(ctx context.Context, bucket, key string) error {
	const q = `DELETE FROM records WHERE bucket = ? AND k = ?`
	_, err := s.db.ExecContext(ctx, q, bucket, key)
	return err
}

func (s *MySQL) ForEach(ctx context.Context, bucket string, fn func(key string, value []byte) error) error {
	const q = `SELECT k, v FROM records WHERE bucket = ?`
	rows, err := s.db.QueryContext(ctx, q, bucket)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var k string
		var v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return err
		}
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return rows.Err()
}
