package common

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

// Pool lazily opens one *sql.DB and hands the same handle to every caller.
type Pool struct {
	dsn          string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  time.Duration

	mu sync.Mutex
	db *sql.DB
}

func NewPool(dsn string, maxOpenConns, maxIdleConns int, maxIdleTime time.Duration) *Pool {
	return &Pool{
		dsn:          dsn,
		maxOpenConns: maxOpenConns,
		maxIdleConns: maxIdleConns,
		maxIdleTime:  maxIdleTime,
	}
}

// Acquire returns the shared connection pool, connecting on first use. A failed
// connection attempt is not remembered, so the next call tries again.
func (p *Pool) Acquire(ctx context.Context) (*sql.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		return p.db, nil
	}

	if p.dsn == "" {
		return nil, errors.New("database connection string is not configured")
	}

	db, err := connectDB(ctx, p.dsn, p.maxOpenConns, p.maxIdleConns, p.maxIdleTime)
	if err != nil {
		return nil, err
	}

	p.db = db
	return p.db, nil
}

// Close closes the underlying connection pool if it was ever opened.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return nil
	}

	err := p.db.Close()
	p.db = nil
	return err
}

// connectDB connects to the database and returns the connection
func connectDB(ctx context.Context, URI string, maxOpenConns int, maxIdleConns int, maxIdleTime time.Duration) (*sql.DB, error) {
	db, err := sql.Open("postgres", URI)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(maxIdleTime)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// MigrateUp applies every pending migration found at source, e.g. "file://migrations".
func MigrateUp(source, dsn string) (*migrate.Migrate, error) {
	m, err := migrate.New(source, dsn)
	if err != nil {
		return nil, err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return nil, err
	}

	return m, nil
}
