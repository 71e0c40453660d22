package sqlkit

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/golobby/sqlkit/qb"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

var (
	registry   = map[string]*Factory{}
	registryMu sync.RWMutex
)

// Get returns the factory opened under name by Initialize.
func Get(name string) *Factory {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[name]
}

// Initialize opens every config and registers the factories by name.
func Initialize(confs ...*Config) error {
	for _, conf := range confs {
		f, err := Open(conf)
		if err != nil {
			return err
		}
		registryMu.Lock()
		registry[conf.Name] = f
		registryMu.Unlock()
	}
	return nil
}

// Open validates cfg and builds a factory over a new database handle.
func Open(cfg *Config, opts ...Option) (*Factory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dialect, err := getDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}
	level, err := ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger, err := NewLogger(level)
	if err != nil {
		return nil, err
	}
	db, err := getDB(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithName(cfg.Name), WithLogger(logger), WithCacheSize(cfg.TemplateCacheSize)}, opts...)
	f, err := New(db, dialect, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	return f, nil
}

func getDB(driver string, dsn string) (*sql.DB, error) {
	if driver == "pgx" {
		cfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, err
		}
		return stdlib.OpenDB(*cfg), nil
	}
	return sql.Open(driver, dsn)
}

func getDialect(driver string) (*qb.Dialect, error) {
	switch driver {
	case "mysql":
		return qb.Dialects.MySQL, nil
	case "sqlite", "sqlite3":
		return qb.Dialects.SQLite3, nil
	case "postgres", "pgx":
		return qb.Dialects.PostgreSQL, nil
	default:
		return nil, fmt.Errorf("no dialect matched with driver %q", driver)
	}
}
