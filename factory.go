package sqlkit

import (
	"context"
	"database/sql"

	"github.com/golobby/sqlkit/errs"
	"github.com/golobby/sqlkit/qb"
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 256

// Session is one connection held for the duration of an execution call.
type Session interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	Close() error
}

// Pool hands out sessions.
type Pool interface {
	Session(ctx context.Context) (Session, error)
}

type dbPool struct {
	db *sql.DB
}

// Session pins one connection so that follow-up statements such as
// SELECT FOUND_ROWS() see the same server session.
func (p dbPool) Session(ctx context.Context) (Session, error) {
	return p.db.Conn(ctx)
}

// DBPool adapts a *sql.DB.
func DBPool(db *sql.DB) Pool {
	return dbPool{db: db}
}

// Factory creates templates bound to one pool and dialect. It is safe for
// concurrent use; the templates it creates are not.
type Factory struct {
	Name      string
	pool      Pool
	dialect   *qb.Dialect
	logger    Logger
	metrics   *Metrics
	cacheSize int
	cache     *lru.Cache[string, []segment]
	db        *sql.DB
}

type Option func(*Factory)

func WithLogger(l Logger) Option {
	return func(f *Factory) {
		f.logger = l
	}
}

func WithMetrics(m *Metrics) Option {
	return func(f *Factory) {
		f.metrics = m
	}
}

// WithCacheSize bounds the number of parsed templates kept.
func WithCacheSize(size int) Option {
	return func(f *Factory) {
		if size > 0 {
			f.cacheSize = size
		}
	}
}

func WithName(name string) Option {
	return func(f *Factory) {
		f.Name = name
	}
}

// New builds a factory over db.
func New(db *sql.DB, dialect *qb.Dialect, opts ...Option) (*Factory, error) {
	if db == nil {
		return nil, errs.IllegalArgument("db is nil")
	}
	f, err := NewWithPool(DBPool(db), dialect, opts...)
	if err != nil {
		return nil, err
	}
	f.db = db
	return f, nil
}

func NewWithPool(pool Pool, dialect *qb.Dialect, opts ...Option) (*Factory, error) {
	if pool == nil {
		return nil, errs.IllegalArgument("pool is nil")
	}
	if dialect == nil {
		return nil, errs.IllegalArgument("dialect is nil")
	}
	f := &Factory{pool: pool, dialect: dialect, cacheSize: defaultCacheSize}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = nopLogger()
	}
	cache, err := lru.New[string, []segment](f.cacheSize)
	if err != nil {
		return nil, err
	}
	f.cache = cache
	return f, nil
}

// Template starts a template over query.
func (f *Factory) Template(query string) *Template {
	return &Template{factory: f, query: query, params: map[string]any{}}
}

// Execute runs a statement without parameters and returns the update count.
func (f *Factory) Execute(ctx context.Context, query string) (int64, error) {
	return f.Template(query).Exec(ctx)
}

func (f *Factory) Dialect() *qb.Dialect {
	return f.dialect
}

func (f *Factory) Logger() Logger {
	return f.logger
}

// DB returns the database the factory was built over, or nil when it was
// built over a custom Pool.
func (f *Factory) DB() *sql.DB {
	return f.db
}

func (f *Factory) Close() error {
	if f.db == nil {
		return nil
	}
	return f.db.Close()
}

func (f *Factory) segments(query string) []segment {
	if s, ok := f.cache.Get(query); ok {
		return s
	}
	s := parse(query)
	f.cache.Add(query, s)
	return s
}
