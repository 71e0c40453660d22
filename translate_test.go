package sqlkit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/golobby/sqlkit/errs"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, errs.ErrDuplicateKey},
		{"mysql foreign key", &mysql.MySQLError{Number: 1452}, errs.ErrForeignKey},
		{"mysql not null", &mysql.MySQLError{Number: 1048}, errs.ErrConstraint},
		{"mysql syntax", &mysql.MySQLError{Number: 1064}, errs.ErrExecution},
		{"pq unique", &pq.Error{Code: "23505"}, errs.ErrDuplicateKey},
		{"pq foreign key", &pq.Error{Code: "23503"}, errs.ErrForeignKey},
		{"pq check", &pq.Error{Code: "23514"}, errs.ErrConstraint},
		{"pgx unique", &pgconn.PgError{Code: "23505"}, errs.ErrDuplicateKey},
		{"pgx foreign key", &pgconn.PgError{Code: "23503"}, errs.ErrForeignKey},
		{"pgx undefined table", &pgconn.PgError{Code: "42P01"}, errs.ErrExecution},
		{"sqlite unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, errs.ErrDuplicateKey},
		{"sqlite foreign key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, errs.ErrForeignKey},
		{"sqlite not null", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}, errs.ErrConstraint},
		{"wrapped driver error", fmt.Errorf("insert user: %w", &pq.Error{Code: "23505"}), errs.ErrDuplicateKey},
		{"anything else", errors.New("connection reset"), errs.ErrExecution},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(tt.err)
			assert.ErrorIs(t, got, tt.kind)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	t.Run("taxonomy errors pass through", func(t *testing.T) {
		err := errs.IllegalState("already set")
		assert.Same(t, err, Translate(err))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Translate(nil))
	})
}
