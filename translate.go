package sqlkit

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/golobby/sqlkit/errs"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgIntegrityClass      = "23"
)

// Translate maps a driver failure onto the errs taxonomy, keeping it as the
// cause. Errors already in the taxonomy are returned as is.
func (f *Factory) Translate(err error) error {
	return Translate(err)
}

func Translate(err error) error {
	if err == nil || errs.KindOf(err) != nil {
		return err
	}
	if kind := constraintKind(err); kind != nil {
		return errs.Wrap(kind, err, "constraint violated")
	}
	return errs.Wrap(errs.ErrExecution, err, "statement failed")
}

func constraintKind(err error) error {
	var my *mysql.MySQLError
	if errors.As(err, &my) {
		switch my.Number {
		case 1062:
			return errs.ErrDuplicateKey
		case 1216, 1217, 1451, 1452:
			return errs.ErrForeignKey
		case 1048, 1364, 3819:
			return errs.ErrConstraint
		}
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return postgresKind(string(pqErr.Code))
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return postgresKind(pgErr.Code)
	}
	var lite sqlite3.Error
	if errors.As(err, &lite) {
		switch lite.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return errs.ErrDuplicateKey
		case sqlite3.ErrConstraintForeignKey:
			return errs.ErrForeignKey
		}
		if lite.Code == sqlite3.ErrConstraint {
			return errs.ErrConstraint
		}
		return nil
	}
	var modern *sqlite.Error
	if errors.As(err, &modern) {
		switch modern.Code() {
		case sqlitelib.SQLITE_CONSTRAINT_UNIQUE, sqlitelib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return errs.ErrDuplicateKey
		case sqlitelib.SQLITE_CONSTRAINT_FOREIGNKEY:
			return errs.ErrForeignKey
		}
		if modern.Code()&0xff == sqlitelib.SQLITE_CONSTRAINT {
			return errs.ErrConstraint
		}
	}
	return nil
}

func postgresKind(code string) error {
	switch {
	case code == pgUniqueViolation:
		return errs.ErrDuplicateKey
	case code == pgForeignKeyViolation:
		return errs.ErrForeignKey
	case len(code) == 5 && code[:2] == pgIntegrityClass:
		return errs.ErrConstraint
	}
	return nil
}
