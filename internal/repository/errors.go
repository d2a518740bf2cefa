// Package repository defines the MySQL data access layer and the error
// values shared across repositories. Handlers translate the sentinels
// into HTTP statuses: ErrForbidden → 403, the not-found family → 404,
// ErrConflict → 409. Anything else is a persistence failure.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they neither own nor administer.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write collides with existing state:
// a duplicate unique value, or a delete of a row something still
// references.
var ErrConflict = errors.New("conflict")

// ErrNotFound is the parent of every not-found sentinel below, so callers
// can test errors.Is(err, ErrNotFound) without knowing the entity.
var ErrNotFound = errors.New("not found")

var (
	ErrUserNotFound      = notFound("user not found")
	ErrSessionNotFound   = notFound("session not found")
	ErrComboNotFound     = notFound("combo not found")
	ErrCharacterNotFound = notFound("character not found")
	ErrPositionNotFound  = notFound("position not found")
	ErrInputNotFound     = notFound("input not found")
	ErrReactionNotFound  = notFound("reaction not found")
)

// ErrEmailExists is returned when registering an email already in use.
var ErrEmailExists = &conflictError{msg: "email already exists"}

type notFoundError struct{ msg string }

func notFound(msg string) error            { return &notFoundError{msg: msg} }
func (e *notFoundError) Error() string     { return e.msg }
func (e *notFoundError) Is(err error) bool { return err == ErrNotFound }

type conflictError struct{ msg string }

func (e *conflictError) Error() string     { return e.msg }
func (e *conflictError) Is(err error) bool { return err == ErrConflict }

// MySQL server error numbers the repositories react to.
const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

func isMySQLError(err error, number uint16) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == number
}

// queryer is satisfied by both *sql.DB and *sql.Tx so read helpers can run
// inside or outside a transaction.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// affectedOrNotFound maps a zero-row update/delete onto notFoundErr.
func affectedOrNotFound(res sql.Result, notFoundErr error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFoundErr
	}
	return nil
}
