// Package repository holds the MySQL and Redis backed stores used by the
// booking core.  Every store call funnels driver errors through classify
// so that higher layers only ever compare against the sentinels below.
package repository

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a lookup matches no row.  Lookups that
// filter by owner return it too, so a foreign row and a missing row
// look the same to the caller.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a primary or unique
// key.  For stay_reserved_dates this means the day is already taken.
var ErrDuplicate = errors.New("duplicate key")

// ErrTransient is returned for failures the caller may retry from
// scratch: deadlocks, lock wait timeouts and dropped connections.
var ErrTransient = errors.New("transient store failure")

// ErrConflict is returned when a delete or insert is refused by a
// foreign key, e.g. removing a user that still owns stays.
var ErrConflict = errors.New("conflict")

// MySQL server error numbers we map explicitly.
const (
	mysqlDupEntry        = 1062
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

// classify translates driver errors into repository sentinels.  The
// original error stays in the chain so it can still be logged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDupEntry:
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		case mysqlDeadlock, mysqlLockWaitTimeout:
			return fmt.Errorf("%w: %w", ErrTransient, err)
		case mysqlRowIsReferenced, mysqlNoReferencedRow:
			return fmt.Errorf("%w: %w", ErrConflict, err)
		}
	}
	return err
}

// classifyRedis marks Redis connectivity failures (refused or reset
// connections, timeouts, a closed client) as transient.
func classifyRedis(err error) error {
	if err == nil {
		return nil
	}
	var ne net.Error
	if errors.As(err, &ne) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, redis.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	return err
}
