// Package repository holds the MySQL-backed stores.  The sentinel errors
// below let the service layer tell "row not found" apart from storage
// failures without inspecting driver errors.
package repository

import (
    "errors"

    "github.com/go-sql-driver/mysql"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned by UserRepo.Create when the unique email
// index rejects the insert.
var ErrEmailExists = errors.New("email already exists")

// ErrSessionNotFound is returned when no user_tokens row matches the
// presented refresh token, or when a conditional rotation matched nothing
// because another request rotated the row first.
var ErrSessionNotFound = errors.New("session not found")

// ErrCustomerNotFound is returned when no customer has the given id.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrMeasurementNotFound is returned when no measurement has the given id.
var ErrMeasurementNotFound = errors.New("measurement not found")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func isDuplicateKey(err error) bool {
    var me *mysql.MySQLError
    return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
