package persistence

import (
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// dialect различия между PostgreSQL и SQLite, которые нельзя скрыть через Rebind.
// SQLite не поддерживает FOR SHARE/FOR UPDATE, зато открывает транзакции с
// _txlock=immediate и этим сериализует всех писателей.
type dialect struct {
	shareLock  string
	updateLock string
}

func dialectFor(db *sqlx.DB) dialect {
	if db.DriverName() == "postgres" {
		return dialect{shareLock: " FOR SHARE", updateLock: " FOR UPDATE"}
	}
	return dialect{}
}

const pqUniqueViolation = "23505"

// isUniqueViolation распознаёт нарушение UNIQUE/PRIMARY KEY у обоих драйверов.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			msg := liteErr.Error()
			return strings.Contains(msg, "UNIQUE constraint failed")
		}
	}

	return false
}
