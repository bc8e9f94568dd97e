package database

import (
	"database/sql/driver"
	"strings"

	"modernc.org/sqlite"
)

// unicodeLower is registered on every SQLite connection. The built-in LOWER
// only folds ASCII.
const unicodeLower = "unicode_lower"

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(unicodeLower, 1, lowerText); err != nil {
		panic(err)
	}
}

func lowerText(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// Fold names the SQL function that lower-cases text for case-insensitive
// matching in this dialect.
func (d Dialect) Fold() string {
	if d == Postgres {
		return "LOWER"
	}
	return unicodeLower
}
