package sqlite

import (
	"database/sql/driver"

	"golang.org/x/text/cases"
	msqlite "modernc.org/sqlite"
)

// casefold is available to every connection as casefold(text). SQLite's own
// LIKE and lower() only fold ASCII.
func init() {
	msqlite.MustRegisterDeterministicScalarFunction("casefold", 1, casefoldFunc)
}

func casefoldFunc(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return foldCase(v), nil
	case []byte:
		return foldCase(string(v)), nil
	default:
		return v, nil
	}
}

// foldCase applies Unicode case folding. A Caser is stateful, so one is built per call.
func foldCase(s string) string {
	return cases.Fold().String(s)
}
