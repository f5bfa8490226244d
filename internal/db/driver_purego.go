//go:build !cgo

package db

import (
	"net/url"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// dsnParams returns the connection parameters understood by modernc sqlite.
func dsnParams() url.Values {
	v := url.Values{}
	v.Add("_pragma", "journal_mode(WAL)")
	v.Add("_pragma", "synchronous(NORMAL)")
	v.Add("_pragma", "busy_timeout(5000)")

	return v
}
