//go:build cgo

package db

import (
	"net/url"

	_ "github.com/mattn/go-sqlite3"
)

const driverName = "sqlite3"

// dsnParams returns the connection parameters understood by go-sqlite3.
func dsnParams() url.Values {
	v := url.Values{}
	v.Set("_journal_mode", "WAL")   // readers do not block the writer
	v.Set("_synchronous", "NORMAL") // balance performance and durability
	v.Set("_busy_timeout", "5000")  // wait on a locked file instead of failing

	return v
}
