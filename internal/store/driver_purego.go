//go:build !cgo_sqlite

package store

import (
	_ "modernc.org/sqlite" // default: pure Go SQLite driver
)

const (
	driverName = "sqlite"
	driverType = "purego"
)
