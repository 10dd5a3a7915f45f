// Package database provides SQLite-backed persistence for scan records
// and fleet-wide statistics. It uses modernc.org/sqlite, a pure Go driver,
// so no cgo toolchain is required.
package database
