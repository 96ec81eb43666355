package store

import "fmt"

// Storage drivers accepted by Open.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Open returns the repository for driver. path is the JSON file for
// DriverFile and the database file for DriverSQLite.
func Open(driver, path string) (Repository, error) {
	switch driver {
	case "", DriverFile:
		return NewFileRepository(path), nil
	case DriverSQLite:
		return NewSQLiteRepository(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
