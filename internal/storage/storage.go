// Package storage defines the Store interface, the key-value contract
// that every backend must satisfy. The rest of the application treats it
// as its only database.
//
// Flows receive a Store explicitly instead of reaching for a global, so
// tests can hand them the in-memory backend while the server runs on the
// SQLite file.
//
// There are no transactions and no compare-and-swap. Two writers racing
// on the same key both succeed and the last write wins.
package storage

// Store is the key-value contract.
type Store interface {
	// Get returns the raw value stored under key. ok is false when the
	// key is absent; err is reserved for backend failures.
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Remove deletes key. Removing an absent key is a no-op.
	Remove(key string) error

	// Keys lists every key currently present, sorted ascending.
	Keys() ([]string, error)
}
