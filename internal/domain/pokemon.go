package domain

import "time"

// Pokemon is a purchasable catalog entry. UUID is the externally exposed
// identifier; the storage layer keeps its own internal key.
type Pokemon struct {
	UUID      string
	Name      string
	Price     int64
	Stock     int
	CreatedAt time.Time
}
