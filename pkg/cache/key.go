package cache

import "fmt"

// Key identifies a cached item document.
type Key struct {
	// ItemID is the integer item id of the document.
	ItemID int
}

// String generates the deterministic Redis key string.
// Format: osrsdb:item:<id>
//
// Example:
//
//	osrsdb:item:11802
func (k Key) String() string {
	return fmt.Sprintf("osrsdb:item:%d", k.ItemID)
}
