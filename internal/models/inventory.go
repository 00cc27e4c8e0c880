package models

// InventoryItem is a single vehicle row from the yard inventory table.
type InventoryItem struct {
	ID        string `json:"id"`
	Make      string `json:"make"`
	Model     string `json:"model"`
	Year      string `json:"year"`
	Color     string `json:"color"`
	Location  string `json:"location"`
	DateAdded string `json:"dateAdded"`
}

// Snapshot - every item visible on the source at one point in time, in source order.
type Snapshot []InventoryItem

// IDs returns the set of item identifiers in the snapshot.
func (s Snapshot) IDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(s))
	for _, item := range s {
		ids[item.ID] = struct{}{}
	}
	return ids
}
