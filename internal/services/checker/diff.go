package checker

import "github.com/Houeta/yard-scout/internal/models"

// NewItems returns the items of current whose ID does not appear in previous, in current's order.
func NewItems(current, previous models.Snapshot) []models.InventoryItem {
	if len(current) == 0 {
		return nil
	}

	known := previous.IDs()

	var added []models.InventoryItem
	for _, item := range current {
		if _, found := known[item.ID]; !found {
			added = append(added, item)
		}
	}
	return added
}
