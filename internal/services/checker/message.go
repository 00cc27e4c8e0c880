package checker

import (
	"fmt"
	"strings"

	"github.com/Houeta/yard-scout/internal/models"
)

// DefaultTitle names the listed items in notification messages.
const DefaultTitle = "vehicles"

// FormatMessage renders a notification with a summary line followed by one line per item.
func FormatMessage(title string, items []models.InventoryItem) string {
	if title == "" {
		title = DefaultTitle
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d new %s:", len(items), title)
	for _, item := range items {
		fmt.Fprintf(
			&sb,
			"\nDate Added: %s, Year: %s, Colour: %s, Location: %s",
			item.DateAdded, item.Year, item.Color, item.Location,
		)
	}
	return sb.String()
}
