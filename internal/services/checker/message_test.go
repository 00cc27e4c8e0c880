package checker_test

import (
	"testing"

	"github.com/Houeta/yard-scout/internal/models"
	"github.com/Houeta/yard-scout/internal/services/checker"
	"github.com/stretchr/testify/assert"
)

func TestFormatMessage(t *testing.T) {
	items := []models.InventoryItem{
		{ID: "1", Year: "2012", Color: "Red", Location: "Edmonton", DateAdded: "1/2/2025"},
		{ID: "2", Year: "2009", Color: "Blue", Location: "Calgary", DateAdded: "1/3/2025"},
	}

	t.Run("summary and one line per item", func(t *testing.T) {
		expected := "Found 2 new Hyundai Accents:\n" +
			"Date Added: 1/2/2025, Year: 2012, Colour: Red, Location: Edmonton\n" +
			"Date Added: 1/3/2025, Year: 2009, Colour: Blue, Location: Calgary"

		assert.Equal(t, expected, checker.FormatMessage("Hyundai Accents", items))
	})

	t.Run("default title", func(t *testing.T) {
		msg := checker.FormatMessage("", items[:1])

		assert.Equal(t, "Found 1 new vehicles:\nDate Added: 1/2/2025, Year: 2012, Colour: Red, Location: Edmonton", msg)
	})
}
