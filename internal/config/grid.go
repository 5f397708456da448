package config

import (
	"errors"
	"fmt"

	"flyff-assist/internal/slots"
)

// ErrGridShape is returned when a slot_bars section is not 9 bars of 10
// slots.
var ErrGridShape = errors.New("slot grid must be 9x10")

// validateGrid accepts an absent grid (defaults) or exactly 9x10. A bar
// whose slots are null also takes the defaults.
func validateGrid(section string, bars []SlotBar) error {
	if bars == nil {
		return nil
	}
	if len(bars) != slots.Bars {
		return fmt.Errorf("%s.slot_bars has %d bars: %w", section, len(bars), ErrGridShape)
	}
	for i, bar := range bars {
		if bar.Slots != nil && len(bar.Slots) != slots.SlotsPerBar {
			return fmt.Errorf("%s.slot_bars[%d] has %d slots: %w", section, i, len(bar.Slots), ErrGridShape)
		}
	}
	return nil
}

// toGrid converts validated bars into a grid, filling anything absent with
// default slots.
func toGrid(bars []SlotBar) slots.Grid {
	grid := slots.DefaultGrid()
	if len(bars) != slots.Bars {
		return grid
	}
	for b, bar := range bars {
		if len(bar.Slots) != slots.SlotsPerBar {
			continue
		}
		copy(grid[b][:], bar.Slots)
	}
	return grid
}

// FromGrid converts a grid into its on-disk form.
func FromGrid(grid slots.Grid) []SlotBar {
	bars := make([]SlotBar, slots.Bars)
	for b := range grid {
		bars[b].Slots = append([]slots.Slot(nil), grid[b][:]...)
	}
	return bars
}
